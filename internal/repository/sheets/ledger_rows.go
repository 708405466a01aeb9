package sheets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mamadbah2/freightledger/internal/domain/models"
)

// ErrBlankRow marks a row with no values at all.
var ErrBlankRow = errors.New("blank row")

// Ledger import columns, in sheet order.
const (
	colShipDate = iota
	colBizNumber
	colShopName
	colName
	colPhone
	colAccount
	colBank
	colMemo
	colDestination
	colSupplyAmount
	colQty
	colPaidDate
	ledgerColumns
)

// ParseLedgerRow converts one legacy ledger row into a record input. Trailing
// empty cells may be missing, as the Sheets API trims them.
func ParseLedgerRow(row []interface{}) (models.RecordInput, error) {
	cells := make([]string, ledgerColumns)
	blank := true
	for i := 0; i < len(row) && i < ledgerColumns; i++ {
		if row[i] == nil {
			continue
		}
		cells[i] = strings.TrimSpace(fmt.Sprint(row[i]))
		if cells[i] != "" {
			blank = false
		}
	}
	if blank {
		return models.RecordInput{}, ErrBlankRow
	}

	shipDate, err := models.ParseDate(cells[colShipDate])
	if err != nil {
		return models.RecordInput{}, fmt.Errorf("shipDate: %w", err)
	}
	paidDate, err := models.ParseDate(cells[colPaidDate])
	if err != nil {
		return models.RecordInput{}, fmt.Errorf("paidDate: %w", err)
	}
	supply, err := models.ParseAmount(cells[colSupplyAmount])
	if err != nil {
		return models.RecordInput{}, fmt.Errorf("supplyAmount: %w", err)
	}
	qty, err := models.ParseAmount(cells[colQty])
	if err != nil {
		return models.RecordInput{}, fmt.Errorf("qty: %w", err)
	}

	return models.RecordInput{
		ShipDate:     shipDate,
		BizNumber:    cells[colBizNumber],
		ShopName:     cells[colShopName],
		Name:         cells[colName],
		Phone:        cells[colPhone],
		Account:      cells[colAccount],
		Bank:         cells[colBank],
		Memo:         cells[colMemo],
		Destination:  cells[colDestination],
		SupplyAmount: supply,
		Qty:          qty,
		PaidDate:     paidDate,
	}, nil
}
