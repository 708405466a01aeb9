package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/freightledger/internal/domain/models"
)

// amountField accepts a JSON number or a locale string such as "100,000".
type amountField struct {
	value *int64
}

func (a *amountField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		a.value = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := models.ParseAmount(s)
		if err != nil {
			return err
		}
		a.value = v
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a whole number: %w", models.ErrValidation)
	}
	a.value = &n
	return nil
}

// recordRequest is the JSON body of create and update calls.
type recordRequest struct {
	ShipDate     string      `json:"shipDate"`
	BizNumber    string      `json:"bizNumber"`
	ShopName     string      `json:"shopName"`
	Name         string      `json:"name"`
	Phone        string      `json:"phone"`
	Account      string      `json:"account"`
	Bank         string      `json:"bank"`
	Memo         string      `json:"memo"`
	Destination  string      `json:"destination"`
	SupplyAmount amountField `json:"supplyAmount"`
	Qty          amountField `json:"qty"`
	PaidDate     string      `json:"paidDate"`
}

func (r recordRequest) toInput() (models.RecordInput, error) {
	shipDate, err := parseDateField("shipDate", r.ShipDate)
	if err != nil {
		return models.RecordInput{}, err
	}
	paidDate, err := parseDateField("paidDate", r.PaidDate)
	if err != nil {
		return models.RecordInput{}, err
	}

	return models.RecordInput{
		ShipDate:     shipDate,
		BizNumber:    r.BizNumber,
		ShopName:     r.ShopName,
		Name:         r.Name,
		Phone:        r.Phone,
		Account:      r.Account,
		Bank:         r.Bank,
		Memo:         r.Memo,
		Destination:  r.Destination,
		SupplyAmount: r.SupplyAmount.value,
		Qty:          r.Qty.value,
		PaidDate:     paidDate,
	}, nil
}

func parseDateField(field, value string) (*time.Time, error) {
	t, err := models.ParseDate(value)
	if err != nil {
		return nil, &models.FieldError{Field: field, Reason: "must be YYYY-MM-DD"}
	}
	return t, nil
}

// bindRecord decodes the request body into a validated-later RecordInput.
func bindRecord(c *gin.Context) (models.RecordInput, bool) {
	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "detail": err.Error()})
		return models.RecordInput{}, false
	}
	in, err := req.toInput()
	if err != nil {
		writeError(c, err)
		return models.RecordInput{}, false
	}
	return in, true
}
