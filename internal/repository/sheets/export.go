package sheets

import (
	"context"
	"fmt"

	"github.com/mamadbah2/freightledger/internal/domain/models"
)

// ReportExporter appends closed monthly reports to a spreadsheet range.
type ReportExporter struct {
	repo        Repository
	exportRange string
}

// NewReportExporter builds an exporter writing below exportRange.
func NewReportExporter(repo Repository, exportRange string) *ReportExporter {
	return &ReportExporter{repo: repo, exportRange: exportRange}
}

// ExportMonthly writes one row per shipment followed by a totals row.
func (e *ReportExporter) ExportMonthly(ctx context.Context, report models.MonthlyReport) error {
	if err := e.repo.WriteRows(ctx, e.exportRange, MonthlyRows(report)); err != nil {
		return fmt.Errorf("export monthly report %s: %w", report.Month, err)
	}
	return nil
}

// MonthlyRows lays out a monthly report as spreadsheet rows: month, ship
// date, shop, label, supply, tax, total, qty, unit fare, paid date.
func MonthlyRows(report models.MonthlyReport) [][]interface{} {
	month := report.Month.String()
	rows := make([][]interface{}, 0, len(report.Rows)+1)
	for _, r := range report.Rows {
		rows = append(rows, []interface{}{
			month,
			models.FormatDate(r.ShipDate),
			r.ShopName,
			r.Label(),
			r.SupplyAmount,
			r.Tax,
			r.Total,
			r.Qty,
			r.UnitFare,
			models.FormatDate(r.PaidDate),
		})
	}
	rows = append(rows, []interface{}{
		month,
		"TOTAL",
		fmt.Sprintf("%d shipments", report.Totals.Count),
		"",
		report.Totals.SupplySum,
		"",
		"",
		report.Totals.QtySum,
		report.Totals.AvgUnitFare,
		"",
	})
	return rows
}
