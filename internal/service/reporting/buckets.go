package reporting

import (
	"github.com/mamadbah2/freightledger/internal/domain/models"
)

// MonthlyView lists the records shipped in month ym, oldest first, with their
// totals. Undated records never belong to a month.
func MonthlyView(records []models.Record, ym models.YearMonth) models.MonthlyReport {
	rows := make([]models.Record, 0)
	var totals models.MonthlyTotals

	for _, r := range records {
		if !ym.Contains(r.ShipDate) {
			continue
		}
		rows = append(rows, r)
		totals.Count++
		totals.SupplySum += r.SupplyAmount
		totals.QtySum += r.Qty
	}
	sortByShipDate(rows)

	totals.AvgUnitFare = models.RoundedRatio(totals.SupplySum, totals.QtySum)

	return models.MonthlyReport{Month: ym, Rows: rows, Totals: totals}
}

// YearlyView aggregates the records shipped in year into twelve month buckets.
// Every bucket is present even when empty. The yearly unit fare is computed
// from the grand totals, not from the monthly averages.
func YearlyView(records []models.Record, year int) models.YearlyReport {
	report := models.YearlyReport{Year: year}
	for i := range report.Months {
		report.Months[i].Month = i + 1
	}

	for _, r := range records {
		if r.ShipDate == nil || r.ShipDate.Year() != year {
			continue
		}
		bucket := &report.Months[int(r.ShipDate.Month())-1]
		bucket.TotalSum += r.SupplyAmount
		bucket.QtySum += r.Qty
		bucket.Count++
	}

	for i := range report.Months {
		bucket := &report.Months[i]
		bucket.UnitFareAvg = models.RoundedRatio(bucket.TotalSum, bucket.QtySum)

		report.Totals.TotalSum += bucket.TotalSum
		report.Totals.QtySum += bucket.QtySum
		report.Totals.Count += bucket.Count
	}
	report.Totals.TotalUnitFare = models.RoundedRatio(report.Totals.TotalSum, report.Totals.QtySum)

	return report
}
