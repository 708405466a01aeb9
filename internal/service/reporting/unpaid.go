package reporting

import "github.com/mamadbah2/freightledger/internal/domain/models"

// Unpaid totals the records without a payment date. Totals are derived from
// the raw amounts rather than read from the stored fields.
func Unpaid(records []models.Record) models.UnpaidSummary {
	var summary models.UnpaidSummary
	for _, r := range records {
		derived := models.Derive(r.SupplyAmount, r.Qty, r.PaidDate)
		if derived.Paid {
			continue
		}
		summary.Count++
		summary.TotalAmount += derived.Total
	}
	summary.AllPaid = summary.Count == 0
	return summary
}
