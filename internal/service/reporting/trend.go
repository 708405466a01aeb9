package reporting

import (
	"sort"

	"github.com/mamadbah2/freightledger/internal/domain/models"
)

// MonthlyTrend returns one point per month that has dated records, in
// chronological order.
func MonthlyTrend(records []models.Record) []models.TrendPoint {
	byMonth := make(map[models.YearMonth]*models.TrendPoint)
	for _, r := range records {
		if r.ShipDate == nil {
			continue
		}
		ym := models.YearMonthOf(*r.ShipDate)
		point, ok := byMonth[ym]
		if !ok {
			point = &models.TrendPoint{Month: ym}
			byMonth[ym] = point
		}
		point.TotalSum += models.Derive(r.SupplyAmount, r.Qty, r.PaidDate).Total
		point.SupplySum += r.SupplyAmount
		point.QtySum += r.Qty
	}

	points := make([]models.TrendPoint, 0, len(byMonth))
	for _, point := range byMonth {
		point.UnitFareAvg = models.RoundedRatio(point.SupplySum, point.QtySum)
		points = append(points, *point)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Month.Before(points[j].Month)
	})
	return points
}
