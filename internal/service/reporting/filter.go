package reporting

import (
	"sort"
	"time"

	"github.com/mamadbah2/freightledger/internal/domain/models"
)

// ApplyFilter returns the records matching f, ordered by ship date. The input
// slice is left untouched and the same input always yields the same output.
func ApplyFilter(records []models.Record, f models.FilterConfig) []models.Record {
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if !withinDateBounds(r.ShipDate, f) {
			continue
		}
		if !matchesPaidStatus(r.PaidDate != nil, f.PaidStatus) {
			continue
		}
		out = append(out, r)
	}

	if f.SortOrder == models.SortDesc {
		sortByShipDateDesc(out)
	} else {
		sortByShipDate(out)
	}
	return out
}

// withinDateBounds applies the inclusive bounds. An undated record only passes
// when no bound is set.
func withinDateBounds(shipDate *time.Time, f models.FilterConfig) bool {
	if !f.HasDateBounds() {
		return true
	}
	if shipDate == nil {
		return false
	}
	if f.StartDate != nil && shipDate.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && shipDate.After(*f.EndDate) {
		return false
	}
	return true
}

func matchesPaidStatus(paid bool, status models.PaidStatus) bool {
	switch status {
	case models.PaidStatusAll:
		return true
	case models.PaidStatusPaid:
		return paid
	default:
		return !paid
	}
}

// sortKey maps a missing ship date to the zero instant so it sorts first.
func sortKey(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func sortByShipDate(records []models.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return sortKey(records[i].ShipDate).Before(sortKey(records[j].ShipDate))
	})
}

func sortByShipDateDesc(records []models.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return sortKey(records[i].ShipDate).After(sortKey(records[j].ShipDate))
	})
}
