package models

import (
	"strings"
	"time"
)

// PaidStatus selects records by payment state.
type PaidStatus string

const (
	PaidStatusAll    PaidStatus = "all"
	PaidStatusPaid   PaidStatus = "paid"
	PaidStatusUnpaid PaidStatus = "unpaid"
)

// SortOrder orders records by ship date.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// FilterConfig drives the record list view. Date bounds are inclusive.
type FilterConfig struct {
	StartDate  *time.Time `json:"startDate"`
	EndDate    *time.Time `json:"endDate"`
	PaidStatus PaidStatus `json:"paidStatus"`
	SortOrder  SortOrder  `json:"sortOrder"`
}

// DefaultFilter shows unpaid records, oldest shipment first.
func DefaultFilter() FilterConfig {
	return FilterConfig{PaidStatus: PaidStatusUnpaid, SortOrder: SortAsc}
}

// ParseFilter builds a FilterConfig from loose query values. It never fails:
// malformed dates are dropped and unknown options fall back to the defaults.
func ParseFilter(startDate, endDate, paidStatus, sortOrder string) FilterConfig {
	f := DefaultFilter()

	if d, err := ParseDate(startDate); err == nil {
		f.StartDate = d
	}
	if d, err := ParseDate(endDate); err == nil {
		f.EndDate = d
	}

	switch status := PaidStatus(strings.ToLower(strings.TrimSpace(paidStatus))); status {
	case PaidStatusAll, PaidStatusPaid, PaidStatusUnpaid:
		f.PaidStatus = status
	}

	switch order := SortOrder(strings.ToLower(strings.TrimSpace(sortOrder))); order {
	case SortAsc, SortDesc:
		f.SortOrder = order
	}

	return f
}

// HasDateBounds reports whether either date bound is set.
func (f FilterConfig) HasDateBounds() bool {
	return f.StartDate != nil || f.EndDate != nil
}
