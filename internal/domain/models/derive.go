package models

import "time"

// Derive computes tax, total, unit fare and payment status for a record.
//
// Tax is 10% of the supply amount rounded down, and the unit fare is the
// supply amount per unit rounded down. A zero quantity yields a zero unit fare.
// Inputs are expected to be non-negative; validation happens before derivation.
func Derive(supplyAmount, qty int64, paidDate *time.Time) Derived {
	tax := supplyAmount / 10

	var unitFare int64
	if qty > 0 {
		unitFare = supplyAmount / qty
	}

	return Derived{
		Tax:      tax,
		Total:    supplyAmount + tax,
		UnitFare: unitFare,
		Paid:     paidDate != nil,
	}
}

// RoundedRatio divides num by den rounding half up, returning 0 when den is
// not positive. Aggregate unit fares use it; per-record fares round down.
func RoundedRatio(num, den int64) int64 {
	if den <= 0 {
		return 0
	}
	return (2*num + den) / (2 * den)
}
