package models

import "time"

// MonthlyTotals summarises the rows of a monthly report.
type MonthlyTotals struct {
	Count       int   `json:"count" bson:"count"`
	SupplySum   int64 `json:"supplySum" bson:"supply_sum"`
	QtySum      int64 `json:"qtySum" bson:"qty_sum"`
	AvgUnitFare int64 `json:"avgUnitFare" bson:"avg_unit_fare"`
}

// MonthlyReport lists the shipments of one month, oldest first.
type MonthlyReport struct {
	Month  YearMonth     `json:"month" bson:"month"`
	Rows   []Record      `json:"rows" bson:"-"`
	Totals MonthlyTotals `json:"totals" bson:"totals"`
}

// MonthBucket aggregates one calendar month of a yearly report.
type MonthBucket struct {
	Month       int   `json:"month"`
	TotalSum    int64 `json:"totalSum"`
	QtySum      int64 `json:"qtySum"`
	Count       int   `json:"count"`
	UnitFareAvg int64 `json:"unitFareAvg"`
}

// YearTotals sums the twelve buckets of a yearly report.
type YearTotals struct {
	TotalSum      int64 `json:"totalSum"`
	QtySum        int64 `json:"qtySum"`
	Count         int   `json:"count"`
	TotalUnitFare int64 `json:"totalUnitFare"`
}

// YearlyReport always carries twelve month buckets, January first.
type YearlyReport struct {
	Year   int             `json:"year"`
	Months [12]MonthBucket `json:"months"`
	Totals YearTotals      `json:"totals"`
}

// UnpaidSummary is the outstanding balance across all records.
type UnpaidSummary struct {
	Count       int   `json:"count" bson:"count"`
	TotalAmount int64 `json:"totalAmount" bson:"total_amount"`
	AllPaid     bool  `json:"allPaid" bson:"all_paid"`
}

// TrendPoint is one month of the shipment trend series.
type TrendPoint struct {
	Month       YearMonth `json:"month"`
	TotalSum    int64     `json:"totalSum"`
	SupplySum   int64     `json:"supplySum"`
	QtySum      int64     `json:"qtySum"`
	UnitFareAvg int64     `json:"unitFareAvg"`
}

// ReportSnapshot is a closed monthly report as archived by the scheduler.
type ReportSnapshot struct {
	Month       YearMonth     `bson:"month" json:"month"`
	Totals      MonthlyTotals `bson:"totals" json:"totals"`
	Unpaid      UnpaidSummary `bson:"unpaid" json:"unpaid"`
	RecordIDs   []string      `bson:"record_ids" json:"record_ids"`
	GeneratedAt time.Time     `bson:"generated_at" json:"generated_at"`
}
