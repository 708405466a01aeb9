package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrValidation marks input that was rejected before derivation. Every
// *FieldError unwraps to it.
var ErrValidation = errors.New("invalid record")

// FieldError describes the field that failed validation.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrValidation }

// Derived holds the fields computed from a record's raw inputs.
type Derived struct {
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
	UnitFare int64 `json:"unitFare"`
	Paid     bool  `json:"paid"`
}

// RecordFields is the document body of a shipment record: raw inputs plus the
// derived fields persisted alongside them.
type RecordFields struct {
	ShipDate     *time.Time `json:"shipDate"`
	BizNumber    string     `json:"bizNumber"`
	ShopName     string     `json:"shopName"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone"`
	Account      string     `json:"account"`
	Bank         string     `json:"bank"`
	Memo         string     `json:"memo"`
	Destination  string     `json:"destination"`
	SupplyAmount int64      `json:"supplyAmount"`
	Qty          int64      `json:"qty"`
	PaidDate     *time.Time `json:"paidDate"`
	Derived
}

// Normalize truncates dates to calendar days and recomputes every derived
// field from the raw inputs. Stored derived values are never trusted.
func (f RecordFields) Normalize() RecordFields {
	f.ShipDate = NormalizeDate(f.ShipDate)
	f.PaidDate = NormalizeDate(f.PaidDate)
	f.Derived = Derive(f.SupplyAmount, f.Qty, f.PaidDate)
	return f
}

// Record is a stored shipment/invoice transaction.
type Record struct {
	ID string `json:"id"`
	RecordFields
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Normalize returns a copy of the record with derived fields recomputed.
func (r Record) Normalize() Record {
	r.RecordFields = r.RecordFields.Normalize()
	return r
}

// NormalizeRecords re-derives every record of a snapshot into a fresh slice.
func NormalizeRecords(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Normalize()
	}
	return out
}

// Label is the human readable headline of a record: memo with destination.
func (r Record) Label() string {
	switch {
	case r.Memo == "":
		return "-"
	case r.Destination == "":
		return r.Memo
	default:
		return fmt.Sprintf("%s (%s)", r.Memo, r.Destination)
	}
}

// RecordInput is the parsed form of a create or edit request. Numeric fields
// are pointers so a missing value can be told apart from zero.
type RecordInput struct {
	ShipDate     *time.Time
	BizNumber    string
	ShopName     string
	Name         string
	Phone        string
	Account      string
	Bank         string
	Memo         string
	Destination  string
	SupplyAmount *int64
	Qty          *int64
	PaidDate     *time.Time
}

// Upper bounds for a single record. They keep the derived total and the
// monthly and yearly sums well inside int64.
const (
	MaxSupplyAmount int64 = 1_000_000_000_000
	MaxQty          int64 = 1_000_000_000
)

// Validate checks the required numeric fields.
func (in RecordInput) Validate() error {
	switch {
	case in.SupplyAmount == nil:
		return &FieldError{Field: "supplyAmount", Reason: "is required"}
	case *in.SupplyAmount < 0:
		return &FieldError{Field: "supplyAmount", Reason: "must not be negative"}
	case *in.SupplyAmount > MaxSupplyAmount:
		return &FieldError{Field: "supplyAmount", Reason: fmt.Sprintf("must not exceed %d", MaxSupplyAmount)}
	case in.Qty == nil:
		return &FieldError{Field: "qty", Reason: "is required"}
	case *in.Qty < 0:
		return &FieldError{Field: "qty", Reason: "must not be negative"}
	case *in.Qty > MaxQty:
		return &FieldError{Field: "qty", Reason: fmt.Sprintf("must not exceed %d", MaxQty)}
	}
	return nil
}

// Fields validates the input and returns the document body with derived
// fields computed.
func (in RecordInput) Fields() (RecordFields, error) {
	if err := in.Validate(); err != nil {
		return RecordFields{}, err
	}

	fields := RecordFields{
		ShipDate:     in.ShipDate,
		BizNumber:    in.BizNumber,
		ShopName:     in.ShopName,
		Name:         in.Name,
		Phone:        in.Phone,
		Account:      in.Account,
		Bank:         in.Bank,
		Memo:         in.Memo,
		Destination:  in.Destination,
		SupplyAmount: *in.SupplyAmount,
		Qty:          *in.Qty,
		PaidDate:     in.PaidDate,
	}
	return fields.Normalize(), nil
}
