package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ErrInvalidYearMonth is returned when a month selector is not YYYY-MM.
var ErrInvalidYearMonth = errors.New("invalid year-month")

// Date builds a calendar date at UTC midnight.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DatePtr is Date returning a pointer, handy for optional record dates.
func DatePtr(year int, month time.Month, day int) *time.Time {
	d := Date(year, month, day)
	return &d
}

// NormalizeDate keeps the calendar day of t in its own location and drops the
// clock part. A nil or zero time stays absent.
func NormalizeDate(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	d := Date(t.Year(), t.Month(), t.Day())
	return &d
}

// ParseDate reads a calendar date in YYYY-MM-DD or RFC 3339 form. An empty
// string is an absent date, not an error.
func ParseDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse(dateLayout, value); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return NormalizeDate(&t), nil
	}
	return nil, fmt.Errorf("parse date %q: expected YYYY-MM-DD", value)
}

// FormatDate renders an optional date as YYYY-MM-DD, or "-" when absent.
func FormatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(dateLayout)
}

// YearMonth identifies a monthly bucket.
type YearMonth struct {
	Year  int        `json:"year" bson:"year"`
	Month time.Month `json:"month" bson:"month"`
}

// YearMonthOf returns the bucket containing t.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth reads a YYYY-MM selector.
func ParseYearMonth(value string) (YearMonth, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(value))
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidYearMonth, value)
	}
	return YearMonthOf(t), nil
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Contains reports whether the optional date falls inside the month.
func (ym YearMonth) Contains(t *time.Time) bool {
	if t == nil {
		return false
	}
	return t.Year() == ym.Year && t.Month() == ym.Month
}

// Previous returns the month before ym.
func (ym YearMonth) Previous() YearMonth {
	return YearMonthOf(Date(ym.Year, ym.Month, 1).AddDate(0, -1, 0))
}

// Before orders buckets chronologically.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}
