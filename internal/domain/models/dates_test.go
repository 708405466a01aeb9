package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    *time.Time
		wantErr bool
	}{
		{"", nil, false},
		{"  ", nil, false},
		{"2025-03-05", DatePtr(2025, time.March, 5), false},
		{"2025-03-05T00:00:00.000Z", DatePtr(2025, time.March, 5), false},
		{"2025-03-05T23:10:00+09:00", DatePtr(2025, time.March, 5), false},
		{"05/03/2025", nil, true},
		{"2025-13-01", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseYearMonth(t *testing.T) {
	ym, err := ParseYearMonth("2025-03")
	require.NoError(t, err)
	assert.Equal(t, YearMonth{Year: 2025, Month: time.March}, ym)
	assert.Equal(t, "2025-03", ym.String())

	_, err = ParseYearMonth("2025-3-01")
	assert.ErrorIs(t, err, ErrInvalidYearMonth)
}

func TestYearMonthHelpers(t *testing.T) {
	jan := YearMonth{Year: 2025, Month: time.January}

	assert.Equal(t, YearMonth{Year: 2024, Month: time.December}, jan.Previous())
	assert.True(t, jan.Previous().Before(jan))
	assert.False(t, jan.Before(jan))
	assert.True(t, jan.Contains(DatePtr(2025, time.January, 31)))
	assert.False(t, jan.Contains(DatePtr(2024, time.January, 31)))
	assert.False(t, jan.Contains(nil))
}

func TestParseFilterFallsBackToDefaults(t *testing.T) {
	f := ParseFilter("not-a-date", "2025-03-31", "PAID", "sideways")

	assert.Nil(t, f.StartDate)
	assert.Equal(t, DatePtr(2025, time.March, 31), f.EndDate)
	assert.Equal(t, PaidStatusPaid, f.PaidStatus)
	assert.Equal(t, SortAsc, f.SortOrder)
	assert.True(t, f.HasDateBounds())

	assert.Equal(t, DefaultFilter(), ParseFilter("", "", "", ""))
}
