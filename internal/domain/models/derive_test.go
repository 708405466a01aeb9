package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	paid := DatePtr(2025, time.March, 25)

	tests := []struct {
		name     string
		supply   int64
		qty      int64
		paidDate *time.Time
		want     Derived
	}{
		{"round supply", 10000, 10, nil, Derived{Tax: 1000, Total: 11000, UnitFare: 1000}},
		{"tax rounds down", 12345, 7, nil, Derived{Tax: 1234, Total: 13579, UnitFare: 1763}},
		{"zero qty", 50000, 0, nil, Derived{Tax: 5000, Total: 55000, UnitFare: 0}},
		{"zero supply", 0, 3, nil, Derived{}},
		{"paid", 100000, 50, paid, Derived{Tax: 10000, Total: 110000, UnitFare: 2000, Paid: true}},
		{"tiny supply", 9, 2, nil, Derived{Tax: 0, Total: 9, UnitFare: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Derive(tt.supply, tt.qty, tt.paidDate))
		})
	}
}

func TestDeriveTaxMatchesFormula(t *testing.T) {
	for supply := int64(0); supply <= 5000; supply++ {
		d := Derive(supply, 0, nil)
		if d.Tax*10 > supply || (d.Tax+1)*10 <= supply {
			t.Fatalf("supply %d: tax %d is not floor(supply*0.1)", supply, d.Tax)
		}
		if d.Total != supply+d.Tax {
			t.Fatalf("supply %d: total %d", supply, d.Total)
		}
		if d.UnitFare != 0 {
			t.Fatalf("supply %d: unit fare %d with zero qty", supply, d.UnitFare)
		}
	}
}

func TestRoundedRatio(t *testing.T) {
	assert.Equal(t, int64(2143), RoundedRatio(150000, 70))
	assert.Equal(t, int64(3), RoundedRatio(5, 2))
	assert.Equal(t, int64(2), RoundedRatio(7, 4))
	assert.Equal(t, int64(0), RoundedRatio(100, 0))
	assert.Equal(t, int64(0), RoundedRatio(0, 9))
}
