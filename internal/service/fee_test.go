package service

import (
	"math"
	"testing"

	ierr "github.com/flexprice/connectcheckout/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeApplicationFee(t *testing.T) {
	tests := []struct {
		name      string
		basePrice int64
		quantity  int64
		want      int64
		wantErr   bool
	}{
		{name: "round amount", basePrice: 1000, quantity: 3, want: 300},
		{name: "floors instead of rounding", basePrice: 999, quantity: 1, want: 99},
		{name: "zero price", basePrice: 0, quantity: 7, want: 0},
		{name: "zero quantity", basePrice: 1000, quantity: 0, want: 0},
		{name: "below one minor unit", basePrice: 9, quantity: 1, want: 0},
		{name: "product floors", basePrice: 5, quantity: 3, want: 1},
		{name: "product beyond int64", basePrice: 9_000_000_000_000_000_000, quantity: 5, want: 4_500_000_000_000_000_000},
		{name: "fee exactly max int64", basePrice: math.MaxInt64, quantity: 10, want: math.MaxInt64},
		{name: "fee beyond int64", basePrice: 1000, quantity: math.MaxInt64, wantErr: true},
		{name: "fee far beyond int64", basePrice: 1000, quantity: 100_000_000_000_000_000, wantErr: true},
		{name: "negative price", basePrice: -1, quantity: 1, wantErr: true},
		{name: "negative quantity", basePrice: 1000, quantity: -3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeApplicationFee(tt.basePrice, tt.quantity)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, ierr.IsValidation(err))
				assert.Zero(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeApplicationFeeMatchesIntegerFloor(t *testing.T) {
	for p := int64(0); p <= 250; p++ {
		for q := int64(0); q <= 12; q++ {
			got, err := ComputeApplicationFee(p, q)
			require.NoError(t, err)
			assert.Equal(t, p*q/10, got, "p=%d q=%d", p, q)
		}
	}
}

func TestFeeCalculatorCustomRate(t *testing.T) {
	calc := NewFeeCalculator(decimal.RequireFromString("0.15"))
	assert.True(t, calc.Rate().Equal(decimal.RequireFromString("0.15")))

	fee, err := calc.Compute(999, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(149), fee)

	fee, err = calc.Compute(1000, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(450), fee)

	fee, err = NewFeeCalculator(decimal.Zero).Compute(1000, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(0), fee)
}
