package service

import (
	"math"

	ierr "github.com/flexprice/connectcheckout/internal/errors"
	"github.com/shopspring/decimal"
)

// DefaultApplicationFeeRate is the platform's share of every direct charge
var DefaultApplicationFeeRate = decimal.RequireFromString("0.10")

var maxFeeAmount = decimal.NewFromInt(math.MaxInt64)

// ComputeApplicationFee returns floor(0.1 * basePrice * quantity) in minor units.
// Negative inputs and fees that do not fit in an int64 are validation errors.
func ComputeApplicationFee(basePrice, quantity int64) (int64, error) {
	return NewFeeCalculator(DefaultApplicationFeeRate).Compute(basePrice, quantity)
}

// FeeCalculator computes the platform fee at a fixed rate. The product is
// taken in arbitrary precision and only narrowed to int64 after flooring.
type FeeCalculator struct {
	rate decimal.Decimal
}

func NewFeeCalculator(rate decimal.Decimal) *FeeCalculator {
	return &FeeCalculator{rate: rate}
}

func (f *FeeCalculator) Rate() decimal.Decimal {
	return f.rate
}

func (f *FeeCalculator) Compute(basePrice, quantity int64) (int64, error) {
	if basePrice < 0 || quantity < 0 {
		return 0, ierr.NewError("fee inputs must be non-negative").
			WithHintf("Invalid order: base price %d, quantity %d", basePrice, quantity).
			Mark(ierr.ErrValidation)
	}

	fee := decimal.NewFromInt(basePrice).
		Mul(decimal.NewFromInt(quantity)).
		Mul(f.rate).
		Floor()
	if fee.IsNegative() || fee.GreaterThan(maxFeeAmount) {
		return 0, ierr.NewError("application fee out of range").
			WithHint("Order total is too large").
			WithReportableDetails(map[string]any{
				"base_price": basePrice,
				"quantity":   quantity,
				"fee":        fee.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	return fee.IntPart(), nil
}
