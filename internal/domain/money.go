package domain

import (
	"fmt"
	"math"
)

// DollarsToCents converts a float64 dollar amount to int64 cents.
// Inputs with more than 2 decimal places are rejected so configuration
// values like STARTING_BALANCE cannot silently lose precision. Uses
// math.Round after scaling to absorb floating-point representation noise.
func DollarsToCents(f float64) (int64, error) {
	// Scale by 1000 to expose a third decimal place, rounding first to
	// avoid artifacts like 1.10*1000 = 1099.9999....
	scaled := math.Round(f * 1000)
	if math.Mod(scaled, 10) != 0 {
		return 0, fmt.Errorf("monetary values must have at most 2 decimal places")
	}
	return int64(math.Round(f * 100)), nil
}

// CentsToDollars converts an int64 cents value to a float64 dollar amount.
func CentsToDollars(c int64) float64 {
	return float64(c) / 100.0
}

// ChangePercent returns the percentage move of price against a reference
// close, both in cents. The reference must be positive; the simulator
// guarantees that for every stock it produces.
func ChangePercent(price, lastClose int64) float64 {
	return float64(price-lastClose) / float64(lastClose) * 100
}
