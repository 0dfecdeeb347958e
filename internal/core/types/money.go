// Package types provides shared value types.
package types

import (
	"github.com/shopspring/decimal"
)

// Money is a monetary amount with full decimal precision.
// All cost, price, profit and margin arithmetic goes through decimal.Decimal
// so that weighted averages never accumulate float error.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// Prefer NewMoneyFromString where exact values matter.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from its decimal string form.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ZeroMoney returns the zero Money value.
func ZeroMoney() Money {
	return decimal.Zero
}

// MoneyFromInt creates a Money value from an integer amount of major units.
func MoneyFromInt(n int64) Money {
	return decimal.NewFromInt(n)
}
