// Package money holds the rounding and display rules shared by every
// monetary computation in the planner.
package money

import (
	"fmt"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the ISO code used when rendering amounts.
const Currency = gomoney.CAD

// Places is the number of decimal places of the currency's minor unit.
const Places = 2

// Round rounds an amount to the currency's minor unit.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// NonNegative clamps negative amounts to zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Sum adds the given amounts and rounds the result.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return Round(total)
}

// Deflate converts a nominal amount into year-zero dollars.
func Deflate(amount, inflationFactor decimal.Decimal) (decimal.Decimal, error) {
	if !inflationFactor.IsPositive() {
		return decimal.Zero, fmt.Errorf("inflation factor must be positive, got %s", inflationFactor)
	}
	return Round(amount.Div(inflationFactor)), nil
}

// Cents returns the amount expressed in minor units.
func Cents(d decimal.Decimal) int64 {
	return Round(d).Shift(Places).IntPart()
}

// Format renders an amount with currency symbol and thousands separators,
// for example "$1,234.56" or "-$12.00".
func Format(d decimal.Decimal) string {
	return gomoney.New(Cents(d), Currency).Display()
}

// FormatPercent renders a rate such as 0.025 as "2.50%".
func FormatPercent(rate decimal.Decimal) string {
	return rate.Shift(2).StringFixed(2) + "%"
}
