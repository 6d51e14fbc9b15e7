package timeline

import (
	"fmt"

	"github.com/rpgo/wealth-planner/internal/domain"
	"github.com/rpgo/wealth-planner/pkg/money"
	"github.com/shopspring/decimal"
)

// YearContext carries the inflation factors of one simulated year. It is
// built fresh for every year and never mutated.
type YearContext struct {
	year                    int
	startYear               int
	inflationFactor         decimal.Decimal
	nextYearInflationFactor decimal.Decimal
}

// InflationFactor returns (1 + rate)^yearIndex.
func InflationFactor(rate decimal.Decimal, yearIndex int) (decimal.Decimal, error) {
	if yearIndex < 0 {
		return decimal.Zero, fmt.Errorf("%w: year index %d is negative", domain.ErrInvalidInput, yearIndex)
	}
	base := decimal.NewFromInt(1).Add(rate)
	if !base.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: inflation rate %s gives a non-positive factor", domain.ErrInvalidInput, rate)
	}
	factor := decimal.NewFromInt(1)
	for i := 0; i < yearIndex; i++ {
		factor = factor.Mul(base)
	}
	return factor, nil
}

// NewYearContext builds the context for year in a run starting at startYear.
func NewYearContext(year, startYear int, inflationRate decimal.Decimal) (YearContext, error) {
	index := year - startYear
	factor, err := InflationFactor(inflationRate, index)
	if err != nil {
		return YearContext{}, err
	}
	next, err := InflationFactor(inflationRate, index+1)
	if err != nil {
		return YearContext{}, err
	}
	return YearContext{year: year, startYear: startYear, inflationFactor: factor, nextYearInflationFactor: next}, nil
}

func (c YearContext) Year() int                                { return c.year }
func (c YearContext) StartYear() int                           { return c.startYear }
func (c YearContext) YearIndex() int                           { return c.year - c.startYear }
func (c YearContext) InflationFactor() decimal.Decimal         { return c.inflationFactor }
func (c YearContext) NextYearInflationFactor() decimal.Decimal { return c.nextYearInflationFactor }

// Scale applies this year's factor to an amount when adjusted is set.
func (c YearContext) Scale(amount decimal.Decimal, adjusted bool) decimal.Decimal {
	if !adjusted {
		return money.Round(amount)
	}
	return money.Round(amount.Mul(c.inflationFactor))
}
