package tax

import (
	"github.com/shopspring/decimal"
)

// Default 2026 schedules.
var (
	CanadaBrackets = []Bracket{
		Upto(58523, 0.14),
		Upto(117045, 0.205),
		Upto(181440, 0.26),
		Upto(258482, 0.29),
		Above(0.33),
	}
	OntarioBrackets = []Bracket{
		Upto(53891, 0.0505),
		Upto(107785, 0.0915),
		Upto(150000, 0.1116),
		Upto(220000, 0.1216),
		Above(0.1316),
	}
)

// Calculator combines the federal and provincial schedules.
type Calculator struct {
	Federal    Schedule
	Provincial Schedule
}

// NewOntarioCalculator returns a calculator with the default Canada and
// Ontario schedules.
func NewOntarioCalculator() *Calculator {
	return &Calculator{
		Federal:    Schedule{Name: "canada", Brackets: CanadaBrackets},
		Provincial: Schedule{Name: "ontario", Brackets: OntarioBrackets},
	}
}

// NewCalculator builds a calculator from custom schedules. Empty bracket
// lists fall back to the defaults.
func NewCalculator(federal, provincial []Bracket) (*Calculator, error) {
	c := NewOntarioCalculator()
	if len(federal) > 0 {
		c.Federal.Brackets = federal
	}
	if len(provincial) > 0 {
		c.Provincial.Brackets = provincial
	}
	if err := c.Federal.Validate(); err != nil {
		return nil, err
	}
	if err := c.Provincial.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// FederalTax computes federal tax on income with thresholds indexed by adjustment.
func (c *Calculator) FederalTax(income, adjustment decimal.Decimal) (decimal.Decimal, error) {
	return c.Federal.Tax(income, adjustment)
}

// ProvincialTax computes provincial tax on income with thresholds indexed by adjustment.
func (c *Calculator) ProvincialTax(income, adjustment decimal.Decimal) (decimal.Decimal, error) {
	return c.Provincial.Tax(income, adjustment)
}

// CombinedTax sums both jurisdictions.
func (c *Calculator) CombinedTax(income, adjustment decimal.Decimal) (decimal.Decimal, error) {
	federal, err := c.FederalTax(income, adjustment)
	if err != nil {
		return decimal.Zero, err
	}
	provincial, err := c.ProvincialTax(income, adjustment)
	if err != nil {
		return decimal.Zero, err
	}
	return federal.Add(provincial).Round(2), nil
}
