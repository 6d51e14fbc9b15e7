package tax

import (
	"fmt"

	"github.com/rpgo/wealth-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Two jurisdictions only: federal (Canada) and provincial (Ontario),
//    each a marginal bracket schedule with an unbounded top bracket.
//
// 2. Bracket thresholds are indexed by the year's inflation factor; rates
//    are never indexed.
//
// 3. No credits, surtaxes or health premiums are modelled. Each
//    jurisdiction's tax is rounded to cents before they are summed.

// Bracket is one marginal band. An invalid (null) UpperLimit marks the
// top, unbounded bracket.
type Bracket struct {
	UpperLimit decimal.NullDecimal
	Rate       decimal.Decimal
}

// Upto builds a bounded bracket.
func Upto(limit, rate float64) Bracket {
	return Bracket{UpperLimit: decimal.NewNullDecimal(decimal.NewFromFloat(limit)), Rate: decimal.NewFromFloat(rate)}
}

// Above builds the unbounded top bracket.
func Above(rate float64) Bracket {
	return Bracket{Rate: decimal.NewFromFloat(rate)}
}

// Bounded reports whether the bracket has a finite upper limit.
func (b Bracket) Bounded() bool {
	return b.UpperLimit.Valid
}

// BracketsFromConfig converts configured brackets; a nil upper limit
// becomes the unbounded top bracket.
func BracketsFromConfig(cfg []domain.BracketConfig) []Bracket {
	if len(cfg) == 0 {
		return nil
	}
	out := make([]Bracket, len(cfg))
	for i, b := range cfg {
		out[i] = Bracket{Rate: b.Rate}
		if b.UpperLimit != nil {
			out[i].UpperLimit = decimal.NewNullDecimal(*b.UpperLimit)
		}
	}
	return out
}

// Schedule is a named, sorted list of brackets.
type Schedule struct {
	Name     string
	Brackets []Bracket
}

// Validate checks that thresholds strictly increase, rates lie in [0, 1]
// and only the last bracket is unbounded.
func (s Schedule) Validate() error {
	if len(s.Brackets) == 0 {
		return fmt.Errorf("%w: %s schedule has no brackets", domain.ErrInvalidInput, s.Name)
	}
	prev := decimal.Zero
	for i, b := range s.Brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: %s bracket %d rate %s outside [0, 1]", domain.ErrInvalidInput, s.Name, i, b.Rate)
		}
		last := i == len(s.Brackets)-1
		if !b.Bounded() {
			if !last {
				return fmt.Errorf("%w: %s bracket %d is unbounded but not last", domain.ErrInvalidInput, s.Name, i)
			}
			continue
		}
		if last {
			return fmt.Errorf("%w: %s top bracket must be unbounded", domain.ErrInvalidInput, s.Name)
		}
		if !b.UpperLimit.Decimal.GreaterThan(prev) {
			return fmt.Errorf("%w: %s bracket %d limit %s not above %s", domain.ErrInvalidInput, s.Name, i, b.UpperLimit.Decimal, prev)
		}
		prev = b.UpperLimit.Decimal
	}
	return nil
}

// Tax computes progressive tax on income with every finite threshold
// multiplied by adjustment. The result is rounded to cents.
func (s Schedule) Tax(income, adjustment decimal.Decimal) (decimal.Decimal, error) {
	if income.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: taxable income %s is negative", domain.ErrInvalidInput, income)
	}
	if !adjustment.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: bracket adjustment %s must be positive", domain.ErrInvalidInput, adjustment)
	}

	var total decimal.Decimal
	lower := decimal.Zero
	for _, b := range s.Brackets {
		if !b.Bounded() {
			total = total.Add(income.Sub(lower).Mul(b.Rate))
			break
		}
		upper := b.UpperLimit.Decimal.Mul(adjustment)
		if income.LessThanOrEqual(upper) {
			total = total.Add(income.Sub(lower).Mul(b.Rate))
			break
		}
		total = total.Add(upper.Sub(lower).Mul(b.Rate))
		lower = upper
	}
	return total.Round(2), nil
}
