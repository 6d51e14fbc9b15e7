package timeline

import (
	"fmt"

	"github.com/rpgo/wealth-planner/internal/domain"
	"github.com/rpgo/wealth-planner/internal/investments"
	"github.com/rpgo/wealth-planner/pkg/money"
	"github.com/shopspring/decimal"
)

type policy struct {
	amount            decimal.Decimal
	order             []investments.AccountSelector
	inflationAdjusted bool
}

func newPolicy(kind string, amount decimal.Decimal, order []investments.AccountSelector, adjusted bool) (policy, error) {
	if amount.IsNegative() {
		return policy{}, fmt.Errorf("%w: %s amount %s is negative", domain.ErrInvalidInput, kind, amount)
	}
	if err := investments.ValidateOrder(order); err != nil {
		return policy{}, fmt.Errorf("%s: %w", kind, err)
	}
	return policy{
		amount:            money.Round(amount),
		order:             append([]investments.AccountSelector(nil), order...),
		inflationAdjusted: adjusted,
	}, nil
}

func (p policy) Amount() decimal.Decimal { return p.amount }
func (p policy) InflationAdjusted() bool { return p.inflationAdjusted }

// AccountOrder returns a copy of the account order.
func (p policy) AccountOrder() []investments.AccountSelector {
	return append([]investments.AccountSelector(nil), p.order...)
}

// AmountForYear scales the amount by factor when the policy is inflation
// adjusted.
func (p policy) AmountForYear(factor decimal.Decimal) (decimal.Decimal, error) {
	if !factor.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: inflation factor %s must be positive", domain.ErrInvalidInput, factor)
	}
	if !p.inflationAdjusted {
		return p.amount, nil
	}
	return money.Round(p.amount.Mul(factor)), nil
}

// DepositPolicy is an immutable annual contribution rule.
type DepositPolicy struct{ policy }

// NewDepositPolicy validates and builds a deposit policy.
func NewDepositPolicy(amount decimal.Decimal, order []investments.AccountSelector, inflationAdjusted bool) (*DepositPolicy, error) {
	p, err := newPolicy("deposit policy", amount, order, inflationAdjusted)
	if err != nil {
		return nil, err
	}
	return &DepositPolicy{p}, nil
}

// WithdrawalPolicy is an immutable annual withdrawal rule.
type WithdrawalPolicy struct{ policy }

// NewWithdrawalPolicy validates and builds a withdrawal policy.
func NewWithdrawalPolicy(amount decimal.Decimal, order []investments.AccountSelector, inflationAdjusted bool) (*WithdrawalPolicy, error) {
	p, err := newPolicy("withdrawal policy", amount, order, inflationAdjusted)
	if err != nil {
		return nil, err
	}
	return &WithdrawalPolicy{p}, nil
}
