package timeline

import (
	"fmt"

	"github.com/rpgo/wealth-planner/internal/domain"
	"github.com/rpgo/wealth-planner/pkg/money"
	"github.com/shopspring/decimal"
)

// Event is a scheduled mutation of the simulation state. The set of
// events is closed; resolve dispatches on the concrete type.
type Event interface {
	Kind() string
	validate() error
}

// SetAnnualIncome sets the year's income, optionally inflation adjusted.
type SetAnnualIncome struct {
	Amount            decimal.Decimal
	InflationAdjusted bool
}

// SetAnnualSpending sets the year's spending, optionally inflation adjusted.
type SetAnnualSpending struct {
	Amount            decimal.Decimal
	InflationAdjusted bool
}

// SetDepositPolicy installs a deposit policy.
type SetDepositPolicy struct {
	Policy *DepositPolicy
}

// SetWithdrawalPolicy installs a withdrawal policy.
type SetWithdrawalPolicy struct {
	Policy *WithdrawalPolicy
}

// SetRetirement marks the state retired and zeroes income. A non-nil
// WithdrawalPolicy replaces the active one.
type SetRetirement struct {
	WithdrawalPolicy *WithdrawalPolicy
}

// SetFreeCash overwrites free cash.
type SetFreeCash struct {
	Amount decimal.Decimal
}

// SetInvestmentAccountValues force-overrides account values. Nil fields
// are left alone; every touched account has its trackers reset.
type SetInvestmentAccountValues struct {
	TFSABalance           *decimal.Decimal
	RRSPBalance           *decimal.Decimal
	UnregisteredBalance   *decimal.Decimal
	UnregisteredCostBasis *decimal.Decimal
	TFSARoom              *decimal.Decimal
	RRSPRoom              *decimal.Decimal
}

func (SetAnnualIncome) Kind() string            { return domain.EventSetAnnualIncome }
func (SetAnnualSpending) Kind() string          { return domain.EventSetAnnualSpending }
func (SetDepositPolicy) Kind() string           { return domain.EventSetDepositPolicy }
func (SetWithdrawalPolicy) Kind() string        { return domain.EventSetWithdrawalPolicy }
func (SetRetirement) Kind() string              { return domain.EventSetRetirement }
func (SetFreeCash) Kind() string                { return domain.EventSetFreeCash }
func (SetInvestmentAccountValues) Kind() string { return domain.EventSetInvestmentAccount }

func nonNegative(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return fmt.Errorf("%w: %s %s is negative", domain.ErrInvalidInput, field, v)
	}
	return nil
}

func (e SetAnnualIncome) validate() error   { return nonNegative("annual income", e.Amount) }
func (e SetAnnualSpending) validate() error { return nonNegative("annual spending", e.Amount) }
func (e SetFreeCash) validate() error       { return nil }
func (e SetRetirement) validate() error     { return nil }

func (e SetDepositPolicy) validate() error {
	if e.Policy == nil {
		return fmt.Errorf("%w: deposit policy event without a policy", domain.ErrInvalidInput)
	}
	return nil
}

func (e SetWithdrawalPolicy) validate() error {
	if e.Policy == nil {
		return fmt.Errorf("%w: withdrawal policy event without a policy", domain.ErrInvalidInput)
	}
	return nil
}

func (e SetInvestmentAccountValues) validate() error {
	fields := []struct {
		name  string
		value *decimal.Decimal
	}{
		{"tfsa balance", e.TFSABalance},
		{"rrsp balance", e.RRSPBalance},
		{"unregistered balance", e.UnregisteredBalance},
		{"unregistered cost basis", e.UnregisteredCostBasis},
		{"tfsa room", e.TFSARoom},
		{"rrsp room", e.RRSPRoom},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if err := nonNegative(f.name, *f.value); err != nil {
			return err
		}
	}
	return nil
}

func resolve(ev Event, state *SimulationState, ctx YearContext) error {
	switch e := ev.(type) {
	case SetAnnualIncome:
		state.AnnualIncome = ctx.Scale(e.Amount, e.InflationAdjusted)
	case SetAnnualSpending:
		state.AnnualSpending = ctx.Scale(e.Amount, e.InflationAdjusted)
	case SetDepositPolicy:
		state.DepositPolicy = e.Policy
	case SetWithdrawalPolicy:
		state.WithdrawalPolicy = e.Policy
	case SetRetirement:
		state.Retired = true
		state.AnnualIncome = decimal.Zero
		if e.WithdrawalPolicy != nil {
			state.WithdrawalPolicy = e.WithdrawalPolicy
		}
	case SetFreeCash:
		state.FreeCash = money.Round(e.Amount)
	case SetInvestmentAccountValues:
		return e.apply(state)
	default:
		return fmt.Errorf("%w: unsupported event %T", domain.ErrInvalidInput, ev)
	}
	return nil
}

func (e SetInvestmentAccountValues) apply(state *SimulationState) error {
	inv := state.Investments
	if inv == nil {
		return fmt.Errorf("%w: account values event without investments", domain.ErrInvalidInput)
	}

	tfsa := inv.TFSA()
	if e.TFSABalance != nil || e.TFSARoom != nil {
		if e.TFSABalance != nil {
			if err := tfsa.SetBalance(*e.TFSABalance); err != nil {
				return err
			}
		}
		if e.TFSARoom != nil {
			if err := tfsa.SetContributionRoom(*e.TFSARoom); err != nil {
				return err
			}
		}
		tfsa.ResetYearTrackers()
	}

	rrsp := inv.RRSP()
	if e.RRSPBalance != nil || e.RRSPRoom != nil {
		if e.RRSPBalance != nil {
			if err := rrsp.SetBalance(*e.RRSPBalance); err != nil {
				return err
			}
		}
		if e.RRSPRoom != nil {
			if err := rrsp.SetContributionRoom(*e.RRSPRoom); err != nil {
				return err
			}
		}
		rrsp.ResetYearTrackers()
	}

	unregistered := inv.Unregistered()
	if e.UnregisteredBalance != nil || e.UnregisteredCostBasis != nil {
		if e.UnregisteredBalance != nil {
			if err := unregistered.SetBalance(*e.UnregisteredBalance); err != nil {
				return err
			}
		}
		basis := e.UnregisteredCostBasis
		if basis == nil {
			basis = e.UnregisteredBalance
		}
		if err := unregistered.SetCostBasis(*basis); err != nil {
			return err
		}
		unregistered.ResetYearTrackers()
	}
	return nil
}
