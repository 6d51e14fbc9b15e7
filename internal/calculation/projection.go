package calculation

import (
	"context"
	"errors"
	"fmt"

	"github.com/rpgo/wealth-planner/internal/domain"
	"github.com/rpgo/wealth-planner/internal/investments"
	"github.com/rpgo/wealth-planner/internal/timeline"
	"github.com/rpgo/wealth-planner/pkg/money"
	"github.com/shopspring/decimal"
)

// cashFlow is what applyCashFlow moved during one year.
type cashFlow struct {
	income       decimal.Decimal
	spending     decimal.Decimal
	contribution decimal.Decimal
	withdrawal   decimal.Decimal
	depleted     bool
}

// GenerateAnnualProjection runs every bucket of tl against state and
// returns one summary per year.
func (ce *CalculationEngine) GenerateAnnualProjection(ctx context.Context, cfg *domain.Configuration, tl *timeline.Timeline, state *timeline.SimulationState) ([]domain.YearSummary, error) {
	inv := state.Investments
	if inv == nil {
		return nil, fmt.Errorf("%w: simulation state has no investments", domain.ErrInvalidInput)
	}
	summaries := make([]domain.YearSummary, 0, tl.Len())

	for bucket, ok := tl.Next(); ok; bucket, ok = tl.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		yc, err := timeline.NewYearContext(bucket.Year(), tl.StartYear(), cfg.InflationRate)
		if err != nil {
			return nil, err
		}
		if err := bucket.Resolve(state, yc); err != nil {
			return nil, err
		}
		flow, err := ce.applyCashFlow(state, yc)
		if err != nil {
			return nil, fmt.Errorf("age %d: %w", bucket.Year(), err)
		}

		result, err := inv.IncrementYear(flow.income, yc.InflationFactor(), yc.NextYearInflationFactor())
		if err != nil {
			return nil, fmt.Errorf("age %d: %w", bucket.Year(), err)
		}
		state.FreeCash = money.Round(state.FreeCash.Sub(result.Tax.TaxOwed))

		total, err := inv.TotalValue(yc.InflationFactor(), cfg.LiquidationYears)
		if err != nil {
			return nil, fmt.Errorf("age %d: %w", bucket.Year(), err)
		}

		summary := domain.YearSummary{
			Age:              bucket.Year(),
			YearIndex:        yc.YearIndex(),
			InflationFactor:  yc.InflationFactor(),
			Income:           flow.income,
			Spending:         flow.spending,
			Contribution:     flow.contribution,
			Withdrawal:       flow.withdrawal,
			NetTaxableIncome: result.Tax.NetTaxableIncome,
			TaxOwed:          result.Tax.TaxOwed,
			FreeCash:         state.FreeCash,
			Investments:      total,
			NetWorth:         money.Sum(state.FreeCash, total),
			TFSA:             inv.TFSA().Balance(),
			RRSP:             inv.RRSP().Balance(),
			Unregistered:     inv.Unregistered().Balance(),
			CostBasis:        inv.Unregistered().CostBasis(),
			IsRetired:        state.Retired,
			Depleted:         flow.depleted,
		}
		ce.Logger.Debugf("age %d: income=%s tax=%s free_cash=%s net_worth=%s",
			summary.Age, summary.Income.StringFixed(2), summary.TaxOwed.StringFixed(2),
			summary.FreeCash.StringFixed(2), summary.NetWorth.StringFixed(2))
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// applyCashFlow moves the year's income, withdrawal, contribution and
// spending through free cash, in that order.
func (ce *CalculationEngine) applyCashFlow(state *timeline.SimulationState, yc timeline.YearContext) (cashFlow, error) {
	flow := cashFlow{
		income:       money.Round(state.AnnualIncome),
		spending:     money.Round(state.AnnualSpending),
		contribution: decimal.Zero,
		withdrawal:   decimal.Zero,
	}
	state.FreeCash = money.Sum(state.FreeCash, flow.income)

	if state.Retired && state.WithdrawalPolicy != nil {
		amount, err := state.WithdrawalPolicy.AmountForYear(yc.InflationFactor())
		if err != nil {
			return flow, err
		}
		if amount.IsPositive() {
			withdrawn, depleted, err := ce.withdraw(state.Investments, amount, state.WithdrawalPolicy.AccountOrder(), yc.Year())
			if err != nil {
				return flow, err
			}
			flow.withdrawal = withdrawn
			flow.depleted = depleted
			state.FreeCash = money.Sum(state.FreeCash, withdrawn)
		}
	}

	if state.DepositPolicy != nil {
		amount, err := state.DepositPolicy.AmountForYear(yc.InflationFactor())
		if err != nil {
			return flow, err
		}
		contribution := decimal.Min(amount, money.NonNegative(state.FreeCash))
		if contribution.IsPositive() {
			deposited, err := ce.deposit(state.Investments, contribution, state.DepositPolicy.AccountOrder(), yc.Year())
			if err != nil {
				return flow, err
			}
			flow.contribution = deposited
			state.FreeCash = money.Round(state.FreeCash.Sub(deposited))
		}
	}

	state.FreeCash = money.Round(state.FreeCash.Sub(flow.spending))
	return flow, nil
}

// withdraw tries the policy order, then every account, then whatever is
// left. depleted reports a shortfall.
func (ce *CalculationEngine) withdraw(inv *investments.Investments, amount decimal.Decimal, order []investments.AccountSelector, age int) (decimal.Decimal, bool, error) {
	err := inv.Withdraw(amount, order)
	if err == nil {
		return amount, false, nil
	}
	if !errors.Is(err, domain.ErrInsufficientCapacity) {
		return decimal.Zero, false, err
	}

	full := investments.CompleteOrder(order)
	ce.Logger.Warnf("age %d: %v; retrying with %v", age, err, full)
	err = inv.Withdraw(amount, full)
	if err == nil {
		return amount, false, nil
	}
	if !errors.Is(err, domain.ErrInsufficientCapacity) {
		return decimal.Zero, false, err
	}

	available, err := inv.WithdrawalCapacity(full)
	if err != nil {
		return decimal.Zero, false, err
	}
	ce.Logger.Warnf("age %d: portfolio depleted, withdrawing %s of %s", age, available.StringFixed(2), amount.StringFixed(2))
	if available.IsPositive() {
		if err := inv.Withdraw(available, full); err != nil {
			return decimal.Zero, false, err
		}
	}
	return available, true, nil
}

// deposit places amount through order, capping it at the order's room
// when the order has no taxable account.
func (ce *CalculationEngine) deposit(inv *investments.Investments, amount decimal.Decimal, order []investments.AccountSelector, age int) (decimal.Decimal, error) {
	_, err := inv.Deposit(amount, order)
	if err == nil {
		return amount, nil
	}
	if !errors.Is(err, domain.ErrInsufficientCapacity) {
		return decimal.Zero, err
	}

	capacity, _, err := inv.DepositCapacity(order)
	if err != nil {
		return decimal.Zero, err
	}
	ce.Logger.Warnf("age %d: contribution %s capped at remaining room %s", age, amount.StringFixed(2), capacity.StringFixed(2))
	if !capacity.IsPositive() {
		return decimal.Zero, nil
	}
	if _, err := inv.Deposit(capacity, order); err != nil {
		return decimal.Zero, err
	}
	return capacity, nil
}
