package calculation

import (
	"fmt"

	"github.com/rpgo/wealth-planner/internal/domain"
	"github.com/rpgo/wealth-planner/internal/investments"
	"github.com/rpgo/wealth-planner/internal/tax"
	"github.com/rpgo/wealth-planner/internal/timeline"
	"github.com/shopspring/decimal"
)

// BuildInvestments creates the portfolio described by the configuration.
// Accounts start empty; the first year's account values event loads the
// initial balances.
func BuildInvestments(cfg *domain.Configuration) (*investments.Investments, error) {
	if len(cfg.Assets) == 0 {
		return nil, fmt.Errorf("%w: no assets configured", domain.ErrInvalidInput)
	}
	catalogue := make(map[string]*investments.AssetType, len(cfg.Assets))
	var fallback *investments.AssetType
	for _, a := range cfg.Assets {
		asset, err := investments.NewAsset(a)
		if err != nil {
			return nil, err
		}
		if _, dup := catalogue[a.Name]; dup {
			return nil, fmt.Errorf("%w: asset %q declared twice", domain.ErrInvalidInput, a.Name)
		}
		catalogue[a.Name] = asset
		if fallback == nil {
			fallback = asset
		}
	}
	pick := func(account, name string) (*investments.AssetType, error) {
		if name == "" {
			return fallback, nil
		}
		asset, ok := catalogue[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s asset %q is not declared", domain.ErrInvalidInput, account, name)
		}
		return asset, nil
	}

	tfsaAsset, err := pick("tfsa", cfg.AccountAssets.TFSA)
	if err != nil {
		return nil, err
	}
	rrspAsset, err := pick("rrsp", cfg.AccountAssets.RRSP)
	if err != nil {
		return nil, err
	}
	unregisteredAsset, err := pick("unregistered", cfg.AccountAssets.Unregistered)
	if err != nil {
		return nil, err
	}

	calculator, err := tax.NewCalculator(tax.BracketsFromConfig(cfg.Tax.Federal), tax.BracketsFromConfig(cfg.Tax.Provincial))
	if err != nil {
		return nil, fmt.Errorf("tax schedule: %w", err)
	}

	return investments.NewPortfolio(investments.PortfolioSpec{
		TFSA:         investments.AccountSpec{Asset: tfsaAsset},
		RRSP:         investments.AccountSpec{Asset: rrspAsset},
		Unregistered: investments.AccountSpec{Asset: unregisteredAsset},
		Limits:       investments.LimitsFromConfig(cfg.Limits),
		Tax:          calculator,
	})
}

// BuildTimeline schedules the plan's events over [start_age, end_age].
//
// Per bucket the insertion order is: initial values (first year only),
// income, spending, deposit policy, retirement, then configured events.
func BuildTimeline(cfg *domain.Configuration) (*timeline.Timeline, error) {
	start, end := cfg.StartAge, cfg.EndAge
	tl, err := timeline.New(start, end)
	if err != nil {
		return nil, err
	}

	initial := cfg.Initial
	values := timeline.SetInvestmentAccountValues{
		TFSABalance:           decimalPtr(initial.TFSABalance),
		RRSPBalance:           decimalPtr(initial.RRSPBalance),
		UnregisteredBalance:   decimalPtr(initial.UnregisteredBalance),
		UnregisteredCostBasis: initial.UnregisteredCostBasis,
		TFSARoom:              decimalPtr(initial.TFSARoom),
		RRSPRoom:              decimalPtr(initial.RRSPRoom),
	}
	if err := tl.AddEvent(start, values); err != nil {
		return nil, err
	}
	if err := tl.AddEvent(start, timeline.SetFreeCash{Amount: initial.FreeCash}); err != nil {
		return nil, err
	}

	order, err := investments.ParseOrder(cfg.AccountOrder)
	if err != nil {
		return nil, fmt.Errorf("account_order: %w", err)
	}
	deposit, err := timeline.NewDepositPolicy(cfg.AnnualInvestmentContribution, order, true)
	if err != nil {
		return nil, err
	}

	workingEnd := end
	retireAt, retiring := retirementYear(cfg)
	if retiring {
		workingEnd = retireAt - 1
	}
	if workingEnd >= start {
		if err := tl.AddEventRange(start, workingEnd, timeline.SetAnnualIncome{Amount: cfg.AnnualIncome, InflationAdjusted: true}); err != nil {
			return nil, err
		}
	}
	if err := tl.AddEventRange(start, end, timeline.SetAnnualSpending{Amount: cfg.AnnualSpending, InflationAdjusted: true}); err != nil {
		return nil, err
	}
	if workingEnd >= start {
		if err := tl.AddEventRange(start, workingEnd, timeline.SetDepositPolicy{Policy: deposit}); err != nil {
			return nil, err
		}
	}

	if retiring {
		stop, err := timeline.NewDepositPolicy(decimal.Zero, order, true)
		if err != nil {
			return nil, err
		}
		withdrawal, err := retirementPolicy(cfg, order)
		if err != nil {
			return nil, err
		}
		if err := tl.AddEvent(retireAt, timeline.SetDepositPolicy{Policy: stop}); err != nil {
			return nil, err
		}
		if err := tl.AddEvent(retireAt, timeline.SetRetirement{WithdrawalPolicy: withdrawal}); err != nil {
			return nil, err
		}
	}

	for i, ec := range cfg.Events {
		ev, err := buildEvent(ec, order, cfg.Retirement)
		if err != nil {
			return nil, fmt.Errorf("events[%d]: %w", i, err)
		}
		if err := tl.AddEventRange(ec.StartAge, ec.LastAge(), ev); err != nil {
			return nil, fmt.Errorf("events[%d]: %w", i, err)
		}
	}
	return tl, nil
}

// retirementYear clamps a retirement age before the start to the first
// year; an age past the end means no retirement inside the run.
func retirementYear(cfg *domain.Configuration) (int, bool) {
	if cfg.RetirementAge == nil {
		return 0, false
	}
	age := *cfg.RetirementAge
	if age > cfg.EndAge {
		return 0, false
	}
	if age < cfg.StartAge {
		age = cfg.StartAge
	}
	return age, true
}

func retirementPolicy(cfg *domain.Configuration, fallback []investments.AccountSelector) (*timeline.WithdrawalPolicy, error) {
	r := cfg.Retirement
	if r == nil {
		return nil, nil
	}
	order := fallback
	if len(r.AccountOrder) > 0 {
		parsed, err := investments.ParseOrder(r.AccountOrder)
		if err != nil {
			return nil, fmt.Errorf("retirement.account_order: %w", err)
		}
		order = parsed
	}
	adjusted := r.InflationAdjusted == nil || *r.InflationAdjusted
	return timeline.NewWithdrawalPolicy(r.AnnualWithdrawal, order, adjusted)
}

func buildEvent(ec domain.EventConfig, defaultOrder []investments.AccountSelector, retirement *domain.RetirementConfig) (timeline.Event, error) {
	order := defaultOrder
	if len(ec.AccountOrder) > 0 {
		parsed, err := investments.ParseOrder(ec.AccountOrder)
		if err != nil {
			return nil, err
		}
		order = parsed
	} else if retirement != nil && len(retirement.AccountOrder) > 0 &&
		(ec.Type == domain.EventSetWithdrawalPolicy || ec.Type == domain.EventSetRetirement) {
		parsed, err := investments.ParseOrder(retirement.AccountOrder)
		if err != nil {
			return nil, err
		}
		order = parsed
	}

	switch ec.Type {
	case domain.EventSetAnnualIncome:
		return timeline.SetAnnualIncome{Amount: ec.Amount, InflationAdjusted: ec.Adjusted()}, nil
	case domain.EventSetAnnualSpending:
		return timeline.SetAnnualSpending{Amount: ec.Amount, InflationAdjusted: ec.Adjusted()}, nil
	case domain.EventSetDepositPolicy:
		p, err := timeline.NewDepositPolicy(ec.Amount, order, ec.Adjusted())
		if err != nil {
			return nil, err
		}
		return timeline.SetDepositPolicy{Policy: p}, nil
	case domain.EventSetWithdrawalPolicy:
		p, err := timeline.NewWithdrawalPolicy(ec.Amount, order, ec.Adjusted())
		if err != nil {
			return nil, err
		}
		return timeline.SetWithdrawalPolicy{Policy: p}, nil
	case domain.EventSetRetirement:
		if !ec.Amount.IsPositive() {
			return timeline.SetRetirement{}, nil
		}
		p, err := timeline.NewWithdrawalPolicy(ec.Amount, order, ec.Adjusted())
		if err != nil {
			return nil, err
		}
		return timeline.SetRetirement{WithdrawalPolicy: p}, nil
	case domain.EventSetFreeCash:
		return timeline.SetFreeCash{Amount: ec.Amount}, nil
	case domain.EventSetInvestmentAccount:
		v := ec.AccountValues
		if v == nil {
			return nil, fmt.Errorf("%w: %s requires account_values", domain.ErrInvalidInput, ec.Type)
		}
		return timeline.SetInvestmentAccountValues{
			TFSABalance:           v.TFSABalance,
			RRSPBalance:           v.RRSPBalance,
			UnregisteredBalance:   v.UnregisteredBalance,
			UnregisteredCostBasis: v.UnregisteredCostBasis,
			TFSARoom:              v.TFSARoom,
			RRSPRoom:              v.RRSPRoom,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown event type %q", domain.ErrInvalidInput, ec.Type)
	}
}

// NewState returns a fresh simulation state around inv.
func NewState(inv *investments.Investments) *timeline.SimulationState {
	return timeline.NewSimulationState(inv)
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }
