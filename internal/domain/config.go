package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Configuration is the complete input of a planning run. It is assembled
// once at startup (embedded defaults plus an optional personal override)
// and passed explicitly to the engine.
type Configuration struct {
	StartAge         int             `yaml:"start_age" json:"start_age" validate:"gte=0"`
	EndAge           int             `yaml:"end_age" json:"end_age" validate:"gte=0"`
	RetirementAge    *int            `yaml:"retirement_age,omitempty" json:"retirement_age,omitempty" validate:"omitempty,gte=0"`
	InflationRate    decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate" validate:"gt=-1,lte=1"`
	LiquidationYears int             `yaml:"liquidation_years" json:"liquidation_years" validate:"gte=1"`

	AnnualIncome                 decimal.Decimal `yaml:"annual_income" json:"annual_income" validate:"gte=0"`
	AnnualSpending               decimal.Decimal `yaml:"annual_spending" json:"annual_spending" validate:"gte=0"`
	AnnualInvestmentContribution decimal.Decimal `yaml:"annual_investment_contribution" json:"annual_investment_contribution" validate:"gte=0"`
	AccountOrder                 []string        `yaml:"account_order" json:"account_order" validate:"min=1,max=3,dive,oneof=tfsa rrsp unregistered"`

	Initial       InitialValues     `yaml:"initial" json:"initial"`
	Assets        []AssetConfig     `yaml:"assets" json:"assets" validate:"min=1,dive"`
	AccountAssets AccountAssets     `yaml:"account_assets" json:"account_assets"`
	Limits        ContributionRules `yaml:"limits" json:"limits"`
	Retirement    *RetirementConfig `yaml:"retirement,omitempty" json:"retirement,omitempty"`
	Tax           TaxConfig         `yaml:"tax" json:"tax"`
	Events        []EventConfig     `yaml:"events,omitempty" json:"events,omitempty" validate:"dive"`
	Scenarios     []Scenario        `yaml:"scenarios,omitempty" json:"scenarios,omitempty" validate:"dive"`
}

// InitialValues are applied at the first simulated year.
type InitialValues struct {
	FreeCash              decimal.Decimal  `yaml:"free_cash" json:"free_cash"`
	TFSABalance           decimal.Decimal  `yaml:"tfsa_balance" json:"tfsa_balance" validate:"gte=0"`
	RRSPBalance           decimal.Decimal  `yaml:"rrsp_balance" json:"rrsp_balance" validate:"gte=0"`
	UnregisteredBalance   decimal.Decimal  `yaml:"unregistered_balance" json:"unregistered_balance" validate:"gte=0"`
	UnregisteredCostBasis *decimal.Decimal `yaml:"unregistered_cost_basis,omitempty" json:"unregistered_cost_basis,omitempty" validate:"omitempty,gte=0"`
	TFSARoom              decimal.Decimal  `yaml:"tfsa_room" json:"tfsa_room" validate:"gte=0"`
	RRSPRoom              decimal.Decimal  `yaml:"rrsp_room" json:"rrsp_room" validate:"gte=0"`
}

// Asset kinds understood by the configuration.
const (
	AssetKindEquityIndex = "equity_index"
	AssetKindFixedIncome = "fixed_income"
)

// AssetConfig declares a named asset type.
type AssetConfig struct {
	Name       string          `yaml:"name" json:"name" validate:"required"`
	Kind       string          `yaml:"kind" json:"kind" validate:"oneof=equity_index fixed_income"`
	GrowthRate decimal.Decimal `yaml:"growth_rate" json:"growth_rate" validate:"gte=0"`
	IncomeRate decimal.Decimal `yaml:"income_rate" json:"income_rate" validate:"gte=0"`
}

// AccountAssets names the asset held by each account. Empty entries fall
// back to the first declared asset.
type AccountAssets struct {
	TFSA         string `yaml:"tfsa,omitempty" json:"tfsa,omitempty"`
	RRSP         string `yaml:"rrsp,omitempty" json:"rrsp,omitempty"`
	Unregistered string `yaml:"unregistered,omitempty" json:"unregistered,omitempty"`
}

// ContributionRules holds the jurisdiction's room and inclusion constants.
type ContributionRules struct {
	TFSAAnnualLimit           decimal.Decimal `yaml:"tfsa_annual_limit" json:"tfsa_annual_limit" validate:"gte=0"`
	RRSPAnnualLimit           decimal.Decimal `yaml:"rrsp_annual_limit" json:"rrsp_annual_limit" validate:"gte=0"`
	RRSPContributionRate      decimal.Decimal `yaml:"rrsp_contribution_rate" json:"rrsp_contribution_rate" validate:"gte=0,lte=1"`
	CapitalGainsInclusionRate decimal.Decimal `yaml:"capital_gains_inclusion_rate" json:"capital_gains_inclusion_rate" validate:"gte=0,lte=1"`
}

// RetirementConfig is the withdrawal policy installed at retirement.
type RetirementConfig struct {
	AnnualWithdrawal  decimal.Decimal `yaml:"annual_withdrawal" json:"annual_withdrawal" validate:"gte=0"`
	AccountOrder      []string        `yaml:"account_order" json:"account_order" validate:"min=1,max=3,dive,oneof=tfsa rrsp unregistered"`
	InflationAdjusted *bool           `yaml:"inflation_adjusted,omitempty" json:"inflation_adjusted,omitempty"`
}

// TaxConfig optionally replaces the built-in bracket schedules.
type TaxConfig struct {
	Federal    []BracketConfig `yaml:"federal,omitempty" json:"federal,omitempty" validate:"dive"`
	Provincial []BracketConfig `yaml:"provincial,omitempty" json:"provincial,omitempty" validate:"dive"`
}

// BracketConfig is one marginal bracket; a nil upper limit marks the top
// bracket.
type BracketConfig struct {
	UpperLimit *decimal.Decimal `yaml:"upper_limit" json:"upper_limit" validate:"omitempty,gt=0"`
	Rate       decimal.Decimal  `yaml:"rate" json:"rate" validate:"gte=0,lte=1"`
}

// Event types accepted in the events list.
const (
	EventSetAnnualIncome      = "set_annual_income"
	EventSetAnnualSpending    = "set_annual_spending"
	EventSetDepositPolicy     = "set_deposit_policy"
	EventSetWithdrawalPolicy  = "set_withdrawal_policy"
	EventSetRetirement        = "set_retirement"
	EventSetFreeCash          = "set_free_cash"
	EventSetInvestmentAccount = "set_account_values"
)

// EventConfig schedules an extra event on one age or an age range.
type EventConfig struct {
	Type              string               `yaml:"type" json:"type" validate:"oneof=set_annual_income set_annual_spending set_deposit_policy set_withdrawal_policy set_retirement set_free_cash set_account_values"`
	StartAge          int                  `yaml:"start_age" json:"start_age" validate:"gte=0"`
	EndAge            *int                 `yaml:"end_age,omitempty" json:"end_age,omitempty" validate:"omitempty,gte=0"`
	Amount            decimal.Decimal      `yaml:"amount" json:"amount"`
	InflationAdjusted *bool                `yaml:"inflation_adjusted,omitempty" json:"inflation_adjusted,omitempty"`
	AccountOrder      []string             `yaml:"account_order,omitempty" json:"account_order,omitempty" validate:"omitempty,max=3,dive,oneof=tfsa rrsp unregistered"`
	AccountValues     *AccountValuesConfig `yaml:"account_values,omitempty" json:"account_values,omitempty"`
}

// LastAge returns the final age the event applies to.
func (e EventConfig) LastAge() int {
	if e.EndAge == nil {
		return e.StartAge
	}
	return *e.EndAge
}

// Adjusted reports whether the event scales with inflation (default true).
func (e EventConfig) Adjusted() bool {
	return e.InflationAdjusted == nil || *e.InflationAdjusted
}

// AccountValuesConfig overrides account balances and rooms; nil fields are
// left untouched.
type AccountValuesConfig struct {
	TFSABalance           *decimal.Decimal `yaml:"tfsa_balance,omitempty" json:"tfsa_balance,omitempty" validate:"omitempty,gte=0"`
	RRSPBalance           *decimal.Decimal `yaml:"rrsp_balance,omitempty" json:"rrsp_balance,omitempty" validate:"omitempty,gte=0"`
	UnregisteredBalance   *decimal.Decimal `yaml:"unregistered_balance,omitempty" json:"unregistered_balance,omitempty" validate:"omitempty,gte=0"`
	UnregisteredCostBasis *decimal.Decimal `yaml:"unregistered_cost_basis,omitempty" json:"unregistered_cost_basis,omitempty" validate:"omitempty,gte=0"`
	TFSARoom              *decimal.Decimal `yaml:"tfsa_room,omitempty" json:"tfsa_room,omitempty" validate:"omitempty,gte=0"`
	RRSPRoom              *decimal.Decimal `yaml:"rrsp_room,omitempty" json:"rrsp_room,omitempty" validate:"omitempty,gte=0"`
}

// Scenario overrides a handful of plan inputs; nil fields inherit the
// configuration's values.
type Scenario struct {
	Name                         string           `yaml:"name" json:"name" validate:"required"`
	AccountOrder                 []string         `yaml:"account_order,omitempty" json:"account_order,omitempty" validate:"omitempty,max=3,dive,oneof=tfsa rrsp unregistered"`
	RetirementAge                *int             `yaml:"retirement_age,omitempty" json:"retirement_age,omitempty" validate:"omitempty,gte=0"`
	AnnualInvestmentContribution *decimal.Decimal `yaml:"annual_investment_contribution,omitempty" json:"annual_investment_contribution,omitempty" validate:"omitempty,gte=0"`
	AnnualSpending               *decimal.Decimal `yaml:"annual_spending,omitempty" json:"annual_spending,omitempty" validate:"omitempty,gte=0"`
}

// BaselineScenario is run when the configuration declares no scenarios.
const BaselineScenario = "baseline"

// EffectiveScenarios returns the configured scenarios, or a single
// baseline when none are declared.
func (c *Configuration) EffectiveScenarios() []Scenario {
	if len(c.Scenarios) == 0 {
		return []Scenario{{Name: BaselineScenario}}
	}
	return c.Scenarios
}

// Apply returns a copy of the configuration with the scenario's overrides.
func (s Scenario) Apply(c Configuration) Configuration {
	out := c
	if len(s.AccountOrder) > 0 {
		out.AccountOrder = append([]string(nil), s.AccountOrder...)
	}
	if s.RetirementAge != nil {
		age := *s.RetirementAge
		out.RetirementAge = &age
	}
	if s.AnnualInvestmentContribution != nil {
		out.AnnualInvestmentContribution = *s.AnnualInvestmentContribution
	}
	if s.AnnualSpending != nil {
		out.AnnualSpending = *s.AnnualSpending
	}
	return out
}

// GenerateAssumptions renders the modelling assumptions shown in reports.
func (c *Configuration) GenerateAssumptions() []string {
	out := []string{
		fmt.Sprintf("Inflation: %.2f%% annually, compounded from age %d", c.InflationRate.Mul(decimal.NewFromInt(100)).InexactFloat64(), c.StartAge),
	}
	for _, a := range c.Assets {
		out = append(out, fmt.Sprintf("Asset %s (%s): growth %.2f%%, income %.2f%%", a.Name, a.Kind,
			a.GrowthRate.Mul(decimal.NewFromInt(100)).InexactFloat64(),
			a.IncomeRate.Mul(decimal.NewFromInt(100)).InexactFloat64()))
	}
	out = append(out,
		fmt.Sprintf("TFSA room: %s per year, indexed to inflation", c.Limits.TFSAAnnualLimit.StringFixed(2)),
		fmt.Sprintf("RRSP room: %.0f%% of prior-year income up to %s, indexed to inflation",
			c.Limits.RRSPContributionRate.Mul(decimal.NewFromInt(100)).InexactFloat64(), c.Limits.RRSPAnnualLimit.StringFixed(2)),
		fmt.Sprintf("Capital gains inclusion rate: %.0f%%", c.Limits.CapitalGainsInclusionRate.Mul(decimal.NewFromInt(100)).InexactFloat64()),
		"Tax brackets indexed to inflation each year",
		fmt.Sprintf("Net worth net of estimated liquidation tax spread over %d years", c.LiquidationYears),
	)
	return out
}
