package domain

import (
	"github.com/shopspring/decimal"
)

// YearSummary is the year-end ledger row recorded after a simulated year.
// Money values are nominal; Real deflates them to year-zero dollars.
type YearSummary struct {
	Age             int             `json:"age"`
	YearIndex       int             `json:"year_index"`
	InflationFactor decimal.Decimal `json:"inflation_factor"`

	// Cash flow
	Income       decimal.Decimal `json:"income"`
	Spending     decimal.Decimal `json:"spending"`
	Contribution decimal.Decimal `json:"contribution"`
	Withdrawal   decimal.Decimal `json:"withdrawal"`

	// Tax
	NetTaxableIncome decimal.Decimal `json:"net_taxable_income"`
	TaxOwed          decimal.Decimal `json:"tax_owed"`

	// Balances (end of year)
	FreeCash     decimal.Decimal `json:"free_cash"`
	Investments  decimal.Decimal `json:"investments"`
	NetWorth     decimal.Decimal `json:"net_worth"`
	TFSA         decimal.Decimal `json:"tfsa"`
	RRSP         decimal.Decimal `json:"rrsp"`
	Unregistered decimal.Decimal `json:"unregistered"`
	CostBasis    decimal.Decimal `json:"unregistered_cost_basis"`

	IsRetired bool `json:"is_retired"`
	Depleted  bool `json:"depleted"` // withdrawal policy could not be met in full
}

// Real converts a nominal amount from this year into year-zero dollars.
func (y YearSummary) Real(amount decimal.Decimal) decimal.Decimal {
	if !y.InflationFactor.IsPositive() {
		return amount.Round(2)
	}
	return amount.Div(y.InflationFactor).Round(2)
}

// ScenarioResult holds the full trajectory of one scenario.
type ScenarioResult struct {
	Name                 string          `json:"name"`
	AccountOrder         []string        `json:"account_order"`
	RetirementAge        *int            `json:"retirement_age,omitempty"`
	Years                []YearSummary   `json:"years"`
	FinalNetWorth        decimal.Decimal `json:"final_net_worth"`
	FinalRealNetWorth    decimal.Decimal `json:"final_real_net_worth"`
	TotalTaxPaid         decimal.Decimal `json:"total_tax_paid"`
	DepletionAge         *int            `json:"depletion_age,omitempty"` // first age a withdrawal fell short
	InitialInvestments   decimal.Decimal `json:"initial_investments"`
	FinalInvestmentsReal decimal.Decimal `json:"final_investments_real"`
}

// Final returns the last year of the trajectory.
func (s ScenarioResult) Final() (YearSummary, bool) {
	if len(s.Years) == 0 {
		return YearSummary{}, false
	}
	return s.Years[len(s.Years)-1], true
}

// ScenarioComparison provides a comparison of all scenarios of one run
type ScenarioComparison struct {
	RunID       string           `json:"run_id"`
	StartAge    int              `json:"start_age"`
	EndAge      int              `json:"end_age"`
	Scenarios   []ScenarioResult `json:"scenarios"`
	Assumptions []string         `json:"assumptions"` // Dynamic assumptions from config
}
