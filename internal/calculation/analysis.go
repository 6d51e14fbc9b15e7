package calculation

import (
	"github.com/rpgo/wealth-planner/internal/domain"
	"github.com/rpgo/wealth-planner/pkg/money"
	"github.com/shopspring/decimal"
)

// summarizeScenario derives the headline figures of a trajectory.
func summarizeScenario(name string, cfg *domain.Configuration, years []domain.YearSummary) *domain.ScenarioResult {
	result := &domain.ScenarioResult{
		Name:         name,
		AccountOrder: append([]string(nil), cfg.AccountOrder...),
		Years:        years,
		InitialInvestments: money.Sum(
			cfg.Initial.TFSABalance, cfg.Initial.RRSPBalance, cfg.Initial.UnregisteredBalance,
		),
	}
	if cfg.RetirementAge != nil {
		age := *cfg.RetirementAge
		result.RetirementAge = &age
	}

	var totalTax decimal.Decimal
	for _, y := range years {
		totalTax = totalTax.Add(y.TaxOwed)
		if y.Depleted && result.DepletionAge == nil {
			age := y.Age
			result.DepletionAge = &age
		}
	}
	result.TotalTaxPaid = money.Round(totalTax)

	if final, ok := result.Final(); ok {
		result.FinalNetWorth = final.NetWorth
		result.FinalRealNetWorth = final.Real(final.NetWorth)
		result.FinalInvestmentsReal = final.Real(final.Investments)
	}
	return result
}
