package output

import (
	"sort"

	"github.com/rpgo/wealth-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// Recommendation encapsulates the selection result of the best scenario.
type Recommendation struct {
	ScenarioName      string
	FinalRealNetWorth decimal.Decimal
	RunnerUp          string
	Advantage         decimal.Decimal // real net worth over the runner-up
	PercentageChange  decimal.Decimal
	DepletionAge      *int
}

// AnalyzeScenarios picks the scenario with the highest final net worth in
// year-zero dollars. Ties keep the scenario declared first.
func AnalyzeScenarios(results *domain.ScenarioComparison) Recommendation {
	if results == nil || len(results.Scenarios) == 0 {
		return Recommendation{}
	}
	ranks := make([]domain.ScenarioResult, len(results.Scenarios))
	copy(ranks, results.Scenarios)
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].FinalRealNetWorth.GreaterThan(ranks[j].FinalRealNetWorth)
	})

	best := ranks[0]
	rec := Recommendation{
		ScenarioName:      best.Name,
		FinalRealNetWorth: best.FinalRealNetWorth,
		DepletionAge:      best.DepletionAge,
	}
	if len(ranks) > 1 {
		second := ranks[1]
		rec.RunnerUp = second.Name
		rec.Advantage = best.FinalRealNetWorth.Sub(second.FinalRealNetWorth)
		if !second.FinalRealNetWorth.IsZero() {
			rec.PercentageChange = rec.Advantage.Div(second.FinalRealNetWorth.Abs()).Mul(decimal.NewFromInt(100)).Round(2)
		}
	}
	return rec
}
