package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/wealth-planner/internal/domain"
)

// SummaryFormatter provides a concise console summary of each scenario's outcome.
type SummaryFormatter struct{}

func (c SummaryFormatter) Name() string { return "summary" }

func (c SummaryFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "WEALTH PLAN SUMMARY")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Ages %d to %d, run %s\n", results.StartAge, results.EndAge, results.RunID)
	for _, a := range results.Assumptions {
		fmt.Fprintf(&buf, "  - %s\n", a)
	}
	fmt.Fprintln(&buf)
	for _, sc := range results.Scenarios {
		fmt.Fprintf(&buf, "%s: FinalNetWorth=%s Real=%s TaxPaid=%s\n",
			sc.Name,
			FormatCurrency(sc.FinalNetWorth),
			FormatCurrency(sc.FinalRealNetWorth),
			FormatCurrency(sc.TotalTaxPaid),
		)
		if sc.DepletionAge != nil {
			fmt.Fprintf(&buf, "  Depleted at age %d\n", *sc.DepletionAge)
		}
	}
	rec := AnalyzeScenarios(results)
	if rec.ScenarioName != "" && rec.RunnerUp != "" {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Recommended: %s (+%s / %s over %s)\n", rec.ScenarioName,
			FormatCurrency(rec.Advantage), FormatPercentage(rec.PercentageChange), rec.RunnerUp)
	}
	return buf.Bytes(), nil
}
