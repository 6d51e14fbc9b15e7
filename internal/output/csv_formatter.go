package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rpgo/wealth-planner/internal/domain"
)

// CSVFormatter exports one row per scenario and year with nominal values.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

var csvHeader = []string{
	"Scenario", "Age", "YearIndex", "InflationFactor",
	"Income", "Spending", "Contribution", "Withdrawal",
	"NetTaxableIncome", "TaxOwed", "FreeCash",
	"TFSA", "RRSP", "Unregistered", "UnregisteredCostBasis",
	"Investments", "NetWorth", "RealNetWorth", "Retired", "Depleted",
}

func (c CSVFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, sc := range results.Scenarios {
		for _, y := range sc.Years {
			row := []string{
				sc.Name,
				strconv.Itoa(y.Age),
				strconv.Itoa(y.YearIndex),
				y.InflationFactor.StringFixed(6),
				y.Income.StringFixed(2),
				y.Spending.StringFixed(2),
				y.Contribution.StringFixed(2),
				y.Withdrawal.StringFixed(2),
				y.NetTaxableIncome.StringFixed(2),
				y.TaxOwed.StringFixed(2),
				y.FreeCash.StringFixed(2),
				y.TFSA.StringFixed(2),
				y.RRSP.StringFixed(2),
				y.Unregistered.StringFixed(2),
				y.CostBasis.StringFixed(2),
				y.Investments.StringFixed(2),
				y.NetWorth.StringFixed(2),
				y.Real(y.NetWorth).StringFixed(2),
				strconv.FormatBool(y.IsRetired),
				strconv.FormatBool(y.Depleted),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
