package output

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rpgo/wealth-planner/internal/domain"
)

// TableFormatter renders one GitHub flavoured markdown table per scenario,
// with every amount in year-zero dollars.
type TableFormatter struct{}

func (t TableFormatter) Name() string { return "table" }

var tableHeaders = []string{"Age", "Net Worth", "Free Cash", "Investments", "TFSA", "RRSP", "Unregistered"}

func (t TableFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer
	for i, sc := range results.Scenarios {
		if i > 0 {
			fmt.Fprintln(&buf)
		}
		fmt.Fprintf(&buf, "## %s\n\n", sc.Name)
		fmt.Fprintln(&buf, scenarioTable(sc).Render())
		if sc.DepletionAge != nil {
			fmt.Fprintf(&buf, "\nWithdrawals fell short from age %d.\n", *sc.DepletionAge)
		}
	}
	if rec := AnalyzeScenarios(results); rec.ScenarioName != "" && len(results.Scenarios) > 1 {
		fmt.Fprintf(&buf, "\nRecommended: %s (%s in today's dollars)\n", rec.ScenarioName, FormatCurrency(rec.FinalRealNetWorth))
	}
	return buf.Bytes(), nil
}

func scenarioTable(sc domain.ScenarioResult) *table.Table {
	rows := make([][]string, 0, len(sc.Years))
	for _, y := range sc.Years {
		rows = append(rows, []string{
			strconv.Itoa(y.Age),
			realCurrency(y, y.NetWorth),
			realCurrency(y, y.FreeCash),
			realCurrency(y, y.Investments),
			realCurrency(y, y.TFSA),
			realCurrency(y, y.RRSP),
			realCurrency(y, y.Unregistered),
		})
	}
	return table.New().
		Border(lipgloss.MarkdownBorder()).
		BorderTop(false).
		BorderBottom(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return cellStyle
			}
			return cellStyle.Align(lipgloss.Right)
		}).
		Headers(tableHeaders...).
		Rows(rows...)
}

var cellStyle = lipgloss.NewStyle().Padding(0, 1)
