package output

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpgo/wealth-planner/internal/domain"
	"github.com/shopspring/decimal"
)

func year(age, idx int, factor, netWorth float64, retired bool) domain.YearSummary {
	nw := decimal.NewFromFloat(netWorth)
	return domain.YearSummary{
		Age:             age,
		YearIndex:       idx,
		InflationFactor: decimal.NewFromFloat(factor),
		FreeCash:        decimal.NewFromInt(1000),
		Investments:     nw.Sub(decimal.NewFromInt(1000)),
		NetWorth:        nw,
		TFSA:            nw.Sub(decimal.NewFromInt(1000)),
		IsRetired:       retired,
	}
}

func buildTestComparison() *domain.ScenarioComparison {
	depleted := 32
	return &domain.ScenarioComparison{
		RunID:       "run-1",
		StartAge:    30,
		EndAge:      32,
		Assumptions: []string{"Inflation: 10.00% annually, compounded from age 30"},
		Scenarios: []domain.ScenarioResult{
			{
				Name:              "A",
				Years:             []domain.YearSummary{year(30, 0, 1, 1234.5, false), year(31, 1, 1.1, 2200, false), year(32, 2, 1.21, 2420, true)},
				FinalNetWorth:     decimal.NewFromInt(2420),
				FinalRealNetWorth: decimal.NewFromInt(2000),
				DepletionAge:      &depleted,
			},
			{
				Name:              "B",
				Years:             []domain.YearSummary{year(30, 0, 1, 1500, false), year(31, 1, 1.1, 3300, false), year(32, 2, 1.21, 3630, true)},
				FinalNetWorth:     decimal.NewFromInt(3630),
				FinalRealNetWorth: decimal.NewFromInt(3000),
			},
		},
	}
}

func TestTableFormatter(t *testing.T) {
	out, err := TableFormatter{}.Format(buildTestComparison())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	for _, want := range []string{"## A", "## B", "Net Worth", "Unregistered", "$1,234.50", "$2,000.00", "Recommended: B", "Withdrawals fell short from age 32"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in table output:\n%s", want, content)
		}
	}
	// nominal 2200 at factor 1.1 is rendered in year-zero dollars only
	if strings.Contains(content, "$2,200.00") {
		t.Fatalf("table should show real values, got:\n%s", content)
	}
	lines := strings.Split(content, "\n")
	if !strings.HasPrefix(strings.TrimSpace(lines[2]), "|") {
		t.Fatalf("expected markdown table row, got %q", lines[2])
	}
}

func TestSummaryFormatter(t *testing.T) {
	out, err := SummaryFormatter{}.Format(buildTestComparison())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	if !strings.Contains(content, "Recommended: B") {
		t.Fatalf("expected recommendation for B, got: %s", content)
	}
	if !strings.Contains(content, "Depleted at age 32") {
		t.Fatalf("expected depletion note, got: %s", content)
	}
	if !strings.Contains(content, "Inflation: 10.00%") {
		t.Fatalf("expected assumptions, got: %s", content)
	}
}

func TestCSVFormatterRows(t *testing.T) {
	out, err := CSVFormatter{}.Format(buildTestComparison())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected 7 lines (header+6 rows), got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Scenario,Age,") {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "A,30,0,") || !strings.HasPrefix(lines[4], "B,30,0,") {
		t.Fatalf("rows not in scenario/year order: %v", lines)
	}
	if !strings.Contains(lines[2], ",2200.00,2000.00,false,false") {
		t.Fatalf("expected nominal and real net worth, got %s", lines[2])
	}
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{}.Format(buildTestComparison())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded domain.ScenarioComparison
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded.RunID != "run-1" || len(decoded.Scenarios) != 2 {
		t.Fatalf("unexpected decoded comparison: %+v", decoded)
	}
	if !decoded.Scenarios[1].FinalRealNetWorth.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("final real net worth lost in round trip")
	}
}

func TestHTMLFormatter(t *testing.T) {
	out, err := HTMLFormatter{}.Format(buildTestComparison())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	for _, want := range []string{"<!DOCTYPE html>", "Recommended: B", "<h2>A</h2>", "$1,234.50", "withdrawals short from age 32"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in html output", want)
		}
	}
}

func TestGetFormatterByName(t *testing.T) {
	cases := map[string]string{
		"table":        "table",
		"":             "table",
		"Markdown":     "table",
		"github":       "table",
		" CSV ":        "csv",
		"csv-detailed": "csv",
		"json-pretty":  "json",
		"html-report":  "html",
		"console":      "summary",
	}
	for in, want := range cases {
		f := GetFormatterByName(in)
		if f == nil {
			t.Fatalf("no formatter for %q", in)
		}
		if f.Name() != want {
			t.Fatalf("GetFormatterByName(%q) = %s, want %s", in, f.Name(), want)
		}
	}
	if GetFormatterByName("pdf") != nil {
		t.Fatalf("expected nil for unknown format")
	}
}

func TestResolveFormatterUnsupported(t *testing.T) {
	_, err := ResolveFormatter("pdf")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if !strings.Contains(err.Error(), "csv, html, json, summary, table") {
		t.Fatalf("expected available names in error, got %v", err)
	}
}

func TestAvailableFormatterNames(t *testing.T) {
	got := strings.Join(AvailableFormatterNames(), ",")
	if got != "csv,html,json,summary,table" {
		t.Fatalf("unexpected formatter names %s", got)
	}
}

func TestFormatterFunc(t *testing.T) {
	f := FormatterFunc{ID: "ids", F: func(r *domain.ScenarioComparison) ([]byte, error) { return []byte(r.RunID), nil }}
	out, err := f.Format(buildTestComparison())
	if err != nil || string(out) != "run-1" || f.Name() != "ids" {
		t.Fatalf("FormatterFunc = %q, %v", out, err)
	}
}

func TestWriteFormatted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.csv")
	written, err := WriteFormatted(CSVFormatter{}, buildTestComparison(), path)
	if err != nil {
		t.Fatalf("WriteFormatted error: %v", err)
	}
	if written != path {
		t.Fatalf("expected %s, got %s", path, written)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.HasPrefix(string(data), "Scenario,") {
		t.Fatalf("unexpected file content %q", data[:20])
	}
}

func TestExtension(t *testing.T) {
	if Extension(TableFormatter{}) != "md" || Extension(SummaryFormatter{}) != "txt" || Extension(HTMLFormatter{}) != "html" {
		t.Fatalf("unexpected extensions")
	}
}
