package integration

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rpgo/wealth-planner/internal/calculation"
	"github.com/rpgo/wealth-planner/internal/config"
	"github.com/rpgo/wealth-planner/internal/domain"
	"github.com/rpgo/wealth-planner/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runExample(t *testing.T) *domain.ScenarioComparison {
	t.Helper()
	parser := config.NewInputParser()
	config, err := parser.LoadFromFile("../testdata/example_config.yaml")
	require.NoError(t, err)
	results, err := calculation.NewCalculationEngine().RunScenarios(context.Background(), config)
	require.NoError(t, err)
	return results
}

func TestOutputGeneration(t *testing.T) {
	results := runExample(t)

	for _, name := range output.AvailableFormatterNames() {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, output.GenerateReport(&buf, results, name))
			assert.NotEmpty(t, buf.Bytes())
		})
	}
}

func TestCSVReportCoversEveryYear(t *testing.T) {
	results := runExample(t)

	data, err := output.CSVFormatter{}.Format(results)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1+2*41)
	assert.Equal(t, "rrsp_first", records[1][0])
	assert.Equal(t, "tfsa_first", records[len(records)-1][0])
}

func TestJSONReportRoundTrips(t *testing.T) {
	results := runExample(t)

	data, err := output.JSONFormatter{}.Format(results)
	require.NoError(t, err)
	var decoded domain.ScenarioComparison
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, results.RunID, decoded.RunID)
	require.Len(t, decoded.Scenarios, 2)
	assert.True(t, decoded.Scenarios[0].FinalNetWorth.Equal(results.Scenarios[0].FinalNetWorth))
}

func TestTableReportUsesMarkdown(t *testing.T) {
	results := runExample(t)

	data, err := output.TableFormatter{}.Format(results)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "## rrsp_first")
	assert.Contains(t, content, "## tfsa_first")
	assert.Contains(t, content, "| Age")
	assert.Contains(t, content, "|---")
}

func TestWriteFormattedHTML(t *testing.T) {
	results := runExample(t)

	path := filepath.Join(t.TempDir(), "report.html")
	written, err := output.WriteFormatted(output.HTMLFormatter{}, results, path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(written, ".html"))
}
