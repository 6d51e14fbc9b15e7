package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rpgo/wealth-planner/internal/domain"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": FormatCurrency,
	"pct":  FormatPercentage,
	"real": realCurrency,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*domain.ScenarioComparison
		Recommendation Recommendation
	}{results, AnalyzeScenarios(results)}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
