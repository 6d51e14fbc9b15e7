package output

import (
	"io"
	"os"

	"github.com/rpgo/wealth-planner/internal/domain"
	"gopkg.in/yaml.v3"
)

// GenerateReport formats results with the named formatter and writes them to w.
func GenerateReport(w io.Writer, results *domain.ScenarioComparison, format string) error {
	f, err := ResolveFormatter(format)
	if err != nil {
		return err
	}
	data, err := f.Format(results)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// SaveConfiguration writes the effective configuration back out as YAML.
func SaveConfiguration(config *domain.Configuration, filename string) error {
	b, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}
