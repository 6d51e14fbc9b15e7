package output

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rpgo/wealth-planner/internal/domain"
)

// ErrUnsupportedFormat is returned when no formatter matches a requested name.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Formatter defines a pluggable output formatter that returns a byte slice.
// Implementations should be pure (no side effects besides deterministic formatting).
type Formatter interface {
	Format(results *domain.ScenarioComparison) ([]byte, error)
	// Name returns a short identifier for logging / debugging.
	Name() string
}

// FormatterFunc adapter to allow ordinary functions to act as a Formatter.
type FormatterFunc struct {
	ID string
	F  func(*domain.ScenarioComparison) ([]byte, error)
}

func (ff FormatterFunc) Format(r *domain.ScenarioComparison) ([]byte, error) { return ff.F(r) }
func (ff FormatterFunc) Name() string                                        { return ff.ID }

// WriteFormatted runs a formatter and writes its output to path. An empty
// path writes to a timestamped file named after the formatter's extension.
func WriteFormatted(f Formatter, results *domain.ScenarioComparison, path string) (string, error) {
	data, err := f.Format(results)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = fmt.Sprintf("wealth_plan_%s.%s", time.Now().Format("20060102_150405"), Extension(f))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// Extension returns the file extension used when writing a formatter's output.
func Extension(f Formatter) string {
	switch f.Name() {
	case "table":
		return "md"
	case "summary":
		return "txt"
	default:
		return f.Name()
	}
}

// builtInFormatters stores available formatters.
var builtInFormatters = []Formatter{
	TableFormatter{},
	SummaryFormatter{},
	CSVFormatter{},
	HTMLFormatter{},
	JSONFormatter{},
}

// GetFormatterByName fetches a registered formatter.
func GetFormatterByName(name string) Formatter {
	n := NormalizeFormatName(name)
	for _, f := range builtInFormatters {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

// ResolveFormatter is GetFormatterByName with an error listing the known names.
func ResolveFormatter(name string) (Formatter, error) {
	if f := GetFormatterByName(name); f != nil {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, name,
		strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}

// aliasMap provides user-friendly synonyms for format names.
var aliasMap = map[string]string{
	"markdown":     "table",
	"github":       "table",
	"console":      "summary",
	"console-lite": "summary",
	"csv-detailed": "csv",
	"html-report":  "html",
	"json-pretty":  "json",
}

// NormalizeFormatName lowers and resolves aliases.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return "table"
	}
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// AvailableFormatterNames returns the canonical formatter names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(builtInFormatters))
	for _, f := range builtInFormatters {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases returns the supported alias keys.
func AvailableFormatAliases() []string {
	keys := make([]string, 0, len(aliasMap))
	for k := range aliasMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
