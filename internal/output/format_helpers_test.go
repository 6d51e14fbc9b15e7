package output

import (
	"testing"

	"github.com/rpgo/wealth-planner/internal/domain"
	"github.com/shopspring/decimal"
)

func TestFormatHelpers(t *testing.T) {
	if got := FormatCurrency(decimal.NewFromFloat(1234567.891)); got != "$1,234,567.89" {
		t.Fatalf("FormatCurrency = %q", got)
	}
	if got := FormatPercentage(decimal.NewFromFloat(12.345)); got != "12.35%" {
		t.Fatalf("FormatPercentage = %q", got)
	}
	y := domain.YearSummary{InflationFactor: decimal.NewFromFloat(1.1)}
	if got := realCurrency(y, decimal.NewFromInt(110)); got != "$100.00" {
		t.Fatalf("realCurrency = %q", got)
	}
}
