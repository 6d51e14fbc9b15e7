package output

import (
	"github.com/rpgo/wealth-planner/internal/domain"
	"github.com/rpgo/wealth-planner/pkg/money"
	"github.com/shopspring/decimal"
)

// FormatCurrency formats a decimal as a dollar amount with thousands separators.
func FormatCurrency(amount decimal.Decimal) string { return money.Format(amount) }

// FormatPercentage formats a decimal that is already a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// realCurrency renders a nominal amount of year y in year-zero dollars.
func realCurrency(y domain.YearSummary, amount decimal.Decimal) string {
	return FormatCurrency(y.Real(amount))
}
