package investments

import "github.com/shopspring/decimal"

// AccountSummary is one account's share of a year.
type AccountSummary struct {
	Returns   Returns   `json:"returns"`
	TaxImpact TaxImpact `json:"tax_impact"`
}

// TaxSummary is the year's combined tax return.
type TaxSummary struct {
	TaxableIncome    decimal.Decimal `json:"taxable_income"`
	Deductions       decimal.Decimal `json:"deductions"`
	NetTaxableIncome decimal.Decimal `json:"net_taxable_income"`
	TaxOwed          decimal.Decimal `json:"tax_owed"`
}

// YearResult is returned by Investments.IncrementYear.
type YearResult struct {
	Accounts map[AccountSelector]AccountSummary `json:"accounts"`
	Tax      TaxSummary                         `json:"tax"`
}

// Returns sums growth and income across accounts.
func (r *YearResult) Returns() Returns {
	total := Returns{Growth: decimal.Zero, Income: decimal.Zero}
	for _, s := range r.Accounts {
		total.Growth = total.Growth.Add(s.Returns.Growth)
		total.Income = total.Income.Add(s.Returns.Income)
	}
	return total
}
