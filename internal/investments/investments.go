package investments

import (
	"fmt"

	"github.com/rpgo/wealth-planner/internal/domain"
	"github.com/rpgo/wealth-planner/internal/tax"
	"github.com/rpgo/wealth-planner/pkg/money"
	"github.com/shopspring/decimal"
)

// Limits are the jurisdiction's room and capital gains constants.
type Limits struct {
	TFSAAnnualLimit           decimal.Decimal
	RRSPAnnualLimit           decimal.Decimal
	RRSPContributionRate      decimal.Decimal
	CapitalGainsInclusionRate decimal.Decimal
}

// DefaultLimits returns the 2026 constants.
func DefaultLimits() Limits {
	return Limits{
		TFSAAnnualLimit:           decimal.NewFromInt(7000),
		RRSPAnnualLimit:           decimal.NewFromInt(33810),
		RRSPContributionRate:      decimal.NewFromFloat(0.18),
		CapitalGainsInclusionRate: decimal.NewFromFloat(0.5),
	}
}

// LimitsFromConfig converts configured rules, keeping defaults for zero
// annual limits.
func LimitsFromConfig(rules domain.ContributionRules) Limits {
	l := DefaultLimits()
	if !rules.TFSAAnnualLimit.IsZero() {
		l.TFSAAnnualLimit = rules.TFSAAnnualLimit
	}
	if !rules.RRSPAnnualLimit.IsZero() {
		l.RRSPAnnualLimit = rules.RRSPAnnualLimit
	}
	if !rules.RRSPContributionRate.IsZero() {
		l.RRSPContributionRate = rules.RRSPContributionRate
	}
	if !rules.CapitalGainsInclusionRate.IsZero() {
		l.CapitalGainsInclusionRate = rules.CapitalGainsInclusionRate
	}
	return l
}

// PortfolioSpec describes a portfolio to build.
type PortfolioSpec struct {
	TFSA         AccountSpec
	RRSP         AccountSpec
	Unregistered AccountSpec
	Limits       Limits
	// Tax defaults to the Canada/Ontario calculator when nil.
	Tax *tax.Calculator
}

// Investments owns exactly one account of each kind.
type Investments struct {
	tfsa         *TFSA
	rrsp         *RRSP
	unregistered *Unregistered
	tax          *tax.Calculator
}

// NewPortfolio builds the three accounts and wires them together.
func NewPortfolio(spec PortfolioSpec) (*Investments, error) {
	tfsa, err := NewTFSA(spec.TFSA, spec.Limits)
	if err != nil {
		return nil, err
	}
	rrsp, err := NewRRSP(spec.RRSP, spec.Limits)
	if err != nil {
		return nil, err
	}
	unregistered, err := NewUnregistered(spec.Unregistered, spec.Limits)
	if err != nil {
		return nil, err
	}
	return New(tfsa, rrsp, unregistered, spec.Tax)
}

// New assembles already-built accounts.
func New(tfsa *TFSA, rrsp *RRSP, unregistered *Unregistered, calculator *tax.Calculator) (*Investments, error) {
	if tfsa == nil || rrsp == nil || unregistered == nil {
		return nil, fmt.Errorf("%w: every account is required", domain.ErrInvalidInput)
	}
	if calculator == nil {
		calculator = tax.NewOntarioCalculator()
	}
	return &Investments{tfsa: tfsa, rrsp: rrsp, unregistered: unregistered, tax: calculator}, nil
}

func (inv *Investments) TFSA() *TFSA                 { return inv.tfsa }
func (inv *Investments) RRSP() *RRSP                 { return inv.rrsp }
func (inv *Investments) Unregistered() *Unregistered { return inv.unregistered }
func (inv *Investments) TaxCalculator() *tax.Calculator {
	return inv.tax
}

// Account returns the account for a selector.
func (inv *Investments) Account(s AccountSelector) (Account, error) {
	switch s {
	case SelectTFSA:
		return inv.tfsa, nil
	case SelectRRSP:
		return inv.rrsp, nil
	case SelectUnregistered:
		return inv.unregistered, nil
	default:
		return nil, fmt.Errorf("%w: unknown account %q", domain.ErrInvalidInput, s)
	}
}

// Accounts returns the accounts in canonical order.
func (inv *Investments) Accounts() []Account {
	return []Account{inv.tfsa, inv.rrsp, inv.unregistered}
}

// Balance is the sum of the account balances before liquidation tax.
func (inv *Investments) Balance() decimal.Decimal {
	return money.Sum(inv.tfsa.balance, inv.rrsp.balance, inv.unregistered.balance)
}

type snapshot struct {
	tfsa         TFSA
	rrsp         RRSP
	unregistered Unregistered
}

func (inv *Investments) snapshot() snapshot {
	return snapshot{tfsa: *inv.tfsa, rrsp: *inv.rrsp, unregistered: *inv.unregistered}
}

func (inv *Investments) restore(s snapshot) {
	*inv.tfsa = s.tfsa
	*inv.rrsp = s.rrsp
	*inv.unregistered = s.unregistered
}

func (inv *Investments) resolve(order []AccountSelector) ([]Account, error) {
	if err := ValidateOrder(order); err != nil {
		return nil, err
	}
	accounts := make([]Account, len(order))
	for i, s := range order {
		a, err := inv.Account(s)
		if err != nil {
			return nil, err
		}
		accounts[i] = a
	}
	return accounts, nil
}

// DepositCapacity is the most the order can absorb. unlimited is true when
// the order includes the taxable account.
func (inv *Investments) DepositCapacity(order []AccountSelector) (capacity decimal.Decimal, unlimited bool, err error) {
	accounts, err := inv.resolve(order)
	if err != nil {
		return decimal.Zero, false, err
	}
	for _, a := range accounts {
		room, open := a.AvailableRoom()
		if open {
			unlimited = true
			continue
		}
		capacity = capacity.Add(room)
	}
	return money.Round(capacity), unlimited, nil
}

// WithdrawalCapacity is the combined balance of the ordered accounts.
func (inv *Investments) WithdrawalCapacity(order []AccountSelector) (decimal.Decimal, error) {
	accounts, err := inv.resolve(order)
	if err != nil {
		return decimal.Zero, err
	}
	var total decimal.Decimal
	for _, a := range accounts {
		total = total.Add(a.Balance())
	}
	return money.Round(total), nil
}

// Deposit fills the accounts in order, each up to its room. The taxable
// account takes whatever reaches it. If the order cannot absorb the full
// amount nothing is deposited and the undeposited remainder is returned
// with ErrInsufficientCapacity; on success the remainder is zero.
func (inv *Investments) Deposit(amount decimal.Decimal, order []AccountSelector) (decimal.Decimal, error) {
	if err := checkAmount(amount); err != nil {
		return decimal.Zero, err
	}
	accounts, err := inv.resolve(order)
	if err != nil {
		return decimal.Zero, err
	}

	before := inv.snapshot()
	remaining := money.Round(amount)
	for _, a := range accounts {
		if !remaining.IsPositive() {
			break
		}
		take := remaining
		if room, unlimited := a.AvailableRoom(); !unlimited {
			take = decimal.Min(remaining, room)
		}
		if !take.IsPositive() {
			continue
		}
		if err := a.Deposit(take); err != nil {
			inv.restore(before)
			return remaining, err
		}
		remaining = money.Round(remaining.Sub(take))
	}
	if remaining.IsPositive() {
		inv.restore(before)
		return remaining, fmt.Errorf("%w: %s of %s could not be deposited into %v", domain.ErrInsufficientCapacity, remaining, amount, order)
	}
	return decimal.Zero, nil
}

// Withdraw draws from the accounts in order, each up to its balance.
// Either the full amount is withdrawn or nothing is.
func (inv *Investments) Withdraw(amount decimal.Decimal, order []AccountSelector) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	accounts, err := inv.resolve(order)
	if err != nil {
		return err
	}

	before := inv.snapshot()
	remaining := money.Round(amount)
	for _, a := range accounts {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(remaining, a.Balance())
		if !take.IsPositive() {
			continue
		}
		if err := a.Withdraw(take); err != nil {
			inv.restore(before)
			return err
		}
		remaining = money.Round(remaining.Sub(take))
	}
	if remaining.IsPositive() {
		inv.restore(before)
		return fmt.Errorf("%w: %s of %s could not be withdrawn from %v", domain.ErrInsufficientCapacity, remaining, amount, order)
	}
	return nil
}

// IncrementYear prices the year's returns, computes the year's tax and
// closes the year on every account.
func (inv *Investments) IncrementYear(annualIncome, inflationAdjustment, nextYearInflationAdjustment decimal.Decimal) (*YearResult, error) {
	if !inflationAdjustment.IsPositive() {
		return nil, fmt.Errorf("%w: inflation adjustment %s must be positive", domain.ErrInvalidInput, inflationAdjustment)
	}
	if !nextYearInflationAdjustment.IsPositive() {
		return nil, fmt.Errorf("%w: next year inflation adjustment %s must be positive", domain.ErrInvalidInput, nextYearInflationAdjustment)
	}
	if annualIncome.IsNegative() {
		return nil, fmt.Errorf("%w: annual income %s is negative", domain.ErrInvalidInput, annualIncome)
	}
	annualIncome = money.Round(annualIncome)

	result := &YearResult{Accounts: make(map[AccountSelector]AccountSummary, len(AllAccounts))}
	taxable := annualIncome
	deductions := decimal.Zero
	for _, a := range inv.Accounts() {
		r := a.CalculateReturns()
		a.applyReturns(r)
		impact := a.CalculateTax(r)
		result.Accounts[a.Selector()] = AccountSummary{Returns: r, TaxImpact: impact}
		taxable = money.Sum(taxable, impact.TaxableIncome)
		deductions = money.Sum(deductions, impact.Deductions)
	}

	net := money.NonNegative(money.Round(taxable.Sub(deductions)))
	owed, err := inv.tax.CombinedTax(net, inflationAdjustment)
	if err != nil {
		return nil, err
	}
	result.Tax = TaxSummary{
		TaxableIncome:    taxable,
		Deductions:       deductions,
		NetTaxableIncome: net,
		TaxOwed:          owed,
	}

	for _, a := range inv.Accounts() {
		if err := a.IncrementYear(annualIncome, nextYearInflationAdjustment); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// DeferredTaxableAmount is what liquidation would add to taxable income:
// the whole RRSP plus the included share of unrealized taxable gains.
func (inv *Investments) DeferredTaxableAmount() decimal.Decimal {
	gains := inv.unregistered.UnrealizedGain().Mul(inv.unregistered.inclusionRate)
	return money.Sum(inv.rrsp.balance, gains)
}

// TotalValue is the portfolio balance net of the tax owed if it were wound
// down evenly over liquidationYears.
func (inv *Investments) TotalValue(inflationAdjustment decimal.Decimal, liquidationYears int) (decimal.Decimal, error) {
	if liquidationYears <= 0 {
		return decimal.Zero, fmt.Errorf("%w: liquidation years %d must be positive", domain.ErrInvalidInput, liquidationYears)
	}
	if !inflationAdjustment.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: inflation adjustment %s must be positive", domain.ErrInvalidInput, inflationAdjustment)
	}
	gross := inv.Balance()
	deferred := inv.DeferredTaxableAmount()
	if !deferred.IsPositive() {
		return gross, nil
	}
	years := decimal.NewFromInt(int64(liquidationYears))
	perYear, err := inv.tax.CombinedTax(money.Round(deferred.Div(years)), inflationAdjustment)
	if err != nil {
		return decimal.Zero, err
	}
	return money.Round(gross.Sub(perYear.Mul(years))), nil
}
