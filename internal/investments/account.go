package investments

import (
	"fmt"

	"github.com/rpgo/wealth-planner/internal/domain"
	"github.com/rpgo/wealth-planner/pkg/money"
	"github.com/shopspring/decimal"
)

// TaxImpact is what an account contributes to the year's tax return.
type TaxImpact struct {
	TaxableIncome decimal.Decimal `json:"taxable_income"`
	Deductions    decimal.Decimal `json:"deductions"`
}

// Account is implemented by TFSA, RRSP and Unregistered only.
type Account interface {
	Selector() AccountSelector
	Balance() decimal.Decimal
	YearStartBalance() decimal.Decimal
	Deposits() decimal.Decimal
	Withdrawals() decimal.Decimal
	Asset() *AssetType

	// CalculateReturns prices one year of return on the current balance.
	CalculateReturns() Returns
	// CalculateTax reports the year's taxable income and deductions given
	// this year's returns and the per-year trackers.
	CalculateTax(r Returns) TaxImpact
	// AvailableRoom reports remaining contribution room; unlimited is true
	// for accounts without a room constraint.
	AvailableRoom() (room decimal.Decimal, unlimited bool)

	Deposit(amount decimal.Decimal) error
	Withdraw(amount decimal.Decimal) error
	// IncrementYear closes the year: trackers reset and room accrues.
	IncrementYear(previousYearIncome, adjustment decimal.Decimal) error

	applyReturns(r Returns)
}

// AccountSpec is the starting state of one account.
type AccountSpec struct {
	Asset            *AssetType
	Balance          decimal.Decimal
	ContributionRoom decimal.Decimal
	// CostBasis applies to the taxable account only; nil means the whole
	// balance is principal.
	CostBasis *decimal.Decimal
}

func (s AccountSpec) validate(name string) error {
	if s.Balance.IsNegative() {
		return fmt.Errorf("%w: %s balance %s is negative", domain.ErrInvalidInput, name, s.Balance)
	}
	if s.ContributionRoom.IsNegative() {
		return fmt.Errorf("%w: %s contribution room %s is negative", domain.ErrInvalidInput, name, s.ContributionRoom)
	}
	if s.CostBasis != nil && s.CostBasis.IsNegative() {
		return fmt.Errorf("%w: %s cost basis %s is negative", domain.ErrInvalidInput, name, *s.CostBasis)
	}
	return nil
}

// ledger is the bookkeeping shared by every account variant.
type ledger struct {
	asset            *AssetType
	balance          decimal.Decimal
	yearStartBalance decimal.Decimal
	deposits         decimal.Decimal
	withdrawals      decimal.Decimal
}

func newLedger(spec AccountSpec) ledger {
	b := money.Round(spec.Balance)
	return ledger{asset: spec.Asset, balance: b, yearStartBalance: b}
}

func (l *ledger) Balance() decimal.Decimal          { return l.balance }
func (l *ledger) YearStartBalance() decimal.Decimal { return l.yearStartBalance }
func (l *ledger) Deposits() decimal.Decimal         { return l.deposits }
func (l *ledger) Withdrawals() decimal.Decimal      { return l.withdrawals }
func (l *ledger) Asset() *AssetType                 { return l.asset }

func (l *ledger) CalculateReturns() Returns {
	return l.asset.CalculateReturns(l.balance)
}

func (l *ledger) applyReturns(r Returns) {
	l.balance = money.Sum(l.balance, r.Growth, r.Income)
}

// SetBalance force-overrides the balance and the year-start balance.
func (l *ledger) SetBalance(balance decimal.Decimal) error {
	if balance.IsNegative() {
		return fmt.Errorf("%w: balance %s is negative", domain.ErrInvalidInput, balance)
	}
	l.balance = money.Round(balance)
	l.yearStartBalance = l.balance
	return nil
}

// ResetYearTrackers zeroes this year's deposit and withdrawal totals.
func (l *ledger) ResetYearTrackers() {
	l.deposits = decimal.Zero
	l.withdrawals = decimal.Zero
}

func (l *ledger) closeYear() {
	l.ResetYearTrackers()
	l.yearStartBalance = l.balance
}

func (l *ledger) credit(amount decimal.Decimal) {
	l.balance = money.Sum(l.balance, amount)
	l.deposits = money.Sum(l.deposits, amount)
}

func (l *ledger) debit(amount decimal.Decimal) {
	l.balance = money.Round(l.balance.Sub(amount))
	l.withdrawals = money.Sum(l.withdrawals, amount)
}

func checkAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: amount %s is negative", domain.ErrInvalidInput, amount)
	}
	return nil
}

func checkAdjustment(adjustment decimal.Decimal) error {
	if !adjustment.IsPositive() {
		return fmt.Errorf("%w: contribution limit adjustment %s must be positive", domain.ErrInvalidInput, adjustment)
	}
	return nil
}

func (l *ledger) checkWithdrawal(name string, amount decimal.Decimal) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if amount.GreaterThan(l.balance) {
		return fmt.Errorf("%w: %s withdrawal %s exceeds balance %s", domain.ErrInsufficientCapacity, name, amount, l.balance)
	}
	return nil
}

// roomAccount is the room bookkeeping shared by the registered accounts.
type roomAccount struct {
	ledger
	room decimal.Decimal
}

func (a *roomAccount) AvailableRoom() (decimal.Decimal, bool) {
	return a.room, false
}

// SetContributionRoom force-overrides the remaining room.
func (a *roomAccount) SetContributionRoom(room decimal.Decimal) error {
	if room.IsNegative() {
		return fmt.Errorf("%w: contribution room %s is negative", domain.ErrInvalidInput, room)
	}
	a.room = money.Round(room)
	return nil
}

func (a *roomAccount) deposit(name string, amount decimal.Decimal) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	amount = money.Round(amount)
	if amount.GreaterThan(a.room) {
		return fmt.Errorf("%w: %s deposit %s exceeds room %s", domain.ErrInsufficientCapacity, name, amount, a.room)
	}
	a.room = money.Round(a.room.Sub(amount))
	a.credit(amount)
	return nil
}

// TFSA is the tax-free account. Withdrawals do not restore room.
type TFSA struct {
	roomAccount
	annualLimit decimal.Decimal
}

// NewTFSA creates a tax-free account.
func NewTFSA(spec AccountSpec, limits Limits) (*TFSA, error) {
	if err := spec.validate("tfsa"); err != nil {
		return nil, err
	}
	return &TFSA{
		roomAccount: roomAccount{ledger: newLedger(spec), room: money.Round(spec.ContributionRoom)},
		annualLimit: limits.TFSAAnnualLimit,
	}, nil
}

func (a *TFSA) Selector() AccountSelector { return SelectTFSA }

func (a *TFSA) CalculateTax(Returns) TaxImpact {
	return TaxImpact{TaxableIncome: decimal.Zero, Deductions: decimal.Zero}
}

func (a *TFSA) Deposit(amount decimal.Decimal) error {
	return a.deposit("tfsa", amount)
}

func (a *TFSA) Withdraw(amount decimal.Decimal) error {
	if err := a.checkWithdrawal("tfsa", amount); err != nil {
		return err
	}
	a.debit(money.Round(amount))
	return nil
}

// IncrementYear adds the indexed annual limit to the room.
func (a *TFSA) IncrementYear(_, adjustment decimal.Decimal) error {
	if err := checkAdjustment(adjustment); err != nil {
		return err
	}
	a.closeYear()
	a.room = money.Sum(a.room, a.annualLimit.Mul(adjustment))
	return nil
}

// RRSP is the tax-deferred account: deposits are deducted and withdrawals
// are taxed as ordinary income.
type RRSP struct {
	roomAccount
	annualLimit      decimal.Decimal
	contributionRate decimal.Decimal
}

// NewRRSP creates a tax-deferred account.
func NewRRSP(spec AccountSpec, limits Limits) (*RRSP, error) {
	if err := spec.validate("rrsp"); err != nil {
		return nil, err
	}
	return &RRSP{
		roomAccount:      roomAccount{ledger: newLedger(spec), room: money.Round(spec.ContributionRoom)},
		annualLimit:      limits.RRSPAnnualLimit,
		contributionRate: limits.RRSPContributionRate,
	}, nil
}

func (a *RRSP) Selector() AccountSelector { return SelectRRSP }

func (a *RRSP) CalculateTax(Returns) TaxImpact {
	return TaxImpact{TaxableIncome: a.withdrawals, Deductions: a.deposits}
}

func (a *RRSP) Deposit(amount decimal.Decimal) error {
	return a.deposit("rrsp", amount)
}

func (a *RRSP) Withdraw(amount decimal.Decimal) error {
	if err := a.checkWithdrawal("rrsp", amount); err != nil {
		return err
	}
	a.debit(money.Round(amount))
	return nil
}

// IncrementYear accrues room from the previous year's income, capped by
// the indexed annual limit.
func (a *RRSP) IncrementYear(previousYearIncome, adjustment decimal.Decimal) error {
	if err := checkAdjustment(adjustment); err != nil {
		return err
	}
	if previousYearIncome.IsNegative() {
		return fmt.Errorf("%w: previous year income %s is negative", domain.ErrInvalidInput, previousYearIncome)
	}
	a.closeYear()
	earned := previousYearIncome.Mul(a.contributionRate)
	a.room = money.Sum(a.room, decimal.Min(earned, a.annualLimit.Mul(adjustment)))
	return nil
}

// Unregistered is the taxable account. It has no room limit and tracks
// cost basis to price realized capital gains.
type Unregistered struct {
	ledger
	costBasis            decimal.Decimal
	realizedCapitalGains decimal.Decimal
	inclusionRate        decimal.Decimal
}

// NewUnregistered creates a taxable account.
func NewUnregistered(spec AccountSpec, limits Limits) (*Unregistered, error) {
	if err := spec.validate("unregistered"); err != nil {
		return nil, err
	}
	a := &Unregistered{ledger: newLedger(spec), inclusionRate: limits.CapitalGainsInclusionRate}
	a.costBasis = a.balance
	if spec.CostBasis != nil {
		a.costBasis = money.Round(*spec.CostBasis)
	}
	return a, nil
}

func (a *Unregistered) Selector() AccountSelector { return SelectUnregistered }

func (a *Unregistered) AvailableRoom() (decimal.Decimal, bool) {
	return decimal.Zero, true
}

func (a *Unregistered) CostBasis() decimal.Decimal            { return a.costBasis }
func (a *Unregistered) RealizedCapitalGains() decimal.Decimal { return a.realizedCapitalGains }
func (a *Unregistered) InclusionRate() decimal.Decimal        { return a.inclusionRate }

// UnrealizedGain is balance above cost basis, floored at zero.
func (a *Unregistered) UnrealizedGain() decimal.Decimal {
	return money.NonNegative(money.Round(a.balance.Sub(a.costBasis)))
}

// CalculateTax taxes distributions in full and net realized gains at the
// inclusion rate. Net losses are ignored.
func (a *Unregistered) CalculateTax(r Returns) TaxImpact {
	gains := money.NonNegative(a.realizedCapitalGains).Mul(a.inclusionRate)
	return TaxImpact{
		TaxableIncome: money.Round(r.Income.Add(gains)),
		Deductions:    decimal.Zero,
	}
}

func (a *Unregistered) applyReturns(r Returns) {
	a.ledger.applyReturns(r)
	a.costBasis = money.Sum(a.costBasis, r.Income)
}

func (a *Unregistered) Deposit(amount decimal.Decimal) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	amount = money.Round(amount)
	a.credit(amount)
	a.costBasis = money.Sum(a.costBasis, amount)
	return nil
}

// Withdraw removes cost basis in proportion to the share of the balance
// withdrawn and records the difference as a realized gain (or loss).
func (a *Unregistered) Withdraw(amount decimal.Decimal) error {
	if err := a.checkWithdrawal("unregistered", amount); err != nil {
		return err
	}
	amount = money.Round(amount)
	if amount.IsZero() {
		return nil
	}
	removed := a.costBasis
	if amount.LessThan(a.balance) {
		removed = money.Round(a.costBasis.Mul(amount).Div(a.balance))
	}
	gain := money.Round(amount.Sub(removed))
	a.costBasis = money.Round(a.costBasis.Sub(removed))
	a.realizedCapitalGains = money.Sum(a.realizedCapitalGains, gain)
	a.debit(amount)
	return nil
}

// IncrementYear resets the trackers and the realized gains.
func (a *Unregistered) IncrementYear(_, adjustment decimal.Decimal) error {
	if err := checkAdjustment(adjustment); err != nil {
		return err
	}
	a.closeYear()
	a.realizedCapitalGains = decimal.Zero
	return nil
}

// ResetYearTrackers zeroes the trackers and the realized gains.
func (a *Unregistered) ResetYearTrackers() {
	a.ledger.ResetYearTrackers()
	a.realizedCapitalGains = decimal.Zero
}

// SetCostBasis force-overrides the cost basis.
func (a *Unregistered) SetCostBasis(costBasis decimal.Decimal) error {
	if costBasis.IsNegative() {
		return fmt.Errorf("%w: cost basis %s is negative", domain.ErrInvalidInput, costBasis)
	}
	a.costBasis = money.Round(costBasis)
	return nil
}

var (
	_ Account = (*TFSA)(nil)
	_ Account = (*RRSP)(nil)
	_ Account = (*Unregistered)(nil)
)
