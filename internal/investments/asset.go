package investments

import (
	"fmt"

	"github.com/rpgo/wealth-planner/internal/domain"
	"github.com/rpgo/wealth-planner/pkg/money"
	"github.com/shopspring/decimal"
)

// AssetKind enumerates the supported asset variants.
type AssetKind int

const (
	// EquityIndex grows and pays distributions.
	EquityIndex AssetKind = iota
	// FixedIncome pays income only.
	FixedIncome
)

func (k AssetKind) String() string {
	switch k {
	case EquityIndex:
		return domain.AssetKindEquityIndex
	case FixedIncome:
		return domain.AssetKindFixedIncome
	default:
		return fmt.Sprintf("asset_kind(%d)", int(k))
	}
}

// Returns is one year of investment return on a balance.
type Returns struct {
	Growth decimal.Decimal `json:"growth"`
	Income decimal.Decimal `json:"income"`
}

// Total is growth plus income.
func (r Returns) Total() decimal.Decimal {
	return money.Sum(r.Growth, r.Income)
}

// AssetType is an immutable return model shared by reference between
// accounts. A nil *AssetType earns nothing.
type AssetType struct {
	name       string
	kind       AssetKind
	growthRate decimal.Decimal
	incomeRate decimal.Decimal
}

// NewEquityIndexAsset creates an asset with separate growth and income rates.
func NewEquityIndexAsset(name string, growthRate, incomeRate decimal.Decimal) (*AssetType, error) {
	if growthRate.IsNegative() || incomeRate.IsNegative() {
		return nil, fmt.Errorf("%w: asset %q rates must not be negative", domain.ErrInvalidInput, name)
	}
	return &AssetType{name: name, kind: EquityIndex, growthRate: growthRate, incomeRate: incomeRate}, nil
}

// NewFixedIncomeAsset creates an income-only asset.
func NewFixedIncomeAsset(name string, rate decimal.Decimal) (*AssetType, error) {
	if rate.IsNegative() {
		return nil, fmt.Errorf("%w: asset %q rate must not be negative", domain.ErrInvalidInput, name)
	}
	return &AssetType{name: name, kind: FixedIncome, incomeRate: rate}, nil
}

// NewAsset builds an asset from its configuration entry.
func NewAsset(cfg domain.AssetConfig) (*AssetType, error) {
	switch cfg.Kind {
	case domain.AssetKindEquityIndex:
		return NewEquityIndexAsset(cfg.Name, cfg.GrowthRate, cfg.IncomeRate)
	case domain.AssetKindFixedIncome:
		return NewFixedIncomeAsset(cfg.Name, cfg.IncomeRate)
	default:
		return nil, fmt.Errorf("%w: asset %q has unknown kind %q", domain.ErrInvalidInput, cfg.Name, cfg.Kind)
	}
}

func (a *AssetType) Name() string {
	if a == nil {
		return ""
	}
	return a.name
}

func (a *AssetType) Kind() AssetKind { return a.kind }

func (a *AssetType) GrowthRate() decimal.Decimal {
	if a == nil {
		return decimal.Zero
	}
	return a.growthRate
}

func (a *AssetType) IncomeRate() decimal.Decimal {
	if a == nil {
		return decimal.Zero
	}
	return a.incomeRate
}

// CalculateReturns returns one year of growth and income on balance.
func (a *AssetType) CalculateReturns(balance decimal.Decimal) Returns {
	if a == nil || !balance.IsPositive() {
		return Returns{Growth: decimal.Zero, Income: decimal.Zero}
	}
	r := Returns{Growth: decimal.Zero, Income: money.Round(balance.Mul(a.incomeRate))}
	if a.kind == EquityIndex {
		r.Growth = money.Round(balance.Mul(a.growthRate))
	}
	return r
}
