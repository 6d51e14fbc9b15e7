package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenario_Apply(t *testing.T) {
	retire := 60
	base := Configuration{
		StartAge:                     30,
		EndAge:                       90,
		AnnualSpending:               decimal.NewFromInt(40000),
		AnnualInvestmentContribution: decimal.NewFromInt(15000),
		AccountOrder:                 []string{"tfsa", "rrsp", "unregistered"},
	}

	t.Run("nil overrides inherit", func(t *testing.T) {
		out := Scenario{Name: "same"}.Apply(base)
		assert.Equal(t, base.AccountOrder, out.AccountOrder)
		assert.Nil(t, out.RetirementAge)
		assert.True(t, out.AnnualSpending.Equal(base.AnnualSpending))
	})

	t.Run("overrides replace", func(t *testing.T) {
		contribution := decimal.NewFromInt(20000)
		s := Scenario{
			Name:                         "rrsp first",
			AccountOrder:                 []string{"rrsp", "tfsa", "unregistered"},
			RetirementAge:                &retire,
			AnnualInvestmentContribution: &contribution,
		}
		out := s.Apply(base)
		assert.Equal(t, []string{"rrsp", "tfsa", "unregistered"}, out.AccountOrder)
		require.NotNil(t, out.RetirementAge)
		assert.Equal(t, 60, *out.RetirementAge)
		assert.True(t, out.AnnualInvestmentContribution.Equal(contribution))

		// the base configuration is untouched
		assert.Equal(t, "tfsa", base.AccountOrder[0])
		assert.Nil(t, base.RetirementAge)
	})
}

func TestConfiguration_EffectiveScenarios(t *testing.T) {
	cfg := Configuration{}
	scenarios := cfg.EffectiveScenarios()
	require.Len(t, scenarios, 1)
	assert.Equal(t, BaselineScenario, scenarios[0].Name)

	cfg.Scenarios = []Scenario{{Name: "a"}, {Name: "b"}}
	assert.Len(t, cfg.EffectiveScenarios(), 2)
}

func TestEventConfig_Defaults(t *testing.T) {
	end := 70
	no := false
	e := EventConfig{StartAge: 65}
	assert.Equal(t, 65, e.LastAge())
	assert.True(t, e.Adjusted())

	e.EndAge = &end
	e.InflationAdjusted = &no
	assert.Equal(t, 70, e.LastAge())
	assert.False(t, e.Adjusted())
}

func TestYearSummary_Real(t *testing.T) {
	y := YearSummary{InflationFactor: decimal.NewFromFloat(1.1)}
	assert.Equal(t, "90.91", y.Real(decimal.NewFromInt(100)).StringFixed(2))

	y = YearSummary{InflationFactor: decimal.NewFromInt(1)}
	assert.Equal(t, "100.00", y.Real(decimal.NewFromInt(100)).StringFixed(2))
}

func TestConfiguration_GenerateAssumptions(t *testing.T) {
	cfg := Configuration{
		StartAge:         30,
		InflationRate:    decimal.NewFromFloat(0.025),
		LiquidationYears: 10,
		Assets: []AssetConfig{
			{Name: "index", Kind: AssetKindEquityIndex, GrowthRate: decimal.NewFromFloat(0.05), IncomeRate: decimal.NewFromFloat(0.02)},
		},
		Limits: ContributionRules{
			TFSAAnnualLimit:           decimal.NewFromInt(7000),
			RRSPAnnualLimit:           decimal.NewFromInt(33810),
			RRSPContributionRate:      decimal.NewFromFloat(0.18),
			CapitalGainsInclusionRate: decimal.NewFromFloat(0.5),
		},
	}
	got := cfg.GenerateAssumptions()
	assert.Contains(t, got, "Inflation: 2.50% annually, compounded from age 30")
	assert.Contains(t, got, "Asset index (equity_index): growth 5.00%, income 2.00%")
	assert.Contains(t, got, "TFSA room: 7000.00 per year, indexed to inflation")
	assert.Contains(t, got, "RRSP room: 18% of prior-year income up to 33810.00, indexed to inflation")
	assert.Contains(t, got, "Capital gains inclusion rate: 50%")
	assert.Contains(t, got, "Net worth net of estimated liquidation tax spread over 10 years")
}
