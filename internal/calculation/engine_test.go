package calculation

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/rpgo/wealth-planner/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func intPtr(v int) *int { return &v }

// createTestConfiguration returns a plan with no returns, inflation,
// income or spending; tests switch on what they need.
func createTestConfiguration(startAge, endAge int) *domain.Configuration {
	return &domain.Configuration{
		StartAge:         startAge,
		EndAge:           endAge,
		InflationRate:    decimal.Zero,
		LiquidationYears: 1,
		AccountOrder:     []string{"tfsa", "rrsp", "unregistered"},
		Assets: []domain.AssetConfig{
			{Name: "cash", Kind: domain.AssetKindFixedIncome, IncomeRate: decimal.Zero},
		},
	}
}

func TestGenerateAnnualProjection_DeflatesFreeCash(t *testing.T) {
	cfg := createTestConfiguration(30, 31)
	cfg.InflationRate = d(0.1)
	cfg.Initial.FreeCash = d(100)

	result, err := NewCalculationEngine().RunScenario(context.Background(), cfg, domain.Scenario{Name: "cash"})
	require.NoError(t, err)
	require.Len(t, result.Years, 2)

	first, second := result.Years[0], result.Years[1]
	assert.Equal(t, "100.00", first.FreeCash.StringFixed(2))
	assert.Equal(t, "100.00", second.FreeCash.StringFixed(2))
	assert.Equal(t, "100.00", first.Real(first.FreeCash).StringFixed(2))
	assert.Equal(t, "90.91", second.Real(second.FreeCash).StringFixed(2))
	assert.Equal(t, "90.91", result.FinalRealNetWorth.StringFixed(2))
	assert.True(t, second.InflationFactor.Equal(d(1.1)))
}

func TestGenerateAnnualProjection_RetirementStopsIncome(t *testing.T) {
	cfg := createTestConfiguration(63, 66)
	cfg.AnnualIncome = d(5000)
	cfg.RetirementAge = intPtr(65)

	result, err := NewCalculationEngine().RunScenario(context.Background(), cfg, domain.Scenario{Name: "retire"})
	require.NoError(t, err)

	incomes := map[int]string{}
	retired := map[int]bool{}
	for _, y := range result.Years {
		incomes[y.Age] = y.Income.StringFixed(2)
		retired[y.Age] = y.IsRetired
	}
	assert.Equal(t, map[int]string{63: "5000.00", 64: "5000.00", 65: "0.00", 66: "0.00"}, incomes)
	assert.Equal(t, map[int]bool{63: false, 64: false, 65: true, 66: true}, retired)
	require.NotNil(t, result.RetirementAge)
	assert.Equal(t, 65, *result.RetirementAge)
}

func TestGenerateAnnualProjection_ContributionsAndTax(t *testing.T) {
	cfg := createTestConfiguration(30, 30)
	cfg.AnnualIncome = d(50000)
	cfg.AnnualSpending = d(30000)
	cfg.AnnualInvestmentContribution = d(15000)
	cfg.AccountOrder = []string{"rrsp", "tfsa", "unregistered"}
	cfg.Initial.RRSPRoom = d(5000)
	cfg.Initial.TFSARoom = d(6000)

	result, err := NewCalculationEngine().RunScenario(context.Background(), cfg, domain.Scenario{Name: "saver"})
	require.NoError(t, err)
	y := result.Years[0]

	assert.Equal(t, "15000.00", y.Contribution.StringFixed(2))
	assert.Equal(t, "5000.00", y.RRSP.StringFixed(2))
	assert.Equal(t, "6000.00", y.TFSA.StringFixed(2))
	assert.Equal(t, "4000.00", y.Unregistered.StringFixed(2))
	assert.Equal(t, "45000.00", y.NetTaxableIncome.StringFixed(2))

	// 50000 - 15000 - 30000 - tax
	assert.True(t, y.FreeCash.Equal(d(5000).Sub(y.TaxOwed)), "free cash %s tax %s", y.FreeCash, y.TaxOwed)
	assert.True(t, y.NetWorth.Equal(y.FreeCash.Add(y.Investments)))
	assert.True(t, y.Investments.LessThan(d(15000)), "rrsp carries deferred tax")
	assert.True(t, result.TotalTaxPaid.Equal(y.TaxOwed))
}

func TestGenerateAnnualProjection_ContributionLimitedByFreeCash(t *testing.T) {
	cfg := createTestConfiguration(30, 30)
	cfg.Initial.FreeCash = d(2500)
	cfg.AnnualInvestmentContribution = d(10000)
	cfg.AccountOrder = []string{"unregistered"}

	result, err := NewCalculationEngine().RunScenario(context.Background(), cfg, domain.Scenario{Name: "short"})
	require.NoError(t, err)
	y := result.Years[0]
	assert.Equal(t, "2500.00", y.Contribution.StringFixed(2))
	assert.True(t, y.FreeCash.IsZero())
	assert.Equal(t, "2500.00", y.Unregistered.StringFixed(2))
}

func TestGenerateAnnualProjection_NetWorthInvariantToOrder(t *testing.T) {
	var netWorths []string
	for _, order := range [][]string{{"tfsa", "unregistered"}, {"unregistered", "tfsa"}} {
		cfg := createTestConfiguration(30, 30)
		cfg.Initial.FreeCash = d(10000)
		cfg.Initial.TFSARoom = d(7000)
		cfg.AnnualInvestmentContribution = d(8000)
		cfg.AccountOrder = order

		result, err := NewCalculationEngine().RunScenario(context.Background(), cfg, domain.Scenario{Name: "order"})
		require.NoError(t, err)
		netWorths = append(netWorths, result.FinalNetWorth.StringFixed(2))
	}
	assert.Equal(t, []string{"10000.00", "10000.00"}, netWorths)
}

func TestGenerateAnnualProjection_DepositCappedAtRoom(t *testing.T) {
	var logs bytes.Buffer
	engine := NewCalculationEngine()
	engine.SetLogger(NewSlogLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))))

	cfg := createTestConfiguration(30, 30)
	cfg.Initial.FreeCash = d(5000)
	cfg.Initial.TFSARoom = d(1000)
	cfg.AnnualInvestmentContribution = d(3000)
	cfg.AccountOrder = []string{"tfsa"}

	result, err := engine.RunScenario(context.Background(), cfg, domain.Scenario{Name: "capped"})
	require.NoError(t, err)
	y := result.Years[0]
	assert.Equal(t, "1000.00", y.Contribution.StringFixed(2))
	assert.Equal(t, "1000.00", y.TFSA.StringFixed(2))
	assert.Equal(t, "4000.00", y.FreeCash.StringFixed(2))

	assert.Contains(t, logs.String(), "capped at remaining room 1000.00")
	assert.Contains(t, logs.String(), "age 30")
}

func TestGenerateAnnualProjection_WithdrawalFallbacks(t *testing.T) {
	cfg := createTestConfiguration(60, 62)
	cfg.Initial.RRSPBalance = d(1000)
	cfg.RetirementAge = intPtr(60)
	fixed := false
	cfg.Retirement = &domain.RetirementConfig{
		AnnualWithdrawal:  d(400),
		AccountOrder:      []string{"tfsa"},
		InflationAdjusted: &fixed,
	}

	result, err := NewCalculationEngine().RunScenario(context.Background(), cfg, domain.Scenario{Name: "drawdown"})
	require.NoError(t, err)
	require.Len(t, result.Years, 3)

	var withdrawals []string
	var depleted []bool
	for _, y := range result.Years {
		withdrawals = append(withdrawals, y.Withdrawal.StringFixed(2))
		depleted = append(depleted, y.Depleted)
	}
	assert.Equal(t, []string{"400.00", "400.00", "200.00"}, withdrawals)
	assert.Equal(t, []bool{false, false, true}, depleted)
	require.NotNil(t, result.DepletionAge)
	assert.Equal(t, 62, *result.DepletionAge)
	assert.True(t, result.Years[2].RRSP.IsZero())

	// rrsp withdrawals are taxed as income
	assert.Equal(t, "400.00", result.Years[0].NetTaxableIncome.StringFixed(2))
	assert.True(t, result.Years[0].TaxOwed.IsPositive())
}

func TestGenerateAnnualProjection_ExtraEvents(t *testing.T) {
	cfg := createTestConfiguration(40, 42)
	cfg.AnnualSpending = d(1000)
	end := 42
	cfg.Events = []domain.EventConfig{
		{Type: domain.EventSetFreeCash, StartAge: 41, Amount: d(50000)},
		{Type: domain.EventSetAnnualSpending, StartAge: 41, EndAge: &end, Amount: d(2000)},
	}

	result, err := NewCalculationEngine().RunScenario(context.Background(), cfg, domain.Scenario{Name: "windfall"})
	require.NoError(t, err)
	assert.Equal(t, "-1000.00", result.Years[0].FreeCash.StringFixed(2))
	assert.Equal(t, "48000.00", result.Years[1].FreeCash.StringFixed(2))
	assert.Equal(t, "46000.00", result.Years[2].FreeCash.StringFixed(2))
	assert.Equal(t, "2000.00", result.Years[2].Spending.StringFixed(2))
}

func TestGenerateAnnualProjection_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCalculationEngine().RunScenario(ctx, createTestConfiguration(30, 40), domain.Scenario{Name: "x"})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunScenarios(t *testing.T) {
	cfg := createTestConfiguration(30, 35)
	cfg.Initial.FreeCash = d(1000)
	cfg.AnnualIncome = d(40000)
	cfg.AnnualSpending = d(20000)
	cfg.AnnualInvestmentContribution = d(10000)
	spendMore := d(35000)
	cfg.Scenarios = []domain.Scenario{
		{Name: "frugal"},
		{Name: "lavish", AnnualSpending: &spendMore},
	}

	comparison, err := NewCalculationEngine().RunScenarios(context.Background(), cfg)
	require.NoError(t, err)

	_, err = uuid.Parse(comparison.RunID)
	assert.NoError(t, err)
	require.Len(t, comparison.Scenarios, 2)
	assert.Equal(t, "frugal", comparison.Scenarios[0].Name)
	assert.Len(t, comparison.Scenarios[0].Years, 6)
	assert.True(t, comparison.Scenarios[0].FinalNetWorth.GreaterThan(comparison.Scenarios[1].FinalNetWorth))
	assert.NotEmpty(t, comparison.Assumptions)

	// scenarios do not leak into the base configuration
	assert.True(t, cfg.AnnualSpending.Equal(d(20000)))

	cfg.Scenarios = nil
	comparison, err = NewCalculationEngine().RunScenarios(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, comparison.Scenarios, 1)
	assert.Equal(t, domain.BaselineScenario, comparison.Scenarios[0].Name)
}

func TestRunScenario_InvalidConfiguration(t *testing.T) {
	engine := NewCalculationEngine()

	cfg := createTestConfiguration(40, 30)
	_, err := engine.RunScenario(context.Background(), cfg, domain.Scenario{Name: "inverted"})
	assert.True(t, errors.Is(err, domain.ErrInvalidRange))

	cfg = createTestConfiguration(30, 31)
	cfg.AccountAssets.TFSA = "missing"
	_, err = engine.RunScenario(context.Background(), cfg, domain.Scenario{Name: "asset"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	cfg = createTestConfiguration(30, 31)
	cfg.Events = []domain.EventConfig{{Type: domain.EventSetFreeCash, StartAge: 50}}
	_, err = engine.RunScenario(context.Background(), cfg, domain.Scenario{Name: "event"})
	assert.True(t, errors.Is(err, domain.ErrOutOfRange))

	cfg = createTestConfiguration(30, 31)
	cfg.LiquidationYears = 0
	cfg.Initial.RRSPBalance = d(100)
	_, err = engine.RunScenario(context.Background(), cfg, domain.Scenario{Name: "liquidation"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	cfg = createTestConfiguration(30, 31)
	cfg.Tax.Federal = []domain.BracketConfig{{UpperLimit: &decimal.Zero, Rate: d(0.1)}}
	_, err = engine.RunScenario(context.Background(), cfg, domain.Scenario{Name: "tax"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestSetLogger_NilFallsBackToNop(t *testing.T) {
	engine := NewCalculationEngine()
	engine.SetLogger(nil)
	assert.IsType(t, NopLogger{}, engine.Logger)
}
