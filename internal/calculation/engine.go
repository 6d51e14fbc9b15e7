package calculation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rpgo/wealth-planner/internal/domain"
)

// CalculationEngine runs plan scenarios from a configuration.
type CalculationEngine struct {
	Logger Logger
}

// NewCalculationEngine creates a new calculation engine
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{Logger: NopLogger{}}
}

// SetLogger sets the logger for the calculation engine. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// RunScenario simulates one scenario from fresh state.
func (ce *CalculationEngine) RunScenario(ctx context.Context, config *domain.Configuration, scenario domain.Scenario) (*domain.ScenarioResult, error) {
	effective := scenario.Apply(*config)
	if effective.EndAge < effective.StartAge {
		return nil, fmt.Errorf("%w: end age %d before start age %d", domain.ErrInvalidRange, effective.EndAge, effective.StartAge)
	}

	inv, err := BuildInvestments(&effective)
	if err != nil {
		return nil, fmt.Errorf("build investments: %w", err)
	}
	tl, err := BuildTimeline(&effective)
	if err != nil {
		return nil, fmt.Errorf("build timeline: %w", err)
	}
	state := NewState(inv)

	ce.Logger.Infof("scenario %q: ages %d-%d, order %v", scenario.Name, effective.StartAge, effective.EndAge, effective.AccountOrder)
	years, err := ce.GenerateAnnualProjection(ctx, &effective, tl, state)
	if err != nil {
		return nil, err
	}
	return summarizeScenario(scenario.Name, &effective, years), nil
}

// RunScenarios runs all scenarios and returns a comparison
func (ce *CalculationEngine) RunScenarios(ctx context.Context, config *domain.Configuration) (*domain.ScenarioComparison, error) {
	scenarios := config.EffectiveScenarios()
	results := make([]domain.ScenarioResult, 0, len(scenarios))
	for _, scenario := range scenarios {
		result, err := ce.RunScenario(ctx, config, scenario)
		if err != nil {
			return nil, fmt.Errorf("RunScenario %q failed: %w", scenario.Name, err)
		}
		results = append(results, *result)
	}

	return &domain.ScenarioComparison{
		RunID:       uuid.NewString(),
		StartAge:    config.StartAge,
		EndAge:      config.EndAge,
		Scenarios:   results,
		Assumptions: config.GenerateAssumptions(),
	}, nil
}
