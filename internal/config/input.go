package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rpgo/wealth-planner/internal/domain"
	"github.com/rpgo/wealth-planner/internal/investments"
	"github.com/rpgo/wealth-planner/internal/tax"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultConfigYAML []byte

// DefaultYAML returns the embedded base configuration.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultConfigYAML...)
}

// InputParser handles parsing of input configuration files
type InputParser struct {
	validate *validator.Validate
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	v := validator.New()
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &InputParser{validate: v}
}

// decimalValue lets numeric validation tags apply to decimal fields.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.InexactFloat64()
	}
	return nil
}

// LoadDefault parses and validates the embedded base configuration.
func (ip *InputParser) LoadDefault() (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(defaultConfigYAML, &config); err != nil {
		return nil, fmt.Errorf("failed to parse embedded defaults: %w", err)
	}
	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// LoadFromFile loads a configuration file on top of the embedded defaults.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	return ip.LoadWithOverride(filename, "")
}

// LoadWithOverride decodes the base file (the embedded defaults when base
// is empty) and then the personal file over it. Keys present in the
// personal file replace base values; lists are replaced wholesale.
func (ip *InputParser) LoadWithOverride(base, personal string) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(defaultConfigYAML, &config); err != nil {
		return nil, fmt.Errorf("failed to parse embedded defaults: %w", err)
	}
	for _, filename := range []string{base, personal} {
		if filename == "" {
			continue
		}
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML %s: %w", filename, err)
		}
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := ip.validate.Struct(config); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("%w: %s failed %q check (value %v)", domain.ErrInvalidInput, fe.Namespace(), fe.ActualTag(), fe.Value())
		}
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if config.EndAge < config.StartAge {
		return fmt.Errorf("%w: end_age %d before start_age %d", domain.ErrInvalidRange, config.EndAge, config.StartAge)
	}
	if err := ip.validateRetirementAge("retirement_age", config.RetirementAge, config); err != nil {
		return err
	}
	if _, err := investments.ParseOrder(config.AccountOrder); err != nil {
		return fmt.Errorf("account_order: %w", err)
	}
	if err := ip.validateAssets(config); err != nil {
		return err
	}
	if r := config.Retirement; r != nil {
		if _, err := investments.ParseOrder(r.AccountOrder); err != nil {
			return fmt.Errorf("retirement.account_order: %w", err)
		}
	}
	if _, err := tax.NewCalculator(tax.BracketsFromConfig(config.Tax.Federal), tax.BracketsFromConfig(config.Tax.Provincial)); err != nil {
		return fmt.Errorf("tax: %w", err)
	}

	for i, event := range config.Events {
		if err := ip.validateEvent(i, &event, config); err != nil {
			return fmt.Errorf("events[%d]: %w", i, err)
		}
	}

	names := make(map[string]bool, len(config.Scenarios))
	for i, scenario := range config.Scenarios {
		if names[scenario.Name] {
			return fmt.Errorf("%w: scenarios[%d] name %q repeated", domain.ErrInvalidInput, i, scenario.Name)
		}
		names[scenario.Name] = true
		if err := ip.validateScenario(i, &scenario, config); err != nil {
			return fmt.Errorf("scenarios[%d]: %w", i, err)
		}
	}

	return nil
}

func (ip *InputParser) validateRetirementAge(field string, age *int, config *domain.Configuration) error {
	if age == nil {
		return nil
	}
	if *age < config.StartAge || *age > config.EndAge {
		return fmt.Errorf("%w: %s %d outside %d-%d", domain.ErrOutOfRange, field, *age, config.StartAge, config.EndAge)
	}
	return nil
}

func (ip *InputParser) validateAssets(config *domain.Configuration) error {
	declared := make(map[string]bool, len(config.Assets))
	for i, a := range config.Assets {
		if declared[a.Name] {
			return fmt.Errorf("%w: assets[%d] name %q repeated", domain.ErrInvalidInput, i, a.Name)
		}
		declared[a.Name] = true
	}
	refs := map[string]string{
		"tfsa":         config.AccountAssets.TFSA,
		"rrsp":         config.AccountAssets.RRSP,
		"unregistered": config.AccountAssets.Unregistered,
	}
	for account, name := range refs {
		if name != "" && !declared[name] {
			return fmt.Errorf("%w: account_assets.%s refers to unknown asset %q", domain.ErrInvalidInput, account, name)
		}
	}
	return nil
}

func (ip *InputParser) validateEvent(_ int, event *domain.EventConfig, config *domain.Configuration) error {
	if event.LastAge() < event.StartAge {
		return fmt.Errorf("%w: end_age %d before start_age %d", domain.ErrInvalidRange, event.LastAge(), event.StartAge)
	}
	if event.StartAge < config.StartAge || event.LastAge() > config.EndAge {
		return fmt.Errorf("%w: ages %d-%d outside %d-%d", domain.ErrOutOfRange, event.StartAge, event.LastAge(), config.StartAge, config.EndAge)
	}
	if len(event.AccountOrder) > 0 {
		if _, err := investments.ParseOrder(event.AccountOrder); err != nil {
			return err
		}
	}
	switch event.Type {
	case domain.EventSetInvestmentAccount:
		if event.AccountValues == nil {
			return fmt.Errorf("%w: %s requires account_values", domain.ErrInvalidInput, event.Type)
		}
	case domain.EventSetFreeCash:
	default:
		if event.Amount.IsNegative() {
			return fmt.Errorf("%w: amount %s is negative", domain.ErrInvalidInput, event.Amount)
		}
	}
	return nil
}

func (ip *InputParser) validateScenario(_ int, scenario *domain.Scenario, config *domain.Configuration) error {
	if strings.TrimSpace(scenario.Name) == "" {
		return fmt.Errorf("%w: scenario name is required", domain.ErrInvalidInput)
	}
	if len(scenario.AccountOrder) > 0 {
		if _, err := investments.ParseOrder(scenario.AccountOrder); err != nil {
			return err
		}
	}
	return ip.validateRetirementAge("retirement_age", scenario.RetirementAge, config)
}
