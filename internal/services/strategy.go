package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/novinresanehco/lifeos-backend/internal/types"
)

// StrategyForImportance is the fixed importance→strategy policy. It is a
// caller decision: the processor only consumes the strategy value.
func StrategyForImportance(importance types.Importance) types.ProcessingStrategy {
	switch importance {
	case types.ImportanceLow:
		return types.StrategySingleBasic
	case types.ImportanceMedium:
		return types.StrategySingleBest
	case types.ImportanceHigh:
		return types.StrategyMultiModelSelective
	case types.ImportanceCritical:
		return types.StrategyAllEncompassing
	default:
		return types.StrategySingleBest
	}
}

// StrategyTuning holds per-strategy generation parameters, merged on top of
// whatever the request supplies.
type StrategyTuning struct {
	Strategies map[types.ProcessingStrategy]map[string]any `yaml:"strategies"`
}

func DefaultStrategyTuning() StrategyTuning {
	return StrategyTuning{
		Strategies: map[types.ProcessingStrategy]map[string]any{
			types.StrategySingleBasic:         {"temperature": 0.7},
			types.StrategySingleBest:          {"temperature": 0.5},
			types.StrategyMultiModelSelective: {"temperature": 0.4},
			types.StrategyAllEncompassing:     {"temperature": 0.3},
		},
	}
}

// LoadStrategyTuning reads the tuning table from a YAML file, falling back to
// defaults when path is empty or the file is absent.
func LoadStrategyTuning(path string) (StrategyTuning, error) {
	tuning := DefaultStrategyTuning()
	if path == "" {
		return tuning, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return tuning, nil
		}
		return tuning, fmt.Errorf("read strategy tuning: %w", err)
	}
	var loaded StrategyTuning
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return tuning, fmt.Errorf("parse strategy tuning: %w", err)
	}
	for strategy, params := range loaded.Strategies {
		tuning.Strategies[strategy] = params
	}
	return tuning, nil
}

// ParamsFor merges the tuning for one strategy with request overrides;
// overrides win.
func (t StrategyTuning) ParamsFor(strategy types.ProcessingStrategy, overrides map[string]any) map[string]any {
	merged := make(map[string]any)
	for k, v := range t.Strategies[strategy] {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}
