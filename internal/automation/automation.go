package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/san-kum/chainsim/internal/config"
	"github.com/san-kum/chainsim/internal/dynamo"
	"github.com/san-kum/chainsim/internal/experiment"
	"github.com/san-kum/chainsim/internal/optim"
	"github.com/san-kum/chainsim/internal/sim"
	"github.com/san-kum/chainsim/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run: a preset with optional overrides.
type ScenarioStep struct {
	Preset   string               `yaml:"preset"`
	Duration float64              `yaml:"duration"`
	Dt       float64              `yaml:"dt"`
	Params   map[string]float64   `yaml:"params"`
	Driver   *config.DriverConfig `yaml:"driver"`
	SaveAs   string               `yaml:"save_as"`
}

// StepResult pairs a step's run with the id it was stored under, if any.
type StepResult struct {
	RunID  string
	Config *config.Config
	Result *sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Config resolves the step against its preset.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	for k, v := range s.Params {
		set, ok := optim.Params[k]
		if !ok {
			return nil, fmt.Errorf("unknown param: %s", k)
		}
		set(cfg, v)
	}
	if s.Driver != nil {
		cfg.Driver = *s.Driver
	}
	if s.SaveAs != "" {
		cfg.Name = s.SaveAs
	}
	return cfg, cfg.Validate()
}

// RunScenario executes all steps in order. Steps with save_as are stored
// when st is not nil.
func RunScenario(ctx context.Context, scenario *Scenario, st *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))
	registry := experiment.NewRegistry()

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		fmt.Printf("Running step %d/%d: %s\n", i+1, len(scenario.Steps), cfg.Name)

		exp := experiment.New(cfg)
		if err := exp.Setup(registry.DefaultMetrics()); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Config: cfg, Result: result}
		if st != nil && step.SaveAs != "" {
			if sr.RunID, err = st.Save(cfg, result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// ParameterSweep runs a base config across evenly spaced values of one param
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

type SweepResult struct {
	ParamValue float64
	MaxStretch float64
	LeafSag    float64
	FinalState dynamo.State
}

func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	set, ok := optim.Params[sweep.ParamName]
	if !ok {
		return nil, fmt.Errorf("unknown param: %s", sweep.ParamName)
	}
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}

	registry := experiment.NewRegistry()
	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep
		cfg := *sweep.Base
		set(&cfg, paramVal)

		exp := experiment.New(&cfg)
		if err := exp.Setup(registry.DefaultMetrics()); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		var final dynamo.State
		if len(result.States) > 0 {
			final = result.States[len(result.States)-1]
		}
		results = append(results, SweepResult{
			ParamValue: paramVal,
			MaxStretch: result.Metrics["max_stretch"],
			LeafSag:    result.Metrics["leaf_sag"],
			FinalState: final,
		})
	}

	return results, nil
}

// MonteCarloConfig perturbs the root tilt of Base uniformly by up to
// Perturbation degrees per trial.
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	NumTrials    int
	Seed         int64
}

type MonteCarloResult struct {
	TrialID    int
	Tilt       float64
	FinalState dynamo.State
	Stable     bool // Did simulation remain bounded?
}

func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for trial := 0; trial < cfg.NumTrials; trial++ {
		trialCfg := *cfg.Base
		trialCfg.Tilt += (rng.Float64() - 0.5) * 2 * cfg.Perturbation

		exp := experiment.New(&trialCfg)
		if err := exp.Setup(nil); err != nil {
			return nil, err
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		stable := len(result.Errors) == 0
		var final dynamo.State
		if len(result.States) > 0 {
			final = result.States[len(result.States)-1]
			for _, v := range final {
				if v > experiment.StabilityBound || v < -experiment.StabilityBound {
					stable = false
					break
				}
			}
		}

		results = append(results, MonteCarloResult{
			TrialID:    trial,
			Tilt:       trialCfg.Tilt,
			FinalState: final,
			Stable:     stable,
		})
	}

	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
