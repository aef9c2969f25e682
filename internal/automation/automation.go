// Package automation runs batches of scenarios, parameter sweeps and
// component-tolerance Monte Carlo studies.
package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/circuitsim/internal/config"
	"github.com/san-kum/circuitsim/internal/dynamo"
	"github.com/san-kum/circuitsim/internal/experiment"
	"github.com/san-kum/circuitsim/internal/storage"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset ("rc/step") or a config file, then applies Set.
type ScenarioStep struct {
	Preset string             `yaml:"preset,omitempty"`
	Config string             `yaml:"config,omitempty"`
	Set    map[string]float64 `yaml:"set,omitempty"`
	SaveAs string             `yaml:"save_as,omitempty"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// AllPresets is the scenario that runs every built-in example once.
func AllPresets() *Scenario {
	sc := &Scenario{Name: "examples", Description: "every built-in preset"}
	for _, circuit := range config.Circuits {
		for _, name := range config.ListPresets(circuit) {
			id := circuit + "/" + name
			sc.Steps = append(sc.Steps, ScenarioStep{Preset: id, SaveAs: id})
		}
	}
	return sc
}

// Resolve builds the config for a step.
func (s ScenarioStep) Resolve() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case s.Preset != "":
		circuit, name, ok := strings.Cut(s.Preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset %q: want circuit/name", s.Preset)
		}
		if cfg = config.GetPreset(circuit, name); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	case s.Config != "":
		var err error
		if cfg, err = config.Load(s.Config); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("step needs a preset or a config file")
	}

	for k, v := range s.Set {
		if err := cfg.Set(k, v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Runner executes scenarios. Steps with SaveAs are persisted when a store is set.
type Runner struct {
	logger log.Logger
	store  *storage.Store
}

func NewRunner(logger log.Logger, store *storage.Store) *Runner {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Runner{logger: log.With(logger, "subsys", "automation"), store: store}
}

// StepResult pairs a step's run with the ID it was saved under.
type StepResult struct {
	Step   ScenarioStep
	Result *experiment.Result
	RunID  string
}

// RunScenario executes all steps in a scenario
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		level.Info(r.logger).Log("msg", "step", "n", i+1, "of", len(scenario.Steps), "preset", step.Preset, "config", step.Config)

		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		result, err := experiment.New(cfg, experiment.WithLogger(r.logger)).Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: step, Result: result}
		if step.SaveAs != "" && r.store != nil {
			if sr.RunID, err = r.store.Save(Metadata(step.SaveAs, result), result.Trajectory); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// Metadata describes result for the store.
func Metadata(name string, res *experiment.Result) storage.RunMetadata {
	return storage.RunMetadata{
		Name:     name,
		Circuit:  res.Config.Circuit,
		Dt:       res.Config.Dt,
		Duration: res.Config.Duration,
		Labels:   res.StateLabels,
		Params:   res.Info.Params,
		Damping:  res.Info.Damping,
		Metrics:  res.Metrics,
		MaxError: res.MaxError,
		RMSError: res.RMSError,
		Warnings: res.Advice.Warnings,
		Config:   res.Config,
	}
}

// ParameterSweep runs Base across evenly spaced values of one parameter.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	FinalState dynamo.State
	MaxError   float64
	Diverged   bool
	Stable     bool
	Warnings   int
}

// RunSweep executes a parameter sweep
func (r *Runner) RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("%w: sweep needs at least 2 steps", dynamo.ErrInvalidParameter)
	}
	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep
		cfg := *sweep.Base
		if err := cfg.Set(sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		result, err := experiment.New(&cfg, experiment.WithLogger(r.logger)).Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			FinalState: result.Trajectory.Final(),
			MaxError:   result.MaxError,
			Diverged:   result.Trajectory.Diverged(),
			Stable:     result.Advice.Stable,
			Warnings:   len(result.Advice.Warnings),
		})
		level.Debug(r.logger).Log("msg", "sweep", "n", i+1, "of", sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}

// MonteCarloConfig perturbs component values within a relative tolerance,
// e.g. Params ["r", "c"] with Tolerance 0.05 for 5% parts.
type MonteCarloConfig struct {
	Base      *config.Config
	Params    []string
	Tolerance float64
	NumTrials int
	Seed      int64
}

// MonteCarloResult holds one trial
type MonteCarloResult struct {
	TrialID    int
	Values     map[string]float64
	FinalState dynamo.State
	Metrics    map[string]float64
	Stable     bool
}

// RunMonteCarlo executes trials with uniformly perturbed component values.
func (r *Runner) RunMonteCarlo(ctx context.Context, mc *MonteCarloConfig) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, mc.NumTrials)

	rng := rand.New(rand.NewSource(mc.Seed))
	if mc.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	nominal, err := nominalValues(mc.Base, mc.Params)
	if err != nil {
		return nil, err
	}

	for trial := 0; trial < mc.NumTrials; trial++ {
		cfg := *mc.Base
		values := make(map[string]float64, len(mc.Params))
		for _, name := range mc.Params {
			v := nominal[name] * (1 + (rng.Float64()-0.5)*2*mc.Tolerance)
			values[name] = v
			if err := cfg.Set(name, v); err != nil {
				return nil, err
			}
		}

		result, err := experiment.New(&cfg, experiment.WithLogger(r.logger)).Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", trial, err)
		}

		results = append(results, MonteCarloResult{
			TrialID:    trial,
			Values:     values,
			FinalState: result.Trajectory.Final(),
			Metrics:    result.Metrics,
			Stable:     !result.Trajectory.Diverged() && result.Metrics["stability"] == 1,
		})

		if (trial+1)%10 == 0 {
			level.Info(r.logger).Log("msg", "monte carlo", "done", trial+1, "of", mc.NumTrials)
		}
	}

	return results, nil
}

func nominalValues(cfg *config.Config, names []string) (map[string]float64, error) {
	get := map[string]float64{
		"r": cfg.Params.R, "l": cfg.Params.L, "c": cfg.Params.C,
		"r_load": cfg.Params.RLoad, "k": cfg.Device.K,
	}
	out := make(map[string]float64, len(names))
	for _, n := range names {
		v, ok := get[n]
		if !ok {
			return nil, fmt.Errorf("cannot perturb %s: only component values (r, l, c, r_load, k)", n)
		}
		out[n] = v
	}
	return out, nil
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
