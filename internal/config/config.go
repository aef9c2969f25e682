// Package config reads and writes scenario files and holds the named presets.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/circuitsim/internal/dynamo"
	"github.com/san-kum/circuitsim/internal/sources"
)

const (
	CircuitRC          = "rc"
	CircuitRCDiode     = "rc_diode"
	CircuitNonlinearRC = "nonlinear_rc"
	CircuitRLC         = "rlc"
)

// Circuits lists the supported topologies.
var Circuits = []string{CircuitRC, CircuitRCDiode, CircuitNonlinearRC, CircuitRLC}

const (
	DefaultR         = 1000.0
	DefaultC         = 1e-4
	DefaultDt        = 2e-4
	DefaultDuration  = 0.5
	DefaultAmplitude = 5.0
)

type Config struct {
	Circuit   string          `yaml:"circuit"`
	Dt        float64         `yaml:"dt"`
	Duration  float64         `yaml:"duration"`
	Params    ParamsConfig    `yaml:"params"`
	Device    DeviceConfig    `yaml:"device,omitempty"`
	Source    SourceConfig    `yaml:"source"`
	InitState InitStateConfig `yaml:"init_state"`
	Analytic  bool            `yaml:"analytic"`
}

// ParamsConfig holds the physical constants in SI units.
type ParamsConfig struct {
	R     float64 `yaml:"r,omitempty"`
	L     float64 `yaml:"l,omitempty"`
	C     float64 `yaml:"c"`
	RLoad float64 `yaml:"r_load,omitempty"`
}

// DeviceConfig selects the nonlinear element: "xdiode", "quadratic" or "resistor".
type DeviceConfig struct {
	Type  string  `yaml:"type,omitempty"`
	K     float64 `yaml:"k,omitempty"`
	R     float64 `yaml:"r,omitempty"`
	Scale float64 `yaml:"scale,omitempty"`
}

type SourceConfig struct {
	Type      string  `yaml:"type"`
	Amplitude float64 `yaml:"amplitude,omitempty"`
	Slope     float64 `yaml:"slope,omitempty"`
	Omega     float64 `yaml:"omega,omitempty"`
	Phase     float64 `yaml:"phase,omitempty"`
}

type InitStateConfig struct {
	VC float64 `yaml:"vc"`
	IL float64 `yaml:"il,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Circuit:  CircuitRC,
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Params:   ParamsConfig{R: DefaultR, C: DefaultC},
		Source:   SourceConfig{Type: "step", Amplitude: DefaultAmplitude},
		Analytic: true,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the fields the selected circuit needs. It does not judge dt
// against stability; that is the advisor's job.
func (c *Config) Validate() error {
	checks := []param{{"dt", c.Dt}, {"duration", c.Duration}, {"params.c", c.Params.C}}

	switch c.Circuit {
	case CircuitRC:
		checks = append(checks, param{"params.r", c.Params.R})
	case CircuitRCDiode:
		checks = append(checks, param{"params.r_load", c.Params.RLoad})
	case CircuitRLC:
		checks = append(checks, param{"params.r", c.Params.R}, param{"params.l", c.Params.L})
	case CircuitNonlinearRC:
	default:
		return fmt.Errorf("%w: unknown circuit %q", dynamo.ErrInvalidParameter, c.Circuit)
	}

	for _, p := range checks {
		if err := dynamo.RequirePositive(p.name, p.v); err != nil {
			return err
		}
	}
	return nil
}

type param struct {
	name string
	v    float64
}

// SourceParams converts the source block for sources.New.
func (c *Config) SourceParams() sources.Params {
	return sources.Params{
		Amplitude: c.Source.Amplitude,
		Slope:     c.Source.Slope,
		Omega:     c.Source.Omega,
		Phase:     c.Source.Phase,
	}
}

func (c *Config) GetInitState() []float64 {
	if c.Circuit == CircuitRLC {
		return []float64{c.InitState.VC, c.InitState.IL}
	}
	return []float64{c.InitState.VC}
}
