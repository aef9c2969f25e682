package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/circuitsim/internal/config"
)

// numericFlags maps flag names to config.Config.Set names.
var numericFlags = []struct{ flag, param, usage string }{
	{"dt", "dt", "timestep (s)"},
	{"time", "duration", "simulated duration (s)"},
	{"r", "r", "series resistance (ohm)"},
	{"l", "l", "inductance (H)"},
	{"c", "c", "capacitance (F)"},
	{"r-load", "r_load", "load resistance (ohm)"},
	{"k", "k", "quadratic device coefficient (A/V^2)"},
	{"scale", "scale", "X-diode current scale"},
	{"amplitude", "amplitude", "source amplitude (V)"},
	{"slope", "slope", "ramp slope (V/s)"},
	{"omega", "omega", "source angular frequency (rad/s)"},
	{"phase", "phase", "source phase (rad)"},
	{"vc", "vc", "initial capacitor voltage (V)"},
	{"il", "il", "initial inductor current (A)"},
}

// scenarioFlags builds a config as circuit default < preset < config file <
// changed flags.
type scenarioFlags struct {
	preset     string
	configFile string
	source     string
	device     string
	analytic   bool
	set        []string
}

func addScenarioFlags(cmd *cobra.Command) *scenarioFlags {
	sf := &scenarioFlags{}
	f := cmd.Flags()
	f.StringVar(&sf.preset, "preset", "", "start from a preset (name, or circuit/name)")
	f.StringVar(&sf.configFile, "config", "", "config file path (yaml)")
	f.StringVar(&sf.source, "source", "", "source type: step, ramp, sinusoid")
	f.StringVar(&sf.device, "device", "", "device type: xdiode, quadratic, resistor")
	f.BoolVar(&sf.analytic, "analytic", true, "compute the analytic reference when one exists")
	f.StringArrayVar(&sf.set, "set", nil, "override a parameter, name=value (repeatable)")
	for _, nf := range numericFlags {
		f.Float64(nf.flag, 0, nf.usage)
	}
	return sf
}

func (sf *scenarioFlags) build(cmd *cobra.Command, args []string) (*config.Config, error) {
	circuit := ""
	if len(args) > 0 {
		circuit = args[0]
	}

	cfg := config.DefaultConfig()
	if circuit != "" {
		if d := config.DefaultPreset(circuit); d != nil {
			cfg = d
		} else {
			cfg.Circuit = circuit
		}
	}

	if sf.preset != "" {
		c, name, ok := strings.Cut(sf.preset, "/")
		if !ok {
			c, name = cfg.Circuit, sf.preset
		}
		p := config.GetPreset(c, name)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available for %s: %v)", sf.preset, c, config.ListPresets(c))
		}
		cfg = p
	}

	if sf.configFile != "" {
		loaded, err := config.Load(sf.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	f := cmd.Flags()
	for _, nf := range numericFlags {
		if !f.Changed(nf.flag) {
			continue
		}
		v, err := f.GetFloat64(nf.flag)
		if err != nil {
			return nil, err
		}
		if err := cfg.Set(nf.param, v); err != nil {
			return nil, err
		}
	}
	if f.Changed("source") {
		cfg.Source.Type = sf.source
	}
	if f.Changed("device") {
		cfg.Device.Type = sf.device
	}
	if f.Changed("analytic") {
		cfg.Analytic = sf.analytic
	}
	for _, kv := range sf.set {
		name, val, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("--set wants name=value, got %q", kv)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("--set %s: %w", name, err)
		}
		if err := cfg.Set(strings.TrimSpace(name), v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
