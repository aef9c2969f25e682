package config

import (
	"fmt"
	"sort"
	"strings"
)

var fields = map[string]func(c *Config) *float64{
	"dt":        func(c *Config) *float64 { return &c.Dt },
	"duration":  func(c *Config) *float64 { return &c.Duration },
	"r":         func(c *Config) *float64 { return &c.Params.R },
	"l":         func(c *Config) *float64 { return &c.Params.L },
	"c":         func(c *Config) *float64 { return &c.Params.C },
	"r_load":    func(c *Config) *float64 { return &c.Params.RLoad },
	"k":         func(c *Config) *float64 { return &c.Device.K },
	"scale":     func(c *Config) *float64 { return &c.Device.Scale },
	"amplitude": func(c *Config) *float64 { return &c.Source.Amplitude },
	"slope":     func(c *Config) *float64 { return &c.Source.Slope },
	"omega":     func(c *Config) *float64 { return &c.Source.Omega },
	"phase":     func(c *Config) *float64 { return &c.Source.Phase },
	"vc":        func(c *Config) *float64 { return &c.InitState.VC },
	"il":        func(c *Config) *float64 { return &c.InitState.IL },
}

// Set assigns a numeric field by its short name, e.g. "dt", "r" or "omega".
// Sweeps and --set flags go through here.
func (c *Config) Set(name string, v float64) error {
	fn, ok := fields[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("unknown parameter: %s", name)
	}
	*fn(c) = v
	return nil
}

// Get reads a numeric field by the same names Set accepts.
func (c *Config) Get(name string) (float64, error) {
	fn, ok := fields[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown parameter: %s", name)
	}
	return *fn(c), nil
}

// SettableParams lists the names accepted by Set.
func SettableParams() []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CircuitParams lists the parameters that affect the given circuit, in the
// order an editor should present them.
func CircuitParams(circuit string) []string {
	var comp []string
	switch circuit {
	case CircuitRC:
		comp = []string{"r", "c"}
	case CircuitRCDiode:
		comp = []string{"r_load", "c", "scale"}
	case CircuitNonlinearRC:
		comp = []string{"c", "k"}
	case CircuitRLC:
		comp = []string{"r", "l", "c"}
	default:
		return nil
	}
	return append(append([]string{"dt", "duration"}, comp...), "amplitude", "omega")
}
