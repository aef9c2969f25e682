package config

import (
	"math"
	"sort"
)

var (
	rcSineOmega  = 50.0
	rcSinePeriod = 2 * math.Pi / rcSineOmega
)

// Presets reproduce the reference scenarios, keyed by circuit then name.
var Presets = map[string]map[string]*Config{
	CircuitRC: {
		"step": {
			Circuit: CircuitRC, Dt: 2e-4, Duration: 0.5, Analytic: true,
			Params: ParamsConfig{R: 1000, C: 1e-4},
			Source: SourceConfig{Type: "step", Amplitude: 5},
		},
		"ramp": {
			Circuit: CircuitRC, Dt: 2e-4, Duration: 0.5, Analytic: true,
			Params: ParamsConfig{R: 1000, C: 1e-4},
			Source: SourceConfig{Type: "ramp", Slope: 2},
		},
		"sine": {
			Circuit: CircuitRC, Dt: rcSinePeriod / 100, Duration: 10 * rcSinePeriod, Analytic: true,
			Params: ParamsConfig{R: 1000, C: 1e-4},
			Source: SourceConfig{Type: "sine", Amplitude: 10, Omega: rcSineOmega},
		},
	},
	CircuitRCDiode: {
		"exam": {
			Circuit: CircuitRCDiode, Dt: 1e-4, Duration: 2,
			Params:    ParamsConfig{C: 1e-6, RLoad: 50e3},
			Device:    DeviceConfig{Type: "xdiode", Scale: 1e-3},
			Source:    SourceConfig{Type: "sine", Amplitude: 10, Omega: 10},
			InitState: InitStateConfig{VC: 3},
		},
	},
	CircuitNonlinearRC: {
		"quadratic_step": {
			Circuit: CircuitNonlinearRC, Dt: 1e-5, Duration: 0.3,
			Params: ParamsConfig{C: 1e-4},
			Device: DeviceConfig{Type: "quadratic", K: 0.01},
			Source: SourceConfig{Type: "step", Amplitude: 5},
		},
		// A falling drive reverses the device voltage, where k·v² still
		// charges C and vC runs away in finite time. A ramp keeps u ahead of vC.
		"quadratic_ramp": {
			Circuit: CircuitNonlinearRC, Dt: 1e-5, Duration: 0.5,
			Params: ParamsConfig{C: 1e-4},
			Device: DeviceConfig{Type: "quadratic", K: 0.01},
			Source: SourceConfig{Type: "ramp", Slope: 20},
		},
	},
	CircuitRLC: {
		"underdamped": {
			Circuit: CircuitRLC, Dt: 1e-5, Duration: 0.2, Analytic: true,
			Params: ParamsConfig{R: 10, L: 0.01, C: 1e-4},
			Source: SourceConfig{Type: "step", Amplitude: 10},
		},
		"critical": {
			Circuit: CircuitRLC, Dt: 1e-5, Duration: 0.05, Analytic: true,
			Params: ParamsConfig{R: 20, L: 0.01, C: 1e-4},
			Source: SourceConfig{Type: "step", Amplitude: 10},
		},
		"overdamped": {
			Circuit: CircuitRLC, Dt: 1e-5, Duration: 0.05, Analytic: true,
			Params: ParamsConfig{R: 50, L: 0.01, C: 1e-4},
			Source: SourceConfig{Type: "step", Amplitude: 10},
		},
		"sine": {
			Circuit: CircuitRLC, Dt: 1e-5, Duration: 0.2,
			Params: ParamsConfig{R: 10, L: 0.01, C: 1e-4},
			Source: SourceConfig{Type: "sine", Amplitude: 10, Omega: 100},
		},
	},
}

// defaultPresets is what a bare circuit name starts from.
var defaultPresets = map[string]string{
	CircuitRC:          "step",
	CircuitRCDiode:     "exam",
	CircuitNonlinearRC: "quadratic_step",
	CircuitRLC:         "underdamped",
}

// DefaultPreset returns a copy of the preset a circuit starts from when no
// other is named, or nil for an unknown circuit.
func DefaultPreset(circuit string) *Config {
	return GetPreset(circuit, defaultPresets[circuit])
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(circuit, preset string) *Config {
	circuitPresets, ok := Presets[circuit]
	if !ok {
		return nil
	}
	cfg, ok := circuitPresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(circuit string) []string {
	circuitPresets, ok := Presets[circuit]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(circuitPresets))
	for name := range circuitPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
