package experiment

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/circuitsim/internal/components"
	"github.com/san-kum/circuitsim/internal/config"
	"github.com/san-kum/circuitsim/internal/sources"
)

// Registry maps names used in scenario files to constructors.
type Registry struct {
	circuits map[string]CircuitFactory
	devices  map[string]func(config.DeviceConfig) (components.Device, error)
}

// CircuitFactory builds a runnable circuit from a validated config.
type CircuitFactory func(cfg *config.Config, dev components.Device) (Circuit, error)

func NewRegistry() *Registry {
	r := &Registry{
		circuits: make(map[string]CircuitFactory),
		devices:  make(map[string]func(config.DeviceConfig) (components.Device, error)),
	}

	r.RegisterCircuit(config.CircuitRC, newRCCircuit)
	r.RegisterCircuit(config.CircuitRCDiode, newRCDiodeCircuit)
	r.RegisterCircuit(config.CircuitNonlinearRC, newNonlinearCircuit)
	r.RegisterCircuit(config.CircuitRLC, newRLCCircuit)

	r.devices["xdiode"] = func(d config.DeviceConfig) (components.Device, error) {
		if d.Scale == 0 {
			return components.NewXDiode(), nil
		}
		return components.NewScaledXDiode(d.Scale)
	}
	r.devices["quadratic"] = func(d config.DeviceConfig) (components.Device, error) {
		if d.K == 0 {
			return components.NewDefaultQuadratic(), nil
		}
		return components.NewQuadratic(d.K)
	}
	r.devices["resistor"] = func(d config.DeviceConfig) (components.Device, error) {
		return components.NewResistor(d.R)
	}

	return r
}

// RegisterCircuit adds or replaces a circuit kind.
func (r *Registry) RegisterCircuit(name string, fn CircuitFactory) {
	r.circuits[name] = fn
}

func (r *Registry) GetCircuit(name string) (CircuitFactory, error) {
	fn, ok := r.circuits[name]
	if !ok {
		return nil, fmt.Errorf("unknown circuit: %s", name)
	}
	return fn, nil
}

// GetDevice builds the device named in d. An empty type yields nil.
func (r *Registry) GetDevice(d config.DeviceConfig) (components.Device, error) {
	if d.Type == "" {
		return nil, nil
	}
	fn, ok := r.devices[strings.ToLower(d.Type)]
	if !ok {
		return nil, fmt.Errorf("unknown device: %s", d.Type)
	}
	return fn(d)
}

func (r *Registry) GetSource(cfg *config.Config) (sources.Source, error) {
	return sources.New(cfg.Source.Type, cfg.SourceParams())
}

func (r *Registry) ListCircuits() []string {
	return sortedKeys(r.circuits)
}

func (r *Registry) ListDevices() []string {
	return sortedKeys(r.devices)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
