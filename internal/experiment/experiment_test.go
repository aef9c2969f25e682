package experiment

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/go-kit/log"
	. "github.com/onsi/gomega"

	"github.com/san-kum/circuitsim/internal/components"
	"github.com/san-kum/circuitsim/internal/config"
	"github.com/san-kum/circuitsim/internal/dynamo"
)

func TestRunAllPresets(t *testing.T) {
	for _, circuit := range config.Circuits {
		for _, name := range config.ListPresets(circuit) {
			t.Run(circuit+"/"+name, func(t *testing.T) {
				g := NewWithT(t)
				res, err := New(config.GetPreset(circuit, name)).Run(context.Background())
				g.Expect(err).NotTo(HaveOccurred())
				g.Expect(res.Trajectory.Err()).NotTo(HaveOccurred())
				g.Expect(res.Metrics).To(HaveKeyWithValue("stability", 1.0))
				g.Expect(res.StateLabels).To(HaveLen(len(res.Trajectory.States[0])))
			})
		}
	}
}

func TestRunRCStepReportsError(t *testing.T) {
	g := NewWithT(t)
	res, err := New(config.GetPreset(config.CircuitRC, "step")).Run(context.Background())
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(res.HasAnalytic()).To(BeTrue())
	g.Expect(res.MaxError).To(BeNumerically(">", 0))
	g.Expect(res.MaxError).To(BeNumerically("<", 0.01))
	g.Expect(res.RMSError).To(BeNumerically("<=", res.MaxError))
	g.Expect(res.Info.Params["tau"]).To(BeNumerically("~", 0.1, 1e-15))
	g.Expect(res.Advice.OK()).To(BeTrue())
}

func TestRunRLCReportsRegime(t *testing.T) {
	tests := []struct {
		preset  string
		damping string
	}{
		{"underdamped", "underdamped"},
		{"critical", "critically_damped"},
		{"overdamped", "overdamped"},
	}

	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			g := NewWithT(t)
			res, err := New(config.GetPreset(config.CircuitRLC, tt.preset)).Run(context.Background())
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(res.Info.Damping).To(Equal(tt.damping))
			g.Expect(res.HasAnalytic()).To(BeTrue())
			g.Expect(res.MaxError).To(BeNumerically("<", 0.1))
			_, hasOmegaD := res.Info.Params["omega_d"]
			g.Expect(hasOmegaD).To(Equal(tt.damping == "underdamped"))
		})
	}
}

func TestRunWithoutAnalytic(t *testing.T) {
	cfg := config.GetPreset(config.CircuitRLC, "sine")
	res, err := New(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.HasAnalytic() || res.MaxError != 0 {
		t.Errorf("expected no analytic comparison, got max error %v", res.MaxError)
	}
}

func TestRunLogsDivergence(t *testing.T) {
	g := NewWithT(t)
	cfg := config.GetPreset(config.CircuitNonlinearRC, "quadratic_step")
	cfg.Dt = 0.05
	cfg.Duration = 5
	cfg.Source.Amplitude = 100

	var buf bytes.Buffer
	res, err := New(cfg, WithLogger(log.NewLogfmtLogger(&buf))).Run(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(errors.Is(res.Trajectory.Err(), dynamo.ErrNumericalDivergence)).To(BeTrue())
	g.Expect(res.Advice.Stable).To(BeFalse())
	g.Expect(res.Metrics["stability"]).To(BeNumerically("<", 1))

	out := buf.String()
	g.Expect(out).To(ContainSubstring("trajectory diverged"))
	g.Expect(out).To(ContainSubstring("subsys=experiment"))
	g.Expect(strings.Count(out, "level=warn")).To(BeNumerically(">=", 2))
}

func TestRunRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"negative C", func(c *config.Config) { c.Params.C = -1 }, dynamo.ErrInvalidParameter},
		{"unknown circuit", func(c *config.Config) { c.Circuit = "tunnel" }, dynamo.ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)
			if _, err := New(cfg).Run(context.Background()); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	cfg := config.DefaultConfig()
	cfg.Source.Type = "square"
	if _, err := New(cfg).Run(context.Background()); err == nil {
		t.Error("expected error for unknown source")
	}

	cfg = config.GetPreset(config.CircuitNonlinearRC, "quadratic_step")
	cfg.Device.Type = "tunnel"
	if _, err := New(cfg).Run(context.Background()); err == nil {
		t.Error("expected error for unknown device")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(config.DefaultConfig()).Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if got := r.ListCircuits(); len(got) != 4 || got[0] != "nonlinear_rc" {
		t.Errorf("unexpected circuits %v", got)
	}
	if got := r.ListDevices(); len(got) != 3 {
		t.Errorf("unexpected devices %v", got)
	}

	dev, err := r.GetDevice(config.DeviceConfig{Type: "XDiode", Scale: 1e-3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := dev.Current(3); got != 2e-3 {
		t.Errorf("expected 2e-3, got %v", got)
	}

	if _, err := r.GetDevice(config.DeviceConfig{Type: "quadratic", K: -1}); !errors.Is(err, dynamo.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
	if dev, err := r.GetDevice(config.DeviceConfig{}); dev != nil || err != nil {
		t.Errorf("expected nil device for empty type, got %v %v", dev, err)
	}
	if _, err := r.GetCircuit("bjt"); err == nil {
		t.Error("expected error for unknown circuit")
	}
}

func TestRunRCSineComparesSteadyState(t *testing.T) {
	g := NewWithT(t)
	cfg := config.GetPreset(config.CircuitRC, "sine")
	cfg.Duration = 1.5

	res, err := New(cfg).Run(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(res.ErrorFrom).To(BeNumerically("~", 1.0, 1e-12))
	g.Expect(res.HasError()).To(BeTrue())
	g.Expect(res.ErrorSamples).To(BeNumerically("<", res.Trajectory.Len()))
	// 10 V drive, transient excluded: only Euler's own error remains.
	g.Expect(res.MaxError).To(BeNumerically("<", 0.2))
}

func TestRunRCSineEndsBeforeSteadyState(t *testing.T) {
	g := NewWithT(t)
	cfg := config.GetPreset(config.CircuitRC, "sine")
	cfg.Duration = 0.5

	var buf bytes.Buffer
	res, err := New(cfg, WithLogger(log.NewLogfmtLogger(&buf))).Run(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(res.HasAnalytic()).To(BeTrue())
	g.Expect(res.HasError()).To(BeFalse())
	g.Expect(res.ErrorSamples).To(BeZero())
	g.Expect(math.IsNaN(res.MaxError)).To(BeTrue())
	g.Expect(math.IsNaN(res.RMSError)).To(BeTrue())
	g.Expect(buf.String()).To(ContainSubstring("run ends before the error window"))
}

func TestRunReportsSettlingTime(t *testing.T) {
	g := NewWithT(t)
	res, err := New(config.GetPreset(config.CircuitRC, "step")).Run(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	// 2% band: τ·ln 50 ≈ 0.391 s for τ = 0.1.
	g.Expect(res.Metrics).To(HaveKey("settling_time"))
	g.Expect(res.Metrics["settling_time"]).To(BeNumerically("~", 0.1*math.Log(50), 2e-3))

	res, err = New(config.GetPreset(config.CircuitRLC, "overdamped")).Run(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(res.Metrics["settling_time"]).To(BeNumerically(">", 0))
	g.Expect(res.Metrics["settling_time"]).To(BeNumerically("<", res.Config.Duration))

	res, err = New(config.GetPreset(config.CircuitRC, "sine")).Run(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(res.Metrics).NotTo(HaveKey("settling_time"))
}

func TestRegisterCircuitReplacesBuiltin(t *testing.T) {
	g := NewWithT(t)
	r := NewRegistry()
	called := false
	r.RegisterCircuit(config.CircuitRC, func(cfg *config.Config, dev components.Device) (Circuit, error) {
		called = true
		return newRCCircuit(cfg, dev)
	})

	_, err := New(config.GetPreset(config.CircuitRC, "step"), WithRegistry(r)).Run(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(called).To(BeTrue())
	g.Expect(r.ListCircuits()).To(HaveLen(4))
}
