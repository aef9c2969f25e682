package plot

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/circuitsim/internal/analysis"
	"github.com/san-kum/circuitsim/internal/config"
	"github.com/san-kum/circuitsim/internal/dynamo"
	"github.com/san-kum/circuitsim/internal/experiment"
	"github.com/san-kum/circuitsim/internal/solvers"
)

func rlcStep(t *testing.T) *dynamo.Trajectory {
	t.Helper()
	s, err := solvers.NewRLC(10, 0.01, 1e-4, 1e-5)
	if err != nil {
		t.Fatal(err)
	}
	tr, err := s.SolveStep(1, 0.01, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestThemeByName(t *testing.T) {
	th, err := ThemeByName("")
	if err != nil {
		t.Fatal(err)
	}
	if th.Name != DefaultTheme {
		t.Errorf("expected %s, got %s", DefaultTheme, th.Name)
	}
	if _, err := ThemeByName("neon"); err == nil {
		t.Error("expected error for unknown theme")
	}
	for _, name := range ThemeNames() {
		th, err := ThemeByName(name)
		if err != nil {
			t.Errorf("%s: %v", name, err)
		}
		if th.Echarts == "" {
			t.Errorf("%s: missing echarts theme", name)
		}
	}
}

func TestRGBA(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#ff8000", color.RGBA{255, 128, 0, 255}},
		{"#000000", color.RGBA{0, 0, 0, 255}},
		{"red", color.RGBA{128, 128, 128, 255}},
		{"#zzzzzz", color.RGBA{128, 128, 128, 255}},
	}
	for _, tt := range tests {
		if got := RGBA(lipgloss.Color(tt.in)); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestSignals(t *testing.T) {
	tr := rlcStep(t)
	series := Signals(tr, []string{"vc", "il"})
	var names []string
	for _, s := range series {
		names = append(names, s.Name)
		if len(s.X) != tr.Len() || len(s.Y) != tr.Len() {
			t.Errorf("%s: expected %d samples, got %d/%d", s.Name, tr.Len(), len(s.X), len(s.Y))
		}
	}
	if got := strings.Join(names, ","); got != "input,vc,il,analytic" {
		t.Errorf("expected input,vc,il,analytic, got %s", got)
	}

	e, ok := ErrorSeries(tr)
	if !ok {
		t.Fatal("expected error series")
	}
	if e.Y[0] != 0 {
		t.Errorf("expected zero error at t=0, got %v", e.Y[0])
	}
}

func TestDecimate(t *testing.T) {
	s := Series{Name: "s"}
	for i := 0; i < 1001; i++ {
		s.X = append(s.X, float64(i))
		s.Y = append(s.Y, float64(i))
	}
	d := Decimate(s, 100)
	if len(d.X) > 101 {
		t.Errorf("expected at most 101 points, got %d", len(d.X))
	}
	if d.X[len(d.X)-1] != 1000 {
		t.Errorf("expected last sample kept, got %v", d.X[len(d.X)-1])
	}
	for _, limit := range []int{5000, 1, 0} {
		if got := Decimate(s, limit); len(got.X) != len(s.X) {
			t.Errorf("limit %d: expected untouched series, got %d points", limit, len(got.X))
		}
	}
}

func TestWriteImage(t *testing.T) {
	th, _ := ThemeByName("light")
	tr := rlcStep(t)

	var buf bytes.Buffer
	if err := WriteImage(&buf, SignalsFigure("rlc", tr, []string{"vc", "il"}), th, "png"); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("expected PNG signature")
	}

	buf.Reset()
	pp, err := analysis.NewPhasePortrait(tr, 0, 1, "vc", "il")
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteImage(&buf, PhaseFigure("phase", pp), th, "svg"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Error("expected svg output")
	}
}

func TestWriteImageEmpty(t *testing.T) {
	th, _ := ThemeByName("")
	f := Figure{Series: []Series{{Name: "bad", X: []float64{0, 1}, Y: []float64{math.NaN(), 1}}}}
	err := WriteImage(&bytes.Buffer{}, f, th, "png")
	if !errors.Is(err, ErrEmptyFigure) {
		t.Errorf("expected ErrEmptyFigure, got %v", err)
	}
}

func TestSaveImage(t *testing.T) {
	th, _ := ThemeByName("")
	dir := t.TempDir()
	f := IVFigure("xdiode", []float64{-1, 0, 1, 2}, []float64{0, 0, 1, 4})

	if err := SaveImage(filepath.Join(dir, "iv.png"), f, th); err != nil {
		t.Fatal(err)
	}
	if err := SaveImage(filepath.Join(dir, "iv.bmp"), f, th); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestFigureNeedsSeries(t *testing.T) {
	bare := &dynamo.Trajectory{Time: []float64{0, 1}, Input: []float64{0, 0}, States: []dynamo.State{{0}, {1}}}
	if _, err := ErrorFigure("e", bare); !errors.Is(err, dynamo.ErrDomainMismatch) {
		t.Errorf("expected ErrDomainMismatch, got %v", err)
	}
	if _, err := DerivedFigure("e", bare, solvers.StoredEnergy, "J"); !errors.Is(err, dynamo.ErrDomainMismatch) {
		t.Errorf("expected ErrDomainMismatch, got %v", err)
	}
}

func TestRenderHTML(t *testing.T) {
	th, _ := ThemeByName("ocean")
	tr := rlcStep(t)
	energy, err := DerivedFigure("energy", tr, solvers.StoredEnergy, "J")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	figs := []Figure{SignalsFigure("rlc step", tr, []string{"vc", "il"}), energy}
	if err := RenderHTML(&buf, "rlc", figs, th); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"<html", "rlc step", "analytic"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
}

func TestASCII(t *testing.T) {
	tr := rlcStep(t)
	out := ASCII(SignalsFigure("rlc", tr, []string{"vc", "il"}), 60, 10)
	if out == "" {
		t.Fatal("expected chart")
	}
	if !strings.Contains(out, "vc") {
		t.Error("expected legend in caption")
	}
	if got := ASCII(Figure{}, 60, 10); got != "" {
		t.Errorf("expected empty chart, got %q", got)
	}
}

func TestReport(t *testing.T) {
	th, _ := ThemeByName("")
	res, err := experiment.New(config.GetPreset("rlc", "underdamped")).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	out := Report(res, th)
	for _, want := range []string{"rlc", "underdamped", "max |error|", "final"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected report to contain %q", want)
		}
	}
}

func TestReportWithoutErrorWindow(t *testing.T) {
	th, _ := ThemeByName("")
	cfg := config.GetPreset("rc", "sine")
	cfg.Duration = 0.5
	res, err := experiment.New(cfg).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	out := Report(res, th)
	if !strings.Contains(out, "n/a") || !strings.Contains(out, "no error measured") {
		t.Errorf("expected unmeasured error in report, got:\n%s", out)
	}
	if strings.Contains(out, "NaN") {
		t.Errorf("expected no NaN in report, got:\n%s", out)
	}
}
