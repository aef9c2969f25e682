package plot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/circuitsim/internal/analysis"
	"github.com/san-kum/circuitsim/internal/dynamo"
)

var ErrEmptyFigure = errors.New("plot: figure has no drawable series")

// Figure is a titled set of curves sharing one pair of axes. Series whose
// name appears in Dashed are stroked dashed, which is how references are
// told apart from simulated curves.
type Figure struct {
	Title  string
	XLabel string
	YLabel string
	Series []Series
	Dashed map[string]bool
}

const (
	imageWidth  = 8 * vg.Inch
	imageHeight = 4 * vg.Inch
)

// SignalsFigure overlays input, states and the analytic reference.
func SignalsFigure(title string, tr *dynamo.Trajectory, labels []string) Figure {
	return Figure{
		Title:  title,
		XLabel: "t (s)",
		YLabel: "V / A",
		Series: Signals(tr, labels),
		Dashed: map[string]bool{"analytic": true, "input": true},
	}
}

// ErrorFigure plots numerical minus analytic for state 0.
func ErrorFigure(title string, tr *dynamo.Trajectory) (Figure, error) {
	s, ok := ErrorSeries(tr)
	if !ok {
		return Figure{}, fmt.Errorf("%w: no analytic reference", dynamo.ErrDomainMismatch)
	}
	return Figure{Title: title, XLabel: "t (s)", YLabel: "error (V)", Series: []Series{s}}, nil
}

// PhaseFigure draws a phase portrait as a single curve.
func PhaseFigure(title string, pp *analysis.PhasePortrait) Figure {
	s := Series{Name: pp.YLabel + " vs " + pp.XLabel}
	for _, p := range pp.Points {
		s.X = append(s.X, p.X)
		s.Y = append(s.Y, p.Y)
	}
	return Figure{Title: title, XLabel: pp.XLabel, YLabel: pp.YLabel, Series: []Series{s}}
}

// IVFigure draws a device current-voltage characteristic.
func IVFigure(device string, v, i []float64) Figure {
	return Figure{
		Title:  device + " I-V",
		XLabel: "v (V)",
		YLabel: "i (A)",
		Series: []Series{{Name: device, X: v, Y: i}},
	}
}

// DerivedFigure plots one named derived series, such as stored energy.
func DerivedFigure(title string, tr *dynamo.Trajectory, name, yLabel string) (Figure, error) {
	s, ok := Derived(tr, name)
	if !ok {
		return Figure{}, fmt.Errorf("%w: trajectory has no %q series", dynamo.ErrDomainMismatch, name)
	}
	return Figure{Title: title, XLabel: "t (s)", YLabel: yLabel, Series: []Series{s}}, nil
}

func (f Figure) build(th Theme) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = f.Title
	p.X.Label.Text = f.XLabel
	p.Y.Label.Text = f.YLabel
	p.Legend.Top = true

	bg, fg, muted := RGBA(th.Background), RGBA(th.Text), RGBA(th.Muted)
	p.BackgroundColor = bg
	p.Title.TextStyle.Color = fg
	p.Legend.TextStyle.Color = fg
	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.LineStyle.Color = fg
		ax.Label.TextStyle.Color = fg
		ax.Tick.Label.Color = fg
		ax.Tick.LineStyle.Color = fg
	}

	grid := plotter.NewGrid()
	grid.Vertical.Color = muted
	grid.Horizontal.Color = muted
	p.Add(grid)

	palette := th.Palette()
	drawn := 0
	for k, s := range f.Series {
		s = finite(s)
		if len(s.X) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(s.X))
		for i := range s.X {
			xys[i].X, xys[i].Y = s.X[i], s.Y[i]
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("series %s: %w", s.Name, err)
		}
		line.LineStyle.Color = RGBA(palette[k%len(palette)])
		line.LineStyle.Width = vg.Points(1.5)
		if f.Dashed[s.Name] {
			line.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
		}
		p.Add(line)
		p.Legend.Add(s.Name, line)
		drawn++
	}
	if drawn == 0 {
		return nil, ErrEmptyFigure
	}
	return p, nil
}

// WriteImage renders f in the given format ("png" or "svg") to w.
func WriteImage(w io.Writer, f Figure, th Theme, format string) error {
	p, err := f.build(th)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(imageWidth, imageHeight, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// SaveImage writes f to path, picking the format from the extension.
func SaveImage(path string, f Figure, th Theme) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch format {
	case "png", "svg":
	default:
		return fmt.Errorf("unsupported image format: %q", format)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteImage(file, f, th, format); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
