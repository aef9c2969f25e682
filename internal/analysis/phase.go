package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/circuitsim/internal/dynamo"
)

// Point is one sample in a phase plane.
type Point struct{ X, Y float64 }

// PhasePortrait pairs two series of a finished run, e.g. vC against iL.
type PhasePortrait struct {
	XLabel, YLabel string
	Points         []Point
}

// NewPhasePortrait reads state components xIdx and yIdx from tr.
func NewPhasePortrait(tr *dynamo.Trajectory, xIdx, yIdx int, xLabel, yLabel string) (*PhasePortrait, error) {
	if tr == nil || tr.Len() == 0 {
		return nil, fmt.Errorf("%w: empty trajectory", dynamo.ErrDomainMismatch)
	}
	dim := len(tr.States[0])
	if xIdx < 0 || yIdx < 0 || xIdx >= dim || yIdx >= dim {
		return nil, fmt.Errorf("%w: state has %d components, asked for %d and %d", dynamo.ErrDomainMismatch, dim, xIdx, yIdx)
	}

	pp := &PhasePortrait{XLabel: xLabel, YLabel: yLabel, Points: make([]Point, 0, tr.Len())}
	for _, x := range tr.States {
		if !x.IsValid() {
			break
		}
		pp.Points = append(pp.Points, Point{X: x[xIdx], Y: x[yIdx]})
	}
	return pp, nil
}

// Bounds returns the min and max of both axes.
func (pp *PhasePortrait) Bounds() (minX, maxX, minY, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range pp.Points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return
}

// ASCII draws the portrait on a width x height character grid with axes through
// the origin when it is visible.
func (pp *PhasePortrait) ASCII(width, height int) string {
	if pp == nil || len(pp.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX, minY, maxY := pp.Bounds()
	padX := math.Max(maxX-minX, 1e-12) * 0.1
	padY := math.Max(maxY-minY, 1e-12) * 0.1
	minX, maxX = minX-padX, maxX+padX
	minY, maxY = minY-padY, maxY+padY

	col := func(x float64) int { return int((x - minX) / (maxX - minX) * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/(maxY-minY)*float64(height-1)) }

	canvas := make([][]rune, height)
	for r := range canvas {
		canvas[r] = []rune(strings.Repeat(" ", width))
	}

	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := range canvas {
			canvas[r][c] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := 0; c < width; c++ {
			if canvas[r][c] == '│' {
				canvas[r][c] = '┼'
			} else {
				canvas[r][c] = '─'
			}
		}
	}

	for _, p := range pp.Points {
		r, c := row(p.Y), col(p.X)
		if r >= 0 && r < height && c >= 0 && c < width {
			canvas[r][c] = '•'
		}
	}

	var sb strings.Builder
	if pp.YLabel != "" {
		sb.WriteString(pp.YLabel + "\n")
	}
	for _, r := range canvas {
		sb.WriteString(string(r))
		sb.WriteByte('\n')
	}
	if pp.XLabel != "" {
		sb.WriteString(strings.Repeat(" ", max(width-len(pp.XLabel), 0)) + pp.XLabel + "\n")
	}
	return sb.String()
}
