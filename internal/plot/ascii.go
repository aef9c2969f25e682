package plot

import (
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"
)

var asciiColors = []asciigraph.AnsiColor{
	asciigraph.Cyan, asciigraph.Magenta, asciigraph.Yellow, asciigraph.Green, asciigraph.Red,
}

// ASCII draws the series of f as a terminal chart. Series are resampled to
// width columns; non-finite samples become gaps. The returned string is
// empty when there is nothing to draw.
func ASCII(f Figure, width, height int) string {
	var data [][]float64
	var names []string
	for _, s := range f.Series {
		ys := gaps(s.Y)
		if !anyFinite(ys) {
			continue
		}
		data = append(data, ys)
		names = append(names, s.Name)
	}
	if len(data) == 0 {
		return ""
	}
	caption := f.Title
	if len(names) > 1 || caption == "" {
		caption = strings.TrimSpace(caption + " [" + strings.Join(names, ", ") + "]")
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciiColors[:min(len(data), len(asciiColors))]...),
	)
}

func gaps(ys []float64) []float64 {
	out := make([]float64, len(ys))
	for i, y := range ys {
		if math.IsInf(y, 0) {
			y = math.NaN()
		}
		out[i] = y
	}
	return out
}

func anyFinite(ys []float64) bool {
	for _, y := range ys {
		if !math.IsNaN(y) {
			return true
		}
	}
	return false
}
