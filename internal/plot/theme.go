// Package plot renders trajectories as PNG, HTML and terminal charts. Every
// renderer takes its Theme explicitly; there is no package-level style state.
package plot

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-echarts/go-echarts/v2/types"
)

// Theme is a palette shared by the terminal, PNG and HTML renderers.
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	// Echarts is the go-echarts theme name used for HTML output.
	Echarts string
}

var themes = map[string]Theme{
	"dark": {
		Name:       "dark",
		Primary:    lipgloss.Color("#00ffff"),
		Secondary:  lipgloss.Color("#ff00ff"),
		Accent:     lipgloss.Color("#ffff00"),
		Background: lipgloss.Color("#0a0a0a"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#666666"),
		Success:    lipgloss.Color("#00ff00"),
		Warning:    lipgloss.Color("#ff8800"),
		Error:      lipgloss.Color("#ff0000"),
		Echarts:    types.ThemeChalk,
	},
	"light": {
		Name:       "light",
		Primary:    lipgloss.Color("#1f77b4"),
		Secondary:  lipgloss.Color("#d62728"),
		Accent:     lipgloss.Color("#2ca02c"),
		Background: lipgloss.Color("#ffffff"),
		Text:       lipgloss.Color("#000000"),
		Muted:      lipgloss.Color("#888888"),
		Success:    lipgloss.Color("#2ca02c"),
		Warning:    lipgloss.Color("#ff7f0e"),
		Error:      lipgloss.Color("#d62728"),
		Echarts:    types.ThemeShine,
	},
	"retro": {
		Name:       "retro",
		Primary:    lipgloss.Color("#00ff00"),
		Secondary:  lipgloss.Color("#88ff88"),
		Accent:     lipgloss.Color("#ffff00"),
		Background: lipgloss.Color("#001100"),
		Text:       lipgloss.Color("#00ff00"),
		Muted:      lipgloss.Color("#005500"),
		Success:    lipgloss.Color("#88ff88"),
		Warning:    lipgloss.Color("#ffff00"),
		Error:      lipgloss.Color("#ff0000"),
		Echarts:    types.ThemeVintage,
	},
	"ocean": {
		Name:       "ocean",
		Primary:    lipgloss.Color("#0077be"),
		Secondary:  lipgloss.Color("#ffd700"),
		Accent:     lipgloss.Color("#00a8cc"),
		Background: lipgloss.Color("#001a33"),
		Text:       lipgloss.Color("#e0f0ff"),
		Muted:      lipgloss.Color("#4488aa"),
		Success:    lipgloss.Color("#00ff88"),
		Warning:    lipgloss.Color("#ffcc00"),
		Error:      lipgloss.Color("#ff4444"),
		Echarts:    types.ThemeWesteros,
	},
}

// DefaultTheme is the palette used when none is configured.
const DefaultTheme = "dark"

// ThemeByName looks up a palette.
func ThemeByName(name string) (Theme, error) {
	if name == "" {
		name = DefaultTheme
	}
	t, ok := themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme: %s", name)
	}
	return t, nil
}

func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for n := range themes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Palette returns the colors assigned to successive series.
func (t Theme) Palette() []lipgloss.Color {
	return []lipgloss.Color{t.Primary, t.Secondary, t.Accent, t.Success, t.Warning}
}

// RGBA converts a "#rrggbb" color for image renderers. Malformed values map
// to opaque gray.
func RGBA(c lipgloss.Color) color.RGBA {
	s := string(c)
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{R: 128, G: 128, B: 128, A: 255}
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{R: 128, G: 128, B: 128, A: 255}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Muted   lipgloss.Style
	Good    lipgloss.Style
	Warn    lipgloss.Style
	Bad     lipgloss.Style
	Box     lipgloss.Style
	Help    lipgloss.Style
	Focused lipgloss.Style
}

func (t Theme) Styles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Label:   lipgloss.NewStyle().Foreground(t.Muted),
		Value:   lipgloss.NewStyle().Bold(true).Foreground(t.Text),
		Muted:   lipgloss.NewStyle().Foreground(t.Muted),
		Good:    lipgloss.NewStyle().Foreground(t.Success),
		Warn:    lipgloss.NewStyle().Foreground(t.Warning),
		Bad:     lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		Box:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Muted).Padding(0, 1),
		Help:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Focused: lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
	}
}
