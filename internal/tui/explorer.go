// Package tui is an interactive timestep explorer: pick a preset, nudge dt
// or a component value and watch the advisor verdict and waveform update.
package tui

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-kit/log"

	"github.com/san-kum/circuitsim/internal/config"
	"github.com/san-kum/circuitsim/internal/experiment"
	"github.com/san-kum/circuitsim/internal/plot"
	"github.com/san-kum/circuitsim/internal/solvers"
)

type screen int

const (
	screenMenu screen = iota
	screenExplore
)

type chartKind int

const (
	chartSignals chartKind = iota
	chartError
	chartEnergy
	numCharts
)

func (c chartKind) String() string {
	switch c {
	case chartError:
		return "error"
	case chartEnergy:
		return "energy"
	default:
		return "signals"
	}
}

// nudge is the factor applied by the left/right keys.
const nudge = 1.25

type resultMsg struct {
	seq int
	res *experiment.Result
	err error
}

type Model struct {
	theme  plot.Theme
	st     plot.Styles
	logger log.Logger

	screen  screen
	presets []string
	cursor  int

	name        string
	cfg         *config.Config
	params      []string
	paramCursor int
	editing     bool
	editBuf     string

	res     *experiment.Result
	err     error
	running bool
	seq     int
	chart   chartKind

	width  int
	height int

	initCmd tea.Cmd
}

func New(th plot.Theme, logger log.Logger) Model {
	var presets []string
	for _, c := range config.Circuits {
		for _, p := range config.ListPresets(c) {
			presets = append(presets, c+"/"+p)
		}
	}
	return Model{
		theme:   th,
		st:      th.Styles(),
		logger:  logger,
		presets: presets,
		width:   100,
		height:  30,
	}
}

// Open jumps straight to the explorer for a "circuit/preset" name.
func (m Model) Open(name string) (Model, tea.Cmd, error) {
	circuit, preset, ok := strings.Cut(name, "/")
	if !ok {
		return m, nil, fmt.Errorf("preset must be circuit/name, got %q", name)
	}
	cfg := config.GetPreset(circuit, preset)
	if cfg == nil {
		return m, nil, fmt.Errorf("unknown preset: %s", name)
	}
	m.name = name
	m.cfg = cfg
	m.params = config.CircuitParams(circuit)
	m.paramCursor = 0
	m.res, m.err = nil, nil
	m.screen = screenExplore
	m, cmd := m.rerun()
	return m, cmd, nil
}

func (m Model) Init() tea.Cmd { return m.initCmd }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case resultMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.running = false
		m.res, m.err = msg.res, msg.err
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.screen == screenMenu {
			return m.menuKey(msg)
		}
		return m.exploreKey(msg)
	}
	return m, nil
}

func (m Model) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		next, cmd, err := m.Open(m.presets[m.cursor])
		if err != nil {
			m.err = err
			return m, nil
		}
		return next, cmd
	}
	return m, nil
}

func (m Model) exploreKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing {
		return m.editKey(msg)
	}
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.screen = screenMenu
		m.seq++
		m.running = false
		return m, nil
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.params)-1 {
			m.paramCursor++
		}
	case "left", "h":
		return m.scale(m.params[m.paramCursor], 1/nudge)
	case "right", "l":
		return m.scale(m.params[m.paramCursor], nudge)
	case "[":
		return m.scale("dt", 0.5)
	case "]":
		return m.scale("dt", 2)
	case "a":
		if m.res != nil && m.res.Advice.Recommended > 0 {
			m.cfg.Dt = m.res.Advice.Recommended
			return m.rerun()
		}
	case "tab":
		m.chart = (m.chart + 1) % numCharts
	case "enter":
		v, _ := m.cfg.Get(m.params[m.paramCursor])
		m.editing = true
		m.editBuf = strconv.FormatFloat(v, 'g', -1, 64)
	case "r":
		return m.rerun()
	}
	return m, nil
}

func (m Model) editKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.editing = false
		v, err := strconv.ParseFloat(m.editBuf, 64)
		m.editBuf = ""
		if err != nil {
			m.err = fmt.Errorf("not a number: %w", err)
			return m, nil
		}
		if err := m.cfg.Set(m.params[m.paramCursor], v); err != nil {
			m.err = err
			return m, nil
		}
		return m.rerun()
	case "esc":
		m.editing = false
		m.editBuf = ""
	case "backspace":
		if len(m.editBuf) > 0 {
			m.editBuf = m.editBuf[:len(m.editBuf)-1]
		}
	default:
		if s := msg.String(); len(s) == 1 && strings.ContainsAny(s, "0123456789.-+eE") {
			m.editBuf += s
		}
	}
	return m, nil
}

func (m Model) scale(name string, factor float64) (tea.Model, tea.Cmd) {
	v, err := m.cfg.Get(name)
	if err != nil {
		m.err = err
		return m, nil
	}
	if err := m.cfg.Set(name, v*factor); err != nil {
		m.err = err
		return m, nil
	}
	return m.rerun()
}

// rerun starts the experiment in a command. Results from superseded runs are
// dropped by sequence number.
func (m Model) rerun() (Model, tea.Cmd) {
	m.seq++
	m.running = true
	seq := m.seq
	cfg := *m.cfg
	logger := m.logger
	return m, func() tea.Msg {
		res, err := experiment.New(&cfg, experiment.WithLogger(logger)).Run(context.Background())
		return resultMsg{seq: seq, res: res, err: err}
	}
}

func (m Model) View() string {
	if m.screen == screenMenu {
		return m.viewMenu()
	}
	return m.viewExplore()
}

func (m Model) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n  " + m.st.Title.Render("c i r c u i t s i m") + "\n\n")
	for i, name := range m.presets {
		if i == m.cursor {
			b.WriteString("  " + m.st.Focused.Render("▸ "+name) + "\n")
		} else {
			b.WriteString("    " + m.st.Muted.Render(name) + "\n")
		}
	}
	if m.err != nil {
		b.WriteString("\n  " + m.st.Bad.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n  " + m.st.Help.Render("↑↓ select   enter explore   q quit") + "\n")
	return b.String()
}

func (m Model) viewExplore() string {
	var params strings.Builder
	params.WriteString(m.st.Title.Render(m.name) + "\n\n")
	for i, name := range m.params {
		v, _ := m.cfg.Get(name)
		val := fmt.Sprintf("%-10.4g", v)
		if m.editing && i == m.paramCursor {
			val = m.editBuf + "▋"
		}
		if i == m.paramCursor {
			params.WriteString(m.st.Focused.Render(fmt.Sprintf("▸ %-10s %s", name, val)) + "\n")
		} else {
			params.WriteString(m.st.Label.Render(fmt.Sprintf("  %-10s ", name)) + m.st.Value.Render(val) + "\n")
		}
	}

	var status string
	switch {
	case m.running:
		status = m.st.Muted.Render("running...")
	case m.err != nil:
		status = m.st.Bad.Render(m.err.Error())
	case m.res != nil:
		status = plot.Report(m.res, m.theme)
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		m.st.Box.Render(params.String()),
		" ",
		m.st.Box.Render(status),
	)

	var b strings.Builder
	b.WriteString(top + "\n")
	if m.res != nil && !m.running {
		b.WriteString(m.chartView() + "\n")
	}
	b.WriteString(m.st.Help.Render("↑↓ param  ←→ nudge  enter edit  [ ] dt  a use recommended dt  tab " +
		m.chart.String() + "  esc back  q quit"))
	return b.String()
}

func (m Model) chartView() string {
	tr := m.res.Trajectory
	var fig plot.Figure
	switch m.chart {
	case chartError:
		f, err := plot.ErrorFigure("numerical - analytic", tr)
		if err != nil {
			return m.st.Muted.Render("no analytic reference for this run")
		}
		fig = f
	case chartEnergy:
		f, err := plot.DerivedFigure("stored energy", tr, solvers.StoredEnergy, "J")
		if err != nil {
			return m.st.Muted.Render("no energy series for this circuit")
		}
		fig = f
	default:
		fig = plot.SignalsFigure("", tr, m.res.StateLabels)
	}
	w := int(math.Max(40, math.Min(float64(m.width-12), 140)))
	h := int(math.Max(6, math.Min(float64(m.height-len(m.params)-16), 16)))
	return plot.ASCII(fig, w, h)
}

// Run starts the explorer, optionally opened on a "circuit/preset".
func Run(th plot.Theme, logger log.Logger, preset string) error {
	m := New(th, logger)
	if preset != "" {
		next, cmd, err := m.Open(preset)
		if err != nil {
			return err
		}
		next.initCmd = cmd
		m = next
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
