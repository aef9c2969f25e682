package plot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/circuitsim/internal/experiment"
)

// Report formats a run summary: derived parameters, advisor verdict, metrics
// and error norms.
func Report(res *experiment.Result, th Theme) string {
	st := th.Styles()
	var b strings.Builder
	cfg := res.Config
	tr := res.Trajectory

	b.WriteString(st.Title.Render(fmt.Sprintf("%s  dt=%g  t_end=%g  samples=%d", cfg.Circuit, cfg.Dt, cfg.Duration, tr.Len())))
	b.WriteString("\n")

	if len(res.Info.Params) > 0 {
		for _, k := range sortedNames(res.Info.Params) {
			b.WriteString(row(st, k, fmt.Sprintf("%.6g", res.Info.Params[k])))
		}
	}
	if res.Info.Damping != "" {
		b.WriteString(row(st, "damping", res.Info.Damping))
	}

	a := res.Advice
	b.WriteString(row(st, "stability limit", fmt.Sprintf("%.4g", a.StabilityLimit)))
	b.WriteString(row(st, "recommended dt", fmt.Sprintf("%.4g", a.Recommended)))
	switch {
	case !a.Stable:
		b.WriteString(st.Bad.Render("  dt exceeds the Euler stability limit") + "\n")
	case a.OK():
		b.WriteString(st.Good.Render("  dt ok") + "\n")
	}
	for _, w := range a.Warnings {
		b.WriteString(st.Warn.Render("  ! "+w) + "\n")
	}

	if err := tr.Err(); err != nil {
		b.WriteString(st.Bad.Render("  "+err.Error()) + "\n")
	}

	for _, k := range sortedNames(res.Metrics) {
		b.WriteString(row(st, k, fmt.Sprintf("%.6g", res.Metrics[k])))
	}
	if res.HasAnalytic() && !res.HasError() {
		b.WriteString(row(st, "max |error|", "n/a"))
		b.WriteString(st.Warn.Render(fmt.Sprintf("  run ends before t=%g, no error measured", res.ErrorFrom)) + "\n")
	} else if res.HasAnalytic() {
		b.WriteString(row(st, "max |error|", fmt.Sprintf("%.4e", res.MaxError)))
		b.WriteString(row(st, "rms error", fmt.Sprintf("%.4e", res.RMSError)))
		if res.ErrorFrom > 0 {
			b.WriteString(st.Muted.Render(fmt.Sprintf("  (errors measured for t >= %g)", res.ErrorFrom)) + "\n")
		}
	}
	if final := tr.Final(); final != nil {
		parts := make([]string, len(final))
		for i, v := range final {
			parts[i] = fmt.Sprintf("%s=%.6g", label(res.StateLabels, i), v)
		}
		b.WriteString(row(st, "final", strings.Join(parts, " ")))
	}
	return b.String()
}

func row(st Styles, name, value string) string {
	return "  " + st.Label.Render(fmt.Sprintf("%-16s", name)) + st.Value.Render(value) + "\n"
}

func sortedNames(m map[string]float64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
