package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/circuitsim/internal/analysis"
	"github.com/san-kum/circuitsim/internal/config"
	"github.com/san-kum/circuitsim/internal/plot"
	"github.com/san-kum/circuitsim/internal/storage"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store()
			if err != nil {
				return err
			}
			runs, err := st.List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCIRCUIT\tTIME\tDT\tSAMPLES\tMAX ERR\tDIVERGED")
			for _, run := range runs {
				maxErr := "-"
				if run.MaxError > 0 {
					maxErr = fmt.Sprintf("%.3e", run.MaxError)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%d\t%s\t%t\n",
					run.ID,
					run.Circuit,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Dt,
					run.Samples,
					maxErr,
					run.Diverged,
				)
			}
			return w.Flush()
		},
	}
}

func newPlotCmd() *cobra.Command {
	var pngPath, htmlPath string
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store()
			if err != nil {
				return err
			}
			tr, meta, err := st.LoadTrajectory(args[0])
			if err != nil {
				return err
			}
			if tr.Len() == 0 {
				return fmt.Errorf("no data to plot")
			}
			th, err := theme()
			if err != nil {
				return err
			}

			cfg := meta.Config
			if cfg == nil {
				cfg = &config.Config{Circuit: meta.Circuit}
			}
			figs := figures(cfg, tr, meta.Labels)

			fmt.Printf("run: %s\n", meta.ID)
			fmt.Printf("circuit: %s\n", meta.Circuit)
			fmt.Printf("samples: %d\n\n", tr.Len())
			for _, f := range figs {
				fmt.Println(plot.ASCII(f, 80, 10))
				fmt.Println()
			}

			if pngPath != "" {
				if err := plot.SaveImage(pngPath, figs[0], th); err != nil {
					return err
				}
			}
			if htmlPath != "" {
				return writeHTML(htmlPath, meta.ID, figs, th)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pngPath, "png", "", "write signal plot (.png or .svg)")
	cmd.Flags().StringVar(&htmlPath, "html", "", "write interactive chart page")
	return cmd
}

// output opens path for writing, or stdout when path is empty.
func output(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func newExportCSVCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store()
			if err != nil {
				return err
			}
			tr, meta, err := st.LoadTrajectory(args[0])
			if err != nil {
				return err
			}
			w, err := output(out)
			if err != nil {
				return err
			}
			if err := storage.WriteCSV(w, tr, meta.Labels); err != nil {
				w.Close()
				return err
			}
			return w.Close()
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newExportJSONCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store()
			if err != nil {
				return err
			}
			tr, meta, err := st.LoadTrajectory(args[0])
			if err != nil {
				return err
			}
			w, err := output(out)
			if err != nil {
				return err
			}
			if err := storage.WriteJSON(w, *meta, tr); err != nil {
				w.Close()
				return err
			}
			return w.Close()
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newSpectrumCmd() *cobra.Command {
	var harmonics int
	var from float64
	cmd := &cobra.Command{
		Use:   "spectrum [run_id]",
		Short: "harmonic content of a saved sinusoidal run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store()
			if err != nil {
				return err
			}
			tr, meta, err := st.LoadTrajectory(args[0])
			if err != nil {
				return err
			}
			if meta.Config == nil || meta.Config.Source.Omega <= 0 {
				return fmt.Errorf("run %s has no sinusoidal source", meta.ID)
			}
			if tr.Diverged() {
				return fmt.Errorf("run %s diverged: %w", meta.ID, tr.Err())
			}
			cfg := meta.Config
			f0 := cfg.Source.Omega / (2 * math.Pi)

			k0 := 0
			for k0 < tr.Len() && tr.Time[k0] < from {
				k0++
			}
			out := tr.Component(0)[k0:]
			if len(out) < 2 {
				return fmt.Errorf("no samples after t=%g", from)
			}

			amps := analysis.Harmonics(out, cfg.Dt, f0, harmonics)
			fmt.Printf("fundamental %.4g Hz\n", f0)
			for i, a := range amps {
				fmt.Printf("  h%-2d %8.4g Hz  %.4g V\n", i+1, float64(i+1)*f0, a)
			}
			fmt.Printf("THD %.3f%%\n", 100*analysis.THD(amps))

			if cfg.Circuit == config.CircuitRC {
				fr := analysis.RCFrequencyResponse(cfg.Source.Omega, cfg.Params.R*cfg.Params.C)
				fmt.Printf("RC response: |H|=%.4g (%.2f dB), phase %.4g rad, cutoff %.4g rad/s\n",
					fr.Magnitude, fr.MagnitudeDB(), fr.Phase, fr.Cutoff)
				fmt.Printf("expected amplitude %.4g V\n", fr.Magnitude*math.Abs(cfg.Source.Amplitude))
			}

			freqs, power := analysis.PowerSpectrum(out, cfg.Dt)
			n := len(freqs)
			for n > 1 && freqs[n-1] > float64(harmonics+1)*f0 {
				n--
			}
			fmt.Println(plot.ASCII(plot.Figure{
				Title:  fmt.Sprintf("spectrum (0-%.4g Hz)", freqs[n-1]),
				Series: []plot.Series{{Name: "amplitude", X: freqs[:n], Y: power[:n]}},
			}, 80, 10))
			return nil
		},
	}
	cmd.Flags().IntVar(&harmonics, "harmonics", 5, "number of harmonics to report")
	cmd.Flags().Float64Var(&from, "from", 0, "ignore samples before this time (s)")
	return cmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [circuit]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			circuits := config.Circuits
			if len(args) == 1 {
				circuits = args[:1]
			}
			for _, c := range circuits {
				presets := config.ListPresets(c)
				if len(presets) == 0 {
					fmt.Printf("no presets for circuit: %s\n", c)
					continue
				}
				fmt.Printf("%s:\n", c)
				for _, p := range presets {
					cfg := config.GetPreset(c, p)
					fmt.Printf("  %-16s dt=%g t=%g source=%s\n", p, cfg.Dt, cfg.Duration, cfg.Source.Type)
				}
			}
			return nil
		},
	}
}

func newParamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "params [circuit]",
		Short: "list parameter names accepted by --set and sweeps",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.SettableParams()
			if len(args) == 1 {
				names = config.CircuitParams(args[0])
				if names == nil {
					return fmt.Errorf("unknown circuit: %s", args[0])
				}
			}
			fmt.Println(strings.Join(names, "\n"))
			return nil
		},
	}
}
