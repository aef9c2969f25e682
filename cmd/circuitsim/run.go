package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/san-kum/circuitsim/internal/analysis"
	"github.com/san-kum/circuitsim/internal/automation"
	"github.com/san-kum/circuitsim/internal/config"
	"github.com/san-kum/circuitsim/internal/dynamo"
	"github.com/san-kum/circuitsim/internal/experiment"
	"github.com/san-kum/circuitsim/internal/plot"
	"github.com/san-kum/circuitsim/internal/solvers"
)

func newRunCmd() *cobra.Command {
	var (
		save        bool
		name        string
		chart       bool
		pngPath     string
		htmlPath    string
		writeConfig string
	)
	cmd := &cobra.Command{
		Use:   "run [circuit]",
		Short: "run a circuit simulation",
		Long: "Run one of rc, rc_diode, nonlinear_rc or rlc. Values come from --preset, then\n" +
			"--config, then any explicitly given flag.",
		Args: cobra.MaximumNArgs(1),
	}
	sf := addScenarioFlags(cmd)
	cmd.Flags().BoolVar(&save, "save", false, "save the run to the data directory")
	cmd.Flags().StringVar(&name, "name", "", "name for the saved run")
	cmd.Flags().BoolVar(&chart, "chart", true, "draw a terminal chart")
	cmd.Flags().StringVar(&pngPath, "png", "", "write signal plot (.png or .svg)")
	cmd.Flags().StringVar(&htmlPath, "html", "", "write interactive chart page")
	cmd.Flags().StringVar(&writeConfig, "write-config", "", "write the effective config as yaml")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := sf.build(cmd, args)
		if err != nil {
			return err
		}
		if writeConfig != "" {
			if err := config.Save(writeConfig, cfg); err != nil {
				return err
			}
		}
		th, err := theme()
		if err != nil {
			return err
		}
		logger := newLogger()

		start := time.Now()
		res, err := experiment.New(cfg, experiment.WithLogger(logger)).Run(context.Background())
		if err != nil {
			return err
		}
		level.Debug(logger).Log("msg", "run finished", "elapsed", time.Since(start), "samples", res.Trajectory.Len())

		fmt.Println(plot.Report(res, th))
		if chart {
			fmt.Println(plot.ASCII(plot.SignalsFigure("", res.Trajectory, res.StateLabels), 80, 12))
		}

		if save {
			st, err := store()
			if err != nil {
				return err
			}
			runID, err := st.Save(automation.Metadata(name, res), res.Trajectory)
			if err != nil {
				return err
			}
			fmt.Printf("run id: %s\n", runID)
		}
		figs := figures(cfg, res.Trajectory, res.StateLabels)
		if pngPath != "" {
			if err := plot.SaveImage(pngPath, figs[0], th); err != nil {
				return err
			}
		}
		if htmlPath != "" {
			if err := writeHTML(htmlPath, cfg.Circuit, figs, th); err != nil {
				return err
			}
		}
		return nil
	}
	return cmd
}

// figures collects every chart that applies to a trajectory.
func figures(cfg *config.Config, tr *dynamo.Trajectory, labels []string) []plot.Figure {
	figs := []plot.Figure{plot.SignalsFigure(cfg.Circuit+" "+cfg.Source.Type, tr, labels)}
	if f, err := plot.ErrorFigure("numerical - analytic", tr); err == nil {
		figs = append(figs, f)
	}
	if f, err := plot.DerivedFigure("device current", tr, solvers.DeviceCurrent, "A"); err == nil {
		figs = append(figs, f)
	}
	if f, err := plot.DerivedFigure("stored energy", tr, solvers.StoredEnergy, "J"); err == nil {
		figs = append(figs, f)
	}
	if len(labels) >= 2 {
		if pp, err := analysis.NewPhasePortrait(tr, 0, 1, labels[0], labels[1]); err == nil {
			figs = append(figs, plot.PhaseFigure("phase portrait", pp))
		}
	}
	return figs
}

func writeHTML(path, title string, figs []plot.Figure, th plot.Theme) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := plot.RenderHTML(f, title, figs, th); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
