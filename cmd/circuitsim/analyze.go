package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/circuitsim/internal/analysis"
	"github.com/san-kum/circuitsim/internal/config"
	"github.com/san-kum/circuitsim/internal/experiment"
	"github.com/san-kum/circuitsim/internal/optim"
	"github.com/san-kum/circuitsim/internal/plot"
)

func newConvergeCmd() *cobra.Command {
	var levels int
	cmd := &cobra.Command{
		Use:   "converge [circuit]",
		Short: "rerun at dt, dt/2, dt/4 ... and report error against the analytic solution",
		Args:  cobra.MaximumNArgs(1),
	}
	sf := addScenarioFlags(cmd)
	cmd.Flags().IntVar(&levels, "levels", 4, "number of refinement levels")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := sf.build(cmd, args)
		if err != nil {
			return err
		}
		study, err := optim.Converge(context.Background(), cfg, levels, newLogger())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DT\tSAMPLES\tMAX ERR\tRMS ERR\tRATIO")
		for _, p := range study.Points {
			ratio := "-"
			if p.Ratio > 0 {
				ratio = fmt.Sprintf("%.3f", p.Ratio)
			}
			if p.Diverged {
				ratio = "diverged"
			}
			fmt.Fprintf(w, "%g\t%d\t%.4e\t%.4e\t%s\n", p.Dt, p.Samples, p.MaxError, p.RMSError, ratio)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("observed order: %.3f\n", study.Order)
		return nil
	}
	return cmd
}

func newDtSearchCmd() *cobra.Command {
	var (
		tol      float64
		halvings int
		startDt  float64
	)
	cmd := &cobra.Command{
		Use:   "dt-search [circuit]",
		Short: "find the largest dt among halvings that stays stable and within tolerance",
		Args:  cobra.MaximumNArgs(1),
	}
	sf := addScenarioFlags(cmd)
	cmd.Flags().Float64Var(&tol, "tol", 0.01, "max |error| against the analytic reference (V)")
	cmd.Flags().IntVar(&halvings, "halvings", 8, "number of candidates")
	cmd.Flags().Float64Var(&startDt, "from-dt", 0, "largest candidate (default: the config dt)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := sf.build(cmd, args)
		if err != nil {
			return err
		}
		if startDt <= 0 {
			startDt = cfg.Dt
		}
		dt, err := optim.LargestAcceptableDt(context.Background(), cfg, optim.Halvings(startDt, halvings), tol,
			experiment.WithLogger(newLogger()))
		if err != nil {
			return err
		}
		fmt.Printf("largest acceptable dt: %g\n", dt)
		return nil
	}
	return cmd
}

func newIVCmd() *cobra.Command {
	var (
		dev        config.DeviceConfig
		vmin, vmax float64
		points     int
		pngPath    string
	)
	cmd := &cobra.Command{
		Use:   "iv [device]",
		Short: "print a device I-V characteristic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := experiment.NewRegistry()
			dev.Type = args[0]
			d, err := reg.GetDevice(dev)
			if err != nil {
				return fmt.Errorf("%w (available: %v)", err, reg.ListDevices())
			}
			v, i, err := analysis.IVCurve(d, vmin, vmax, points)
			if err != nil {
				return err
			}

			fig := plot.IVFigure(args[0], v, i)
			fmt.Println(plot.ASCII(fig, 80, 12))
			if pngPath != "" {
				th, err := theme()
				if err != nil {
					return err
				}
				return plot.SaveImage(pngPath, fig, th)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&vmin, "vmin", -2, "lowest voltage")
	cmd.Flags().Float64Var(&vmax, "vmax", 5, "highest voltage")
	cmd.Flags().IntVar(&points, "points", 200, "number of samples")
	cmd.Flags().Float64Var(&dev.K, "k", 0, "quadratic coefficient (A/V^2)")
	cmd.Flags().Float64Var(&dev.R, "r", 0, "resistance for the resistor device (ohm)")
	cmd.Flags().Float64Var(&dev.Scale, "scale", 0, "X-diode current scale")
	cmd.Flags().StringVar(&pngPath, "png", "", "write the curve (.png or .svg)")
	return cmd
}
