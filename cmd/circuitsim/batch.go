package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/circuitsim/internal/automation"
	"github.com/san-kum/circuitsim/internal/plot"
	"github.com/san-kum/circuitsim/internal/storage"
)

func newScenarioCmd() *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario of preset or config steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}
			return runScenario(sc, save)
		},
	}
	cmd.Flags().BoolVar(&save, "save", true, "save steps that have save_as")
	return cmd
}

func newExamplesCmd() *cobra.Command {
	var save, report bool
	cmd := &cobra.Command{
		Use:   "examples",
		Short: "run every built-in preset once",
		RunE: func(cmd *cobra.Command, args []string) error {
			if report {
				return runScenarioReport(automation.AllPresets(), save)
			}
			return runScenario(automation.AllPresets(), save)
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "save every run")
	cmd.Flags().BoolVar(&report, "report", false, "print the full report for each preset")
	return cmd
}

func scenarioResults(sc *automation.Scenario, save bool) ([]automation.StepResult, error) {
	var st *storage.Store
	if save {
		var err error
		if st, err = store(); err != nil {
			return nil, err
		}
	}
	runner := automation.NewRunner(newLogger(), st)
	return runner.RunScenario(context.Background(), sc)
}

func runScenario(sc *automation.Scenario, save bool) error {
	results, err := scenarioResults(sc, save)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tCIRCUIT\tDT\tSTABLE\tMAX ERR\tDIVERGED\tRUN")
	for i, r := range results {
		step := r.Step.Preset
		if step == "" {
			step = r.Step.Config
		}
		maxErr := "-"
		if r.Result.HasError() {
			maxErr = fmt.Sprintf("%.3e", r.Result.MaxError)
		}
		fmt.Fprintf(w, "%d %s\t%s\t%g\t%t\t%s\t%t\t%s\n",
			i+1, step,
			r.Result.Config.Circuit,
			r.Result.Config.Dt,
			r.Result.Advice.Stable,
			maxErr,
			r.Result.Trajectory.Diverged(),
			r.RunID,
		)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func runScenarioReport(sc *automation.Scenario, save bool) error {
	th, err := theme()
	if err != nil {
		return err
	}
	results, err := scenarioResults(sc, save)
	for _, r := range results {
		fmt.Println(plot.Report(r.Result, th))
	}
	return err
}

func newSweepCmd() *cobra.Command {
	var (
		param  string
		lo, hi float64
		steps  int
	)
	cmd := &cobra.Command{
		Use:   "sweep [circuit]",
		Short: "run a config across evenly spaced values of one parameter",
		Args:  cobra.MaximumNArgs(1),
	}
	sf := addScenarioFlags(cmd)
	cmd.Flags().StringVar(&param, "param", "dt", "parameter to sweep")
	cmd.Flags().Float64Var(&lo, "min", 0, "first value")
	cmd.Flags().Float64Var(&hi, "max", 0, "last value")
	cmd.Flags().IntVar(&steps, "steps", 10, "number of values")
	_ = cmd.MarkFlagRequired("min")
	_ = cmd.MarkFlagRequired("max")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := sf.build(cmd, args)
		if err != nil {
			return err
		}
		runner := automation.NewRunner(newLogger(), nil)
		results, err := runner.RunSweep(context.Background(), &automation.ParameterSweep{
			Base:      cfg,
			ParamName: param,
			ParamMin:  lo,
			ParamMax:  hi,
			NumSteps:  steps,
		})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "%s\tSTABLE\tWARNINGS\tMAX ERR\tDIVERGED\tFINAL\n", strings.ToUpper(param))
		for _, r := range results {
			fmt.Fprintf(w, "%g\t%t\t%d\t%.3e\t%t\t%v\n", r.ParamValue, r.Stable, r.Warnings, r.MaxError, r.Diverged, r.FinalState)
		}
		return w.Flush()
	}
	return cmd
}

func newMonteCarloCmd() *cobra.Command {
	var (
		params    []string
		tolerance float64
		trials    int
		seed      int64
	)
	cmd := &cobra.Command{
		Use:   "montecarlo [circuit]",
		Short: "perturb component values within a tolerance and collect metrics",
		Args:  cobra.MaximumNArgs(1),
	}
	sf := addScenarioFlags(cmd)
	cmd.Flags().StringSliceVar(&params, "params", []string{"r", "c"}, "component values to perturb")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0.05, "relative tolerance, 0.05 for 5% parts")
	cmd.Flags().IntVar(&trials, "trials", 100, "number of trials")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := sf.build(cmd, args)
		if err != nil {
			return err
		}
		runner := automation.NewRunner(newLogger(), nil)
		results, err := runner.RunMonteCarlo(context.Background(), &automation.MonteCarloConfig{
			Base:      cfg,
			Params:    params,
			Tolerance: tolerance,
			NumTrials: trials,
			Seed:      seed,
		})
		if err != nil {
			return err
		}

		stable, unstable := automation.MonteCarloStats(results)
		fmt.Printf("trials: %d  stable: %d  unstable: %d\n", len(results), stable, unstable)

		spread := make(map[string][2]float64)
		for _, r := range results {
			for name, v := range r.Metrics {
				s, ok := spread[name]
				if !ok {
					s = [2]float64{v, v}
				}
				s[0], s[1] = min(s[0], v), max(s[1], v)
				spread[name] = s
			}
		}
		names := make([]string, 0, len(spread))
		for n := range spread {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Printf("  %-16s %.6g .. %.6g\n", n, spread[n][0], spread[n][1])
		}
		return nil
	}
	return cmd
}
