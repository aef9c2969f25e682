package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/circuitsim/internal/plot"
	"github.com/san-kum/circuitsim/internal/storage"
	"github.com/san-kum/circuitsim/internal/tui"
)

// settings keys, also readable from CIRCUITSIM_* env vars and circuitsim.yaml
const (
	keyData     = "data"
	keyLogLevel = "log-level"
	keyTheme    = "theme"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "circuitsim",
		Short: "forward Euler circuit lab: RC, RC+diode, nonlinear RC and RLC",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadSettings()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			th, err := theme()
			if err != nil {
				return err
			}
			return tui.Run(th, log.NewNopLogger(), "")
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String(keyData, ".circuitsim", "data directory for saved runs")
	rootCmd.PersistentFlags().String(keyLogLevel, "info", "log level: debug, info, warn, error, none")
	rootCmd.PersistentFlags().String(keyTheme, plot.DefaultTheme, "color theme: "+strings.Join(plot.ThemeNames(), ", "))
	for _, k := range []string{keyData, keyLogLevel, keyTheme} {
		if err := viper.BindPFlag(k, rootCmd.PersistentFlags().Lookup(k)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newListCmd(),
		newPlotCmd(),
		newExportCSVCmd(),
		newExportJSONCmd(),
		newPresetsCmd(),
		newParamsCmd(),
		newConvergeCmd(),
		newDtSearchCmd(),
		newIVCmd(),
		newSpectrumCmd(),
		newScenarioCmd(),
		newExamplesCmd(),
		newSweepCmd(),
		newMonteCarloCmd(),
		newTUICmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadSettings() error {
	viper.SetEnvPrefix("CIRCUITSIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("circuitsim")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("settings: %w", err)
		}
	}
	return nil
}

func newLogger() log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	var allow level.Option
	switch strings.ToLower(viper.GetString(keyLogLevel)) {
	case "debug":
		allow = level.AllowDebug()
	case "warn":
		allow = level.AllowWarn()
	case "error":
		allow = level.AllowError()
	case "none":
		allow = level.AllowNone()
	default:
		allow = level.AllowInfo()
	}
	return level.NewFilter(logger, allow)
}

func theme() (plot.Theme, error) {
	return plot.ThemeByName(viper.GetString(keyTheme))
}

func store() (*storage.Store, error) {
	st := storage.New(viper.GetString(keyData))
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [circuit/preset]",
		Short: "interactive dt explorer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			th, err := theme()
			if err != nil {
				return err
			}
			preset := ""
			if len(args) == 1 {
				preset = args[0]
			}
			return tui.Run(th, log.NewNopLogger(), preset)
		},
	}
}
