package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/tvprovider/pkg/cli"
	"mercator-hq/tvprovider/pkg/config"
	"mercator-hq/tvprovider/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile      string
	verbose      bool
	outputFormat string

	// logger is the process logger built from the loaded configuration.
	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tvprovider",
	Short: "TV channel and program store with per-boot transient row cleanup",
	Long: `tvprovider stores TV channels and programs in SQLite.

Rows flagged transient are valid only for the current boot of the host. The
first access after a reboot deletes them, exactly once per boot, using a
persisted purge watermark compared with the boot time.`,
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults and TVPROVIDER_* env when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format (text, json, csv)")
}

// setup loads the configuration and installs the process logger.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.FromValidation(err)
	}
	cfg := config.GetConfig()

	level := cfg.Telemetry.Logging.Level
	if verbose {
		level = "debug"
	}

	var err error
	logger, err = logging.New(logging.Config{
		Level:     level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
		Writer:    os.Stderr,
	})
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger.Slog())

	if _, err := cli.ParseFormat(outputFormat); err != nil {
		return err
	}
	return nil
}

// formatter returns the formatter selected by --output.
func formatter() cli.Formatter {
	format, err := cli.ParseFormat(outputFormat)
	if err != nil {
		format = cli.FormatText
	}
	return cli.NewFormatter(format)
}
