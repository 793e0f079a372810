package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"mercator-hq/tvprovider/pkg/cli"
	"mercator-hq/tvprovider/pkg/config"
	"mercator-hq/tvprovider/pkg/tv/transient"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the purge watermark, the boot epoch and the predicted decision",
	Long: `Show what the purge check would decide right now without running it.

Row counts are read directly from the store, so status never deletes
anything.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), config.GetConfig())
		if err != nil {
			return cli.NewCommandError("status", err)
		}
		defer a.Close()

		if err := runStatus(cmd.Context(), a, cmd.OutOrStdout()); err != nil {
			return cli.NewCommandError("status", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// statusReport is the output of the status command.
type statusReport struct {
	StorePath   string             `json:"store_path"`
	Preferences string             `json:"preferences_backend"`
	Decision    transient.Decision `json:"decision"`
	Channels    int64              `json:"channels"`
	Programs    int64              `json:"programs"`
}

func (r statusReport) Header() []string { return []string{"FIELD", "VALUE"} }

func (r statusReport) Rows() [][]string {
	decision := "up to date (skip)"
	if r.Decision.Purge {
		decision = "purge owed"
	}
	return [][]string{
		{"store", r.StorePath},
		{"preferences", r.Preferences},
		{"watermark", formatMillis(r.Decision.Watermark)},
		{"boot_epoch", formatMillis(r.Decision.BootEpoch)},
		{"decision", decision},
		{"channels", strconv.FormatInt(r.Channels, 10)},
		{"programs", strconv.FormatInt(r.Programs, 10)},
	}
}

func runStatus(ctx context.Context, a *app, out io.Writer) error {
	decision, err := a.guard.Predict(ctx)
	if err != nil {
		return err
	}

	channels, err := a.store.CountChannels(ctx)
	if err != nil {
		return fmt.Errorf("failed to count channels: %w", err)
	}
	programs, err := a.store.CountPrograms(ctx)
	if err != nil {
		return fmt.Errorf("failed to count programs: %w", err)
	}

	return formatter().FormatTo(out, statusReport{
		StorePath:   a.cfg.Store.Path,
		Preferences: a.cfg.Preferences.Backend,
		Decision:    decision,
		Channels:    channels,
		Programs:    programs,
	})
}

// jsonStatus encodes a guard status with its error as a string.
func jsonStatus(s transient.Status) ([]byte, error) {
	type alias transient.Status
	out := struct {
		alias
		Error string `json:"error,omitempty"`
	}{alias: alias(s)}
	if s.Err != nil {
		out.Error = s.Err.Error()
	}
	return json.Marshal(out)
}
