package main

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/tvprovider/pkg/cli"
	"mercator-hq/tvprovider/pkg/config"
	"mercator-hq/tvprovider/pkg/telemetry/logging"
	"mercator-hq/tvprovider/pkg/tv/transient"
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Run the once-per-boot transient row purge check",
	Long: `Run the purge check exactly as a freshly started process would.

If no purge has completed since the host booted, transient programs and
channels are deleted and the watermark is set to now. Otherwise nothing
is changed. Running purge twice in the same boot deletes nothing the
second time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithCommand(cmd.Context(), "purge")
		a, err := newApp(ctx, config.GetConfig())
		if err != nil {
			return cli.NewCommandError("purge", err)
		}
		defer a.Close()

		if err := runPurge(ctx, a, cmd.OutOrStdout()); err != nil {
			return cli.NewCommandError("purge", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(purgeCmd)
}

// runPurge runs the guard and prints its status. The status is printed even
// when the purge failed.
func runPurge(ctx context.Context, a *app, out io.Writer) error {
	err := a.guard.EnsurePurged(ctx)
	if ferr := formatter().FormatTo(out, purgeReport(a.guard.Status())); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

// purgeReport is the printable form of a guard status.
type purgeReport transient.Status

// MarshalJSON keeps the JSON form identical to transient.Status.
func (r purgeReport) MarshalJSON() ([]byte, error) {
	return jsonStatus(transient.Status(r))
}

func (r purgeReport) Header() []string { return []string{"FIELD", "VALUE"} }

func (r purgeReport) Rows() [][]string {
	rows := [][]string{
		{"outcome", string(r.Outcome)},
		{"run_id", r.RunID},
		{"watermark", formatMillis(r.Watermark)},
		{"boot_epoch", formatMillis(r.BootEpoch)},
		{"programs_deleted", strconv.FormatInt(r.ProgramsDeleted, 10)},
		{"channels_deleted", strconv.FormatInt(r.ChannelsDeleted, 10)},
	}
	if r.NewWatermark != 0 {
		rows = append(rows, []string{"new_watermark", formatMillis(r.NewWatermark)})
	}
	if r.Err != nil {
		rows = append(rows, []string{"error", r.Err.Error()})
	}
	return rows
}

// formatMillis renders a millisecond timestamp with its RFC 3339 form.
func formatMillis(ms int64) string {
	if ms == 0 {
		return "0 (never)"
	}
	return strconv.FormatInt(ms, 10) + " (" + time.UnixMilli(ms).UTC().Format(time.RFC3339Nano) + ")"
}
