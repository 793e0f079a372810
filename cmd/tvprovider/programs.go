package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/tvprovider/pkg/cli"
	"mercator-hq/tvprovider/pkg/config"
	"mercator-hq/tvprovider/pkg/tv"
)

var programsCmd = &cobra.Command{
	Use:   "programs",
	Short: "Add and list programs",
}

var (
	programChannel   int64
	programTitle     string
	programStart     string
	programEnd       string
	programTransient bool
)

var programsAddCmd = &cobra.Command{
	Use:     "add",
	Short:   "Insert a program",
	Example: `  tvprovider programs add --channel 1 --title "Evening news" --start 2026-01-02T18:00:00Z --end 2026-01-02T18:30:00Z`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := programFromFlags()
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), config.GetConfig())
		if err != nil {
			return cli.NewCommandError("programs add", err)
		}
		defer a.Close()

		if err := addProgram(cmd.Context(), a, p, cmd.OutOrStdout()); err != nil {
			return cli.NewCommandError("programs add", err)
		}
		return nil
	},
}

var programsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List programs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), config.GetConfig())
		if err != nil {
			return cli.NewCommandError("programs list", err)
		}
		defer a.Close()

		if err := listPrograms(cmd.Context(), a, cmd.OutOrStdout()); err != nil {
			return cli.NewCommandError("programs list", err)
		}
		return nil
	},
}

func init() {
	programsAddCmd.Flags().Int64Var(&programChannel, "channel", 0, "channel ID (required)")
	programsAddCmd.Flags().StringVar(&programTitle, "title", "", "program title")
	programsAddCmd.Flags().StringVar(&programStart, "start", "", "start time, RFC 3339")
	programsAddCmd.Flags().StringVar(&programEnd, "end", "", "end time, RFC 3339")
	programsAddCmd.Flags().BoolVar(&programTransient, "transient", false, "delete the program on the first access after the next reboot")
	_ = programsAddCmd.MarkFlagRequired("channel")

	programsCmd.AddCommand(programsAddCmd, programsListCmd)
	rootCmd.AddCommand(programsCmd)
}

func programFromFlags() (*tv.Program, error) {
	start, err := parseOptionalTime("start", programStart)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalTime("end", programEnd)
	if err != nil {
		return nil, err
	}
	return &tv.Program{
		ChannelID: programChannel,
		Title:     programTitle,
		StartTime: start,
		EndTime:   end,
		Transient: programTransient,
	}, nil
}

func parseOptionalTime(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, cli.NewConfigError(flag, fmt.Sprintf("invalid time %q: use RFC 3339", value))
	}
	return t, nil
}

func addProgram(ctx context.Context, a *app, p *tv.Program, out io.Writer) error {
	id, err := a.provider.InsertProgram(ctx, p)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "program %d added\n", id)
	return err
}

func listPrograms(ctx context.Context, a *app, out io.Writer) error {
	programs, err := a.provider.Programs(ctx)
	if err != nil {
		return err
	}
	return formatter().FormatTo(out, programTable(programs))
}

type programTable []*tv.Program

func (t programTable) Header() []string {
	return []string{"ID", "CHANNEL", "TITLE", "START", "END", "TRANSIENT"}
}

func (t programTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, p := range t {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			strconv.FormatInt(p.ChannelID, 10),
			p.Title,
			formatTime(p.StartTime),
			formatTime(p.EndTime),
			strconv.FormatBool(p.Transient),
		})
	}
	return rows
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
