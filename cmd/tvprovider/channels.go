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

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "Add and list channels",
}

var (
	channelInputID    string
	channelName       string
	channelNumber     string
	channelType       string
	channelProviderID string
	channelTransient  bool
)

var channelsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Insert a channel",
	Example: `  tvprovider channels add --input-id com.example/.Input --name "News" --number 7
  tvprovider channels add --input-id com.example/.Input --name "Live" --transient`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), config.GetConfig())
		if err != nil {
			return cli.NewCommandError("channels add", err)
		}
		defer a.Close()

		ch := &tv.Channel{
			InputID:            channelInputID,
			Type:               channelType,
			DisplayNumber:      channelNumber,
			DisplayName:        channelName,
			InternalProviderID: channelProviderID,
			Transient:          channelTransient,
		}
		if err := addChannel(cmd.Context(), a, ch, cmd.OutOrStdout()); err != nil {
			return cli.NewCommandError("channels add", err)
		}
		return nil
	},
}

var channelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List channels",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), config.GetConfig())
		if err != nil {
			return cli.NewCommandError("channels list", err)
		}
		defer a.Close()

		if err := listChannels(cmd.Context(), a, cmd.OutOrStdout()); err != nil {
			return cli.NewCommandError("channels list", err)
		}
		return nil
	},
}

func init() {
	channelsAddCmd.Flags().StringVar(&channelInputID, "input-id", "", "input the channel belongs to (required)")
	channelsAddCmd.Flags().StringVar(&channelName, "name", "", "display name")
	channelsAddCmd.Flags().StringVar(&channelNumber, "number", "", "display number")
	channelsAddCmd.Flags().StringVar(&channelType, "type", tv.TypeOther, "channel type")
	channelsAddCmd.Flags().StringVar(&channelProviderID, "provider-id", "", "internal provider ID")
	channelsAddCmd.Flags().BoolVar(&channelTransient, "transient", false, "delete the channel on the first access after the next reboot")
	_ = channelsAddCmd.MarkFlagRequired("input-id")

	channelsCmd.AddCommand(channelsAddCmd, channelsListCmd)
	rootCmd.AddCommand(channelsCmd)
}

func addChannel(ctx context.Context, a *app, ch *tv.Channel, out io.Writer) error {
	id, err := a.provider.InsertChannel(ctx, ch)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "channel %d added\n", id)
	return err
}

func listChannels(ctx context.Context, a *app, out io.Writer) error {
	channels, err := a.provider.Channels(ctx)
	if err != nil {
		return err
	}
	return formatter().FormatTo(out, channelTable(channels))
}

type channelTable []*tv.Channel

func (t channelTable) Header() []string {
	return []string{"ID", "INPUT", "TYPE", "NUMBER", "NAME", "TRANSIENT", "CREATED"}
}

func (t channelTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, ch := range t {
		rows = append(rows, []string{
			strconv.FormatInt(ch.ID, 10),
			ch.InputID,
			ch.Type,
			ch.DisplayNumber,
			ch.DisplayName,
			strconv.FormatBool(ch.Transient),
			ch.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return rows
}
