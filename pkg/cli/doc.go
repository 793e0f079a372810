/*
Package cli provides command-line helpers used by the tvprovider command.

Output Formatting:

Command results are printed as text tables, JSON or CSV:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, channels); err != nil {
		return err
	}

Values implementing Table render as aligned columns in text mode and as rows
in CSV mode.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
*/
package cli
