/*
Package cli provides helpers shared by the courier commands.

Output Formatting:

Commands print results as aligned text or JSON:

	format, err := cli.ParseOutputFormat(flagValue)
	if err != nil {
		return err
	}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), result)

Results implementing Fielder render as "name: value" lines in text mode.

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()

Exit Codes:

ExitCode maps command errors to process status: 2 for configuration
errors, 1 for anything else.
*/
package cli
