/*
Package cli provides helpers shared by the egress commands.

Output Formatting:

Commands that print structured results accept --format text|json|yaml:

	format, err := cli.ParseOutputFormat(flagValue)
	if err != nil {
		return err
	}
	return cli.NewFormatter(format).FormatTo(os.Stdout, result)

Errors:

ConfigError and CommandError carry the failing field or command. ExitCode
maps them to the process status: 2 for configuration problems, 1 otherwise.

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
