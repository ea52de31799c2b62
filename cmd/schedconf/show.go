package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"pytroll-hq/schedconf/pkg/cli"
	"pytroll-hq/schedconf/pkg/config"
	"pytroll-hq/schedconf/pkg/telemetry/logging"
)

var showFlags struct {
	format string
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configuration as read",
	Long: `Read the configuration files and print the result.

Hierarchical files are merged in the order given. A single file that is not
hierarchical is read as a flat file, and the stations, window and patterns it
defines are printed.

Examples:
  # Print the merged configuration as YAML
  schedconf show -c base.yaml -c site.yaml

  # Print a legacy flat file as JSON
  schedconf show -c schedule.cfg --format json`,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVarP(&showFlags.format, "format", "f", "yaml", "output format: yaml, json, text")
}

func runShow(cmd *cobra.Command, args []string) error {
	paths, err := configPaths()
	if err != nil {
		return err
	}
	format, err := cli.ParseOutputFormat(showFlags.format)
	if err != nil {
		return err
	}
	return showConfig(cmd.OutOrStdout(), logging.FromContext(cmd.Context()), paths, format)
}

// showConfig reads paths and writes the result to w.
func showConfig(w io.Writer, logger *slog.Logger, paths []string, format cli.OutputFormat) error {
	res, err := config.NewLoader(config.WithLogger(logger)).Read(paths...)
	if err != nil {
		return cli.NewCommandError("show", err)
	}

	var out any
	switch r := res.(type) {
	case *config.HierarchicalResult:
		out = r.Config
	case *config.FlatResult:
		out = r.Config
	}
	return cli.NewFormatter(format).FormatTo(w, out)
}
