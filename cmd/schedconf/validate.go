package main

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"pytroll-hq/schedconf/pkg/cli"
	"pytroll-hq/schedconf/pkg/config"
	"pytroll-hq/schedconf/pkg/schedule"
	"pytroll-hq/schedconf/pkg/telemetry/logging"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the configuration is complete",
	Long: `Read the configuration and check that everything the scheduler needs is
present. Hierarchical configuration is assembled into stations and
satellites; a flat file is read completely, including its area references.

Examples:
  schedconf validate -c schedule.yaml
  schedconf validate -c base.yaml -c site.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	paths, err := configPaths()
	if err != nil {
		return err
	}
	return validateConfig(cmd.OutOrStdout(), logging.FromContext(cmd.Context()), paths)
}

// validateConfig reads and assembles the configuration, writing a summary
// of the stations found to w.
func validateConfig(w io.Writer, logger *slog.Logger, paths []string) error {
	res, err := config.NewLoader(config.WithLogger(logger)).Read(paths...)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}

	switch r := res.(type) {
	case *config.HierarchicalResult:
		sched, err := schedule.Build(r.Config, schedule.NewDefaultFactory(nil, logger))
		if err != nil {
			return cli.NewCommandError("validate", err)
		}
		fmt.Fprintf(w, "✓ Hierarchical configuration valid (%d stations)\n", len(sched.Stations))
		for _, st := range sched.Stations {
			fmt.Fprintf(w, "  %s (%s): %s\n", st.ID, st.Name, strings.Join(st.SatelliteNames(), ", "))
		}
		fmt.Fprintf(w, "  window: %g h forward, starting in %g h, min pass %g min\n", sched.Forward, sched.Start, sched.MinPass)

	case *config.FlatResult:
		fmt.Fprintf(w, "✓ Flat configuration valid (%d stations)\n", len(r.Config.Stations))
		for _, st := range r.Config.Stations {
			sats := make([]string, 0, len(st.Scores))
			for name := range st.Scores {
				sats = append(sats, name)
			}
			sort.Strings(sats)
			fmt.Fprintf(w, "  %s (area %s): %s\n", st.Name, st.Area.ID, strings.Join(sats, ", "))
		}
		fmt.Fprintf(w, "  window: %d h forward, starting in %g h\n", r.Config.Forward, r.Config.Start)
	}
	return nil
}
