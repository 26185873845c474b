// Package cmd implements routectl's subcommands: load, unload,
// route_by_edge, and route_m2m, each a standalone invocation against a
// binary dataset store rather than calls into a running daemon.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "routectl",
	Short: "Run dataset load/unload and point-to-point/many-to-many queries against a binary store",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(unloadCmd)
	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(routeM2MCmd)
}
