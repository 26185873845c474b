// Package cmd implements the preprocess command-line interface: a
// cobra-driven wrapper around pkg/contract's four-phase contraction
// pipeline.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "preprocess",
	Short: "Contract a district's edge graph into a hierarchical shortcut store",
	Long: `preprocess runs the four-phase partition-parallel contraction
pipeline over a district's edges.csv/adjacency.csv input and writes the
resulting binary shortcut store.`,
}

// Execute runs the root command, exiting the process with code 1 when
// cobra reports an error. The run command exits with its own codes.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the YAML config file (default: search ./, ./configs, /etc/h3-routing-platform)")
	rootCmd.AddCommand(runCmd)
}
