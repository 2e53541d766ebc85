package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ripple",
		Short: "Fine-grained reactivity engine for Go",
		Long: `Ripple is a fine-grained reactivity engine: it makes in-memory object
graphs observable so that effects automatically re-run when any data
they previously read is mutated.

This tool hosts development utilities for the engine:

  • bench    - measure propagation latency across dependency graphs
  • version  - print version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		benchCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ripple %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
