package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	quiet   bool
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:   "poolctl",
	Short: "Exercise and measure the poolkit object pool allocator",
	Long: `poolctl drives the poolkit fixed-size object pool allocator through
representative workloads and reports throughput and pool statistics. It is
a measurement harness, not a production tool: the numbers it prints are
the ones the allocator is designed around (allocate/free latency, block
growth, slot reuse under churn).`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
