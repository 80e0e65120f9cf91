// synthetic_check corre el pipeline de personas sinteticas contra un producto
// descripto en YAML, sin base de datos, e imprime el reporte agregado.
//
// Usage:
//
//	synthetic_check --fixture=testdata/ledgerleaf.yaml [--personas=10] [--concurrency=4] [--offline] [--json]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootFlags struct {
	fixture     string
	personas    int
	concurrency int
	timeout     int
	offline     bool
	jsonOut     bool
}

var rootCmd = &cobra.Command{
	Use:          "synthetic_check",
	Short:        "Run a synthetic investor test against a product fixture",
	Long:         "synthetic_check generates investor personas, evaluates the product with each one\nand prints the aggregated report. Nothing is persisted.",
	SilenceUsage: true,
	RunE:         runCheck,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&rootFlags.fixture, "fixture", "f", "", "Product fixture YAML (required)")
	f.IntVarP(&rootFlags.personas, "personas", "n", 10, "Number of personas to generate")
	f.IntVar(&rootFlags.concurrency, "concurrency", 0, "Max concurrent evaluations (0 = unbounded)")
	f.IntVar(&rootFlags.timeout, "timeout", 300, "Overall timeout in seconds")
	f.BoolVar(&rootFlags.offline, "offline", false, "Use a canned oracle instead of a real LLM")
	f.BoolVar(&rootFlags.jsonOut, "json", false, "Print the full test record as JSON")

	_ = rootCmd.MarkFlagRequired("fixture")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
