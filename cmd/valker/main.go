package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "valker",
	Short: "VALKER - Signal Aggregation & Cross-Source Validation Engine",
	Long: `VALKER ingests trending-asset signals from multiple sources, filters
and deduplicates them, validates symbols across sources with
reliability-weighted scoring, and manages the pending/confirmed asset
lifecycle.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
