package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/citizenmundane/valker-app-sub000/internal/logger"
	"github.com/citizenmundane/valker-app-sub000/internal/source"
	"github.com/spf13/cobra"
)

var scanSignals []string

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one scatter/gather scan cycle and ingest the results",
	Long: `Scan runs every registered source adapter concurrently, ingests the
gathered signals through the quality filter and deduplicator, and creates
pending assets for qualifying symbols.

Signal batches are supplied as JSON files, one per source:

  valker scan --signals social_x=batch1.json --signals insider_filings=batch2.json`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringArrayVar(&scanSignals, "signals", nil,
		"source signal batch as name=path (repeatable)")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	e, err := buildEngine(cfg, log)
	if err != nil {
		return err
	}

	if len(scanSignals) == 0 {
		return fmt.Errorf("no signal batches: pass at least one --signals name=path")
	}
	for _, spec := range scanSignals {
		name, path, ok := strings.Cut(spec, "=")
		if !ok || name == "" || path == "" {
			return fmt.Errorf("invalid --signals value %q, want name=path", spec)
		}
		e.RegisterAdapter(source.NewFileAdapter(name, path))
	}

	res := e.Scan(context.Background())
	fmt.Printf("scan complete: %d added, %d skipped, %d auto-rejected\n",
		res.Added, res.Skipped, res.AutoRejected)

	pending, err := e.ListPending(context.Background())
	if err != nil {
		return err
	}
	for _, p := range pending {
		fmt.Printf("  %-8s score %d/9 (%s) sources=%s\n",
			p.Symbol, p.TotalScore, p.Recommendation, strings.Join(p.Sources, ","))
	}
	return nil
}
