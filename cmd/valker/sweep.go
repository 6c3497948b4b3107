package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/citizenmundane/valker-app-sub000/internal/logger"
	"github.com/citizenmundane/valker-app-sub000/internal/source"
	"github.com/spf13/cobra"
)

var sweepSignals []string

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a retention sweep and report evictions",
	Long: `Sweep ingests the supplied signal batches, then evicts every tracked
entity whose recommendation sits on watch without meeting a retention
criterion. Evicted entities go to the audit archive when one is configured.`,
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().StringArrayVar(&sweepSignals, "signals", nil,
		"source signal batch as name=path (repeatable)")
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
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

	ctx := context.Background()
	for _, spec := range sweepSignals {
		name, path, ok := strings.Cut(spec, "=")
		if !ok || name == "" || path == "" {
			return fmt.Errorf("invalid --signals value %q, want name=path", spec)
		}
		a := source.NewFileAdapter(name, path)
		signals, err := a.Scan(ctx)
		if err != nil {
			return fmt.Errorf("reading batch %s: %w", path, err)
		}
		e.Ingest(ctx, signals)
	}

	res, err := e.Sweep(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("sweep complete: %d pending evicted, %d confirmed evicted\n",
		res.EvictedPending, res.EvictedConfirmed)
	return nil
}
