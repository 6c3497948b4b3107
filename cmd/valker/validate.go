package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/citizenmundane/valker-app-sub000/internal/logger"
	"github.com/citizenmundane/valker-app-sub000/internal/source"
	"github.com/spf13/cobra"
)

var validateSignals []string

var validateCmd = &cobra.Command{
	Use:   "validate SYMBOL",
	Short: "Compute the cross-source validation view for a symbol",
	Long: `Validate ingests the supplied signal batches, then aggregates every
recent signal for SYMBOL into a reliability- and time-weighted confidence
with validation flags, conflict detection, risk level, and recommendation.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringArrayVar(&validateSignals, "signals", nil,
		"source signal batch as name=path (repeatable)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
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
	for _, spec := range validateSignals {
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

	symbol := strings.ToUpper(args[0])
	vs := e.Validate(ctx, symbol)
	if vs == nil {
		fmt.Printf("%s: no signals in the retention window\n", symbol)
		return nil
	}

	fmt.Println(vs.Summary)
	fmt.Printf("  confidence:     %.1f/100\n", vs.OverallConfidence)
	fmt.Printf("  risk:           %s\n", vs.RiskLevel)
	fmt.Printf("  recommendation: %s\n", vs.Recommendation)
	fmt.Printf("  flags:          multi-source=%t sentiment=%t temporal=%t insider=%t volume=%t technical=%t\n",
		vs.Flags.MultipleSourcesConfirm, vs.Flags.SentimentAlignment,
		vs.Flags.TemporalAlignment, vs.Flags.InsiderActivity,
		vs.Flags.VolumeConfirmation, vs.Flags.TechnicalConfirmation)
	for _, c := range vs.ConflictingSignals {
		fmt.Printf("  conflict:       %s\n", c)
	}
	return nil
}
