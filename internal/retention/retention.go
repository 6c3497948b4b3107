// Package retention is the application-level garbage collector for
// low-conviction tracked entities. Anything whose derived recommendation
// sits in the lowest tier ("on watch") must justify its slot through the
// retention criteria or be evicted. The same rule set runs from the
// scheduled sweep and inline at every create/update, so the two paths
// cannot drift.
package retention

import (
	"context"

	"github.com/citizenmundane/valker-app-sub000/internal/core"
	"github.com/citizenmundane/valker-app-sub000/internal/store"
	"go.uber.org/zap"
)

// Criteria holds the thresholds that exempt an on-watch entity from
// eviction.
type Criteria struct {
	MinMemeScore int
	MinSources   int
}

// DefaultCriteria returns the production thresholds.
func DefaultCriteria() Criteria {
	return Criteria{
		MinMemeScore: 2,
		MinSources:   2,
	}
}

// Engine evaluates retention criteria and sweeps stores.
type Engine struct {
	criteria Criteria
	logger   *zap.Logger
}

// New creates a retention engine.
func New(criteria Criteria, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{criteria: criteria, logger: logger}
}

// Meets reports whether a scorecard satisfies any retention criterion.
// Only meaningful for on-watch entities; higher tiers are never evicted.
func (e *Engine) Meets(sc core.Scorecard) bool {
	if sc.MemeScore >= e.criteria.MinMemeScore {
		return true
	}
	if sc.SourceCount >= e.criteria.MinSources {
		return true
	}
	if sc.UnusualVolume {
		return true
	}
	return sc.PoliticalTrade || sc.EarningsBased
}

// ShouldEvict reports whether an entity must be removed: on watch and
// failing every criterion.
func (e *Engine) ShouldEvict(sc core.Scorecard) bool {
	return sc.Recommendation == core.RecOnWatch && !e.Meets(sc)
}

// SweepResult lists the entities removed by one sweep.
type SweepResult struct {
	EvictedPending   []core.PendingAsset
	EvictedConfirmed []core.Asset
}

// Sweep iterates every stored pending and confirmed entity and hard
// deletes the ones that fail ShouldEvict. The caller is responsible for
// serializing sweeps against concurrent ingestion.
func (e *Engine) Sweep(ctx context.Context, st store.Store) (SweepResult, error) {
	var result SweepResult

	pending, err := st.ListPending(ctx)
	if err != nil {
		return result, err
	}
	for _, p := range pending {
		if p.Status != core.StatusPending {
			continue // rejected rows are audit history, not sweep targets
		}
		if e.ShouldEvict(p.Scorecard()) {
			if err := st.DeletePending(ctx, p.ID); err != nil {
				return result, err
			}
			e.logger.Info("evicted pending asset",
				zap.String("symbol", p.Symbol),
				zap.String("id", p.ID),
			)
			result.EvictedPending = append(result.EvictedPending, p)
		}
	}

	assets, err := st.ListAssets(ctx)
	if err != nil {
		return result, err
	}
	for _, a := range assets {
		if e.ShouldEvict(a.Scorecard()) {
			if err := st.DeleteAsset(ctx, a.ID); err != nil {
				return result, err
			}
			e.logger.Info("evicted confirmed asset",
				zap.String("symbol", a.Symbol),
				zap.String("id", a.ID),
			)
			result.EvictedConfirmed = append(result.EvictedConfirmed, a)
		}
	}

	return result, nil
}
