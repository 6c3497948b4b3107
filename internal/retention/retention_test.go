package retention

import (
	"context"
	"testing"

	"github.com/citizenmundane/valker-app-sub000/internal/core"
	"github.com/citizenmundane/valker-app-sub000/internal/store"
)

func TestMeets_AnyCriterionSuffices(t *testing.T) {
	e := New(DefaultCriteria(), nil)

	tests := []struct {
		name string
		sc   core.Scorecard
		want bool
	}{
		{"meme score", core.Scorecard{MemeScore: 2}, true},
		{"multi source", core.Scorecard{SourceCount: 2}, true},
		{"unusual volume", core.Scorecard{UnusualVolume: true}, true},
		{"political trade", core.Scorecard{PoliticalTrade: true}, true},
		{"earnings based", core.Scorecard{EarningsBased: true}, true},
		{"nothing", core.Scorecard{MemeScore: 1, SourceCount: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Meets(tt.sc); got != tt.want {
				t.Errorf("Meets() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldEvict_OnlyOnWatch(t *testing.T) {
	e := New(DefaultCriteria(), nil)

	failing := core.Scorecard{MemeScore: 1, SourceCount: 1}

	failing.Recommendation = core.RecOnWatch
	if !e.ShouldEvict(failing) {
		t.Error("unqualified on-watch entity should be evicted")
	}

	failing.Recommendation = core.RecShortTermWatch
	if e.ShouldEvict(failing) {
		t.Error("higher tiers are never evicted")
	}

	qualified := core.Scorecard{MemeScore: 3, Recommendation: core.RecOnWatch}
	if e.ShouldEvict(qualified) {
		t.Error("qualified on-watch entity should survive")
	}
}

func onWatchPending(id, symbol string, memeScore int) core.PendingAsset {
	p := core.PendingAsset{
		ID:        id,
		Symbol:    symbol,
		MemeScore: memeScore,
		Sources:   []string{"social_x"},
		Status:    core.StatusPending,
	}
	p.Recompute()
	return p
}

func TestSweep_EvictsUnqualified(t *testing.T) {
	e := New(DefaultCriteria(), nil)
	st := store.NewMemoryStore()
	ctx := context.Background()

	st.PutPending(ctx, onWatchPending("p1", "WEAK", 1))
	st.PutPending(ctx, onWatchPending("p2", "MEME", 3))

	strong := core.PendingAsset{
		ID: "p3", Symbol: "HOT", MemeScore: 4, PoliticalScore: 3,
		Sources: []string{"social_x"}, Status: core.StatusPending,
	}
	strong.Recompute()
	st.PutPending(ctx, strong)

	weak := core.Asset{ID: "a1", Symbol: "COLD", MemeScore: 1, Sources: []string{"social_x"}}
	weak.Recompute()
	st.PutAsset(ctx, weak)

	result, err := e.Sweep(ctx, st)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	if len(result.EvictedPending) != 1 || result.EvictedPending[0].Symbol != "WEAK" {
		t.Errorf("expected WEAK evicted, got %+v", result.EvictedPending)
	}
	if len(result.EvictedConfirmed) != 1 || result.EvictedConfirmed[0].Symbol != "COLD" {
		t.Errorf("expected COLD evicted, got %+v", result.EvictedConfirmed)
	}

	remaining, _ := st.ListPending(ctx)
	if len(remaining) != 2 {
		t.Errorf("expected 2 surviving pending, got %d", len(remaining))
	}
}

// After a sweep, every surviving on-watch entity meets retention.
func TestSweep_Invariant(t *testing.T) {
	e := New(DefaultCriteria(), nil)
	st := store.NewMemoryStore()
	ctx := context.Background()

	st.PutPending(ctx, onWatchPending("p1", "A", 0))
	st.PutPending(ctx, onWatchPending("p2", "B", 2))
	st.PutPending(ctx, onWatchPending("p3", "C", 4))

	if _, err := e.Sweep(ctx, st); err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	pending, _ := st.ListPending(ctx)
	for _, p := range pending {
		if p.Recommendation == core.RecOnWatch && !e.Meets(p.Scorecard()) {
			t.Errorf("unqualified on-watch entity %s survived sweep", p.Symbol)
		}
	}
}

// Sweeping twice with no intervening writes evicts nothing the second
// time.
func TestSweep_Idempotent(t *testing.T) {
	e := New(DefaultCriteria(), nil)
	st := store.NewMemoryStore()
	ctx := context.Background()

	st.PutPending(ctx, onWatchPending("p1", "WEAK", 1))

	first, err := e.Sweep(ctx, st)
	if err != nil {
		t.Fatalf("first sweep failed: %v", err)
	}
	if len(first.EvictedPending) != 1 {
		t.Fatalf("expected 1 eviction, got %d", len(first.EvictedPending))
	}

	second, err := e.Sweep(ctx, st)
	if err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if len(second.EvictedPending) != 0 || len(second.EvictedConfirmed) != 0 {
		t.Error("second sweep should evict nothing")
	}
}

// Rejected rows are audit history and never swept.
func TestSweep_SkipsRejected(t *testing.T) {
	e := New(DefaultCriteria(), nil)
	st := store.NewMemoryStore()
	ctx := context.Background()

	rejected := onWatchPending("p1", "WEAK", 0)
	rejected.Status = core.StatusRejected
	st.PutPending(ctx, rejected)

	result, _ := e.Sweep(ctx, st)
	if len(result.EvictedPending) != 0 {
		t.Error("rejected entity should not be swept")
	}
}
