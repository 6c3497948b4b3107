// internal/store/memory_test.go
package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/citizenmundane/valker-app-sub000/internal/core"
)

func TestMemoryStore_PendingRoundTrip(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	p := core.PendingAsset{
		ID:           "p1",
		Symbol:       "GME",
		Kind:         core.KindEquity,
		Status:       core.StatusPending,
		DiscoveredAt: time.Now(),
	}

	if err := m.PutPending(ctx, p); err != nil {
		t.Fatalf("PutPending failed: %v", err)
	}

	got, err := m.PendingByID(ctx, "p1")
	if err != nil {
		t.Fatalf("PendingByID failed: %v", err)
	}
	if got.Symbol != "GME" {
		t.Errorf("expected GME, got %s", got.Symbol)
	}

	list, _ := m.ListPending(ctx)
	if len(list) != 1 {
		t.Errorf("expected 1 pending, got %d", len(list))
	}

	if err := m.DeletePending(ctx, "p1"); err != nil {
		t.Fatalf("DeletePending failed: %v", err)
	}
	if _, err := m.PendingByID(ctx, "p1"); !errors.Is(err, core.ErrPendingNotFound) {
		t.Errorf("expected PENDING_NOT_FOUND, got %v", err)
	}
}

func TestMemoryStore_AssetRoundTrip(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	a := core.Asset{ID: "a1", Symbol: "AMC", Kind: core.KindEquity}
	if err := m.PutAsset(ctx, a); err != nil {
		t.Fatalf("PutAsset failed: %v", err)
	}

	got, err := m.AssetByID(ctx, "a1")
	if err != nil {
		t.Fatalf("AssetByID failed: %v", err)
	}
	if got.Symbol != "AMC" {
		t.Errorf("expected AMC, got %s", got.Symbol)
	}

	if err := m.DeleteAsset(ctx, "a1"); err != nil {
		t.Fatalf("DeleteAsset failed: %v", err)
	}
	if err := m.DeleteAsset(ctx, "a1"); !errors.Is(err, core.ErrAssetNotFound) {
		t.Errorf("expected ASSET_NOT_FOUND, got %v", err)
	}
}

func TestMemoryStore_ReadsReturnCopies(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	m.PutPending(ctx, core.PendingAsset{ID: "p1", Symbol: "GME", MemeScore: 2})

	got, _ := m.PendingByID(ctx, "p1")
	got.MemeScore = 99

	again, _ := m.PendingByID(ctx, "p1")
	if again.MemeScore != 2 {
		t.Error("mutation through a read leaked into the store")
	}
}

func TestMemoryStore_PutReplacesExisting(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	m.PutAsset(ctx, core.Asset{ID: "a1", Symbol: "GME", AlertSent: false})
	m.PutAsset(ctx, core.Asset{ID: "a1", Symbol: "GME", AlertSent: true})

	got, _ := m.AssetByID(ctx, "a1")
	if !got.AlertSent {
		t.Error("expected replacement to win")
	}

	list, _ := m.ListAssets(ctx)
	if len(list) != 1 {
		t.Errorf("expected 1 asset, got %d", len(list))
	}
}
