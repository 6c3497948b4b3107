package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/citizenmundane/valker-app-sub000/internal/core"
)

func TestFileAdapter_Scan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.json")
	content := `[
		{"symbol": "GME", "kind": "equity", "confidence": 72, "sentiment": 0.8,
		 "observed_at": "2026-08-20T12:00:00Z",
		 "metadata": {"mentions": 60}},
		{"source": "insider_filings", "symbol": "AAPL", "kind": "equity",
		 "confidence": 80, "sentiment": 0.6, "observed_at": "2026-08-20T11:00:00Z"}
	]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	a := NewFileAdapter("social_x", path)
	signals, err := a.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(signals) != 2 {
		t.Fatalf("expected 2 signals, got %d", len(signals))
	}

	// Untagged signals take the adapter name; tagged ones keep theirs.
	if signals[0].Source != "social_x" {
		t.Errorf("source = %q, want adapter name", signals[0].Source)
	}
	if signals[1].Source != "insider_filings" {
		t.Errorf("source = %q, want tagged name", signals[1].Source)
	}
	if signals[0].Kind != core.KindEquity || signals[0].Confidence != 72 {
		t.Errorf("unexpected first signal: %+v", signals[0])
	}
	if m, ok := signals[0].MetaFloat("mentions"); !ok || m != 60 {
		t.Errorf("metadata mentions = %v %v", m, ok)
	}
}

func TestFileAdapter_MissingFile(t *testing.T) {
	a := NewFileAdapter("x", filepath.Join(t.TempDir(), "nope.json"))
	if _, err := a.Scan(context.Background()); !errors.Is(err, core.ErrAdapterFailed) {
		t.Errorf("expected ErrAdapterFailed, got %v", err)
	}
}

func TestFileAdapter_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	a := NewFileAdapter("x", path)
	if _, err := a.Scan(context.Background()); !errors.Is(err, core.ErrAdapterFailed) {
		t.Errorf("expected ErrAdapterFailed, got %v", err)
	}
}
