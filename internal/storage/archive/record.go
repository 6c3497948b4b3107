package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/citizenmundane/valker-app-sub000/internal/core"
)

// Reason describes why an entity was archived.
type Reason string

const (
	ReasonEvicted  Reason = "evicted"
	ReasonRejected Reason = "rejected"
)

// Record is one audit entry for an entity that left the store.
type Record struct {
	EntityKind     string    `json:"entity_kind"` // "pending" or "asset"
	Reason         Reason    `json:"reason"`
	ID             string    `json:"id"`
	Symbol         string    `json:"symbol"`
	TotalScore     int       `json:"total_score"`
	Recommendation string    `json:"recommendation"`
	Sources        []string  `json:"sources"`
	ArchivedAt     time.Time `json:"archived_at"`
}

// PendingRecord builds an audit record from a pending asset.
func PendingRecord(p core.PendingAsset, reason Reason) Record {
	return Record{
		EntityKind:     "pending",
		Reason:         reason,
		ID:             p.ID,
		Symbol:         p.Symbol,
		TotalScore:     p.TotalScore,
		Recommendation: string(p.Recommendation),
		Sources:        p.Sources,
	}
}

// AssetRecord builds an audit record from a confirmed asset.
func AssetRecord(a core.Asset, reason Reason) Record {
	return Record{
		EntityKind:     "asset",
		Reason:         reason,
		ID:             a.ID,
		Symbol:         a.Symbol,
		TotalScore:     a.TotalScore,
		Recommendation: string(a.Recommendation),
		Sources:        a.Sources,
	}
}

// Writer persists audit records to a storage backend.
type Writer struct {
	storage Storage

	// For testing: allow time control
	now func() time.Time
}

// NewWriter creates an audit writer over the given backend.
func NewWriter(s Storage) *Writer {
	return &Writer{storage: s, now: time.Now}
}

// Archive serializes and stores one record. Paths group by symbol so the
// history of a symbol is listable with one prefix.
func (w *Writer) Archive(ctx context.Context, rec Record) error {
	rec.ArchivedAt = w.now().UTC()

	data, err := json.Marshal(rec)
	if err != nil {
		return core.WrapError(core.ErrArchiveFailed, err)
	}

	path := fmt.Sprintf("%s/%d_%s.json", rec.Symbol, rec.ArchivedAt.UnixNano(), rec.ID)
	if err := w.storage.Write(ctx, path, data); err != nil {
		return core.WrapError(core.ErrArchiveFailed, err)
	}
	return nil
}

// History lists the archived record paths for one symbol.
func (w *Writer) History(ctx context.Context, symbol string) ([]string, error) {
	return w.storage.List(ctx, symbol)
}
