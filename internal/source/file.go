package source

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/citizenmundane/valker-app-sub000/internal/core"
)

// signalRecord is the on-disk form of a raw signal.
type signalRecord struct {
	Source     string         `json:"source"`
	Symbol     string         `json:"symbol"`
	Kind       string         `json:"kind"`
	Confidence float64        `json:"confidence"`
	Sentiment  float64        `json:"sentiment"`
	ObservedAt time.Time      `json:"observed_at"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// FileAdapter reads a JSON array of raw signals from a file. Used for
// replaying captured signal batches and for feeding the CLI without
// live source integrations.
type FileAdapter struct {
	name string
	path string
}

// NewFileAdapter creates an adapter that reads signals from path. The
// adapter name becomes the source of any signal that does not carry one.
func NewFileAdapter(name, path string) *FileAdapter {
	return &FileAdapter{name: name, path: path}
}

func (f *FileAdapter) Name() string { return f.name }

// Scan reads and decodes the signal batch.
func (f *FileAdapter) Scan(ctx context.Context) ([]core.RawSignal, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, core.WrapError(core.ErrAdapterFailed, err)
	}

	var records []signalRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, core.WrapError(core.ErrAdapterFailed, err)
	}

	signals := make([]core.RawSignal, 0, len(records))
	for _, r := range records {
		source := r.Source
		if source == "" {
			source = f.name
		}
		signals = append(signals, core.RawSignal{
			Source:     source,
			Symbol:     r.Symbol,
			Kind:       core.AssetKind(r.Kind),
			Confidence: r.Confidence,
			Sentiment:  r.Sentiment,
			ObservedAt: r.ObservedAt,
			Metadata:   r.Metadata,
		})
	}
	return signals, nil
}
