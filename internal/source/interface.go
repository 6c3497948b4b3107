package source

import (
	"context"

	"github.com/citizenmundane/valker-app-sub000/internal/core"
)

// Adapter defines the interface for signal source adapters. Implementations
// live outside the engine (social scanners, market-data clients, filing
// scanners) and are treated as untrusted: they may fail, hang, or return
// garbage.
type Adapter interface {
	// Name returns the source name tagged onto every RawSignal.
	Name() string

	// Scan fetches current signals. It must honor ctx cancellation and
	// should return whatever partial results it has on deadline rather
	// than an error.
	Scan(ctx context.Context) ([]core.RawSignal, error)
}
