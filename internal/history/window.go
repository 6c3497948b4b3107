package history

import (
	"sync"
	"time"

	"github.com/citizenmundane/valker-app-sub000/internal/core"
)

// Window is a time-bounded buffer of raw signals. Signals older than the
// retention period are discarded; a capacity cap bounds memory when
// sources misbehave. This is the only storage RawSignals ever get.
type Window struct {
	mu        sync.RWMutex
	signals   []core.RawSignal
	retention time.Duration
	maxSize   int

	// For testing: allow time control
	now func() time.Time
}

// NewWindow creates a window with the given retention period and capacity.
func NewWindow(retention time.Duration, maxSize int) *Window {
	return &Window{
		signals:   make([]core.RawSignal, 0, maxSize),
		retention: retention,
		maxSize:   maxSize,
		now:       time.Now,
	}
}

// Append adds signals to the window. Confidence and sentiment are clamped
// before storage. Expired and overflow entries are pruned inline.
func (w *Window) Append(signals ...core.RawSignal) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, s := range signals {
		w.signals = append(w.signals, s.Clamped())
	}
	w.pruneLocked()
}

// BySymbol returns all unexpired signals for the symbol.
func (w *Window) BySymbol(symbol string) []core.RawSignal {
	w.mu.RLock()
	defer w.mu.RUnlock()

	cutoff := w.now().Add(-w.retention)
	var result []core.RawSignal
	for _, s := range w.signals {
		if s.Symbol == symbol && s.ObservedAt.After(cutoff) {
			result = append(result, s)
		}
	}
	return result
}

// Symbols returns the distinct symbols with at least one unexpired signal.
func (w *Window) Symbols() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	cutoff := w.now().Add(-w.retention)
	seen := make(map[string]struct{})
	var result []string
	for _, s := range w.signals {
		if s.ObservedAt.After(cutoff) {
			if _, ok := seen[s.Symbol]; !ok {
				seen[s.Symbol] = struct{}{}
				result = append(result, s.Symbol)
			}
		}
	}
	return result
}

// Prune drops expired signals and returns how many were removed.
func (w *Window) Prune() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pruneLocked()
}

// Len returns the number of stored signals, expired or not.
func (w *Window) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.signals)
}

func (w *Window) pruneLocked() int {
	cutoff := w.now().Add(-w.retention)
	before := len(w.signals)

	kept := w.signals[:0]
	for _, s := range w.signals {
		if s.ObservedAt.After(cutoff) {
			kept = append(kept, s)
		}
	}
	w.signals = kept

	// Capacity cap: drop oldest entries beyond maxSize.
	if w.maxSize > 0 && len(w.signals) > w.maxSize {
		w.signals = w.signals[len(w.signals)-w.maxSize:]
	}

	return before - len(w.signals)
}
