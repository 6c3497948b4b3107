package source

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/citizenmundane/valker-app-sub000/internal/core"
	"go.uber.org/zap"
)

// ScanResult holds the outcome of one adapter's scan. Either Signals or
// Err may be set; a timed-out adapter can still contribute the partial
// signals it returned before the deadline.
type ScanResult struct {
	Source  string
	Signals []core.RawSignal
	Err     error
}

// Gather runs all adapters concurrently with a per-adapter deadline and
// returns whatever subset completed. An adapter that overruns its deadline
// is abandoned, never awaited. Failures are reported per-source in the
// results, not propagated.
func Gather(ctx context.Context, adapters []Adapter, timeout time.Duration, log *zap.Logger) []ScanResult {
	if log == nil {
		log = zap.NewNop()
	}

	results := make(chan ScanResult, len(adapters))

	for _, a := range adapters {
		go func(a Adapter) {
			actx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			done := make(chan ScanResult, 1)
			go func() {
				signals, err := a.Scan(actx)
				done <- ScanResult{Source: a.Name(), Signals: signals, Err: err}
			}()

			select {
			case r := <-done:
				if r.Err != nil && errors.Is(r.Err, context.DeadlineExceeded) {
					r.Err = core.WrapError(core.ErrAdapterTimeout, r.Err)
				} else if r.Err != nil {
					r.Err = core.WrapError(core.ErrAdapterFailed, r.Err)
				}
				results <- r
			case <-actx.Done():
				// Adapter still running past deadline; abandon it.
				results <- ScanResult{
					Source: a.Name(),
					Err:    core.WrapError(core.ErrAdapterTimeout, actx.Err()),
				}
			}
		}(a)
	}

	collected := make([]ScanResult, 0, len(adapters))
	for range adapters {
		r := <-results
		if r.Err != nil {
			log.Warn("source scan failed",
				zap.String("source", r.Source),
				zap.Int("partial_signals", len(r.Signals)),
				zap.Error(r.Err),
			)
		} else {
			log.Debug("source scan complete",
				zap.String("source", r.Source),
				zap.Int("signals", len(r.Signals)),
			)
		}
		collected = append(collected, r)
	}

	// Stable ordering regardless of completion order.
	sort.Slice(collected, func(i, j int) bool {
		return collected[i].Source < collected[j].Source
	})

	return collected
}

// Signals flattens gather results into the raw signals of every source
// that produced any, tagging each with its source name.
func Signals(results []ScanResult) []core.RawSignal {
	var all []core.RawSignal
	for _, r := range results {
		for _, s := range r.Signals {
			if s.Source == "" {
				s.Source = r.Source
			}
			all = append(all, s)
		}
	}
	return all
}
