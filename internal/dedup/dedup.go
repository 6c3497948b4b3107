// Package dedup collapses same-symbol same-source duplicates within a
// scan batch. Source adapters complete in unpredictable order, so the
// output must not depend on arrival order: candidates are sorted by
// confidence (descending, with symbol and source as tiebreakers) before
// keying, and the first instance per key wins.
package dedup

import (
	"sort"

	"github.com/citizenmundane/valker-app-sub000/internal/core"
)

type key struct {
	symbol string
	source string
}

// Dedupe keeps the highest-confidence candidate per (symbol, source)
// pair. Lower-confidence duplicates are dropped silently. The input
// slice is not modified.
func Dedupe(candidates []core.CandidateSignal) []core.CandidateSignal {
	if len(candidates) < 2 {
		return append([]core.CandidateSignal(nil), candidates...)
	}

	sorted := append([]core.CandidateSignal(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Confidence != sorted[j].Confidence {
			return sorted[i].Confidence > sorted[j].Confidence
		}
		if sorted[i].Symbol != sorted[j].Symbol {
			return sorted[i].Symbol < sorted[j].Symbol
		}
		return sorted[i].Source < sorted[j].Source
	})

	seen := make(map[key]struct{}, len(sorted))
	result := make([]core.CandidateSignal, 0, len(sorted))
	for _, c := range sorted {
		k := key{symbol: c.Symbol, source: c.Source}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, c)
	}
	return result
}
