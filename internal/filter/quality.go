package filter

import (
	"fmt"

	"github.com/citizenmundane/valker-app-sub000/internal/core"
)

// Config holds quality filter thresholds.
type Config struct {
	MinTypes        int     // distinct signal types required
	StrongMemeScore int     // meme score that passes on its own
	HighConfidence  float64 // confidence that passes on its own
	MinConfidence   float64 // global floor
}

// SourceFloor holds per-source acceptance floors. High-noise social
// sources must clear a minimum mention count gated by asset kind.
type SourceFloor struct {
	HighNoise          bool
	MentionFloorEquity float64
	MentionFloorCrypto float64
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		MinTypes:        2,
		StrongMemeScore: 2,
		HighConfidence:  85,
		MinConfidence:   60,
	}
}

// Filter is the quality gate in front of the pipeline. Pure predicate:
// no side effects, never errors; unknown sources fall back to the
// general floors only.
type Filter struct {
	cfg    Config
	floors map[string]SourceFloor
}

// New creates a filter with the given thresholds and per-source floors.
func New(cfg Config, floors map[string]SourceFloor) *Filter {
	if floors == nil {
		floors = make(map[string]SourceFloor)
	}
	return &Filter{cfg: cfg, floors: floors}
}

// Metadata keys recognized by sub-score derivation.
const (
	metaMentions       = "mentions"
	metaVolumeRatio    = "volume_ratio"
	metaPoliticalBuys  = "political_trades"
	metaDaysToEarnings = "days_to_earnings"
)

// Derive computes a CandidateSignal from a raw signal: the three
// sub-scores, the boolean flags, and a templated summary.
func Derive(raw core.RawSignal) core.CandidateSignal {
	raw = raw.Clamped()
	c := core.CandidateSignal{RawSignal: raw}

	// Meme score (0-4): mention volume, sentiment extremity, volume spike.
	mentions, _ := raw.MetaFloat(metaMentions)
	switch {
	case mentions >= 50:
		c.MemeScore += 2
	case mentions >= 10:
		c.MemeScore++
	}
	if raw.Sentiment >= 0.7 || raw.Sentiment <= 0.3 {
		c.MemeScore++
	}
	volumeRatio, _ := raw.MetaFloat(metaVolumeRatio)
	if volumeRatio >= 2 {
		c.MemeScore++
		c.UnusualVolume = true
	}
	if c.MemeScore > 4 {
		c.MemeScore = 4
	}

	// Political score (0-3): count of recent insider/political trades.
	trades, _ := raw.MetaFloat(metaPoliticalBuys)
	switch {
	case trades >= 3:
		c.PoliticalScore = 3
	case trades >= 2:
		c.PoliticalScore = 2
	case trades >= 1:
		c.PoliticalScore = 1
	}
	c.PoliticalTrade = c.PoliticalScore >= 1

	// Earnings score (0-2): proximity to an earnings event.
	if days, ok := raw.MetaFloat(metaDaysToEarnings); ok {
		switch {
		case days <= 3:
			c.EarningsScore = 2
		case days <= 14:
			c.EarningsScore = 1
		}
	}
	c.EarningsBased = c.EarningsScore >= 1

	c.Summary = summarize(c)
	return c
}

// Accept applies the quality rules in order:
//  1. signal-type diversity (with single-strong-signal and
//     very-high-confidence exemptions)
//  2. per-source mention floors for high-noise sources
//  3. the global confidence floor
func (f *Filter) Accept(c core.CandidateSignal) bool {
	if c.TypeCount() < f.cfg.MinTypes && !f.exempt(c) {
		return false
	}

	if floor, ok := f.floors[c.Source]; ok && floor.HighNoise {
		mentions, _ := c.MetaFloat(metaMentions)
		min := floor.MentionFloorEquity
		if c.Kind == core.KindCrypto {
			min = floor.MentionFloorCrypto
		}
		if mentions < min {
			return false
		}
		// A high-noise source needs more than a weak meme signal.
		if c.MemeScore < f.cfg.StrongMemeScore && c.PoliticalScore == 0 && c.EarningsScore == 0 {
			return false
		}
	}

	return c.Confidence >= f.cfg.MinConfidence
}

// exempt checks the single-strong-signal and high-confidence exceptions
// to the type-diversity rule.
func (f *Filter) exempt(c core.CandidateSignal) bool {
	if c.MemeScore >= f.cfg.StrongMemeScore {
		return true
	}
	if c.UnusualVolume || c.PoliticalTrade || c.EarningsBased {
		return true
	}
	return c.Confidence >= f.cfg.HighConfidence
}

func summarize(c core.CandidateSignal) string {
	tone := "neutral"
	if c.Sentiment >= 0.6 {
		tone = "bullish"
	} else if c.Sentiment <= 0.4 {
		tone = "bearish"
	}
	return fmt.Sprintf("%s via %s: meme %d/4, political %d/3, earnings %d/2, %s sentiment",
		c.Symbol, c.Source, c.MemeScore, c.PoliticalScore, c.EarningsScore, tone)
}
