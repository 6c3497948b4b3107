// Package validator computes the cross-source view of a symbol: a
// reliability- and time-weighted confidence over every recent RawSignal,
// plus validation flags, conflict detection, risk and recommendation.
// Validation is pure and read-only over the signal history, so it is
// safe to call repeatedly.
package validator

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/citizenmundane/valker-app-sub000/internal/core"
	"github.com/montanaflynn/stats"
)

// Config holds validation thresholds.
type Config struct {
	SentimentVarianceMax    float64       // population variance ceiling for alignment
	TemporalWindow          time.Duration // max observed-at spread for alignment
	ConflictSentimentGap    float64       // social vs hard-source mean gap
	ConflictConfidenceFloor float64       // confidence floor for opposing camps
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		SentimentVarianceMax:    0.25,
		TemporalWindow:          48 * time.Hour,
		ConflictSentimentGap:    0.4,
		ConflictConfidenceFloor: 70,
	}
}

// Validator scores a symbol from its contributing raw signals using an
// immutable per-source weighting table.
type Validator struct {
	cfg      Config
	profiles map[string]Profile

	// For testing: allow time control
	now func() time.Time
}

// New creates a validator with the given thresholds and source table.
func New(cfg Config, profiles map[string]Profile) *Validator {
	if profiles == nil {
		profiles = DefaultProfiles()
	}
	return &Validator{
		cfg:      cfg,
		profiles: profiles,
		now:      time.Now,
	}
}

func (v *Validator) profile(source string) Profile {
	if p, ok := v.profiles[source]; ok {
		return p
	}
	return fallbackProfile
}

// Validate aggregates the signals for one symbol into a ValidatedSignal.
// Returns nil when no signals contribute.
func (v *Validator) Validate(symbol string, signals []core.RawSignal) *core.ValidatedSignal {
	if len(signals) == 0 {
		return nil
	}

	now := v.now()

	var weightedSum, weightTotal float64
	sentiments := make([]float64, 0, len(signals))
	sourceSet := make(map[string]struct{})
	var earliest, latest time.Time

	flags := core.ValidationFlags{}

	for _, s := range signals {
		s = s.Clamped()
		p := v.profile(s.Source)

		sourceWeight := p.BaseWeight * p.Reliability * (s.Confidence / 100)
		ageHours := now.Sub(s.ObservedAt).Hours()
		if ageHours < 0 {
			ageHours = 0
		}
		timeWeight := math.Exp(-ageHours * p.TimeDecay / 24)

		w := sourceWeight * timeWeight
		weightedSum += s.Confidence * w
		weightTotal += w

		sentiments = append(sentiments, s.Sentiment)
		sourceSet[s.Source] = struct{}{}

		if earliest.IsZero() || s.ObservedAt.Before(earliest) {
			earliest = s.ObservedAt
		}
		if latest.IsZero() || s.ObservedAt.After(latest) {
			latest = s.ObservedAt
		}

		if p.Insider {
			flags.InsiderActivity = true
		}
		if ratio, ok := s.MetaFloat("volume_ratio"); ok && ratio >= 2 {
			flags.VolumeConfirmation = true
		}
		if p.MarketData && s.Confidence >= v.cfg.ConflictConfidenceFloor {
			flags.TechnicalConfirmation = true
		}
	}

	overall := 0.0
	if weightTotal > 0 {
		overall = core.ClampConfidence(weightedSum / weightTotal)
	}

	flags.MultipleSourcesConfirm = len(sourceSet) >= 2
	flags.SentimentAlignment = v.sentimentAligned(sentiments)
	flags.TemporalAlignment = len(signals) < 2 || latest.Sub(earliest) <= v.cfg.TemporalWindow

	conflicts := v.detectConflicts(signals)

	risk := v.riskLevel(overall, len(sourceSet), len(conflicts))
	rec := v.recommend(overall, risk, flags.SentimentAlignment)

	sources := make([]string, 0, len(sourceSet))
	for s := range sourceSet {
		sources = append(sources, s)
	}
	sort.Strings(sources)

	return &core.ValidatedSignal{
		Symbol:             symbol,
		OverallConfidence:  overall,
		Flags:              flags,
		RiskLevel:          risk,
		Recommendation:     rec,
		ConflictingSignals: conflicts,
		Sources:            sources,
		SignalCount:        len(signals),
		Summary:            summarize(symbol, len(signals), sources, sentiments),
		ComputedAt:         now,
	}
}

// sentimentAligned checks population variance against the ceiling.
// Vacuously true with fewer than 2 signals.
func (v *Validator) sentimentAligned(sentiments []float64) bool {
	if len(sentiments) < 2 {
		return true
	}
	variance, err := stats.PopulationVariance(stats.Float64Data(sentiments))
	if err != nil {
		return true
	}
	return variance < v.cfg.SentimentVarianceMax
}

// detectConflicts flags two conflict modes: opposing high-confidence
// sentiment camps, and social sentiment diverging from filings and
// market-data sentiment.
func (v *Validator) detectConflicts(signals []core.RawSignal) []string {
	var conflicts []string

	var bullish, bearish int
	var socialSent, hardSent []float64

	for _, s := range signals {
		s = s.Clamped()
		if s.Confidence > v.cfg.ConflictConfidenceFloor {
			if s.Sentiment > 0.6 {
				bullish++
			} else if s.Sentiment < 0.4 {
				bearish++
			}
		}

		p := v.profile(s.Source)
		if p.Social {
			socialSent = append(socialSent, s.Sentiment)
		} else if p.Insider || p.MarketData {
			hardSent = append(hardSent, s.Sentiment)
		}
	}

	if bullish > 0 && bearish > 0 {
		conflicts = append(conflicts,
			fmt.Sprintf("high-confidence signals disagree: %d bullish vs %d bearish", bullish, bearish))
	}

	if len(socialSent) > 0 && len(hardSent) > 0 {
		socialMean, _ := stats.Mean(stats.Float64Data(socialSent))
		hardMean, _ := stats.Mean(stats.Float64Data(hardSent))
		if math.Abs(socialMean-hardMean) > v.cfg.ConflictSentimentGap {
			conflicts = append(conflicts,
				fmt.Sprintf("social sentiment %.2f diverges from filings/market sentiment %.2f", socialMean, hardMean))
		}
	}

	return conflicts
}

func (v *Validator) riskLevel(overall float64, sourceCount, conflictCount int) core.RiskLevel {
	if conflictCount > 0 || sourceCount <= 1 || overall < 60 {
		return core.RiskHigh
	}
	if overall > 80 && sourceCount >= 3 {
		return core.RiskLow
	}
	return core.RiskMedium
}

func (v *Validator) recommend(overall float64, risk core.RiskLevel, sentimentAligned bool) core.Action {
	switch {
	case risk == core.RiskHigh:
		return core.ActionAvoid
	case !sentimentAligned:
		return core.ActionWatch
	case overall >= 85 && risk == core.RiskLow:
		return core.ActionStrongBuy
	case overall >= 70:
		return core.ActionBuy
	default:
		return core.ActionWatch
	}
}

// summarize produces the deterministic templated sentence. No free-form
// generation here; narrative text belongs to the external LLM
// collaborator.
func summarize(symbol string, count int, sources []string, sentiments []float64) string {
	mean, err := stats.Mean(stats.Float64Data(sentiments))
	if err != nil {
		mean = 0.5
	}

	tone := "mixed"
	if mean >= 0.6 {
		tone = "bullish"
	} else if mean <= 0.4 {
		tone = "bearish"
	}

	return fmt.Sprintf("%s: %d signal(s) from %d source(s) [%s], dominant sentiment %s",
		symbol, count, len(sources), strings.Join(sources, ", "), tone)
}
