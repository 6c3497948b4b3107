package core

import "time"

// AssetKind represents the class of a tracked symbol
type AssetKind string

const (
	KindEquity AssetKind = "equity"
	KindCrypto AssetKind = "crypto"
)

// Status represents the disposition of a pending asset
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Recommendation is the score-derived tier of a tracked entity
type Recommendation string

const (
	RecBuyAndHold     Recommendation = "buy_and_hold"
	RecShortTermWatch Recommendation = "short_term_watch"
	RecOnWatch        Recommendation = "on_watch"
)

// RecommendationForScore maps a total score (0-9) to its tier.
func RecommendationForScore(total int) Recommendation {
	switch {
	case total >= 7:
		return RecBuyAndHold
	case total >= 5:
		return RecShortTermWatch
	default:
		return RecOnWatch
	}
}

// RiskLevel classifies cross-source validation risk
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Action is the cross-source validation verdict for a symbol
type Action string

const (
	ActionStrongBuy Action = "strong_buy"
	ActionBuy       Action = "buy"
	ActionWatch     Action = "watch"
	ActionAvoid     Action = "avoid"
)

// Visibility controls whether a confirmed asset appears in listings
type Visibility string

const (
	VisibilityVisible Visibility = "visible"
	VisibilityHidden  Visibility = "hidden"
)

// ClampConfidence forces a confidence value into [0, 100].
func ClampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ClampSentiment forces a sentiment value into [0, 1].
func ClampSentiment(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// RawSignal is one source's timestamped observation about one symbol.
// Immutable once created; retained only for a rolling window.
type RawSignal struct {
	Source     string
	Symbol     string
	Kind       AssetKind
	Confidence float64 // 0-100
	Sentiment  float64 // 0-1, 0.5 neutral
	ObservedAt time.Time
	Metadata   map[string]any
}

// Clamped returns a copy with confidence and sentiment forced into range.
func (s RawSignal) Clamped() RawSignal {
	s.Confidence = ClampConfidence(s.Confidence)
	s.Sentiment = ClampSentiment(s.Sentiment)
	return s
}

// IsValid checks the fields required before a signal may enter the pipeline.
func (s RawSignal) IsValid() bool {
	return s.Source != "" && s.Symbol != "" && !s.ObservedAt.IsZero()
}

// MetaFloat reads a numeric metadata value.
func (s RawSignal) MetaFloat(key string) (float64, bool) {
	v, ok := s.Metadata[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// MetaBool reads a boolean metadata value.
func (s RawSignal) MetaBool(key string) bool {
	v, ok := s.Metadata[key]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// CandidateSignal is a RawSignal after quality derivation.
type CandidateSignal struct {
	RawSignal

	MemeScore      int // 0-4
	PoliticalScore int // 0-3
	EarningsScore  int // 0-2
	UnusualVolume  bool
	PoliticalTrade bool
	EarningsBased  bool
	Summary        string
}

// TypeCount returns how many distinct signal types the candidate carries.
func (c CandidateSignal) TypeCount() int {
	n := 0
	if c.MemeScore >= 2 {
		n++
	}
	if c.PoliticalScore >= 1 {
		n++
	}
	if c.EarningsScore >= 1 {
		n++
	}
	return n
}

// TotalScore is the sum of the three sub-scores (0-9).
func (c CandidateSignal) TotalScore() int {
	return c.MemeScore + c.PoliticalScore + c.EarningsScore
}

// Scorecard is the retention-relevant view shared by pending and
// confirmed entities.
type Scorecard struct {
	MemeScore      int
	SourceCount    int
	UnusualVolume  bool
	PoliticalTrade bool
	EarningsBased  bool
	Recommendation Recommendation
}

// PendingAsset is a symbol awaiting approve/reject disposition.
type PendingAsset struct {
	ID             string
	Symbol         string
	Kind           AssetKind
	MemeScore      int
	PoliticalScore int
	EarningsScore  int
	TotalScore     int
	Recommendation Recommendation
	Sources        []string
	UnusualVolume  bool
	PoliticalTrade bool
	EarningsBased  bool
	Confidence     float64 // provenance confidence, 0-100
	Summary        string
	DiscoveredAt   time.Time
	Status         Status
}

// Recompute refreshes the derived total score and recommendation.
// Must be called after any score mutation.
func (p *PendingAsset) Recompute() {
	p.TotalScore = p.MemeScore + p.PoliticalScore + p.EarningsScore
	p.Recommendation = RecommendationForScore(p.TotalScore)
}

// Live reports whether the entity still occupies its symbol slot.
func (p *PendingAsset) Live() bool {
	return p.Status == StatusPending
}

// Scorecard returns the retention view of the pending asset.
func (p *PendingAsset) Scorecard() Scorecard {
	return Scorecard{
		MemeScore:      p.MemeScore,
		SourceCount:    len(p.Sources),
		UnusualVolume:  p.UnusualVolume,
		PoliticalTrade: p.PoliticalTrade,
		EarningsBased:  p.EarningsBased,
		Recommendation: p.Recommendation,
	}
}

// Asset is a confirmed symbol under active tracking.
type Asset struct {
	ID             string
	Symbol         string
	Kind           AssetKind
	MemeScore      int
	PoliticalScore int
	EarningsScore  int
	TotalScore     int
	Recommendation Recommendation
	Sources        []string
	UnusualVolume  bool
	PoliticalTrade bool
	EarningsBased  bool
	Confidence     float64
	AlertSent      bool
	Visibility     Visibility

	// Live-price fields, populated by an external quote collaborator.
	Price          float64
	PriceChangePct float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Recompute refreshes the derived total score and recommendation.
func (a *Asset) Recompute() {
	a.TotalScore = a.MemeScore + a.PoliticalScore + a.EarningsScore
	a.Recommendation = RecommendationForScore(a.TotalScore)
}

// Scorecard returns the retention view of the asset.
func (a *Asset) Scorecard() Scorecard {
	return Scorecard{
		MemeScore:      a.MemeScore,
		SourceCount:    len(a.Sources),
		UnusualVolume:  a.UnusualVolume,
		PoliticalTrade: a.PoliticalTrade,
		EarningsBased:  a.EarningsBased,
		Recommendation: a.Recommendation,
	}
}

// ValidationFlags are the boolean checks of a cross-source validation.
type ValidationFlags struct {
	MultipleSourcesConfirm bool
	SentimentAlignment     bool
	TemporalAlignment      bool
	InsiderActivity        bool
	VolumeConfirmation     bool
	TechnicalConfirmation  bool
}

// ValidatedSignal is the ephemeral cross-source aggregate view for one
// symbol. Recomputed on demand, never persisted or mutated.
type ValidatedSignal struct {
	Symbol             string
	OverallConfidence  float64 // 0-100
	Flags              ValidationFlags
	RiskLevel          RiskLevel
	Recommendation     Action
	ConflictingSignals []string
	Sources            []string
	SignalCount        int
	Summary            string
	ComputedAt         time.Time
}
