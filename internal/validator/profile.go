package validator

// Profile holds the fixed weighting constants for one source. Sources
// differ widely: filing-based sources decay slowly and carry high
// reliability, social sources decay fast and carry less.
type Profile struct {
	BaseWeight  float64
	Reliability float64
	TimeDecay   float64 // per-24h exponential decay rate

	// Source class flags used by validation flags and conflict
	// detection.
	Social     bool
	Insider    bool
	MarketData bool
}

// fallbackProfile is used for sources absent from the table.
var fallbackProfile = Profile{
	BaseWeight:  0.5,
	Reliability: 0.5,
	TimeDecay:   1.5,
}

// DefaultProfiles returns the production source table.
func DefaultProfiles() map[string]Profile {
	return map[string]Profile{
		"social_x": {
			BaseWeight:  1.0,
			Reliability: 0.6,
			TimeDecay:   2.0,
			Social:      true,
		},
		"trend_index": {
			BaseWeight:  0.8,
			Reliability: 0.7,
			TimeDecay:   1.5,
			Social:      true,
		},
		"market_scan": {
			BaseWeight:  1.2,
			Reliability: 0.85,
			TimeDecay:   1.0,
			MarketData:  true,
		},
		"insider_filings": {
			BaseWeight:  1.5,
			Reliability: 0.95,
			TimeDecay:   0.25,
			Insider:     true,
		},
	}
}
