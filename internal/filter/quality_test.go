package filter

import (
	"testing"
	"time"

	"github.com/citizenmundane/valker-app-sub000/internal/core"
)

func rawSignal(source string, kind core.AssetKind, confidence float64, meta map[string]any) core.RawSignal {
	return core.RawSignal{
		Source:     source,
		Symbol:     "GME",
		Kind:       kind,
		Confidence: confidence,
		Sentiment:  0.8,
		ObservedAt: time.Now(),
		Metadata:   meta,
	}
}

func socialFloors() map[string]SourceFloor {
	return map[string]SourceFloor{
		"social_x": {HighNoise: true, MentionFloorEquity: 10, MentionFloorCrypto: 5},
	}
}

func TestDerive_MemeScore(t *testing.T) {
	c := Derive(rawSignal("social_x", core.KindEquity, 90, map[string]any{
		"mentions":     60.0,
		"volume_ratio": 2.5,
	}))

	// mentions>=50 (+2), sentiment 0.8 (+1), volume ratio >=2 (+1)
	if c.MemeScore != 4 {
		t.Errorf("expected meme score 4, got %d", c.MemeScore)
	}
	if !c.UnusualVolume {
		t.Error("expected unusual volume flag")
	}
}

func TestDerive_PoliticalAndEarnings(t *testing.T) {
	c := Derive(rawSignal("insider_filings", core.KindEquity, 80, map[string]any{
		"political_trades": 2,
		"days_to_earnings": 2.0,
	}))

	if c.PoliticalScore != 2 {
		t.Errorf("expected political score 2, got %d", c.PoliticalScore)
	}
	if !c.PoliticalTrade {
		t.Error("expected political trade flag")
	}
	if c.EarningsScore != 2 {
		t.Errorf("expected earnings score 2, got %d", c.EarningsScore)
	}
	if !c.EarningsBased {
		t.Error("expected earnings flag")
	}
}

func TestDerive_ClampsInput(t *testing.T) {
	raw := rawSignal("social_x", core.KindEquity, 130, nil)
	raw.Sentiment = -0.5

	c := Derive(raw)
	if c.Confidence != 100 || c.Sentiment != 0 {
		t.Errorf("expected clamped values, got conf=%f sent=%f", c.Confidence, c.Sentiment)
	}
}

func TestDerive_Summary(t *testing.T) {
	c := Derive(rawSignal("social_x", core.KindEquity, 90, map[string]any{"mentions": 60.0}))
	want := "GME via social_x: meme 3/4, political 0/3, earnings 0/2, bullish sentiment"
	if c.Summary != want {
		t.Errorf("unexpected summary: %s", c.Summary)
	}
}

// Single strong meme signal passes even with only one type present.
func TestAccept_StrongMemeExemption(t *testing.T) {
	f := New(DefaultConfig(), socialFloors())

	c := Derive(rawSignal("social_x", core.KindEquity, 90, map[string]any{
		"mentions": 60.0,
	}))
	if c.TypeCount() != 1 {
		t.Fatalf("expected 1 type, got %d", c.TypeCount())
	}
	if !f.Accept(c) {
		t.Error("expected strong meme signal to pass")
	}
}

func TestAccept_RejectsSingleWeakType(t *testing.T) {
	f := New(DefaultConfig(), socialFloors())

	// One weak earnings type, nothing else, moderate confidence.
	c := Derive(rawSignal("market_scan", core.KindEquity, 70, map[string]any{
		"days_to_earnings": 10.0,
	}))
	c.EarningsBased = false // strip the flag to isolate the diversity rule
	c.EarningsScore = 0

	if f.Accept(c) {
		t.Error("expected rejection with no qualifying types")
	}
}

func TestAccept_HighConfidenceException(t *testing.T) {
	f := New(DefaultConfig(), nil)

	c := Derive(rawSignal("market_scan", core.KindEquity, 92, nil))
	if c.TypeCount() != 0 {
		t.Fatalf("expected 0 types, got %d", c.TypeCount())
	}
	if !f.Accept(c) {
		t.Error("expected very-high-confidence signal to pass")
	}
}

func TestAccept_MentionFloorByKind(t *testing.T) {
	f := New(DefaultConfig(), socialFloors())

	equity := Derive(rawSignal("social_x", core.KindEquity, 90, map[string]any{
		"mentions": 7.0, "volume_ratio": 2.5,
	}))
	if f.Accept(equity) {
		t.Error("expected equity below mention floor to be rejected")
	}

	crypto := Derive(rawSignal("social_x", core.KindCrypto, 90, map[string]any{
		"mentions": 7.0, "volume_ratio": 2.5,
	}))
	if !f.Accept(crypto) {
		t.Error("expected crypto above its lower mention floor to pass")
	}
}

func TestAccept_HighNoiseNeedsSubstance(t *testing.T) {
	f := New(DefaultConfig(), socialFloors())

	// Clears the mention floor but carries only a weak meme score and no
	// other sub-scores.
	c := core.CandidateSignal{
		RawSignal: rawSignal("social_x", core.KindEquity, 90, map[string]any{
			"mentions": 30.0,
		}),
		MemeScore:     1,
		UnusualVolume: true, // exempts the type rule, not the source floor
	}

	if f.Accept(c) {
		t.Error("expected high-noise source with weak scores to be rejected")
	}
}

func TestAccept_GlobalConfidenceFloor(t *testing.T) {
	f := New(DefaultConfig(), nil)

	c := Derive(rawSignal("market_scan", core.KindEquity, 55, map[string]any{
		"mentions": 60.0, "political_trades": 2,
	}))
	if f.Accept(c) {
		t.Error("expected rejection below global confidence floor")
	}
}

func TestAccept_UnknownSourceUsesGeneralFloorOnly(t *testing.T) {
	f := New(DefaultConfig(), socialFloors())

	// Unknown source, low mentions, but two types and decent confidence.
	c := Derive(rawSignal("mystery_feed", core.KindEquity, 75, map[string]any{
		"mentions": 1.0, "political_trades": 1, "days_to_earnings": 5.0,
	}))
	if !f.Accept(c) {
		t.Error("expected unknown source to bypass mention floors")
	}
}
