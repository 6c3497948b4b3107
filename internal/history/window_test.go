package history

import (
	"testing"
	"time"

	"github.com/citizenmundane/valker-app-sub000/internal/core"
)

func raw(symbol string, age time.Duration) core.RawSignal {
	return core.RawSignal{
		Source:     "social_x",
		Symbol:     symbol,
		Confidence: 70,
		Sentiment:  0.6,
		ObservedAt: time.Now().Add(-age),
	}
}

func TestWindow_AppendAndBySymbol(t *testing.T) {
	w := NewWindow(7*24*time.Hour, 100)

	w.Append(raw("GME", time.Hour), raw("GME", 2*time.Hour), raw("AMC", time.Hour))

	got := w.BySymbol("GME")
	if len(got) != 2 {
		t.Errorf("expected 2 GME signals, got %d", len(got))
	}
	if len(w.BySymbol("TSLA")) != 0 {
		t.Error("expected no TSLA signals")
	}
}

func TestWindow_ClampsOnAppend(t *testing.T) {
	w := NewWindow(7*24*time.Hour, 100)

	s := raw("GME", time.Hour)
	s.Confidence = 250
	s.Sentiment = 1.9
	w.Append(s)

	got := w.BySymbol("GME")
	if len(got) != 1 {
		t.Fatalf("expected 1 signal, got %d", len(got))
	}
	if got[0].Confidence != 100 || got[0].Sentiment != 1.0 {
		t.Errorf("expected clamped values, got conf=%f sent=%f", got[0].Confidence, got[0].Sentiment)
	}
}

func TestWindow_ExpiresOldSignals(t *testing.T) {
	w := NewWindow(7*24*time.Hour, 100)

	w.Append(raw("GME", 8*24*time.Hour), raw("GME", time.Hour))

	got := w.BySymbol("GME")
	if len(got) != 1 {
		t.Errorf("expected 1 unexpired signal, got %d", len(got))
	}
}

func TestWindow_Prune(t *testing.T) {
	w := NewWindow(7*24*time.Hour, 100)
	w.now = time.Now

	w.Append(raw("GME", time.Hour))

	// Shift the clock 8 days forward; everything expires.
	w.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }

	dropped := w.Prune()
	if dropped != 1 {
		t.Errorf("expected 1 dropped, got %d", dropped)
	}
	if w.Len() != 0 {
		t.Errorf("expected empty window, got %d", w.Len())
	}
}

func TestWindow_CapacityCap(t *testing.T) {
	w := NewWindow(7*24*time.Hour, 2)

	w.Append(raw("A", 3*time.Hour), raw("B", 2*time.Hour), raw("C", time.Hour))

	if w.Len() != 2 {
		t.Errorf("expected capacity cap at 2, got %d", w.Len())
	}
	if len(w.BySymbol("A")) != 0 {
		t.Error("expected oldest signal dropped")
	}
}

func TestWindow_Symbols(t *testing.T) {
	w := NewWindow(7*24*time.Hour, 100)
	w.Append(raw("GME", time.Hour), raw("GME", 2*time.Hour), raw("AMC", time.Hour))

	symbols := w.Symbols()
	if len(symbols) != 2 {
		t.Errorf("expected 2 distinct symbols, got %d", len(symbols))
	}
}
