package services

import (
	"context"
	"errors"
	"testing"
)

type stubQuoteClient struct {
	quotes map[string]float64
	err    error
}

func (c *stubQuoteClient) Quotes(ctx context.Context, symbols []string) (map[string]float64, error) {
	return c.quotes, c.err
}

func fullQuotes() map[string]float64 {
	return map[string]float64{"BTC": 67000.5, "ETH": 3200.25, "SOL": 145.75}
}

func TestSnapshot_UnavailableBeforeFirstRefresh(t *testing.T) {
	svc := NewPriceService(&stubQuoteClient{quotes: fullQuotes()})

	if _, ok := svc.Snapshot(); ok {
		t.Error("expected no snapshot before the first refresh")
	}
}

func TestRefresh_StoresCompleteSnapshot(t *testing.T) {
	svc := NewPriceService(&stubQuoteClient{quotes: fullQuotes()})

	svc.Refresh(context.Background())

	snap, ok := svc.Snapshot()
	if !ok {
		t.Fatal("expected snapshot after successful refresh")
	}
	for symbol, want := range fullQuotes() {
		if got := snap.Prices[symbol]; got != want {
			t.Errorf("%s: expected %v, got %v", symbol, want, got)
		}
	}
	if snap.LastUpdated.IsZero() {
		t.Error("expected LastUpdated to be set")
	}
}

func TestRefresh_RejectsIncompleteResponse(t *testing.T) {
	client := &stubQuoteClient{quotes: fullQuotes()}
	svc := NewPriceService(client)
	svc.Refresh(context.Background())
	before, _ := svc.Snapshot()

	// SOL missing: the previous snapshot must survive untouched.
	client.quotes = map[string]float64{"BTC": 1, "ETH": 2}
	svc.Refresh(context.Background())

	after, ok := svc.Snapshot()
	if !ok {
		t.Fatal("expected snapshot to remain available")
	}
	if after.Prices["BTC"] != before.Prices["BTC"] || !after.LastUpdated.Equal(before.LastUpdated) {
		t.Errorf("snapshot changed after incomplete refresh: %+v -> %+v", before, after)
	}
}

func TestRefresh_IncompleteNeverPopulatesFirstSnapshot(t *testing.T) {
	svc := NewPriceService(&stubQuoteClient{quotes: map[string]float64{"BTC": 1, "ETH": 2}})

	svc.Refresh(context.Background())

	if _, ok := svc.Snapshot(); ok {
		t.Error("a partially populated snapshot must never be served")
	}
}

func TestRefresh_ErrorKeepsPreviousSnapshot(t *testing.T) {
	client := &stubQuoteClient{quotes: fullQuotes()}
	svc := NewPriceService(client)
	svc.Refresh(context.Background())
	before, _ := svc.Snapshot()

	client.quotes = nil
	client.err = errors.New("network down")
	svc.Refresh(context.Background())

	after, ok := svc.Snapshot()
	if !ok || after.Prices["ETH"] != before.Prices["ETH"] {
		t.Errorf("expected previous snapshot to survive a failed refresh, got ok=%v %+v", ok, after)
	}
}
