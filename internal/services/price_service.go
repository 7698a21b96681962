package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"coinchat-backend/internal/metrics"
)

// WatchedSymbols is the fixed set of assets the price cache tracks.
var WatchedSymbols = []string{"BTC", "ETH", "SOL"}

// QuoteClient fetches current USD prices for a set of symbols from the
// upstream quote API. Symbols missing from the upstream response are simply
// absent from the returned map.
type QuoteClient interface {
	Quotes(ctx context.Context, symbols []string) (map[string]float64, error)
}

// PriceSnapshot is the latest complete set of polled prices plus the time
// it was fetched.
type PriceSnapshot struct {
	Prices      map[string]float64
	LastUpdated time.Time
}

// PriceService keeps a process-wide snapshot of spot prices, refreshed on a
// fixed schedule. The snapshot is replaced wholesale on every successful
// poll; a failed or incomplete poll leaves the previous snapshot untouched,
// so readers only ever observe fully-populated data.
type PriceService struct {
	client QuoteClient
	cron   *cron.Cron

	mu       sync.RWMutex
	snapshot *PriceSnapshot // nil until the first successful refresh
}

// NewPriceService creates a new PriceService.
func NewPriceService(client QuoteClient) *PriceService {
	return &PriceService{
		client: client,
		cron:   cron.New(),
	}
}

// Start kicks off an immediate refresh and schedules one every interval.
// Refresh failures are logged, never fatal.
func (s *PriceService) Start(interval time.Duration) error {
	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		s.Refresh(context.Background())
	}); err != nil {
		return fmt.Errorf("failed to schedule price refresh: %w", err)
	}

	go s.Refresh(context.Background())
	s.cron.Start()
	return nil
}

// Stop halts the refresh schedule. In-flight refreshes finish on their own.
func (s *PriceService) Stop() {
	s.cron.Stop()
}

// Refresh performs one poll of the quote API. The snapshot is swapped only
// when every watched symbol is present in the response.
func (s *PriceService) Refresh(ctx context.Context) {
	quotes, err := s.client.Quotes(ctx, WatchedSymbols)
	if err != nil {
		metrics.PriceRefreshes.WithLabelValues("error").Inc()
		log.Printf("Price refresh failed, keeping previous snapshot: %v", err)
		return
	}

	prices := make(map[string]float64, len(WatchedSymbols))
	for _, symbol := range WatchedSymbols {
		price, ok := quotes[symbol]
		if !ok {
			metrics.PriceRefreshes.WithLabelValues("incomplete").Inc()
			log.Printf("Price refresh returned no quote for %s, keeping previous snapshot", symbol)
			return
		}
		prices[symbol] = price
	}

	s.mu.Lock()
	s.snapshot = &PriceSnapshot{Prices: prices, LastUpdated: time.Now()}
	s.mu.Unlock()
	metrics.PriceRefreshes.WithLabelValues("ok").Inc()
}

// Snapshot returns the latest snapshot. ok is false until the first
// successful refresh; after that the snapshot is always served, however
// stale.
func (s *PriceService) Snapshot() (PriceSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return PriceSnapshot{}, false
	}
	return *s.snapshot, true
}
