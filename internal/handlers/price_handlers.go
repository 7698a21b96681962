package handlers

import (
	"net/http"
	"time"

	"coinchat-backend/internal/models"
	"coinchat-backend/internal/services"
	"coinchat-backend/pkg/httputil"
)

// PriceHandlers handles HTTP requests for the cached price proxy.
type PriceHandlers struct {
	priceService *services.PriceService
}

// NewPriceHandlers creates a new PriceHandlers instance.
func NewPriceHandlers(priceService *services.PriceService) *PriceHandlers {
	return &PriceHandlers{priceService: priceService}
}

// HandleGetPrices handles GET /proxy/cmc/prices. It serves the latest cached
// snapshot, or 503 until the first refresh has completed.
func (h *PriceHandlers) HandleGetPrices(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.priceService.Snapshot()
	if !ok {
		httputil.RespondError(w, http.StatusServiceUnavailable, "price data not available yet")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.PricesResponse{
		BTCPrice:    snap.Prices["BTC"],
		ETHPrice:    snap.Prices["ETH"],
		SOLPrice:    snap.Prices["SOL"],
		LastUpdated: snap.LastUpdated.UTC().Format(time.RFC3339),
	})
}
