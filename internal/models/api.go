package models

// --- Chat Proxy DTOs ---

// ChatRequest is the body of POST /proxy/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is returned after a successful completion. SessionID echoes
// the session the transcript was extended under (the caller-supplied
// session-id header, or the default key).
type ChatResponse struct {
	SessionID string  `json:"sessionId"`
	Message   Message `json:"message"`
}

// --- Price Proxy DTOs ---

// PricesResponse is the body of GET /proxy/cmc/prices.
type PricesResponse struct {
	BTCPrice    float64 `json:"btcPrice"`
	ETHPrice    float64 `json:"ethPrice"`
	SOLPrice    float64 `json:"solPrice"`
	LastUpdated string  `json:"lastUpdated"` // RFC3339, time of last successful refresh
}

// --- Common ---

// ErrorResponse is the standard error body for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}
