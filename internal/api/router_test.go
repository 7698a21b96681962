package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"coinchat-backend/internal/config"
	"coinchat-backend/internal/handlers"
	"coinchat-backend/internal/models"
	"coinchat-backend/internal/services"
	"coinchat-backend/internal/store/memory"
)

type stubGateway struct {
	err error
}

func (g *stubGateway) Complete(ctx context.Context, transcript []models.Message) (models.Message, error) {
	if g.err != nil {
		return models.Message{}, g.err
	}
	return models.Message{
		Role:    models.RoleAssistant,
		Content: "re: " + transcript[len(transcript)-1].Content,
	}, nil
}

type stubQuoteClient struct {
	quotes map[string]float64
}

func (c *stubQuoteClient) Quotes(ctx context.Context, symbols []string) (map[string]float64, error) {
	return c.quotes, nil
}

func newTestServer(t *testing.T, gw services.CompletionGateway, quotes *services.PriceService) *httptest.Server {
	t.Helper()

	store := memory.NewStore("system prompt", 0)
	executor := services.NewInlineRetryingExecutor(gw, 1, 0)
	chatService := services.NewChatService(store, executor)

	router := NewRouter(RouterDependencies{
		ChatHandler:  handlers.NewChatHandlers(chatService),
		PriceHandler: handlers.NewPriceHandlers(quotes),
		Config:       &config.Config{MaxConcurrentRequests: 10},
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func freshPriceService() *services.PriceService {
	return services.NewPriceService(&stubQuoteClient{
		quotes: map[string]float64{"BTC": 67000.5, "ETH": 3200.25, "SOL": 145.75},
	})
}

func TestLiveness(t *testing.T) {
	srv := newTestServer(t, &stubGateway{}, freshPriceService())

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestProxyChat_Success(t *testing.T) {
	srv := newTestServer(t, &stubGateway{}, freshPriceService())

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/proxy/chat", strings.NewReader(`{"message": "balance?"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("session-id", "s1")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body models.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.SessionID != "s1" {
		t.Errorf("expected session s1, got %q", body.SessionID)
	}
	if body.Message.Role != models.RoleAssistant || body.Message.Content != "re: balance?" {
		t.Errorf("unexpected message: %+v", body.Message)
	}
}

func TestProxyChat_DefaultsSession(t *testing.T) {
	srv := newTestServer(t, &stubGateway{}, freshPriceService())

	resp, err := http.Post(srv.URL+"/proxy/chat", "application/json", strings.NewReader(`{"message": "hi"}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var body models.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.SessionID != services.DefaultSessionKey {
		t.Errorf("expected default session key, got %q", body.SessionID)
	}
}

func TestProxyChat_Validation(t *testing.T) {
	srv := newTestServer(t, &stubGateway{}, freshPriceService())

	for _, payload := range []string{`{"message": ""}`, `{"message": "   "}`, `{}`, `not json`} {
		resp, err := http.Post(srv.URL+"/proxy/chat", "application/json", strings.NewReader(payload))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("payload %q: expected 400, got %d", payload, resp.StatusCode)
		}
	}
}

func TestProxyChat_UpstreamFailureHidesDetail(t *testing.T) {
	gw := &stubGateway{err: fmt.Errorf("%w: upstream secret detail", services.ErrUpstream)}
	srv := newTestServer(t, gw, freshPriceService())

	resp, err := http.Post(srv.URL+"/proxy/chat", "application/json", strings.NewReader(`{"message": "hi"}`))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}

	var body models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if strings.Contains(body.Error, "secret detail") {
		t.Errorf("upstream detail leaked to caller: %q", body.Error)
	}
}

func TestPrices_UnavailableBeforeRefresh(t *testing.T) {
	srv := newTestServer(t, &stubGateway{}, freshPriceService())

	resp, err := http.Get(srv.URL + "/proxy/cmc/prices")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503 before first refresh, got %d", resp.StatusCode)
	}
}

func TestPrices_ServesSnapshot(t *testing.T) {
	priceService := freshPriceService()
	priceService.Refresh(context.Background())
	srv := newTestServer(t, &stubGateway{}, priceService)

	resp, err := http.Get(srv.URL + "/proxy/cmc/prices")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body models.PricesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.BTCPrice != 67000.5 || body.ETHPrice != 3200.25 || body.SOLPrice != 145.75 {
		t.Errorf("unexpected prices: %+v", body)
	}
	if body.LastUpdated == "" {
		t.Error("expected lastUpdated to be set")
	}
}
