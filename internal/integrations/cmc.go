package integrations

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const quotesLatestPath = "/v1/cryptocurrency/quotes/latest"

// CMCClient fetches spot quotes from the CoinMarketCap API.
type CMCClient struct {
	http *resty.Client
}

// cmcQuotesResponse mirrors the subset of the quotes/latest payload we read.
type cmcQuotesResponse struct {
	Status struct {
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
	Data map[string]struct {
		Quote map[string]struct {
			Price float64 `json:"price"`
		} `json:"quote"`
	} `json:"data"`
}

// NewCMCClient creates a client authenticated with apiKey against baseURL.
func NewCMCClient(apiKey, baseURL string) *CMCClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("X-CMC_PRO_API_KEY", apiKey).
		SetHeader("Accept", "application/json").
		SetTimeout(10 * time.Second)

	return &CMCClient{http: client}
}

// Quotes returns the current USD price per symbol. Symbols the upstream
// omits are absent from the result; completeness checks are the caller's.
func (c *CMCClient) Quotes(ctx context.Context, symbols []string) (map[string]float64, error) {
	var out cmcQuotesResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol":  strings.Join(symbols, ","),
			"convert": "USD",
		}).
		SetResult(&out).
		Get(quotesLatestPath)
	if err != nil {
		return nil, fmt.Errorf("cmc request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("cmc returned status %d: %s", resp.StatusCode(), out.Status.ErrorMessage)
	}
	if out.Status.ErrorCode != 0 {
		return nil, fmt.Errorf("cmc error %d: %s", out.Status.ErrorCode, out.Status.ErrorMessage)
	}

	quotes := make(map[string]float64, len(out.Data))
	for symbol, data := range out.Data {
		usd, ok := data.Quote["USD"]
		if !ok {
			continue
		}
		quotes[symbol] = usd.Price
	}
	return quotes, nil
}
