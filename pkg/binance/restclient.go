package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type RESTClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewRESTClient(baseURL string, timeout time.Duration) *RESTClient {
	return &RESTClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetSpotSymbols returns every spot symbol with status TRADING.
func (c *RESTClient) GetSpotSymbols(ctx context.Context) ([]string, error) {
	endpoint := c.baseURL + "/api/v3/exchangeInfo?permissions=SPOT"

	// Construct the GET request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	// Check HTTP status code; 4xx bodies carry {code, msg}
	if resp.StatusCode != http.StatusOK {
		var apiErr ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return nil, fmt.Errorf("binance error: status %d: code %d: %s", resp.StatusCode, apiErr.Code, apiErr.Msg)
	}

	var info ExchangeInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	// Keep only symbols open for trading
	symbols := make([]string, 0, len(info.Symbols))
	for _, s := range info.Symbols {
		if s.Status == StatusTrading {
			symbols = append(symbols, s.Symbol)
		}
	}
	return symbols, nil
}
