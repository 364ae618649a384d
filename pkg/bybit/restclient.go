package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
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

func (c *RESTClient) HTTPClient() *http.Client {
	return c.httpClient
}

// GetSpotSymbols returns every spot symbol currently open for trading.
func (c *RESTClient) GetSpotSymbols(ctx context.Context) ([]string, error) {
	var symbols []string
	cursor := ""

	// Walk every page until Bybit stops returning a cursor
	for {
		page, err := c.getInstruments(ctx, CategorySpot, cursor)
		if err != nil {
			return nil, err
		}
		for _, inst := range page.List {
			if inst.Status == "" || inst.Status == StatusTrading {
				symbols = append(symbols, inst.Symbol)
			}
		}
		if page.NextPageCursor == "" || page.NextPageCursor == cursor {
			break
		}
		cursor = page.NextPageCursor
	}

	return symbols, nil
}

func (c *RESTClient) getInstruments(ctx context.Context, category, cursor string) (*InstrumentListResponse, error) {
	// Construct the GET request with query parameters
	q := url.Values{}
	q.Set("category", category)
	q.Set("limit", "1000")
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	endpoint := c.baseURL + "/v5/market/instruments-info?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	// Execute the request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	// Check HTTP status code
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("bybit error: status %d: %s", resp.StatusCode, body)
	}

	// Decode the envelope, then the endpoint-specific result
	var rawResp BybitResponse
	if err := json.NewDecoder(resp.Body).Decode(&rawResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if rawResp.RetCode != 0 {
		return nil, fmt.Errorf("bybit error: retCode %d: %s", rawResp.RetCode, rawResp.RetMsg)
	}

	var result InstrumentListResponse
	if err := json.Unmarshal(rawResp.Result, &result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &result, nil
}
