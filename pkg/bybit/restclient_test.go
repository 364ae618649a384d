package bybit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// go test -v --run TestGetSpotSymbols
func TestGetSpotSymbols(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v5/market/instruments-info" || r.URL.Query().Get("category") != "spot" {
			t.Errorf("unexpected request: %s", r.URL.String())
		}
		switch r.URL.Query().Get("cursor") {
		case "":
			_, _ = w.Write([]byte(`{"retCode":0,"retMsg":"OK","result":{"category":"spot","nextPageCursor":"p2","list":[
				{"symbol":"BTCUSDT","baseCoin":"BTC","quoteCoin":"USDT","status":"Trading"},
				{"symbol":"OLDUSDT","baseCoin":"OLD","quoteCoin":"USDT","status":"Closed"}]}}`))
		case "p2":
			_, _ = w.Write([]byte(`{"retCode":0,"retMsg":"OK","result":{"category":"spot","nextPageCursor":"","list":[
				{"symbol":"ETHBTC","baseCoin":"ETH","quoteCoin":"BTC","status":"Trading"}]}}`))
		}
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL, 5*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	symbols, err := client.GetSpotSymbols(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(symbols) != 2 || symbols[0] != "BTCUSDT" || symbols[1] != "ETHBTC" {
		t.Fatalf("symbols = %v, want [BTCUSDT ETHBTC]", symbols)
	}
}

// go test -v --run TestGetSpotSymbolsRetCode
func TestGetSpotSymbolsRetCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"retCode":10001,"retMsg":"params error","result":{}}`))
	}))
	defer srv.Close()

	_, err := NewRESTClient(srv.URL, 5*time.Second).GetSpotSymbols(context.Background())
	if err == nil {
		t.Fatal("expected error for non-zero retCode")
	}
}

// go test -v --run TestParseLevels
func TestParseLevels(t *testing.T) {
	levels, err := ParseLevels([][]string{{"100.5", "2"}, {"99", "0"}})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if levels[100.5] != 2 {
		t.Errorf("level 100.5 = %v, want 2", levels[100.5])
	}
	if v, ok := levels[99]; !ok || v != 0 {
		t.Errorf("zero-size level must be kept, got %v %v", v, ok)
	}

	if _, err := ParseLevels([][]string{{"abc", "1"}}); err == nil {
		t.Error("expected error for bad price")
	}
	if _, err := ParseLevels([][]string{{"1"}}); err == nil {
		t.Error("expected error for short row")
	}
}

// go test -v --run TestOrderbookTopic
func TestOrderbookTopic(t *testing.T) {
	topic := OrderbookTopic(Depth50, "BTCUSDT")
	if topic != "orderbook.50.BTCUSDT" {
		t.Fatalf("topic = %q", topic)
	}
	if !IsOrderbookTopic(topic) || SymbolFromTopic(topic) != "BTCUSDT" {
		t.Error("topic round trip failed")
	}
	if _, err := ParseOrderbookDepth(7); err == nil {
		t.Error("depth 7 should be rejected")
	}
}
