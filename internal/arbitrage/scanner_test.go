package arbitrage

import (
	"math"
	"testing"
	"time"

	"huckster/internal/memorystore"
)

func xyzBooks(t *testing.T) *memorystore.BookStore {
	t.Helper()
	store := memorystore.NewBookStore(10, nil)
	store.CreateBooks([]string{"XYZUSDT", "XYZBTC", "BTCUSDT"})

	now := time.Now()
	store.ApplyDelta("XYZUSDT", memorystore.Delta{Timestamp: now, Asks: map[float64]float64{10.0: 5, 10.5: 1}})
	store.ApplyDelta("XYZBTC", memorystore.Delta{Timestamp: now, Bids: map[float64]float64{0.0006: 5, 0.0005: 1}})
	store.ApplyDelta("BTCUSDT", memorystore.Delta{Timestamp: now, Bids: map[float64]float64{17000: 1, 16900: 2}})
	return store
}

var xyzCoins = Coins{Stable: []string{"USDT"}, Major: []string{"BTC"}, Other: []string{"XYZ"}}

// go test -v --run TestFindAllArbitragesNoFee
func TestFindAllArbitragesNoFee(t *testing.T) {
	scanner := NewScanner(xyzCoins, xyzBooks(t), nil)

	arbs := scanner.FindAllArbitrages(0)
	if len(arbs) != 1 {
		t.Fatalf("found %d arbitrages, want 1", len(arbs))
	}
	a := arbs[0]
	if math.Abs(a.Profit-1.02) > 1e-9 {
		t.Errorf("profit = %v, want 1.02", a.Profit)
	}
	if got := a.ProfitPercentage(); got != 2.0 {
		t.Errorf("profit percentage = %v, want 2", got)
	}

	want := [3]Order{
		{Side: Buy, Symbol: "XYZUSDT", Price: 10},
		{Side: Sell, Symbol: "XYZBTC", Price: 0.0006},
		{Side: Sell, Symbol: "BTCUSDT", Price: 17000},
	}
	if a.Orders != want {
		t.Errorf("orders = %+v, want %+v", a.Orders, want)
	}
	if a.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

// go test -v --run TestFindAllArbitragesWithFee
func TestFindAllArbitragesWithFee(t *testing.T) {
	scanner := NewScanner(xyzCoins, xyzBooks(t), nil)

	if arbs := scanner.FindAllArbitrages(0.01); len(arbs) != 0 {
		t.Fatalf("expected nothing at 1%% fee, got %+v", arbs)
	}

	// sanity check on the arithmetic the scanner rejects
	profit := (1 / 10.1) * 0.000594 * 16830
	if math.Abs(profit-0.9898) > 1e-4 {
		t.Errorf("reference profit = %v", profit)
	}
}

// go test -v --run TestFindAllArbitragesMissingBook
func TestFindAllArbitragesMissingBook(t *testing.T) {
	store := memorystore.NewBookStore(10, nil)
	store.CreateBooks([]string{"XYZUSDT", "BTCUSDT"})
	store.ApplyDelta("XYZUSDT", memorystore.Delta{Timestamp: time.Now(), Asks: map[float64]float64{10: 1}})
	store.ApplyDelta("BTCUSDT", memorystore.Delta{Timestamp: time.Now(), Bids: map[float64]float64{17000: 1}})

	scanner := NewScanner(xyzCoins, store, nil)
	if arbs := scanner.FindAllArbitrages(0); len(arbs) != 0 {
		t.Fatalf("expected skip on missing book, got %d", len(arbs))
	}
}

// go test -v --run TestFindAllArbitragesEmptySide
func TestFindAllArbitragesEmptySide(t *testing.T) {
	store := xyzBooks(t)
	book, _ := store.Book("XYZBTC")
	book.Clear()
	// asks only on the middle leg, which needs a bid
	book.ApplyDelta(memorystore.Delta{Timestamp: time.Now(), Asks: map[float64]float64{0.0007: 1}})

	scanner := NewScanner(xyzCoins, store, nil)
	if arbs := scanner.FindAllArbitrages(0); len(arbs) != 0 {
		t.Fatalf("expected skip on empty bid side, got %d", len(arbs))
	}
}

// go test -v --run TestFindAllArbitragesFullSearch
func TestFindAllArbitragesFullSearch(t *testing.T) {
	coins := Coins{Stable: []string{"USDT", "USDC"}, Major: []string{"BTC"}, Other: []string{"XYZ", "ABC"}}
	store := memorystore.NewBookStore(10, nil)
	scanner := NewScanner(coins, store, nil)
	store.CreateBooks(scanner.GenerateSymbolUniverse())

	now := time.Now()
	for _, stable := range coins.Stable {
		store.ApplyDelta("XYZ"+stable, memorystore.Delta{Timestamp: now, Asks: map[float64]float64{10: 1}})
		store.ApplyDelta("ABC"+stable, memorystore.Delta{Timestamp: now, Asks: map[float64]float64{10: 1}})
		store.ApplyDelta("BTC"+stable, memorystore.Delta{Timestamp: now, Bids: map[float64]float64{17000: 1}})
	}
	store.ApplyDelta("XYZBTC", memorystore.Delta{Timestamp: now, Bids: map[float64]float64{0.0006: 1}})
	store.ApplyDelta("ABCBTC", memorystore.Delta{Timestamp: now, Bids: map[float64]float64{0.0007: 1}})

	arbs := scanner.FindAllArbitrages(0)
	if len(arbs) != 4 {
		t.Fatalf("found %d arbitrages, want all 4 triples", len(arbs))
	}

	SortByProfit(arbs)
	for i := 1; i < len(arbs); i++ {
		if arbs[i-1].Profit < arbs[i].Profit {
			t.Fatalf("not sorted descending at %d", i)
		}
	}
	if arbs[0].Orders[1].Symbol != "ABCBTC" {
		t.Errorf("best cycle goes through %s, want ABCBTC", arbs[0].Orders[1].Symbol)
	}
}

// go test -v --run TestFindAllArbitragesFeeOutOfRange
func TestFindAllArbitragesFeeOutOfRange(t *testing.T) {
	scanner := NewScanner(xyzCoins, xyzBooks(t), nil)
	if arbs := scanner.FindAllArbitrages(1); arbs != nil {
		t.Fatalf("expected nil for fee 1, got %+v", arbs)
	}
}

// go test -v --run TestGenerateSymbolUniverse
func TestGenerateSymbolUniverse(t *testing.T) {
	coins := Coins{
		Stable: []string{"USDT", "USDC"},
		Major:  []string{"BTC", "ETH"},
		Other:  []string{"XRP"},
	}
	got := NewScanner(coins, memorystore.NewBookStore(10, nil), nil).GenerateSymbolUniverse()
	want := []string{"BTCUSDC", "BTCUSDT", "ETHUSDC", "ETHUSDT", "XRPBTC", "XRPETH", "XRPUSDC", "XRPUSDT"}

	if len(got) != len(want) {
		t.Fatalf("universe = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("universe[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

// go test -v --run TestProfitPercentageRounding
func TestProfitPercentageRounding(t *testing.T) {
	tests := []struct {
		profit float64
		want   float64
	}{
		{1.0123456, 1.235},
		{1.0000004, 0},
		{1.5, 50},
		{1.0200049, 2.0},
	}
	for _, tt := range tests {
		if got := (Arbitrage{Profit: tt.profit}).ProfitPercentage(); got != tt.want {
			t.Errorf("ProfitPercentage(%v) = %v, want %v", tt.profit, got, tt.want)
		}
	}
}
