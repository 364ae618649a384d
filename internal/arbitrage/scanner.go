package arbitrage

import (
	"sort"
	"time"

	"huckster/internal/memorystore"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookSource resolves a symbol to its live book.
type BookSource interface {
	Book(symbol string) (*memorystore.Book, bool)
}

// Coins is the taxonomy cycles are built from: buy an Other coin with a Stable
// coin, sell it for a Major coin, then sell the Major coin back to the Stable one.
type Coins struct {
	Stable []string
	Major  []string
	Other  []string
}

type Scanner struct {
	coins  Coins
	books  BookSource
	logger *zap.Logger
	now    func() time.Time
}

func NewScanner(coins Coins, books BookSource, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		coins:  coins,
		books:  books,
		logger: logger,
		now:    time.Now,
	}
}

// Symbol joins base and quote the way spot exchanges name pairs, e.g. BTC+USDT = BTCUSDT.
func Symbol(base, quote string) string {
	return base + quote
}

// GenerateSymbolUniverse lists every pair a cycle can touch: major/stable,
// other/stable and other/major. The result is sorted and free of duplicates.
func (s *Scanner) GenerateSymbolUniverse() []string {
	set := make(map[string]struct{})
	for _, stable := range s.coins.Stable {
		for _, major := range s.coins.Major {
			set[Symbol(major, stable)] = struct{}{}
		}
		for _, other := range s.coins.Other {
			set[Symbol(other, stable)] = struct{}{}
		}
	}
	for _, other := range s.coins.Other {
		for _, major := range s.coins.Major {
			set[Symbol(other, major)] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for symbol := range set {
		out = append(out, symbol)
	}
	sort.Strings(out)
	return out
}

// FindAllArbitrages evaluates every (other, major, stable) cycle against the
// current best prices and returns those with profit > 1 after paying fee on
// each leg. fee is a fraction in [0, 1). Cycles with a missing book or an
// empty side are skipped.
func (s *Scanner) FindAllArbitrages(fee float64) []Arbitrage {
	if fee < 0 || fee >= 1 {
		s.logger.Error("fee out of range, skipping scan", zap.Float64("fee", fee))
		return nil
	}

	var found []Arbitrage
	for _, other := range s.coins.Other {
		for _, major := range s.coins.Major {
			for _, stable := range s.coins.Stable {
				if a, ok := s.evaluate(other, major, stable, fee); ok {
					found = append(found, a)
				}
			}
		}
	}
	return found
}

func (s *Scanner) evaluate(other, major, stable string, fee float64) (Arbitrage, bool) {
	buySymbol := Symbol(other, stable)
	midSymbol := Symbol(other, major)
	finalSymbol := Symbol(major, stable)

	ask, ok := s.bestAsk(buySymbol)
	if !ok {
		return Arbitrage{}, false
	}
	midBid, ok := s.bestBid(midSymbol)
	if !ok {
		return Arbitrage{}, false
	}
	finalBid, ok := s.bestBid(finalSymbol)
	if !ok {
		return Arbitrage{}, false
	}
	if ask.Price <= 0 {
		return Arbitrage{}, false
	}

	buyPrice := ask.Price * (1 + fee)
	sellMid := midBid.Price * (1 - fee)
	sellFinal := finalBid.Price * (1 - fee)
	profit := (1 / buyPrice) * sellMid * sellFinal

	if profit <= 1 {
		return Arbitrage{}, false
	}

	return Arbitrage{
		ID:        uuid.New(),
		Timestamp: s.now(),
		Orders: [3]Order{
			{Side: Buy, Symbol: buySymbol, Price: ask.Price},
			{Side: Sell, Symbol: midSymbol, Price: midBid.Price},
			{Side: Sell, Symbol: finalSymbol, Price: finalBid.Price},
		},
		Profit: profit,
	}, true
}

func (s *Scanner) bestAsk(symbol string) (memorystore.PriceLevel, bool) {
	book, ok := s.books.Book(symbol)
	if !ok {
		s.skip(symbol, "no book")
		return memorystore.PriceLevel{}, false
	}
	level, ok := book.BestAsk()
	if !ok {
		s.skip(symbol, "no asks")
	}
	return level, ok
}

func (s *Scanner) bestBid(symbol string) (memorystore.PriceLevel, bool) {
	book, ok := s.books.Book(symbol)
	if !ok {
		s.skip(symbol, "no book")
		return memorystore.PriceLevel{}, false
	}
	level, ok := book.BestBid()
	if !ok {
		s.skip(symbol, "no bids")
	}
	return level, ok
}

func (s *Scanner) skip(symbol, reason string) {
	if ce := s.logger.Check(zap.DebugLevel, "skipping cycle"); ce != nil {
		ce.Write(zap.String("symbol", symbol), zap.String("reason", reason))
	}
}

// SortByProfit orders arbitrages by profit, best first.
func SortByProfit(arbs []Arbitrage) {
	sort.SliceStable(arbs, func(i, j int) bool {
		return arbs[i].Profit > arbs[j].Profit
	})
}
