package risk

import (
	"errors"
	"fmt"
	"time"

	"huckster/internal/arbitrage"

	"go.uber.org/zap"
)

var (
	ErrProfitTooLow = errors.New("profit below minimum")
	ErrBookMissing  = errors.New("book missing")
	ErrBookStale    = errors.New("book stale")
)

type GateConfig struct {
	MinProfitPercentage float64
	MaxStaleness        time.Duration
}

// Gate is the last check before an arbitrage is acted on. The scanner only
// looks at best prices, so the gate re-verifies that every leg is backed by a
// recently updated book.
type Gate struct {
	cfg    GateConfig
	books  arbitrage.BookSource
	logger *zap.Logger
}

func NewGate(cfg GateConfig, books arbitrage.BookSource, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{cfg: cfg, books: books, logger: logger}
}

// Check returns nil when the arbitrage may be executed at now.
func (g *Gate) Check(a arbitrage.Arbitrage, now time.Time) error {
	if pct := a.ProfitPercentage(); pct < g.cfg.MinProfitPercentage {
		return fmt.Errorf("%w: %.3f%% < %.3f%%", ErrProfitTooLow, pct, g.cfg.MinProfitPercentage)
	}

	for _, order := range a.Orders {
		book, ok := g.books.Book(order.Symbol)
		if !ok {
			return fmt.Errorf("%w: %s", ErrBookMissing, order.Symbol)
		}

		snap := book.Snapshot()
		if ce := g.logger.Check(zap.DebugLevel, "leg book"); ce != nil {
			ce.Write(zap.String("symbol", order.Symbol), zap.Any("book", snap))
		}

		if snap.LastUpdated.IsZero() {
			return fmt.Errorf("%w: %s never updated", ErrBookStale, order.Symbol)
		}
		if age := now.Sub(snap.LastUpdated); age > g.cfg.MaxStaleness {
			return fmt.Errorf("%w: %s last updated %s ago", ErrBookStale, order.Symbol, age.Truncate(time.Millisecond))
		}
	}
	return nil
}

// Approve is Check with the rejection reason logged.
func (g *Gate) Approve(a arbitrage.Arbitrage, now time.Time) bool {
	if err := g.Check(a, now); err != nil {
		g.logger.Info("arbitrage rejected",
			zap.String("id", a.ID.String()),
			zap.Float64("profit_pct", a.ProfitPercentage()),
			zap.Error(err),
		)
		return false
	}
	return true
}
