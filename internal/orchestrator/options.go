package orchestrator

import (
	"context"
	"time"

	"huckster/config"
	"huckster/internal/arbitrage"
	"huckster/internal/memorystore"
	"huckster/internal/notify"
	"huckster/internal/risk"

	"go.uber.org/zap"
)

// Feed is a source of order book deltas for one exchange.
type Feed interface {
	// Name identifies the exchange, e.g. "bybit".
	Name() string
	// AvailableSymbols lists the symbols the exchange currently supports.
	AvailableSymbols(ctx context.Context) (map[string]struct{}, error)
	// SubscribeDeltas starts one streaming session. The delta channel is
	// closed when the session ends, then exactly one value is sent on the
	// error channel (nil when ctx was cancelled).
	SubscribeDeltas(ctx context.Context, symbols []string) (<-chan memorystore.SymbolDelta, <-chan error)
}

type Notifier interface {
	Notify(ctx context.Context, event string, msg notify.Message) error
}

type Recorder interface {
	Save(ctx context.Context, a arbitrage.Arbitrage) error
}

const (
	defaultScanInterval      = 10 * time.Millisecond
	defaultSideEffectTimeout = 10 * time.Second
)

type Options struct {
	Coins    arbitrage.Coins
	Fee      float64 // per leg, as a fraction
	BookSize int
	Risk     risk.GateConfig

	IgnoreUnsupportedSymbols bool
	NotifyFeedFailure        bool

	RestartDelay      time.Duration // < 0 disables restarts
	ScanInterval      time.Duration
	ExecutionCooldown time.Duration
	ReportInterval    time.Duration // 0 disables the stats reporter
	AuditInterval     time.Duration // 0 disables the universe audit

	RestartBreaker   config.BreakerConfig
	ExecutionBreaker config.BreakerConfig

	// SideEffectTimeout bounds each notification and save.
	SideEffectTimeout time.Duration
}

// OptionsFromConfig maps the loaded configuration onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Coins: arbitrage.Coins{
			Stable: cfg.Arbitrage.StableCoins,
			Major:  cfg.Arbitrage.MajorCoins,
			Other:  cfg.Arbitrage.OtherCoins,
		},
		Fee:      cfg.Arbitrage.Fee(),
		BookSize: cfg.Orderbook.Size,
		Risk: risk.GateConfig{
			MinProfitPercentage: cfg.Risk.MinProfitPercentage,
			MaxStaleness:        cfg.Risk.MaxStaleness,
		},
		IgnoreUnsupportedSymbols: cfg.App.IgnoreUnsupportedSymbols,
		NotifyFeedFailure:        cfg.App.NotifyFeedFailure,
		RestartDelay:             cfg.App.RestartDelay,
		ScanInterval:             cfg.App.ScanInterval,
		ExecutionCooldown:        cfg.App.ExecutionCooldown,
		ReportInterval:           cfg.App.ReportInterval,
		AuditInterval:            cfg.App.AuditInterval,
		RestartBreaker:           cfg.App.RestartBreaker,
		ExecutionBreaker:         cfg.App.ExecutionBreaker,
	}
}

// Deps are the collaborators of the Orchestrator. Notifier and Recorder may be nil.
type Deps struct {
	Feed     Feed
	Notifier Notifier
	Recorder Recorder
	Logger   *zap.Logger
	Now      func() time.Time
}
