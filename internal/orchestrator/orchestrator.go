// Package orchestrator runs the ingest → scan → gate → act pipeline and owns
// its lifecycle.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"huckster/internal/arbitrage"
	"huckster/internal/health"
	"huckster/internal/memorystore"
	"huckster/internal/notify"
	"huckster/internal/risk"
	"huckster/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEmptyUniverse      = errors.New("exchange supports none of the generated symbols")
	ErrUnsupportedSymbols = errors.New("exchange does not support every generated symbol")
	ErrSafetyShutdown     = errors.New("safety shutdown")
	ErrFeedClosed         = errors.New("order book feed closed")
)

const (
	ReasonRestartDisabled   = "restart disabled"
	ReasonRestartKillSwitch = "kill switch activated (restarts)"
	ReasonExecKillSwitch    = "kill switch activated (executions)"
	ReasonSignal            = "signal received"
)

type Orchestrator struct {
	opts     Options
	feed     Feed
	notifier Notifier
	recorder Recorder
	logger   *zap.Logger
	now      func() time.Time

	books            *memorystore.BookStore
	scanner          *arbitrage.Scanner
	gate             *risk.Gate
	restartBreaker   *health.FrequencyBreaker
	executionBreaker *health.FrequencyBreaker

	state    atomic.Int32
	universe []string
	pending  sync.WaitGroup

	mu       sync.Mutex
	cancel   context.CancelFunc
	reason   string
	safety   bool
	stopping bool
}

func New(opts Options, deps Deps) *Orchestrator {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if opts.ScanInterval <= 0 {
		opts.ScanInterval = defaultScanInterval
	}
	if opts.SideEffectTimeout <= 0 {
		opts.SideEffectTimeout = defaultSideEffectTimeout
	}

	books := memorystore.NewBookStore(opts.BookSize, logger.Component(deps.Logger, "bookstore"))
	o := &Orchestrator{
		opts:             opts,
		feed:             deps.Feed,
		notifier:         deps.Notifier,
		recorder:         deps.Recorder,
		logger:           logger.Component(deps.Logger, "orchestrator"),
		now:              deps.Now,
		books:            books,
		scanner:          arbitrage.NewScanner(opts.Coins, books, logger.Component(deps.Logger, "scanner")),
		gate:             risk.NewGate(opts.Risk, books, logger.Component(deps.Logger, "risk")),
		restartBreaker:   health.NewFrequencyBreaker("restarts", opts.RestartBreaker.Window, opts.RestartBreaker.MaxEvents),
		executionBreaker: health.NewFrequencyBreaker("executions", opts.ExecutionBreaker.Window, opts.ExecutionBreaker.MaxEvents),
	}
	o.state.Store(int32(Starting))
	return o
}

func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

// Books exposes the live book registry.
func (o *Orchestrator) Books() *memorystore.BookStore {
	return o.books
}

// Universe returns the symbols subscribed to, available once Run passed startup.
func (o *Orchestrator) Universe() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.universe...)
}

// Shutdown asks a running Orchestrator to stop. Run then returns nil.
func (o *Orchestrator) Shutdown(reason string) {
	o.requestShutdown(reason, false)
}

// Run starts the pipeline and blocks until it stopped. It returns a fatal
// startup error, an ErrSafetyShutdown-wrapped error when a kill switch or a
// disabled restart ended the run, and nil otherwise.
func (o *Orchestrator) Run(ctx context.Context) error {
	if err := o.start(ctx); err != nil {
		o.setState(Stopped)
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	o.mu.Lock()
	o.cancel = cancel
	if o.stopping {
		cancel()
	}
	o.mu.Unlock()

	o.setState(Running)
	o.logger.Info("orchestrator running", zap.Int("symbols", len(o.universe)))

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error { return o.ingestLoop(gctx) })
	g.Go(func() error { return o.scanLoop(gctx) })
	if o.opts.ReportInterval > 0 {
		g.Go(func() error { return o.reportLoop(gctx) })
	}
	if o.opts.AuditInterval > 0 {
		g.Go(func() error { return o.auditLoop(gctx) })
	}
	if err := g.Wait(); err != nil {
		o.logger.Error("pipeline stopped with error", zap.Error(err))
	}

	return o.stop(ctx)
}

func (o *Orchestrator) start(ctx context.Context) error {
	o.logger.Info("coin taxonomy",
		zap.String("exchange", o.feed.Name()),
		zap.Strings("stable", o.opts.Coins.Stable),
		zap.Strings("major", o.opts.Coins.Major),
		zap.Strings("other", o.opts.Coins.Other),
	)

	generated := o.scanner.GenerateSymbolUniverse()
	o.logger.Info("generated symbols", zap.Int("count", len(generated)), zap.Strings("symbols", generated))

	available, err := o.feed.AvailableSymbols(ctx)
	if err != nil {
		return fmt.Errorf("fetch available symbols: %w", err)
	}

	supported, missing := partition(generated, available)
	if len(supported) == 0 {
		return fmt.Errorf("%w (%d generated)", ErrEmptyUniverse, len(generated))
	}
	if len(missing) > 0 {
		if !o.opts.IgnoreUnsupportedSymbols {
			return fmt.Errorf("%w: %s", ErrUnsupportedSymbols, strings.Join(missing, ", "))
		}
		o.logger.Warn("ignoring unsupported symbols", zap.Strings("symbols", missing))
	}

	o.books.CreateBooks(supported)
	o.mu.Lock()
	o.universe = supported
	o.mu.Unlock()
	return nil
}

func (o *Orchestrator) stop(parent context.Context) error {
	o.setState(ShuttingDown)
	o.books.ClearAll()
	o.pending.Wait()

	o.mu.Lock()
	reason, safety := o.reason, o.safety
	o.mu.Unlock()
	if reason == "" {
		reason = ReasonSignal
	}

	o.logger.Info("shutting down", zap.String("reason", reason), zap.Bool("safety", safety))
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), o.opts.SideEffectTimeout)
	o.notify(ctx, notify.EventShutdown, notify.ShutdownMessage(reason))
	cancel()

	o.setState(Stopped)
	if safety {
		return fmt.Errorf("%w: %s", ErrSafetyShutdown, reason)
	}
	return nil
}

// requestShutdown records the first reason and cancels the running loops.
func (o *Orchestrator) requestShutdown(reason string, safety bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopping {
		return
	}
	o.stopping = true
	o.reason = reason
	o.safety = safety
	if o.cancel != nil {
		o.cancel()
	}
}

func (o *Orchestrator) setState(s State) {
	prev := State(o.state.Swap(int32(s)))
	if prev != s {
		o.logger.Info("state changed", zap.Stringer("from", prev), zap.Stringer("to", s))
	}
}

func (o *Orchestrator) notify(ctx context.Context, event string, msg notify.Message) {
	if o.notifier == nil {
		return
	}
	if err := o.notifier.Notify(ctx, event, msg); err != nil {
		o.logger.Error("notification failed", zap.String("event", event), zap.Error(err))
	}
}

// partition splits generated into the symbols available on the exchange and the rest.
func partition(generated []string, available map[string]struct{}) (supported, missing []string) {
	for _, s := range generated {
		if _, ok := available[s]; ok {
			supported = append(supported, s)
		} else {
			missing = append(missing, s)
		}
	}
	sort.Strings(missing)
	return supported, missing
}
