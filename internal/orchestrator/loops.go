package orchestrator

import (
	"context"
	"time"

	"huckster/internal/arbitrage"
	"huckster/internal/notify"

	"go.uber.org/zap"
)

// ingestLoop applies feed deltas to the books and restarts the feed after
// failures until a restart rule forces a shutdown.
func (o *Orchestrator) ingestLoop(ctx context.Context) error {
	for {
		err := o.consume(ctx)
		if ctx.Err() != nil {
			return nil
		}

		o.logger.Error("order book feed failed", zap.Error(err))
		if o.opts.NotifyFeedFailure {
			o.dispatch(ctx, func(sctx context.Context) {
				o.notify(sctx, notify.EventFailure, notify.FeedFailureMessage(err))
			})
		}

		if o.opts.RestartDelay < 0 {
			o.requestShutdown(ReasonRestartDisabled, true)
			return nil
		}
		if o.restartBreaker.CountEventAndCheck(o.now()) {
			o.logger.Error("restart kill switch tripped", zap.Int("restarts", o.restartBreaker.Count()))
			o.requestShutdown(ReasonRestartKillSwitch, true)
			return nil
		}

		o.setState(Restarting)
		o.books.ClearAll()
		o.logger.Info("restarting feed", zap.Duration("delay", o.opts.RestartDelay))
		if !sleep(ctx, o.opts.RestartDelay) {
			return nil
		}
		o.setState(Running)
	}
}

// consume runs one feed session. It returns nil only when ctx is done.
func (o *Orchestrator) consume(ctx context.Context) error {
	deltas, errc := o.feed.SubscribeDeltas(ctx, o.universe)
	for d := range deltas {
		o.books.ApplyDelta(d.Symbol, d.Delta)
	}

	err := <-errc
	if err == nil && ctx.Err() == nil {
		return ErrFeedClosed
	}
	return err
}

// scanLoop looks for the best cycle every ScanInterval and acts on it when the
// risk gate approves.
func (o *Orchestrator) scanLoop(ctx context.Context) error {
	ticker := time.NewTicker(o.opts.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		if o.State() != Running {
			continue
		}

		arbs := o.scanner.FindAllArbitrages(o.opts.Fee)
		if len(arbs) == 0 {
			continue
		}
		arbitrage.SortByProfit(arbs)
		best := arbs[0]
		if !o.gate.Approve(best, o.now()) {
			continue
		}

		o.logger.Info("arbitrage approved",
			zap.String("id", best.ID.String()),
			zap.Float64("profit", best.ProfitPercentage()),
			zap.Strings("symbols", best.Symbols()),
		)
		o.execute(ctx, best)

		if o.executionBreaker.CountEventAndCheck(o.now()) {
			o.logger.Error("execution kill switch tripped", zap.Int("executions", o.executionBreaker.Count()))
			o.requestShutdown(ReasonExecKillSwitch, true)
			return nil
		}
		if !sleep(ctx, o.opts.ExecutionCooldown) {
			return nil
		}
	}
}

// execute notifies and records an approved arbitrage. Both are best-effort.
func (o *Orchestrator) execute(ctx context.Context, a arbitrage.Arbitrage) {
	o.dispatch(ctx, func(sctx context.Context) {
		o.notify(sctx, notify.EventArbitrage, notify.ArbitrageFoundMessage(a))
		if o.recorder == nil {
			return
		}
		if err := o.recorder.Save(sctx, a); err != nil {
			o.logger.Error("failed to save arbitrage", zap.String("id", a.ID.String()), zap.Error(err))
		}
	})
}

// dispatch runs fn in the background on a context that survives shutdown,
// bounded by SideEffectTimeout. stop waits for every dispatched fn.
func (o *Orchestrator) dispatch(ctx context.Context, fn func(context.Context)) {
	o.pending.Add(1)
	go func() {
		defer o.pending.Done()
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.opts.SideEffectTimeout)
		defer cancel()
		fn(sctx)
	}()
}

func (o *Orchestrator) reportLoop(ctx context.Context) error {
	ticker := time.NewTicker(o.opts.ReportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			asks, bids, full := o.books.LevelStats()
			o.logger.Info("book stats",
				zap.Stringer("state", o.State()),
				zap.Int("books", o.books.Len()),
				zap.Int("full", full),
				zap.Int("ask_levels", asks),
				zap.Int("bid_levels", bids),
				zap.Int("fresh", o.books.CountFresh(o.now(), o.opts.Risk.MaxStaleness)),
				zap.Int("restarts", o.restartBreaker.Count()),
				zap.Int("executions", o.executionBreaker.Count()),
			)
		}
	}
}

// auditLoop re-checks that every subscribed symbol is still listed.
func (o *Orchestrator) auditLoop(ctx context.Context) error {
	ticker := time.NewTicker(o.opts.AuditInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		available, err := o.feed.AvailableSymbols(ctx)
		if err != nil {
			if ctx.Err() == nil {
				o.logger.Warn("universe audit failed", zap.Error(err))
			}
			continue
		}
		_, delisted := partition(o.universe, available)
		if len(delisted) > 0 {
			o.logger.Warn("subscribed symbols no longer listed", zap.Strings("symbols", delisted))
		} else {
			o.logger.Debug("universe audit passed", zap.Int("symbols", len(o.universe)))
		}
	}
}

// sleep waits d and reports whether ctx is still live.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
