// Package feed streams Bybit spot order book deltas.
package feed

import (
	"context"
	"fmt"
	"time"

	"huckster/config"
	"huckster/internal/bybit/snapshot"
	"huckster/internal/bybit/stream"
	"huckster/internal/memorystore"
	"huckster/pkg/bybit"

	"go.uber.org/zap"
)

// deltaBuffer bounds how far the websocket reader may run ahead of ingestion.
const deltaBuffer = 4096

type Feed struct {
	loader       *snapshot.SymbolLoader
	restTimeout  time.Duration
	wsURL        string
	depth        bybit.OrderbookDepth
	pingInterval time.Duration
	logger       *zap.Logger
}

// New builds a Bybit feed from the bybit config section.
func New(cfg config.BybitConfig, logger *zap.Logger) (*Feed, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	depth, err := bybit.ParseOrderbookDepth(cfg.WS.Depth)
	if err != nil {
		return nil, err
	}

	restClient := bybit.NewRESTClient(cfg.REST.BaseURL, cfg.REST.Timeout)
	return &Feed{
		loader:       &snapshot.SymbolLoader{Lister: restClient, Logger: logger},
		restTimeout:  cfg.REST.Timeout,
		wsURL:        cfg.WS.URL,
		depth:        depth,
		pingInterval: cfg.WS.PingInterval,
		logger:       logger,
	}, nil
}

func (f *Feed) Name() string { return config.ExchangeBybit }

// AvailableSymbols lists the spot symbols Bybit currently trades.
func (f *Feed) AvailableSymbols(ctx context.Context) (map[string]struct{}, error) {
	if f.restTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.restTimeout)
		defer cancel()
	}
	return f.loader.LoadSymbols(ctx)
}

// SubscribeDeltas opens one websocket session for symbols. The delta channel
// is closed when the session ends, then exactly one value is sent on the
// error channel: nil when ctx was cancelled, the failure otherwise.
func (f *Feed) SubscribeDeltas(ctx context.Context, symbols []string) (<-chan memorystore.SymbolDelta, <-chan error) {
	out := make(chan memorystore.SymbolDelta, deltaBuffer)
	errc := make(chan error, 1)

	go func() {
		err := f.run(ctx, symbols, out)
		close(out)
		if ctx.Err() != nil {
			err = nil
		}
		errc <- err
	}()

	return out, errc
}

func (f *Feed) run(ctx context.Context, symbols []string, out chan<- memorystore.SymbolDelta) error {
	// Connect, subscribe, then listen until the session ends
	client := bybit.NewWSClient(f.wsURL, f.pingInterval, f.logger)
	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Close()

	if err := client.Subscribe(bybit.OrderbookTopics(f.depth, symbols)); err != nil {
		return err
	}

	err := client.Listen(ctx, stream.MakeMessageHandler(ctx, f.logger, out))
	if err == nil && ctx.Err() == nil {
		return fmt.Errorf("bybit stream ended unexpectedly")
	}
	return err
}
