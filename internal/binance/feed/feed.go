// Package feed streams Binance spot diff depth updates.
package feed

import (
	"context"
	"fmt"
	"time"

	"huckster/config"
	"huckster/internal/memorystore"
	"huckster/pkg/binance"

	"go.uber.org/zap"
)

const deltaBuffer = 4096

type Feed struct {
	rest        *binance.RESTClient
	restTimeout time.Duration
	wsURL       string
	updateSpeed string
	logger      *zap.Logger
}

func New(cfg config.BinanceConfig, logger *zap.Logger) (*Feed, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := binance.DepthStreamName("X", cfg.WS.UpdateSpeed); err != nil {
		return nil, err
	}
	return &Feed{
		rest:        binance.NewRESTClient(cfg.REST.BaseURL, cfg.REST.Timeout),
		restTimeout: cfg.REST.Timeout,
		wsURL:       cfg.WS.URL,
		updateSpeed: cfg.WS.UpdateSpeed,
		logger:      logger,
	}, nil
}

func (f *Feed) Name() string { return config.ExchangeBinance }

func (f *Feed) AvailableSymbols(ctx context.Context) (map[string]struct{}, error) {
	if f.restTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.restTimeout)
		defer cancel()
	}

	symbols, err := f.rest.GetSpotSymbols(ctx)
	if err != nil {
		f.logger.Error("failed to load spot symbols", zap.Error(err))
		return nil, err
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("binance returned no spot symbols")
	}

	set := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		set[s] = struct{}{}
	}
	f.logger.Info("loaded symbols", zap.Int("count", len(set)))
	return set, nil
}

// SubscribeDeltas opens one combined stream for symbols. The delta channel is
// closed when the session ends, then exactly one value is sent on the error
// channel: nil when ctx was cancelled, the failure otherwise.
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
	streams := make([]string, 0, len(symbols))
	for _, s := range symbols {
		name, err := binance.DepthStreamName(s, f.updateSpeed)
		if err != nil {
			return err
		}
		streams = append(streams, name)
	}
	url, err := binance.CombinedStreamURL(f.wsURL, streams)
	if err != nil {
		return err
	}

	client := binance.NewWSClient(url, f.logger)
	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Close()
	f.logger.Info("Subscribed to streams", zap.Int("count", len(streams)))

	err = client.Listen(ctx, makeMessageHandler(ctx, f.logger, out))
	if err == nil && ctx.Err() == nil {
		return fmt.Errorf("binance stream ended unexpectedly")
	}
	return err
}
