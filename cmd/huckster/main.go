package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"huckster/config"
	binancefeed "huckster/internal/binance/feed"
	bybitfeed "huckster/internal/bybit/feed"
	"huckster/internal/notify"
	"huckster/internal/orchestrator"
	"huckster/internal/persist"
	"huckster/logger"

	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	// viper config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid config:", err)
		return 1
	}

	// zap logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		return 1
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	feed, err := newFeed(cfg, log)
	if err != nil {
		log.Error("failed to build feed", zap.Error(err))
		return 1
	}

	recorder, closeStores, err := persist.Open(ctx, cfg, logger.Component(log, "persist"))
	if err != nil {
		log.Error("failed to open storage", zap.Error(err))
		return 1
	}
	defer func() {
		if err := closeStores(); err != nil {
			log.Warn("failed to close storage", zap.Error(err))
		}
	}()

	deps := orchestrator.Deps{Feed: feed, Logger: log}
	if n := notify.FromConfig(cfg.Notify, logger.Component(log, "notify")); n != nil {
		deps.Notifier = n
	}
	if recorder.Len() > 0 {
		deps.Recorder = recorder
	}

	o := orchestrator.New(orchestrator.OptionsFromConfig(cfg), deps)
	if err := o.Run(ctx); err != nil {
		if errors.Is(err, orchestrator.ErrSafetyShutdown) {
			log.Error("safety shutdown", zap.Error(err))
		} else {
			log.Error("orchestrator failed", zap.Error(err))
		}
		return 1
	}

	log.Info("stopped")
	return 0
}

func newFeed(cfg *config.Config, log *zap.Logger) (orchestrator.Feed, error) {
	switch cfg.Exchange {
	case config.ExchangeBybit:
		return bybitfeed.New(cfg.Bybit, logger.Component(log, "bybit"))
	case config.ExchangeBinance:
		return binancefeed.New(cfg.Binance, logger.Component(log, "binance"))
	default:
		return nil, fmt.Errorf("unsupported exchange %q", cfg.Exchange)
	}
}
