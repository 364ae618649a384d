package persist

import (
	"context"
	"errors"
	"fmt"

	"huckster/config"
	"huckster/pkg/storage/postgres"
	hredis "huckster/pkg/storage/redis"
	s3archive "huckster/pkg/storage/s3"

	"go.uber.org/zap"
)

// Open builds a Recorder over every store enabled in cfg. The returned close
// function releases the underlying connections.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Recorder, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rec := NewRecorder(logger)
	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		client, err := postgres.InitializeAndMigrate(cfg.Postgres, cfg.Log.Environment, cfg.Storage.CreateDatabase)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		closers = append(closers, client.Close)
		rec.Add("postgres", client)
	case config.StorageSQLite:
		client, err := postgres.InitializeSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite: %w", err)
		}
		closers = append(closers, client.Close)
		rec.Add("sqlite", client)
	case config.StorageMemory:
		rec.Add("memory", NewMemoryStore())
	case config.StorageNone, "":
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Redis.Enabled {
		pub, err := hredis.New(ctx, cfg.Redis)
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		closers = append(closers, pub.Close)
		rec.Add("redis", pub)
	}

	if cfg.S3.Enabled {
		archive, err := s3archive.New(ctx, cfg.S3)
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		rec.Add("s3", archive)
	}

	logger.Info("persistence configured",
		zap.String("driver", cfg.Storage.Driver),
		zap.Bool("redis", cfg.Redis.Enabled),
		zap.Bool("s3", cfg.S3.Enabled),
		zap.Int("stores", rec.Len()),
	)
	return rec, closeAll, nil
}
