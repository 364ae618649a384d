package persist

import (
	"context"
	"errors"
	"fmt"

	"huckster/internal/arbitrage"

	"go.uber.org/zap"
)

// Store is anything an approved arbitrage can be written to.
type Store interface {
	Save(ctx context.Context, a arbitrage.Arbitrage) error
}

type namedStore struct {
	name  string
	store Store
}

// Recorder writes every arbitrage to all registered stores. A failing store
// does not stop the others; all failures are returned joined.
type Recorder struct {
	stores []namedStore
	logger *zap.Logger
}

func NewRecorder(logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{logger: logger}
}

func (r *Recorder) Add(name string, store Store) {
	r.stores = append(r.stores, namedStore{name: name, store: store})
}

func (r *Recorder) Len() int {
	return len(r.stores)
}

func (r *Recorder) Save(ctx context.Context, a arbitrage.Arbitrage) error {
	var errs []error
	for _, s := range r.stores {
		if err := s.store.Save(ctx, a); err != nil {
			r.logger.Warn("cannot store arbitrage",
				zap.String("store", s.name),
				zap.String("id", a.ID.String()),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
			continue
		}
		r.logger.Debug("arbitrage stored", zap.String("store", s.name), zap.String("id", a.ID.String()))
	}
	return errors.Join(errs...)
}
