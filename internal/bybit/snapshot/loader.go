package snapshot

import (
	"context"
	"fmt"

	"huckster/pkg/bybit"

	"go.uber.org/zap"
)

// SymbolLister is the REST call the loader depends on.
type SymbolLister interface {
	GetSpotSymbols(ctx context.Context) ([]string, error)
}

var _ SymbolLister = (*bybit.RESTClient)(nil)

type SymbolLoader struct {
	Lister SymbolLister
	Logger *zap.Logger
}

// LoadSymbols fetches the spot symbols currently trading on Bybit as a set.
// An empty listing is treated as an error.
func (l *SymbolLoader) LoadSymbols(ctx context.Context) (map[string]struct{}, error) {
	symbols, err := l.Lister.GetSpotSymbols(ctx)
	if err != nil {
		l.Logger.Error("failed to load spot symbols", zap.Error(err))
		return nil, err
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("bybit returned no spot symbols")
	}

	set := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		set[s] = struct{}{}
	}
	l.Logger.Info("loaded symbols", zap.Int("count", len(set)))
	return set, nil
}
