package feed

import (
	"context"
	"fmt"
	"time"

	"huckster/internal/memorystore"
	"huckster/pkg/binance"

	"github.com/sugawarayuuta/sonnet"
	"go.uber.org/zap"
)

// ParseDepthMessage decodes a combined stream push into a delta stamped with received.
func ParseDepthMessage(msg []byte, received time.Time) (memorystore.SymbolDelta, error) {
	var parsed binance.CombinedMessage
	if err := sonnet.Unmarshal(msg, &parsed); err != nil {
		return memorystore.SymbolDelta{}, fmt.Errorf("parse depth payload: %w", err)
	}
	if parsed.Data.Symbol == "" {
		return memorystore.SymbolDelta{}, fmt.Errorf("no symbol in stream %q", parsed.Stream)
	}

	asks, err := binance.ParseLevels(parsed.Data.Asks)
	if err != nil {
		return memorystore.SymbolDelta{}, fmt.Errorf("%s asks: %w", parsed.Data.Symbol, err)
	}
	bids, err := binance.ParseLevels(parsed.Data.Bids)
	if err != nil {
		return memorystore.SymbolDelta{}, fmt.Errorf("%s bids: %w", parsed.Data.Symbol, err)
	}

	return memorystore.SymbolDelta{
		Symbol: parsed.Data.Symbol,
		Delta: memorystore.Delta{
			Timestamp: received,
			Asks:      asks,
			Bids:      bids,
		},
	}, nil
}

// makeMessageHandler forwards parsed deltas to out and skips malformed payloads.
func makeMessageHandler(ctx context.Context, logger *zap.Logger, out chan<- memorystore.SymbolDelta) func([]byte) error {
	return func(msg []byte) error {
		sd, err := ParseDepthMessage(msg, time.Now())
		if err != nil {
			logger.Warn("failed to parse depth payload", zap.Error(err))
			return nil
		}
		select {
		case out <- sd:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
