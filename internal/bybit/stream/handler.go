package stream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"huckster/internal/memorystore"
	"huckster/pkg/bybit"

	"github.com/sugawarayuuta/sonnet"
	"go.uber.org/zap"
)

// ErrSubscribeRejected is returned when Bybit refuses a subscribe request.
var ErrSubscribeRejected = errors.New("bybit rejected subscription")

// ParseOrderbookMessage decodes an orderbook push into a delta stamped with
// received. Snapshots carry Reset so the book is rebuilt from scratch.
func ParseOrderbookMessage(msg []byte, received time.Time) (memorystore.SymbolDelta, error) {
	var parsed OrderbookMessage
	if err := sonnet.Unmarshal(msg, &parsed); err != nil {
		return memorystore.SymbolDelta{}, fmt.Errorf("parse orderbook payload: %w", err)
	}
	if parsed.Type != TypeSnapshot && parsed.Type != TypeDelta {
		return memorystore.SymbolDelta{}, fmt.Errorf("unknown orderbook message type %q", parsed.Type)
	}

	symbol := parsed.Data.Symbol
	if symbol == "" {
		symbol = bybit.SymbolFromTopic(parsed.Topic) // e.g., "orderbook.50.BTCUSDT" → "BTCUSDT"
	}
	if symbol == "" {
		return memorystore.SymbolDelta{}, fmt.Errorf("no symbol in topic %q", parsed.Topic)
	}

	asks, err := bybit.ParseLevels(parsed.Data.Asks)
	if err != nil {
		return memorystore.SymbolDelta{}, fmt.Errorf("%s asks: %w", symbol, err)
	}
	bids, err := bybit.ParseLevels(parsed.Data.Bids)
	if err != nil {
		return memorystore.SymbolDelta{}, fmt.Errorf("%s bids: %w", symbol, err)
	}

	return memorystore.SymbolDelta{
		Symbol: symbol,
		Delta: memorystore.Delta{
			Timestamp: received,
			Asks:      asks,
			Bids:      bids,
			Reset:     parsed.Type == TypeSnapshot,
		},
	}, nil
}

// MakeMessageHandler returns a websocket handler that forwards parsed deltas
// to out. Malformed payloads are logged and skipped; a rejected subscription
// aborts the stream.
func MakeMessageHandler(ctx context.Context, logger *zap.Logger, out chan<- memorystore.SymbolDelta) func(msg []byte) error {
	return func(msg []byte) error {
		// Step 1: Extract topic and op for early filtering
		var meta struct {
			Topic   string `json:"topic"`
			Op      string `json:"op"`
			Success *bool  `json:"success"`
			RetMsg  string `json:"ret_msg"`
		}
		if err := sonnet.Unmarshal(msg, &meta); err != nil {
			logger.Warn("failed to extract topic", zap.Error(err))
			return nil
		}
		if meta.Op == "subscribe" && meta.Success != nil && !*meta.Success {
			return fmt.Errorf("%w: %s", ErrSubscribeRejected, meta.RetMsg)
		}
		if !bybit.IsOrderbookTopic(meta.Topic) {
			return nil // pong and subscription acks
		}

		// Step 2: Fully parse the orderbook payload
		sd, err := ParseOrderbookMessage(msg, time.Now())
		if err != nil {
			logger.Warn("failed to parse orderbook payload", zap.String("topic", meta.Topic), zap.Error(err))
			return nil
		}

		// Step 3: Hand the delta to the ingestion loop
		select {
		case out <- sd:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
