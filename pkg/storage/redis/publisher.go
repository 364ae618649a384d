// Package redis publishes approved arbitrages to Redis: a pub/sub message for
// live consumers and a capped stream entry for anyone catching up later.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"huckster/config"
	"huckster/internal/arbitrage"

	"github.com/redis/go-redis/v9"
)

// approximate cap applied with XADD MAXLEN ~
const streamMaxLen int64 = 10000

type Publisher struct {
	rdb     *redis.Client
	channel string
	stream  string
}

// New connects to Redis and verifies the connection with a ping.
func New(ctx context.Context, cfg config.RedisConfig) (*Publisher, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	p := NewFromClient(rdb, cfg.Channel, cfg.Stream)
	if err := p.Ping(ctx); err != nil {
		_ = p.Close()
		return nil, err
	}
	return p, nil
}

func NewFromClient(rdb *redis.Client, channel, stream string) *Publisher {
	return &Publisher{rdb: rdb, channel: channel, stream: stream}
}

// Save publishes the arbitrage on the channel and appends it to the stream in one round trip.
func (p *Publisher) Save(ctx context.Context, a arbitrage.Arbitrage) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("redis: marshal arbitrage: %w", err)
	}

	pipe := p.rdb.Pipeline()
	if p.channel != "" {
		pipe.Publish(ctx, p.channel, payload)
	}
	if p.stream != "" {
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: p.stream,
			MaxLen: streamMaxLen,
			Approx: true,
			Values: map[string]interface{}{
				"id":      a.ID.String(),
				"profit":  a.ProfitPercentage(),
				"payload": payload,
			},
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: publish arbitrage %s: %w", a.ID, err)
	}
	return nil
}

func (p *Publisher) Ping(ctx context.Context) error {
	if err := p.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.rdb.Close()
}
