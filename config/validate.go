package config

import (
	"errors"
	"fmt"
)

// Validate checks the loaded configuration for values the application cannot run with.
// All problems are reported at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.Exchange {
	case ExchangeBybit:
		switch c.Bybit.WS.Depth {
		case 1, 50, 200:
		default:
			errs = append(errs, fmt.Errorf("bybit.ws.depth must be 1, 50 or 200, got %d", c.Bybit.WS.Depth))
		}
	case ExchangeBinance:
		if c.Binance.WS.UpdateSpeed != "100ms" && c.Binance.WS.UpdateSpeed != "1000ms" {
			errs = append(errs, fmt.Errorf("binance.ws.update_speed must be 100ms or 1000ms, got %q", c.Binance.WS.UpdateSpeed))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported exchange %q", c.Exchange))
	}

	a := c.Arbitrage
	if len(a.StableCoins) == 0 || len(a.MajorCoins) == 0 || len(a.OtherCoins) == 0 {
		errs = append(errs, errors.New("arbitrage: stable_coins, major_coins and other_coins must all be non-empty"))
	}
	seen := make(map[string]string)
	for group, coins := range map[string][]string{
		"stable_coins": a.StableCoins,
		"major_coins":  a.MajorCoins,
		"other_coins":  a.OtherCoins,
	} {
		for _, coin := range coins {
			if prev, ok := seen[coin]; ok && prev != group {
				errs = append(errs, fmt.Errorf("arbitrage: coin %s is listed in both %s and %s", coin, prev, group))
			}
			seen[coin] = group
		}
	}
	if a.FeePercentage < 0 || a.FeePercentage >= 100 {
		errs = append(errs, fmt.Errorf("arbitrage.fee_percentage must be in [0, 100), got %v", a.FeePercentage))
	}

	if c.Orderbook.Size <= 0 {
		errs = append(errs, fmt.Errorf("orderbook.size must be positive, got %d", c.Orderbook.Size))
	}
	if c.Risk.MaxStaleness <= 0 {
		errs = append(errs, fmt.Errorf("risk.max_staleness must be positive, got %s", c.Risk.MaxStaleness))
	}
	if c.App.ScanInterval <= 0 {
		errs = append(errs, fmt.Errorf("app.scan_interval must be positive, got %s", c.App.ScanInterval))
	}
	if c.App.ExecutionCooldown < 0 {
		errs = append(errs, fmt.Errorf("app.execution_cooldown must not be negative, got %s", c.App.ExecutionCooldown))
	}
	for name, b := range map[string]BreakerConfig{
		"app.restart_breaker":   c.App.RestartBreaker,
		"app.execution_breaker": c.App.ExecutionBreaker,
	} {
		if b.MaxEvents > 0 && b.Window <= 0 {
			errs = append(errs, fmt.Errorf("%s.window must be positive when max_events is set", name))
		}
	}

	switch c.Storage.Driver {
	case StorageNone, StoragePostgres, StorageSQLite, StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("unsupported storage.driver %q", c.Storage.Driver))
	}

	if c.Notify.Enabled && !c.Notify.TestMode {
		hasTelegram := c.Notify.Telegram.Token != "" && c.Notify.Telegram.ChatID != ""
		if !hasTelegram && c.Notify.Discord.WebhookURL == "" {
			errs = append(errs, errors.New("notify: enabled but neither telegram token/chat_id nor discord webhook_url is set"))
		}
	}

	if c.S3.Enabled && (c.S3.Bucket == "" || c.S3.Region == "") {
		errs = append(errs, errors.New("s3: bucket and region are required when enabled"))
	}

	return errors.Join(errs...)
}
