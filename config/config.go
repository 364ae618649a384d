package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ExchangeBybit   = "bybit"
	ExchangeBinance = "binance"
)

type Config struct {
	Exchange  string          `mapstructure:"exchange"`
	Bybit     BybitConfig     `mapstructure:"bybit"`
	Binance   BinanceConfig   `mapstructure:"binance"`
	Arbitrage ArbitrageConfig `mapstructure:"arbitrage"`
	Orderbook OrderbookConfig `mapstructure:"orderbook"`
	Risk      RiskConfig      `mapstructure:"risk"`
	App       AppConfig       `mapstructure:"app"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	Redis     RedisConfig     `mapstructure:"redis"`
	S3        S3Config        `mapstructure:"s3"`
	Log       LogConfig       `mapstructure:"log"`
}

type BybitConfig struct {
	REST RESTConfig    `mapstructure:"rest"`
	WS   BybitWSConfig `mapstructure:"ws"`
}

type BinanceConfig struct {
	REST RESTConfig      `mapstructure:"rest"`
	WS   BinanceWSConfig `mapstructure:"ws"`
}

type RESTConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type BybitWSConfig struct {
	URL          string        `mapstructure:"url"`
	Depth        int           `mapstructure:"depth"`         // orderbook depth topic: 1, 50 or 200
	PingInterval time.Duration `mapstructure:"ping_interval"` // bybit drops idle connections after ~10m
}

type BinanceWSConfig struct {
	URL         string `mapstructure:"url"`
	UpdateSpeed string `mapstructure:"update_speed"` // "100ms" or "1000ms"
}

// ArbitrageConfig is the coin taxonomy the scanner builds its chains from.
type ArbitrageConfig struct {
	StableCoins   []string `mapstructure:"stable_coins"`
	MajorCoins    []string `mapstructure:"major_coins"`
	OtherCoins    []string `mapstructure:"other_coins"`
	FeePercentage float64  `mapstructure:"fee_percentage"` // taker fee per leg, 0.1 means 0.1%
}

// Fee returns the per-leg taker fee as a fraction.
func (c ArbitrageConfig) Fee() float64 {
	return c.FeePercentage / 100
}

type OrderbookConfig struct {
	Size int `mapstructure:"size"`
}

type RiskConfig struct {
	MinProfitPercentage float64       `mapstructure:"min_profit_percentage"`
	MaxStaleness        time.Duration `mapstructure:"max_staleness"`
}

type AppConfig struct {
	IgnoreUnsupportedSymbols bool          `mapstructure:"ignore_unsupported_symbols"`
	NotifyFeedFailure        bool          `mapstructure:"notify_feed_failure"`
	RestartDelay             time.Duration `mapstructure:"restart_delay"` // negative disables restart
	ScanInterval             time.Duration `mapstructure:"scan_interval"`
	ExecutionCooldown        time.Duration `mapstructure:"execution_cooldown"`
	ReportInterval           time.Duration `mapstructure:"report_interval"`
	AuditInterval            time.Duration `mapstructure:"audit_interval"`
	RestartBreaker           BreakerConfig `mapstructure:"restart_breaker"`
	ExecutionBreaker         BreakerConfig `mapstructure:"execution_breaker"`
}

// BreakerConfig configures a frequency kill switch. MaxEvents <= 0 never trips.
type BreakerConfig struct {
	Window    time.Duration `mapstructure:"window"`
	MaxEvents int           `mapstructure:"max_events"`
}

type NotifyConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	TestMode bool           `mapstructure:"test_mode"` // log messages instead of sending them
	Events   []string       `mapstructure:"events"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Discord  DiscordConfig  `mapstructure:"discord"`
}

type TelegramConfig struct {
	Host   string `mapstructure:"host"`
	Token  string `mapstructure:"token"`
	ChatID string `mapstructure:"chat_id"`
}

type DiscordConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
}

const (
	StorageNone     = "none"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
	StorageMemory   = "memory"
)

type StorageConfig struct {
	Driver         string `mapstructure:"driver"`
	SQLitePath     string `mapstructure:"sqlite_path"`
	CreateDatabase bool   `mapstructure:"create_database"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
	Stream   string `mapstructure:"stream"`
}

type S3Config struct {
	Enabled        bool   `mapstructure:"enabled"`
	Endpoint       string `mapstructure:"endpoint"`
	Region         string `mapstructure:"region"`
	Bucket         string `mapstructure:"bucket"`
	Prefix         string `mapstructure:"prefix"`
	AccessKey      string `mapstructure:"access_key"`
	SecretKey      string `mapstructure:"secret_key"`
	ForcePathStyle bool   `mapstructure:"force_path_style"`
}

// Options defines the logger configuration options.
type LogConfig struct {
	Level       string `mapstructure:"level"`       // log level: "debug", "info", "warn", "error"
	Format      string `mapstructure:"format"`      // log format: "json" or "console"
	OutputFile  string `mapstructure:"output_file"` // file path to store logs (optional)
	Environment string `mapstructure:"environment"` // environment: "dev" or "prod"
}

// Load loads application configuration using Viper.
// It reads from config.yaml (or the given file) and overrides with environment variables.
// A .env file in the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config") // config.yaml
		v.SetConfigType("yaml")

		ex, _ := os.Executable()
		if strings.Contains(ex, "go-build") {
			pwd, _ := os.Getwd()
			v.AddConfigPath(filepath.Join(pwd, "../../config"))
		} else {
			v.AddConfigPath(filepath.Join(filepath.Dir(ex), "../config"))
		}
		v.AddConfigPath("config")
	}

	// Support environment variables with dot notation (e.g., APP_RESTART_DELAY)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Arbitrage.StableCoins = normalizeCoins(cfg.Arbitrage.StableCoins)
	cfg.Arbitrage.MajorCoins = normalizeCoins(cfg.Arbitrage.MajorCoins)
	cfg.Arbitrage.OtherCoins = normalizeCoins(cfg.Arbitrage.OtherCoins)

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("exchange", ExchangeBybit)

	v.SetDefault("bybit.rest.base_url", "https://api.bybit.com")
	v.SetDefault("bybit.rest.timeout", 10*time.Second)
	v.SetDefault("bybit.ws.url", "wss://stream.bybit.com/v5/public/spot")
	v.SetDefault("bybit.ws.depth", 50)
	v.SetDefault("bybit.ws.ping_interval", 20*time.Second)

	v.SetDefault("binance.rest.base_url", "https://api.binance.com")
	v.SetDefault("binance.rest.timeout", 10*time.Second)
	v.SetDefault("binance.ws.url", "wss://stream.binance.com:9443")
	v.SetDefault("binance.ws.update_speed", "100ms")

	v.SetDefault("arbitrage.fee_percentage", 0.1)
	v.SetDefault("orderbook.size", 10)

	v.SetDefault("risk.min_profit_percentage", 1.0)
	v.SetDefault("risk.max_staleness", 3*time.Minute)

	v.SetDefault("app.ignore_unsupported_symbols", false)
	v.SetDefault("app.notify_feed_failure", false)
	v.SetDefault("app.restart_delay", -time.Millisecond)
	v.SetDefault("app.scan_interval", 10*time.Millisecond)
	v.SetDefault("app.execution_cooldown", 5*time.Second)
	v.SetDefault("app.report_interval", 30*time.Second)
	v.SetDefault("app.audit_interval", time.Duration(0))
	v.SetDefault("app.restart_breaker.window", time.Hour)
	v.SetDefault("app.restart_breaker.max_events", -1)
	v.SetDefault("app.execution_breaker.window", time.Hour)
	v.SetDefault("app.execution_breaker.max_events", -1)

	v.SetDefault("notify.enabled", false)
	v.SetDefault("notify.test_mode", false)
	v.SetDefault("notify.telegram.host", "api.telegram.org")

	v.SetDefault("storage.driver", StorageNone)
	v.SetDefault("storage.sqlite_path", "huckster.db")

	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.channel", "huckster:arbitrages")
	v.SetDefault("redis.stream", "huckster:arbitrages:log")

	v.SetDefault("s3.prefix", "arbitrages")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.environment", "dev")
}

func normalizeCoins(coins []string) []string {
	out := make([]string, 0, len(coins))
	for _, c := range coins {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
