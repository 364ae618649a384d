package postgres

import (
	"context"
	"fmt"

	"huckster/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Client wraps a gorm connection. Postgres is the production backend; SQLite
// serves local runs and tests through the same schema.
type Client struct {
	DB *gorm.DB
}

func NewClient(dsn string) (*Client, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return &Client{DB: db}, nil
}

func NewSQLiteClient(path string) (*Client, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	return &Client{DB: db}, nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}
}

// InitializeAndMigrate connects to Postgres, optionally creates the database
// first, applies the pool settings and migrates the arbitrage tables.
func InitializeAndMigrate(cfg config.PostgresConfig, env string, createDB bool) (*Client, error) {
	if createDB {
		if err := CreateDatabase(cfg, env); err != nil {
			return nil, fmt.Errorf("failed to create database: %w", err)
		}
	}

	// Resolve credentials and connect
	dsn, err := cfg.DSN(env)
	if err != nil {
		return nil, err
	}
	client, err := NewClient(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if err := client.ConfigurePool(cfg); err != nil {
		_ = client.Close()
		return nil, err
	}

	// Migrate the arbitrage tables
	if err := client.AutoMigrateArbitrageRecord(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return client, nil
}

// InitializeSQLite opens (or creates) the SQLite file and migrates it.
func InitializeSQLite(path string) (*Client, error) {
	client, err := NewSQLiteClient(path)
	if err != nil {
		return nil, err
	}
	if err := client.AutoMigrateArbitrageRecord(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return client, nil
}

func (p *Client) ConfigurePool(cfg config.PostgresConfig) error {
	db, err := p.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to retrieve raw DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	return nil
}

func (p *Client) AutoMigrateArbitrageRecord() error {
	if err := p.DB.AutoMigrate(&ArbitrageRecord{}, &ArbitrageOrderRecord{}); err != nil {
		return fmt.Errorf("auto-migrate arbitrage tables: %w", err)
	}
	return nil
}

func (p *Client) IsHealthy(ctx context.Context) bool {
	db, err := p.DB.DB()
	if err != nil {
		return false
	}
	return db.PingContext(ctx) == nil
}

func (p *Client) Close() error {
	db, err := p.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to retrieve raw DB: %w", err)
	}
	return db.Close()
}
