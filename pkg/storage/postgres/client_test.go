package postgres_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"huckster/config"
	"huckster/pkg/storage/postgres"
)

func localPostgres() config.PostgresConfig {
	return config.PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "yourpw",
		DBName:   "huckster",
		SSLMode:  "disable",
		TimeZone: "UTC",

		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 1 * time.Hour,
	}
}

func newSQLite(t *testing.T) *postgres.Client {
	t.Helper()
	client, err := postgres.InitializeSQLite(filepath.Join(t.TempDir(), "huckster.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// go test -v --run ^TestPostgresInvalidDSN$
func TestPostgresInvalidDSN(t *testing.T) {
	invalidDSN := "host=invalid port=5432 user=fail password=fail dbname=fail sslmode=disable connect_timeout=2"

	_, err := postgres.NewClient(invalidDSN)
	if err == nil {
		t.Fatal("expected error for invalid DSN, got nil")
	}
}

// go test -v --run ^TestPostgresClientWithConfig$
func TestPostgresClientWithConfig(t *testing.T) {
	cfg := localPostgres()

	dsn, err := cfg.DSN("dev")
	if err != nil {
		t.Fatalf("dsn: %v", err)
	}
	client, err := postgres.NewClient(dsn)
	if err != nil {
		t.Skipf("postgres not reachable: %v", err)
	}
	defer client.Close()

	if err := client.ConfigurePool(cfg); err != nil {
		t.Fatalf("configure pool: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if !client.IsHealthy(ctx) {
		t.Fatal("expected healthy DB connection")
	}
	if err := client.AutoMigrateArbitrageRecord(); err != nil {
		t.Fatalf("auto migration failed: %v", err)
	}
}

// go test -v --run ^TestSQLiteHealthy$
func TestSQLiteHealthy(t *testing.T) {
	client := newSQLite(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if !client.IsHealthy(ctx) {
		t.Fatal("expected healthy sqlite connection")
	}
	if !client.DB.Migrator().HasTable("arbitrages") || !client.DB.Migrator().HasTable("arbitrage_orders") {
		t.Fatal("expected arbitrage tables to be migrated")
	}
}
