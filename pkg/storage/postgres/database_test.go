package postgres_test

import (
	"database/sql"
	"testing"

	"huckster/pkg/storage/postgres"

	_ "github.com/lib/pq"
)

// go test -v --run TestCreateDatabase
func TestCreateDatabase(t *testing.T) {
	cfg := localPostgres()
	cfg.DBName = "test_huckster_db"

	dsn, err := cfg.AdminDSN("dev")
	if err != nil {
		t.Fatalf("admin dsn: %v", err)
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("postgres not reachable: %v", err)
	}
	db.Close()

	if err := postgres.CreateDatabase(cfg, "dev"); err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	// second call sees the database and is a no-op
	if err := postgres.CreateDatabase(cfg, "dev"); err != nil {
		t.Fatalf("create is not idempotent: %v", err)
	}
}
