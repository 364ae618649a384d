package logger

import (
	"os"
	"path/filepath"
	"testing"

	"huckster/config"
)

// go test -v --run TestNewInvalidLevel
func TestNewInvalidLevel(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

// go test -v --run TestNewWritesFile
func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "huckster.log")

	log, err := New(config.LogConfig{
		Level:       "debug",
		Format:      "json",
		OutputFile:  path,
		Environment: "prod",
	})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	Component(log, "test").Info("hello")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected log file to contain the entry")
	}
}

// go test -v --run TestComponentNil
func TestComponentNil(t *testing.T) {
	if Component(nil, "x") == nil {
		t.Fatal("expected a usable logger")
	}
}
