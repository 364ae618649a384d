package snapshot

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type stubLister struct {
	symbols []string
	err     error
}

func (s stubLister) GetSpotSymbols(context.Context) ([]string, error) {
	return s.symbols, s.err
}

// go test -v --run TestLoadSymbols
func TestLoadSymbols(t *testing.T) {
	l := &SymbolLoader{Lister: stubLister{symbols: []string{"BTCUSDT", "ETHBTC", "BTCUSDT"}}, Logger: zap.NewNop()}
	set, err := l.LoadSymbols(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(set) != 2 {
		t.Fatalf("set = %v, want 2 unique symbols", set)
	}
	if _, ok := set["ETHBTC"]; !ok {
		t.Error("ETHBTC missing")
	}
}

// go test -v --run TestLoadSymbolsErrors
func TestLoadSymbolsErrors(t *testing.T) {
	boom := errors.New("boom")
	l := &SymbolLoader{Lister: stubLister{err: boom}, Logger: zap.NewNop()}
	if _, err := l.LoadSymbols(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("error = %v, want boom", err)
	}

	l.Lister = stubLister{}
	if _, err := l.LoadSymbols(context.Background()); err == nil {
		t.Fatal("empty listing should fail")
	}
}
