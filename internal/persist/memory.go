package persist

import (
	"context"
	"sync"

	"huckster/internal/arbitrage"
)

// MemoryStore keeps arbitrages in process memory.
type MemoryStore struct {
	mu         sync.Mutex
	arbitrages []arbitrage.Arbitrage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		arbitrages: make([]arbitrage.Arbitrage, 0),
	}
}

func (m *MemoryStore) Save(_ context.Context, a arbitrage.Arbitrage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.arbitrages = append(m.arbitrages, a)
	return nil
}

func (m *MemoryStore) All() []arbitrage.Arbitrage {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]arbitrage.Arbitrage, len(m.arbitrages))
	copy(out, m.arbitrages)
	return out
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.arbitrages)
}
