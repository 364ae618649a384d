package memorystore

import (
	"math"
	"sort"
	"sync"
	"time"
)

// Book keeps the best N price levels of each side of a symbol's order book.
// Asks are sorted ascending and bids descending, so index 0 is always the best price.
// One goroutine writes, any number read.
type Book struct {
	mu          sync.RWMutex
	size        int
	asks        []PriceLevel
	bids        []PriceLevel
	lastUpdated time.Time
}

func NewBook(size int) *Book {
	if size <= 0 {
		size = DefaultBookSize
	}
	return &Book{
		size: size,
		asks: make([]PriceLevel, 0, size+1),
		bids: make([]PriceLevel, 0, size+1),
	}
}

// ApplyDelta merges the update into the book and trims each side back to size.
// An empty delta is ignored and does not touch the timestamp.
func (b *Book) ApplyDelta(d Delta) {
	if d.Empty() {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if d.Reset {
		b.asks = b.asks[:0]
		b.bids = b.bids[:0]
	}
	b.asks = applySide(b.asks, d.Asks, ascending, b.size)
	b.bids = applySide(b.bids, d.Bids, descending, b.size)
	b.lastUpdated = d.Timestamp
}

// Clear drops every level. The book counts as never updated afterwards.
func (b *Book) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.asks = b.asks[:0]
	b.bids = b.bids[:0]
	b.lastUpdated = time.Time{}
}

// BestAsk returns the lowest ask, if any.
func (b *Book) BestAsk() (PriceLevel, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.asks) == 0 {
		return PriceLevel{}, false
	}
	return b.asks[0], true
}

// BestBid returns the highest bid, if any.
func (b *Book) BestBid() (PriceLevel, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.bids) == 0 {
		return PriceLevel{}, false
	}
	return b.bids[0], true
}

func (b *Book) LastUpdated() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastUpdated
}

func (b *Book) Depth() (asks, bids int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.asks), len(b.bids)
}

func (b *Book) Size() int {
	return b.size
}

func (b *Book) Snapshot() BookSnapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	asks := make([]PriceLevel, len(b.asks))
	copy(asks, b.asks)
	bids := make([]PriceLevel, len(b.bids))
	copy(bids, b.bids)

	return BookSnapshot{Asks: asks, Bids: bids, LastUpdated: b.lastUpdated}
}

func ascending(a, b float64) bool  { return a < b }
func descending(a, b float64) bool { return a > b }

// applySide upserts or removes each level, keeping the slice ordered by better,
// then truncates the tail so at most size levels remain.
func applySide(levels []PriceLevel, updates map[float64]float64, better func(a, b float64) bool, size int) []PriceLevel {
	for price, volume := range updates {
		if math.IsNaN(price) || math.IsInf(price, 0) {
			continue
		}

		i := sort.Search(len(levels), func(i int) bool { return !better(levels[i].Price, price) })
		found := i < len(levels) && levels[i].Price == price

		switch {
		case volume <= 0 || math.IsNaN(volume):
			if found {
				levels = append(levels[:i], levels[i+1:]...)
			}
		case found:
			levels[i].Volume = volume
		default:
			levels = append(levels, PriceLevel{})
			copy(levels[i+1:], levels[i:])
			levels[i] = PriceLevel{Price: price, Volume: volume}
		}
	}

	if len(levels) > size {
		levels = levels[:size]
	}
	return levels
}
