package memorystore

import "time"

// DefaultBookSize is the number of price levels kept per side when no size is configured.
const DefaultBookSize = 10

// PriceLevel is a single price/volume pair on one side of a book.
type PriceLevel struct {
	Price  float64 `json:"price"`
	Volume float64 `json:"volume"`
}

// Delta is an incremental order book update for one symbol.
// A volume <= 0 removes the level at that price, anything else upserts it.
// Reset marks an exchange snapshot: both sides are cleared before the levels are applied.
type Delta struct {
	Timestamp time.Time
	Asks      map[float64]float64
	Bids      map[float64]float64
	Reset     bool
}

// Empty reports whether applying the delta would change nothing, not even the timestamp.
func (d Delta) Empty() bool {
	return len(d.Asks) == 0 && len(d.Bids) == 0 && !d.Reset
}

// SymbolDelta is one item produced by a market data feed.
type SymbolDelta struct {
	Symbol string
	Delta
}

// BookSnapshot is a point-in-time copy of a book, safe to hold without locks.
type BookSnapshot struct {
	Asks        []PriceLevel `json:"asks"` // ascending, best first
	Bids        []PriceLevel `json:"bids"` // descending, best first
	LastUpdated time.Time    `json:"last_updated"`
}
