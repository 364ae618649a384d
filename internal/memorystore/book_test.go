package memorystore

import (
	"math/rand"
	"sort"
	"testing"
	"time"
)

func levels(pairs ...float64) map[float64]float64 {
	m := make(map[float64]float64, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		m[pairs[i]] = pairs[i+1]
	}
	return m
}

// go test -v --run TestBookInsertAndRemove
func TestBookInsertAndRemove(t *testing.T) {
	book := NewBook(10)
	ts := time.Unix(1700000000, 0)

	book.ApplyDelta(Delta{Timestamp: ts, Asks: levels(101, 1, 100, 2), Bids: levels(99, 3, 98, 4)})

	ask, ok := book.BestAsk()
	if !ok || ask.Price != 100 || ask.Volume != 2 {
		t.Fatalf("best ask = %+v, %v", ask, ok)
	}
	bid, ok := book.BestBid()
	if !ok || bid.Price != 99 || bid.Volume != 3 {
		t.Fatalf("best bid = %+v, %v", bid, ok)
	}

	// remove the best ask, update a bid volume
	book.ApplyDelta(Delta{Timestamp: ts.Add(time.Second), Asks: levels(100, 0), Bids: levels(99, 7)})

	ask, _ = book.BestAsk()
	if ask.Price != 101 {
		t.Errorf("best ask after removal = %v, want 101", ask.Price)
	}
	bid, _ = book.BestBid()
	if bid.Volume != 7 {
		t.Errorf("bid volume = %v, want 7", bid.Volume)
	}
	if got := book.LastUpdated(); !got.Equal(ts.Add(time.Second)) {
		t.Errorf("lastUpdated = %v", got)
	}

	// removing an absent price is a no-op on the levels
	book.ApplyDelta(Delta{Timestamp: ts.Add(2 * time.Second), Asks: levels(555, 0)})
	if a, b := book.Depth(); a != 1 || b != 2 {
		t.Errorf("depth = %d/%d, want 1/2", a, b)
	}
}

// go test -v --run TestBookCapacity
func TestBookCapacity(t *testing.T) {
	book := NewBook(3)

	asks := map[float64]float64{}
	bids := map[float64]float64{}
	for p := 1.0; p <= 8; p++ {
		asks[100+p] = 1
		bids[100-p] = 1
	}
	book.ApplyDelta(Delta{Timestamp: time.Now(), Asks: asks, Bids: bids})

	snap := book.Snapshot()
	if len(snap.Asks) != 3 || len(snap.Bids) != 3 {
		t.Fatalf("depth = %d/%d, want 3/3", len(snap.Asks), len(snap.Bids))
	}
	wantAsks := []float64{101, 102, 103}
	wantBids := []float64{99, 98, 97}
	for i := range wantAsks {
		if snap.Asks[i].Price != wantAsks[i] {
			t.Errorf("asks[%d] = %v, want %v", i, snap.Asks[i].Price, wantAsks[i])
		}
		if snap.Bids[i].Price != wantBids[i] {
			t.Errorf("bids[%d] = %v, want %v", i, snap.Bids[i].Price, wantBids[i])
		}
	}

	// a worse ask than the tail is evicted immediately
	book.ApplyDelta(Delta{Timestamp: time.Now(), Asks: levels(200, 1)})
	if a, _ := book.Depth(); a != 3 {
		t.Errorf("ask depth = %d, want 3", a)
	}
	if snap := book.Snapshot(); snap.Asks[2].Price != 103 {
		t.Errorf("tail ask = %v, want 103", snap.Asks[2].Price)
	}
}

// go test -v --run TestBookEmptyDelta
func TestBookEmptyDelta(t *testing.T) {
	book := NewBook(10)
	ts := time.Unix(1700000000, 0)
	book.ApplyDelta(Delta{Timestamp: ts, Asks: levels(10, 1)})

	before := book.Snapshot()
	book.ApplyDelta(Delta{Timestamp: ts.Add(time.Hour)})
	after := book.Snapshot()

	if !after.LastUpdated.Equal(before.LastUpdated) {
		t.Errorf("empty delta moved lastUpdated from %v to %v", before.LastUpdated, after.LastUpdated)
	}
	if len(after.Asks) != 1 || after.Asks[0] != before.Asks[0] {
		t.Errorf("empty delta changed asks: %+v", after.Asks)
	}
}

// go test -v --run TestBookOneSidedDelta
func TestBookOneSidedDelta(t *testing.T) {
	book := NewBook(10)
	book.ApplyDelta(Delta{Timestamp: time.Unix(1, 0), Asks: levels(10, 1), Bids: levels(9, 1)})
	book.ApplyDelta(Delta{Timestamp: time.Unix(2, 0), Asks: levels(11, 1)})

	if _, b := book.Depth(); b != 1 {
		t.Errorf("bid side changed by ask-only delta: depth %d", b)
	}
	if got := book.LastUpdated(); !got.Equal(time.Unix(2, 0)) {
		t.Errorf("lastUpdated = %v", got)
	}
}

// go test -v --run TestBookReset
func TestBookReset(t *testing.T) {
	book := NewBook(10)
	book.ApplyDelta(Delta{Timestamp: time.Unix(1, 0), Asks: levels(10, 1, 11, 1), Bids: levels(9, 1)})
	book.ApplyDelta(Delta{Timestamp: time.Unix(2, 0), Asks: levels(12, 5), Reset: true})

	snap := book.Snapshot()
	if len(snap.Asks) != 1 || snap.Asks[0].Price != 12 {
		t.Errorf("asks after reset = %+v", snap.Asks)
	}
	if len(snap.Bids) != 0 {
		t.Errorf("bids after reset = %+v", snap.Bids)
	}
}

// go test -v --run TestBookClear
func TestBookClear(t *testing.T) {
	book := NewBook(10)
	book.ApplyDelta(Delta{Timestamp: time.Unix(1, 0), Asks: levels(10, 1), Bids: levels(9, 1)})
	book.Clear()

	if _, ok := book.BestAsk(); ok {
		t.Error("expected no ask after clear")
	}
	if _, ok := book.BestBid(); ok {
		t.Error("expected no bid after clear")
	}
	if !book.LastUpdated().IsZero() {
		t.Error("expected zero lastUpdated after clear")
	}
}

// go test -v --run TestBookMatchesReference
func TestBookMatchesReference(t *testing.T) {
	const size = 5
	rng := rand.New(rand.NewSource(42))
	book := NewBook(size)
	refAsks := map[float64]float64{}
	refBids := map[float64]float64{}

	for step := 0; step < 2000; step++ {
		d := Delta{Timestamp: time.Unix(int64(step), 0), Asks: map[float64]float64{}, Bids: map[float64]float64{}}
		for n := rng.Intn(4); n > 0; n-- {
			d.Asks[float64(100+rng.Intn(20))] = float64(rng.Intn(3))
			d.Bids[float64(80+rng.Intn(20))] = float64(rng.Intn(3))
		}
		book.ApplyDelta(d)
		applyReference(refAsks, d.Asks, true, size)
		applyReference(refBids, d.Bids, false, size)

		snap := book.Snapshot()
		assertSide(t, step, "asks", snap.Asks, refAsks, true)
		assertSide(t, step, "bids", snap.Bids, refBids, false)
		if t.Failed() {
			return
		}
	}
}

func applyReference(ref, updates map[float64]float64, asc bool, size int) {
	for p, v := range updates {
		if v <= 0 {
			delete(ref, p)
		} else {
			ref[p] = v
		}
	}
	prices := sortedPrices(ref, asc)
	for _, p := range prices[min(len(prices), size):] {
		delete(ref, p)
	}
}

func sortedPrices(ref map[float64]float64, asc bool) []float64 {
	prices := make([]float64, 0, len(ref))
	for p := range ref {
		prices = append(prices, p)
	}
	sort.Slice(prices, func(i, j int) bool {
		if asc {
			return prices[i] < prices[j]
		}
		return prices[i] > prices[j]
	})
	return prices
}

func assertSide(t *testing.T, step int, name string, got []PriceLevel, ref map[float64]float64, asc bool) {
	t.Helper()
	want := sortedPrices(ref, asc)
	if len(got) != len(want) {
		t.Fatalf("step %d: %s depth = %d, want %d", step, name, len(got), len(want))
	}
	for i, p := range want {
		if got[i].Price != p || got[i].Volume != ref[p] {
			t.Fatalf("step %d: %s[%d] = %+v, want {%v %v}", step, name, i, got[i], p, ref[p])
		}
	}
}
