package health

import (
	"sync"
	"time"
)

// FrequencyBreaker trips when more than maxEvents events are counted within a
// rolling window. A maxEvents <= 0 disables it.
type FrequencyBreaker struct {
	mu        sync.Mutex
	name      string
	window    time.Duration
	maxEvents int
	events    []time.Time // oldest first
}

func NewFrequencyBreaker(name string, window time.Duration, maxEvents int) *FrequencyBreaker {
	return &FrequencyBreaker{
		name:      name,
		window:    window,
		maxEvents: maxEvents,
	}
}

func (b *FrequencyBreaker) Name() string { return b.name }

func (b *FrequencyBreaker) Enabled() bool { return b.maxEvents > 0 }

// CountEventAndCheck records an event at now and reports whether the number of
// events inside (now-window, now] exceeds the limit.
func (b *FrequencyBreaker) CountEventAndCheck(now time.Time) bool {
	if !b.Enabled() {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.events = append(b.events, now)
	b.purge(now)
	return len(b.events) > b.maxEvents
}

// Count returns the number of events currently kept in the window.
func (b *FrequencyBreaker) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

func (b *FrequencyBreaker) purge(now time.Time) {
	cutoff := now.Add(-b.window)
	i := 0
	for i < len(b.events) && b.events[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		b.events = append(b.events[:0], b.events[i:]...)
	}
}
