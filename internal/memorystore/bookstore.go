package memorystore

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// BookStore owns one Book per symbol. The map is guarded by its own lock and is
// effectively read-only once CreateBooks has run; each book carries its own lock
// so updates to different symbols never contend.
type BookStore struct {
	globalMu sync.RWMutex
	size     int
	books    map[string]*Book
	logger   *zap.Logger
}

func NewBookStore(size int, logger *zap.Logger) *BookStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if size <= 0 {
		size = DefaultBookSize
	}
	return &BookStore{
		size:   size,
		books:  make(map[string]*Book),
		logger: logger,
	}
}

// CreateBooks registers an empty book for every symbol. Symbols that already
// have a book keep it.
func (s *BookStore) CreateBooks(symbols []string) {
	s.globalMu.Lock()
	defer s.globalMu.Unlock()

	for _, symbol := range symbols {
		if _, ok := s.books[symbol]; !ok {
			s.books[symbol] = NewBook(s.size)
		}
	}
}

// Book returns the book registered for symbol.
func (s *BookStore) Book(symbol string) (*Book, bool) {
	s.globalMu.RLock()
	book, ok := s.books[symbol]
	s.globalMu.RUnlock()
	return book, ok
}

// ApplyDelta routes the update to the symbol's book. Updates for symbols
// without a book are dropped and false is returned.
func (s *BookStore) ApplyDelta(symbol string, d Delta) bool {
	book, ok := s.Book(symbol)
	if !ok {
		s.logger.Debug("dropping delta for unregistered symbol", zap.String("symbol", symbol))
		return false
	}
	book.ApplyDelta(d)
	return true
}

// ClearAll empties every book but keeps them registered.
func (s *BookStore) ClearAll() {
	s.globalMu.RLock()
	defer s.globalMu.RUnlock()

	for _, book := range s.books {
		book.Clear()
	}
}

// Symbols returns the registered symbols in sorted order.
func (s *BookStore) Symbols() []string {
	s.globalMu.RLock()
	out := make([]string, 0, len(s.books))
	for symbol := range s.books {
		out = append(out, symbol)
	}
	s.globalMu.RUnlock()

	sort.Strings(out)
	return out
}

func (s *BookStore) Len() int {
	s.globalMu.RLock()
	defer s.globalMu.RUnlock()
	return len(s.books)
}

// CountFresh returns how many books were updated within maxAge of now.
func (s *BookStore) CountFresh(now time.Time, maxAge time.Duration) int {
	s.globalMu.RLock()
	defer s.globalMu.RUnlock()

	fresh := 0
	for _, book := range s.books {
		last := book.LastUpdated()
		if !last.IsZero() && now.Sub(last) <= maxAge {
			fresh++
		}
	}
	return fresh
}

// LevelStats sums the price levels held across all books and counts the books
// whose both sides are filled to capacity.
func (s *BookStore) LevelStats() (asks, bids, full int) {
	s.globalMu.RLock()
	defer s.globalMu.RUnlock()

	for _, book := range s.books {
		a, b := book.Depth()
		asks += a
		bids += b
		if a == book.Size() && b == book.Size() {
			full++
		}
	}
	return asks, bids, full
}
