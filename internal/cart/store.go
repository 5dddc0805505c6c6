// Package cart holds the customer's shopping cart: an observable list of
// (beer, quantity) lines persisted to a durable key-value slot on every
// mutation.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ekoelbar/barclient/internal/domain"
	"github.com/ekoelbar/barclient/internal/storage"
)

// StorageKey is the fixed slot the cart is persisted under
const StorageKey = "ek-oelbar-cart"

// Line is one (beer, quantity) pair. At most one line exists per beer id.
type Line struct {
	Item     domain.Beer `json:"item"`
	Quantity int         `json:"quantity"`
}

// Subtotal is the unit price times quantity
func (l Line) Subtotal() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Store is the single owner of cart state. It is safe for concurrent use;
// every read observes all mutations that returned before it.
type Store struct {
	mu      sync.Mutex
	lines   []Line
	storage storage.Storage
	logger  *zap.Logger

	subs   map[int]chan []Line
	nextID int
}

// NewStore restores the cart from st. A missing or unreadable slot yields an
// empty cart; the failure is logged, not returned.
func NewStore(ctx context.Context, st storage.Storage, logger *zap.Logger) *Store {
	s := &Store{
		storage: st,
		logger:  logger,
		subs:    make(map[int]chan []Line),
	}
	s.lines = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []Line {
	data, err := s.storage.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.logger.Error("Failed to load cart from storage", zap.Error(err))
		return nil
	}

	var stored []Line
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logger.Warn("Discarding unreadable cart", zap.Error(err))
		return nil
	}

	// A hand-edited or older slot may repeat a beer; fold duplicates so the
	// one-line-per-beer rule holds from the start.
	lines := make([]Line, 0, len(stored))
	for _, l := range stored {
		if i := indexOf(lines, l.Item.ID); i >= 0 {
			lines[i].Quantity += l.Quantity
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

// Add merges quantity into the existing line for item, or appends a new
// line. No bounds are enforced; a zero quantity creates a zero line.
func (s *Store) Add(ctx context.Context, item domain.Beer, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.copyLines()
	if i := indexOf(lines, item.ID); i >= 0 {
		lines[i].Quantity += quantity
	} else {
		lines = append(lines, Line{Item: item, Quantity: quantity})
	}
	s.commit(ctx, lines)
}

// UpdateQuantity replaces the quantity of an existing line. A quantity of
// zero or less removes the line. Unknown ids are ignored.
func (s *Store) UpdateQuantity(ctx context.Context, beerID int64, quantity int) {
	if quantity <= 0 {
		s.Remove(ctx, beerID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.copyLines()
	if i := indexOf(lines, beerID); i >= 0 {
		lines[i].Quantity = quantity
	}
	s.commit(ctx, lines)
}

// Remove deletes the line for beerID if present
func (s *Store) Remove(ctx context.Context, beerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]Line, 0, len(s.lines))
	for _, l := range s.lines {
		if l.Item.ID != beerID {
			lines = append(lines, l)
		}
	}
	s.commit(ctx, lines)
}

// Clear empties the cart and persists the empty state
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.commit(ctx, []Line{})
}

// Lines returns a snapshot of the current lines in insertion order
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.copyLines()
}

// Count is the sum of all quantities
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, l := range s.lines {
		count += l.Quantity
	}
	return count
}

// Total is the sum of unit price times quantity over all lines
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (s *Store) Contains(beerID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return indexOf(s.lines, beerID) >= 0
}

func (s *Store) QuantityOf(beerID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := indexOf(s.lines, beerID); i >= 0 {
		return s.lines[i].Quantity
	}
	return 0
}

// Subscribe returns a channel that immediately holds the current lines and
// afterwards always holds the latest snapshot. A slow reader skips
// intermediate states but never misses the final one. Call cancel to stop
// receiving; it closes the channel.
func (s *Store) Subscribe() (<-chan []Line, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan []Line, 1)
	ch <- s.copyLines()

	id := s.nextID
	s.nextID++
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// commit must be called with mu held
func (s *Store) commit(ctx context.Context, lines []Line) {
	s.lines = lines
	s.persist(ctx)
	s.publish()
}

func (s *Store) persist(ctx context.Context) {
	lines := s.lines
	if lines == nil {
		lines = []Line{}
	}

	data, err := json.Marshal(lines)
	if err != nil {
		s.logger.Error("Failed to encode cart", zap.Error(err))
		return
	}
	if err := s.storage.Set(ctx, StorageKey, data); err != nil {
		s.logger.Error("Failed to save cart to storage", zap.Error(err))
	}
}

func (s *Store) publish() {
	for _, ch := range s.subs {
		// drop the stale snapshot, if the reader has not taken it yet
		select {
		case <-ch:
		default:
		}
		ch <- s.copyLines()
	}
}

func (s *Store) copyLines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func indexOf(lines []Line, beerID int64) int {
	for i, l := range lines {
		if l.Item.ID == beerID {
			return i
		}
	}
	return -1
}
