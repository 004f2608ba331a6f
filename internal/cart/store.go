// Package cart holds the client-side shopping cart and its persisted mirror.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StorageKey is the key the cart is mirrored under.
const StorageKey = "cart"

var (
	ErrInvalidItem = errors.New("invalid cart item")
	// ErrPersist marks a mutation that was applied in memory but could not be
	// written to the mirror. Treat it as a warning.
	ErrPersist = errors.New("cart not persisted")
)

// Snapshot is a consistent view of the cart handed to listeners.
type Snapshot struct {
	Items []domain.LineItem
	Total decimal.Decimal
	Count int
}

type Listener func(Snapshot)

type Store struct {
	// writeMu orders mutations end to end so the mirror and listeners see
	// changes in the order they were applied.
	writeMu sync.Mutex

	mu    sync.Mutex
	items []domain.LineItem

	kv  port.KeyValueStore
	key string
	log *zap.Logger

	listenersMu sync.Mutex
	listeners   map[int]Listener
	nextID      int
}

type Option func(*Store)

func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// New builds a Store hydrated from kv. It never fails: a missing or malformed
// mirror yields an empty cart.
func New(ctx context.Context, kv port.KeyValueStore, opts ...Option) *Store {
	s := &Store{
		kv:        kv,
		key:       StorageKey,
		log:       zap.NewNop(),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.items = s.hydrate(ctx)

	return s
}

func (s *Store) hydrate(ctx context.Context) []domain.LineItem {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, port.ErrNotFound) {
			s.log.Warn("cart mirror unreadable, starting empty", zap.String("key", s.key), zap.Error(err))
		}
		return nil
	}

	items, err := Unmarshal(data)
	if err != nil {
		s.log.Warn("cart mirror malformed, starting empty", zap.String("key", s.key), zap.Error(err))
		return nil
	}

	s.log.Debug("cart hydrated", zap.Int("items", len(items)))

	return items
}

// AddItem adds one unit of item. Quantity on item is ignored.
func (s *Store) AddItem(ctx context.Context, item domain.LineItem) error {
	if item.ID == "" {
		return fmt.Errorf("%w: id is empty", ErrInvalidItem)
	}
	if item.Type == "" {
		return fmt.Errorf("%w: type is empty", ErrInvalidItem)
	}
	if item.Price.IsNegative() {
		return fmt.Errorf("%w: price[%s] is negative", ErrInvalidItem, item.Price)
	}

	return s.mutate(ctx, func(items []domain.LineItem) ([]domain.LineItem, bool) {
		if i := indexOf(items, item.Key()); i >= 0 {
			items[i].Quantity++
			return items, true
		}

		item.Quantity = 1
		return append(items, item), true
	})
}

// RemoveItem deletes the entry for key. Absent keys are a no-op.
func (s *Store) RemoveItem(ctx context.Context, key domain.ItemKey) error {
	return s.mutate(ctx, func(items []domain.LineItem) ([]domain.LineItem, bool) {
		i := indexOf(items, key)
		if i < 0 {
			return items, false
		}
		return append(items[:i], items[i+1:]...), true
	})
}

// UpdateQuantity sets the quantity for key. A quantity of zero or less removes
// the entry. Absent keys are a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, key domain.ItemKey, quantity int) error {
	return s.mutate(ctx, func(items []domain.LineItem) ([]domain.LineItem, bool) {
		i := indexOf(items, key)
		if i < 0 {
			return items, false
		}
		if quantity <= 0 {
			return append(items[:i], items[i+1:]...), true
		}
		items[i].Quantity = quantity
		return items, true
	})
}

// Subtract takes the quantities in items off the matching entries and drops
// entries that reach zero. Keys not in the cart are skipped.
func (s *Store) Subtract(ctx context.Context, items []domain.LineItem) error {
	return s.mutate(ctx, func(current []domain.LineItem) ([]domain.LineItem, bool) {
		changed := false
		for _, it := range items {
			i := indexOf(current, it.Key())
			if i < 0 || it.Quantity <= 0 {
				continue
			}
			changed = true
			if current[i].Quantity <= it.Quantity {
				current = append(current[:i], current[i+1:]...)
				continue
			}
			current[i].Quantity -= it.Quantity
		}
		return current, changed
	})
}

func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, func([]domain.LineItem) ([]domain.LineItem, bool) {
		return nil, true
	})
}

// Total is the sum of price times quantity over all entries.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return total(s.items)
}

// ItemCount is the sum of quantities.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return count(s.items)
}

// Items returns a copy of the entries in insertion order.
func (s *Store) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return clone(s.items)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return snapshot(s.items)
}

// Subscribe registers fn to be called after every change. The returned
// function removes the registration. Listeners may read the store but must
// not mutate it.
func (s *Store) Subscribe(fn Listener) func() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()

		delete(s.listeners, id)
	}
}

// mutate applies fn under the lock, persists and notifies when fn reports a change.
func (s *Store) mutate(ctx context.Context, fn func([]domain.LineItem) ([]domain.LineItem, bool)) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	items, changed := fn(s.items)
	if !changed {
		s.mu.Unlock()
		return nil
	}
	s.items = items
	snap := snapshot(items)
	s.mu.Unlock()

	err := s.persist(ctx, snap.Items)
	if err != nil {
		s.log.Warn("cart mirror write failed", zap.String("key", s.key), zap.Error(err))
		err = fmt.Errorf("%w: %w", ErrPersist, err)
	}

	s.notify(snap)

	return err
}

func (s *Store) persist(ctx context.Context, items []domain.LineItem) error {
	data, err := Marshal(items)
	if err != nil {
		return fmt.Errorf("Marshal: %w", err)
	}

	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("kv.Set: %w", err)
	}

	return nil
}

func (s *Store) notify(snap Snapshot) {
	s.listenersMu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.listenersMu.Unlock()

	for _, l := range listeners {
		l(Snapshot{Items: clone(snap.Items), Total: snap.Total, Count: snap.Count})
	}
}

func indexOf(items []domain.LineItem, key domain.ItemKey) int {
	for i, item := range items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}

func total(items []domain.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Subtotal())
	}
	return sum
}

func count(items []domain.LineItem) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}

func clone(items []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	copy(out, items)
	return out
}

func snapshot(items []domain.LineItem) Snapshot {
	return Snapshot{
		Items: clone(items),
		Total: total(items),
		Count: count(items),
	}
}
