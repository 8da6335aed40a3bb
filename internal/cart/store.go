package cart

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"storefront-demo/internal/model"
	"storefront-demo/internal/storage"
)

const persistTimeout = 5 * time.Second

// Store owns the canonical cart state. Items keep insertion order; a
// presence index keyed by product id backs the toggle semantics.
// Every mutation schedules an asynchronous write of the full state, so
// the persisted mirror converges to the latest mutation (last write
// wins, no diffs).
type Store struct {
	mu    sync.Mutex
	items []model.LineItem
	index map[string]int // product id -> position in items

	deliveryCharge float64
	discount       float64

	persistence storage.Store
	logger      *slog.Logger

	pendMu  sync.Mutex
	pending *model.CartSnapshot
	notify  chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

func NewStore(persistence storage.Store, logger *slog.Logger) *Store {
	s := &Store{
		index:          make(map[string]int),
		deliveryCharge: DeliveryCharge,
		discount:       DefaultDiscount,
		persistence:    persistence,
		logger:         logger,
		notify:         make(chan struct{}, 1),
		done:           make(chan struct{}),
	}

	s.wg.Add(1)
	go s.writeLoop()

	return s
}

// AddOrToggle adds the product with quantity 1, or removes it when it
// is already in the cart. Calling it twice with the same product id
// restores the cart to its prior state.
func (s *Store) AddOrToggle(p model.Product) {
	s.mu.Lock()
	if i, ok := s.index[p.ID]; ok {
		s.removeAtLocked(i)
	} else {
		s.index[p.ID] = len(s.items)
		s.items = append(s.items, model.LineItem{Product: p, Quantity: 1})
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.scheduleWrite(snap)
}

// Remove deletes the line item for the product id. Unknown ids are a
// silent no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	i, ok := s.index[id]
	if ok {
		s.removeAtLocked(i)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if ok {
		s.scheduleWrite(snap)
	}
}

// RemoveAt deletes the line item at the given position. Out-of-range
// positions are a silent no-op.
func (s *Store) RemoveAt(i int) {
	s.mu.Lock()
	ok := i >= 0 && i < len(s.items)
	if ok {
		s.removeAtLocked(i)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if ok {
		s.scheduleWrite(snap)
	}
}

// ChangeQuantity applies delta to the item's quantity with a floor of
// 1: decrementing at quantity 1 leaves it at 1. There is no upper
// bound. Unknown ids are a silent no-op.
func (s *Store) ChangeQuantity(id string, delta int) {
	s.mu.Lock()
	i, ok := s.index[id]
	if ok {
		qty := s.items[i].Quantity + delta
		if qty < 1 {
			qty = 1
		}
		s.items[i].Quantity = qty
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if ok {
		s.scheduleWrite(snap)
	}
}

// Clear empties the cart. Checkout calls this after the order has been
// accepted by the server.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.index = make(map[string]int)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.scheduleWrite(snap)
}

// Snapshot returns a copy of the items plus a freshly computed pricing
// summary. The summary is recomputed on every call, never cached.
func (s *Store) Snapshot() model.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Rehydrate loads the persisted item list. A missing key, malformed
// payload or storage failure all yield an empty cart; none of them are
// surfaced to the caller.
func (s *Store) Rehydrate(ctx context.Context) {
	raw, err := s.persistence.Get(ctx, storage.KeyCart)
	if err != nil {
		if err != storage.ErrNotFound {
			s.logger.Warn("cart rehydrate failed, starting empty", "error", err)
		}
		return
	}

	var items []model.LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn("persisted cart malformed, starting empty", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.index = make(map[string]int)
	for _, it := range items {
		if _, dup := s.index[it.ID]; dup {
			continue
		}
		if it.Quantity < 1 {
			it.Quantity = 1
		}
		s.index[it.ID] = len(s.items)
		s.items = append(s.items, it)
	}
}

// Close flushes any pending persistence write and stops the writer.
func (s *Store) Close() {
	s.once.Do(func() { close(s.done) })
	s.wg.Wait()
}

func (s *Store) removeAtLocked(i int) {
	id := s.items[i].ID
	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j].ID] = j
	}
}

func (s *Store) snapshotLocked() model.CartSnapshot {
	items := make([]model.LineItem, len(s.items))
	copy(items, s.items)
	return model.CartSnapshot{
		Items:          items,
		PricingSummary: Compute(items, s.deliveryCharge, s.discount),
	}
}

// scheduleWrite hands the snapshot to the writer goroutine. Only the
// latest snapshot is kept; intermediate states may be skipped since
// every write carries the full state.
func (s *Store) scheduleWrite(snap model.CartSnapshot) {
	s.pendMu.Lock()
	s.pending = &snap
	s.pendMu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *Store) writeLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.notify:
			s.flush()
		case <-s.done:
			s.flush()
			return
		}
	}
}

func (s *Store) flush() {
	s.pendMu.Lock()
	snap := s.pending
	s.pending = nil
	s.pendMu.Unlock()

	if snap == nil {
		return
	}
	s.persist(*snap)
}

// persist mirrors the full state under both keys: the raw item list
// and the derived snapshot. Failures are logged and otherwise
// swallowed; there is no durability guarantee on abrupt termination.
func (s *Store) persist(snap model.CartSnapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	items, err := json.Marshal(snap.Items)
	if err != nil {
		s.logger.Warn("marshal cart items", "error", err)
		return
	}
	if err := s.persistence.Set(ctx, storage.KeyCart, string(items)); err != nil {
		s.logger.Warn("persist cart items", "error", err)
	}

	view, err := json.Marshal(snap)
	if err != nil {
		s.logger.Warn("marshal cart snapshot", "error", err)
		return
	}
	if err := s.persistence.Set(ctx, storage.KeyCartView, string(view)); err != nil {
		s.logger.Warn("persist cart snapshot", "error", err)
	}
}
