package sync

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Collection applies the optimistic mutation protocol to one list's items:
// every mutation lands in the in-memory slice first, then issues the backend
// call, then reconciles or rolls back. Rollbacks restore the value captured
// when that specific request was issued, never a snapshot from load time, so
// interleaved mutations on other items cannot corrupt the revert.
type Collection[T Item[T]] struct {
	api    ItemAPI[T]
	listID string
	logger *slog.Logger
	report func(error)

	mu     sync.Mutex
	items  []T
	busy   map[string]int
	closed bool
}

func NewCollection[T Item[T]](api ItemAPI[T], listID string, report func(error), logger *slog.Logger) *Collection[T] {
	if report == nil {
		report = func(error) {}
	}
	return &Collection[T]{
		api:    api,
		listID: listID,
		logger: logger,
		report: report,
		busy:   map[string]int{},
	}
}

// Load fetches the collection from the backend, replacing local state.
func (c *Collection[T]) Load(ctx context.Context) error {
	items, err := c.api.List(ctx, c.listID)
	if err != nil {
		return err
	}
	c.mu.Lock()
	if !c.closed {
		c.items = items
	}
	c.mu.Unlock()
	return nil
}

// Items returns a copy of the current in-memory collection.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Busy reports whether a mutation is in flight for the given item id. Busy
// state is per item; unrelated items stay interactive.
func (c *Collection[T]) Busy(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy[id] > 0
}

// Close marks the collection as torn down. Responses that land afterwards
// are dropped instead of mutating state owned by a view that no longer
// exists.
func (c *Collection[T]) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// Create inserts item provisionally under a temporary id, then issues the
// backend insert. On success the server record is spliced in place of the
// provisional one; on failure the provisional item is removed and the error
// reported.
func (c *Collection[T]) Create(ctx context.Context, item T) (T, error) {
	tmpID := "tmp-" + uuid.NewString()
	provisional := item.WithItemID(tmpID)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		var zero T
		return zero, context.Canceled
	}
	c.items = append(c.items, provisional)
	c.busy[tmpID]++
	c.mu.Unlock()

	created, err := c.api.Create(ctx, c.listID, item)

	c.mu.Lock()
	c.busy[tmpID]--
	if c.busy[tmpID] == 0 {
		delete(c.busy, tmpID)
	}
	if c.closed {
		c.mu.Unlock()
		return created, err
	}
	if err != nil {
		c.removeLocked(tmpID)
		c.mu.Unlock()
		c.report(err)
		var zero T
		return zero, err
	}
	for i := range c.items {
		if c.items[i].ItemID() == tmpID {
			c.items[i] = created
			break
		}
	}
	c.mu.Unlock()
	return created, nil
}

// Update applies the mutation returned by apply immediately, then issues the
// backend update. The pre-issue value is captured at that moment; a failure
// restores exactly it.
func (c *Collection[T]) Update(ctx context.Context, id string, apply func(T) T) error {
	c.mu.Lock()
	idx := c.indexLocked(id)
	if c.closed || idx < 0 {
		c.mu.Unlock()
		return nil
	}
	prev := c.items[idx]
	next := apply(prev)
	c.items[idx] = next
	c.busy[id]++
	c.mu.Unlock()

	updated, err := c.api.Update(ctx, id, next)
	c.settle(id, prev, updated, err)
	return err
}

// Toggle flips the item's boolean flag optimistically and writes the
// explicit value to the backend. Concurrent toggles on the same item are not
// blocked; each one rolls back to its own pre-issue value on failure.
func (c *Collection[T]) Toggle(ctx context.Context, id string, v bool) error {
	c.mu.Lock()
	idx := c.indexLocked(id)
	if c.closed || idx < 0 {
		c.mu.Unlock()
		return nil
	}
	prev := c.items[idx]
	c.items[idx] = prev.WithFlag(v)
	c.busy[id]++
	c.mu.Unlock()

	updated, err := c.api.SetFlag(ctx, id, v)
	c.settle(id, prev, updated, err)
	return err
}

// settle finishes an update-shaped mutation: splice the server record on
// success, restore the pre-issue value on failure.
func (c *Collection[T]) settle(id string, prev, updated T, err error) {
	c.mu.Lock()
	c.busy[id]--
	if c.busy[id] == 0 {
		delete(c.busy, id)
	}
	if c.closed {
		c.mu.Unlock()
		return
	}
	idx := c.indexLocked(id)
	if idx >= 0 {
		if err != nil {
			c.items[idx] = prev
		} else {
			c.items[idx] = updated
		}
	}
	c.mu.Unlock()
	if err != nil {
		c.report(err)
	}
}

// Delete removes the item immediately, retaining a copy. On failure the copy
// is reinserted at its old position and the whole collection is refetched,
// since an optimistic removal may have drifted out of order relative to
// concurrent inserts.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	idx := c.indexLocked(id)
	if c.closed || idx < 0 {
		c.mu.Unlock()
		return nil
	}
	retained := c.items[idx]
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	c.busy[id]++
	c.mu.Unlock()

	err := c.api.Delete(ctx, id)

	c.mu.Lock()
	c.busy[id]--
	if c.busy[id] == 0 {
		delete(c.busy, id)
	}
	if c.closed || err == nil {
		c.mu.Unlock()
		return err
	}
	if idx > len(c.items) {
		idx = len(c.items)
	}
	c.items = append(c.items[:idx], append([]T{retained}, c.items[idx:]...)...)
	c.mu.Unlock()
	c.report(err)

	if refreshErr := c.Load(ctx); refreshErr != nil {
		c.logger.Error("reload after failed delete", "error", refreshErr)
	}
	return err
}

func (c *Collection[T]) indexLocked(id string) int {
	for i := range c.items {
		if c.items[i].ItemID() == id {
			return i
		}
	}
	return -1
}

func (c *Collection[T]) removeLocked(id string) {
	if idx := c.indexLocked(id); idx >= 0 {
		c.items = append(c.items[:idx], c.items[idx+1:]...)
	}
}
