package synced

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"snapai/internal/logging"
)

// Collection is a client-side mirror of one remote table. It exclusively
// owns its in-memory snapshot; the remote store is the source of truth and
// the snapshot is rebuilt from scratch on every process start.
//
// Mutations write through to the remote table first and only then touch the
// snapshot, so a failed write leaves the snapshot untouched. The change feed
// is used purely as an invalidation signal: any notification triggers a full
// re-fetch and snapshot replacement, never a partial patch.
type Collection[T Record[T]] struct {
	table Table[T]
	seed  []T
	newID func() string
	less  func(a, b T) bool

	mu       sync.RWMutex
	snapshot []T

	teardown  sync.Once
	cancelSub func()
	done      chan struct{}
}

// NewCollection creates a mirror of the given table. seed may be nil; when
// non-empty it is written once if Initialize observes an empty table.
func NewCollection[T Record[T]](table Table[T], seed []T) *Collection[T] {
	return &Collection[T]{
		table: table,
		seed:  seed,
		newID: uuid.NewString,
	}
}

// OrderBy sets the table's natural order so optimistic creates land at the
// same position the next re-fetch would put them. Without it a created
// record is appended, which is only right for tables ordered oldest first.
func (c *Collection[T]) OrderBy(less func(a, b T) bool) *Collection[T] {
	c.less = less
	return c
}

// Initialize fetches the full remote table and builds the snapshot. If the
// fetch succeeds with zero rows and a seed set is configured, the seed is
// bulk-inserted and becomes the snapshot verbatim (no re-fetch, to avoid
// racing the write). A transport failure surfaces ErrLoad and the seed path
// is never taken.
func (c *Collection[T]) Initialize(ctx context.Context) error {
	rows, err := c.table.SelectAll(ctx)
	if err != nil {
		logging.SyncError("[%s] initial fetch failed: %v", c.table.Name(), err)
		return fmt.Errorf("%w: %s: %v", ErrLoad, c.table.Name(), err)
	}

	if len(rows) == 0 && len(c.seed) > 0 {
		if err := c.table.BulkInsert(ctx, c.seed); err != nil {
			logging.SyncError("[%s] seed insert failed: %v", c.table.Name(), err)
			return fmt.Errorf("%w: seeding %s: %v", ErrWrite, c.table.Name(), err)
		}
		seeded := make([]T, len(c.seed))
		for i, rec := range c.seed {
			seeded[i] = rec.Clone()
		}
		c.mu.Lock()
		c.snapshot = seeded
		c.mu.Unlock()
		logging.Sync("[%s] seeded %d default records", c.table.Name(), len(seeded))
		return nil
	}

	c.mu.Lock()
	c.snapshot = rows
	c.mu.Unlock()
	logging.SyncDebug("[%s] loaded %d records", c.table.Name(), len(rows))
	return nil
}

// Subscribe opens the change feed and reconciles on every notification:
// re-fetch the authoritative ordered set, replace the snapshot wholesale,
// then invoke onChange with the new snapshot. The notification payload is
// never trusted for correctness. onChange may be nil.
//
// Call Teardown to release the feed. A second Subscribe without a Teardown
// in between would leak a listener, so it returns an error instead.
func (c *Collection[T]) Subscribe(onChange func([]T)) error {
	c.mu.Lock()
	if c.cancelSub != nil {
		c.mu.Unlock()
		return fmt.Errorf("collection %s already subscribed", c.table.Name())
	}
	events, cancel := c.table.Subscribe()
	c.cancelSub = cancel
	c.done = make(chan struct{})
	done := c.done
	c.mu.Unlock()

	go func() {
		defer close(done)
		for ev := range events {
			logging.SyncDebug("[%s] change notification kind=%s id=%s", c.table.Name(), ev.Kind, ev.ID)
			rows, err := c.table.SelectAll(context.Background())
			if err != nil {
				// Keep the previous snapshot; the next notification
				// retries the fetch.
				logging.SyncWarn("[%s] re-fetch after notification failed: %v", c.table.Name(), err)
				continue
			}
			c.mu.Lock()
			c.snapshot = rows
			c.mu.Unlock()
			if onChange != nil {
				onChange(c.Snapshot())
			}
		}
	}()
	return nil
}

// Create validates the record, assigns a locally-generated identifier when
// none is set, writes it remotely, and on success inserts it into the
// snapshot at its store-order position without waiting for the change-feed
// round trip.
func (c *Collection[T]) Create(ctx context.Context, rec T) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if rec.RecordID() == "" {
		rec.SetRecordID(c.newID())
	}
	if err := c.table.Insert(ctx, rec); err != nil {
		logging.SyncError("[%s] create failed: %v", c.table.Name(), err)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	c.mu.Lock()
	c.insertLocked(rec.Clone())
	c.mu.Unlock()
	logging.Sync("[%s] created record %s", c.table.Name(), rec.RecordID())
	return nil
}

// insertLocked places rec where the configured order says the store would
// return it. Must be called with c.mu held.
func (c *Collection[T]) insertLocked(rec T) {
	if c.less == nil {
		c.snapshot = append(c.snapshot, rec)
		return
	}
	i := sort.Search(len(c.snapshot), func(i int) bool {
		return c.less(rec, c.snapshot[i])
	})
	c.snapshot = append(c.snapshot, rec)
	copy(c.snapshot[i+1:], c.snapshot[i:])
	c.snapshot[i] = rec
}

// Update applies fn to a copy of the snapshot record with the given id,
// writes the result remotely, and only on success replaces the snapshot
// entry. A missing id fails with ErrNotFound before any network call; a
// remote failure leaves the snapshot untouched.
func (c *Collection[T]) Update(ctx context.Context, id string, fn func(T)) error {
	c.mu.RLock()
	idx := c.indexOf(id)
	var updated T
	if idx >= 0 {
		updated = c.snapshot[idx].Clone()
	}
	c.mu.RUnlock()
	if idx < 0 {
		return fmt.Errorf("%w: %s %q", ErrNotFound, c.table.Name(), id)
	}

	fn(updated)
	updated.SetRecordID(id) // the identifier never changes
	if err := updated.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := c.table.Update(ctx, updated); err != nil {
		logging.SyncError("[%s] update %s failed: %v", c.table.Name(), id, err)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	c.mu.Lock()
	// Re-locate: a feed re-fetch may have reordered the snapshot between
	// the read above and the remote write completing.
	if i := c.indexOf(id); i >= 0 {
		c.snapshot[i] = updated
	}
	c.mu.Unlock()
	logging.Sync("[%s] updated record %s", c.table.Name(), id)
	return nil
}

// Delete removes the record remotely, then drops it from the snapshot. A
// remote failure leaves the snapshot untouched.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	if err := c.table.Delete(ctx, id); err != nil {
		logging.SyncError("[%s] delete %s failed: %v", c.table.Name(), id, err)
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	c.mu.Lock()
	if i := c.indexOf(id); i >= 0 {
		c.snapshot = append(c.snapshot[:i], c.snapshot[i+1:]...)
	}
	c.mu.Unlock()
	logging.Sync("[%s] deleted record %s", c.table.Name(), id)
	return nil
}

// Get returns a copy of the snapshot record with the given id.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var zero T
	if i := c.indexOf(id); i >= 0 {
		return c.snapshot[i].Clone(), true
	}
	return zero, false
}

// Snapshot returns a copy of the current snapshot in store order.
func (c *Collection[T]) Snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.snapshot))
	for i, rec := range c.snapshot {
		out[i] = rec.Clone()
	}
	return out
}

// Len returns the current snapshot size.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.snapshot)
}

// Teardown releases the change-feed subscription. Idempotent; must be called
// whenever a consuming view is discarded so no live listener leaks.
func (c *Collection[T]) Teardown() {
	c.teardown.Do(func() {
		c.mu.Lock()
		cancel := c.cancelSub
		done := c.done
		c.mu.Unlock()
		if cancel != nil {
			cancel()
			<-done
		}
		logging.SyncDebug("[%s] collection torn down", c.table.Name())
	})
}

// indexOf must be called with c.mu held.
func (c *Collection[T]) indexOf(id string) int {
	for i, rec := range c.snapshot {
		if rec.RecordID() == id {
			return i
		}
	}
	return -1
}
