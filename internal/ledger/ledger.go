package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Ledger wraps a Store with JSON encoding, a single-writer lock and change
// publication. Writes replace whole collections; there is no partial-write
// state observable through it. Concurrent writers in *other* processes
// sharing the store still race last-write-wins, which is the documented
// behavior of the system and is not papered over here.
type Ledger struct {
	mu    sync.RWMutex
	store Store
	bus   Publisher
}

func New(store Store, bus Publisher) *Ledger {
	return &Ledger{store: store, bus: bus}
}

// List reads a collection into out, which must be a pointer to a slice.
// A collection that was never written leaves out at its zero value.
func (l *Ledger) List(ctx context.Context, collection string, out any) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	raw, err := l.store.Get(ctx, collection)
	if err != nil {
		return fmt.Errorf("read %s: %w", collection, err)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", collection, err)
	}
	return nil
}

// Replace overwrites a collection with items and publishes the change.
func (l *Ledger) Replace(ctx context.Context, collection string, items any) error {
	l.mu.Lock()
	err := l.write(ctx, collection, items)
	l.mu.Unlock()
	if err != nil {
		return err
	}

	l.publish(collection)
	return nil
}

// Update runs a read-modify-write cycle under the ledger lock. apply receives
// the raw stored blob (nil when the collection was never written) and returns
// the replacement items. Returning (nil, nil) skips the write entirely, so
// silent no-ops leave the stored bytes untouched and publish nothing.
func (l *Ledger) Update(ctx context.Context, collection string, apply func(raw []byte) (any, error)) error {
	l.mu.Lock()
	wrote, err := l.updateLocked(ctx, collection, apply)
	l.mu.Unlock()
	if err != nil || !wrote {
		return err
	}

	l.publish(collection)
	return nil
}

func (l *Ledger) updateLocked(ctx context.Context, collection string, apply func(raw []byte) (any, error)) (bool, error) {
	raw, err := l.store.Get(ctx, collection)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", collection, err)
	}
	items, err := apply(raw)
	if err != nil {
		return false, err
	}
	if items == nil {
		return false, nil
	}
	return true, l.write(ctx, collection, items)
}

// GetObject reads a single-object record. Returns false when it was never set.
func (l *Ledger) GetObject(ctx context.Context, key string, out any) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	raw, err := l.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetObject overwrites a single-object record and publishes the change.
func (l *Ledger) SetObject(ctx context.Context, key string, v any) error {
	l.mu.Lock()
	err := l.write(ctx, key, v)
	l.mu.Unlock()
	if err != nil {
		return err
	}

	l.publish(key)
	return nil
}

func (l *Ledger) write(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	// Storage failures are fatal for the write; data is never dropped silently.
	if err := l.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// publish runs with the mutex released: subscribers re-derive their views by
// reading back through the ledger, so notifying them under the write lock
// would deadlock on the non-reentrant RWMutex.
func (l *Ledger) publish(key string) {
	if l.bus != nil {
		l.bus.Publish(key)
	}
}
