package hub

import "sync"

// Bus is the in-process observer registry for "collection changed" events.
// The ledger publishes after every write; subscribers re-derive their views
// from the persisted collection, never from a delta.
type Bus struct {
	mu   sync.RWMutex
	subs []func(collection string)
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(fn func(collection string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

func (b *Bus) Publish(collection string) {
	b.mu.RLock()
	subs := make([]func(string), len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(collection)
	}
}
