package store

import (
	"sync"

	"github.com/srb2live/infoboard/serverinfo"
)

// subscriber channel buffer; a page client that falls further behind than
// this simply skips intermediate snapshots
const subscriberBuffer = 16

// MemoryStore is the in-memory implementation of [Store].
//
// Updates are sent to subscribers non-blocking: if a subscriber's buffer is
// full the snapshot is dropped for that subscriber rather than stalling the
// refresh path. The subscriber catches up on the next update, which carries
// the full page state anyway.
type MemoryStore struct {
	mu       sync.RWMutex
	snapshot serverinfo.Snapshot
	hasData  bool

	subMu       sync.RWMutex
	subscribers map[chan serverinfo.Snapshot]struct{}
}

// NewMemoryStore creates an empty [MemoryStore], ready for use.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		subscribers: make(map[chan serverinfo.Snapshot]struct{}),
	}
}

// Update replaces the stored snapshot and notifies all subscribers.
func (m *MemoryStore) Update(snap serverinfo.Snapshot) {
	m.mu.Lock()
	m.snapshot = snap
	m.hasData = true
	m.mu.Unlock()

	m.notifySubscribers(snap)
}

// Latest returns the current snapshot, with ok false before the first update.
func (m *MemoryStore) Latest() (serverinfo.Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot, m.hasData
}

// Subscribe creates a new subscription and returns its channel.
func (m *MemoryStore) Subscribe() <-chan serverinfo.Snapshot {
	ch := make(chan serverinfo.Snapshot, subscriberBuffer)

	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel. Safe to call
// multiple times or with an unknown channel.
func (m *MemoryStore) Unsubscribe(ch <-chan serverinfo.Snapshot) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for subCh := range m.subscribers {
		if subCh == ch {
			delete(m.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// notifySubscribers delivers the snapshot to every subscriber without
// blocking the caller.
func (m *MemoryStore) notifySubscribers(snap serverinfo.Snapshot) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for ch := range m.subscribers {
		select {
		case ch <- snap:
		default:
			// subscriber is slow, drop the snapshot
		}
	}
}
