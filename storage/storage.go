// Package storage provides a small key-value store abstraction with change
// notifications, plus in-memory and JSON-file backed implementations and a
// SyncedValue helper that keeps a local copy of one key current.
package storage

import "sync"

// Change describes a single mutation of a key
type Change struct {
	Key     string
	Value   string
	Deleted bool
}

// Store defines the interface for key-value persistence backends.
// Implementations can use different mechanisms (in-memory, file-based, etc.)
// to hold values and notify watchers of changes.
type Store interface {
	// Get returns the value for key and whether it exists
	Get(key string) (value string, ok bool, err error)

	// Set stores value under key and notifies watchers
	Set(key string, value string) error

	// Delete removes key and notifies watchers
	Delete(key string) error

	// Watch returns a channel of changes for key and a cancel function that
	// releases the subscription. Notifications are best-effort: a watcher
	// that does not drain its channel misses updates rather than blocking
	// the writer.
	Watch(key string) (<-chan Change, func())

	// Close cleans up any resources held by the store
	Close() error
}

// notifier fans changes out to per-key watchers with non-blocking sends
type notifier struct {
	mu       sync.Mutex
	watchers map[string]map[int]chan Change
	nextID   int
	closed   bool
}

func newNotifier() *notifier {
	return &notifier{
		watchers: make(map[string]map[int]chan Change),
	}
}

// watch registers a subscription for key
func (n *notifier) watch(key string) (<-chan Change, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(chan Change, 16)
	if n.closed {
		close(ch)
		return ch, func() {}
	}

	id := n.nextID
	n.nextID++

	if n.watchers[key] == nil {
		n.watchers[key] = make(map[int]chan Change)
	}
	n.watchers[key][id] = ch

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()

		if subs, ok := n.watchers[key]; ok {
			if _, ok := subs[id]; ok {
				delete(subs, id)
				close(ch)
			}
			if len(subs) == 0 {
				delete(n.watchers, key)
			}
		}
	}

	return ch, cancel
}

// notify publishes a change to every watcher of the key (non-blocking)
func (n *notifier) notify(change Change) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.watchers[change.Key] {
		select {
		case ch <- change:
			// Change sent successfully
		default:
			// Watcher is not draining, drop to avoid blocking the writer
		}
	}
}

// close closes all watcher channels and rejects future subscriptions
func (n *notifier) close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	n.closed = true

	for key, subs := range n.watchers {
		for id, ch := range subs {
			close(ch)
			delete(subs, id)
		}
		delete(n.watchers, key)
	}
}
