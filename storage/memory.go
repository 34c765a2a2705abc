package storage

import "sync"

// Memory is an in-memory store for single-process scenarios. It holds values
// locally without any persistence.
type Memory struct {
	mu       sync.RWMutex
	values   map[string]string
	notifier *notifier
}

var _ Store = (*Memory)(nil)

// NewMemory creates a new empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		values:   make(map[string]string),
		notifier: newNotifier(),
	}
}

// Get returns the value for key and whether it exists
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	return value, ok, nil
}

// Set stores value under key and notifies watchers
func (m *Memory) Set(key string, value string) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()

	m.notifier.notify(Change{Key: key, Value: value})
	return nil
}

// Delete removes key and notifies watchers. Deleting a missing key is a no-op.
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	_, existed := m.values[key]
	delete(m.values, key)
	m.mu.Unlock()

	if existed {
		m.notifier.notify(Change{Key: key, Deleted: true})
	}
	return nil
}

// Watch returns a channel of changes for key and a cancel function
func (m *Memory) Watch(key string) (<-chan Change, func()) {
	return m.notifier.watch(key)
}

// Len returns the number of stored keys
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// Close releases all watcher subscriptions
func (m *Memory) Close() error {
	m.notifier.close()
	return nil
}
