package storage

import (
	"fmt"
	"sync"
)

// SyncedValue binds one key of a Store to a locally cached value and keeps the
// cache current through the store's change notifications. Reads never touch
// the store after the initial load; writes go through the store so other
// watchers of the same key see them too.
type SyncedValue struct {
	store Store
	key   string

	mu     sync.RWMutex
	value  string
	ok     bool
	cancel func()
	done   chan struct{}
}

// NewSyncedValue loads the current value of key and starts watching it
func NewSyncedValue(store Store, key string) (*SyncedValue, error) {
	value, ok, err := store.Get(key)
	if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", key, err)
	}

	ch, cancel := store.Watch(key)

	s := &SyncedValue{
		store:  store,
		key:    key,
		value:  value,
		ok:     ok,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go s.follow(ch)
	return s, nil
}

// follow applies change notifications to the local cache until the
// subscription is cancelled
func (s *SyncedValue) follow(ch <-chan Change) {
	defer close(s.done)

	for change := range ch {
		s.mu.Lock()
		if change.Deleted {
			s.value = ""
			s.ok = false
		} else {
			s.value = change.Value
			s.ok = true
		}
		s.mu.Unlock()
	}
}

// Get returns the cached value and whether the key currently exists
func (s *SyncedValue) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.ok
}

// Set writes value through the store and updates the cache immediately, so a
// Get right after Set sees the new value even before the notification lands
func (s *SyncedValue) Set(value string) error {
	if err := s.store.Set(s.key, value); err != nil {
		return err
	}

	s.mu.Lock()
	s.value = value
	s.ok = true
	s.mu.Unlock()

	return nil
}

// Key returns the bound key
func (s *SyncedValue) Key() string {
	return s.key
}

// Unbind stops watching the key. The last cached value remains readable.
func (s *SyncedValue) Unbind() {
	s.cancel()
	<-s.done
}
