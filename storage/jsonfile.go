package storage

import (
	"fmt"
	"os"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// JSONFile is a store persisted as a single JSON document on disk. Keys are
// gjson paths, so nested addressing like "session.user.name" works directly.
// Every mutation is written through to the file before watchers are notified.
type JSONFile struct {
	path     string
	mu       sync.RWMutex
	doc      string
	notifier *notifier
}

var _ Store = (*JSONFile)(nil)

// NewJSONFile opens or creates a JSON-file store at path
func NewJSONFile(path string) (*JSONFile, error) {
	doc := "{}"

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(data) > 0 && !gjson.ValidBytes(data) {
			return nil, fmt.Errorf("file %s is not valid JSON", path)
		}
		if len(data) > 0 {
			doc = string(data)
		}
	case os.IsNotExist(err):
		// Fresh store, persisted on first write
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return &JSONFile{
		path:     path,
		doc:      doc,
		notifier: newNotifier(),
	}, nil
}

// Get returns the value at the given path and whether it exists
func (j *JSONFile) Get(key string) (string, bool, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	result := gjson.Get(j.doc, key)
	if !result.Exists() {
		return "", false, nil
	}
	return result.String(), true, nil
}

// Set stores value at the given path, writes the document to disk, and
// notifies watchers
func (j *JSONFile) Set(key string, value string) error {
	j.mu.Lock()
	updated, err := sjson.Set(j.doc, key, value)
	if err != nil {
		j.mu.Unlock()
		return fmt.Errorf("failed to set %q: %w", key, err)
	}

	if err := j.persist(updated); err != nil {
		j.mu.Unlock()
		return err
	}
	j.doc = updated
	j.mu.Unlock()

	j.notifier.notify(Change{Key: key, Value: value})
	return nil
}

// Delete removes the given path, writes the document to disk, and notifies
// watchers. Deleting a missing path is a no-op.
func (j *JSONFile) Delete(key string) error {
	j.mu.Lock()
	if !gjson.Get(j.doc, key).Exists() {
		j.mu.Unlock()
		return nil
	}

	updated, err := sjson.Delete(j.doc, key)
	if err != nil {
		j.mu.Unlock()
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}

	if err := j.persist(updated); err != nil {
		j.mu.Unlock()
		return err
	}
	j.doc = updated
	j.mu.Unlock()

	j.notifier.notify(Change{Key: key, Deleted: true})
	return nil
}

// Watch returns a channel of changes for key and a cancel function
func (j *JSONFile) Watch(key string) (<-chan Change, func()) {
	return j.notifier.watch(key)
}

// Close releases all watcher subscriptions. The document is already on disk.
func (j *JSONFile) Close() error {
	j.notifier.close()
	return nil
}

// persist writes the document to disk.
// Note: caller must hold the lock
func (j *JSONFile) persist(doc string) error {
	if err := os.WriteFile(j.path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", j.path, err)
	}
	return nil
}
