package store

import (
	"sync"

	"github.com/heysubinoy/kv/pkg/kv"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// MemStore is an in-memory implementation of the kv.Store interface.
// Entries live in an ordered map so List returns them in insertion order,
// and overwriting a key keeps its position.
type MemStore struct {
	mu   sync.RWMutex
	data *orderedmap.OrderedMap[string, string]
}

// Compile-time check to ensure MemStore implements kv.Store.
var _ kv.Store = (*MemStore)(nil)

// NewMemStore creates and returns a new MemStore instance.
func NewMemStore() *MemStore {
	return &MemStore{
		data: orderedmap.New[string, string](),
	}
}

// NewMemStoreFrom builds a MemStore from entries in order. A repeated key
// keeps its first position and takes its last value.
func NewMemStoreFrom(entries []kv.Entry) *MemStore {
	s := NewMemStore()
	for _, e := range entries {
		s.data.Set(e.Key, e.Value)
	}
	return s
}

// Get retrieves a value by key from the store.
func (s *MemStore) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.data.Get(key)
	if !ok {
		return "", kv.NewError(kv.KindNotFound, "get", key, nil)
	}
	return val, nil
}

// Set stores a key-value pair in the store.
func (s *MemStore) Set(key, value string) error {
	if err := validate("set", key, value); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Set(key, value)
	return nil
}

// Add stores a key-value pair unless the key is already present.
func (s *MemStore) Add(key, value string) error {
	if err := validate("add", key, value); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.Get(key); ok {
		return kv.NewError(kv.KindAlreadyExists, "add", key, nil)
	}
	s.data.Set(key, value)
	return nil
}

// Delete removes a key from the store.
func (s *MemStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.Delete(key); !ok {
		return kv.NewError(kv.KindNotFound, "delete", key, nil)
	}
	return nil
}

// List returns a copy of all entries in insertion order.
func (s *MemStore) List() ([]kv.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]kv.Entry, 0, s.data.Len())
	for pair := s.data.Oldest(); pair != nil; pair = pair.Next() {
		entries = append(entries, kv.Entry{Key: pair.Key, Value: pair.Value})
	}
	return entries, nil
}

// Len returns the number of entries.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.data.Len()
}

func validate(op, key, value string) error {
	if err := kv.ValidateKey(op, key); err != nil {
		return err
	}
	return kv.ValidateValue(op, key, value)
}
