package kv

import "strings"

// Entry is a single key:value pair held by a Store.
type Entry struct {
	Key   string
	Value string
}

// Store defines the interface for a key-value store.
// Implementations keep entries in insertion order; overwriting a key
// keeps its original position.
type Store interface {
	// Get retrieves the value associated with the given key.
	// Returns a NotFound error if the key does not exist.
	Get(key string) (string, error)

	// Set stores a key-value pair, replacing any previous value.
	Set(key, value string) error

	// Add stores a key-value pair only if the key is not present yet.
	// Returns an AlreadyExists error otherwise.
	Add(key, value string) error

	// Delete removes a key from the store.
	// Returns a NotFound error if the key does not exist.
	Delete(key string) error

	// List returns every entry in store order.
	List() ([]Entry, error)
}

// ValidateKey reports whether key can be stored in a line-oriented file.
func ValidateKey(op, key string) error {
	switch {
	case key == "":
		return NewError(KindInvalidArgument, op, key, errEmptyKey)
	case strings.ContainsAny(key, ":\r\n"):
		return NewError(KindInvalidArgument, op, key, errKeyChars)
	}
	return nil
}

// ValidateValue rejects values that would split across lines.
func ValidateValue(op, key, value string) error {
	if strings.ContainsAny(value, "\r\n") {
		return NewError(KindInvalidArgument, op, key, errValueChars)
	}
	return nil
}
