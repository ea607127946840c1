package storage

import "context"

//go:generate go tool moq -out kv_mock.go . KeyValueStore

// KeyValueStore defines the durable key-value persistence contract the
// engine consumes. Implementations must survive process restart: a value
// written under a key is readable after reopening the store.
type KeyValueStore interface {
	// Get retrieves the value stored under key
	// Returns ErrKeyNotFound if the key doesn't exist
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, overwriting any previous value
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes the key and its value
	// Deleting an absent key is not an error
	Delete(ctx context.Context, key string) error

	// Close releases the underlying storage resources
	Close() error
}
