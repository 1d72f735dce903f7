package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

var ErrNotFound = errors.New("key not found")

// KV is a string-keyed byte store. Implementations must be safe for
// concurrent use.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// GetJSON decodes the value stored under key into dest. found is false when
// the key does not exist.
func GetJSON(ctx context.Context, kv KV, key string, dest any) (found bool, err error) {
	raw, err := kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return true, fmt.Errorf("failed to decode %q: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes value and stores it under key.
func SetJSON(ctx context.Context, kv KV, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	return kv.Set(ctx, key, raw)
}

// Open returns the KV backend named by backend ("sqlite", "badger" or
// "memory") rooted at path.
func Open(backend, path string) (KV, error) {
	switch backend {
	case "", "sqlite":
		return NewSQLiteKV(path)
	case "badger":
		return NewBadgerKV(path)
	case "memory":
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
