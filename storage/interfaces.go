package storage

import (
	"context"

	"github.com/poiesic/coffer/core"
)

// Pair is one key/value entry yielded by a Cursor.
type Pair struct {
	Key   []byte
	Value core.Value
}

// Database provides typed key-value operations scoped to one logical
// database within one environment. Implementations must be thread-safe
// and support concurrent access.
type Database interface {
	// Name returns the logical database name; empty for the default
	// database.
	Name() string

	// Get retrieves the value stored under key. The second return is
	// false when the key is absent; it is the only absent marker, so a
	// stored zero, empty string or false is never confused with a
	// missing key. Reading a named-database registration record fails
	// with ErrReservedValue.
	Get(ctx context.Context, key []byte) (core.Value, bool, error)

	// GetOrDefault retrieves the value stored under key, or returns
	// defaultValue when the key is absent.
	GetOrDefault(ctx context.Context, key []byte, defaultValue core.Value) (core.Value, error)

	// GetInt retrieves an integer value. The default is mandatory:
	// omitting it fails with core.ErrDefaultRequired. A stored value of
	// another kind fails with core.ErrTypeMismatch; an absent key
	// returns the default.
	GetInt(ctx context.Context, key []byte, defaultValue ...int64) (int64, error)

	// GetDouble is GetInt for float64 values.
	GetDouble(ctx context.Context, key []byte, defaultValue ...float64) (float64, error)

	// GetString is GetInt for string values.
	GetString(ctx context.Context, key []byte, defaultValue ...string) (string, error)

	// GetBool is GetInt for boolean values.
	GetBool(ctx context.Context, key []byte, defaultValue ...bool) (bool, error)

	// Put upserts a key/value pair in one atomic write transaction.
	// In the default database a key occupied by a named-database
	// registration record fails with ErrReservedKey.
	Put(ctx context.Context, key []byte, value core.Value) error

	// Delete removes the pair if present. Deleting an absent key is
	// not an error; deleting a registration record fails with
	// ErrReservedKey.
	Delete(ctx context.Context, key []byte) error

	// Has reports whether the key is present, independent of the
	// stored value's kind.
	Has(ctx context.Context, key []byte) (bool, error)

	// Enumerate returns a cursor over pairs whose keys fall within
	// [from, to], both bounds inclusive, in ascending byte-lexicographic
	// order. A nil or empty bound is unbounded on that side; from > to
	// yields an exhausted cursor. The caller must Close the cursor.
	Enumerate(ctx context.Context, from, to []byte) (Cursor, error)
}

// Cursor is a snapshot-isolated, forward-only sequence of pairs.
// A cursor must be confined to a single goroutine.
type Cursor interface {
	// HasNext reports whether another pair remains. It is a pure
	// predicate and never advances the cursor.
	HasNext() bool

	// Next yields the next pair and advances. Once the cursor is
	// exhausted it fails with ErrExhausted; it never returns a
	// sentinel pair.
	Next() (Pair, error)

	// Close releases the cursor's iterator and snapshot. Safe to call
	// more than once.
	Close()
}
