package badger

import (
	"bytes"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/coffer/storage"
)

// Cursor implements storage.Cursor over one partition of a BadgerDB
// environment. It holds its own read transaction, opened when the
// cursor was created, so concurrent commits are never observed.
// Not safe for concurrent use.
type Cursor struct {
	tx     *badger.Txn
	iter   *badger.Iterator
	prefix []byte
	upper  []byte // inclusive upper data key; nil means unbounded
	done   bool
	closed bool
}

var _ storage.Cursor = (*Cursor)(nil)

// HasNext reports whether another in-range pair remains. It never
// advances the cursor.
func (c *Cursor) HasNext() bool {
	return !c.done && c.inRange()
}

// Next yields the current pair and advances. An exhausted cursor fails
// with storage.ErrExhausted. A pair holding a named-database
// registration record fails with storage.ErrReservedValue on
// retrieval; the cursor still advances past it.
func (c *Cursor) Next() (storage.Pair, error) {
	if c.done || !c.inRange() {
		c.done = true
		return storage.Pair{}, storage.ErrExhausted
	}

	item := c.iter.Item()
	key := userKey(item.KeyCopy(nil))

	var pair storage.Pair
	err := item.Value(func(val []byte) error {
		value, err := storage.UnmarshalValue(val)
		if err != nil {
			return err
		}
		pair = storage.Pair{Key: key, Value: value}
		return nil
	})

	c.iter.Next()

	if err != nil {
		return storage.Pair{}, err
	}
	return pair, nil
}

// Close releases the cursor's iterator and snapshot. Safe to call more
// than once; an exhausted cursor must still be closed.
func (c *Cursor) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.done = true
	if c.iter != nil {
		c.iter.Close()
	}
	if c.tx != nil {
		c.tx.Discard()
	}
}

// inRange reports whether the iterator sits on a key within the
// partition and the inclusive upper bound.
func (c *Cursor) inRange() bool {
	if c.iter == nil || !c.iter.ValidForPrefix(c.prefix) {
		return false
	}
	if c.upper != nil && bytes.Compare(c.iter.Item().Key(), c.upper) > 0 {
		return false
	}
	return true
}
