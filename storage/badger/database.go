package badger

import (
	"bytes"
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/coffer/core"
	"github.com/poiesic/coffer/storage"
)

// Database implements storage.Database for one partition of a BadgerDB
// environment. Handles are cheap: they carry only the environment
// pointer and the partition identity, so any number may coexist.
type Database struct {
	env       *Environment
	name      string
	partition uint64
}

var _ storage.Database = (*Database)(nil)

// Name returns the logical database name; empty for the default
// database.
func (d *Database) Name() string {
	return d.name
}

// Get retrieves the value stored under key.
func (d *Database) Get(ctx context.Context, key []byte) (core.Value, bool, error) {
	getCalls.Inc()

	var value core.Value
	found := false
	err := d.env.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDataKey(d.partition, key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			decoded, err := storage.UnmarshalValue(val)
			if err != nil {
				return err
			}
			value = decoded
			found = true
			return nil
		})
	}, false)
	if err != nil {
		return core.Value{}, false, err
	}
	return value, found, nil
}

// GetOrDefault retrieves the value stored under key, or defaultValue
// when the key is absent.
func (d *Database) GetOrDefault(ctx context.Context, key []byte, defaultValue core.Value) (core.Value, error) {
	value, found, err := d.Get(ctx, key)
	if err != nil {
		return core.Value{}, err
	}
	if !found {
		return defaultValue, nil
	}
	return value, nil
}

// GetInt retrieves an integer value. The default is mandatory.
func (d *Database) GetInt(ctx context.Context, key []byte, defaultValue ...int64) (int64, error) {
	if len(defaultValue) == 0 {
		return 0, core.ErrDefaultRequired
	}
	value, found, err := d.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if !found {
		return defaultValue[0], nil
	}
	return value.Int()
}

// GetDouble retrieves a float value. The default is mandatory.
func (d *Database) GetDouble(ctx context.Context, key []byte, defaultValue ...float64) (float64, error) {
	if len(defaultValue) == 0 {
		return 0, core.ErrDefaultRequired
	}
	value, found, err := d.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if !found {
		return defaultValue[0], nil
	}
	return value.Double()
}

// GetString retrieves a string value. The default is mandatory.
func (d *Database) GetString(ctx context.Context, key []byte, defaultValue ...string) (string, error) {
	if len(defaultValue) == 0 {
		return "", core.ErrDefaultRequired
	}
	value, found, err := d.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if !found {
		return defaultValue[0], nil
	}
	return value.Str()
}

// GetBool retrieves a boolean value. The default is mandatory.
func (d *Database) GetBool(ctx context.Context, key []byte, defaultValue ...bool) (bool, error) {
	if len(defaultValue) == 0 {
		return false, core.ErrDefaultRequired
	}
	value, found, err := d.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !found {
		return defaultValue[0], nil
	}
	return value.Bool()
}

// Put upserts a key/value pair. Overwriting a key of a different kind
// replaces both tag and payload; overwriting a named-database
// registration record fails with storage.ErrReservedKey.
func (d *Database) Put(ctx context.Context, key []byte, value core.Value) error {
	putCalls.Inc()

	encoded, err := storage.MarshalValue(value)
	if err != nil {
		return err
	}
	return d.env.WithTx(func(tx *badger.Txn) error {
		dataKey := makeDataKey(d.partition, key)
		if err := d.checkReserved(tx, dataKey); err != nil {
			return err
		}
		if err := tx.Set(dataKey, encoded); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Delete removes the pair if present. Deleting an absent key succeeds.
func (d *Database) Delete(ctx context.Context, key []byte) error {
	deleteCalls.Inc()

	return d.env.WithTx(func(tx *badger.Txn) error {
		dataKey := makeDataKey(d.partition, key)
		if err := d.checkReserved(tx, dataKey); err != nil {
			return err
		}
		if err := tx.Delete(dataKey); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Has reports whether the key is present, independent of the stored
// value's kind.
func (d *Database) Has(ctx context.Context, key []byte) (bool, error) {
	hasCalls.Inc()

	found := false
	err := d.env.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get(makeDataKey(d.partition, key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		found = true
		return nil
	}, false)
	return found, err
}

// Enumerate returns a cursor over pairs whose keys fall within
// [from, to], both bounds inclusive. The cursor owns a read-transaction
// snapshot taken here, so it never observes later commits. A reversed
// bound pair yields an exhausted cursor.
func (d *Database) Enumerate(ctx context.Context, from, to []byte) (storage.Cursor, error) {
	enumerateCalls.Inc()

	if len(from) > 0 && len(to) > 0 && bytes.Compare(from, to) > 0 {
		return &Cursor{done: true}, nil
	}

	prefix := makePartitionPrefix(d.partition)
	var upper []byte
	if len(to) > 0 {
		upper = makeDataKey(d.partition, to)
	}

	// The transaction and iterator belong to the cursor until Close.
	tx := d.env.db.NewTransaction(false)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	iter := tx.NewIterator(opts)
	iter.Seek(makeDataKey(d.partition, from))

	return &Cursor{
		tx:     tx,
		iter:   iter,
		prefix: prefix,
		upper:  upper,
	}, nil
}

// checkReserved fails with storage.ErrReservedKey when the data key
// currently holds a named-database registration record. Only the
// default partition stores such records.
func (d *Database) checkReserved(tx *badger.Txn, dataKey []byte) error {
	if d.partition != defaultPartitionID {
		return nil
	}
	item, err := tx.Get(dataKey)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	}
	return item.Value(func(val []byte) error {
		if storage.IsDatabaseRecord(val) {
			return storage.ErrReservedKey
		}
		return nil
	})
}
