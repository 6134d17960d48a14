package badger

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/coffer/storage"
)

// Environment owns one BadgerDB instance rooted at a directory and
// hosts the default logical database plus any named ones. All write
// transactions are serialized through an internal lock: exactly one
// writer runs at a time per environment, contenders block until it
// commits. Readers run concurrently on snapshots.
type Environment struct {
	db      *badger.DB
	path    string
	writeMu sync.Mutex
	logger  *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenEnvironment opens a BadgerDB environment at the specified
// directory, creating on-disk structures if absent. It fails when the
// path exists but is not a directory, is not writable, or holds a
// corrupt store. Pass inMemory for an ephemeral environment (tests).
func OpenEnvironment(dirPath string, inMemory bool) (*Environment, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(dirPath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(dirPath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(dirPath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", dirPath)
		}
		opts = badger.DefaultOptions(dirPath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Environment{
		db:     db,
		path:   dirPath,
		logger: slog.Default(),
	}, nil
}

// Path returns the directory the environment was opened at; empty for
// in-memory environments.
func (e *Environment) Path() string {
	return e.path
}

// Close closes the underlying BadgerDB instance. Open cursors must be
// closed first.
func (e *Environment) Close() error {
	return e.db.Close()
}

// IsClosed returns true if the environment is closed.
func (e *Environment) IsClosed() bool {
	return e.db.IsClosed()
}

// WithTx executes a function within a BadgerDB transaction.
// If isWrite is true, the environment's writer lock is held for the
// duration, so concurrent writers queue instead of conflicting.
// The transaction is automatically discarded if fn returns an error.
func (e *Environment) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	if isWrite {
		e.writeMu.Lock()
		defer e.writeMu.Unlock()
	}
	tx := e.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// Resolve returns a handle to the logical database with the given
// name; the empty name resolves to the default database. A named
// database that does not exist yet is registered in the default
// database's key space under its name, so the handle is ready for its
// first write. Resolution fails with storage.ErrNameCollision when a
// user value already occupies the name.
func (e *Environment) Resolve(name string) (storage.Database, error) {
	resolveCalls.Inc()

	if name == "" {
		return &Database{env: e, partition: defaultPartitionID}, nil
	}

	partition, err := e.lookupPartition(name)
	if err == nil {
		return &Database{env: e, name: name, partition: partition}, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	partition, err = e.registerPartition(name)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("registered database", "name", name, "partition", partition)
	return &Database{env: e, name: name, partition: partition}, nil
}

// Databases lists the names of all registered named databases, in
// registration-key order.
func (e *Environment) Databases() ([]string, error) {
	var names []string
	err := e.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartitionPrefix(defaultPartitionID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			var reserved bool
			if err := item.Value(func(val []byte) error {
				reserved = storage.IsDatabaseRecord(val)
				return nil
			}); err != nil {
				return err
			}
			if reserved {
				names = append(names, string(userKey(item.Key())))
			}
		}
		return nil
	}, false)
	return names, err
}

// lookupPartition reads the registration record for name from the
// default database. Returns storage.ErrNotFound when the name is
// unregistered and storage.ErrNameCollision when a user value occupies
// it.
func (e *Environment) lookupPartition(name string) (uint64, error) {
	var partition uint64
	err := e.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDataKey(defaultPartitionID, []byte(name)))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			if !storage.IsDatabaseRecord(val) {
				return storage.ErrNameCollision
			}
			partition, err = storage.UnmarshalDatabaseRecord(val)
			return err
		})
	}, false)
	return partition, err
}

// registerPartition creates the registration record for name inside a
// write transaction. Registration races resolve by re-reading under the
// writer lock: whichever writer got there first wins and both callers
// see the same partition ID.
func (e *Environment) registerPartition(name string) (uint64, error) {
	var partition uint64
	err := e.WithTx(func(tx *badger.Txn) error {
		regKey := makeDataKey(defaultPartitionID, []byte(name))

		item, err := tx.Get(regKey)
		if err == nil {
			return item.Value(func(val []byte) error {
				if !storage.IsDatabaseRecord(val) {
					return storage.ErrNameCollision
				}
				partition, err = storage.UnmarshalDatabaseRecord(val)
				return err
			})
		}
		if err != badger.ErrKeyNotFound {
			return err
		}

		partition = partitionID(name)
		if err := tx.Set(regKey, storage.MarshalDatabaseRecord(partition)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	return partition, err
}
