// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package coffer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/coffer/storage"
	"github.com/poiesic/coffer/storage/badger"
	"github.com/puzpuzpuz/xsync/v3"
)

// Registry maps canonical directory paths to shared environment
// instances, so repeated get-or-create calls against one path return
// handles onto one environment. Environments are reference-counted by
// the handles derived from them. Use one Registry per process.
type Registry struct {
	envs   *xsync.MapOf[string, *envEntry]
	pool   *ants.Pool
	logger *slog.Logger
	closed bool
	mu     sync.Mutex // guards closed
}

// envEntry tracks one shared environment and its outstanding handles.
// Creation is single-flighted: the first caller for a path opens the
// environment under the entry lock while later callers wait on it.
type envEntry struct {
	mu     sync.Mutex
	env    *badger.Environment
	refs   int
	closed bool
}

// Option configures a Registry.
type Option func(*Registry) error

// WithPoolSize sets the worker pool size for asynchronous operations.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(r *Registry) error {
		if size < 1 {
			size = 1
		}
		if r.pool != nil {
			r.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		r.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRegistry creates a new environment registry.
func NewRegistry(opts ...Option) (*Registry, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	r := &Registry{
		envs:   xsync.NewMapOf[string, *envEntry](),
		pool:   pool,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(r); optErr != nil {
			r.pool.Release()
			return nil, optErr
		}
	}

	return r, nil
}

// GetOrCreate resolves (or creates) the environment rooted at dirPath,
// then resolves (or registers) the logical database name within it;
// the empty name resolves to the default database. Concurrent callers
// for the same path share one environment: creation is single-flighted
// per canonical path. The returned handle must be closed when done.
func (r *Registry) GetOrCreate(ctx context.Context, dirPath, name string) (*Database, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, storage.ErrStorageClosed
	}
	r.mu.Unlock()

	canonical, err := filepath.Abs(dirPath)
	if err != nil {
		return nil, fmt.Errorf("canonicalize %s: %w", dirPath, err)
	}

	for {
		entry, _ := r.envs.LoadOrCompute(canonical, func() *envEntry {
			return &envEntry{}
		})

		entry.mu.Lock()
		if entry.closed {
			// Lost a race with teardown of this entry; start over.
			entry.mu.Unlock()
			continue
		}
		if entry.env == nil {
			env, err := badger.OpenEnvironment(canonical, false)
			if err != nil {
				entry.closed = true
				entry.mu.Unlock()
				r.dropEntry(canonical, entry)
				return nil, fmt.Errorf("open environment %s: %w", canonical, err)
			}
			entry.env = env
		}
		entry.refs++
		env := entry.env
		entry.mu.Unlock()

		handle, err := env.Resolve(name)
		if err != nil {
			r.release(canonical)
			return nil, err
		}

		return &Database{
			Database: handle,
			registry: r,
			path:     canonical,
		}, nil
	}
}

// AsyncResult carries the outcome of an asynchronous acquisition:
// exactly one of Database and Err is set.
type AsyncResult struct {
	Database *Database
	Err      error
}

// GetOrCreateAsync performs GetOrCreate on a background worker and
// delivers exactly one AsyncResult on the returned channel: never
// both branches, never zero. The operation is not cancelable once
// dispatched.
func (r *Registry) GetOrCreateAsync(ctx context.Context, dirPath, name string) <-chan AsyncResult {
	results := make(chan AsyncResult, 1)
	err := r.pool.Submit(func() {
		db, err := r.GetOrCreate(ctx, dirPath, name)
		results <- AsyncResult{Database: db, Err: err}
	})
	if err != nil {
		results <- AsyncResult{Err: err}
	}
	return results
}

// Close releases the worker pool and closes any environments still
// referenced. Outstanding handles become unusable.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	r.pool.Release()

	var firstErr error
	r.envs.Range(func(path string, entry *envEntry) bool {
		entry.mu.Lock()
		env := entry.env
		entry.env = nil
		entry.closed = true
		entry.mu.Unlock()

		if env != nil {
			if err := env.Close(); err != nil {
				r.logger.Error("error closing environment", "path", path, "err", err)
				if firstErr == nil {
					firstErr = err
				}
			}
		}
		r.envs.Delete(path)
		return true
	})
	return firstErr
}

// release drops one reference to the environment at path, closing it
// when the last reference goes away.
func (r *Registry) release(path string) error {
	var toClose *badger.Environment
	r.envs.Compute(path, func(entry *envEntry, loaded bool) (*envEntry, bool) {
		if !loaded {
			return nil, true
		}
		entry.mu.Lock()
		defer entry.mu.Unlock()
		entry.refs--
		if entry.refs > 0 {
			return entry, false
		}
		entry.closed = true
		toClose = entry.env
		entry.env = nil
		return nil, true
	})
	if toClose != nil {
		return toClose.Close()
	}
	return nil
}

// dropEntry removes an entry whose environment failed to open, so the
// next caller starts fresh.
func (r *Registry) dropEntry(path string, failed *envEntry) {
	r.envs.Compute(path, func(entry *envEntry, loaded bool) (*envEntry, bool) {
		if loaded && entry == failed {
			return nil, true
		}
		return entry, !loaded
	})
}

// Database is a handle onto one logical database within a shared,
// registry-managed environment. It exposes the full storage.Database
// surface; Close releases the handle's reference to the environment.
type Database struct {
	storage.Database
	registry  *Registry
	path      string
	closeOnce sync.Once
}

// Path returns the canonical directory of the database's environment.
func (d *Database) Path() string {
	return d.path
}

// Close releases this handle. The underlying environment stays open
// while other handles for the same path remain; the last close shuts
// it down. Safe to call more than once.
func (d *Database) Close() error {
	var err error
	d.closeOnce.Do(func() {
		err = d.registry.release(d.path)
	})
	return err
}
