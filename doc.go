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


// Package coffer is an embedded, ordered, persistent key-value store
// for host applications. Values are typed (int64, float64, string,
// bool) and stored with explicit tags; one on-disk environment hosts a
// default database plus any number of independently named databases.
//
// # Registry
//
// A Registry canonicalizes directory paths to shared environment
// instances: repeated GetOrCreate calls for the same path return
// handles onto one environment rather than reopening it. Environments
// are reference-counted by their handles; closing the last handle
// closes the environment.
//
//	registry, err := coffer.NewRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer registry.Close()
//
//	db, err := registry.GetOrCreate(ctx, "/path/to/store", "prefs")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	err = db.Put(ctx, []byte("volume"), core.IntValue(11))
//
// # Asynchronous acquisition
//
// GetOrCreateAsync performs the same acquisition on a background
// worker pool and delivers exactly one result, success or error, on
// the returned channel:
//
//	result := <-registry.GetOrCreateAsync(ctx, path, "")
//	if result.Err != nil {
//	    log.Fatal(result.Err)
//	}
//	defer result.Database.Close()
//
// # Concurrency
//
// Handles are safe for concurrent use. Each environment admits one
// writer at a time; contending writers block until the lock frees.
// Readers and cursors run on consistent snapshots and never block
// writers.
package coffer
