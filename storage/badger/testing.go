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


package badger

import "github.com/poiesic/coffer/storage"

// NewMemoryEnvironment creates an in-memory environment for testing.
// Caller must close it when done.
func NewMemoryEnvironment() (*Environment, error) {
	return OpenEnvironment("", true)
}

// NewMemoryDatabase creates an in-memory environment and resolves the
// named logical database within it (default when name is empty).
// Returns the database handle and the environment; caller must close
// the environment when done.
func NewMemoryDatabase(name string) (storage.Database, *Environment, error) {
	env, err := NewMemoryEnvironment()
	if err != nil {
		return nil, nil, err
	}

	db, err := env.Resolve(name)
	if err != nil {
		env.Close()
		return nil, nil, err
	}
	return db, env, nil
}
