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


package storage

import "errors"

var (
	// ErrReservedKey indicates a write or delete targeting a key that
	// holds a named-database registration record.
	ErrReservedKey = errors.New("key is reserved by a named database registration")

	// ErrReservedValue indicates a read that resolved to internal
	// database bookkeeping data rather than a user value.
	ErrReservedValue = errors.New("value holds internal database bookkeeping data")

	// ErrNameCollision indicates a named database could not be
	// registered because a user value already occupies its name.
	ErrNameCollision = errors.New("database name collides with an existing key")

	// ErrNotFound indicates the requested record was not found.
	ErrNotFound = errors.New("record not found")

	// ErrExhausted indicates Next was called on a cursor with no
	// remaining pairs.
	ErrExhausted = errors.New("cursor has no more pairs")

	// ErrInvalidValue indicates a stored value could not be decoded.
	ErrInvalidValue = errors.New("malformed value record")

	// ErrStorageClosed indicates the storage backend is closed.
	ErrStorageClosed = errors.New("storage is closed")
)
