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


// Package storage defines the storage abstraction layer for coffer.
//
// It declares the Database and Cursor interfaces implemented by the
// BadgerDB engine in storage/badger, the sentinel errors shared across
// backends, and the tagged binary codec for stored values.
//
// # Value encoding
//
// Every stored value is a single tag byte followed by its payload:
//
//	0x01  int64, fixed 8 bytes
//	0x02  float64, fixed 8 bytes (IEEE 754 bits)
//	0x03  string, varint length followed by UTF-8 bytes
//	0x04  bool, 1 byte
//	0xF0  named-database registration record (internal bookkeeping)
//
// Integers and floats are fixed-width, so round trips are bit-exact.
// Decoding never coerces: the tag recovered from storage is the tag the
// caller gets back, and reading a registration record through the value
// codec fails with ErrReservedValue.
//
// # Databases
//
// A Database is a named partition of the key space inside one
// environment. The default (unnamed) database doubles as the registry
// of named databases: each named database is registered under its name
// in the default database's key space, which is why a user write to
// such a key fails with ErrReservedKey.
//
// # Cursors
//
// Enumerate returns a Cursor backed by a read-transaction snapshot
// taken when the cursor was opened. Pairs committed afterwards are
// never observed. Cursors are forward-only and single-goroutine;
// calling Next after the last pair fails with ErrExhausted.
//
// # Thread Safety
//
// Database implementations must be safe for concurrent use. Cursors
// are not; confine each cursor to one goroutine.
package storage
