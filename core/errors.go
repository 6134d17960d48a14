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


package core

import "errors"

// Value access errors
var (
	// ErrTypeMismatch indicates the stored value's kind does not match
	// the kind requested by the accessor or typed getter.
	ErrTypeMismatch = errors.New("stored value type does not match requested type")

	// ErrDefaultRequired indicates a typed getter was invoked without
	// its mandatory default value.
	ErrDefaultRequired = errors.New("typed getter requires a default value")

	// ErrUnsupportedKind indicates an attempt to store a value whose
	// kind is not one of the four supported types.
	ErrUnsupportedKind = errors.New("unsupported value kind")
)
