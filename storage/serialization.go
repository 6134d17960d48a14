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

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/poiesic/coffer/core"
)

// Tag bytes identifying the payload of a stored record.
const (
	tagInt    byte = 0x01
	tagDouble byte = 0x02
	tagString byte = 0x03
	tagBool   byte = 0x04

	// tagDatabase marks a named-database registration record in the
	// default database. It never leaves the storage layer.
	tagDatabase byte = 0xF0
)

// MarshalValue serializes a tagged value to bytes. Integers and floats
// are stored fixed-width so the round trip is bit-exact.
func MarshalValue(v core.Value) ([]byte, error) {
	switch v.Kind() {
	case core.KindInt:
		i, _ := v.Int()
		buf := make([]byte, 1+raw.Int64.Size(i))
		buf[0] = tagInt
		raw.Int64.Marshal(i, buf[1:])
		return buf, nil
	case core.KindDouble:
		d, _ := v.Double()
		buf := make([]byte, 1+raw.Float64.Size(d))
		buf[0] = tagDouble
		raw.Float64.Marshal(d, buf[1:])
		return buf, nil
	case core.KindString:
		s, _ := v.Str()
		buf := make([]byte, 1+ord.String.Size(s))
		buf[0] = tagString
		ord.String.Marshal(s, buf[1:])
		return buf, nil
	case core.KindBool:
		b, _ := v.Bool()
		buf := make([]byte, 1+ord.Bool.Size(b))
		buf[0] = tagBool
		ord.Bool.Marshal(b, buf[1:])
		return buf, nil
	default:
		return nil, core.ErrUnsupportedKind
	}
}

// UnmarshalValue deserializes a tagged value from bytes. The recovered
// kind is always the stored tag; no coercion is attempted. Registration
// records fail with ErrReservedValue, unknown tags with ErrInvalidValue.
func UnmarshalValue(data []byte) (core.Value, error) {
	if len(data) == 0 {
		return core.Value{}, ErrInvalidValue
	}
	payload := data[1:]
	switch data[0] {
	case tagInt:
		i, n, err := raw.Int64.Unmarshal(payload)
		if err != nil || n != len(payload) {
			return core.Value{}, ErrInvalidValue
		}
		return core.IntValue(i), nil
	case tagDouble:
		d, n, err := raw.Float64.Unmarshal(payload)
		if err != nil || n != len(payload) {
			return core.Value{}, ErrInvalidValue
		}
		return core.DoubleValue(d), nil
	case tagString:
		s, n, err := ord.String.Unmarshal(payload)
		if err != nil || n != len(payload) {
			return core.Value{}, ErrInvalidValue
		}
		return core.StringValue(s), nil
	case tagBool:
		b, n, err := ord.Bool.Unmarshal(payload)
		if err != nil || n != len(payload) {
			return core.Value{}, ErrInvalidValue
		}
		return core.BoolValue(b), nil
	case tagDatabase:
		return core.Value{}, ErrReservedValue
	default:
		return core.Value{}, ErrInvalidValue
	}
}

// MarshalDatabaseRecord serializes a named-database registration record
// carrying the partition ID assigned to the database.
func MarshalDatabaseRecord(partition uint64) []byte {
	buf := make([]byte, 1+raw.Uint64.Size(partition))
	buf[0] = tagDatabase
	raw.Uint64.Marshal(partition, buf[1:])
	return buf
}

// UnmarshalDatabaseRecord deserializes a registration record. Records
// with any other tag fail with ErrInvalidValue.
func UnmarshalDatabaseRecord(data []byte) (uint64, error) {
	if len(data) == 0 || data[0] != tagDatabase {
		return 0, ErrInvalidValue
	}
	partition, n, err := raw.Uint64.Unmarshal(data[1:])
	if err != nil || n != len(data)-1 {
		return 0, ErrInvalidValue
	}
	return partition, nil
}

// IsDatabaseRecord reports whether raw encoded bytes hold a
// named-database registration record.
func IsDatabaseRecord(data []byte) bool {
	return len(data) > 0 && data[0] == tagDatabase
}
