package badger

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// Key prefix for data records. Every data key is the prefix, a colon,
// the fixed-width partition ID, and the caller's key bytes.
const dataKeyPrefix = "kv"

// defaultPartitionID is the partition of the default (unnamed)
// database. Named databases get a non-zero ID derived from their name.
const defaultPartitionID uint64 = 0

// partitionID derives a deterministic 64-bit partition ID from a
// database name using BLAKE2b hashing, so the same name always maps to
// the same partition. Zero is reserved for the default database.
func partitionID(name string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(name))
	sum := h.Sum(nil)
	id := binary.LittleEndian.Uint64(sum)
	if id == defaultPartitionID {
		id = 1
	}
	return id
}

// makeDataKey generates the physical key for a user key within a
// partition. Format: prefix:partition:key
func makeDataKey(partition uint64, key []byte) []byte {
	prefix := makePartitionPrefix(partition)
	buf := make([]byte, len(prefix)+len(key))
	offset := copy(buf, prefix)
	copy(buf[offset:], key)
	return buf
}

// makePartitionPrefix generates the key prefix shared by all records
// of one partition. Format: prefix:partition
func makePartitionPrefix(partition uint64) []byte {
	prefix := dataKeyPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for the partition ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], partition)
	return buf
}

// userKey strips the partition prefix from a physical data key,
// recovering the caller's key bytes.
func userKey(dataKey []byte) []byte {
	return dataKey[len(dataKeyPrefix)+1+8:]
}
