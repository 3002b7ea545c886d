package workloads

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/spaolacci/murmur3"
)

// The helpers below fix the byte encoding of integer keys (little-endian) so
// that every workload hashes the same value the same way.

func murmur32Int(v int32) int32 {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	return int32(murmur3.Sum32(buf[:]))
}

func murmur32String(s string) int32 {
	return int32(murmur3.Sum32([]byte(s)))
}

// murmur128Long returns the first 64 bits of the 128-bit murmur3 digest of v.
func murmur128Long(v int64) int64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	h1, _ := murmur3.Sum128(buf[:])
	return int64(h1)
}

// murmur128Int returns the first 32 bits of the 128-bit murmur3 digest of v.
func murmur128Int(v int32) int32 {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	h1, _ := murmur3.Sum128(buf[:])
	return int32(uint32(h1))
}

// sha256Int returns the first 32 bits of the SHA-256 digest of v.
func sha256Int(v int32) int32 {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	sum := sha256.Sum256(buf[:])
	return int32(binary.LittleEndian.Uint32(sum[:4]))
}
