// Package bloom provides a probabilistic data structure for membership testing.
package bloom

import (
	"encoding/binary"
	"math"
	"math/bits"

	"github.com/spaolacci/murmur3"
)

// Filter is a fixed-size bloom filter. It never resizes: inserting past the
// expected capacity saturates the bit array and the false positive rate
// rises accordingly.
//
// A Filter is not safe for concurrent use.
type Filter struct {
	bits      []uint64
	numBits   uint64
	numHashes uint64
	count     uint64
}

// New creates a Filter with the specified number of bits and hash functions.
func New(numBits, numHashes int) *Filter {
	if numBits <= 0 {
		numBits = 1024
	}
	if numHashes <= 0 {
		numHashes = 7
	}

	numWords := (numBits + 63) / 64
	return &Filter{
		bits:      make([]uint64, numWords),
		numBits:   uint64(numWords * 64),
		numHashes: uint64(numHashes),
	}
}

// NewWithEstimates creates a Filter sized for expectedItems at targetFPR.
func NewWithEstimates(expectedItems int, targetFPR float64) *Filter {
	return New(OptimalParameters(expectedItems, targetFPR))
}

// OptimalParameters calculates the number of bits and hash functions for a
// given expected number of items and target false positive rate:
//
//   - m = -n * ln(p) / (ln(2)^2)
//   - k = (m/n) * ln(2)
func OptimalParameters(expectedItems int, targetFPR float64) (numBits, numHashes int) {
	if expectedItems <= 0 {
		expectedItems = 1000
	}
	if targetFPR <= 0 || targetFPR >= 1 {
		targetFPR = 0.01
	}

	n := float64(expectedItems)
	m := -n * math.Log(targetFPR) / (math.Ln2 * math.Ln2)
	numBits = max(int(math.Ceil(m)), 64)
	numHashes = max(int(math.Ceil((m/n)*math.Ln2)), 1)
	return numBits, numHashes
}

// Add inserts item.
func (f *Filter) Add(item []byte) {
	h1, h2 := murmur3.Sum128(item)
	for i := uint64(0); i < f.numHashes; i++ {
		f.setBit((h1 + i*h2) % f.numBits)
	}
	f.count++
}

// Contains reports whether item might be present. A false result is
// definitive; a true result may be a false positive.
func (f *Filter) Contains(item []byte) bool {
	h1, h2 := murmur3.Sum128(item)
	for i := uint64(0); i < f.numHashes; i++ {
		if !f.getBit((h1 + i*h2) % f.numBits) {
			return false
		}
	}
	return true
}

// AddInt32 inserts v using its 4-byte little-endian encoding.
func (f *Filter) AddInt32(v int32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	f.Add(buf[:])
}

// ContainsInt32 is Contains for the 4-byte little-endian encoding of v.
func (f *Filter) ContainsInt32(v int32) bool {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	return f.Contains(buf[:])
}

func (f *Filter) setBit(pos uint64) {
	f.bits[pos/64] |= 1 << (pos % 64)
}

func (f *Filter) getBit(pos uint64) bool {
	return f.bits[pos/64]&(1<<(pos%64)) != 0
}

// NumBits returns the number of bits in the filter.
func (f *Filter) NumBits() int {
	return int(f.numBits)
}

// NumHashes returns the number of hash functions used.
func (f *Filter) NumHashes() int {
	return int(f.numHashes)
}

// Count returns the number of Add calls, including re-insertions.
func (f *Filter) Count() uint64 {
	return f.count
}

// EstimatedFalsePositiveRate returns the expected false positive rate for
// the current insertion count: (1 - e^(-k*n/m))^k.
func (f *Filter) EstimatedFalsePositiveRate() float64 {
	if f.count == 0 {
		return 0
	}
	k := float64(f.numHashes)
	n := float64(f.count)
	m := float64(f.numBits)
	return math.Pow(1-math.Exp(-k*n/m), k)
}

// FillRatio returns the fraction of bits currently set.
func (f *Filter) FillRatio() float64 {
	set := 0
	for _, w := range f.bits {
		set += bits.OnesCount64(w)
	}
	return float64(set) / float64(f.numBits)
}
