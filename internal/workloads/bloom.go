package workloads

import (
	"math"
	"math/rand/v2"

	"github.com/utkarsh5026/cpubench/internal/bench"
	"github.com/utkarsh5026/cpubench/internal/bloom"
)

const (
	bloomTargetFPR  = 0.01
	bloomKeyFactor  = 10
	bloomPreloadDiv = 2
)

// BloomMembership queries a Bloom filter sized for dataSize keys with keys
// from a ten times larger space and inserts every miss, so the filter
// saturates and its false positive rate climbs over the run.
type BloomMembership struct {
	filter *bloom.Filter
	bound  int32
	rng    *rand.Rand

	queries  int64
	inserted int64
	sink     int64
}

// NewBloomMembership returns an empty bloom workload.
func NewBloomMembership() *BloomMembership {
	return &BloomMembership{}
}

// bloomKeyBound returns the exclusive upper bound of query keys.
func bloomKeyBound(dataSize int) int32 {
	return int32(min(int64(dataSize)*bloomKeyFactor, math.MaxInt32))
}

func (w *BloomMembership) Setup(bc *bench.Context) error {
	w.bound = bloomKeyBound(bc.DataSize())
	w.filter = bloom.NewWithEstimates(bc.DataSize(), bloomTargetFPR)
	w.rng = bc.Generator().Rand(saltBloom)

	for range bc.DataSize() / bloomPreloadDiv {
		w.filter.AddInt32(w.rng.Int32N(w.bound))
	}
	return nil
}

func (w *BloomMembership) RunIteration(bc *bench.Context, iteration int) error {
	if w.filter == nil {
		return ErrNotSetUp
	}

	var sink int64
	for range bc.DataSize() {
		v := w.rng.Int32N(w.bound)
		present := w.filter.ContainsInt32(v)
		if !present {
			w.filter.AddInt32(v)
			w.inserted++
		}

		h := murmur128Int(sha256Int(v))
		if present {
			sink += int64(h)
		} else {
			sink += int64(^h)
		}
	}

	w.queries += int64(bc.DataSize())
	w.sink += sink
	return nil
}

// Filter returns the underlying filter.
func (w *BloomMembership) Filter() *bloom.Filter { return w.filter }

// Inserted returns how many query misses were added to the filter.
func (w *BloomMembership) Inserted() int64 { return w.inserted }

// Queries returns the number of membership queries issued so far.
func (w *BloomMembership) Queries() int64 { return w.queries }

// Sink returns the accumulated checksum of all iterations.
func (w *BloomMembership) Sink() int64 { return w.sink }

func (w *BloomMembership) Teardown(bc *bench.Context) error {
	w.filter = nil
	w.rng = nil
	return nil
}
