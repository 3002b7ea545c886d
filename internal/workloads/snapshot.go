package workloads

import (
	"math"

	"github.com/utkarsh5026/cpubench/internal/bench"
	"github.com/utkarsh5026/cpubench/internal/collections"
)

// SnapshotStats are the set sizes computed by one iteration.
type SnapshotStats struct {
	A         int
	B         int
	Intersect int
	OnlyA     int
	OnlyB     int
	C         int
}

// ImmutableSnapshot builds three overlapping immutable slices of a shared
// base array every iteration and runs set algebra over them.
type ImmutableSnapshot struct {
	base []int32
	last SnapshotStats
	sink int64
}

// NewImmutableSnapshot returns an empty snapshot workload.
func NewImmutableSnapshot() *ImmutableSnapshot {
	return &ImmutableSnapshot{}
}

func (w *ImmutableSnapshot) Setup(bc *bench.Context) error {
	w.base = bc.Generator().IntArray(bc.DataSize(), math.MaxInt32)
	return nil
}

func (w *ImmutableSnapshot) RunIteration(bc *bench.Context, iteration int) error {
	if len(w.base) == 0 {
		return ErrNotSetUp
	}

	n := len(w.base)
	slice := max(1, n/8)

	snapA := w.buildSlice(0, slice)
	snapB := w.buildSlice(slice/2, slice+slice/2)
	setA := collections.SetOf(snapA)
	setB := collections.SetOf(snapB)

	var stats SnapshotStats
	var sink int64
	for v := range setA.All() {
		if setB.Contains(v) {
			stats.Intersect++
			continue
		}
		stats.OnlyA++
		sink += int64(murmur32Int(v))
	}
	for v := range setB.All() {
		if !setA.Contains(v) {
			stats.OnlyB++
			sink ^= murmur128Long(int64(v))
		}
	}

	snapC := w.buildSlice(slice, min(n, 2*slice))
	setC := collections.SetOf(snapC)
	for v := range setC.All() {
		sink += int64(v & 0xFF)
	}

	stats.A, stats.B, stats.C = setA.Len(), setB.Len(), setC.Len()
	w.last = stats
	w.sink += sink
	return nil
}

// buildSlice copies base[start:end) into a new immutable list, clamping both
// bounds to the array.
func (w *ImmutableSnapshot) buildSlice(start, end int) collections.ImmutableList[int32] {
	end = min(end, len(w.base))
	start = min(start, end)
	return collections.NewImmutableList(w.base[start:end])
}

// LastStats returns the set sizes of the most recent iteration.
func (w *ImmutableSnapshot) LastStats() SnapshotStats { return w.last }

// Sink returns the accumulated checksum of all iterations.
func (w *ImmutableSnapshot) Sink() int64 { return w.sink }

func (w *ImmutableSnapshot) Teardown(bc *bench.Context) error {
	w.base = nil
	return nil
}
