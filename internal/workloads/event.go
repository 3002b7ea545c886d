package workloads

import (
	"github.com/utkarsh5026/cpubench/internal/bench"
	"github.com/utkarsh5026/cpubench/internal/collections"
	"github.com/utkarsh5026/cpubench/internal/datagen"
)

const (
	maxEventWindow = 10_000
	defaultTopK    = 20
)

// EventAggregation rebuilds a sliding window over a fixed event stream every
// iteration, groups it by category and picks the most active users.
type EventAggregation struct {
	events     []datagen.Event
	window     *collections.Multimap[string, datagen.Event]
	userFreq   *collections.Multiset[int32]
	windowSize int
	topK       int

	topUsers []int32
	sink     int64
}

// NewEventAggregation returns an event workload that selects the top 20 users.
func NewEventAggregation() *EventAggregation {
	return &EventAggregation{topK: defaultTopK}
}

func (w *EventAggregation) Setup(bc *bench.Context) error {
	w.windowSize = min(maxEventWindow, bc.DataSize())
	w.events = bc.Generator().Events(bc.DataSize(), datagen.DefaultCategoryCount)
	w.window = collections.NewMultimap[string, datagen.Event](datagen.DefaultCategoryCount)
	w.userFreq = collections.NewMultiset[int32](w.windowSize)
	w.topUsers = make([]int32, 0, w.topK)
	return nil
}

func (w *EventAggregation) RunIteration(bc *bench.Context, iteration int) error {
	if len(w.events) == 0 {
		return ErrNotSetUp
	}

	batch := min(w.windowSize, len(w.events))
	start := (iteration * batch) % len(w.events)

	w.window.Clear()
	w.userFreq.Clear()
	for i := range batch {
		e := w.events[(start+i)%len(w.events)]
		w.window.Put(e.Category, e)
		w.userFreq.Add(e.UserID)
	}

	var sink int64
	for category, group := range w.window.Groups() {
		sink += int64(murmur32String(category)) * int64(len(group))
	}

	w.topUsers = selectTopK(w.userFreq, w.topK, w.topUsers[:0])
	w.sink += sink + int64(len(w.topUsers))
	return nil
}

// selectTopK repeatedly scans freq for the element with the strictly greatest
// count, appends it to dst and removes it. Ties go to the element seen first.
// freq is drained of the selected elements.
func selectTopK(freq *collections.Multiset[int32], k int, dst []int32) []int32 {
	for range k {
		bestUser, bestFreq := int32(-1), -1
		for user, count := range freq.Entries() {
			if count > bestFreq {
				bestUser, bestFreq = user, count
			}
		}
		if bestFreq < 0 {
			break
		}
		dst = append(dst, bestUser)
		freq.Remove(bestUser, bestFreq)
	}
	return dst
}

// TopUsers returns the users selected by the most recent iteration, most
// frequent first.
func (w *EventAggregation) TopUsers() []int32 {
	return append([]int32(nil), w.topUsers...)
}

// WindowSize is the number of events aggregated per iteration.
func (w *EventAggregation) WindowSize() int { return w.windowSize }

// Sink returns the accumulated checksum of all iterations.
func (w *EventAggregation) Sink() int64 { return w.sink }

func (w *EventAggregation) Teardown(bc *bench.Context) error {
	w.events = nil
	if w.window != nil {
		w.window.Clear()
	}
	if w.userFreq != nil {
		w.userFreq.Clear()
	}
	return nil
}
