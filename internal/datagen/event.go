package datagen

// Epoch is the reference wall-clock instant (Unix milliseconds) that event
// timestamps are generated relative to.
const Epoch int64 = 1_700_000_000_000

// DefaultCategoryCount is the number of distinct event categories produced by
// the event aggregation workload.
const DefaultCategoryCount = 200

// Event is one synthetic stream record.
type Event struct {
	UserID          int32
	Value           int32
	TimestampMillis int64
	Category        string
}

// Events returns size synthetic events. User ids are drawn from
// [0, size/10] so active users repeat, values from [0, 1000), timestamps from
// the million milliseconds preceding Epoch and categories from
// "C0".."C<categoryCount-1>".
func (g *Generator) Events(size, categoryCount int) []Event {
	if size <= 0 {
		return []Event{}
	}
	if categoryCount <= 0 {
		categoryCount = DefaultCategoryCount
	}

	rng := g.source(streamEvents)
	labels := categoryLabels(categoryCount)
	userBound := int32(size/10 + 1)

	events := make([]Event, size)
	for i := range events {
		events[i] = Event{
			UserID:          rng.Int32N(userBound),
			Value:           rng.Int32N(1000),
			TimestampMillis: Epoch - int64(rng.IntN(1_000_000)),
			Category:        labels[rng.IntN(categoryCount)],
		}
	}
	return events
}
