package workloads

import (
	"cmp"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utkarsh5026/cpubench/internal/bench"
	"github.com/utkarsh5026/cpubench/internal/collections"
	"github.com/utkarsh5026/cpubench/internal/datagen"
)

func newContext(t *testing.T, dataSize, iterations int) *bench.Context {
	t.Helper()
	bc, err := bench.NewContext(dataSize, iterations, 1, datagen.New(datagen.DefaultSeed))
	require.NoError(t, err)
	return bc
}

func runAll(t *testing.T, w bench.Workload, bc *bench.Context) {
	t.Helper()
	require.NoError(t, w.Setup(bc))
	for i := range bc.Iterations() {
		require.NoError(t, w.RunIteration(bc, i))
	}
}

func TestRegistry_Defaults(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"event", "graph", "bloom", "cache", "immutable"}, r.Names())

	want := map[string][2]int{
		"event":     {200_000, 100_000},
		"graph":     {400_000, 15_000},
		"bloom":     {400_000, 2_000},
		"cache":     {100_000, 1_000},
		"immutable": {400_000, 32_000},
	}
	for name, defaults := range want {
		s, err := r.Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, defaults[0], s.DefaultDataSize, name)
		assert.Equal(t, defaults[1], s.DefaultIterations, name)
		assert.NotNil(t, s.New(), name)
	}

	_, err := r.Lookup("sort")
	assert.ErrorIs(t, err, bench.ErrUnknownWorkload)
}

func TestRegistry_NewReturnsFreshInstances(t *testing.T) {
	s, err := NewRegistry().Lookup("cache")
	require.NoError(t, err)
	assert.NotSame(t, s.New(), s.New())
}

func TestWorkloads_RunBeforeSetup(t *testing.T) {
	bc := newContext(t, 10, 1)
	for _, s := range Specs() {
		err := s.New().RunIteration(bc, 0)
		assert.ErrorIs(t, err, ErrNotSetUp, s.Name)
	}
}

func TestWorkloads_TeardownWithoutSetup(t *testing.T) {
	bc := newContext(t, 10, 1)
	for _, s := range Specs() {
		assert.NoError(t, s.New().Teardown(bc), s.Name)
	}
}

func TestSelectTopK_FirstSeenWinsTies(t *testing.T) {
	freq := collections.NewMultiset[int32](8)
	for _, u := range []int32{5, 3, 3, 7, 5, 9, 7, 1} {
		freq.Add(u)
	}
	// counts: 5:2 3:2 7:2 9:1 1:1, first seen order 5,3,7,9,1

	got := selectTopK(freq, 4, nil)
	assert.Equal(t, []int32{5, 3, 7, 9}, got)
	assert.Equal(t, 1, freq.Len(), "selected users are removed")
}

func TestSelectTopK_StopsWhenEmpty(t *testing.T) {
	freq := collections.NewMultiset[int32](2)
	freq.Add(1)
	freq.AddN(2, 3)

	assert.Equal(t, []int32{2, 1}, selectTopK(freq, 20, nil))
	assert.Zero(t, freq.Distinct())
}

func TestEventAggregation_TopUsersMatchWindowCounts(t *testing.T) {
	const dataSize = 1000
	bc := newContext(t, dataSize, 1)
	w := NewEventAggregation()
	runAll(t, w, bc)

	assert.Equal(t, dataSize, w.WindowSize())

	// Reference: users by descending count, ties broken by first appearance.
	events := datagen.New(datagen.DefaultSeed).Events(dataSize, datagen.DefaultCategoryCount)
	counts := map[int32]int{}
	var order []int32
	for _, e := range events[:w.WindowSize()] {
		if counts[e.UserID] == 0 {
			order = append(order, e.UserID)
		}
		counts[e.UserID]++
	}
	slices.SortStableFunc(order, func(a, b int32) int {
		return cmp.Compare(counts[b], counts[a])
	})

	assert.Equal(t, order[:defaultTopK], w.TopUsers())
}

func TestEventAggregation_WindowRotates(t *testing.T) {
	bc := newContext(t, 25_000, 3)
	w := NewEventAggregation()
	require.NoError(t, w.Setup(bc))
	assert.Equal(t, maxEventWindow, w.WindowSize())

	require.NoError(t, w.RunIteration(bc, 0))
	first := w.TopUsers()
	require.NoError(t, w.RunIteration(bc, 0))
	assert.Equal(t, first, w.TopUsers(), "same iteration index gives the same window")

	// Iteration 2 wraps around the end of the event array.
	require.NoError(t, w.RunIteration(bc, 2))
	assert.Len(t, w.TopUsers(), defaultTopK)
	require.NoError(t, w.Teardown(bc))
}

func TestGraphTraversal_Scenario(t *testing.T) {
	bc := newContext(t, 1000, 1)
	a, b := NewGraphTraversal(), NewGraphTraversal()
	runAll(t, a, bc)
	runAll(t, b, bc)

	assert.Equal(t, 1000, GraphNodeCount(1000))
	assert.Equal(t, 8000, GraphNodeCount(400_000))
	require.Equal(t, 1000, a.Graph().NodeCount())

	sa, sb := a.LastStats(), b.LastStats()
	assert.Equal(t, sa, sb, "same seed gives the same traversal counts")
	assert.Equal(t, 5930, a.Graph().EdgeCount())
	assert.Equal(t, GraphStats{BFS: [3]int{6896, 6896, 6896}, TopoCount: 5, CycleRoots: 487}, sa)
	assert.Greater(t, sa.BFS[0], 1)
	assert.LessOrEqual(t, sa.TopoCount, 1000)
	assert.Equal(t, sa.TopoCount < 1000, sa.CycleRoots > 0)
	assert.Equal(t, a.Sink(), b.Sink())
}

func TestBloomMembership_FalsePositiveRate(t *testing.T) {
	const dataSize = 20_000
	bc := newContext(t, dataSize, 3)
	w := NewBloomMembership()
	require.NoError(t, w.Setup(bc))

	// Keys at or above the query bound are never inserted.
	bound := bloomKeyBound(dataSize)
	const heldOut = 20_000
	measure := func() float64 {
		falsePositives := 0
		for i := range int32(heldOut) {
			if w.Filter().ContainsInt32(bound + i) {
				falsePositives++
			}
		}
		return float64(falsePositives) / heldOut
	}

	prev := measure()
	assert.LessOrEqual(t, prev, 3*bloomTargetFPR)
	for i := range bc.Iterations() {
		require.NoError(t, w.RunIteration(bc, i))
		fpr := measure()
		assert.GreaterOrEqual(t, fpr, prev, "iteration %d", i)
		prev = fpr
	}
	assert.Greater(t, prev, 0.0, "saturating inserts raise the measured rate")
	assert.Equal(t, int64(3*dataSize), w.Queries())
	assert.Positive(t, w.Inserted())
}

func TestBloomMembership_InstancesReplaySameKeys(t *testing.T) {
	bc := newContext(t, 2000, 2)
	a, b := NewBloomMembership(), NewBloomMembership()
	runAll(t, a, bc)
	runAll(t, b, bc)

	assert.Equal(t, a.Inserted(), b.Inserted())
	assert.Equal(t, a.Sink(), b.Sink())
}

func TestApproxCache_Scenario(t *testing.T) {
	bc := newContext(t, 100, 10)
	w := NewApproxCache()

	var passes []EvictionPass
	w.onEvict = func(p EvictionPass) { passes = append(passes, p) }

	require.NoError(t, w.Setup(bc))
	assert.Equal(t, 10, w.HotKeys())
	assert.Equal(t, 300, w.MaxSize())
	for key := range 10 {
		assert.True(t, w.Contains(key), "hot key %d preloaded", key)
	}

	for i := range bc.Iterations() {
		require.NoError(t, w.RunIteration(bc, i))
		assert.LessOrEqual(t, w.Len(), w.MaxSize(), "iteration %d", i)
	}

	require.NotEmpty(t, passes, "1000 mostly cold accesses must overflow 300 entries")
	for _, p := range passes {
		assert.Equal(t, min(50, p.PrePassSize/20), p.Bound)
		assert.LessOrEqual(t, p.Removed, p.Bound)
		assert.Greater(t, p.PrePassSize, w.MaxSize())
	}

	stats := w.Stats()
	assert.Equal(t, int64(len(passes)), stats.Passes)
	assert.Equal(t, int64(1000), stats.Hits+stats.Misses)
	assert.Equal(t, passes[len(passes)-1], stats.LastPass)

	require.NoError(t, w.Teardown(bc))
	assert.Zero(t, w.Len())
}

func TestApproxCache_RemoveKeepsIndexConsistent(t *testing.T) {
	w := NewApproxCache()
	w.entries = map[int]cacheEntry{}
	for key := range 5 {
		w.put(key, computeValue(key))
	}

	w.remove(1)
	w.remove(4)
	w.remove(42)

	assert.Equal(t, 3, w.Len())
	for pos, key := range w.keys {
		assert.Equal(t, pos, w.entries[key].pos)
	}
	assert.False(t, w.Contains(1))
	assert.True(t, w.Contains(3))
}

func TestComputeValue(t *testing.T) {
	v := computeValue(255)
	assert.Equal(t, v, computeValue(255))
	assert.NotEqual(t, v, computeValue(256))
	assert.Regexp(t, `^[0-9a-f]+:ff$`, v)
}

func TestImmutableSnapshot_SetIdentities(t *testing.T) {
	for _, dataSize := range []int{1, 2, 7, 16, 1000, 50_000} {
		bc := newContext(t, dataSize, 2)
		w := NewImmutableSnapshot()
		require.NoError(t, w.Setup(bc))

		for i := range bc.Iterations() {
			require.NoError(t, w.RunIteration(bc, i))
			s := w.LastStats()
			assert.Equal(t, s.A, s.Intersect+s.OnlyA, "dataSize=%d", dataSize)
			assert.Equal(t, s.B, s.Intersect+s.OnlyB, "dataSize=%d", dataSize)
		}
	}
}

func TestImmutableSnapshot_SliceBounds(t *testing.T) {
	bc := newContext(t, 16, 1)
	w := NewImmutableSnapshot()
	runAll(t, w, bc)

	// slice=2: A=[0,2) B=[1,3) C=[2,4). Values come from [0, MaxInt32), so
	// duplicates are practically impossible at this size.
	s := w.LastStats()
	assert.Equal(t, 2, s.A)
	assert.Equal(t, 2, s.B)
	assert.Equal(t, 1, s.Intersect)
	assert.Equal(t, 2, s.C)
}
