package workloads

import (
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/utkarsh5026/cpubench/internal/bench"
)

const (
	minHotKeys       = 10
	hotKeyDivisor    = 100
	coldKeyFactor    = 10
	maxSizeFactor    = 30
	hotAccessRatio   = 0.2
	evictProbability = 0.3
	maxEvictPerPass  = 50
	evictSizeDivisor = 20
	valueRounds      = 50
)

// EvictionPass describes one approximate eviction pass.
type EvictionPass struct {
	PrePassSize int
	Bound       int
	Removed     int
}

// CacheStats summarizes the accesses and evictions of a cache workload.
type CacheStats struct {
	Hits     int64
	Misses   int64
	Passes   int64
	Evicted  int64
	LastPass EvictionPass
}

type cacheEntry struct {
	value string
	pos   int
}

// ApproxCache simulates a cache with a small hot key range and a large cold
// one. Misses compute an expensive value; once the cache outgrows its bound a
// random pass evicts a handful of keys without any recency tracking.
//
// Keys are additionally held in a slice so that eviction walks them in a
// reproducible order.
type ApproxCache struct {
	entries map[int]cacheEntry
	keys    []int

	hot     int
	cold    int
	maxSize int
	rng     *rand.Rand

	stats   CacheStats
	onEvict func(EvictionPass)
	sink    int64
}

// NewApproxCache returns an empty cache workload.
func NewApproxCache() *ApproxCache {
	return &ApproxCache{}
}

// CacheBounds returns the hot key range, cold key range and size bound used
// for dataSize.
func CacheBounds(dataSize int) (hot, cold, maxSize int) {
	hot = max(minHotKeys, dataSize/hotKeyDivisor)
	return hot, dataSize * coldKeyFactor, hot * maxSizeFactor
}

func (w *ApproxCache) Setup(bc *bench.Context) error {
	w.hot, w.cold, w.maxSize = CacheBounds(bc.DataSize())
	w.entries = make(map[int]cacheEntry, w.hot*4)
	w.keys = make([]int, 0, w.maxSize+1)
	w.rng = bc.Generator().Rand(saltCache)
	w.stats = CacheStats{}

	for _, key := range bc.Generator().SequentialKeys(w.hot) {
		w.put(key, computeValue(key))
	}
	return nil
}

func (w *ApproxCache) RunIteration(bc *bench.Context, iteration int) error {
	if w.entries == nil {
		return ErrNotSetUp
	}

	var sink int64
	for range bc.DataSize() {
		var key int
		if w.rng.Float64() < hotAccessRatio {
			key = w.rng.IntN(w.hot)
		} else {
			key = w.hot + w.rng.IntN(w.cold)
		}

		e, ok := w.entries[key]
		val := e.value
		if ok {
			w.stats.Hits++
		} else {
			w.stats.Misses++
			val = computeValue(key)
			w.put(key, val)
			if len(w.keys) > w.maxSize {
				w.evict()
			}
		}
		sink += int64(len(val))
	}

	w.sink += sink
	return nil
}

func (w *ApproxCache) put(key int, value string) {
	if e, ok := w.entries[key]; ok {
		w.entries[key] = cacheEntry{value: value, pos: e.pos}
		return
	}
	w.entries[key] = cacheEntry{value: value, pos: len(w.keys)}
	w.keys = append(w.keys, key)
}

func (w *ApproxCache) remove(key int) {
	e, ok := w.entries[key]
	if !ok {
		return
	}
	last := len(w.keys) - 1
	if e.pos != last {
		moved := w.keys[last]
		w.keys[e.pos] = moved
		w.entries[moved] = cacheEntry{value: w.entries[moved].value, pos: e.pos}
	}
	w.keys = w.keys[:last]
	delete(w.entries, key)
}

// evict walks a snapshot of the key set once, removing each key with
// probability 0.3 until min(50, size/20) keys are gone.
func (w *ApproxCache) evict() {
	pass := EvictionPass{
		PrePassSize: len(w.keys),
		Bound:       min(maxEvictPerPass, len(w.keys)/evictSizeDivisor),
	}

	if pass.Bound > 0 {
		for _, key := range slices.Clone(w.keys) {
			if w.rng.Float64() < evictProbability {
				w.remove(key)
				pass.Removed++
				if pass.Removed >= pass.Bound {
					break
				}
			}
		}
	}

	w.stats.Passes++
	w.stats.Evicted += int64(pass.Removed)
	w.stats.LastPass = pass
	if w.onEvict != nil {
		w.onEvict(pass)
	}
}

// computeValue derives the cached value for key through 50 rounds of
// murmur3 mixing. The result is "<hex digest>:<hex key>".
func computeValue(key int) string {
	acc := int64(key)
	for i := range valueRounds {
		acc = murmur128Long(acc ^ (int64(i)*31 + int64(key)))
	}
	return strconv.FormatUint(uint64(acc), 16) + ":" + strconv.FormatUint(uint64(uint32(key)), 16)
}

// Len returns the number of cached entries.
func (w *ApproxCache) Len() int { return len(w.keys) }

// Contains reports whether key is cached.
func (w *ApproxCache) Contains(key int) bool {
	_, ok := w.entries[key]
	return ok
}

// MaxSize returns the size that triggers an eviction pass.
func (w *ApproxCache) MaxSize() int { return w.maxSize }

// HotKeys returns the size of the hot key range [0, HotKeys()).
func (w *ApproxCache) HotKeys() int { return w.hot }

// Stats returns access and eviction counters accumulated since Setup.
func (w *ApproxCache) Stats() CacheStats { return w.stats }

// Sink returns the accumulated checksum of all iterations.
func (w *ApproxCache) Sink() int64 { return w.sink }

func (w *ApproxCache) Teardown(bc *bench.Context) error {
	clear(w.entries)
	w.entries = nil
	w.keys = nil
	w.rng = nil
	return nil
}
