package testutil

import (
	"math"
	"math/rand"
	"sort"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Int64Range returns a pseudo-random int64 in [lo, hi].
func (r *RNG) Int64Range(lo, hi int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.int64RangeLocked(lo, hi)
}

func (r *RNG) int64RangeLocked(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	span := uint64(hi - lo)
	if span == math.MaxUint64 {
		return int64(r.rand.Uint64())
	}
	return lo + int64(r.rand.Uint64()%(span+1))
}

// Ints generates n values uniformly drawn from [lo, hi]. Duplicates are
// likely when n is large relative to the range.
func (r *RNG) Ints(n int, lo, hi int64) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int64, n)
	for i := range out {
		out[i] = r.int64RangeLocked(lo, hi)
	}
	return out
}

// Zipf returns a Zipfian-distributed value in [0, n).
// Uses Zipf's law: P(k) ∝ 1/k^s where s is the skew parameter.
// s=1.0 gives standard Zipf, s=1.5 gives heavy-tail (80/20 rule).
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	// Compute normalization constant (harmonic number with exponent s)
	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	// Sample from uniform and use inverse transform
	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1 // 0-indexed
		}
	}

	return n - 1
}

// ZipfInts generates n values in [0, distinct) with Zipfian skew, so a few
// values repeat many times.
func (r *RNG) ZipfInts(n, distinct int, s float64) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int64, n)
	for i := range n {
		out[i] = int64(r.zipfLocked(distinct, s))
	}

	return out
}

// Sample picks n values from values (with replacement) and mixes in misses
// drawn from [lo, hi] with probability missRate.
func (r *RNG) Sample(values []int64, n int, missRate float64, lo, hi int64) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int64, n)
	for i := range n {
		if len(values) == 0 || r.rand.Float64() < missRate {
			out[i] = r.int64RangeLocked(lo, hi)
			continue
		}
		out[i] = values[r.rand.Intn(len(values))]
	}

	return out
}

// Canonical returns the sorted distinct values using a map, independent of
// the package under test.
func Canonical(values []int64) []int64 {
	seen := make(map[int64]struct{}, len(values))
	out := make([]int64, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ContainsAll is the reference answer for an all-of query.
func ContainsAll(set, query []int64) bool {
	idx := toSet(set)
	for _, q := range query {
		if _, ok := idx[q]; !ok {
			return false
		}
	}
	return true
}

// ContainsAny is the reference answer for an any-of query.
func ContainsAny(set, query []int64) bool {
	idx := toSet(set)
	for _, q := range query {
		if _, ok := idx[q]; ok {
			return true
		}
	}
	return false
}

func toSet(values []int64) map[int64]struct{} {
	m := make(map[int64]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}
