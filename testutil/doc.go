// Package testutil provides testing utilities for packset.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random integer multisets and
// map-based reference implementations of the set queries.
//
// # Random Multisets
//
//	rng := testutil.NewRNG(seed)
//	values := rng.Ints(100, -50, 50)     // uniform, with duplicates
//	skewed := rng.ZipfInts(100, 20, 1.5) // heavy duplicates
//
// # Reference Queries
//
//	want := testutil.ContainsAll(values, query)
//	want = testutil.ContainsAny(values, query)
package testutil
