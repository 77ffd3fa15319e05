// Package packset encodes integer sets as MessagePack arrays and answers
// containment queries against them without materializing the set.
//
// An encoded set is a single MessagePack array whose elements are strictly
// ascending integers. Encode produces that form from any input:
//
//	buf, _ := packset.Encode(3, 1, 3, 2, 1) // [1, 2, 3]
//
// # Queries
//
// ContainsAll and ContainsAny parse the buffer once and merge-walk it against
// the sorted, deduplicated query. The walk stops as soon as the answer is
// known, so a miss early in a large array costs only a few elements:
//
//	ok, _ := packset.ContainsAll(buf, 1, 3) // true
//	ok, _ = packset.ContainsAny(buf, 7, 2)  // true
//
// Elements may be stored as signed or unsigned MessagePack integers.
// Ordering of the stored array is trusted by default; enable
// WithVerifySorted to turn out-of-contract input into *UnsortedError.
//
// An empty query is vacuously contained by ContainsAll and never matched by
// ContainsAny. Host bindings (see package sqlitefn) may reject empty queries
// with *ArityError before reaching the engine.
//
// # Errors
//
// Malformed buffers fail with *ParseError, a non-array root with
// *NotAnArrayError and a non-integer element with *NonIntegerElementError.
// All error types support errors.As.
//
// # Engine
//
// The package-level functions use a default Engine. Create your own to add
// logging, metrics or stricter validation:
//
//	e := packset.New(
//	    packset.WithLogger(packset.NewTextLogger(os.Stderr, slog.LevelDebug)),
//	    packset.WithMetricsCollector(&packset.BasicMetricsCollector{}),
//	    packset.WithVerifySorted(true),
//	)
//	ok, err := e.ContainsAll(ctx, buf, 1, 2)
//
// Engine.Filter evaluates one query against many encoded rows in parallel.
// EncodeBitmap and DecodeBitmap bridge to roaring64 bitmaps for set algebra.
package packset
