package packset

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/packset/internal/msgtree"
	"github.com/hupe1980/packset/internal/sortedset"
)

// Mode selects the containment semantics of a query.
type Mode = sortedset.Mode

const (
	// MatchAll reports whether every query value is present.
	MatchAll = sortedset.MatchAll
	// MatchAny reports whether at least one query value is present.
	MatchAny = sortedset.MatchAny
)

// Engine encodes and queries sorted integer sets.
//
// An Engine holds only configuration, so it is safe for concurrent use.
// Every call parses its own buffer and releases it before returning.
type Engine struct {
	opts options
}

// New creates an Engine.
func New(optFns ...Option) *Engine {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Engine{opts: opts}
}

func (e *Engine) setOptions() sortedset.Options {
	return sortedset.Options{
		MaxDepth:     e.opts.maxDepth,
		VerifySorted: e.opts.verifySorted,
	}
}

// Encode sorts and deduplicates values and returns them as a MessagePack array.
// An empty input encodes an empty array.
func (e *Engine) Encode(ctx context.Context, values ...int64) ([]byte, error) {
	start := time.Now()

	buf, err := sortedset.Build(nil, values)
	err = translateError(err)

	e.opts.metricsCollector.RecordEncode(len(values), time.Since(start), err)
	e.opts.logger.LogEncode(ctx, len(values), len(buf), err)

	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Decode returns the elements of an encoded set in stored order.
func (e *Engine) Decode(ctx context.Context, buf []byte) ([]int64, error) {
	start := time.Now()

	values, err := sortedset.Decode(buf, e.setOptions())
	err = translateError(err)

	e.opts.metricsCollector.RecordDecode(len(buf), time.Since(start), err)
	e.opts.logger.LogDecode(ctx, len(buf), len(values), err)

	if err != nil {
		return nil, err
	}
	return values, nil
}

// ContainsAll reports whether the encoded set contains every query value.
// An empty query is vacuously contained.
func (e *Engine) ContainsAll(ctx context.Context, buf []byte, query ...int64) (bool, error) {
	return e.Contains(ctx, MatchAll, buf, query...)
}

// ContainsAny reports whether the encoded set contains at least one query value.
// An empty query never matches.
func (e *Engine) ContainsAny(ctx context.Context, buf []byte, query ...int64) (bool, error) {
	return e.Contains(ctx, MatchAny, buf, query...)
}

// Contains runs a containment query in the given mode.
//
// The encoded array is trusted to be strictly ascending unless
// WithVerifySorted is set; an out-of-order array yields an unspecified
// boolean, never a panic.
func (e *Engine) Contains(ctx context.Context, mode Mode, buf []byte, query ...int64) (bool, error) {
	start := time.Now()

	q := sortedset.Canonicalize(query)
	found, err := sortedset.Query(buf, mode, q, e.setOptions())
	err = translateError(err)

	e.opts.metricsCollector.RecordQuery(mode, len(q), time.Since(start), err)
	e.opts.logger.LogQuery(ctx, mode, len(q), found, err)

	if err != nil {
		return false, err
	}
	return found, nil
}

// Dump renders any MessagePack buffer as JSON-like text for diagnostics.
// Map keys are rendered as strings and non-finite floats as "NaN", "+Inf"
// or "-Inf".
func (e *Engine) Dump(ctx context.Context, buf []byte) (string, error) {
	start := time.Now()

	text, err := e.dump(buf)

	e.opts.metricsCollector.RecordDump(len(buf), time.Since(start), err)
	e.opts.logger.LogDump(ctx, len(buf), err)

	return text, err
}

func (e *Engine) dump(buf []byte) (string, error) {
	t, err := msgtree.Parse(buf, func(o *msgtree.Options) {
		o.MaxDepth = e.opts.maxDepth
	})
	if err != nil {
		return "", translateError(err)
	}
	defer t.Release()

	v, err := t.Root().Value()
	if err != nil {
		return "", translateError(err)
	}

	out, err := e.opts.dumpCodec.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("dump: render with %s: %w", e.opts.dumpCodec.Name(), err)
	}
	return string(out), nil
}

var defaultEngine = New()

// Encode sorts and deduplicates values and returns them as a MessagePack
// array, using a default Engine.
func Encode(values ...int64) ([]byte, error) {
	return defaultEngine.Encode(context.Background(), values...)
}

// Decode returns the elements of an encoded set, using a default Engine.
func Decode(buf []byte) ([]int64, error) {
	return defaultEngine.Decode(context.Background(), buf)
}

// ContainsAll reports whether the encoded set contains every query value,
// using a default Engine.
func ContainsAll(buf []byte, query ...int64) (bool, error) {
	return defaultEngine.ContainsAll(context.Background(), buf, query...)
}

// ContainsAny reports whether the encoded set contains at least one query
// value, using a default Engine.
func ContainsAny(buf []byte, query ...int64) (bool, error) {
	return defaultEngine.ContainsAny(context.Background(), buf, query...)
}

// Dump renders a MessagePack buffer as JSON text, using a default Engine.
func Dump(buf []byte) (string, error) {
	return defaultEngine.Dump(context.Background(), buf)
}
