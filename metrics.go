package packset

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus
// (see package promcollector).
type MetricsCollector interface {
	// RecordEncode is called after each encode operation.
	// count is the number of input values, err is nil if successful.
	RecordEncode(count int, duration time.Duration, err error)

	// RecordDecode is called after each decode operation.
	// size is the buffer length in bytes.
	RecordDecode(size int, duration time.Duration, err error)

	// RecordQuery is called after each containment query.
	// queryLen is the number of canonical query values.
	RecordQuery(mode Mode, queryLen int, duration time.Duration, err error)

	// RecordDump is called after each dump operation.
	RecordDump(size int, duration time.Duration, err error)

	// RecordFilter is called after each batch filter.
	// rows is the number of rows evaluated, matched the number that matched.
	RecordFilter(mode Mode, rows, matched int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordEncode(int, time.Duration, error)            {}
func (NoopMetricsCollector) RecordDecode(int, time.Duration, error)            {}
func (NoopMetricsCollector) RecordQuery(Mode, int, time.Duration, error)       {}
func (NoopMetricsCollector) RecordDump(int, time.Duration, error)              {}
func (NoopMetricsCollector) RecordFilter(Mode, int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	EncodeCount     atomic.Int64
	EncodeErrors    atomic.Int64
	EncodeValues    atomic.Int64
	DecodeCount     atomic.Int64
	DecodeErrors    atomic.Int64
	QueryAllCount   atomic.Int64
	QueryAnyCount   atomic.Int64
	QueryErrors     atomic.Int64
	QueryTotalNanos atomic.Int64
	DumpCount       atomic.Int64
	DumpErrors      atomic.Int64
	FilterCount     atomic.Int64
	FilterRows      atomic.Int64
	FilterMatched   atomic.Int64
	FilterErrors    atomic.Int64
}

// RecordEncode implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEncode(count int, duration time.Duration, err error) {
	b.EncodeCount.Add(1)
	b.EncodeValues.Add(int64(count))
	if err != nil {
		b.EncodeErrors.Add(1)
	}
}

// RecordDecode implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDecode(size int, duration time.Duration, err error) {
	b.DecodeCount.Add(1)
	if err != nil {
		b.DecodeErrors.Add(1)
	}
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(mode Mode, queryLen int, duration time.Duration, err error) {
	if mode == MatchAny {
		b.QueryAnyCount.Add(1)
	} else {
		b.QueryAllCount.Add(1)
	}
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
	}
}

// RecordDump implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDump(size int, duration time.Duration, err error) {
	b.DumpCount.Add(1)
	if err != nil {
		b.DumpErrors.Add(1)
	}
}

// RecordFilter implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFilter(mode Mode, rows, matched int, duration time.Duration, err error) {
	b.FilterCount.Add(1)
	b.FilterRows.Add(int64(rows))
	b.FilterMatched.Add(int64(matched))
	if err != nil {
		b.FilterErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		EncodeCount:   b.EncodeCount.Load(),
		EncodeErrors:  b.EncodeErrors.Load(),
		EncodeValues:  b.EncodeValues.Load(),
		DecodeCount:   b.DecodeCount.Load(),
		DecodeErrors:  b.DecodeErrors.Load(),
		QueryAllCount: b.QueryAllCount.Load(),
		QueryAnyCount: b.QueryAnyCount.Load(),
		QueryErrors:   b.QueryErrors.Load(),
		QueryAvgNanos: b.getAvgQueryNanos(),
		DumpCount:     b.DumpCount.Load(),
		DumpErrors:    b.DumpErrors.Load(),
		FilterCount:   b.FilterCount.Load(),
		FilterRows:    b.FilterRows.Load(),
		FilterMatched: b.FilterMatched.Load(),
		FilterErrors:  b.FilterErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgQueryNanos() int64 {
	count := b.QueryAllCount.Load() + b.QueryAnyCount.Load()
	if count == 0 {
		return 0
	}
	return b.QueryTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	EncodeCount   int64
	EncodeErrors  int64
	EncodeValues  int64
	DecodeCount   int64
	DecodeErrors  int64
	QueryAllCount int64
	QueryAnyCount int64
	QueryErrors   int64
	QueryAvgNanos int64
	DumpCount     int64
	DumpErrors    int64
	FilterCount   int64
	FilterRows    int64
	FilterMatched int64
	FilterErrors  int64
}
