package packset

import (
	"runtime"

	"github.com/hupe1980/packset/codec"
	"github.com/hupe1980/packset/internal/msgtree"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	dumpCodec        codec.Codec
	verifySorted     bool
	maxDepth         int
	concurrency      int
}

func defaultOptions() options {
	return options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		dumpCodec:        codec.Default,
		maxDepth:         msgtree.DefaultMaxDepth,
		concurrency:      runtime.GOMAXPROCS(0),
	}
}

// Option configures an Engine.
type Option func(*options)

// WithLogger configures structured logging for engine operations.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &packset.BasicMetricsCollector{}
//	e := packset.New(packset.WithMetricsCollector(metrics))
//	// ... use e ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithVerifySorted enables a full ordering check of every queried or decoded
// array. Out-of-order or duplicate elements are then reported as
// *UnsortedError instead of silently producing a wrong answer.
//
// The check visits every element, so queries lose their early exit.
func WithVerifySorted(enabled bool) Option {
	return func(o *options) {
		o.verifySorted = enabled
	}
}

// WithMaxDepth bounds container nesting accepted by the parser.
// Values <= 0 select the default.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithDumpCodec configures the text codec used by Dump.
//
// If nil is passed, codec.Default is used.
func WithDumpCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.dumpCodec = c
	}
}

// WithConcurrency bounds the number of rows Filter evaluates in parallel.
// Values <= 0 select GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		o.concurrency = n
	}
}
