// Package promcollector exports packset engine metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	c, err := promcollector.New(reg)
//	if err != nil {
//	    return err
//	}
//	e := packset.New(packset.WithMetricsCollector(c))
package promcollector

import (
	"time"

	"github.com/hupe1980/packset"
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "packset"

// Collector implements packset.MetricsCollector with Prometheus metrics.
type Collector struct {
	opLatency  *prometheus.HistogramVec
	encoded    prometheus.Counter
	queryLen   *prometheus.HistogramVec
	filterRows *prometheus.CounterVec
}

var _ packset.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its metrics with reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of packset operations",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"op", "status"}),
		encoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "encoded_values_total",
			Help:      "Total input values passed to encode",
		}),
		queryLen: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "query_values",
			Help:      "Canonical query size per containment query",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}, []string{"mode"}),
		filterRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "filter_rows_total",
			Help:      "Rows evaluated by batch filters",
		}, []string{"result"}),
	}

	var registered []prometheus.Collector
	for _, col := range []prometheus.Collector{c.opLatency, c.encoded, c.queryLen, c.filterRows} {
		if err := reg.Register(col); err != nil {
			for _, r := range registered {
				reg.Unregister(r)
			}
			return nil, err
		}
		registered = append(registered, col)
	}

	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordEncode implements packset.MetricsCollector.
func (c *Collector) RecordEncode(count int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("encode", status(err)).Observe(d.Seconds())
	c.encoded.Add(float64(count))
}

// RecordDecode implements packset.MetricsCollector.
func (c *Collector) RecordDecode(size int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("decode", status(err)).Observe(d.Seconds())
}

// RecordQuery implements packset.MetricsCollector.
func (c *Collector) RecordQuery(mode packset.Mode, queryLen int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("contains_"+mode.String(), status(err)).Observe(d.Seconds())
	c.queryLen.WithLabelValues(mode.String()).Observe(float64(queryLen))
}

// RecordDump implements packset.MetricsCollector.
func (c *Collector) RecordDump(size int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("dump", status(err)).Observe(d.Seconds())
}

// RecordFilter implements packset.MetricsCollector.
func (c *Collector) RecordFilter(mode packset.Mode, rows, matched int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("filter_"+mode.String(), status(err)).Observe(d.Seconds())
	if err != nil {
		return
	}
	c.filterRows.WithLabelValues("matched").Add(float64(matched))
	c.filterRows.WithLabelValues("rejected").Add(float64(rows - matched))
}
