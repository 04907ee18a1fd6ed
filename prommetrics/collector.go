// Package prommetrics exports store metrics to Prometheus.
package prommetrics

import (
	"time"

	"github.com/hupe1980/vfcprobe"
	"github.com/prometheus/client_golang/prometheus"
)

// Config names the metrics.
type Config struct {
	Namespace string
	Subsystem string

	// LatencyBuckets are the histogram buckets for operation latency, in seconds.
	LatencyBuckets []float64
}

// DefaultConfig returns the metric names used by vfcprobe.
func DefaultConfig() Config {
	return Config{
		Namespace:      "vfcprobe",
		Subsystem:      "store",
		LatencyBuckets: prometheus.ExponentialBuckets(1e-7, 4, 12),
	}
}

// Collector implements vfcprobe.MetricsCollector on Prometheus metrics.
type Collector struct {
	opLatency *prometheus.HistogramVec
	ops       *prometheus.CounterVec
	lookups   *prometheus.CounterVec
	dumpRows  prometheus.Counter
	capacity  prometheus.Gauge
}

var _ vfcprobe.MetricsCollector = (*Collector)(nil)

// New creates a collector and registers its metrics with reg.
func New(reg prometheus.Registerer, cfg Config) (*Collector, error) {
	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "operation_latency_seconds",
			Help:      "Latency of store operations",
			Buckets:   cfg.LatencyBuckets,
		}, []string{"op"}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "operations_total",
			Help:      "Total store operations by outcome",
		}, []string{"op", "status"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "lookups_total",
			Help:      "Total lookups by result",
		}, []string{"result"}),
		dumpRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "dump_rows_total",
			Help:      "Total rows written by exports",
		}),
		capacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "capacity_slots",
			Help:      "Slot count after the last resize",
		}),
	}

	for _, m := range []prometheus.Collector{c.opLatency, c.ops, c.lookups, c.dumpRows, c.capacity} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordInsert implements vfcprobe.MetricsCollector.
func (c *Collector) RecordInsert(d time.Duration, err error) {
	c.opLatency.WithLabelValues("insert").Observe(d.Seconds())
	c.ops.WithLabelValues("insert", status(err)).Inc()
}

// RecordLookup implements vfcprobe.MetricsCollector.
func (c *Collector) RecordLookup(d time.Duration, found bool) {
	c.opLatency.WithLabelValues("lookup").Observe(d.Seconds())
	result := "hit"
	if !found {
		result = "miss"
	}
	c.lookups.WithLabelValues(result).Inc()
}

// RecordRemove implements vfcprobe.MetricsCollector.
func (c *Collector) RecordRemove(d time.Duration, err error) {
	c.opLatency.WithLabelValues("remove").Observe(d.Seconds())
	c.ops.WithLabelValues("remove", status(err)).Inc()
}

// RecordDump implements vfcprobe.MetricsCollector.
func (c *Collector) RecordDump(rows int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("dump").Observe(d.Seconds())
	c.ops.WithLabelValues("dump", status(err)).Inc()
	c.dumpRows.Add(float64(rows))
}

// RecordResize implements vfcprobe.MetricsCollector.
func (c *Collector) RecordResize(capacity int) {
	c.ops.WithLabelValues("resize", "success").Inc()
	c.capacity.Set(float64(capacity))
}
