// Package prommetrics exports facetgo engine metrics to Prometheus.
//
//	c := prommetrics.New(prometheus.DefaultRegisterer)
//	eng := facetgo.New(facetgo.WithMetricsCollector(c))
package prommetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/facetgo"
)

const namespace = "facetgo"

// Collector implements facetgo.MetricsCollector with Prometheus metrics.
type Collector struct {
	deriveLatency *prometheus.HistogramVec
	ops           *prometheus.CounterVec
	items         prometheus.Counter
	facets        prometheus.Histogram
	dropped       prometheus.Counter
	scanned       prometheus.Counter
	matched       prometheus.Counter
}

var _ facetgo.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its metrics with reg.
// A nil reg leaves the metrics unregistered.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		deriveLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "derive_latency_seconds",
			Help:      "Latency of facet derivations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total engine operations",
		}, []string{"op", "status"}),
		items: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "derive_items_total",
			Help:      "Total items scanned by derivations",
		}),
		facets: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "derive_facets",
			Help:      "Number of facets surfaced per derivation",
			Buckets:   prometheus.LinearBuckets(0, 2, 8),
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selections_dropped_total",
			Help:      "Total selections no constraint constructor accepted",
		}),
		scanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_scanned_total",
			Help:      "Total items pulled by filtered sequences",
		}),
		matched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_matched_total",
			Help:      "Total items yielded by filtered sequences",
		}),
	}

	if reg != nil {
		reg.MustRegister(c.deriveLatency, c.ops, c.items, c.facets, c.dropped, c.scanned, c.matched)
	}

	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordDerive implements facetgo.MetricsCollector.
func (c *Collector) RecordDerive(items, facets int, d time.Duration, err error) {
	s := status(err)
	c.deriveLatency.WithLabelValues(s).Observe(d.Seconds())
	c.ops.WithLabelValues("derive", s).Inc()
	c.items.Add(float64(items))
	if err == nil {
		c.facets.Observe(float64(facets))
	}
}

// RecordResolve implements facetgo.MetricsCollector.
func (c *Collector) RecordResolve(requested, resolved int, err error) {
	c.ops.WithLabelValues("resolve", status(err)).Inc()
	if err == nil && requested > resolved {
		c.dropped.Add(float64(requested - resolved))
	}
}

// RecordFilter implements facetgo.MetricsCollector.
func (c *Collector) RecordFilter(scanned, matched int) {
	c.ops.WithLabelValues("filter", "success").Inc()
	c.scanned.Add(float64(scanned))
	c.matched.Add(float64(matched))
}
