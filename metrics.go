package facetgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Implementations must be safe for concurrent use: one Engine may serve many
// callers at once.
type MetricsCollector interface {
	// RecordDerive is called after each derivation pass.
	// items is the number of items scanned, facets the number surfaced.
	RecordDerive(items, facets int, duration time.Duration, err error)

	// RecordResolve is called after constraint resolution.
	// requested is the number of selections, resolved the number of
	// constraints built from them.
	RecordResolve(requested, resolved int, err error)

	// RecordFilter is called when a filtered sequence is exhausted or its
	// consumer stops pulling.
	RecordFilter(scanned, matched int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordDerive(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordResolve(int, int, error)               {}
func (NoopMetricsCollector) RecordFilter(int, int)                       {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	DeriveCount      atomic.Int64
	DeriveErrors     atomic.Int64
	DeriveItems      atomic.Int64
	DeriveTotalNanos atomic.Int64
	ResolveCount     atomic.Int64
	ResolveErrors    atomic.Int64
	DroppedCount     atomic.Int64
	FilterCount      atomic.Int64
	FilterScanned    atomic.Int64
	FilterMatched    atomic.Int64
}

// RecordDerive implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDerive(items, facets int, duration time.Duration, err error) {
	b.DeriveCount.Add(1)
	b.DeriveItems.Add(int64(items))
	b.DeriveTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.DeriveErrors.Add(1)
	}
}

// RecordResolve implements MetricsCollector.
func (b *BasicMetricsCollector) RecordResolve(requested, resolved int, err error) {
	b.ResolveCount.Add(1)
	if err != nil {
		b.ResolveErrors.Add(1)
		return
	}
	b.DroppedCount.Add(int64(requested - resolved))
}

// RecordFilter implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFilter(scanned, matched int) {
	b.FilterCount.Add(1)
	b.FilterScanned.Add(int64(scanned))
	b.FilterMatched.Add(int64(matched))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		DeriveCount:    b.DeriveCount.Load(),
		DeriveErrors:   b.DeriveErrors.Load(),
		DeriveItems:    b.DeriveItems.Load(),
		DeriveAvgNanos: b.getAvgDeriveNanos(),
		ResolveCount:   b.ResolveCount.Load(),
		ResolveErrors:  b.ResolveErrors.Load(),
		DroppedCount:   b.DroppedCount.Load(),
		FilterCount:    b.FilterCount.Load(),
		FilterScanned:  b.FilterScanned.Load(),
		FilterMatched:  b.FilterMatched.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgDeriveNanos() int64 {
	count := b.DeriveCount.Load()
	if count == 0 {
		return 0
	}
	return b.DeriveTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	DeriveCount    int64
	DeriveErrors   int64
	DeriveItems    int64
	DeriveAvgNanos int64
	ResolveCount   int64
	ResolveErrors  int64
	DroppedCount   int64
	FilterCount    int64
	FilterScanned  int64
	FilterMatched  int64
}
