// Package prom exports cache and atlas activity as Prometheus metrics.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/IvanBrykalov/tileatlas/atlas"
	"github.com/IvanBrykalov/tileatlas/cache"
)

// Adapter implements cache.Metrics and atlas.Metrics and exports Prometheus
// counters/gauges. One Adapter can serve as both Options.Metrics and
// Options.CacheMetrics of an atlas.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	hits     prometheus.Counter
	misses   prometheus.Counter
	evicts   *prometheus.CounterVec
	sizeEnt  prometheus.Gauge
	sizeCost prometheus.Gauge

	rasterized *prometheus.CounterVec
	uploaded   prometheus.Counter
	freeSlots  prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub, Name: name, Help: help, ConstLabels: constLabels,
		})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Subsystem: sub, Name: name, Help: help, ConstLabels: constLabels,
		})
	}

	a := &Adapter{
		hits:   counter("hits_total", "Lookups served from a resident entry"),
		misses: counter("misses_total", "Lookups that found nothing resident"),
		evicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "evictions_total",
				Help:        "Evictions by reason",
				ConstLabels: constLabels,
			},
			[]string{"reason"},
		),
		sizeEnt:  gauge("size_entries", "Number of resident entries"),
		sizeCost: gauge("size_cost", "Total resident cost"),
		rasterized: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "rasterizations_total",
				Help:        "Rasterization attempts by result",
				ConstLabels: constLabels,
			},
			[]string{"result"},
		),
		uploaded:  counter("uploaded_bytes_total", "Texel bytes uploaded to the texture"),
		freeSlots: gauge("free_slots", "Atlas slots holding no content"),
	}
	reg.MustRegister(a.hits, a.misses, a.evicts, a.sizeEnt, a.sizeCost,
		a.rasterized, a.uploaded, a.freeSlots)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *Adapter) Miss() { a.misses.Inc() }

// Evict increments the eviction counter with a reason label.
func (a *Adapter) Evict(r cache.EvictReason) {
	a.evicts.WithLabelValues(r.String()).Inc()
}

// Size updates gauges for the number of entries and total cost.
func (a *Adapter) Size(entries int, cost int64) {
	a.sizeEnt.Set(float64(entries))
	a.sizeCost.Set(float64(cost))
}

// Rasterized counts a successful rasterization.
func (a *Adapter) Rasterized() { a.rasterized.WithLabelValues("ok").Inc() }

// RasterizeFailed counts a failed rasterization.
func (a *Adapter) RasterizeFailed() { a.rasterized.WithLabelValues("error").Inc() }

// Uploaded adds n bytes to the upload counter.
func (a *Adapter) Uploaded(n int) { a.uploaded.Add(float64(n)) }

// FreeSlots sets the free slot gauge.
func (a *Adapter) FreeSlots(n int) { a.freeSlots.Set(float64(n)) }

// Compile-time checks: the adapter serves both layers.
var (
	_ cache.Metrics = (*Adapter)(nil)
	_ atlas.Metrics = (*Adapter)(nil)
)
