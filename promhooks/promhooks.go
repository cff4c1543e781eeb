// Package promhooks exports cache events as Prometheus metrics.
package promhooks

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/unkn0wn-root/geocache"
)

// Hooks counts cache events per cache name. It implements geocache.Hooks.
type Hooks struct {
	hits         *prometheus.CounterVec
	misses       *prometheus.CounterVec
	evictions    *prometheus.CounterVec
	expirations  *prometheus.CounterVec
	clears       *prometheus.CounterVec
	loadFailures *prometheus.CounterVec
}

var _ geocache.Hooks = (*Hooks)(nil)

// New registers the counters with reg under namespace. A nil reg uses
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer, namespace string) *Hooks {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	cache := []string{"cache"}

	return &Hooks{
		hits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Lookups answered from the cache",
		}, cache),
		misses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Lookups that found no live entry",
		}, cache),
		evictions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_evictions_total",
			Help:      "Entries removed by capacity pressure or explicit eviction",
		}, []string{"cache", "reason"}),
		expirations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_expirations_total",
			Help:      "Entries removed by the background reaper",
		}, cache),
		clears: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_cleared_entries_total",
			Help:      "Entries removed by Clear",
		}, cache),
		loadFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_load_failures_total",
			Help:      "Loader calls that returned an error",
		}, cache),
	}
}

func (h *Hooks) Hit(cache string)  { h.hits.WithLabelValues(cache).Inc() }
func (h *Hooks) Miss(cache string) { h.misses.WithLabelValues(cache).Inc() }

func (h *Hooks) Evicted(cache, reason string) {
	h.evictions.WithLabelValues(cache, reason).Inc()
}

func (h *Hooks) Expired(cache string, removed int) {
	h.expirations.WithLabelValues(cache).Add(float64(removed))
}

func (h *Hooks) Cleared(cache string, removed int) {
	h.clears.WithLabelValues(cache).Add(float64(removed))
}

func (h *Hooks) LoadFailed(cache string, _ error) {
	h.loadFailures.WithLabelValues(cache).Inc()
}

// SizeCollector reports the current entry count and capacity of every cache
// returned by stats at scrape time.
type SizeCollector struct {
	stats   func() []geocache.Stats
	size    *prometheus.Desc
	maxSize *prometheus.Desc
}

var _ prometheus.Collector = (*SizeCollector)(nil)

func NewSizeCollector(namespace string, stats func() []geocache.Stats) *SizeCollector {
	return &SizeCollector{
		stats: stats,
		size: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "entries"),
			"Entries currently stored, including expired ones not yet reaped",
			[]string{"cache"}, nil),
		maxSize: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "max_entries"),
			"Configured capacity",
			[]string{"cache"}, nil),
	}
}

func (c *SizeCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.size
	ch <- c.maxSize
}

func (c *SizeCollector) Collect(ch chan<- prometheus.Metric) {
	for _, st := range c.stats() {
		ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(st.Size), st.Name)
		ch <- prometheus.MustNewConstMetric(c.maxSize, prometheus.GaugeValue, float64(st.MaxSize), st.Name)
	}
}
