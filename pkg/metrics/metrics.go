package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Breach lookup outcomes, used as the "outcome" label value.
const (
	OutcomeBreached = "breached"
	OutcomeClean    = "clean"
	OutcomeError    = "error"
)

// Metrics holds all application metrics. A nil *Metrics is valid and turns
// every record call into a no-op, which keeps tests free of duplicate
// registration panics.
type Metrics struct {
	BreachLookups      *prometheus.CounterVec
	BreachFetchLatency prometheus.Histogram
	BreachCacheHits    prometheus.Counter
	BreachCacheMisses  prometheus.Counter
	AssessmentsTotal   *prometheus.CounterVec
	EnhancementsTotal  prometheus.Counter
	GeneratedPasswords prometheus.Counter
}

// New creates and registers all application metrics on the default
// registry.
func New(namespace string) *Metrics {
	return &Metrics{
		BreachLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "breach_lookups_total",
			Help:      "Total number of breach lookups by outcome",
		}, []string{"outcome"}),
		BreachFetchLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "breach_fetch_duration_seconds",
			Help:      "Duration of outbound breach range fetches",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2},
		}),
		BreachCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "breach_cache_hits_total",
			Help:      "Total number of breach cache hits",
		}),
		BreachCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "breach_cache_misses_total",
			Help:      "Total number of breach cache misses",
		}),
		AssessmentsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      "Total number of password assessments by strength",
		}, []string{"strength"}),
		EnhancementsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enhancements_total",
			Help:      "Total number of password enhancements",
		}),
		GeneratedPasswords: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generated_passwords_total",
			Help:      "Total number of generated passwords",
		}),
	}
}

// RecordLookup increments the breach lookup counter for outcome.
func (m *Metrics) RecordLookup(outcome string) {
	if m == nil {
		return
	}
	m.BreachLookups.WithLabelValues(outcome).Inc()
}

// RecordFetchLatency observes one outbound fetch duration in seconds.
func (m *Metrics) RecordFetchLatency(seconds float64) {
	if m == nil {
		return
	}
	m.BreachFetchLatency.Observe(seconds)
}

// RecordCacheHit increments the cache hit counter.
func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.BreachCacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func (m *Metrics) RecordCacheMiss() {
	if m == nil {
		return
	}
	m.BreachCacheMisses.Inc()
}

// RecordAssessment increments the assessment counter for strength.
func (m *Metrics) RecordAssessment(strength string) {
	if m == nil {
		return
	}
	m.AssessmentsTotal.WithLabelValues(strength).Inc()
}

// RecordEnhancement increments the enhancement counter.
func (m *Metrics) RecordEnhancement() {
	if m == nil {
		return
	}
	m.EnhancementsTotal.Inc()
}

// RecordGenerated increments the generated password counter.
func (m *Metrics) RecordGenerated() {
	if m == nil {
		return
	}
	m.GeneratedPasswords.Inc()
}
