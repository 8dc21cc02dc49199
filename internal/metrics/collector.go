package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for the modeling service.
type Collector struct {
	modelsGenerated    prometheus.Counter
	generationDuration prometheus.Histogram
	modelLoads         *prometheus.CounterVec
	activeSessions     prometheus.Gauge
	cacheHits          *prometheus.CounterVec
	cacheMisses        *prometheus.CounterVec
	sessionCommands    *prometheus.CounterVec
}

// NewCollector creates and registers all service metrics.
func NewCollector() *Collector {
	return &Collector{
		modelsGenerated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "models_generated_total",
				Help: "Total number of building models generated",
			},
		),
		generationDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "model_generation_duration_seconds",
				Help:    "Time spent generating a building model",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
		),
		modelLoads: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "model_loads_total",
				Help: "Model loads into viewer sessions by outcome",
			},
			[]string{"outcome"},
		),
		activeSessions: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "viewer_active_sessions",
				Help: "Number of live viewer sessions",
			},
		),
		cacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "model_cache_hits_total",
				Help: "Payload cache hits by layer",
			},
			[]string{"layer"},
		),
		cacheMisses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "model_cache_misses_total",
				Help: "Payload cache misses by layer",
			},
			[]string{"layer"},
		),
		sessionCommands: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "viewer_session_commands_total",
				Help: "Viewer session commands by type",
			},
			[]string{"command"},
		),
	}
}

// RecordGeneration records one completed model generation.
func (c *Collector) RecordGeneration(duration time.Duration) {
	c.modelsGenerated.Inc()
	c.generationDuration.Observe(duration.Seconds())
}

// RecordModelLoad records a model load outcome ("success", "failure", "superseded").
func (c *Collector) RecordModelLoad(outcome string) {
	c.modelLoads.WithLabelValues(outcome).Inc()
}

// SessionOpened increments the live session gauge.
func (c *Collector) SessionOpened() {
	c.activeSessions.Inc()
}

// SessionClosed decrements the live session gauge.
func (c *Collector) SessionClosed() {
	c.activeSessions.Dec()
}

// RecordCacheHit records a payload cache hit for the given layer.
func (c *Collector) RecordCacheHit(layer string) {
	c.cacheHits.WithLabelValues(layer).Inc()
}

// RecordCacheMiss records a payload cache miss for the given layer.
func (c *Collector) RecordCacheMiss(layer string) {
	c.cacheMisses.WithLabelValues(layer).Inc()
}

// RecordSessionCommand counts one dispatched session command.
func (c *Collector) RecordSessionCommand(command string) {
	c.sessionCommands.WithLabelValues(command).Inc()
}
