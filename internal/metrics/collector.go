package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fadvshim/fadvshim/internal/advisory"
)

// Config represents metrics configuration.
type Config struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// Collector counts advisory-policy outcomes and intercepted operations.
// All methods are safe on a nil or disabled collector, so the shim can run
// with metrics off. The collector owns its own registry and exposes a
// handler for the host to mount; it starts no server and no goroutines,
// since the shim must not introduce threads of its own.
type Collector struct {
	config   *Config
	registry *prometheus.Registry

	hintsIssued  *prometheus.CounterVec
	hintsSkipped *prometheus.CounterVec
	operations   *prometheus.CounterVec
	fallbacks    *prometheus.CounterVec
}

// NewCollector creates a metrics collector. A nil config enables collection
// under the default namespace.
func NewCollector(config *Config) *Collector {
	if config == nil {
		config = &Config{
			Enabled:   true,
			Namespace: "fadvshim",
		}
	}

	if !config.Enabled {
		return &Collector{config: config}
	}

	c := &Collector{
		config:   config,
		registry: prometheus.NewRegistry(),
	}

	c.hintsIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "hints_total",
			Help:      "Advisory hints issued, by hint kind",
		},
		[]string{"kind"},
	)

	c.hintsSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "hint_skips_total",
			Help:      "Descriptors that failed the eligibility check, by reason",
		},
		[]string{"reason"},
	)

	c.operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "operations_total",
			Help:      "Intercepted I/O operations, by operation",
		},
		[]string{"op"},
	)

	c.fallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "fallback_calls_total",
			Help:      "Operations served by the raw system-call fallback, by operation",
		},
		[]string{"op"},
	)

	c.registry.MustRegister(c.hintsIssued, c.hintsSkipped, c.operations, c.fallbacks)

	return c
}

// Handler returns the Prometheus scrape handler for this collector's
// registry. The host application decides where (and whether) to mount it.
func (c *Collector) Handler() http.Handler {
	if c == nil || c.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// HintIssued implements advisory.Observer.
func (c *Collector) HintIssued(advice advisory.Advice) {
	if c == nil || c.hintsIssued == nil {
		return
	}
	c.hintsIssued.WithLabelValues(advice.String()).Inc()
}

// HintSkipped implements advisory.Observer.
func (c *Collector) HintSkipped(reason string) {
	if c == nil || c.hintsSkipped == nil {
		return
	}
	c.hintsSkipped.WithLabelValues(reason).Inc()
}

// RecordOperation counts one intercepted call.
func (c *Collector) RecordOperation(op string) {
	if c == nil || c.operations == nil {
		return
	}
	c.operations.WithLabelValues(op).Inc()
}

// RecordFallback counts one raw-syscall fallback.
func (c *Collector) RecordFallback(op string) {
	if c == nil || c.fallbacks == nil {
		return
	}
	c.fallbacks.WithLabelValues(op).Inc()
}
