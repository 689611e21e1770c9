package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const Namespace = "evere"

// Metrics groups all Prometheus instruments used by the bot. Each Metrics owns
// its registry, so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	Messages         *prometheus.CounterVec
	Commands         *prometheus.CounterVec
	Evictions        prometheus.Counter
	GeneratorErrors  prometheus.Counter
	GeneratorLatency prometheus.Histogram
	PromptTokens     prometheus.Histogram
	InFlight         prometheus.Gauge
}

func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Messages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Inbound messages by outcome.",
		}, []string{"outcome"}),
		Commands: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Reserved commands executed, by name.",
		}, []string{"command"}),
		Evictions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_evictions_total",
			Help:      "Records dropped from full histories.",
		}),
		GeneratorErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generator_errors_total",
			Help:      "Failed reply generations.",
		}),
		GeneratorLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generator_latency_seconds",
			Help:      "Time spent producing one reply.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80, 160, 300},
		}),
		PromptTokens: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prompt_tokens",
			Help:      "Estimated prompt size in tokens.",
			Buckets:   prometheus.ExponentialBuckets(128, 2, 9),
		}),
		InFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "messages_in_flight",
			Help:      "Messages currently being handled.",
		}),
	}
}

func (m *Metrics) ObserveGenerator(d time.Duration, err error) {
	m.GeneratorLatency.Observe(d.Seconds())
	if err != nil {
		m.GeneratorErrors.Inc()
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
