package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"zapperd/internal/structures"
)

// ConfigStatsInterface is the narrow view of the configuration service
// the gauges read from.
type ConfigStatsInterface interface {
	CountDevices() int
	CountConnections() int
}

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncRelayPut(outcome string)
	IncRelayGet(outcome string)
	IncImport(kind string, outcome string)
	AddShocksDispatched(count int)
	AddStopsDispatched(count int)
}

type MetricsProvider struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	relayPuts        *prometheus.CounterVec
	relayGets        *prometheus.CounterVec
	imports          *prometheus.CounterVec
	shocksDispatched prometheus.Counter
	stopsDispatched  prometheus.Counter
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncRelayPut(outcome string) {
	m.relayPuts.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) IncRelayGet(outcome string) {
	m.relayGets.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) IncImport(kind string, outcome string) {
	m.imports.WithLabelValues(kind, outcome).Inc()
}

func (m *MetricsProvider) AddShocksDispatched(count int) {
	m.shocksDispatched.Add(float64(count))
}

func (m *MetricsProvider) AddStopsDispatched(count int) {
	m.stopsDispatched.Add(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, stats ConfigStatsInterface) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zapperd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zapperd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		relayPuts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zapperd_relay_puts_total",
			Help: "Relay blob uploads by outcome",
		}, []string{"outcome"}),

		relayGets: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zapperd_relay_gets_total",
			Help: "Relay blob fetches by outcome",
		}, []string{"outcome"}),

		imports: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "zapperd_imports_total",
			Help: "Import attempts by detected kind and outcome",
		}, []string{"kind", "outcome"}),

		shocksDispatched: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zapperd_shocks_dispatched_total",
			Help: "Total number of shock requests sent to devices",
		}),

		stopsDispatched: promauto.NewCounter(prometheus.CounterOpts{
			Name: "zapperd_stops_dispatched_total",
			Help: "Total number of stop requests sent to devices",
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "zapperd_devices_total",
		Help: "Number of devices across all connections",
	}, func() float64 {
		return float64(stats.CountDevices())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "zapperd_connections_total",
		Help: "Number of connections including the local user",
	}, func() float64 {
		return float64(stats.CountConnections())
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncRelayPut(_ string)                             {}
func (n *noopMetrics) IncRelayGet(_ string)                             {}
func (n *noopMetrics) IncImport(_ string, _ string)                     {}
func (n *noopMetrics) AddShocksDispatched(_ int)                        {}
func (n *noopMetrics) AddStopsDispatched(_ int)                         {}
