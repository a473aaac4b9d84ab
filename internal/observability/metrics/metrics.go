package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the low-cardinality instruments exported on /metrics.
type Metrics struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	webhookOutcomes *prometheus.CounterVec
	sessionCalls    *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "paybridge_http_request_duration_seconds",
			Help:    "HTTP request duration by endpoint and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint", "status"}),
		webhookOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paybridge_webhook_events_total",
			Help: "Webhook deliveries by dispatch outcome.",
		}, []string{"outcome"}),
		sessionCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paybridge_session_bootstrap_total",
			Help: "Session bootstrap calls by operation and result.",
		}, []string{"operation", "result"}),
	}

	registry.MustRegister(m.requestDuration, m.webhookOutcomes, m.sessionCalls)
	return m
}

func (m *Metrics) ObserveWebhookOutcome(outcome string) {
	if m == nil {
		return
	}
	m.webhookOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveSessionCall(operation, result string) {
	if m == nil {
		return
	}
	m.sessionCalls.WithLabelValues(operation, result).Inc()
}

// GinMiddleware records request duration per route template.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.requestDuration.
			WithLabelValues(endpoint, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
