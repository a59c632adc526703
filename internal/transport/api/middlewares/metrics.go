package middlewares

import (
	"strconv"
	"time"

	"github.com/fsdevblog/groph-receipts/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "receipts"

// Metrics прометеус-метрики http слоя и бизнес-событий. Регистрируются в собственном реестре.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	receiptsCreated *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Number of handled HTTP requests.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		receiptsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "created_total",
			Help:      "Number of stored receipts by payment type.",
		}, []string{"payment_type"}),
	}
	m.registry.MustRegister(m.requests, m.duration, m.receiptsCreated)
	return m
}

// Middleware считает запросы по шаблону маршрута, а не по фактическому пути, чтобы id не раздували кардинальность.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler отдает метрики в формате прометеуса.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry}))
}

// ReceiptCreated реализует service.ReceiptMetrics.
func (m *Metrics) ReceiptCreated(paymentType domain.PaymentType) {
	m.receiptsCreated.WithLabelValues(string(paymentType)).Inc()
}
