package utils

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Requests    *prometheus.CounterVec
	LatencyMS   *prometheus.HistogramVec
	Transitions *prometheus.CounterVec
	Payments    *prometheus.CounterVec
	Deliveries  *prometheus.CounterVec
}

// NewMetrics registers collectors on reg. Pass prometheus.DefaultRegisterer
// in main and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cleaning",
			Subsystem: "order_service",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"route", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cleaning",
			Subsystem: "order_service",
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"route"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cleaning",
			Subsystem: "order_service",
			Name:      "order_transitions_total",
			Help:      "Order lifecycle transitions by event and result.",
		}, []string{"event", "result"}),
		Payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cleaning",
			Subsystem: "order_service",
			Name:      "payments_recorded_total",
			Help:      "Payments recorded by method and result.",
		}, []string{"method", "result"}),
		Deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cleaning",
			Subsystem: "order_service",
			Name:      "message_deliveries_total",
			Help:      "Customer message delivery attempts by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.Requests, m.LatencyMS, m.Transitions, m.Payments, m.Deliveries)
	return m
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.LatencyMS.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
	}
}

func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// The observe helpers accept a nil receiver so services can run without metrics.

func (m *Metrics) ObserveTransition(event, result string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(event, result).Inc()
}

func (m *Metrics) ObservePayment(method, result string) {
	if m == nil {
		return
	}
	m.Payments.WithLabelValues(method, result).Inc()
}

func (m *Metrics) ObserveDelivery(result string) {
	if m == nil {
		return
	}
	m.Deliveries.WithLabelValues(result).Inc()
}
