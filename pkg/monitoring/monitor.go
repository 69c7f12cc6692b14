package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// SwapTransitions result 为 ok 或 rejected（状态不满足）
	SwapTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swap_request_transitions_total",
			Help: "Swap request status transitions by action and result",
		},
		[]string{"action", "result"},
	)

	SwapRequestsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "swap_requests_created_total",
			Help: "Total number of swap requests created",
		},
	)

	FeedbackCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feedback_created_total",
			Help: "Total number of feedback entries created",
		},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(SwapTransitions)
		prometheus.MustRegister(SwapRequestsCreated)
		prometheus.MustRegister(FeedbackCreated)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		// 未匹配路由时 FullPath 为空，统一归到一个标签下避免基数膨胀
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
