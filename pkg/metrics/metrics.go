// Package metrics provides Prometheus instrumentation for Bistro.
//
// It pre-defines the standard HTTP metrics plus the booking-flow counters,
// exposed on GET /metrics:
//
//	r.Use(metrics.Middleware())
//	r.HandleFunc("/metrics", metrics.Handler())
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ─── Built-in HTTP metrics ───────────────────────────────────────────────────

var (
	// RequestDuration tracks how long each HTTP request takes,
	// broken down by method, route path, and status code.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bistro",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts all HTTP requests.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bistro",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// RequestInFlight tracks how many requests are currently being served.
	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bistro",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})
)

// ─── Booking-flow metrics ────────────────────────────────────────────────────

var (
	// CartMutations counts cart operations by kind ("add" | "update" | "remove").
	CartMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bistro",
			Subsystem: "flow",
			Name:      "cart_mutations_total",
			Help:      "Total cart mutations.",
		},
		[]string{"op"},
	)

	// BookingsCompleted counts bookings that reached a generated code.
	BookingsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bistro",
		Subsystem: "flow",
		Name:      "bookings_completed_total",
		Help:      "Total bookings completed through the payment flow.",
	})

	// PaymentsExpired counts pending payments cancelled by countdown expiry.
	PaymentsExpired = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bistro",
		Subsystem: "payment",
		Name:      "expired_total",
		Help:      "Total payments that timed out while pending.",
	})

	// PaymentsConfirmed counts user-confirmed payments entering verification.
	PaymentsConfirmed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bistro",
		Subsystem: "payment",
		Name:      "confirmed_total",
		Help:      "Total payments confirmed by the customer.",
	})

	// QueueJobsProcessed counts processed queue jobs by status.
	QueueJobsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bistro",
			Subsystem: "queue",
			Name:      "jobs_processed_total",
			Help:      "Total queue jobs processed.",
		},
		[]string{"status"}, // "success" | "failed"
	)
)

// ─── Registry ────────────────────────────────────────────────────────────────

// DefaultRegistry is the Prometheus registry used by Bistro.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		CartMutations,
		BookingsCompleted,
		PaymentsExpired,
		PaymentsConfirmed,
		QueueJobsProcessed,
	)
}

// MustRegister adds custom collectors to the Bistro registry.
func MustRegister(c ...prometheus.Collector) {
	DefaultRegistry.MustRegister(c...)
}

// ─── HTTP middleware ─────────────────────────────────────────────────────────

// responseRecorder wraps http.ResponseWriter to capture the status code.
type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request duration, totals and in-flight count.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := r.URL.Path

			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rr, r)

			status := strconv.Itoa(rr.status)
			RequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(r.Method, path, status).Inc()
		})
	}
}

// Handler exposes the Prometheus metrics page. Mount on GET /metrics.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return h.ServeHTTP
}
