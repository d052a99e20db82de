package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flutterer_http_requests_total",
		Help: "Total API requests by method and status",
	}, []string{"method", "status"})
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flutterer_http_request_duration_seconds",
		Help:    "API request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)

func init() {
	prometheus.MustRegister(RequestsTotal, RequestDuration)
}

// RecordRequest records one served API request.
func RecordRequest(method string, status int, d time.Duration) {
	RequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(method).Observe(d.Seconds())
}

// Handler returns the HTTP handler exposing the collected metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
