// Package metrics expone las métricas Prometheus del servicio.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	conversionsTotal    *prometheus.CounterVec
)

// Register inicializa las métricas y devuelve el handler para /metrics.
// Idempotente: registros repetidos reusan los mismos vectores.
func Register(reg prometheus.Registerer) http.Handler {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	once.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fileconv_http_requests_total",
			Help: "Número total de requests HTTP procesadas",
		}, []string{"method", "path", "status"})

		httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fileconv_http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"})

		conversionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fileconv_conversions_total",
			Help: "Conversiones por par de formatos y resultado",
		}, []string{"input", "output", "status"})

		reg.MustRegister(httpRequestsTotal, httpRequestDuration, conversionsTotal)
	})

	return promhttp.Handler()
}

// ObserveHTTP registra una request HTTP terminada.
func ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// ObserveConversion registra el resultado de una conversión.
func ObserveConversion(input, output string, ok bool) {
	if conversionsTotal == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	conversionsTotal.WithLabelValues(input, output, status).Inc()
}
