package middlewares

import (
	"net"
	"net/http"
	"time"

	"github.com/dropDatabas3/fileconv/internal/metrics"
	"github.com/dropDatabas3/fileconv/internal/observability/logger"
)

// statusRecorder captura el status y bytes escritos para el log de acceso.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

// WithLogging loguea cada request terminada y alimenta las métricas HTTP.
func WithLogging() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			elapsed := time.Since(start)
			metrics.ObserveHTTP(r.Method, r.URL.Path, rec.status, elapsed)

			log := logger.From(r.Context())
			log.Info("request completed",
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.Status(rec.status),
				logger.Duration(elapsed),
				logger.Bytes(rec.bytes),
				logger.ClientIP(clientIP(r)),
			)
		})
	}
}

// clientIP extrae la IP del cliente (X-Forwarded-For si hay proxy).
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
