package middlewares

import (
	"net/http"
	"strings"
)

// WithCORS habilita CORS para los orígenes permitidos.
// Una lista vacía o "*" permite cualquier origen (comportamiento default
// del servicio, pensado para consumirse desde frontends arbitrarios).
func WithCORS(allowed []string) Middleware {
	trim := func(s string) string { return strings.TrimRight(strings.TrimSpace(s), "/") }

	alist := make([]string, 0, len(allowed))
	for _, v := range allowed {
		if t := trim(v); t != "" {
			alist = append(alist, t)
		}
	}
	allowAny := len(alist) == 0
	for _, a := range alist {
		if a == "*" {
			allowAny = true
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := trim(r.Header.Get("Origin"))

			allowedOrigin := ""
			if origin != "" {
				if allowAny {
					allowedOrigin = origin
				} else {
					for _, a := range alist {
						if strings.EqualFold(origin, a) {
							allowedOrigin = origin
							break
						}
					}
				}
			}

			// Ayuda a caches/proxies
			w.Header().Add("Vary", "Origin")

			if allowedOrigin != "" {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", allowedOrigin)
				h.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key, X-Input-Format, X-Output-Format, X-Request-ID")
				h.Set("Access-Control-Expose-Headers", "X-Request-ID, X-Output-Format, X-Output-Filename, Content-Disposition")
				h.Set("Access-Control-Max-Age", "600")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
