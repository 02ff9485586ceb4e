package middlewares

import (
	"net/http"
	"strings"

	httperrors "github.com/dropDatabas3/fileconv/internal/http/errors"
	"github.com/dropDatabas3/fileconv/internal/keystore"
	"github.com/dropDatabas3/fileconv/internal/observability/logger"
)

// =================================================================================
// AUTH GATE
// =================================================================================

// ExtractAPIKey saca la credencial presentada del request.
// Precedencia determinística: X-API-Key primero, Authorization: Bearer
// como fallback. Si ambos headers están presentes gana X-API-Key.
func ExtractAPIKey(r *http.Request) string {
	if k := strings.TrimSpace(r.Header.Get("X-API-Key")); k != "" {
		return k
	}
	ah := strings.TrimSpace(r.Header.Get("Authorization"))
	if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
		return ""
	}
	return strings.TrimSpace(ah[len("bearer "):])
}

// RequireAPIKey protege los endpoints de conversión y formatos.
//
// Reglas:
//   - Sin master key configurada: acceso abierto, no se valida nada.
//   - Con master key: se acepta la master o cualquier consumer key
//     válida; todo lo demás es 401.
func RequireAPIKey(store keystore.Store, masterConfigured bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !masterConfigured {
				next.ServeHTTP(w, r)
				return
			}

			key := ExtractAPIKey(r)
			if key == "" {
				httperrors.WriteError(w, httperrors.ErrUnauthorized)
				return
			}

			v := store.Validate(key)
			if !v.OK() {
				logger.From(r.Context()).Debug("api key rejected", logger.Path(r.URL.Path))
				httperrors.WriteError(w, httperrors.ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(setIsMaster(r.Context(), v.IsMaster)))
		})
	}
}

// RequireMasterKey protege la administración de keys (/api/keys).
//
// Reglas:
//   - Sin master key configurada: 503 — la administración no existe,
//     NO se permite crear keys silenciosamente.
//   - Con master key: SOLO la master pasa; una consumer key válida
//     también es 401 acá.
func RequireMasterKey(store keystore.Store, masterConfigured bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !masterConfigured {
				httperrors.WriteError(w, httperrors.ErrNotConfigured)
				return
			}

			key := ExtractAPIKey(r)
			if key == "" || !store.Validate(key).IsMaster {
				httperrors.WriteError(w, httperrors.ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(setIsMaster(r.Context(), true)))
		})
	}
}
