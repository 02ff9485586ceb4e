// Package router arma el árbol de rutas del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/fileconv/internal/convert"
	"github.com/dropDatabas3/fileconv/internal/http/controllers"
	httperrors "github.com/dropDatabas3/fileconv/internal/http/errors"
	mw "github.com/dropDatabas3/fileconv/internal/http/middlewares"
	"github.com/dropDatabas3/fileconv/internal/keystore"
)

// Deps contiene las dependencias inyectadas al router.
// El key store entra por acá (no hay singleton) para poder levantar el
// router completo con un MemStore en tests.
type Deps struct {
	Store      keystore.Store
	Dispatcher *convert.Dispatcher

	// MasterConfigured indica si hay master key (API_KEY) configurada.
	// Gobierna el gate de auth completo: sin master todo es abierto y
	// /api/keys responde 503.
	MasterConfigured bool

	CORSAllowedOrigins []string

	// MetricsHandler expone /metrics; opcional (nil = ruta ausente).
	MetricsHandler http.Handler
}

// New construye el handler raíz con todas las rutas y middlewares.
func New(deps Deps) http.Handler {
	healthCtrl := controllers.NewHealthController()
	formatsCtrl := controllers.NewFormatsController()
	convertCtrl := controllers.NewConvertController(deps.Dispatcher)
	keysCtrl := controllers.NewKeysController(deps.Store)

	r := chi.NewRouter()

	// Middlewares globales: recover primero (el más externo), después
	// request-id para que el logging ya tenga el ID.
	r.Use(mw.WithRecover())
	r.Use(mw.WithRequestID())
	r.Use(mw.WithLogging())
	r.Use(mw.WithCORS(deps.CORSAllowedOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		// Siempre abierto
		api.Get("/health", healthCtrl.Health)

		// Master O consumer key (abierto si no hay master configurada)
		api.Group(func(g chi.Router) {
			g.Use(mw.RequireAPIKey(deps.Store, deps.MasterConfigured))
			g.Post("/convert", convertCtrl.Convert)
			g.Get("/formats", formatsCtrl.List)
		})

		// SOLO master key; 503 si no hay master configurada
		api.Group(func(g chi.Router) {
			g.Use(mw.RequireMasterKey(deps.Store, deps.MasterConfigured))
			g.Post("/keys", keysCtrl.Create)
			g.Get("/keys", keysCtrl.List)
		})
	})

	return r
}
