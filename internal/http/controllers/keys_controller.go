package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dropDatabas3/fileconv/internal/http/dto"
	httperrors "github.com/dropDatabas3/fileconv/internal/http/errors"
	"github.com/dropDatabas3/fileconv/internal/http/helpers"
	"github.com/dropDatabas3/fileconv/internal/keystore"
	"github.com/dropDatabas3/fileconv/internal/observability/logger"
)

// defaultKeyName se usa cuando el caller no manda nombre.
const defaultKeyName = "consumer"

// oneTimeWarning acompaña cada key creada: el plaintext no vuelve a salir.
const oneTimeWarning = "Store this key securely; it will not be shown again."

// KeysController administra consumer keys. Las rutas que lo usan van
// detrás de RequireMasterKey; acá ya no se decide autorización.
type KeysController struct {
	store keystore.Store
}

// NewKeysController crea el controller de administración de keys.
func NewKeysController(store keystore.Store) *KeysController {
	return &KeysController{store: store}
}

// Create maneja POST /api/keys. Body opcional: {"name": "..."}.
func (c *KeysController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Component("keys"), logger.Op("create"))

	var body dto.CreateKeyRequest
	if err := helpers.ReadJSONBody(w, r, &body); err != nil {
		httperrors.WriteError(w, httperrors.Validation("invalid JSON body"))
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		name = defaultKeyName
	}

	rec, err := c.store.Create(name)
	if err != nil {
		log.Error("key creation failed", logger.KeyName(name), logger.Err(err))
		if errors.Is(err, keystore.ErrStorage) {
			httperrors.WriteError(w, httperrors.ErrStorage)
			return
		}
		httperrors.WriteError(w, httperrors.ErrInternal.WithCause(err))
		return
	}

	log.Info("consumer key created", logger.KeyName(rec.Name))
	helpers.WriteJSON(w, http.StatusCreated, dto.CreateKeyResponse{
		APIKey:    rec.Key,
		Name:      rec.Name,
		CreatedAt: rec.CreatedAt,
		Message:   oneTimeWarning,
	})
}

// List maneja GET /api/keys. Nunca devuelve material de keys.
func (c *KeysController) List(w http.ResponseWriter, r *http.Request) {
	entries := c.store.List()
	if entries == nil {
		entries = []keystore.Entry{}
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ListKeysResponse{Keys: entries})
}
