// Package dto define los contratos JSON del API.
package dto

import (
	"time"

	"github.com/dropDatabas3/fileconv/internal/keystore"
)

// HealthResponse es la respuesta de GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// FormatInfo describe un formato soportado en GET /api/formats.
type FormatInfo struct {
	Format string `json:"format"`
	MIME   string `json:"mime_type"`
	Input  bool   `json:"input"`
	Output bool   `json:"output"`
}

// FormatsResponse es la respuesta de GET /api/formats.
type FormatsResponse struct {
	Formats []FormatInfo      `json:"formats"`
	Aliases map[string]string `json:"aliases"`
}

// CreateKeyRequest es el body (opcional) de POST /api/keys.
type CreateKeyRequest struct {
	Name string `json:"name"`
}

// CreateKeyResponse devuelve la key recién creada. Única respuesta del
// sistema que incluye el plaintext de la key.
type CreateKeyResponse struct {
	APIKey    string    `json:"api_key"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Message   string    `json:"message"`
}

// ListKeysResponse es la respuesta de GET /api/keys: nombres y fechas,
// nunca material de keys.
type ListKeysResponse struct {
	Keys []keystore.Entry `json:"keys"`
}
