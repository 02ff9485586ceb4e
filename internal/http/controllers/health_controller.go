// Package controllers contiene los controllers HTTP del servicio.
package controllers

import (
	"net/http"

	"github.com/dropDatabas3/fileconv/internal/http/dto"
	"github.com/dropDatabas3/fileconv/internal/http/helpers"
)

// ServiceName identifica al servicio en health checks y logs.
const ServiceName = "fileconv"

// HealthController maneja GET /api/health. Siempre abierto, sin auth.
type HealthController struct{}

// NewHealthController crea el controller de health.
func NewHealthController() *HealthController { return &HealthController{} }

// Health maneja GET /api/health.
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, dto.HealthResponse{
		Status:  "ok",
		Service: ServiceName,
	})
}
