package controllers

import (
	"net/http"

	"github.com/dropDatabas3/fileconv/internal/format"
	"github.com/dropDatabas3/fileconv/internal/http/dto"
	"github.com/dropDatabas3/fileconv/internal/http/helpers"
)

// FormatsController expone el registro de formatos.
type FormatsController struct{}

// NewFormatsController crea el controller de formatos.
func NewFormatsController() *FormatsController { return &FormatsController{} }

// List maneja GET /api/formats.
func (c *FormatsController) List(w http.ResponseWriter, r *http.Request) {
	all := format.All()
	resp := dto.FormatsResponse{
		Formats: make([]dto.FormatInfo, 0, len(all)),
		Aliases: format.Aliases(),
	}
	for _, d := range all {
		resp.Formats = append(resp.Formats, dto.FormatInfo{
			Format: d.ID,
			MIME:   d.MIME,
			Input:  d.Input,
			Output: d.Output,
		})
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}
