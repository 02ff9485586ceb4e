package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dropDatabas3/fileconv/internal/convert"
	httperrors "github.com/dropDatabas3/fileconv/internal/http/errors"
	"github.com/dropDatabas3/fileconv/internal/metrics"
	"github.com/dropDatabas3/fileconv/internal/observability/logger"
)

// ConvertController maneja POST /api/convert.
type ConvertController struct {
	dispatcher *convert.Dispatcher
}

// NewConvertController crea el controller de conversión.
func NewConvertController(d *convert.Dispatcher) *ConvertController {
	return &ConvertController{dispatcher: d}
}

// Convert normaliza el request, despacha la conversión y arma la
// respuesta binaria. Los errores de validación cortan antes de tocar
// ningún codec.
func (c *ConvertController) Convert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Component("convert"))

	req, verr := normalizeRequest(r)
	if verr != nil {
		httperrors.WriteError(w, verr)
		return
	}

	log = log.With(logger.InputFormat(req.Input), logger.OutputFormat(req.Output))

	res, err := c.dispatcher.Convert(ctx, req)
	metrics.ObserveConversion(req.Input, req.Output, err == nil)
	if err != nil {
		log.Warn("conversion failed", logger.Page(req.Page), logger.Err(err))
		if errors.Is(err, convert.ErrConversion) {
			httperrors.WriteError(w, httperrors.ErrConversionFailed.WithDetail(causeLabel(err)))
			return
		}
		httperrors.WriteError(w, httperrors.ErrInternal.WithCause(err))
		return
	}

	log.Info("conversion done",
		logger.Int("input_bytes", len(req.Data)),
		logger.Int("output_bytes", len(res.Data)),
	)

	w.Header().Set("Content-Type", res.MIME)
	w.Header().Set("X-Output-Format", req.Output)
	w.Header().Set("X-Output-Filename", res.Filename)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}

// causeLabel extrae la etiqueta corta de causa de un error de conversión
// ("page 3 out of range...", "decode png"). El prefijo genérico ya va en
// el mensaje del AppError.
func causeLabel(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return ""
}
