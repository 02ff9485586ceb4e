package errors

import (
	"encoding/json"
	"net/http"
)

// errorResponse controla exactamente qué campos ve el cliente.
// El contrato del API es {"error": "<mensaje>"}; detail es opcional.
type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// WriteError rinde un error como respuesta JSON.
// Acepta cualquier error; lo que no sea *AppError se rinde como 500
// genérico sin filtrar la causa.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error:  appErr.Message,
		Detail: appErr.Detail,
	})
}
