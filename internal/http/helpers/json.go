// Package helpers contiene utilidades compartidas de la capa HTTP.
package helpers

import (
	"encoding/json"
	"io"
	"net/http"
)

// WriteJSON escribe una respuesta JSON estándar.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ReadJSONBody decodifica un body JSON de forma tolerante: body vacío o
// ausente no es error (el caller decide defaults), campos desconocidos
// se ignoran. Limita el body a 1MB; esto aplica SOLO a endpoints JSON,
// los payloads de conversión no pasan por acá.
func ReadJSONBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil && err != io.EOF {
		return err
	}
	return nil
}
