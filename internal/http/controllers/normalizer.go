package controllers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dropDatabas3/fileconv/internal/convert"
	"github.com/dropDatabas3/fileconv/internal/format"
	httperrors "github.com/dropDatabas3/fileconv/internal/http/errors"
)

// maxMultipartMemory limita lo que se bufferea en RAM al parsear
// multipart; el resto va a disco temporal.
const maxMultipartMemory = 32 << 20

// fieldSource es una fuente de un campo lógico del request.
// El normalizador prueba fuentes en orden estricto: la primera no vacía
// gana. Tener la precedencia como data (y no como branching ad-hoc)
// la deja testeable y evidente.
type fieldSource func(r *http.Request, name string) string

// headerForField mapea campo lógico → header HTTP.
var headerForField = map[string]string{
	"input_format":  "X-Input-Format",
	"output_format": "X-Output-Format",
}

// formatSources: header → query param → campo de form multipart.
var formatSources = []fieldSource{
	func(r *http.Request, name string) string {
		return strings.TrimSpace(r.Header.Get(headerForField[name]))
	},
	func(r *http.Request, name string) string {
		return strings.TrimSpace(r.URL.Query().Get(name))
	},
	func(r *http.Request, name string) string {
		if r.MultipartForm == nil {
			return ""
		}
		if vs := r.MultipartForm.Value[name]; len(vs) > 0 {
			return strings.TrimSpace(vs[0])
		}
		return ""
	},
}

// resolveField aplica la cadena de fuentes para un campo.
func resolveField(r *http.Request, name string) string {
	for _, src := range formatSources {
		if v := src(r, name); v != "" {
			return v
		}
	}
	return ""
}

// isMultipart detecta un request multipart/form-data.
func isMultipart(r *http.Request) bool {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	return strings.Contains(ct, "multipart/form-data")
}

// readPayload extrae el binario: file part si es multipart, body crudo
// si no. El form ya debe estar parseado para requests multipart.
func readPayload(r *http.Request) ([]byte, error) {
	if isMultipart(r) {
		f, _, err := r.FormFile("file")
		if err != nil {
			return nil, nil // sin file part: payload ausente, no error de IO
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}

// normalizeRequest arma un convert.Request validado desde cualquiera de
// las tres formas de request (headers, query, multipart).
//
// Toda falla acá es un error de validación: el request nunca llega al
// dispatcher. Fail fast, antes de cualquier trabajo de conversión.
func normalizeRequest(r *http.Request) (convert.Request, *httperrors.AppError) {
	var req convert.Request

	if isMultipart(r) {
		// Parsear una sola vez; habilita file part + form fields
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return req, httperrors.Validation("malformed multipart body")
		}
	}

	data, err := readPayload(r)
	if err != nil {
		return req, httperrors.Validation("could not read request body")
	}
	if len(data) == 0 {
		return req, httperrors.Validation("no binary data: send raw body or multipart 'file'")
	}
	req.Data = data

	rawIn := resolveField(r, "input_format")
	if rawIn == "" {
		return req, httperrors.Validation("input_format is required (X-Input-Format header, query param, or form field)")
	}
	rawOut := resolveField(r, "output_format")
	if rawOut == "" {
		return req, httperrors.Validation("output_format is required (X-Output-Format header, query param, or form field)")
	}

	in := format.Normalize(rawIn)
	if in == "" {
		return req, httperrors.Validation("unsupported input format: " + rawIn)
	}
	out := format.Normalize(rawOut)
	if out == "" {
		return req, httperrors.Validation("unsupported output format: " + rawOut)
	}
	if d, _ := format.Lookup(in); !d.Input {
		return req, httperrors.Validation("format not supported as input: " + in)
	}
	if d, _ := format.Lookup(out); !d.Output {
		return req, httperrors.Validation("format not supported as output: " + out)
	}
	req.Input = in
	req.Output = out

	// page: SOLO query param; un valor malformado es error, no default
	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			return req, httperrors.Validation("page must be a non-negative integer")
		}
		req.Page = page
	}

	return req, nil
}
