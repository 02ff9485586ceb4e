// Package format define el registro estático de formatos soportados.
//
// El registro es read-only después de la inicialización del proceso:
// mapea identificadores canónicos (png, jpeg, ...) a sus descriptores
// (MIME type, dirección soportada, extensión sugerida). Las opciones de
// encoding (calidad, compresión) viven en el codec, no acá.
package format

import "strings"

// PDF es el identificador canónico del formato PDF.
const PDF = "pdf"

// Descriptor describe un formato soportado.
type Descriptor struct {
	ID     string // identificador canónico en minúsculas
	MIME   string
	Ext    string // extensión sugerida para filenames
	Input  bool   // soportado como formato de entrada
	Output bool   // soportado como formato de salida
}

// IsRaster indica si el formato es una imagen raster (todo menos pdf).
func (d Descriptor) IsRaster() bool { return d.ID != PDF }

// orden estable para /api/formats
var order = []string{"png", "jpeg", "webp", "bmp", "gif", "tiff", PDF}

var registry = map[string]Descriptor{
	"png":  {ID: "png", MIME: "image/png", Ext: "png", Input: true, Output: true},
	"jpeg": {ID: "jpeg", MIME: "image/jpeg", Ext: "jpeg", Input: true, Output: true},
	"webp": {ID: "webp", MIME: "image/webp", Ext: "webp", Input: true, Output: true},
	"bmp":  {ID: "bmp", MIME: "image/bmp", Ext: "bmp", Input: true, Output: true},
	"gif":  {ID: "gif", MIME: "image/gif", Ext: "gif", Input: true, Output: true},
	"tiff": {ID: "tiff", MIME: "image/tiff", Ext: "tiff", Input: true, Output: true},
	PDF:    {ID: PDF, MIME: "application/pdf", Ext: "pdf", Input: true, Output: true},
}

// aliases aceptados en requests; siempre se resuelven al ID canónico.
var aliases = map[string]string{
	"jpg": "jpeg",
	"tif": "tiff",
}

// Normalize limpia y canonicaliza un identificador de formato.
// Retorna "" si el formato no está soportado.
func Normalize(s string) string {
	f := strings.ToLower(strings.TrimSpace(s))
	if canon, ok := aliases[f]; ok {
		f = canon
	}
	if _, ok := registry[f]; ok {
		return f
	}
	return ""
}

// Lookup busca el descriptor de un identificador YA normalizado.
func Lookup(id string) (Descriptor, bool) {
	d, ok := registry[id]
	return d, ok
}

// All retorna los descriptores en orden estable.
func All() []Descriptor {
	out := make([]Descriptor, 0, len(order))
	for _, id := range order {
		out = append(out, registry[id])
	}
	return out
}

// Aliases retorna el mapa alias → canónico (copia).
func Aliases() map[string]string {
	out := make(map[string]string, len(aliases))
	for k, v := range aliases {
		out[k] = v
	}
	return out
}
