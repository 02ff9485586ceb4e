// Package convert implementa el dispatcher de conversiones binarias.
//
// El dispatcher no sabe de píxeles ni de PDFs: delega en dos interfaces
// angostas (Raster y Document) que implementan los codecs reales en
// internal/codec. Eso deja la lógica de ruteo testeable con stubs.
package convert

import (
	"errors"
	"image"
)

// ErrConversion marca cualquier fallo de conversión (decode roto, página
// fuera de rango, excepción del codec). El mensaje que lo envuelve es
// legible pero genérico: nunca expone stack traces ni detalles internos.
var ErrConversion = errors.New("conversion failed")

// Raster es la capacidad de codec de imágenes raster.
type Raster interface {
	// Decode decodifica bytes en el formato indicado (ID canónico).
	// Falla si el contenido no es decodificable como ese formato.
	Decode(data []byte, formatID string) (image.Image, error)

	// Encode serializa la imagen al formato indicado aplicando las
	// opciones configuradas del formato (calidad, compresión).
	Encode(img image.Image, formatID string) ([]byte, error)
}

// Document es la capacidad de codec de documentos PDF.
type Document interface {
	// PageCount abre el PDF y retorna su cantidad de páginas.
	// Falla si los bytes no son un PDF válido.
	PageCount(pdf []byte) (int, error)

	// RenderPage rasteriza la página index (0-based) a la escala dada.
	// Falla si el índice excede el documento.
	RenderPage(pdf []byte, index int, scale float64) (image.Image, error)

	// FromImage empaqueta una imagen como PDF de una sola página.
	FromImage(img image.Image) ([]byte, error)
}
