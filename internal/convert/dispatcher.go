package convert

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/google/uuid"

	"github.com/dropDatabas3/fileconv/internal/format"
	"github.com/dropDatabas3/fileconv/internal/observability/logger"
)

// renderScale es la escala fija de rasterización de páginas PDF.
// 2x del tamaño nominal (~144dpi → ~288dpi).
const renderScale = 2.0

// Request es una conversión ya validada: formatos canónicos presentes en
// el registro, payload no vacío, page >= 0. Se construye por request y
// se descarta al terminar; nada de esto se persiste.
type Request struct {
	Data   []byte
	Input  string // ID canónico
	Output string // ID canónico
	Page   int    // solo relevante para pdf → raster
}

// Result es la salida binaria de una conversión exitosa.
type Result struct {
	Data     []byte
	MIME     string
	Filename string // único por request, incluso para inputs idénticos
}

// Dispatcher rutea cada (input, output) al codec que corresponde.
type Dispatcher struct {
	raster Raster
	doc    Document
}

// NewDispatcher arma un dispatcher con los codecs dados.
func NewDispatcher(raster Raster, doc Document) *Dispatcher {
	return &Dispatcher{raster: raster, doc: doc}
}

// Convert ejecuta la conversión. Reglas, en orden de prioridad:
//
//  1. pdf → pdf: identidad (bytes sin tocar, filename nuevo).
//  2. pdf → raster: render de la página pedida a 2x, encode al target.
//  3. raster → pdf: decode y empaquetado como PDF de una página.
//  4. raster → raster: decode + re-encode con las opciones del target.
//
// Todo fallo de codec se reporta envuelto en ErrConversion; nunca se
// retorna salida parcial.
func (d *Dispatcher) Convert(ctx context.Context, req Request) (Result, error) {
	log := logger.From(ctx).With(
		logger.Component("dispatcher"),
		logger.InputFormat(req.Input),
		logger.OutputFormat(req.Output),
	)

	out, ok := format.Lookup(req.Output)
	if !ok {
		// No debería pasar: el normalizador valida antes.
		return Result{}, fmt.Errorf("%w: unknown output format %q", ErrConversion, req.Output)
	}

	switch {
	case req.Input == format.PDF && req.Output == format.PDF:
		return d.result(req.Data, out), nil

	case req.Input == format.PDF:
		img, err := d.renderPDFPage(req)
		if err != nil {
			return Result{}, err
		}
		b, err := d.raster.Encode(img, req.Output)
		if err != nil {
			log.Warn("encode failed", logger.Err(err))
			return Result{}, fmt.Errorf("%w: encode %s", ErrConversion, req.Output)
		}
		return d.result(b, out), nil

	case req.Output == format.PDF:
		img, err := d.raster.Decode(req.Data, req.Input)
		if err != nil {
			log.Warn("decode failed", logger.Err(err))
			return Result{}, fmt.Errorf("%w: decode %s", ErrConversion, req.Input)
		}
		b, err := d.doc.FromImage(img)
		if err != nil {
			log.Warn("image to pdf failed", logger.Err(err))
			return Result{}, fmt.Errorf("%w: pdf packaging", ErrConversion)
		}
		return d.result(b, out), nil

	default:
		img, err := d.raster.Decode(req.Data, req.Input)
		if err != nil {
			log.Warn("decode failed", logger.Err(err))
			return Result{}, fmt.Errorf("%w: decode %s", ErrConversion, req.Input)
		}
		b, err := d.raster.Encode(img, req.Output)
		if err != nil {
			log.Warn("encode failed", logger.Err(err))
			return Result{}, fmt.Errorf("%w: encode %s", ErrConversion, req.Output)
		}
		return d.result(b, out), nil
	}
}

// renderPDFPage valida el rango de página y rasteriza.
func (d *Dispatcher) renderPDFPage(req Request) (img image.Image, err error) {
	n, err := d.doc.PageCount(req.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: not a valid pdf", ErrConversion)
	}
	if req.Page < 0 || req.Page >= n {
		return nil, fmt.Errorf("%w: page %d out of range (document has %d pages)", ErrConversion, req.Page, n)
	}
	img, err = d.doc.RenderPage(req.Data, req.Page, renderScale)
	if err != nil {
		return nil, fmt.Errorf("%w: render page %d", ErrConversion, req.Page)
	}
	return img, nil
}

func (d *Dispatcher) result(data []byte, out format.Descriptor) Result {
	return Result{
		Data:     data,
		MIME:     out.MIME,
		Filename: newFilename(out.Ext),
	}
}

// newFilename genera un nombre único por conversión: un token random de
// 128 bits en hex más la extensión canónica del formato de salida.
func newFilename(ext string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	return token + "." + ext
}
