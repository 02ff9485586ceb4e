// Package document implementa el codec de documentos PDF.
//
// Render y page count van por go-fitz (binding de MuPDF); el empaquetado
// imagen → PDF de una página va por go-pdf/fpdf embebiendo la imagen
// como PNG a tamaño completo de página (1px = 1pt).
package document

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/gen2brain/go-fitz"
	"github.com/go-pdf/fpdf"

	"github.com/dropDatabas3/fileconv/internal/codec/raster"
)

// baseDPI es el DPI nominal de una página PDF (72pt por pulgada).
const baseDPI = 72.0

// Codec implementa convert.Document.
type Codec struct{}

// New crea el codec de documentos.
func New() *Codec { return &Codec{} }

// PageCount abre el PDF y retorna su cantidad de páginas.
func (c *Codec) PageCount(pdf []byte) (int, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return 0, fmt.Errorf("document: open pdf: %w", err)
	}
	defer doc.Close()
	return doc.NumPage(), nil
}

// RenderPage rasteriza la página index (0-based) a la escala pedida.
func (c *Codec) RenderPage(pdf []byte, index int, scale float64) (image.Image, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, fmt.Errorf("document: open pdf: %w", err)
	}
	defer doc.Close()

	if index < 0 || index >= doc.NumPage() {
		return nil, fmt.Errorf("document: page %d out of range (%d pages)", index, doc.NumPage())
	}
	img, err := doc.ImageDPI(index, baseDPI*scale)
	if err != nil {
		return nil, fmt.Errorf("document: render page %d: %w", index, err)
	}
	return img, nil
}

// FromImage empaqueta una imagen como PDF de una sola página.
// La página mide exactamente la imagen en puntos, sin márgenes.
func (c *Codec) FromImage(img image.Image) ([]byte, error) {
	flat := raster.Flatten(img)
	w := float64(flat.Bounds().Dx())
	h := float64(flat.Bounds().Dy())
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("document: empty image")
	}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, flat); err != nil {
		return nil, fmt.Errorf("document: encode page image: %w", err)
	}

	doc := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: w, Ht: h},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader("page", opts, &pngBuf)
	doc.ImageOptions("page", 0, 0, w, h, false, opts, 0, "")

	var out bytes.Buffer
	if err := doc.Output(&out); err != nil {
		return nil, fmt.Errorf("document: serialize pdf: %w", err)
	}
	return out.Bytes(), nil
}
