// Package raster implementa el codec de imágenes raster.
//
// Decodifica y codifica los formatos del registro usando la stdlib
// (png, jpeg, gif), golang.org/x/image (bmp, tiff) y chai2010/webp.
// Las opciones de encoding son fijas por formato: jpeg/webp calidad 95,
// png con compresión máxima, tiff con LZW.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/chai2010/webp"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

const (
	jpegQuality = 95
	webpQuality = 95
)

// Codec implementa convert.Raster sobre codecs reales.
type Codec struct{}

// New crea el codec raster.
func New() *Codec { return &Codec{} }

// Decode decodifica data como el formato indicado.
// No hay auto-detección: si el contenido no matchea el formato declarado,
// falla.
func (c *Codec) Decode(data []byte, formatID string) (image.Image, error) {
	r := bytes.NewReader(data)
	var (
		img image.Image
		err error
	)
	switch formatID {
	case "png":
		img, err = png.Decode(r)
	case "jpeg":
		img, err = jpeg.Decode(r)
	case "gif":
		img, err = gif.Decode(r)
	case "bmp":
		img, err = bmp.Decode(r)
	case "tiff":
		img, err = tiff.Decode(r)
	case "webp":
		img, err = webp.Decode(r)
	default:
		return nil, fmt.Errorf("raster: unsupported input format %q", formatID)
	}
	if err != nil {
		return nil, fmt.Errorf("raster: decode %s: %w", formatID, err)
	}
	return img, nil
}

// Encode serializa img al formato indicado con sus opciones configuradas.
func (c *Codec) Encode(img image.Image, formatID string) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch formatID {
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		err = enc.Encode(&buf, img)
	case "jpeg":
		// jpeg no tiene canal alpha: aplanar sobre blanco primero
		err = jpeg.Encode(&buf, Flatten(img), &jpeg.Options{Quality: jpegQuality})
	case "gif":
		err = gif.Encode(&buf, img, &gif.Options{NumColors: 256})
	case "bmp":
		err = bmp.Encode(&buf, img)
	case "tiff":
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.LZW, Predictor: true})
	case "webp":
		err = webp.Encode(&buf, img, &webp.Options{Quality: webpQuality})
	default:
		return nil, fmt.Errorf("raster: unsupported output format %q", formatID)
	}
	if err != nil {
		return nil, fmt.Errorf("raster: encode %s: %w", formatID, err)
	}
	return buf.Bytes(), nil
}

// Flatten compone la imagen sobre fondo blanco y retorna un RGBA opaco.
// Necesario para targets sin alpha (jpeg) y para el empaquetado a PDF.
func Flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Over)
	return out
}
