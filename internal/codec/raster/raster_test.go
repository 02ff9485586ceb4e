package raster

import (
	"image"
	"image/color"
	"strings"
	"testing"
)

// sample genera una imagen chica con algo de contenido y alpha parcial.
func sample() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 40), B: 128, A: 255})
		}
	}
	// una esquina semitransparente
	img.Set(0, 0, color.RGBA{R: 255, A: 128})
	return img
}

func TestRoundTrip_AllRasterFormats(t *testing.T) {
	c := New()
	src := sample()

	for _, f := range []string{"png", "jpeg", "gif", "bmp", "tiff", "webp"} {
		f := f
		t.Run(f, func(t *testing.T) {
			b, err := c.Encode(src, f)
			if err != nil {
				t.Fatalf("Encode(%s) failed: %v", f, err)
			}
			if len(b) == 0 {
				t.Fatal("empty output")
			}

			// Round-trip: lo codificado debe ser decodificable como el
			// mismo formato y conservar dimensiones.
			img, err := c.Decode(b, f)
			if err != nil {
				t.Fatalf("Decode(%s) failed: %v", f, err)
			}
			if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
				t.Fatalf("dimensions changed: %v", img.Bounds())
			}
		})
	}
}

func TestDecode_GarbageFails(t *testing.T) {
	c := New()
	for _, f := range []string{"png", "jpeg", "gif", "bmp", "tiff", "webp"} {
		if _, err := c.Decode([]byte("definitely not an image"), f); err == nil {
			t.Errorf("Decode(%s) of garbage should fail", f)
		}
	}
}

func TestDecode_WrongDeclaredFormatFails(t *testing.T) {
	c := New()
	pngBytes, err := c.Encode(sample(), "png")
	if err != nil {
		t.Fatal(err)
	}
	// png decodificado como jpeg: sin auto-corrección, debe fallar
	if _, err := c.Decode(pngBytes, "jpeg"); err == nil {
		t.Fatal("png bytes declared as jpeg should fail")
	}
}

func TestEncode_UnknownFormat(t *testing.T) {
	c := New()
	if _, err := c.Encode(sample(), "svg"); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
	if _, err := c.Decode([]byte("x"), "svg"); err == nil {
		t.Fatal("unknown decode format should fail")
	}
}

func TestFlatten_RemovesAlpha(t *testing.T) {
	flat := Flatten(sample())
	_, _, _, a := flat.At(0, 0).RGBA()
	if a != 0xffff {
		t.Fatalf("flattened image should be opaque, alpha=%d", a)
	}
	if flat.Bounds() != image.Rect(0, 0, 8, 6) {
		t.Fatalf("bounds changed: %v", flat.Bounds())
	}
}
