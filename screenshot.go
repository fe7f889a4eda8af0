package pyrograph

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
)

// SavePNG writes the current surface contents to a PNG file. Surface
// pixels are premultiplied; the export converts back to straight alpha.
// Must be called while the engine's images are usable (inside the game
// loop).
func (e *RenderEngine) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pyrograph: create %s: %w", path, err)
	}
	if err := e.EncodePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("pyrograph: encode %s: %w", path, err)
	}
	return f.Close()
}

// EncodePNG writes the current surface contents as PNG to w.
func (e *RenderEngine) EncodePNG(w io.Writer) error {
	img := e.surfaceNRGBA()
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("pyrograph: png encode: %w", err)
	}
	return nil
}

// surfaceNRGBA reads back the surface and converts premultiplied RGBA to
// straight-alpha NRGBA.
func (e *RenderEngine) surfaceNRGBA() *image.NRGBA {
	src := e.canvas.Image()
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, 4*w*h)
	src.ReadPixels(pixels)

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(pixels); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}
