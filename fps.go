package pyrograph

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// FPSOverlay is a small FPS/TPS readout drawn on top of the surface.
// The readout refreshes every ~0.5 seconds to stay legible.
type FPSOverlay struct {
	img     *ebiten.Image
	elapsed float64
}

// NewFPSOverlay creates the overlay.
func NewFPSOverlay() *FPSOverlay {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	return &FPSOverlay{img: ebiten.NewImage(100, 32)}
}

// Update advances the refresh timer by dt seconds and re-renders the
// readout when due.
func (f *FPSOverlay) Update(dt float64) {
	f.elapsed += dt
	if f.elapsed < 0.5 {
		return
	}
	f.elapsed = 0

	f.img.Clear()
	// Semi-transparent background for readability
	f.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(f.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f",
		ebiten.ActualFPS(), ebiten.ActualTPS()))
}

// Draw blits the readout onto the canvas at the given logical offset.
func (f *FPSOverlay) Draw(c *Canvas, x, y float64) {
	c.DrawImage(f.img, x, y)
}
