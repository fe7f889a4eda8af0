package pyrograph

import (
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// ColorTransparent draws nothing. Unparseable color strings resolve to it.
var ColorTransparent = Color{}

// toRGBA converts to a straight-alpha color.RGBA.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp(c.R, 0, 1) * 255),
		G: uint8(clamp(c.G, 0, 1) * 255),
		B: uint8(clamp(c.B, 0, 1) * 255),
		A: uint8(clamp(c.A, 0, 1) * 255),
	}
}

// premul returns premultiplied float32 components for vertex colors.
func (c Color) premul() (r, g, b, a float32) {
	a = float32(clamp(c.A, 0, 1))
	r = float32(clamp(c.R, 0, 1)) * a
	g = float32(clamp(c.G, 0, 1)) * a
	b = float32(clamp(c.B, 0, 1)) * a
	return
}

// namedColors covers the CSS keywords that show up in practice in chart
// styles. Anything fancier should be written as hex.
var namedColors = map[string]Color{
	"black":       {0, 0, 0, 1},
	"white":       {1, 1, 1, 1},
	"red":         {1, 0, 0, 1},
	"green":       {0, 0.5, 0, 1},
	"blue":        {0, 0, 1, 1},
	"yellow":      {1, 1, 0, 1},
	"orange":      {1, 0.647, 0, 1},
	"gray":        {0.5, 0.5, 0.5, 1},
	"grey":        {0.5, 0.5, 0.5, 1},
	"transparent": {},
}

// ParseColor parses a CSS-style color string: #rgb, #rgba, #rrggbb,
// #rrggbbaa, or a small set of named keywords. Reports false for anything
// it cannot parse; callers treat a failed parse as transparent.
func ParseColor(s string) (Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	if len(s) == 0 || s[0] != '#' {
		return Color{}, false
	}
	hex := s[1:]

	parse := func(h string) (float64, bool) {
		v, err := strconv.ParseUint(h, 16, 8)
		if err != nil {
			return 0, false
		}
		return float64(v) / 255, true
	}

	switch len(hex) {
	case 3, 4:
		var comps [4]float64
		comps[3] = 1
		for i := 0; i < len(hex); i++ {
			v, ok := parse(string(hex[i]) + string(hex[i]))
			if !ok {
				return Color{}, false
			}
			comps[i] = v
		}
		return Color{comps[0], comps[1], comps[2], comps[3]}, true
	case 6, 8:
		var comps [4]float64
		comps[3] = 1
		for i := 0; i*2 < len(hex); i++ {
			v, ok := parse(hex[i*2 : i*2+2])
			if !ok {
				return Color{}, false
			}
			comps[i] = v
		}
		return Color{comps[0], comps[1], comps[2], comps[3]}, true
	}
	return Color{}, false
}

// Vec2 is a 2D vector used for positions, offsets, sizes, and shape points
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Direction orients a triangle marker toward one of eight compass points.
type Direction uint8

const (
	DirectionTop         Direction = iota // apex points up
	DirectionTopRight                     // right triangle in the top-right corner
	DirectionRight                        // apex points right
	DirectionBottomRight                  // right triangle in the bottom-right corner
	DirectionBottom                       // apex points down
	DirectionBottomLeft                   // right triangle in the bottom-left corner
	DirectionLeft                         // apex points left
	DirectionTopLeft                      // right triangle in the top-left corner
)

// WhitePixel is a 1x1 white image used as the source for solid color quads.
var WhitePixel *ebiten.Image

// whiteSub is the center pixel of a 3x3 white image. Path fills sample it
// instead of WhitePixel so antialiased edge texels don't bleed.
var whiteSub *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(ColorWhite.toRGBA())

	base := ebiten.NewImage(3, 3)
	base.Fill(ColorWhite.toRGBA())
	whiteSub = base.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
