package pyrograph

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// paintProp identifies a scalar surface property routed through the
// state-cache memo table.
type paintProp uint8

const (
	propFillColor paintProp = iota
	propStrokeColor
	propLineWidth
	propFontSize
	propShadowColor
	propShadowBlur
	propShadowOffsetX
	propShadowOffsetY
)

// statefulCall identifies a stateful surface call cached by its last
// argument list rather than by a scalar value.
type statefulCall uint8

const (
	callLineDash statefulCall = iota
)

// fallbackCharWidth approximates glyph width as a fraction of the font
// size when no font is installed. Deterministic, so measurement-dependent
// logic stays testable without font assets.
const fallbackCharWidth = 0.6

// Canvas wraps a target image with canvas-style paint state: fill and
// stroke colors, shadow, font, and line dash. Every property write goes
// through a memo table so that re-applying the current value costs a map
// lookup instead of a parse, a premultiply, or a dash recompute.
//
// Not safe for concurrent use; one goroutine owns a Canvas.
type Canvas struct {
	image      *ebiten.Image
	width      float64 // logical pixels
	height     float64
	pixelRatio float64

	fill        Color
	stroke      Color
	shadowColor Color
	shadowBlur  float64
	shadowOffX  float64
	shadowOffY  float64
	lineWidth   float64
	dash        []float64
	font        Font
	fontSize    float64

	props map[paintProp]any
	calls map[statefulCall][]float64

	// stateWrites counts property writes that reached the surface
	// (cache misses). Reset by the engine per resolve.
	stateWrites int

	verts []ebiten.Vertex
	inds  []uint32
}

// newCanvas creates a canvas over a fresh image of the given logical size
// at the given device pixel ratio.
func newCanvas(width, height, pixelRatio float64) *Canvas {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	c := &Canvas{
		pixelRatio: pixelRatio,
		lineWidth:  1,
		fontSize:   10,
	}
	c.resize(width, height)
	return c
}

// newCanvasOver wraps an existing device-pixel image, for pooled
// offscreen targets. The image may be larger than width*ratio; the extra
// area is never drawn to.
func newCanvasOver(img *ebiten.Image, width, height, pixelRatio float64) *Canvas {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	c := &Canvas{
		pixelRatio: pixelRatio,
		lineWidth:  1,
		fontSize:   10,
		width:      math.Max(width, 0),
		height:     math.Max(height, 0),
		image:      img,
	}
	c.invalidate()
	return c
}

// adopt swaps the target image in place, keeping paint state fields but
// dropping the memo tables.
func (c *Canvas) adopt(img *ebiten.Image, width, height float64) {
	c.image = img
	c.width = math.Max(width, 0)
	c.height = math.Max(height, 0)
	c.invalidate()
}

// resize recreates the target image at the new logical size and
// invalidates all cached paint state.
func (c *Canvas) resize(width, height float64) {
	c.width = math.Max(width, 0)
	c.height = math.Max(height, 0)
	pw := int(math.Max(c.width*c.pixelRatio, 1))
	ph := int(math.Max(c.height*c.pixelRatio, 1))
	c.image = ebiten.NewImage(pw, ph)
	c.invalidate()
}

// invalidate drops both memo tables so every subsequent property write
// reaches the surface. Called on construction, resize, and clear.
func (c *Canvas) invalidate() {
	c.props = make(map[paintProp]any, 8)
	c.calls = make(map[statefulCall][]float64, 1)
}

// Image returns the target image. Device-pixel sized.
func (c *Canvas) Image() *ebiten.Image { return c.image }

// Width returns the logical pixel width.
func (c *Canvas) Width() float64 { return c.width }

// Height returns the logical pixel height.
func (c *Canvas) Height() float64 { return c.height }

// PixelRatio returns the device pixel ratio.
func (c *Canvas) PixelRatio() float64 { return c.pixelRatio }

// setProp routes a scalar property write through the memo table.
// Reports whether the write reached the surface.
func (c *Canvas) setProp(p paintProp, v any) bool {
	if cur, ok := c.props[p]; ok && cur == v {
		return false
	}
	c.props[p] = v
	c.stateWrites++
	return true
}

// SetFillColor sets the fill color from a CSS-style color string.
// Unparseable strings resolve to transparent.
func (c *Canvas) SetFillColor(s string) {
	if !c.setProp(propFillColor, s) {
		return
	}
	c.fill, _ = ParseColor(s)
}

// SetStrokeColor sets the stroke color from a CSS-style color string.
func (c *Canvas) SetStrokeColor(s string) {
	if !c.setProp(propStrokeColor, s) {
		return
	}
	c.stroke, _ = ParseColor(s)
}

// SetLineWidth sets the stroke width in logical pixels.
func (c *Canvas) SetLineWidth(w float64) {
	if !c.setProp(propLineWidth, w) {
		return
	}
	c.lineWidth = math.Max(w, 0)
}

// SetShadowColor sets the shadow color. Fill operations cast a shadow
// while the color is non-transparent and blur or offsets are set.
func (c *Canvas) SetShadowColor(s string) {
	if !c.setProp(propShadowColor, s) {
		return
	}
	c.shadowColor, _ = ParseColor(s)
}

// SetShadowBlur sets the shadow blur radius in logical pixels.
func (c *Canvas) SetShadowBlur(blur float64) {
	if !c.setProp(propShadowBlur, blur) {
		return
	}
	c.shadowBlur = math.Max(blur, 0)
}

// SetShadowOffset sets the shadow offset in logical pixels.
func (c *Canvas) SetShadowOffset(x, y float64) {
	if c.setProp(propShadowOffsetX, x) {
		c.shadowOffX = x
	}
	if c.setProp(propShadowOffsetY, y) {
		c.shadowOffY = y
	}
}

// SetFont installs the font used by FillText and MeasureText. Passing nil
// removes the font; measurement then falls back to a per-rune estimate.
func (c *Canvas) SetFont(f Font) {
	c.font = f
}

// SetFontSize sets the nominal font size in logical pixels. It drives the
// measurement fallback and line layout; the drawn glyph size comes from
// the installed font face.
func (c *Canvas) SetFontSize(size float64) {
	if !c.setProp(propFontSize, size) {
		return
	}
	c.fontSize = math.Max(size, 0)
}

// SetLineDash sets the dash pattern for strokes, alternating on/off run
// lengths in logical pixels. An empty slice means solid. The call is
// cached by its argument list: repeating the current pattern is free.
func (c *Canvas) SetLineDash(segments []float64) {
	if last, ok := c.calls[callLineDash]; ok && floatsEqual(last, segments) {
		return
	}
	stored := append([]float64(nil), segments...)
	c.calls[callLineDash] = stored
	c.dash = stored
	c.stateWrites++
}

func floatsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// --- Quad building ---

// appendQuad appends one axis-aligned quad in logical destination
// coordinates with explicit source coordinates and a premultiplied vertex
// color. Buffered until flush.
func (c *Canvas) appendQuad(x, y, w, h float64, sx0, sy0, sx1, sy1 float32, col Color) {
	r, g, b, a := col.premul()
	ratio := c.pixelRatio
	x0 := float32(x * ratio)
	y0 := float32(y * ratio)
	x1 := float32((x + w) * ratio)
	y1 := float32((y + h) * ratio)

	base := uint32(len(c.verts))
	c.verts = append(c.verts,
		ebiten.Vertex{DstX: x0, DstY: y0, SrcX: sx0, SrcY: sy0, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
		ebiten.Vertex{DstX: x1, DstY: y0, SrcX: sx1, SrcY: sy0, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
		ebiten.Vertex{DstX: x0, DstY: y1, SrcX: sx0, SrcY: sy1, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
		ebiten.Vertex{DstX: x1, DstY: y1, SrcX: sx1, SrcY: sy1, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
	)
	c.inds = append(c.inds, base, base+1, base+2, base+1, base+3, base+2)
}

// appendSolidQuad appends a quad sampling the white pixel.
func (c *Canvas) appendSolidQuad(x, y, w, h float64, col Color) {
	c.appendQuad(x, y, w, h, 0.5, 0.5, 0.5, 0.5, col)
}

// flush submits buffered quads against the given source image in one
// draw call and resets the buffers. Reports whether anything was drawn.
func (c *Canvas) flush(src *ebiten.Image, address ebiten.Address) bool {
	if len(c.inds) == 0 {
		return false
	}
	op := &ebiten.DrawTrianglesOptions{
		ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha,
		Address:        address,
	}
	c.image.DrawTriangles32(c.verts, c.inds, src, op)
	c.verts = c.verts[:0]
	c.inds = c.inds[:0]
	return true
}

// --- Immediate primitives ---

// FillRect fills an axis-aligned rectangle with the current fill color,
// casting a shadow first when shadow state is set.
func (c *Canvas) FillRect(x, y, w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	c.fillShadow(x, y, w, h)
	c.appendSolidQuad(x, y, w, h, c.fill)
	c.flush(WhitePixel, ebiten.AddressUnsafe)
}

// fillShadow approximates a blurred drop shadow with concentric
// translucent rings. Skipped when the shadow state is unset.
func (c *Canvas) fillShadow(x, y, w, h float64) {
	if c.shadowColor.A <= 0 || (c.shadowBlur <= 0 && c.shadowOffX == 0 && c.shadowOffY == 0) {
		return
	}
	sx := x + c.shadowOffX
	sy := y + c.shadowOffY
	steps := int(math.Ceil(c.shadowBlur))
	if steps == 0 {
		c.appendSolidQuad(sx, sy, w, h, c.shadowColor)
		c.flush(WhitePixel, ebiten.AddressUnsafe)
		return
	}
	layer := c.shadowColor
	layer.A = c.shadowColor.A / float64(steps+1)
	for i := 0; i <= steps; i++ {
		grow := float64(i)
		c.appendSolidQuad(sx-grow, sy-grow, w+2*grow, h+2*grow, layer)
	}
	c.flush(WhitePixel, ebiten.AddressUnsafe)
}

// StrokeRect outlines an axis-aligned rectangle with the current stroke
// color, line width, and dash pattern. Dashes run clockwise from the
// top-left corner.
func (c *Canvas) StrokeRect(x, y, w, h float64) {
	if w <= 0 || h <= 0 || c.lineWidth <= 0 {
		return
	}
	lw := c.lineWidth
	if len(c.dash) == 0 {
		c.appendSolidQuad(x, y, w, lw, c.stroke)
		c.appendSolidQuad(x, y+h-lw, w, lw, c.stroke)
		c.appendSolidQuad(x, y+lw, lw, h-2*lw, c.stroke)
		c.appendSolidQuad(x+w-lw, y+lw, lw, h-2*lw, c.stroke)
	} else {
		c.dashedEdge(x, y, w, lw, true)
		c.dashedEdge(x+w-lw, y, h, lw, false)
		c.dashedEdge(x, y+h-lw, w, lw, true)
		c.dashedEdge(x, y, h, lw, false)
	}
	c.flush(WhitePixel, ebiten.AddressUnsafe)
}

// dashedEdge appends on-segments of the dash pattern along one edge.
// Horizontal edges start at (x, y) and run right; vertical edges run down.
func (c *Canvas) dashedEdge(x, y, length, thickness float64, horizontal bool) {
	pos := 0.0
	i := 0
	on := true
	for pos < length {
		seg := c.dash[i%len(c.dash)]
		if seg <= 0 {
			// Zero-length segment; avoid an infinite loop.
			i++
			on = !on
			if i > len(c.dash)*2 {
				return
			}
			continue
		}
		run := math.Min(seg, length-pos)
		if on {
			if horizontal {
				c.appendSolidQuad(x+pos, y, run, thickness, c.stroke)
			} else {
				c.appendSolidQuad(x, y+pos, thickness, run, c.stroke)
			}
		}
		pos += run
		i++
		on = !on
	}
}

// FillText draws a single line of text with the current fill color, with
// (x, y) at the top-left of the text box. No-op unless a *TTFFont is
// installed.
func (c *Canvas) FillText(s string, x, y float64) {
	if s == "" {
		return
	}
	f, ok := c.font.(*TTFFont)
	if !ok || f == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.GeoM.Scale(c.pixelRatio, c.pixelRatio)
	op.ColorScale.Scale(c.fill.premul())
	op.LineSpacing = f.lh
	text.Draw(c.image, s, f.face, op)
}

// MeasureText returns the width of a single line of text under the
// installed font, or a per-rune estimate from the font size when no font
// is installed.
func (c *Canvas) MeasureText(s string) float64 {
	if c.font != nil {
		w, _ := c.font.MeasureString(s)
		return w
	}
	n := 0
	for range s {
		n++
	}
	return float64(n) * c.fontSize * fallbackCharWidth
}

// charHeight returns the line height of the installed font, or the
// nominal font size when no font is installed.
func (c *Canvas) charHeight() float64 {
	if c.font != nil {
		return c.font.LineHeight()
	}
	return c.fontSize
}

// DrawImage blits a device-pixel image at the given logical offset.
func (c *Canvas) DrawImage(src *ebiten.Image, x, y float64) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(x*c.pixelRatio, y*c.pixelRatio)
	c.image.DrawImage(src, op)
}
