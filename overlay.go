package pyrograph

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2/vector"
)

// TooltipField is one line of the built-in tooltip. Color overrides the
// default per-line color (header color for the first field, body color
// for the rest).
type TooltipField struct {
	Color string
	Text  string
}

// tooltipOffset separates the panel from the pointer.
const tooltipOffset = 10

// RenderTooltip draws the tooltip honoring the engine's tooltip
// configuration: suppressed when disabled, delegated when a custom
// renderer is configured, otherwise the default panel. Tooltips bypass
// the queue and paint immediately on top of whatever has been resolved.
func (e *RenderEngine) RenderTooltip(fields []TooltipField, mouseX, mouseY float64) {
	if e.tooltip.Disabled {
		return
	}
	if e.tooltip.Render != nil {
		e.tooltip.Render(e.canvas, fields, mouseX, mouseY)
		return
	}
	e.RenderTooltipFromData(fields, mouseX, mouseY)
}

// RenderTooltipFromData draws the default tooltip panel near the pointer,
// shifted left when it would overflow the right edge.
func (e *RenderEngine) RenderTooltipFromData(fields []TooltipField, mouseX, mouseY float64) {
	if len(fields) == 0 {
		return
	}
	c := e.canvas
	st := &e.styles

	x := mouseX + tooltipOffset
	y := mouseY + tooltipOffset

	var maxW float64
	for _, f := range fields {
		maxW = math.Max(maxW, c.MeasureText(f.Text))
	}
	pad := st.BlockPaddingLeftRight
	fullWidth := maxW + 2*pad
	if x+fullWidth > c.Width() {
		x = math.Max(c.Width()-fullWidth, 0)
	}

	lineHeight := c.charHeight() + 2
	fullHeight := lineHeight*float64(len(fields)) + 2*pad

	c.SetShadowColor(st.TooltipShadowColor)
	c.SetShadowBlur(st.TooltipShadowBlur)
	c.SetShadowOffset(st.TooltipShadowOffsetX, st.TooltipShadowOffsetY)
	c.SetFillColor(st.TooltipBackgroundColor)
	c.FillRect(x, y, fullWidth, fullHeight)
	c.SetShadowColor("transparent")
	c.SetShadowBlur(0)
	c.SetShadowOffset(0, 0)

	for i, f := range fields {
		color := f.Color
		if color == "" {
			if i == 0 {
				color = st.TooltipHeaderFontColor
			} else {
				color = st.TooltipBodyFontColor
			}
		}
		c.SetFillColor(color)
		c.FillText(f.Text, x+pad, y+pad+lineHeight*float64(i))
	}
}

// RenderShape fills a closed polygon immediately. Points are relative to
// (x, y) in logical pixels.
func (e *RenderEngine) RenderShape(color string, points []Vec2, x, y float64) {
	if len(points) < 3 {
		return
	}
	col, ok := ParseColor(color)
	if !ok || col.A <= 0 {
		return
	}
	ratio := e.canvas.PixelRatio()

	var path vector.Path
	path.MoveTo(float32((x+points[0].X)*ratio), float32((y+points[0].Y)*ratio))
	for _, p := range points[1:] {
		path.LineTo(float32((x+p.X)*ratio), float32((y+p.Y)*ratio))
	}
	path.Close()
	fillPath(e.canvas.image, &path, col)
}

// RenderTriangle fills a triangle marker of the given size pointing in
// the given direction, with (x, y) at the top-left of its bounding box.
func (e *RenderEngine) RenderTriangle(color string, x, y, width, height float64, direction Direction) {
	pts := trianglePoints(width, height, direction)
	e.RenderShape(color, pts[:], x, y)
}

// RenderCircle fills a circle immediately.
func (e *RenderEngine) RenderCircle(color string, x, y, radius float64) {
	col, ok := ParseColor(color)
	if !ok || col.A <= 0 {
		return
	}
	ratio := e.canvas.PixelRatio()
	vector.DrawFilledCircle(e.canvas.image,
		float32(x*ratio), float32(y*ratio), float32(radius*ratio),
		col.toRGBA(), true)
}
