package pyrograph

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// panAnim holds active tweens for viewport position and zoom.
type panAnim struct {
	tweenX    *gween.Tween
	tweenZoom *gween.Tween
	doneX     bool
	doneZoom  bool
}

// Viewport owns the mapping between the time domain and surface pixels:
// a zoom factor (pixels per time unit), a pan position (the time value at
// the left edge), and the known [min, max] extent of the data.
//
// All coordinate conversion for producers goes through TimeToPosition and
// PixelToTime; the engine itself never converts times.
type Viewport struct {
	// Width and Height are the surface size in logical pixels. The engine
	// keeps them in sync on resize.
	Width, Height float64

	zoom      float64 // pixels per time unit; callers keep it positive
	positionX float64 // time value rendered at pixel x=0
	min, max  float64 // known time extent

	onMinMaxChange []func(min, max float64)

	anim *panAnim
}

// NewViewport creates a viewport over a surface of the given logical size,
// with zoom 1 and position 0.
func NewViewport(width, height float64) *Viewport {
	return &Viewport{
		Width:  width,
		Height: height,
		zoom:   1,
	}
}

// TimeToPosition converts a time value to a surface x coordinate under the
// current zoom and pan.
func (v *Viewport) TimeToPosition(t float64) float64 {
	return t*v.zoom - v.positionX*v.zoom
}

// PixelToTime converts a horizontal pixel distance to a time span under
// the current zoom. Feeding it a mouse-drag delta yields the pan delta
// for TryToChangePosition.
func (v *Viewport) PixelToTime(px float64) float64 {
	return px / v.zoom
}

// Zoom returns the current zoom factor in pixels per time unit.
func (v *Viewport) Zoom() float64 {
	return v.zoom
}

// SetZoom stores the zoom factor as given. Keeping it positive is the
// caller's responsibility; the conversions divide by it unchecked.
func (v *Viewport) SetZoom(zoom float64) {
	v.zoom = zoom
}

// PositionX returns the time value currently at the left edge.
func (v *Viewport) PositionX() float64 {
	return v.positionX
}

// SetPositionX sets the pan position without clamping and returns the
// delta from the previous position. Use TryToChangePosition for the
// clamped path.
func (v *Viewport) SetPositionX(x float64) float64 {
	delta := x - v.positionX
	v.positionX = x
	return delta
}

// TryToChangePosition pans by deltaX time units, snapping to the nearest
// edge when the move would expose space outside [min, max]. The right
// limit is max minus the visible time span, so the last screenful of data
// stays reachable. When the data span is narrower than the view, the left
// edge wins.
func (v *Viewport) TryToChangePosition(deltaX float64) {
	target := v.positionX + deltaX
	right := v.max - v.Width/v.zoom

	switch {
	case right < v.min:
		v.positionX = v.min
	case target < v.min:
		v.positionX = v.min
	case target > right:
		v.positionX = right
	default:
		v.positionX = target
	}
}

// InitialZoom returns the zoom factor that fits the whole [min, max]
// extent into the surface width, or 1 when the extent is empty.
func (v *Viewport) InitialZoom() float64 {
	if v.max-v.min > 0 {
		return v.Width / (v.max - v.min)
	}
	return 1
}

// ResetView pans to the start of the data and zooms to fit the whole
// extent.
func (v *Viewport) ResetView() {
	v.zoom = v.InitialZoom()
	v.positionX = v.min
}

// Min returns the lower edge of the known time extent.
func (v *Viewport) Min() float64 { return v.min }

// Max returns the upper edge of the known time extent.
func (v *Viewport) Max() float64 { return v.max }

// SetMinMax updates the known time extent. Registered min-max-change
// handlers fire synchronously, and only when either edge actually changed.
func (v *Viewport) SetMinMax(min, max float64) {
	if min == v.min && max == v.max {
		return
	}
	v.min = min
	v.max = max
	for _, fn := range v.onMinMaxChange {
		fn(min, max)
	}
}

// OnMinMaxChange registers a handler fired when SetMinMax changes the
// extent.
func (v *Viewport) OnMinMaxChange(fn func(min, max float64)) {
	v.onMinMaxChange = append(v.onMinMaxChange, fn)
}

// RealView returns the visible time span (surface width divided by zoom).
func (v *Viewport) RealView() float64 {
	return v.Width / v.zoom
}

// ScrollTo animates the pan position to the given time value over duration
// seconds. Each Update tick moves through the clamped pan path, so the
// animation can never scroll outside the data extent.
func (v *Viewport) ScrollTo(x float64, duration float32, easeFn ease.TweenFunc) {
	a := v.ensureAnim()
	a.tweenX = gween.New(float32(v.positionX), float32(x), duration, easeFn)
	a.doneX = false
}

// ZoomTo animates the zoom factor to the given value over duration seconds.
// Targets <= 0 are ignored.
func (v *Viewport) ZoomTo(zoom float64, duration float32, easeFn ease.TweenFunc) {
	if zoom <= 0 {
		return
	}
	a := v.ensureAnim()
	a.tweenZoom = gween.New(float32(v.zoom), float32(zoom), duration, easeFn)
	a.doneZoom = false
}

func (v *Viewport) ensureAnim() *panAnim {
	if v.anim == nil {
		v.anim = &panAnim{doneX: true, doneZoom: true}
	}
	return v.anim
}

// Update advances active scroll and zoom animations by dt seconds.
// No-op when nothing is animating.
func (v *Viewport) Update(dt float32) {
	if v.anim == nil {
		return
	}
	a := v.anim

	if a.tweenZoom != nil && !a.doneZoom {
		val, done := a.tweenZoom.Update(dt)
		v.SetZoom(float64(val))
		a.doneZoom = done
	}
	if a.tweenX != nil && !a.doneX {
		val, done := a.tweenX.Update(dt)
		v.TryToChangePosition(float64(val) - v.positionX)
		a.doneX = done
	}

	if a.doneX && a.doneZoom {
		v.anim = nil
	}
}
