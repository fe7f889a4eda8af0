package pyrograph

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Config configures a new RenderEngine.
type Config struct {
	// Width and Height are the surface size in logical pixels.
	Width, Height float64
	// PixelRatio is the device pixel ratio. 0 means 1.
	PixelRatio float64
	// Font is the label font. Optional; without it labels are skipped and
	// measurement falls back to a per-rune estimate.
	Font Font
	// Settings is an optional initial configuration patch.
	Settings *Settings
	// Debug enables stderr resolve logging.
	Debug bool
}

// RenderEngine owns a drawing surface, a viewport, a render queue, and a
// pattern registry, and composites queued primitives onto the surface
// once per resolve. Offscreen child engines created with CreateChild
// share the registry and styles and composite back via Copy.
//
// Not safe for concurrent use; all calls belong to the frame-owning
// goroutine.
type RenderEngine struct {
	canvas   *Canvas
	viewport *Viewport
	queue    renderQueue
	patterns *PatternRegistry

	styles    Styles
	tooltip   TooltipConfig
	timeUnits string

	pool     renderTexturePool
	children []*OffscreenEngine

	stats FrameStats
	debug bool

	onClear  []func()
	onResize []func(width, height float64)
}

// NewRenderEngine creates an engine with a fresh surface of the given
// logical size.
func NewRenderEngine(cfg Config) *RenderEngine {
	e := &RenderEngine{
		styles:    DefaultStyles(),
		timeUnits: "ms",
		debug:     cfg.Debug,
	}
	e.canvas = newCanvas(cfg.Width, cfg.Height, cfg.PixelRatio)
	e.viewport = NewViewport(e.canvas.Width(), e.canvas.Height())
	e.patterns = newPatternRegistry(e)

	e.canvas.SetFont(cfg.Font)
	e.applySettings(cfg.Settings)
	e.canvas.SetFontSize(e.styles.FontSize)
	return e
}

// Canvas returns the engine's drawing surface wrapper. Custom tooltip
// renderers and overlay callers draw through it directly.
func (e *RenderEngine) Canvas() *Canvas { return e.canvas }

// Image returns the surface image for compositing onto the screen.
func (e *RenderEngine) Image() *ebiten.Image { return e.canvas.Image() }

// Viewport returns the time-to-pixel transform.
func (e *RenderEngine) Viewport() *Viewport { return e.viewport }

// Patterns returns the shared pattern registry.
func (e *RenderEngine) Patterns() *PatternRegistry { return e.patterns }

// Styles returns the current style table.
func (e *RenderEngine) Styles() Styles { return e.styles }

// TimeUnits returns the configured time unit suffix (default "ms").
func (e *RenderEngine) TimeUnits() string { return e.timeUnits }

// Stats returns the counters from the most recent Resolve.
func (e *RenderEngine) Stats() FrameStats { return e.stats }

// SetDebug toggles stderr resolve logging.
func (e *RenderEngine) SetDebug(enabled bool) { e.debug = enabled }

// SetFont installs the label font on the surface.
func (e *RenderEngine) SetFont(f Font) { e.canvas.SetFont(f) }

// ApplySettings merges a settings patch into the engine. Nil fields keep
// current values; style changes take effect on the next resolve.
func (e *RenderEngine) ApplySettings(s Settings) {
	e.applySettings(&s)
	e.canvas.SetFontSize(e.styles.FontSize)
}

func (e *RenderEngine) applySettings(s *Settings) {
	if s == nil {
		return
	}
	if s.Tooltip != nil {
		e.tooltip = *s.Tooltip
	}
	if s.TimeUnits != nil {
		e.timeUnits = *s.TimeUnits
	}
	s.Styles.apply(&e.styles)
}

// OnClear registers a handler fired after every clear.
func (e *RenderEngine) OnClear(fn func()) {
	e.onClear = append(e.onClear, fn)
}

// OnResize registers a handler fired when Resize actually changes the
// surface size.
func (e *RenderEngine) OnResize(fn func(width, height float64)) {
	e.onResize = append(e.onResize, fn)
}

// OnMinMaxChange registers a handler on the viewport's extent.
func (e *RenderEngine) OnMinMaxChange(fn func(min, max float64)) {
	e.viewport.OnMinMaxChange(fn)
}

// Update advances viewport pan/zoom animations by dt seconds.
func (e *RenderEngine) Update(dt float32) {
	e.viewport.Update(dt)
}

// --- Queue input ---

// AddRect queues a filled block at the given priority. A zero height
// takes the style block height.
func (e *RenderEngine) AddRect(item RectItem, priority int) {
	if item.H == 0 {
		item.H = e.styles.BlockHeight
	}
	e.queue.addRect(item, priority)
}

// AddText queues a block label. The usable width is the block width minus
// padding on both sides, minus however much of the block hangs off the
// left edge; labels with no usable width are dropped here, not at paint.
func (e *RenderEngine) AddText(item TextItem, priority int) {
	item.maxWidth = textMaxWidth(item, e.styles.BlockPaddingLeftRight)
	if item.maxWidth <= 0 {
		return
	}
	e.queue.addText(item, priority)
}

// AddStroke queues a rectangle outline at the given priority.
func (e *RenderEngine) AddStroke(item StrokeItem, priority int) {
	e.queue.addStroke(item, priority)
}

func textMaxWidth(item TextItem, padding float64) float64 {
	return item.W - 2*padding - math.Max(0, -item.X)
}

// Resolve paints and discards the queue: priorities ascending, rects then
// texts then strokes within each. An empty queue performs zero draw
// calls.
func (e *RenderEngine) Resolve() {
	start := time.Now()
	e.stats = FrameStats{}
	e.canvas.stateWrites = 0

	e.queue.resolveInto(e.canvas, e.patterns, &e.styles, &e.stats)

	e.stats.StateWrites = e.canvas.stateWrites
	e.stats.ResolveTime = time.Since(start)
	e.debugLog()
}

// --- Surface operations ---

// Clear fills the whole surface with the background color, drops all
// cached paint state, and fires clear handlers. Queued primitives are
// unaffected.
func (e *RenderEngine) Clear() {
	e.ClearRect(e.canvas.Width(), e.canvas.Height(), 0, 0)
}

// ClearRect clears a region of the surface to the background color. The
// paint-state cache is dropped wholesale either way.
func (e *RenderEngine) ClearRect(w, h, x, y float64) {
	c := e.canvas
	c.invalidate()
	c.SetFillColor(e.styles.BackgroundColor)
	c.appendSolidQuad(x, y, w, h, c.fill)
	c.flush(WhitePixel, ebiten.AddressUnsafe)

	for _, fn := range e.onClear {
		fn()
	}
}

// Resize changes the surface size. NaN leaves that axis unchanged and
// negative sizes clamp to zero. When nothing changes, no surface is
// recreated and no handler fires. Reports whether the height changed,
// which is what layout owners above the engine care about.
func (e *RenderEngine) Resize(width, height float64) (heightChanged bool) {
	w, h := e.canvas.Width(), e.canvas.Height()
	newW, newH := w, h
	if !math.IsNaN(width) {
		newW = math.Max(width, 0)
	}
	if !math.IsNaN(height) {
		newH = math.Max(height, 0)
	}
	if newW == w && newH == h {
		return false
	}
	heightChanged = newH != h

	e.canvas.resize(newW, newH)
	e.canvas.SetFontSize(e.styles.FontSize)
	e.viewport.Width = newW
	e.viewport.Height = newH

	for _, fn := range e.onResize {
		fn(newW, newH)
	}
	return heightChanged
}
