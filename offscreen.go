package pyrograph

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Backing image pool ---

// renderTexturePool recycles the offscreen images behind child engines.
// Children come and go as rows collapse and expand, so their backing
// images are bucketed by power-of-two size class and handed back out on
// the next acquire of the same class.
type renderTexturePool struct {
	buckets map[uint64][]*ebiten.Image
}

// poolKey is the size-class bucket key: pow-2 width and height packed
// into one uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// Acquire hands out a cleared image of at least (w, h) device pixels,
// pooled if the rounded size class has one, freshly allocated otherwise.
// Pool images are unmanaged: a child repaints its band every frame, so
// ebiten's automatic restore would be wasted work.
func (p *renderTexturePool) Acquire(w, h int) *ebiten.Image {
	pw := nextPowerOfTwo(w)
	ph := nextPowerOfTwo(h)
	key := poolKey(pw, ph)

	if p.buckets != nil {
		if stack := p.buckets[key]; len(stack) > 0 {
			img := stack[len(stack)-1]
			p.buckets[key] = stack[:len(stack)-1]
			img.Clear()
			return img
		}
	}

	return ebiten.NewImageWithOptions(
		image.Rect(0, 0, pw, ph),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
}

// Release puts an image back in its size-class bucket. Clearing is
// deferred to the next Acquire, so a release/reacquire pair in one frame
// pays for one clear.
func (p *renderTexturePool) Release(img *ebiten.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	key := poolKey(b.Dx(), b.Dy())

	if p.buckets == nil {
		p.buckets = make(map[uint64][]*ebiten.Image)
	}
	p.buckets[key] = append(p.buckets[key], img)
}

// nextPowerOfTwo returns the smallest power of two >= n, minimum 1.
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}

// --- Offscreen child engines ---

// OffscreenEngine is a child surface with its own queue, rendered into a
// pooled offscreen image and composited onto the parent with Copy. It
// shares the parent's pattern registry, styles, and font, which makes it
// the unit of row-band layering: each producer draws its band into a
// child, and the parent stacks the bands.
type OffscreenEngine struct {
	parent *RenderEngine
	canvas *Canvas
	queue  renderQueue

	// Y is the vertical offset, in logical pixels, at which Copy places
	// this surface on the parent.
	Y float64
}

// CreateChild creates an offscreen engine spanning the parent's width at
// the given height in logical pixels.
func (e *RenderEngine) CreateChild(height float64) *OffscreenEngine {
	ratio := e.canvas.PixelRatio()
	width := e.canvas.Width()
	img := e.pool.Acquire(deviceSize(width, height, ratio))

	c := newCanvasOver(img, width, height, ratio)
	c.SetFont(e.canvas.font)
	c.SetFontSize(e.styles.FontSize)

	child := &OffscreenEngine{parent: e, canvas: c}
	e.children = append(e.children, child)
	return child
}

func deviceSize(w, h, ratio float64) (int, int) {
	return int(math.Max(math.Ceil(w*ratio), 1)), int(math.Max(math.Ceil(h*ratio), 1))
}

// Canvas returns the child's drawing surface wrapper.
func (o *OffscreenEngine) Canvas() *Canvas { return o.canvas }

// Width returns the child surface width in logical pixels.
func (o *OffscreenEngine) Width() float64 { return o.canvas.Width() }

// Height returns the child surface height in logical pixels.
func (o *OffscreenEngine) Height() float64 { return o.canvas.Height() }

// SetHeight resizes the child surface, swapping the backing image through
// the parent's pool when the pooled size class changes.
func (o *OffscreenEngine) SetHeight(height float64) {
	e := o.parent
	ratio := o.canvas.PixelRatio()
	width := e.canvas.Width()

	old := o.canvas.image
	pw, ph := deviceSize(width, height, ratio)
	if nextPowerOfTwo(pw) == old.Bounds().Dx() && nextPowerOfTwo(ph) == old.Bounds().Dy() {
		old.Clear()
		o.canvas.adopt(old, width, height)
		return
	}
	e.pool.Release(old)
	o.canvas.adopt(e.pool.Acquire(pw, ph), width, height)
}

// AddRect queues a filled block on the child. A zero height takes the
// parent's style block height.
func (o *OffscreenEngine) AddRect(item RectItem, priority int) {
	if item.H == 0 {
		item.H = o.parent.styles.BlockHeight
	}
	o.queue.addRect(item, priority)
}

// AddText queues a block label on the child, with the same usable-width
// derivation as the parent.
func (o *OffscreenEngine) AddText(item TextItem, priority int) {
	item.maxWidth = textMaxWidth(item, o.parent.styles.BlockPaddingLeftRight)
	if item.maxWidth <= 0 {
		return
	}
	o.queue.addText(item, priority)
}

// AddStroke queues a rectangle outline on the child.
func (o *OffscreenEngine) AddStroke(item StrokeItem, priority int) {
	o.queue.addStroke(item, priority)
}

// Clear fills the child surface with the parent's background color and
// drops its cached paint state.
func (o *OffscreenEngine) Clear() {
	c := o.canvas
	c.invalidate()
	c.SetFillColor(o.parent.styles.BackgroundColor)
	c.appendSolidQuad(0, 0, c.Width(), c.Height(), c.fill)
	c.flush(WhitePixel, ebiten.AddressUnsafe)
}

// Resolve paints and discards the child's queue using the parent's
// pattern registry and styles. Counters accumulate into the parent's
// stats for the frame.
func (o *OffscreenEngine) Resolve() {
	e := o.parent
	o.queue.resolveInto(o.canvas, e.patterns, &e.styles, &e.stats)
}

// Release returns the backing image to the parent's pool and detaches the
// child. The child must not be used afterwards.
func (o *OffscreenEngine) Release() {
	e := o.parent
	e.pool.Release(o.canvas.image)
	o.canvas.image = nil
	for i, c := range e.children {
		if c == o {
			e.children = append(e.children[:i], e.children[i+1:]...)
			break
		}
	}
}

// Copy composites a child surface onto the engine at the child's Y
// offset. Only the child's logical area is blitted; pooled padding is
// excluded.
func (e *RenderEngine) Copy(child *OffscreenEngine) {
	if child == nil || child.canvas.image == nil {
		return
	}
	ratio := child.canvas.PixelRatio()
	pw, ph := deviceSize(child.canvas.Width(), child.canvas.Height(), ratio)
	region := child.canvas.image.SubImage(image.Rect(0, 0, pw, ph)).(*ebiten.Image)
	e.canvas.DrawImage(region, 0, child.Y)
}
