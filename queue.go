package pyrograph

import (
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

// RectItem is a filled block. Pattern optionally names a registered tiled
// fill layered over the color; an unregistered name degrades to the solid
// color. A zero H takes the style block height at enqueue.
type RectItem struct {
	Color   string
	Pattern string
	X, Y    float64
	W, H    float64
}

// TextItem is a single-line label anchored to a block. W is the block
// width the label must fit inside; the usable width is derived at enqueue
// and the label is dropped when nothing of the block is usable.
type TextItem struct {
	Text string
	X, Y float64
	W    float64

	maxWidth float64 // derived: W minus padding minus off-screen overhang
}

// StrokeItem is a rectangle outline.
type StrokeItem struct {
	Color string
	X, Y  float64
	W, H  float64
}

// renderQueue buckets primitives by priority. Buckets materialize on
// first use; rectangles sub-group by pattern then color, with insertion
// order preserved so identical frames resolve in identical order.
type renderQueue struct {
	buckets map[int]*renderBucket
}

type renderBucket struct {
	patternOrder []string
	rects        map[string]*colorGroups

	texts   []TextItem
	strokes []StrokeItem
}

type colorGroups struct {
	order  []string
	groups map[string][]RectItem
}

func (q *renderQueue) bucket(priority int) *renderBucket {
	if q.buckets == nil {
		q.buckets = make(map[int]*renderBucket)
	}
	b := q.buckets[priority]
	if b == nil {
		b = &renderBucket{rects: make(map[string]*colorGroups)}
		q.buckets[priority] = b
	}
	return b
}

func (q *renderQueue) addRect(item RectItem, priority int) {
	b := q.bucket(priority)
	cg := b.rects[item.Pattern]
	if cg == nil {
		cg = &colorGroups{groups: make(map[string][]RectItem)}
		b.rects[item.Pattern] = cg
		b.patternOrder = append(b.patternOrder, item.Pattern)
	}
	if _, ok := cg.groups[item.Color]; !ok {
		cg.order = append(cg.order, item.Color)
	}
	cg.groups[item.Color] = append(cg.groups[item.Color], item)
}

func (q *renderQueue) addText(item TextItem, priority int) {
	q.bucket(priority).texts = append(q.bucket(priority).texts, item)
}

func (q *renderQueue) addStroke(item StrokeItem, priority int) {
	q.bucket(priority).strokes = append(q.bucket(priority).strokes, item)
}

func (q *renderQueue) empty() bool {
	return len(q.buckets) == 0
}

// reset discards all buckets. The queue never survives a resolve.
func (q *renderQueue) reset() {
	q.buckets = nil
}

// resolveInto paints the queue onto the canvas: priorities ascending, and
// within each priority rectangles, then texts, then strokes. Rectangle
// groups pay one fill-color write and one draw call per color run; pattern
// groups pay one more draw call for the tile pass. The queue is discarded
// afterwards, even when a group fails to draw.
func (q *renderQueue) resolveInto(c *Canvas, reg *PatternRegistry, styles *Styles, stats *FrameStats) {
	if q.empty() {
		return
	}

	prios := make([]int, 0, len(q.buckets))
	for p := range q.buckets {
		prios = append(prios, p)
	}
	sort.Ints(prios)

	for _, prio := range prios {
		b := q.buckets[prio]
		q.resolveRects(b, c, reg, stats)
		q.resolveTexts(b, c, styles, stats)
		q.resolveStrokes(b, c, styles, stats)
	}

	q.reset()
}

func (q *renderQueue) resolveRects(b *renderBucket, c *Canvas, reg *PatternRegistry, stats *FrameStats) {
	for _, pname := range b.patternOrder {
		cg := b.rects[pname]
		pat := reg.Lookup(pname)

		for _, colorKey := range cg.order {
			items := cg.groups[colorKey]
			c.SetFillColor(colorKey)

			for _, it := range items {
				tx, tw := clampBlock(it.X, it.W, c.Width())
				if tw <= 0 {
					continue
				}
				c.appendSolidQuad(tx, it.Y, tw, it.H, c.fill)
			}
			if c.flush(WhitePixel, ebiten.AddressUnsafe) {
				stats.DrawCalls++
			}

			if pat != nil && pat.Image != nil {
				for _, it := range items {
					tx, tw := clampBlock(it.X, it.W, c.Width())
					if tw <= 0 {
						continue
					}
					appendPatternQuad(c, pat, it, tx, tw)
				}
				if c.flush(pat.Image, ebiten.AddressRepeat) {
					stats.DrawCalls++
				}
			}

			stats.Groups++
			stats.Rects += len(items)
		}
	}
}

func (q *renderQueue) resolveTexts(b *renderBucket, c *Canvas, styles *Styles, stats *FrameStats) {
	if len(b.texts) == 0 {
		return
	}
	c.SetFillColor(styles.FontColor)
	pad := styles.BlockPaddingLeftRight

	for _, it := range b.texts {
		fitted := fitText(it.Text, it.maxWidth, c.MeasureText)
		if fitted == "" {
			continue
		}
		tx := math.Max(it.X, 0) + pad
		ty := it.Y + (styles.BlockHeight-c.charHeight())/2
		c.FillText(fitted, tx, ty)
		stats.Texts++
	}
}

func (q *renderQueue) resolveStrokes(b *renderBucket, c *Canvas, styles *Styles, stats *FrameStats) {
	if len(b.strokes) == 0 {
		return
	}
	c.SetLineWidth(styles.LineWidth)

	for _, it := range b.strokes {
		c.SetStrokeColor(it.Color)
		c.StrokeRect(it.X, it.Y, it.W, it.H)
		stats.Strokes++
	}
}

// clampBlock clips a block horizontally to the surface. Off-screen
// overhang is cut from whichever side extends past an edge; vertical
// extents pass through untouched.
func clampBlock(x, w, surfaceWidth float64) (tx, tw float64) {
	tx = clamp(x, 0, surfaceWidth)
	delta := tx - x
	tw = clamp(w-delta, 0, surfaceWidth-tx)
	return tx, tw
}

// appendPatternQuad appends a white-tinted quad sampling the pattern tile.
// The horizontal phase derives from the block's original x, so clipping
// at the surface edge never shifts the tile.
func appendPatternQuad(c *Canvas, pat *Pattern, it RectItem, tx, tw float64) {
	period := pat.Width * pat.Scale
	phase := positiveMod(it.X*pat.Scale, period)
	delta := tx - it.X

	sx0 := phase + delta*pat.Scale
	sy0 := it.Y * pat.Scale
	sx1 := sx0 + tw*pat.Scale
	sy1 := sy0 + it.H*pat.Scale

	c.appendQuad(tx, it.Y, tw, it.H,
		float32(sx0), float32(sy0), float32(sx1), float32(sy1), ColorWhite)
}

// positiveMod returns v mod m in [0, m).
func positiveMod(v, m float64) float64 {
	r := math.Mod(v, m)
	if r < 0 {
		r += m
	}
	return r
}
