package pyrograph

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Default tile parameters merged under custom pattern results.
const (
	defaultPatternScale = 1.0
	defaultPatternWidth = 10.0
)

// Pattern is a registered tiled fill. The tile is rendered once at
// registration; fills sample it with repeat addressing, anchored so that
// two blocks whose x positions differ by a whole number of periods show
// the identical tile phase.
type Pattern struct {
	// Image is the tile in tile pixels.
	Image *ebiten.Image
	// Scale is tile pixels per logical surface pixel.
	Scale float64
	// Width is the horizontal period in logical pixels.
	Width float64
}

// PatternDescriptor registers a named fill pattern. The two
// implementations are DefaultPatternDescriptor (built-in tile kinds) and
// CustomPatternDescriptor (caller-drawn tiles).
type PatternDescriptor interface {
	patternName() string
	build(e *RenderEngine) *Pattern
}

// DefaultPatternDescriptor registers a built-in pattern kind under a name.
// A nil Config is skipped silently at registration.
type DefaultPatternDescriptor struct {
	Name   string
	Config PatternConfig
}

func (d DefaultPatternDescriptor) patternName() string { return d.Name }

func (d DefaultPatternDescriptor) build(e *RenderEngine) *Pattern {
	if d.Config == nil {
		return nil
	}
	return d.Config.buildTile(e)
}

// CustomPatternDescriptor registers a caller-drawn pattern. The creator
// receives the engine (for pixel ratio and styles) and returns the tile;
// zero-valued Scale or Width fall back to the defaults (1 and 10).
type CustomPatternDescriptor struct {
	Name    string
	Creator func(e *RenderEngine) Pattern
}

func (d CustomPatternDescriptor) patternName() string { return d.Name }

func (d CustomPatternDescriptor) build(e *RenderEngine) *Pattern {
	if d.Creator == nil {
		return nil
	}
	p := d.Creator(e)
	if p.Image == nil {
		return nil
	}
	if p.Scale <= 0 {
		p.Scale = defaultPatternScale
	}
	if p.Width <= 0 {
		p.Width = defaultPatternWidth
	}
	return &p
}

// PatternConfig builds the tile for one built-in pattern kind.
// Implemented by StripesConfig, DotsConfig, GradientConfig,
// TrianglesConfig, and CombinedConfig.
type PatternConfig interface {
	buildTile(e *RenderEngine) *Pattern
}

// --- Registry ---

// PatternRegistry holds named tiles for the engine that owns it.
// Children share their parent's registry by reference.
type PatternRegistry struct {
	engine   *RenderEngine
	patterns map[string]*Pattern
}

func newPatternRegistry(e *RenderEngine) *PatternRegistry {
	return &PatternRegistry{
		engine:   e,
		patterns: make(map[string]*Pattern),
	}
}

// Register builds and stores the given descriptors, replacing any
// existing pattern with the same name. Descriptors that produce no tile
// (nil config or creator) are skipped.
func (r *PatternRegistry) Register(descs ...PatternDescriptor) {
	for _, d := range descs {
		p := d.build(r.engine)
		if p == nil {
			continue
		}
		r.patterns[d.patternName()] = p
	}
}

// RegisterIfAbsent registers only descriptors whose names are not yet
// present. Registering the same descriptor twice leaves the first tile in
// place.
func (r *PatternRegistry) RegisterIfAbsent(descs ...PatternDescriptor) {
	for _, d := range descs {
		if _, ok := r.patterns[d.patternName()]; ok {
			continue
		}
		p := d.build(r.engine)
		if p == nil {
			continue
		}
		r.patterns[d.patternName()] = p
	}
}

// Lookup returns the pattern registered under name, or nil. Unregistered
// names degrade to a solid fill at the call site.
func (r *PatternRegistry) Lookup(name string) *Pattern {
	if name == "" {
		return nil
	}
	return r.patterns[name]
}

// --- Built-in tile kinds ---

// StripesConfig builds 45-degree diagonal stripes.
type StripesConfig struct {
	Color      string  // stripe color, default "#ffffff40"
	Background string  // optional background fill
	LineWidth  float64 // stripe thickness in logical pixels, default 4
	Spacing    float64 // gap between stripes, default 4
}

func (cfg StripesConfig) buildTile(e *RenderEngine) *Pattern {
	lw := cfg.LineWidth
	if lw <= 0 {
		lw = 4
	}
	spacing := cfg.Spacing
	if spacing <= 0 {
		spacing = 4
	}
	period := lw + spacing
	scale := e.canvas.PixelRatio()

	size := int(math.Ceil(period * scale))
	if size < 1 {
		size = 1
	}
	img := ebiten.NewImage(size, size)
	fillBackground(img, cfg.Background)

	col, ok := ParseColor(cfg.Color)
	if !ok {
		col = Color{1, 1, 1, 0.25}
	}
	rgba := col.toRGBA()

	// Diagonal lines down-right; one extra period on each side keeps the
	// wrap seam covered.
	step := float32(period * scale)
	h := float32(size)
	for x := -h - step; x <= float32(size)+h+step; x += step {
		vector.StrokeLine(img, x, 0, x+h, h, float32(lw*scale), rgba, true)
	}

	return &Pattern{Image: img, Scale: scale, Width: period}
}

// DotsConfig builds a square grid of filled dots.
type DotsConfig struct {
	Color   string  // dot color, default "#ffffff40"
	Size    float64 // dot diameter in logical pixels, default 2
	Spacing float64 // gap between dots, default 2
}

func (cfg DotsConfig) buildTile(e *RenderEngine) *Pattern {
	size := cfg.Size
	if size <= 0 {
		size = 2
	}
	spacing := cfg.Spacing
	if spacing <= 0 {
		spacing = 2
	}
	period := size + spacing
	scale := e.canvas.PixelRatio()

	px := int(math.Ceil(period * scale))
	if px < 1 {
		px = 1
	}
	img := ebiten.NewImage(px, px)

	col, ok := ParseColor(cfg.Color)
	if !ok {
		col = Color{1, 1, 1, 0.25}
	}
	c := float32(period * scale / 2)
	vector.DrawFilledCircle(img, c, c, float32(size*scale/2), col.toRGBA(), true)

	return &Pattern{Image: img, Scale: scale, Width: period}
}

// GradientConfig builds a vertical gradient spanning one block height.
// Colors are top-to-bottom stops; fewer than two stops yields no tile.
type GradientConfig struct {
	Colors []string
}

func (cfg GradientConfig) buildTile(e *RenderEngine) *Pattern {
	if len(cfg.Colors) < 2 {
		return nil
	}
	scale := e.canvas.PixelRatio()
	width := defaultPatternWidth
	height := e.styles.BlockHeight

	pw := int(math.Ceil(width * scale))
	ph := int(math.Ceil(height * scale))
	if pw < 1 || ph < 1 {
		return nil
	}
	img := ebiten.NewImage(pw, ph)

	bands := len(cfg.Colors) - 1
	bandH := float32(ph) / float32(bands)
	var verts []ebiten.Vertex
	var inds []uint32
	for i := 0; i < bands; i++ {
		top, _ := ParseColor(cfg.Colors[i])
		bot, _ := ParseColor(cfg.Colors[i+1])
		tr, tg, tb, ta := top.premul()
		br, bg, bb, ba := bot.premul()
		y0 := bandH * float32(i)
		y1 := bandH * float32(i+1)
		base := uint32(len(verts))
		verts = append(verts,
			ebiten.Vertex{DstX: 0, DstY: y0, SrcX: 0.5, SrcY: 0.5, ColorR: tr, ColorG: tg, ColorB: tb, ColorA: ta},
			ebiten.Vertex{DstX: float32(pw), DstY: y0, SrcX: 0.5, SrcY: 0.5, ColorR: tr, ColorG: tg, ColorB: tb, ColorA: ta},
			ebiten.Vertex{DstX: 0, DstY: y1, SrcX: 0.5, SrcY: 0.5, ColorR: br, ColorG: bg, ColorB: bb, ColorA: ba},
			ebiten.Vertex{DstX: float32(pw), DstY: y1, SrcX: 0.5, SrcY: 0.5, ColorR: br, ColorG: bg, ColorB: bb, ColorA: ba},
		)
		inds = append(inds, base, base+1, base+2, base+1, base+3, base+2)
	}
	op := &ebiten.DrawTrianglesOptions{ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha}
	img.DrawTriangles32(verts, inds, WhitePixel, op)

	return &Pattern{Image: img, Scale: scale, Width: width}
}

// TrianglesConfig builds a row of triangle markers.
type TrianglesConfig struct {
	Color     string
	Width     float64 // triangle base in logical pixels, default 8
	Height    float64 // triangle height, default 6
	Spacing   float64 // gap between triangles, default 4
	Direction Direction
}

func (cfg TrianglesConfig) buildTile(e *RenderEngine) *Pattern {
	w := cfg.Width
	if w <= 0 {
		w = 8
	}
	h := cfg.Height
	if h <= 0 {
		h = 6
	}
	spacing := cfg.Spacing
	if spacing <= 0 {
		spacing = 4
	}
	period := w + spacing
	scale := e.canvas.PixelRatio()

	pw := int(math.Ceil(period * scale))
	ph := int(math.Ceil((h + spacing) * scale))
	if pw < 1 || ph < 1 {
		return nil
	}
	img := ebiten.NewImage(pw, ph)

	col, ok := ParseColor(cfg.Color)
	if !ok {
		col = Color{1, 1, 1, 0.25}
	}

	offX := spacing * scale / 2
	offY := spacing * scale / 2
	pts := trianglePoints(w*scale, h*scale, cfg.Direction)
	var path vector.Path
	path.MoveTo(float32(offX+pts[0].X), float32(offY+pts[0].Y))
	path.LineTo(float32(offX+pts[1].X), float32(offY+pts[1].Y))
	path.LineTo(float32(offX+pts[2].X), float32(offY+pts[2].Y))
	path.Close()
	fillPath(img, &path, col)

	return &Pattern{Image: img, Scale: scale, Width: period}
}

// CombinedConfig layers several built-in patterns onto one tile. The
// combined period is the widest sub-pattern period; narrower sub-tiles
// repeat across it.
type CombinedConfig struct {
	Patterns []DefaultPatternDescriptor
}

func (cfg CombinedConfig) buildTile(e *RenderEngine) *Pattern {
	var subs []*Pattern
	for _, d := range cfg.Patterns {
		if p := d.build(e); p != nil {
			subs = append(subs, p)
		}
	}
	if len(subs) == 0 {
		return nil
	}

	scale := e.canvas.PixelRatio()
	var width float64
	var ph int
	for _, p := range subs {
		width = math.Max(width, p.Width)
		ph = max(ph, p.Image.Bounds().Dy())
	}
	pw := int(math.Ceil(width * scale))
	if pw < 1 || ph < 1 {
		return nil
	}
	img := ebiten.NewImage(pw, ph)

	for _, p := range subs {
		sw := p.Image.Bounds().Dx()
		sh := p.Image.Bounds().Dy()
		for x := 0; x < pw; x += sw {
			for y := 0; y < ph; y += sh {
				op := &ebiten.DrawImageOptions{}
				op.GeoM.Translate(float64(x), float64(y))
				img.DrawImage(p.Image, op)
			}
		}
	}

	return &Pattern{Image: img, Scale: scale, Width: width}
}

// fillBackground fills the tile with a parsed background color, if any.
func fillBackground(img *ebiten.Image, background string) {
	if background == "" {
		return
	}
	col, ok := ParseColor(background)
	if !ok || col.A <= 0 {
		return
	}
	img.Fill(col.toRGBA())
}

// fillPath rasterizes a closed path in the given color.
func fillPath(img *ebiten.Image, path *vector.Path, col Color) {
	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	r, g, b, a := col.premul()
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = r
		vs[i].ColorG = g
		vs[i].ColorB = b
		vs[i].ColorA = a
	}
	op := &ebiten.DrawTrianglesOptions{
		ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha,
		FillRule:       ebiten.FillRuleNonZero,
		AntiAlias:      true,
	}
	img.DrawTriangles(vs, is, whiteSub, op)
}

// trianglePoints returns the three corners of a triangle of the given
// size oriented toward the direction, in a local (0,0)-(w,h) box.
func trianglePoints(w, h float64, dir Direction) [3]Vec2 {
	switch dir {
	case DirectionTop:
		return [3]Vec2{{0, h}, {w, h}, {w / 2, 0}}
	case DirectionBottom:
		return [3]Vec2{{0, 0}, {w, 0}, {w / 2, h}}
	case DirectionLeft:
		return [3]Vec2{{w, 0}, {w, h}, {0, h / 2}}
	case DirectionRight:
		return [3]Vec2{{0, 0}, {0, h}, {w, h / 2}}
	case DirectionTopLeft:
		return [3]Vec2{{0, 0}, {w, 0}, {0, h}}
	case DirectionTopRight:
		return [3]Vec2{{0, 0}, {w, 0}, {w, h}}
	case DirectionBottomLeft:
		return [3]Vec2{{0, 0}, {0, h}, {w, h}}
	case DirectionBottomRight:
		return [3]Vec2{{w, 0}, {w, h}, {0, h}}
	default:
		return [3]Vec2{{0, h}, {w, h}, {w / 2, 0}}
	}
}
