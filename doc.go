// Package pyrograph is a render queue and compositing engine for large,
// zoomable timeline visualizations (flame charts, waterfalls, time-series
// overlays) on [Ebitengine].
//
// The engine maps a potentially huge time domain onto a small pixel
// viewport with continuous zoom and pan, and composites thousands of
// rectangles, labels, and strokes per frame while paying each
// surface-state change at most once per group of primitives.
//
// # Quick start
//
// Create a [RenderEngine], feed it pixel-space primitives during the
// frame-build phase, and resolve once per draw:
//
//	engine := pyrograph.NewRenderEngine(pyrograph.Config{Width: 800, Height: 600})
//
//	func (g *Game) Update() error { engine.Update(1.0 / 60); return nil }
//	func (g *Game) Draw(screen *ebiten.Image) {
//		engine.Clear()
//		engine.AddRect(pyrograph.RectItem{Color: "#f4a261", X: 40, Y: 16, W: 120}, 0)
//		engine.AddText(pyrograph.TextItem{Text: "doWork", X: 40, Y: 16, W: 120}, 0)
//		engine.Resolve()
//		screen.DrawImage(engine.Image(), nil)
//	}
//
// # Batching model
//
// Primitives accumulate in a priority-ordered queue. Lower priorities
// paint first, so higher priorities visually sit on top. Within a
// priority, rectangles paint before texts before strokes, and rectangles
// are grouped by fill pattern then by fill color so that every fill-state
// change is paid once per group rather than once per rectangle. Each
// solid-color group is submitted as a single triangle batch.
//
// # Coordinates
//
// A [Viewport] owns the time-to-pixel transform and pan/zoom clamping.
// Producers convert times to pixels themselves and hand the engine fully
// resolved pixel-space geometry; only rectangle geometry is clamped to
// the surface. Tiled fill patterns ([Pattern]) are anchored so that a
// pattern-filled block shows the same tile phase no matter where the
// viewport is panned.
//
// [Ebitengine]: https://ebitengine.org
package pyrograph
