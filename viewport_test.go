package pyrograph

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestViewportDefaults(t *testing.T) {
	v := NewViewport(800, 600)
	if v.Zoom() != 1.0 {
		t.Errorf("Zoom = %f, want 1.0", v.Zoom())
	}
	if v.PositionX() != 0 {
		t.Errorf("PositionX = %f, want 0", v.PositionX())
	}
	if v.Width != 800 || v.Height != 600 {
		t.Errorf("size = %fx%f, want 800x600", v.Width, v.Height)
	}
}

func TestTimeToPositionMonotonic(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetZoom(2.5)
	v.SetPositionX(100)

	prev := math.Inf(-1)
	for _, tm := range []float64{0, 10, 50, 100, 101, 500, 1e6} {
		px := v.TimeToPosition(tm)
		if px <= prev {
			t.Fatalf("TimeToPosition(%f) = %f, not greater than %f", tm, px, prev)
		}
		prev = px
	}
}

func TestTimeToPositionOrigin(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetZoom(4)
	v.SetPositionX(25)
	// The pan position itself always lands on pixel 0.
	if px := v.TimeToPosition(25); !approxEqual(px, 0, epsilon) {
		t.Errorf("TimeToPosition(positionX) = %f, want 0", px)
	}
	if px := v.TimeToPosition(35); !approxEqual(px, 40, epsilon) {
		t.Errorf("TimeToPosition(35) = %f, want 40", px)
	}
}

func TestPixelToTimeRoundtrip(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetZoom(3.7)
	v.SetPositionX(-42.5)

	// A pixel span between two converted times maps back to the original
	// time value regardless of the pan position.
	for _, tm := range []float64{-100, 0, 1, 3.14159, 12345.678} {
		got := v.PixelToTime(v.TimeToPosition(tm) - v.TimeToPosition(0))
		if !approxEqual(got, tm, 1e-6) {
			t.Errorf("roundtrip(%f) = %f", tm, got)
		}
	}
}

func TestPixelToTimeIgnoresPan(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetZoom(2)
	v.SetPositionX(100)

	// Drag deltas convert independently of where the viewport is panned:
	// this is what feeds TryToChangePosition.
	if got := v.PixelToTime(50); !approxEqual(got, 25, epsilon) {
		t.Errorf("PixelToTime(50) = %f, want 25", got)
	}
	v.SetPositionX(-999)
	if got := v.PixelToTime(50); !approxEqual(got, 25, epsilon) {
		t.Errorf("PixelToTime(50) after pan = %f, want 25", got)
	}
}

func TestSetZoomStoresUnchecked(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetZoom(2)
	if v.Zoom() != 2 {
		t.Errorf("Zoom = %f, want 2", v.Zoom())
	}
	// Stored as given; keeping the value positive is on the caller.
	v.SetZoom(0.25)
	if v.Zoom() != 0.25 {
		t.Errorf("Zoom = %f, want 0.25", v.Zoom())
	}
	v.SetZoom(-1)
	if v.Zoom() != -1 {
		t.Errorf("Zoom = %f, want -1 (no internal validation)", v.Zoom())
	}
}

func TestSetPositionXReturnsDelta(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetPositionX(10)
	delta := v.SetPositionX(35)
	if !approxEqual(delta, 25, epsilon) {
		t.Errorf("delta = %f, want 25", delta)
	}
}

func TestTryToChangePositionWithinBounds(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetMinMax(0, 10000)
	v.SetZoom(1)
	v.SetPositionX(100)

	v.TryToChangePosition(50)
	if !approxEqual(v.PositionX(), 150, epsilon) {
		t.Errorf("PositionX = %f, want 150", v.PositionX())
	}
}

func TestTryToChangePositionSnapsLeft(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetMinMax(100, 10000)
	v.SetPositionX(150)

	v.TryToChangePosition(-500)
	if !approxEqual(v.PositionX(), 100, epsilon) {
		t.Errorf("PositionX = %f, want 100 (snapped to min)", v.PositionX())
	}
}

func TestTryToChangePositionSnapsRight(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetMinMax(0, 1000)
	v.SetZoom(1) // visible span = 800, right limit = 200

	v.TryToChangePosition(5000)
	if !approxEqual(v.PositionX(), 200, epsilon) {
		t.Errorf("PositionX = %f, want 200 (max - width/zoom)", v.PositionX())
	}
}

func TestTryToChangePositionNarrowExtent(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetMinMax(50, 100) // narrower than the view at zoom 1
	v.SetPositionX(70)

	v.TryToChangePosition(10)
	if !approxEqual(v.PositionX(), 50, epsilon) {
		t.Errorf("PositionX = %f, want 50 (left edge wins)", v.PositionX())
	}
}

func TestInitialZoom(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetMinMax(0, 400)
	if z := v.InitialZoom(); !approxEqual(z, 2, epsilon) {
		t.Errorf("InitialZoom = %f, want 2", z)
	}
}

func TestInitialZoomEmptyExtent(t *testing.T) {
	v := NewViewport(800, 600)
	if z := v.InitialZoom(); z != 1 {
		t.Errorf("InitialZoom with empty extent = %f, want 1", z)
	}
	v.SetMinMax(100, 100)
	if z := v.InitialZoom(); z != 1 {
		t.Errorf("InitialZoom with zero-width extent = %f, want 1", z)
	}
}

func TestResetView(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetMinMax(100, 500)
	v.SetZoom(17)
	v.SetPositionX(300)

	v.ResetView()
	if !approxEqual(v.PositionX(), 100, epsilon) {
		t.Errorf("PositionX = %f, want 100", v.PositionX())
	}
	if !approxEqual(v.Zoom(), 2, epsilon) {
		t.Errorf("Zoom = %f, want 2", v.Zoom())
	}
	// The full extent is now exactly the visible span.
	if !approxEqual(v.RealView(), 400, epsilon) {
		t.Errorf("RealView = %f, want 400", v.RealView())
	}
}

func TestRealView(t *testing.T) {
	v := NewViewport(1000, 600)
	v.SetZoom(4)
	if !approxEqual(v.RealView(), 250, epsilon) {
		t.Errorf("RealView = %f, want 250", v.RealView())
	}
}

func TestSetMinMaxFiresOnlyOnChange(t *testing.T) {
	v := NewViewport(800, 600)
	calls := 0
	v.OnMinMaxChange(func(min, max float64) { calls++ })

	v.SetMinMax(0, 100)
	v.SetMinMax(0, 100) // no change
	v.SetMinMax(0, 200)
	if calls != 2 {
		t.Errorf("handler calls = %d, want 2", calls)
	}
}

func TestSetMinMaxHandlerArgs(t *testing.T) {
	v := NewViewport(800, 600)
	var gotMin, gotMax float64
	v.OnMinMaxChange(func(min, max float64) { gotMin, gotMax = min, max })

	v.SetMinMax(-5, 55)
	if gotMin != -5 || gotMax != 55 {
		t.Errorf("handler got (%f, %f), want (-5, 55)", gotMin, gotMax)
	}
}

func TestScrollToStaysClamped(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetMinMax(0, 1000) // right limit 200 at zoom 1

	v.ScrollTo(900, 1.0, ease.Linear)
	v.Update(0.5)
	v.Update(0.5)
	v.Update(0.1) // past the end

	if v.PositionX() > 200+epsilon {
		t.Errorf("PositionX = %f, want <= 200 (clamped during animation)", v.PositionX())
	}
	if v.anim != nil {
		t.Error("anim not nil after completion")
	}
}

func TestScrollToProgresses(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetMinMax(0, 10000)

	v.ScrollTo(100, 1.0, ease.Linear)
	v.Update(0.5)
	if !approxEqual(v.PositionX(), 50, 1.0) {
		t.Errorf("halfway PositionX = %f, want ~50", v.PositionX())
	}
	v.Update(0.5)
	if !approxEqual(v.PositionX(), 100, 1.0) {
		t.Errorf("final PositionX = %f, want ~100", v.PositionX())
	}
}

func TestZoomTo(t *testing.T) {
	v := NewViewport(800, 600)
	v.ZoomTo(4, 1.0, ease.Linear)
	v.Update(1.0)
	if !approxEqual(v.Zoom(), 4, 0.01) {
		t.Errorf("Zoom = %f, want ~4", v.Zoom())
	}

	v.ZoomTo(-1, 1.0, ease.Linear) // ignored
	v.Update(1.0)
	if !approxEqual(v.Zoom(), 4, 0.01) {
		t.Errorf("Zoom after ZoomTo(-1) = %f, want ~4", v.Zoom())
	}
}

func BenchmarkTimeToPosition(b *testing.B) {
	v := NewViewport(800, 600)
	v.SetZoom(2.5)
	v.SetPositionX(1234)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = v.TimeToPosition(float64(i))
	}
}
