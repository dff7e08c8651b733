package view

import (
	"math"
	"testing"

	"diagram-annotator/pkg/geometry"
)

func TestZoomStartsAtIdentity(t *testing.T) {
	if got := NewZoom().Scale(); got != 1.0 {
		t.Errorf("initial scale = %v, want 1.0", got)
	}
}

func TestZoomWheelSequence(t *testing.T) {
	z := NewZoom()

	// Four scroll-up notches: 1.0 -> 1.4, each step exact after rounding.
	want := []float64{1.1, 1.2, 1.3, 1.4}
	for i, w := range want {
		if got := z.ApplyWheelDelta(-1); got != w {
			t.Errorf("notch %d: scale = %v, want %v", i+1, got, w)
		}
	}

	// Two notches back down.
	if got := z.ApplyWheelDelta(1); got != 1.3 {
		t.Errorf("scroll down: scale = %v, want 1.3", got)
	}
	if got := z.ApplyWheelDelta(1); got != 1.2 {
		t.Errorf("scroll down: scale = %v, want 1.2", got)
	}
}

func TestZoomClampsAtBounds(t *testing.T) {
	z := NewZoom()

	for i := 0; i < 50; i++ {
		z.ApplyWheelDelta(-1)
	}
	if got := z.Scale(); got != MaxScale {
		t.Errorf("scale = %v, want clamped %v", got, MaxScale)
	}

	for i := 0; i < 50; i++ {
		z.ApplyWheelDelta(1)
	}
	if got := z.Scale(); got != MinScale {
		t.Errorf("scale = %v, want clamped %v", got, MinScale)
	}
}

func TestZoomZeroDeltaIsNoop(t *testing.T) {
	z := NewZoom()
	z.ApplyWheelDelta(-1)
	before := z.Scale()
	if got := z.ApplyWheelDelta(0); got != before {
		t.Errorf("zero delta changed scale: %v -> %v", before, got)
	}
}

func TestZoomReset(t *testing.T) {
	z := NewZoom()
	for i := 0; i < 7; i++ {
		z.ApplyWheelDelta(-1)
	}
	z.Reset()
	if got := z.Scale(); got != 1.0 {
		t.Errorf("scale after reset = %v, want 1.0", got)
	}
}

func TestMapperUnmeasuredReportsFalse(t *testing.T) {
	m := NewSurfaceMapper()

	if _, ok := m.ToNormalized(10, 10); ok {
		t.Error("unmeasured mapper must report false")
	}
	if _, _, ok := m.FromNormalized(geometry.Point2D{X: 50, Y: 50}); ok {
		t.Error("unmeasured mapper must report false")
	}
}

func TestMapperDegenerateSurfaceIsUnmeasured(t *testing.T) {
	m := NewSurfaceMapper()
	m.SetSurface(0, 0, 0, 100)
	if _, ok := m.ToNormalized(10, 10); ok {
		t.Error("zero-width surface must stay unmeasured")
	}
}

func TestMapperToNormalized(t *testing.T) {
	m := NewSurfaceMapper()
	m.SetSurface(0, 0, 200, 100)

	p, ok := m.ToNormalized(100, 50)
	if !ok {
		t.Fatal("expected measured mapper")
	}
	if p.X != 50 || p.Y != 50 {
		t.Errorf("got %+v, want {50 50}", p)
	}
}

func TestMapperHonorsOffset(t *testing.T) {
	m := NewSurfaceMapper()
	m.SetSurface(10, 20, 200, 100)

	p, ok := m.ToNormalized(10, 20)
	if !ok {
		t.Fatal("expected measured mapper")
	}
	if p.X != 0 || p.Y != 0 {
		t.Errorf("surface origin should map to {0 0}, got %+v", p)
	}
}

func TestMapperClampsOutsideSurface(t *testing.T) {
	m := NewSurfaceMapper()
	m.SetSurface(0, 0, 200, 100)

	p, _ := m.ToNormalized(-50, 500)
	if p.X != 0 || p.Y != 100 {
		t.Errorf("got %+v, want clamped {0 100}", p)
	}
}

func TestMapperRoundTrip(t *testing.T) {
	m := NewSurfaceMapper()
	m.SetSurface(13, 7, 640, 480)

	orig := geometry.Point2D{X: 33.3, Y: 66.6}
	px, py, ok := m.FromNormalized(orig)
	if !ok {
		t.Fatal("expected measured mapper")
	}
	back, ok := m.ToNormalized(px, py)
	if !ok {
		t.Fatal("expected measured mapper")
	}
	if math.Abs(back.X-orig.X) > 1e-9 || math.Abs(back.Y-orig.Y) > 1e-9 {
		t.Errorf("round trip drifted: %+v -> %+v", orig, back)
	}
}
