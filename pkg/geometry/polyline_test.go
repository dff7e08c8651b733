package geometry

import (
	"math"
	"testing"
)

func TestPolylineLength(t *testing.T) {
	if got := PolylineLength(nil); got != 0 {
		t.Errorf("empty: got %v, want 0", got)
	}
	if got := PolylineLength([]Point2D{{X: 5, Y: 5}}); got != 0 {
		t.Errorf("single point: got %v, want 0", got)
	}

	points := []Point2D{{X: 0, Y: 0}, {X: 3, Y: 4}, {X: 3, Y: 14}}
	if got := PolylineLength(points); got != 15 {
		t.Errorf("got %v, want 15", got)
	}
}

func TestBoundingBox(t *testing.T) {
	points := []Point2D{{X: 10, Y: 50}, {X: 4, Y: 8}, {X: 30, Y: 20}}
	box := BoundingBox(points)
	want := Rect{X: 4, Y: 8, Width: 26, Height: 42}
	if box != want {
		t.Errorf("got %+v, want %+v", box, want)
	}
}

func TestCentroid(t *testing.T) {
	points := []Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	c := Centroid(points)
	if c.X != 5 || c.Y != 5 {
		t.Errorf("got %+v, want {5 5}", c)
	}
}

func TestDistanceToSegment(t *testing.T) {
	a := Point2D{X: 0, Y: 0}
	b := Point2D{X: 10, Y: 0}

	if got := DistanceToSegment(Point2D{X: 5, Y: 3}, a, b); got != 3 {
		t.Errorf("perpendicular: got %v, want 3", got)
	}
	// Beyond the endpoint the distance is to the endpoint itself.
	if got := DistanceToSegment(Point2D{X: 13, Y: 4}, a, b); got != 5 {
		t.Errorf("past endpoint: got %v, want 5", got)
	}
	// Degenerate segment.
	if got := DistanceToSegment(Point2D{X: 3, Y: 4}, a, a); got != 5 {
		t.Errorf("degenerate: got %v, want 5", got)
	}
}

func TestDistanceToPolyline(t *testing.T) {
	if got := DistanceToPolyline(Point2D{}, nil); got != -1 {
		t.Errorf("empty: got %v, want -1", got)
	}

	points := []Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}
	got := DistanceToPolyline(Point2D{X: 12, Y: 5}, points)
	if math.Abs(got-2) > 1e-9 {
		t.Errorf("got %v, want 2", got)
	}
}
