package session

import (
	"testing"

	"github.com/rs/zerolog"

	"diagram-annotator/internal/storage"
	"diagram-annotator/internal/store"
	"diagram-annotator/pkg/geometry"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(storage.NewMemStore(), zerolog.Nop())
}

func TestDragKeepsGrabOffset(t *testing.T) {
	st := newTestStore(t)
	seg := st.Segments()[0]
	drag := NewDrag(st)

	// Grab 2 percent inside the box; the anchor must not jump under the
	// pointer.
	pointer := geometry.Point2D{X: seg.Left + 2, Y: seg.Top + 2}
	if !drag.Begin(seg.ID, pointer) {
		t.Fatal("begin failed")
	}

	drag.Move(geometry.Point2D{X: 50, Y: 60})
	moved, _ := st.Segment(seg.ID)
	if moved.Left != 48 || moved.Top != 58 {
		t.Errorf("anchor = (%v,%v), want (48,58)", moved.Left, moved.Top)
	}
}

func TestDragFinalPositionIsKept(t *testing.T) {
	st := newTestStore(t)
	seg := st.Segments()[0]
	drag := NewDrag(st)

	drag.Begin(seg.ID, geometry.Point2D{X: seg.Left, Y: seg.Top})
	drag.Move(geometry.Point2D{X: 30, Y: 30})
	drag.Move(geometry.Point2D{X: 70, Y: 10})
	drag.End()

	// End commits nothing extra and rolls nothing back.
	final, _ := st.Segment(seg.ID)
	if final.Left != 70 || final.Top != 10 {
		t.Errorf("final anchor = (%v,%v), want (70,10)", final.Left, final.Top)
	}
	if drag.Active() {
		t.Error("drag still active after End")
	}
}

func TestDragMoveClampsThroughStore(t *testing.T) {
	st := newTestStore(t)
	seg := st.Segments()[0]
	drag := NewDrag(st)

	drag.Begin(seg.ID, geometry.Point2D{X: seg.Left, Y: seg.Top})
	drag.Move(geometry.Point2D{X: 500, Y: -500})

	moved, _ := st.Segment(seg.ID)
	if moved.Left != 100 || moved.Top != 0 {
		t.Errorf("anchor = (%v,%v), want clamped (100,0)", moved.Left, moved.Top)
	}
}

func TestDragRejectsSecondBegin(t *testing.T) {
	st := newTestStore(t)
	segs := st.Segments()
	drag := NewDrag(st)

	drag.Begin(segs[0].ID, geometry.Point2D{})
	if drag.Begin(segs[1].ID, geometry.Point2D{}) {
		t.Error("second Begin during an active drag must fail")
	}
	if drag.SegmentID() != segs[0].ID {
		t.Errorf("target switched to %q", drag.SegmentID())
	}
}

func TestDragUnknownSegment(t *testing.T) {
	st := newTestStore(t)
	drag := NewDrag(st)
	if drag.Begin("nope", geometry.Point2D{}) {
		t.Error("expected Begin to fail for unknown segment")
	}
}

func TestDrawCommitsExactlyTheClickedPoints(t *testing.T) {
	st := newTestStore(t)
	draw := NewDraw(st, store.ScopePrimary)

	line, ok := draw.Start()
	if !ok {
		t.Fatal("start failed")
	}

	p1 := geometry.Point2D{X: 10, Y: 10}
	p2 := geometry.Point2D{X: 20, Y: 30}
	draw.AddPoint(p1)
	draw.SetPreview(geometry.Point2D{X: 99, Y: 99})
	draw.AddPoint(p2)
	draw.SetPreview(geometry.Point2D{X: 1, Y: 1})
	draw.Finish()

	got, _ := st.Guide(store.ScopePrimary, line.ID)
	if len(got.Points) != 2 {
		t.Fatalf("points = %d, want exactly 2", len(got.Points))
	}
	if got.Points[0] != p1 || got.Points[1] != p2 {
		t.Errorf("points = %+v, want [%+v %+v]", got.Points, p1, p2)
	}
}

func TestDrawPreviewLifecycle(t *testing.T) {
	st := newTestStore(t)
	draw := NewDraw(st, store.ScopePrimary)

	// Preview is meaningless while idle.
	draw.SetPreview(geometry.Point2D{X: 5, Y: 5})
	if _, ok := draw.Preview(); ok {
		t.Error("idle session must not carry a preview")
	}

	draw.Start()
	draw.SetPreview(geometry.Point2D{X: 120, Y: 5})
	p, ok := draw.Preview()
	if !ok {
		t.Fatal("expected preview while drawing")
	}
	if p.X != 100 {
		t.Errorf("preview not clamped: %+v", p)
	}

	draw.ClearPreview()
	if _, ok := draw.Preview(); ok {
		t.Error("preview survived ClearPreview")
	}
}

func TestDrawRejectsSecondStart(t *testing.T) {
	st := newTestStore(t)
	draw := NewDraw(st, store.ScopePrimary)

	draw.Start()
	if _, ok := draw.Start(); ok {
		t.Error("second Start during a drawing must fail")
	}
}

func TestDrawForcedIdleWhenTargetDeleted(t *testing.T) {
	st := newTestStore(t)
	draw := NewDraw(st, store.ScopePrimary)

	line, _ := draw.Start()
	st.DeleteGuide(store.ScopePrimary, line.ID)

	if draw.Drawing() {
		t.Error("session must go idle when its target is deleted")
	}
	if draw.AddPoint(geometry.Point2D{X: 1, Y: 1}) {
		t.Error("idle session accepted a point")
	}
}

func TestDrawForcedIdleOnClearAll(t *testing.T) {
	st := newTestStore(t)
	draw := NewDraw(st, store.ScopePrimary)

	draw.Start()
	st.ClearGuides(store.ScopePrimary)

	if draw.Drawing() {
		t.Error("session must go idle when the collection is cleared")
	}
}

func TestDrawScopesDoNotInterfere(t *testing.T) {
	st := newTestStore(t)
	primary := NewDraw(st, store.ScopePrimary)
	detail := NewDraw(st, store.ScopeDetail)

	primary.Start()
	line, _ := detail.Start()

	// Clearing the primary collection leaves the detail session alone.
	st.ClearGuides(store.ScopePrimary)
	if primary.Drawing() {
		t.Error("primary session should be idle")
	}
	if !detail.Drawing() {
		t.Error("detail session should still be drawing")
	}
	if detail.TargetID() != line.ID {
		t.Errorf("detail target changed: %q", detail.TargetID())
	}
}
