package store

import (
	"testing"

	"github.com/rs/zerolog"

	"diagram-annotator/internal/annotation"
	"diagram-annotator/internal/storage"
	"diagram-annotator/pkg/geometry"
)

func newTestStore(t *testing.T) (*Store, *storage.MemStore) {
	t.Helper()
	port := storage.NewMemStore()
	return New(port, zerolog.Nop()), port
}

func TestNewFallsBackToDefaults(t *testing.T) {
	s, _ := newTestStore(t)

	if got := len(s.Segments()); got != len(DefaultSegments()) {
		t.Errorf("segments: got %d, want %d", got, len(DefaultSegments()))
	}
	if got := len(s.Guides(ScopePrimary)); got != len(DefaultGuides()) {
		t.Errorf("guides: got %d, want %d", got, len(DefaultGuides()))
	}
	if got := len(s.Guides(ScopeDetail)); got != 0 {
		t.Errorf("detail guides: got %d, want 0", got)
	}
}

func TestNewRejectsCorruptSnapshot(t *testing.T) {
	port := storage.NewMemStore()
	port.Save(KeySegments, []byte(`{"not":"an array"}`))
	port.Save(KeyGuides, []byte(`[{"label":"missing id"}]`))

	s := New(port, zerolog.Nop())

	// Both corrupt snapshots fall back to the full default dataset.
	if got := len(s.Segments()); got != len(DefaultSegments()) {
		t.Errorf("segments: got %d, want defaults %d", got, len(DefaultSegments()))
	}
	if got := len(s.Guides(ScopePrimary)); got != len(DefaultGuides()) {
		t.Errorf("guides: got %d, want defaults %d", got, len(DefaultGuides()))
	}
}

func TestMoveSegmentClampsAndSelects(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.Segments()[0].ID

	if !s.MoveSegment(id, geometry.Point2D{X: 150, Y: -20}) {
		t.Fatal("move failed")
	}

	seg, _ := s.Segment(id)
	if seg.Left != 100 || seg.Top != 0 {
		t.Errorf("not clamped: left=%v top=%v", seg.Left, seg.Top)
	}
	if s.SelectedSegment() != id {
		t.Errorf("moved segment should be selected")
	}
}

func TestMoveSegmentUnknownID(t *testing.T) {
	s, _ := newTestStore(t)
	if s.MoveSegment("nope", geometry.Point2D{X: 1, Y: 1}) {
		t.Error("expected false for unknown id")
	}
}

func TestDeleteSegmentClearsSelection(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.Segments()[0].ID
	s.SelectSegment(id)

	if !s.DeleteSegment(id) {
		t.Fatal("delete failed")
	}
	if s.SelectedSegment() != "" {
		t.Errorf("selection not cleared, got %q", s.SelectedSegment())
	}
	if _, found := s.Segment(id); found {
		t.Error("segment still present after delete")
	}
}

func TestAddSegmentCodeFollowsCount(t *testing.T) {
	s, _ := newTestStore(t)
	n := len(s.Segments())

	seg := s.AddSegment()
	if seg.Code == "" {
		t.Fatal("expected placeholder code")
	}
	if got := len(s.Segments()); got != n+1 {
		t.Errorf("got %d segments, want %d", got, n+1)
	}
}

func TestUpdateSegmentNormalizes(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.Segments()[0].ID

	bad := "fuchsia"
	w := 200.0
	s.UpdateSegment(id, annotation.SegmentPatch{Color: &bad, Width: &w})

	seg, _ := s.Segment(id)
	if seg.Color != annotation.FallbackColor {
		t.Errorf("color = %q, want fallback", seg.Color)
	}
	if seg.Width != 100 {
		t.Errorf("width = %v, want 100", seg.Width)
	}
}

func TestDeleteGuideActiveFallsBack(t *testing.T) {
	s, _ := newTestStore(t)
	s.ClearGuides(ScopePrimary)

	g1 := s.AddGuide(ScopePrimary)
	g2 := s.AddGuide(ScopePrimary)
	g3 := s.AddGuide(ScopePrimary)

	// Deleting the active middle guide promotes the guide that now sits at
	// the deleted index.
	s.SetActiveGuide(ScopePrimary, g2.ID)
	s.DeleteGuide(ScopePrimary, g2.ID)
	if got := s.ActiveGuide(ScopePrimary); got != g3.ID {
		t.Errorf("after middle delete: active = %q, want %q", got, g3.ID)
	}

	// Deleting the active last guide falls back to the new last.
	s.DeleteGuide(ScopePrimary, g3.ID)
	if got := s.ActiveGuide(ScopePrimary); got != g1.ID {
		t.Errorf("after last delete: active = %q, want %q", got, g1.ID)
	}

	// Deleting the only guide clears the active reference.
	s.DeleteGuide(ScopePrimary, g1.ID)
	if got := s.ActiveGuide(ScopePrimary); got != "" {
		t.Errorf("after final delete: active = %q, want empty", got)
	}
}

func TestDeleteGuideKeepsInactiveReference(t *testing.T) {
	s, _ := newTestStore(t)
	s.ClearGuides(ScopePrimary)

	g1 := s.AddGuide(ScopePrimary)
	g2 := s.AddGuide(ScopePrimary)

	s.SetActiveGuide(ScopePrimary, g2.ID)
	s.DeleteGuide(ScopePrimary, g1.ID)
	if got := s.ActiveGuide(ScopePrimary); got != g2.ID {
		t.Errorf("active = %q, want untouched %q", got, g2.ID)
	}
}

func TestAppendGuidePointClamps(t *testing.T) {
	s, _ := newTestStore(t)
	g := s.AddGuide(ScopePrimary)

	s.AppendGuidePoint(ScopePrimary, g.ID, geometry.Point2D{X: 120, Y: -3})

	line, _ := s.Guide(ScopePrimary, g.ID)
	if len(line.Points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(line.Points))
	}
	if line.Points[0] != (geometry.Point2D{X: 100, Y: 0}) {
		t.Errorf("point not clamped: %+v", line.Points[0])
	}
}

func TestScopesAreIndependent(t *testing.T) {
	s, _ := newTestStore(t)

	g := s.AddGuide(ScopeDetail)
	if _, found := s.Guide(ScopePrimary, g.ID); found {
		t.Error("detail guide leaked into primary scope")
	}
	if got := s.ActiveGuide(ScopePrimary); got == g.ID {
		t.Error("detail active leaked into primary scope")
	}
}

func TestMutationsPersistAcrossRestart(t *testing.T) {
	s, port := newTestStore(t)

	seg := s.AddSegment()
	title := "Video controller"
	s.UpdateSegment(seg.ID, annotation.SegmentPatch{Title: &title})

	g := s.AddGuide(ScopePrimary)
	s.AppendGuidePoint(ScopePrimary, g.ID, geometry.Point2D{X: 10, Y: 10})
	s.AppendGuidePoint(ScopePrimary, g.ID, geometry.Point2D{X: 20, Y: 20})

	// A fresh store over the same port sees the committed state.
	restarted := New(port, zerolog.Nop())

	got, found := restarted.Segment(seg.ID)
	if !found {
		t.Fatal("segment lost across restart")
	}
	if got.Title != title {
		t.Errorf("title = %q, want %q", got.Title, title)
	}

	line, found := restarted.Guide(ScopePrimary, g.ID)
	if !found {
		t.Fatal("guide lost across restart")
	}
	if len(line.Points) != 2 {
		t.Errorf("points = %d, want 2", len(line.Points))
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	s, _ := newTestStore(t)

	s.AddSegment()
	s.ClearGuides(ScopePrimary)
	s.SelectSegment(s.Segments()[0].ID)

	s.Reset()

	if got := len(s.Segments()); got != len(DefaultSegments()) {
		t.Errorf("segments: got %d, want defaults %d", got, len(DefaultSegments()))
	}
	if got := len(s.Guides(ScopePrimary)); got != len(DefaultGuides()) {
		t.Errorf("guides: got %d, want defaults %d", got, len(DefaultGuides()))
	}
	if s.SelectedSegment() != "" {
		t.Error("selection should be cleared on reset")
	}
	if s.ActiveGuide(ScopePrimary) != "" {
		t.Error("active guide should be cleared on reset")
	}
}

func TestGuideSnapshotIsACopy(t *testing.T) {
	s, _ := newTestStore(t)
	g := s.AddGuide(ScopePrimary)
	s.AppendGuidePoint(ScopePrimary, g.ID, geometry.Point2D{X: 10, Y: 10})

	line, _ := s.Guide(ScopePrimary, g.ID)
	line.Points[0].X = 99

	again, _ := s.Guide(ScopePrimary, g.ID)
	if again.Points[0].X != 10 {
		t.Error("mutating a snapshot leaked into the store")
	}
}

func TestListenerDetach(t *testing.T) {
	s, _ := newTestStore(t)

	var first, second int
	detach := s.On(EventSegmentsChanged, func(interface{}) { first++ })
	s.On(EventSegmentsChanged, func(interface{}) { second++ })

	s.AddSegment()
	if first != 1 || second != 1 {
		t.Fatalf("listener calls = %d/%d, want 1/1", first, second)
	}

	detach()
	s.AddSegment()
	if first != 1 {
		t.Errorf("detached listener still called: %d", first)
	}
	if second != 2 {
		t.Errorf("remaining listener missed event: %d", second)
	}
}
