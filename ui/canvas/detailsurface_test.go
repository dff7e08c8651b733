package canvas

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/rs/zerolog"

	"diagram-annotator/internal/app"
	"diagram-annotator/internal/storage"
	"diagram-annotator/internal/store"
)

func newTestState() *app.State {
	return app.NewState(store.New(storage.NewMemStore(), zerolog.Nop()))
}

func TestDetailSurfaceTapAddsPoint(t *testing.T) {
	test.NewApp()
	state := newTestState()
	ds := NewDetailSurface(state)
	ds.Resize(fyne.NewSize(200, 100))

	state.SetMode(app.ModeEdit)
	line, ok := state.DetailDraw.Start()
	if !ok {
		t.Fatal("could not start detail drawing")
	}

	ds.Tapped(&fyne.PointEvent{Position: fyne.NewPos(100, 50)})
	ds.Tapped(&fyne.PointEvent{Position: fyne.NewPos(200, 100)})

	got, found := state.Store.Guide(store.ScopeDetail, line.ID)
	if !found {
		t.Fatalf("detail guide %s missing", line.ID)
	}
	if len(got.Points) != 2 {
		t.Fatalf("point count = %d, want 2", len(got.Points))
	}
	if got.Points[0].X != 50 || got.Points[0].Y != 50 {
		t.Errorf("first point = %+v, want {50 50}", got.Points[0])
	}
	if got.Points[1].X != 100 || got.Points[1].Y != 100 {
		t.Errorf("second point = %+v, want {100 100}", got.Points[1])
	}
}

func TestDetailSurfaceIgnoresTapsWhileIdle(t *testing.T) {
	test.NewApp()
	state := newTestState()
	ds := NewDetailSurface(state)
	ds.Resize(fyne.NewSize(200, 100))

	ds.Tapped(&fyne.PointEvent{Position: fyne.NewPos(100, 50)})

	if got := len(state.Store.Guides(store.ScopeDetail)); got != 0 {
		t.Errorf("idle tap created detail guides: %d", got)
	}
}

func TestDetailSurfaceIgnoresTapsInViewMode(t *testing.T) {
	test.NewApp()
	state := newTestState()
	ds := NewDetailSurface(state)
	ds.Resize(fyne.NewSize(200, 100))

	state.SetMode(app.ModeEdit)
	line, ok := state.DetailDraw.Start()
	if !ok {
		t.Fatal("could not start detail drawing")
	}
	state.SetMode(app.ModeView)

	ds.Tapped(&fyne.PointEvent{Position: fyne.NewPos(100, 50)})

	got, found := state.Store.Guide(store.ScopeDetail, line.ID)
	if !found {
		t.Fatalf("detail guide %s missing", line.ID)
	}
	if len(got.Points) != 0 {
		t.Errorf("view-mode tap captured points: %d", len(got.Points))
	}
}

func TestDetailSurfaceSecondaryTapFinishes(t *testing.T) {
	test.NewApp()
	state := newTestState()
	ds := NewDetailSurface(state)
	ds.Resize(fyne.NewSize(200, 100))

	state.SetMode(app.ModeEdit)
	line, ok := state.DetailDraw.Start()
	if !ok {
		t.Fatal("could not start detail drawing")
	}
	ds.Tapped(&fyne.PointEvent{Position: fyne.NewPos(50, 50)})
	ds.TappedSecondary(&fyne.PointEvent{Position: fyne.NewPos(60, 60)})

	if state.DetailDraw.Drawing() {
		t.Error("secondary tap must finish the session")
	}
	got, _ := state.Store.Guide(store.ScopeDetail, line.ID)
	if len(got.Points) != 1 {
		t.Errorf("committed points = %d, want 1", len(got.Points))
	}
}
