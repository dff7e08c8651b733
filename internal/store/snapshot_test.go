package store

import (
	"testing"

	"github.com/rs/zerolog"

	"diagram-annotator/internal/storage"
)

func TestImportReplacesCollections(t *testing.T) {
	s := New(storage.NewMemStore(), zerolog.Nop())

	doc := `{
		"segments": [{"id":"seg-x","code":"X1","title":"Xtal"}],
		"guides": [{"id":"line-x","points":[{"x":1,"y":2},{"x":3,"y":4}]}],
		"detail_guides": []
	}`
	if err := s.Import([]byte(doc)); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	segs := s.Segments()
	if len(segs) != 1 || segs[0].ID != "seg-x" {
		t.Errorf("segments not replaced: %+v", segs)
	}
	if got := len(s.Guides(ScopePrimary)); got != 1 {
		t.Errorf("guides not replaced: %d", got)
	}
	if got := len(s.Guides(ScopeDetail)); got != 0 {
		t.Errorf("detail guides not replaced: %d", got)
	}
}

func TestImportAbsentKeysLeaveCollections(t *testing.T) {
	s := New(storage.NewMemStore(), zerolog.Nop())
	before := len(s.Guides(ScopePrimary))

	doc := `{"segments": [{"id":"seg-only"}]}`
	if err := s.Import([]byte(doc)); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if got := len(s.Segments()); got != 1 {
		t.Errorf("segments: got %d, want 1", got)
	}
	if got := len(s.Guides(ScopePrimary)); got != before {
		t.Errorf("guides changed: got %d, want %d", got, before)
	}
}

func TestImportIsAllOrNothing(t *testing.T) {
	s := New(storage.NewMemStore(), zerolog.Nop())
	segsBefore := s.Segments()
	guidesBefore := s.Guides(ScopePrimary)

	// Valid segments, invalid guides: nothing may be applied.
	doc := `{
		"segments": [{"id":"seg-ok"}],
		"guides": [{"label":"missing id"}]
	}`
	if err := s.Import([]byte(doc)); err == nil {
		t.Fatal("expected import rejection")
	}

	if got := len(s.Segments()); got != len(segsBefore) {
		t.Errorf("segments changed after rejected import: %d", got)
	}
	if got := len(s.Guides(ScopePrimary)); got != len(guidesBefore) {
		t.Errorf("guides changed after rejected import: %d", got)
	}
}

func TestImportBareSegmentArray(t *testing.T) {
	s := New(storage.NewMemStore(), zerolog.Nop())
	guidesBefore := len(s.Guides(ScopePrimary))

	data := `  [{"id":"seg-a","code":"A"},{"id":"seg-b"}]`
	if err := s.Import([]byte(data)); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	segs := s.Segments()
	if len(segs) != 2 || segs[0].ID != "seg-a" || segs[1].ID != "seg-b" {
		t.Errorf("segments not replaced: %+v", segs)
	}
	if got := len(s.Guides(ScopePrimary)); got != guidesBefore {
		t.Errorf("bare-array import touched guides: %d", got)
	}
}

func TestImportBareArrayIsAllOrNothing(t *testing.T) {
	s := New(storage.NewMemStore(), zerolog.Nop())
	before := len(s.Segments())

	if err := s.Import([]byte(`[{"id":"seg-ok"},{"code":"no id"}]`)); err == nil {
		t.Fatal("expected import rejection")
	}
	if got := len(s.Segments()); got != before {
		t.Errorf("segments changed after rejected import: %d", got)
	}
}

func TestImportRejectsMalformedDocument(t *testing.T) {
	s := New(storage.NewMemStore(), zerolog.Nop())
	if err := s.Import([]byte(`[1,2,3`)); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSnapshotRoundTripsThroughImport(t *testing.T) {
	s := New(storage.NewMemStore(), zerolog.Nop())
	snap := s.Snapshot()

	if len(snap.Segments) != len(DefaultSegments()) {
		t.Errorf("snapshot segments: %d", len(snap.Segments))
	}
	if len(snap.Guides) != len(DefaultGuides()) {
		t.Errorf("snapshot guides: %d", len(snap.Guides))
	}
}
