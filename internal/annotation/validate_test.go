package annotation

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestValidateSegmentsRejectsNonArray(t *testing.T) {
	for _, raw := range []string{`{}`, `"hello"`, `42`, `null`, `not json`} {
		if _, err := ValidateSegments([]byte(raw)); err == nil {
			t.Errorf("input %q: expected rejection", raw)
		}
	}
}

func TestValidateSegmentsAllOrNothing(t *testing.T) {
	// One element without an id poisons the entire input.
	raw := `[{"id":"seg-a","code":"A1"},{"code":"B1"},{"id":"seg-c"}]`
	segs, err := ValidateSegments([]byte(raw))
	if err == nil {
		t.Fatal("expected rejection for element without id")
	}
	if segs != nil {
		t.Errorf("rejected input must return nil, got %v", segs)
	}
}

func TestValidateSegmentsDefaultsFields(t *testing.T) {
	raw := `[{"id":"seg-a"},{"id":"seg-b","code":"","color":"purple","left":-10,"top":140,"width":25}]`
	segs, err := ValidateSegments([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}

	// Absent code gets a positional placeholder.
	if segs[0].Code != "S01" {
		t.Errorf("absent code: got %q, want S01", segs[0].Code)
	}
	if segs[0].Color != FallbackColor {
		t.Errorf("absent color: got %q, want fallback", segs[0].Color)
	}

	// A present-but-empty code is kept as is; only the missing key gets the
	// placeholder.
	if segs[1].Code != "" {
		t.Errorf("empty code: got %q, want empty", segs[1].Code)
	}
	if segs[1].Color != FallbackColor {
		t.Errorf("unknown color: got %q, want fallback", segs[1].Color)
	}
	if segs[1].Left != 0 || segs[1].Top != 100 {
		t.Errorf("geometry not clamped: left=%v top=%v", segs[1].Left, segs[1].Top)
	}
	if segs[1].Width != 25 {
		t.Errorf("width = %v, want 25", segs[1].Width)
	}
}

func TestValidateSegmentsEmptyArray(t *testing.T) {
	segs, err := ValidateSegments([]byte(`[]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segs) != 0 {
		t.Errorf("expected empty result, got %v", segs)
	}
}

func TestValidatePolylinesRejectsMissingID(t *testing.T) {
	raw := `[{"id":"line-a"},{"label":"no id"}]`
	if _, err := ValidatePolylines([]byte(raw)); err == nil {
		t.Fatal("expected rejection for element without id")
	}
}

func TestValidatePolylinesDefaultsAndClamps(t *testing.T) {
	raw := `[{"id":"line-a","strokeWidth":-2,"dashStyle":"zigzag","points":[{"x":-1,"y":50},{"x":101,"y":50}]}]`
	lines, err := ValidatePolylines([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	line := lines[0]

	if line.StrokeWidth != DefaultStrokeWidth {
		t.Errorf("strokeWidth = %v, want default %v", line.StrokeWidth, DefaultStrokeWidth)
	}
	if line.Dash != DashSolid {
		t.Errorf("dash = %q, want solid", line.Dash)
	}
	if line.Color != FallbackColor {
		t.Errorf("color = %q, want fallback", line.Color)
	}
	if line.Points[0].X != 0 || line.Points[1].X != 100 {
		t.Errorf("points not clamped: %+v", line.Points)
	}
}

func TestValidateRoundTripIsStable(t *testing.T) {
	raw := `[{"id":"line-a","label":"Bus","description":"d","color":"amber","strokeWidth":1.2,"dashStyle":"dashed","points":[{"x":10,"y":20},{"x":30,"y":40}]}]`
	first, err := ValidatePolylines([]byte(raw))
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}

	data, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := ValidatePolylines(data)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("round trip changed data:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
