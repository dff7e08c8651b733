package annotation

import (
	"encoding/json"
	"fmt"

	"diagram-annotator/pkg/geometry"
)

// Validation converts untrusted JSON (pasted import text, persisted
// snapshots) into domain values. The policy is all-or-nothing: the input
// must be a JSON array, and every element must carry a non-empty string id.
// If any element fails that minimal requirement the whole input is
// rejected; nothing is partially applied. Every other field is defaulted
// or coerced individually.

type rawSegment struct {
	ID      string   `json:"id"`
	Code    *string  `json:"code"`
	Title   *string  `json:"title"`
	Details *string  `json:"details"`
	Top     *float64 `json:"top"`
	Left    *float64 `json:"left"`
	Width   *float64 `json:"width"`
	Height  *float64 `json:"height"`
	Color   *string  `json:"color"`
}

type rawPolyline struct {
	ID          string              `json:"id"`
	Label       *string             `json:"label"`
	Description *string             `json:"description"`
	Color       *string             `json:"color"`
	StrokeWidth *float64            `json:"strokeWidth"`
	Dash        *string             `json:"dashStyle"`
	Points      []geometry.Point2D  `json:"points"`
}

// ValidateSegments parses and validates a JSON array of segments.
// It returns nil and an error when the input is rejected.
func ValidateSegments(raw []byte) ([]Segment, error) {
	var in []rawSegment
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("segments must be a JSON array: %w", err)
	}
	if in == nil {
		return nil, fmt.Errorf("segments must be a JSON array, got null")
	}

	out := make([]Segment, len(in))
	for i, r := range in {
		if r.ID == "" {
			return nil, fmt.Errorf("segment %d: missing id", i)
		}
		s := Segment{
			ID:      r.ID,
			Code:    stringOr(r.Code, fmt.Sprintf("S%02d", i+1)),
			Title:   stringOr(r.Title, ""),
			Details: stringOr(r.Details, ""),
			Top:     geometry.ClampPercent(floatOr(r.Top, 0)),
			Left:    geometry.ClampPercent(floatOr(r.Left, 0)),
			Width:   geometry.ClampPercent(floatOr(r.Width, 0)),
			Height:  geometry.ClampPercent(floatOr(r.Height, 0)),
			Color:   NormalizeColor(stringOr(r.Color, "")),
		}
		out[i] = s
	}
	return out, nil
}

// ValidatePolylines parses and validates a JSON array of polylines, with
// the same all-or-nothing policy as ValidateSegments.
func ValidatePolylines(raw []byte) ([]Polyline, error) {
	var in []rawPolyline
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("polylines must be a JSON array: %w", err)
	}
	if in == nil {
		return nil, fmt.Errorf("polylines must be a JSON array, got null")
	}

	out := make([]Polyline, len(in))
	for i, r := range in {
		if r.ID == "" {
			return nil, fmt.Errorf("polyline %d: missing id", i)
		}
		width := floatOr(r.StrokeWidth, DefaultStrokeWidth)
		if width <= 0 || width != width {
			width = DefaultStrokeWidth
		}
		points := make([]geometry.Point2D, len(r.Points))
		for j, pt := range r.Points {
			points[j] = pt.ClampPercent()
		}
		out[i] = Polyline{
			ID:          r.ID,
			Label:       stringOr(r.Label, ""),
			Description: stringOr(r.Description, ""),
			Color:       NormalizeColor(stringOr(r.Color, "")),
			StrokeWidth: width,
			Dash:        NormalizeDash(stringOr(r.Dash, "")),
			Points:      points,
		}
	}
	return out, nil
}

func stringOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func floatOr(f *float64, fallback float64) float64 {
	if f == nil {
		return fallback
	}
	return *f
}
