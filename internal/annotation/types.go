// Package annotation defines the segment and polyline annotation types,
// their defaulting rules, and validation of untrusted JSON input.
package annotation

import (
	"fmt"

	"github.com/google/uuid"

	"diagram-annotator/pkg/geometry"
)

// Color is the fixed palette annotations can be rendered in.
type Color string

const (
	ColorCyan    Color = "cyan"
	ColorEmerald Color = "emerald"
	ColorAmber   Color = "amber"
)

// FallbackColor is substituted for absent or unrecognized color values.
const FallbackColor = ColorCyan

// Valid reports whether c is a member of the palette.
func (c Color) Valid() bool {
	switch c {
	case ColorCyan, ColorEmerald, ColorAmber:
		return true
	}
	return false
}

// NormalizeColor maps an arbitrary string onto the palette, substituting
// the fallback for anything unrecognized.
func NormalizeColor(s string) Color {
	if c := Color(s); c.Valid() {
		return c
	}
	return FallbackColor
}

// DashStyle selects the stroke pattern for a polyline.
type DashStyle string

const (
	DashSolid  DashStyle = "solid"
	DashDashed DashStyle = "dashed"
	DashDotted DashStyle = "dotted"
)

// Valid reports whether d is a recognized dash style.
func (d DashStyle) Valid() bool {
	switch d {
	case DashSolid, DashDashed, DashDotted:
		return true
	}
	return false
}

// NormalizeDash maps an arbitrary string onto a dash style, substituting
// solid for anything unrecognized.
func NormalizeDash(s string) DashStyle {
	if d := DashStyle(s); d.Valid() {
		return d
	}
	return DashSolid
}

// DefaultStrokeWidth is used when a polyline carries no usable stroke width.
const DefaultStrokeWidth = 0.7

// Segment is a labelled rectangular hotspot over the diagram. All geometry
// is stored in percent of the diagram's intrinsic size; Top/Left anchor the
// top-left corner. Width/Height are clamped individually, so a box may
// overhang the right or bottom edge.
type Segment struct {
	ID      string  `json:"id"`
	Code    string  `json:"code"`
	Title   string  `json:"title"`
	Details string  `json:"details"`
	Top     float64 `json:"top"`
	Left    float64 `json:"left"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Color   Color   `json:"color"`
}

// NewSegment creates a segment with a fresh id, a placeholder code derived
// from the collection size, and default geometry near the diagram center.
func NewSegment(index int) *Segment {
	return &Segment{
		ID:     NewID("seg"),
		Code:   fmt.Sprintf("S%02d", index+1),
		Top:    40,
		Left:   40,
		Width:  20,
		Height: 12,
		Color:  FallbackColor,
	}
}

// ClampGeometry clamps the four geometry fields into [0,100].
func (s *Segment) ClampGeometry() {
	s.Top = geometry.ClampPercent(s.Top)
	s.Left = geometry.ClampPercent(s.Left)
	s.Width = geometry.ClampPercent(s.Width)
	s.Height = geometry.ClampPercent(s.Height)
}

// Bounds returns the segment rectangle in normalized coordinates.
func (s *Segment) Bounds() geometry.Rect {
	return geometry.NewRect(s.Left, s.Top, s.Width, s.Height)
}

// HitTest returns true if the normalized point lies within the segment.
func (s *Segment) HitTest(p geometry.Point2D) bool {
	return s.Bounds().Contains(p)
}

// Polyline is an ordered sequence of points forming a guide line. Point
// order is topology; fewer than two points renders no stroke.
type Polyline struct {
	ID          string             `json:"id"`
	Label       string             `json:"label"`
	Description string             `json:"description"`
	Color       Color              `json:"color"`
	StrokeWidth float64            `json:"strokeWidth"`
	Dash        DashStyle          `json:"dashStyle"`
	Points      []geometry.Point2D `json:"points"`
}

// NewPolyline creates an empty polyline with a fresh id and default style.
func NewPolyline() *Polyline {
	return &Polyline{
		ID:          NewID("line"),
		Color:       FallbackColor,
		StrokeWidth: DefaultStrokeWidth,
		Dash:        DashSolid,
		Points:      []geometry.Point2D{},
	}
}

// AppendPoint appends a clamped point to the line.
func (p *Polyline) AppendPoint(pt geometry.Point2D) {
	p.Points = append(p.Points, pt.ClampPercent())
}

// Length returns the total stroke length in normalized units.
func (p *Polyline) Length() float64 {
	return geometry.PolylineLength(p.Points)
}

// HitTest returns true if the normalized point lies within tolerance of
// the stroke.
func (p *Polyline) HitTest(pt geometry.Point2D, tolerance float64) bool {
	d := geometry.DistanceToPolyline(pt, p.Points)
	return d >= 0 && d <= tolerance
}

// SegmentPatch is a partial update of a segment. Nil fields are left alone.
type SegmentPatch struct {
	Code    *string
	Title   *string
	Details *string
	Top     *float64
	Left    *float64
	Width   *float64
	Height  *float64
	Color   *string
}

// Apply merges the patch into the segment, clamping geometry and replacing
// invalid colors with the fallback.
func (p SegmentPatch) Apply(s *Segment) {
	if p.Code != nil {
		s.Code = *p.Code
	}
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Details != nil {
		s.Details = *p.Details
	}
	if p.Top != nil {
		s.Top = *p.Top
	}
	if p.Left != nil {
		s.Left = *p.Left
	}
	if p.Width != nil {
		s.Width = *p.Width
	}
	if p.Height != nil {
		s.Height = *p.Height
	}
	if p.Color != nil {
		s.Color = NormalizeColor(*p.Color)
	}
	s.ClampGeometry()
}

// PolylinePatch is a partial update of a polyline's attributes. Points are
// never patched; they only grow through AppendPoint.
type PolylinePatch struct {
	Label       *string
	Description *string
	Color       *string
	StrokeWidth *float64
	Dash        *string
}

// Apply merges the patch into the polyline, substituting defaults for
// invalid enum or stroke values.
func (p PolylinePatch) Apply(l *Polyline) {
	if p.Label != nil {
		l.Label = *p.Label
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Color != nil {
		l.Color = NormalizeColor(*p.Color)
	}
	if p.StrokeWidth != nil {
		w := *p.StrokeWidth
		if w <= 0 || w != w {
			w = DefaultStrokeWidth
		}
		l.StrokeWidth = w
	}
	if p.Dash != nil {
		l.Dash = NormalizeDash(*p.Dash)
	}
}

// NewID generates a unique identifier with a short type prefix.
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}
