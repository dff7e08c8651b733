// Package view converts between pointer/screen space and the normalized
// annotation space, and owns the bounded zoom scale.
package view

import (
	"diagram-annotator/pkg/geometry"
)

// Mapper converts pointer coordinates to normalized annotation-space
// coordinates and back. Implementations are stateless given the surface's
// current transform.
type Mapper interface {
	// ToNormalized maps a pointer position to annotation space. The bool
	// is false only while the rendering surface has not been measured;
	// callers must ignore the event in that case. The result is clamped
	// to [0,100] on both axes no matter how far outside the surface the
	// pointer lies.
	ToNormalized(px, py float64) (geometry.Point2D, bool)

	// FromNormalized maps an annotation-space point back to pointer
	// coordinates. False while the surface is unmeasured.
	FromNormalized(p geometry.Point2D) (float64, float64, bool)
}

// SurfaceMapper maps through the rendered surface's affine transform: a
// translation to the surface origin composed with the scale from the
// 0..100 annotation range to the displayed pixel size. The displayed size
// already includes the zoom factor.
type SurfaceMapper struct {
	forward  geometry.AffineTransform
	inverse  geometry.AffineTransform
	measured bool
}

// NewSurfaceMapper creates a mapper with no measured surface. All
// conversions report false until SetSurface is called.
func NewSurfaceMapper() *SurfaceMapper {
	return &SurfaceMapper{}
}

// SetSurface records the displayed diagram bounds in pointer coordinates.
// A degenerate surface (zero width or height) marks the mapper unmeasured.
func (m *SurfaceMapper) SetSurface(offsetX, offsetY, width, height float64) {
	if width <= 0 || height <= 0 {
		m.measured = false
		return
	}
	forward := geometry.Translation(offsetX, offsetY).
		Compose(geometry.ScaleTransform(width/100, height/100))
	inverse, ok := forward.Inverse()
	if !ok {
		m.measured = false
		return
	}
	m.forward = forward
	m.inverse = inverse
	m.measured = true
}

// ToNormalized implements Mapper.
func (m *SurfaceMapper) ToNormalized(px, py float64) (geometry.Point2D, bool) {
	if !m.measured {
		return geometry.Point2D{}, false
	}
	p := m.inverse.Apply(geometry.Point2D{X: px, Y: py})
	return p.ClampPercent(), true
}

// FromNormalized implements Mapper.
func (m *SurfaceMapper) FromNormalized(p geometry.Point2D) (float64, float64, bool) {
	if !m.measured {
		return 0, 0, false
	}
	out := m.forward.Apply(p)
	return out.X, out.Y, true
}
