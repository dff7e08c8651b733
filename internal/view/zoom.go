package view

import "math"

const (
	// MinScale and MaxScale bound the zoom factor.
	MinScale = 0.5
	MaxScale = 4.0
	// ScaleStep is the fixed change applied per wheel notch.
	ScaleStep = 0.1
)

// Zoom owns the bounded scale factor of the diagram container. Changing
// the scale only changes the rendered size; stored percentage coordinates
// are never rewritten.
type Zoom struct {
	scale float64
}

// NewZoom creates a zoom controller at scale 1.0.
func NewZoom() *Zoom {
	return &Zoom{scale: 1.0}
}

// Scale returns the current scale factor.
func (z *Zoom) Scale() float64 {
	return z.scale
}

// ApplyWheelDelta moves the scale one step in the direction opposite the
// wheel delta's sign (scroll up zooms in), clamps to the bounds, and
// rounds to two decimal places. It returns the new scale.
func (z *Zoom) ApplyWheelDelta(deltaY float64) float64 {
	switch {
	case deltaY < 0:
		z.scale += ScaleStep
	case deltaY > 0:
		z.scale -= ScaleStep
	}
	if z.scale < MinScale {
		z.scale = MinScale
	}
	if z.scale > MaxScale {
		z.scale = MaxScale
	}
	z.scale = math.Round(z.scale*100) / 100
	return z.scale
}

// Reset restores the scale to 1.0, the only way to set it directly.
func (z *Zoom) Reset() {
	z.scale = 1.0
}
