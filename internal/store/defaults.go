package store

import (
	"diagram-annotator/internal/annotation"
	"diagram-annotator/pkg/geometry"
)

// The named default dataset: a small annotated retro system board. It is
// used whenever a persisted snapshot is absent or fails validation, and by
// the explicit reset operation. Startup never leaves the user with an
// empty or broken state.

// DefaultSegments returns the default segment collection.
func DefaultSegments() []annotation.Segment {
	return []annotation.Segment{
		{
			ID:      "seg-default-cpu",
			Code:    "U1",
			Title:   "CPU",
			Details: "Central processor",
			Top:     12,
			Left:    8,
			Width:   22,
			Height:  18,
			Color:   annotation.ColorCyan,
		},
		{
			ID:      "seg-default-rom",
			Code:    "U2",
			Title:   "ROM",
			Details: "Boot firmware",
			Top:     12,
			Left:    38,
			Width:   16,
			Height:  12,
			Color:   annotation.ColorEmerald,
		},
		{
			ID:      "seg-default-ram",
			Code:    "U3",
			Title:   "RAM",
			Details: "Working memory bank",
			Top:     32,
			Left:    38,
			Width:   16,
			Height:  12,
			Color:   annotation.ColorAmber,
		},
		{
			ID:      "seg-default-io",
			Code:    "U4",
			Title:   "I/O Controller",
			Details: "Serial and parallel ports",
			Top:     58,
			Left:    12,
			Width:   20,
			Height:  14,
			Color:   annotation.ColorCyan,
		},
	}
}

// DefaultGuides returns the default primary polyline collection.
func DefaultGuides() []annotation.Polyline {
	return []annotation.Polyline{
		{
			ID:          "line-default-bus",
			Label:       "System bus",
			Description: "Address/data bus between CPU and memory",
			Color:       annotation.ColorAmber,
			StrokeWidth: annotation.DefaultStrokeWidth,
			Dash:        annotation.DashDashed,
			Points: []geometry.Point2D{
				{X: 30, Y: 20},
				{X: 38, Y: 20},
				{X: 38, Y: 38},
			},
		},
	}
}

// DefaultDetailGuides returns the default detail-scoped polyline
// collection, which starts empty.
func DefaultDetailGuides() []annotation.Polyline {
	return []annotation.Polyline{}
}
