// Package session implements the short-lived pointer interaction state
// machines: segment dragging and polyline drawing. Sessions interpret
// already-normalized pointer coordinates and apply mutations through the
// annotation store; they hold no geometry of their own beyond the grab
// offset and the render-only preview point.
package session

import (
	"diagram-annotator/internal/store"
	"diagram-annotator/pkg/geometry"
)

// Drag repositions one segment's top-left anchor while a pointer button
// is held. At most one drag is in flight; a pointer-down during an active
// drag is ignored until the session returns to idle.
type Drag struct {
	store    *store.Store
	segID    string
	grab     geometry.Point2D
	dragging bool
}

// NewDrag creates an idle drag session over the store.
func NewDrag(st *store.Store) *Drag {
	return &Drag{store: st}
}

// Begin starts dragging the segment under the pointer. The grab offset
// between the pointer and the segment's current anchor is captured once,
// so the box does not jump to center under the pointer. Returns false if
// a drag is already in flight or the segment is unknown.
func (d *Drag) Begin(segID string, pointer geometry.Point2D) bool {
	if d.dragging {
		return false
	}
	seg, ok := d.store.Segment(segID)
	if !ok {
		return false
	}
	d.segID = segID
	d.grab = pointer.Sub(geometry.Point2D{X: seg.Left, Y: seg.Top})
	d.dragging = true
	return true
}

// Move repositions the segment to the pointer position minus the grab
// offset. The store clamps both axes and marks the segment selected.
func (d *Drag) Move(pointer geometry.Point2D) {
	if !d.dragging {
		return
	}
	d.store.MoveSegment(d.segID, pointer.Sub(d.grab))
}

// End finishes the drag. The last applied position is final; there is no
// rollback. End is safe to call from release, pointer-leave, and window
// blur alike.
func (d *Drag) End() {
	d.dragging = false
	d.segID = ""
}

// Active reports whether a drag is in flight.
func (d *Drag) Active() bool {
	return d.dragging
}

// SegmentID returns the id of the segment being dragged, or "".
func (d *Drag) SegmentID() string {
	if !d.dragging {
		return ""
	}
	return d.segID
}
