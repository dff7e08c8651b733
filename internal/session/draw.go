package session

import (
	"diagram-annotator/internal/annotation"
	"diagram-annotator/internal/store"
	"diagram-annotator/pkg/geometry"
)

// Draw accumulates points for one polyline across a sequence of discrete
// clicks. The drawing state names a specific polyline in the store; the
// preview point tracks the pointer between clicks and is never committed.
type Draw struct {
	store    *store.Store
	scope    store.Scope
	targetID string
	preview  *geometry.Point2D
}

// NewDraw creates an idle drawing session over one polyline collection.
// Deleting the target polyline from the store (single delete or clear-all)
// forces the session back to idle.
func NewDraw(st *store.Store, scope store.Scope) *Draw {
	d := &Draw{store: st, scope: scope}
	st.On(store.EventGuideDeleted, func(data interface{}) {
		if id := store.DeletedGuideID(data, scope); id != "" && id == d.targetID {
			d.Finish()
		}
	})
	return d
}

// Start creates a new empty polyline, marks it active in the store, and
// begins drawing into it. Returns false while a drawing is already in
// progress.
func (d *Draw) Start() (annotation.Polyline, bool) {
	if d.targetID != "" {
		return annotation.Polyline{}, false
	}
	line := d.store.AddGuide(d.scope)
	d.targetID = line.ID
	return line, true
}

// AddPoint commits one point to the target polyline. Points are
// append-only. Returns false while idle.
func (d *Draw) AddPoint(pt geometry.Point2D) bool {
	if d.targetID == "" {
		return false
	}
	return d.store.AppendGuidePoint(d.scope, d.targetID, pt)
}

// SetPreview records the pointer position for the next-point indicator.
// The preview is render-only and never enters the committed points.
func (d *Draw) SetPreview(pt geometry.Point2D) {
	if d.targetID == "" {
		return
	}
	p := pt.ClampPercent()
	d.preview = &p
}

// ClearPreview drops the preview point, e.g. when the pointer leaves the
// drawing surface.
func (d *Draw) ClearPreview() {
	d.preview = nil
}

// Preview returns the current preview point, if any.
func (d *Draw) Preview() (geometry.Point2D, bool) {
	if d.preview == nil {
		return geometry.Point2D{}, false
	}
	return *d.preview, true
}

// Finish returns the session to idle without discarding committed points.
// Zero- and one-point polylines are valid; they simply render no stroke.
// Finish is also the forced exit when edit mode ends or the target is
// deleted.
func (d *Draw) Finish() {
	d.targetID = ""
	d.preview = nil
}

// Drawing reports whether a polyline is currently receiving points.
func (d *Draw) Drawing() bool {
	return d.targetID != ""
}

// TargetID returns the id of the polyline being drawn, or "".
func (d *Draw) TargetID() string {
	return d.targetID
}
