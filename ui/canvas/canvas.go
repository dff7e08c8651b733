// Package canvas provides the annotation canvas with pan, zoom, segment
// dragging, and polyline drawing over a raster diagram.
package canvas

import (
	"image"

	"diagram-annotator/internal/app"
	"diagram-annotator/internal/store"
	"diagram-annotator/internal/view"
	"diagram-annotator/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// AnnotationCanvas displays the diagram image with the segment and guide
// overlays. All annotation coordinates are percentages of the diagram
// size; the canvas converts pointer positions through a surface mapper
// before handing them to the interaction sessions.
type AnnotationCanvas struct {
	widget.BaseWidget

	state  *app.State
	mapper *view.SurfaceMapper

	raster  *fynecanvas.Raster
	scroll  *zoomScroll
	content *draggableContent
	imgSize fyne.Size
}

// NewAnnotationCanvas creates a canvas bound to the application state.
// The canvas refreshes itself on store and zoom events.
func NewAnnotationCanvas(state *app.State) *AnnotationCanvas {
	ac := &AnnotationCanvas{
		state:   state,
		mapper:  view.NewSurfaceMapper(),
		imgSize: fyne.NewSize(400, 300),
	}

	ac.raster = fynecanvas.NewRaster(ac.draw)
	ac.raster.ScaleMode = fynecanvas.ImageScalePixels
	ac.raster.SetMinSize(ac.imgSize)

	ac.content = newDraggableContent(ac, ac.raster)
	ac.scroll = newZoomScroll(ac.content, ac)

	refresh := func(interface{}) { ac.Refresh() }
	state.Store.On(store.EventSegmentsChanged, refresh)
	state.Store.On(store.EventSegmentSelected, refresh)
	state.Store.On(store.EventGuidesChanged, refresh)
	state.Store.On(store.EventActiveGuideChanged, refresh)
	state.Store.On(store.EventReset, refresh)
	state.On(app.EventZoomChanged, func(interface{}) {
		ac.updateContentSize()
	})
	state.On(app.EventDiagramLoaded, func(interface{}) {
		ac.updateContentSize()
	})
	state.On(app.EventModeChanged, refresh)

	ac.ExtendBaseWidget(ac)
	return ac
}

// Container returns the canvas container for embedding in layouts.
func (ac *AnnotationCanvas) Container() fyne.CanvasObject {
	return ac.scroll
}

// Refresh refreshes the canvas display.
func (ac *AnnotationCanvas) Refresh() {
	ac.raster.Refresh()
}

// diagramSize returns the pixel size of the loaded diagram, or a
// placeholder size when no diagram is loaded.
func (ac *AnnotationCanvas) diagramSize() (int, int) {
	layer := ac.state.Diagram
	if layer == nil || layer.Image == nil {
		return 400, 300
	}
	return layer.Width(), layer.Height()
}

// updateContentSize recomputes the display size from the diagram size and
// the current zoom scale, and re-measures the pointer mapper.
func (ac *AnnotationCanvas) updateContentSize() {
	w, h := ac.diagramSize()
	scale := ac.state.Zoom.Scale()
	dispW := float64(w) * scale
	dispH := float64(h) * scale

	ac.imgSize = fyne.NewSize(float32(dispW), float32(dispH))
	ac.mapper.SetSurface(0, 0, dispW, dispH)

	ac.raster.SetMinSize(ac.imgSize)
	ac.raster.Resize(ac.imgSize)
	if ac.content != nil {
		ac.content.Resize(ac.imgSize)
		ac.content.Refresh()
	}
	ac.raster.Refresh()
	if ac.scroll != nil {
		ac.scroll.Refresh()
	}
}

// pointerToPercent converts a viewport position to percent coordinates.
func (ac *AnnotationCanvas) pointerToPercent(pos fyne.Position) (geometry.Point2D, bool) {
	offset := ac.scroll.Offset()
	return ac.mapper.ToNormalized(float64(pos.X+offset.X), float64(pos.Y+offset.Y))
}

// zoomScroll wraps a scroll container but intercepts the wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *AnnotationCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *AnnotationCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

// Scrolled routes the wheel to the zoom controller. Fyne reports scroll-up
// as a positive DY while the zoom controller follows the wheel convention
// of negative deltas zooming in, so the sign flips here.
func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	zs.canvas.state.ApplyWheel(float64(-ev.Scrolled.DY))
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// Offset returns the scroll container's current offset.
func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

// Size returns the scroll container's size.
func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

// Refresh refreshes the scroll container.
func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

// Resize sets the size of the scroll container.
func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// draggableContent wraps the raster to handle mouse events.
type draggableContent struct {
	widget.BaseWidget
	canvas *AnnotationCanvas
	raster *fynecanvas.Raster
}

func newDraggableContent(ac *AnnotationCanvas, raster *fynecanvas.Raster) *draggableContent {
	dc := &draggableContent{
		canvas: ac,
		raster: raster,
	}
	dc.ExtendBaseWidget(dc)
	return dc
}

func (dc *draggableContent) CreateRenderer() fyne.WidgetRenderer {
	return &draggableContentRenderer{content: dc}
}

func (dc *draggableContent) MinSize() fyne.Size {
	return dc.raster.MinSize()
}

// Tapped handles left-click events. In edit mode a click extends the
// active drawing session or selects a segment; in view mode a click on a
// segment activates its detail view.
func (dc *draggableContent) Tapped(ev *fyne.PointEvent) {
	// Workaround for Fyne bug: reject clicks outside widget bounds
	size := dc.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}

	st := dc.canvas.state
	p, ok := dc.canvas.pointerToPercent(ev.Position)
	if !ok {
		return
	}

	if st.Mode() == app.ModeEdit {
		if st.Draw.Drawing() {
			st.Draw.AddPoint(p)
			return
		}
		if seg := dc.canvas.segmentAt(p); seg != "" {
			st.Store.SelectSegment(seg)
		}
		return
	}

	if seg := dc.canvas.segmentAt(p); seg != "" {
		st.ActivateSegment(seg)
	}
}

// TappedSecondary finishes the active drawing session.
func (dc *draggableContent) TappedSecondary(ev *fyne.PointEvent) {
	st := dc.canvas.state
	if st.Mode() == app.ModeEdit && st.Draw.Drawing() {
		st.Draw.Finish()
	}
}

// Dragged repositions the segment under the pointer in edit mode.
func (dc *draggableContent) Dragged(ev *fyne.DragEvent) {
	st := dc.canvas.state
	if st.Mode() != app.ModeEdit || st.Draw.Drawing() {
		return
	}

	if !st.Drag.Active() {
		start := fyne.Position{
			X: ev.Position.X - ev.Dragged.DX,
			Y: ev.Position.Y - ev.Dragged.DY,
		}
		p, ok := dc.canvas.pointerToPercent(start)
		if !ok {
			return
		}
		seg := dc.canvas.segmentAt(p)
		if seg == "" {
			return
		}
		st.Drag.Begin(seg, p)
	}

	p, ok := dc.canvas.pointerToPercent(ev.Position)
	if !ok {
		return
	}
	st.Drag.Move(p)
}

// DragEnd commits the drag at the last reported position.
func (dc *draggableContent) DragEnd() {
	dc.canvas.state.Drag.End()
}

// MouseIn implements desktop.Hoverable.
func (dc *draggableContent) MouseIn(ev *desktop.MouseEvent) {}

// MouseMoved updates the drawing preview point.
func (dc *draggableContent) MouseMoved(ev *desktop.MouseEvent) {
	st := dc.canvas.state
	if !st.Draw.Drawing() {
		return
	}
	if p, ok := dc.canvas.pointerToPercent(ev.Position); ok {
		st.Draw.SetPreview(p)
		dc.canvas.Refresh()
	}
}

// MouseOut clears the preview and ends any in-flight drag at its last
// position.
func (dc *draggableContent) MouseOut() {
	st := dc.canvas.state
	if st.Draw.Drawing() {
		st.Draw.ClearPreview()
		dc.canvas.Refresh()
	}
	if st.Drag.Active() {
		st.Drag.End()
	}
}

// segmentAt returns the topmost segment containing the percent point.
func (ac *AnnotationCanvas) segmentAt(p geometry.Point2D) string {
	segs := ac.state.Store.Segments()
	for i := len(segs) - 1; i >= 0; i-- {
		if segs[i].HitTest(p) {
			return segs[i].ID
		}
	}
	return ""
}

type draggableContentRenderer struct {
	content *draggableContent
}

func (r *draggableContentRenderer) Layout(size fyne.Size) {
	r.content.raster.Resize(size)
}

func (r *draggableContentRenderer) MinSize() fyne.Size {
	return r.content.raster.MinSize()
}

func (r *draggableContentRenderer) Refresh() {
	r.content.raster.Refresh()
}

func (r *draggableContentRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.content.raster}
}

func (r *draggableContentRenderer) Destroy() {}

// CreateRenderer implements fyne.Widget.
func (ac *AnnotationCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &annotationCanvasRenderer{canvas: ac}
}

type annotationCanvasRenderer struct {
	canvas *AnnotationCanvas
}

func (r *annotationCanvasRenderer) Layout(size fyne.Size) {
	if r.canvas.scroll != nil {
		r.canvas.scroll.Resize(size)
	}
}

func (r *annotationCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *annotationCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *annotationCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.scroll}
}

func (r *annotationCanvasRenderer) Destroy() {}

// draw is the raster drawing function: the diagram layer scaled by the
// zoom factor, then the segment and guide overlays.
func (ac *AnnotationCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))

	// Dark background behind the diagram
	for i := 0; i < len(output.Pix); i += 4 {
		output.Pix[i] = 0x1e
		output.Pix[i+1] = 0x1e
		output.Pix[i+2] = 0x22
		output.Pix[i+3] = 255
	}

	scale := ac.state.Zoom.Scale()
	imgW, imgH := ac.diagramSize()
	dispW := float64(imgW) * scale
	dispH := float64(imgH) * scale

	ac.compositeDiagram(output, w, h, scale)
	ac.drawSegments(output, dispW, dispH, scale)
	ac.drawGuides(output, dispW, dispH)

	return output
}

// compositeDiagram draws the diagram layer scaled by the zoom factor.
func (ac *AnnotationCanvas) compositeDiagram(output *image.RGBA, w, h int, scale float64) {
	layer := ac.state.Diagram
	if layer == nil || layer.Image == nil || !layer.Visible {
		return
	}

	src := layer.Image
	srcBounds := src.Bounds()

	for y := 0; y < h; y++ {
		srcY := int(float64(y)/scale) + srcBounds.Min.Y
		if srcY < srcBounds.Min.Y || srcY >= srcBounds.Max.Y {
			continue
		}
		for x := 0; x < w; x++ {
			srcX := int(float64(x)/scale) + srcBounds.Min.X
			if srcX < srcBounds.Min.X || srcX >= srcBounds.Max.X {
				continue
			}
			output.Set(x, y, src.At(srcX, srcY))
		}
	}
}

// drawSegments renders the segment rectangles with a translucent fill, an
// outline, and the segment code label. The selected segment gets a
// brighter fill.
func (ac *AnnotationCanvas) drawSegments(output *image.RGBA, dispW, dispH, scale float64) {
	selected := ac.state.Store.SelectedSegment()

	labelScale := int(scale * 2)
	if labelScale < 1 {
		labelScale = 1
	}

	for _, seg := range ac.state.Store.Segments() {
		col := rgbaFor(seg.Color)
		x1 := int(seg.Left / 100 * dispW)
		y1 := int(seg.Top / 100 * dispH)
		x2 := int((seg.Left + seg.Width) / 100 * dispW)
		y2 := int((seg.Top + seg.Height) / 100 * dispH)

		opacity := 0.2
		if seg.ID == selected {
			opacity = 0.4
		}
		fillRectTint(output, x1, y1, x2, y2, col, opacity)
		drawRectOutline(output, x1, y1, x2, y2, col)
		drawLabel(output, seg.Code, (x1+x2)/2, (y1+y2)/2, col, labelScale)
	}
}

// drawGuides renders the primary-scope polylines with their dash styles
// and vertex markers, plus the dotted preview segment of an active
// drawing session.
func (ac *AnnotationCanvas) drawGuides(output *image.RGBA, dispW, dispH float64) {
	renderPolylines(output, ac.state.Store.Guides(store.ScopePrimary), dispW, dispH)
	renderDrawPreview(output, ac.state.Store, ac.state.Draw, store.ScopePrimary, dispW, dispH)
}
