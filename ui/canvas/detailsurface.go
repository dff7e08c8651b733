package canvas

import (
	"image"

	"diagram-annotator/internal/app"
	"diagram-annotator/internal/store"
	"diagram-annotator/internal/view"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// DetailSurface is the drawing surface inside the segment detail dialog.
// It renders the detail-scope guides on a plain background and feeds
// taps and pointer moves to the detail drawing session. The surface maps
// its own bounds to the percent range, independent of the main canvas
// zoom.
type DetailSurface struct {
	widget.BaseWidget

	state  *app.State
	mapper *view.SurfaceMapper
	raster *fynecanvas.Raster
}

// NewDetailSurface creates a surface bound to the detail drawing session.
func NewDetailSurface(state *app.State) *DetailSurface {
	ds := &DetailSurface{
		state:  state,
		mapper: view.NewSurfaceMapper(),
	}
	ds.raster = fynecanvas.NewRaster(ds.draw)
	ds.raster.ScaleMode = fynecanvas.ImageScalePixels
	ds.raster.SetMinSize(fyne.NewSize(360, 200))
	ds.ExtendBaseWidget(ds)
	return ds
}

// CreateRenderer implements fyne.Widget.
func (ds *DetailSurface) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(ds.raster)
}

// Resize re-measures the pointer mapper against the new bounds.
func (ds *DetailSurface) Resize(size fyne.Size) {
	ds.BaseWidget.Resize(size)
	ds.mapper.SetSurface(0, 0, float64(size.Width), float64(size.Height))
}

// Refresh redraws the surface.
func (ds *DetailSurface) Refresh() {
	ds.raster.Refresh()
	ds.BaseWidget.Refresh()
}

// Tapped appends a point to the active detail drawing session. Taps are
// ignored outside edit mode and while no session is in progress.
func (ds *DetailSurface) Tapped(ev *fyne.PointEvent) {
	st := ds.state
	if st.Mode() != app.ModeEdit || !st.DetailDraw.Drawing() {
		return
	}
	if p, ok := ds.mapper.ToNormalized(float64(ev.Position.X), float64(ev.Position.Y)); ok {
		st.DetailDraw.AddPoint(p)
		ds.Refresh()
	}
}

// TappedSecondary finishes the active detail drawing session.
func (ds *DetailSurface) TappedSecondary(*fyne.PointEvent) {
	if ds.state.DetailDraw.Drawing() {
		ds.state.DetailDraw.Finish()
		ds.Refresh()
	}
}

// MouseIn implements desktop.Hoverable.
func (ds *DetailSurface) MouseIn(*desktop.MouseEvent) {}

// MouseMoved updates the drawing preview point.
func (ds *DetailSurface) MouseMoved(ev *desktop.MouseEvent) {
	st := ds.state
	if !st.DetailDraw.Drawing() {
		return
	}
	if p, ok := ds.mapper.ToNormalized(float64(ev.Position.X), float64(ev.Position.Y)); ok {
		st.DetailDraw.SetPreview(p)
		ds.Refresh()
	}
}

// MouseOut clears the preview point.
func (ds *DetailSurface) MouseOut() {
	if ds.state.DetailDraw.Drawing() {
		ds.state.DetailDraw.ClearPreview()
		ds.Refresh()
	}
}

// draw renders the detail guides and the drawing preview.
func (ds *DetailSurface) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))

	for i := 0; i < len(output.Pix); i += 4 {
		output.Pix[i] = 0x26
		output.Pix[i+1] = 0x26
		output.Pix[i+2] = 0x2b
		output.Pix[i+3] = 255
	}

	dispW, dispH := float64(w), float64(h)
	renderPolylines(output, ds.state.Store.Guides(store.ScopeDetail), dispW, dispH)
	renderDrawPreview(output, ds.state.Store, ds.state.DetailDraw, store.ScopeDetail, dispW, dispH)

	return output
}
