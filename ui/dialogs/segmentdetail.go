// Package dialogs provides application dialogs.
package dialogs

import (
	"fmt"

	"diagram-annotator/internal/annotation"
	"diagram-annotator/internal/app"
	"diagram-annotator/internal/store"
	"diagram-annotator/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// SegmentDetailDialog shows a segment's description and the detail-level
// guide annotations that belong to the zoomed-in view of a segment,
// with its own surface for drawing detail guides.
type SegmentDetailDialog struct {
	state  *app.State
	window fyne.Window
	seg    annotation.Segment

	surface    *canvas.DetailSurface
	guideList  *widget.List
	drawButton *widget.Button

	unsubscribe func()
}

// NewSegmentDetailDialog creates a detail dialog for the given segment.
func NewSegmentDetailDialog(state *app.State, window fyne.Window, seg annotation.Segment) *SegmentDetailDialog {
	return &SegmentDetailDialog{
		state:  state,
		window: window,
		seg:    seg,
	}
}

// Show displays the dialog.
func (d *SegmentDetailDialog) Show() {
	content := d.createContent()

	d.unsubscribe = d.state.Store.On(store.EventGuidesChanged, func(interface{}) {
		d.guideList.Refresh()
		d.surface.Refresh()
	})

	dlg := dialog.NewCustom(
		fmt.Sprintf("%s  %s", d.seg.Code, d.seg.Title),
		"Close",
		content,
		d.window,
	)
	dlg.Resize(fyne.NewSize(460, 560))
	dlg.SetOnClosed(func() {
		// Leaving the detail view never keeps a dangling drawing session.
		d.state.DetailDraw.Finish()
		d.unsubscribe()
	})
	dlg.Show()
}

func (d *SegmentDetailDialog) createContent() fyne.CanvasObject {
	details := widget.NewLabel(d.seg.Details)
	details.Wrapping = fyne.TextWrapWord

	d.surface = canvas.NewDetailSurface(d.state)

	d.guideList = widget.NewList(
		func() int { return len(d.state.Store.Guides(store.ScopeDetail)) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			lines := d.state.Store.Guides(store.ScopeDetail)
			if id < 0 || id >= len(lines) {
				return
			}
			line := lines[id]
			label := line.Label
			if label == "" {
				label = line.ID
			}
			obj.(*widget.Label).SetText(fmt.Sprintf("%s (%d pts)", label, len(line.Points)))
		},
	)
	d.guideList.OnSelected = func(id widget.ListItemID) {
		lines := d.state.Store.Guides(store.ScopeDetail)
		if id >= 0 && id < len(lines) {
			d.state.Store.SetActiveGuide(store.ScopeDetail, lines[id].ID)
		}
	}

	d.drawButton = widget.NewButton("Start Drawing", func() { d.toggleDrawing() })
	deleteButton := widget.NewButton("Delete", func() {
		if id := d.state.Store.ActiveGuide(store.ScopeDetail); id != "" {
			d.state.Store.DeleteGuide(store.ScopeDetail, id)
		}
	})

	split := container.NewVSplit(d.surface, d.guideList)
	split.SetOffset(0.65)

	guides := container.NewBorder(
		widget.NewLabelWithStyle("Detail guides", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewGridWithColumns(2, d.drawButton, deleteButton),
		nil, nil,
		split,
	)

	return container.NewBorder(details, nil, nil, nil, guides)
}

// toggleDrawing starts a new detail drawing session, or finishes the
// current one. Starting requires edit mode, so the toggle switches the
// application into it first.
func (d *SegmentDetailDialog) toggleDrawing() {
	st := d.state
	if st.DetailDraw.Drawing() {
		st.DetailDraw.Finish()
		d.drawButton.SetText("Start Drawing")
		return
	}
	if st.Mode() != app.ModeEdit {
		st.SetMode(app.ModeEdit)
	}
	if _, ok := st.DetailDraw.Start(); ok {
		d.drawButton.SetText("Finish Drawing")
	}
}
