// Package panels provides UI panels for the application.
package panels

import (
	"fmt"
	"strconv"

	"diagram-annotator/internal/annotation"
	"diagram-annotator/internal/app"
	"diagram-annotator/internal/store"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

var colorNames = []string{
	string(annotation.ColorCyan),
	string(annotation.ColorEmerald),
	string(annotation.ColorAmber),
}

var dashNames = []string{
	string(annotation.DashSolid),
	string(annotation.DashDashed),
	string(annotation.DashDotted),
}

// SidePanel provides the main side panel with tabbed sections.
type SidePanel struct {
	state     *app.State
	container *container.AppTabs

	segmentsPanel *SegmentsPanel
	guidesPanel   *GuidesPanel
}

// NewSidePanel creates a new side panel.
func NewSidePanel(state *app.State) *SidePanel {
	sp := &SidePanel{state: state}

	sp.segmentsPanel = NewSegmentsPanel(state)
	sp.guidesPanel = NewGuidesPanel(state)

	sp.container = container.NewAppTabs(
		container.NewTabItem("Segments", sp.segmentsPanel.Container()),
		container.NewTabItem("Guides", sp.guidesPanel.Container()),
	)

	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// Segments returns the segments tab panel.
func (sp *SidePanel) Segments() *SegmentsPanel {
	return sp.segmentsPanel
}

// Guides returns the guides tab panel.
func (sp *SidePanel) Guides() *GuidesPanel {
	return sp.guidesPanel
}

// SegmentsPanel lists the segments and edits the selected one.
type SegmentsPanel struct {
	state     *app.State
	container fyne.CanvasObject

	list         *widget.List
	codeEntry    *widget.Entry
	titleEntry   *widget.Entry
	detailsEntry *widget.Entry
	colorSelect  *widget.Select

	// Import/export actions are wired by the main window, which owns the
	// dialogs and the exporter.
	OnImport func()
	OnExport func()

	updating bool
}

// NewSegmentsPanel creates the segments tab.
func NewSegmentsPanel(state *app.State) *SegmentsPanel {
	sp := &SegmentsPanel{state: state}

	sp.list = widget.NewList(
		func() int { return len(state.Store.Segments()) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			segs := state.Store.Segments()
			if id < 0 || id >= len(segs) {
				return
			}
			seg := segs[id]
			obj.(*widget.Label).SetText(fmt.Sprintf("%s  %s", seg.Code, seg.Title))
		},
	)
	sp.list.OnSelected = func(id widget.ListItemID) {
		segs := state.Store.Segments()
		if id >= 0 && id < len(segs) {
			state.Store.SelectSegment(segs[id].ID)
		}
	}

	sp.codeEntry = widget.NewEntry()
	sp.titleEntry = widget.NewEntry()
	sp.detailsEntry = widget.NewMultiLineEntry()
	sp.detailsEntry.Wrapping = fyne.TextWrapWord
	sp.colorSelect = widget.NewSelect(colorNames, nil)

	sp.codeEntry.OnChanged = func(s string) { sp.applyPatch(annotation.SegmentPatch{Code: &s}) }
	sp.titleEntry.OnChanged = func(s string) { sp.applyPatch(annotation.SegmentPatch{Title: &s}) }
	sp.detailsEntry.OnChanged = func(s string) { sp.applyPatch(annotation.SegmentPatch{Details: &s}) }
	sp.colorSelect.OnChanged = func(s string) {
		sp.applyPatch(annotation.SegmentPatch{Color: &s})
	}

	addButton := widget.NewButton("Add Segment", func() {
		state.Store.AddSegment()
	})
	deleteButton := widget.NewButton("Delete", func() {
		if id := state.Store.SelectedSegment(); id != "" {
			state.Store.DeleteSegment(id)
		}
	})
	importButton := widget.NewButton("Import...", func() {
		if sp.OnImport != nil {
			sp.OnImport()
		}
	})
	exportButton := widget.NewButton("Export", func() {
		if sp.OnExport != nil {
			sp.OnExport()
		}
	})

	form := widget.NewForm(
		widget.NewFormItem("Code", sp.codeEntry),
		widget.NewFormItem("Title", sp.titleEntry),
		widget.NewFormItem("Details", sp.detailsEntry),
		widget.NewFormItem("Color", sp.colorSelect),
	)

	buttons := container.NewGridWithColumns(2, addButton, deleteButton, importButton, exportButton)
	sp.container = container.NewBorder(nil, container.NewVBox(form, buttons), nil, nil, sp.list)

	state.Store.On(store.EventSegmentsChanged, func(interface{}) { sp.Reload() })
	state.Store.On(store.EventSegmentSelected, func(interface{}) { sp.Reload() })
	state.Store.On(store.EventReset, func(interface{}) { sp.Reload() })

	return sp
}

// Container returns the tab content.
func (sp *SegmentsPanel) Container() fyne.CanvasObject {
	return sp.container
}

// Reload refreshes the list and form from the store.
func (sp *SegmentsPanel) Reload() {
	sp.list.Refresh()

	seg, found := sp.state.Store.Segment(sp.state.Store.SelectedSegment())
	sp.updating = true
	if !found {
		sp.codeEntry.SetText("")
		sp.titleEntry.SetText("")
		sp.detailsEntry.SetText("")
		sp.colorSelect.ClearSelected()
	} else {
		sp.codeEntry.SetText(seg.Code)
		sp.titleEntry.SetText(seg.Title)
		sp.detailsEntry.SetText(seg.Details)
		sp.colorSelect.SetSelected(string(seg.Color))
	}
	sp.updating = false
}

// applyPatch pushes a form edit into the store. Reload-triggered SetText
// calls are suppressed so refreshing the form does not loop back into the
// store.
func (sp *SegmentsPanel) applyPatch(patch annotation.SegmentPatch) {
	if sp.updating {
		return
	}
	if id := sp.state.Store.SelectedSegment(); id != "" {
		sp.state.Store.UpdateSegment(id, patch)
	}
}

// GuidesPanel lists the polyline guides and controls the drawing session.
type GuidesPanel struct {
	state     *app.State
	container fyne.CanvasObject

	list        *widget.List
	labelEntry  *widget.Entry
	colorSelect *widget.Select
	dashSelect  *widget.Select
	widthEntry  *widget.Entry
	drawButton  *widget.Button

	updating bool
}

// NewGuidesPanel creates the guides tab.
func NewGuidesPanel(state *app.State) *GuidesPanel {
	gp := &GuidesPanel{state: state}

	gp.list = widget.NewList(
		func() int { return len(state.Store.Guides(store.ScopePrimary)) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			lines := state.Store.Guides(store.ScopePrimary)
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
	gp.list.OnSelected = func(id widget.ListItemID) {
		lines := state.Store.Guides(store.ScopePrimary)
		if id >= 0 && id < len(lines) {
			state.Store.SetActiveGuide(store.ScopePrimary, lines[id].ID)
		}
	}

	gp.labelEntry = widget.NewEntry()
	gp.colorSelect = widget.NewSelect(colorNames, nil)
	gp.dashSelect = widget.NewSelect(dashNames, nil)
	gp.widthEntry = widget.NewEntry()

	gp.labelEntry.OnChanged = func(s string) { gp.applyPatch(annotation.PolylinePatch{Label: &s}) }
	gp.colorSelect.OnChanged = func(s string) {
		gp.applyPatch(annotation.PolylinePatch{Color: &s})
	}
	gp.dashSelect.OnChanged = func(s string) {
		gp.applyPatch(annotation.PolylinePatch{Dash: &s})
	}
	gp.widthEntry.OnChanged = func(s string) {
		w, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return
		}
		gp.applyPatch(annotation.PolylinePatch{StrokeWidth: &w})
	}

	gp.drawButton = widget.NewButton("Start Drawing", func() { gp.toggleDrawing() })
	deleteButton := widget.NewButton("Delete", func() {
		if id := state.Store.ActiveGuide(store.ScopePrimary); id != "" {
			state.Store.DeleteGuide(store.ScopePrimary, id)
		}
	})
	clearButton := widget.NewButton("Clear All", func() {
		state.Store.ClearGuides(store.ScopePrimary)
	})

	form := widget.NewForm(
		widget.NewFormItem("Label", gp.labelEntry),
		widget.NewFormItem("Color", gp.colorSelect),
		widget.NewFormItem("Dash", gp.dashSelect),
		widget.NewFormItem("Width", gp.widthEntry),
	)

	buttons := container.NewVBox(gp.drawButton, container.NewGridWithColumns(2, deleteButton, clearButton))
	gp.container = container.NewBorder(nil, container.NewVBox(form, buttons), nil, nil, gp.list)

	state.Store.On(store.EventGuidesChanged, func(interface{}) { gp.Reload() })
	state.Store.On(store.EventActiveGuideChanged, func(interface{}) { gp.Reload() })
	state.Store.On(store.EventReset, func(interface{}) { gp.Reload() })
	state.On(app.EventModeChanged, func(interface{}) { gp.updateDrawButton() })

	return gp
}

// Container returns the tab content.
func (gp *GuidesPanel) Container() fyne.CanvasObject {
	return gp.container
}

// Reload refreshes the list and form from the store.
func (gp *GuidesPanel) Reload() {
	gp.list.Refresh()
	gp.updateDrawButton()

	line, found := gp.state.Store.Guide(store.ScopePrimary, gp.state.Store.ActiveGuide(store.ScopePrimary))
	gp.updating = true
	if !found {
		gp.labelEntry.SetText("")
		gp.colorSelect.ClearSelected()
		gp.dashSelect.ClearSelected()
		gp.widthEntry.SetText("")
	} else {
		gp.labelEntry.SetText(line.Label)
		gp.colorSelect.SetSelected(string(line.Color))
		gp.dashSelect.SetSelected(string(line.Dash))
		gp.widthEntry.SetText(strconv.FormatFloat(line.StrokeWidth, 'f', -1, 64))
	}
	gp.updating = false
}

func (gp *GuidesPanel) applyPatch(patch annotation.PolylinePatch) {
	if gp.updating {
		return
	}
	if id := gp.state.Store.ActiveGuide(store.ScopePrimary); id != "" {
		gp.state.Store.UpdateGuide(store.ScopePrimary, id, patch)
	}
}

// toggleDrawing starts a new drawing session, or finishes the current one.
// Drawing requires edit mode.
func (gp *GuidesPanel) toggleDrawing() {
	st := gp.state
	if st.Draw.Drawing() {
		st.Draw.Finish()
	} else {
		if st.Mode() != app.ModeEdit {
			st.SetMode(app.ModeEdit)
		}
		if line, ok := st.Draw.Start(); ok {
			label := fmt.Sprintf("Guide %d", len(st.Store.Guides(store.ScopePrimary)))
			st.Store.UpdateGuide(store.ScopePrimary, line.ID, annotation.PolylinePatch{Label: &label})
		}
	}
	gp.updateDrawButton()
}

func (gp *GuidesPanel) updateDrawButton() {
	if gp.state.Draw.Drawing() {
		gp.drawButton.SetText("Finish Drawing")
	} else {
		gp.drawButton.SetText("Start Drawing")
	}
}
