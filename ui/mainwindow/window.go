// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"diagram-annotator/internal/api"
	"diagram-annotator/internal/app"
	"diagram-annotator/internal/export"
	"diagram-annotator/internal/store"
	"diagram-annotator/internal/version"
	"diagram-annotator/ui/canvas"
	"diagram-annotator/ui/dialogs"
	"diagram-annotator/ui/panels"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
)

// fyneClipboard adapts the fyne clipboard to the exporter interface.
type fyneClipboard struct {
	clip fyne.Clipboard
}

func (c *fyneClipboard) SetContent(content string) error {
	c.clip.SetContent(content)
	return nil
}

const (
	prefKeyLastDir     = "lastDirectory"
	prefKeyLastDiagram = "lastDiagram"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	canvas    *canvas.AnnotationCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label

	exporter  *export.Exporter
	apiClient *api.Client
	project   string

	// Menu items that need state tracking
	editModeItem *fyne.MenuItem
}

// New creates a new main window. The exporter is built here because the
// clipboard belongs to the window.
func New(fyneApp fyne.App, state *app.State, apiClient *api.Client, project, exportDir string, logger zerolog.Logger) *MainWindow {
	win := fyneApp.NewWindow("Diagram Annotator")

	mw := &MainWindow{
		Window:    win,
		app:       fyneApp,
		state:     state,
		apiClient: apiClient,
		project:   project,
	}
	mw.exporter = export.New(&fyneClipboard{clip: win.Clipboard()}, exportDir, logger)

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewAnnotationCanvas(mw.state)

	mw.sidePanel = panels.NewSidePanel(mw.state)
	mw.sidePanel.Segments().OnImport = mw.onImportAnnotations
	mw.sidePanel.Segments().OnExport = mw.onExportAnnotations

	mw.statusBar = widget.NewLabel("Ready")

	toolbar := mw.createToolbar()

	mw.restoreLastDiagram()

	canvasArea := container.NewBorder(
		toolbar,
		nil,
		nil,
		nil,
		mw.canvas.Container(),
	)

	split := container.NewHSplit(
		mw.sidePanel.Container(),
		canvasArea,
	)
	split.SetOffset(0.25)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil,
		nil,
		split,
	)

	mw.SetContent(content)
}

// createToolbar creates the toolbar with zoom and mode controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	zoomOutBtn := widget.NewButton("-", mw.onZoomOut)
	zoomInBtn := widget.NewButton("+", mw.onZoomIn)
	actualBtn := widget.NewButton("1:1", mw.onActualSize)
	modeBtn := widget.NewButton("Edit Mode", mw.onToggleEditMode)

	return container.NewHBox(
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		actualBtn,
		widget.NewSeparator(),
		modeBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Project", mw.onNewProject),
		fyne.NewMenuItem("Open Project...", mw.onOpenProject),
		fyne.NewMenuItem("Open Diagram...", mw.onOpenDiagram),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Project", mw.onSaveProject),
		fyne.NewMenuItem("Save Project As...", mw.onSaveProjectAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Annotations...", mw.onImportAnnotations),
		fyne.NewMenuItem("Export Annotations", mw.onExportAnnotations),
		fyne.NewMenuItem("Export SVG...", mw.onExportSVG),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Sync to Server", mw.onSyncToServer),
		fyne.NewMenuItem("Reset to Defaults", mw.onResetDefaults),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	mw.editModeItem = fyne.NewMenuItem("  Edit Mode", mw.onToggleEditMode)

	editMenu := fyne.NewMenu("Edit",
		mw.editModeItem,
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mainMenu := fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu)
	mw.SetMainMenu(mainMenu)
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventProjectLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("Diagram Annotator - " + filepath.Base(path))
			mw.updateStatus("Project loaded: " + path)
		}
	})

	mw.state.On(app.EventDiagramLoaded, func(data interface{}) {
		mw.canvas.Refresh()
		mw.updateStatus("Diagram loaded")
	})

	mw.state.On(app.EventModeChanged, func(data interface{}) {
		mode, ok := data.(app.Mode)
		if !ok {
			return
		}
		if mode == app.ModeEdit {
			mw.editModeItem.Label = "✓ Edit Mode"
			mw.updateStatus("Edit mode: drag segments, click to draw guides")
		} else {
			mw.editModeItem.Label = "  Edit Mode"
			mw.updateStatus("View mode: click a segment for details")
		}
	})

	mw.state.On(app.EventZoomChanged, func(data interface{}) {
		if scale, ok := data.(float64); ok {
			mw.updateStatus(fmt.Sprintf("Zoom: %.0f%%", scale*100))
		}
	})

	mw.state.On(app.EventSegmentActivated, func(data interface{}) {
		id, ok := data.(string)
		if !ok {
			return
		}
		if seg, found := mw.state.Store.Segment(id); found {
			dialogs.NewSegmentDetailDialog(mw.state, mw.Window, seg).Show()
		}
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.app.Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	dir := filepath.Dir(filePath)
	mw.app.Preferences().SetString(prefKeyLastDir, dir)
}

// restoreLastDiagram reloads the previously opened diagram image.
func (mw *MainWindow) restoreLastDiagram() {
	path := mw.app.Preferences().String(prefKeyLastDiagram)
	if path == "" {
		return
	}
	if err := mw.state.LoadDiagram(path); err != nil {
		mw.updateStatus("Could not restore diagram: " + err.Error())
	}
}

// Menu action handlers

func (mw *MainWindow) onNewProject() {
	mw.state.ClearProject()
	mw.SetTitle("Diagram Annotator - New Project")
	mw.canvas.Refresh()
}

func (mw *MainWindow) onOpenProject() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".dgproj"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenDiagram() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadDiagram(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.app.Preferences().SetString(prefKeyLastDiagram, path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".tiff", ".tif"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveProject() {
	path, _ := mw.state.Project()
	if path == "" {
		mw.onSaveProjectAs()
		return
	}
	if err := mw.state.SaveProject(path, ""); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveProjectAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".dgproj" {
			path += ".dgproj"
		}
		mw.saveLastDir(path)
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if err := mw.state.SaveProject(path, name); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("project.dgproj")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onImportAnnotations() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		data, err := io.ReadAll(reader)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.saveLastDir(reader.URI().Path())
		if err := mw.state.Store.Import(data); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Annotations imported")
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onExportAnnotations() {
	method, path, err := mw.exporter.Export("annotations", mw.state.Store.Snapshot())
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	if method == export.MethodClipboard {
		mw.updateStatus("Annotations copied to clipboard")
	} else {
		mw.updateStatus("Annotations written to " + path)
	}
}

func (mw *MainWindow) onExportSVG() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()

		w, h := 1200, 900
		if layer := mw.state.Diagram; layer != nil && layer.Image != nil {
			w, h = layer.Width(), layer.Height()
		}
		svg := export.RenderSVG(
			mw.state.Store.Segments(),
			mw.state.Store.Guides(store.ScopePrimary),
			w, h,
		)
		if _, err := writer.Write([]byte(svg)); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("SVG exported to " + writer.URI().Path())
	}, mw.Window)
	fd.SetFileName("diagram.svg")
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSyncToServer() {
	if mw.apiClient == nil {
		mw.updateStatus("No annotation server configured")
		return
	}
	mw.updateStatus("Syncing to server...")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := mw.apiClient.PushSegments(ctx, mw.project, mw.state.Store.Segments()); err != nil {
			mw.updateStatus("Sync failed: " + err.Error())
			return
		}
		if err := mw.apiClient.PushGuides(ctx, mw.project, mw.state.Store.Guides(store.ScopePrimary)); err != nil {
			mw.updateStatus("Sync failed: " + err.Error())
			return
		}
		mw.updateStatus("Synced to server")
	}()
}

func (mw *MainWindow) onResetDefaults() {
	dialog.ShowConfirm("Reset to Defaults",
		"Replace all segments and guides with the default dataset?",
		func(ok bool) {
			if ok {
				mw.state.Store.Reset()
				mw.updateStatus("Annotations reset to defaults")
			}
		}, mw.Window)
}

func (mw *MainWindow) onToggleEditMode() {
	if mw.state.Mode() == app.ModeEdit {
		mw.state.SetMode(app.ModeView)
	} else {
		mw.state.SetMode(app.ModeEdit)
	}
}

func (mw *MainWindow) onZoomIn() {
	mw.state.ApplyWheel(-1)
}

func (mw *MainWindow) onZoomOut() {
	mw.state.ApplyWheel(1)
}

func (mw *MainWindow) onActualSize() {
	mw.state.ResetZoom()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Diagram Annotator",
		fmt.Sprintf("Diagram Annotator v%s\n\n"+
			"Interactive segment and guide annotation over raster diagrams.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
