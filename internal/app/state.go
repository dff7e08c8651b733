// Package app provides application lifecycle state and events: the current
// project, the loaded diagram, the edit/view mode, and the interaction
// sessions over the annotation store.
package app

import (
	"path/filepath"
	"strings"
	"sync"

	"diagram-annotator/internal/project"
	"diagram-annotator/internal/raster"
	"diagram-annotator/internal/session"
	"diagram-annotator/internal/store"
	"diagram-annotator/internal/view"
)

// Mode is the interaction mode of the annotation surface.
type Mode int

const (
	ModeView Mode = iota // hover/click reveals segment detail
	ModeEdit             // drag repositions, clicks author polylines
)

// EventType identifies different application events.
type EventType int

const (
	EventProjectLoaded EventType = iota
	EventProjectSaved
	EventDiagramLoaded
	EventModeChanged
	EventZoomChanged
	EventSegmentActivated
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the application state: project, diagram layer, mode, zoom,
// and the interaction sessions. The annotation store remains the single
// owner of annotation data.
type State struct {
	mu sync.RWMutex

	ProjectPath string
	ProjectName string
	Diagram     *raster.Layer

	Store      *store.Store
	Zoom       *view.Zoom
	Drag       *session.Drag
	Draw       *session.Draw
	DetailDraw *session.Draw

	mode Mode

	listeners map[EventType][]EventListener
}

// NewState creates the application state over an initialized store.
func NewState(st *store.Store) *State {
	return &State{
		Store:      st,
		Zoom:       view.NewZoom(),
		Drag:       session.NewDrag(st),
		Draw:       session.NewDraw(st, store.ScopePrimary),
		DetailDraw: session.NewDraw(st, store.ScopeDetail),
		listeners:  make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Mode returns the current interaction mode.
func (s *State) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// SetMode switches between edit and view mode. Leaving edit mode ends any
// in-flight drag and forces drawing sessions to idle; points already
// captured are kept. Re-entering edit mode never auto-resumes drawing.
func (s *State) SetMode(mode Mode) {
	s.mu.Lock()
	changed := s.mode != mode
	s.mode = mode
	s.mu.Unlock()

	if !changed {
		return
	}
	if mode != ModeEdit {
		s.Drag.End()
		s.Draw.Finish()
		s.DetailDraw.Finish()
	}
	s.Emit(EventModeChanged, mode)
}

// Project returns the current project path and name. Safe to call from
// any goroutine, e.g. the autosave ticker.
func (s *State) Project() (path, name string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ProjectPath, s.ProjectName
}

// ClearProject forgets the current project file without touching the
// loaded diagram or the annotation data.
func (s *State) ClearProject() {
	s.mu.Lock()
	s.ProjectPath = ""
	s.ProjectName = ""
	s.mu.Unlock()
}

// ActivateSegment signals that a segment was clicked in view mode, e.g.
// to open its detail dialog.
func (s *State) ActivateSegment(id string) {
	s.Emit(EventSegmentActivated, id)
}

// ApplyWheel routes a wheel delta to the zoom controller and announces
// the new scale.
func (s *State) ApplyWheel(deltaY float64) float64 {
	scale := s.Zoom.ApplyWheelDelta(deltaY)
	s.Emit(EventZoomChanged, scale)
	return scale
}

// ResetZoom restores the 1.0 scale.
func (s *State) ResetZoom() {
	s.Zoom.Reset()
	s.Emit(EventZoomChanged, s.Zoom.Scale())
}

// LoadDiagram loads the diagram image from the specified path.
func (s *State) LoadDiagram(path string) error {
	layer, err := raster.Load(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.Diagram = layer
	s.mu.Unlock()

	s.Emit(EventDiagramLoaded, layer)
	return nil
}

// LoadProject loads a project file and its diagram image.
func (s *State) LoadProject(path string) error {
	proj, err := project.Load(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.ProjectName = proj.Name
	s.mu.Unlock()

	if p := proj.GetDiagramPath(path); p != "" {
		if err := s.LoadDiagram(p); err != nil {
			return err
		}
	}

	s.Emit(EventProjectLoaded, path)
	return nil
}

// SaveProject writes the project file to the specified path. An empty
// name keeps the current project name, falling back to the file's base
// name for a project never named before.
func (s *State) SaveProject(path string, name string) error {
	s.mu.RLock()
	if name == "" {
		name = s.ProjectName
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	proj := project.New(name)
	if s.Diagram != nil {
		proj.SetDiagram(path, s.Diagram.Path)
	}
	s.mu.RUnlock()

	if err := proj.Save(path); err != nil {
		return err
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.ProjectName = name
	s.mu.Unlock()

	s.Emit(EventProjectSaved, path)
	return nil
}
