// Package store holds the authoritative in-memory annotation collections.
// All mutations funnel through the Store: it clamps geometry, normalizes
// enum fields, maintains the active/selected references, and writes a full
// snapshot to the persistence port after every mutation.
package store

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"diagram-annotator/internal/annotation"
	"diagram-annotator/internal/storage"
	"diagram-annotator/pkg/geometry"
)

// Storage keys. Each key holds one independently validated JSON array.
const (
	KeySegments     = "segments"
	KeyGuides       = "guides"
	KeyDetailGuides = "detail_guides"
)

// Scope selects one of the two independent polyline collections: the
// primary overlay guides, or the set scoped to the detail modal.
type Scope int

const (
	ScopePrimary Scope = iota
	ScopeDetail
)

// EventType identifies store change events.
type EventType int

const (
	EventSegmentsChanged EventType = iota
	EventSegmentSelected
	EventGuidesChanged
	EventGuideDeleted
	EventActiveGuideChanged
	EventReset
)

// Listener is called when an event occurs.
type Listener func(data interface{})

// guideSet is one polyline collection plus its active reference.
type guideSet struct {
	key    string
	lines  []*annotation.Polyline
	active string
}

// Store is the authoritative collection of segments and polylines.
type Store struct {
	mu sync.RWMutex

	segments []*annotation.Segment
	selected string

	primary guideSet
	detail  guideSet

	port      storage.Port
	log       zerolog.Logger
	listeners map[EventType][]Listener
}

// New creates a store and loads persisted snapshots through the port.
// A missing, malformed, or invalid snapshot falls back to the named
// default dataset; startup never fails.
func New(port storage.Port, log zerolog.Logger) *Store {
	s := &Store{
		port:      port,
		log:       log,
		primary:   guideSet{key: KeyGuides},
		detail:    guideSet{key: KeyDetailGuides},
		listeners: make(map[EventType][]Listener),
	}
	s.segments = loadSegments(port, log)
	s.primary.lines = loadGuides(port, log, KeyGuides, DefaultGuides())
	s.detail.lines = loadGuides(port, log, KeyDetailGuides, DefaultDetailGuides())
	return s
}

func loadSegments(port storage.Port, log zerolog.Logger) []*annotation.Segment {
	data, err := port.Load(KeySegments)
	if err == nil {
		if segs, verr := annotation.ValidateSegments(data); verr == nil {
			return toSegmentPtrs(segs)
		} else {
			log.Warn().Err(verr).Msg("persisted segments rejected, using defaults")
		}
	}
	return toSegmentPtrs(DefaultSegments())
}

func loadGuides(port storage.Port, log zerolog.Logger, key string, defaults []annotation.Polyline) []*annotation.Polyline {
	data, err := port.Load(key)
	if err == nil {
		if lines, verr := annotation.ValidatePolylines(data); verr == nil {
			return toPolylinePtrs(lines)
		} else {
			log.Warn().Err(verr).Str("key", key).Msg("persisted guides rejected, using defaults")
		}
	}
	return toPolylinePtrs(defaults)
}

// On registers an event listener for the specified event type. The
// returned function detaches the listener; short-lived subscribers such
// as dialogs call it when they close.
func (s *Store) On(event EventType, listener Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
	idx := len(s.listeners[event]) - 1
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.listeners[event][idx] = nil
	}
}

// emit triggers all listeners for the specified event type. Callers must
// not hold the mutex.
func (s *Store) emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		if listener != nil {
			listener(data)
		}
	}
}

// Segments returns a snapshot copy of the segment collection.
func (s *Store) Segments() []annotation.Segment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]annotation.Segment, len(s.segments))
	for i, seg := range s.segments {
		out[i] = *seg
	}
	return out
}

// Segment returns a copy of the segment with the given id.
func (s *Store) Segment(id string) (annotation.Segment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, seg := range s.segments {
		if seg.ID == id {
			return *seg, true
		}
	}
	return annotation.Segment{}, false
}

// AddSegment creates a segment with default geometry and persists.
func (s *Store) AddSegment() annotation.Segment {
	s.mu.Lock()
	seg := annotation.NewSegment(len(s.segments))
	s.segments = append(s.segments, seg)
	out := *seg
	s.mu.Unlock()

	s.persistSegments()
	s.emit(EventSegmentsChanged, nil)
	return out
}

// UpdateSegment merges a patch into the segment, clamping geometry and
// normalizing the color, then persists. Returns false for an unknown id.
func (s *Store) UpdateSegment(id string, patch annotation.SegmentPatch) bool {
	s.mu.Lock()
	var found bool
	for _, seg := range s.segments {
		if seg.ID == id {
			patch.Apply(seg)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return false
	}
	s.persistSegments()
	s.emit(EventSegmentsChanged, nil)
	return true
}

// MoveSegment repositions a segment's top-left anchor, clamping both axes.
// The moved segment becomes the selected segment.
func (s *Store) MoveSegment(id string, topLeft geometry.Point2D) bool {
	s.mu.Lock()
	var found bool
	for _, seg := range s.segments {
		if seg.ID == id {
			seg.Left = geometry.ClampPercent(topLeft.X)
			seg.Top = geometry.ClampPercent(topLeft.Y)
			s.selected = id
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return false
	}
	s.persistSegments()
	s.emit(EventSegmentsChanged, nil)
	s.emit(EventSegmentSelected, id)
	return true
}

// DeleteSegment removes a segment. If it was selected, the selection is
// cleared as part of the same mutation.
func (s *Store) DeleteSegment(id string) bool {
	s.mu.Lock()
	var found bool
	for i, seg := range s.segments {
		if seg.ID == id {
			s.segments = append(s.segments[:i], s.segments[i+1:]...)
			found = true
			break
		}
	}
	if found && s.selected == id {
		s.selected = ""
	}
	s.mu.Unlock()

	if !found {
		return false
	}
	s.persistSegments()
	s.emit(EventSegmentsChanged, nil)
	return true
}

// ReplaceSegments swaps in an already-validated collection wholesale
// (import is replacement, never a merge) and persists.
func (s *Store) ReplaceSegments(segs []annotation.Segment) {
	s.mu.Lock()
	s.segments = toSegmentPtrs(segs)
	s.selected = ""
	s.mu.Unlock()

	s.persistSegments()
	s.emit(EventSegmentsChanged, nil)
}

// SelectSegment marks a segment as selected ("" clears the selection).
func (s *Store) SelectSegment(id string) {
	s.mu.Lock()
	s.selected = id
	s.mu.Unlock()
	s.emit(EventSegmentSelected, id)
}

// SelectedSegment returns the selected segment id, or "".
func (s *Store) SelectedSegment() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

func (s *Store) set(scope Scope) *guideSet {
	if scope == ScopeDetail {
		return &s.detail
	}
	return &s.primary
}

// Guides returns a snapshot copy of the polyline collection in scope.
func (s *Store) Guides(scope Scope) []annotation.Polyline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := s.set(scope)
	out := make([]annotation.Polyline, len(set.lines))
	for i, l := range set.lines {
		out[i] = *l
		out[i].Points = append([]geometry.Point2D(nil), l.Points...)
	}
	return out
}

// Guide returns a copy of one polyline by id.
func (s *Store) Guide(scope Scope, id string) (annotation.Polyline, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.set(scope).lines {
		if l.ID == id {
			out := *l
			out.Points = append([]geometry.Point2D(nil), l.Points...)
			return out, true
		}
	}
	return annotation.Polyline{}, false
}

// AddGuide appends a new empty polyline, marks it active, and persists.
func (s *Store) AddGuide(scope Scope) annotation.Polyline {
	s.mu.Lock()
	set := s.set(scope)
	line := annotation.NewPolyline()
	set.lines = append(set.lines, line)
	set.active = line.ID
	out := *line
	s.mu.Unlock()

	s.persistGuides(scope)
	s.emit(EventGuidesChanged, nil)
	s.emit(EventActiveGuideChanged, out.ID)
	return out
}

// UpdateGuide merges an attribute patch into a polyline and persists.
func (s *Store) UpdateGuide(scope Scope, id string, patch annotation.PolylinePatch) bool {
	s.mu.Lock()
	var found bool
	for _, l := range s.set(scope).lines {
		if l.ID == id {
			patch.Apply(l)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return false
	}
	s.persistGuides(scope)
	s.emit(EventGuidesChanged, nil)
	return true
}

// AppendGuidePoint appends one clamped point to a polyline and persists.
// Points are append-only; there is no mid-sequence insertion.
func (s *Store) AppendGuidePoint(scope Scope, id string, pt geometry.Point2D) bool {
	s.mu.Lock()
	var found bool
	for _, l := range s.set(scope).lines {
		if l.ID == id {
			l.AppendPoint(pt)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return false
	}
	s.persistGuides(scope)
	s.emit(EventGuidesChanged, nil)
	return true
}

// DeleteGuide removes one polyline. If it was active, the active reference
// falls back to the next remaining polyline (or "") in the same mutation.
func (s *Store) DeleteGuide(scope Scope, id string) bool {
	s.mu.Lock()
	set := s.set(scope)
	idx := -1
	for i, l := range set.lines {
		if l.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	set.lines = append(set.lines[:idx], set.lines[idx+1:]...)

	activeChanged := false
	if set.active == id {
		activeChanged = true
		switch {
		case idx < len(set.lines):
			set.active = set.lines[idx].ID
		case len(set.lines) > 0:
			set.active = set.lines[len(set.lines)-1].ID
		default:
			set.active = ""
		}
	}
	active := set.active
	s.mu.Unlock()

	s.persistGuides(scope)
	s.emit(EventGuideDeleted, deletedGuide{Scope: scope, ID: id})
	s.emit(EventGuidesChanged, nil)
	if activeChanged {
		s.emit(EventActiveGuideChanged, active)
	}
	return true
}

// ClearGuides empties the whole polyline collection in scope.
func (s *Store) ClearGuides(scope Scope) {
	s.mu.Lock()
	set := s.set(scope)
	cleared := make([]string, len(set.lines))
	for i, l := range set.lines {
		cleared[i] = l.ID
	}
	set.lines = nil
	set.active = ""
	s.mu.Unlock()

	s.persistGuides(scope)
	for _, id := range cleared {
		s.emit(EventGuideDeleted, deletedGuide{Scope: scope, ID: id})
	}
	s.emit(EventGuidesChanged, nil)
	s.emit(EventActiveGuideChanged, "")
}

// ReplaceGuides swaps in an already-validated collection wholesale.
func (s *Store) ReplaceGuides(scope Scope, lines []annotation.Polyline) {
	s.mu.Lock()
	set := s.set(scope)
	set.lines = toPolylinePtrs(lines)
	set.active = ""
	s.mu.Unlock()

	s.persistGuides(scope)
	s.emit(EventGuidesChanged, nil)
	s.emit(EventActiveGuideChanged, "")
}

// ActiveGuide returns the active polyline id in scope, or "".
func (s *Store) ActiveGuide(scope Scope) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set(scope).active
}

// SetActiveGuide marks a polyline as active ("" clears it).
func (s *Store) SetActiveGuide(scope Scope, id string) {
	s.mu.Lock()
	s.set(scope).active = id
	s.mu.Unlock()
	s.emit(EventActiveGuideChanged, id)
}

// Reset restores the named default dataset for every collection.
func (s *Store) Reset() {
	s.mu.Lock()
	s.segments = toSegmentPtrs(DefaultSegments())
	s.selected = ""
	s.primary.lines = toPolylinePtrs(DefaultGuides())
	s.primary.active = ""
	s.detail.lines = toPolylinePtrs(DefaultDetailGuides())
	s.detail.active = ""
	s.mu.Unlock()

	s.persistSegments()
	s.persistGuides(ScopePrimary)
	s.persistGuides(ScopeDetail)
	s.emit(EventReset, nil)
	s.emit(EventSegmentsChanged, nil)
	s.emit(EventGuidesChanged, nil)
}

// deletedGuide is the payload of EventGuideDeleted.
type deletedGuide struct {
	Scope Scope
	ID    string
}

// DeletedGuideID extracts the deleted guide id from an EventGuideDeleted
// payload, scoped to the given collection. Returns "" for other payloads.
func DeletedGuideID(data interface{}, scope Scope) string {
	if d, ok := data.(deletedGuide); ok && d.Scope == scope {
		return d.ID
	}
	return ""
}

// persistSegments writes the full segment snapshot. Persistence failures
// are logged and never propagate; in-memory state is already committed.
func (s *Store) persistSegments() {
	s.mu.RLock()
	snapshot := make([]annotation.Segment, len(s.segments))
	for i, seg := range s.segments {
		snapshot[i] = *seg
	}
	s.mu.RUnlock()

	data, err := json.Marshal(snapshot)
	if err != nil {
		s.log.Error().Err(err).Msg("marshal segments snapshot")
		return
	}
	if err := s.port.Save(KeySegments, data); err != nil {
		s.log.Warn().Err(err).Msg("persist segments snapshot")
	}
}

func (s *Store) persistGuides(scope Scope) {
	s.mu.RLock()
	set := s.set(scope)
	key := set.key
	snapshot := make([]annotation.Polyline, len(set.lines))
	for i, l := range set.lines {
		snapshot[i] = *l
		snapshot[i].Points = append([]geometry.Point2D(nil), l.Points...)
	}
	s.mu.RUnlock()

	data, err := json.Marshal(snapshot)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("marshal guides snapshot")
		return
	}
	if err := s.port.Save(key, data); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("persist guides snapshot")
	}
}

func toSegmentPtrs(segs []annotation.Segment) []*annotation.Segment {
	out := make([]*annotation.Segment, len(segs))
	for i := range segs {
		seg := segs[i]
		out[i] = &seg
	}
	return out
}

func toPolylinePtrs(lines []annotation.Polyline) []*annotation.Polyline {
	out := make([]*annotation.Polyline, len(lines))
	for i := range lines {
		l := lines[i]
		if l.Points == nil {
			l.Points = []geometry.Point2D{}
		}
		out[i] = &l
	}
	return out
}
