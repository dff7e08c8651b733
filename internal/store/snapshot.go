package store

import (
	"encoding/json"
	"fmt"

	"diagram-annotator/internal/annotation"
)

// Snapshot is the full-document form of the annotation data, used for
// import and export. The keys match the persisted storage keys.
type Snapshot struct {
	Segments     []annotation.Segment  `json:"segments"`
	Guides       []annotation.Polyline `json:"guides"`
	DetailGuides []annotation.Polyline `json:"detail_guides"`
}

// Snapshot returns a copy of all three collections.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Segments:     s.Segments(),
		Guides:       s.Guides(ScopePrimary),
		DetailGuides: s.Guides(ScopeDetail),
	}
}

// rawDocument defers collection parsing so each present key can go
// through its own validator.
type rawDocument struct {
	Segments     json.RawMessage `json:"segments"`
	Guides       json.RawMessage `json:"guides"`
	DetailGuides json.RawMessage `json:"detail_guides"`
}

// Import replaces annotation collections from pasted or uploaded JSON.
// Two shapes are accepted: a bare array of segment objects, which
// replaces only the segment collection, and the full snapshot document.
// Validation is all-or-nothing across the whole input: if any present
// collection fails, nothing is replaced and the current data is
// untouched. Absent document keys leave their collection as is.
func (s *Store) Import(data []byte) error {
	if isJSONArray(data) {
		segs, err := annotation.ValidateSegments(data)
		if err != nil {
			return fmt.Errorf("import segments: %w", err)
		}
		s.ReplaceSegments(segs)
		return nil
	}

	var doc rawDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse import document: %w", err)
	}

	var (
		segs         []annotation.Segment
		guides       []annotation.Polyline
		detailGuides []annotation.Polyline
		err          error
	)

	if doc.Segments != nil {
		if segs, err = annotation.ValidateSegments(doc.Segments); err != nil {
			return fmt.Errorf("import segments: %w", err)
		}
	}
	if doc.Guides != nil {
		if guides, err = annotation.ValidatePolylines(doc.Guides); err != nil {
			return fmt.Errorf("import guides: %w", err)
		}
	}
	if doc.DetailGuides != nil {
		if detailGuides, err = annotation.ValidatePolylines(doc.DetailGuides); err != nil {
			return fmt.Errorf("import detail guides: %w", err)
		}
	}

	if doc.Segments != nil {
		s.ReplaceSegments(segs)
	}
	if doc.Guides != nil {
		s.ReplaceGuides(ScopePrimary, guides)
	}
	if doc.DetailGuides != nil {
		s.ReplaceGuides(ScopeDetail, detailGuides)
	}
	return nil
}

// isJSONArray reports whether the first non-whitespace byte opens an
// array.
func isJSONArray(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return b == '['
		}
	}
	return false
}
