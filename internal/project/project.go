// Package project provides project file handling.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// File represents a diagram annotator project file (.dgproj). It ties a
// named project to its diagram image; annotation collections live in the
// snapshot store, not in the project file.
type File struct {
	Version     int       `json:"version"`
	Name        string    `json:"name"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
	Description string    `json:"description,omitempty"`

	// Diagram image path (relative to project file)
	DiagramPath string `json:"diagram,omitempty"`
}

// New creates a new project file.
func New(name string) *File {
	now := time.Now()
	return &File{
		Version:  1,
		Name:     name,
		Created:  now,
		Modified: now,
	}
}

// Load loads a project from a .dgproj file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var proj File
	if err := json.Unmarshal(data, &proj); err != nil {
		return nil, fmt.Errorf("parse project file: %w", err)
	}
	return &proj, nil
}

// Save saves the project to a file.
func (p *File) Save(path string) error {
	p.Modified = time.Now()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SetDiagram sets the diagram image path (relative to project).
func (p *File) SetDiagram(projectPath, imagePath string) {
	rel, err := filepath.Rel(filepath.Dir(projectPath), imagePath)
	if err != nil {
		p.DiagramPath = imagePath
	} else {
		p.DiagramPath = rel
	}
	p.Modified = time.Now()
}

// GetDiagramPath returns the absolute path to the diagram image.
func (p *File) GetDiagramPath(projectPath string) string {
	if p.DiagramPath == "" {
		return ""
	}
	if filepath.IsAbs(p.DiagramPath) {
		return p.DiagramPath
	}
	return filepath.Join(filepath.Dir(projectPath), p.DiagramPath)
}
