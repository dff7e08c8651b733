// Command annotcheck validates an annotation JSON document and reports
// what it contains.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"diagram-annotator/internal/annotation"
)

type document struct {
	Segments     json.RawMessage `json:"segments"`
	Guides       json.RawMessage `json:"guides"`
	DetailGuides json.RawMessage `json:"detail_guides"`
}

func main() {
	inPath := flag.String("in", "", "Path to annotation JSON document")
	flag.Parse()

	if *inPath == "" {
		fmt.Println("Usage: annotcheck -in <annotations.json>")
		os.Exit(1)
	}

	data, err := os.ReadFile(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read file: %v\n", err)
		os.Exit(1)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid JSON document: %v\n", err)
		os.Exit(1)
	}

	failed := false

	if doc.Segments != nil {
		segs, err := annotation.ValidateSegments(doc.Segments)
		if err != nil {
			fmt.Fprintf(os.Stderr, "segments: %v\n", err)
			failed = true
		} else {
			fmt.Printf("segments: %d valid\n", len(segs))
			for _, seg := range segs {
				fmt.Printf("  %-16s %-6s %.1f,%.1f %gx%g\n", seg.ID, seg.Code, seg.Left, seg.Top, seg.Width, seg.Height)
			}
		}
	} else {
		fmt.Println("segments: not present")
	}

	checkGuides := func(name string, raw json.RawMessage) {
		if raw == nil {
			fmt.Printf("%s: not present\n", name)
			return
		}
		lines, err := annotation.ValidatePolylines(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
			failed = true
			return
		}
		fmt.Printf("%s: %d valid\n", name, len(lines))
		for _, line := range lines {
			fmt.Printf("  %-16s %-20s %d points, length %.1f\n", line.ID, line.Label, len(line.Points), line.Length())
		}
	}

	checkGuides("guides", doc.Guides)
	checkGuides("detail_guides", doc.DetailGuides)

	if failed {
		os.Exit(1)
	}
}
