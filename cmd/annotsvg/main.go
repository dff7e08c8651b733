// Command annotsvg renders an annotation JSON document as an SVG overlay.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"diagram-annotator/internal/annotation"
	"diagram-annotator/internal/export"
)

type document struct {
	Segments json.RawMessage `json:"segments"`
	Guides   json.RawMessage `json:"guides"`
}

func main() {
	inPath := flag.String("in", "", "Path to annotation JSON document")
	outPath := flag.String("out", "", "Output SVG path (default: stdout)")
	width := flag.Int("width", 1200, "SVG pixel width")
	height := flag.Int("height", 900, "SVG pixel height")
	flag.Parse()

	if *inPath == "" {
		fmt.Println("Usage: annotsvg -in <annotations.json> [-out overlay.svg] [-width 1200] [-height 900]")
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

	var segs []annotation.Segment
	if doc.Segments != nil {
		if segs, err = annotation.ValidateSegments(doc.Segments); err != nil {
			fmt.Fprintf(os.Stderr, "segments: %v\n", err)
			os.Exit(1)
		}
	}

	var lines []annotation.Polyline
	if doc.Guides != nil {
		if lines, err = annotation.ValidatePolylines(doc.Guides); err != nil {
			fmt.Fprintf(os.Stderr, "guides: %v\n", err)
			os.Exit(1)
		}
	}

	svg := export.RenderSVG(segs, lines, *width, *height)

	if *outPath == "" {
		fmt.Print(svg)
		return
	}
	if err := os.WriteFile(*outPath, []byte(svg), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write SVG: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%d segments, %d guides)\n", *outPath, len(segs), len(lines))
}
