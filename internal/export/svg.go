package export

import (
	"fmt"
	"strings"

	"diagram-annotator/internal/annotation"
)

// SVG rendering of a collection snapshot. Coordinates are already in the
// 0..100 normalized range, so the document uses a fixed 0 0 100 100
// viewBox and scales losslessly.

const svgHeader = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100" width="%d" height="%d">` + "\n"

var svgColors = map[annotation.Color]string{
	annotation.ColorCyan:    "#06b6d4",
	annotation.ColorEmerald: "#10b981",
	annotation.ColorAmber:   "#f59e0b",
}

var svgDashes = map[annotation.DashStyle]string{
	annotation.DashSolid:  "",
	annotation.DashDashed: "3 2",
	annotation.DashDotted: "0.8 1.2",
}

// RenderSVG renders segments and polylines to a standalone SVG document.
func RenderSVG(segments []annotation.Segment, lines []annotation.Polyline, width, height int) string {
	var b strings.Builder
	fmt.Fprintf(&b, svgHeader, width, height)

	for _, s := range segments {
		col := svgColors[annotation.NormalizeColor(string(s.Color))]
		fmt.Fprintf(&b,
			`  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" fill-opacity="0.25" stroke="%s" stroke-width="0.4"/>`+"\n",
			s.Left, s.Top, s.Width, s.Height, col, col)
		if s.Code != "" {
			fmt.Fprintf(&b,
				`  <text x="%.2f" y="%.2f" font-size="3" fill="%s">%s</text>`+"\n",
				s.Left+1, s.Top+3.5, col, escapeText(s.Code))
		}
	}

	for _, l := range lines {
		if len(l.Points) < 2 {
			// Points-only polylines render markers, not a stroke.
			for _, p := range l.Points {
				col := svgColors[annotation.NormalizeColor(string(l.Color))]
				fmt.Fprintf(&b,
					`  <circle cx="%.2f" cy="%.2f" r="0.8" fill="%s"/>`+"\n",
					p.X, p.Y, col)
			}
			continue
		}
		col := svgColors[annotation.NormalizeColor(string(l.Color))]
		pts := make([]string, len(l.Points))
		for i, p := range l.Points {
			pts[i] = fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
		}
		dash := ""
		if d := svgDashes[l.Dash]; d != "" {
			dash = fmt.Sprintf(` stroke-dasharray="%s"`, d)
		}
		fmt.Fprintf(&b,
			`  <polyline points="%s" fill="none" stroke="%s" stroke-width="%.2f"%s/>`+"\n",
			strings.Join(pts, " "), col, l.StrokeWidth, dash)
	}

	b.WriteString("</svg>\n")
	return b.String()
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
