// Package canvas provides drawing primitives for the annotation canvas.
package canvas

import (
	"image"
	"image/color"

	"diagram-annotator/internal/annotation"
	"diagram-annotator/internal/session"
	"diagram-annotator/internal/store"
	"diagram-annotator/pkg/geometry"
)

// digitPatterns contains 3x5 pixel patterns for digits 0-9.
// Each digit is represented as 5 rows of 3 bits.
var digitPatterns = [10][5]uint8{
	{0b111, 0b101, 0b101, 0b101, 0b111}, // 0
	{0b010, 0b110, 0b010, 0b010, 0b111}, // 1
	{0b111, 0b001, 0b111, 0b100, 0b111}, // 2
	{0b111, 0b001, 0b111, 0b001, 0b111}, // 3
	{0b101, 0b101, 0b111, 0b001, 0b001}, // 4
	{0b111, 0b100, 0b111, 0b001, 0b111}, // 5
	{0b111, 0b100, 0b111, 0b101, 0b111}, // 6
	{0b111, 0b001, 0b001, 0b001, 0b001}, // 7
	{0b111, 0b101, 0b111, 0b101, 0b111}, // 8
	{0b111, 0b101, 0b111, 0b001, 0b111}, // 9
}

// letterPatterns contains 3x5 pixel patterns for letters A-Z and common symbols.
var letterPatterns = map[rune][5]uint8{
	'A': {0b010, 0b101, 0b111, 0b101, 0b101},
	'B': {0b110, 0b101, 0b110, 0b101, 0b110},
	'C': {0b011, 0b100, 0b100, 0b100, 0b011},
	'D': {0b110, 0b101, 0b101, 0b101, 0b110},
	'E': {0b111, 0b100, 0b110, 0b100, 0b111},
	'F': {0b111, 0b100, 0b110, 0b100, 0b100},
	'G': {0b011, 0b100, 0b101, 0b101, 0b011},
	'H': {0b101, 0b101, 0b111, 0b101, 0b101},
	'I': {0b111, 0b010, 0b010, 0b010, 0b111},
	'J': {0b001, 0b001, 0b001, 0b101, 0b010},
	'K': {0b101, 0b101, 0b110, 0b101, 0b101},
	'L': {0b100, 0b100, 0b100, 0b100, 0b111},
	'M': {0b101, 0b111, 0b101, 0b101, 0b101},
	'N': {0b101, 0b111, 0b111, 0b101, 0b101},
	'O': {0b010, 0b101, 0b101, 0b101, 0b010},
	'P': {0b110, 0b101, 0b110, 0b100, 0b100},
	'Q': {0b010, 0b101, 0b101, 0b111, 0b011},
	'R': {0b110, 0b101, 0b110, 0b101, 0b101},
	'S': {0b011, 0b100, 0b010, 0b001, 0b110},
	'T': {0b111, 0b010, 0b010, 0b010, 0b010},
	'U': {0b101, 0b101, 0b101, 0b101, 0b111},
	'V': {0b101, 0b101, 0b101, 0b101, 0b010},
	'W': {0b101, 0b101, 0b101, 0b111, 0b101},
	'X': {0b101, 0b101, 0b010, 0b101, 0b101},
	'Y': {0b101, 0b101, 0b010, 0b010, 0b010},
	'Z': {0b111, 0b001, 0b010, 0b100, 0b111},
	'+': {0b000, 0b010, 0b111, 0b010, 0b000},
	'-': {0b000, 0b000, 0b111, 0b000, 0b000},
	'/': {0b001, 0b001, 0b010, 0b100, 0b100},
	' ': {0b000, 0b000, 0b000, 0b000, 0b000},
}

// getCharPattern returns the 3x5 pixel pattern for a character.
// Returns a zero pattern for unsupported characters.
func getCharPattern(ch rune) [5]uint8 {
	if ch >= '0' && ch <= '9' {
		return digitPatterns[ch-'0']
	}
	if ch >= 'a' && ch <= 'z' {
		ch = ch - 'a' + 'A'
	}
	if pattern, ok := letterPatterns[ch]; ok {
		return pattern
	}
	return [5]uint8{}
}

// annotationColors maps palette names to their on-canvas RGBA values.
var annotationColors = map[annotation.Color]color.RGBA{
	annotation.ColorCyan:    {R: 0x06, G: 0xb6, B: 0xd4, A: 255},
	annotation.ColorEmerald: {R: 0x10, G: 0xb9, B: 0x81, A: 255},
	annotation.ColorAmber:   {R: 0xf5, G: 0x9e, B: 0x0b, A: 255},
}

func rgbaFor(c annotation.Color) color.RGBA {
	if col, ok := annotationColors[c]; ok {
		return col
	}
	return annotationColors[annotation.FallbackColor]
}

// dashPattern returns the on/off pixel run lengths for a dash style.
// Solid lines have no off run.
func dashPattern(style annotation.DashStyle) (on, off int) {
	switch style {
	case annotation.DashDashed:
		return 6, 4
	case annotation.DashDotted:
		return 2, 3
	default:
		return 1, 0
	}
}

// drawRectOutline draws a 2 pixel thick rectangle outline.
func drawRectOutline(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := output.Bounds()

	for t := 0; t < 2; t++ {
		for x := x1; x <= x2; x++ {
			if x >= bounds.Min.X && x < bounds.Max.X && y1+t >= bounds.Min.Y && y1+t < bounds.Max.Y {
				output.Set(x, y1+t, col)
			}
			if x >= bounds.Min.X && x < bounds.Max.X && y2-t >= bounds.Min.Y && y2-t < bounds.Max.Y {
				output.Set(x, y2-t, col)
			}
		}
		for y := y1; y <= y2; y++ {
			if x1+t >= bounds.Min.X && x1+t < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
				output.Set(x1+t, y, col)
			}
			if x2-t >= bounds.Min.X && x2-t < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
				output.Set(x2-t, y, col)
			}
		}
	}
}

// fillRectTint fills a rectangle by blending the color over the existing
// pixels at the given opacity.
func fillRectTint(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, opacity float64) {
	bounds := output.Bounds()
	invAlpha := 1 - opacity

	for y := y1; y <= y2; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := x1; x <= x2; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			existing := output.RGBAAt(x, y)
			r := uint8(float64(col.R)*opacity + float64(existing.R)*invAlpha)
			g := uint8(float64(col.G)*opacity + float64(existing.G)*invAlpha)
			b := uint8(float64(col.B)*opacity + float64(existing.B)*invAlpha)
			output.Set(x, y, color.RGBA{r, g, b, 255})
		}
	}
}

// drawDashedLine draws a line between two points using Bresenham's
// algorithm, skipping pixels according to the dash pattern.
func drawDashedLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness, on, off int) {
	bounds := output.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	period := on + off
	step := 0

	for {
		if period == 0 || step%period < on {
			for t := -thickness / 2; t <= thickness/2; t++ {
				for s := -thickness / 2; s <= thickness/2; s++ {
					px, py := x1+s, y1+t
					if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
						output.Set(px, py, col)
					}
				}
			}
		}
		step++

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawVertexMarker draws a small filled circle at a polyline vertex.
func drawVertexMarker(output *image.RGBA, cx, cy, radius int, col color.RGBA) {
	bounds := output.Bounds()
	r2 := radius * radius

	for y := cy - radius; y <= cy+radius; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := cx - radius; x <= cx+radius; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := x - cx
			dy := y - cy
			if dx*dx+dy*dy <= r2 {
				output.Set(x, y, col)
			}
		}
	}
}

// drawLabel draws a centered text label using the 3x5 pixel font.
func drawLabel(output *image.RGBA, label string, centerX, centerY int, col color.RGBA, scale int) {
	if label == "" {
		return
	}
	if scale < 1 {
		scale = 1
	}
	if scale > 6 {
		scale = 6
	}

	charWidth := 3 * scale
	charHeight := 5 * scale
	spacing := scale
	runes := []rune(label)
	labelWidth := len(runes)*charWidth + (len(runes)-1)*spacing

	startX := centerX - labelWidth/2
	startY := centerY - charHeight/2

	bounds := output.Bounds()

	for i, ch := range runes {
		pattern := getCharPattern(ch)
		charX := startX + i*(charWidth+spacing)

		for row := 0; row < 5; row++ {
			for c := 0; c < 3; c++ {
				if (pattern[row] & (1 << (2 - c))) == 0 {
					continue
				}
				for dy := 0; dy < scale; dy++ {
					for dx := 0; dx < scale; dx++ {
						px := charX + c*scale + dx
						py := startY + row*scale + dy
						if px >= bounds.Min.X && px < bounds.Max.X &&
							py >= bounds.Min.Y && py < bounds.Max.Y {
							output.Set(px, py, col)
						}
					}
				}
			}
		}
	}
}

// pctToPx converts a percent-coordinate point to display pixels.
func pctToPx(p geometry.Point2D, dispW, dispH float64) (int, int) {
	return int(p.X / 100 * dispW), int(p.Y / 100 * dispH)
}

// renderPolylines draws a polyline collection with dash styles and
// vertex markers. Stroke width is a percentage of the display width.
func renderPolylines(output *image.RGBA, lines []annotation.Polyline, dispW, dispH float64) {
	for _, line := range lines {
		col := rgbaFor(line.Color)
		on, off := dashPattern(line.Dash)

		thickness := int(line.StrokeWidth / 100 * dispW)
		if thickness < 1 {
			thickness = 1
		}

		for i := 0; i+1 < len(line.Points); i++ {
			x1, y1 := pctToPx(line.Points[i], dispW, dispH)
			x2, y2 := pctToPx(line.Points[i+1], dispW, dispH)
			drawDashedLine(output, x1, y1, x2, y2, col, thickness, on, off)
		}

		markerR := thickness/2 + 2
		for _, p := range line.Points {
			x, y := pctToPx(p, dispW, dispH)
			drawVertexMarker(output, x, y, markerR, col)
		}
	}
}

// renderDrawPreview draws the dotted indicator from the last committed
// point of an active drawing session to the current pointer position.
// The preview point is never part of the stored polyline.
func renderDrawPreview(output *image.RGBA, st *store.Store, draw *session.Draw, scope store.Scope, dispW, dispH float64) {
	if !draw.Drawing() {
		return
	}
	preview, ok := draw.Preview()
	if !ok {
		return
	}

	line, found := st.Guide(scope, draw.TargetID())
	if !found || len(line.Points) == 0 {
		x, y := pctToPx(preview, dispW, dispH)
		drawVertexMarker(output, x, y, 3, rgbaFor(annotation.FallbackColor))
		return
	}

	col := rgbaFor(line.Color)
	last := line.Points[len(line.Points)-1]
	x1, y1 := pctToPx(last, dispW, dispH)
	x2, y2 := pctToPx(preview, dispW, dispH)
	drawDashedLine(output, x1, y1, x2, y2, col, 1, 2, 3)
	drawVertexMarker(output, x2, y2, 3, col)
}
