package ui

import (
	"strings"

	"popupkit/internal/ui/textutil"
)

// Canvas is a fixed-size cell grid the demo composes its surfaces onto.
// Popups draw over whatever is underneath, which keeps the rendered
// picture aligned with the element bounds the engine hit-tests against.
type Canvas struct {
	w, h   int
	runes  [][]rune
	styles [][]int
}

// NewCanvas returns a blank canvas of the given size.
func NewCanvas(w, h int) *Canvas {
	runes := make([][]rune, h)
	styles := make([][]int, h)
	for y := 0; y < h; y++ {
		runes[y] = make([]rune, w)
		styles[y] = make([]int, w)
		for x := 0; x < w; x++ {
			runes[y][x] = ' '
		}
	}
	return &Canvas{w: w, h: h, runes: runes, styles: styles}
}

// DrawText writes s at (x, y) with the given style, clipped to the canvas.
// Wide runes are approximated as single cells; the demo menu content is
// plain ASCII.
func (c *Canvas) DrawText(x, y int, s string, style int) {
	if y < 0 || y >= c.h {
		return
	}
	if x < c.w {
		s = textutil.Clip(s, c.w-x)
	}
	for i, r := range []rune(s) {
		cx := x + i
		if cx < 0 || cx >= c.w {
			continue
		}
		c.runes[y][cx] = r
		c.styles[y][cx] = style
	}
}

// DrawRow writes s padded (or truncated) to width cells, so boxes render
// with a uniform background.
func (c *Canvas) DrawRow(x, y, width int, s string, style int) {
	s = textutil.PadRightVisual(textutil.Truncate(s, width), width)
	c.DrawText(x, y, s, style)
}

// Render flattens the grid into a styled string, grouping runs of equal
// style per line to keep the escape-code volume down.
func (c *Canvas) Render() string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		runStart := 0
		for x := 1; x <= c.w; x++ {
			if x < c.w && c.styles[y][x] == c.styles[y][runStart] {
				continue
			}
			seg := string(c.runes[y][runStart:x])
			if id := c.styles[y][runStart]; id != StylePlain && id < len(Palette) {
				seg = Palette[id].Render(seg)
			}
			b.WriteString(seg)
			runStart = x
		}
		if y < c.h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
