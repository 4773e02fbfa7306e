package ui

import (
	"strings"

	"github.com/hubgraph/hubgraph/pkg/layout"
)

// Terminal cells are roughly twice as tall as wide; screen y is halved when
// mapping into the row grid so circles stay visually round.
const cellAspect = 2.0

type cell struct {
	ch    string
	style styleFn
}

// sceneOpts configures one canvas render.
type sceneOpts struct {
	cols, rows int
	vp         layout.Viewport
	hover      string
	selected   string
	// onlyHoverEdges hides all edges except the hovered node's incident
	// ones (the bipartite view, where the full edge set is O(hubs x recs)).
	onlyHoverEdges bool
	cursorX        int
	cursorY        int
	showCursor     bool
}

// cellToScene maps a cursor cell to scene coordinates for hit testing.
func cellToScene(vp layout.Viewport, cx, cy int) (float64, float64) {
	return vp.Invert(float64(cx), float64(cy)*cellAspect)
}

// renderScene draws the engine's bodies and edges into a character grid.
func renderScene(e layout.Engine, o sceneOpts) string {
	if o.cols <= 0 || o.rows <= 0 {
		return ""
	}
	grid := make([][]cell, o.rows)
	for y := range grid {
		grid[y] = make([]cell, o.cols)
		for x := range grid[y] {
			grid[y][x] = cell{ch: " "}
		}
	}

	put := func(x, y int, ch string, style styleFn) {
		if x < 0 || x >= o.cols || y < 0 || y >= o.rows {
			return
		}
		grid[y][x] = cell{ch: ch, style: style}
	}
	toCell := func(sceneX, sceneY float64) (int, int) {
		sx, sy := o.vp.Apply(sceneX, sceneY)
		return int(sx + 0.5), int(sy/cellAspect + 0.5)
	}

	// Edges under nodes. Hovered incident edges draw last and brighter.
	var hot []layout.Segment
	for _, s := range e.Segments() {
		incident := o.hover != "" && (s.A == o.hover || s.B == o.hover)
		if incident {
			hot = append(hot, s)
			continue
		}
		if o.onlyHoverEdges {
			continue
		}
		drawSegment(put, toCell, s, "·", edgeStyle.Render)
	}
	for _, s := range hot {
		drawSegment(put, toCell, s, "•", edgeHotStyle.Render)
	}

	for _, b := range e.Bodies() {
		x, y := toCell(b.X, b.Y)
		style := nodeStyleFor(b.Kind)
		switch b.Handle {
		case o.selected:
			style = selectedStyle.Render
		case o.hover:
			style = hoverStyle.Render
		}
		put(x, y, glyphFor(b.Kind, b.Avatar), style)
		// Label bigger nodes when there is room.
		if b.Radius >= 14 && b.Name != "" && y >= 0 && y < o.rows {
			label := truncate(b.Name, 14)
			for i, r := range []rune(label) {
				lx := x + 2 + i
				if lx < 0 {
					continue
				}
				if lx >= o.cols {
					break
				}
				if grid[y][lx].ch == " " {
					put(lx, y, string(r), statusStyle.Render)
				}
			}
		}
	}

	if o.showCursor {
		if o.cursorX >= 0 && o.cursorX < o.cols && o.cursorY >= 0 && o.cursorY < o.rows {
			if grid[o.cursorY][o.cursorX].ch == " " {
				put(o.cursorX, o.cursorY, "+", cursorStyle.Render)
			}
		}
	}

	var sb strings.Builder
	for y, row := range grid {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, c := range row {
			if c.style != nil {
				sb.WriteString(c.style(c.ch))
			} else {
				sb.WriteString(c.ch)
			}
		}
	}
	return sb.String()
}

// drawSegment rasterizes one edge with Bresenham over cell coordinates,
// leaving the endpoints free for the node glyphs.
func drawSegment(put func(int, int, string, styleFn), toCell func(float64, float64) (int, int), s layout.Segment, ch string, style styleFn) {
	x0, y0 := toCell(s.X1, s.Y1)
	x1, y1 := toCell(s.X2, s.Y2)

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	x, y := x0, y0
	for {
		if (x != x0 || y != y0) && (x != x1 || y != y1) {
			put(x, y, ch, style)
		}
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
