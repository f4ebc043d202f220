package main

import (
	"math"
	"strings"

	"korq/internal/store"
)

// The renderer projects world space through the viewport transform
// onto a grid of terminal cells. A cell stands for cellPxW x cellPxH
// screen pixels, so at zoom 1.0 a default 300x200 card covers about
// 30x10 cells.

func (s *Session) cellOfWorld(p Point) (int, int) {
	px := worldToScreen(p, s.settings.PanX, s.settings.PanY, s.settings.Zoom)
	return int(math.Floor(px.X / cellPxW)), int(math.Floor(px.Y / cellPxH))
}

func (s *Session) worldOfCell(cx, cy int) Point {
	px := Point{X: (float64(cx) + 0.5) * cellPxW, Y: (float64(cy) + 0.5) * cellPxH}
	return screenToWorld(px, s.settings.PanX, s.settings.PanY, s.settings.Zoom)
}

// cardAtCell returns the topmost card whose rectangle contains the
// world point under the cell, or nil.
func (s *Session) cardAtCell(cx, cy int) *store.Card {
	w := s.worldOfCell(cx, cy)
	for i := len(s.cards) - 1; i >= 0; i-- {
		c := &s.cards[i]
		if w.X >= c.X && w.X < c.X+c.Width && w.Y >= c.Y && w.Y < c.Y+c.Height {
			return c
		}
	}
	return nil
}

// connectionAtCell returns the connection whose segment passes within
// about one cell of the given cell, or nil.
func (s *Session) connectionAtCell(cx, cy int) *store.Connection {
	for i := range s.conns {
		conn := &s.conns[i]
		from := s.cardByID(conn.FromCard)
		to := s.cardByID(conn.ToCard)
		if from == nil || to == nil {
			continue
		}
		pa, pb := connectionAnchors(cardRect(*from), cardRect(*to))
		ax, ay := s.cellOfWorld(pa)
		bx, by := s.cellOfWorld(pb)
		if cellSegmentDistance(cx, cy, ax, ay, bx, by) <= 1.5 {
			return conn
		}
	}
	return nil
}

func cellSegmentDistance(px, py, ax, ay, bx, by int) float64 {
	vx := float64(bx - ax)
	vy := float64(by - ay)
	wx := float64(px - ax)
	wy := float64(py - ay)
	lenSq := vx*vx + vy*vy
	t := 0.0
	if lenSq > 0 {
		t = (wx*vx + wy*vy) / lenSq
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}
	dx := wx - t*vx
	dy := wy - t*vy
	return math.Hypot(dx, dy)
}

// Render draws the workspace into width x height cells and returns one
// string per row. Connections go first so cards sit on top of them;
// off-screen indicators go last so they are always visible.
func (s *Session) Render(width, height int, connectPreview *Point) []string {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	s.drawGrid(grid)

	for _, conn := range s.conns {
		from := s.cardByID(conn.FromCard)
		to := s.cardByID(conn.ToCard)
		if from == nil || to == nil {
			continue
		}
		s.drawArrow(grid, cardRect(*from), cardRect(*to))
	}

	// Preview arrow from the connect-mode source to the cursor.
	if connectPreview != nil && s.connectFrom != "" {
		if from := s.cardByID(s.connectFrom); from != nil {
			s.drawArrow(grid, cardRect(*from), Rect{X: connectPreview.X, Y: connectPreview.Y, W: 1, H: 1})
		}
	}

	for i := range s.cards {
		s.drawCard(grid, &s.cards[i])
	}

	s.drawOffscreenIndicators(grid)

	lines := make([]string, height)
	for i, row := range grid {
		lines[i] = string(row)
	}
	return lines
}

// drawGrid fills the background per the grid mode: dots mark grid-line
// intersections, lines draw the full grid. Skipped when cells are
// denser than the grid spacing.
func (s *Session) drawGrid(grid [][]rune) {
	mode := GridMode(s.settings.GridMode)
	if mode == GridOff {
		return
	}

	stepX := gridUnit * s.settings.Zoom / cellPxW
	stepY := gridUnit * s.settings.Zoom / cellPxH
	if stepX < 1 || stepY < 1 {
		return
	}

	height := len(grid)
	width := len(grid[0])
	view := viewportWorldBounds(s.settings.PanX, s.settings.PanY, s.settings.Zoom,
		float64(width)*cellPxW, float64(height)*cellPxH)

	startX := math.Floor(view.X/gridUnit) * gridUnit
	startY := math.Floor(view.Y/gridUnit) * gridUnit

	for wy := startY; wy <= view.Y+view.H; wy += gridUnit {
		for wx := startX; wx <= view.X+view.W; wx += gridUnit {
			cx, cy := s.cellOfWorld(Point{X: wx, Y: wy})
			if cy < 0 || cy >= height || cx < 0 || cx >= width {
				continue
			}
			switch mode {
			case GridDots:
				grid[cy][cx] = '.'
			case GridLines:
				grid[cy][cx] = '+'
			}
		}
		if mode == GridLines {
			_, cy := s.cellOfWorld(Point{X: view.X, Y: wy})
			if cy >= 0 && cy < height {
				for cx := 0; cx < width; cx++ {
					if grid[cy][cx] == ' ' {
						grid[cy][cx] = '-'
					}
				}
			}
		}
	}
	if mode == GridLines {
		for wx := startX; wx <= view.X+view.W; wx += gridUnit {
			cx, _ := s.cellOfWorld(Point{X: wx, Y: view.Y})
			if cx < 0 || cx >= width {
				continue
			}
			for cy := 0; cy < height; cy++ {
				if grid[cy][cx] == ' ' {
					grid[cy][cx] = '|'
				}
			}
		}
	}
}

// drawCard draws a card's border and as much of its title and content
// as fits. Selection and connect-source state change the border glyph:
// '#' for selected, '=' for the pending connection source.
func (s *Session) drawCard(grid [][]rune, c *store.Card) {
	height := len(grid)
	width := len(grid[0])

	x0, y0 := s.cellOfWorld(Point{X: c.X, Y: c.Y})
	x1, y1 := s.cellOfWorld(Point{X: c.X + c.Width, Y: c.Y + c.Height})
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	if x1 < 0 || y1 < 0 || x0 >= width || y0 >= height {
		return
	}

	corner, horizontal, vertical := '+', '-', '|'
	if c.ID == s.selected {
		corner, horizontal, vertical = '#', '#', '#'
	} else if c.ID == s.connectFrom {
		corner, horizontal, vertical = '=', '=', '='
	}

	for y := y0; y <= y1; y++ {
		if y < 0 || y >= height {
			continue
		}
		for x := x0; x <= x1; x++ {
			if x < 0 || x >= width {
				continue
			}
			switch {
			case (y == y0 || y == y1) && (x == x0 || x == x1):
				grid[y][x] = corner
			case y == y0 || y == y1:
				grid[y][x] = horizontal
			case x == x0 || x == x1:
				grid[y][x] = vertical
			default:
				grid[y][x] = ' '
			}
		}
	}

	innerW := x1 - x0 - 1
	if innerW < 1 {
		return
	}

	// Title on the first interior row, content below it.
	row := y0 + 1
	if row > y0 && row < y1 && row >= 0 && row < height {
		writeClipped(grid, row, x0+1, x1, fitLine(c.Title, innerW))
	}
	body := strings.Split(displayText(c.Content), "\n")
	for i, line := range body {
		row = y0 + 2 + i
		if row >= y1 || row >= height {
			break
		}
		if row < 0 {
			continue
		}
		writeClipped(grid, row, x0+1, x1, fitLine(line, innerW))
	}
}

func writeClipped(grid [][]rune, row, from, to int, text string) {
	width := len(grid[row])
	for i, ch := range text {
		x := from + i
		if x >= to || x >= width {
			break
		}
		if x < 0 {
			continue
		}
		grid[row][x] = ch
	}
}

// drawArrow draws the segment between the two rectangles' anchor
// points, ending in a direction glyph at the target.
func (s *Session) drawArrow(grid [][]rune, from, to Rect) {
	pa, pb := connectionAnchors(from, to)
	ax, ay := s.cellOfWorld(pa)
	bx, by := s.cellOfWorld(pb)
	s.drawLineCells(grid, ax, ay, bx, by)

	height := len(grid)
	width := len(grid[0])
	if by >= 0 && by < height && bx >= 0 && bx < width {
		grid[by][bx] = arrowHead(bx-ax, by-ay)
	}
}

func arrowHead(dx, dy int) rune {
	if abs(dx) >= abs(dy) {
		if dx >= 0 {
			return '>'
		}
		return '<'
	}
	if dy >= 0 {
		return 'v'
	}
	return '^'
}

// drawLineCells walks the segment one cell at a time, choosing a glyph
// by slope.
func (s *Session) drawLineCells(grid [][]rune, ax, ay, bx, by int) {
	height := len(grid)
	width := len(grid[0])

	dx := bx - ax
	dy := by - ay
	steps := abs(dx)
	if abs(dy) > steps {
		steps = abs(dy)
	}
	if steps == 0 {
		return
	}

	glyph := '-'
	switch {
	case abs(dx) >= 2*abs(dy):
		glyph = '-'
	case abs(dy) >= 2*abs(dx):
		glyph = '|'
	case (dx > 0) == (dy > 0):
		glyph = '\\'
	default:
		glyph = '/'
	}

	for i := 0; i <= steps; i++ {
		x := ax + dx*i/steps
		y := ay + dy*i/steps
		if y < 0 || y >= height || x < 0 || x >= width {
			continue
		}
		if grid[y][x] == ' ' || grid[y][x] == '.' {
			grid[y][x] = glyph
		}
	}
}

// drawOffscreenIndicators marks viewport edges that have cards beyond
// them, the affordance behind directional navigation.
func (s *Session) drawOffscreenIndicators(grid [][]rune) {
	height := len(grid)
	width := len(grid[0])
	v := s.Visibility(float64(width)*cellPxW, float64(height)*cellPxH)
	if !v.Any() {
		return
	}

	midY := height / 2
	midX := width / 2
	if v.Left && midY < height {
		grid[midY][0] = '<'
	}
	if v.Right && midY < height {
		grid[midY][width-1] = '>'
	}
	if v.Up && midX < width {
		grid[0][midX] = '^'
	}
	if v.Down && midX < width {
		grid[height-1][midX] = 'v'
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
