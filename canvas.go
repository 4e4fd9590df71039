package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"plotboard/internal/board"
	"plotboard/internal/engine"
	"plotboard/internal/geom"
	"plotboard/internal/section"
)

// Style keys for grid cells. Section cells use themeStyle(theme).
const (
	styleNone     = ""
	styleNode     = "node"
	styleSelected = "selected"
	styleHover    = "hover"
	styleLoading  = "loading"
	styleError    = "error"
	styleMuted    = "muted"
	styleEdge     = "edge"
	stylePin      = "pin"
	styleGhost    = "ghost"
)

func themeStyle(t board.Theme) string { return "theme:" + t.Hex() }

var baseStyles = map[string]lipgloss.Style{
	styleNode:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	styleSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
	styleHover:    lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
	styleLoading:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	styleError:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	styleMuted:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	styleEdge:     lipgloss.NewStyle().Foreground(lipgloss.Color("110")),
	stylePin:      lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true),
	styleGhost:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Faint(true),
}

func lookupStyle(key string) (lipgloss.Style, bool) {
	if s, ok := baseStyles[key]; ok {
		return s, true
	}
	if hex, ok := strings.CutPrefix(key, "theme:"); ok {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)), true
	}
	return lipgloss.Style{}, false
}

type cell struct {
	r     rune
	style string
}

// grid is a fixed-size character surface. Writes outside it are dropped.
type grid struct {
	width, height int
	cells         []cell
}

func newGrid(width, height int) *grid {
	width, height = max(width, 0), max(height, 0)
	g := &grid{width: width, height: height, cells: make([]cell, width*height)}
	for i := range g.cells {
		g.cells[i].r = ' '
	}
	return g
}

func (g *grid) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

func (g *grid) set(x, y int, r rune, style string) {
	if g.inside(x, y) {
		g.cells[y*g.width+x] = cell{r: r, style: style}
	}
}

func (g *grid) at(x, y int) rune {
	if !g.inside(x, y) {
		return 0
	}
	return g.cells[y*g.width+x].r
}

// text writes s from (x, y), stopping after limit cells.
func (g *grid) text(x, y int, s string, limit int, style string) {
	rs := []rune(s)
	if len(rs) > limit {
		if limit <= 0 {
			return
		}
		rs = append(rs[:limit-1], '…')
	}
	for i, r := range rs {
		g.set(x+i, y, r, style)
	}
}

func (g *grid) fill(x0, y0, x1, y1 int, style string) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			g.set(x, y, ' ', style)
		}
	}
}

type boxGlyphs struct {
	tl, tr, bl, br, h, v rune
}

var (
	lightBox   = boxGlyphs{'┌', '┐', '└', '┘', '─', '│'}
	doubleBox  = boxGlyphs{'╔', '╗', '╚', '╝', '═', '║'}
	roundedBox = boxGlyphs{'╭', '╮', '╰', '╯', '─', '│'}
	dashedBox  = boxGlyphs{'┌', '┐', '└', '┘', '┄', '┆'}
)

func (g *grid) box(x0, y0, x1, y1 int, b boxGlyphs, style string) {
	for x := x0 + 1; x < x1; x++ {
		g.set(x, y0, b.h, style)
		g.set(x, y1, b.h, style)
	}
	for y := y0 + 1; y < y1; y++ {
		g.set(x0, y, b.v, style)
		g.set(x1, y, b.v, style)
	}
	g.set(x0, y0, b.tl, style)
	g.set(x1, y0, b.tr, style)
	g.set(x0, y1, b.bl, style)
	g.set(x1, y1, b.br, style)
}

// line draws a straight segment with Bresenham, picking a glyph from the
// overall slope.
func (g *grid) line(x0, y0, x1, y1 int, glyph rune, style string) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		g.set(x0, y0, glyph, style)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// plain is the grid as text, trailing blanks kept so rows line up.
func (g *grid) plain() []string {
	lines := make([]string, g.height)
	for y := range lines {
		var b strings.Builder
		for x := 0; x < g.width; x++ {
			b.WriteRune(g.cells[y*g.width+x].r)
		}
		lines[y] = b.String()
	}
	return lines
}

// styled renders each run of same-styled cells through lipgloss.
func (g *grid) styled() []string {
	lines := make([]string, g.height)
	for y := range lines {
		var b strings.Builder
		row := g.cells[y*g.width : (y+1)*g.width]
		for start := 0; start < len(row); {
			end := start
			var run []rune
			for end < len(row) && row[end].style == row[start].style {
				run = append(run, row[end].r)
				end++
			}
			if st, ok := lookupStyle(row[start].style); ok {
				b.WriteString(st.Render(string(run)))
			} else {
				b.WriteString(string(run))
			}
			start = end
		}
		lines[y] = b.String()
	}
	return lines
}

// cellOf maps a screen pixel to the terminal cell containing it.
func cellOf(p geom.Point) (int, int) {
	return int(math.Floor(p.X / cellWidth)), int(math.Floor(p.Y / cellHeight))
}

// pixelOf is the screen pixel at the centre of a terminal cell.
func pixelOf(x, y int) geom.Point {
	return geom.Point{X: float64(x*cellWidth + cellWidth/2), Y: float64(y*cellHeight + cellHeight/2)}
}

// cellRect maps a canvas rectangle to inclusive cell bounds. The result is
// never smaller than a single cell.
func cellRect(r geom.Rect, v geom.View) (x0, y0, x1, y1 int) {
	s := geom.RectToScreen(r, v)
	x0, y0 = cellOf(s.Origin())
	x1 = int(math.Ceil(s.MaxX()/cellWidth)) - 1
	y1 = int(math.Ceil(s.MaxY()/cellHeight)) - 1
	return x0, y0, max(x1, x0), max(y1, y0)
}

// renderCanvas draws the board as the engine's camera sees it onto a grid
// of cols x rows cells.
func renderCanvas(e *engine.Engine, cols, rows int) *grid {
	g := newGrid(cols, rows)
	v := e.CameraPose()
	m := e.Machine()

	for _, s := range e.Sections() {
		drawSectionCells(g, s, v, s.ID == m.ActiveSection())
	}

	nodes := make(map[string]board.Node)
	for _, n := range e.Nodes() {
		nodes[n.ID] = n
	}
	for _, edge := range e.Edges() {
		from, okFrom := nodes[edge.From]
		to, okTo := nodes[edge.To]
		if okFrom && okTo {
			drawEdgeCells(g, edge, from, to, v)
		}
	}

	hover := m.Hover()
	for _, n := range e.Nodes() {
		drawNodeCells(g, n, v, m.Selected(n.ID), n.ID == hover)
	}

	for _, p := range e.Pins() {
		x, y := cellOf(geom.ToScreen(geom.Point{X: p.X, Y: p.Y}, v))
		g.set(x, y, '◆', stylePin)
		if p.Content != "" {
			g.text(x+2, y, p.Content, 24, stylePin)
		}
	}

	if r, ok := m.Ghost(); ok {
		x0, y0, x1, y1 := cellRect(r, v)
		g.box(x0, y0, x1, y1, dashedBox, styleGhost)
	}
	return g
}

func drawSectionCells(g *grid, s section.Section, v geom.View, active bool) {
	x0, y0, x1, y1 := cellRect(s.Rect, v)
	glyphs := roundedBox
	if s.Kind == section.KindManual {
		glyphs = dashedBox
	}
	if active {
		glyphs = doubleBox
	}
	style := themeStyle(s.Theme)
	g.box(x0, y0, x1, y1, glyphs, style)
	if s.Title != "" {
		g.text(x0+2, y0, " "+s.Title+" ", x1-x0-3, style)
	}
}

func drawEdgeCells(g *grid, e board.Edge, from, to board.Node, v geom.View) {
	fr, tr := from.Rect(), to.Rect()
	a := geom.ToScreen(fr.BorderToward(tr.Center()), v)
	b := geom.ToScreen(tr.BorderToward(fr.Center()), v)
	// Step each end one pixel off its border so it lands outside the box.
	if d := b.Sub(a); math.Hypot(d.X, d.Y) > 2 {
		l := math.Hypot(d.X, d.Y)
		u := geom.Point{X: d.X / l, Y: d.Y / l}
		a, b = a.Add(u), b.Sub(u)
	}
	x0, y0 := cellOf(a)
	x1, y1 := cellOf(b)

	g.line(x0, y0, x1, y1, edgeGlyph(e.Kind, x1-x0, y1-y0), styleEdge)
	g.set(x1, y1, arrowHead(x1-x0, y1-y0), styleEdge)
	if e.Label != "" {
		mx, my := (x0+x1)/2, (y0+y1)/2
		g.text(mx-len([]rune(e.Label))/2, my, e.Label, 20, styleMuted)
	}
}

// edgeGlyph picks the segment character from the slope. Data edges are
// dotted, dependency edges dashed.
func edgeGlyph(k board.EdgeKind, dx, dy int) rune {
	ax, ay := abs(dx), abs(dy)
	switch {
	case k == board.EdgeData:
		return '·'
	case ay*2 <= ax:
		if k == board.EdgeDependency {
			return '┄'
		}
		return '─'
	case ax*2 <= ay:
		if k == board.EdgeDependency {
			return '┆'
		}
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	}
	return '╱'
}

func arrowHead(dx, dy int) rune {
	if abs(dx)*cellWidth >= abs(dy)*cellHeight {
		if dx < 0 {
			return '◀'
		}
		return '▶'
	}
	if dy < 0 {
		return '▲'
	}
	return '▼'
}

func nodeStatusStyle(s board.Status) string {
	switch s {
	case board.StatusLoading:
		return styleLoading
	case board.StatusError:
		return styleError
	}
	return styleNode
}

func drawNodeCells(g *grid, n board.Node, v geom.View, selected, hovered bool) {
	x0, y0, x1, y1 := cellRect(n.Rect(), v)
	g.fill(x0, y0, x1, y1, styleNone)

	glyphs, style := lightBox, nodeStatusStyle(n.Status)
	switch {
	case selected:
		glyphs, style = doubleBox, styleSelected
	case hovered && style == styleNode:
		style = styleHover
	}
	g.box(x0, y0, x1, y1, glyphs, style)

	inner := x1 - x0 - 1
	if inner <= 0 || y1-y0 < 2 {
		return
	}
	title := n.Title
	if title == "" {
		title = n.Kind.String()
	}
	g.text(x0+1, y0+1, title, inner, styleNode)

	y := y0 + 2
	if y < y1 {
		g.text(x0+1, y, n.Kind.String()+" · "+n.Status.String(), inner, styleMuted)
		y++
	}
	for _, line := range board.Lines(n.Payload) {
		if y >= y1 {
			break
		}
		g.text(x0+1, y, line, inner, styleMuted)
		y++
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
