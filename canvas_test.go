package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plotboard/internal/board"
	"plotboard/internal/engine"
	"plotboard/internal/geom"
)

func newTestEngine(t *testing.T, cols, rows int) *engine.Engine {
	t.Helper()
	e := engine.New(engine.DefaultOptions(), nil)
	e.SetViewport(float64(cols*cellWidth), float64(rows*cellHeight))
	return e
}

func TestCellMapping(t *testing.T) {
	assert.Equal(t, geom.Point{X: 4, Y: 8}, pixelOf(0, 0))
	assert.Equal(t, geom.Point{X: 84, Y: 56}, pixelOf(10, 3))

	x, y := cellOf(pixelOf(10, 3))
	assert.Equal(t, 10, x)
	assert.Equal(t, 3, y)

	x, y = cellOf(geom.Point{X: -1, Y: -1})
	assert.Equal(t, -1, x)
	assert.Equal(t, -1, y)
}

func TestCellRect(t *testing.T) {
	x0, y0, x1, y1 := cellRect(geom.Rect{X: 16, Y: 32, Width: 80, Height: 48}, geom.View{Scale: 1})
	assert.Equal(t, []int{2, 2, 11, 4}, []int{x0, y0, x1, y1})

	// Zoomed out far enough to vanish, a rect still takes one cell.
	x0, y0, x1, y1 = cellRect(geom.Rect{X: 0, Y: 0, Width: 10, Height: 10}, geom.View{Scale: 0.1})
	assert.Equal(t, []int{0, 0, 0, 0}, []int{x0, y0, x1, y1})
}

func TestGridTextTruncates(t *testing.T) {
	g := newGrid(8, 1)
	g.text(0, 0, "plotboard", 5, styleNode)
	assert.Equal(t, "plot…   ", g.plain()[0])

	g.text(6, 0, "xyz", 5, styleNode)
	assert.Equal(t, "plot… xy", g.plain()[0])
}

func TestRenderNodeBox(t *testing.T) {
	e := newTestEngine(t, 40, 12)
	id, err := e.CreateEntity(board.Node{
		Kind: board.KindTask, X: 16, Y: 32, Width: 160, Height: 80,
		Title: "Sprint", Status: board.StatusDone,
		Payload: board.TaskPayload{Items: []string{"auth"}, Done: 1},
	})
	require.NoError(t, err)

	g := renderCanvas(e, 40, 12)
	assert.Equal(t, '┌', g.at(2, 2))
	assert.Equal(t, '┐', g.at(21, 2))
	assert.Equal(t, '┘', g.at(21, 6))
	lines := g.plain()
	assert.Contains(t, lines[3], "Sprint")
	assert.Contains(t, lines[4], "task · done")
	assert.Contains(t, lines[5], "[x] auth")

	e.Select(id)
	g = renderCanvas(e, 40, 12)
	assert.Equal(t, '╔', g.at(2, 2))
}

func TestRenderEdgeArrow(t *testing.T) {
	e := newTestEngine(t, 80, 10)
	a, _ := e.CreateEntity(board.Node{Kind: board.KindTask, X: 0, Y: 0, Width: 80, Height: 64, Status: board.StatusDone})
	b, _ := e.CreateEntity(board.Node{Kind: board.KindTask, X: 320, Y: 0, Width: 80, Height: 64, Status: board.StatusDone})
	_, err := e.AddEdge(board.Edge{From: a, To: b, Label: "next"})
	require.NoError(t, err)

	lines := renderCanvas(e, 80, 10).plain()
	assert.Contains(t, lines[2], "─")
	assert.Contains(t, lines[2], "▶")
	assert.Contains(t, lines[2], "next")
}

func TestRenderSectionTitle(t *testing.T) {
	e := newTestEngine(t, 80, 30)
	e.AddManualSection(geom.Rect{X: 0, Y: 0, Width: 400, Height: 320}, "Backlog")
	lines := renderCanvas(e, 80, 30).plain()
	assert.True(t, strings.HasPrefix(lines[0], "┌┄ Backlog "), lines[0])
}

func TestStyledKeepsWidth(t *testing.T) {
	e := newTestEngine(t, 30, 6)
	_, _ = e.CreateEntity(board.Node{Kind: board.KindTask, X: 8, Y: 16, Width: 80, Height: 48})
	g := renderCanvas(e, 30, 6)
	for i, line := range g.styled() {
		assert.Equal(t, g.plain()[i], stripANSI(line))
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func TestEdgeGlyph(t *testing.T) {
	assert.Equal(t, '─', edgeGlyph(board.EdgeFlow, 10, 1))
	assert.Equal(t, '│', edgeGlyph(board.EdgeFlow, 1, 10))
	assert.Equal(t, '╲', edgeGlyph(board.EdgeFlow, 5, 5))
	assert.Equal(t, '╱', edgeGlyph(board.EdgeFlow, -5, 5))
	assert.Equal(t, '┄', edgeGlyph(board.EdgeDependency, 10, 0))
	assert.Equal(t, '·', edgeGlyph(board.EdgeData, 0, 10))
}
