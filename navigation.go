package main

import (
	"plotboard/internal/geom"
	"plotboard/internal/interact"
)

// handlePan scrolls the view with the arrow keys. It goes through the wheel
// path so a keyboard pan stops auto-framing like any other manual move.
func (m *model) handlePan(key string) {
	step := float64(panCells*m.getMoveSpeed(key)) * cellWidth
	var dx, dy float64
	switch key {
	case "left", "shift+left":
		dx = -step
	case "right", "shift+right":
		dx = step
	case "up", "shift+up":
		dy = -step * cellHeight / cellWidth
	case "down", "shift+down":
		dy = step * cellHeight / cellWidth
	}
	m.engine.Wheel(interact.WheelEvent{DeltaX: dx, DeltaY: dy})
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}

// sidebarCols is the sidebar width in cells, leaving the canvas at least
// half the terminal.
func (m *model) sidebarCols() int {
	cols := m.prefs.SidebarWidth() / cellWidth
	return max(0, min(cols, m.width/2))
}

func (m *model) canvasCols() int { return max(1, m.width-m.sidebarCols()) }

// canvasRows leaves the bottom row for the status line.
func (m *model) canvasRows() int { return max(1, m.height-1) }

// resize pushes the canvas area to the camera as its pixel viewport.
func (m *model) resize() {
	m.engine.SetViewport(float64(m.canvasCols()*cellWidth), float64(m.canvasRows()*cellHeight))
	w := max(10, m.sidebarCols()-4)
	m.chat.Width = w
	m.rename.Width = w
	m.pinContent.Width = w
}

// viewCenter is the canvas point under the middle of the viewport.
func (m *model) viewCenter() geom.Point {
	vp := m.engine.Viewport()
	return geom.ToCanvas(geom.Point{X: vp.Width / 2, Y: vp.Height / 2}, m.engine.CameraPose())
}

// inCanvas reports whether a terminal cell lies over the canvas area.
func (m *model) inCanvas(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.canvasCols() && y < m.canvasRows()
}
