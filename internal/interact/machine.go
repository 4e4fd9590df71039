// Package interact turns pointer, wheel and keyboard input into entity and
// camera mutations depending on the active tool and what was pressed.
package interact

import (
	"sort"

	"plotboard/internal/board"
	"plotboard/internal/camera"
	"plotboard/internal/geom"
	"plotboard/internal/section"
)

// Scene is the read side the machine hit-tests against.
type Scene interface {
	Node(id string) (board.Node, bool)
	HitTest(p geom.Point) (string, bool)
	Sections() []section.Section
}

// Mutator is the single mutation path shared with the scripted workflow.
type Mutator interface {
	BatchTranslate(moves []board.Translation) int
	ResizeEntity(id string, width, height float64) bool
	CreateEntity(n board.Node) (string, error)
	AddManualSection(r geom.Rect, title string) string
	MoveManualSection(id string, dx, dy float64) bool
	DeleteEntities(ids []string) int
}

// Hooks are optional callbacks fired by the machine.
type Hooks struct {
	// Disengage runs before any user pan, zoom or drag touches the camera
	// or the board, so auto-framing never fights the user.
	Disengage        func()
	PinRequested     func(p geom.Point)
	Mentioned        func(id string)
	SelectionChanged func(ids []string)
	SectionActivated func(id string)
}

type Options struct {
	// DragThreshold separates a click from a drag, in screen pixels.
	DragThreshold float64
	// MinDrawSize is the smallest width and height a draw may create.
	MinDrawSize float64
	ZoomStep    float64
	// HandleSize is the resize handle reach from a node's bottom-right
	// corner, in screen pixels.
	HandleSize float64
}

func DefaultOptions() Options {
	return Options{
		DragThreshold: 5,
		MinDrawSize:   50,
		ZoomStep:      0.1,
		HandleSize:    10,
	}
}

type PointerEvent struct {
	Pos  geom.Point
	Mods Modifiers
}

type WheelEvent struct {
	DeltaX float64
	DeltaY float64
	Mods   Modifiers
	Pinch  bool
}

type KeyEvent struct {
	Key         string
	InTextInput bool
}

type dragKind int

const (
	dragNone dragKind = iota
	dragNodes
	dragResize
	dragPan
	dragDraw
	dragSection
	dragCanvasClick
)

type dragState struct {
	kind  dragKind
	start geom.Point
	last  geom.Point
	moved bool

	anchor string
	offset geom.Point

	origin  geom.Point
	current geom.Point

	section section.Section
	applied geom.Point
}

type Machine struct {
	scene Scene
	mut   Mutator
	cam   *camera.Camera
	hooks Hooks
	opts  Options

	tool    Tool
	restore Tool
	overlay bool

	drag          dragState
	selection     map[string]struct{}
	hover         string
	mention       bool
	activeSection string
}

func New(scene Scene, mut Mutator, cam *camera.Camera, hooks Hooks, opts Options) *Machine {
	return &Machine{
		scene:     scene,
		mut:       mut,
		cam:       cam,
		hooks:     hooks,
		opts:      opts,
		tool:      Select,
		selection: make(map[string]struct{}),
	}
}

func (m *Machine) Tool() Tool { return m.tool }

// HandOverlay reports whether the hand tool is only held by the space key.
func (m *Machine) HandOverlay() bool { return m.overlay }

func (m *Machine) Hover() string { return m.hover }

func (m *Machine) MentionMode() bool { return m.mention }

func (m *Machine) ActiveSection() string { return m.activeSection }

func (m *Machine) Dragging() bool { return m.drag.kind != dragNone }

// SetTool switches tools, dropping any space overlay and in-flight draw.
func (m *Machine) SetTool(t Tool) {
	m.overlay = false
	if m.drag.kind == dragDraw {
		m.drag = dragState{}
	}
	m.tool = t
}

func (m *Machine) SetMentionMode(on bool) { m.mention = on }

// Ghost is the rectangle being drawn by a create or section tool.
func (m *Machine) Ghost() (geom.Rect, bool) {
	if m.drag.kind != dragDraw {
		return geom.Rect{}, false
	}
	return geom.RectFromPoints(m.drag.origin, m.drag.current), true
}

// Selection returns the selected ids in sorted order.
func (m *Machine) Selection() []string {
	ids := make([]string, 0, len(m.selection))
	for id := range m.selection {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *Machine) Selected(id string) bool {
	_, ok := m.selection[id]
	return ok
}

func (m *Machine) SetSelection(ids ...string) {
	m.selection = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m.selection[id] = struct{}{}
	}
	m.selectionChanged()
}

func (m *Machine) ClearSelection() {
	if len(m.selection) == 0 {
		return
	}
	m.selection = make(map[string]struct{})
	m.selectionChanged()
}

// Forget drops deleted ids from selection, hover and any drag anchored on them.
func (m *Machine) Forget(ids []string) {
	changed := false
	for _, id := range ids {
		if _, ok := m.selection[id]; ok {
			delete(m.selection, id)
			changed = true
		}
		if m.hover == id {
			m.hover = ""
		}
		if m.drag.anchor == id {
			m.drag = dragState{}
		}
	}
	if changed {
		m.selectionChanged()
	}
}

func (m *Machine) ForgetSection(id string) {
	if m.activeSection == id {
		m.activeSection = ""
	}
	if m.drag.kind == dragSection && m.drag.section.ID == id {
		m.drag = dragState{}
	}
}

func (m *Machine) PointerDown(ev PointerEvent) {
	p := m.toCanvas(ev.Pos)
	m.drag = dragState{start: ev.Pos, last: ev.Pos}

	switch m.tool.Kind {
	case ToolHand:
		m.drag.kind = dragPan
		return
	case ToolPin:
		m.drag = dragState{}
		if m.hooks.PinRequested != nil {
			m.hooks.PinRequested(p)
		}
		return
	case ToolCreate, ToolSection:
		m.drag.kind = dragDraw
		m.drag.origin = p
		m.drag.current = p
		return
	}

	id, hit := m.scene.HitTest(p)
	if hit && m.mention {
		m.drag = dragState{}
		m.mention = false
		if m.hooks.Mentioned != nil {
			m.hooks.Mentioned(id)
		}
		return
	}
	if hit {
		m.pressNode(id, p, ev)
		return
	}
	if s, ok := section.HitHeader(m.scene.Sections(), p); ok {
		m.drag.kind = dragSection
		m.drag.section = s
		m.drag.origin = p
		m.activeSection = s.ID
		if m.hooks.SectionActivated != nil {
			m.hooks.SectionActivated(s.ID)
		}
		return
	}
	m.drag.kind = dragCanvasClick
}

func (m *Machine) pressNode(id string, p geom.Point, ev PointerEvent) {
	node, ok := m.scene.Node(id)
	if !ok {
		m.drag = dragState{}
		return
	}

	corner := geom.ToScreen(geom.Point{X: node.Rect().MaxX(), Y: node.Rect().MaxY()}, m.cam.Pose())
	if !ev.Mods.additive() && ev.Pos.Dist(corner) <= m.opts.HandleSize {
		if !m.Selected(id) || len(m.selection) != 1 {
			m.SetSelection(id)
		}
		m.drag.kind = dragResize
		m.drag.anchor = id
		m.drag.offset = geom.Point{X: node.Rect().MaxX() - p.X, Y: node.Rect().MaxY() - p.Y}
		return
	}

	selected := m.Selected(id)
	switch {
	case ev.Mods.additive() && selected:
		delete(m.selection, id)
		m.selectionChanged()
		m.drag = dragState{}
		return
	case ev.Mods.additive():
		m.selection[id] = struct{}{}
		m.selectionChanged()
	case selected && len(m.selection) > 1:
		// keep the multi-selection so the whole set moves
	case selected:
	default:
		m.SetSelection(id)
	}

	m.drag.kind = dragNodes
	m.drag.anchor = id
	m.drag.offset = p.Sub(node.Origin())
}

func (m *Machine) PointerMove(ev PointerEvent) {
	p := m.toCanvas(ev.Pos)
	if ev.Pos.Dist(m.drag.start) >= m.opts.DragThreshold {
		m.drag.moved = true
	}

	switch m.drag.kind {
	case dragNone:
		m.hover, _ = m.scene.HitTest(p)
	case dragPan:
		d := ev.Pos.Sub(m.drag.last)
		if d.X != 0 || d.Y != 0 {
			m.disengage()
			m.cam.PanBy(d.X, d.Y)
		}
	case dragNodes:
		m.moveNodes(p)
	case dragResize:
		node, ok := m.scene.Node(m.drag.anchor)
		if !ok {
			m.drag = dragState{}
			return
		}
		m.disengage()
		m.mut.ResizeEntity(node.ID, p.X+m.drag.offset.X-node.X, p.Y+m.drag.offset.Y-node.Y)
	case dragDraw:
		m.drag.current = p
	case dragSection:
		m.moveSection(p)
	}
	m.drag.last = ev.Pos
}

// moveNodes computes one delta from the anchor node and applies it to the
// whole selection in a single batch.
func (m *Machine) moveNodes(p geom.Point) {
	node, ok := m.scene.Node(m.drag.anchor)
	if !ok {
		m.drag = dragState{}
		return
	}
	target := p.Sub(m.drag.offset)
	dx, dy := target.X-node.X, target.Y-node.Y
	if dx == 0 && dy == 0 {
		return
	}
	m.disengage()

	ids := m.Selection()
	if !m.Selected(m.drag.anchor) {
		ids = []string{m.drag.anchor}
	}
	moves := make([]board.Translation, 0, len(ids))
	for _, id := range ids {
		moves = append(moves, board.Translation{ID: id, DX: dx, DY: dy})
	}
	m.mut.BatchTranslate(moves)
}

// moveSection applies the increment between the cumulative pointer delta
// and what has already been applied.
func (m *Machine) moveSection(p geom.Point) {
	total := p.Sub(m.drag.origin)
	inc := total.Sub(m.drag.applied)
	if inc.X == 0 && inc.Y == 0 {
		return
	}
	m.disengage()
	s := m.drag.section
	if s.Kind == section.KindAuto {
		m.mut.BatchTranslate(section.Translations(s, inc.X, inc.Y))
	} else {
		m.mut.MoveManualSection(s.ID, inc.X, inc.Y)
	}
	m.drag.applied = total
}

func (m *Machine) PointerUp(ev PointerEvent) {
	if m.drag.kind == dragNone {
		return
	}
	m.PointerMove(ev)
	d := m.drag
	m.drag = dragState{}

	switch d.kind {
	case dragCanvasClick:
		if !d.moved {
			m.ClearSelection()
			m.activeSection = ""
		}
	case dragDraw:
		m.finishDraw(geom.RectFromPoints(d.origin, d.current))
	}
}

func (m *Machine) finishDraw(r geom.Rect) {
	if r.Width < m.opts.MinDrawSize || r.Height < m.opts.MinDrawSize {
		return
	}
	switch m.tool.Kind {
	case ToolSection:
		id := m.mut.AddManualSection(r, "Section")
		m.activeSection = id
	case ToolCreate:
		id, err := m.mut.CreateEntity(board.Node{
			Kind:   m.tool.Shape,
			X:      r.X,
			Y:      r.Y,
			Width:  r.Width,
			Height: r.Height,
			Title:  "Untitled " + m.tool.Shape.String(),
			Status: board.StatusDone,
		})
		if err != nil {
			return
		}
		m.SetSelection(id)
	default:
		return
	}
	m.tool = Select
	m.overlay = false
}

// Cancel abandons any drag or draw without finishing it.
func (m *Machine) Cancel() {
	m.drag = dragState{}
}

func (m *Machine) Wheel(ev WheelEvent) {
	if ev.DeltaX == 0 && ev.DeltaY == 0 {
		return
	}
	m.disengage()
	m.cam.Wheel(ev.DeltaX, ev.DeltaY, ev.Pinch || ev.Mods.zoom())
}

func (m *Machine) ZoomIn() {
	m.disengage()
	m.cam.ZoomAroundViewportCenter(m.opts.ZoomStep)
}

func (m *Machine) ZoomOut() {
	m.disengage()
	m.cam.ZoomAroundViewportCenter(-m.opts.ZoomStep)
}

// DeleteSelection removes every selected node; edges and pins cascade.
func (m *Machine) DeleteSelection() int {
	ids := m.Selection()
	if len(ids) == 0 {
		return 0
	}
	n := m.mut.DeleteEntities(ids)
	m.Forget(ids)
	return n
}

// KeyDown handles canvas shortcuts and reports whether the key was used.
// Nothing fires while focus is in a text input.
func (m *Machine) KeyDown(ev KeyEvent) bool {
	if ev.InTextInput {
		return false
	}
	switch normalizeKey(ev.Key) {
	case "space":
		if !m.overlay && m.tool.Kind != ToolHand {
			m.restore = m.tool
			m.tool = Hand
			m.overlay = true
		}
	case "+", "=":
		m.ZoomIn()
	case "-", "_":
		m.ZoomOut()
	case "v":
		m.SetTool(Select)
	case "h":
		m.SetTool(Hand)
	case "p":
		m.SetTool(Pin)
	case "escape":
		m.ClearSelection()
		m.mention = false
		if m.drag.kind == dragDraw {
			m.drag = dragState{}
		}
	case "delete", "backspace":
		m.DeleteSelection()
	default:
		return false
	}
	return true
}

func (m *Machine) KeyUp(ev KeyEvent) bool {
	if normalizeKey(ev.Key) != "space" || !m.overlay {
		return false
	}
	m.tool = m.restore
	m.overlay = false
	if m.drag.kind == dragPan {
		m.drag = dragState{}
	}
	return true
}

func normalizeKey(k string) string {
	switch k {
	case " ", "space":
		return "space"
	case "esc", "escape":
		return "escape"
	case "del", "delete":
		return "delete"
	}
	return k
}

func (m *Machine) toCanvas(p geom.Point) geom.Point {
	return geom.ToCanvas(p, m.cam.Pose())
}

func (m *Machine) disengage() {
	if m.hooks.Disengage != nil {
		m.hooks.Disengage()
	}
}

func (m *Machine) selectionChanged() {
	if m.hooks.SelectionChanged != nil {
		m.hooks.SelectionChanged(m.Selection())
	}
}
