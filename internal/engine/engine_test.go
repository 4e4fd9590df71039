package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plotboard/internal/autoframe"
	"plotboard/internal/board"
	"plotboard/internal/config"
	"plotboard/internal/geom"
	"plotboard/internal/interact"
	"plotboard/internal/section"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e := New(DefaultOptions(), nil)
	e.SetViewport(1000, 800)
	return e
}

func mustCreate(t *testing.T, e *Engine, n board.Node) string {
	t.Helper()
	id, err := e.CreateEntity(n)
	require.NoError(t, err)
	return id
}

func down(e *Engine, x, y float64) { e.PointerDown(interact.PointerEvent{Pos: geom.Point{X: x, Y: y}}) }
func move(e *Engine, x, y float64) { e.PointerMove(interact.PointerEvent{Pos: geom.Point{X: x, Y: y}}) }
func up(e *Engine, x, y float64)   { e.PointerUp(interact.PointerEvent{Pos: geom.Point{X: x, Y: y}}) }

func TestZoomKeepsViewportCenter(t *testing.T) {
	e := newEngine(t)
	e.SetCameraPose(geom.View{X: 0, Y: -100, Scale: 1})
	center := geom.ToCanvas(geom.Point{X: 500, Y: 400}, e.CameraPose())

	e.ZoomIn()
	e.ZoomIn()

	assert.InDelta(t, 1.2, e.CameraPose().Scale, 1e-9)
	after := geom.ToCanvas(geom.Point{X: 500, Y: 400}, e.CameraPose())
	assert.InDelta(t, center.X, after.X, 1e-6)
	assert.InDelta(t, center.Y, after.Y, 1e-6)
}

func TestZoomClamps(t *testing.T) {
	e := newEngine(t)
	for i := 0; i < 50; i++ {
		e.ZoomIn()
	}
	assert.Equal(t, 3.0, e.CameraPose().Scale)
	for i := 0; i < 50; i++ {
		e.ZoomOut()
	}
	assert.InDelta(t, 0.1, e.CameraPose().Scale, 1e-9)
}

func TestFocusFollowsWorkflowMoves(t *testing.T) {
	e := newEngine(t)
	id := mustCreate(t, e, board.Node{ID: "spec", Kind: board.KindDocument, X: 2000, Y: 1000})
	e.SetFocus(autoframe.Single(id))
	require.True(t, e.Following())

	for _, x := range []float64{2200, 2600, 3100} {
		e.UpdateEntityPosition(id, x, 1000)
		n, _ := e.Node(id)
		c := geom.ToScreen(n.Rect().Center(), e.CameraPose())
		assert.InDelta(t, 500, c.X, 1e-6)
		assert.InDelta(t, 400, c.Y, 1e-6)
		assert.LessOrEqual(t, e.CameraPose().Scale, 0.6)
	}
}

func TestManualPanDisengagesAutoFraming(t *testing.T) {
	e := newEngine(t)
	id := mustCreate(t, e, board.Node{ID: "spec", Kind: board.KindDocument, X: 2000, Y: 1000})
	e.SetFocus(autoframe.Single(id))

	e.Wheel(interact.WheelEvent{DeltaX: 120})
	assert.False(t, e.Following())
	pose := e.CameraPose()

	e.UpdateEntityPosition(id, 5000, 5000)
	assert.Equal(t, pose, e.CameraPose())

	// Re-sending the same focus does not re-engage.
	e.SetFocus(autoframe.Single(id))
	assert.False(t, e.Following())
	assert.Equal(t, pose, e.CameraPose())
}

func TestUserDragDoesNotFightFraming(t *testing.T) {
	e := newEngine(t)
	id := mustCreate(t, e, board.Node{ID: "a", Kind: board.KindTask, X: 0, Y: 0})
	e.SetFocus(autoframe.Single(id))
	pose := e.CameraPose()

	n, _ := e.Node(id)
	c := geom.ToScreen(n.Rect().Center(), pose)
	down(e, c.X, c.Y)
	move(e, c.X+60, c.Y+30)
	up(e, c.X+60, c.Y+30)

	assert.False(t, e.Following())
	assert.Equal(t, pose, e.CameraPose())
	moved, _ := e.Node(id)
	assert.InDelta(t, 60/pose.Scale, moved.X, 1e-6)
	assert.InDelta(t, 30/pose.Scale, moved.Y, 1e-6)
}

func TestGroupFocusFramesAllMembers(t *testing.T) {
	e := newEngine(t)
	mustCreate(t, e, board.Node{ID: "a", Kind: board.KindTask, X: 0, Y: 0, GroupID: "g"})
	mustCreate(t, e, board.Node{ID: "b", Kind: board.KindTask, X: 1200, Y: 900, GroupID: "g"})

	e.SetFocus(autoframe.Group(e.GroupMembers("g")...))

	vis := e.VisibleRect()
	for _, id := range []string{"a", "b"} {
		n, _ := e.Node(id)
		r := n.Rect()
		assert.True(t, vis.Contains(r.Origin()), id)
		assert.True(t, vis.Contains(geom.Point{X: r.MaxX(), Y: r.MaxY()}), id)
	}
}

func TestDrawThroughEngine(t *testing.T) {
	e := newEngine(t)
	var selected []string
	e.OnSelectionChange(func(ids []string) { selected = ids })
	e.Machine().SetTool(interact.Create(board.KindDocument))

	down(e, 100, 100)
	move(e, 300, 300)
	up(e, 300, 300)

	nodes := e.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, geom.Rect{X: 100, Y: 100, Width: 200, Height: 200}, nodes[0].Rect())
	assert.Equal(t, []string{nodes[0].ID}, selected)
	assert.Equal(t, interact.Select, e.Machine().Tool())
}

func TestDeletePrunesSelectionAndCascades(t *testing.T) {
	e := newEngine(t)
	a := mustCreate(t, e, board.Node{ID: "a", Kind: board.KindTask})
	b := mustCreate(t, e, board.Node{ID: "b", Kind: board.KindTask, X: 500})
	_, err := e.AddEdge(board.Edge{From: a, To: b, Kind: board.EdgeFlow})
	require.NoError(t, err)
	e.AddPin(board.Pin{X: 10, Y: 10, TargetNodeID: a})
	e.Select(a, b)

	assert.Equal(t, 1, e.DeleteEntities([]string{a}))
	assert.Equal(t, []string{b}, e.Selection())
	assert.Empty(t, e.Edges())
	assert.Empty(t, e.Pins())
}

func TestEdgeToUnknownNode(t *testing.T) {
	e := newEngine(t)
	mustCreate(t, e, board.Node{ID: "a", Kind: board.KindTask})
	_, err := e.AddEdge(board.Edge{From: "a", To: "ghost"})
	assert.ErrorIs(t, err, board.ErrDanglingEdge)
}

func TestPinToolPlacesPin(t *testing.T) {
	e := newEngine(t)
	mustCreate(t, e, board.Node{ID: "a", Kind: board.KindTask, X: 0, Y: 0})
	var placed []string
	e.OnPinPlaced(func(id string) { placed = append(placed, id) })
	e.Machine().SetTool(interact.Pin)

	down(e, 20, 20)
	up(e, 20, 20)

	require.Len(t, placed, 1)
	pins := e.Pins()
	require.Len(t, pins, 1)
	assert.Equal(t, placed[0], pins[0].ID)
	assert.Equal(t, "a", pins[0].TargetNodeID)
	assert.Equal(t, interact.Pin, e.Machine().Tool())

	assert.True(t, e.SetPinContent(pins[0].ID, "check copy"))
	assert.Equal(t, "check copy", e.Pins()[0].Content)
}

func TestMentionListener(t *testing.T) {
	e := newEngine(t)
	mustCreate(t, e, board.Node{ID: "a", Kind: board.KindTask})
	var got string
	e.OnMention(func(id string) { got = id })
	assert.True(t, e.KeyDown(interact.KeyEvent{Key: "v"}))
	e.Machine().SetMentionMode(true)

	down(e, 10, 10)
	up(e, 10, 10)
	assert.Equal(t, "a", got)
}

func TestSectionRenameAndTheme(t *testing.T) {
	e := newEngine(t)
	mustCreate(t, e, board.Node{ID: "a", Kind: board.KindTask, GroupID: "auth"})
	manual := e.AddManualSection(geom.Rect{X: 2000, Y: 0, Width: 600, Height: 400}, "Section")

	require.True(t, e.RenameSection("auth", "Auth flow"))
	require.True(t, e.RenameSection(manual, "Backlog"))
	theme, ok := e.CycleSectionTheme("auth")
	require.True(t, ok)
	assert.Equal(t, board.NextTheme(board.ThemeSlate), theme)

	s, _ := e.Section("auth")
	assert.Equal(t, section.KindAuto, s.Kind)
	assert.Equal(t, "Auth flow", s.Title)
	assert.Equal(t, theme, s.Theme)
	m, _ := e.Section(manual)
	assert.Equal(t, "Backlog", m.Title)

	assert.False(t, e.RenameSection("nope", "x"))
	_, ok = e.CycleSectionTheme("nope")
	assert.False(t, ok)

	assert.True(t, e.DeleteSection(manual))
	_, ok = e.Section(manual)
	assert.False(t, ok)
}

func TestUngroupRemovesAutoSection(t *testing.T) {
	e := newEngine(t)
	mustCreate(t, e, board.Node{ID: "a", Kind: board.KindTask, GroupID: "g"})
	require.Len(t, e.Sections(), 1)

	assert.True(t, e.UpdateEntityGroup("a", ""))
	assert.Empty(t, e.Sections())
}

func TestFitAllAndPanTo(t *testing.T) {
	e := newEngine(t)
	mustCreate(t, e, board.Node{ID: "a", Kind: board.KindTask, X: -3000, Y: 0})
	mustCreate(t, e, board.Node{ID: "b", Kind: board.KindTask, X: 3000, Y: 2000})
	e.SetFocus(autoframe.Single("a"))

	require.True(t, e.FitAll())
	assert.False(t, e.Following())
	vis := e.VisibleRect()
	assert.True(t, vis.Contains(geom.Point{X: -3000, Y: 0}))
	assert.True(t, vis.Contains(geom.Point{X: 3300, Y: 2180}))

	scale := e.CameraPose().Scale
	require.True(t, e.PanTo("b"))
	n, _ := e.Node("b")
	c := geom.ToScreen(n.Rect().Center(), e.CameraPose())
	assert.InDelta(t, 500, c.X, 1e-6)
	assert.InDelta(t, 400, c.Y, 1e-6)
	assert.Equal(t, scale, e.CameraPose().Scale)
	assert.False(t, e.PanTo("ghost"))
}

func TestFitAllEmptyBoard(t *testing.T) {
	e := newEngine(t)
	pose := e.CameraPose()
	assert.False(t, e.FitAll())
	assert.Equal(t, pose, e.CameraPose())
}

func TestCommitOnlyOnChange(t *testing.T) {
	e := newEngine(t)
	assert.False(t, e.Commit())
	e.board.SetTitle("none", "x")
	assert.False(t, e.Commit())
	_, err := e.board.AddNode(board.Node{Kind: board.KindTask})
	require.NoError(t, err)
	assert.True(t, e.Commit())
	assert.False(t, e.Commit())
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Canvas.MaxScale = 2
	cfg.Framing.SingleScaleCap = 0.5
	cfg.Sections.Padding = 60

	opts := OptionsFromConfig(cfg)
	assert.Equal(t, 2.0, opts.MaxScale)
	assert.Equal(t, 0.5, opts.Framing.SingleScaleCap)
	assert.Equal(t, 60.0, opts.SectionPadding)
	assert.Equal(t, 5.0, opts.Interact.DragThreshold)

	e := New(opts, nil)
	for i := 0; i < 40; i++ {
		e.ZoomIn()
	}
	assert.Equal(t, 2.0, e.CameraPose().Scale)
}
