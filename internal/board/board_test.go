package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plotboard/internal/geom"
)

func TestResolveSize(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want geom.Size
	}{
		{"document default", Node{Kind: KindDocument}, geom.Size{Width: 360, Height: 460}},
		{"mobile screen", Node{Kind: KindScreen, Payload: ScreenPayload{Variant: VariantMobile}}, geom.Size{Width: 280, Height: 560}},
		{"web screen", Node{Kind: KindScreen, Payload: ScreenPayload{Variant: VariantWeb}}, geom.Size{Width: 720, Height: 460}},
		{"explicit override", Node{Kind: KindTable, Width: 50, Height: 70}, geom.Size{Width: 50, Height: 70}},
		{"partial override", Node{Kind: KindTask, Width: 90}, geom.Size{Width: 90, Height: 180}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveSize(tt.node))
		})
	}
}

func TestBoundsOfUsesResolvedSizes(t *testing.T) {
	_, ok := BoundsOf(nil, 10)
	assert.False(t, ok)

	nodes := []Node{
		{Kind: KindTask, X: 0, Y: 0},
		{Kind: KindDocument, X: 400, Y: 100, Width: 100, Height: 100},
	}
	r, ok := BoundsOf(nodes, 20)
	require.True(t, ok)
	assert.Equal(t, geom.Rect{X: -20, Y: -20, Width: 540, Height: 240}, r)
}

func TestDeleteCascades(t *testing.T) {
	b := New()
	_, err := b.AddNode(Node{ID: "A", Kind: KindDocument})
	require.NoError(t, err)
	_, err = b.AddNode(Node{ID: "B", Kind: KindTable, X: 500})
	require.NoError(t, err)
	_, err = b.AddEdge(Edge{ID: "e1", From: "A", To: "B"})
	require.NoError(t, err)
	b.AddPin(Pin{ID: "p1", X: 10, Y: 10, TargetNodeID: "A"})
	b.AddPin(Pin{ID: "p2", X: 10, Y: 10})

	removed := b.Delete([]string{"A"})
	assert.Equal(t, 1, removed)

	_, ok := b.Node("A")
	assert.False(t, ok)
	nodeB, ok := b.Node("B")
	require.True(t, ok)
	assert.Equal(t, 500.0, nodeB.X)
	assert.Empty(t, b.Edges())
	require.Len(t, b.Pins(), 1)
	assert.Equal(t, "p2", b.Pins()[0].ID)
}

func TestDeleteUnknownIsNoop(t *testing.T) {
	b := New()
	_, _ = b.AddNode(Node{ID: "A"})
	v := b.Version()
	assert.Zero(t, b.Delete([]string{"nope"}))
	assert.Equal(t, v, b.Version())
}

func TestAddEdgeRejectsDanglingEndpoints(t *testing.T) {
	b := New()
	_, _ = b.AddNode(Node{ID: "A"})
	_, err := b.AddEdge(Edge{From: "A", To: "ghost"})
	assert.ErrorIs(t, err, ErrDanglingEdge)
}

func TestAddNodeRejectsDuplicates(t *testing.T) {
	b := New()
	_, err := b.AddNode(Node{ID: "A"})
	require.NoError(t, err)
	_, err = b.AddNode(Node{ID: "A"})
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestAddNodeAssignsIDAndPayload(t *testing.T) {
	b := New()
	id, err := b.AddNode(Node{Kind: KindAPI})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	n, ok := b.Node(id)
	require.True(t, ok)
	assert.IsType(t, APIPayload{}, n.Payload)

	_, err = b.AddNode(Node{Kind: KindAPI, Payload: TablePayload{}})
	assert.Error(t, err)
}

func TestTranslateBatch(t *testing.T) {
	b := New()
	for _, id := range []string{"a", "b", "c"} {
		_, _ = b.AddNode(Node{ID: id, X: 10, Y: 10})
	}
	moved := b.Translate([]Translation{
		{ID: "a", DX: 5, DY: -5},
		{ID: "b", DX: 5, DY: -5},
		{ID: "missing", DX: 5, DY: -5},
	})
	assert.Equal(t, 2, moved)
	a, _ := b.Node("a")
	c, _ := b.Node("c")
	assert.Equal(t, geom.Point{X: 15, Y: 5}, a.Origin())
	assert.Equal(t, geom.Point{X: 10, Y: 10}, c.Origin())
}

func TestResizeClampsToMinimum(t *testing.T) {
	b := New()
	_, _ = b.AddNode(Node{ID: "a", Kind: KindTask})
	require.True(t, b.Resize("a", 10, 400))
	n, _ := b.Node("a")
	assert.Equal(t, geom.Size{Width: MinNodeSize, Height: 400}, ResolveSize(n))
}

func TestHitTestPrefersTopmost(t *testing.T) {
	b := New()
	_, _ = b.AddNode(Node{ID: "below", Kind: KindTask, X: 0, Y: 0})
	_, _ = b.AddNode(Node{ID: "above", Kind: KindTask, X: 100, Y: 50})

	id, ok := b.HitTest(geom.Point{X: 150, Y: 100})
	require.True(t, ok)
	assert.Equal(t, "above", id)

	id, ok = b.HitTest(geom.Point{X: 10, Y: 10})
	require.True(t, ok)
	assert.Equal(t, "below", id)

	_, ok = b.HitTest(geom.Point{X: -1, Y: -1})
	assert.False(t, ok)
}

func TestSetPayloadChecksKind(t *testing.T) {
	b := New()
	_, _ = b.AddNode(Node{ID: "doc", Kind: KindDocument, Status: StatusLoading})
	require.NoError(t, b.SetPayload("doc", DocumentPayload{Markdown: "# PRD"}))
	assert.Error(t, b.SetPayload("doc", TablePayload{}))
	assert.ErrorIs(t, b.SetPayload("ghost", DocumentPayload{}), ErrNotFound)
}

func TestSections(t *testing.T) {
	b := New()
	id := b.AddSection(ManualSection{Rect: geom.Rect{X: 0, Y: 0, Width: 200, Height: 100}, Title: "Research"})
	s, ok := b.Section(id)
	require.True(t, ok)
	assert.Equal(t, ThemeSlate, s.Theme)

	require.True(t, b.MoveSection(id, 10, 20))
	s, _ = b.Section(id)
	assert.Equal(t, geom.Rect{X: 10, Y: 20, Width: 200, Height: 100}, s.Rect)

	require.True(t, b.SetSectionTheme(id, NextTheme(s.Theme)))
	s, _ = b.Section(id)
	assert.Equal(t, ThemeBlue, s.Theme)

	require.True(t, b.DeleteSection(id))
	assert.Empty(t, b.Sections())
}

func TestNextThemeWraps(t *testing.T) {
	assert.Equal(t, ThemeSlate, NextTheme(ThemeViolet))
	assert.Equal(t, ThemeSlate, NextTheme("unknown"))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Whiteboard")
	require.NoError(t, err)
	assert.Equal(t, KindWhiteboard, k)
	_, err = ParseKind("spreadsheet")
	assert.Error(t, err)
}

func TestPayloadLines(t *testing.T) {
	assert.Equal(t, []string{"[x] auth", "[ ] api"}, Lines(TaskPayload{Items: []string{"auth", "api"}, Done: 1}))
	assert.Equal(t, []string{"GET /users"}, Lines(APIPayload{Endpoints: []Endpoint{{Method: "GET", Path: "/users"}}}))
	assert.Equal(t, []string{"id | name", "1 | ada"}, Lines(TablePayload{Columns: []string{"id", "name"}, Rows: [][]string{{"1", "ada"}}}))
	assert.Equal(t, []string{"# Title", "body"}, Lines(DocumentPayload{Markdown: "# Title\nbody\n"}))
	assert.Nil(t, Lines(nil))
}

func TestThemeHex(t *testing.T) {
	assert.Equal(t, "#3b82f6", ThemeBlue.Hex())
	assert.Equal(t, ThemeSlate.Hex(), Theme("plaid").Hex())
}
