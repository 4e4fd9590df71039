// Package board is the entity model of the canvas: nodes, edges, pins,
// manual sections and group metadata, plus the single store that owns them.
package board

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"plotboard/internal/geom"
)

var (
	ErrDuplicateID  = errors.New("duplicate id")
	ErrDanglingEdge = errors.New("edge endpoint does not exist")
	ErrNotFound     = errors.New("not found")
)

// MinNodeSize is the smallest explicit width or height a resize may set.
const MinNodeSize = 50

type Edge struct {
	ID    string
	From  string
	To    string
	Kind  EdgeKind
	Label string
}

// Pin is a canvas annotation. TargetNodeID is a soft association: deleting
// that node deletes the pin, nothing else depends on it.
type Pin struct {
	ID           string
	X            float64
	Y            float64
	Content      string
	TargetNodeID string
}

type ManualSection struct {
	ID    string
	Rect  geom.Rect
	Title string
	Theme Theme
}

// GroupMeta is display metadata for an auto section. Bounds are never stored.
type GroupMeta struct {
	Title string
	Theme Theme
}

// Translation moves one node by a delta as part of a batch.
type Translation struct {
	ID     string
	DX, DY float64
}

// Board owns every entity on the canvas. Nodes keep insertion order, which
// is also z-order: later nodes draw on top and win hit tests.
type Board struct {
	nodes    []Node
	edges    []Edge
	pins     []Pin
	sections []ManualSection
	groups   map[string]GroupMeta
	version  uint64
}

func New() *Board {
	return &Board{
		nodes:    make([]Node, 0),
		edges:    make([]Edge, 0),
		pins:     make([]Pin, 0),
		sections: make([]ManualSection, 0),
		groups:   make(map[string]GroupMeta),
	}
}

// Version increases on every mutation. Derived state keyed on it is
// invalidated by any change to the board.
func (b *Board) Version() uint64 { return b.version }

func (b *Board) touch() { b.version++ }

func (b *Board) indexOf(id string) int {
	for i := range b.nodes {
		if b.nodes[i].ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) Node(id string) (Node, bool) {
	i := b.indexOf(id)
	if i < 0 {
		return Node{}, false
	}
	return b.nodes[i], true
}

// Nodes returns a copy of all nodes in z-order.
func (b *Board) Nodes() []Node {
	out := make([]Node, len(b.nodes))
	copy(out, b.nodes)
	return out
}

// NodesByID returns the nodes for ids that exist, in the order given.
func (b *Board) NodesByID(ids []string) []Node {
	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		if n, ok := b.Node(id); ok {
			out = append(out, n)
		}
	}
	return out
}

func (b *Board) Len() int { return len(b.nodes) }

// AddNode stores n and returns its id. An empty id gets a fresh uuid, and a
// nil payload becomes the empty payload for the kind.
func (b *Board) AddNode(n Node) (string, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	} else if b.indexOf(n.ID) >= 0 {
		return "", fmt.Errorf("add node %q: %w", n.ID, ErrDuplicateID)
	}
	if n.Payload == nil {
		n.Payload = EmptyPayload(n.Kind)
	} else if n.Payload.Kind() != n.Kind {
		return "", fmt.Errorf("add node %q: payload is %s, node is %s", n.ID, n.Payload.Kind(), n.Kind)
	}
	b.nodes = append(b.nodes, n)
	b.touch()
	return n.ID, nil
}

func (b *Board) SetPosition(id string, x, y float64) bool {
	i := b.indexOf(id)
	if i < 0 {
		return false
	}
	b.nodes[i].X = x
	b.nodes[i].Y = y
	b.touch()
	return true
}

// Translate applies every move as one batch. Unknown ids are skipped.
// Returns how many nodes moved.
func (b *Board) Translate(moves []Translation) int {
	moved := 0
	for _, m := range moves {
		i := b.indexOf(m.ID)
		if i < 0 {
			continue
		}
		b.nodes[i].X += m.DX
		b.nodes[i].Y += m.DY
		moved++
	}
	if moved > 0 {
		b.touch()
	}
	return moved
}

// Resize sets an explicit size, never smaller than MinNodeSize.
func (b *Board) Resize(id string, width, height float64) bool {
	i := b.indexOf(id)
	if i < 0 {
		return false
	}
	b.nodes[i].Width = max(width, MinNodeSize)
	b.nodes[i].Height = max(height, MinNodeSize)
	b.touch()
	return true
}

// SetGroup moves a node into group, or out of every group when group is "".
func (b *Board) SetGroup(id, group string) bool {
	i := b.indexOf(id)
	if i < 0 {
		return false
	}
	b.nodes[i].GroupID = group
	b.touch()
	return true
}

func (b *Board) SetPayload(id string, p Payload) error {
	i := b.indexOf(id)
	if i < 0 {
		return fmt.Errorf("set payload %q: %w", id, ErrNotFound)
	}
	if p == nil || p.Kind() != b.nodes[i].Kind {
		return fmt.Errorf("set payload %q: payload does not match %s", id, b.nodes[i].Kind)
	}
	b.nodes[i].Payload = p
	b.touch()
	return nil
}

func (b *Board) SetStatus(id string, s Status) bool {
	i := b.indexOf(id)
	if i < 0 {
		return false
	}
	b.nodes[i].Status = s
	b.touch()
	return true
}

func (b *Board) SetTitle(id, title string) bool {
	i := b.indexOf(id)
	if i < 0 {
		return false
	}
	b.nodes[i].Title = title
	b.touch()
	return true
}

// Delete removes the nodes in ids together with every edge touching them
// and every pin targeting them. It is the only way to remove a node.
func (b *Board) Delete(ids []string) int {
	doomed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		doomed[id] = struct{}{}
	}

	kept := b.nodes[:0]
	removed := 0
	for _, n := range b.nodes {
		if _, ok := doomed[n.ID]; ok {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	b.nodes = kept
	if removed == 0 {
		return 0
	}

	edges := make([]Edge, 0, len(b.edges))
	for _, e := range b.edges {
		_, from := doomed[e.From]
		_, to := doomed[e.To]
		if !from && !to {
			edges = append(edges, e)
		}
	}
	b.edges = edges

	pins := make([]Pin, 0, len(b.pins))
	for _, p := range b.pins {
		if _, ok := doomed[p.TargetNodeID]; !ok {
			pins = append(pins, p)
		}
	}
	b.pins = pins

	b.touch()
	return removed
}

// HitTest returns the topmost node containing p.
func (b *Board) HitTest(p geom.Point) (string, bool) {
	for i := len(b.nodes) - 1; i >= 0; i-- {
		if b.nodes[i].Rect().Contains(p) {
			return b.nodes[i].ID, true
		}
	}
	return "", false
}

func (b *Board) AddEdge(e Edge) (string, error) {
	if b.indexOf(e.From) < 0 || b.indexOf(e.To) < 0 {
		return "", fmt.Errorf("add edge %s->%s: %w", e.From, e.To, ErrDanglingEdge)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	for _, existing := range b.edges {
		if existing.ID == e.ID {
			return "", fmt.Errorf("add edge %q: %w", e.ID, ErrDuplicateID)
		}
	}
	b.edges = append(b.edges, e)
	b.touch()
	return e.ID, nil
}

func (b *Board) Edges() []Edge {
	out := make([]Edge, len(b.edges))
	copy(out, b.edges)
	return out
}

func (b *Board) AddPin(p Pin) string {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	b.pins = append(b.pins, p)
	b.touch()
	return p.ID
}

func (b *Board) SetPinContent(id, content string) bool {
	for i := range b.pins {
		if b.pins[i].ID == id {
			b.pins[i].Content = content
			b.touch()
			return true
		}
	}
	return false
}

func (b *Board) DeletePin(id string) bool {
	for i := range b.pins {
		if b.pins[i].ID == id {
			b.pins = append(b.pins[:i], b.pins[i+1:]...)
			b.touch()
			return true
		}
	}
	return false
}

func (b *Board) Pins() []Pin {
	out := make([]Pin, len(b.pins))
	copy(out, b.pins)
	return out
}

func (b *Board) sectionIndex(id string) int {
	for i := range b.sections {
		if b.sections[i].ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) AddSection(s ManualSection) string {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Theme == "" {
		s.Theme = ThemeSlate
	}
	b.sections = append(b.sections, s)
	b.touch()
	return s.ID
}

func (b *Board) Section(id string) (ManualSection, bool) {
	i := b.sectionIndex(id)
	if i < 0 {
		return ManualSection{}, false
	}
	return b.sections[i], true
}

func (b *Board) MoveSection(id string, dx, dy float64) bool {
	i := b.sectionIndex(id)
	if i < 0 {
		return false
	}
	b.sections[i].Rect = b.sections[i].Rect.Translate(dx, dy)
	b.touch()
	return true
}

func (b *Board) SetSectionTitle(id, title string) bool {
	i := b.sectionIndex(id)
	if i < 0 {
		return false
	}
	b.sections[i].Title = title
	b.touch()
	return true
}

func (b *Board) SetSectionTheme(id string, theme Theme) bool {
	i := b.sectionIndex(id)
	if i < 0 {
		return false
	}
	b.sections[i].Theme = theme
	b.touch()
	return true
}

func (b *Board) DeleteSection(id string) bool {
	i := b.sectionIndex(id)
	if i < 0 {
		return false
	}
	b.sections = append(b.sections[:i], b.sections[i+1:]...)
	b.touch()
	return true
}

func (b *Board) Sections() []ManualSection {
	out := make([]ManualSection, len(b.sections))
	copy(out, b.sections)
	return out
}

func (b *Board) SetGroupMeta(key string, meta GroupMeta) {
	b.groups[key] = meta
	b.touch()
}

func (b *Board) GroupMeta(key string) (GroupMeta, bool) {
	m, ok := b.groups[key]
	return m, ok
}
