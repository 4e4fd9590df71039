// Package section derives the group rectangles drawn behind nodes.
//
// Auto sections are computed from the nodes sharing a group key and are
// never stored. Manual sections are stored rectangles owned by the board.
// Both render the same way and both have a draggable header band.
package section

import (
	"sort"

	"plotboard/internal/board"
	"plotboard/internal/geom"
)

const (
	DefaultAutoPadding = 120
	HeaderHeight       = 44
)

type Kind int

const (
	KindAuto Kind = iota
	KindManual
)

func (k Kind) String() string {
	if k == KindManual {
		return "manual"
	}
	return "auto"
}

type Section struct {
	// ID is the group key for auto sections and the stored id for manual ones.
	ID      string
	Kind    Kind
	Rect    geom.Rect
	Title   string
	Theme   board.Theme
	Members []string
}

// HeaderRect is the draggable band along the top edge of the section.
func (s Section) HeaderRect() geom.Rect {
	h := min(float64(HeaderHeight), s.Rect.Height)
	return geom.Rect{X: s.Rect.X, Y: s.Rect.Y, Width: s.Rect.Width, Height: h}
}

// Derive computes auto sections (sorted by group key) followed by the
// board's manual sections.
func Derive(b *board.Board, padding float64) []Section {
	members := make(map[string][]board.Node)
	for _, n := range b.Nodes() {
		if n.GroupID == "" {
			continue
		}
		members[n.GroupID] = append(members[n.GroupID], n)
	}

	keys := make([]string, 0, len(members))
	for k := range members {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Section, 0, len(keys)+len(b.Sections()))
	for _, key := range keys {
		nodes := members[key]
		rect, ok := board.BoundsOf(nodes, padding)
		if !ok {
			continue
		}
		s := Section{ID: key, Kind: KindAuto, Rect: rect, Title: key, Theme: board.ThemeSlate}
		if meta, ok := b.GroupMeta(key); ok {
			if meta.Title != "" {
				s.Title = meta.Title
			}
			if meta.Theme != "" {
				s.Theme = meta.Theme
			}
		}
		for _, n := range nodes {
			s.Members = append(s.Members, n.ID)
		}
		out = append(out, s)
	}

	for _, ms := range b.Sections() {
		out = append(out, Section{
			ID:    ms.ID,
			Kind:  KindManual,
			Rect:  ms.Rect,
			Title: ms.Title,
			Theme: ms.Theme,
		})
	}
	return out
}

// HitHeader returns the topmost section whose header contains p.
func HitHeader(sections []Section, p geom.Point) (Section, bool) {
	for i := len(sections) - 1; i >= 0; i-- {
		if sections[i].HeaderRect().Contains(p) {
			return sections[i], true
		}
	}
	return Section{}, false
}

// Translations is the batch that moves every member of an auto section.
func Translations(s Section, dx, dy float64) []board.Translation {
	moves := make([]board.Translation, 0, len(s.Members))
	for _, id := range s.Members {
		moves = append(moves, board.Translation{ID: id, DX: dx, DY: dy})
	}
	return moves
}

// Layer memoizes Derive for one board version. A new version always
// triggers a recompute.
type Layer struct {
	padding  float64
	version  uint64
	valid    bool
	sections []Section
}

func NewLayer(padding float64) *Layer {
	if padding < 0 {
		padding = DefaultAutoPadding
	}
	return &Layer{padding: padding}
}

func (l *Layer) Sections(b *board.Board) []Section {
	if !l.valid || l.version != b.Version() {
		l.sections = Derive(b, l.padding)
		l.version = b.Version()
		l.valid = true
	}
	return l.sections
}

// Find returns the section with id from the current derivation.
func (l *Layer) Find(b *board.Board, id string) (Section, bool) {
	for _, s := range l.Sections(b) {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}
