package board

import (
	"strconv"
	"strings"

	"plotboard/internal/geom"
)

// Node is one entity on the canvas. X/Y is the top-left corner in canvas
// coordinates. Width/Height of zero means "use the default for the kind".
type Node struct {
	ID      string
	Kind    Kind
	X       float64
	Y       float64
	Width   float64
	Height  float64
	Title   string
	Status  Status
	GroupID string
	Payload Payload
}

func (n Node) Origin() geom.Point { return geom.Point{X: n.X, Y: n.Y} }

// Rect is the node's rectangle using its resolved size.
func (n Node) Rect() geom.Rect {
	s := ResolveSize(n)
	return geom.Rect{X: n.X, Y: n.Y, Width: s.Width, Height: s.Height}
}

// ResolveSize returns the explicit size override if one is set, otherwise
// the per-kind default.
func ResolveSize(n Node) geom.Size {
	def := DefaultSize(n.Kind, screenVariant(n))
	s := def
	if n.Width > 0 {
		s.Width = n.Width
	}
	if n.Height > 0 {
		s.Height = n.Height
	}
	return s
}

func DefaultSize(k Kind, v Variant) geom.Size {
	switch k {
	case KindDocument:
		return geom.Size{Width: 360, Height: 460}
	case KindWhiteboard:
		return geom.Size{Width: 640, Height: 420}
	case KindScreen:
		if v == VariantWeb {
			return geom.Size{Width: 720, Height: 460}
		}
		return geom.Size{Width: 280, Height: 560}
	case KindTable:
		return geom.Size{Width: 560, Height: 320}
	case KindAPI:
		return geom.Size{Width: 420, Height: 360}
	case KindTask:
		return geom.Size{Width: 300, Height: 180}
	case KindIntegration:
		return geom.Size{Width: 320, Height: 200}
	}
	return geom.Size{Width: 320, Height: 200}
}

func screenVariant(n Node) Variant {
	if p, ok := n.Payload.(ScreenPayload); ok {
		return p.Variant
	}
	return VariantMobile
}

// BoundsOf returns the padded bounding box of nodes, or false when nodes is
// empty.
func BoundsOf(nodes []Node, padding float64) (geom.Rect, bool) {
	rects := make([]geom.Rect, 0, len(nodes))
	for _, n := range nodes {
		rects = append(rects, n.Rect())
	}
	return geom.Bounds(rects, padding)
}

func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(strings.TrimLeft(lines[i], "# "))
	}
	return lines
}

func countOf(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return itoa(n) + " " + many
}

func itoa(n int) string { return strconv.Itoa(n) }
