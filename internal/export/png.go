// Package export renders the board to a PNG image.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"plotboard/internal/board"
	"plotboard/internal/geom"
	"plotboard/internal/section"
)

var ErrNothingToExport = errors.New("nothing to export")

// Scene is everything the exporter draws.
type Scene struct {
	Nodes    []board.Node
	Edges    []board.Edge
	Pins     []board.Pin
	Sections []section.Section
}

type Options struct {
	// Scale maps canvas units to image pixels.
	Scale float64
	// MaxDimension caps the longer image side; Scale shrinks to fit.
	MaxDimension int
	Padding      float64
	FontSize     float64
}

func DefaultOptions() Options {
	return Options{Scale: 0.5, MaxDimension: 4096, Padding: 40, FontSize: 12}
}

// Render draws s into a new context. Sections go first, then edges, nodes
// and pins on top.
func Render(s Scene, opts Options) (*gg.Context, error) {
	rects := make([]geom.Rect, 0, len(s.Nodes)+len(s.Sections))
	for _, n := range s.Nodes {
		rects = append(rects, n.Rect())
	}
	for _, sec := range s.Sections {
		rects = append(rects, sec.Rect)
	}
	bounds, ok := geom.Bounds(rects, opts.Padding)
	if !ok {
		return nil, ErrNothingToExport
	}

	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	if opts.MaxDimension > 0 {
		longest := math.Max(bounds.Width, bounds.Height) * scale
		if longest > float64(opts.MaxDimension) {
			scale *= float64(opts.MaxDimension) / longest
		}
	}
	view := geom.View{X: -bounds.X * scale, Y: -bounds.Y * scale, Scale: scale}

	w := max(1, int(math.Round(bounds.Width*scale)))
	h := max(1, int(math.Round(bounds.Height*scale)))
	dc := gg.NewContext(w, h)
	dc.SetColor(color.White)
	dc.Clear()

	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{
		Size:    opts.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}))
	lineHeight := opts.FontSize * 1.4

	for _, sec := range s.Sections {
		drawSection(dc, sec, view)
	}

	byID := make(map[string]board.Node, len(s.Nodes))
	for _, n := range s.Nodes {
		byID[n.ID] = n
	}
	for _, e := range s.Edges {
		from, ok1 := byID[e.From]
		to, ok2 := byID[e.To]
		if ok1 && ok2 {
			drawEdge(dc, e, from, to, view)
		}
	}
	for _, n := range s.Nodes {
		drawNode(dc, n, view, lineHeight)
	}
	for _, p := range s.Pins {
		drawPin(dc, p, view)
	}
	return dc, nil
}

// SavePNG renders s and writes it to path.
func SavePNG(path string, s Scene, opts Options) error {
	dc, err := Render(s, opts)
	if err != nil {
		return err
	}
	return dc.SavePNG(path)
}

func drawSection(dc *gg.Context, s section.Section, v geom.View) {
	r := geom.RectToScreen(s.Rect, v)
	header := geom.RectToScreen(s.HeaderRect(), v)
	accent := s.Theme.Hex()

	dc.SetHexColor(accent + "14")
	dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	dc.Fill()
	dc.SetHexColor(accent + "40")
	dc.DrawRectangle(header.X, header.Y, header.Width, header.Height)
	dc.Fill()

	dc.SetLineWidth(1)
	dc.SetHexColor(accent)
	if s.Kind == section.KindManual {
		dc.SetDash(6, 4)
	}
	dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	dc.Stroke()
	dc.SetDash()

	dc.DrawStringAnchored(s.Title, header.X+8, header.Y+header.Height/2, 0, 0.35)
}

func drawEdge(dc *gg.Context, e board.Edge, from, to board.Node, v geom.View) {
	fr, tr := from.Rect(), to.Rect()
	a := geom.ToScreen(fr.BorderToward(tr.Center()), v)
	b := geom.ToScreen(tr.BorderToward(fr.Center()), v)

	dc.SetLineWidth(1.5)
	dc.SetColor(color.Black)
	switch e.Kind {
	case board.EdgeDependency:
		dc.SetDash(6, 4)
	case board.EdgeData:
		dc.SetDash(2, 3)
	}
	dc.DrawLine(a.X, a.Y, b.X, b.Y)
	dc.Stroke()
	dc.SetDash()
	drawArrow(dc, a, b)

	if e.Label != "" {
		mid := geom.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
		dc.DrawStringAnchored(e.Label, mid.X, mid.Y-4, 0.5, 0)
	}
}

func drawArrow(dc *gg.Context, from, to geom.Point) {
	dx, dy := to.X-from.X, to.Y-from.Y
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	const size, spread = 8.0, 0.5
	dc.MoveTo(to.X, to.Y)
	dc.LineTo(to.X-size*dx+size*dy*spread, to.Y-size*dy-size*dx*spread)
	dc.LineTo(to.X-size*dx-size*dy*spread, to.Y-size*dy+size*dx*spread)
	dc.ClosePath()
	dc.Fill()
}

func statusColor(s board.Status) string {
	switch s {
	case board.StatusLoading:
		return "#f59e0b"
	case board.StatusError:
		return "#ef4444"
	}
	return "#1f2937"
}

func drawNode(dc *gg.Context, n board.Node, v geom.View, lineHeight float64) {
	r := geom.RectToScreen(n.Rect(), v)

	dc.SetColor(color.White)
	dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	dc.Fill()
	dc.SetLineWidth(1.5)
	dc.SetHexColor(statusColor(n.Status))
	dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	dc.Stroke()

	title := n.Title
	if title == "" {
		title = n.Kind.String()
	}
	pad := 6.0
	y := r.Y + pad + lineHeight*0.8
	dc.SetColor(color.Black)
	dc.DrawString(fit(dc, title, r.Width-2*pad), r.X+pad, y)

	dc.SetHexColor("#6b7280")
	for _, line := range board.Lines(n.Payload) {
		y += lineHeight
		if y > r.MaxY()-pad {
			break
		}
		dc.DrawString(fit(dc, line, r.Width-2*pad), r.X+pad, y)
	}
}

func drawPin(dc *gg.Context, p board.Pin, v geom.View) {
	c := geom.ToScreen(geom.Point{X: p.X, Y: p.Y}, v)
	dc.SetHexColor("#e11d48")
	dc.DrawCircle(c.X, c.Y, 5)
	dc.Fill()
	if p.Content != "" {
		dc.DrawString(p.Content, c.X+8, c.Y+4)
	}
}

// fit trims s with an ellipsis until it is narrower than width.
func fit(dc *gg.Context, s string, width float64) string {
	if w, _ := dc.MeasureString(s); w <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		t := string(r) + "…"
		if w, _ := dc.MeasureString(t); w <= width {
			return t
		}
	}
	return ""
}
