// Package geom holds the coordinate-space math shared by the canvas engine.
//
// Canvas (logical) coordinates are stable under pan and zoom. Screen
// coordinates are viewport pixels. A View maps one onto the other:
//
//	screen = canvas*Scale + (X, Y)
package geom

import "math"

type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Dist is the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

type Size struct {
	Width, Height float64
}

type Rect struct {
	X, Y, Width, Height float64
}

func (r Rect) MaxX() float64 { return r.X + r.Width }
func (r Rect) MaxY() float64 { return r.Y + r.Height }

func (r Rect) Origin() Point { return Point{r.X, r.Y} }

func (r Rect) Center() Point {
	return Point{r.X + r.Width/2, r.Y + r.Height/2}
}

func (r Rect) Size() Size { return Size{r.Width, r.Height} }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.MaxX() && p.Y >= r.Y && p.Y <= r.MaxY()
}

func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Pad grows r by padding on every side.
func (r Rect) Pad(padding float64) Rect {
	return Rect{
		X:      r.X - padding,
		Y:      r.Y - padding,
		Width:  r.Width + 2*padding,
		Height: r.Height + 2*padding,
	}
}

// BorderToward returns where the ray from r's centre toward p leaves r.
// p inside r, or at the centre, gives the centre.
func (r Rect) BorderToward(p Point) Point {
	c := r.Center()
	dx, dy := p.X-c.X, p.Y-c.Y
	if dx == 0 && dy == 0 {
		return c
	}
	t := math.Inf(1)
	if dx != 0 {
		t = math.Min(t, (r.Width/2)/math.Abs(dx))
	}
	if dy != 0 {
		t = math.Min(t, (r.Height/2)/math.Abs(dy))
	}
	if t >= 1 {
		return c
	}
	return Point{c.X + dx*t, c.Y + dy*t}
}

// RectFromPoints builds the rectangle spanned by two corners, flipping the
// origin when the drag went up or left.
func RectFromPoints(a, b Point) Rect {
	return Rect{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
	}
}

// View is the camera pose: an affine transform from canvas to screen space.
type View struct {
	X, Y  float64
	Scale float64
}

func ToCanvas(p Point, v View) Point {
	return Point{
		X: (p.X - v.X) / v.Scale,
		Y: (p.Y - v.Y) / v.Scale,
	}
}

func ToScreen(p Point, v View) Point {
	return Point{
		X: p.X*v.Scale + v.X,
		Y: p.Y*v.Scale + v.Y,
	}
}

// RectToScreen maps a canvas rectangle into screen space.
func RectToScreen(r Rect, v View) Rect {
	o := ToScreen(r.Origin(), v)
	return Rect{X: o.X, Y: o.Y, Width: r.Width * v.Scale, Height: r.Height * v.Scale}
}

// Bounds returns the padded axis-aligned box covering rects. The second
// result is false when rects is empty.
func Bounds(rects []Rect, padding float64) (Rect, bool) {
	if len(rects) == 0 {
		return Rect{}, false
	}
	minX, minY := rects[0].X, rects[0].Y
	maxX, maxY := rects[0].MaxX(), rects[0].MaxY()
	for _, r := range rects[1:] {
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.MaxX())
		maxY = math.Max(maxY, r.MaxY())
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}.Pad(padding), true
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
