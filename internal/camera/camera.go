// Package camera owns the viewport pose and enforces the zoom limits.
package camera

import (
	"plotboard/internal/geom"
)

const (
	DefaultMinScale = 0.1
	DefaultMaxScale = 3.0
	// DefaultWheelZoom converts wheel pixels into a scale delta.
	DefaultWheelZoom = 0.002
)

// Camera holds the view transform and the viewport size in screen pixels.
// Scale stays inside [min, max] after every call.
type Camera struct {
	pose      geom.View
	viewport  geom.Size
	minScale  float64
	maxScale  float64
	wheelZoom float64
}

func New(minScale, maxScale float64) *Camera {
	if minScale <= 0 {
		minScale = DefaultMinScale
	}
	if maxScale < minScale {
		maxScale = minScale
	}
	return &Camera{
		pose:      geom.View{Scale: geom.Clamp(1, minScale, maxScale)},
		minScale:  minScale,
		maxScale:  maxScale,
		wheelZoom: DefaultWheelZoom,
	}
}

func (c *Camera) SetWheelZoom(k float64) {
	if k > 0 {
		c.wheelZoom = k
	}
}

func (c *Camera) Pose() geom.View { return c.pose }

func (c *Camera) Limits() (float64, float64) { return c.minScale, c.maxScale }

func (c *Camera) Viewport() geom.Size { return c.viewport }

func (c *Camera) SetViewport(width, height float64) {
	c.viewport = geom.Size{Width: width, Height: height}
}

// SetPose assigns the pose directly, clamping the scale.
func (c *Camera) SetPose(v geom.View) {
	v.Scale = c.clampScale(v.Scale)
	c.pose = v
}

func (c *Camera) PanBy(dx, dy float64) {
	c.pose.X += dx
	c.pose.Y += dy
}

// ViewportCenter is the centre of the viewport in screen pixels.
func (c *Camera) ViewportCenter() geom.Point {
	return geom.Point{X: c.viewport.Width / 2, Y: c.viewport.Height / 2}
}

// ZoomAroundViewportCenter adds delta to the scale while keeping the canvas
// point under the viewport centre fixed.
func (c *Camera) ZoomAroundViewportCenter(delta float64) {
	center := c.ViewportCenter()
	anchor := geom.ToCanvas(center, c.pose)
	scale := c.clampScale(c.pose.Scale + delta)
	c.pose = geom.View{
		X:     center.X - anchor.X*scale,
		Y:     center.Y - anchor.Y*scale,
		Scale: scale,
	}
}

// Wheel handles a wheel event. Plain wheel pans; zoom wheel (ctrl/meta or
// pinch) zooms around the viewport centre.
func (c *Camera) Wheel(dx, dy float64, zoom bool) {
	if zoom {
		c.ZoomAroundViewportCenter(-dy * c.wheelZoom)
		return
	}
	c.PanBy(-dx, -dy)
}

// CenterOn puts the canvas point p at the viewport centre at scale.
func (c *Camera) CenterOn(p geom.Point, scale float64) {
	c.SetPose(PoseCentering(p, c.viewport, c.clampScale(scale)))
}

// PoseCentering computes the pose that shows canvas point p at the centre of
// a viewport at the given scale.
func PoseCentering(p geom.Point, viewport geom.Size, scale float64) geom.View {
	return geom.View{
		X:     viewport.Width/2 - p.X*scale,
		Y:     viewport.Height/2 - p.Y*scale,
		Scale: scale,
	}
}

// VisibleRect is the canvas rectangle currently on screen.
func (c *Camera) VisibleRect() geom.Rect {
	tl := geom.ToCanvas(geom.Point{}, c.pose)
	return geom.Rect{
		X:      tl.X,
		Y:      tl.Y,
		Width:  c.viewport.Width / c.pose.Scale,
		Height: c.viewport.Height / c.pose.Scale,
	}
}

func (c *Camera) clampScale(s float64) float64 {
	return geom.Clamp(s, c.minScale, c.maxScale)
}
