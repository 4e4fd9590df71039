// Package autoframe drives the camera toward whatever the agent is working
// on ("observation mode"). It is a reconciliation step: callers run
// Reconcile after every change and the engine converges on a target pose.
package autoframe

import (
	"math"
	"slices"

	"plotboard/internal/board"
	"plotboard/internal/camera"
	"plotboard/internal/geom"
)

// Focus is the current camera target: a single operating node or a group
// of nodes awaiting confirmation.
type Focus struct {
	IDs   []string
	Group bool
}

func Single(id string) Focus { return Focus{IDs: []string{id}} }

func Group(ids ...string) Focus { return Focus{IDs: ids, Group: true} }

func (f Focus) Empty() bool { return len(f.IDs) == 0 }

func (f Focus) Equal(o Focus) bool {
	return f.Group == o.Group && slices.Equal(f.IDs, o.IDs)
}

type Options struct {
	SinglePadding float64
	GroupPadding  float64
	// SingleScaleCap keeps a lone small node from filling the screen.
	// Groups are only bounded by the camera limits.
	SingleScaleCap float64
	Epsilon        float64
	ScaleEpsilon   float64
}

func DefaultOptions() Options {
	return Options{
		SinglePadding:  40,
		GroupPadding:   80,
		SingleScaleCap: 0.6,
		Epsilon:        0.5,
		ScaleEpsilon:   0.001,
	}
}

type Engine struct {
	opts      Options
	focus     Focus
	following bool
}

func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

func (e *Engine) Focus() Focus { return e.focus }

// Following reports whether the camera is currently tracking the focus.
func (e *Engine) Following() bool { return e.following }

// SetFocus changes the target. A new non-empty focus engages following; the
// same focus again leaves the current state alone; an empty focus stops it.
func (e *Engine) SetFocus(f Focus) {
	if f.Empty() {
		e.focus = Focus{}
		e.following = false
		return
	}
	if e.focus.Equal(f) {
		return
	}
	e.focus = Focus{IDs: slices.Clone(f.IDs), Group: f.Group}
	e.following = true
}

// Disengage stops following until the focus changes again.
func (e *Engine) Disengage() {
	e.following = false
}

// Target computes the pose that frames nodes in a viewport. It reports false
// when there is nothing to frame.
func (e *Engine) Target(nodes []board.Node, group bool, viewport geom.Size, minScale, maxScale float64) (geom.View, bool) {
	padding := e.opts.SinglePadding
	if group {
		padding = e.opts.GroupPadding
	}
	bounds, ok := board.BoundsOf(nodes, padding)
	if !ok || viewport.Width <= 0 || viewport.Height <= 0 {
		return geom.View{}, false
	}

	scale := math.Min(viewport.Width/bounds.Width, viewport.Height/bounds.Height)
	if !group && e.opts.SingleScaleCap > 0 {
		scale = math.Min(scale, e.opts.SingleScaleCap)
	}
	scale = geom.Clamp(scale, minScale, maxScale)
	return camera.PoseCentering(bounds.Center(), viewport, scale), true
}

// Reconcile moves the camera toward the focus target when following. It
// returns true when the pose changed.
func (e *Engine) Reconcile(b *board.Board, c *camera.Camera) bool {
	if !e.following || e.focus.Empty() {
		return false
	}
	nodes := b.NodesByID(e.focus.IDs)
	if len(nodes) == 0 {
		return false
	}
	minScale, maxScale := c.Limits()
	target, ok := e.Target(nodes, e.focus.Group, c.Viewport(), minScale, maxScale)
	if !ok {
		return false
	}
	if e.close(c.Pose(), target) {
		return false
	}
	c.SetPose(target)
	return true
}

func (e *Engine) close(a, b geom.View) bool {
	return math.Abs(a.X-b.X) < e.opts.Epsilon &&
		math.Abs(a.Y-b.Y) < e.opts.Epsilon &&
		math.Abs(a.Scale-b.Scale) < e.opts.ScaleEpsilon
}
