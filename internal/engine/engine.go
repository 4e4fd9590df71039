// Package engine is the canvas controller. It owns the board, the camera,
// the section layer, auto-framing and the interaction machine, and is the
// only path through which any of them change.
package engine

import (
	"log/slog"

	"plotboard/internal/autoframe"
	"plotboard/internal/board"
	"plotboard/internal/camera"
	"plotboard/internal/config"
	"plotboard/internal/geom"
	"plotboard/internal/interact"
	"plotboard/internal/logging"
	"plotboard/internal/section"
)

type Options struct {
	MinScale       float64
	MaxScale       float64
	WheelZoom      float64
	SectionPadding float64
	Interact       interact.Options
	Framing        autoframe.Options
}

func DefaultOptions() Options {
	return Options{
		MinScale:       camera.DefaultMinScale,
		MaxScale:       camera.DefaultMaxScale,
		WheelZoom:      camera.DefaultWheelZoom,
		SectionPadding: section.DefaultAutoPadding,
		Interact:       interact.DefaultOptions(),
		Framing:        autoframe.DefaultOptions(),
	}
}

// OptionsFromConfig maps the config file sections onto engine options.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	opts.MinScale = cfg.Canvas.MinScale
	opts.MaxScale = cfg.Canvas.MaxScale
	opts.WheelZoom = cfg.Canvas.WheelZoom
	opts.SectionPadding = cfg.Sections.Padding
	opts.Interact.ZoomStep = cfg.Canvas.ZoomStep
	opts.Interact.DragThreshold = cfg.Canvas.DragThreshold
	opts.Interact.MinDrawSize = cfg.Canvas.MinDrawSize
	opts.Framing = autoframe.Options{
		SinglePadding:  cfg.Framing.SinglePadding,
		GroupPadding:   cfg.Framing.GroupPadding,
		SingleScaleCap: cfg.Framing.SingleScaleCap,
		Epsilon:        cfg.Framing.Epsilon,
		ScaleEpsilon:   cfg.Framing.ScaleEpsilon,
	}
	return opts
}

type Engine struct {
	board   *board.Board
	cam     *camera.Camera
	frame   *autoframe.Engine
	layer   *section.Layer
	machine *interact.Machine
	log     *slog.Logger

	seen uint64

	selectionListeners []func([]string)
	pinListeners       []func(id string)
	mentionListeners   []func(id string)
}

func New(opts Options, log *slog.Logger) *Engine {
	if log == nil {
		log = logging.Discard()
	}
	e := &Engine{
		board: board.New(),
		cam:   camera.New(opts.MinScale, opts.MaxScale),
		frame: autoframe.New(opts.Framing),
		layer: section.NewLayer(opts.SectionPadding),
		log:   log,
	}
	e.cam.SetWheelZoom(opts.WheelZoom)
	e.machine = interact.New(e, e, e.cam, interact.Hooks{
		Disengage:        e.disengage,
		PinRequested:     e.placePin,
		Mentioned:        e.mentioned,
		SelectionChanged: e.selectionChanged,
	}, opts.Interact)
	e.seen = e.board.Version()
	return e
}

// Machine exposes interaction state (tool, selection, ghost) to the renderer.
func (e *Engine) Machine() *interact.Machine { return e.machine }

func (e *Engine) Board() *board.Board { return e.board }

func (e *Engine) Node(id string) (board.Node, bool) { return e.board.Node(id) }

func (e *Engine) Nodes() []board.Node { return e.board.Nodes() }

func (e *Engine) Edges() []board.Edge { return e.board.Edges() }

func (e *Engine) Pins() []board.Pin { return e.board.Pins() }

func (e *Engine) HitTest(p geom.Point) (string, bool) { return e.board.HitTest(p) }

// Sections is the memoized section list for the current board version.
func (e *Engine) Sections() []section.Section { return e.layer.Sections(e.board) }

func (e *Engine) Section(id string) (section.Section, bool) { return e.layer.Find(e.board, id) }

func (e *Engine) Focus() autoframe.Focus { return e.frame.Focus() }

func (e *Engine) Following() bool { return e.frame.Following() }

// Commit is the recompute step after mutations. It reports whether the
// board or camera changed since the last commit.
func (e *Engine) Commit() bool {
	v := e.board.Version()
	if v == e.seen {
		return false
	}
	e.seen = v
	e.layer.Sections(e.board)
	e.frame.Reconcile(e.board, e.cam)
	return true
}

func (e *Engine) CreateEntity(n board.Node) (string, error) {
	id, err := e.board.AddNode(n)
	if err != nil {
		e.log.Debug("create entity rejected", "id", n.ID, "err", err)
		return "", err
	}
	e.log.Debug("entity created", "id", id, "kind", n.Kind)
	e.Commit()
	return id, nil
}

func (e *Engine) UpdateEntityPosition(id string, x, y float64) bool {
	ok := e.board.SetPosition(id, x, y)
	e.Commit()
	return ok
}

// BatchTranslate applies every move in one board version.
func (e *Engine) BatchTranslate(moves []board.Translation) int {
	n := e.board.Translate(moves)
	e.Commit()
	return n
}

// UpdateEntityGroup moves a node into group; "" removes it from any group.
func (e *Engine) UpdateEntityGroup(id, group string) bool {
	ok := e.board.SetGroup(id, group)
	if ok {
		e.log.Debug("entity regrouped", "id", id, "group", group)
	}
	e.Commit()
	return ok
}

func (e *Engine) UpdateEntityPayload(id string, p board.Payload) error {
	if err := e.board.SetPayload(id, p); err != nil {
		return err
	}
	e.Commit()
	return nil
}

func (e *Engine) UpdateEntityStatus(id string, s board.Status) bool {
	ok := e.board.SetStatus(id, s)
	e.Commit()
	return ok
}

func (e *Engine) UpdateEntityTitle(id, title string) bool {
	ok := e.board.SetTitle(id, title)
	e.Commit()
	return ok
}

func (e *Engine) ResizeEntity(id string, width, height float64) bool {
	ok := e.board.Resize(id, width, height)
	e.Commit()
	return ok
}

// DeleteEntities removes nodes with their edges and pins and prunes them
// from the selection.
func (e *Engine) DeleteEntities(ids []string) int {
	n := e.board.Delete(ids)
	if n > 0 {
		e.log.Debug("entities deleted", "count", n)
	}
	e.machine.Forget(ids)
	e.Commit()
	return n
}

func (e *Engine) AddEdge(edge board.Edge) (string, error) {
	id, err := e.board.AddEdge(edge)
	if err != nil {
		return "", err
	}
	e.Commit()
	return id, nil
}

func (e *Engine) AddPin(p board.Pin) string {
	id := e.board.AddPin(p)
	e.Commit()
	return id
}

func (e *Engine) SetPinContent(id, content string) bool {
	ok := e.board.SetPinContent(id, content)
	e.Commit()
	return ok
}

func (e *Engine) DeletePin(id string) bool {
	ok := e.board.DeletePin(id)
	e.Commit()
	return ok
}

func (e *Engine) AddManualSection(r geom.Rect, title string) string {
	id := e.board.AddSection(board.ManualSection{Rect: r, Title: title})
	e.log.Debug("section added", "id", id)
	e.Commit()
	return id
}

func (e *Engine) MoveManualSection(id string, dx, dy float64) bool {
	ok := e.board.MoveSection(id, dx, dy)
	e.Commit()
	return ok
}

func (e *Engine) DeleteSection(id string) bool {
	ok := e.board.DeleteSection(id)
	e.machine.ForgetSection(id)
	e.Commit()
	return ok
}

// RenameSection retitles a manual section, or stores group metadata for an
// auto section.
func (e *Engine) RenameSection(id, title string) bool {
	s, ok := e.Section(id)
	if !ok {
		return false
	}
	if s.Kind == section.KindManual {
		ok = e.board.SetSectionTitle(id, title)
	} else {
		meta, _ := e.board.GroupMeta(id)
		meta.Title = title
		e.board.SetGroupMeta(id, meta)
	}
	e.Commit()
	return ok
}

// CycleSectionTheme advances a section to the next theme and returns it.
func (e *Engine) CycleSectionTheme(id string) (board.Theme, bool) {
	s, ok := e.Section(id)
	if !ok {
		return "", false
	}
	next := board.NextTheme(s.Theme)
	if s.Kind == section.KindManual {
		e.board.SetSectionTheme(id, next)
	} else {
		meta, _ := e.board.GroupMeta(id)
		meta.Theme = next
		e.board.SetGroupMeta(id, meta)
	}
	e.Commit()
	return next, true
}

func (e *Engine) SetGroupMeta(key string, meta board.GroupMeta) {
	e.board.SetGroupMeta(key, meta)
	e.Commit()
}

// GroupMembers lists the ids of nodes in group key.
func (e *Engine) GroupMembers(key string) []string {
	var ids []string
	for _, n := range e.board.Nodes() {
		if n.GroupID == key {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// SetFocus changes the auto-framing target and frames it immediately.
func (e *Engine) SetFocus(f autoframe.Focus) {
	e.frame.SetFocus(f)
	e.frame.Reconcile(e.board, e.cam)
}

func (e *Engine) SetCameraPose(v geom.View) { e.cam.SetPose(v) }

func (e *Engine) CameraPose() geom.View { return e.cam.Pose() }

func (e *Engine) Viewport() geom.Size { return e.cam.Viewport() }

func (e *Engine) SetViewport(width, height float64) {
	e.cam.SetViewport(width, height)
	e.frame.Reconcile(e.board, e.cam)
}

func (e *Engine) VisibleRect() geom.Rect { return e.cam.VisibleRect() }

// OnSelectionChange registers fn to receive the selection after every change.
func (e *Engine) OnSelectionChange(fn func(ids []string)) {
	e.selectionListeners = append(e.selectionListeners, fn)
}

// OnPinPlaced registers fn to receive pins placed with the pin tool.
func (e *Engine) OnPinPlaced(fn func(id string)) {
	e.pinListeners = append(e.pinListeners, fn)
}

func (e *Engine) OnMention(fn func(id string)) {
	e.mentionListeners = append(e.mentionListeners, fn)
}

func (e *Engine) Selection() []string { return e.machine.Selection() }

func (e *Engine) Select(ids ...string) { e.machine.SetSelection(ids...) }

func (e *Engine) ZoomIn() {
	e.machine.ZoomIn()
	e.Commit()
}

func (e *Engine) ZoomOut() {
	e.machine.ZoomOut()
	e.Commit()
}

// FitAll frames every node with group padding and no scale cap. It counts
// as a manual camera move.
func (e *Engine) FitAll() bool {
	minScale, maxScale := e.cam.Limits()
	target, ok := e.frame.Target(e.board.Nodes(), true, e.cam.Viewport(), minScale, maxScale)
	if !ok {
		return false
	}
	e.disengage()
	e.cam.SetPose(target)
	return true
}

// PanTo centres node id at the current scale.
func (e *Engine) PanTo(id string) bool {
	n, ok := e.board.Node(id)
	if !ok {
		return false
	}
	e.disengage()
	e.cam.CenterOn(n.Rect().Center(), e.cam.Pose().Scale)
	return true
}

func (e *Engine) PointerDown(ev interact.PointerEvent) {
	e.machine.PointerDown(ev)
	e.Commit()
}

func (e *Engine) PointerMove(ev interact.PointerEvent) {
	e.machine.PointerMove(ev)
	e.Commit()
}

func (e *Engine) PointerUp(ev interact.PointerEvent) {
	e.machine.PointerUp(ev)
	e.Commit()
}

func (e *Engine) Wheel(ev interact.WheelEvent) {
	e.machine.Wheel(ev)
	e.Commit()
}

func (e *Engine) KeyDown(ev interact.KeyEvent) bool {
	used := e.machine.KeyDown(ev)
	e.Commit()
	return used
}

func (e *Engine) KeyUp(ev interact.KeyEvent) bool {
	return e.machine.KeyUp(ev)
}

func (e *Engine) disengage() {
	if e.frame.Following() {
		e.log.Debug("auto-framing disengaged")
	}
	e.frame.Disengage()
}

func (e *Engine) placePin(p geom.Point) {
	target, _ := e.board.HitTest(p)
	id := e.AddPin(board.Pin{X: p.X, Y: p.Y, TargetNodeID: target})
	e.log.Debug("pin placed", "id", id, "target", target)
	for _, fn := range e.pinListeners {
		fn(id)
	}
}

func (e *Engine) mentioned(id string) {
	for _, fn := range e.mentionListeners {
		fn(id)
	}
}

func (e *Engine) selectionChanged(ids []string) {
	for _, fn := range e.selectionListeners {
		fn(ids)
	}
}
