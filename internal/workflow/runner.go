package workflow

import (
	"fmt"
	"log/slog"
	"time"

	"plotboard/internal/autoframe"
	"plotboard/internal/board"
	"plotboard/internal/logging"
)

// Target is the canvas surface a script drives.
type Target interface {
	Node(id string) (board.Node, bool)
	CreateEntity(n board.Node) (string, error)
	UpdateEntityPosition(id string, x, y float64) bool
	UpdateEntityGroup(id, group string) bool
	UpdateEntityPayload(id string, p board.Payload) error
	UpdateEntityStatus(id string, s board.Status) bool
	UpdateEntityTitle(id, title string) bool
	AddEdge(e board.Edge) (string, error)
	AddPin(p board.Pin) string
	SetGroupMeta(key string, meta board.GroupMeta)
	SetFocus(f autoframe.Focus)
	GroupMembers(key string) []string
}

type Role int

const (
	RoleAgent Role = iota
	RoleUser
	RoleSystem
)

// Message is one transcript line. Checkpoint is set on confirmation prompts.
type Message struct {
	Role       Role
	Text       string
	Checkpoint string
}

// Runner executes a script one step at a time. Each step waits for its
// delay after the previous one finished, and a confirm step suspends the
// queue until its checkpoint is resolved.
type Runner struct {
	target      Target
	checkpoints *Checkpoints
	log         *slog.Logger
	steps       []Step
	next        int
	due         time.Time
	scheduled   bool
	waiting     string

	// AutoConfirm resolves every checkpoint as soon as it is reached.
	AutoConfirm bool
	OnMessage   func(Message)
}

func NewRunner(s *Script, target Target, cp *Checkpoints, log *slog.Logger) *Runner {
	if log == nil {
		log = logging.Discard()
	}
	if cp == nil {
		cp = NewCheckpoints()
	}
	return &Runner{
		target:      target,
		checkpoints: cp,
		log:         log.With("script", s.Name),
		steps:       s.Steps,
	}
}

func (r *Runner) Checkpoints() *Checkpoints { return r.checkpoints }

func (r *Runner) Done() bool { return r.waiting == "" && r.next >= len(r.steps) }

// Waiting returns the checkpoint the runner is suspended on.
func (r *Runner) Waiting() (string, bool) { return r.waiting, r.waiting != "" }

// Remaining counts steps not yet executed.
func (r *Runner) Remaining() int { return len(r.steps) - r.next }

// Advance runs every step that is due at now and returns how many ran.
func (r *Runner) Advance(now time.Time) int {
	ran := 0
	for r.waiting == "" && r.next < len(r.steps) {
		if !r.scheduled {
			r.due = now.Add(r.steps[r.next].Delay)
			r.scheduled = true
		}
		if now.Before(r.due) {
			break
		}
		base := r.due
		r.step()
		ran++
		if r.waiting == "" && r.next < len(r.steps) {
			r.due = base.Add(r.steps[r.next].Delay)
			r.scheduled = true
		}
	}
	return ran
}

// Drain runs the remaining steps ignoring delays, stopping at an
// unresolved checkpoint.
func (r *Runner) Drain() int {
	ran := 0
	for r.waiting == "" && r.next < len(r.steps) {
		r.step()
		ran++
	}
	return ran
}

// Resolve confirms checkpoint id and resumes the queue.
func (r *Runner) Resolve(id string) bool {
	return r.checkpoints.Resolve(id)
}

func (r *Runner) step() {
	i := r.next
	s := r.steps[i]
	r.next++
	r.scheduled = false
	if err := r.exec(s); err != nil {
		r.log.Warn("workflow step failed", "step", i+1, "op", s.Op(), "err", err)
	}
}

func (r *Runner) exec(s Step) error {
	t := r.target
	switch {
	case s.Say != "":
		r.emit(Message{Role: RoleAgent, Text: s.Say})

	case s.Create != nil:
		c := s.Create
		kind, err := board.ParseKind(c.Kind)
		if err != nil {
			return err
		}
		status, err := board.ParseStatus(c.Status)
		if err != nil {
			return err
		}
		payload, err := c.Content.Payload(kind)
		if err != nil {
			return err
		}
		_, err = t.CreateEntity(board.Node{
			ID:      c.ID,
			Kind:    kind,
			X:       c.X,
			Y:       c.Y,
			Width:   c.Width,
			Height:  c.Height,
			Title:   c.Title,
			Status:  status,
			GroupID: c.Group,
			Payload: payload,
		})
		return err

	case s.Update != nil:
		u := s.Update
		n, ok := t.Node(u.ID)
		if !ok {
			return fmt.Errorf("update %q: %w", u.ID, board.ErrNotFound)
		}
		if u.Title != "" {
			t.UpdateEntityTitle(u.ID, u.Title)
		}
		if u.Content.IsZero() {
			return nil
		}
		c := u.Content
		if sp, ok := n.Payload.(board.ScreenPayload); ok && c.Variant == "" {
			c.Variant = sp.Variant.String()
		}
		payload, err := c.Payload(n.Kind)
		if err != nil {
			return err
		}
		return t.UpdateEntityPayload(u.ID, payload)

	case s.Status != nil:
		st, err := board.ParseStatus(s.Status.Status)
		if err != nil {
			return err
		}
		if !t.UpdateEntityStatus(s.Status.ID, st) {
			return fmt.Errorf("status %q: %w", s.Status.ID, board.ErrNotFound)
		}

	case s.Move != nil:
		if !t.UpdateEntityPosition(s.Move.ID, s.Move.X, s.Move.Y) {
			return fmt.Errorf("move %q: %w", s.Move.ID, board.ErrNotFound)
		}

	case s.Group != nil:
		missing := 0
		for _, id := range s.Group.IDs {
			if !t.UpdateEntityGroup(id, s.Group.Group) {
				missing++
			}
		}
		if missing > 0 {
			return fmt.Errorf("group %q: %d of %d nodes: %w", s.Group.Group, missing, len(s.Group.IDs), board.ErrNotFound)
		}

	case s.Edge != nil:
		kind, err := board.ParseEdgeKind(s.Edge.Kind)
		if err != nil {
			return err
		}
		_, err = t.AddEdge(board.Edge{From: s.Edge.From, To: s.Edge.To, Kind: kind, Label: s.Edge.Label})
		return err

	case s.Pin != nil:
		p := s.Pin
		t.AddPin(board.Pin{X: p.X, Y: p.Y, Content: p.Content, TargetNodeID: p.Target})

	case s.Focus != nil:
		if s.Focus.Group != "" {
			t.SetFocus(autoframe.Group(t.GroupMembers(s.Focus.Group)...))
		} else if len(s.Focus.IDs) == 1 {
			t.SetFocus(autoframe.Single(s.Focus.IDs[0]))
		} else {
			t.SetFocus(autoframe.Group(s.Focus.IDs...))
		}

	case s.ClearFocus:
		t.SetFocus(autoframe.Focus{})

	case s.GroupMeta != nil:
		m := s.GroupMeta
		t.SetGroupMeta(m.Key, board.GroupMeta{Title: m.Title, Theme: board.Theme(m.Theme)})

	case s.Confirm != nil:
		r.suspend(s.Confirm)
	}
	return nil
}

func (r *Runner) suspend(c *ConfirmOp) {
	prompt := c.Prompt
	if prompt == "" {
		prompt = "Continue?"
	}
	r.waiting = c.ID
	r.checkpoints.Register(c.ID, func() {
		r.log.Info("checkpoint resolved", "checkpoint", c.ID)
		r.waiting = ""
		r.scheduled = false
		r.emit(Message{Role: RoleUser, Text: "Confirmed."})
	})
	r.log.Info("checkpoint reached", "checkpoint", c.ID)
	r.emit(Message{Role: RoleAgent, Text: prompt, Checkpoint: c.ID})
	if r.AutoConfirm {
		r.checkpoints.Resolve(c.ID)
	}
}

func (r *Runner) emit(m Message) {
	if r.OnMessage != nil {
		r.OnMessage(m)
	}
}
