// Package workflow runs scripted agent sessions against the canvas: steps
// that create and update nodes, move the camera focus and pause at
// checkpoints for the user to confirm.
package workflow

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"plotboard/internal/board"
)

var (
	ErrUnknownOp   = errors.New("unknown op")
	ErrInvalidStep = errors.New("invalid step")
)

//go:embed scripts/demo.yaml
var demoScript []byte

type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Content carries payload fields shared by create and update. Only the
// fields matching the node kind are used.
type Content struct {
	Markdown  string     `yaml:"markdown,omitempty"`
	Stickies  []string   `yaml:"stickies,omitempty"`
	Variant   string     `yaml:"variant,omitempty"`
	Elements  []string   `yaml:"elements,omitempty"`
	Columns   []string   `yaml:"columns,omitempty"`
	Rows      [][]string `yaml:"rows,omitempty"`
	Endpoints []string   `yaml:"endpoints,omitempty"`
	Items     []string   `yaml:"items,omitempty"`
	Done      int        `yaml:"done,omitempty"`
	Provider  string     `yaml:"provider,omitempty"`
	Events    []string   `yaml:"events,omitempty"`
}

type CreateOp struct {
	ID      string  `yaml:"id"`
	Kind    string  `yaml:"kind"`
	Title   string  `yaml:"title"`
	Group   string  `yaml:"group"`
	Status  string  `yaml:"status"`
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Content `yaml:",inline"`
}

type UpdateOp struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	Content `yaml:",inline"`
}

type StatusOp struct {
	ID     string `yaml:"id"`
	Status string `yaml:"status"`
}

type MoveOp struct {
	ID string  `yaml:"id"`
	X  float64 `yaml:"x"`
	Y  float64 `yaml:"y"`
}

type GroupOp struct {
	IDs   []string `yaml:"ids"`
	Group string   `yaml:"group"`
}

type EdgeOp struct {
	From  string `yaml:"from"`
	To    string `yaml:"to"`
	Kind  string `yaml:"kind"`
	Label string `yaml:"label"`
}

type PinOp struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Content string  `yaml:"content"`
	Target  string  `yaml:"target"`
}

// FocusOp frames explicit ids, or every member of a group.
type FocusOp struct {
	IDs   []string `yaml:"ids"`
	Group string   `yaml:"group"`
}

type GroupMetaOp struct {
	Key   string `yaml:"key"`
	Title string `yaml:"title"`
	Theme string `yaml:"theme"`
}

type ConfirmOp struct {
	ID     string `yaml:"id"`
	Prompt string `yaml:"prompt"`
}

// Step is one scripted action. Exactly one op field is set.
type Step struct {
	Delay time.Duration `yaml:"delay,omitempty"`

	Say        string       `yaml:"say,omitempty"`
	Create     *CreateOp    `yaml:"create,omitempty"`
	Update     *UpdateOp    `yaml:"update,omitempty"`
	Status     *StatusOp    `yaml:"status,omitempty"`
	Move       *MoveOp      `yaml:"move,omitempty"`
	Group      *GroupOp     `yaml:"group,omitempty"`
	Edge       *EdgeOp      `yaml:"edge,omitempty"`
	Pin        *PinOp       `yaml:"pin,omitempty"`
	Focus      *FocusOp     `yaml:"focus,omitempty"`
	ClearFocus bool         `yaml:"clear_focus,omitempty"`
	GroupMeta  *GroupMetaOp `yaml:"group_meta,omitempty"`
	Confirm    *ConfirmOp   `yaml:"confirm,omitempty"`
}

var stepKeys = map[string]bool{
	"delay": true, "say": true, "create": true, "update": true, "status": true,
	"move": true, "group": true, "edge": true, "pin": true, "focus": true,
	"clear_focus": true, "group_meta": true, "confirm": true,
}

// UnmarshalYAML rejects keys that name no known op.
func (s *Step) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: step must be a mapping: %w", value.Line, ErrInvalidStep)
	}
	for i := 0; i < len(value.Content); i += 2 {
		key := value.Content[i]
		if !stepKeys[key.Value] {
			return fmt.Errorf("line %d: %q: %w", key.Line, key.Value, ErrUnknownOp)
		}
	}
	type plain Step
	return value.Decode((*plain)(s))
}

// Op names the step's operation.
func (s Step) Op() string {
	switch {
	case s.Say != "":
		return "say"
	case s.Create != nil:
		return "create"
	case s.Update != nil:
		return "update"
	case s.Status != nil:
		return "status"
	case s.Move != nil:
		return "move"
	case s.Group != nil:
		return "group"
	case s.Edge != nil:
		return "edge"
	case s.Pin != nil:
		return "pin"
	case s.Focus != nil:
		return "focus"
	case s.ClearFocus:
		return "clear_focus"
	case s.GroupMeta != nil:
		return "group_meta"
	case s.Confirm != nil:
		return "confirm"
	}
	return ""
}

func (s Step) opCount() int {
	n := 0
	for _, set := range []bool{
		s.Say != "", s.Create != nil, s.Update != nil, s.Status != nil,
		s.Move != nil, s.Group != nil, s.Edge != nil, s.Pin != nil,
		s.Focus != nil, s.ClearFocus, s.GroupMeta != nil, s.Confirm != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

// Validate checks that the step has one op and the operands it needs.
func (s Step) Validate() error {
	if n := s.opCount(); n != 1 {
		return fmt.Errorf("step has %d ops, want 1: %w", n, ErrInvalidStep)
	}
	if s.Delay < 0 {
		return fmt.Errorf("negative delay: %w", ErrInvalidStep)
	}
	missing := func(what string) error {
		return fmt.Errorf("%s: missing %s: %w", s.Op(), what, ErrInvalidStep)
	}
	switch {
	case s.Create != nil:
		if _, err := board.ParseKind(s.Create.Kind); err != nil {
			return fmt.Errorf("create: %v: %w", err, ErrInvalidStep)
		}
	case s.Update != nil && s.Update.ID == "":
		return missing("id")
	case s.Status != nil:
		if s.Status.ID == "" {
			return missing("id")
		}
		if _, err := board.ParseStatus(s.Status.Status); err != nil {
			return fmt.Errorf("status: %v: %w", err, ErrInvalidStep)
		}
	case s.Move != nil && s.Move.ID == "":
		return missing("id")
	case s.Group != nil && len(s.Group.IDs) == 0:
		return missing("ids")
	case s.Edge != nil && (s.Edge.From == "" || s.Edge.To == ""):
		return missing("from/to")
	case s.Focus != nil && len(s.Focus.IDs) == 0 && s.Focus.Group == "":
		return missing("ids or group")
	case s.GroupMeta != nil && s.GroupMeta.Key == "":
		return missing("key")
	case s.Confirm != nil && s.Confirm.ID == "":
		return missing("id")
	}
	return nil
}

func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	for i, step := range s.Steps {
		if err := step.Validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &s, nil
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load script: %w", err)
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// DemoScript is the built-in product-design session.
func DemoScript() *Script {
	s, err := ParseScript(demoScript)
	if err != nil {
		panic(fmt.Sprintf("embedded demo script: %v", err))
	}
	return s
}

// IsZero reports whether c sets no content field.
func (c Content) IsZero() bool {
	return c.Markdown == "" && c.Variant == "" && c.Provider == "" && c.Done == 0 &&
		len(c.Stickies) == 0 && len(c.Elements) == 0 && len(c.Columns) == 0 &&
		len(c.Rows) == 0 && len(c.Endpoints) == 0 && len(c.Items) == 0 && len(c.Events) == 0
}

// Payload builds the payload for kind from c.
func (c Content) Payload(kind board.Kind) (board.Payload, error) {
	switch kind {
	case board.KindDocument:
		return board.DocumentPayload{Markdown: c.Markdown}, nil
	case board.KindWhiteboard:
		return board.WhiteboardPayload{Stickies: c.Stickies}, nil
	case board.KindScreen:
		v, err := board.ParseVariant(c.Variant)
		if err != nil {
			return nil, err
		}
		return board.ScreenPayload{Variant: v, Elements: c.Elements}, nil
	case board.KindTable:
		return board.TablePayload{Columns: c.Columns, Rows: c.Rows}, nil
	case board.KindAPI:
		eps := make([]board.Endpoint, 0, len(c.Endpoints))
		for _, raw := range c.Endpoints {
			method, path, ok := strings.Cut(strings.TrimSpace(raw), " ")
			if !ok {
				return nil, fmt.Errorf("endpoint %q: want \"METHOD /path\"", raw)
			}
			eps = append(eps, board.Endpoint{Method: strings.ToUpper(method), Path: strings.TrimSpace(path)})
		}
		return board.APIPayload{Endpoints: eps}, nil
	case board.KindTask:
		return board.TaskPayload{Items: c.Items, Done: min(c.Done, len(c.Items))}, nil
	case board.KindIntegration:
		return board.IntegrationPayload{Provider: c.Provider, Events: c.Events}, nil
	}
	return nil, fmt.Errorf("no payload for %s", kind)
}
