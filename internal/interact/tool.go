package interact

import "plotboard/internal/board"

type ToolKind int

const (
	ToolSelect ToolKind = iota
	ToolHand
	ToolPin
	ToolCreate
	ToolSection
)

// Tool is the active pointer tool. Shape is only meaningful for ToolCreate.
type Tool struct {
	Kind  ToolKind
	Shape board.Kind
}

var (
	Select      = Tool{Kind: ToolSelect}
	Hand        = Tool{Kind: ToolHand}
	Pin         = Tool{Kind: ToolPin}
	DrawSection = Tool{Kind: ToolSection}
)

func Create(k board.Kind) Tool { return Tool{Kind: ToolCreate, Shape: k} }

func (t Tool) String() string {
	switch t.Kind {
	case ToolHand:
		return "hand"
	case ToolPin:
		return "pin"
	case ToolCreate:
		return "create " + t.Shape.String()
	case ToolSection:
		return "section"
	}
	return "select"
}

type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool
}

// additive is the modifier that extends or toggles the selection.
func (m Modifiers) additive() bool { return m.Shift || m.Meta }

// zoom is the wheel modifier that turns scrolling into zooming.
func (m Modifiers) zoom() bool { return m.Ctrl || m.Meta }
