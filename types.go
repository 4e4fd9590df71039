package main

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"plotboard/internal/config"
	"plotboard/internal/engine"
	"plotboard/internal/frame"
	"plotboard/internal/interact"
	"plotboard/internal/prefs"
	"plotboard/internal/workflow"
)

type model struct {
	width  int
	height int

	engine *engine.Engine
	runner *workflow.Runner
	prefs  *prefs.Store
	config *config.Config
	log    *slog.Logger

	// moves holds the latest pointer move until the next frame tick.
	moves   frame.Coalescer[interact.PointerEvent]
	pressed bool

	mode          Mode
	help          bool
	helpScroll    int
	confirmAction ConfirmAction

	chat       textinput.Model
	rename     textinput.Model
	pinContent textinput.Model
	editPin    string

	transcript []transcriptLine
	checkpoint string

	errorMessage   string
	successMessage string

	// inbox collects callbacks fired by the engine and runner during an
	// update so they are handled once the update returns.
	inbox *inbox
}

type inbox struct {
	msgs []tea.Msg
}

func (b *inbox) push(msg tea.Msg) { b.msgs = append(b.msgs, msg) }

func (b *inbox) drain() []tea.Msg {
	msgs := b.msgs
	b.msgs = nil
	return msgs
}

type transcriptLine struct {
	role workflow.Role
	text string
}

// frameMsg drains the coalesced pointer move.
type frameMsg struct{}

type workflowTickMsg time.Time

// runnerMsg carries a workflow message into the update loop.
type runnerMsg workflow.Message

type pinPlacedMsg string

type mentionMsg string
