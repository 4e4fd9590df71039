package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plotboard/internal/board"
	"plotboard/internal/config"
	"plotboard/internal/engine"
	"plotboard/internal/interact"
	"plotboard/internal/logging"
	"plotboard/internal/prefs"
	"plotboard/internal/workflow"
)

const confirmScript = `
name: review
steps:
  - say: Drafting.
  - confirm:
      id: look
      prompt: Ready?
  - say: Done.
`

func newTestModel(t *testing.T, script string) model {
	t.Helper()
	cfg := config.Default()
	cfg.UI.Confirmations = false
	cfg.UI.SaveDirectory = t.TempDir()
	e := engine.New(engine.OptionsFromConfig(cfg), nil)
	s := &session{cfg: cfg, log: logging.Discard(), engine: e}
	if script != "" {
		sc, err := workflow.ParseScript([]byte(script))
		require.NoError(t, err)
		s.runner = workflow.NewRunner(sc, e, nil, nil)
	}
	m := initialModel(s, prefs.Open(t.TempDir()))
	return send(m, tea.WindowSizeMsg{Width: 120, Height: 31})
}

func send(m model, msgs ...tea.Msg) model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

func press(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "delete":
		return tea.KeyMsg{Type: tea.KeyDelete}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(x, y int, action tea.MouseAction) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

func nodeTitled(id, title string) board.Node {
	return board.Node{ID: id, Kind: board.KindTask, Title: title}
}

func addTask(t *testing.T, m model, title string, x, y float64) string {
	t.Helper()
	id, err := m.engine.CreateEntity(board.Node{
		Kind: board.KindTask, X: x, Y: y, Width: 300, Height: 180,
		Title: title, Status: board.StatusDone,
	})
	require.NoError(t, err)
	return id
}

func TestWindowSizeSetsViewport(t *testing.T) {
	m := newTestModel(t, "")
	// 380px sidebar is 47 cells, the status line takes a row.
	assert.Equal(t, 47, m.sidebarCols())
	assert.Equal(t, float64(73*cellWidth), m.engine.Viewport().Width)
	assert.Equal(t, float64(30*cellHeight), m.engine.Viewport().Height)
}

func TestMouseDragIsCoalesced(t *testing.T) {
	m := newTestModel(t, "")
	id := addTask(t, m, "Sprint", 0, 0)

	m = send(m, mouse(2, 2, tea.MouseActionPress), mouse(8, 2, tea.MouseActionMotion), mouse(12, 2, tea.MouseActionMotion))
	require.True(t, m.moves.Pending())
	n, _ := m.engine.Node(id)
	assert.Equal(t, 0.0, n.X, "moves wait for the frame")

	m = send(m, frameMsg{})
	n, _ = m.engine.Node(id)
	assert.Equal(t, 80.0, n.X)
	assert.False(t, m.moves.Pending())

	m = send(m, mouse(14, 2, tea.MouseActionMotion), mouse(14, 2, tea.MouseActionRelease))
	n, _ = m.engine.Node(id)
	assert.Equal(t, 96.0, n.X, "release flushes the pending move")
	assert.False(t, m.pressed)
	assert.Equal(t, []string{id}, m.engine.Selection())
}

func TestWheelPansAndZooms(t *testing.T) {
	m := newTestModel(t, "")
	m = send(m, tea.MouseMsg{X: 5, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	assert.Equal(t, -float64(wheelStep), m.engine.CameraPose().Y)

	m = send(m, tea.MouseMsg{X: 5, Y: 5, Ctrl: true, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	assert.Greater(t, m.engine.CameraPose().Scale, 1.0)

	// Over the sidebar the wheel does nothing.
	before := m.engine.CameraPose()
	m = send(m, tea.MouseMsg{X: 100, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	assert.Equal(t, before, m.engine.CameraPose())
}

func TestSpaceTogglesHand(t *testing.T) {
	m := newTestModel(t, "")
	m = send(m, press(" "))
	assert.True(t, m.engine.Machine().HandOverlay())
	m = send(m, press(" "))
	assert.False(t, m.engine.Machine().HandOverlay())
	assert.Equal(t, interact.Select, m.engine.Machine().Tool())
}

func TestToolKeys(t *testing.T) {
	m := newTestModel(t, "")
	m = send(m, press("3"))
	assert.Equal(t, interact.Create(board.KindScreen), m.engine.Machine().Tool())
	m = send(m, press("s"))
	assert.Equal(t, interact.DrawSection, m.engine.Machine().Tool())
	m = send(m, press("h"))
	assert.Equal(t, interact.Hand, m.engine.Machine().Tool())
}

func TestSidebarWidthPersists(t *testing.T) {
	m := newTestModel(t, "")
	dir := t.TempDir()
	m.prefs = prefs.Open(dir)

	m = send(m, press("]"), press("]"))
	assert.Equal(t, 420, m.prefs.SidebarWidth())
	assert.Equal(t, 420, prefs.Open(dir).SidebarWidth())
	assert.Equal(t, float64((120-52)*cellWidth), m.engine.Viewport().Width)

	for i := 0; i < 30; i++ {
		m = send(m, press("["))
	}
	assert.Equal(t, prefs.MinSidebarWidth, m.prefs.SidebarWidth())
}

func TestWorkflowCheckpointFromKeyboard(t *testing.T) {
	m := newTestModel(t, confirmScript)
	m = send(m, workflowTickMsg(time.Now()))

	require.Len(t, m.transcript, 2)
	assert.Equal(t, "Ready?", m.transcript[1].text)
	assert.Equal(t, "look", m.checkpoint)

	m = send(m, press("y"))
	assert.Empty(t, m.checkpoint)
	assert.Equal(t, "Confirmed.", m.transcript[2].text)
	assert.Equal(t, workflow.RoleUser, m.transcript[2].role)

	m = send(m, workflowTickMsg(time.Now()))
	assert.Equal(t, "Done.", m.transcript[3].text)
	assert.True(t, m.runner.Done())
}

func TestChatConfirmsCheckpoint(t *testing.T) {
	m := newTestModel(t, confirmScript)
	m = send(m, workflowTickMsg(time.Now()), press("i"), press("yes"), press("enter"))
	assert.Equal(t, ModeChat, m.mode)
	assert.Empty(t, m.checkpoint)
	assert.Equal(t, "yes", m.transcript[2].text)
	assert.Equal(t, "Confirmed.", m.transcript[3].text)
}

func TestPinToolOpensEditor(t *testing.T) {
	m := newTestModel(t, "")
	m = send(m, press("p"), mouse(5, 5, tea.MouseActionPress), mouse(5, 5, tea.MouseActionRelease))
	require.Equal(t, ModePinContent, m.mode)

	m = send(m, press("check copy"), press("enter"))
	assert.Equal(t, ModeCanvas, m.mode)
	pins := m.engine.Pins()
	require.Len(t, pins, 1)
	assert.Equal(t, "check copy", pins[0].Content)
	assert.Equal(t, pixelOf(5, 5).X, pins[0].X)
}

func TestMentionFillsChat(t *testing.T) {
	m := newTestModel(t, "")
	addTask(t, m, "Sprint plan", 0, 0)
	m = send(m, press("@"), mouse(2, 2, tea.MouseActionPress))
	assert.Equal(t, ModeChat, m.mode)
	assert.Equal(t, "@Sprint-plan ", m.chat.Value())
	assert.False(t, m.engine.Machine().MentionMode())
}

func TestDeleteAsksFirst(t *testing.T) {
	m := newTestModel(t, "")
	m.config.UI.Confirmations = true
	id := addTask(t, m, "Sprint", 0, 0)
	m.engine.Select(id)

	m = send(m, press("delete"))
	require.Equal(t, ModeConfirm, m.mode)
	_, ok := m.engine.Node(id)
	assert.True(t, ok)

	m = send(m, press("y"))
	assert.Equal(t, ModeCanvas, m.mode)
	_, ok = m.engine.Node(id)
	assert.False(t, ok)
}

func TestQuitConfirmation(t *testing.T) {
	m := newTestModel(t, "")
	m.config.UI.Confirmations = true

	m = send(m, press("q"))
	require.Equal(t, ModeConfirm, m.mode)
	m = send(m, press("n"))
	assert.Equal(t, ModeCanvas, m.mode)

	m = send(m, press("q"))
	_, cmd := m.Update(press("y"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestRenameActiveSection(t *testing.T) {
	m := newTestModel(t, "")
	m = send(m, press("s"), mouse(1, 1, tea.MouseActionPress), mouse(40, 20, tea.MouseActionMotion), frameMsg{}, mouse(40, 20, tea.MouseActionRelease))
	id := m.engine.Machine().ActiveSection()
	require.NotEmpty(t, id)

	m = send(m, press("r"))
	require.Equal(t, ModeRenameSection, m.mode)
	assert.Equal(t, "Section", m.rename.Value())

	m.rename.SetValue("Backlog")
	m = send(m, press("enter"))
	s, ok := m.engine.Section(id)
	require.True(t, ok)
	assert.Equal(t, "Backlog", s.Title)
}

func TestExportText(t *testing.T) {
	m := newTestModel(t, "")
	addTask(t, m, "Sprint", 0, 0)
	m = send(m, press("X"))
	assert.Empty(t, m.errorMessage)

	data, err := os.ReadFile(filepath.Join(m.config.UI.SaveDirectory, "plotboard.txt"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, lines, m.canvasRows())
	assert.Contains(t, string(data), "Sprint")
}
