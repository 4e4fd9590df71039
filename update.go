package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"plotboard/internal/board"
	"plotboard/internal/geom"
	"plotboard/internal/importer"
	"plotboard/internal/interact"
	"plotboard/internal/prefs"
	"plotboard/internal/section"
	"plotboard/internal/workflow"
)

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.workflowTick())
}

func (m model) workflowTick() tea.Cmd {
	if m.runner == nil {
		return nil
	}
	return tea.Tick(workflowInterval, func(t time.Time) tea.Msg { return workflowTickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()

	case tea.MouseMsg:
		cmds = append(cmds, m.handleMouse(msg))

	case frameMsg:
		if ev, ok := m.moves.Flush(); ok {
			m.engine.PointerMove(ev)
		}

	case workflowTickMsg:
		if m.runner == nil {
			break
		}
		m.runner.Advance(time.Time(msg))
		if !m.runner.Done() {
			cmds = append(cmds, m.workflowTick())
		}

	case tea.KeyMsg:
		cmd, quit := m.handleKey(msg)
		if quit {
			return m, tea.Quit
		}
		cmds = append(cmds, cmd)
	}
	cmds = append(cmds, m.processInbox()...)
	return m, tea.Batch(cmds...)
}

// handleMouse turns a terminal mouse event into a pointer event at the
// centre of the cell. Moves are coalesced to one per frame; a press or
// release flushes the pending move first so ordering is kept.
func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.help {
		return nil
	}
	ev := interact.PointerEvent{
		Pos:  pixelOf(msg.X, msg.Y),
		Mods: interact.Modifiers{Shift: msg.Shift, Ctrl: msg.Ctrl, Meta: msg.Alt},
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown, tea.MouseButtonWheelLeft, tea.MouseButtonWheelRight:
		if !m.inCanvas(msg.X, msg.Y) {
			return nil
		}
		w := interact.WheelEvent{Mods: ev.Mods}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			w.DeltaY = -wheelStep
		case tea.MouseButtonWheelDown:
			w.DeltaY = wheelStep
		case tea.MouseButtonWheelLeft:
			w.DeltaX = -wheelStep
		case tea.MouseButtonWheelRight:
			w.DeltaX = wheelStep
		}
		m.engine.Wheel(w)
		return nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !m.inCanvas(msg.X, msg.Y) {
			return nil
		}
		m.flushMove()
		m.pressed = true
		m.engine.PointerDown(ev)

	case tea.MouseActionMotion:
		if !m.pressed && !m.inCanvas(msg.X, msg.Y) {
			return nil
		}
		if _, request := m.moves.Schedule(ev); request {
			return tea.Tick(m.config.FrameInterval(), func(time.Time) tea.Msg { return frameMsg{} })
		}

	case tea.MouseActionRelease:
		if !m.pressed {
			return nil
		}
		m.flushMove()
		m.pressed = false
		m.engine.PointerUp(ev)
	}
	return nil
}

func (m *model) flushMove() {
	if ev, ok := m.moves.Flush(); ok {
		m.engine.PointerMove(ev)
	}
}

// handleKey routes a key by mode. The bool asks the program to quit.
func (m *model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	m.errorMessage, m.successMessage = "", ""

	if msg.String() == "ctrl+c" {
		return nil, true
	}
	if m.help {
		m.handleHelpKey(msg)
		return nil, false
	}

	switch m.mode {
	case ModeConfirm:
		return nil, m.handleConfirmKey(msg)
	case ModeChat:
		return m.handleChatKey(msg), false
	case ModeRenameSection:
		return m.handleRenameKey(msg), false
	case ModePinContent:
		return m.handlePinKey(msg), false
	}
	return m.handleCanvasKey(msg)
}

func (m *model) handleHelpKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "?", "esc", "q":
		m.help = false
		m.helpScroll = 0
	case "up", "k":
		m.helpScroll = max(0, m.helpScroll-1)
	case "down", "j":
		m.helpScroll++
	}
}

func (m *model) handleCanvasKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	machine := m.engine.Machine()
	switch {
	case key.Matches(msg, keys.Quit):
		if m.config.UI.Confirmations {
			m.askConfirm(ConfirmQuit)
			return nil, false
		}
		return nil, true

	case key.Matches(msg, keys.Help):
		m.help = true

	case key.Matches(msg, keys.Space):
		// Terminals report no key release, so space toggles the overlay.
		ev := interact.KeyEvent{Key: "space"}
		if machine.HandOverlay() {
			m.engine.KeyUp(ev)
		} else {
			m.engine.KeyDown(ev)
		}

	case key.Matches(msg, keys.Kinds):
		i := int(msg.String()[0] - '1')
		machine.SetTool(interact.Create(board.Kinds[i]))

	case key.Matches(msg, keys.Section):
		machine.SetTool(interact.DrawSection)

	case key.Matches(msg, keys.PlaceSection):
		c := m.viewCenter()
		r := geom.Rect{X: c.X - newSectionWidth/2, Y: c.Y - newSectionHeight/2, Width: newSectionWidth, Height: newSectionHeight}
		id := m.engine.AddManualSection(r, "Section")
		m.successMessage = "Added section " + id

	case key.Matches(msg, keys.Fit):
		if !m.engine.FitAll() {
			m.errorMessage = "Nothing to fit"
		}

	case key.Matches(msg, keys.Goto):
		sel := m.engine.Selection()
		if len(sel) == 0 || !m.engine.PanTo(sel[0]) {
			m.errorMessage = "Select a node first"
		}

	case key.Matches(msg, keys.Rename):
		s, ok := m.activeSection()
		if !ok {
			m.errorMessage = "Click a section header first"
			return nil, false
		}
		m.rename.SetValue(s.Title)
		m.rename.CursorEnd()
		m.mode = ModeRenameSection
		return m.rename.Focus(), false

	case key.Matches(msg, keys.Theme):
		s, ok := m.activeSection()
		if !ok {
			m.errorMessage = "Click a section header first"
			return nil, false
		}
		theme, _ := m.engine.CycleSectionTheme(s.ID)
		m.successMessage = "Theme " + string(theme)

	case key.Matches(msg, keys.DropSection):
		if _, ok := m.activeSection(); !ok {
			m.errorMessage = "Click a section header first"
			return nil, false
		}
		if m.config.UI.Confirmations {
			m.askConfirm(ConfirmDeleteSection)
			return nil, false
		}
		m.deleteActiveSection()

	case key.Matches(msg, keys.Delete):
		if len(m.engine.Selection()) == 0 {
			return nil, false
		}
		if m.config.UI.Confirmations {
			m.askConfirm(ConfirmDeleteSelection)
			return nil, false
		}
		m.engine.KeyDown(interact.KeyEvent{Key: "delete"})

	case key.Matches(msg, keys.Confirm):
		if !m.confirmCheckpoint() {
			m.errorMessage = "Nothing to confirm"
		}

	case key.Matches(msg, keys.Mention):
		machine.SetMentionMode(!machine.MentionMode())

	case key.Matches(msg, keys.Narrower):
		m.setSidebarWidth(m.prefs.SidebarWidth() - sidebarStep)

	case key.Matches(msg, keys.Wider):
		m.setSidebarWidth(m.prefs.SidebarWidth() + sidebarStep)

	case key.Matches(msg, keys.Chat):
		m.mode = ModeChat
		return m.chat.Focus(), false

	case key.Matches(msg, keys.ExportPNG):
		path, err := m.config.GetSavePath("plotboard.png")
		if err == nil {
			err = m.exportPNG(path)
		}
		if err != nil {
			m.log.Error("export failed", "format", "png", "err", err)
			m.errorMessage = "Export failed: " + err.Error()
		} else {
			m.successMessage = "Saved " + path
		}

	case key.Matches(msg, keys.ExportTXT):
		path, err := m.config.GetSavePath("plotboard.txt")
		if err == nil {
			err = m.exportVisualTXT(path)
		}
		if err != nil {
			m.log.Error("export failed", "format", "txt", "err", err)
			m.errorMessage = "Export failed: " + err.Error()
		} else {
			m.successMessage = "Saved " + path
		}

	case key.Matches(msg, keys.Paste):
		m.pasteDocument()

	case key.Matches(msg, keys.Copy):
		m.copyMentions()

	case key.Matches(msg, keys.Pan):
		m.handlePan(msg.String())

	default:
		m.engine.KeyDown(interact.KeyEvent{Key: msg.String()})
	}
	return nil, false
}

func (m *model) askConfirm(action ConfirmAction) {
	m.confirmAction = action
	m.mode = ModeConfirm
}

func (m *model) handleConfirmKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "y", "Y", "enter":
		m.mode = ModeCanvas
		switch m.confirmAction {
		case ConfirmQuit:
			return true
		case ConfirmDeleteSelection:
			n := m.engine.Machine().DeleteSelection()
			m.engine.Commit()
			m.successMessage = fmt.Sprintf("Deleted %d node(s)", n)
		case ConfirmDeleteSection:
			m.deleteActiveSection()
		}
	case "n", "N", "esc", "q":
		m.mode = ModeCanvas
	}
	return false
}

func (m *model) activeSection() (section.Section, bool) {
	id := m.engine.Machine().ActiveSection()
	if id == "" {
		return section.Section{}, false
	}
	return m.engine.Section(id)
}

// deleteActiveSection removes a manual section, or ungroups the members of
// an auto section so it disappears.
func (m *model) deleteActiveSection() {
	s, ok := m.activeSection()
	if !ok {
		return
	}
	if s.Kind == section.KindManual {
		m.engine.DeleteSection(s.ID)
	} else {
		for _, id := range s.Members {
			m.engine.UpdateEntityGroup(id, "")
		}
		m.engine.Machine().ForgetSection(s.ID)
	}
	m.successMessage = "Removed section " + s.Title
}

func (m *model) setSidebarWidth(px int) {
	w, err := m.prefs.SetSidebarWidth(px)
	if err != nil {
		m.log.Warn("sidebar width not saved", "err", err)
	}
	m.resize()
	if w == prefs.MinSidebarWidth || w == prefs.MaxSidebarWidth {
		m.successMessage = fmt.Sprintf("Sidebar %dpx (limit)", w)
	}
}

// confirmCheckpoint resolves the checkpoint the workflow is waiting on.
func (m *model) confirmCheckpoint() bool {
	if m.runner == nil {
		return false
	}
	id, ok := m.runner.Waiting()
	if !ok {
		return false
	}
	return m.runner.Resolve(id)
}

func (m *model) handleChatKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Back):
		m.chat.Blur()
		m.mode = ModeCanvas
		return nil
	case key.Matches(msg, keys.Enter):
		text := strings.TrimSpace(m.chat.Value())
		m.chat.SetValue("")
		if text == "" {
			return nil
		}
		m.appendTranscript(workflow.RoleUser, text)
		m.log.Info("chat", "text", text)
		switch strings.ToLower(text) {
		case "y", "yes", "ok", "confirm":
			m.confirmCheckpoint()
		}
		return nil
	}
	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)
	return cmd
}

func (m *model) handleRenameKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Back):
	case key.Matches(msg, keys.Enter):
		if s, ok := m.activeSection(); ok {
			if title := strings.TrimSpace(m.rename.Value()); title != "" {
				m.engine.RenameSection(s.ID, title)
			}
		}
	default:
		var cmd tea.Cmd
		m.rename, cmd = m.rename.Update(msg)
		return cmd
	}
	m.rename.Blur()
	m.mode = ModeCanvas
	return nil
}

func (m *model) handlePinKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Back):
	case key.Matches(msg, keys.Enter):
		m.engine.SetPinContent(m.editPin, strings.TrimSpace(m.pinContent.Value()))
	default:
		var cmd tea.Cmd
		m.pinContent, cmd = m.pinContent.Update(msg)
		return cmd
	}
	m.pinContent.Blur()
	m.editPin = ""
	m.mode = ModeCanvas
	return nil
}

// pasteDocument drops clipboard text onto the canvas as a document
// centred in view.
func (m *model) pasteDocument() {
	text, err := readClipboardText()
	if err != nil {
		m.errorMessage = "Clipboard unavailable"
		m.log.Warn("clipboard read failed", "err", err)
		return
	}
	id, err := importer.Text(m.engine, cleanClipboardText(text), m.viewCenter())
	if err != nil {
		m.errorMessage = "Nothing to paste"
		return
	}
	m.engine.Select(id)
	m.successMessage = "Pasted document"
}

func (m *model) copyMentions() {
	var tokens []string
	for _, id := range m.engine.Selection() {
		if n, ok := m.engine.Node(id); ok {
			tokens = append(tokens, mentionToken(n))
		}
	}
	if len(tokens) == 0 {
		m.errorMessage = "Select a node first"
		return
	}
	if err := writeClipboardText(strings.Join(tokens, " ")); err != nil {
		m.errorMessage = "Clipboard unavailable"
		return
	}
	m.successMessage = fmt.Sprintf("Copied %d mention(s)", len(tokens))
}

func mentionToken(n board.Node) string {
	title := n.Title
	if title == "" {
		title = n.ID
	}
	return "@" + strings.ReplaceAll(title, " ", "-")
}

func (m *model) appendTranscript(role workflow.Role, text string) {
	m.transcript = append(m.transcript, transcriptLine{role: role, text: text})
}

// processInbox handles what the engine and runner reported during this
// update.
func (m *model) processInbox() []tea.Cmd {
	var cmds []tea.Cmd
	for _, msg := range m.inbox.drain() {
		switch msg := msg.(type) {
		case runnerMsg:
			m.appendTranscript(msg.Role, msg.Text)
			if msg.Checkpoint != "" {
				m.checkpoint = msg.Checkpoint
			}
		case pinPlacedMsg:
			m.editPin = string(msg)
			m.pinContent.SetValue("")
			m.mode = ModePinContent
			cmds = append(cmds, m.pinContent.Focus())
		case mentionMsg:
			n, ok := m.engine.Node(string(msg))
			if !ok {
				continue
			}
			v := strings.TrimRight(m.chat.Value(), " ")
			if v != "" {
				v += " "
			}
			m.chat.SetValue(v + mentionToken(n) + " ")
			m.chat.CursorEnd()
			m.mode = ModeChat
			cmds = append(cmds, m.chat.Focus())
		}
	}
	if m.runner != nil {
		if _, waiting := m.runner.Waiting(); !waiting {
			m.checkpoint = ""
		}
	}
	return cmds
}
