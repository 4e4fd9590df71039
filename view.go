package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"plotboard/internal/workflow"
)

var (
	sidebarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(lipgloss.Color("240")).
			PaddingLeft(1)
	headingStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	agentStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	userStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	systemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("236"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	helpKeyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Width(10)
	helpDescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.help {
		return m.helpView()
	}

	cols, rows := m.canvasCols(), m.canvasRows()
	canvas := strings.Join(renderCanvas(m.engine, cols, rows).styled(), "\n")

	body := canvas
	if side := m.sidebarCols(); side > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, canvas, m.sidebarView(side, rows))
	}
	return body + "\n" + m.statusLine()
}

// sidebarView lays out the transcript above the context panel and the
// active input. Older transcript lines scroll off the top.
func (m model) sidebarView(cols, rows int) string {
	inner := max(1, cols-2)
	wrap := lipgloss.NewStyle().Width(inner)

	var bottom []string
	if m.checkpoint != "" {
		bottom = append(bottom, promptStyle.Render("Waiting for you: y to confirm"))
	}
	bottom = append(bottom, m.contextLines(inner)...)
	bottom = append(bottom, "", m.inputView())

	var transcript []string
	for _, line := range m.transcript {
		rendered := wrap.Render(transcriptStyle(line.role).Render(line.text))
		transcript = append(transcript, strings.Split(rendered, "\n")...)
	}
	room := rows - len(bottom) - 2
	if room < 0 {
		room = 0
	}
	if len(transcript) > room {
		transcript = transcript[len(transcript)-room:]
	}

	lines := []string{headingStyle.Render("Agent")}
	lines = append(lines, transcript...)
	for len(lines)+len(bottom) < rows {
		lines = append(lines, "")
	}
	lines = append(lines, bottom...)
	if len(lines) > rows {
		lines = lines[len(lines)-rows:]
	}
	return sidebarStyle.Width(cols - 1).Height(rows).MaxHeight(rows).Render(strings.Join(lines, "\n"))
}

func transcriptStyle(r workflow.Role) lipgloss.Style {
	switch r {
	case workflow.RoleUser:
		return userStyle
	case workflow.RoleSystem:
		return systemStyle
	}
	return agentStyle
}

// contextLines summarises the selection and the active section.
func (m model) contextLines(width int) []string {
	var lines []string
	sel := m.engine.Selection()
	switch len(sel) {
	case 0:
	case 1:
		if n, ok := m.engine.Node(sel[0]); ok {
			lines = append(lines, trimTo(fmt.Sprintf("%s · %s", n.Title, n.Kind), width))
		}
	default:
		lines = append(lines, fmt.Sprintf("%d nodes selected", len(sel)))
	}
	if s, ok := m.activeSection(); ok {
		lines = append(lines, trimTo("Section: "+s.Title, width))
	}
	return lines
}

func (m model) inputView() string {
	switch m.mode {
	case ModeRenameSection:
		return m.rename.View()
	case ModePinContent:
		return m.pinContent.View()
	}
	return m.chat.View()
}

func (m model) statusLine() string {
	machine := m.engine.Machine()
	tool := machine.Tool().String()
	if machine.HandOverlay() {
		tool = "hand (space)"
	}
	if machine.MentionMode() {
		tool += " @"
	}
	left := fmt.Sprintf(" %s │ %s │ %d%%", m.modeString(), tool, int(m.engine.CameraPose().Scale*100+0.5))
	if m.engine.Following() {
		left += " │ following"
	}
	if m.runner != nil && !m.runner.Done() {
		left += fmt.Sprintf(" │ %d steps left", m.runner.Remaining())
	}

	var right string
	switch {
	case m.mode == ModeConfirm:
		right = promptStyle.Render(m.confirmPrompt())
	case m.errorMessage != "":
		right = errorStyle.Render(m.errorMessage)
	case m.successMessage != "":
		right = successStyle.Render(m.successMessage)
	default:
		right = "? help"
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if gap < 1 {
		gap = 1
	}
	return statusStyle.Width(m.width).MaxWidth(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m model) confirmPrompt() string {
	switch m.confirmAction {
	case ConfirmDeleteSelection:
		return fmt.Sprintf("Delete %d node(s)? (y/n)", len(m.engine.Selection()))
	case ConfirmDeleteSection:
		return "Delete this section? (y/n)"
	}
	return "Quit plotboard? (y/n)"
}

func (m model) modeString() string {
	switch m.mode {
	case ModeCanvas:
		return "CANVAS"
	case ModeChat:
		return "CHAT"
	case ModeRenameSection:
		return "RENAME"
	case ModePinContent:
		return "PIN"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

func (m model) helpView() string {
	lines := []string{
		headingStyle.Render("plotboard help"),
		"",
		"Mouse:",
		"  drag a node to move it (the whole selection moves together)",
		"  drag the bottom-right corner of a node to resize it",
		"  drag a section header to move the section and its nodes",
		"  shift/alt+click adds to or removes from the selection",
		"  wheel pans, ctrl+wheel zooms around the middle of the view",
		"",
		"Tools:",
		"  v select   h hand   p pin   +/- zoom   esc clear",
		"",
		"Keys:",
	}
	for _, b := range keys.helpBindings() {
		h := b.Help()
		lines = append(lines, "  "+helpKeyStyle.Render(h.Key)+helpDescStyle.Render(h.Desc))
	}
	lines = append(lines, "", "Node kinds: 1 document  2 whiteboard  3 screen  4 table  5 api  6 task  7 integration")

	rows := max(1, m.height-1)
	scroll := min(m.helpScroll, max(0, len(lines)-rows))
	end := min(len(lines), scroll+rows)
	return strings.Join(lines[scroll:end], "\n") + "\n" + statusStyle.Width(m.width).Render(" ↑/↓ scroll · ? or esc to close")
}

func trimTo(s string, width int) string {
	r := []rune(s)
	if len(r) <= width || width <= 0 {
		return s
	}
	return string(r[:width-1]) + "…"
}
