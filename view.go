package main

import (
	"fmt"
	"strings"
)

func (m model) View() string {
	if m.help && m.mode != ModeStartup {
		return m.helpView()
	}
	if m.mode == ModeStartup {
		return m.startupView()
	}
	if m.mode == ModeWorkspaceList {
		return m.workspaceListView()
	}

	s := m.session()
	if s == nil {
		return m.startupView()
	}

	width := m.width
	if width < 1 {
		width = 1
	}
	rows := m.canvasRows()

	var preview *Point
	if s.connectMode && s.connectFrom != "" {
		p := m.worldAtCursor()
		preview = &p
	}

	canvas := s.Render(width, rows, preview)

	// Cursor overlay, skipped while a text box has focus.
	if m.mode != ModeEditing && m.mode != ModeTitleInput && m.mode != ModeWorkspaceName {
		y := m.cursorY
		if y >= 0 && y < len(canvas) {
			line := []rune(canvas[y])
			if m.cursorX >= 0 && m.cursorX < len(line) {
				line[m.cursorX] = '█'
				canvas[y] = string(line)
			}
		}
	}

	var result strings.Builder
	if m.showWorkspaceBar() {
		result.WriteString(m.renderWorkspaceBar(width))
		result.WriteString("\n")
	}
	for _, line := range canvas {
		result.WriteString(line)
		result.WriteString("\n")
	}
	result.WriteString(m.renderStatusLine(width))
	return result.String()
}

func (m model) renderWorkspaceBar(width int) string {
	var bar strings.Builder
	for i, s := range m.sessions {
		if i > 0 {
			bar.WriteString(workspaceBarStyle.Render(" "))
		}
		name := s.workspace.Name
		if name == "" {
			name = fmt.Sprintf("Workspace %d", i+1)
		}
		if i == m.current {
			bar.WriteString(activeWorkspaceStyle.Render(" " + name + " "))
		} else {
			bar.WriteString(workspaceBarStyle.Render(" " + name + " "))
		}
	}
	return workspaceBarStyle.Width(width).Render(bar.String())
}

func (m model) renderStatusLine(width int) string {
	s := m.session()
	var status string

	switch m.mode {
	case ModeEditing:
		status = fmt.Sprintf("Mode: EDIT | Text: %s | Enter=newline, Ctrl+S=save, Esc=cancel",
			inputDisplay(m.editText, m.editCursor))
	case ModeTitleInput:
		status = fmt.Sprintf("Mode: TITLE | Title: %s | Enter=save, Esc=cancel",
			inputDisplay(m.titleText, len(m.titleText)))
	case ModeWorkspaceName:
		label := "New workspace"
		if m.renameTarget != "" {
			label = "Rename workspace"
		}
		status = fmt.Sprintf("%s: %s█ | Enter=confirm, Esc=cancel", label, m.nameText)
	case ModeMove:
		status = "Mode: MOVE | hjkl/arrows=move, Enter=finish, Esc=cancel"
	case ModeResize:
		status = "Mode: RESIZE | hjkl/arrows=resize, Enter=finish, Esc=cancel"
	case ModeConfirm:
		var message string
		switch m.confirmAction {
		case ConfirmDeleteCard:
			message = "Delete this card? (y/n)"
		case ConfirmDeleteConnection:
			message = "Delete this connection? (y/n)"
		case ConfirmDeleteWorkspace:
			message = "Delete this workspace and everything in it? (y/n)"
		case ConfirmQuit:
			message = "Quit korq? (y/n)"
		}
		status = fmt.Sprintf("Mode: CONFIRM | %s", message)
	default:
		modeStr := "NORMAL"
		if m.zPanMode {
			modeStr = "PAN"
		}
		status = fmt.Sprintf("Mode: %s", modeStr)
		if s != nil {
			status += fmt.Sprintf(" | %s | Zoom: %d%%", s.workspace.Name, int(s.settings.Zoom*100+0.5))
			if GridMode(s.settings.GridMode) != GridOff {
				status += fmt.Sprintf(" | Grid: %s", s.settings.GridMode)
			}
			if s.settings.SnapToGrid {
				status += " | Snap"
			}
			if s.connectMode {
				if s.connectFrom != "" {
					status += " | Connecting: pick target"
				} else {
					status += " | Connecting: pick source"
				}
			}
		}
		if m.successMessage != "" {
			status += " | " + m.successMessage
		}
		if m.errorMessage != "" {
			status += " | ERROR: " + m.errorMessage
		} else if m.successMessage == "" {
			status += " | ? for help"
		}
	}

	if m.errorMessage != "" && m.mode == ModeNormal {
		return errorStyle.Width(width).Render(status)
	}
	return statusStyle.Width(width).Render(status)
}

// inputDisplay renders a single-line view of an input buffer with a
// block cursor, newlines flattened.
func inputDisplay(text string, cursor int) string {
	flat := strings.ReplaceAll(text, "\n", " ")
	if cursor > len(flat) {
		cursor = len(flat)
	}
	if len(flat) == 0 {
		return "█"
	}
	if cursor >= len(flat) {
		return flat + "█"
	}
	runes := []rune(flat)
	if cursor < len(runes) {
		runes[cursor] = '█'
	}
	return string(runes)
}

func (m model) startupView() string {
	var b strings.Builder
	b.WriteString("korq — card boards for your terminal\n")
	b.WriteString("====================================\n\n")

	if m.mode == ModeWorkspaceName {
		b.WriteString("New workspace name: ")
		b.WriteString(m.nameText)
		b.WriteString("█\n")
		return b.String()
	}

	if len(m.workspaces) == 0 {
		b.WriteString("No workspaces yet.\n\n")
	} else {
		b.WriteString("Workspaces:\n")
		for i, ws := range m.workspaces {
			if i == m.selectedWorkspace {
				b.WriteString(fmt.Sprintf("> %s <\n", ws.Name))
			} else {
				b.WriteString(fmt.Sprintf("  %s\n", ws.Name))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("'n' new workspace  j/k navigate  Enter open  'd' delete  'q' quit")
	if m.errorMessage != "" {
		b.WriteString("\nERROR: " + m.errorMessage)
	}
	return b.String()
}

func (m model) workspaceListView() string {
	var b strings.Builder
	width := m.width
	if width < 1 {
		width = 1
	}

	b.WriteString("Workspaces:\n")
	b.WriteString(strings.Repeat("─", width))
	b.WriteString("\n")

	if len(m.workspaces) == 0 {
		b.WriteString("(none)\n")
	}
	for i, ws := range m.workspaces {
		if i == m.selectedWorkspace {
			b.WriteString(fmt.Sprintf("> %s <\n", ws.Name))
		} else {
			b.WriteString(fmt.Sprintf("  %s\n", ws.Name))
		}
	}

	b.WriteString(strings.Repeat("─", width))
	b.WriteString("\n")
	b.WriteString("j/k=navigate, Enter=open, n=new, d=delete, Esc=back")
	if m.errorMessage != "" {
		b.WriteString(" | ERROR: " + m.errorMessage)
	}
	return b.String()
}

func helpLines() []string {
	return []string{
		"korq Help",
		"=========",
		"",
		"Navigation:",
		"-----------",
		"  h/←/j/↓/k/↑/l/→  Move cursor around the screen",
		"  Shift+direction  Move cursor 2x faster",
		"  z                Toggle pan mode (direction keys pan the view)",
		"  Alt+direction    Jump toward off-screen cards",
		"  f                Center the view on the card under the cursor",
		"  F                Reset view to the top-left of your cards",
		"",
		"Zoom:",
		"-----",
		"  +/-              Zoom in / out about the center",
		"  0                Reset zoom to 100%",
		"  Mouse wheel      Zoom about the pointer",
		"",
		"Cards:",
		"------",
		"  b                New card at the cursor",
		"  B                New card at the view center",
		"  Double-click     New card at the pointer",
		"  Enter / click    Select the card under the cursor",
		"  t                Edit the card title",
		"  e                Edit the card content",
		"  m                Move the card (then hjkl, Enter to finish)",
		"  Drag             Move the card with the mouse",
		"  r                Resize the card (then hjkl, Enter to finish)",
		"  d                Delete the card",
		"  c                Copy the card text to the clipboard",
		"  p                Paste the clipboard as a new card",
		"",
		"Connections:",
		"------------",
		"  a                Connect mode: press on source, then target",
		"  D                Delete the connection under the cursor",
		"",
		"View:",
		"-----",
		"  g                Cycle the background grid (off/dots/lines)",
		"  s                Toggle snap-to-grid for moves",
		"  S                Export the board as a PNG image",
		"",
		"Workspaces:",
		"-----------",
		"  N                New workspace",
		"  R                Rename the current workspace",
		"  o                Open the workspace list",
		"  x                Close the current workspace view",
		"  { / }            Previous / next open workspace",
		"",
		"General:",
		"--------",
		"  u                Undo last action",
		"  U                Redo last undone action",
		"  Esc              Clear selection / cancel current operation",
		"  ?                Toggle this help screen",
		"  q/Ctrl+C         Quit korq",
	}
}

func (m model) helpView() string {
	lines := helpLines()
	visible := m.height - 1
	if visible < 1 {
		visible = 1
	}
	start := m.helpScroll
	if start > len(lines) {
		start = len(lines)
	}
	end := start + visible
	if end > len(lines) {
		end = len(lines)
	}

	var b strings.Builder
	for _, line := range lines[start:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("j/k=scroll, any other key to close")
	return b.String()
}
