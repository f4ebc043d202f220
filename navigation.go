package main

import tea "github.com/charmbracelet/bubbletea"

func (m *model) handleNavigation(key string, speed int) (tea.Model, tea.Cmd) {
	if m.zPanMode {
		return m.handlePan(key, speed), nil
	}
	return m.handleCursorMove(key, speed), nil
}

// handlePan shifts the viewport by whole cells worth of screen pixels.
func (m *model) handlePan(key string, speed int) tea.Model {
	s := m.session()
	if s == nil {
		return m
	}
	dx := float64(speed) * cellPxW
	dy := float64(speed) * cellPxH
	switch key {
	case "h", "left", "H", "shift+left":
		s.Pan(dx, 0)
	case "l", "right", "L", "shift+right":
		s.Pan(-dx, 0)
	case "k", "up", "K", "shift+up":
		s.Pan(0, dy)
	case "j", "down", "J", "shift+down":
		s.Pan(0, -dy)
	}
	return m
}

func (m *model) handleCursorMove(key string, speed int) tea.Model {
	switch key {
	case "h", "left", "H", "shift+left":
		m.cursorX -= speed
	case "l", "right", "L", "shift+right":
		m.cursorX += speed
	case "k", "up", "K", "shift+up":
		m.cursorY -= speed
	case "j", "down", "J", "shift+down":
		m.cursorY += speed
	}
	m.ensureCursorInBounds()
	return m
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}

// handleDirectionalNav jumps toward off-screen content: alt plus a
// direction key pans so the nearest off-screen group lands just inside
// the viewport.
func (m *model) handleDirectionalNav(key string) bool {
	s := m.session()
	if s == nil {
		return false
	}
	viewW, viewH := m.viewportPx()
	switch key {
	case "alt+h", "alt+left":
		s.NavigateToDirection(DirLeft, viewW, viewH)
	case "alt+l", "alt+right":
		s.NavigateToDirection(DirRight, viewW, viewH)
	case "alt+k", "alt+up":
		s.NavigateToDirection(DirUp, viewW, viewH)
	case "alt+j", "alt+down":
		s.NavigateToDirection(DirDown, viewW, viewH)
	default:
		return false
	}
	return true
}
