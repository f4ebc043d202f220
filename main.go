package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"korq/internal/store"
)

func main() {
	cfg := loadConfig()
	logger := newLogger(cfg.LogPath())
	defer logger.Sync()

	st, err := store.Open(cfg.DatabasePath())
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	user, err := st.LocalUser(cfg.UserName)
	if err != nil {
		log.Fatal(err)
	}

	m, err := initialModel(cfg, logger, st, user)
	if err != nil {
		log.Fatal(err)
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

var (
	workspaceBarStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("236")).
				Foreground(lipgloss.Color("250"))
	activeWorkspaceStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("62")).
				Foreground(lipgloss.Color("230")).
				Bold(true)
	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("250"))
	errorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("203"))
)

type model struct {
	width    int
	height   int
	cursorX  int
	cursorY  int
	zPanMode bool

	cfg    *Config
	logger *zap.Logger
	st     *store.Store
	user   *store.User

	sessions []*Session
	current  int

	workspaces        []store.Workspace
	selectedWorkspace int

	mode       Mode
	help       bool
	helpScroll int

	// Content editing happens live against the in-memory card; the
	// pre-edit value is kept for cancel and for the undo snapshot.
	editCardID   string
	editText     string
	editCursor   int
	originalText string

	titleCardID   string
	titleText     string
	originalTitle string

	nameText     string
	renameTarget string

	// Move/resize originals in world units.
	originalX float64
	originalY float64
	originalW float64
	originalH float64

	confirmAction ConfirmAction
	confirmID     string
	confirmReturn Mode

	arbiter *interactionArbiter

	// Mouse drag state, world units.
	dragCardID string
	dragStartX float64
	dragStartY float64
	dragOffX   float64
	dragOffY   float64
	dragMoved  bool

	lastClickAt  time.Time
	lastClickPos Point

	errorMessage   string
	successMessage string
}

// cardSavedMsg reports the result of an asynchronous card write issued
// after a move commit.
type cardSavedMsg struct {
	workspace string
	err       error
}

func persistCard(s *Session, c store.Card) tea.Cmd {
	return func() tea.Msg {
		return cardSavedMsg{workspace: c.WorkspaceID, err: s.st.UpdateCard(c)}
	}
}

func initialModel(cfg *Config, logger *zap.Logger, st *store.Store, user *store.User) (model, error) {
	workspaces, err := st.WorkspacesByUser(user.ID)
	if err != nil {
		return model{}, err
	}

	m := model{
		cfg:        cfg,
		logger:     logger,
		st:         st,
		user:       user,
		workspaces: workspaces,
		mode:       ModeStartup,
		arbiter:    newInteractionArbiter(nil),
	}

	// Skip the start menu when configured off and there is something to
	// open.
	if !cfg.StartMenu && len(workspaces) > 0 {
		s, err := newSession(st, logger, workspaces[0])
		if err != nil {
			return model{}, err
		}
		m.sessions = []*Session{s}
		m.mode = ModeNormal
	}

	return m, nil
}

func (m *model) session() *Session {
	if m.current < 0 || m.current >= len(m.sessions) {
		return nil
	}
	return m.sessions[m.current]
}

func (m *model) showWorkspaceBar() bool {
	return m.mode != ModeStartup && len(m.sessions) > 1
}

func (m *model) barRows() int {
	if m.showWorkspaceBar() {
		return 1
	}
	return 0
}

// canvasRows is the cell height available to the canvas after the
// workspace bar and the status line.
func (m *model) canvasRows() int {
	rows := m.height - 1 - m.barRows()
	if rows < 1 {
		rows = 1
	}
	return rows
}

// viewportPx is the canvas size in screen pixels, the unit the view
// transform works in.
func (m *model) viewportPx() (float64, float64) {
	return float64(m.width) * cellPxW, float64(m.canvasRows()) * cellPxH
}

func (m *model) ensureCursorInBounds() {
	if m.cursorX < 0 {
		m.cursorX = 0
	}
	if m.cursorY < 0 {
		m.cursorY = 0
	}
	if m.width > 0 && m.cursorX >= m.width {
		m.cursorX = m.width - 1
	}
	maxY := m.canvasRows() - 1
	if maxY < 0 {
		maxY = 0
	}
	if m.cursorY > maxY {
		m.cursorY = maxY
	}
}

// worldAtCursor is the world position under the cursor cell.
func (m *model) worldAtCursor() Point {
	s := m.session()
	if s == nil {
		return Point{}
	}
	return s.worldOfCell(m.cursorX, m.cursorY)
}

func (m *model) cursorPx() Point {
	return Point{
		X: (float64(m.cursorX) + 0.5) * cellPxW,
		Y: (float64(m.cursorY) + 0.5) * cellPxH,
	}
}

// openWorkspace switches to an already-open session for the workspace
// or loads a new one.
func (m *model) openWorkspace(ws store.Workspace) {
	for i, s := range m.sessions {
		if s.workspace.ID == ws.ID {
			m.current = i
			m.mode = ModeNormal
			return
		}
	}
	s, err := newSession(m.st, m.logger, ws)
	if err != nil {
		m.logger.Error("opening workspace failed",
			zap.String("workspace", ws.ID), zap.Error(err))
		m.errorMessage = "could not open workspace"
		return
	}
	m.sessions = append(m.sessions, s)
	m.current = len(m.sessions) - 1
	m.mode = ModeNormal
}

func (m *model) refreshWorkspaces() {
	workspaces, err := m.st.WorkspacesByUser(m.user.ID)
	if err != nil {
		m.logger.Error("listing workspaces failed", zap.Error(err))
		m.errorMessage = "could not list workspaces"
		return
	}
	m.workspaces = workspaces
	if m.selectedWorkspace >= len(workspaces) {
		m.selectedWorkspace = len(workspaces) - 1
	}
	if m.selectedWorkspace < 0 {
		m.selectedWorkspace = 0
	}
}

// deleteWorkspace removes the workspace and closes its session if it
// is open.
func (m *model) deleteWorkspace(id string) {
	if err := m.st.DeleteWorkspace(id); err != nil {
		m.logger.Error("deleting workspace failed",
			zap.String("workspace", id), zap.Error(err))
		m.errorMessage = "could not delete workspace"
		return
	}
	for i, s := range m.sessions {
		if s.workspace.ID == id {
			m.sessions = append(m.sessions[:i], m.sessions[i+1:]...)
			if m.current >= len(m.sessions) {
				m.current = len(m.sessions) - 1
			}
			if m.current < 0 {
				m.current = 0
			}
			break
		}
	}
	m.refreshWorkspaces()
	m.successMessage = "workspace deleted"
}

// targetCard is the card an operation applies to: the one under the
// cursor wins, then the selection.
func (m *model) targetCard() *store.Card {
	s := m.session()
	if s == nil {
		return nil
	}
	if card := s.cardAtCell(m.cursorX, m.cursorY); card != nil {
		return card
	}
	if s.selected != "" {
		return s.cardByID(s.selected)
	}
	return nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorInBounds()
		return m, nil

	case cardSavedMsg:
		if msg.err != nil {
			for _, s := range m.sessions {
				if s.workspace.ID == msg.workspace {
					s.recoverStore("move card", msg.err)
					break
				}
			}
			m.errorMessage = "saving card failed; reloaded"
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.help && m.mode != ModeStartup {
			return m.handleHelpKeys(msg)
		}
		switch m.mode {
		case ModeStartup:
			return m.handleStartupKeys(msg)
		case ModeNormal:
			return m.handleNormalKeys(msg)
		case ModeEditing:
			return m.handleEditingKeys(msg)
		case ModeTitleInput:
			return m.handleTitleKeys(msg)
		case ModeMove:
			return m.handleMoveKeys(msg)
		case ModeResize:
			return m.handleResizeKeys(msg)
		case ModeWorkspaceList:
			return m.handleWorkspaceListKeys(msg)
		case ModeWorkspaceName:
			return m.handleWorkspaceNameKeys(msg)
		case ModeConfirm:
			return m.handleConfirmKeys(msg)
		}
	}
	return m, nil
}

func (m model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		visible := m.height - 1
		if visible < 1 {
			visible = 1
		}
		maxScroll := len(helpLines()) - visible
		if maxScroll < 0 {
			maxScroll = 0
		}
		if m.helpScroll < maxScroll {
			m.helpScroll++
		}
		return m, nil
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
		return m, nil
	default:
		m.help = false
		m.helpScroll = 0
		return m, nil
	}
}

func (m model) handleStartupKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.selectedWorkspace < len(m.workspaces)-1 {
			m.selectedWorkspace++
		}
		return m, nil
	case "k", "up":
		if m.selectedWorkspace > 0 {
			m.selectedWorkspace--
		}
		return m, nil
	case "enter":
		if m.selectedWorkspace >= 0 && m.selectedWorkspace < len(m.workspaces) {
			m.openWorkspace(m.workspaces[m.selectedWorkspace])
		}
		return m, nil
	case "n":
		m.mode = ModeWorkspaceName
		m.nameText = ""
		m.renameTarget = ""
		return m, nil
	case "d":
		if m.selectedWorkspace >= 0 && m.selectedWorkspace < len(m.workspaces) {
			m.confirmAction = ConfirmDeleteWorkspace
			m.confirmID = m.workspaces[m.selectedWorkspace].ID
			m.confirmReturn = ModeStartup
			m.mode = ModeConfirm
		}
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session()
	if s == nil {
		m.mode = ModeStartup
		return m, nil
	}

	m.errorMessage = ""
	m.successMessage = ""

	if msg.Type == tea.KeyEscape {
		m.zPanMode = false
		s.connectMode = false
		s.connectFrom = ""
		s.selected = ""
		return m, nil
	}

	key := msg.String()

	if m.handleDirectionalNav(key) {
		return m, nil
	}
	switch key {
	case "h", "j", "k", "l", "H", "J", "K", "L",
		"left", "right", "up", "down",
		"shift+left", "shift+right", "shift+up", "shift+down":
		return m.handleNavigation(key, m.getMoveSpeed(key))
	}

	switch key {
	case "q", "ctrl+c":
		if !m.cfg.Confirmations {
			return m, tea.Quit
		}
		m.confirmAction = ConfirmQuit
		m.confirmReturn = ModeNormal
		m.mode = ModeConfirm
		return m, nil

	case "?":
		m.help = true
		m.helpScroll = 0
		return m, nil

	case "z":
		m.zPanMode = !m.zPanMode
		return m, nil

	case "b":
		if card := s.CreateCardNear(m.worldAtCursor(), "New card", ""); card != nil {
			m.startTitleInput(card)
		}
		return m, nil

	case "B":
		viewW, viewH := m.viewportPx()
		center := screenToWorld(Point{X: viewW / 2, Y: viewH / 2},
			s.settings.PanX, s.settings.PanY, s.settings.Zoom)
		if card := s.CreateCardNear(center, "New card", ""); card != nil {
			m.startTitleInput(card)
		}
		return m, nil

	case "enter":
		if card := s.cardAtCell(m.cursorX, m.cursorY); card != nil {
			m.arbiter.Observe(evCardInteraction, m.cursorPx())
			if s.connectMode {
				s.ConnectClick(card.ID)
			} else {
				s.selected = card.ID
			}
		}
		return m, nil

	case "a":
		if card := s.cardAtCell(m.cursorX, m.cursorY); card != nil {
			if !s.connectMode {
				s.ToggleConnectMode()
			}
			s.ConnectClick(card.ID)
		} else {
			s.ToggleConnectMode()
		}
		return m, nil

	case "t":
		if card := m.targetCard(); card != nil {
			m.startTitleInput(card)
		}
		return m, nil

	case "e":
		if card := m.targetCard(); card != nil {
			m.mode = ModeEditing
			m.editCardID = card.ID
			m.originalText = card.Content
			m.editText = card.Content
			m.editCursor = len(card.Content)
			s.selected = card.ID
			m.arbiter.Observe(evCardInteraction, m.cursorPx())
		}
		return m, nil

	case "m":
		if card := m.targetCard(); card != nil {
			m.mode = ModeMove
			m.originalX = card.X
			m.originalY = card.Y
			s.selected = card.ID
		}
		return m, nil

	case "r":
		if card := m.targetCard(); card != nil {
			m.mode = ModeResize
			m.originalW = card.Width
			m.originalH = card.Height
			s.selected = card.ID
		}
		return m, nil

	case "d":
		if card := m.targetCard(); card != nil {
			if !m.cfg.Confirmations {
				s.DeleteCard(card.ID)
				return m, nil
			}
			m.confirmAction = ConfirmDeleteCard
			m.confirmID = card.ID
			m.confirmReturn = ModeNormal
			m.mode = ModeConfirm
		}
		return m, nil

	case "D":
		if conn := s.connectionAtCell(m.cursorX, m.cursorY); conn != nil {
			if !m.cfg.Confirmations {
				s.DeleteConnection(conn.ID)
				return m, nil
			}
			m.confirmAction = ConfirmDeleteConnection
			m.confirmID = conn.ID
			m.confirmReturn = ModeNormal
			m.mode = ModeConfirm
		}
		return m, nil

	case "u":
		s.Undo()
		return m, nil

	case "U", "ctrl+r":
		s.Redo()
		return m, nil

	case "+", "=":
		viewW, viewH := m.viewportPx()
		s.ZoomAt(Point{X: viewW / 2, Y: viewH / 2}, zoomStep)
		return m, nil

	case "-", "_":
		viewW, viewH := m.viewportPx()
		s.ZoomAt(Point{X: viewW / 2, Y: viewH / 2}, -zoomStep)
		return m, nil

	case "0":
		viewW, viewH := m.viewportPx()
		s.ZoomReset(viewW, viewH)
		return m, nil

	case "f":
		if card := m.targetCard(); card != nil {
			viewW, viewH := m.viewportPx()
			s.FocusOnCard(card.ID, viewW, viewH)
		}
		return m, nil

	case "F":
		viewW, viewH := m.viewportPx()
		s.ResetView(viewW, viewH)
		return m, nil

	case "g":
		s.CycleGridMode()
		return m, nil

	case "s":
		s.ToggleSnap()
		return m, nil

	case "S":
		filename := exportFilename(s.workspace.Name)
		path := m.cfg.GetExportPath(filename)
		if err := s.ExportPNG(path); err != nil {
			m.logger.Error("png export failed", zap.Error(err))
			m.errorMessage = "export failed"
		} else {
			m.successMessage = fmt.Sprintf("exported %s", path)
		}
		return m, nil

	case "p":
		text, err := readClipboardText()
		if err != nil {
			m.errorMessage = "clipboard read failed"
			return m, nil
		}
		cleaned := cleanClipboardText(text)
		if cleaned == "" {
			return m, nil
		}
		s.CreateCardNear(m.worldAtCursor(), firstLine(cleaned), cleaned)
		return m, nil

	case "c":
		if card := m.targetCard(); card != nil {
			text := card.Title
			if card.Content != "" {
				text += "\n" + card.Content
			}
			if err := writeClipboardText(text); err != nil {
				m.errorMessage = "clipboard write failed"
			} else {
				m.successMessage = "card copied"
			}
		}
		return m, nil

	case "N":
		m.mode = ModeWorkspaceName
		m.nameText = ""
		m.renameTarget = ""
		return m, nil

	case "R":
		m.mode = ModeWorkspaceName
		m.nameText = s.workspace.Name
		m.renameTarget = s.workspace.ID
		return m, nil

	case "o":
		m.refreshWorkspaces()
		m.mode = ModeWorkspaceList
		return m, nil

	case "x":
		if len(m.sessions) <= 1 {
			m.errorMessage = "last open workspace"
			return m, nil
		}
		m.sessions = append(m.sessions[:m.current], m.sessions[m.current+1:]...)
		if m.current >= len(m.sessions) {
			m.current = len(m.sessions) - 1
		}
		return m, nil

	case "{":
		if len(m.sessions) > 1 {
			m.current--
			if m.current < 0 {
				m.current = len(m.sessions) - 1
			}
		}
		return m, nil

	case "}":
		if len(m.sessions) > 1 {
			m.current++
			if m.current >= len(m.sessions) {
				m.current = 0
			}
		}
		return m, nil
	}

	return m, nil
}

func (m *model) startTitleInput(card *store.Card) {
	m.mode = ModeTitleInput
	m.titleCardID = card.ID
	m.originalTitle = card.Title
	m.titleText = card.Title
	if s := m.session(); s != nil {
		s.selected = card.ID
	}
}

func (m model) handleEditingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session()
	var card *store.Card
	if s != nil {
		card = s.cardByID(m.editCardID)
	}
	if card == nil {
		m.mode = ModeNormal
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEscape:
		card.Content = m.originalText
		m.mode = ModeNormal
		return m, nil
	case tea.KeyCtrlS:
		m = m.commitContentEdit()
		return m, nil
	case tea.KeyEnter:
		m.editText = m.editText[:m.editCursor] + "\n" + m.editText[m.editCursor:]
		m.editCursor++
	case tea.KeyBackspace:
		if m.editCursor > 0 {
			m.editText = m.editText[:m.editCursor-1] + m.editText[m.editCursor:]
			m.editCursor--
		}
	case tea.KeyLeft:
		if m.editCursor > 0 {
			m.editCursor--
		}
	case tea.KeyRight:
		if m.editCursor < len(m.editText) {
			m.editCursor++
		}
	case tea.KeySpace:
		m.editText = m.editText[:m.editCursor] + " " + m.editText[m.editCursor:]
		m.editCursor++
	case tea.KeyRunes:
		r := string(msg.Runes)
		m.editText = m.editText[:m.editCursor] + r + m.editText[m.editCursor:]
		m.editCursor += len(r)
	}

	// Live preview: the card shows the buffer while typing.
	card.Content = m.editText
	return m, nil
}

// commitContentEdit writes the edit buffer through the session so the
// undo snapshot records the pre-edit content.
func (m model) commitContentEdit() model {
	s := m.session()
	if s == nil {
		m.mode = ModeNormal
		return m
	}
	if card := s.cardByID(m.editCardID); card != nil {
		card.Content = m.originalText
		s.UpdateCard(card.ID, card.Title, m.editText)
	}
	m.mode = ModeNormal
	return m
}

func (m model) handleTitleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session()
	var card *store.Card
	if s != nil {
		card = s.cardByID(m.titleCardID)
	}
	if card == nil {
		m.mode = ModeNormal
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEscape:
		card.Title = m.originalTitle
		m.mode = ModeNormal
		return m, nil
	case tea.KeyEnter:
		m = m.commitTitleEdit()
		return m, nil
	case tea.KeyBackspace:
		if len(m.titleText) > 0 {
			m.titleText = m.titleText[:len(m.titleText)-1]
		}
	case tea.KeySpace:
		m.titleText += " "
	case tea.KeyRunes:
		m.titleText += string(msg.Runes)
	}

	card.Title = m.titleText
	return m, nil
}

func (m model) commitTitleEdit() model {
	s := m.session()
	if s == nil {
		m.mode = ModeNormal
		return m
	}
	if card := s.cardByID(m.titleCardID); card != nil {
		card.Title = m.originalTitle
		s.UpdateCard(card.ID, m.titleText, card.Content)
	}
	m.mode = ModeNormal
	return m
}

func (m model) handleMoveKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session()
	var card *store.Card
	if s != nil {
		card = s.cardByID(s.selected)
	}
	if card == nil {
		m.mode = ModeNormal
		return m, nil
	}

	key := msg.String()
	step := gridUnit * float64(m.getMoveSpeed(key))

	switch key {
	case "esc", "escape":
		card.X = m.originalX
		card.Y = m.originalY
		m.mode = ModeNormal
		return m, nil
	case "enter":
		// Commit through the session so the move is clamped, snapped,
		// and recorded; the store write runs as a command.
		tx, ty := card.X, card.Y
		card.X, card.Y = m.originalX, m.originalY
		m.mode = ModeNormal
		viewW, viewH := m.viewportPx()
		if s.MoveCardTo(card.ID, tx, ty, viewW, viewH) {
			return m, persistCard(s, *card)
		}
		return m, nil
	case "h", "left", "H", "shift+left":
		card.X -= step
	case "l", "right", "L", "shift+right":
		card.X += step
	case "k", "up", "K", "shift+up":
		card.Y -= step
	case "j", "down", "J", "shift+down":
		card.Y += step
	}
	return m, nil
}

func (m model) handleResizeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session()
	var card *store.Card
	if s != nil {
		card = s.cardByID(s.selected)
	}
	if card == nil {
		m.mode = ModeNormal
		return m, nil
	}

	key := msg.String()
	step := gridUnit * float64(m.getMoveSpeed(key))

	switch key {
	case "esc", "escape":
		card.Width = m.originalW
		card.Height = m.originalH
		m.mode = ModeNormal
		return m, nil
	case "enter":
		w, h := card.Width, card.Height
		card.Width, card.Height = m.originalW, m.originalH
		m.mode = ModeNormal
		s.ResizeCard(card.ID, w, h)
		return m, nil
	case "h", "left", "H", "shift+left":
		if card.Width-step >= minCardWidth {
			card.Width -= step
		}
	case "l", "right", "L", "shift+right":
		card.Width += step
	case "k", "up", "K", "shift+up":
		if card.Height-step >= minCardHeight {
			card.Height -= step
		}
	case "j", "down", "J", "shift+down":
		card.Height += step
	}
	return m, nil
}

func (m model) handleWorkspaceListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.selectedWorkspace < len(m.workspaces)-1 {
			m.selectedWorkspace++
		}
	case "k", "up":
		if m.selectedWorkspace > 0 {
			m.selectedWorkspace--
		}
	case "enter":
		if m.selectedWorkspace >= 0 && m.selectedWorkspace < len(m.workspaces) {
			m.openWorkspace(m.workspaces[m.selectedWorkspace])
		}
	case "n":
		m.mode = ModeWorkspaceName
		m.nameText = ""
		m.renameTarget = ""
	case "d":
		if m.selectedWorkspace >= 0 && m.selectedWorkspace < len(m.workspaces) {
			m.confirmAction = ConfirmDeleteWorkspace
			m.confirmID = m.workspaces[m.selectedWorkspace].ID
			m.confirmReturn = ModeWorkspaceList
			m.mode = ModeConfirm
		}
	case "esc", "escape", "q":
		if len(m.sessions) > 0 {
			m.mode = ModeNormal
		} else {
			m.mode = ModeStartup
		}
	}
	return m, nil
}

func (m model) handleWorkspaceNameKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.renameTarget = ""
		if len(m.sessions) > 0 {
			m.mode = ModeNormal
		} else {
			m.mode = ModeStartup
		}
		return m, nil

	case tea.KeyEnter:
		name := strings.TrimSpace(m.nameText)
		if name == "" {
			m.errorMessage = "name cannot be empty"
			return m, nil
		}
		if m.renameTarget != "" {
			if err := m.st.RenameWorkspace(m.renameTarget, name); err != nil {
				m.logger.Error("renaming workspace failed",
					zap.String("workspace", m.renameTarget), zap.Error(err))
				m.errorMessage = "rename failed"
			} else {
				for _, s := range m.sessions {
					if s.workspace.ID == m.renameTarget {
						s.workspace.Name = name
					}
				}
				m.refreshWorkspaces()
				m.successMessage = "workspace renamed"
			}
			m.renameTarget = ""
			m.mode = ModeNormal
			return m, nil
		}
		ws, err := m.st.CreateWorkspace(m.user.ID, name)
		if err != nil {
			m.logger.Error("creating workspace failed", zap.Error(err))
			m.errorMessage = "create failed"
			return m, nil
		}
		m.refreshWorkspaces()
		m.openWorkspace(*ws)
		return m, nil

	case tea.KeyBackspace:
		if len(m.nameText) > 0 {
			m.nameText = m.nameText[:len(m.nameText)-1]
		}
	case tea.KeySpace:
		m.nameText += " "
	case tea.KeyRunes:
		m.nameText += string(msg.Runes)
	}
	return m, nil
}

func (m model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		switch m.confirmAction {
		case ConfirmDeleteCard:
			if s := m.session(); s != nil {
				s.DeleteCard(m.confirmID)
			}
		case ConfirmDeleteConnection:
			if s := m.session(); s != nil {
				s.DeleteConnection(m.confirmID)
			}
		case ConfirmDeleteWorkspace:
			m.deleteWorkspace(m.confirmID)
		case ConfirmQuit:
			return m, tea.Quit
		}
		m.mode = m.confirmReturn
		if m.mode == ModeNormal && len(m.sessions) == 0 {
			m.mode = ModeStartup
		}
		return m, nil
	case "n", "N", "esc", "escape":
		m.mode = m.confirmReturn
		return m, nil
	}
	return m, nil
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	s := m.session()
	if s == nil {
		return m, nil
	}
	switch m.mode {
	case ModeNormal, ModeEditing, ModeTitleInput:
	default:
		return m, nil
	}

	cellY := msg.Y - m.barRows()
	if cellY < 0 || cellY >= m.canvasRows() {
		return m, nil
	}
	px := Point{
		X: (float64(msg.X) + 0.5) * cellPxW,
		Y: (float64(cellY) + 0.5) * cellPxH,
	}
	world := screenToWorld(px, s.settings.PanX, s.settings.PanY, s.settings.Zoom)

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		s.ZoomAt(px, zoomStep)
		return m, nil
	case tea.MouseButtonWheelDown:
		s.ZoomAt(px, -zoomStep)
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.cursorX, m.cursorY = msg.X, cellY
		if card := s.cardAtCell(msg.X, cellY); card != nil {
			m.arbiter.Observe(evCardInteraction, px)
			if s.connectMode {
				s.ConnectClick(card.ID)
				return m, nil
			}
			s.selected = card.ID
			m.dragCardID = card.ID
			m.dragStartX, m.dragStartY = card.X, card.Y
			m.dragOffX, m.dragOffY = world.X-card.X, world.Y-card.Y
			m.dragMoved = false
			return m, nil
		}
		m.arbiter.Observe(evCanvasPress, px)
		return m, nil

	case tea.MouseActionMotion:
		if m.dragCardID == "" {
			return m, nil
		}
		if card := s.cardByID(m.dragCardID); card != nil {
			card.X = world.X - m.dragOffX
			card.Y = world.Y - m.dragOffY
			m.dragMoved = true
		}
		return m, nil

	case tea.MouseActionRelease:
		if m.dragCardID != "" {
			id := m.dragCardID
			m.dragCardID = ""
			card := s.cardByID(id)
			if card == nil || !m.dragMoved {
				return m, nil
			}
			tx, ty := card.X, card.Y
			card.X, card.Y = m.dragStartX, m.dragStartY
			viewW, viewH := m.viewportPx()
			if s.MoveCardTo(id, tx, ty, viewW, viewH) {
				return m, persistCard(s, *card)
			}
			return m, nil
		}

		m.arbiter.Observe(evCanvasRelease, px)
		if m.arbiter.IsDoubleClick(m.lastClickAt, m.lastClickPos, px) {
			m.lastClickAt = time.Time{}
			s.CreateCardAt(world, "New card", "")
			return m, nil
		}
		if m.arbiter.ShouldCommitOnBackgroundClick() {
			switch m.mode {
			case ModeEditing:
				m = m.commitContentEdit()
			case ModeTitleInput:
				m = m.commitTitleEdit()
			}
			s.selected = ""
		}
		m.lastClickAt = time.Now()
		m.lastClickPos = px
		return m, nil
	}
	return m, nil
}

func exportFilename(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, name)
	if clean == "" {
		clean = "board"
	}
	return clean + ".png"
}
