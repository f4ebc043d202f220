package main

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"korq/internal/store"
)

// Session is the live state of one open workspace: the in-memory card
// and connection sets, the view settings, selection, connect mode, and
// the undo/redo log. It is the sole writer of the store for its
// workspace. Mutations update memory first so the UI never waits on
// the store; store failures are logged and recovered by reloading the
// authoritative state.
type Session struct {
	workspace store.Workspace
	cards     []store.Card
	conns     []store.Connection
	settings  store.Settings

	undoStack []Action
	redoStack []Action

	selected    string
	connectMode bool
	connectFrom string

	st  *store.Store
	log *zap.Logger
	now func() time.Time
}

// newSession loads a workspace's cards, connections, and view settings
// and returns a ready session. The load is synchronous: view
// operations issued right after a workspace switch always see the full
// card set.
func newSession(st *store.Store, log *zap.Logger, ws store.Workspace) (*Session, error) {
	cards, err := st.CardsByWorkspace(ws.ID)
	if err != nil {
		return nil, err
	}
	conns, err := st.ConnectionsByWorkspace(ws.ID)
	if err != nil {
		return nil, err
	}
	settings, err := st.GetSettings(ws.ID)
	if err != nil {
		return nil, err
	}
	for i := range cards {
		cards[i] = clampCardSize(cards[i])
	}
	return &Session{
		workspace: ws,
		cards:     cards,
		conns:     conns,
		settings:  settings,
		st:        st,
		log:       log,
		now:       time.Now,
	}, nil
}

// clampCardSize enforces the card size minimums.
func clampCardSize(c store.Card) store.Card {
	if c.Width < minCardWidth {
		c.Width = minCardWidth
	}
	if c.Height < minCardHeight {
		c.Height = minCardHeight
	}
	return c
}

func (s *Session) cardByID(id string) *store.Card {
	for i := range s.cards {
		if s.cards[i].ID == id {
			return &s.cards[i]
		}
	}
	return nil
}

func (s *Session) connByID(id string) *store.Connection {
	for i := range s.conns {
		if s.conns[i].ID == id {
			return &s.conns[i]
		}
	}
	return nil
}

// hasConnection reports whether the unordered pair is already
// connected.
func (s *Session) hasConnection(a, b string) bool {
	for _, c := range s.conns {
		if (c.FromCard == a && c.ToCard == b) || (c.FromCard == b && c.ToCard == a) {
			return true
		}
	}
	return false
}

// recoverStore logs a store failure and reloads the authoritative card
// and connection sets, discarding any optimistic in-memory guess.
func (s *Session) recoverStore(op string, err error) {
	s.log.Warn("store write failed, reloading workspace",
		zap.String("op", op),
		zap.String("workspace", s.workspace.ID),
		zap.Error(err))
	if err := s.Reload(); err != nil {
		s.log.Error("reloading workspace failed", zap.Error(err))
	}
}

// Reload replaces the in-memory card and connection sets with the
// store's view of the workspace.
func (s *Session) Reload() error {
	cards, err := s.st.CardsByWorkspace(s.workspace.ID)
	if err != nil {
		return err
	}
	conns, err := s.st.ConnectionsByWorkspace(s.workspace.ID)
	if err != nil {
		return err
	}
	for i := range cards {
		cards[i] = clampCardSize(cards[i])
	}
	s.cards = cards
	s.conns = conns
	if s.selected != "" && s.cardByID(s.selected) == nil {
		s.selected = ""
	}
	return nil
}

// record pushes an action onto the undo stack, evicting the oldest
// beyond the history limit. Any fresh mutation invalidates redo.
func (s *Session) record(a Action) {
	if len(s.undoStack) >= historyLimit {
		s.undoStack = s.undoStack[1:]
	}
	s.undoStack = append(s.undoStack, a)
	s.redoStack = s.redoStack[:0]
}

// CreateCardAt creates a card at the exact world position. Used for
// the double-click path, where the position expresses explicit intent
// and overlap resolution is skipped.
func (s *Session) CreateCardAt(p Point, title, content string) *store.Card {
	now := s.now().UnixMilli()
	c := store.Card{
		ID:          uuid.NewString(),
		WorkspaceID: s.workspace.ID,
		Title:       title,
		Content:     content,
		X:           p.X,
		Y:           p.Y,
		Width:       defaultCardWidth,
		Height:      defaultCardHeight,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.cards = append(s.cards, c)
	if err := s.st.AddCard(c); err != nil {
		s.recoverStore("add card", err)
		return nil
	}
	s.record(Action{Type: ActionAddCard, Data: AddCardData{Card: c}})
	s.selected = c.ID
	return s.cardByID(c.ID)
}

// CreateCardNear creates a card near the desired world position,
// cascading away from existing cards. Used when no explicit position
// was given (keyboard / toolbar creation).
func (s *Session) CreateCardNear(desired Point, title, content string) *store.Card {
	p, free := resolvePlacement(desired, s.cards, defaultCardWidth, defaultCardHeight)
	if !free {
		// The area is crowded and the cascade ran out of candidates, so
		// the card may overlap.
		s.log.Debug("placement cascade exhausted",
			zap.String("workspace", s.workspace.ID),
			zap.Float64("x", p.X), zap.Float64("y", p.Y))
	}
	return s.CreateCardAt(p, title, content)
}

// DeleteCard removes a card and its incident connections. The deleted
// records are captured in one undo entry so a single undo restores the
// card together with its arrows.
func (s *Session) DeleteCard(id string) {
	card := s.cardByID(id)
	if card == nil {
		return
	}
	snapshot := *card

	var incident []store.Connection
	var kept []store.Connection
	for _, c := range s.conns {
		if c.FromCard == id || c.ToCard == id {
			incident = append(incident, c)
		} else {
			kept = append(kept, c)
		}
	}

	s.conns = kept
	s.removeCardMem(id)
	if s.selected == id {
		s.selected = ""
	}
	if s.connectFrom == id {
		s.connectFrom = ""
	}

	// Each store call is independent; a partial failure is tolerated
	// and recovered by reload.
	for _, c := range incident {
		if err := s.st.DeleteConnection(c.ID); err != nil {
			s.recoverStore("delete connection", err)
			return
		}
	}
	if err := s.st.DeleteCard(id); err != nil {
		s.recoverStore("delete card", err)
		return
	}

	s.record(Action{Type: ActionDeleteCard, Data: DeleteCardData{Card: snapshot, Connections: incident}})
}

// UpdateCard writes new title/content for a card, recording full
// before/after snapshots.
func (s *Session) UpdateCard(id, title, content string) {
	card := s.cardByID(id)
	if card == nil {
		return
	}
	if card.Title == title && card.Content == content {
		return
	}
	old := *card

	card.Title = title
	card.Content = content
	card.UpdatedAt = s.now().UnixMilli()
	if err := s.st.UpdateCard(*card); err != nil {
		s.recoverStore("update card", err)
		return
	}
	s.record(Action{Type: ActionUpdateCard, Data: UpdateCardData{Old: old, New: *card}})
}

// ResizeCard applies a new size, clamped to the minimums, recording a
// full-snapshot update.
func (s *Session) ResizeCard(id string, w, h float64) {
	card := s.cardByID(id)
	if card == nil {
		return
	}
	if w < minCardWidth {
		w = minCardWidth
	}
	if h < minCardHeight {
		h = minCardHeight
	}
	if card.Width == w && card.Height == h {
		return
	}
	old := *card

	card.Width = w
	card.Height = h
	card.UpdatedAt = s.now().UnixMilli()
	if err := s.st.UpdateCard(*card); err != nil {
		s.recoverStore("resize card", err)
		return
	}
	s.record(Action{Type: ActionUpdateCard, Data: UpdateCardData{Old: old, New: *card}})
}

// MoveCardTo places a card at a new world position: clamped to the
// viewport expanded by the drag buffer, snapped if snap-to-grid is on,
// applied to memory immediately. The store write is the caller's to
// issue (asynchronously); a move record is kept only when the position
// actually changed.
func (s *Session) MoveCardTo(id string, x, y, viewW, viewH float64) bool {
	card := s.cardByID(id)
	if card == nil {
		return false
	}

	view := viewportWorldBounds(s.settings.PanX, s.settings.PanY, s.settings.Zoom, viewW, viewH)
	x = clampf(x, view.X-dragClampBuffer, view.X+view.W+dragClampBuffer)
	y = clampf(y, view.Y-dragClampBuffer, view.Y+view.H+dragClampBuffer)
	if s.settings.SnapToGrid {
		x = snapToGrid(x)
		y = snapToGrid(y)
	}
	if card.X == x && card.Y == y {
		return false
	}

	data := MoveCardData{ID: id, OldX: card.X, OldY: card.Y, NewX: x, NewY: y}
	card.X = x
	card.Y = y
	card.UpdatedAt = s.now().UnixMilli()
	s.record(Action{Type: ActionMoveCard, Data: data})
	return true
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ToggleConnectMode enters or leaves connect mode, discarding any
// half-made connection.
func (s *Session) ToggleConnectMode() {
	s.connectMode = !s.connectMode
	s.connectFrom = ""
}

// ConnectClick advances the two-click connect state machine. The first
// click on a card marks the source; a second click on a different card
// creates the arrow. Clicking the source again backs out. Self and
// duplicate connections are no-ops.
func (s *Session) ConnectClick(id string) {
	if !s.connectMode || s.cardByID(id) == nil {
		return
	}
	if s.connectFrom == "" {
		s.connectFrom = id
		return
	}
	if s.connectFrom == id {
		s.connectFrom = ""
		return
	}

	from := s.connectFrom
	s.connectFrom = ""
	if s.hasConnection(from, id) {
		return
	}

	conn := store.Connection{
		ID:          uuid.NewString(),
		WorkspaceID: s.workspace.ID,
		FromCard:    from,
		ToCard:      id,
		Type:        connTypeArrow,
		CreatedAt:   s.now().UnixMilli(),
	}
	s.conns = append(s.conns, conn)
	if err := s.st.AddConnection(conn); err != nil {
		s.recoverStore("add connection", err)
		return
	}
	s.record(Action{Type: ActionAddConnection, Data: AddConnectionData{Connection: conn}})
}

// DeleteConnection removes one connection by id.
func (s *Session) DeleteConnection(id string) {
	conn := s.connByID(id)
	if conn == nil {
		return
	}
	snapshot := *conn

	s.removeConnMem(id)
	if err := s.st.DeleteConnection(id); err != nil {
		s.recoverStore("delete connection", err)
		return
	}
	s.record(Action{Type: ActionDeleteConnection, Data: DeleteConnectionData{Connection: snapshot}})
}

func (s *Session) removeCardMem(id string) {
	for i := range s.cards {
		if s.cards[i].ID == id {
			s.cards = append(s.cards[:i], s.cards[i+1:]...)
			return
		}
	}
}

func (s *Session) removeConnMem(id string) {
	for i := range s.conns {
		if s.conns[i].ID == id {
			s.conns = append(s.conns[:i], s.conns[i+1:]...)
			return
		}
	}
}

// saveSettings persists the view settings; failures are diagnostic
// only.
func (s *Session) saveSettings() {
	if err := s.st.SaveSettings(s.settings); err != nil {
		s.log.Warn("saving view settings failed",
			zap.String("workspace", s.workspace.ID), zap.Error(err))
	}
}

// ZoomAt changes zoom by delta keeping the world point under the
// screen anchor fixed.
func (s *Session) ZoomAt(anchor Point, delta float64) {
	s.settings.PanX, s.settings.PanY, s.settings.Zoom = zoomAbout(
		anchor, s.settings.PanX, s.settings.PanY, s.settings.Zoom, s.settings.Zoom+delta)
	s.saveSettings()
}

// ZoomReset restores zoom 1.0 about the viewport center.
func (s *Session) ZoomReset(viewW, viewH float64) {
	s.settings.PanX, s.settings.PanY, s.settings.Zoom = zoomAbout(
		Point{X: viewW / 2, Y: viewH / 2}, s.settings.PanX, s.settings.PanY, s.settings.Zoom, 1.0)
	s.saveSettings()
}

// Pan shifts the view by a screen-pixel delta.
func (s *Session) Pan(dx, dy float64) {
	s.settings.PanX += dx
	s.settings.PanY += dy
	s.saveSettings()
}

// ResetView moves the view to the top-left-most content at zoom 1.0.
func (s *Session) ResetView(viewW, viewH float64) {
	s.settings.PanX, s.settings.PanY, s.settings.Zoom = resetViewTarget(s.cards)
	s.saveSettings()
}

// FocusOnCard centers a card in the viewport at the current zoom and
// selects it.
func (s *Session) FocusOnCard(id string, viewW, viewH float64) {
	card := s.cardByID(id)
	if card == nil {
		return
	}
	s.settings.PanX, s.settings.PanY = focusTarget(*card, s.settings.Zoom, viewW, viewH)
	s.selected = id
	s.saveSettings()
}

// NavigateToDirection pans toward off-screen content in the given
// direction, or resets the view when the navigation reaches the
// absolute extremity.
func (s *Session) NavigateToDirection(dir Direction, viewW, viewH float64) {
	panX, panY, reset, ok := navigateTarget(
		s.cards, s.settings.PanX, s.settings.PanY, s.settings.Zoom, viewW, viewH, dir)
	if !ok {
		return
	}
	if reset {
		s.ResetView(viewW, viewH)
		return
	}
	s.settings.PanX = panX
	s.settings.PanY = panY
	s.saveSettings()
}

// Visibility reports which directions have off-screen cards.
func (s *Session) Visibility(viewW, viewH float64) Visibility {
	return offscreenVisibility(s.cards, s.settings.PanX, s.settings.PanY, s.settings.Zoom, viewW, viewH)
}

// CycleGridMode steps off → dots → lines → off.
func (s *Session) CycleGridMode() {
	switch GridMode(s.settings.GridMode) {
	case GridOff:
		s.settings.GridMode = string(GridDots)
	case GridDots:
		s.settings.GridMode = string(GridLines)
	default:
		s.settings.GridMode = string(GridOff)
	}
	s.saveSettings()
}

// ToggleSnap flips snap-to-grid.
func (s *Session) ToggleSnap() {
	s.settings.SnapToGrid = !s.settings.SnapToGrid
	s.saveSettings()
}
