package main

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"korq/internal/store"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	user, err := st.LocalUser("test")
	require.NoError(t, err)
	ws, err := st.CreateWorkspace(user.ID, "board")
	require.NoError(t, err)

	s, err := newSession(st, zap.NewNop(), *ws)
	require.NoError(t, err)
	return s
}

func TestCreateCardAtPersistsAndSelects(t *testing.T) {
	s := newTestSession(t)

	card := s.CreateCardAt(Point{X: 120, Y: 340}, "hello", "body")
	require.NotNil(t, card)
	require.Equal(t, card.ID, s.selected)
	require.Equal(t, 120.0, card.X)
	require.Equal(t, 340.0, card.Y)
	require.Equal(t, defaultCardWidth, card.Width)
	require.Equal(t, defaultCardHeight, card.Height)
	require.Len(t, s.undoStack, 1)

	stored, err := s.st.GetCard(card.ID)
	require.NoError(t, err)
	require.Equal(t, "hello", stored.Title)
}

func TestCreateCardNearAvoidsOverlap(t *testing.T) {
	s := newTestSession(t)

	first := s.CreateCardAt(Point{X: 0, Y: 0}, "a", "")
	require.NotNil(t, first)
	second := s.CreateCardNear(Point{X: 1000, Y: 1000}, "b", "")
	require.NotNil(t, second)

	// Plenty of room: the desired position wins exactly.
	require.Equal(t, 1000.0, second.X)
	require.Equal(t, 1000.0, second.Y)
	require.False(t, rectsOverlap(cardRect(*first), cardRect(*second)))
}

func TestConnectClickStateMachine(t *testing.T) {
	s := newTestSession(t)
	a := s.CreateCardAt(Point{X: 0, Y: 0}, "a", "")
	b := s.CreateCardAt(Point{X: 1000, Y: 0}, "b", "")

	// Outside connect mode clicks do nothing.
	s.ConnectClick(a.ID)
	require.Empty(t, s.connectFrom)

	s.ToggleConnectMode()
	s.ConnectClick(a.ID)
	require.Equal(t, a.ID, s.connectFrom)

	// Clicking the source again backs out.
	s.ConnectClick(a.ID)
	require.Empty(t, s.connectFrom)
	require.Empty(t, s.conns)

	s.ConnectClick(a.ID)
	s.ConnectClick(b.ID)
	require.True(t, s.hasConnection(a.ID, b.ID))
	require.Len(t, s.conns, 1)

	conns, err := s.st.ConnectionsByWorkspace(s.workspace.ID)
	require.NoError(t, err)
	require.Len(t, conns, 1)
}

func TestConnectClickRejectsDuplicates(t *testing.T) {
	s := newTestSession(t)
	a := s.CreateCardAt(Point{X: 0, Y: 0}, "a", "")
	b := s.CreateCardAt(Point{X: 1000, Y: 0}, "b", "")

	s.ToggleConnectMode()
	s.ConnectClick(a.ID)
	s.ConnectClick(b.ID)

	// Same pair again, and the reverse direction, are both no-ops.
	s.ConnectClick(a.ID)
	s.ConnectClick(b.ID)
	s.ConnectClick(b.ID)
	s.ConnectClick(a.ID)
	require.Len(t, s.conns, 1)
}

func TestDeleteCardRemovesIncidentConnections(t *testing.T) {
	s := newTestSession(t)
	a := s.CreateCardAt(Point{X: 0, Y: 0}, "a", "")
	b := s.CreateCardAt(Point{X: 1000, Y: 0}, "b", "")
	c := s.CreateCardAt(Point{X: 0, Y: 1000}, "c", "")

	s.ToggleConnectMode()
	s.ConnectClick(a.ID)
	s.ConnectClick(b.ID)
	s.ConnectClick(b.ID)
	s.ConnectClick(c.ID)

	s.DeleteCard(b.ID)
	require.Nil(t, s.cardByID(b.ID))
	require.Empty(t, s.conns)

	conns, err := s.st.ConnectionsByWorkspace(s.workspace.ID)
	require.NoError(t, err)
	require.Empty(t, conns)
}

func TestMoveCardToSnapsWhenEnabled(t *testing.T) {
	s := newTestSession(t)
	card := s.CreateCardAt(Point{X: 0, Y: 0}, "a", "")

	s.settings.SnapToGrid = true
	require.True(t, s.MoveCardTo(card.ID, 133, 77, 10000, 10000))
	require.Equal(t, 140.0, card.X)
	require.Equal(t, 80.0, card.Y)
}

func TestMoveCardToClampsToDragBounds(t *testing.T) {
	s := newTestSession(t)
	card := s.CreateCardAt(Point{X: 0, Y: 0}, "a", "")

	// View covers world 0..1000 x 0..500; the drag buffer extends it.
	require.True(t, s.MoveCardTo(card.ID, 999999, -999999, 1000, 500))
	require.Equal(t, 1000.0+dragClampBuffer, card.X)
	require.Equal(t, -dragClampBuffer, card.Y)
}

func TestMoveCardToUnchangedIsNotRecorded(t *testing.T) {
	s := newTestSession(t)
	card := s.CreateCardAt(Point{X: 100, Y: 100}, "a", "")
	depth := len(s.undoStack)

	require.False(t, s.MoveCardTo(card.ID, 100, 100, 10000, 10000))
	require.Len(t, s.undoStack, depth)
}

func TestUpdateCardRecordsSnapshots(t *testing.T) {
	s := newTestSession(t)
	card := s.CreateCardAt(Point{X: 0, Y: 0}, "old title", "old body")

	s.UpdateCard(card.ID, "new title", "new body")

	top := s.undoStack[len(s.undoStack)-1]
	require.Equal(t, ActionUpdateCard, top.Type)
	data := top.Data.(UpdateCardData)
	require.Equal(t, "old title", data.Old.Title)
	require.Equal(t, "new title", data.New.Title)
	require.Equal(t, "old body", data.Old.Content)
	require.Equal(t, "new body", data.New.Content)

	// Unchanged values are not recorded.
	depth := len(s.undoStack)
	s.UpdateCard(card.ID, "new title", "new body")
	require.Len(t, s.undoStack, depth)
}

func TestResizeCardClampsToMinimums(t *testing.T) {
	s := newTestSession(t)
	card := s.CreateCardAt(Point{X: 0, Y: 0}, "a", "")

	s.ResizeCard(card.ID, 10, 10)
	require.Equal(t, minCardWidth, card.Width)
	require.Equal(t, minCardHeight, card.Height)

	stored, err := s.st.GetCard(card.ID)
	require.NoError(t, err)
	require.Equal(t, minCardWidth, stored.Width)
	require.Equal(t, minCardHeight, stored.Height)
}

func TestViewSettingsPersist(t *testing.T) {
	s := newTestSession(t)

	require.Equal(t, string(GridDots), s.settings.GridMode)
	s.CycleGridMode()
	require.Equal(t, string(GridLines), s.settings.GridMode)
	s.ToggleSnap()
	s.ZoomAt(Point{X: 0, Y: 0}, zoomStep)

	saved, err := s.st.GetSettings(s.workspace.ID)
	require.NoError(t, err)
	require.Equal(t, string(GridLines), saved.GridMode)
	require.True(t, saved.SnapToGrid)
	require.InDelta(t, 1.1, saved.Zoom, 1e-9)
}

func TestZoomAtIsClamped(t *testing.T) {
	s := newTestSession(t)
	for i := 0; i < 100; i++ {
		s.ZoomAt(Point{X: 300, Y: 300}, zoomStep)
	}
	require.InDelta(t, maxZoom, s.settings.Zoom, 1e-9)
	for i := 0; i < 100; i++ {
		s.ZoomAt(Point{X: 300, Y: 300}, -zoomStep)
	}
	require.InDelta(t, minZoom, s.settings.Zoom, 1e-9)
}

func TestSessionLoadClampsUndersizedCards(t *testing.T) {
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	user, err := st.LocalUser("test")
	require.NoError(t, err)
	ws, err := st.CreateWorkspace(user.ID, "board")
	require.NoError(t, err)

	require.NoError(t, st.AddCard(store.Card{
		ID: "tiny", WorkspaceID: ws.ID, Title: "t",
		X: 0, Y: 0, Width: 5, Height: 5,
	}))

	s, err := newSession(st, zap.NewNop(), *ws)
	require.NoError(t, err)
	card := s.cardByID("tiny")
	require.NotNil(t, card)
	require.Equal(t, minCardWidth, card.Width)
	require.Equal(t, minCardHeight, card.Height)
}
