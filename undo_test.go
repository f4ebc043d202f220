package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"korq/internal/store"
)

func TestUndoCreateCard(t *testing.T) {
	s := newTestSession(t)
	card := s.CreateCardAt(Point{X: 100, Y: 100}, "a", "")
	id := card.ID

	s.Undo()
	require.Nil(t, s.cardByID(id))
	require.Empty(t, s.selected)
	_, err := s.st.GetCard(id)
	require.ErrorIs(t, err, store.ErrNotFound)

	s.Redo()
	require.NotNil(t, s.cardByID(id))
	stored, err := s.st.GetCard(id)
	require.NoError(t, err)
	require.Equal(t, "a", stored.Title)
}

func TestUndoRedoMove(t *testing.T) {
	s := newTestSession(t)
	card := s.CreateCardAt(Point{X: 100, Y: 100}, "a", "")

	require.True(t, s.MoveCardTo(card.ID, 500, 300, 10000, 10000))
	require.Equal(t, 500.0, card.X)

	s.Undo()
	require.Equal(t, 100.0, card.X)
	require.Equal(t, 100.0, card.Y)
	stored, err := s.st.GetCard(card.ID)
	require.NoError(t, err)
	require.Equal(t, 100.0, stored.X)

	s.Redo()
	require.Equal(t, 500.0, card.X)
	require.Equal(t, 300.0, card.Y)
	stored, err = s.st.GetCard(card.ID)
	require.NoError(t, err)
	require.Equal(t, 500.0, stored.X)
}

func TestUndoDeleteRestoresConnections(t *testing.T) {
	s := newTestSession(t)
	a := s.CreateCardAt(Point{X: 0, Y: 0}, "a", "")
	b := s.CreateCardAt(Point{X: 1000, Y: 0}, "b", "")

	s.ToggleConnectMode()
	s.ConnectClick(a.ID)
	s.ConnectClick(b.ID)

	aID := a.ID
	bID := b.ID
	s.DeleteCard(aID)
	require.Nil(t, s.cardByID(aID))
	require.Empty(t, s.conns)

	// One undo brings back the card and its arrow together.
	s.Undo()
	require.NotNil(t, s.cardByID(aID))
	require.True(t, s.hasConnection(aID, bID))

	conns, err := s.st.ConnectionsByWorkspace(s.workspace.ID)
	require.NoError(t, err)
	require.Len(t, conns, 1)

	s.Redo()
	require.Nil(t, s.cardByID(aID))
	require.Empty(t, s.conns)
}

func TestUndoUpdateRestoresText(t *testing.T) {
	s := newTestSession(t)
	card := s.CreateCardAt(Point{X: 0, Y: 0}, "before", "old")

	s.UpdateCard(card.ID, "after", "new")
	s.Undo()

	card = s.cardByID(card.ID)
	require.Equal(t, "before", card.Title)
	require.Equal(t, "old", card.Content)

	s.Redo()
	card = s.cardByID(card.ID)
	require.Equal(t, "after", card.Title)
	require.Equal(t, "new", card.Content)
}

func TestUndoConnectionLifecycle(t *testing.T) {
	s := newTestSession(t)
	a := s.CreateCardAt(Point{X: 0, Y: 0}, "a", "")
	b := s.CreateCardAt(Point{X: 1000, Y: 0}, "b", "")

	s.ToggleConnectMode()
	s.ConnectClick(a.ID)
	s.ConnectClick(b.ID)
	connID := s.conns[0].ID

	s.Undo()
	require.Empty(t, s.conns)
	s.Redo()
	require.Len(t, s.conns, 1)

	s.DeleteConnection(connID)
	require.Empty(t, s.conns)
	s.Undo()
	require.Len(t, s.conns, 1)
	require.Equal(t, connID, s.conns[0].ID)
}

func TestFreshMutationInvalidatesRedo(t *testing.T) {
	s := newTestSession(t)
	card := s.CreateCardAt(Point{X: 0, Y: 0}, "a", "")

	require.True(t, s.MoveCardTo(card.ID, 500, 0, 10000, 10000))
	s.Undo()
	require.Len(t, s.redoStack, 1)

	s.UpdateCard(card.ID, "renamed", "")
	require.Empty(t, s.redoStack)

	// Redo now does nothing.
	s.Redo()
	require.Equal(t, 0.0, s.cardByID(card.ID).X)
}

func TestUndoHistoryIsBounded(t *testing.T) {
	s := newTestSession(t)
	card := s.CreateCardAt(Point{X: 0, Y: 0}, "a", "")

	for i := 1; i <= historyLimit+10; i++ {
		require.True(t, s.MoveCardTo(card.ID, float64(i*10), 0, 100000, 100000))
	}
	require.Len(t, s.undoStack, historyLimit)

	// Undoing everything walks back exactly historyLimit moves; the
	// evicted early records are gone for good.
	for i := 0; i < historyLimit; i++ {
		s.Undo()
	}
	require.Empty(t, s.undoStack)
	require.Equal(t, float64(10*10), s.cardByID(card.ID).X)
}

func TestUndoStoreFailureRollsBack(t *testing.T) {
	s := newTestSession(t)
	card := s.CreateCardAt(Point{X: 0, Y: 0}, "a", "")
	require.Len(t, s.undoStack, 1)

	// A closed store rejects every write; the undo record must survive
	// and the in-memory card must stay.
	require.NoError(t, s.st.Close())
	s.Undo()

	require.Len(t, s.undoStack, 1)
	require.Empty(t, s.redoStack)
	require.NotNil(t, s.cardByID(card.ID))
}

func TestUndoEmptyStacksAreNoops(t *testing.T) {
	s := newTestSession(t)
	s.Undo()
	s.Redo()
	require.Empty(t, s.undoStack)
	require.Empty(t, s.redoStack)
	require.Empty(t, s.cards)
}

func TestUndoOrderIsLIFO(t *testing.T) {
	s := newTestSession(t)
	var ids []string
	for i := 0; i < 3; i++ {
		c := s.CreateCardAt(Point{X: float64(i) * 1000, Y: 0}, fmt.Sprintf("c%d", i), "")
		ids = append(ids, c.ID)
	}

	s.Undo()
	require.Nil(t, s.cardByID(ids[2]))
	require.NotNil(t, s.cardByID(ids[1]))

	s.Undo()
	require.Nil(t, s.cardByID(ids[1]))
	require.NotNil(t, s.cardByID(ids[0]))
}
