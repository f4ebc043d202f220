package main

import "korq/internal/store"

// Undo pops the most recent action and applies its inverse to the
// store and the in-memory sets. When the store rejects the inverse the
// record is pushed back, the authoritative state is reloaded, and the
// log stays as if the undo never started.
func (s *Session) Undo() {
	if len(s.undoStack) == 0 {
		return
	}
	last := len(s.undoStack) - 1
	action := s.undoStack[last]
	s.undoStack = s.undoStack[:last]

	if err := s.applyAction(action, false); err != nil {
		s.undoStack = append(s.undoStack, action)
		s.recoverStore("undo", err)
		return
	}

	if len(s.redoStack) >= historyLimit {
		s.redoStack = s.redoStack[1:]
	}
	s.redoStack = append(s.redoStack, action)
}

// Redo re-applies the most recently undone action, with the same
// rollback discipline as Undo.
func (s *Session) Redo() {
	if len(s.redoStack) == 0 {
		return
	}
	last := len(s.redoStack) - 1
	action := s.redoStack[last]
	s.redoStack = s.redoStack[:last]

	if err := s.applyAction(action, true); err != nil {
		s.redoStack = append(s.redoStack, action)
		s.recoverStore("redo", err)
		return
	}

	if len(s.undoStack) >= historyLimit {
		s.undoStack = s.undoStack[1:]
	}
	s.undoStack = append(s.undoStack, action)
}

// applyAction applies an action's forward effect (redo) or its inverse
// (undo). Store writes go first; memory changes only once every write
// succeeded, so a failure leaves the in-memory sets untouched for the
// caller to roll back.
func (s *Session) applyAction(action Action, forward bool) error {
	switch action.Type {
	case ActionAddCard:
		data := action.Data.(AddCardData)
		if forward {
			return s.restoreCard(data.Card, nil)
		}
		return s.unrestoreCard(data.Card.ID, nil)

	case ActionDeleteCard:
		data := action.Data.(DeleteCardData)
		if forward {
			return s.unrestoreCard(data.Card.ID, data.Connections)
		}
		return s.restoreCard(data.Card, data.Connections)

	case ActionUpdateCard:
		data := action.Data.(UpdateCardData)
		snapshot := data.Old
		if forward {
			snapshot = data.New
		}
		if err := s.st.UpdateCard(snapshot); err != nil {
			return err
		}
		if card := s.cardByID(snapshot.ID); card != nil {
			*card = snapshot
		}
		return nil

	case ActionMoveCard:
		data := action.Data.(MoveCardData)
		card := s.cardByID(data.ID)
		if card == nil {
			return nil
		}
		moved := *card
		moved.X, moved.Y = data.OldX, data.OldY
		if forward {
			moved.X, moved.Y = data.NewX, data.NewY
		}
		if err := s.st.UpdateCard(moved); err != nil {
			return err
		}
		*card = moved
		return nil

	case ActionAddConnection:
		data := action.Data.(AddConnectionData)
		if forward {
			return s.restoreConnection(data.Connection)
		}
		return s.unrestoreConnection(data.Connection.ID)

	case ActionDeleteConnection:
		data := action.Data.(DeleteConnectionData)
		if forward {
			return s.unrestoreConnection(data.Connection.ID)
		}
		return s.restoreConnection(data.Connection)
	}
	return nil
}

// restoreCard re-inserts a card snapshot and any connections captured
// with it.
func (s *Session) restoreCard(card store.Card, conns []store.Connection) error {
	if err := s.st.AddCard(card); err != nil {
		return err
	}
	for _, c := range conns {
		if err := s.st.AddConnection(c); err != nil {
			return err
		}
	}
	s.cards = append(s.cards, card)
	s.conns = append(s.conns, conns...)
	return nil
}

// unrestoreCard deletes a card and any connections captured with it.
func (s *Session) unrestoreCard(id string, conns []store.Connection) error {
	for _, c := range conns {
		if err := s.st.DeleteConnection(c.ID); err != nil {
			return err
		}
	}
	if err := s.st.DeleteCard(id); err != nil {
		return err
	}
	for _, c := range conns {
		s.removeConnMem(c.ID)
	}
	s.removeCardMem(id)
	if s.selected == id {
		s.selected = ""
	}
	return nil
}

func (s *Session) restoreConnection(c store.Connection) error {
	if err := s.st.AddConnection(c); err != nil {
		return err
	}
	s.conns = append(s.conns, c)
	return nil
}

func (s *Session) unrestoreConnection(id string) error {
	if err := s.st.DeleteConnection(id); err != nil {
		return err
	}
	s.removeConnMem(id)
	return nil
}
