package progress

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/verte-zerg/wordtrack/internal/model"
)

// Snapshot is the serializable form of a State.
type Snapshot struct {
	Words []WordSnapshot
	// Sessions holds every retained record, whichever index refers to it.
	Sessions     []model.PracticeSession
	Ledger       []uuid.UUID
	PracticeDays []model.Day
}

// WordSnapshot is a word plus the ids of its window, oldest first.
type WordSnapshot struct {
	model.Word
	Window []uuid.UUID
}

// Snapshot captures the state for persistence.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Words:        make([]WordSnapshot, 0, len(s.words)),
		Sessions:     make([]model.PracticeSession, 0, len(s.records)),
		Ledger:       append([]uuid.UUID(nil), s.ledger...),
		PracticeDays: s.PracticeDays(),
	}
	for _, w := range s.words {
		snap.Words = append(snap.Words, WordSnapshot{
			Word:   w,
			Window: append([]uuid.UUID(nil), s.windows[w.ID]...),
		})
	}
	for _, rec := range s.records {
		snap.Sessions = append(snap.Sessions, rec)
	}
	return snap
}

// Restore rebuilds a State from a snapshot, rejecting dangling references.
func Restore(snap Snapshot) (*State, error) {
	s := NewState()
	for _, rec := range snap.Sessions {
		s.records[rec.ID] = rec
	}
	for _, id := range snap.Ledger {
		if _, ok := s.records[id]; !ok {
			return nil, fmt.Errorf("ledger references unknown session %s", id)
		}
	}
	if len(snap.Ledger) > LedgerCap {
		return nil, fmt.Errorf("ledger holds %d sessions, limit is %d", len(snap.Ledger), LedgerCap)
	}
	s.ledger = append([]uuid.UUID(nil), snap.Ledger...)

	seen := map[string]struct{}{}
	for _, ws := range snap.Words {
		if _, dup := seen[ws.Text]; dup {
			return nil, fmt.Errorf("duplicate word %q", ws.Text)
		}
		seen[ws.Text] = struct{}{}
		for _, id := range ws.Window {
			rec, ok := s.records[id]
			if !ok {
				return nil, fmt.Errorf("word %q references unknown session %s", ws.Text, id)
			}
			if rec.WordID != ws.ID {
				return nil, fmt.Errorf("word %q window holds session %s of another word", ws.Text, id)
			}
		}
		if len(ws.Window) > WindowCap {
			return nil, fmt.Errorf("word %q window holds %d sessions, limit is %d", ws.Text, len(ws.Window), WindowCap)
		}
		if len(ws.Window) > 0 {
			s.windows[ws.ID] = append([]uuid.UUID(nil), ws.Window...)
		}
		s.words = append(s.words, ws.Word)
	}
	for _, d := range snap.PracticeDays {
		s.days[d] = struct{}{}
	}

	orphans := make([]uuid.UUID, 0)
	for id := range s.records {
		orphans = append(orphans, id)
	}
	s.prune(orphans)
	return s, nil
}
