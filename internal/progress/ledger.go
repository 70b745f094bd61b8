package progress

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/wordtrack/internal/model"
)

const (
	// LedgerCap bounds the global session list.
	LedgerCap = 50
	// WindowCap bounds each word's recent-session window.
	WindowCap = 10
)

// State is one learner's words and practice ledger.
//
// Each session is stored once in records. The global ledger and the
// per-word windows are indexes over it; a record is dropped when neither
// references it any more. The practice-day set is kept separately and is
// never trimmed, so streaks survive session eviction even though some days
// may no longer be backed by a retained session.
//
// State is not safe for concurrent use.
type State struct {
	words   []model.Word
	records map[uuid.UUID]model.PracticeSession
	ledger  []uuid.UUID
	windows map[uuid.UUID][]uuid.UUID
	days    map[model.Day]struct{}
}

// NewState returns an empty state.
func NewState() *State {
	return &State{
		records: map[uuid.UUID]model.PracticeSession{},
		windows: map[uuid.UUID][]uuid.UUID{},
		days:    map[model.Day]struct{}{},
	}
}

// Words returns a copy of the word list in display order.
func (s *State) Words() []model.Word {
	out := make([]model.Word, len(s.words))
	copy(out, s.words)
	return out
}

// Word returns the word at index.
func (s *State) Word(index int) (model.Word, error) {
	if index < 0 || index >= len(s.words) {
		return model.Word{}, fmt.Errorf("word index %d out of range [0,%d): %w", index, len(s.words), ErrInvalidArgument)
	}
	return s.words[index], nil
}

// IndexOf returns the index of the word with the given text, or -1.
func (s *State) IndexOf(text string) int {
	for i, w := range s.words {
		if w.Text == text {
			return i
		}
	}
	return -1
}

// Sessions returns the global ledger, newest first.
func (s *State) Sessions() []model.PracticeSession {
	out := make([]model.PracticeSession, 0, len(s.ledger))
	for _, id := range s.ledger {
		out = append(out, s.records[id])
	}
	return out
}

// RecentSessions returns a word's window, oldest first.
func (s *State) RecentSessions(wordID uuid.UUID) []model.PracticeSession {
	ids := s.windows[wordID]
	out := make([]model.PracticeSession, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.records[id])
	}
	return out
}

// PracticeDays returns every recorded practice day in ascending order.
func (s *State) PracticeDays() []model.Day {
	out := make([]model.Day, 0, len(s.days))
	for d := range s.days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Before(out[j])
	})
	return out
}

// AddWord appends a new, unpracticed word. An empty hint defaults to text.
func (s *State) AddWord(text, hint string) (model.Word, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Word{}, fmt.Errorf("word text is empty: %w", ErrInvalidArgument)
	}
	if s.IndexOf(text) >= 0 {
		return model.Word{}, fmt.Errorf("word %q already exists: %w", text, ErrInvalidArgument)
	}
	hint = strings.TrimSpace(hint)
	if hint == "" {
		hint = text
	}
	w := model.Word{
		ID:                uuid.New(),
		Text:              text,
		PronunciationHint: hint,
		Status:            model.StatusNotStarted,
	}
	s.words = append(s.words, w)
	return w, nil
}

// DeleteWord removes a word and its window. Sessions already in the global
// ledger stay there.
func (s *State) DeleteWord(text string) error {
	idx := s.IndexOf(text)
	if idx < 0 {
		return fmt.Errorf("word %q: %w", text, ErrNotFound)
	}
	w := s.words[idx]
	s.words = append(s.words[:idx], s.words[idx+1:]...)
	window := s.windows[w.ID]
	delete(s.windows, w.ID)
	s.prune(window)
	return nil
}

// MarkComplete sets the manual completion flag without touching status.
func (s *State) MarkComplete(index int, complete bool) error {
	if _, err := s.Word(index); err != nil {
		return err
	}
	s.words[index].IsComplete = complete
	return nil
}

// Record appends one attempt for the word at index and recomputes the
// word's derived fields. Nothing is mutated when validation fails.
func (s *State) Record(index int, at time.Time, loc *time.Location, accuracy, seconds int) (model.PracticeSession, error) {
	w, err := s.Word(index)
	if err != nil {
		return model.PracticeSession{}, err
	}
	if accuracy < 0 || accuracy > 100 {
		return model.PracticeSession{}, fmt.Errorf("accuracy %d outside 0-100: %w", accuracy, ErrInvalidArgument)
	}
	if seconds < 0 {
		return model.PracticeSession{}, fmt.Errorf("time spent %d is negative: %w", seconds, ErrInvalidArgument)
	}

	session := model.PracticeSession{
		ID:               uuid.New(),
		WordID:           w.ID,
		OccurredAt:       at,
		Accuracy:         accuracy,
		TimeSpentSeconds: seconds,
	}
	s.records[session.ID] = session

	s.ledger = append([]uuid.UUID{session.ID}, s.ledger...)
	var evicted []uuid.UUID
	if len(s.ledger) > LedgerCap {
		evicted = append(evicted, s.ledger[LedgerCap:]...)
		s.ledger = s.ledger[:LedgerCap:LedgerCap]
	}

	window := append(s.windows[w.ID], session.ID)
	if len(window) > WindowCap {
		evicted = append(evicted, window[:len(window)-WindowCap]...)
		window = append([]uuid.UUID(nil), window[len(window)-WindowCap:]...)
	}
	s.windows[w.ID] = window
	s.prune(evicted)

	s.days[model.DayOf(at, loc)] = struct{}{}

	status, acc := DeriveStatus(w.PracticeCount, s.RecentSessions(w.ID))
	occurred := at
	w.Status = status
	w.RollingAccuracy = acc
	w.PracticeCount++
	w.LastPracticedAt = &occurred
	w.IsComplete = status == model.StatusMastered
	s.words[index] = w
	return session, nil
}

// Reset clears the ledger, the practice days and every word's progress.
// The word list itself is kept.
func (s *State) Reset() {
	for i, w := range s.words {
		s.words[i] = model.Word{
			ID:                w.ID,
			Text:              w.Text,
			PronunciationHint: w.PronunciationHint,
			Status:            model.StatusNotStarted,
		}
	}
	s.records = map[uuid.UUID]model.PracticeSession{}
	s.ledger = nil
	s.windows = map[uuid.UUID][]uuid.UUID{}
	s.days = map[model.Day]struct{}{}
}

// prune drops records that neither the ledger nor their word's window
// still references.
func (s *State) prune(ids []uuid.UUID) {
	for _, id := range ids {
		rec, ok := s.records[id]
		if !ok {
			continue
		}
		if containsID(s.ledger, id) || containsID(s.windows[rec.WordID], id) {
			continue
		}
		delete(s.records, id)
	}
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
