// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Status is the derived mastery state of a word.
type Status int

const (
	StatusNotStarted Status = iota
	StatusInProgress
	StatusStruggling
	StatusMastered
)

var statusNames = [...]string{
	StatusNotStarted: "not-started",
	StatusInProgress: "in-progress",
	StatusStruggling: "struggling",
	StatusMastered:   "mastered",
}

// String returns the persisted name of the status.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// ParseStatus maps a persisted name back to a Status.
func ParseStatus(name string) (Status, bool) {
	for i, n := range statusNames {
		if n == name {
			return Status(i), true
		}
	}
	return StatusNotStarted, false
}

// NeedsWork reports whether the word is practiced but not mastered.
func (s Status) NeedsWork() bool {
	return s == StatusInProgress || s == StatusStruggling
}

// Word is a vocabulary item being learned.
//
// IsComplete is a manual override shown to the learner. Status is what
// analytics read; the two are kept apart on purpose.
type Word struct {
	ID                uuid.UUID
	Text              string
	PronunciationHint string
	Status            Status
	IsComplete        bool
	LastPracticedAt   *time.Time
	RollingAccuracy   *float64
	PracticeCount     int
}

// Practiced reports whether the word has at least one recorded session.
func (w Word) Practiced() bool {
	return w.PracticeCount > 0
}

// PracticeSession is one immutable practice attempt.
type PracticeSession struct {
	ID               uuid.UUID
	WordID           uuid.UUID
	OccurredAt       time.Time
	Accuracy         int
	TimeSpentSeconds int
}
