// Package tracker owns one learner's progress and persists it after every
// change.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/verte-zerg/wordtrack/internal/analytics"
	"github.com/verte-zerg/wordtrack/internal/model"
	"github.com/verte-zerg/wordtrack/internal/progress"
)

// ErrPersistence wraps failures to read or decode a stored snapshot.
var ErrPersistence = errors.New("persistence failure")

// DefaultStarterWords seed a learner that has never been saved.
var DefaultStarterWords = []string{"Hello", "Teddy", "Apple", "Ball"}

// Store is the persistence collaborator. Load returns nil, nil when
// nothing was stored for the learner.
type Store interface {
	Load(ctx context.Context, learnerID string) (*progress.Snapshot, error)
	Save(ctx context.Context, learnerID string, snap progress.Snapshot) error
}

// Tracker is the per-learner session object. All methods are safe for
// concurrent use; each mutation runs validate, apply and save as one unit.
type Tracker struct {
	mu        sync.Mutex
	learnerID string
	store     Store
	state     *progress.State
	now       func() time.Time
	loc       *time.Location
	meas      progress.MeasurementProvider
	log       *log.Logger
	starter   []string
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// WithLocation sets the zone used for calendar days.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

// WithMeasurements sets the provider for unmeasured attempts.
func WithMeasurements(m progress.MeasurementProvider) Option {
	return func(t *Tracker) {
		if m != nil {
			t.meas = m
		}
	}
}

// WithLogger sets the logger used for swallowed save failures.
func WithLogger(l *log.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	}
}

// WithStarterWords overrides the words a brand-new learner starts with.
func WithStarterWords(words []string) Option {
	return func(t *Tracker) {
		t.starter = append([]string(nil), words...)
	}
}

// Open loads learnerID from store, or seeds a new learner with starter
// words when nothing was stored yet.
func Open(ctx context.Context, store Store, learnerID string, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		learnerID: learnerID,
		store:     store,
		now:       time.Now,
		loc:       time.Local,
		log:       log.Default(),
		starter:   DefaultStarterWords,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.meas == nil {
		t.meas = progress.NewRandomMeasurements()
	}

	snap, err := store.Load(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("load learner %q: %w: %w", learnerID, ErrPersistence, err)
	}
	if snap != nil {
		state, err := progress.Restore(*snap)
		if err != nil {
			return nil, fmt.Errorf("restore learner %q: %w: %w", learnerID, ErrPersistence, err)
		}
		t.state = state
		return t, nil
	}

	t.state = progress.NewState()
	for _, text := range t.starter {
		if _, err := t.state.AddWord(text, ""); err != nil {
			t.log.Debug("skipping starter word", "word", text, "err", err)
		}
	}
	t.save(ctx)
	return t, nil
}

// save persists the current state. Failures are logged, never returned:
// the in-memory change stays applied.
func (t *Tracker) save(ctx context.Context) {
	if err := t.store.Save(ctx, t.learnerID, t.state.Snapshot()); err != nil {
		t.log.Warn("failed to save progress", "learner", t.learnerID, "err", err)
	}
}

// RecordPractice records one attempt for the word at wordIndex. Values not
// supplied through opts come from the measurement provider.
func (t *Tracker) RecordPractice(ctx context.Context, wordIndex int, opts ...progress.AttemptOption) (model.PracticeSession, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	accuracy, seconds := progress.ResolveAttempt(t.meas, opts...)
	rec, err := t.state.Record(wordIndex, t.now(), t.loc, accuracy, seconds)
	if err != nil {
		return model.PracticeSession{}, err
	}
	t.log.Debug("recorded practice", "learner", t.learnerID, "word", rec.WordID, "accuracy", accuracy, "seconds", seconds)
	t.save(ctx)
	return rec, nil
}

// ResetAll clears every session, practice day and derived word field. The
// word list is kept.
func (t *Tracker) ResetAll(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Reset()
	t.log.Info("progress reset", "learner", t.learnerID)
	t.save(ctx)
}

// MarkComplete sets the manual completion flag of a word.
func (t *Tracker) MarkComplete(ctx context.Context, wordIndex int, complete bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.state.MarkComplete(wordIndex, complete); err != nil {
		return err
	}
	t.save(ctx)
	return nil
}

// AddWord appends a word to the learner's list.
func (t *Tracker) AddWord(ctx context.Context, text, hint string) (model.Word, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	w, err := t.state.AddWord(text, hint)
	if err != nil {
		return model.Word{}, err
	}
	t.save(ctx)
	return w, nil
}

// AddWords appends several words and saves once. Words that fail
// validation are returned in skipped with their errors.
func (t *Tracker) AddWords(ctx context.Context, entries [][2]string) (added int, skipped map[string]error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	skipped = map[string]error{}
	for _, e := range entries {
		if _, err := t.state.AddWord(e[0], e[1]); err != nil {
			skipped[e[0]] = err
			continue
		}
		added++
	}
	if added > 0 {
		t.save(ctx)
	}
	return added, skipped
}

// DeleteWord removes a word by text. Its sessions stay in the ledger.
func (t *Tracker) DeleteWord(ctx context.Context, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.state.DeleteWord(text); err != nil {
		return err
	}
	t.save(ctx)
	return nil
}

// IndexOf returns the position of text in the word list, or -1.
func (t *Tracker) IndexOf(text string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.IndexOf(text)
}

// Words returns a copy of the word list.
func (t *Tracker) Words() []model.Word {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Words()
}

// Sessions returns the global ledger, newest first.
func (t *Tracker) Sessions() []model.PracticeSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Sessions()
}

// RecentSessions returns the window of the word at wordIndex, oldest first.
func (t *Tracker) RecentSessions(wordIndex int) ([]model.PracticeSession, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	w, err := t.state.Word(wordIndex)
	if err != nil {
		return nil, err
	}
	return t.state.RecentSessions(w.ID), nil
}

// Streak returns the current run of consecutive practice days.
func (t *Tracker) Streak() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return progress.ComputeStreak(t.state.PracticeDays(), t.today())
}

// LongestStreak returns the longest run of consecutive practice days.
func (t *Tracker) LongestStreak() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return progress.LongestStreak(t.state.PracticeDays())
}

// PracticeDayCount returns how many distinct days had practice.
func (t *Tracker) PracticeDayCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.state.PracticeDays())
}

// Metrics computes analytics for range r.
func (t *Tracker) Metrics(r analytics.Range) analytics.Metrics {
	return analytics.Compute(t.input(), r)
}

// Timeline returns the recent-activity feed, newest first.
func (t *Tracker) Timeline(limit int) []analytics.Activity {
	return analytics.Timeline(t.input(), limit)
}

// Achievements evaluates milestones against the current progress.
func (t *Tracker) Achievements() []progress.Achievement {
	t.mu.Lock()
	defer t.mu.Unlock()
	days := t.state.PracticeDays()
	return progress.Achievements(t.state.Words(), progress.ComputeStreak(days, t.today()), len(days))
}

// TotalPracticeSeconds sums the time spent over retained sessions.
func (t *Tracker) TotalPracticeSeconds() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	total := 0
	for _, s := range t.state.Sessions() {
		total += s.TimeSpentSeconds
	}
	return total
}

func (t *Tracker) input() analytics.Input {
	t.mu.Lock()
	defer t.mu.Unlock()
	return analytics.Input{
		Words:    t.state.Words(),
		Sessions: t.state.Sessions(),
		Now:      t.now(),
		Location: t.loc,
	}
}

func (t *Tracker) today() model.Day {
	return model.DayOf(t.now(), t.loc)
}
