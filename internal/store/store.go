// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/wordtrack/internal/model"
	"github.com/verte-zerg/wordtrack/internal/progress"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for learner progress.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS learners (
			id TEXT PRIMARY KEY,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS words (
			learner_id TEXT NOT NULL,
			id TEXT NOT NULL,
			position INTEGER NOT NULL,
			text TEXT NOT NULL,
			hint TEXT NOT NULL,
			status TEXT NOT NULL,
			is_complete INTEGER NOT NULL,
			last_practiced_at TEXT,
			rolling_accuracy REAL,
			practice_count INTEGER NOT NULL,
			PRIMARY KEY (learner_id, id)
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			learner_id TEXT NOT NULL,
			id TEXT NOT NULL,
			word_id TEXT NOT NULL,
			occurred_at TEXT NOT NULL,
			accuracy INTEGER NOT NULL,
			time_spent_s INTEGER NOT NULL,
			ledger_pos INTEGER,
			PRIMARY KEY (learner_id, id)
		);`,
		`CREATE TABLE IF NOT EXISTS window_entries (
			learner_id TEXT NOT NULL,
			word_id TEXT NOT NULL,
			pos INTEGER NOT NULL,
			session_id TEXT NOT NULL,
			PRIMARY KEY (learner_id, word_id, pos)
		);`,
		`CREATE TABLE IF NOT EXISTS practice_days (
			learner_id TEXT NOT NULL,
			day TEXT NOT NULL,
			PRIMARY KEY (learner_id, day)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ledger ON sessions(learner_id, ledger_pos);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Learners lists stored learner ids in order.
func (s *Store) Learners(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM learners ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Load reads the learner's snapshot. It returns nil, nil when nothing was
// ever saved for learnerID.
func (s *Store) Load(ctx context.Context, learnerID string) (*progress.Snapshot, error) {
	var updated string
	err := s.db.QueryRowContext(ctx, `SELECT updated_at FROM learners WHERE id = ?`, learnerID).Scan(&updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	snap := &progress.Snapshot{}
	if snap.Words, err = s.loadWords(ctx, learnerID); err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}
	if err := s.loadSessions(ctx, learnerID, snap); err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}
	if err := s.loadWindows(ctx, learnerID, snap.Words); err != nil {
		return nil, fmt.Errorf("load windows: %w", err)
	}
	if snap.PracticeDays, err = s.loadDays(ctx, learnerID); err != nil {
		return nil, fmt.Errorf("load practice days: %w", err)
	}
	return snap, nil
}

func (s *Store) loadWords(ctx context.Context, learnerID string) ([]progress.WordSnapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, hint, status, is_complete, last_practiced_at, rolling_accuracy, practice_count
		 FROM words WHERE learner_id = ? ORDER BY position`, learnerID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var words []progress.WordSnapshot
	for rows.Next() {
		var (
			id, status string
			w          progress.WordSnapshot
			complete   int
			last       sql.NullString
			acc        sql.NullFloat64
		)
		if err := rows.Scan(&id, &w.Text, &w.PronunciationHint, &status, &complete, &last, &acc, &w.PracticeCount); err != nil {
			return nil, err
		}
		if w.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		st, ok := model.ParseStatus(status)
		if !ok {
			return nil, fmt.Errorf("word %q has unknown status %q", w.Text, status)
		}
		w.Status = st
		w.IsComplete = complete != 0
		if last.Valid {
			t, err := time.Parse(time.RFC3339Nano, last.String)
			if err != nil {
				return nil, err
			}
			w.LastPracticedAt = &t
		}
		if acc.Valid {
			v := acc.Float64
			w.RollingAccuracy = &v
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

func (s *Store) loadSessions(ctx context.Context, learnerID string, snap *progress.Snapshot) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, word_id, occurred_at, accuracy, time_spent_s, ledger_pos
		 FROM sessions WHERE learner_id = ? ORDER BY occurred_at DESC, id`, learnerID)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	ledger := map[int64]uuid.UUID{}
	var maxPos int64 = -1
	for rows.Next() {
		var (
			id, wordID, occurred string
			rec                  model.PracticeSession
			pos                  sql.NullInt64
		)
		if err := rows.Scan(&id, &wordID, &occurred, &rec.Accuracy, &rec.TimeSpentSeconds, &pos); err != nil {
			return err
		}
		if rec.ID, err = uuid.Parse(id); err != nil {
			return err
		}
		if rec.WordID, err = uuid.Parse(wordID); err != nil {
			return err
		}
		if rec.OccurredAt, err = time.Parse(time.RFC3339Nano, occurred); err != nil {
			return err
		}
		snap.Sessions = append(snap.Sessions, rec)
		if pos.Valid {
			ledger[pos.Int64] = rec.ID
			if pos.Int64 > maxPos {
				maxPos = pos.Int64
			}
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for i := int64(0); i <= maxPos; i++ {
		id, ok := ledger[i]
		if !ok {
			return fmt.Errorf("ledger position %d missing", i)
		}
		snap.Ledger = append(snap.Ledger, id)
	}
	return nil
}

func (s *Store) loadWindows(ctx context.Context, learnerID string, words []progress.WordSnapshot) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT word_id, session_id FROM window_entries WHERE learner_id = ? ORDER BY word_id, pos`, learnerID)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	byWord := make(map[uuid.UUID]int, len(words))
	for i, w := range words {
		byWord[w.ID] = i
	}
	for rows.Next() {
		var wordID, sessionID string
		if err := rows.Scan(&wordID, &sessionID); err != nil {
			return err
		}
		wid, err := uuid.Parse(wordID)
		if err != nil {
			return err
		}
		sid, err := uuid.Parse(sessionID)
		if err != nil {
			return err
		}
		idx, ok := byWord[wid]
		if !ok {
			return fmt.Errorf("window entry for unknown word %s", wid)
		}
		words[idx].Window = append(words[idx].Window, sid)
	}
	return rows.Err()
}

func (s *Store) loadDays(ctx context.Context, learnerID string) ([]model.Day, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT day FROM practice_days WHERE learner_id = ? ORDER BY day`, learnerID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	var days []model.Day
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		d, err := model.ParseDay(key)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// Save replaces the learner's stored snapshot in one transaction.
func (s *Store) Save(ctx context.Context, learnerID string, snap progress.Snapshot) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO learners (id, updated_at) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET updated_at = excluded.updated_at`, learnerID, now); err != nil {
		return err
	}
	if err = clearLearner(ctx, tx, learnerID); err != nil {
		return err
	}

	if err = insertWords(ctx, tx, learnerID, snap.Words); err != nil {
		return err
	}
	if err = insertSessions(ctx, tx, learnerID, snap); err != nil {
		return err
	}
	if err = insertDays(ctx, tx, learnerID, snap.PracticeDays); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes everything stored for learnerID.
func (s *Store) Delete(ctx context.Context, learnerID string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()
	if err = clearLearner(ctx, tx, learnerID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM learners WHERE id = ?`, learnerID); err != nil {
		return err
	}
	return tx.Commit()
}

var learnerTables = []string{"words", "sessions", "window_entries", "practice_days"}

func clearLearner(ctx context.Context, tx *sql.Tx, learnerID string) error {
	for _, table := range learnerTables {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE learner_id = ?`, learnerID); err != nil {
			return err
		}
	}
	return nil
}

func insertWords(ctx context.Context, tx *sql.Tx, learnerID string, words []progress.WordSnapshot) error {
	if len(words) == 0 {
		return nil
	}
	wordStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO words (learner_id, id, position, text, hint, status, is_complete, last_practiced_at, rolling_accuracy, practice_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := wordStmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	windowStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO window_entries (learner_id, word_id, pos, session_id) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := windowStmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()

	for i, w := range words {
		var last sql.NullString
		if w.LastPracticedAt != nil {
			last = sql.NullString{String: w.LastPracticedAt.UTC().Format(time.RFC3339Nano), Valid: true}
		}
		var acc sql.NullFloat64
		if w.RollingAccuracy != nil {
			acc = sql.NullFloat64{Float64: *w.RollingAccuracy, Valid: true}
		}
		complete := 0
		if w.IsComplete {
			complete = 1
		}
		if _, err := wordStmt.ExecContext(ctx, learnerID, w.ID.String(), i, w.Text, w.PronunciationHint,
			w.Status.String(), complete, last, acc, w.PracticeCount); err != nil {
			return err
		}
		for pos, id := range w.Window {
			if _, err := windowStmt.ExecContext(ctx, learnerID, w.ID.String(), pos, id.String()); err != nil {
				return err
			}
		}
	}
	return nil
}

func insertSessions(ctx context.Context, tx *sql.Tx, learnerID string, snap progress.Snapshot) error {
	if len(snap.Sessions) == 0 {
		return nil
	}
	positions := make(map[uuid.UUID]int, len(snap.Ledger))
	for i, id := range snap.Ledger {
		positions[id] = i
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sessions (learner_id, id, word_id, occurred_at, accuracy, time_spent_s, ledger_pos)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, rec := range snap.Sessions {
		var pos sql.NullInt64
		if p, ok := positions[rec.ID]; ok {
			pos = sql.NullInt64{Int64: int64(p), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, learnerID, rec.ID.String(), rec.WordID.String(),
			rec.OccurredAt.UTC().Format(time.RFC3339Nano), rec.Accuracy, rec.TimeSpentSeconds, pos); err != nil {
			return err
		}
	}
	return nil
}

func insertDays(ctx context.Context, tx *sql.Tx, learnerID string, days []model.Day) error {
	if len(days) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO practice_days (learner_id, day) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, d := range days {
		if _, err := stmt.ExecContext(ctx, learnerID, d.String()); err != nil {
			return err
		}
	}
	return nil
}
