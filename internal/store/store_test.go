package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/wordtrack/internal/model"
	"github.com/verte-zerg/wordtrack/internal/progress"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "wordtrack.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})
	return st
}

func practicedState(t *testing.T) *progress.State {
	t.Helper()
	s := progress.NewState()
	for _, text := range []string{"Hello", "Teddy", "Apple"} {
		_, err := s.AddWord(text, "")
		require.NoError(t, err)
	}
	base := time.Date(2024, time.March, 1, 9, 30, 0, 123, time.UTC)
	for i := 0; i < 14; i++ {
		_, err := s.Record(i%2, base.Add(time.Duration(i)*time.Hour), time.UTC, 60+i*2, 30+i)
		require.NoError(t, err)
	}
	require.NoError(t, s.MarkComplete(2, true))
	return s
}

func TestLoadMissingLearner(t *testing.T) {
	st := openTestStore(t)
	snap, err := st.Load(context.Background(), "nobody")
	require.NoError(t, err)
	require.Nil(t, snap)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	state := practicedState(t)

	require.NoError(t, st.Save(ctx, "kid", state.Snapshot()))
	snap, err := st.Load(ctx, "kid")
	require.NoError(t, err)
	require.NotNil(t, snap)

	restored, err := progress.Restore(*snap)
	require.NoError(t, err)

	want, got := state.Words(), restored.Words()
	require.Len(t, got, len(want))
	for i := range want {
		require.Equal(t, want[i].ID, got[i].ID)
		require.Equal(t, want[i].Text, got[i].Text)
		require.Equal(t, want[i].PronunciationHint, got[i].PronunciationHint)
		require.Equal(t, want[i].Status, got[i].Status)
		require.Equal(t, want[i].IsComplete, got[i].IsComplete)
		require.Equal(t, want[i].PracticeCount, got[i].PracticeCount)
		if want[i].RollingAccuracy == nil {
			require.Nil(t, got[i].RollingAccuracy)
		} else {
			require.NotNil(t, got[i].RollingAccuracy)
			require.InDelta(t, *want[i].RollingAccuracy, *got[i].RollingAccuracy, 1e-9)
		}
		if want[i].LastPracticedAt == nil {
			require.Nil(t, got[i].LastPracticedAt)
		} else {
			require.True(t, want[i].LastPracticedAt.Equal(*got[i].LastPracticedAt))
		}
		require.Equal(t, ids(state.RecentSessions(want[i].ID)), ids(restored.RecentSessions(got[i].ID)))
	}

	require.Equal(t, ids(state.Sessions()), ids(restored.Sessions()))
	require.Equal(t, state.PracticeDays(), restored.PracticeDays())
}

func TestSaveReplacesPreviousSnapshot(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	state := practicedState(t)
	require.NoError(t, st.Save(ctx, "kid", state.Snapshot()))

	require.NoError(t, state.DeleteWord("Teddy"))
	state.Reset()
	require.NoError(t, st.Save(ctx, "kid", state.Snapshot()))

	snap, err := st.Load(ctx, "kid")
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.Len(t, snap.Words, 2)
	require.Empty(t, snap.Sessions)
	require.Empty(t, snap.Ledger)
	require.Empty(t, snap.PracticeDays)
	for _, w := range snap.Words {
		require.Equal(t, model.StatusNotStarted, w.Status)
		require.Nil(t, w.RollingAccuracy)
		require.Empty(t, w.Window)
	}
}

func TestLearnersAreIsolated(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	require.NoError(t, st.Save(ctx, "ana", practicedState(t).Snapshot()))
	require.NoError(t, st.Save(ctx, "ben", progress.NewState().Snapshot()))

	learners, err := st.Learners(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"ana", "ben"}, learners)

	ben, err := st.Load(ctx, "ben")
	require.NoError(t, err)
	require.NotNil(t, ben)
	require.Empty(t, ben.Words)

	require.NoError(t, st.Delete(ctx, "ana"))
	ana, err := st.Load(ctx, "ana")
	require.NoError(t, err)
	require.Nil(t, ana)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "wordtrack.db")
	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Save(ctx, "kid", practicedState(t).Snapshot()))
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, st.Close())
	}()
	snap, err := st.Load(ctx, "kid")
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.Len(t, snap.Words, 3)
	require.Len(t, snap.Ledger, 14)
}

func ids(sessions []model.PracticeSession) []string {
	out := make([]string, len(sessions))
	for i, s := range sessions {
		out[i] = s.ID.String()
	}
	return out
}
