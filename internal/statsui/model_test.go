package statsui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/verte-zerg/wordtrack/internal/analytics"
	"github.com/verte-zerg/wordtrack/internal/model"
	"github.com/verte-zerg/wordtrack/internal/progress"
)

type fakeSource struct {
	words    []model.Word
	sessions []model.PracticeSession
	now      time.Time
	asked    []analytics.Range
}

func (f *fakeSource) input() analytics.Input {
	return analytics.Input{Words: f.words, Sessions: f.sessions, Now: f.now, Location: time.UTC}
}

func (f *fakeSource) Metrics(r analytics.Range) analytics.Metrics {
	f.asked = append(f.asked, r)
	return analytics.Compute(f.input(), r)
}

func (f *fakeSource) Words() []model.Word { return f.words }

func (f *fakeSource) Timeline(limit int) []analytics.Activity {
	return analytics.Timeline(f.input(), limit)
}

func (f *fakeSource) Achievements() []progress.Achievement {
	return progress.Achievements(f.words, 1, 1)
}

func (f *fakeSource) Streak() int { return 1 }

func (f *fakeSource) LongestStreak() int { return 4 }

func (f *fakeSource) TotalPracticeSeconds() int { return 125 }

func newFakeSource() *fakeSource {
	now := time.Date(2024, time.April, 10, 12, 0, 0, 0, time.UTC)
	acc := 55.0
	w := model.Word{ID: uuid.New(), Text: "Teddy", PronunciationHint: "TED-ee", Status: model.StatusStruggling, RollingAccuracy: &acc, PracticeCount: 3, LastPracticedAt: &now}
	return &fakeSource{
		words: []model.Word{w, {ID: uuid.New(), Text: "Ball", PronunciationHint: "Ball"}},
		sessions: []model.PracticeSession{
			{ID: uuid.New(), WordID: w.ID, OccurredAt: now.Add(-time.Hour), Accuracy: 55, TimeSpentSeconds: 125},
		},
		now: now,
	}
}

func sized(m *Model) {
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
}

func TestDashboardOverview(t *testing.T) {
	src := newFakeSource()
	m := NewModel(src, "kid", analytics.RangeMonth)
	sized(m)
	out := m.View()
	for _, want := range []string{"Overview", "Learner: kid", "last 30 days", "Avg Accuracy", "55%", "Practice Heatmap"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
}

func TestDashboardRangeSwitching(t *testing.T) {
	src := newFakeSource()
	m := NewModel(src, "kid", analytics.RangeWeek)
	if m.Range() != analytics.RangeWeek {
		t.Fatalf("expected week range, got %v", m.Range())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if m.Range() != analytics.RangeMonth {
		t.Fatalf("expected month after cycling, got %v", m.Range())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("4")})
	if m.Range() != analytics.RangeAll {
		t.Fatalf("expected all-time range, got %v", m.Range())
	}
	if got := src.asked[len(src.asked)-1]; got != analytics.RangeAll {
		t.Fatalf("expected metrics recomputed for all-time, got %v", got)
	}
}

func TestDashboardTabs(t *testing.T) {
	m := NewModel(newFakeSource(), "kid", analytics.RangeMonth)
	sized(m)
	right := tea.KeyMsg{Type: tea.KeyRight}

	m.Update(right)
	if !strings.Contains(m.View(), "TED-ee") {
		t.Fatalf("words tab should list hints:\n%s", m.View())
	}
	m.Update(right)
	if !strings.Contains(m.View(), "Struggling with specific sounds") {
		t.Fatalf("attention tab should show insight:\n%s", m.View())
	}
	m.Update(right)
	if !strings.Contains(m.View(), `Practiced "Teddy" (55%)`) {
		t.Fatalf("activity tab should show the attempt:\n%s", m.View())
	}
	m.Update(right)
	if !strings.Contains(m.View(), "First Steps") {
		t.Fatalf("achievements tab should list milestones:\n%s", m.View())
	}
	m.Update(right)
	if m.activeTab != tabOverview {
		t.Fatalf("tabs should wrap around")
	}
}

func TestFitLines(t *testing.T) {
	got := fitLines("ab\ncdef\ng", 3, 2)
	if got != "ab \ncdef" {
		t.Fatalf("unexpected fit %q", got)
	}
	if truncateLine("abcdefgh", 6) != "abc..." {
		t.Fatalf("unexpected truncation")
	}
}
