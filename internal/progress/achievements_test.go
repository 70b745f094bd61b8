package progress

import (
	"testing"

	"github.com/verte-zerg/wordtrack/internal/model"
)

func wordsWithStatus(statuses ...model.Status) []model.Word {
	out := make([]model.Word, len(statuses))
	for i, s := range statuses {
		out[i] = model.Word{Status: s}
	}
	return out
}

func unlocked(list []Achievement) map[string]bool {
	out := map[string]bool{}
	for _, a := range list {
		out[a.ID] = a.Unlocked
	}
	return out
}

func TestAchievementsPrerequisites(t *testing.T) {
	// A long streak without a mastered word unlocks nothing.
	got := unlocked(Achievements(wordsWithStatus(model.StatusInProgress), 10, 40))
	for id, ok := range got {
		if ok {
			t.Fatalf("%s unlocked without first-word", id)
		}
	}

	got = unlocked(Achievements(wordsWithStatus(model.StatusMastered, model.StatusInProgress), 7, 30))
	if !got["first-word"] || !got["streak-7"] || !got["practice-30"] {
		t.Fatalf("expected first-word, streak-7 and practice-30: %v", got)
	}
	if got["master-5"] || got["all-mastered"] {
		t.Fatalf("unexpected unlocks: %v", got)
	}
}

func TestAchievementsAllMastered(t *testing.T) {
	words := wordsWithStatus(model.StatusMastered, model.StatusMastered, model.StatusMastered, model.StatusMastered, model.StatusMastered)
	list := Achievements(words, 0, 1)
	got := unlocked(list)
	if !got["master-5"] || !got["all-mastered"] {
		t.Fatalf("expected master-5 and all-mastered: %v", got)
	}
	next, ok := NextAchievement(list)
	if !ok || next.ID != "streak-7" {
		t.Fatalf("expected streak-7 next, got %+v", next)
	}
	for _, a := range list {
		if a.Progress > a.Target {
			t.Fatalf("%s progress %d exceeds target %d", a.ID, a.Progress, a.Target)
		}
	}
}

func TestAchievementsEmptyWordList(t *testing.T) {
	got := unlocked(Achievements(nil, 0, 0))
	if got["all-mastered"] {
		t.Fatalf("all-mastered must stay locked with no words")
	}
}
