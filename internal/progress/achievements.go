package progress

import "github.com/verte-zerg/wordtrack/internal/model"

// Achievement is a milestone and the learner's progress toward it.
type Achievement struct {
	ID           string
	Name         string
	Description  string
	Prerequisite string
	Progress     int
	Target       int
	Unlocked     bool
}

// Achievements evaluates the milestone list. An achievement unlocks only
// when its own goal and its prerequisite's goal are both met.
func Achievements(words []model.Word, streak, practiceDays int) []Achievement {
	mastered := 0
	for _, w := range words {
		if w.Status == model.StatusMastered {
			mastered++
		}
	}
	total := len(words)

	list := []Achievement{
		{ID: "first-word", Name: "First Steps", Description: "Master your first word", Progress: mastered, Target: 1},
		{ID: "streak-7", Name: "Week Warrior", Description: "Practice for 7 days straight", Prerequisite: "first-word", Progress: streak, Target: 7},
		{ID: "master-5", Name: "Word Master", Description: "Master 5 words", Prerequisite: "first-word", Progress: mastered, Target: 5},
		{ID: "practice-30", Name: "Dedicated Learner", Description: "Practice for 30 days", Prerequisite: "first-word", Progress: practiceDays, Target: 30},
		{ID: "all-mastered", Name: "Perfect Score", Description: "Master all words", Prerequisite: "master-5", Progress: mastered, Target: total},
	}

	goalMet := map[string]bool{}
	for _, a := range list {
		met := a.Progress >= a.Target
		if a.ID == "all-mastered" {
			met = total > 0 && mastered >= total
		}
		goalMet[a.ID] = met
	}
	for i := range list {
		a := &list[i]
		a.Unlocked = goalMet[a.ID] && (a.Prerequisite == "" || goalMet[a.Prerequisite])
		if a.Progress > a.Target {
			a.Progress = a.Target
		}
	}
	return list
}

// NextAchievement returns the first locked achievement, if any.
func NextAchievement(list []Achievement) (Achievement, bool) {
	for _, a := range list {
		if !a.Unlocked {
			return a, true
		}
	}
	return Achievement{}, false
}
