package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/wordtrack/internal/model"
)

// ActivityKind distinguishes timeline entries.
type ActivityKind int

const (
	ActivityPractice ActivityKind = iota
	ActivitySummary
	ActivityMastery
)

const summaryThreshold = 3

// Activity is one entry of the recent-activity feed.
type Activity struct {
	Kind     ActivityKind
	At       time.Time
	Day      model.Day
	WordText string
	Accuracy int
	Sessions int
	Minutes  int
}

// Timeline builds the recent-activity feed, newest first. Days with three
// or more sessions collapse into one summary entry. Mastered words add a
// mastery entry at their last practice time. limit <= 0 means no cap.
func Timeline(in Input, limit int) []Activity {
	loc := in.location()
	names := make(map[uuid.UUID]string, len(in.Words))
	for _, w := range in.Words {
		names[w.ID] = w.Text
	}

	byDay := map[model.Day][]model.PracticeSession{}
	for _, s := range in.Sessions {
		d := model.DayOf(s.OccurredAt, loc)
		byDay[d] = append(byDay[d], s)
	}

	var items []Activity
	for _, w := range in.Words {
		if w.Status != model.StatusMastered || w.LastPracticedAt == nil {
			continue
		}
		items = append(items, Activity{
			Kind:     ActivityMastery,
			At:       *w.LastPracticedAt,
			Day:      model.DayOf(*w.LastPracticedAt, loc),
			WordText: w.Text,
		})
	}
	for d, sessions := range byDay {
		if len(sessions) >= summaryThreshold {
			latest := sessions[0].OccurredAt
			seconds := 0
			for _, s := range sessions {
				seconds += s.TimeSpentSeconds
				if s.OccurredAt.After(latest) {
					latest = s.OccurredAt
				}
			}
			items = append(items, Activity{
				Kind:     ActivitySummary,
				At:       latest,
				Day:      d,
				Sessions: len(sessions),
				Minutes:  seconds / 60,
			})
			continue
		}
		for _, s := range sessions {
			name, ok := names[s.WordID]
			if !ok {
				name = "unknown"
			}
			items = append(items, Activity{
				Kind:     ActivityPractice,
				At:       s.OccurredAt,
				Day:      d,
				WordText: name,
				Accuracy: s.Accuracy,
			})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].At.Equal(items[j].At) {
			return items[i].Kind > items[j].Kind
		}
		return items[i].At.After(items[j].At)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
