package analytics

import (
	"github.com/google/uuid"

	"github.com/verte-zerg/wordtrack/internal/model"
)

// MaxTier is the highest heatmap intensity.
const MaxTier = 4

// HeatmapDay is one calendar day of practice.
type HeatmapDay struct {
	Day       model.Day
	Seconds   int
	Minutes   int
	WordCount int
	Tier      int
}

// Heatmap lists every day of the range oldest first. Weeks groups the
// same days for display: one row for a 7-day range, otherwise chunks of
// seven days starting from the oldest.
type Heatmap struct {
	Days       []HeatmapDay
	Weeks      [][]HeatmapDay
	MaxMinutes int
}

// ComputeHeatmap buckets sessions into the calendar days of the range. The
// unbounded range spans from the oldest session's day to today.
func ComputeHeatmap(in Input, r Range) Heatmap {
	loc := in.location()
	today := in.today()

	var first model.Day
	if r.Bounded() {
		first = today.AddDays(-(int(r) - 1))
	} else {
		for _, s := range in.Sessions {
			d := model.DayOf(s.OccurredAt, loc)
			if first.IsZero() || d.Before(first) {
				first = d
			}
		}
		if first.IsZero() {
			return Heatmap{}
		}
		if today.Before(first) {
			first = today
		}
	}

	n := today.Sub(first) + 1
	days := make([]HeatmapDay, n)
	words := make([]map[uuid.UUID]struct{}, n)
	for i := range days {
		days[i].Day = first.AddDays(i)
	}
	for _, s := range in.Sessions {
		idx := model.DayOf(s.OccurredAt, loc).Sub(first)
		if idx < 0 || idx >= n {
			continue
		}
		days[idx].Seconds += s.TimeSpentSeconds
		if words[idx] == nil {
			words[idx] = map[uuid.UUID]struct{}{}
		}
		words[idx][s.WordID] = struct{}{}
	}

	hm := Heatmap{Days: days}
	for i := range days {
		days[i].Minutes = days[i].Seconds / 60
		days[i].WordCount = len(words[i])
		if days[i].Minutes > hm.MaxMinutes {
			hm.MaxMinutes = days[i].Minutes
		}
	}
	for i := range days {
		days[i].Tier = Tier(days[i].Minutes, hm.MaxMinutes)
	}

	if r == RangeWeek {
		hm.Weeks = [][]HeatmapDay{days}
	} else {
		for i := 0; i < len(days); i += 7 {
			end := i + 7
			if end > len(days) {
				end = len(days)
			}
			hm.Weeks = append(hm.Weeks, days[i:end])
		}
	}
	return hm
}

// Tier maps a day's minutes to 0-4 relative to the busiest day in range.
func Tier(minutes, maxMinutes int) int {
	if minutes <= 0 {
		return 0
	}
	if maxMinutes < 1 {
		maxMinutes = 1
	}
	ratio := float64(minutes) / float64(maxMinutes)
	switch {
	case ratio < 0.25:
		return 1
	case ratio < 0.5:
		return 2
	case ratio < 0.75:
		return 3
	default:
		return MaxTier
	}
}
