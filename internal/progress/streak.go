package progress

import (
	"sort"

	"github.com/verte-zerg/wordtrack/internal/model"
)

// ComputeStreak counts consecutive practice days ending today or yesterday.
// A chain whose newest day is older than yesterday counts as broken.
func ComputeStreak(days []model.Day, today model.Day) int {
	sorted := distinctDescending(days)
	if len(sorted) == 0 {
		return 0
	}
	gap := today.Sub(sorted[0])
	if gap > 1 {
		return 0
	}
	cursor := today
	if gap == 1 {
		cursor = today.AddDays(-1)
	}
	streak := 0
	for _, d := range sorted {
		if cursor.Before(d) {
			// Days after today are ignored.
			continue
		}
		if d != cursor {
			break
		}
		streak++
		cursor = cursor.AddDays(-1)
	}
	return streak
}

// LongestStreak returns the longest run of consecutive days in the set.
func LongestStreak(days []model.Day) int {
	sorted := distinctDescending(days)
	if len(sorted) == 0 {
		return 0
	}
	best, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Sub(sorted[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}

func distinctDescending(days []model.Day) []model.Day {
	seen := make(map[model.Day]struct{}, len(days))
	out := make([]model.Day, 0, len(days))
	for _, d := range days {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[j].Before(out[i])
	})
	return out
}
