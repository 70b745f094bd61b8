package analytics

import (
	"sort"
	"time"

	"github.com/verte-zerg/wordtrack/internal/model"
)

// GrowthPoint is the mean accuracy of one practice day.
type GrowthPoint struct {
	Day      model.Day
	Accuracy float64
	Sessions int
}

// ComputeGrowth averages accuracy per day inside the range, oldest day
// first. No smoothing is applied; zero or one point is a valid series.
func ComputeGrowth(in Input, r Range) []GrowthPoint {
	var start time.Time
	if r.Bounded() {
		start = r.Start(in.Now)
	}
	loc := in.location()

	type bucket struct {
		sum   int
		count int
	}
	byDay := map[model.Day]*bucket{}
	for _, s := range sessionsBetween(in.Sessions, start, in.Now) {
		d := model.DayOf(s.OccurredAt, loc)
		b, ok := byDay[d]
		if !ok {
			b = &bucket{}
			byDay[d] = b
		}
		b.sum += s.Accuracy
		b.count++
	}

	points := make([]GrowthPoint, 0, len(byDay))
	for d, b := range byDay {
		points = append(points, GrowthPoint{
			Day:      d,
			Accuracy: float64(b.sum) / float64(b.count),
			Sessions: b.count,
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Day.Before(points[j].Day)
	})
	return points
}

// GrowthValues returns the accuracies of a series in order.
func GrowthValues(points []GrowthPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Accuracy
	}
	return out
}
