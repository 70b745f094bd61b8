// Package analytics derives date-range statistics from a learner's ledger.
package analytics

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/wordtrack/internal/model"
)

// Range is a look-back window in days. RangeAll means unbounded.
type Range int

const (
	RangeAll   Range = 0
	RangeWeek  Range = 7
	RangeMonth Range = 30
	RangeQuart Range = 90
)

const day = 24 * time.Hour

// ParseRange accepts 7, 30, 90 or "all".
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "all" || s == "" {
		return RangeAll, nil
	}
	n, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
	if err != nil {
		return 0, fmt.Errorf("invalid range %q", s)
	}
	switch Range(n) {
	case RangeWeek, RangeMonth, RangeQuart:
		return Range(n), nil
	}
	return 0, fmt.Errorf("range must be 7, 30, 90 or all, got %d", n)
}

// String returns a short label for the range.
func (r Range) String() string {
	if r <= 0 {
		return "all time"
	}
	return fmt.Sprintf("last %d days", int(r))
}

// Bounded reports whether the range has a start.
func (r Range) Bounded() bool {
	return r > 0
}

// Start returns the beginning of the current window.
func (r Range) Start(now time.Time) time.Time {
	return now.Add(-time.Duration(r) * day)
}

// Input is everything the aggregator reads.
type Input struct {
	Words    []model.Word
	Sessions []model.PracticeSession
	Now      time.Time
	Location *time.Location
}

func (in Input) location() *time.Location {
	if in.Location == nil {
		return time.Local
	}
	return in.Location
}

func (in Input) today() model.Day {
	return model.DayOf(in.Now, in.location())
}

// Metrics is the full analytics result for one range. It is computed on
// demand and never persisted.
type Metrics struct {
	Range     Range
	Overview  Overview
	Heatmap   Heatmap
	Growth    []GrowthPoint
	Attention Attention
}

// Compute runs every aggregate over in for range r.
func Compute(in Input, r Range) Metrics {
	if r < 0 {
		r = RangeAll
	}
	return Metrics{
		Range:     r,
		Overview:  ComputeOverview(in, r),
		Heatmap:   ComputeHeatmap(in, r),
		Growth:    ComputeGrowth(in, r),
		Attention: ComputeAttention(in.Words),
	}
}

// sessionsBetween keeps sessions with start <= OccurredAt <= end. A zero
// start means no lower bound.
func sessionsBetween(sessions []model.PracticeSession, start, end time.Time) []model.PracticeSession {
	out := make([]model.PracticeSession, 0, len(sessions))
	for _, s := range sessions {
		if !start.IsZero() && s.OccurredAt.Before(start) {
			continue
		}
		if s.OccurredAt.After(end) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func meanAccuracy(sessions []model.PracticeSession) float64 {
	if len(sessions) == 0 {
		return 0
	}
	sum := 0
	for _, s := range sessions {
		sum += s.Accuracy
	}
	return float64(sum) / float64(len(sessions))
}
