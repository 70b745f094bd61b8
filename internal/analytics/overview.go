package analytics

import (
	"time"

	"github.com/verte-zerg/wordtrack/internal/model"
)

// Overview holds the headline numbers for a range.
//
// Empty windows average to 0, so a trend of 0 can mean either "no change"
// or "no data"; SessionCount and PreviousSessionCount tell them apart.
type Overview struct {
	AverageAccuracy      float64
	PreviousAccuracy     float64
	Trend                float64
	SessionCount         int
	PreviousSessionCount int
	PracticeSeconds      int
	AttemptedCount       int
	MasteredCount        int
	LearningVelocity     float64
}

// ComputeOverview compares the current window [now-r, now] with the
// preceding [now-2r, now-r). The unbounded range has no previous period.
func ComputeOverview(in Input, r Range) Overview {
	var ov Overview
	var current []model.PracticeSession
	if r.Bounded() {
		start := r.Start(in.Now)
		current = sessionsBetween(in.Sessions, start, in.Now)
		prevStart := r.Start(start)
		var previous []model.PracticeSession
		for _, s := range in.Sessions {
			if !s.OccurredAt.Before(prevStart) && s.OccurredAt.Before(start) {
				previous = append(previous, s)
			}
		}
		ov.PreviousAccuracy = meanAccuracy(previous)
		ov.PreviousSessionCount = len(previous)
	} else {
		current = sessionsBetween(in.Sessions, time.Time{}, in.Now)
	}
	ov.AverageAccuracy = meanAccuracy(current)
	ov.SessionCount = len(current)
	if r.Bounded() {
		ov.Trend = ov.AverageAccuracy - ov.PreviousAccuracy
	}
	for _, s := range current {
		ov.PracticeSeconds += s.TimeSpentSeconds
	}

	for _, w := range in.Words {
		if w.Practiced() {
			ov.AttemptedCount++
		}
		if w.Status == model.StatusMastered {
			ov.MasteredCount++
		}
	}
	ov.LearningVelocity = LearningVelocity(in, r)
	return ov
}

// LearningVelocity is mastered words last practiced inside the range per
// week of range. It is 0 for the unbounded range.
func LearningVelocity(in Input, r Range) float64 {
	if !r.Bounded() {
		return 0
	}
	start := r.Start(in.Now)
	mastered := 0
	for _, w := range in.Words {
		if w.Status != model.StatusMastered || w.LastPracticedAt == nil {
			continue
		}
		at := *w.LastPracticedAt
		if at.Before(start) || at.After(in.Now) {
			continue
		}
		mastered++
	}
	weeks := float64(r) / 7
	return float64(mastered) / weeks
}
