// Package progress implements the practice ledger and the rules that derive
// word status and streaks from it.
package progress

import "github.com/verte-zerg/wordtrack/internal/model"

const (
	masteredAccuracy   = 90.0
	masteredMinSamples = 3
	struggleAccuracy   = 60.0
	struggleMinSamples = 2
)

// RollingAccuracy returns the mean accuracy of the window, or nil when the
// window is empty.
func RollingAccuracy(window []model.PracticeSession) *float64 {
	if len(window) == 0 {
		return nil
	}
	sum := 0
	for _, s := range window {
		sum += s.Accuracy
	}
	mean := float64(sum) / float64(len(window))
	return &mean
}

// DeriveStatus maps a word's recent window to its status and rolling
// accuracy. practiceCountBefore is the lifetime count before the session
// that produced window was appended.
//
// Status is a snapshot of recent performance: a mastered word drops back
// once weaker attempts push its older sessions out of the window.
func DeriveStatus(practiceCountBefore int, window []model.PracticeSession) (model.Status, *float64) {
	acc := RollingAccuracy(window)
	if acc == nil {
		// Only reachable when nothing has been recorded at all.
		if practiceCountBefore == 0 {
			return model.StatusNotStarted, nil
		}
		return model.StatusInProgress, nil
	}
	n := len(window)
	switch {
	case *acc >= masteredAccuracy && n >= masteredMinSamples:
		return model.StatusMastered, acc
	case *acc < struggleAccuracy && n >= struggleMinSamples:
		return model.StatusStruggling, acc
	default:
		return model.StatusInProgress, acc
	}
}
