package analytics

import (
	"sort"

	"github.com/verte-zerg/wordtrack/internal/model"
)

const (
	attentionAccuracy = 75.0
	attentionMinCount = 3
	attentionLimit    = 10
)

// Insight is a coarse hint about how far a word is from mastery.
type Insight int

const (
	InsightNeedsPractice Insight = iota
	InsightSpecificSounds
	InsightCloseToMastery
)

// String returns the hint text.
func (i Insight) String() string {
	switch i {
	case InsightNeedsPractice:
		return "Needs extra practice on pronunciation"
	case InsightSpecificSounds:
		return "Struggling with specific sounds"
	default:
		return "Close to mastery, keep practicing!"
	}
}

// InsightFor picks a hint from a word's rolling accuracy.
func InsightFor(accuracy float64) Insight {
	switch {
	case accuracy < 50:
		return InsightNeedsPractice
	case accuracy < 65:
		return InsightSpecificSounds
	default:
		return InsightCloseToMastery
	}
}

// AttentionItem is a word that needs more practice.
type AttentionItem struct {
	Word     model.Word
	Accuracy float64
	Insight  Insight
}

// Attention is the ranked list of words needing attention. Total counts
// every qualifying word; HasMore is set when Items was capped.
type Attention struct {
	Items   []AttentionItem
	Total   int
	HasMore bool
}

// ComputeAttention selects practiced, unmastered words with low accuracy,
// lowest accuracy first, at most ten.
func ComputeAttention(words []model.Word) Attention {
	items := make([]AttentionItem, 0)
	for _, w := range words {
		if !w.Status.NeedsWork() || w.RollingAccuracy == nil {
			continue
		}
		if *w.RollingAccuracy >= attentionAccuracy || w.PracticeCount < attentionMinCount {
			continue
		}
		items = append(items, AttentionItem{
			Word:     w,
			Accuracy: *w.RollingAccuracy,
			Insight:  InsightFor(*w.RollingAccuracy),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Accuracy == items[j].Accuracy {
			return items[i].Word.Text < items[j].Word.Text
		}
		return items[i].Accuracy < items[j].Accuracy
	})
	att := Attention{Total: len(items)}
	if len(items) > attentionLimit {
		att.HasMore = true
		items = items[:attentionLimit]
	}
	att.Items = items
	return att
}
