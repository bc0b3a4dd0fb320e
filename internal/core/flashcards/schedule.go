package flashcards

import (
	"sort"
	"time"

	"github.com/profai/profai-backend/pkg/types"
)

// Review scheduling follows the SM-2 shape: fixed early intervals per review
// count, growing toward a cap once a card is learned.
var initialIntervals = []int{0, 1, 2, 3, 7, 10, 15, 20, 30} // days

const maxIntervalDays = 365

// ReviewInterval returns how long after its last review a card should wait
// before being shown again. Learned cards wait twice as long.
func ReviewInterval(card types.Flashcard) time.Duration {
	days := 0
	if card.ReviewCount < len(initialIntervals) {
		days = initialIntervals[card.ReviewCount]
	} else {
		days = initialIntervals[len(initialIntervals)-1] * (card.ReviewCount - len(initialIntervals) + 2)
	}
	if card.Status == StatusLearned {
		days *= 2
	}
	if days > maxIntervalDays {
		days = maxIntervalDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// Due returns the cards due for review at now, ordered by priority:
// never-reviewed cards first, then fewest reviews, then longest overdue.
// Limit bounds the result (0 means unlimited).
func Due(set types.FlashcardSet, now time.Time, limit int) []types.Flashcard {
	var due []types.Flashcard
	for _, c := range set.Cards {
		if c.LastReviewed == "" {
			due = append(due, c)
			continue
		}
		last, err := time.Parse(time.RFC3339, c.LastReviewed)
		if err != nil || !last.Add(ReviewInterval(c)).After(now) {
			due = append(due, c)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		if (due[i].ReviewCount == 0) != (due[j].ReviewCount == 0) {
			return due[i].ReviewCount == 0
		}
		if due[i].ReviewCount != due[j].ReviewCount {
			return due[i].ReviewCount < due[j].ReviewCount
		}
		return due[i].LastReviewed < due[j].LastReviewed
	})

	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due
}
