package flashcards

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/profai/profai-backend/pkg/types"
)

// Card statuses. A card is exactly one of these at any time, so
// learned + learning + new always equals the set total.
const (
	StatusNew      = "new"
	StatusLearning = "learning"
	StatusLearned  = "learned"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusLearning, StatusLearned:
		return true
	}
	return false
}

// NewSet assembles a flashcard set with counts computed.
func NewSet(id, title, description, videoURL, videoTitle string, cards []types.Flashcard) types.FlashcardSet {
	if id == "" {
		id = "set_" + uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	for i := range cards {
		if cards[i].ID == "" {
			cards[i].ID = fmt.Sprintf("card_%03d", i+1)
		}
		if cards[i].Status == "" {
			cards[i].Status = StatusNew
		}
		if cards[i].CreatedAt == "" {
			cards[i].CreatedAt = now
		}
	}
	set := types.FlashcardSet{
		ID:          id,
		Title:       title,
		Description: description,
		VideoURL:    videoURL,
		VideoTitle:  videoTitle,
		Cards:       cards,
		CreatedAt:   now,
	}
	RecomputeCounts(&set)
	return set
}

// RecomputeCounts refreshes the aggregate counters from card statuses.
func RecomputeCounts(set *types.FlashcardSet) {
	set.TotalCards = len(set.Cards)
	set.LearnedCards = 0
	set.LearningCards = 0
	for _, c := range set.Cards {
		switch c.Status {
		case StatusLearned:
			set.LearnedCards++
		case StatusLearning:
			set.LearningCards++
		}
	}
}

// UpdateCardStatus moves a card to status, bumps its review bookkeeping, and
// recomputes the set counters. Returns the updated card.
func UpdateCardStatus(set *types.FlashcardSet, cardID, status string) (types.Flashcard, error) {
	if !ValidStatus(status) {
		return types.Flashcard{}, fmt.Errorf("invalid card status %q", status)
	}
	for i := range set.Cards {
		if set.Cards[i].ID != cardID {
			continue
		}
		set.Cards[i].Status = status
		set.Cards[i].ReviewCount++
		set.Cards[i].LastReviewed = time.Now().UTC().Format(time.RFC3339)
		RecomputeCounts(set)
		return set.Cards[i], nil
	}
	return types.Flashcard{}, fmt.Errorf("card %s not found", cardID)
}

var trailingComma = regexp.MustCompile(`,\s*([}\]])`)

type flashcardDoc struct {
	Flashcards []struct {
		Question   string   `json:"question"`
		Answer     string   `json:"answer"`
		Category   string   `json:"category"`
		Difficulty string   `json:"difficulty"`
		Tags       []string `json:"tags"`
	} `json:"flashcards"`
}

// ParseFromResponse extracts flashcards from raw model output. Trailing
// commas are repaired; cards missing a question or answer are dropped.
func ParseFromResponse(raw, fallbackCategory string) []types.Flashcard {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return nil
	}
	jsonStr := trailingComma.ReplaceAllString(raw[start:end+1], "$1")

	var doc flashcardDoc
	if err := json.Unmarshal([]byte(jsonStr), &doc); err != nil {
		return nil
	}

	out := make([]types.Flashcard, 0, len(doc.Flashcards))
	for i, c := range doc.Flashcards {
		q := strings.TrimSpace(c.Question)
		a := strings.TrimSpace(c.Answer)
		if q == "" || a == "" {
			continue
		}
		category := c.Category
		if category == "" {
			category = fallbackCategory
		}
		difficulty := strings.ToLower(c.Difficulty)
		if difficulty == "" {
			difficulty = "medium"
		}
		out = append(out, types.Flashcard{
			ID:         fmt.Sprintf("card_%03d", i+1),
			Question:   q,
			Answer:     a,
			Category:   category,
			Difficulty: difficulty,
			Tags:       c.Tags,
			Status:     StatusNew,
		})
	}
	return out
}
