// Package tracker holds curriculum and flashcard progress on the client
// side, synced against the backend's durable copy.
package tracker

import (
	"context"
	"errors"
	"sync"

	"github.com/profai/profai-backend/pkg/types"
)

// Backend is the slice of the API client the tracker needs.
type Backend interface {
	Curricula(ctx context.Context) ([]types.CurriculumSummary, error)
	CurriculumDetail(ctx context.Context, id string) (types.PlaylistCurriculum, error)
	UpdateChapterProgress(ctx context.Context, curriculumID, chapterID string, completed bool) (types.PlaylistCurriculum, error)
	FlashcardSet(ctx context.Context, id string) (types.FlashcardSet, error)
	UpdateFlashcardStatus(ctx context.Context, setID, cardID, status string) error
}

// Tracker caches curriculum summaries, chapter detail, and flashcard sets.
// Details are fetched lazily and kept until refreshed.
type Tracker struct {
	backend Backend

	mu        sync.Mutex
	summaries []types.CurriculumSummary
	details   map[string]types.PlaylistCurriculum
	sets      map[string]types.FlashcardSet
}

func New(backend Backend) *Tracker {
	return &Tracker{
		backend: backend,
		details: map[string]types.PlaylistCurriculum{},
		sets:    map[string]types.FlashcardSet{},
	}
}

// LoadCurricula refreshes the summary list.
func (t *Tracker) LoadCurricula(ctx context.Context) ([]types.CurriculumSummary, error) {
	sums, err := t.backend.Curricula(ctx)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	t.summaries = sums
	t.mu.Unlock()
	return sums, nil
}

// Curricula returns the cached summary list.
func (t *Tracker) Curricula() []types.CurriculumSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]types.CurriculumSummary, len(t.summaries))
	copy(out, t.summaries)
	return out
}

// LoadDetail fetches a curriculum's chapters, serving the cache when the
// detail was already loaded.
func (t *Tracker) LoadDetail(ctx context.Context, id string) (types.PlaylistCurriculum, error) {
	t.mu.Lock()
	if cur, ok := t.details[id]; ok {
		t.mu.Unlock()
		return cur, nil
	}
	t.mu.Unlock()

	cur, err := t.backend.CurriculumDetail(ctx, id)
	if err != nil {
		return types.PlaylistCurriculum{}, err
	}
	t.mu.Lock()
	t.details[id] = cur
	t.mu.Unlock()
	return cur, nil
}

// MarkChapterComplete asks the backend to record completion and applies
// the refreshed curriculum locally only after the acknowledgment. The
// returned chapter is the one that was completed, for follow-up prompts
// like quiz taking.
func (t *Tracker) MarkChapterComplete(ctx context.Context, curriculumID, chapterID string) (types.Chapter, error) {
	cur, err := t.backend.UpdateChapterProgress(ctx, curriculumID, chapterID, true)
	if err != nil {
		return types.Chapter{}, err
	}
	t.mu.Lock()
	t.details[curriculumID] = cur
	t.mu.Unlock()

	for _, ch := range cur.Chapters {
		if ch.ID == chapterID {
			return ch, nil
		}
	}
	return types.Chapter{}, errors.New("completed chapter missing from refreshed curriculum")
}

// LoadFlashcardSet fetches a set and caches it.
func (t *Tracker) LoadFlashcardSet(ctx context.Context, id string) (types.FlashcardSet, error) {
	set, err := t.backend.FlashcardSet(ctx, id)
	if err != nil {
		return types.FlashcardSet{}, err
	}
	t.mu.Lock()
	t.sets[id] = set
	t.mu.Unlock()
	return copySet(set), nil
}

// FlashcardSet returns the cached copy of a set. The cards are copied so
// the caller cannot edit the cache behind the tracker's back.
func (t *Tracker) FlashcardSet(id string) (types.FlashcardSet, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	set, ok := t.sets[id]
	if !ok {
		return types.FlashcardSet{}, false
	}
	return copySet(set), true
}

func copySet(set types.FlashcardSet) types.FlashcardSet {
	cards := make([]types.Flashcard, len(set.Cards))
	copy(cards, set.Cards)
	set.Cards = cards
	return set
}

// UpdateFlashcardStatus applies the status change locally right away for
// UI responsiveness, then syncs the backend. On sync failure the local
// change stays applied and a revert closure is returned with the error,
// so the caller decides whether to roll back.
func (t *Tracker) UpdateFlashcardStatus(ctx context.Context, setID, cardID, status string) (revert func(), err error) {
	t.mu.Lock()
	set, ok := t.sets[setID]
	if !ok {
		t.mu.Unlock()
		return nil, errors.New("flashcard set not loaded")
	}
	idx := -1
	for i := range set.Cards {
		if set.Cards[i].ID == cardID {
			idx = i
			break
		}
	}
	if idx < 0 {
		t.mu.Unlock()
		return nil, errors.New("flashcard not found")
	}
	prev := set.Cards[idx].Status
	set.Cards[idx].Status = status
	recount(&set)
	t.sets[setID] = set
	t.mu.Unlock()

	revert = func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		s, ok := t.sets[setID]
		if !ok {
			return
		}
		for i := range s.Cards {
			if s.Cards[i].ID == cardID {
				s.Cards[i].Status = prev
				break
			}
		}
		recount(&s)
		t.sets[setID] = s
	}

	if err := t.backend.UpdateFlashcardStatus(ctx, setID, cardID, status); err != nil {
		return revert, err
	}
	return revert, nil
}

func recount(set *types.FlashcardSet) {
	set.TotalCards = len(set.Cards)
	set.LearnedCards = 0
	set.LearningCards = 0
	for _, c := range set.Cards {
		switch c.Status {
		case "learned":
			set.LearnedCards++
		case "learning":
			set.LearningCards++
		}
	}
}
