package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/profai/profai-backend/internal/core/flashcards"
	"github.com/profai/profai-backend/pkg/types"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// FlashcardRepo persists flashcard sets and their cards.
type FlashcardRepo struct {
	db *sqlx.DB
}

func NewFlashcardRepo(s *Store) *FlashcardRepo { return &FlashcardRepo{db: s.DB} }

type setRow struct {
	ID          string `db:"id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	VideoURL    string `db:"video_url"`
	VideoTitle  string `db:"video_title"`
	CreatedAt   string `db:"created_at"`
}

type cardRow struct {
	ID           string `db:"id"`
	SetID        string `db:"set_id"`
	Question     string `db:"question"`
	Answer       string `db:"answer"`
	Category     string `db:"category"`
	Difficulty   string `db:"difficulty"`
	Tags         string `db:"tags"`
	Status       string `db:"status"`
	ReviewCount  int    `db:"review_count"`
	CreatedAt    string `db:"created_at"`
	LastReviewed string `db:"last_reviewed"`
	Position     int    `db:"position"`
}

// SaveSet inserts or replaces a set together with all of its cards.
func (r *FlashcardRepo) SaveSet(set *types.FlashcardSet) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT OR REPLACE INTO flashcard_sets
		(id, title, description, video_url, video_title, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		set.ID, set.Title, set.Description, set.VideoURL, set.VideoTitle, set.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save set: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM flashcards WHERE set_id = ?`, set.ID); err != nil {
		return fmt.Errorf("failed to clear cards: %w", err)
	}
	for i, c := range set.Cards {
		tags, err := json.Marshal(c.Tags)
		if err != nil {
			return fmt.Errorf("failed to encode tags: %w", err)
		}
		_, err = tx.Exec(`INSERT INTO flashcards
			(id, set_id, question, answer, category, difficulty, tags, status, review_count, created_at, last_reviewed, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, set.ID, c.Question, c.Answer, c.Category, c.Difficulty,
			string(tags), c.Status, c.ReviewCount, c.CreatedAt, c.LastReviewed, i)
		if err != nil {
			return fmt.Errorf("failed to save card %s: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

// GetSet loads one set with its cards in insertion order.
func (r *FlashcardRepo) GetSet(id string) (*types.FlashcardSet, error) {
	var sr setRow
	if err := r.db.Get(&sr, `SELECT * FROM flashcard_sets WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get set: %w", err)
	}
	var rows []cardRow
	err := r.db.Select(&rows, `SELECT * FROM flashcards WHERE set_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get cards: %w", err)
	}
	set := &types.FlashcardSet{
		ID:          sr.ID,
		Title:       sr.Title,
		Description: sr.Description,
		VideoURL:    sr.VideoURL,
		VideoTitle:  sr.VideoTitle,
		CreatedAt:   sr.CreatedAt,
		Cards:       make([]types.Flashcard, 0, len(rows)),
	}
	for _, cr := range rows {
		set.Cards = append(set.Cards, cardFromRow(cr))
	}
	flashcards.RecomputeCounts(set)
	return set, nil
}

// ListSets returns summaries of all sets, newest first.
func (r *FlashcardRepo) ListSets() ([]types.FlashcardSetSummary, error) {
	var sets []setRow
	err := r.db.Select(&sets, `SELECT * FROM flashcard_sets ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sets: %w", err)
	}
	out := make([]types.FlashcardSetSummary, 0, len(sets))
	for _, sr := range sets {
		var total, learned, learning int
		if err := r.db.Get(&total, `SELECT COUNT(*) FROM flashcards WHERE set_id = ?`, sr.ID); err != nil {
			return nil, fmt.Errorf("failed to count cards: %w", err)
		}
		err := r.db.Get(&learned,
			`SELECT COUNT(*) FROM flashcards WHERE set_id = ? AND status = ?`,
			sr.ID, flashcards.StatusLearned)
		if err != nil {
			return nil, fmt.Errorf("failed to count learned cards: %w", err)
		}
		err = r.db.Get(&learning,
			`SELECT COUNT(*) FROM flashcards WHERE set_id = ? AND status = ?`,
			sr.ID, flashcards.StatusLearning)
		if err != nil {
			return nil, fmt.Errorf("failed to count learning cards: %w", err)
		}
		out = append(out, types.FlashcardSetSummary{
			ID:            sr.ID,
			Title:         sr.Title,
			Description:   sr.Description,
			VideoTitle:    sr.VideoTitle,
			TotalCards:    total,
			LearnedCards:  learned,
			LearningCards: learning,
			CreatedAt:     sr.CreatedAt,
		})
	}
	return out, nil
}

// DeleteSet removes a set and, via cascade, its cards.
func (r *FlashcardRepo) DeleteSet(id string) error {
	res, err := r.db.Exec(`DELETE FROM flashcard_sets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete set: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func cardFromRow(cr cardRow) types.Flashcard {
	var tags []string
	if err := json.Unmarshal([]byte(cr.Tags), &tags); err != nil {
		tags = nil
	}
	return types.Flashcard{
		ID:           cr.ID,
		Question:     cr.Question,
		Answer:       cr.Answer,
		Category:     cr.Category,
		Difficulty:   cr.Difficulty,
		Tags:         tags,
		Status:       cr.Status,
		ReviewCount:  cr.ReviewCount,
		CreatedAt:    cr.CreatedAt,
		LastReviewed: cr.LastReviewed,
	}
}
