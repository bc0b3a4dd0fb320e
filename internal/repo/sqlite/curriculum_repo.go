package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/profai/profai-backend/pkg/types"
)

// CurriculumRepo persists playlist curricula and their chapters.
type CurriculumRepo struct {
	db *sqlx.DB
}

func NewCurriculumRepo(s *Store) *CurriculumRepo { return &CurriculumRepo{db: s.DB} }

type curriculumRow struct {
	ID           string `db:"id"`
	Title        string `db:"title"`
	Description  string `db:"description"`
	PlaylistURL  string `db:"playlist_url"`
	Creator      string `db:"creator"`
	CreatedAt    string `db:"created_at"`
	LastAccessed string `db:"last_accessed"`
}

type chapterRow struct {
	ID             string `db:"id"`
	CurriculumID   string `db:"curriculum_id"`
	Title          string `db:"title"`
	Description    string `db:"description"`
	VideoURL       string `db:"video_url"`
	VideoID        string `db:"video_id"`
	Duration       string `db:"duration"`
	Notes          string `db:"notes"`
	FlashcardsJSON string `db:"flashcards_json"`
	Completed      int    `db:"completed"`
	CompletedAt    string `db:"completed_at"`
	Position       int    `db:"position"`
}

// Save inserts or replaces a curriculum together with all of its chapters.
func (r *CurriculumRepo) Save(cur *types.PlaylistCurriculum) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT OR REPLACE INTO curricula
		(id, title, description, playlist_url, creator, created_at, last_accessed)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		cur.ID, cur.Title, cur.Description, cur.PlaylistURL, cur.Creator, cur.CreatedAt, cur.LastAccessed)
	if err != nil {
		return fmt.Errorf("failed to save curriculum: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM chapters WHERE curriculum_id = ?`, cur.ID); err != nil {
		return fmt.Errorf("failed to clear chapters: %w", err)
	}
	for i, ch := range cur.Chapters {
		cards, err := json.Marshal(ch.Flashcards)
		if err != nil {
			return fmt.Errorf("failed to encode chapter flashcards: %w", err)
		}
		completed := 0
		if ch.Completed {
			completed = 1
		}
		_, err = tx.Exec(`INSERT INTO chapters
			(id, curriculum_id, title, description, video_url, video_id, duration, notes, flashcards_json, completed, completed_at, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			ch.ID, cur.ID, ch.Title, ch.Description, ch.VideoURL, ch.VideoID,
			ch.Duration, ch.Notes, string(cards), completed, ch.CompletedAt, i)
		if err != nil {
			return fmt.Errorf("failed to save chapter %s: %w", ch.ID, err)
		}
	}
	return tx.Commit()
}

// Get loads one curriculum with its chapters in playlist order and
// recomputes the progress aggregates from chapter state.
func (r *CurriculumRepo) Get(id string) (*types.PlaylistCurriculum, error) {
	var cr curriculumRow
	if err := r.db.Get(&cr, `SELECT * FROM curricula WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get curriculum: %w", err)
	}
	var rows []chapterRow
	err := r.db.Select(&rows, `SELECT * FROM chapters WHERE curriculum_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get chapters: %w", err)
	}
	cur := &types.PlaylistCurriculum{
		ID:           cr.ID,
		Title:        cr.Title,
		Description:  cr.Description,
		PlaylistURL:  cr.PlaylistURL,
		Creator:      cr.Creator,
		CreatedAt:    cr.CreatedAt,
		LastAccessed: cr.LastAccessed,
		Chapters:     make([]types.Chapter, 0, len(rows)),
	}
	completed := 0
	for _, row := range rows {
		ch := chapterFromRow(row)
		if ch.Completed {
			completed++
		}
		cur.Chapters = append(cur.Chapters, ch)
	}
	cur.TotalChapters = len(cur.Chapters)
	cur.CompletedChapters = completed
	if cur.TotalChapters > 0 {
		cur.ProgressPercentage = float64(completed) / float64(cur.TotalChapters) * 100
	}
	return cur, nil
}

// List returns progress summaries for all curricula, newest first.
func (r *CurriculumRepo) List() ([]types.CurriculumSummary, error) {
	var rows []curriculumRow
	if err := r.db.Select(&rows, `SELECT * FROM curricula ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("failed to list curricula: %w", err)
	}
	out := make([]types.CurriculumSummary, 0, len(rows))
	for _, cr := range rows {
		var total, completed int
		if err := r.db.Get(&total, `SELECT COUNT(*) FROM chapters WHERE curriculum_id = ?`, cr.ID); err != nil {
			return nil, fmt.Errorf("failed to count chapters: %w", err)
		}
		err := r.db.Get(&completed,
			`SELECT COUNT(*) FROM chapters WHERE curriculum_id = ? AND completed = 1`, cr.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count completed chapters: %w", err)
		}
		sum := types.CurriculumSummary{
			ID:                cr.ID,
			Title:             cr.Title,
			Description:       cr.Description,
			Creator:           cr.Creator,
			TotalChapters:     total,
			CompletedChapters: completed,
			CreatedAt:         cr.CreatedAt,
			LastAccessed:      cr.LastAccessed,
		}
		if total > 0 {
			sum.ProgressPercentage = float64(completed) / float64(total) * 100
		}
		out = append(out, sum)
	}
	return out, nil
}

// Delete removes a curriculum and, via cascade, its chapters.
func (r *CurriculumRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM curricula WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete curriculum: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetChapterCompleted flips one chapter's completion flag.
func (r *CurriculumRepo) SetChapterCompleted(curriculumID, chapterID string, completed bool, completedAt string) error {
	flag := 0
	if !completed {
		completedAt = ""
	} else {
		flag = 1
	}
	res, err := r.db.Exec(
		`UPDATE chapters SET completed = ?, completed_at = ? WHERE curriculum_id = ? AND id = ?`,
		flag, completedAt, curriculumID, chapterID)
	if err != nil {
		return fmt.Errorf("failed to update chapter: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchLastAccessed records that a curriculum was opened.
func (r *CurriculumRepo) TouchLastAccessed(id, ts string) error {
	_, err := r.db.Exec(`UPDATE curricula SET last_accessed = ? WHERE id = ?`, ts, id)
	if err != nil {
		return fmt.Errorf("failed to touch curriculum: %w", err)
	}
	return nil
}

func chapterFromRow(row chapterRow) types.Chapter {
	var cards []types.Flashcard
	if err := json.Unmarshal([]byte(row.FlashcardsJSON), &cards); err != nil {
		cards = nil
	}
	return types.Chapter{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		VideoURL:    row.VideoURL,
		VideoID:     row.VideoID,
		Duration:    row.Duration,
		Notes:       row.Notes,
		Flashcards:  cards,
		Completed:   row.Completed != 0,
		CompletedAt: row.CompletedAt,
		Order:       row.Position,
	}
}
