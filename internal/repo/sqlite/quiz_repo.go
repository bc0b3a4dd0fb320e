package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/profai/profai-backend/pkg/types"
)

// QuizRepo persists generated quizzes and submitted attempts.
type QuizRepo struct {
	db *sqlx.DB
}

func NewQuizRepo(s *Store) *QuizRepo { return &QuizRepo{db: s.DB} }

// SaveQuiz stores a generated quiz so a later submission can be graded
// against the exact questions the client saw.
func (r *QuizRepo) SaveQuiz(id, chapterTitle string, questions []types.QuizQuestion) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("failed to encode questions: %w", err)
	}
	_, err = r.db.Exec(`INSERT OR REPLACE INTO quizzes
		(id, chapter_title, questions_json, created_at) VALUES (?, ?, ?, ?)`,
		id, chapterTitle, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save quiz: %w", err)
	}
	return nil
}

// GetQuiz returns the stored questions for a quiz id.
func (r *QuizRepo) GetQuiz(id string) ([]types.QuizQuestion, error) {
	var data string
	if err := r.db.Get(&data, `SELECT questions_json FROM quizzes WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	var questions []types.QuizQuestion
	if err := json.Unmarshal([]byte(data), &questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	return questions, nil
}

// SaveAttempt records a graded submission.
func (r *QuizRepo) SaveAttempt(quizID string, result *types.SubmitQuizResp) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = r.db.Exec(`INSERT INTO quiz_attempts
		(quiz_id, percentage, correct, total, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		quizID, result.Percentage, result.CorrectAnswers, result.TotalQuestions,
		string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save attempt: %w", err)
	}
	return nil
}
