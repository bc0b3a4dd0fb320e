package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/profai/profai-backend/internal/core/quiz"
	"github.com/profai/profai-backend/internal/logging"
	"github.com/profai/profai-backend/internal/repo/sqlite"
	"github.com/profai/profai-backend/pkg/types"
)

type QuizHandler struct {
	Generator *quiz.Generator
	Repo      *sqlite.QuizRepo
	Log       *logging.Logger
}

func NewQuizHandler(g *quiz.Generator, repo *sqlite.QuizRepo, log *logging.Logger) *QuizHandler {
	return &QuizHandler{Generator: g, Repo: repo, Log: log}
}

// Generate creates a quiz from chapter content and stores it so the later
// submission can be graded server side.
func (h *QuizHandler) Generate(c *gin.Context) {
	var req types.GenerateQuizReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	if strings.TrimSpace(req.ChapterContent) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chapter_content is required"})
		return
	}
	questions, err := h.Generator.GenerateChapterQuiz(
		c.Request.Context(), req.ChapterContent, req.ChapterTitle, req.DifficultyPreference)
	if err != nil {
		h.Log.Error("quiz generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "quiz_generation_failed"})
		return
	}
	quizID := "quiz_" + uuid.NewString()
	if err := h.Repo.SaveQuiz(quizID, req.ChapterTitle, questions); err != nil {
		h.Log.Error("failed to save quiz", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage_failed"})
		return
	}
	c.JSON(http.StatusOK, types.GenerateQuizResp{QuizID: quizID, Questions: questions})
}

// Submit grades an answer sheet. Questions can ride along in the request
// for clients that hold them locally; otherwise the stored quiz is used.
func (h *QuizHandler) Submit(c *gin.Context) {
	var req types.SubmitQuizReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	questions := req.Questions
	if len(questions) == 0 {
		var err error
		questions, err = h.Repo.GetQuiz(req.QuizID)
		if err != nil {
			if errors.Is(err, sqlite.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
				return
			}
			h.Log.Error("failed to load quiz", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage_failed"})
			return
		}
	}
	result := quiz.Evaluate(questions, req.UserAnswers)
	if req.QuizID != "" {
		if err := h.Repo.SaveAttempt(req.QuizID, &result); err != nil {
			h.Log.Warn("failed to save quiz attempt", "quiz_id", req.QuizID, "error", err)
		}
	}
	c.JSON(http.StatusOK, result)
}
