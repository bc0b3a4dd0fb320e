package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/profai/profai-backend/internal/core/flashcards"
	"github.com/profai/profai-backend/internal/core/youtube"
	"github.com/profai/profai-backend/internal/logging"
	"github.com/profai/profai-backend/internal/repo/sqlite"
	"github.com/profai/profai-backend/pkg/types"
)

type FlashcardsHandler struct {
	Processor *youtube.Processor
	Repo      *sqlite.FlashcardRepo
	Log       *logging.Logger
}

func NewFlashcardsHandler(p *youtube.Processor, repo *sqlite.FlashcardRepo, log *logging.Logger) *FlashcardsHandler {
	return &FlashcardsHandler{Processor: p, Repo: repo, Log: log}
}

// ProcessVideo ingests a YouTube video into a stored flashcard set.
func (h *FlashcardsHandler) ProcessVideo(c *gin.Context) {
	var req types.YouTubeProcessReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	set, err := h.Processor.Process(c.Request.Context(), req.URL, req.Language)
	if err != nil {
		switch {
		case errors.Is(err, youtube.ErrNotEducational), errors.Is(err, youtube.ErrNoTranscript):
			c.JSON(http.StatusUnprocessableEntity, types.YouTubeProcessResp{Error: err.Error()})
		default:
			h.Log.Error("video processing failed", "url", req.URL, "error", err)
			c.JSON(http.StatusInternalServerError, types.YouTubeProcessResp{Error: err.Error()})
		}
		return
	}
	if err := h.Repo.SaveSet(&set); err != nil {
		h.Log.Error("failed to save flashcard set", "set_id", set.ID, "error", err)
		c.JSON(http.StatusInternalServerError, types.YouTubeProcessResp{Error: "failed to save flashcard set"})
		return
	}
	c.JSON(http.StatusOK, types.YouTubeProcessResp{Success: true, FlashcardSet: &set})
}

// ListSets returns summaries of all stored sets.
func (h *FlashcardsHandler) ListSets(c *gin.Context) {
	sets, err := h.Repo.ListSets()
	if err != nil {
		h.Log.Error("failed to list sets", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sets": sets})
}

// GetSet returns one set with all of its cards.
func (h *FlashcardsHandler) GetSet(c *gin.Context) {
	set, err := h.Repo.GetSet(c.Param("id"))
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		h.Log.Error("failed to get set", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage_failed"})
		return
	}
	c.JSON(http.StatusOK, set)
}

// DeleteSet removes a set and its cards.
func (h *FlashcardsHandler) DeleteSet(c *gin.Context) {
	if err := h.Repo.DeleteSet(c.Param("id")); err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		h.Log.Error("failed to delete set", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateCardStatus moves a card through the new/learning/learned ladder.
func (h *FlashcardsHandler) UpdateCardStatus(c *gin.Context) {
	var req types.UpdateCardStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	if !flashcards.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}
	set, err := h.Repo.GetSet(c.Param("id"))
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		h.Log.Error("failed to get set", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage_failed"})
		return
	}
	card, err := flashcards.UpdateCardStatus(set, c.Param("cardId"), req.Status)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	if err := h.Repo.SaveSet(set); err != nil {
		h.Log.Error("failed to save set", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "card": card})
}

// DueCards returns the cards most in need of review, per the spaced
// repetition schedule.
func (h *FlashcardsHandler) DueCards(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	set, err := h.Repo.GetSet(c.Param("id"))
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		h.Log.Error("failed to get set", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage_failed"})
		return
	}
	due := flashcards.Due(*set, time.Now(), limit)
	c.JSON(http.StatusOK, gin.H{"set_id": set.ID, "due": due})
}
