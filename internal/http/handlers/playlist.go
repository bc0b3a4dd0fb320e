package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/profai/profai-backend/internal/core/playlist"
	"github.com/profai/profai-backend/internal/logging"
	"github.com/profai/profai-backend/internal/repo/sqlite"
	"github.com/profai/profai-backend/pkg/types"
)

type PlaylistHandler struct {
	Processor *playlist.Processor
	Repo      playlist.CurriculumStore
	Log       *logging.Logger
}

func NewPlaylistHandler(p *playlist.Processor, repo playlist.CurriculumStore, log *logging.Logger) *PlaylistHandler {
	return &PlaylistHandler{Processor: p, Repo: repo, Log: log}
}

// Process builds a curriculum from a playlist URL.
func (h *PlaylistHandler) Process(c *gin.Context) {
	var req types.PlaylistProcessReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	cur, err := h.Processor.Process(c.Request.Context(), req.PlaylistURL, "en")
	if err != nil {
		if errors.Is(err, playlist.ErrInvalidPlaylistURL) {
			c.JSON(http.StatusBadRequest, types.PlaylistProcessResp{Error: err.Error()})
			return
		}
		h.Log.Error("playlist processing failed", "url", req.PlaylistURL, "error", err)
		c.JSON(http.StatusInternalServerError, types.PlaylistProcessResp{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, types.PlaylistProcessResp{
		Success:      true,
		CurriculumID: cur.ID,
		Title:        cur.Title,
		Chapters:     cur.TotalChapters,
	})
}

// ListCurricula returns progress summaries for all stored curricula.
func (h *PlaylistHandler) ListCurricula(c *gin.Context) {
	curricula, err := h.Repo.List()
	if err != nil {
		h.Log.Error("failed to list curricula", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"curricula": curricula})
}

// GetCurriculum returns one curriculum with all chapters.
func (h *PlaylistHandler) GetCurriculum(c *gin.Context) {
	cur, err := h.Repo.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		h.Log.Error("failed to get curriculum", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage_failed"})
		return
	}
	c.JSON(http.StatusOK, cur)
}

// DeleteCurriculum removes a curriculum and its chapters.
func (h *PlaylistHandler) DeleteCurriculum(c *gin.Context) {
	if err := h.Repo.Delete(c.Param("id")); err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		h.Log.Error("failed to delete curriculum", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ChapterProgress marks a chapter complete or not and returns the
// refreshed curriculum with recomputed progress.
func (h *PlaylistHandler) ChapterProgress(c *gin.Context) {
	var req types.ChapterProgressReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	curriculumID := c.Param("id")
	err := h.Processor.UpdateChapterProgress(curriculumID, c.Param("chapterId"), req.Completed)
	if err != nil {
		if errors.Is(err, sqlite.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		h.Log.Error("failed to update chapter progress", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage_failed"})
		return
	}
	cur, err := h.Repo.Get(curriculumID)
	if err != nil {
		h.Log.Error("failed to reload curriculum", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage_failed"})
		return
	}
	c.JSON(http.StatusOK, cur)
}
