package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/profai/profai-backend/internal/core/curriculum"
)

type CurriculumHandler struct {
	Catalog *curriculum.Catalog
}

func NewCurriculumHandler(cat *curriculum.Catalog) *CurriculumHandler {
	return &CurriculumHandler{Catalog: cat}
}

// Get returns the lesson catalog filtered by learning path and subject.
func (h *CurriculumHandler) Get(c *gin.Context) {
	path := c.DefaultQuery("learning_path", "hybrid")
	subject := c.Query("subject")
	c.JSON(http.StatusOK, h.Catalog.Get(path, subject))
}
