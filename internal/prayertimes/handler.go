package prayertimes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/summit-companion/backend/pkg/response"
)

// Handler handles prayer time HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a prayer times handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /prayer-times.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list prayer times", zap.Error(err))
		response.Internal(c, "failed to list prayer times")
		return
	}
	response.OK(c, gin.H{"prayer_times": list})
}
