package speakers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/summit-companion/backend/pkg/response"
)

// Handler handles speaker HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a speakers handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /speakers.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list speakers", zap.Error(err))
		response.Internal(c, "failed to list speakers")
		return
	}
	response.OK(c, gin.H{"speakers": list})
}
