package sponsors

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/summit-companion/backend/pkg/response"
)

// Handler handles sponsor HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a sponsors handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /sponsors.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list sponsors", zap.Error(err))
		response.Internal(c, "failed to list sponsors")
		return
	}
	response.OK(c, gin.H{"sponsors": list})
}
