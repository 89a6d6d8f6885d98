package feedback

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/summit-companion/backend/internal/identity"
	"github.com/summit-companion/backend/internal/models"
	"github.com/summit-companion/backend/pkg/response"
)

// Store is the feedback persistence surface the handler needs.
type Store interface {
	Create(ctx context.Context, f *models.FeedbackSubmission) error
	List(ctx context.Context) ([]models.FeedbackSubmission, error)
}

// Limiter bounds guest submissions. A nil Limiter means no limit.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// Handler handles the feedback survey endpoints.
type Handler struct {
	store   Store
	limiter Limiter
	logger  *zap.Logger
}

// NewHandler creates a feedback handler. limiter may be nil.
func NewHandler(store Store, limiter Limiter, logger *zap.Logger) *Handler {
	return &Handler{store: store, limiter: limiter, logger: logger}
}

// Submit handles POST /feedback. The survey answers are stored as one raw
// JSON document; the survey shape lives entirely in the page layer.
func (h *Handler) Submit(c *gin.Context) {
	sessionID := identity.GetOrCreate(c)

	var payload json.RawMessage
	if err := c.ShouldBindJSON(&payload); err != nil || len(payload) == 0 {
		response.BadRequest(c, "invalid feedback payload")
		return
	}

	if h.limiter != nil && !h.limiter.Allow(c.Request.Context(), "feedback:submit:"+sessionID) {
		response.TooManyRequests(c, "feedback already submitted recently")
		return
	}

	f := &models.FeedbackSubmission{
		SubmissionData: payload,
		IPAddress:      c.ClientIP(),
		UserAgent:      c.Request.UserAgent(),
	}
	if err := h.store.Create(c.Request.Context(), f); err != nil {
		h.logger.Error("create feedback", zap.Error(err))
		response.Internal(c, "failed to submit feedback")
		return
	}
	response.Created(c, gin.H{"id": f.ID, "submitted_at": f.SubmittedAt})
}

// List handles GET /feedback (moderator only).
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list feedback", zap.Error(err))
		response.Internal(c, "failed to list feedback")
		return
	}
	response.OK(c, gin.H{"submissions": list, "total": len(list)})
}
