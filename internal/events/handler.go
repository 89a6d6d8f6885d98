package events

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/summit-companion/backend/internal/models"
	"github.com/summit-companion/backend/pkg/response"
)

// Store is the event persistence surface the handler needs.
type Store interface {
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
	Create(ctx context.Context, e *models.Event, speakerIDs []int64) error
	Update(ctx context.Context, e *models.Event, speakerIDs []int64) error
	Delete(ctx context.Context, id int64) error
	ToggleQAActive(ctx context.Context, id int64) (*models.Event, error)
}

// Handler handles agenda and event-level moderation endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates an events handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// UpsertRequest is the body for POST /agenda and PATCH /agenda/:event_id.
type UpsertRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	SpeakerIDs  []int64   `json:"speaker_ids"`
}

// EventID parses the :event_id path parameter.
func EventID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("event_id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return 0, false
	}
	return id, true
}

// List handles GET /agenda.
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list events", zap.Error(err))
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, gin.H{"events": list})
}

// GetByID handles GET /agenda/:event_id.
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := EventID(c)
	if !ok {
		return
	}
	event, err := h.store.GetByID(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "event not found")
		return
	}
	if err != nil {
		h.logger.Error("get event", zap.Error(err))
		response.Internal(c, "failed to load event")
		return
	}
	response.OK(c, gin.H{"event": event})
}

// Create handles POST /agenda (admin only).
func (h *Handler) Create(c *gin.Context) {
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	e := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		Category:    req.Category,
	}
	if err := h.store.Create(c.Request.Context(), e, req.SpeakerIDs); err != nil {
		h.logger.Error("create event", zap.Error(err))
		response.Internal(c, "failed to create event")
		return
	}
	response.Created(c, gin.H{"event": e})
}

// Update handles PATCH /agenda/:event_id (admin only).
func (h *Handler) Update(c *gin.Context) {
	id, ok := EventID(c)
	if !ok {
		return
	}
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	e := &models.Event{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		Category:    req.Category,
	}
	err := h.store.Update(c.Request.Context(), e, req.SpeakerIDs)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "event not found")
		return
	}
	if err != nil {
		h.logger.Error("update event", zap.Error(err))
		response.Internal(c, "failed to update event")
		return
	}
	response.OK(c, gin.H{"event": e})
}

// Delete handles DELETE /agenda/:event_id (admin only).
func (h *Handler) Delete(c *gin.Context) {
	id, ok := EventID(c)
	if !ok {
		return
	}
	err := h.store.Delete(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "event not found")
		return
	}
	if err != nil {
		h.logger.Error("delete event", zap.Error(err))
		response.Internal(c, "failed to delete event")
		return
	}
	response.NoContent(c)
}

// ToggleQA handles POST /qa/moderator/event/:event_id/toggle-qa. Flipping
// the gate does not broadcast; guests observe it on their next submit or
// page load.
func (h *Handler) ToggleQA(c *gin.Context) {
	id, ok := EventID(c)
	if !ok {
		return
	}
	event, err := h.store.ToggleQAActive(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "event not found")
		return
	}
	if err != nil {
		h.logger.Error("toggle qa", zap.Error(err))
		response.Internal(c, "failed to toggle Q&A")
		return
	}
	response.OK(c, gin.H{"id": event.ID, "is_qa_active": event.IsQAActive})
}
