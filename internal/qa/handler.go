package qa

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/summit-companion/backend/internal/events"
	"github.com/summit-companion/backend/internal/identity"
	"github.com/summit-companion/backend/internal/models"
	"github.com/summit-companion/backend/internal/realtime"
	"github.com/summit-companion/backend/pkg/response"
)

// Store is the question persistence surface the handler needs.
type Store interface {
	Create(ctx context.Context, q *models.Question) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Question, error)
	ListByEvent(ctx context.Context, eventID int64, visibleOnly bool, sort string) ([]models.Question, error)
	ToggleVisibility(ctx context.Context, id uuid.UUID) (*models.Question, error)
	ToggleAnswered(ctx context.Context, id uuid.UUID) (*models.Question, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ToggleLike(ctx context.Context, questionID uuid.UUID, sessionID string) (liked bool, likes int, err error)
	LikedQuestionIDs(ctx context.Context, eventID int64, sessionID string) ([]uuid.UUID, error)
}

// EventStore looks up events for the activation gate and 404 checks.
type EventStore interface {
	GetByID(ctx context.Context, id int64) (*models.Event, error)
}

// Limiter bounds guest submissions. A nil Limiter means no limit.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// Handler handles guest and moderator Q&A endpoints. Every mutating action
// follows validate -> persist -> broadcast -> respond; a broadcast only
// happens after the store call succeeded.
type Handler struct {
	store   Store
	events  EventStore
	hub     *realtime.Hub
	limiter Limiter
	logger  *zap.Logger
}

// NewHandler creates a Q&A handler. limiter may be nil.
func NewHandler(store Store, eventStore EventStore, hub *realtime.Hub, limiter Limiter, logger *zap.Logger) *Handler {
	return &Handler{store: store, events: eventStore, hub: hub, limiter: limiter, logger: logger}
}

// SubmitRequest is the body for POST /qa/event/:event_id/submit.
type SubmitRequest struct {
	Nickname     string `json:"nickname"`
	QuestionText string `json:"question_text"`
}

func questionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.BadRequest(c, "invalid question id")
		return uuid.Nil, false
	}
	return id, true
}

func sortParam(c *gin.Context, fallback string) string {
	sort := c.DefaultQuery("sort", fallback)
	if sort != SortPopular {
		sort = SortRecent
	}
	return sort
}

// EventPage handles GET /qa/event/:event_id — the guest page payload:
// event, visible questions, the session's liked ids, and stored nickname.
func (h *Handler) EventPage(c *gin.Context) {
	eventID, ok := events.EventID(c)
	if !ok {
		return
	}
	sessionID := identity.GetOrCreate(c)

	event, err := h.events.GetByID(c.Request.Context(), eventID)
	if errors.Is(err, events.ErrNotFound) {
		response.NotFound(c, "event not found")
		return
	}
	if err != nil {
		h.logger.Error("get event", zap.Error(err))
		response.Internal(c, "failed to load event")
		return
	}

	questions, err := h.store.ListByEvent(c.Request.Context(), eventID, true, SortPopular)
	if err != nil {
		h.logger.Error("list questions", zap.Error(err))
		response.Internal(c, "failed to list questions")
		return
	}
	liked, err := h.store.LikedQuestionIDs(c.Request.Context(), eventID, sessionID)
	if err != nil {
		h.logger.Error("list likes", zap.Error(err))
		response.Internal(c, "failed to list questions")
		return
	}

	response.OK(c, gin.H{
		"event":              event,
		"questions":          questions,
		"liked_question_ids": liked,
		"nickname":           identity.Nickname(c),
	})
}

// ListQuestions handles GET /qa/event/:event_id/questions — the visible
// questions fragment, sortable by recency or popularity.
func (h *Handler) ListQuestions(c *gin.Context) {
	eventID, ok := events.EventID(c)
	if !ok {
		return
	}
	sessionID := identity.GetOrCreate(c)
	sort := sortParam(c, SortRecent)

	questions, err := h.store.ListByEvent(c.Request.Context(), eventID, true, sort)
	if err != nil {
		h.logger.Error("list questions", zap.Error(err))
		response.Internal(c, "failed to list questions")
		return
	}
	liked, err := h.store.LikedQuestionIDs(c.Request.Context(), eventID, sessionID)
	if err != nil {
		h.logger.Error("list likes", zap.Error(err))
		response.Internal(c, "failed to list questions")
		return
	}
	response.OK(c, gin.H{"questions": questions, "liked_question_ids": liked, "sort": sort})
}

// Submit handles POST /qa/event/:event_id/submit. Rejected while the
// event's Q&A gate is closed or when the text is empty after trimming.
func (h *Handler) Submit(c *gin.Context) {
	eventID, ok := events.EventID(c)
	if !ok {
		return
	}
	sessionID := identity.GetOrCreate(c)

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	if h.limiter != nil && !h.limiter.Allow(c.Request.Context(), "qa:submit:"+sessionID) {
		response.TooManyRequests(c, "too many questions, slow down")
		return
	}

	event, err := h.events.GetByID(c.Request.Context(), eventID)
	if errors.Is(err, events.ErrNotFound) {
		response.NotFound(c, "event not found")
		return
	}
	if err != nil {
		h.logger.Error("get event", zap.Error(err))
		response.Internal(c, "failed to load event")
		return
	}
	if !event.IsQAActive {
		response.BadRequest(c, "Q&A is currently closed for this session")
		return
	}

	text := strings.TrimSpace(req.QuestionText)
	if text == "" {
		response.BadRequest(c, "question cannot be empty")
		return
	}
	nickname := strings.TrimSpace(req.Nickname)
	if nickname == "" {
		nickname = identity.DefaultNickname
	}

	q := &models.Question{
		EventID:      eventID,
		Nickname:     nickname,
		QuestionText: text,
		IPAddress:    c.ClientIP(),
	}
	if err := h.store.Create(c.Request.Context(), q); err != nil {
		h.logger.Error("create question", zap.Error(err))
		response.Internal(c, "failed to create question")
		return
	}

	h.hub.QuestionUpdate(eventID, realtime.ActionCreated, q)

	identity.RememberNickname(c, nickname)
	identity.Renew(c, sessionID)
	response.Created(c, gin.H{"question": q})
}

// Like handles POST /qa/question/:question_id/like — the one action a
// non-moderator may perform beyond submission. Toggles per session identity.
func (h *Handler) Like(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}
	sessionID := identity.GetOrCreate(c)

	q, err := h.store.GetByID(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "question not found")
		return
	}
	if err != nil {
		h.logger.Error("get question", zap.Error(err))
		response.Internal(c, "failed to load question")
		return
	}

	liked, likes, err := h.store.ToggleLike(c.Request.Context(), id, sessionID)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "question not found")
		return
	}
	if err != nil {
		h.logger.Error("toggle like", zap.Error(err))
		response.Internal(c, "failed to toggle like")
		return
	}

	h.hub.QuestionUpdate(q.EventID, realtime.ActionLikeUpdated, gin.H{
		"id":          q.ID,
		"likes_count": likes,
	})

	identity.Renew(c, sessionID)
	response.OK(c, gin.H{"id": q.ID, "liked": liked, "likes_count": likes})
}

// ModeratorEvent handles GET /qa/moderator/event/:event_id — every question
// including hidden ones, plus moderation stats.
func (h *Handler) ModeratorEvent(c *gin.Context) {
	eventID, ok := events.EventID(c)
	if !ok {
		return
	}
	event, err := h.events.GetByID(c.Request.Context(), eventID)
	if errors.Is(err, events.ErrNotFound) {
		response.NotFound(c, "event not found")
		return
	}
	if err != nil {
		h.logger.Error("get event", zap.Error(err))
		response.Internal(c, "failed to load event")
		return
	}

	questions, err := h.store.ListByEvent(c.Request.Context(), eventID, false, sortParam(c, SortPopular))
	if err != nil {
		h.logger.Error("list questions", zap.Error(err))
		response.Internal(c, "failed to list questions")
		return
	}

	visible, answered := 0, 0
	for _, q := range questions {
		if q.IsVisible {
			visible++
		}
		if q.IsAnswered {
			answered++
		}
	}
	response.OK(c, gin.H{
		"event":     event,
		"questions": questions,
		"stats": gin.H{
			"total":       len(questions),
			"visible":     visible,
			"answered":    answered,
			"subscribers": h.hub.SubscriberCount(eventID),
		},
	})
}

// ModeratorListQuestions handles GET /qa/moderator/event/:event_id/questions.
func (h *Handler) ModeratorListQuestions(c *gin.Context) {
	eventID, ok := events.EventID(c)
	if !ok {
		return
	}
	sort := sortParam(c, SortRecent)
	questions, err := h.store.ListByEvent(c.Request.Context(), eventID, false, sort)
	if err != nil {
		h.logger.Error("list questions", zap.Error(err))
		response.Internal(c, "failed to list questions")
		return
	}
	response.OK(c, gin.H{"questions": questions, "sort": sort})
}

// ToggleVisibility handles POST /qa/moderator/question/:question_id/toggle-visibility.
func (h *Handler) ToggleVisibility(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}
	q, err := h.store.ToggleVisibility(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "question not found")
		return
	}
	if err != nil {
		h.logger.Error("toggle visibility", zap.Error(err))
		response.Internal(c, "failed to toggle visibility")
		return
	}

	h.hub.QuestionUpdate(q.EventID, realtime.ActionUpdated, gin.H{
		"id":         q.ID,
		"is_visible": q.IsVisible,
	})
	response.OK(c, gin.H{"question": q})
}

// ToggleAnswered handles POST /qa/moderator/question/:question_id/toggle-answered.
func (h *Handler) ToggleAnswered(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}
	q, err := h.store.ToggleAnswered(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "question not found")
		return
	}
	if err != nil {
		h.logger.Error("toggle answered", zap.Error(err))
		response.Internal(c, "failed to toggle answered")
		return
	}

	h.hub.QuestionUpdate(q.EventID, realtime.ActionUpdated, gin.H{
		"id":          q.ID,
		"is_answered": q.IsAnswered,
	})
	response.OK(c, gin.H{"question": q})
}

// Delete handles DELETE /qa/moderator/question/:question_id. Broadcasts only
// the id so subscribers can drop the card without a full refetch.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}
	q, err := h.store.GetByID(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "question not found")
		return
	}
	if err != nil {
		h.logger.Error("get question", zap.Error(err))
		response.Internal(c, "failed to load question")
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "question not found")
			return
		}
		h.logger.Error("delete question", zap.Error(err))
		response.Internal(c, "failed to delete question")
		return
	}

	h.hub.QuestionUpdate(q.EventID, realtime.ActionDeleted, gin.H{"id": q.ID})
	response.NoContent(c)
}
