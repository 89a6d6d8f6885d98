package auth

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/summit-companion/backend/internal/models"
	"github.com/summit-companion/backend/pkg/response"
	"github.com/summit-companion/backend/pkg/utils"
)

// SessionCookie carries the moderator session token. HttpOnly because the
// app is server-rendered; browsers send it on every request.
const SessionCookie = "moderator_session"

// UserStore is the account lookup surface the handler needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Handler handles moderator login and logout.
type Handler struct {
	store  UserStore
	jwt    *JWTService
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(store UserStore, jwt *JWTService, logger *zap.Logger) *Handler {
	return &Handler{store: store, jwt: jwt, logger: logger}
}

// Login handles POST /auth/login: verifies the password and sets the
// session cookie. Failures are deliberately indistinct.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.store.GetByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, ErrUserNotFound) {
		response.Unauthorized(c, "invalid email or password")
		return
	}
	if err != nil {
		h.logger.Error("get user", zap.Error(err))
		response.Internal(c, "login failed")
		return
	}
	if !user.IsActive || !utils.CheckPassword(req.Password, user.PasswordHash) {
		response.Unauthorized(c, "invalid email or password")
		return
	}

	token, err := h.jwt.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		h.logger.Error("generate token", zap.Error(err))
		response.Internal(c, "login failed")
		return
	}
	if err := h.store.TouchLastLogin(c.Request.Context(), user.ID); err != nil {
		h.logger.Warn("touch last login", zap.Error(err))
	}

	c.SetCookie(SessionCookie, token, int(h.jwt.ExpiresIn().Seconds()), "/", "", false, true)
	response.OK(c, gin.H{"user": user.ToPublic()})
}

// Logout handles POST /auth/logout: clears the session cookie.
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	response.OK(c, gin.H{"logged_out": true})
}
