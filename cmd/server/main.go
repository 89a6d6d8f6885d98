// Package main runs the conference companion HTTP server with live Q&A
// streaming and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/summit-companion/backend/config"
	"github.com/summit-companion/backend/internal/auth"
	"github.com/summit-companion/backend/internal/events"
	"github.com/summit-companion/backend/internal/feedback"
	"github.com/summit-companion/backend/internal/middleware"
	"github.com/summit-companion/backend/internal/models"
	"github.com/summit-companion/backend/internal/prayertimes"
	"github.com/summit-companion/backend/internal/qa"
	"github.com/summit-companion/backend/internal/ratelimit"
	"github.com/summit-companion/backend/internal/realtime"
	"github.com/summit-companion/backend/internal/speakers"
	"github.com/summit-companion/backend/internal/sponsors"
	"github.com/summit-companion/backend/pkg/database"
	"github.com/summit-companion/backend/pkg/redis"
	"github.com/summit-companion/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	// Rate limiting is optional; without Redis, submissions are unlimited.
	var limiter *ratelimit.Limiter
	if cfg.Redis.Addr != "" {
		rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			logger.Warn("rate limiting disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			limiter = ratelimit.New(rdb, cfg.RateLimit.SubmitPerMinute, logger)
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	hub := realtime.NewHub(logger)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Agenda
	eventRepo := events.NewRepository(pool)
	eventHandler := events.NewHandler(eventRepo, logger)

	// Q&A
	questionRepo := qa.NewRepository(pool)
	qaHandler := qa.NewHandler(questionRepo, eventRepo, hub, limiterOrNil(limiter), logger)

	// Companion pages
	speakerHandler := speakers.NewHandler(speakers.NewRepository(pool), logger)
	sponsorHandler := sponsors.NewHandler(sponsors.NewRepository(pool), logger)
	prayerHandler := prayertimes.NewHandler(prayertimes.NewRepository(pool), logger)
	feedbackHandler := feedback.NewHandler(feedback.NewRepository(pool), feedbackLimiterOrNil(limiter), logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	router.POST("/auth/login", authHandler.Login)
	router.POST("/auth/logout", authHandler.Logout)

	// Public pages
	router.GET("/agenda", eventHandler.List)
	router.GET("/agenda/:event_id", eventHandler.GetByID)
	router.GET("/speakers", speakerHandler.List)
	router.GET("/sponsors", sponsorHandler.List)
	router.GET("/prayer-times", prayerHandler.List)

	dayGate := middleware.ConferenceDay(cfg.Conference.StartsAt, cfg.Conference.EndsAt)

	// Feedback
	router.POST("/feedback", dayGate, feedbackHandler.Submit)

	guard := middleware.RequireModerator(jwtService)
	router.GET("/feedback", guard, feedbackHandler.List)

	// Admin agenda management
	admin := router.Group("/agenda")
	admin.Use(guard, middleware.RequireRole(models.RoleAdmin))
	{
		admin.POST("", eventHandler.Create)
		admin.PATCH("/:event_id", eventHandler.Update)
		admin.DELETE("/:event_id", eventHandler.Delete)
	}

	// Guest Q&A (session-identity scoped, no login)
	guest := router.Group("/qa")
	guest.Use(dayGate)
	{
		guest.GET("/events", eventHandler.List)
		guest.GET("/event/:event_id", qaHandler.EventPage)
		guest.GET("/event/:event_id/questions", qaHandler.ListQuestions)
		guest.POST("/event/:event_id/submit", qaHandler.Submit)
		guest.POST("/question/:question_id/like", qaHandler.Like)
		guest.GET("/event/:event_id/stream", realtime.Stream(hub, logger))
	}

	// Moderator Q&A
	moderator := router.Group("/qa/moderator")
	moderator.Use(dayGate, guard)
	{
		moderator.GET("/event/:event_id", qaHandler.ModeratorEvent)
		moderator.GET("/event/:event_id/questions", qaHandler.ModeratorListQuestions)
		moderator.POST("/event/:event_id/toggle-qa", eventHandler.ToggleQA)
		moderator.POST("/question/:question_id/toggle-visibility", qaHandler.ToggleVisibility)
		moderator.POST("/question/:question_id/toggle-answered", qaHandler.ToggleAnswered)
		moderator.DELETE("/question/:question_id", qaHandler.Delete)
	}

	srv := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     router,
		ReadTimeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		// WriteTimeout stays 0 unless configured; it would sever SSE streams.
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

// limiterOrNil keeps the handler's nil check honest: a typed nil pointer
// inside a non-nil interface would bypass it.
func limiterOrNil(l *ratelimit.Limiter) qa.Limiter {
	if l == nil {
		return nil
	}
	return l
}

func feedbackLimiterOrNil(l *ratelimit.Limiter) feedback.Limiter {
	if l == nil {
		return nil
	}
	return l
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
