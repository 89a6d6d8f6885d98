// Package main seeds a moderator or admin account.
//
// Usage:
//
//	createmoderator -email mod@example.com -password secret [-role admin]
package main

import (
	"context"
	"flag"
	"os"

	"go.uber.org/zap"

	"github.com/summit-companion/backend/config"
	"github.com/summit-companion/backend/internal/auth"
	"github.com/summit-companion/backend/internal/models"
	"github.com/summit-companion/backend/pkg/database"
	"github.com/summit-companion/backend/pkg/utils"
)

func main() {
	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "account password")
	role := flag.String("role", string(models.RoleModerator), "account role: moderator or admin")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}
	var accountRole models.Role
	switch *role {
	case string(models.RoleModerator):
		accountRole = models.RoleModerator
	case string(models.RoleAdmin):
		accountRole = models.RoleAdmin
	default:
		logger.Fatal("invalid role", zap.String("role", *role))
	}

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

	hash, err := utils.HashPassword(*password)
	if err != nil {
		logger.Fatal("hash password", zap.Error(err))
	}

	user, err := auth.NewRepository(pool).Upsert(ctx, *email, hash, accountRole)
	if err != nil {
		logger.Fatal("upsert user", zap.Error(err))
	}
	logger.Info("account ready",
		zap.String("id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)),
	)
}
