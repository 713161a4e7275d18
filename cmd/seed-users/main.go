package main

import (
	"context"
	"log"
	"strings"

	"github.com/wijk-raffle/kupon-backend/internal/config"
	"github.com/wijk-raffle/kupon-backend/internal/models"
	"github.com/wijk-raffle/kupon-backend/internal/services"
	"github.com/wijk-raffle/kupon-backend/internal/store"
	"github.com/wijk-raffle/kupon-backend/pkg/logger"
)

// Creates committee accounts from SEED_USERS, a comma separated list of
// username:password pairs.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logr, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	pairs := config.GetEnvAsSlice("SEED_USERS", ",", nil)
	if len(pairs) == 0 {
		logr.Fatal("SEED_USERS is empty, expected user:password[,user:password]")
	}

	ctx := context.Background()
	stores, err := store.Open(ctx, cfg, logr)
	if err != nil {
		logr.WithError(err).Fatal("Failed to open storage")
	}
	defer stores.Close(ctx)

	authService := services.NewAuthService(stores.Users, stores.Sessions, cfg.JWT.Secret, cfg.JWT.SessionTTL, nil, logr)

	for _, pair := range pairs {
		username, password, ok := strings.Cut(pair, ":")
		if !ok || username == "" || password == "" {
			logr.WithField("entry", pair).Warn("Skipping malformed entry")
			continue
		}
		user, err := authService.CreateUser(ctx, username, password, models.RoleCommittee)
		if err != nil {
			logr.WithError(err).WithField("username", username).Error("Failed to create user")
			continue
		}
		logr.WithField("username", user.Username).Info("User created")
	}
}
