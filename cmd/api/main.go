package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/wijk-raffle/kupon-backend/api/routes"
	"github.com/wijk-raffle/kupon-backend/internal/config"
	"github.com/wijk-raffle/kupon-backend/internal/handlers"
	"github.com/wijk-raffle/kupon-backend/internal/services"
	"github.com/wijk-raffle/kupon-backend/internal/store"
	"github.com/wijk-raffle/kupon-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logr, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	gin.SetMode(cfg.Server.GinMode)

	ctx := context.Background()

	stores, err := store.Open(ctx, cfg, logr)
	if err != nil {
		logr.WithError(err).Fatal("Failed to open storage")
	}
	defer func() {
		if err := stores.Close(context.Background()); err != nil {
			logr.WithError(err).Error("Error closing storage")
		}
	}()

	// Initialize Services
	couponService := services.NewCouponService(stores.Coupons, cfg.Raffle.UnitPrice, logr)
	drawService := services.NewDrawService(stores.Coupons, stores.Winners, logr)
	winnerService := services.NewWinnerService(stores.Winners, logr)
	statisticsService := services.NewStatisticsService(stores.Coupons, logr)
	authService := services.NewAuthService(stores.Users, stores.Sessions, cfg.JWT.Secret, cfg.JWT.SessionTTL, nil, logr)

	// Initialize Handlers
	handlerDeps := routes.HandlerDependencies{
		AuthHandler:       handlers.NewAuthHandler(authService),
		CouponHandler:     handlers.NewCouponHandler(couponService),
		DrawHandler:       handlers.NewDrawHandler(drawService, winnerService),
		StatisticsHandler: handlers.NewStatisticsHandler(statisticsService, stores.Pingers),
		TokenValidator:    authService,
		Logger:            logr,
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Run server in a goroutine so that it doesn't block
	go func() {
		logr.WithField("port", cfg.Server.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.WithError(err).Fatal("Server failed")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logr.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.WithError(err).Error("Server forced to shutdown")
	}

	logr.Info("Server exiting")
}
