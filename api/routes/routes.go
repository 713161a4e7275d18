package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/wijk-raffle/kupon-backend/internal/config"
	"github.com/wijk-raffle/kupon-backend/internal/handlers"
	"github.com/wijk-raffle/kupon-backend/internal/middleware"
)

// HandlerDependencies holds the handlers the router mounts
type HandlerDependencies struct {
	AuthHandler       *handlers.AuthHandler
	CouponHandler     *handlers.CouponHandler
	DrawHandler       *handlers.DrawHandler
	StatisticsHandler *handlers.StatisticsHandler
	TokenValidator    middleware.TokenValidator
	Logger            logrus.FieldLogger
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(middleware.LoggerMiddleware(deps.Logger))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", deps.StatisticsHandler.Health)

		public.POST("/auth/login",
			middleware.RateLimitMiddleware(cfg.RateLimit.LoginPerMinute, cfg.RateLimit.LoginBurst),
			deps.AuthHandler.Login,
		)
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(deps.TokenValidator, deps.Logger))
	{
		auth := protected.Group("/auth")
		{
			auth.POST("/logout", deps.AuthHandler.Logout)
			auth.GET("/me", deps.AuthHandler.Me)
		}

		coupons := protected.Group("/coupons")
		{
			coupons.GET("", deps.CouponHandler.ListCoupons)
			coupons.POST("", deps.CouponHandler.CreateCoupon)
			coupons.POST("/parse", deps.CouponHandler.ParseNumbers)
			coupons.POST("/check", deps.CouponHandler.CheckNumbers)
			coupons.POST("/calculate", deps.CouponHandler.Calculate)
			coupons.GET("/numbers", deps.CouponHandler.NumberBoard)
			coupons.GET("/export", deps.CouponHandler.ExportCoupons)
			coupons.GET("/:id", deps.CouponHandler.GetCoupon)
			coupons.PUT("/:id", deps.CouponHandler.UpdateCoupon)
			coupons.DELETE("/:id", deps.CouponHandler.DeleteCoupon)
		}

		draws := protected.Group("/draws")
		{
			draws.GET("/eligible-count", deps.DrawHandler.EligibleCount)
			draws.POST("", deps.DrawHandler.Draw)
			draws.GET("/current", deps.DrawHandler.Current)
			draws.DELETE("/current", deps.DrawHandler.Discard)
			draws.POST("/current/save", deps.DrawHandler.SaveWinner)
		}

		winners := protected.Group("/winners")
		{
			winners.GET("", deps.DrawHandler.ListWinners)
			winners.GET("/export", deps.DrawHandler.ExportWinners)
			winners.DELETE("/:id", deps.DrawHandler.DeleteWinner)
		}

		protected.GET("/statistics", deps.StatisticsHandler.GetStatistics)
	}

	return router
}
