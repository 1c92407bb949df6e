package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/marketplace-backend/internal/config"
	"github.com/ignatzorin/marketplace-backend/internal/http/handlers"
	"github.com/ignatzorin/marketplace-backend/internal/http/middleware"
	"github.com/ignatzorin/marketplace-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	walletHandler *handlers.WalletHandler,
	listingHandler *handlers.ListingHandler,
	bookingHandler *handlers.BookingHandler,
	escrowHandler *handlers.EscrowHandler,
	disputeHandler *handlers.DisputeHandler,
	reviewHandler *handlers.ReviewHandler,
	messageHandler *handlers.MessageHandler,
	notificationHandler *handlers.NotificationHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	seedHandler *handlers.SeedHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS("/evidence", http.Dir(cfg.EvidenceStoragePath))

	api := r.Group("/api")

	if seedHandler != nil && cfg.Env == "development" {
		api.POST("/seed", seedHandler.Seed)
	}

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	// Публичные маршруты
	api.GET("/ws", wsHandler.Handle)
	api.GET("/listings", listingHandler.ListListings)
	api.GET("/listings/:id", middleware.UUIDValidator("id"), listingHandler.GetListing)
	api.GET("/sellers/:id/reviews", middleware.UUIDValidator("id"), reviewHandler.ListSellerReviews)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/auth/me", authHandler.Me)

		protected.GET("/wallet", walletHandler.GetBalance)
		protected.POST("/wallet/deposit", walletHandler.Deposit)
		protected.GET("/wallet/transactions", walletHandler.ListTransactions)

		protected.POST("/listings", listingHandler.CreateListing)
		protected.PUT("/listings/:id", middleware.UUIDValidator("id"), listingHandler.UpdateListing)
		protected.DELETE("/listings/:id", middleware.UUIDValidator("id"), listingHandler.DeleteListing)

		protected.POST("/bookings", bookingHandler.CreateBooking)
		protected.GET("/bookings", bookingHandler.ListMyBookings)
		protected.GET("/bookings/:id", middleware.UUIDValidator("id"), bookingHandler.GetBooking)
		protected.POST("/bookings/:id/complete", middleware.UUIDValidator("id"), bookingHandler.MarkComplete)
		protected.POST("/bookings/:id/approve", middleware.UUIDValidator("id"), bookingHandler.Approve)
		protected.POST("/bookings/:id/cancel", middleware.UUIDValidator("id"), bookingHandler.Cancel)

		protected.POST("/bookings/:id/escrow", middleware.UUIDValidator("id"), escrowHandler.FundEscrow)
		protected.GET("/bookings/:id/escrow", middleware.UUIDValidator("id"), escrowHandler.GetEscrow)

		protected.POST("/bookings/:id/disputes", middleware.UUIDValidator("id"), disputeHandler.OpenDispute)
		protected.POST("/disputes/evidence", disputeHandler.UploadEvidence)
		protected.GET("/disputes", disputeHandler.ListMyDisputes)
		protected.GET("/disputes/:id", middleware.UUIDValidator("id"), disputeHandler.GetDispute)

		protected.POST("/bookings/:id/reviews", middleware.UUIDValidator("id"), reviewHandler.CreateReview)
		protected.GET("/bookings/:id/reviews", middleware.UUIDValidator("id"), reviewHandler.GetBookingReview)

		protected.POST("/bookings/:id/messages", middleware.UUIDValidator("id"), messageHandler.SendMessage)
		protected.GET("/bookings/:id/messages", middleware.UUIDValidator("id"), messageHandler.ListMessages)

		protected.GET("/notifications", notificationHandler.List)
		protected.POST("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkAsRead)
		protected.POST("/notifications/read-all", notificationHandler.MarkAllAsRead)
	}

	// Администрирование споров
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireAdmin())
	{
		admin.GET("/disputes", disputeHandler.ListOpenDisputes)
		admin.POST("/disputes/:id/resolve", middleware.UUIDValidator("id"), disputeHandler.ResolveDispute)
	}

	return r
}
