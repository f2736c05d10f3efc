package rest

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zuhre/config"
	"zuhre/internal/service"
)

type Handler struct {
	services *service.Services
	logger   *zap.Logger
	config   *config.Config
}

func NewHandler(services *service.Services, logger *zap.Logger, config *config.Config) *Handler {
	return &Handler{
		services: services,
		logger:   logger,
		config:   config,
	}
}

func (h *Handler) InitRoutes(router *gin.Engine) {
	router.Use(h.loggerMiddleware())

	router.Use(h.errorMiddleware())

	router.Use(h.corsMiddleware())

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.register)
			auth.POST("/login", h.login)
			auth.POST("/refresh", h.refreshTokens)
			auth.POST("/logout", h.logout)
		}

		users := api.Group("/users")
		users.Use(h.authMiddleware())
		{
			users.GET("/me", h.getCurrentUser)
			users.GET("/:id", h.getUserByID)

			admin := users.Group("/")
			admin.Use(h.adminMiddleware())
			{
				admin.GET("/", h.getUsers)
			}
		}

		criteria := api.Group("/criteria")
		{
			criteria.GET("/", h.getCriteria)
		}

		bookings := api.Group("/bookings")
		bookings.Use(h.authMiddleware())
		{
			bookings.POST("/", h.createBooking)
			bookings.GET("/", h.getBookings)
			bookings.GET("/:id", h.getBookingByID)
			bookings.POST("/:id/complete", h.completeBooking)
			bookings.POST("/:id/cancel", h.cancelBooking)
		}

		reviews := api.Group("/reviews")
		{
			reviews.GET("/", h.getReviews)
			reviews.GET("/:id", h.getReviewByID)
			reviews.POST("/:id/helpful", h.markReviewHelpful)

			auth := reviews.Group("/")
			auth.Use(h.authMiddleware())
			{
				auth.POST("/", h.createReview)
				auth.POST("/attachments", h.uploadReviewAttachment)
			}
		}

		warnings := api.Group("/warnings")
		{
			warnings.GET("/", h.getWarnings)
			warnings.GET("/:id", h.getWarningByID)

			auth := warnings.Group("/")
			auth.Use(h.authMiddleware())
			{
				auth.POST("/", h.createWarning)
				auth.POST("/:id/corroborate", h.corroborateWarning)
			}
		}

		reputation := api.Group("/reputation")
		{
			reputation.GET("/:subjectId", h.getReputationSummary)

			admin := reputation.Group("/")
			admin.Use(h.authMiddleware(), h.adminMiddleware())
			{
				admin.GET("/:subjectId/consistency", h.checkReputationConsistency)
			}
		}
	}
}
