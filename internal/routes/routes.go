package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/promptdeck/promptdeck-backend/internal/domain"
	"github.com/promptdeck/promptdeck-backend/internal/handler"
	"github.com/promptdeck/promptdeck-backend/internal/middleware"
	"github.com/promptdeck/promptdeck-backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	authHandler *handler.AuthHandler,
	submissionHandler *handler.SubmissionHandler,
	jwtManager *jwt.Manager,
) {
	api := router.Group("/api/v1")

	// Authentication endpoints
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.GET("/me", middleware.JWTAuth(jwtManager), authHandler.Me)

	// Submissions
	submissions := api.Group("/submissions")
	{
		// Listing and detail are public for approved content; the handler
		// enforces admin for the moderation queue and author/admin for
		// non-approved detail, so auth here is optional.
		submissions.GET("", middleware.OptionalJWTAuth(jwtManager), submissionHandler.List)
		submissions.GET("/:id", middleware.OptionalJWTAuth(jwtManager), submissionHandler.Get)

		submissions.POST("", middleware.JWTAuth(jwtManager), submissionHandler.Create)
		submissions.PUT("/:id/status", middleware.JWTAuth(jwtManager), submissionHandler.UpdateStatus)
		submissions.GET("/:id/history", middleware.JWTAuth(jwtManager), submissionHandler.History)
	}

	// Author's own listings
	my := api.Group("/my", middleware.JWTAuth(jwtManager))
	my.GET("/submissions", submissionHandler.ListMine)

	// Admin moderation queue
	admin := api.Group("/admin", middleware.JWTAuth(jwtManager), middleware.RequireRole(domain.RoleAdmin))
	admin.GET("/submissions", submissionHandler.ListQueue)
}
