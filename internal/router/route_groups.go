package router

import (
	"stoutscout_backend/internal/handlers"
	"stoutscout_backend/internal/middleware"
	"stoutscout_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupPatronRoutes sets up the patron routes.
func SetupPatronRoutes(apiGroup *gin.RouterGroup, patronHandler *handlers.PatronHandler) {
	patronRoutes := apiGroup.Group("/patrons")
	{
		patronRoutes.GET("", patronHandler.GetPatrons)
		patronRoutes.GET("/:id", patronHandler.GetPatronByID)
		patronRoutes.POST("", patronHandler.CreatePatron)
		patronRoutes.PATCH("/:id", patronHandler.UpdatePatron)
	}
}

// SetupPintRoutes sets up the pint routes. POST accepts both the single-pour
// and batch body shapes.
func SetupPintRoutes(apiGroup *gin.RouterGroup, pintHandler *handlers.PintHandler) {
	pintRoutes := apiGroup.Group("/pints")
	{
		pintRoutes.POST("", pintHandler.CreatePints)
		pintRoutes.GET("", pintHandler.GetPints)
		pintRoutes.PATCH("/:id", pintHandler.UpdatePint)
	}
}

// SetupProjectionRoutes sets up the read-only projection routes.
func SetupProjectionRoutes(
	apiGroup *gin.RouterGroup,
	leaderboardHandler *handlers.LeaderboardHandler,
	milestoneHandler *handlers.MilestoneHandler,
	bartenderHandler *handlers.BartenderHandler,
) {
	apiGroup.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
	apiGroup.GET("/milestones", milestoneHandler.GetMilestones)
	apiGroup.GET("/bartenders", bartenderHandler.GetBartenders)
}

// SetupAuthRoutes sets up the authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.RegisterUser)
		authRoutes.POST("/login", authHandler.LoginUser)
		authRoutes.POST("/refresh-token", authHandler.RefreshToken)

		authRequiredRoutes := authRoutes.Group("")
		authRequiredRoutes.Use(middleware.AuthMiddleware())
		{
			authRequiredRoutes.POST("/logout", authHandler.LogoutUser)
			authRequiredRoutes.GET("/me", authHandler.GetCurrentUser)
		}
	}
}

// SetupAdminRoutes sets up the operational routes. Manager only.
func SetupAdminRoutes(apiGroup *gin.RouterGroup, adminHandler *handlers.AdminHandler) {
	adminRoutes := apiGroup.Group("/admin")
	adminRoutes.Use(middleware.AuthMiddleware(), middleware.RoleAuthMiddleware(models.RoleManager))
	{
		adminRoutes.POST("/reconcile", adminHandler.ReconcileTotals)
	}
}
