package router

import (
	"database/sql"

	"stoutscout_backend/internal/handlers"
	"stoutscout_backend/internal/middleware"
	"stoutscout_backend/internal/repositories"
	"stoutscout_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application. It wires repositories
// into services into handlers with the store handle passed explicitly, and
// returns the reconcile service so main can run its scheduler.
func Setup(engine *gin.Engine, db *sql.DB) services.ReconcileService {
	// Repositories
	patronRepo := repositories.NewPatronRepository(db)
	pintRepo := repositories.NewPintRepository(db)
	userRepo := repositories.NewUserRepository(db)
	milestoneRepo := repositories.NewMilestoneRepository(db)

	// Services
	patronService := services.NewPatronService(patronRepo, pintRepo, db)
	pintService := services.NewPintService(pintRepo, patronRepo, userRepo, db)
	leaderboardService := services.NewLeaderboardService(patronRepo)
	milestoneService := services.NewMilestoneService(milestoneRepo)
	staffService := services.NewStaffService(userRepo)
	authService := services.NewAuthService(userRepo, db)
	reconcileService := services.NewReconcileService(patronRepo, db)

	// Handlers
	healthHandler := handlers.NewHealthHandler(db)
	patronHandler := handlers.NewPatronHandler(patronService)
	pintHandler := handlers.NewPintHandler(pintService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	milestoneHandler := handlers.NewMilestoneHandler(milestoneService)
	bartenderHandler := handlers.NewBartenderHandler(staffService)
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(reconcileService)

	engine.GET("/health", healthHandler.Health)

	// The API group extracts a principal when a bearer token is presented but
	// does not require one; authentication is an unenforced placeholder.
	api := engine.Group("/api")
	api.Use(middleware.PrincipalMiddleware())
	{
		SetupPatronRoutes(api, patronHandler)
		SetupPintRoutes(api, pintHandler)
		SetupProjectionRoutes(api, leaderboardHandler, milestoneHandler, bartenderHandler)
	}

	SetupAuthRoutes(api, authHandler)
	SetupAdminRoutes(api, adminHandler)

	return reconcileService
}
