package main

import (
	"log"
	"os"
	"strings"

	"stoutscout_backend/internal/database"
	"stoutscout_backend/internal/router"
	"stoutscout_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	utils.InitLogger()

	dbHost := utils.Getenv("DB_HOST", "localhost")
	dbPort := utils.Getenv("DB_PORT", "5432")
	dbUser := utils.Getenv("DB_USER", "stoutscout_user")
	dbPassword := utils.Getenv("DB_PASSWORD", "stoutscout_password")
	dbName := utils.Getenv("DB_NAME", "stoutscout_db")
	dbSSLMode := utils.Getenv("DB_SSLMODE", "disable")
	dbSchemaPath := utils.Getenv("DB_SCHEMA_PATH", "")

	db, err := database.Connect(dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.ApplySchema(db, dbSchemaPath); err != nil {
		log.Fatalf("Failed to apply database schema: %v", err)
	}
	utils.LogInfo("Database initialized", map[string]interface{}{"configured_from_env": true})

	engine := gin.Default()
	engine.Use(utils.GinLogger())

	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowCredentials = true
	engine.Use(cors.New(config))

	reconciler := router.Setup(engine, db)

	if utils.Getenv("RECONCILE_ENABLED", "false") == "true" {
		schedule := utils.Getenv("RECONCILE_SCHEDULE", "0 4 * * *")
		if err := reconciler.StartScheduler(schedule); err != nil {
			log.Fatalf("Failed to start reconciliation scheduler: %v", err)
		}
		defer reconciler.StopScheduler()
		utils.LogInfo("Reconciliation scheduler started", map[string]interface{}{"schedule": schedule})
	}

	port := utils.Getenv("PORT", "4000")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port})

	if err := engine.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}
