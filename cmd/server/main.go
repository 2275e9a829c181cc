package main

import (
	"log"
	"net/http"
	"os"

	"github.com/dlemaire/roster-api-go/pkg/auth"
	"github.com/dlemaire/roster-api-go/pkg/database"
	"github.com/dlemaire/roster-api-go/pkg/gateway"
	"github.com/dlemaire/roster-api-go/pkg/handlers"
	"github.com/dlemaire/roster-api-go/pkg/scheduler"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	storeURL := os.Getenv("STORE_URL")
	if storeURL == "" {
		log.Fatal("STORE_URL is required (base URL of the record store)")
	}

	db := database.InitDB()
	_ = auth.EnsureAdminExists(db)
	h := &handlers.Handler{
		DB:      db,
		Store:   gateway.NewClient(storeURL, os.Getenv("STORE_TOKEN")),
		Weights: scheduler.DefaultWeights(),
	}

	r := gin.Default()

	// Routes
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Staff Roster API",
			"version": "1.0.0",
		})
	})

	r.POST("/admin/login", h.Login)

	// Admin Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	// Scheduler Endpoints
	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.POST("/schedule/preview", h.SchedulePreview)
		api.POST("/schedule/run", h.ScheduleRun)
		api.POST("/conflicts", h.DetectConflicts)
		api.POST("/score", h.ScoreCandidate)
		api.POST("/validate", h.ValidateInput)
		api.GET("/usage", h.GetMyUsage)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
