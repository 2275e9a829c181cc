package handler

import (
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

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	// Initialize DB
	db := database.InitDB()
	_ = auth.EnsureAdminExists(db)
	h := &handlers.Handler{
		DB:      db,
		Store:   gateway.NewClient(os.Getenv("STORE_URL"), os.Getenv("STORE_TOKEN")),
		Weights: scheduler.DefaultWeights(),
	}

	// Initialize Gin
	gin.SetMode(gin.ReleaseMode)
	r = gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Routes
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Staff Roster API (Vercel)",
			"version": "1.0.0",
		})
	})

	r.POST("/admin/login", h.Login)

	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

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
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
