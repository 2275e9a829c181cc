package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/dlemaire/roster-api-go/pkg/auth"
	"github.com/dlemaire/roster-api-go/pkg/database"
	"github.com/dlemaire/roster-api-go/pkg/gateway"
	"github.com/dlemaire/roster-api-go/pkg/models"
	"github.com/dlemaire/roster-api-go/pkg/scheduler"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Handler contains dependencies for the route handlers
type Handler struct {
	DB      *gorm.DB
	Store   *gateway.Client
	Weights scheduler.ScoreWeights
}

// AuthMiddleware verifies the JWT token for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Strip "Bearer " if present
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		claims, err := auth.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// APIKeyMiddleware verifies the API key for scheduler routes using HMAC
func (h *Handler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("Authorization")
		if key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			c.Abort()
			return
		}

		if len(key) > 7 && key[:7] == "Bearer " {
			key = key[7:]
		}

		userID, err := auth.VerifyHMACKey(key)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key signature"})
			c.Abort()
			return
		}

		// Fetch or create API key record to track usage
		var apiKey database.APIKey
		h.DB.Where(database.APIKey{Key: key}).FirstOrCreate(&apiKey, database.APIKey{
			Key:       key,
			Name:      userID,
			RateLimit: 10000,
		})

		c.Set("apiKey", &apiKey)
		c.Set("userID", userID)
		c.Next()
	}
}

// scheduleRequest asks for an auto-assign pass over an inclusive date range.
type scheduleRequest struct {
	From    string            `json:"from" binding:"required"`
	To      string            `json:"to" binding:"required"`
	Center  string            `json:"center"`
	Filters scheduler.Filters `json:"filters"`
}

// SchedulePreview computes an auto-assign run without persisting anything,
// so the result can be reviewed before commit. Determinism of the engine
// guarantees a following commit produces the same assignments.
func (h *Handler) SchedulePreview(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	runID := uuid.NewString()
	snap, result, ok := h.compute(c, runID, req)
	if !ok {
		return
	}

	h.recordRunUsage(c, req, snap, result)
	c.JSON(http.StatusOK, gin.H{
		"run_id":      runID,
		"saved":       false,
		"assignments": result.Assignments,
		"conflicts":   result.Conflicts,
	})
}

// ScheduleRun computes an auto-assign run and persists the new assignments
// through the gateway. A save failure still returns the computed set so
// the caller can retry the save without recomputing.
func (h *Handler) ScheduleRun(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	runID := uuid.NewString()
	snap, result, ok := h.compute(c, runID, req)
	if !ok {
		return
	}
	h.recordRunUsage(c, req, snap, result)

	if len(result.Assignments) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"run_id":      runID,
			"saved":       true,
			"assignments": result.Assignments,
			"conflicts":   result.Conflicts,
		})
		return
	}

	saveResult, err := h.Store.SaveAssignments(c.Request.Context(), result.Assignments)
	if err != nil {
		log.Printf("run %s: save failed: %v", runID, err)
		status := http.StatusBadGateway
		var stale *gateway.StaleScheduleError
		if errors.As(err, &stale) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{
			"run_id":      runID,
			"saved":       false,
			"error":       err.Error(),
			"assignments": result.Assignments,
			"conflicts":   result.Conflicts,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":      runID,
		"saved":       true,
		"assignments": saveResult.Saved,
		"rejected":    saveResult.Rejected,
		"conflicts":   result.Conflicts,
	})
}

// compute loads the snapshot and runs the engine, writing the error
// response itself when either step fails.
func (h *Handler) compute(c *gin.Context, runID string, req scheduleRequest) (*models.Snapshot, *scheduler.Result, bool) {
	snap, err := h.Store.LoadSnapshot(c.Request.Context(), req.From, req.To, req.Center)
	if err != nil {
		log.Printf("run %s: load failed: %v", runID, err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return nil, nil, false
	}

	result, err := scheduler.AutoAssign(
		scheduler.DateRange{From: req.From, To: req.To},
		snap.Slots, snap.Employees, snap.Assignments,
		req.Filters, h.weights(),
	)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return nil, nil, false
	}
	return snap, result, true
}

func (h *Handler) weights() scheduler.ScoreWeights {
	if h.Weights == (scheduler.ScoreWeights{}) {
		return scheduler.DefaultWeights()
	}
	return h.Weights
}

// statusFor maps engine and gateway errors to HTTP statuses: malformed
// input is the caller's fault, everything store-side is a bad gateway.
func statusFor(err error) int {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest
	}
	var stale *gateway.StaleScheduleError
	if errors.As(err, &stale) {
		return http.StatusConflict
	}
	var gerr *gateway.Error
	if errors.As(err, &gerr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (h *Handler) recordRunUsage(c *gin.Context, req scheduleRequest, snap *models.Snapshot, result *scheduler.Result) {
	days, err := models.DatesBetween(req.From, req.To)
	if err != nil {
		return
	}
	h.RecordUsage(c, len(days)*len(snap.Slots), len(result.Assignments))
}

// RecordUsage upserts the per-key daily usage counters.
func (h *Handler) RecordUsage(c *gin.Context, slotDays, created int) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	today := time.Now().Format("2006-01-02")

	// Use OnConflict for a single-query upsert (supported by both Postgres and SQLite)
	h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count":       gorm.Expr("request_count + ?", 1),
			"slot_days_examined":  gorm.Expr("slot_days_examined + ?", slotDays),
			"assignments_created": gorm.Expr("assignments_created + ?", created),
		}),
	}).Create(&database.APIUsage{
		KeyID:              apiKey.ID,
		Date:               today,
		RequestCount:       1,
		SlotDaysExamined:   slotDays,
		AssignmentsCreated: created,
	})
}
