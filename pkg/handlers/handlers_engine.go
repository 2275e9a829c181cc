package handlers

import (
	"net/http"

	"github.com/dlemaire/roster-api-go/pkg/models"
	"github.com/dlemaire/roster-api-go/pkg/scheduler"
	"github.com/gin-gonic/gin"
)

// DetectConflicts runs the conflict detector over a caller-supplied
// snapshot. Nothing is persisted; conflicts are data, not errors.
func (h *Handler) DetectConflicts(c *gin.Context) {
	var snap models.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := snap.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conflicts := scheduler.DetectConflicts(snap.Assignments, snap.Employees, snap.Slots)
	if conflicts == nil {
		conflicts = []models.Conflict{}
	}

	high := 0
	for _, cf := range conflicts {
		if cf.High() {
			high++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"conflicts":     conflicts,
		"count":         len(conflicts),
		"high_severity": high,
	})
}

// scoreRequest audits a single (employee, slot, date) fit score. Weights
// may be overridden per request to test tunings.
type scoreRequest struct {
	Employee            models.Employee         `json:"employee"`
	Slot                models.Slot             `json:"slot"`
	Date                string                  `json:"date" binding:"required"`
	ExistingAssignments []models.Assignment     `json:"existing_assignments"`
	Weights             *scheduler.ScoreWeights `json:"weights"`
}

// ScoreCandidate returns the fit score with its per-component breakdown.
func (h *Handler) ScoreCandidate(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Employee.ID == "" || req.Slot.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employee and slot are required"})
		return
	}
	if _, err := models.ParseDate(req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	weights := h.weights()
	if req.Weights != nil {
		weights = *req.Weights
	}

	breakdown := scheduler.ScoreCandidateDetail(&req.Employee, &req.Slot, req.Date, req.ExistingAssignments, weights)
	c.JSON(http.StatusOK, gin.H{
		"employee_id": req.Employee.ID,
		"slot_id":     req.Slot.ID,
		"date":        req.Date,
		"score":       breakdown.Total,
		"breakdown":   breakdown,
		"weights":     weights,
	})
}
