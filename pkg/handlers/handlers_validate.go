package handlers

import (
	"net/http"

	"github.com/dlemaire/roster-api-go/pkg/models"
	"github.com/gin-gonic/gin"
)

// ValidateInput checks a snapshot payload without scheduling anything:
// record shapes, duplicate IDs, capacity bounds, parseable times.
func (h *Handler) ValidateInput(c *gin.Context) {
	var snap models.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	if len(snap.Employees) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "At least one employee is required",
		})
		return
	}

	if len(snap.Slots) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "At least one slot is required",
		})
		return
	}

	if err := snap.Validate(); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"employee_count":   len(snap.Employees),
			"slot_count":       len(snap.Slots),
			"assignment_count": len(snap.Assignments),
		},
	})
}
