package handlers

import (
	"net/http"

	"github.com/dlemaire/roster-api-go/pkg/database"
	"github.com/gin-gonic/gin"
)

// GetMyUsage returns usage stats for the authenticated API key
func (h *Handler) GetMyUsage(c *gin.Context) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "API Key context missing"})
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	var usage []database.APIUsage
	if err := h.DB.Where("key_id = ?", apiKey.ID).Order("date desc").Limit(30).Find(&usage).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch usage details"})
		return
	}

	// Calculate totals
	var totalRequests, totalSlotDays, totalCreated int64
	for _, u := range usage {
		totalRequests += int64(u.RequestCount)
		totalSlotDays += int64(u.SlotDaysExamined)
		totalCreated += int64(u.AssignmentsCreated)
	}

	c.JSON(http.StatusOK, gin.H{
		"key_name":      apiKey.Name,
		"rate_limit":    apiKey.RateLimit,
		"usage_history": usage,
		"totals": gin.H{
			"requests":            totalRequests,
			"slot_days_examined":  totalSlotDays,
			"assignments_created": totalCreated,
		},
	})
}
