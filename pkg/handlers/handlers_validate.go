package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/rota-api-go/pkg/models"
	"github.com/arnavshah/rota-api-go/pkg/planning"
	"github.com/arnavshah/rota-api-go/pkg/scheduler"
)

// ValidateInput handles the JSON-based validation request. Omitted fields
// fall back to the month being planned and the configured roster.
func (h *Handler) ValidateInput(c *gin.Context) {
	var input models.ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	if input.Year == 0 && input.Month == 0 {
		input.Year, input.Month = planning.NextMonth(h.now())
	}
	if input.Staff == nil {
		input.Staff = h.Roster.Staff
	}

	if len(input.Staff) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "At least one staff member is required",
		})
		return
	}

	if err := scheduler.ValidateInput(input.Year, input.Month, input.Staff); err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
		return
	}

	days := scheduler.DaysIn(input.Year, input.Month)
	slots := 0
	for day := 1; day <= days; day++ {
		weekday := time.Date(input.Year, input.Month, day, 0, 0, 0, 0, time.UTC).Weekday()
		slots += len(h.Scheduler.Catalog.ForWeekday(weekday))
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":    true,
		"warnings": scheduler.ValidateAvailability(input.Year, input.Month, input.Staff, input.Availability),
		"stats": gin.H{
			"staff_count": len(input.Staff),
			"day_count":   days,
			"slot_count":  slots,
		},
	})
}
