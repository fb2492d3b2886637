package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arnavshah/rota-api-go/pkg/models"
	"github.com/arnavshah/rota-api-go/pkg/planning"
	"github.com/arnavshah/rota-api-go/pkg/render"
	"github.com/arnavshah/rota-api-go/pkg/scheduler"
	"github.com/arnavshah/rota-api-go/pkg/storage"
)

// scheduleResponse adds the derived figures to a stored result
type scheduleResponse struct {
	*models.ScheduleResult
	Unassigned    int     `json:"unassigned"`
	FairnessScore float64 `json:"fairness_score"`
}

func newScheduleResponse(result *models.ScheduleResult) scheduleResponse {
	return scheduleResponse{
		ScheduleResult: result,
		Unassigned:     result.Unassigned(),
		FairnessScore:  scheduler.CalculateFairnessScore(result.Stats),
	}
}

// rejectIfLocked writes 423 and returns true once the deadline has passed
func (h *Handler) rejectIfLocked(c *gin.Context) bool {
	state := planning.StateAt(h.now(), h.DeadlineDay)
	if !state.IsLocked {
		return false
	}
	c.JSON(http.StatusLocked, gin.H{"error": state.LockMessage, "state": state})
	return true
}

// generate builds and persists the rota for month of year from the stored availability
func (h *Handler) generate(ctx context.Context, year int, month time.Month, availability models.Availability) (*models.ScheduleResult, error) {
	result, err := h.Scheduler.Generate(year, month, h.Roster.Staff, availability)
	if err != nil {
		return nil, err
	}
	if err := storage.SaveSchedule(ctx, h.Store, result); err != nil {
		return nil, err
	}
	h.invalidate()

	h.Logger.Info("schedule generated",
		zap.String("month", planning.HistoryID(year, month)),
		zap.Int("unassigned", result.Unassigned()))
	return result, nil
}

// GetAvailability returns the requested days off for the month being planned
func (h *Handler) GetAvailability(c *gin.Context) {
	availability, err := storage.LoadAvailability(c.Request.Context(), h.Store)
	if err != nil {
		h.fail(c, err)
		return
	}
	year, month := planning.NextMonth(h.now())
	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"availability": availability,
	})
}

// PutAvailability replaces the requested days off and regenerates the
// rota for the month being planned
func (h *Handler) PutAvailability(c *gin.Context) {
	if h.rejectIfLocked(c) {
		return
	}

	var availability models.Availability
	if err := c.ShouldBindJSON(&availability); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if availability == nil {
		availability = models.Availability{}
	}

	ctx := c.Request.Context()
	if err := storage.SaveAvailability(ctx, h.Store, availability); err != nil {
		h.fail(c, err)
		return
	}
	h.invalidate()

	year, month := planning.NextMonth(h.now())
	result, err := h.generate(ctx, year, month, availability)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"availability": availability,
		"warnings":     scheduler.ValidateAvailability(year, month, h.Roster.Staff, availability),
		"schedule":     newScheduleResponse(result),
	})
}

// GenerateSchedule builds the rota. Without a body it targets the month
// being planned and respects the lock; an explicit year and month are
// generated regardless of the lock.
func (h *Handler) GenerateSchedule(c *gin.Context) {
	var req struct {
		Year  int        `json:"year"`
		Month time.Month `json:"month"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if req.Year == 0 && req.Month == 0 {
		if h.rejectIfLocked(c) {
			return
		}
		req.Year, req.Month = planning.NextMonth(h.now())
	}

	ctx := c.Request.Context()
	availability, err := storage.LoadAvailability(ctx, h.Store)
	if err != nil {
		h.fail(c, err)
		return
	}
	result, err := h.generate(ctx, req.Year, req.Month, availability)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newScheduleResponse(result))
}

// loadSchedule writes 404 and returns nil when nothing was generated yet
func (h *Handler) loadSchedule(c *gin.Context) *models.ScheduleResult {
	result, err := storage.LoadSchedule(c.Request.Context(), h.Store)
	if err != nil {
		h.fail(c, err)
		return nil
	}
	if result.Empty() {
		c.JSON(http.StatusNotFound, gin.H{"error": "No schedule generated yet"})
		return nil
	}
	return result
}

// GetSchedule returns the stored rota
func (h *Handler) GetSchedule(c *gin.Context) {
	if result := h.loadSchedule(c); result != nil {
		c.JSON(http.StatusOK, newScheduleResponse(result))
	}
}

// GetCalendar returns the stored rota as a Monday-first grid with monthly totals
func (h *Handler) GetCalendar(c *gin.Context) {
	result := h.loadSchedule(c)
	if result == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"calendar": render.BuildCalendar(result),
		"summary":  render.Summary(result, h.Roster.Staff),
	})
}

// ExportCSV returns the stored rota as a CSV attachment
func (h *Handler) ExportCSV(c *gin.Context) {
	result := h.loadSchedule(c)
	if result == nil {
		return
	}

	var buf bytes.Buffer
	if err := render.WriteCSV(&buf, result); err != nil {
		h.fail(c, err)
		return
	}
	filename := fmt.Sprintf("rota-%s.csv", planning.HistoryID(result.Year, result.Month))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
