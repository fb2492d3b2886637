package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/rota-api-go/pkg/models"
	"github.com/arnavshah/rota-api-go/pkg/storage"
)

// GetHistory returns the archived months, newest first
func (h *Handler) GetHistory(c *gin.Context) {
	history, err := storage.LoadHistory(c.Request.Context(), h.Store)
	if err != nil {
		h.fail(c, err)
		return
	}
	if history == nil {
		history = []models.HistoryEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

// CheckArchive runs the monthly rollover now if it is due. Clients call it
// on load so a missed worker tick never delays the rollover.
func (h *Handler) CheckArchive(c *gin.Context) {
	out, err := h.Rollover.CheckOnce(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if out.Ran {
		h.invalidate()
	}
	c.JSON(http.StatusOK, out)
}
