package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/arnavshah/rota-api-go/pkg/auth"
	"github.com/arnavshah/rota-api-go/pkg/config"
	"github.com/arnavshah/rota-api-go/pkg/planning"
	"github.com/arnavshah/rota-api-go/pkg/rollover"
	"github.com/arnavshah/rota-api-go/pkg/scheduler"
	"github.com/arnavshah/rota-api-go/pkg/storage"
)

// Version is reported by the index route
const Version = "3.0.0"

// Handler contains dependencies for the route handlers
type Handler struct {
	Store       storage.Store
	Auth        *auth.Service
	Scheduler   *scheduler.Scheduler
	Roster      *config.Roster
	Rollover    *rollover.Service
	Cache       *cache.Cache
	Logger      *zap.Logger
	DeadlineDay int
	Now         func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// invalidate drops cached GET responses after a mutation
func (h *Handler) invalidate() {
	if h.Cache != nil {
		h.Cache.Flush()
	}
}

// fail maps err to a JSON error response
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scheduler.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.Logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// AuthMiddleware verifies the session token issued by Login
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Strip "Bearer " if present
		token = strings.TrimPrefix(token, "Bearer ")

		claims, err := h.Auth.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("label", claims.Label)
		c.Next()
	}
}

// Index returns the service banner
func (h *Handler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Shift Rota API",
		"version": Version,
	})
}

// Login exchanges the team PIN for a session token
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		PIN string `json:"pin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.Auth.Login(c.Request.Context(), req.PIN)
	if errors.Is(err, auth.ErrInvalidPIN) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid PIN"})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   int(h.Auth.TTL / time.Second),
	})
}

// GetState returns the planning window and the countdown to the deadline
func (h *Handler) GetState(c *gin.Context) {
	now := h.now()
	c.JSON(http.StatusOK, gin.H{
		"state":     planning.StateAt(now, h.DeadlineDay),
		"countdown": planning.Countdown(now, h.DeadlineDay),
	})
}

// GetStaff returns the roster
func (h *Handler) GetStaff(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"staff": h.Roster.Staff})
}
