package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/arnavshah/rota-api-go/pkg/config"
	"github.com/arnavshah/rota-api-go/pkg/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg config.ServerConfig, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(mw.RequestLogger(logger), gin.Recovery())

	// Login: per-IP token bucket against PIN guessing
	loginLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)
	caching := mw.Cache(h.Cache, cfg.CacheTTL)

	r.GET("/", h.Index)
	r.POST("/auth/login", loginLimiter, h.Login)

	api := r.Group("/api")
	api.Use(h.AuthMiddleware())
	{
		api.GET("/state", h.GetState)
		api.GET("/staff", caching, h.GetStaff)

		api.GET("/availability", caching, h.GetAvailability)
		api.PUT("/availability", h.PutAvailability)

		api.POST("/schedule", h.GenerateSchedule)
		api.GET("/schedule", caching, h.GetSchedule)
		api.GET("/schedule/calendar", caching, h.GetCalendar)
		api.GET("/schedule/csv", caching, h.ExportCSV)

		api.POST("/validate", h.ValidateInput)

		api.GET("/history", caching, h.GetHistory)
		api.POST("/archive/check", h.CheckArchive)
	}

	return r
}
