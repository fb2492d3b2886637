// Package app wires configuration, storage and handlers into a runnable service.
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/arnavshah/rota-api-go/pkg/auth"
	"github.com/arnavshah/rota-api-go/pkg/config"
	"github.com/arnavshah/rota-api-go/pkg/database"
	"github.com/arnavshah/rota-api-go/pkg/handlers"
	"github.com/arnavshah/rota-api-go/pkg/rollover"
	"github.com/arnavshah/rota-api-go/pkg/scheduler"
	"github.com/arnavshah/rota-api-go/pkg/storage"
)

// App holds the assembled service
type App struct {
	DB       *gorm.DB
	Store    storage.Store
	Roster   *config.Roster
	Rollover *rollover.Service
	Handler  *handlers.Handler
	Router   *gin.Engine
}

// NewScheduler builds the rota builder from config and the roster's
// optional shift catalog.
func NewScheduler(cfg config.SchedulerConfig, roster *config.Roster, logger *zap.Logger) (*scheduler.Scheduler, error) {
	opts := []scheduler.Option{
		scheduler.WithSelector(scheduler.NewSelector(cfg.StreakLimit, cfg.AllowDoubleBooking)),
		scheduler.WithLogger(logger.Named("scheduler")),
	}
	if len(roster.Shifts) > 0 {
		catalog, err := scheduler.NewCatalog(roster.Shifts)
		if err != nil {
			return nil, fmt.Errorf("invalid shift catalog in roster: %w", err)
		}
		opts = append(opts, scheduler.WithCatalog(catalog))
	}
	return scheduler.NewScheduler(opts...), nil
}

// New opens the database, seeds the access PIN and builds the router.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	roster, err := config.LoadRoster(cfg.RosterPath)
	if err != nil {
		return nil, err
	}
	sched, err := NewScheduler(cfg.Scheduler, roster, logger)
	if err != nil {
		return nil, err
	}

	db, err := database.InitDB(cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	seeded, err := auth.EnsurePinExists(db, cfg.Auth.AccessPin)
	if err != nil {
		return nil, fmt.Errorf("failed to seed access PIN: %w", err)
	}
	if seeded {
		logger.Info("access PIN seeded")
	}

	store := storage.NewGormStore(db)
	responses := cache.New(cfg.Server.CacheTTL, 2*cfg.Server.CacheTTL)

	loc := cfg.Planning.Location
	if loc == nil {
		loc = time.Local
	}
	worker := rollover.NewService(store, cfg.Planning, logger.Named("rollover"))
	worker.OnRollover = responses.Flush

	h := &handlers.Handler{
		Store:       store,
		Auth:        auth.NewService(db, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Scheduler:   sched,
		Roster:      roster,
		Rollover:    worker,
		Cache:       responses,
		Logger:      logger,
		DeadlineDay: cfg.Planning.DeadlineDay,
		Now:         func() time.Time { return time.Now().In(loc) },
	}

	return &App{
		DB:       db,
		Store:    store,
		Roster:   roster,
		Rollover: worker,
		Handler:  h,
		Router:   handlers.NewRouter(h, cfg.Server, logger),
	}, nil
}

// Close releases the database connection
func (a *App) Close() error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
