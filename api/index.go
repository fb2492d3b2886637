package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arnavshah/rota-api-go/pkg/app"
	"github.com/arnavshah/rota-api-go/pkg/config"
	"github.com/arnavshah/rota-api-go/pkg/logging"
)

var (
	r       http.Handler
	initErr error
)

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	config.LoadEnvFiles(".env", "../.env")
	gin.SetMode(gin.ReleaseMode)

	cfg, err := config.Load()
	if err != nil {
		initErr = err
		return
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		initErr = err
		return
	}

	// There is no long-running worker here; the rollover runs when
	// clients call POST /api/archive/check.
	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize service", zap.Error(err))
		initErr = err
		return
	}
	r = a.Router
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	if initErr != nil {
		http.Error(w, `{"error":"service unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	r.ServeHTTP(w, req)
}
