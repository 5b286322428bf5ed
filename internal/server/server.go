package server

import (
	"github.com/gin-gonic/gin"

	"github.com/deployrt/scmcore/internal/config"
	"github.com/deployrt/scmcore/internal/injectable"
	"github.com/deployrt/scmcore/pkg/logger"
)

// Server bundles the gin engine with the loaded configuration and
// wired collaborators, the same shape the teacher's Server struct
// uses for its database-backed stack.
type Server struct {
	*gin.Engine

	Config *config.Config
	Deps   *injectable.Dependencies
	Log    *logger.Logger
}

// New loads cfg's collaborators and returns a Server with its gin
// engine unconfigured; callers mount routes via the router package.
func New(cfg *config.Config, log *logger.Logger) *Server {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	deps := injectable.LoadDependencies(cfg, log)

	return &Server{
		Engine: gin.New(),
		Config: cfg,
		Deps:   &deps,
		Log:    log,
	}
}
