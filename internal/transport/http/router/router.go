package router

import (
	"github.com/deployrt/scmcore/internal/observability"
	"github.com/deployrt/scmcore/internal/server"
	"github.com/deployrt/scmcore/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

// Router mounts the HTTP surface onto a Server's embedded gin engine.
type Router struct {
	server *server.Server
}

// NewRouter returns a Router bound to s.
func NewRouter(s *server.Server) *Router {
	return &Router{server: s}
}

// RegisterRoutes wires middleware and every route group onto the server.
func (r *Router) RegisterRoutes() {
	r.server.Use(middleware.CORSMiddleware(r.server.Config.Server.AllowedOrigins))
	r.server.Use(middleware.RecoveryMiddlewareWithLogger(r.server.Log))
	r.server.Use(middleware.LoggerMiddlewareWithConfig(&middleware.LoggerConfig{
		Logger:          r.server.Log,
		SkipPaths:       []string{"/health", "/metrics"},
		RequestIDHeader: "X-Request-ID",
		TraceIDHeader:   "X-Trace-ID",
	}))

	r.server.GET("/metrics", gin.WrapF(observability.MetricsHTTPHandler()))

	r.healthRouter()
	r.scmRouter()
	r.functionsRouter()
}
