package router

import (
	"github.com/deployrt/scmcore/internal/transport/http/handler"
)

func (r *Router) healthRouter() {
	r.server.GET("/health", handler.HealthHandler())
}
