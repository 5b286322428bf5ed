package router

import (
	"github.com/deployrt/scmcore/internal/transport/http/handler"
)

// functionsRouter mounts the function metadata manager (C5) and the
// triggers-sync entry point onto C6's operations client.
func (r *Router) functionsRouter() {
	h := handler.NewFunctionsHandler(r.server.Deps.Functions)

	api := r.server.Group("/api")
	{
		api.GET("/functions", h.List)
		api.GET("/functions/:name", h.Get)
		api.PUT("/functions/:name", h.CreateOrUpdate)
		api.DELETE("/functions/:name", h.Delete)
		api.POST("/functions/sync-triggers", h.SyncTriggers)

		api.GET("/host-config", h.GetHostConfig)
		api.PUT("/host-config", h.PutHostConfig)
	}
}
