package router

import (
	"github.com/deployrt/scmcore/internal/transport/http/handler"
)

// scmRouter mounts the version-control driver/parser operations (C1-C4),
// one Repository per :repo path segment.
func (r *Router) scmRouter() {
	h := handler.NewScmHandler(r.server.Deps)

	repos := r.server.Group("/api/repos/:repo")
	{
		repos.POST("/init", h.Init)
		repos.GET("/status", h.Status)
		repos.GET("/empty", h.IsEmpty)
		repos.POST("/add", h.Add)
		repos.POST("/commit", h.Commit)
		repos.POST("/checkout", h.Checkout)
		repos.GET("/show/:id", h.Show)
		repos.GET("/diff", h.Diff)
		repos.GET("/log", h.Log)
	}
}
