package http

import "github.com/gin-gonic/gin"

// Register mounts the REST endpoints on r
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	r.GET("/apps", h.ListApps)
	r.GET("/apps/health", h.AppsHealth)

	r.GET("/routes", h.ListRoutes)
	r.GET("/routes/resolve", h.ResolveRoute)

	r.GET("/menu", h.GetMenu)
	r.POST("/menu/reload", h.ReloadMenu)

	sessions := r.Group("/sessions")
	sessions.POST("", h.CreateSession)
	sessions.GET("", h.ListSessions)
	sessions.GET("/:id", h.GetSession)
	sessions.DELETE("/:id", h.DeleteSession)
	sessions.POST("/:id/navigate", h.Navigate)
	sessions.POST("/:id/menu/active", h.SetActiveMenu)
	sessions.DELETE("/:id/tabs/:tabId", h.CloseTab)
}
