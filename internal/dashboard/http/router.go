package http

import "github.com/gin-gonic/gin"

// Register wires the dashboard endpoints; guarded must already carry the
// session-guard middleware.
func (h *Handler) Register(guarded *gin.RouterGroup) {
	guarded.GET("", h.View)
	guarded.GET("/section/:name", h.Section)
}
