package http

import "github.com/gin-gonic/gin"

// Register wires the user-directory endpoints; guarded must already carry
// the session-guard middleware.
func (h *Handler) Register(guarded *gin.RouterGroup) {
	guarded.GET("", h.List)
	guarded.POST("/:uid/edit", h.BeginEdit)
	guarded.PUT("/:uid/edit/role", h.SetRole)
	guarded.PUT("/:uid/edit/companies", h.SetCompanies)
	guarded.POST("/:uid/edit/save", h.Save)
	guarded.POST("/:uid/edit/cancel", h.Cancel)
}
