package http

import "github.com/gin-gonic/gin"

// Register wires the public auth endpoints; guarded must already carry the
// session-guard middleware.
func (h *Handler) Register(public, guarded *gin.RouterGroup) {
	public.POST("/signup", h.SignUp)
	public.POST("/login", h.Login)
	public.GET("/google/start", h.GoogleStart)
	public.GET("/google/callback", h.GoogleCallback)

	guarded.GET("/session", h.Session)
	guarded.POST("/logout", h.Logout)
}
