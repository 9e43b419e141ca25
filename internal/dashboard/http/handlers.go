package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SioxGlobal/performance-dashboard/internal/auth"
	"github.com/SioxGlobal/performance-dashboard/internal/dashboard"
	"github.com/SioxGlobal/performance-dashboard/internal/profile/domain"
)

// View handles GET /dashboard. Authorization is derived fresh from the
// persisted profile on every load; a failed profile read degrades to the
// deny-all state instead of erroring the page.
func (h *Handler) View(c *gin.Context) {
	uid := auth.UserUID(c)

	access, ident := h.resolve(c, uid)

	gated := dashboard.GateTiles(access, h.tiles)
	filtered := dashboard.FilterTiles(gated, c.Query("q"))

	c.JSON(http.StatusOK, gin.H{
		"identity":   ident,
		"tiles":      filtered,
		"emptyState": dashboard.ShowEmptyState(access, gated),
		"section":    dashboard.SectionDashboard,
		"isAdmin":    access.IsAdmin(),
	})
}

// Section handles GET /dashboard/section/:name, the sidebar switch. The
// users section gate re-reads the caller's role; a non-admin is sent back
// to the default section with a notice rather than an error.
func (h *Handler) Section(c *gin.Context) {
	uid := auth.UserUID(c)
	access, _ := h.resolve(c, uid)

	c.JSON(http.StatusOK, dashboard.ResolveSection(access, c.Param("name")))
}

// resolve loads the caller's profile and derives access and the header
// identity from it. On a read failure access falls back to deny-all and
// the identity to what the session carries.
func (h *Handler) resolve(c *gin.Context, uid string) (dashboard.Access, dashboard.Identity) {
	p, err := h.profiles.Get(c.Request.Context(), uid)
	if err != nil {
		h.logger.Error("profile read failed, denying all access",
			zap.String("uid", uid), zap.Error(err))
		fallback := &domain.Profile{UID: uid, Email: auth.UserEmail(c), Role: domain.RoleUser}
		return dashboard.DenyAll(), dashboard.DeriveIdentity(fallback)
	}
	return dashboard.DeriveAccess(p), dashboard.DeriveIdentity(p)
}
