package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SioxGlobal/performance-dashboard/internal/apperr"
	"github.com/SioxGlobal/performance-dashboard/internal/auth"
	"github.com/SioxGlobal/performance-dashboard/internal/dashboard"
	"github.com/SioxGlobal/performance-dashboard/internal/directory"
	"github.com/SioxGlobal/performance-dashboard/internal/profile/domain"
)

// List handles GET /users. Admin-only; the caller's role is re-read from
// the persisted profile on every request, and a failed read denies access
// rather than defaulting open.
func (h *Handler) List(c *gin.Context) {
	access := h.callerAccess(c)
	if !access.IsAdmin() {
		h.respondError(c, "list users", apperr.Authorization("You don't have permission to view Users."))
		return
	}

	profiles, err := h.profiles.List(c.Request.Context())
	if err != nil {
		h.respondError(c, "list users", apperr.Persistence("Failed to load users.", err))
		return
	}

	rows := directory.BuildRows(profiles, true)
	rows = directory.FilterRows(rows, c.Query("q"))

	c.JSON(http.StatusOK, gin.H{
		"rows":           rows,
		"roleOptions":    directory.RoleOptions,
		"companyOptions": h.editor.CompanyOptions(),
	})
}

// BeginEdit handles POST /users/:uid/edit. The session opens on the row's
// persisted values so a cancel restores exactly what is stored.
func (h *Handler) BeginEdit(c *gin.Context) {
	access := h.callerAccess(c)
	if !access.IsAdmin() {
		h.respondError(c, "begin edit", apperr.Authorization("You don't have permission."))
		return
	}
	uid := c.Param("uid")

	target, err := h.profiles.Get(c.Request.Context(), uid)
	if err != nil {
		h.respondError(c, "begin edit", apperr.Persistence("Failed to load user.", err))
		return
	}

	view, err := h.editor.Begin(access, uid, target.Role, target.Companies())
	if err != nil {
		h.respondError(c, "begin edit", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SetRole handles PUT /users/:uid/edit/role. Switching the selector to
// Admin collapses the company control; switching back restores the prior
// selections.
func (h *Handler) SetRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	view, err := h.editor.SetRole(h.callerAccess(c), c.Param("uid"), domain.ParseRole(req.Role))
	if err != nil {
		h.respondError(c, "set role", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SetCompanies handles PUT /users/:uid/edit/companies.
func (h *Handler) SetCompanies(c *gin.Context) {
	var req struct {
		Companies []string `json:"companies"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	view, err := h.editor.SetCompanies(h.callerAccess(c), c.Param("uid"), req.Companies)
	if err != nil {
		h.respondError(c, "set companies", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Save handles POST /users/:uid/edit/save. On success the edited user's
// cached snapshot is dropped so their next dashboard load sees the new
// access immediately.
func (h *Handler) Save(c *gin.Context) {
	access := h.callerAccess(c)
	uid := c.Param("uid")

	result, err := h.editor.Save(c.Request.Context(), access, uid)
	if err != nil {
		h.respondError(c, "save edit", err)
		return
	}

	h.snapshots.DropSnapshot(c.Request.Context(), uid)
	c.JSON(http.StatusOK, result)
}

// Cancel handles POST /users/:uid/edit/cancel.
func (h *Handler) Cancel(c *gin.Context) {
	result, err := h.editor.Cancel(h.callerAccess(c), c.Param("uid"))
	if err != nil {
		h.respondError(c, "cancel edit", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// callerAccess derives the caller's authorization from their persisted
// profile. A read failure denies all access.
func (h *Handler) callerAccess(c *gin.Context) dashboard.Access {
	uid := auth.UserUID(c)
	p, err := h.profiles.Get(c.Request.Context(), uid)
	if err != nil {
		h.logger.Error("caller profile read failed, denying all access",
			zap.String("uid", uid), zap.Error(err))
		return dashboard.DenyAll()
	}
	return dashboard.DeriveAccess(p)
}

func (h *Handler) respondError(c *gin.Context, op string, err error) {
	h.logger.Warn(op+" failed", zap.Error(err))
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
}
