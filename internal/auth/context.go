package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxUID           = "auth_uid"
	CtxEmail         = "auth_email"
	CtxEmailVerified = "auth_email_verified"
)

// UserUID extracts the signed-in uid from the Gin context.
// This is set by middleware.SessionGuard.
func UserUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUID))
}

// UserEmail extracts the signed-in email from the Gin context.
func UserEmail(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxEmail))
}
