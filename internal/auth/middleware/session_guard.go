package middleware

import (
	"context"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
)

// SessionCookieName is where the browser keeps the Firebase session cookie.
const SessionCookieName = "session"

// SessionVerifier is the slice of *auth.Client the guard needs.
type SessionVerifier interface {
	VerifySessionCookieAndCheckRevoked(ctx context.Context, sessionCookie string) (*auth.Token, error)
}

// SessionGuard protects dashboard routes. A request without a valid,
// unrevoked session cookie is answered 401 with the sign-in redirect target;
// the browser treats that as its auth-state-loss signal. The decision is
// made once per request, never polled.
func SessionGuard(verifier SessionVerifier, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(SessionCookieName)
		if err != nil || cookie == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in", "redirect": loginPath})
			c.Abort()
			return
		}

		token, err := verifier.VerifySessionCookieAndCheckRevoked(c.Request.Context(), cookie)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired", "redirect": loginPath})
			c.Abort()
			return
		}

		c.Set("auth_uid", token.UID)
		if email, ok := token.Claims["email"].(string); ok {
			c.Set("auth_email", email)
		}
		if verified, ok := token.Claims["email_verified"].(bool); ok {
			c.Set("auth_email_verified", verified)
		}

		c.Next()
	}
}
