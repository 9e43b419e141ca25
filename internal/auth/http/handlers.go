package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SioxGlobal/performance-dashboard/internal/apperr"
	"github.com/SioxGlobal/performance-dashboard/internal/auth"
	"github.com/SioxGlobal/performance-dashboard/internal/auth/middleware"
	"github.com/SioxGlobal/performance-dashboard/internal/auth/service"
)

const oauthStateCookie = "oauth_state"

// SignUp handles POST /auth/signup. Success never signs the new account in;
// the browser is pointed at the awaiting-verification page.
func (h *Handler) SignUp(c *gin.Context) {
	var req struct {
		FirstName       string `json:"firstName"`
		LastName        string `json:"lastName"`
		Email           string `json:"email" binding:"required"`
		Phone           string `json:"phone" binding:"required"`
		Password        string `json:"password" binding:"required"`
		ConfirmPassword string `json:"confirmPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	err := h.authService.SignUp(c.Request.Context(), service.SignUpInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		h.respondError(c, "sign up", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"redirect": h.pages.VerifyEmail})
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sess, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, "login", err)
		return
	}

	h.setSessionCookie(c, sess)
	c.JSON(http.StatusOK, gin.H{"redirect": h.pages.Dashboard, "isAdmin": sess.IsAdmin})
}

// GoogleStart handles GET /auth/google/start: pins the state nonce in a
// short-lived cookie and sends the browser to the hosted-domain consent URL.
func (h *Handler) GoogleStart(c *gin.Context) {
	state, url := h.authService.GoogleStart()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 300, "/", "", h.secureCookies, true)
	c.Redirect(http.StatusFound, url)
}

// GoogleCallback handles GET /auth/google/callback.
func (h *Handler) GoogleCallback(c *gin.Context) {
	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state mismatch"})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.secureCookies, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	sess, err := h.authService.GoogleCallback(c.Request.Context(), code)
	if err != nil {
		h.respondError(c, "google callback", err)
		return
	}

	h.setSessionCookie(c, sess)
	c.Redirect(http.StatusFound, h.pages.Dashboard)
}

// Session handles GET /auth/session behind the session guard: the browser's
// one-shot auth-state check.
func (h *Handler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"uid":   auth.UserUID(c),
		"email": auth.UserEmail(c),
	})
}

// Logout handles POST /auth/logout behind the session guard.
func (h *Handler) Logout(c *gin.Context) {
	uid := auth.UserUID(c)
	if err := h.authService.SignOut(c.Request.Context(), uid); err != nil {
		h.respondError(c, "logout", err)
		return
	}
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"redirect": h.pages.Login})
}

func (h *Handler) setSessionCookie(c *gin.Context, sess *service.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, sess.Cookie, int(sess.TTL.Seconds()), "/", "", h.secureCookies, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.secureCookies, true)
}

func (h *Handler) respondError(c *gin.Context, op string, err error) {
	h.logger.Warn(op+" failed", zap.Error(err))
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
}
