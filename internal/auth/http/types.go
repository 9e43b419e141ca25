package http

import (
	"go.uber.org/zap"

	"github.com/SioxGlobal/performance-dashboard/internal/auth/service"
)

// Pages are the opaque browser targets handed back on success or auth loss.
type Pages struct {
	Login       string
	VerifyEmail string
	Dashboard   string
}

type Handler struct {
	logger        *zap.Logger
	authService   *service.AuthService
	pages         Pages
	secureCookies bool
}

func New(logger *zap.Logger, authService *service.AuthService, pages Pages, secureCookies bool) *Handler {
	return &Handler{
		logger:        logger,
		authService:   authService,
		pages:         pages,
		secureCookies: secureCookies,
	}
}
