package http

import (
	"context"

	"go.uber.org/zap"

	"github.com/SioxGlobal/performance-dashboard/internal/dashboard"
	"github.com/SioxGlobal/performance-dashboard/internal/profile/domain"
)

// ProfileReader is the slice of the profile repository the dashboard needs.
type ProfileReader interface {
	Get(ctx context.Context, uid string) (*domain.Profile, error)
}

type Handler struct {
	logger   *zap.Logger
	profiles ProfileReader
	tiles    []dashboard.Tile
}

func New(logger *zap.Logger, profiles ProfileReader, companyLabels []string) *Handler {
	return &Handler{
		logger:   logger,
		profiles: profiles,
		tiles:    dashboard.TilesForCompanies(companyLabels),
	}
}
