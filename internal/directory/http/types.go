package http

import (
	"context"

	"go.uber.org/zap"

	"github.com/SioxGlobal/performance-dashboard/internal/directory"
	"github.com/SioxGlobal/performance-dashboard/internal/profile/domain"
)

// ProfileStore is the slice of the profile repository the directory needs.
type ProfileStore interface {
	Get(ctx context.Context, uid string) (*domain.Profile, error)
	List(ctx context.Context) ([]*domain.Profile, error)
}

// SnapshotDropper invalidates a user's cached profile snapshot after an
// admin edit changes their access.
type SnapshotDropper interface {
	DropSnapshot(ctx context.Context, uid string)
}

type Handler struct {
	logger    *zap.Logger
	profiles  ProfileStore
	editor    *directory.Editor
	snapshots SnapshotDropper
}

func New(logger *zap.Logger, profiles ProfileStore, editor *directory.Editor, snapshots SnapshotDropper) *Handler {
	return &Handler{
		logger:    logger,
		profiles:  profiles,
		editor:    editor,
		snapshots: snapshots,
	}
}
