package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/SioxGlobal/performance-dashboard/internal/profile/domain"
	"github.com/SioxGlobal/performance-dashboard/internal/profile/repository"
	"github.com/SioxGlobal/performance-dashboard/internal/profile/snapshot"
)

// Store is the slice of the profile repository provisioning needs.
type Store interface {
	Get(ctx context.Context, uid string) (*domain.Profile, error)
	Create(ctx context.Context, p *domain.Profile) error
	RefreshLogin(ctx context.Context, uid string, in repository.LoginRefresh) error
}

// Account carries the identity-provider view of a signed-in user.
type Account struct {
	UID           string
	Email         string
	DisplayName   string
	FirstName     string
	LastName      string
	Phone         string
	PhotoURL      string
	Provider      string
	EmailVerified bool
}

type ProvisionService struct {
	logger *zap.Logger
	store  Store
	cache  *snapshot.Cache
}

func NewProvisionService(logger *zap.Logger, store Store, cache *snapshot.Cache) *ProvisionService {
	return &ProvisionService{logger: logger, store: store, cache: cache}
}

// EnsureProfile is the idempotent login upsert. A missing profile is created
// once with safe defaults; an existing one only has its identity fields and
// login timestamps refreshed. Role, companyIds and features are never
// touched here; only an explicit admin edit changes those.
func (s *ProvisionService) EnsureProfile(ctx context.Context, acct Account) (*domain.Profile, error) {
	if acct.UID == "" {
		return nil, fmt.Errorf("account uid required")
	}

	_, err := s.store.Get(ctx, acct.UID)
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		if err := s.store.Create(ctx, newProfile(acct)); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err := s.store.RefreshLogin(ctx, acct.UID, repository.LoginRefresh{
			DisplayName:   acct.DisplayName,
			PhotoURL:      acct.PhotoURL,
			Provider:      acct.Provider,
			EmailVerified: acct.EmailVerified,
		}); err != nil {
			return nil, err
		}
	}

	fresh, err := s.store.Get(ctx, acct.UID)
	if err != nil {
		return nil, err
	}

	// Best-effort session cache for the dashboard; never authoritative.
	if cErr := s.cache.Put(ctx, snapshot.FromProfile(fresh)); cErr != nil {
		s.logger.Warn("snapshot cache write failed", zap.String("uid", acct.UID), zap.Error(cErr))
	}

	return fresh, nil
}

// CreateInitial writes the sign-up profile document. Unlike EnsureProfile it
// never merges: sign-up must observe the create-exactly-once path.
func (s *ProvisionService) CreateInitial(ctx context.Context, acct Account) error {
	return s.store.Create(ctx, newProfile(acct))
}

// DropSnapshot clears the cached view, on sign-out and after an access edit.
func (s *ProvisionService) DropSnapshot(ctx context.Context, uid string) {
	if err := s.cache.Invalidate(ctx, uid); err != nil {
		s.logger.Warn("snapshot invalidate failed", zap.String("uid", uid), zap.Error(err))
	}
}

func newProfile(acct Account) *domain.Profile {
	first, last := acct.FirstName, acct.LastName
	if first == "" && last == "" {
		first, last = domain.SplitName(acct.DisplayName, acct.Email)
	}

	provider := acct.Provider
	if provider == "" {
		provider = "password"
	}

	return &domain.Profile{
		UID:           acct.UID,
		Email:         acct.Email,
		DisplayName:   acct.DisplayName,
		FirstName:     first,
		LastName:      last,
		Phone:         acct.Phone,
		PhotoURL:      acct.PhotoURL,
		Provider:      provider,
		EmailVerified: acct.EmailVerified,
		Role:          domain.RoleUser,
		CompanyIDs:    []string{},
		Features:      domain.DefaultFeatures(),
	}
}
