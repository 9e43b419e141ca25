package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SioxGlobal/performance-dashboard/internal/profile/domain"
	"github.com/SioxGlobal/performance-dashboard/internal/profile/repository"
	"github.com/SioxGlobal/performance-dashboard/internal/profile/snapshot"
)

type fakeStore struct {
	profiles   map[string]*domain.Profile
	getErr     error
	createErr  error
	refreshErr error
	creates    int
	refreshes  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{profiles: make(map[string]*domain.Profile)}
}

func (f *fakeStore) Get(_ context.Context, uid string) (*domain.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.profiles[uid]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) Create(_ context.Context, p *domain.Profile) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.creates++
	cp := *p
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	cp.LastLoginAt = cp.CreatedAt
	f.profiles[p.UID] = &cp
	return nil
}

func (f *fakeStore) RefreshLogin(_ context.Context, uid string, in repository.LoginRefresh) error {
	if f.refreshErr != nil {
		return f.refreshErr
	}
	f.refreshes++
	p := f.profiles[uid]
	p.DisplayName = in.DisplayName
	p.PhotoURL = in.PhotoURL
	p.Provider = in.Provider
	p.EmailVerified = in.EmailVerified
	p.UpdatedAt = time.Now()
	p.LastLoginAt = p.UpdatedAt
	return nil
}

func newService(store Store) *ProvisionService {
	return NewProvisionService(zap.NewNop(), store, snapshot.NewCache(nil, time.Hour))
}

func TestEnsureProfile_CreatesWithDefaults(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)

	p, err := svc.EnsureProfile(context.Background(), Account{
		UID:         "uid-1",
		Email:       "jane.doe@sioxglobal.com",
		DisplayName: "Jane Doe",
		Provider:    "password",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RoleUser, p.Role)
	assert.Empty(t, p.CompanyIDs)
	assert.NotNil(t, p.CompanyIDs)
	assert.Equal(t, domain.DefaultFeatures(), p.Features)
	assert.Equal(t, "Jane", p.FirstName)
	assert.Equal(t, "Doe", p.LastName)
	assert.Equal(t, 1, store.creates)
}

func TestEnsureProfile_Idempotent(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	ctx := context.Background()

	acct := Account{UID: "uid-1", Email: "jane@sioxglobal.com", DisplayName: "Jane Doe"}
	_, err := svc.EnsureProfile(ctx, acct)
	require.NoError(t, err)

	// simulate an admin having elevated the account between logins
	store.profiles["uid-1"].Role = domain.RoleAdmin
	store.profiles["uid-1"].CompanyIDs = []string{}
	store.profiles["uid-1"].Features = domain.FeaturesFor(domain.RoleAdmin)

	acct.DisplayName = "Jane Q Doe"
	acct.EmailVerified = true
	p, err := svc.EnsureProfile(ctx, acct)
	require.NoError(t, err)

	// safe fields refreshed, authorization untouched
	assert.Equal(t, "Jane Q Doe", p.DisplayName)
	assert.True(t, p.EmailVerified)
	assert.Equal(t, domain.RoleAdmin, p.Role)
	assert.True(t, p.Features.Users)
	assert.Equal(t, 1, store.creates)
	assert.Equal(t, 1, store.refreshes)
}

func TestEnsureProfile_SecondCallDoesNotRecreate(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)
	ctx := context.Background()

	acct := Account{UID: "uid-2", Email: "x@sioxglobal.com"}
	_, err := svc.EnsureProfile(ctx, acct)
	require.NoError(t, err)
	_, err = svc.EnsureProfile(ctx, acct)
	require.NoError(t, err)

	assert.Equal(t, 1, store.creates)
	assert.Equal(t, 1, store.refreshes)
}

func TestEnsureProfile_NameFromEmailLocalPart(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)

	p, err := svc.EnsureProfile(context.Background(), Account{UID: "uid-3", Email: "jdoe@sioxglobal.com"})
	require.NoError(t, err)
	assert.Equal(t, "jdoe", p.FirstName)
	assert.Empty(t, p.LastName)
}

func TestEnsureProfile_PropagatesStoreErrors(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("firestore unavailable")
	svc := newService(store)

	_, err := svc.EnsureProfile(context.Background(), Account{UID: "uid-4"})
	require.Error(t, err)
	assert.Zero(t, store.creates)
}

func TestEnsureProfile_RequiresUID(t *testing.T) {
	svc := newService(newFakeStore())
	_, err := svc.EnsureProfile(context.Background(), Account{})
	require.Error(t, err)
}

func TestCreateInitial_UsesSignUpNames(t *testing.T) {
	store := newFakeStore()
	svc := newService(store)

	err := svc.CreateInitial(context.Background(), Account{
		UID:       "uid-5",
		Email:     "amit@sioxglobal.com",
		FirstName: "Amit",
		LastName:  "Shah",
		Phone:     "+14155550100",
	})
	require.NoError(t, err)

	p := store.profiles["uid-5"]
	assert.Equal(t, "Amit", p.FirstName)
	assert.Equal(t, "Shah", p.LastName)
	assert.Equal(t, "+14155550100", p.Phone)
	assert.Equal(t, domain.RoleUser, p.Role)
	assert.False(t, p.Features.Users)
}
