package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/SioxGlobal/performance-dashboard/internal/apperr"
	"github.com/SioxGlobal/performance-dashboard/internal/auth/identitytoolkit"
	"github.com/SioxGlobal/performance-dashboard/internal/profile/domain"
	"github.com/SioxGlobal/performance-dashboard/internal/profile/repository"
	profilesvc "github.com/SioxGlobal/performance-dashboard/internal/profile/service"
	"github.com/SioxGlobal/performance-dashboard/internal/profile/snapshot"
)

type fakeAdmin struct {
	users       map[string]*fbauth.UserRecord
	created     []*fbauth.UserRecord
	revoked     []string
	cookieErr   error
	createErr   error
	linkErr     error
	mintedToken string
}

func newFakeAdmin() *fakeAdmin {
	return &fakeAdmin{users: make(map[string]*fbauth.UserRecord)}
}

func (f *fakeAdmin) GetUser(_ context.Context, uid string) (*fbauth.UserRecord, error) {
	u, ok := f.users[uid]
	if !ok {
		return nil, errors.New("user not found")
	}
	return u, nil
}

func (f *fakeAdmin) CreateUser(_ context.Context, _ *fbauth.UserToCreate) (*fbauth.UserRecord, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	rec := &fbauth.UserRecord{UserInfo: &fbauth.UserInfo{UID: "new-uid", Email: "new@sioxglobal.com"}}
	f.created = append(f.created, rec)
	f.users[rec.UID] = rec
	return rec, nil
}

func (f *fakeAdmin) RevokeRefreshTokens(_ context.Context, uid string) error {
	f.revoked = append(f.revoked, uid)
	return nil
}

func (f *fakeAdmin) SessionCookie(_ context.Context, idToken string, _ time.Duration) (string, error) {
	if f.cookieErr != nil {
		return "", f.cookieErr
	}
	f.mintedToken = idToken
	return "session-cookie-for-" + idToken, nil
}

func (f *fakeAdmin) EmailVerificationLink(_ context.Context, email string) (string, error) {
	if f.linkErr != nil {
		return "", f.linkErr
	}
	return "https://verify.example/" + email, nil
}

type fakeToolkit struct {
	result *identitytoolkit.SignInResult
	err    error
}

func (f *fakeToolkit) SignInWithPassword(_ context.Context, _, _ string) (*identitytoolkit.SignInResult, error) {
	return f.result, f.err
}

func (f *fakeToolkit) SignInWithGoogleIDToken(_ context.Context, _, _ string) (*identitytoolkit.SignInResult, error) {
	return f.result, f.err
}

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) SendVerificationLink(_ context.Context, toEmail, _, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, toEmail)
	return nil
}

type memStore struct {
	profiles map[string]*domain.Profile
}

func (m *memStore) Get(_ context.Context, uid string) (*domain.Profile, error) {
	p, ok := m.profiles[uid]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) Create(_ context.Context, p *domain.Profile) error {
	cp := *p
	m.profiles[p.UID] = &cp
	return nil
}

func (m *memStore) RefreshLogin(_ context.Context, uid string, in repository.LoginRefresh) error {
	p := m.profiles[uid]
	p.DisplayName = in.DisplayName
	p.EmailVerified = in.EmailVerified
	return nil
}

type authFixture struct {
	svc    *AuthService
	admin  *fakeAdmin
	tk     *fakeToolkit
	mailer *fakeMailer
	store  *memStore
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	admin := newFakeAdmin()
	tk := &fakeToolkit{}
	mailer := &fakeMailer{}
	store := &memStore{profiles: make(map[string]*domain.Profile)}
	prov := profilesvc.NewProvisionService(zap.NewNop(), store, snapshot.NewCache(nil, time.Hour))
	oauthCfg := &oauth2.Config{
		ClientID:    "client",
		RedirectURL: "https://app.example/auth/google/callback",
		Endpoint:    oauth2.Endpoint{AuthURL: "https://accounts.google.com/o/oauth2/auth"},
		Scopes:      []string{"openid", "email", "profile"},
	}
	svc := NewAuthService(zap.NewNop(), admin, tk, prov, mailer, oauthCfg, "sioxglobal.com", 12*time.Hour)
	return &authFixture{svc: svc, admin: admin, tk: tk, mailer: mailer, store: store}
}

func TestValidateSignUp(t *testing.T) {
	f := newAuthFixture(t)
	base := SignUpInput{
		FirstName: "Jane", LastName: "Doe",
		Email: "jane@sioxglobal.com", Phone: "+14155550100",
		Password: "secret123", ConfirmPassword: "secret123",
	}

	t.Run("valid input passes", func(t *testing.T) {
		assert.NoError(t, f.svc.ValidateSignUp(base))
	})

	t.Run("outside org domain", func(t *testing.T) {
		in := base
		in.Email = "jane@gmail.com"
		err := f.svc.ValidateSignUp(in)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("password mismatch", func(t *testing.T) {
		in := base
		in.ConfirmPassword = "different"
		err := f.svc.ValidateSignUp(in)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("phone too short", func(t *testing.T) {
		in := base
		in.Phone = "12345"
		err := f.svc.ValidateSignUp(in)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		assert.Equal(t, "Invalid phone number.", apperr.Message(err))
	})

	t.Run("phone with letters", func(t *testing.T) {
		in := base
		in.Phone = "+1-415-555"
		err := f.svc.ValidateSignUp(in)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestSignUp(t *testing.T) {
	t.Run("creates account, mails link, persists defaults, no session", func(t *testing.T) {
		f := newAuthFixture(t)
		err := f.svc.SignUp(context.Background(), SignUpInput{
			FirstName: "Jane", LastName: "Doe",
			Email: "new@sioxglobal.com", Phone: "14155550100",
			Password: "secret123", ConfirmPassword: "secret123",
		})
		require.NoError(t, err)

		require.Len(t, f.admin.created, 1)
		assert.Equal(t, []string{"new@sioxglobal.com"}, f.mailer.sent)

		p := f.store.profiles["new-uid"]
		require.NotNil(t, p)
		assert.Equal(t, domain.RoleUser, p.Role)
		assert.Empty(t, p.CompanyIDs)
		assert.False(t, p.Features.Users)
		assert.Empty(t, f.admin.mintedToken, "sign-up must not mint a session")
	})

	t.Run("validation failure reaches no provider", func(t *testing.T) {
		f := newAuthFixture(t)
		err := f.svc.SignUp(context.Background(), SignUpInput{
			Email: "new@sioxglobal.com", Phone: "12345",
			Password: "a", ConfirmPassword: "a",
		})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		assert.Empty(t, f.admin.created)
		assert.Empty(t, f.mailer.sent)
	})

	t.Run("provider failure surfaces as auth error", func(t *testing.T) {
		f := newAuthFixture(t)
		f.admin.createErr = errors.New("EMAIL_EXISTS")
		err := f.svc.SignUp(context.Background(), SignUpInput{
			FirstName: "Jane", LastName: "Doe",
			Email: "new@sioxglobal.com", Phone: "14155550100",
			Password: "secret123", ConfirmPassword: "secret123",
		})
		assert.True(t, apperr.IsKind(err, apperr.KindAuth))
	})
}

func TestSignIn(t *testing.T) {
	setUser := func(f *authFixture, verified bool, emailAddr string) {
		f.tk.result = &identitytoolkit.SignInResult{UID: "uid-1", Email: emailAddr, IDToken: "id-tok"}
		f.admin.users["uid-1"] = &fbauth.UserRecord{
			UserInfo:      &fbauth.UserInfo{UID: "uid-1", Email: emailAddr, DisplayName: "Jane Doe"},
			EmailVerified: verified,
		}
	}

	t.Run("success provisions profile and mints cookie", func(t *testing.T) {
		f := newAuthFixture(t)
		setUser(f, true, "jane@sioxglobal.com")

		sess, err := f.svc.SignIn(context.Background(), "jane@sioxglobal.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, "session-cookie-for-id-tok", sess.Cookie)
		assert.False(t, sess.IsAdmin)
		assert.NotNil(t, f.store.profiles["uid-1"])
	})

	t.Run("bad credentials", func(t *testing.T) {
		f := newAuthFixture(t)
		f.tk.err = &identitytoolkit.ProviderError{Code: "INVALID_LOGIN_CREDENTIALS"}

		_, err := f.svc.SignIn(context.Background(), "jane@sioxglobal.com", "wrong")
		assert.True(t, apperr.IsKind(err, apperr.KindAuth))
	})

	t.Run("unverified email forces sign-out", func(t *testing.T) {
		f := newAuthFixture(t)
		setUser(f, false, "jane@sioxglobal.com")

		_, err := f.svc.SignIn(context.Background(), "jane@sioxglobal.com", "secret")
		assert.True(t, apperr.IsKind(err, apperr.KindPolicy))
		assert.Contains(t, f.admin.revoked, "uid-1")
		assert.Nil(t, f.store.profiles["uid-1"], "no profile provisioned on policy failure")
	})

	t.Run("non-org email forces sign-out", func(t *testing.T) {
		f := newAuthFixture(t)
		setUser(f, true, "jane@gmail.com")

		_, err := f.svc.SignIn(context.Background(), "jane@gmail.com", "secret")
		assert.True(t, apperr.IsKind(err, apperr.KindPolicy))
		assert.Contains(t, f.admin.revoked, "uid-1")
	})

	t.Run("existing admin keeps role across login", func(t *testing.T) {
		f := newAuthFixture(t)
		setUser(f, true, "boss@sioxglobal.com")
		f.store.profiles["uid-1"] = &domain.Profile{
			UID: "uid-1", Email: "boss@sioxglobal.com",
			Role: domain.RoleAdmin, Features: domain.FeaturesFor(domain.RoleAdmin),
		}

		sess, err := f.svc.SignIn(context.Background(), "boss@sioxglobal.com", "secret")
		require.NoError(t, err)
		assert.True(t, sess.IsAdmin)
		assert.Equal(t, domain.RoleAdmin, f.store.profiles["uid-1"].Role)
	})
}

func TestGoogleStart(t *testing.T) {
	f := newAuthFixture(t)
	state, url := f.svc.GoogleStart()
	assert.NotEmpty(t, state)
	assert.Contains(t, url, "hd=sioxglobal.com")
	assert.Contains(t, url, "state="+state)
}

func TestGoogleCallback(t *testing.T) {
	tokenServer := func(t *testing.T, f *authFixture, idToken string) {
		t.Helper()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"at","token_type":"Bearer","id_token":"` + idToken + `"}`))
		}))
		t.Cleanup(srv.Close)
		f.svc.oauthCfg.Endpoint.TokenURL = srv.URL
	}

	t.Run("success for org account, no verification required", func(t *testing.T) {
		f := newAuthFixture(t)
		tokenServer(t, f, "google-id-token")
		f.tk.result = &identitytoolkit.SignInResult{UID: "uid-sso", Email: "sso@sioxglobal.com", IDToken: "fb-tok"}
		f.admin.users["uid-sso"] = &fbauth.UserRecord{
			UserInfo:      &fbauth.UserInfo{UID: "uid-sso", Email: "sso@sioxglobal.com"},
			EmailVerified: false,
		}

		sess, err := f.svc.GoogleCallback(context.Background(), "auth-code")
		require.NoError(t, err)
		assert.Equal(t, "session-cookie-for-fb-tok", sess.Cookie)
	})

	t.Run("non-org SSO account rejected", func(t *testing.T) {
		f := newAuthFixture(t)
		tokenServer(t, f, "google-id-token")
		f.tk.result = &identitytoolkit.SignInResult{UID: "uid-ext", Email: "ext@gmail.com", IDToken: "fb-tok"}
		f.admin.users["uid-ext"] = &fbauth.UserRecord{
			UserInfo: &fbauth.UserInfo{UID: "uid-ext", Email: "ext@gmail.com"},
		}

		_, err := f.svc.GoogleCallback(context.Background(), "auth-code")
		assert.True(t, apperr.IsKind(err, apperr.KindPolicy))
		assert.Contains(t, f.admin.revoked, "uid-ext")
	})

	t.Run("missing id_token in exchange", func(t *testing.T) {
		f := newAuthFixture(t)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"at","token_type":"Bearer"}`))
		}))
		t.Cleanup(srv.Close)
		f.svc.oauthCfg.Endpoint.TokenURL = srv.URL

		_, err := f.svc.GoogleCallback(context.Background(), "auth-code")
		assert.True(t, apperr.IsKind(err, apperr.KindAuth))
	})
}

func TestSignOut(t *testing.T) {
	f := newAuthFixture(t)
	require.NoError(t, f.svc.SignOut(context.Background(), "uid-1"))
	assert.Contains(t, f.admin.revoked, "uid-1")
}
