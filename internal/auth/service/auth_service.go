package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/SioxGlobal/performance-dashboard/internal/apperr"
	"github.com/SioxGlobal/performance-dashboard/internal/auth/identitytoolkit"
	"github.com/SioxGlobal/performance-dashboard/internal/email"
	profilesvc "github.com/SioxGlobal/performance-dashboard/internal/profile/service"
)

// phone: optional leading +, then 7-15 digits
var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// IdentityAdmin is the slice of the Firebase Admin client the service uses.
type IdentityAdmin interface {
	GetUser(ctx context.Context, uid string) (*fbauth.UserRecord, error)
	CreateUser(ctx context.Context, user *fbauth.UserToCreate) (*fbauth.UserRecord, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
	SessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error)
	EmailVerificationLink(ctx context.Context, email string) (string, error)
}

// PasswordSignIn is the Identity Toolkit surface for credential sign-in.
type PasswordSignIn interface {
	SignInWithPassword(ctx context.Context, email, password string) (*identitytoolkit.SignInResult, error)
	SignInWithGoogleIDToken(ctx context.Context, googleIDToken, requestURI string) (*identitytoolkit.SignInResult, error)
}

type AuthService struct {
	logger      *zap.Logger
	admin       IdentityAdmin
	toolkit     PasswordSignIn
	provisioner *profilesvc.ProvisionService
	mailer      email.Sender
	oauthCfg    *oauth2.Config
	orgDomain   string
	sessionTTL  time.Duration
}

func NewAuthService(
	logger *zap.Logger,
	admin IdentityAdmin,
	toolkit PasswordSignIn,
	provisioner *profilesvc.ProvisionService,
	mailer email.Sender,
	oauthCfg *oauth2.Config,
	orgDomain string,
	sessionTTL time.Duration,
) *AuthService {
	return &AuthService{
		logger:      logger,
		admin:       admin,
		toolkit:     toolkit,
		provisioner: provisioner,
		mailer:      mailer,
		oauthCfg:    oauthCfg,
		orgDomain:   strings.ToLower(strings.TrimSpace(orgDomain)),
		sessionTTL:  sessionTTL,
	}
}

// Session is the outcome of a successful sign-in.
type Session struct {
	Cookie  string
	TTL     time.Duration
	UID     string
	Email   string
	IsAdmin bool
}

type SignUpInput struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
}

// IsOrgEmail reports whether the address belongs to the organizational domain.
func (s *AuthService) IsOrgEmail(addr string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(addr)), "@"+s.orgDomain)
}

// ValidateSignUp applies the client-side checks; nothing reaches the
// provider when any of these fail.
func (s *AuthService) ValidateSignUp(in SignUpInput) error {
	if !s.IsOrgEmail(in.Email) {
		return apperr.Validation("You are not part of Organization")
	}
	if in.Password != in.ConfirmPassword {
		return apperr.Validation("Passwords do not match.")
	}
	if !phonePattern.MatchString(strings.TrimSpace(in.Phone)) {
		return apperr.Validation("Invalid phone number.")
	}
	return nil
}

// SignUp creates the provider account, dispatches the verification mail and
// persists the default profile. It never establishes a session: the user
// must verify their email and sign in.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) error {
	if err := s.ValidateSignUp(in); err != nil {
		return err
	}

	emailAddr := strings.TrimSpace(in.Email)
	displayName := strings.TrimSpace(strings.TrimSpace(in.FirstName) + " " + strings.TrimSpace(in.LastName))

	toCreate := (&fbauth.UserToCreate{}).
		Email(emailAddr).
		Password(in.Password).
		DisplayName(displayName).
		EmailVerified(false)

	record, err := s.admin.CreateUser(ctx, toCreate)
	if err != nil {
		return apperr.Auth("Sign up failed. Please try again.", err)
	}

	link, err := s.admin.EmailVerificationLink(ctx, emailAddr)
	if err != nil {
		return apperr.Auth("Could not send verification email.", err)
	}
	if err := s.mailer.SendVerificationLink(ctx, emailAddr, displayName, link); err != nil {
		return apperr.Auth("Could not send verification email.", err)
	}

	if err := s.provisioner.CreateInitial(ctx, profilesvc.Account{
		UID:         record.UID,
		Email:       emailAddr,
		DisplayName: displayName,
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Phone:       strings.TrimSpace(in.Phone),
		Provider:    "password",
	}); err != nil {
		return apperr.Persistence("Sign up failed. Please try again.", err)
	}

	s.logger.Info("account created, awaiting verification", zap.String("uid", record.UID))
	return nil
}

// SignIn performs the password flow: credential exchange, verification and
// domain policy, profile provisioning, session cookie mint. A policy
// rejection revokes the freshly issued tokens before returning.
func (s *AuthService) SignIn(ctx context.Context, emailAddr, password string) (*Session, error) {
	res, err := s.toolkit.SignInWithPassword(ctx, strings.TrimSpace(emailAddr), password)
	if err != nil {
		return nil, apperr.Auth("Login failed. Please try again.", err)
	}

	record, err := s.admin.GetUser(ctx, res.UID)
	if err != nil {
		return nil, apperr.Auth("Login failed. Please try again.", err)
	}

	if !record.EmailVerified {
		s.forceSignOut(ctx, res.UID)
		return nil, apperr.Policy("Please verify your email before logging in.")
	}
	if !s.IsOrgEmail(record.Email) {
		s.forceSignOut(ctx, res.UID)
		return nil, apperr.Policy(fmt.Sprintf("Only @%s accounts are allowed.", s.orgDomain))
	}

	return s.establishSession(ctx, record, res.IDToken)
}

// GoogleStart returns the hosted-domain-restricted consent URL and the state
// nonce the handler must pin in a cookie.
func (s *AuthService) GoogleStart() (state, url string) {
	state = uuid.NewString()
	url = s.oauthCfg.AuthCodeURL(state, oauth2.SetAuthURLParam("hd", s.orgDomain))
	return state, url
}

// GoogleCallback completes the federated flow. Verification is not required
// on this path, but the domain policy still is.
func (s *AuthService) GoogleCallback(ctx context.Context, code string) (*Session, error) {
	tok, err := s.oauthCfg.Exchange(ctx, code)
	if err != nil {
		return nil, apperr.Auth("Sign-in failed. Please try again.", err)
	}

	rawIDToken, _ := tok.Extra("id_token").(string)
	if rawIDToken == "" {
		return nil, apperr.Auth("Sign-in failed. Please try again.", errors.New("no id_token in exchange response"))
	}

	res, err := s.toolkit.SignInWithGoogleIDToken(ctx, rawIDToken, s.oauthCfg.RedirectURL)
	if err != nil {
		return nil, apperr.Auth("Sign-in failed. Please try again.", err)
	}

	record, err := s.admin.GetUser(ctx, res.UID)
	if err != nil {
		return nil, apperr.Auth("Sign-in failed. Please try again.", err)
	}

	if !s.IsOrgEmail(record.Email) {
		s.forceSignOut(ctx, res.UID)
		return nil, apperr.Policy("Only company emails are allowed.")
	}

	return s.establishSession(ctx, record, res.IDToken)
}

// SignOut revokes the account's refresh tokens and drops the cached
// snapshot. The handler clears the browser cookie.
func (s *AuthService) SignOut(ctx context.Context, uid string) error {
	s.provisioner.DropSnapshot(ctx, uid)
	if err := s.admin.RevokeRefreshTokens(ctx, uid); err != nil {
		return apperr.Auth("Logout failed", err)
	}
	return nil
}

func (s *AuthService) establishSession(ctx context.Context, record *fbauth.UserRecord, idToken string) (*Session, error) {
	profile, err := s.provisioner.EnsureProfile(ctx, accountFromRecord(record))
	if err != nil {
		return nil, apperr.Persistence("Login failed. Please try again.", err)
	}

	cookie, err := s.admin.SessionCookie(ctx, idToken, s.sessionTTL)
	if err != nil {
		return nil, apperr.Auth("Login failed. Please try again.", err)
	}

	return &Session{
		Cookie:  cookie,
		TTL:     s.sessionTTL,
		UID:     record.UID,
		Email:   record.Email,
		IsAdmin: profile.Role.IsAdmin(),
	}, nil
}

func (s *AuthService) forceSignOut(ctx context.Context, uid string) {
	if err := s.admin.RevokeRefreshTokens(ctx, uid); err != nil {
		s.logger.Warn("revoke after policy rejection failed", zap.String("uid", uid), zap.Error(err))
	}
}

func accountFromRecord(record *fbauth.UserRecord) profilesvc.Account {
	provider := "password"
	if len(record.ProviderUserInfo) > 0 && record.ProviderUserInfo[0].ProviderID != "" {
		provider = record.ProviderUserInfo[0].ProviderID
	}
	return profilesvc.Account{
		UID:           record.UID,
		Email:         record.Email,
		DisplayName:   record.DisplayName,
		PhotoURL:      record.PhotoURL,
		Provider:      provider,
		EmailVerified: record.EmailVerified,
	}
}
