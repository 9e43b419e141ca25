package routes

import (
	"time"

	"cloud.google.com/go/firestore"
	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"

	"github.com/SioxGlobal/performance-dashboard/config"
	authhttp "github.com/SioxGlobal/performance-dashboard/internal/auth/http"
	"github.com/SioxGlobal/performance-dashboard/internal/auth/identitytoolkit"
	"github.com/SioxGlobal/performance-dashboard/internal/auth/middleware"
	authsvc "github.com/SioxGlobal/performance-dashboard/internal/auth/service"
	dashhttp "github.com/SioxGlobal/performance-dashboard/internal/dashboard/http"
	"github.com/SioxGlobal/performance-dashboard/internal/directory"
	dirhttp "github.com/SioxGlobal/performance-dashboard/internal/directory/http"
	"github.com/SioxGlobal/performance-dashboard/internal/email"
	"github.com/SioxGlobal/performance-dashboard/internal/profile/repository"
	profilesvc "github.com/SioxGlobal/performance-dashboard/internal/profile/service"
	"github.com/SioxGlobal/performance-dashboard/internal/profile/snapshot"
	"github.com/SioxGlobal/performance-dashboard/internal/ratelimit"
)

type V1Deps struct {
	Logger     *zap.Logger
	Cfg        *config.Config
	AuthClient *firebaseauth.Client
	Firestore  *firestore.Client
	Redis      *redis.Client
}

// RegisterV1 wires the whole API under /api/v1: public auth endpoints, the
// session-guarded dashboard and the admin-only user directory.
func RegisterV1(r *gin.Engine, dep V1Deps) error {
	cfg := dep.Cfg

	repo := repository.NewProfileRepository(dep.Firestore)
	cache := snapshot.NewCache(dep.Redis, cfg.App.SessionTTL)
	provisioner := profilesvc.NewProvisionService(dep.Logger, repo, cache)

	mailer, err := buildMailer(cfg)
	if err != nil {
		return err
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.Google.RedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}

	authService := authsvc.NewAuthService(
		dep.Logger,
		dep.AuthClient,
		identitytoolkit.NewClient(cfg.Firebase.WebAPIKey),
		provisioner,
		mailer,
		oauthCfg,
		cfg.Org.EmailDomain,
		cfg.App.SessionTTL,
	)

	secureCookies := cfg.App.Environment == "production"
	authHandler := authhttp.New(dep.Logger, authService, authhttp.Pages{
		Login:       cfg.App.LoginPath,
		VerifyEmail: cfg.App.VerifyEmailPath,
		Dashboard:   cfg.App.DashboardPath,
	}, secureCookies)

	guard := middleware.SessionGuard(dep.AuthClient, cfg.App.LoginPath)
	credentialLimiter := ratelimit.New(rate.Limit(1), 5, 10*time.Minute)

	api := r.Group("/api/v1")

	authPublic := api.Group("/auth")
	authPublic.Use(credentialLimiter.Middleware())
	authGuarded := api.Group("/auth")
	authGuarded.Use(guard)
	authHandler.Register(authPublic, authGuarded)

	dash := api.Group("/dashboard")
	dash.Use(guard)
	dashhttp.New(dep.Logger, repo, cfg.Org.Companies).Register(dash)

	editor := directory.NewEditor(repo, cfg.Org.Companies)
	users := api.Group("/users")
	users.Use(guard)
	dirhttp.New(dep.Logger, repo, editor, provisioner).Register(users)

	return nil
}

func buildMailer(cfg *config.Config) (email.Sender, error) {
	if cfg.SMTP.Host == "" {
		return email.NewDisabledSender("SMTP_HOST not configured"), nil
	}
	sender, err := email.NewSMTPSender(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.User,
		cfg.SMTP.Password,
		cfg.SMTP.From,
		cfg.SMTP.FromName,
	)
	if err != nil {
		return nil, err
	}
	return sender, nil
}
