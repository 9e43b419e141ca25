package bootstrap

import (
	"time"

	"cloud.google.com/go/firestore"
	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/SioxGlobal/performance-dashboard/config"
	httpapi "github.com/SioxGlobal/performance-dashboard/internal/api/http"
	"github.com/SioxGlobal/performance-dashboard/internal/api/http/middleware"
	"github.com/SioxGlobal/performance-dashboard/internal/api/http/routes"
)

type RouterDeps struct {
	Logger     *zap.Logger
	Cfg        *config.Config
	AuthClient *firebaseauth.Client
	Firestore  *firestore.Client
	Redis      *redis.Client
}

func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(dep.Logger))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.Cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler("performance-dashboard", dep.Cfg.App.Version, dep.Firestore, dep.Redis)
	healthHandler.RegisterRoutes(r)

	if err := routes.RegisterV1(r, routes.V1Deps{
		Logger:     dep.Logger,
		Cfg:        dep.Cfg,
		AuthClient: dep.AuthClient,
		Firestore:  dep.Firestore,
		Redis:      dep.Redis,
	}); err != nil {
		return nil, err
	}

	return r, nil
}
