package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/SioxGlobal/performance-dashboard/config"
	"github.com/SioxGlobal/performance-dashboard/internal/auth"
	"github.com/SioxGlobal/performance-dashboard/internal/bootstrap"
	"github.com/SioxGlobal/performance-dashboard/internal/company"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load configuration: %v", err)
	}
	// A company label the normalizer does not know silently breaks gating,
	// so refuse to start instead.
	if err := company.ValidateOptions(cfg.Org.Companies); err != nil {
		log.Fatalf("invalid company options: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	logger, _ := zap.NewProduction()
	if cfg.App.Environment != "production" {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	authClient, fsClient, err := auth.InitializeFirebase(&cfg.Firebase)
	if err != nil {
		logger.Fatal("firebase init", zap.Error(err))
	}
	defer fsClient.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal("redis connect", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
	} else {
		logger.Warn("REDIS_ADDR not set, snapshot cache disabled")
	}

	router, err := bootstrap.BuildRouter(bootstrap.RouterDeps{
		Logger:     logger,
		Cfg:        cfg,
		AuthClient: authClient,
		Firestore:  fsClient,
		Redis:      rdb,
	})
	if err != nil {
		logger.Fatal("router build", zap.Error(err))
	}

	logger.Info("listening",
		zap.String("port", cfg.Server.Port),
		zap.String("environment", cfg.App.Environment))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
