package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/damienaltman42/sb1-u3qtxy/config"
	"github.com/damienaltman42/sb1-u3qtxy/database"
	"github.com/damienaltman42/sb1-u3qtxy/logger"
	"github.com/damienaltman42/sb1-u3qtxy/metrics"
	"github.com/damienaltman42/sb1-u3qtxy/middleware"
	"github.com/damienaltman42/sb1-u3qtxy/repositories"
	"github.com/damienaltman42/sb1-u3qtxy/routes"
	"github.com/damienaltman42/sb1-u3qtxy/services"
	"github.com/damienaltman42/sb1-u3qtxy/utils"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const purgeInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		// the logger is not configured yet
		logger.Must("production").Fatal("invalid configuration", zap.Error(err))
	}
	log := logger.Must(cfg.Env)
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}
	if cfg.Database.AutoMigrate {
		log.Info("running auto-migration")
		if err := database.Migrate(db); err != nil {
			log.Fatal("failed to migrate database", zap.Error(err))
		}
	} else {
		log.Info("auto-migration disabled")
	}

	store := repositories.NewGormStore(db)
	rc := newRedis(cfg.Redis, log)

	var objects utils.ObjectStore
	if cfg.Storage.Enabled() {
		r2, err := utils.NewR2Store(context.Background(), cfg.Storage)
		if err != nil {
			log.Fatal("failed to configure object storage", zap.Error(err))
		}
		objects = r2
	} else {
		log.Warn("R2 storage not configured, avatar upload disabled")
	}

	m := metrics.NewMetrics("roulette", nil)
	issuer := utils.NewTokenIssuer(cfg.JWT, utils.NewRevoker(rc, store.RevokedTokens()))

	router, stopRouter := routes.InitRouter(routes.Deps{
		Config:   cfg,
		Log:      log,
		Services: services.New(store, cfg.Codes.Length),
		Issuer:   issuer,
		Guard:    middleware.NewLoginGuard(rc),
		Objects:  objects,
		Metrics:  m,
		Ping:     store.Ping,
	})
	defer stopRouter()

	// Logging -> Security headers -> Request ID -> Max Body -> Timeout -> Recovery
	handler := middleware.RequestLogMiddleware(log)(
		middleware.SecurityHeadersMiddleware(cfg)(
			middleware.RequestIDMiddleware(
				middleware.MaxBodyMiddleware(cfg.HTTP.MaxBodyBytes)(
					middleware.TimeoutMiddleware(cfg.HTTP.RequestTimeout)(
						middleware.RecoveryMiddleware(log)(router),
					),
				),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if rc == nil {
		go purgeRevokedTokens(ctx, store.RevokedTokens(), log)
	}

	go func() {
		log.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	if rc != nil {
		_ = rc.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("server exited")
}

// newRedis returns nil when Redis is not configured or unreachable; callers
// fall back to the database and in-memory state.
func newRedis(c config.RedisConfig, log *zap.Logger) *redis.Client {
	if c.Addr == "" {
		return nil
	}
	rc := redis.NewClient(&redis.Options{Addr: c.Addr, Password: c.Pass, DB: c.DB})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		log.Warn("redis ping failed, using database revocation and in-memory lockout", zap.Error(err))
		_ = rc.Close()
		return nil
	}
	return rc
}

func purgeRevokedTokens(ctx context.Context, repo repositories.RevokedTokenRepository, log *zap.Logger) {
	tick := time.NewTicker(purgeInterval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-tick.C:
			n, err := repo.PurgeExpired(ctx, now)
			if err != nil {
				log.Warn("purge revoked tokens", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Debug("purged revoked tokens", zap.Int64("count", n))
			}
		}
	}
}
