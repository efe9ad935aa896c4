package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yukikurage/project-task-api/internal/auth"
	"github.com/yukikurage/project-task-api/internal/config"
	"github.com/yukikurage/project-task-api/internal/database"
	"github.com/yukikurage/project-task-api/internal/logging"
	"github.com/yukikurage/project-task-api/internal/router"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger := logging.Logger()
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(cfg.LogLevel, cfg.LogFormat)
	logger := logging.Logger()

	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Sessions and revoked tokens live in Redis when it is configured, so
	// several instances can share them.
	var (
		store       sessions.Store
		revocations auth.RevocationList
	)
	if addr := cfg.RedisAddr(); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.RedisPassword,
		})
		defer client.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Fatal().Err(err).Str("addr", addr).Msg("failed to connect to redis")
		}
		revocations = auth.NewRedisRevocationList(client)

		store, err = redisStore.NewStore(
			10,    // pool size
			"tcp", // network type
			addr,
			"", // username
			cfg.RedisPassword,
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create redis session store")
		}
	} else {
		logger.Warn().Msg("redis not configured, using cookie sessions and in-memory token revocation")
		revocations = auth.NewMemoryRevocationList()
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.JWTTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsRelease(),
		SameSite: http.SameSiteLaxMode,
	})

	engine := router.New(router.Dependencies{
		Config:       cfg,
		DB:           db,
		SessionStore: store,
		Revocations:  revocations,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Str("env", cfg.AppEnv).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
