package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginswagger "github.com/swaggo/gin-swagger"

	"skillswap-backend/internal/common/config"
	"skillswap-backend/internal/common/logger"
	"skillswap-backend/internal/common/middleware"
	sessionhttp "skillswap-backend/internal/features/session/delivery/http"
	sessionrepo "skillswap-backend/internal/features/session/repository"
	sessionmemory "skillswap-backend/internal/features/session/repository/memory"
	sessionredis "skillswap-backend/internal/features/session/repository/redis"
	sessionservice "skillswap-backend/internal/features/session/service"
	userhttp "skillswap-backend/internal/features/user/delivery/http"
	userrepo "skillswap-backend/internal/features/user/repository"
	usermemory "skillswap-backend/internal/features/user/repository/memory"
	userredis "skillswap-backend/internal/features/user/repository/redis"
	userservice "skillswap-backend/internal/features/user/service"
	redisplatform "skillswap-backend/internal/platform/redis"
	"skillswap-backend/internal/platform/seed"
)

// @title           SkillSwap API
// @version         1.0
// @description     API server for the SkillSwap skill-sharing marketplace. Users list skills, host learning sessions, and spend points to join them.

// @host      localhost:8080
// @BasePath  /api/v1

// @tag.name users
// @tag.description User profiles and point balances

// @tag.name sessions
// @tag.description Learning sessions - scheduling, enrollment and meeting rooms

func main() {
	cfg := config.Load()
	logger.Init("skillswap-backend", cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	userRepository, sessionRepository, ready, cleanup, err := buildRepositories(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize store")
	}
	defer cleanup()

	// One lock for every user/session record sequence. Profile writes and
	// enrollment debits touch the same user records.
	var storeMu sync.Mutex

	userSvc := userservice.NewUserService(userRepository, &storeMu)
	sessionSvc := sessionservice.NewSessionService(sessionRepository, userRepository, &storeMu)

	if cfg.App.SeedDemoData {
		if err := seed.Load(ctx, userRepository, sessionRepository); err != nil {
			logger.Fatal().Err(err).Msg("Failed to seed demo data")
		}
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CurrentUser(cfg.App.CurrentUserID))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept"}
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	userhttp.NewUserHandler(userSvc).RegisterRoutes(v1)
	sessionhttp.NewSessionHandler(sessionSvc).RegisterRoutes(v1)

	router.GET("/swagger/*any", ginswagger.WrapHandler(swaggerfiles.Handler))

	registerProbes(router, ready)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Str("store", cfg.Store.Backend).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

// registerProbes wires the health endpoints. /health and /live always
// answer; /ready consults the store backend.
func registerProbes(router *gin.Engine, ready func(context.Context) error) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "skillswap-backend",
		})
	})
	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/ready", func(c *gin.Context) {
		probeCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := ready(probeCtx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unready",
				"error":  err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
}

// buildRepositories selects the store backend. Memory is the default;
// redis trades restart durability for an external dependency. The returned
// readiness func backs the /ready probe.
func buildRepositories(ctx context.Context, cfg *config.Config) (userrepo.UserRepository, sessionrepo.SessionRepository, func(context.Context) error, func(), error) {
	switch cfg.Store.Backend {
	case "redis":
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		client, err := redisplatform.Open(ctx, addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("redis open: %w", err)
		}
		ready := func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
		cleanup := func() {
			if err := client.Close(); err != nil {
				logger.Error().Err(err).Msg("Failed to close redis client")
			}
		}
		return userredis.NewUserRepository(client.Client), sessionredis.NewSessionRepository(client.Client), ready, cleanup, nil
	case "memory":
		ready := func(context.Context) error { return nil }
		return usermemory.NewUserRepository(), sessionmemory.NewSessionRepository(), ready, func() {}, nil
	default:
		return nil, nil, nil, nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}
