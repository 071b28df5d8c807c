// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"freightline-service/internal/config"
	"freightline-service/internal/db"
	"freightline-service/internal/handlers"
	"freightline-service/internal/pkg/jwt"
	"freightline-service/internal/pkg/session"
	"freightline-service/internal/repository/postgres"
	authservice "freightline-service/internal/service/auth"
	cartservice "freightline-service/internal/service/cart"
	fleetservice "freightline-service/internal/service/fleet"
	quotationservice "freightline-service/internal/service/quotation"
	searchservice "freightline-service/internal/service/search"
	"freightline-service/internal/ws"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Server owns the process-wide resources and the HTTP listener.
type Server struct {
	cfg    config.AppConfig
	logger *zap.Logger

	pool  *pgxpool.Pool
	cache *redis.Client
	http  *http.Server
}

func NewServer(cfg config.AppConfig, logger *zap.Logger) *Server {
	return &Server{cfg: cfg, logger: logger}
}

// Start connects storage, wires the services and begins serving. Blocks
// until the listener fails or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	s.pool = pool

	cache, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		PoolSize: 20,
	})
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	s.cache = cache

	jwtManager, err := jwt.LoadAndBuild(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("jwt keys: %w", err)
	}

	// shared infrastructure
	sessions := session.NewManager(cache, s.logger)
	rateLimiter := session.NewRateLimiter(cache)
	hub := ws.NewHub(s.logger)

	// repositories
	authRepo := postgres.NewAuthRepository(pool)
	truckRepo := postgres.NewTruckRepository(pool)
	requestRepo := postgres.NewQuotationRequestRepository(pool)

	// services
	authSvc := authservice.NewAuthService(authRepo, jwtManager, sessions, rateLimiter, cache, s.logger)
	fleetSvc := fleetservice.NewService(truckRepo, s.logger)
	searchSvc := searchservice.NewService(truckRepo, searchservice.NewRedisStore(cache), s.logger)
	cartSvc := cartservice.NewService(cartservice.NewRedisStore(cache), s.logger)
	quotationSvc := quotationservice.NewService(requestRepo, cartSvc, cache, hub, s.logger)

	// handlers
	deps := routerDeps{
		cfg:  s.cfg,
		auth: handlers.NewAuthHandler(authSvc, handlers.CookieConfig{
			Domain:     s.cfg.CookieDomain,
			Secure:     s.cfg.CookieSecure,
			AccessTTL:  s.cfg.JWT.AccessTTL,
			RefreshTTL: s.cfg.JWT.RefreshTTL,
		}),
		navigation: handlers.NewNavigationHandler(),
		truck:      handlers.NewTruckHandler(fleetSvc, searchSvc, cartSvc),
		cart:       handlers.NewCartHandler(cartSvc, searchSvc),
		quotation:  handlers.NewQuotationHandler(quotationSvc),
		wsHandler:  handlers.NewWSHandler(hub),
		validator:  authSvc,
		logger:     s.logger,
	}

	s.http = &http.Server{
		Addr:         s.cfg.HTTPAddr,
		Handler:      setupRouter(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Info("server listening", zap.String("addr", s.cfg.HTTPAddr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes the storage connections.
func (s *Server) Shutdown(ctx context.Context) error {
	var firstErr error
	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.pool != nil {
		s.pool.Close()
	}
	return firstErr
}
