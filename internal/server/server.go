package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"honey-shop/internal/cache"
	"honey-shop/internal/config"
	"honey-shop/internal/database"
	"honey-shop/internal/events"
	custommiddleware "honey-shop/internal/middleware"
	"honey-shop/internal/repository"
	"honey-shop/internal/service"
	"honey-shop/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deps are the external resources the server owns and closes
type Deps struct {
	DB       database.Service
	Redis    *redis.Client
	Producer *events.Producer // nil when Kafka is not configured
}

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	deps   Deps
}

func NewServer(cfg *config.Config, logger *zap.Logger, deps Deps) *Server {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, !cfg.IsProduction()))

	health := healthHandler(deps.DB, deps.Redis)
	router.Get("/health", health)
	router.Get("/api/health", health)

	db := deps.DB.DB()

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	uow := repository.NewUnitOfWork(db)

	var publisher events.Publisher = events.NopPublisher{}
	if deps.Producer != nil {
		publisher = deps.Producer
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, uow, cfg.JWT.Secret, cfg.JWT.Expiry())
	productService := service.NewProductService(productRepo, uow)
	orderService := service.NewOrderService(
		orderRepo,
		uow,
		cache.NewStatusCache(deps.Redis, cache.DefaultStatusTTL),
		publisher,
		logger,
	)

	authMiddleware := custommiddleware.AuthMiddleware(authService, logger)
	requireAdmin := custommiddleware.RequireAdmin(logger)
	authRateLimit := custommiddleware.RateLimitMiddleware(deps.Redis, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.Requests,
		Window:            cfg.RateLimit.Window(),
		KeyPrefix:         "rate_limit:auth",
	}, logger)

	// Register routes
	transport.NewAuthHandler(authService, logger).RegisterRoutes(router, authMiddleware, requireAdmin, authRateLimit)
	transport.NewProductHandler(productService, logger).RegisterRoutes(router)
	transport.NewOrderHandler(orderService, logger).RegisterRoutes(router, authMiddleware, requireAdmin)

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		deps:   deps,
	}
}

// healthHandler reports database and redis reachability. It answers 503 when
// the database is down.
func healthHandler(db database.Service, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbHealth := db.Health()

		redisStatus := "up"
		if rdb == nil {
			redisStatus = "disabled"
		} else {
			ctx, cancel := context.WithTimeout(r.Context(), time.Second)
			defer cancel()
			if err := rdb.Ping(ctx).Err(); err != nil {
				redisStatus = "down"
			}
		}

		status, code := "ok", http.StatusOK
		if dbHealth["status"] != "up" {
			status, code = "unavailable", http.StatusServiceUnavailable
		}

		custommiddleware.RespondWithJSON(w, code, map[string]interface{}{
			"status":   status,
			"database": dbHealth,
			"redis":    redisStatus,
		})
	}
}

// Close releases the producer, redis client and database pool
func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.deps.Producer != nil {
		s.deps.Producer.Close()
	}

	if s.deps.Redis != nil {
		if err := s.deps.Redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.deps.DB != nil {
		if err := s.deps.DB.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	_ = s.logger.Sync()
	return nil
}
