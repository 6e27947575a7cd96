package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	custommiddleware "storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"
	"storefront/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
	auth   service.AuthService
}

func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service, redisClient *redis.Client) (*Server, error) {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.IsDevelopment()))

	// Initialize repositories
	repos := repository.New(db.DB())
	tx := repository.NewTransactor(db.DB(), logger)

	// Initialize services
	authService := service.NewAuthService(repos.Users, repos.Sessions, cfg.Session.Secret, cfg.Session.TTL(), logger)
	catalogService := service.NewCatalogService(repos.Products, logger)
	cartService := service.NewCartService(repos.Carts, repos.Products, logger)
	orderService := service.NewOrderService(tx, repos.Carts, repos.Orders, logger)
	ratingService := service.NewRatingService(repos.Ratings, repos.Products, logger)

	cookie := custommiddleware.SessionCookie{Name: cfg.Session.CookieName, Secure: cfg.Session.Secure}
	router.Use(custommiddleware.SessionMiddleware(authService, cookie, logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))

	router.Get("/health", healthHandler(db, redisClient))

	renderer, err := transport.NewRenderer(logger)
	if err != nil {
		return nil, err
	}

	// Initialize handlers
	authHandler := transport.NewAuthHandler(authService, catalogService, cookie, renderer, logger)
	adminHandler := transport.NewAdminHandler(catalogService, orderService, renderer, logger)
	customerHandler := transport.NewCustomerHandler(catalogService, cartService, orderService, ratingService, renderer, logger)

	credentialLimit := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.Requests,
		Window:            time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
		KeyPrefix:         "storefront:ratelimit:credentials",
	}, logger)

	// Register routes
	authHandler.RegisterRoutes(router, credentialLimit)
	adminHandler.RegisterRoutes(router)
	customerHandler.RegisterRoutes(router)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
		auth:   authService,
	}

	return server, nil
}

// BootstrapStaff creates the configured staff account if it does not exist
func (s *Server) BootstrapStaff(ctx context.Context) error {
	staff := s.config.Staff
	if staff.Username == "" {
		return nil
	}

	user, err := s.auth.EnsureStaff(ctx, service.RegisterInput{
		Username: staff.Username,
		Email:    staff.Email,
		Password: staff.Password,
	})
	if err != nil {
		return fmt.Errorf("failed to bootstrap staff account: %w", err)
	}

	s.logger.Info("Staff account ready", zap.String("username", user.Username))
	return nil
}

// healthHandler reports 503 when the database is unreachable. Redis only
// backs the rate limiter, so its state is reported without failing the check.
func healthHandler(db database.Service, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]interface{}{"status": "ok"}
		status := http.StatusOK

		dbHealth := db.Health(r.Context())
		body["database"] = dbHealth
		if dbHealth["status"] != "up" {
			body["status"] = "unavailable"
			status = http.StatusServiceUnavailable
		}

		redisStatus := "up"
		if err := redisClient.Ping(r.Context()).Err(); err != nil {
			redisStatus = "down"
		}
		body["redis"] = redisStatus

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	_ = s.logger.Sync()
	return nil
}
