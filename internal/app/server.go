// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prorata-service/internal/config"
	"prorata-service/internal/db"
	authHandler "prorata-service/internal/handlers/auth"
	billingHandler "prorata-service/internal/handlers/billing"
	productHandler "prorata-service/internal/handlers/product"
	"prorata-service/internal/middleware"
	"prorata-service/internal/pkg/session"
	"prorata-service/internal/pkg/token"
	"prorata-service/internal/repository/postgres"
	authUsecase "prorata-service/internal/service/auth"
	billingUsecase "prorata-service/internal/service/billing"
	productUsecase "prorata-service/internal/service/product"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	log.Println("[POSTGRES] Connected successfully")

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       s.cfg.RedisDB,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Println("[REDIS] Connected successfully")

	// ----- Uploads dir -----
	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload dir: %w", err)
	}

	// ----- Token Manager -----
	tokenManager, err := token.NewManager(s.cfg.Token)
	if err != nil {
		return fmt.Errorf("failed to build token manager: %w", err)
	}

	// ----- Session Manager & Rate Limiter -----
	sessionManager := session.NewManager(redisClient)
	rateLimiter := session.NewRateLimiter(redisClient)

	// ----- Repositories -----
	authRepo := postgres.NewAuthRepository(pool)
	memberRepo := postgres.NewMemberRepository(pool)
	subscriptionRepo := postgres.NewSubscriptionRepository(pool)
	productRepo := postgres.NewProductRepository(pool)

	// ----- Services -----
	authService := authUsecase.NewAuthService(authRepo, tokenManager, sessionManager, rateLimiter, logger)
	billingService := billingUsecase.NewService(memberRepo, subscriptionRepo, logger)
	productService := productUsecase.NewProductService(productRepo, logger)

	// ----- Handlers -----
	authHandlerInst := authHandler.NewAuthHandler(authService, logger)
	billingHandlerInst := billingHandler.NewBillingHandler(billingService)
	productHandlerInst := productHandler.NewProductHandler(productService, s.cfg.UploadDir, logger)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(authService)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		AuthHandler:    authHandlerInst,
		BillingHandler: billingHandlerInst,
		ProductHandler: productHandlerInst,
		AuthMiddleware: authMiddleware,
		AuthService:    authService,
	}
	SetupRouter(s.engine, logger, s.cfg.UploadDir, handlers)

	// ----- Start HTTP -----
	log.Printf("Server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}
