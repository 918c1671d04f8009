// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"stockpilot-service/internal/config"
	"stockpilot-service/internal/db"
	"stockpilot-service/internal/domain/navigation"
	adminHandler "stockpilot-service/internal/handlers/admin"
	authHandler "stockpilot-service/internal/handlers/auth"
	billingHandler "stockpilot-service/internal/handlers/billing"
	navigationHandler "stockpilot-service/internal/handlers/navigation"
	permissionsHandler "stockpilot-service/internal/handlers/permissions"
	vendorHandler "stockpilot-service/internal/handlers/vendor"
	wsHandler "stockpilot-service/internal/handlers/ws"
	"stockpilot-service/internal/middleware"
	"stockpilot-service/internal/pkg/jwt"
	"stockpilot-service/internal/pkg/session"
	"stockpilot-service/internal/repository/postgres"
	authUsecase "stockpilot-service/internal/service/auth"
	navigationUsecase "stockpilot-service/internal/service/navigation"
	permissionsUsecase "stockpilot-service/internal/service/permissions"
	subscriptionUsecase "stockpilot-service/internal/service/subscription"
	vendorUsecase "stockpilot-service/internal/service/vendor"
	"stockpilot-service/internal/websocket"
	wsHandlers "stockpilot-service/internal/websocket/handler"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
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

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}
	if err := db.Migrate(s.cfg.PostgresDSN); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// ----- Redis -----
	redisCfg := db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	}

	redisClient, err := db.NewRedisClient(redisCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Println("[REDIS] ✅ Connected successfully")

	// ----- Logger -----
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	s.logger = logger

	// ----- JWT Manager -----
	jwtManager, err := jwt.LoadAndBuild(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to load JWT manager: %w", err)
	}

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(pool)
	authRepo := postgres.NewAuthRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	permissionRepo := postgres.NewPermissionRepository(pool)
	subscriptionRepo := postgres.NewSubscriptionRepository(pool, dbWrapper)
	usageRepo := postgres.NewUsageRepository(pool)
	vendorRepo := postgres.NewVendorRepository(pool)

	// ----- Session state, unlock markers, rate limits, lock notices -----
	sessionManager := session.NewManager(redisClient, authRepo)
	unlockStore := session.NewUnlockStore(redisClient, s.cfg.AdminUnlockTTL)
	rateLimiter := session.NewRateLimiter(redisClient)
	noticeGate := session.NewNoticeGate(redisClient, 24*time.Hour)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(jwtManager.Verifier, sessionManager)
	go hub.Run(context.Background())

	// ----- Services (Usecases) -----
	permissionService := permissionsUsecase.NewService(permissionRepo, hub, logger)
	paymentClient := subscriptionUsecase.NewPaystackClient(s.cfg.PaymentBaseURL, s.cfg.PaymentSecretKey)
	subscriptionService := subscriptionUsecase.NewService(
		subscriptionRepo,
		usageRepo,
		paymentClient,
		noticeGate,
		hub,
		s.cfg.FreePlanLimit,
		logger,
	)
	authService := authUsecase.NewAuthService(
		authRepo,
		auditRepo,
		permissionService,
		jwtManager,
		sessionManager,
		unlockStore,
		rateLimiter,
		hub,
		s.cfg.AdminUnlockSecret,
		s.cfg.InactivityTimeout,
		logger,
	)
	navigationService := navigationUsecase.NewService(navigation.Default(), subscriptionService, authService, logger)
	vendorService := vendorUsecase.NewService(vendorRepo, hub, logger)

	// The hub accepts client-reported activity so an open socket keeps
	// the inactivity countdown honest without HTTP round trips.
	hub.RegisterHandler(wsHandlers.NewActivityHandler(authService))

	// ----- Handlers -----
	authHandlerInst := authHandler.NewAuthHandler(authService, logger)
	navigationHandlerInst := navigationHandler.NewNavigationHandler(navigationService, logger)
	billingHandlerInst := billingHandler.NewBillingHandler(subscriptionService, logger)
	permissionsHandlerInst := permissionsHandler.NewPermissionsHandler(permissionService, logger)
	vendorHandlerInst := vendorHandler.NewVendorHandler(vendorService, logger)
	adminHandlerInst := adminHandler.NewAdminHandler(vendorService, auditRepo, logger)
	wsHandlerInst := wsHandler.NewWebSocketHandler(hub, logger)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(jwtManager.Verifier, authService, permissionService)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		AuthHandler:        authHandlerInst,
		NavigationHandler:  navigationHandlerInst,
		BillingHandler:     billingHandlerInst,
		PermissionsHandler: permissionsHandlerInst,
		VendorHandler:      vendorHandlerInst,
		AdminHandler:       adminHandlerInst,
		WSHandler:          wsHandlerInst,
		AuthMiddleware:     authMiddleware,
		SubscriptionGate:   middleware.SubscriptionGate(subscriptionService, logger),
	}
	SetupRouter(s.engine, logger, handlers)

	// ----- Start HTTP -----
	log.Printf("🚀 Server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}
