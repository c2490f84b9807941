package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lpxcollect/lpx_api/internal/cache"
	"github.com/lpxcollect/lpx_api/internal/config"
	"github.com/lpxcollect/lpx_api/internal/database"
	"github.com/lpxcollect/lpx_api/internal/handler"
	"github.com/lpxcollect/lpx_api/internal/middleware"
	"github.com/lpxcollect/lpx_api/internal/repository"
	"github.com/lpxcollect/lpx_api/internal/service"
	"github.com/lpxcollect/lpx_api/internal/sse"
	"github.com/lpxcollect/lpx_api/internal/utils"
	"github.com/lpxcollect/lpx_api/internal/worker"
	"github.com/lpxcollect/lpx_api/pkg/lpxpay"
)

// main is the application entrypoint for the LPX Collect marketplace API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting lpx api")

	utils.SetJWTSecret(cfg.JWTSecret)

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Initialize view counter buffer
	viewCounter := cache.NewViewCounter(redisClient)

	// 4. Initialize payout gateway client
	payoutGateway := lpxpay.NewClient(cfg.LPXPay.BaseURL, cfg.LPXPay.MerchantID, cfg.LPXPay.APISecret)

	// 5. Initialize repositories
	clientRepo := repository.NewClientRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRequestRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	// 6. Initialize SSE hub for admin event streaming
	hub := sse.NewHub()
	notifier := sse.NewHubNotifier(hub)

	// 7. Initialize services
	authSvc := service.NewAuthService(clientRepo)
	adminAuthSvc := service.NewAdminAuthService(adminRepo)
	clientSvc := service.NewClientService(clientRepo)
	vendorSvc := service.NewVendorService(vendorRepo, productRepo)
	statsSvc := service.NewVendorStatsService(vendorRepo, productRepo)
	productSvc := service.NewProductService(productRepo, vendorRepo, categoryRepo, viewCounter)
	productMgmtSvc := service.NewProductManagementService(productRepo, vendorRepo, categoryRepo)
	orderSvc := service.NewOrderService(orderRepo, productRepo, vendorRepo, notifier)
	paymentSvc := service.NewPaymentRequestService(paymentRepo, orderRepo, vendorRepo, cfg.Commission.Rate)

	// 8. Initialize handlers
	handlers := &Handlers{
		Health:            handler.NewHealthHandler(db, redisClient),
		Auth:              handler.NewAuthHandler(adminAuthSvc),
		Vendor:            handler.NewVendorHandler(vendorSvc, statsSvc),
		Product:           handler.NewProductHandler(productSvc),
		Category:          handler.NewCategoryHandler(productSvc),
		Order:             handler.NewOrderHandler(orderSvc),
		PaymentRequest:    handler.NewPaymentRequestHandler(paymentSvc),
		Client:            handler.NewClientHandler(clientSvc),
		ProductManagement: handler.NewProductManagementHandler(productMgmtSvc),
		AdminStats:        handler.NewAdminStatsHandler(statsRepo),
		SSE:               handler.NewSSEHandler(hub),
		Webhook:           handler.NewWebhookHandler(paymentSvc, notifier, cfg.LPXPay.WebhookSecret),
	}

	// 9. Initialize middleware
	authMw := middleware.NewAuthMiddleware(authSvc)
	jwtMw := middleware.NewJWTMiddleware()

	// 10. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, authMw, jwtMw)

	// 11. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 12. Start workers
	go worker.NewMetricsWorker(vendorRepo, productRepo, viewCounter, cfg.Worker.MetricsInterval).Start(ctx)
	go worker.NewPayoutWorker(paymentRepo, vendorRepo, payoutGateway, cfg.Worker.PayoutInterval).Start(ctx)

	// 13. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 14. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 15. Cancel context to stop workers
	cancel()

	// 16. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health            *handler.HealthHandler
	Auth              *handler.AuthHandler
	Vendor            *handler.VendorHandler
	Product           *handler.ProductHandler
	Category          *handler.CategoryHandler
	Order             *handler.OrderHandler
	PaymentRequest    *handler.PaymentRequestHandler
	Client            *handler.ClientHandler
	ProductManagement *handler.ProductManagementHandler
	AdminStats        *handler.AdminStatsHandler
	SSE               *handler.SSEHandler
	Webhook           *handler.WebhookHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, authMiddleware *middleware.AuthMiddleware, jwtMiddleware *middleware.JWTMiddleware) {
	// Payout gateway webhook
	router.POST("/webhook/lpxpay", handlers.Webhook.HandleLPXPayCallback)

	router.GET("/v1/health", handlers.Health.GetHealth)

	// Public catalog routes
	catalog := router.Group("/v1")
	{
		catalog.GET("/products", handlers.Product.GetProducts)
		catalog.GET("/products/:id", handlers.Product.GetProduct)
		catalog.GET("/categories", handlers.Category.GetCategories)
		catalog.GET("/vendors", handlers.Vendor.GetVendors)
		catalog.GET("/vendors/:id", handlers.Vendor.GetVendor)
		catalog.GET("/vendors/:id/products", handlers.Vendor.GetVendorProducts)
		catalog.GET("/vendors/:id/stats", handlers.Vendor.GetVendorStats)
	}

	// Order routes (protected with client API key)
	orders := router.Group("/v1/orders")
	orders.Use(authMiddleware.Handle())
	{
		orders.POST("", handlers.Order.CreateOrder)
		orders.GET("/:orderId", handlers.Order.GetOrder)
	}

	// Vendor payout routes (protected with client API key)
	vendor := router.Group("/v1/vendor")
	vendor.Use(authMiddleware.Handle())
	{
		vendor.POST("/payment-requests", handlers.PaymentRequest.CreatePaymentRequest)
		vendor.GET("/payment-requests", handlers.PaymentRequest.GetVendorPaymentRequests)
		vendor.GET("/balance", handlers.PaymentRequest.GetVendorBalance)
	}

	// Admin routes
	admin := router.Group("/v1/admin")
	admin.POST("/auth/login", handlers.Auth.Login)
	admin.GET("/events", handlers.SSE.Stream) // JWT via query param
	admin.Use(jwtMiddleware.Handle())
	{
		// Client Management
		admin.POST("/clients", handlers.Client.CreateClient)
		admin.GET("/clients", handlers.Client.ListClients)
		admin.GET("/clients/:id", handlers.Client.GetClient)
		admin.GET("/clients/by-client-id/:client_id", handlers.Client.GetClientByClientID)
		admin.PUT("/clients/:id", handlers.Client.UpdateClient)
		admin.POST("/clients/:id/regenerate", handlers.Client.RegenerateKeys)

		// Catalog Management
		admin.GET("/products", handlers.ProductManagement.ListProducts)
		admin.POST("/products", handlers.ProductManagement.CreateProduct)
		admin.POST("/products/import", handlers.ProductManagement.ImportProducts)
		admin.PUT("/products/:id", handlers.ProductManagement.UpdateProduct)
		admin.DELETE("/products/:id", handlers.ProductManagement.DeleteProduct)
		admin.POST("/vendors", handlers.ProductManagement.CreateVendor)

		// Payment Request Review
		admin.GET("/payment-requests", handlers.PaymentRequest.ListPaymentRequests)
		admin.POST("/payment-requests/:id/review", handlers.PaymentRequest.ReviewPaymentRequest)

		// Platform stats
		admin.GET("/stats", handlers.AdminStats.GetPlatformStats)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
