package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/wparames/honeymart/internal/config"
	"github.com/wparames/honeymart/internal/database"
	"github.com/wparames/honeymart/internal/events"
	"github.com/wparames/honeymart/internal/handler"
	"github.com/wparames/honeymart/internal/journal"
	"github.com/wparames/honeymart/internal/lock"
	"github.com/wparames/honeymart/internal/middleware"
	"github.com/wparames/honeymart/internal/repository"
	"github.com/wparames/honeymart/internal/service"
	"github.com/wparames/honeymart/pkg/logger"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.Environment != "production"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	database.Connect(cfg)
	database.Migrate()

	// Redis client shared by the cart, the rate limiter and the write lock
	redisOpt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v", err)
	}
	redisClient := redis.NewClient(redisOpt)
	defer redisClient.Close()

	writeLock := lock.NewRedisLockWithClient(redisClient, 30*time.Second)

	// Refresh journal (read-only here; the refresher writes it)
	jrnl, err := journal.New(cfg.JournalPath)
	if err != nil {
		log.Fatalf("Failed to open refresh journal: %v", err)
	}
	defer jrnl.Close()

	// Event bus for the admin live feed
	eventBus, err := events.NewRedisBus(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to initialize event bus: %v", err)
	}
	defer eventBus.Close()

	// Repositories
	userRepo := repository.NewUserRepository(database.DB)
	productRepo := repository.NewProductRepository(database.DB)

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry, cfg.Environment)
	catalogService := service.NewCatalogService(productRepo)
	cartService := service.NewCartService(redisClient)
	checkoutService := service.NewCheckoutService(database.DB, cartService, writeLock)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	storeHandler := handler.NewStoreHandler(catalogService, cartService, checkoutService)
	adminHandler := handler.NewAdminHandler(authService, catalogService, jrnl)
	feedHandler := handler.NewRefreshFeedHandler(eventBus)

	rateLimiter := middleware.NewRateLimiter(redisClient, middleware.RateLimiterConfig{
		MaxRequests: cfg.RateLimitMaxRequests,
		Window:      cfg.RateLimitWindow,
		BlockTime:   cfg.RateLimitBlockTime,
	})

	// Setup Gin router
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.HSTSMiddleware(authService.IsProduction()))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes (rate limited)
	auth := router.Group("/api/auth")
	auth.Use(rateLimiter.Middleware())
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
	}

	// Customer routes (require session)
	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		api.GET("/products", storeHandler.ListProducts)
		api.GET("/cart", storeHandler.GetCart)
		api.POST("/cart", storeHandler.AddToCart)
		api.DELETE("/cart", storeHandler.ClearCart)
		api.POST("/checkout", storeHandler.Checkout)
		api.GET("/orders", storeHandler.ListOrders)
	}

	// Admin routes
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWTSecret), middleware.AdminMiddleware())
	{
		admin.GET("/products", adminHandler.ListProducts)
		admin.POST("/products", adminHandler.SaveProduct)
		admin.DELETE("/products/:id", adminHandler.DeleteProduct)
		admin.GET("/users", adminHandler.ListUsers)
		admin.GET("/refreshes", adminHandler.ListRefreshes)
		admin.GET("/refreshes/live", feedHandler.Stream)
	}

	log.Printf("Server starting on %s", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
