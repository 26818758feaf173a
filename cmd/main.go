package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"love-dice/internal/auth"
	"love-dice/internal/catalog"
	"love-dice/internal/config"
	"love-dice/internal/database"
	"love-dice/internal/handlers"
	"love-dice/internal/logging"
	"love-dice/internal/metrics"
	"love-dice/internal/random"
	"love-dice/internal/repository"
	"love-dice/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.App.LogLevel, cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret, cfg.App.TokenTTL)

	// Connect to database
	if err := database.Connect(cfg, logger); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.AutoMigrate(database.GetDB()); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Token revocation is optional
	var revoker auth.Revoker
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		defer rdb.Close()
		revoker = auth.NewRedisRevoker(rdb)
		logger.Info("token revocation enabled", zap.String("addr", cfg.Redis.Addr))
	}

	dares, err := catalog.Load(cfg.Dares.CatalogPath)
	if err != nil {
		logger.Fatal("failed to load dare catalog", zap.Error(err))
	}
	logger.Info("dare catalog loaded",
		zap.String("version", dares.Version()),
		zap.Int("die_sides", dares.DieSides()),
		zap.Strings("genders", dares.Genders()),
	)

	metrics.Register()

	// Initialize repository and services
	repo := repository.NewRepository(database.GetDB())

	authService := services.NewAuthService(repo, revoker, logger)
	userService := services.NewUserService(repo)
	proposalService := services.NewProposalService(repo, logger)
	betService := services.NewBetService(repo, logger)
	dareService := services.NewDareService(repo, dares, random.NewCryptoSource(), cfg.Dares.MaxRolls, logger)
	recapService := services.NewRecapService(repo, logger)

	// Initialize handlers
	h := &handlers.Handlers{
		Auth:     handlers.NewAuthHandler(authService, logger),
		User:     handlers.NewUserHandler(userService, logger),
		Proposal: handlers.NewProposalHandler(proposalService, logger),
		Bet:      handlers.NewBetHandler(betService, logger),
		Dare:     handlers.NewDareHandler(dareService, logger),
		Outcome:  handlers.NewOutcomeHandler(recapService, logger),
	}

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logging.RequestLogger(logger))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterRoutes(router, h, auth.AuthMiddleware(revoker, logger))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
