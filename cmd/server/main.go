package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contractor_connect/internal/config"
	"contractor_connect/internal/handler"
	"contractor_connect/internal/jobs"
	"contractor_connect/internal/logger"
	"contractor_connect/internal/metrics"
	"contractor_connect/internal/middleware"
	"contractor_connect/internal/otp"
	"contractor_connect/internal/repository"
	"contractor_connect/internal/service"
	"contractor_connect/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	configDir := flag.String("config", ".", "directory holding app.env / .env")
	flag.Parse()

	// --- Configuration ---
	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	logger.Setup(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})

	if err := os.MkdirAll(cfg.UploadsDir, os.ModePerm); err != nil {
		logrus.Fatalf("Failed to create uploads directory %s: %v", cfg.UploadsDir, err)
	}
	logrus.Infof("Uploads will be stored in: %s", cfg.UploadsDir)

	// --- Database Connection ---
	ctx := context.Background()
	dbPool, err := config.ConnectDB(ctx, cfg.DSN())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	if err := config.RunMigrations(cfg.MigrationURL, cfg.DSN()); err != nil {
		logrus.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecretKey, cfg.AccessTokenTTL(), cfg.RefreshTokenTTL())
	sender, err := otp.NewSender(cfg.OTPProvider, cfg.OTPWebhookURL)
	if err != nil {
		logrus.Fatalf("Failed to configure OTP sender: %v", err)
	}
	logrus.Infof("OTP codes delivered via %s", sender.Name())

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	otpRepo := repository.NewOTPRepository(dbPool)
	requestRepo := repository.NewRequestRepository(dbPool)
	bidRepo := repository.NewBidRepository(dbPool)

	// --- Initialize Services ---
	otpService := service.NewOTPService(otpRepo, sender, service.OTPSettings{
		Length:     cfg.OTPLength,
		TTL:        cfg.OTPTTL(),
		RateLimit:  cfg.OTPRateLimit,
		RateWindow: cfg.OTPRateWindow(),
	})
	authService := service.NewAuthService(userRepo, otpService, jwtUtil, cfg.InitialAdminPhone)
	userService := service.NewUserService(userRepo)
	requestService := service.NewRequestService(requestRepo, cfg.UploadsDir)
	bidService := service.NewBidService(bidRepo, requestRepo)

	// --- Initialize Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	requestHandler := handler.NewRequestHandler(requestService)
	bidHandler := handler.NewBidHandler(bidService)

	// --- Scheduled Jobs ---
	authLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	scheduler := jobs.NewScheduler(time.Minute)
	if err := scheduler.AddOTPCleanup(cfg.OTPCleanupSchedule, otpService, cfg.OTPRetention()); err != nil {
		logrus.Fatalf("Failed to schedule OTP cleanup: %v", err)
	}
	if err := scheduler.AddVisitorCleanup("@every 10m", authLimiter); err != nil {
		logrus.Fatalf("Failed to schedule rate limiter cleanup: %v", err)
	}
	scheduler.Start()

	// --- Setup Gin Router ---
	if logrus.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), metrics.Instrument(), middleware.CORS())

	// --- Initialize Middlewares ---
	jwtAuthMW := middleware.JWTAuthMiddleware(jwtUtil)
	societyMW := middleware.SocietyMiddleware()
	contractorMW := middleware.ContractorMiddleware()

	// --- Register Routes ---
	apiGroup := router.Group("/api/v1")
	authHandler.RegisterAuthRoutes(apiGroup, authLimiter.Handler())
	userHandler.RegisterUserRoutes(apiGroup, jwtAuthMW)
	requestHandler.RegisterRequestRoutes(apiGroup, jwtAuthMW, societyMW, contractorMW)
	bidHandler.RegisterBidRoutes(apiGroup, jwtAuthMW, societyMW, contractorMW)

	router.Static("/uploads", cfg.UploadsDir)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/health", func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := dbPool.Ping(pingCtx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.Infof("Server starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("listen: %s", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	scheduler.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exiting")
}
