package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"mangapress/internal/config"
	"mangapress/internal/database"
	"mangapress/internal/http-api/handler"
	"mangapress/internal/http-api/middleware"
	"mangapress/internal/http-api/repository"
	"mangapress/internal/http-api/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("could not load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := database.ConnectMongo(ctx, cfg, logger)
	if err != nil {
		logger.Error("mongodb unavailable", "error", err)
		os.Exit(1)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			logger.Warn("mongodb disconnect failed", "error", err)
		}
	}()

	rdb, err := database.ConnectRedis(ctx, cfg, logger)
	if err != nil {
		logger.Error("redis unavailable", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	// Repositories
	runner := repository.NewTxRunner(mongoClient)
	userRepo := repository.NewUserRepository(db)
	mangaRepo := repository.NewMangaRepository(db)
	chapterRepo := repository.NewChapterRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	eventRepo := repository.NewProcessedEventRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	mangaCache := repository.NewMangaCache(rdb, cfg.CacheTTL)

	// Services
	authService := service.NewAuthService(userRepo, cfg)
	userService := service.NewUserService(userRepo, notifRepo, runner, logger)
	mangaService := service.NewMangaService(mangaRepo, chapterRepo, mangaCache)
	chapterService := service.NewChapterService(chapterRepo, mangaRepo, userRepo, notifRepo, logger)
	coinService := service.NewCoinService(userRepo, txRepo, eventRepo, mangaRepo, notifRepo, runner, logger)
	paymentService := service.NewPaymentService(coinService, cfg, logger)
	commentService := service.NewCommentService(commentRepo, mangaRepo, userRepo)
	notificationService := service.NewNotificationService(notifRepo)

	// Middleware
	authMW := middleware.AuthMiddleware(authService)
	optionalAuthMW := middleware.OptionalAuth(authService)
	loginLimiter := middleware.NewRateLimiter(rate.Every(time.Second), 5)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	usersGroup := api.Group("/users")
	mangaGroup := api.Group("/manga")
	chaptersGroup := api.Group("/chapters")
	commentsGroup := api.Group("/comments")
	coinsGroup := api.Group("/coins")
	paymentsGroup := api.Group("/payments")
	notificationsGroup := api.Group("/notifications")
	adminGroup := api.Group("/admin")

	handler.NewAuthHandler(authService).RegisterRoutes(authGroup, authMW, loginLimiter.Middleware())
	handler.NewUserHandler(userService).RegisterRoutes(usersGroup, authMW)
	handler.NewMangaHandler(mangaService).RegisterRoutes(mangaGroup, authMW)
	handler.NewChapterHandler(chapterService).RegisterRoutes(mangaGroup, chaptersGroup, authMW, optionalAuthMW)
	handler.NewCommentHandler(commentService).RegisterRoutes(mangaGroup, commentsGroup, authMW)
	handler.NewCoinHandler(coinService, paymentService).RegisterRoutes(coinsGroup, authMW)
	handler.NewPaymentHandler(paymentService).RegisterRoutes(paymentsGroup)
	handler.NewNotificationHandler(notificationService).RegisterRoutes(notificationsGroup, authMW)
	handler.NewAdminHandler(userService, coinService).RegisterRoutes(adminGroup, authMW)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		logger.Info("api server listening", "addr", srv.Addr, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
