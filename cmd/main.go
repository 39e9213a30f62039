package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/handler"
	"github.com/Shalinisinha22/ewa-back/internal/middleware"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/notify"
	"github.com/Shalinisinha22/ewa-back/internal/payment"
	"github.com/Shalinisinha22/ewa-back/internal/repository"
	"github.com/Shalinisinha22/ewa-back/internal/resolver"
	"github.com/Shalinisinha22/ewa-back/internal/service"
	"github.com/Shalinisinha22/ewa-back/pkg/config"
	"github.com/Shalinisinha22/ewa-back/pkg/database"
	"github.com/Shalinisinha22/ewa-back/pkg/jwtutil"
	"github.com/Shalinisinha22/ewa-back/pkg/logger"
	"github.com/Shalinisinha22/ewa-back/prometheus"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const serviceName = "ewa-back"

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()
	log.Info("Starting service...", cfg.LogConfig()...)

	db, err := database.InitDB(&cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.MigrateModels(db, model.All()...); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get database handle", zap.Error(err))
	}
	log.Info("Database connection established")

	var cache resolver.Cache = resolver.NopCache{}
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warn("Redis unreachable, store lookups will not be cached", zap.Error(err))
		}
		cache = resolver.NewRedisCache(redisClient, cfg.Redis.CacheTTL, log)
		log.Info("Store lookup cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	// Repositories
	stores := repository.NewStoreRepository(db)
	admins := repository.NewAdminRepository(db)
	customers := repository.NewCustomerRepository(db)
	catalog := repository.NewCatalogRepository(db)
	orders := repository.NewOrderRepository(db)

	storeResolver := resolver.New(stores, cache, resolver.Options{
		APISubdomain: cfg.Store.APISubdomain,
		AllowDefault: cfg.Store.AllowDefaultStore,
	}, log)
	tokens := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      cfg.JWT.SigningKey,
		ExpirationHours: cfg.JWT.ExpirationHours,
	})
	notifier := notify.NewNotifier(notify.NewMailer(cfg.Mail, log), log)

	// Services
	settings := service.NewSettingsService(repository.NewSettingsRepository(db), log)
	orderService := service.NewOrderService(db, orders, catalog, customers, settings, notifier, log)
	h := &handler.Handler{
		Stores:    service.NewStoreService(stores, admins, storeResolver, notifier, log),
		Auth:      service.NewAuthService(stores, admins, customers, tokens, log),
		Catalog:   service.NewCatalogService(catalog, log),
		Orders:    orderService,
		Customers: service.NewCustomerService(customers, log),
		Settings:  settings,
		Invoices:  service.NewInvoiceService(repository.NewInvoiceRepository(db), orders, log),
		Payments:  service.NewPaymentService(payment.NewClient(cfg.Payment), orderService, stores, log),
		Content:   service.NewContentService(repository.NewContentRepository(db), log),
		Wishlist:  service.NewWishlistService(repository.NewWishlistRepository(db), catalog, log),
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apperror.HTTPErrorHandler(log)
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	// Apply global middleware - order matters
	if cfg.Metrics.Enabled {
		e.Use(prometheus.NewHTTPMetrics(cfg.ServiceName).Middleware())
	}
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept,
			echo.HeaderAuthorization, middleware.HeaderStoreID,
		},
	}))
	e.Use(echomiddleware.BodyLimit(cfg.Server.BodyLimit))

	e.GET("/health", handler.HealthCheck(cfg.ServiceName, sqlDB))
	if cfg.Metrics.Enabled {
		e.GET(cfg.Metrics.Path, echo.WrapHandler(prometheus.GetPrometheusHandler()))
	}
	handler.RegisterRoutes(e, h, storeResolver, middleware.NewGate(tokens, admins, customers))

	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("Failed to close database", zap.Error(err))
	}
	log.Info("Server stopped")
}
