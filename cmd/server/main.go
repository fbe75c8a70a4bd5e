package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"ridenow/internal/app"
	"ridenow/internal/config"
	"ridenow/internal/handler"
	internalRedis "ridenow/internal/redis"
	"ridenow/internal/repository/postgres"
	"ridenow/internal/service"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic first so the database driver can be instrumented.
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logrus.WithError(err).Warn("failed to initialize New Relic")
		} else {
			logrus.WithField("app", cfg.NewRelic.AppName).Info("New Relic enabled")
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()
	logrus.Info("connected to PostgreSQL")

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to redis")
	}
	defer redisClient.Close()
	logrus.Info("connected to Redis")

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		logrus.WithField("port", cfg.Server.Port).Info("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server error")
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Fatal("server forced to shutdown")
	}

	logrus.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Repositories.
	transactor := postgres.NewTransactor(db)
	userRepo := postgres.NewUserRepository(db)
	driverRepo := postgres.NewDriverRepository(db)
	rideRepo := postgres.NewRideRepository(db)
	walletRepo := postgres.NewWalletRepository(db)
	txnRepo := postgres.NewTransactionRepository(db)

	// Services.
	notificationService := service.NewNotificationService(logrus.StandardLogger())
	fareService := service.NewFareService(service.DefaultFareConfig())
	ledgerService := service.NewLedgerService(transactor, walletRepo, txnRepo)
	rideService := service.NewRideService(transactor, rideRepo, driverRepo, walletRepo, fareService, notificationService)
	dispatchService := service.NewDispatchService(lockStore, cacheStore, driverRepo, rideRepo, rideService)
	driverService := service.NewDriverService(driverRepo, cacheStore)
	userService := service.NewUserService(transactor, userRepo)

	// Handlers.
	authHandler := handler.NewAuthHandler(userService, cfg.Auth.JWTSecret)
	rideHandler := handler.NewRideHandler(rideService, dispatchService)
	driverHandler := handler.NewDriverHandler(driverService)
	walletHandler := handler.NewWalletHandler(walletRepo, ledgerService)

	// Router.
	router := app.NewRouter(app.RouterDeps{
		AuthHandler:   authHandler,
		RideHandler:   rideHandler,
		DriverHandler: driverHandler,
		WalletHandler: walletHandler,
		RedisClient:   redisClient,
		NewRelicApp:   nrApp,
		JWTSecret:     cfg.Auth.JWTSecret,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
