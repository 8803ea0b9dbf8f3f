// Package main реализует точку входа Calendar Buddy API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"calbuddy/internal/calendar/adapters/cache"
	"calbuddy/internal/calendar/adapters/crypto"
	httpapi "calbuddy/internal/calendar/adapters/http"
	"calbuddy/internal/calendar/adapters/oauth"
	"calbuddy/internal/calendar/adapters/postgres"
	"calbuddy/internal/calendar/adapters/services"
	"calbuddy/internal/calendar/app"
	"calbuddy/internal/calendar/config"
	"calbuddy/internal/calendar/db"
	domain "calbuddy/internal/calendar/domain/services"
	"calbuddy/pkg/logger"
	"calbuddy/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "CALENDAR_LOGGER_MODE"
	EnvLoggerLevel = "CALENDAR_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitCipher           = "failed to initialize cipher"
	ErrInitDB               = "failed to initialize database"
	ErrCreateRedisClient    = "failed to create Redis client"
	ErrStartHTTPServer      = "failed to start HTTP server"
	ErrShutdown             = "graceful shutdown finished with errors"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "calendar service started"
	LogServiceShutdownDone = "calendar service shutdown complete"
	LogClosingDB           = "closing database connections"
	LogClosingRedis        = "closing Redis connection"
	LogStoppingHTTP        = "stopping HTTP server"
	LogInitCache           = "initializing cache"
	LogInitRepo            = "initializing repositories"
	LogInitServices        = "initializing services"
	LogInitUseCases        = "initializing use cases"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
)

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		cipher, err := crypto.NewAESCBC(cfg.Crypto.EncryptionKey)
		if err != nil {
			log.Error(ctx, ErrInitCipher, zap.Error(err))
			exitCode = 1
			return
		}

		database, err := db.New(ctx, &cfg.Postgres)
		if err != nil {
			log.Error(ctx, ErrInitDB, zap.Error(err))
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitCache)
		redisCache, err := cache.NewRedisCache(ctx, &cfg.Redis)
		if err != nil {
			log.Error(ctx, ErrCreateRedisClient, zap.Error(err))
			database.Close(ctx)
			exitCode = 1
			return
		}

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(cfg.Logging.GetEnvironment())),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		log.Info(ctx, LogInitRepo)
		repoFactory := postgres.NewRepositoryFactory(database.Pool())
		eventRepo := repoFactory.EventRepository()
		userRepo := repoFactory.UserRepository()

		log.Info(ctx, LogInitServices)
		sessions := services.NewSessionJWT(domain.SessionConfig{
			SecretKey: []byte(cfg.Session.Secret),
			TTL:       cfg.Session.TTL,
			Issuer:    cfg.Session.Issuer,
		})
		provider := oauth.NewGoogleProvider(&cfg.OAuth)

		log.Info(ctx, LogInitUseCases)
		eventUseCase := app.NewEventUseCase(eventRepo, cipher)
		preferenceUseCase := app.NewPreferenceUseCase(userRepo, redisCache, cfg.Redis.ColorsTTL)
		authUseCase := app.NewAuthUseCase(userRepo, provider, sessions, redisCache, cfg.OAuth.StateTTL)

		log.Info(ctx, LogInitHTTPServer)
		server := httpapi.NewApp(&cfg.HTTP)
		httpapi.SetupRouter(server, httpapi.Services{
			Events:      eventUseCase,
			Preferences: preferenceUseCase,
			Auth:        authUseCase,
		}, cfg)

		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
		go func() {
			if err := server.Listen(cfg.HTTP.GetAddress()); err != nil {
				log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
			}
		}()

		// Хранилища закрываются только после остановки HTTP сервера.
		err = shutdown.Wait(ctx, cfg.Shutdown.GetTimeout(),
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingHTTP)
				httpErr := server.ShutdownWithContext(ctx)

				log.Info(ctx, LogClosingRedis)
				redisErr := redisCache.Close()

				log.Info(ctx, LogClosingDB)
				database.Close(ctx)

				return errors.Join(httpErr, redisErr)
			},
		)
		if err != nil {
			log.Error(ctx, ErrShutdown, zap.Error(err))
			exitCode = 1
		}

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
