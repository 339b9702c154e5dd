// Package main initializes and starts the HumiTrack remote store server,
// setting up configuration, logging, database connections, repositories,
// services, handlers, and optional TLS.
package main

import (
	"cmp"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/HumiTrack/internal/auth"
	"github.com/atinyakov/HumiTrack/internal/config"
	"github.com/atinyakov/HumiTrack/internal/db"
	"github.com/atinyakov/HumiTrack/internal/logger"
	"github.com/atinyakov/HumiTrack/internal/ratelimit"
	"github.com/atinyakov/HumiTrack/internal/repository"
	"github.com/atinyakov/HumiTrack/internal/server/handler/http"
	"github.com/atinyakov/HumiTrack/internal/service"
	"github.com/atinyakov/HumiTrack/internal/validation"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()
	addr := options.Port

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	var logOpts []logger.Option
	if options.LogFile != "" {
		logOpts = append(logOpts, logger.WithFile(options.LogFile, 100, 5))
	}
	log := logger.New(logOpts...)
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer postgresDB.Close()

	// Purge expired sessions in the background.
	db.StartSessionCleaner(ctx, postgresDB, options.CleanupInterval.Duration, zapLogger)

	tokenKey := options.TokenKey
	if tokenKey == "" {
		tokenKey = randomKey()
		zapLogger.Warn("no token key configured, using an ephemeral key; tokens will not survive a restart")
	}
	tokens, err := auth.NewTokenService(tokenKey, options.TokenTTL.Duration)
	if err != nil {
		zapLogger.Fatal("invalid token key", zap.Error(err))
	}

	// Initialize repositories.
	authRepo := repository.NewPostgresAuthRepository(postgresDB)
	cigarRepo := repository.NewPostgresCigarRepository(postgresDB)
	noteRepo := repository.NewPostgresTastingNoteRepository(postgresDB)
	tagRepo := repository.NewPostgresUserTagRepository(postgresDB)
	humidorRepo := repository.NewPostgresHumidorRepository(postgresDB)

	// Initialize business-logic services.
	v := validation.New()
	authService := service.NewAuthService(authRepo, tokens, v)
	collectionService := service.NewCollectionService(cigarRepo, noteRepo, tagRepo, humidorRepo, v)

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{AuthService: authService, Log: zapLogger}
	collectionHandler := &http.CollectionHandler{Service: collectionService, Log: zapLogger}

	limiter := ratelimit.New(options.AuthRateLimit, max(1, int(options.AuthRateLimit)*2), 10*time.Minute)
	defer limiter.Stop()

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, collectionHandler, authService, limiter, options.Origins(), zapLogger)

	server := &nethttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if options.TLSCert != "" && options.TLSKey != "" {
			zapLogger.Info("starting HTTPS server", zap.String("addr", addr))
			errCh <- server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
			return
		}
		zapLogger.Info("starting HTTP server", zap.String("addr", addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		zapLogger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}

func randomKey() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
