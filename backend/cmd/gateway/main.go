package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gradelookup/backend/internal/gateway"
	"gradelookup/backend/internal/gateway/web"
	"gradelookup/backend/internal/records"
	"gradelookup/backend/internal/report"
	"gradelookup/backend/internal/session"
	"gradelookup/backend/internal/shared"
)

func main() {
	envErr := shared.LoadEnv(".env")

	logger, err := shared.NewLogger(shared.LoadServiceConfig(shared.GatewayServiceName))
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	undo := zap.ReplaceGlobals(logger)
	defer undo()
	shared.LogEnvResult(logger, ".env", envErr)

	config := shared.LoadGatewayConfig()
	if err := shared.ValidateGatewayConfig(config); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	if shared.IsDevelopment(&config.ServiceConfig) {
		shared.PrintGatewayConfig(logger, config)
	}

	pages, err := web.NewPages()
	if err != nil {
		logger.Fatal("Failed to load page templates", zap.Error(err))
	}

	deps := &gateway.Dependencies{
		Sessions: session.NewStore(config.Session.Secret, config.Session.Timeout, config.Session.CookieSecure),
		Pages:    pages,
		Logger:   logger,
	}

	// 1. Report layout. A broken layout is served as a configuration error
	// rather than stopping the gateway.
	layout, err := report.LoadConfig(config.ReportConfigPath)
	if err != nil {
		logger.Error("Failed to load report layout", zap.String("path", config.ReportConfigPath), zap.Error(err))
	} else {
		deps.Builder = report.NewBuilder(layout)
	}

	// 2. Record service client
	client, err := records.Dial(config.RecordsServiceAddr, config.RecordsRequestTimeout)
	if err != nil {
		logger.Error("Failed to create record service client", zap.Error(err))
	} else {
		defer client.Close()
		deps.Resolver = client
	}

	// 3. Setup Routes and Middleware
	router := gateway.SetupRoutes(deps, config)

	server := &http.Server{
		Addr:         ":" + config.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Gateway listening", zap.String("port", config.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down Gateway...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Gateway failed", zap.Error(err))
	}
	logger.Info("Gateway stopped")
}
