// ============================================================================
// backend/cmd/records/main.go
// Entry point for the Record Service
// ============================================================================

package main

import (
	"context"
	"errors"
	"log"
	"net"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"gradelookup/backend/internal/records"
	"gradelookup/backend/internal/shared"
)

func main() {
	// Load environment variables
	envErr := shared.LoadEnv(".env")

	// The logger comes first so config warnings go through zap
	logger, err := shared.NewLogger(shared.LoadServiceConfig(shared.RecordsServiceName))
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	undo := zap.ReplaceGlobals(logger)
	defer undo()
	shared.LogEnvResult(logger, ".env", envErr)

	// Load service configuration
	config, err := shared.LoadRecordsConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Validate configuration
	if err := shared.ValidateRecordsConfig(config); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	// Print configuration in development mode
	if shared.IsDevelopment(&config.ServiceConfig) {
		shared.PrintRecordsConfig(logger, config)
	}

	// Connect to MongoDB
	mongoClient, db, err := shared.ConnectMongoDB(&config.MongoDB, logger)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := shared.DisconnectMongoDB(mongoClient); err != nil {
			logger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()

	// Create gRPC server with configuration
	grpcServer := grpc.NewServer(
		grpc.MaxRecvMsgSize(config.GRPC.MaxRecvMsgSize),
		grpc.MaxSendMsgSize(config.GRPC.MaxSendMsgSize),
		grpc.UnaryInterceptor(records.LoggingInterceptor(logger)),
	)

	// Initialize and register Record Service
	store := records.NewMongoStore(db, config.Collection, config.LookupColumns)
	records.RegisterRecordServiceServer(grpcServer, records.NewRecordService(store, logger))

	// Register health check service
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(records.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	// Register reflection service (useful for debugging with grpcurl)
	reflection.Register(grpcServer)

	listener, err := net.Listen("tcp", ":"+config.ServicePort)
	if err != nil {
		logger.Fatal("Failed to listen", zap.String("port", config.ServicePort), zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Record Service is listening", zap.String("port", config.ServicePort))
		if err := grpcServer.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down Record Service...")
		healthServer.SetServingStatus(records.ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		grpcServer.GracefulStop()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Record Service failed", zap.Error(err))
	}
	logger.Info("Record Service stopped")
}
