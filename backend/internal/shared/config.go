// ============================================================================
// backend/internal/shared/config.go
// Shared configuration management and environment variable helpers
// ============================================================================

package shared

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// ============================================================================
// Configuration Structs
// ============================================================================

// ServiceConfig holds configuration common to every process
type ServiceConfig struct {
	ServiceName string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// RecordsConfig holds configuration for the record lookup service
type RecordsConfig struct {
	ServiceConfig
	ServicePort string

	MongoDB MongoConfig
	GRPC    GRPCConfig

	// Collection holding one document per student
	Collection string
	// Identity fields tried in order when looking a student up
	LookupColumns []string
}

// GRPCConfig holds gRPC-specific configuration
type GRPCConfig struct {
	MaxRecvMsgSize int // Maximum receive message size in bytes
	MaxSendMsgSize int // Maximum send message size in bytes
}

// GatewayConfig holds gateway-specific configuration
type GatewayConfig struct {
	ServiceConfig
	HTTPPort string

	RecordsServiceAddr    string
	RecordsRequestTimeout time.Duration

	// Path to the report layout; empty uses the bundled default
	ReportConfigPath string

	Session SessionConfig
	CORS    CORSConfig
}

// SessionConfig holds settings for the search-to-results handoff cookie
type SessionConfig struct {
	Secret       string
	Timeout      time.Duration
	CookieSecure bool
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int // in seconds
}

// ============================================================================
// Configuration Loading Functions
// ============================================================================

// LoadEnv loads environment variables from .env file. It runs before any
// logger exists, so callers log the outcome once theirs is built.
func LoadEnv(envFile string) error {
	if envFile == "" {
		envFile = ".env"
	}

	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	return nil
}

// LogEnvResult reports how LoadEnv went. A missing file is not fatal; the
// process falls back to the system environment.
func LogEnvResult(logger *zap.Logger, envFile string, err error) {
	if err != nil {
		logger.Warn("env file not loaded, using system environment variables",
			zap.String("file", envFile), zap.Error(err))
		return
	}
	logger.Info("loaded environment", zap.String("file", envFile))
}

// LoadServiceConfig loads common service configuration from environment
func LoadServiceConfig(serviceName string) *ServiceConfig {
	return &ServiceConfig{
		ServiceName: serviceName,
		Environment: GetEnv("ENVIRONMENT", "development"),
		LogLevel:    GetEnv("LOG_LEVEL", "info"),
	}
}

// LoadMongoConfig loads MongoDB configuration from environment
func LoadMongoConfig() (*MongoConfig, error) {
	mongoURI := GetEnv("MONGO_URI", "")
	if mongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI environment variable is required")
	}

	return &MongoConfig{
		URI:            mongoURI,
		Database:       GetEnv("MONGO_DB_NAME", DefaultDatabaseName),
		ConnectTimeout: GetDurationEnv("MONGO_CONNECT_TIMEOUT", 20*time.Second),
		MaxPoolSize:    uint64(GetIntEnv("MONGO_MAX_POOL_SIZE", 50)),
		MinPoolSize:    uint64(GetIntEnv("MONGO_MIN_POOL_SIZE", 0)),
		MaxIdleTime:    GetDurationEnv("MONGO_MAX_IDLE_TIME", 30*time.Second),
	}, nil
}

// LoadRecordsConfig loads record service configuration
func LoadRecordsConfig() (*RecordsConfig, error) {
	mongoCfg, err := LoadMongoConfig()
	if err != nil {
		return nil, err
	}

	return &RecordsConfig{
		ServiceConfig: *LoadServiceConfig(RecordsServiceName),
		ServicePort:   GetEnv("RECORDS_SERVICE_PORT", DefaultRecordsServicePort),
		MongoDB:       *mongoCfg,
		GRPC: GRPCConfig{
			MaxRecvMsgSize: GetIntEnv("GRPC_MAX_RECV_MSG_SIZE", 4*1024*1024), // 4MB
			MaxSendMsgSize: GetIntEnv("GRPC_MAX_SEND_MSG_SIZE", 4*1024*1024), // 4MB
		},
		Collection:    GetEnv("MONGO_COLLECTION", DefaultCollectionName),
		LookupColumns: GetStringSliceEnv("RECORDS_LOOKUP_COLUMNS", []string{"Student ID", "student_id"}),
	}, nil
}

// LoadGatewayConfig loads gateway-specific configuration
func LoadGatewayConfig() *GatewayConfig {
	config := &GatewayConfig{
		ServiceConfig: *LoadServiceConfig(GatewayServiceName),
		HTTPPort:      GetEnv("HTTP_PORT", DefaultGatewayHTTPPort),

		RecordsServiceAddr:    GetEnv("RECORDS_SERVICE_ADDR", "localhost:"+DefaultRecordsServicePort),
		RecordsRequestTimeout: GetDurationEnv("RECORDS_REQUEST_TIMEOUT", 5*time.Second),

		ReportConfigPath: GetEnv("REPORT_CONFIG", ""),
	}

	config.Session = SessionConfig{
		Secret:       GetEnv("SESSION_SECRET", ""),
		Timeout:      GetDurationEnv("SESSION_TIMEOUT", 30*time.Minute),
		CookieSecure: GetBoolEnv("SESSION_COOKIE_SECURE", false),
	}

	config.CORS = CORSConfig{
		AllowedOrigins:   GetStringSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		AllowedMethods:   GetStringSliceEnv("CORS_ALLOWED_METHODS", []string{"GET", "POST", "DELETE", "OPTIONS"}),
		AllowedHeaders:   GetStringSliceEnv("CORS_ALLOWED_HEADERS", []string{"Accept", "Content-Type", "X-Request-Id"}),
		AllowCredentials: GetBoolEnv("CORS_ALLOW_CREDENTIALS", true),
		MaxAge:           GetIntEnv("CORS_MAX_AGE", 300),
	}

	return config
}

// ============================================================================
// Environment Variable Helper Functions
// ============================================================================

// GetEnv retrieves an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetIntEnv retrieves an integer environment variable or returns a default value
func GetIntEnv(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		zap.L().Warn("invalid integer value, using default",
			zap.String("key", key), zap.String("value", valueStr), zap.Int("default", defaultValue))
		return defaultValue
	}

	return value
}

// GetBoolEnv retrieves a boolean environment variable or returns a default value
func GetBoolEnv(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		zap.L().Warn("invalid boolean value, using default",
			zap.String("key", key), zap.String("value", valueStr), zap.Bool("default", defaultValue))
		return defaultValue
	}

	return value
}

// GetDurationEnv retrieves a duration environment variable or returns a default value
// Supports format like "30s", "5m", "1h"
func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		zap.L().Warn("invalid duration value, using default",
			zap.String("key", key), zap.String("value", valueStr), zap.Duration("default", defaultValue))
		return defaultValue
	}

	return value
}

// GetStringSliceEnv retrieves a comma-separated string list or returns a default value
func GetStringSliceEnv(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var result []string
	for _, part := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}

// ============================================================================
// Configuration Validation
// ============================================================================

// ValidateRecordsConfig validates record service configuration
func ValidateRecordsConfig(config *RecordsConfig) error {
	if config.ServicePort == "" {
		return fmt.Errorf("service port is required")
	}

	if config.MongoDB.URI == "" {
		return fmt.Errorf("MongoDB URI is required")
	}

	if config.MongoDB.Database == "" {
		return fmt.Errorf("MongoDB database name is required")
	}

	if config.Collection == "" {
		return fmt.Errorf("MongoDB collection name is required")
	}

	if len(config.LookupColumns) == 0 {
		return fmt.Errorf("at least one lookup column is required")
	}

	return nil
}

// ValidateGatewayConfig validates gateway configuration
func ValidateGatewayConfig(config *GatewayConfig) error {
	if config.HTTPPort == "" {
		return fmt.Errorf("HTTP port is required")
	}

	if config.RecordsServiceAddr == "" {
		return fmt.Errorf("records service address is required")
	}

	if config.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET environment variable is required")
	}

	if config.Session.Timeout <= 0 {
		return fmt.Errorf("session timeout must be positive")
	}

	return nil
}

// ============================================================================
// Environment-Specific Configuration
// ============================================================================

// IsDevelopment checks if running in development environment
func IsDevelopment(config *ServiceConfig) bool {
	return config.Environment == "development"
}

// IsProduction checks if running in production environment
func IsProduction(config *ServiceConfig) bool {
	return config.Environment == "production"
}

// GetLogLevel returns the configured log level
func GetLogLevel(config *ServiceConfig) string {
	switch config.LogLevel {
	case "debug", "info", "warn", "error":
		return config.LogLevel
	}
	return "info" // Default
}

// ============================================================================
// Configuration Printing
// ============================================================================

// PrintRecordsConfig logs record service configuration (sanitized)
func PrintRecordsConfig(logger *zap.Logger, config *RecordsConfig) {
	logger.Info("records configuration",
		zap.String("service_port", config.ServicePort),
		zap.String("environment", config.Environment),
		zap.String("log_level", config.LogLevel),
		zap.String("database", config.MongoDB.Database),
		zap.String("collection", config.Collection),
		zap.Strings("lookup_columns", config.LookupColumns),
		zap.Uint64("max_pool_size", config.MongoDB.MaxPoolSize),
		zap.Uint64("min_pool_size", config.MongoDB.MinPoolSize),
		zap.Int("grpc_max_recv_msg_size", config.GRPC.MaxRecvMsgSize),
		zap.Int("grpc_max_send_msg_size", config.GRPC.MaxSendMsgSize),
	)
}

// PrintGatewayConfig logs gateway configuration (sanitized)
func PrintGatewayConfig(logger *zap.Logger, config *GatewayConfig) {
	logger.Info("gateway configuration",
		zap.String("http_port", config.HTTPPort),
		zap.String("environment", config.Environment),
		zap.String("log_level", config.LogLevel),
		zap.String("records_service", config.RecordsServiceAddr),
		zap.Duration("records_timeout", config.RecordsRequestTimeout),
		zap.String("report_config", config.ReportConfigPath),
		zap.Duration("session_timeout", config.Session.Timeout),
		zap.Bool("session_cookie_secure", config.Session.CookieSecure),
		zap.Strings("cors_allowed_origins", config.CORS.AllowedOrigins),
		zap.Bool("cors_allow_credentials", config.CORS.AllowCredentials),
	)
}

// ============================================================================
// Defaults
// ============================================================================

// Service names as they appear in logs.
const (
	RecordsServiceName = "records-service"
	GatewayServiceName = "gateway"
)

const (
	DefaultGatewayHTTPPort    = "8080"
	DefaultRecordsServicePort = "50051"
	DefaultDatabaseName       = "gradebook"
	DefaultCollectionName     = "students"
)
