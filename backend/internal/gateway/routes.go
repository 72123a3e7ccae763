package gateway

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"gradelookup/backend/internal/gateway/handlers"
	"gradelookup/backend/internal/gateway/web"
	"gradelookup/backend/internal/report"
	"gradelookup/backend/internal/session"
	"gradelookup/backend/internal/shared"
)

// Dependencies are the collaborators the gateway routes need.
// A nil Resolver or Builder is served as a configuration error.
type Dependencies struct {
	Resolver handlers.Resolver
	Builder  *report.Builder
	Sessions *session.Store
	Pages    *web.Pages
	Logger   *zap.Logger
}

// SetupRoutes configures the Chi router, middleware, and route handlers.
func SetupRoutes(deps *Dependencies, cfg *shared.GatewayConfig) *chi.Mux {
	r := chi.NewRouter()

	// 1. Global Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	// 2. Initialize Handlers
	lookupHandler := &handlers.LookupHandler{
		Resolver: deps.Resolver,
		Builder:  deps.Builder,
		Sessions: deps.Sessions,
		Pages:    deps.Pages,
		Logger:   deps.Logger,
	}
	healthHandler := &handlers.HealthHandler{Resolver: deps.Resolver, Logger: deps.Logger}

	// 3. Pages
	r.Get("/", lookupHandler.SearchPage)
	r.Post("/search", lookupHandler.Search)
	r.Get("/results", lookupHandler.Results)

	// 4. JSON API
	r.Route("/api", func(r chi.Router) {
		r.Post("/search", lookupHandler.APISearch)
		r.Get("/report", lookupHandler.APIReport)
		r.Delete("/session", lookupHandler.ClearSession)
		r.Get("/health", healthHandler.Health)
	})

	return r
}

// RequestLogger logs one line per request through zap.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				logger.Info("http request",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.String("remote", r.RemoteAddr),
					zap.Duration("elapsed", time.Since(start)),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
