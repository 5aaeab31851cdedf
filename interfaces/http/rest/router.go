package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"stayhub-backend/application/services"
	"stayhub-backend/infrastructure/cache"
	"stayhub-backend/infrastructure/config"
	"stayhub-backend/interfaces/http/rest/handlers"
	"stayhub-backend/interfaces/http/rest/middleware"
	"stayhub-backend/pkg/observability"
	"stayhub-backend/pkg/ratelimit"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg            *config.Config
	searchService  *services.SearchService
	listingService *services.ListingService
	refService     *services.ReferenceService
	monitor        *cache.Monitor
	limiter        *ratelimit.Limiter
	store          cache.Store
	metrics        *observability.Metrics
	logger         *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	searchService *services.SearchService,
	listingService *services.ListingService,
	refService *services.ReferenceService,
	monitor *cache.Monitor,
	limiter *ratelimit.Limiter,
	store cache.Store,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:            cfg,
		searchService:  searchService,
		listingService: listingService,
		refService:     refService,
		monitor:        monitor,
		limiter:        limiter,
		store:          store,
		metrics:        metrics,
		logger:         logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.stayhub.app"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "X-Cache", "X-RateLimit-Remaining"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	if rt.cfg.EnableMetrics {
		router.Handle("/metrics", rt.metrics.Handler())
	}

	burst := ratelimit.Config{
		Window:      rt.cfg.RateLimitBurstSpan,
		MaxRequests: rt.cfg.RateLimitBurst,
	}
	sustained := ratelimit.Config{
		Window:      time.Minute,
		MaxRequests: rt.cfg.RateLimitPerMinute,
	}

	// API routes
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(rt.limiter, burst, sustained))

		r.Get("/search", handlers.NewSearchHandler(rt.searchService, rt.logger).Search)

		r.Get("/references", handlers.NewReferenceHandler(rt.refService, rt.logger).ListReferences)

		r.Route("/listings", func(r chi.Router) {
			listingHandler := handlers.NewListingHandler(rt.listingService, rt.logger)
			r.Post("/", listingHandler.CreateListing)
			r.Get("/{listingID}", listingHandler.GetListing)
			r.Put("/{listingID}", listingHandler.UpdateListing)
			r.Delete("/{listingID}", listingHandler.DeleteListing)
		})
	})

	// Admin surface: cache monitoring and tuning
	router.Route("/admin/cache", func(r chi.Router) {
		adminHandler := handlers.NewCacheAdminHandler(rt.monitor, rt.logger)
		r.Get("/metrics", adminHandler.GetMetrics)
		r.Get("/health", adminHandler.GetHealth)
		r.Get("/alerts", adminHandler.GetAlertHistory)
		r.Post("/alerts/check", adminHandler.CheckAlerts)
		r.Put("/thresholds", adminHandler.UpdateThresholds)
		r.Post("/perf-test", adminHandler.RunPerformanceTest)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck reports degraded when the cache store is unreachable.
// The service still serves traffic in that state because the cache fails
// open, so readiness stays 200 with the store status in the body.
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if rt.store.Available(req.Context()) {
		w.Write([]byte(`{"status":"ready","cache":"connected"}`))
		return
	}
	w.Write([]byte(`{"status":"ready","cache":"disconnected"}`))
}
