package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andrewpark0408/SuperFastServer/internal/service"
	"github.com/andrewpark0408/SuperFastServer/pkg/health"
	"github.com/andrewpark0408/SuperFastServer/pkg/middleware"
)

// NewRouter creates a chi router with all review service routes registered.
func NewRouter(
	reviewService *service.ReviewService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsCfg middleware.CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("reviews"))
	r.Use(middleware.Tracing("reviews"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Review API endpoints
	reviewHandler := NewReviewHandler(reviewService, logger)

	r.Route("/reviews", func(r chi.Router) {
		r.Get("/", reviewHandler.ListReviews)
		r.Get("/meta", reviewHandler.GetMetadata)
		r.With(ContentTypeJSON).Post("/", reviewHandler.AddReview)
		r.Put("/{review_id}/helpful", reviewHandler.MarkHelpful)
		r.Put("/{review_id}/report", reviewHandler.ReportReview)
	})

	return r
}
