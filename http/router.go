package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"loan-predictor/metrics"
	"loan-predictor/service"
)

type RouterConfig struct {
	Service *service.DecisionService
	Metrics *metrics.Metrics
	// Gatherer backs /metrics; nil leaves the endpoint out.
	Gatherer prometheus.Gatherer
	// Limiter guards /loan/predict; nil disables rate limiting.
	Limiter *RateLimiter
}

func NewRouter(cfg RouterConfig) http.Handler {
	loanHandler := NewLoanHandler(cfg.Service)

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog)
	r.Use(middleware.Recoverer)
	if cfg.Metrics != nil {
		r.Use(Instrument(cfg.Metrics))
	}

	r.Get("/healthz", loanHandler.Health)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/loan", func(r chi.Router) {
		r.Get("/schema", loanHandler.Schema)
		r.Group(func(r chi.Router) {
			if cfg.Limiter != nil {
				r.Use(RateLimitMiddleware(cfg.Limiter))
			}
			r.Post("/predict", loanHandler.Predict)
		})
	})

	return r
}
