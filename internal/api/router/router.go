package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/wolfman30/sitefront/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/sitefront/internal/http/middleware"
	"github.com/wolfman30/sitefront/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	Forms          *handlers.FormsHandler
	Calendly       *handlers.CalendlyHandler
	Book           http.Handler
	MetricsHandler http.Handler
	AllowedOrigin  string
	SubmitLimiter  httpmiddleware.Limiter

	// TrustProxyHeaders takes the client address from X-Forwarded-For /
	// X-Real-IP. Enable only behind a proxy that sets them.
	TrustProxyHeaders bool
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if cfg.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)
	r.Use(httpmiddleware.SecurityHeaders)
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))

	r.Get("/health", healthCheck)
	r.Get("/home", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusPermanentRedirect)
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}
	if cfg.Book != nil {
		r.Get("/book", cfg.Book.ServeHTTP)
	}

	r.Route("/api", func(api chi.Router) {
		api.Use(httpmiddleware.CORS(cfg.AllowedOrigin))

		if cfg.Forms != nil {
			api.Group(func(forms chi.Router) {
				if cfg.SubmitLimiter != nil {
					forms.Use(httpmiddleware.RateLimit(cfg.SubmitLimiter, cfg.Logger))
				}
				forms.Post("/contact", cfg.Forms.Contact)
				forms.Options("/contact", handlers.Preflight(http.MethodPost))
				forms.Post("/newsletter", cfg.Forms.Newsletter)
				forms.Options("/newsletter", handlers.Preflight(http.MethodPost))
			})
		}
		if cfg.Calendly != nil {
			api.Post("/webhooks/calendly", cfg.Calendly.Webhook)
			api.Options("/webhooks/calendly", handlers.Preflight(http.MethodPost))
			api.Get("/calendly/scheduling-url", cfg.Calendly.SchedulingURL)
			api.Options("/calendly/scheduling-url", handlers.Preflight(http.MethodGet))
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
