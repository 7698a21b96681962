package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"coinchat-backend/internal/config"
	"coinchat-backend/internal/handlers"
)

// RouterDependencies holds all the dependencies required by the router setup,
// primarily handlers and configuration.
type RouterDependencies struct {
	ChatHandler  *handlers.ChatHandlers
	PriceHandler *handlers.PriceHandlers
	Config       *config.Config
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// The chat pipeline may spend up to maxAttempts * upstream timeout plus
	// the retry delays on a single request; the request timeout must not
	// undercut that.
	r.Use(middleware.Timeout(2 * time.Minute))
	r.Use(middleware.Throttle(deps.Config.MaxConcurrentRequests))

	// --- CORS Configuration ---
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173", "https://*.vercel.app"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "session-id"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	// --- Liveness & Telemetry ---
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("coinchat proxy is running"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// --- Proxy Routes ---
	r.Route("/proxy", func(r chi.Router) {
		r.Post("/chat", deps.ChatHandler.HandleProxyChat)
		r.Get("/cmc/prices", deps.PriceHandler.HandleGetPrices)
	})

	return r
}
