package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gregroclawski/DataShatter/internal/service"
	"github.com/gregroclawski/DataShatter/pkg/health"
	"github.com/gregroclawski/DataShatter/pkg/middleware"
)

const serviceName = "ninja-master"

// gameEventsMaxAge is how long clients may cache the static event catalog,
// in seconds.
const gameEventsMaxAge = 300

// NewRouter creates a chi router with all API routes registered.
func NewRouter(
	authService *service.AuthService,
	saveService *service.SaveService,
	leaderboardService *service.LeaderboardService,
	gachaService *service.GachaService,
	eventService *service.EventService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsConfig middleware.CORSConfig,
	pprofAllowedCIDRs []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware. RequestLogger sits after Tracing and RequestLogging
	// so the request-scoped logger picks up the correlation and trace IDs.
	r.Use(middleware.CORS(corsConfig))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))

	// Health and metrics endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	middleware.RegisterPprof(r, pprofAllowedCIDRs, logger)

	authHandler := NewAuthHandler(authService, logger)
	gameHandler := NewGameHandler(saveService, leaderboardService, gachaService, eventService, logger)

	requireAuth := middleware.Auth(NewIdentityResolver(authService))

	r.Route("/api", func(r chi.Router) {
		// Public game endpoints
		r.Get("/", gameHandler.Root)
		r.Get("/leaderboard", gameHandler.Leaderboard)
		r.Post("/generate-shuriken", gameHandler.GenerateShuriken)
		r.Post("/generate-pet", gameHandler.GeneratePet)
		r.With(middleware.CacheControl(gameEventsMaxAge)).Get("/game-events", gameHandler.GameEvents)

		// Auth endpoints (public). The session probe reads the cookie itself
		// and reports rather than rejects, so it stays outside the guard.
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/oauth/google", authHandler.OAuthGoogle)
			r.Get("/session/check", authHandler.SessionCheck)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)

				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Save slots (auth required)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Post("/save-game", gameHandler.SaveGame)
			r.Get("/load-game/{playerId}", gameHandler.LoadGame)
		})
	})

	return r
}
