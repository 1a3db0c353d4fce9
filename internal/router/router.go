package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/itchan-dev/chanfeed/internal/setup"
	mw "github.com/itchan-dev/chanfeed/shared/middleware"
	"github.com/itchan-dev/chanfeed/shared/middleware/metrics"
)

// New creates and configures the router with all the routes.
func New(deps *setup.Dependencies) chi.Router {
	r := chi.NewRouter()

	r.Use(mw.RequestId)
	r.Use(mw.Logging)
	r.Use(metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// JSON API only, no scripts/styles needed
	csp := "default-src 'none'; frame-ancestors 'none'"
	r.Use(mw.SecurityHeadersWithCSP(deps.Config.Public.SecureCookies, csp))

	h := deps.Handler

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", h.Register)
			auth.Post("/login", h.Login)

			auth.Group(func(private chi.Router) {
				private.Use(deps.AuthMiddleware.NeedAuth())
				private.Get("/me", h.Me)
				private.Post("/logout", h.Logout)
			})
		})

		v1.Group(func(private chi.Router) {
			private.Use(deps.AuthMiddleware.NeedAuth())

			private.Get("/users", h.GetUsers)
			private.Post("/users/online-status", h.UpdateOnlineStatus)

			private.Get("/channel/messages", h.GetMessages)
			private.Post("/channel/messages", h.CreateMessage)
			private.Get("/channel/my-messages", h.GetMyMessages)
			private.Get("/channel/user-messages/{userId}", h.GetUserMessages)
			private.Post("/channel/user-messages/{userId}/mark-all-read", h.MarkAllRead)
			private.Post("/channel/messages/{messageId}/like", h.LikeMessage)
			private.Post("/channel/messages/{messageId}/read", h.MarkMessageRead)
			private.Get("/channel/user-latest-messages", h.GetUserLatestMessages)
		})
	})

	// Avoid 404s for preflight requests on unmatched routes
	r.MethodFunc("OPTIONS", "/*", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}
