// Package router sets up all HTTP routes and middleware chains for the
// newsdesk API. Routes are grouped into public, account, authenticated and
// editor-panel groups with the matching middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"newsdesk/internal/handlers"
	"newsdesk/internal/middleware"
	"newsdesk/internal/session"
)

// Handlers bundles the handler groups the routes dispatch to.
type Handlers struct {
	Auth          *handlers.Auth
	Public        *handlers.Public
	Articles      *handlers.Articles
	Sections      *handlers.Sections
	Notifications *handlers.Notifications
	Uploads       *handlers.Uploads
}

// Options tunes the middleware stacks.
type Options struct {
	// SecureCookies sets the Secure flag on the CSRF cookie.
	SecureCookies bool
	// LoginLimiter rate-limits credential endpoints and 2FA verification,
	// each in its own bucket. Nil disables limiting.
	LoginLimiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, h Handlers, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Operational endpoints: no session, no CSRF.
	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.LoadSession(sessionStore))
		r.Use(middleware.NewCSRF(opts.SecureCookies))

		// Public reads.
		r.Get("/home", h.Public.Home)
		r.Get("/sections", h.Public.Sections)
		r.Get("/sections/{slug}", h.Public.Section)
		r.Get("/sections/{slug}/articles", h.Public.SectionArticles)
		r.Get("/articles", h.Public.Articles)
		r.Get("/articles/{id}", h.Public.Article)
		r.Get("/authors/{id}/articles", h.Public.AuthorArticles)

		// Account flows reachable without a session.
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if opts.LoginLimiter != nil {
					r.Use(opts.LoginLimiter.Scope("credentials"))
				}
				r.Post("/login", h.Auth.Login)
				r.Post("/register", h.Auth.Register)
				r.Post("/password/forgot", h.Auth.ForgotPassword)
				r.Post("/password/reset", h.Auth.ResetPassword)
			})
			r.Post("/logout", h.Auth.Logout)

			// A session is required but the second factor may be pending.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/me", h.Auth.Me)
				if opts.LoginLimiter != nil {
					r.With(opts.LoginLimiter.Scope("2fa")).Post("/2fa/verify", h.Auth.TOTPVerify)
				} else {
					r.Post("/2fa/verify", h.Auth.TOTPVerify)
				}
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Use(middleware.Require2FA)
				r.Post("/2fa/setup", h.Auth.TOTPSetup)
				r.Post("/2fa/confirm", h.Auth.TOTPConfirm)
				r.Post("/2fa/disable", h.Auth.TOTPDisable)
			})
		})

		// Signed-in newsroom staff.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Get("/me/articles", h.Articles.Mine)
			r.Post("/articles", h.Articles.Create)
			r.Put("/articles/{id}", h.Articles.Update)
			r.Post("/articles/{id}/submit", h.Articles.Submit)
			r.Post("/articles/{id}/publish", h.Articles.Publish)
			r.Post("/articles/{id}/deactivate", h.Articles.Deactivate)
			r.Put("/articles/{id}/featured", h.Articles.SetFeatured)
			r.Post("/uploads/cover", h.Uploads.Cover)

			r.Get("/notifications", h.Notifications.List)
			r.Post("/notifications/read", h.Notifications.MarkRead)
			r.Get("/notifications/stream", h.Notifications.Stream)

			// Editor panel, editors and admins only.
			r.Route("/panel", func(r chi.Router) {
				r.Use(middleware.RequireReviewer)
				r.Get("/articles", h.Articles.Panel)
				r.Post("/sections", h.Sections.Create)
				r.Put("/sections/{id}", h.Sections.Update)
				r.Delete("/sections/{id}", h.Sections.Delete)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
