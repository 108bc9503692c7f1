// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for Braun
// Studio. Tenant hosts are rewritten onto the /w/{slug} routes before any
// routing happens; the dashboard lives under /app behind sessions and CSRF.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/roblesbraun/braunstudio/internal/handlers"
	"github.com/roblesbraun/braunstudio/internal/metrics"
	"github.com/roblesbraun/braunstudio/internal/middleware"
	"github.com/roblesbraun/braunstudio/internal/session"
	"github.com/roblesbraun/braunstudio/internal/tenant"
	"github.com/roblesbraun/braunstudio/web"
)

// Config carries the shared infrastructure the routes are built on.
type Config struct {
	Sessions      *session.Store
	Tenants       *tenant.Resolver
	FormLimiter   *middleware.RateLimiter // guest form posts, per IP
	LoginLimiter  *middleware.RateLimiter // login attempts, per IP
	SecureCookies bool
}

// Handlers groups the handler sets mounted by New.
type Handlers struct {
	Admin  *handlers.Admin
	Couple *handlers.Couple
	Auth   *handlers.Auth
	Public *handlers.Public
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(cfg Config, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request. The tenant resolver must
	// run first so routing sees the rewritten path.
	r.Use(middleware.Recoverer)
	r.Use(cfg.Tenants.Middleware)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(cfg.Sessions))

	r.Get("/health", healthHandler)
	r.Handle("/metrics", metrics.Handler())
	r.Handle("/static/*", staticHandler())

	r.Get("/", h.Public.Landing)

	// Published wedding sites. Tenant hosts land here after the rewrite.
	r.Route("/w/{slug}", func(r chi.Router) {
		weddingRoutes(r, h.Public, cfg.FormLimiter)
	})

	// Previews render any status with simulated effects for the people who
	// manage the wedding.
	r.Route("/preview/{slug}", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(h.Public.PreviewAccess)
		weddingRoutes(r, h.Public, cfg.FormLimiter)
	})

	// Dashboard: sessions plus CSRF protection.
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRF(cfg.SecureCookies))

		r.Get("/login", h.Auth.LoginPage)
		r.With(cfg.LoginLimiter.Middleware).Post("/login", h.Auth.LoginSubmit)
		r.Post("/logout", h.Auth.Logout)

		r.Route("/app", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/", h.Auth.App)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequirePlatformAdmin)
				adminRoutes(r, h.Admin)
			})
			r.Route("/couple", func(r chi.Router) {
				coupleRoutes(r, h.Couple)
			})
		})
	})

	return r
}

// weddingRoutes mounts the page and its guest forms.
func weddingRoutes(r chi.Router, public *handlers.Public, limiter *middleware.RateLimiter) {
	r.Get("/", public.Page)
	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Post("/rsvp/code", public.RSVPCode)
		r.Post("/rsvp", public.RSVP)
		r.Post("/gifts/{giftID}/contribute", public.Contribute)
	})
}

func adminRoutes(r chi.Router, admin *handlers.Admin) {
	r.Get("/", admin.Home)

	r.Route("/api", func(r chi.Router) {
		r.Get("/templates", admin.Templates)
		r.Get("/templates/{templateID}", admin.Template)

		r.Route("/weddings", func(r chi.Router) {
			r.Get("/", admin.ListWeddings)
			r.Post("/", admin.CreateWedding)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", admin.GetWedding)
				r.Patch("/", admin.UpdateWedding)
				r.Delete("/", admin.DeleteWedding)
				r.Put("/theme", admin.UpdateTheme)
				r.Post("/status", admin.UpdateStatus)
				r.Post("/sections/toggle", admin.ToggleSection)
				r.Post("/sections/move", admin.MoveSection)
				r.Post("/logo/{mode}", admin.UploadLogo)
				r.Delete("/logo/{mode}", admin.DeleteLogo)
				r.Get("/guests", admin.Guests)
				r.Post("/guests", admin.AddGuest)
				r.Post("/guests/bulk", admin.ImportGuests)
				r.Patch("/guests/{guestID}", admin.UpdateGuest)
				r.Delete("/guests/{guestID}", admin.RemoveGuest)
				r.Get("/gifts", admin.Gifts)
				r.Get("/qr", admin.QRCode)
			})
		})
	})
}

func coupleRoutes(r chi.Router, couple *handlers.Couple) {
	r.Get("/", couple.Home)

	r.Route("/api/weddings", func(r chi.Router) {
		r.Get("/", couple.ListWeddings)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", couple.GetWedding)
			r.Patch("/", couple.UpdateWedding)
			r.Get("/guests", couple.Guests)
			r.Post("/guests", couple.AddGuest)
			r.Post("/guests/bulk", couple.ImportGuests)
			r.Patch("/guests/{guestID}", couple.UpdateGuest)
			r.Delete("/guests/{guestID}", couple.RemoveGuest)
		})
	})
}

// staticHandler serves the embedded platform assets.
func staticHandler() http.Handler {
	sub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("static assets: " + err.Error())
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
