package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes constructs the chi router: health/metrics, the route gate, the auth
// endpoints, the public catalog, and the protected account/admin areas.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	allowed := a.opts.AllowedOrigins
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           int((10 * time.Minute).Seconds()),
	}))

	r.Use(httprate.Limit(300, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
	r.Use(a.gateMiddleware)

	if a.opts.Trace != nil {
		r.Use(a.opts.Trace)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Tight per-IP cap on issuance; codes are cheap to mint but
			// SMS delivery is not.
			r.With(httprate.Limit(5, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP))).
				Post("/otp/request", a.handleOTPRequest)
			r.With(httprate.Limit(20, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP))).
				Post("/otp/verify", a.handleOTPVerify)
			r.Get("/session", a.handleSession)
			r.Post("/logout", a.handleLogout)
		})

		r.Get("/products", a.handleListProducts)

		r.Route("/account", func(r chi.Router) {
			r.Use(a.requireSession)
			r.Post("/applications", a.handleCreateApplication)
			r.Get("/applications", a.handleListApplications)
			r.Post("/applications/{id}/documents", a.handleCreateDocument)
			r.Get("/applications/{id}/documents/{docID}", a.handleGetDocument)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", a.handleAdminLogin)

			r.Group(func(r chi.Router) {
				r.Use(a.requireAdmin)
				r.Get("/products", a.handleAdminListProducts)
				r.Post("/products", a.handleCreateProduct)
				r.Put("/products/{code}", a.handleUpdateProduct)
				r.Get("/applications", a.handleAdminListApplications)
				r.Patch("/applications/{id}", a.handleAdminUpdateApplication)
			})
		})
	})

	return r
}
