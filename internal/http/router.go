package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RouterConfig collects the handlers and middleware the router serves.
// Login stays outside the acting-user requirement; everything else needs a
// resolvable acting user for audit stamping.
type RouterConfig struct {
	Auth         *AuthHandler
	Health       *HealthHandler
	Appointments *AppointmentHandler
	Customers    *CustomerHandler
	Reports      *ReportHandler
	Middleware   []func(http.Handler) http.Handler
	RequireUser  func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	for _, mw := range cfg.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}

	if cfg.Auth != nil {
		r.Post("/login", cfg.Auth.Login)
	}

	if cfg.Health != nil {
		r.Get("/healthz", cfg.Health.Check)
	}

	r.Group(func(r chi.Router) {
		if cfg.RequireUser != nil {
			r.Use(cfg.RequireUser)
		}

		if cfg.Appointments != nil {
			r.Route("/appointments", func(r chi.Router) {
				r.Get("/", cfg.Appointments.List)
				r.Post("/", cfg.Appointments.Create)
				r.Get("/upcoming", cfg.Appointments.Upcoming)
				r.Get("/{id}", func(w http.ResponseWriter, req *http.Request) {
					cfg.Appointments.Get(w, req, chi.URLParam(req, "id"))
				})
				r.Put("/{id}", func(w http.ResponseWriter, req *http.Request) {
					cfg.Appointments.Update(w, req, chi.URLParam(req, "id"))
				})
				r.Delete("/{id}", func(w http.ResponseWriter, req *http.Request) {
					cfg.Appointments.Delete(w, req, chi.URLParam(req, "id"))
				})
			})
		}

		if cfg.Customers != nil {
			r.Route("/customers", func(r chi.Router) {
				r.Get("/", cfg.Customers.List)
				r.Post("/", cfg.Customers.Create)
				r.Get("/{id}", func(w http.ResponseWriter, req *http.Request) {
					cfg.Customers.Get(w, req, chi.URLParam(req, "id"))
				})
				r.Put("/{id}", func(w http.ResponseWriter, req *http.Request) {
					cfg.Customers.Update(w, req, chi.URLParam(req, "id"))
				})
				r.Delete("/{id}", func(w http.ResponseWriter, req *http.Request) {
					cfg.Customers.Delete(w, req, chi.URLParam(req, "id"))
				})
			})
		}

		if cfg.Reports != nil {
			r.Route("/reports", func(r chi.Router) {
				r.Get("/type-month", cfg.Reports.TypeMonthTotals)
				r.Get("/contact-schedule/{contactID}", func(w http.ResponseWriter, req *http.Request) {
					cfg.Reports.ContactSchedule(w, req, chi.URLParam(req, "contactID"))
				})
			})
		}
	})

	return r
}
