package httpapi

import (
	"net/http"

	"bookingdesk/internal/domain/entity"
	"bookingdesk/pkg/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Dependencies struct {
	Handlers     *Handlers
	Tokens       TokenParser
	Metrics      *metrics.Metrics
	LoginLimiter *RateLimiter
	CORS         CORSOptions
	// Extra routes mounted at the root, e.g. /metrics
	Extra map[string]http.Handler
}

func NewRouter(deps Dependencies) http.Handler {
	h := deps.Handlers
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(AccessLog(h.Logger, deps.Metrics))
	r.Use(CORSMiddleware(deps.CORS))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Healthy"))
	})
	for path, handler := range deps.Extra {
		r.Handle(path, handler)
	}

	r.Route("/api", func(r chi.Router) {
		login := http.HandlerFunc(h.Login)
		if deps.LoginLimiter != nil {
			r.With(deps.LoginLimiter.Middleware).Post("/auth/login", login)
		} else {
			r.Post("/auth/login", login)
		}

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(deps.Tokens))

			r.Get("/auth/me", h.Me)

			// Administration
			r.Group(func(r chi.Router) {
				r.Use(RequireRoles(entity.RolesAdministrator...))
				r.Post("/auth/register", h.Register)
				r.Get("/users", h.ListUsers)
				r.Get("/users/{id}", h.GetUser)
				r.Put("/users/{id}", h.UpdateUser)
				r.Delete("/users/{id}", h.DeleteUser)
				r.Post("/suppliers", h.CreateSupplier)
				r.Put("/suppliers/{id}", h.UpdateSupplier)
				r.Get("/audit-logs", h.AuditLogs)
			})

			r.Get("/suppliers", h.ListSuppliers)
			r.Get("/suppliers/{id}", h.GetSupplier)

			// Bookings
			r.With(RequireRoles(entity.RolesCreateSubmit...)).Post("/bookings", h.CreateBooking)
			r.Get("/bookings", h.ListBookings)
			r.Get("/bookings/search/{term}", h.SearchBookings)
			r.Get("/bookings/{id}", h.GetBooking)
			r.With(RequireRoles(entity.RolesCreateSubmit...)).Put("/bookings/{id}/submit", h.SubmitBooking)
			r.With(RequireRoles(entity.RolesCommercial...)).Put("/bookings/{id}/commercial", h.UpdateCommercial)
			r.With(RequireRoles(entity.RolesAccountAdmin...)).Put("/bookings/{id}/verify-account", h.VerifyAccount)
			r.With(RequireRoles(entity.RolesAdministrator...)).Put("/bookings/{id}/verify-admin", h.VerifyAdmin)
			r.With(RequireRoles(entity.RolesAccountAdmin...)).Put("/bookings/{id}/billing", h.UpdateBilling)

			// Modifications
			r.Post("/modifications", h.RecordModification)
			r.Get("/modifications/booking/{id}", h.ListModifications)

			// Reports
			r.Post("/reports/bookings/pdf", h.BookingsPDF)
			r.Post("/reports/bookings/excel", h.BookingsExcel)
			r.With(RequireRoles(entity.RolesAccountAdmin...)).Get("/reports/outstanding-balance", h.OutstandingBalance)
			r.With(RequireRoles(entity.RolesAccountAdmin...)).Post("/reports/outstanding-balance/excel", h.OutstandingBalanceExcel)
			r.Get("/dashboard/stats", h.DashboardStats)
		})
	})

	return r
}
