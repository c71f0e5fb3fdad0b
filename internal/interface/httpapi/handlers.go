package httpapi

import (
	"net/http"

	"bookingdesk/internal/domain/apperr"
	"bookingdesk/internal/domain/entity"
	"bookingdesk/internal/usecase"
	"bookingdesk/pkg/logger"
	"bookingdesk/pkg/metrics"

	"github.com/go-chi/chi/v5"
)

// Handlers binds HTTP routes to the usecases
type Handlers struct {
	Identity      *usecase.Identity
	Bookings      *usecase.BookingLifecycle
	Modifications *usecase.ModificationLedger
	Reporting     *usecase.Reporting
	Audit         *usecase.AuditTrail
	Logger        logger.Logger
	Metrics       *metrics.Metrics
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handlers) actor(w http.ResponseWriter, r *http.Request) (entity.Actor, bool) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, string(apperr.KindUnauthenticated), "not authenticated", "")
	}
	return actor, ok
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeAppError(w, r, h.Logger, h.Metrics, err)
}

// Auth

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.Identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	user, err := h.Identity.Me(r.Context(), actor)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var in usecase.RegisterInput
	if !decodeJSON(w, r, &in) {
		return
	}
	user, err := h.Identity.Register(r.Context(), actor, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Users

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	users, err := h.Identity.ListUsers(r.Context(), actor)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	user, err := h.Identity.GetUser(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var patch entity.UserPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	user, err := h.Identity.UpdateUser(r.Context(), actor, chi.URLParam(r, "id"), patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := h.Identity.DeleteUser(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "User deactivated successfully"})
}

// Suppliers

func (h *Handlers) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var in usecase.SupplierInput
	if !decodeJSON(w, r, &in) {
		return
	}
	supplier, err := h.Identity.CreateSupplier(r.Context(), actor, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, supplier)
}

func (h *Handlers) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var patch entity.SupplierPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	supplier, err := h.Identity.UpdateSupplier(r.Context(), actor, chi.URLParam(r, "id"), patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, supplier)
}

func (h *Handlers) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.Identity.ListSuppliers(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, suppliers)
}

func (h *Handlers) GetSupplier(w http.ResponseWriter, r *http.Request) {
	supplier, err := h.Identity.GetSupplier(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, supplier)
}

// Audit

func (h *Handlers) AuditLogs(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	logs, err := h.Audit.Query(r.Context(), actor, q.Get("user_id"), q.Get("entity_type"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
