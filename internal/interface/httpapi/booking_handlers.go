package httpapi

import (
	"net/http"

	"bookingdesk/internal/domain/entity"
	"bookingdesk/internal/usecase"

	"github.com/go-chi/chi/v5"
)

// bookingTransition is the shape shared by the id-only mutations
type bookingTransition func(r *http.Request, actor entity.Actor, id string) (*entity.Booking, error)

func (h *Handlers) transition(fn bookingTransition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := h.actor(w, r)
		if !ok {
			return
		}
		booking, err := fn(r, actor, chi.URLParam(r, "id"))
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, booking)
	}
}

func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var in usecase.CreateBookingInput
	if !decodeJSON(w, r, &in) {
		return
	}
	booking, err := h.Bookings.Create(r.Context(), actor, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *Handlers) SubmitBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(func(r *http.Request, actor entity.Actor, id string) (*entity.Booking, error) {
		return h.Bookings.Submit(r.Context(), actor, id)
	})(w, r)
}

func (h *Handlers) VerifyAccount(w http.ResponseWriter, r *http.Request) {
	h.transition(func(r *http.Request, actor entity.Actor, id string) (*entity.Booking, error) {
		return h.Bookings.VerifyAccount(r.Context(), actor, id)
	})(w, r)
}

func (h *Handlers) VerifyAdmin(w http.ResponseWriter, r *http.Request) {
	h.transition(func(r *http.Request, actor entity.Actor, id string) (*entity.Booking, error) {
		return h.Bookings.VerifyAdmin(r.Context(), actor, id)
	})(w, r)
}

func (h *Handlers) GetBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(func(r *http.Request, actor entity.Actor, id string) (*entity.Booking, error) {
		return h.Bookings.Get(r.Context(), actor, id)
	})(w, r)
}

func (h *Handlers) UpdateCommercial(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var patch entity.CommercialPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	booking, err := h.Bookings.UpdateCommercial(r.Context(), actor, chi.URLParam(r, "id"), patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *Handlers) UpdateBilling(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var patch entity.BillingPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	booking, err := h.Bookings.UpdateBilling(r.Context(), actor, chi.URLParam(r, "id"), patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	bookings, err := h.Bookings.List(r.Context(), actor, r.URL.Query().Get("status"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *Handlers) SearchBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	bookings, err := h.Bookings.Search(r.Context(), actor, chi.URLParam(r, "term"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// Modifications

func (h *Handlers) RecordModification(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var in usecase.RecordModificationInput
	if !decodeJSON(w, r, &in) {
		return
	}
	mod, err := h.Modifications.Record(r.Context(), actor, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mod)
}

func (h *Handlers) ListModifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	mods, err := h.Modifications.ListByBooking(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mods)
}
