package review

import (
	"log/slog"
	"net/http"

	"timeshare/internal/api"
	"timeshare/internal/booking"
)

type Handlers struct {
	Bookings     *booking.Repository
	Reviews      *Repository
	Logger       *slog.Logger
	ExposeErrors bool
}

type createRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

func (h Handlers) CreateUserReview(w http.ResponseWriter, r *http.Request) {
	ident, b, req, ok := h.prepare(w, r)
	if !ok {
		return
	}
	rev, err := h.Reviews.CreateUserReview(r.Context(), b, ident.UserID, req.Rating, req.Comment)
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}
	api.WriteJSON(w, http.StatusCreated, map[string]any{"review": rev})
}

func (h Handlers) CreateResortReview(w http.ResponseWriter, r *http.Request) {
	ident, b, req, ok := h.prepare(w, r)
	if !ok {
		return
	}
	rev, err := h.Reviews.CreateResortReview(r.Context(), b, ident.UserID, req.Rating, req.Comment)
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}
	api.WriteJSON(w, http.StatusCreated, map[string]any{"review": rev})
}

func (h Handlers) prepare(w http.ResponseWriter, r *http.Request) (api.Identity, *booking.Booking, createRequest, bool) {
	var req createRequest
	ident, ok := api.RequireUser(w, r)
	if !ok {
		return ident, nil, req, false
	}
	id, ok := api.IDParam(w, r, "id")
	if !ok {
		return ident, nil, req, false
	}
	if !api.DecodeAndValidate(w, r, &req) {
		return ident, nil, req, false
	}
	b, err := h.Bookings.GetByID(r.Context(), id)
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return ident, nil, req, false
	}
	return ident, b, req, true
}
