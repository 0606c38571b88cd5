package inventory

import (
	"log/slog"
	"net/http"

	"timeshare/internal/api"
)

type Handlers struct {
	Templates    *Repository
	Logger       *slog.Logger
	ExposeErrors bool
}

type createRequest struct {
	Label            string        `json:"label" validate:"required,max=120"`
	ResortName       string        `json:"resortName" validate:"required,max=200"`
	City             string        `json:"city" validate:"required,max=120"`
	Country          string        `json:"country" validate:"max=120"`
	OwnershipType    OwnershipType `json:"ownershipType" validate:"required,oneof=fixed_week floating_week points"`
	Season           string        `json:"season" validate:"max=120"`
	HomeWeek         string        `json:"homeWeek" validate:"max=60"`
	PointsPower      *int          `json:"pointsPower"`
	InventoryNotes   string        `json:"inventoryNotes" validate:"max=2000"`
	UnitType         string        `json:"unitType" validate:"required,max=60"`
	ResortBookingURL string        `json:"resortBookingUrl" validate:"omitempty,url"`
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := api.RequireUser(w, r)
	if !ok {
		return
	}
	items, err := h.Templates.ListByOwner(r.Context(), ident.UserID)
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := api.RequireUser(w, r)
	if !ok {
		return
	}
	var req createRequest
	if !api.DecodeAndValidate(w, r, &req) {
		return
	}

	t := Template{
		OwnerID:          ident.UserID,
		Label:            req.Label,
		ResortName:       req.ResortName,
		City:             req.City,
		Country:          req.Country,
		OwnershipType:    req.OwnershipType,
		Season:           req.Season,
		HomeWeek:         req.HomeWeek,
		PointsPower:      req.PointsPower,
		InventoryNotes:   req.InventoryNotes,
		UnitType:         req.UnitType,
		ResortBookingURL: req.ResortBookingURL,
	}
	t.Normalize()
	if err := t.Validate(); err != nil {
		api.WriteAppError(w, err, h.ExposeErrors)
		return
	}

	created, err := h.Templates.Create(r.Context(), t)
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}
	api.WriteJSON(w, http.StatusCreated, map[string]any{"template": created})
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	ident, ok := api.RequireUser(w, r)
	if !ok {
		return
	}
	id, ok := api.IDParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.Templates.Delete(r.Context(), ident.UserID, id); err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
