package listing

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"timeshare/internal/api"
	"timeshare/internal/inventory"
	"timeshare/internal/payout"
	"timeshare/internal/portal"
	"timeshare/internal/profile"
)

type Handlers struct {
	Listings     *Repository
	Inventory    *inventory.Repository
	Portals      *portal.Repository
	Profiles     *profile.Repository
	Logger       *slog.Logger
	ExposeErrors bool
}

func (h Handlers) Search(w http.ResponseWriter, r *http.Request) {
	p, err := ParseSearchParams(r.URL.Query())
	if err != nil {
		api.WriteAppError(w, err, h.ExposeErrors)
		return
	}

	items, err := h.Listings.Search(r.Context(), p)
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}
	ownerRatings, resortRatings, err := h.ratings(r.Context(), items)
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"items": Rank(items, ownerRatings, resortRatings, p),
		"sort":  p.Sort,
	})
}

func (h Handlers) ratings(ctx context.Context, items []Listing) (owners, resorts map[string]Aggregate, err error) {
	ownerIDs := make([]string, 0, len(items))
	resortNames := make([]string, 0, len(items))
	seenOwner, seenResort := map[string]bool{}, map[string]bool{}
	for _, l := range items {
		if !seenOwner[l.OwnerID] {
			seenOwner[l.OwnerID] = true
			ownerIDs = append(ownerIDs, l.OwnerID)
		}
		if k := ResortKey(l.ResortName); !seenResort[k] {
			seenResort[k] = true
			resortNames = append(resortNames, l.ResortName)
		}
	}
	ownerRows, err := h.Listings.OwnerRatingRows(ctx, ownerIDs)
	if err != nil {
		return nil, nil, err
	}
	resortRows, err := h.Listings.ResortRatingRows(ctx, resortNames)
	if err != nil {
		return nil, nil, err
	}
	return AverageBySubject(ownerRows), AverageBySubject(resortRows), nil
}

type detailResponse struct {
	Listing      *Listing         `json:"listing"`
	OwnerName    string           `json:"ownerName,omitempty"`
	SavingsCents int64            `json:"savingsCents"`
	Payout       payout.Breakdown `json:"payout"`
	OwnerRating  *Aggregate       `json:"ownerRating,omitempty"`
	ResortRating *Aggregate       `json:"resortRating,omitempty"`
	Portal       *portal.Portal   `json:"portal,omitempty"`
	BookingLink  string           `json:"bookingLink,omitempty"`
}

func (h Handlers) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := api.IDParam(w, r, "id")
	if !ok {
		return
	}
	l, err := h.Listings.GetByID(r.Context(), id)
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}
	ident := api.IdentityFromContext(r.Context())
	if !l.IsActive && ident.UserID != l.OwnerID && !ident.IsAdmin() {
		api.WriteAppError(w, ErrNotFound, h.ExposeErrors)
		return
	}

	owners, resorts, err := h.ratings(r.Context(), []Listing{*l})
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}

	resp := detailResponse{
		Listing:      l,
		SavingsCents: l.SavingsCents(),
		Payout:       payout.CalculateBreakdown(l.OwnerPriceCents),
		BookingLink:  l.ResortBookingURL,
	}
	if agg, ok := owners[l.OwnerID]; ok {
		resp.OwnerRating = &agg
	}
	if agg, ok := resorts[ResortKey(l.ResortName)]; ok {
		resp.ResortRating = &agg
	}

	if names, err := h.Profiles.NamesByID(r.Context(), []string{l.OwnerID}); err == nil {
		resp.OwnerName = names[l.OwnerID]
	} else if h.Logger != nil {
		h.Logger.WarnContext(r.Context(), "owner name lookup failed", slog.Any("error", err))
	}

	if l.ResortPortalID != "" {
		p, err := h.Portals.FindByID(r.Context(), l.ResortPortalID)
		switch {
		case err == nil:
			resp.Portal = p
			if link := p.BookingLink(); link != "" {
				resp.BookingLink = link
			}
		case errors.Is(err, portal.ErrNotFound):
		default:
			api.Fail(w, r, h.Logger, err, h.ExposeErrors)
			return
		}
	}

	api.WriteJSON(w, http.StatusOK, resp)
}

// Create handles POST /listings/new.
func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := api.RequireUser(w, r)
	if !ok {
		return
	}
	if !ident.Role().ActsAsOwner() {
		api.WriteError(w, http.StatusForbidden, "FORBIDDEN", "You must be logged in as an owner.")
		return
	}
	var in CreateInput
	if !api.DecodeAndValidate(w, r, &in) {
		return
	}

	if in.InventoryID != "" {
		t, err := h.Inventory.GetForOwner(r.Context(), ident.UserID, in.InventoryID)
		if err != nil {
			api.Fail(w, r, h.Logger, err, h.ExposeErrors)
			return
		}
		in.ApplyTemplate(t)
	}
	in.Normalize()
	if err := in.Validate(); err != nil {
		api.WriteAppError(w, err, h.ExposeErrors)
		return
	}

	l, err := h.Listings.Create(r.Context(), ident.UserID, in)
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}
	if h.Logger != nil {
		h.Logger.InfoContext(r.Context(), "listing created", slog.String("listing_id", l.ID), slog.String("owner_id", l.OwnerID))
	}
	api.WriteJSON(w, http.StatusCreated, map[string]any{"listing": l})
}

type setActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

func (h Handlers) SetActive(w http.ResponseWriter, r *http.Request) {
	ident, ok := api.RequireUser(w, r)
	if !ok {
		return
	}
	id, ok := api.IDParam(w, r, "id")
	if !ok {
		return
	}
	var req setActiveRequest
	if !api.DecodeAndValidate(w, r, &req) {
		return
	}
	l, err := h.Listings.SetActive(r.Context(), ident.UserID, id, *req.IsActive)
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"listing": l})
}

// Destinations serves autocomplete suggestions, optionally narrowed by ?q=.
func (h Handlers) Destinations(w http.ResponseWriter, r *http.Request) {
	places, err := h.Listings.RecentPlaces(r.Context(), SuggestionSampleSize)
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}
	all := BuildSuggestions(places)
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"items": FilterSuggestions(all, r.URL.Query().Get("q"), 20),
	})
}
