package offer

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"timeshare/internal/api"
	"timeshare/internal/booking"
	"timeshare/internal/payout"
)

type Handlers struct {
	Offers       *Repository
	Logger       *slog.Logger
	ExposeErrors bool
	Now          func() time.Time
}

func (h Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

type requestBody struct {
	GuestCount int    `json:"guestCount" validate:"required,min=1,max=50"`
	Note       string `json:"note" validate:"max=2000"`
}

// Request handles POST /listings/{id}/requests.
func (h Handlers) Request(w http.ResponseWriter, r *http.Request) {
	ident, ok := api.RequireUser(w, r)
	if !ok {
		return
	}
	if !ident.Role().ActsAsTraveler() {
		api.WriteError(w, http.StatusForbidden, "FORBIDDEN", "only travelers can request a stay")
		return
	}
	listingID, ok := api.IDParam(w, r, "id")
	if !ok {
		return
	}
	var body requestBody
	if !api.DecodeAndValidate(w, r, &body) {
		return
	}

	o, err := h.Offers.Request(r.Context(), RequestInput{
		ListingID:  listingID,
		TravelerID: ident.UserID,
		GuestCount: body.GuestCount,
		Note:       strings.TrimSpace(body.Note),
	})
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}
	api.WriteJSON(w, http.StatusCreated, map[string]any{"offer": o})
}

type ownerOfferView struct {
	Offer
	Payout payout.Breakdown `json:"payout"`
	CanAct bool             `json:"canAct"`
}

// OwnerList handles GET /offers with optional status and bookingStatus CSV filters.
func (h Handlers) OwnerList(w http.ResponseWriter, r *http.Request) {
	ident, ok := api.RequireUser(w, r)
	if !ok {
		return
	}
	statuses, err := ParseStatusCSV(r.URL.Query().Get("status"))
	if err != nil {
		api.WriteAppError(w, err, h.ExposeErrors)
		return
	}
	bookingStatuses, err := ParseBookingStatusCSV(r.URL.Query().Get("bookingStatus"))
	if err != nil {
		api.WriteAppError(w, err, h.ExposeErrors)
		return
	}

	items, err := h.Offers.List(r.Context(), Filter{
		OwnerID:         ident.UserID,
		Statuses:        statuses,
		BookingStatuses: bookingStatuses,
	})
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}

	out := make([]ownerOfferView, 0, len(items))
	for _, o := range items {
		_, err := Next(o.Status, EventAccept)
		canAct := err == nil
		out = append(out, ownerOfferView{
			Offer:  o,
			Payout: payout.CalculateBreakdown(o.Listing.OwnerPriceCents),
			CanAct: canAct,
		})
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": out})
}

// Trips handles GET /trips: the traveler's own requests with booking state.
func (h Handlers) Trips(w http.ResponseWriter, r *http.Request) {
	ident, ok := api.RequireUser(w, r)
	if !ok {
		return
	}
	items, err := h.Offers.List(r.Context(), Filter{TravelerID: ident.UserID})
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) Accept(w http.ResponseWriter, r *http.Request) {
	ident, ok := api.RequireUser(w, r)
	if !ok {
		return
	}
	id, ok := api.IDParam(w, r, "id")
	if !ok {
		return
	}

	o, b, err := h.Offers.Accept(r.Context(), ident.UserID, id, h.now())
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}
	if h.Logger != nil {
		h.Logger.InfoContext(r.Context(), "offer accepted",
			slog.String("offer_id", o.ID),
			slog.String("booking_id", b.ID),
		)
	}
	api.WriteJSON(w, http.StatusOK, acceptResponse{Offer: o, Booking: b})
}

type acceptResponse struct {
	Offer   *Offer           `json:"offer"`
	Booking *booking.Booking `json:"booking"`
}

func (h Handlers) Decline(w http.ResponseWriter, r *http.Request) {
	ident, ok := api.RequireUser(w, r)
	if !ok {
		return
	}
	id, ok := api.IDParam(w, r, "id")
	if !ok {
		return
	}
	o, err := h.Offers.Decline(r.Context(), ident.UserID, id)
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"offer": o})
}
