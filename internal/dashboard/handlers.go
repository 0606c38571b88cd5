package dashboard

import (
	"log/slog"
	"net/http"

	"timeshare/internal/api"
	"timeshare/internal/booking"
	"timeshare/internal/listing"
	"timeshare/internal/offer"
	"timeshare/internal/review"
)

type Handlers struct {
	Listings     *listing.Repository
	Offers       *offer.Repository
	Bookings     *booking.Repository
	Reviews      *review.Repository
	Logger       *slog.Logger
	ExposeErrors bool
}

const recentBookingLimit = 50

// Owner handles GET /dashboard.
func (h Handlers) Owner(w http.ResponseWriter, r *http.Request) {
	ident, ok := api.RequireUser(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	listings, err := h.Listings.ListByOwner(ctx, ident.UserID)
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}
	newOffers, err := h.Offers.CountNewByListing(ctx, ident.UserID)
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}
	counts, err := h.Bookings.CountByStatus(ctx, ident.UserID)
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}
	bookings, err := h.Bookings.List(ctx, booking.Filter{OwnerID: ident.UserID, Limit: recentBookingLimit})
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}
	ratings, err := h.Reviews.RecentRatingsFor(ctx, ident.UserID, RecentReviewWindow)
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}

	summary, rows := Summarize(listings, newOffers, counts, ratings)
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"summary":  summary,
		"listings": rows,
		"bookings": bookings,
	})
}
