package pricing

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"timeshare/internal/api"
	"timeshare/pkg/serpapi"
)

type HotelSearcher interface {
	GoogleHotels(ctx context.Context, q serpapi.HotelQuery) (map[string]any, error)
}

type Handler struct {
	Upstream HotelSearcher
	// Cache is optional; lookups go straight upstream without it.
	Cache    Cache
	CacheTTL time.Duration
	Logger   *slog.Logger
}

// ServeHTTP handles POST /api/hotel-pricing.
func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	if !api.DecodeAndValidate(w, r, &req) {
		return
	}
	lookup, err := req.Validate()
	if err != nil {
		api.WriteAppError(w, err, false)
		return
	}

	ctx := r.Context()
	key := lookup.CacheKey()
	if h.Cache != nil {
		if q, err := h.Cache.Get(ctx, key); err != nil {
			h.warn(ctx, "pricing cache read failed", err)
		} else if q != nil {
			api.WriteJSON(w, http.StatusOK, q)
			return
		}
	}

	doc, err := h.Upstream.GoogleHotels(ctx, serpapi.HotelQuery{
		Query:    lookup.Query,
		CheckIn:  lookup.CheckIn,
		CheckOut: lookup.CheckOut,
		Adults:   lookup.Adults,
	})
	if err != nil {
		var uerr *serpapi.UpstreamError
		switch {
		case errors.Is(err, serpapi.ErrNotConfigured):
			api.WriteError(w, http.StatusServiceUnavailable, "PRICING_NOT_CONFIGURED", "Hotel pricing provider is not configured.")
		case errors.As(err, &uerr):
			h.warn(ctx, "pricing upstream rejected request", err)
			api.WriteError(w, http.StatusBadGateway, "PRICING_UPSTREAM_FAILED", "Hotel pricing provider request failed.")
		default:
			h.warn(ctx, "pricing lookup failed", err)
			api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Unable to fetch hotel pricing right now.")
		}
		return
	}

	quote, ok := Estimate(doc, lookup.Nights)
	if !ok {
		api.WriteError(w, http.StatusNotFound, "NO_PRICE_FOUND", "No hotel price found for these dates.")
		return
	}
	if h.Cache != nil && h.CacheTTL > 0 {
		if err := h.Cache.Set(ctx, key, quote, h.CacheTTL); err != nil {
			h.warn(ctx, "pricing cache write failed", err)
		}
	}
	api.WriteJSON(w, http.StatusOK, quote)
}

func (h Handler) warn(ctx context.Context, msg string, err error) {
	if h.Logger != nil {
		h.Logger.WarnContext(ctx, msg, slog.Any("error", err))
	}
}
