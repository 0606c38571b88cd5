package admin

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"timeshare/internal/adminaction"
	"timeshare/internal/api"
	"timeshare/internal/booking"
	"timeshare/internal/profile"
	"timeshare/pkg/db"
)

// Handlers serve the moderation console. Every handler checks the admin role
// itself in addition to the /admin gate rule.
type Handlers struct {
	DB           *pgxpool.Pool
	Bookings     *booking.Repository
	Lifecycle    booking.Handlers
	Profiles     *profile.Repository
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

func requireAdmin(w http.ResponseWriter, r *http.Request) (api.Identity, bool) {
	ident, ok := api.RequireUser(w, r)
	if !ok {
		return ident, false
	}
	if !ident.IsAdmin() {
		api.WriteError(w, http.StatusForbidden, "FORBIDDEN", "admin only")
		return ident, false
	}
	return ident, true
}

type consoleBooking struct {
	booking.Booking
	CanVerify bool `json:"canVerify"`
	CanRefund bool `json:"canRefund"`
}

func (h Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	var statuses []booking.Status
	for _, raw := range strings.Split(r.URL.Query().Get("status"), ",") {
		if raw = strings.TrimSpace(raw); raw == "" {
			continue
		}
		s, err := booking.ParseStatus(raw)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
			return
		}
		statuses = append(statuses, s)
	}

	items, err := h.Bookings.List(r.Context(), booking.Filter{Statuses: statuses})
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}
	out := make([]consoleBooking, 0, len(items))
	for _, b := range items {
		out = append(out, consoleBooking{
			Booking:   b,
			CanVerify: booking.CanFire(b.Status, booking.EventVerify),
			CanRefund: booking.CanFire(b.Status, booking.EventRefund),
		})
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (h Handlers) VerifyBooking(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	h.Lifecycle.Verify(w, r)
}

func (h Handlers) RefundBooking(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	h.Lifecycle.Refund(w, r)
}

func (h Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	var status profile.AccountStatus
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		s, err := profile.ParseAccountStatus(raw)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
			return
		}
		status = s
	}
	items, err := h.Profiles.List(r.Context(), status, 0)
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason" validate:"max=2000"`
}

func (h Handlers) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireAdmin(w, r)
	if !ok {
		return
	}
	userID, ok := api.IDParam(w, r, "id")
	if !ok {
		return
	}
	var req setStatusRequest
	if !api.DecodeAndValidate(w, r, &req) {
		return
	}
	status, reason, err := StatusChange(req.Status, req.Reason)
	if err != nil {
		api.WriteAppError(w, err, h.ExposeErrors)
		return
	}

	var updated *profile.Profile
	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		var err error
		updated, err = profile.SetAccountStatus(r.Context(), tx, userID, status, reason, h.now())
		if err != nil {
			return err
		}
		var why string
		if reason != nil {
			why = *reason
		}
		return adminaction.Insert(r.Context(), tx, adminaction.ActionSetAccountStatus, adminaction.TargetProfile,
			userID, ident.UserID, why, map[string]any{"status": status})
	})
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}
	if h.Logger != nil {
		h.Logger.InfoContext(r.Context(), "account status changed",
			slog.String("user_id", userID),
			slog.String("status", string(status)),
			slog.String("admin_id", ident.UserID),
		)
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"profile": updated})
}

// ListActions serves the moderation log, optionally for one target (?targetType=&targetId=).
func (h Handlers) ListActions(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r); !ok {
		return
	}
	q := r.URL.Query()
	items, err := adminaction.ListRecent(r.Context(), h.DB,
		adminaction.TargetType(q.Get("targetType")), q.Get("targetId"), 0)
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}
