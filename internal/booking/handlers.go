package booking

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"timeshare/internal/api"
	"timeshare/internal/events"
	"timeshare/internal/payout"
)

// ReviewStater reports review eligibility and existing reviews for the detail view.
type ReviewStater interface {
	StateFor(ctx context.Context, b *Booking, viewerID string) (*ReviewState, error)
}

type Handlers struct {
	DB       *pgxpool.Pool
	Bookings *Repository
	Workflow *Workflow
	Reviews  ReviewStater
	Logger   *slog.Logger
	// ExposeErrors surfaces datastore messages to the client outside prod.
	ExposeErrors bool
}

type DetailResponse struct {
	Booking      *Booking             `json:"booking"`
	ViewerRole   Actor                `json:"viewerRole"`
	Steps        []Step               `json:"steps"`
	Payout       payout.Breakdown     `json:"payout"`
	Installments []payout.Installment `json:"installments"`
	Actions      Availability         `json:"actions"`
	OwnerLocked  bool                 `json:"ownerLocked"`
	OwnerLockMsg string               `json:"ownerLockMessage,omitempty"`
	Reviews      *ReviewState         `json:"reviews,omitempty"`
	Events       []events.Event       `json:"events"`
}

func (h Handlers) Detail(w http.ResponseWriter, r *http.Request) {
	ident, ok := api.RequireUser(w, r)
	if !ok {
		return
	}
	id, ok := api.IDParam(w, r, "id")
	if !ok {
		return
	}

	b, err := h.Bookings.GetByID(r.Context(), id)
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}
	role := b.PartyRole(ident.UserID)
	if role == "" && ident.IsAdmin() {
		role = ActorAdmin
	}
	if role == "" {
		api.Fail(w, r, h.Logger, ErrNotFound, h.ExposeErrors)
		return
	}

	timeline, err := events.ListByBooking(r.Context(), h.DB, b.ID)
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}

	resp := DetailResponse{
		Booking:      b,
		ViewerRole:   role,
		Steps:        Steps(b.Status),
		Payout:       payout.CalculateBreakdown(b.Listing.OwnerPriceCents),
		Installments: payout.Installments(b.Listing.OwnerPriceCents),
		Actions:      actionsFor(b.Status, role),
		Events:       timeline,
	}
	resp.OwnerLocked, resp.OwnerLockMsg = OwnerUpdateLock(b.Status)

	if h.Reviews != nil && role != ActorAdmin {
		state, err := h.Reviews.StateFor(r.Context(), b, ident.UserID)
		if err != nil {
			api.Fail(w, r, h.Logger, err, h.ExposeErrors)
			return
		}
		resp.Reviews = state
	}

	api.WriteJSON(w, http.StatusOK, resp)
}

// actionsFor hides buttons the viewer could never press.
func actionsFor(s Status, role Actor) Availability {
	a := AvailabilityFor(s)
	return Availability{
		CanPayFirst:    a.CanPayFirst && Allowed(EventPayFirst, role),
		CanPayFinal:    a.CanPayFinal && Allowed(EventPayFinal, role),
		CanSubmitProof: a.CanSubmitProof && Allowed(EventSubmitProof, role),
		CanCancel:      a.CanCancel && Allowed(EventCancel, role),
		CanVerify:      a.CanVerify && Allowed(EventVerify, role),
		CanRefund:      a.CanRefund && Allowed(EventRefund, role),
	}
}

type submitProofRequest struct {
	ConfirmationNumber string `json:"confirmationNumber" validate:"required,max=120"`
	ProofFilePath      string `json:"proofFilePath" validate:"required,max=1024"`
}

type cancelRequest struct {
	Reason string `json:"reason" validate:"required,max=2000"`
}

func (h Handlers) PayFirst(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, Command{Event: EventPayFirst})
}

func (h Handlers) PayFinal(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, Command{Event: EventPayFinal})
}

func (h Handlers) SubmitProof(w http.ResponseWriter, r *http.Request) {
	var req submitProofRequest
	if !api.DecodeAndValidate(w, r, &req) {
		return
	}
	h.apply(w, r, Command{
		Event:              EventSubmitProof,
		ConfirmationNumber: req.ConfirmationNumber,
		ProofFilePath:      req.ProofFilePath,
	})
}

func (h Handlers) Cancel(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if !api.DecodeAndValidate(w, r, &req) {
		return
	}
	h.apply(w, r, Command{Event: EventCancel, Reason: req.Reason})
}

// Verify and Refund are mounted under /admin; the workflow only lets admins fire them.
func (h Handlers) Verify(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, Command{Event: EventVerify})
}

func (h Handlers) Refund(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, Command{Event: EventRefund})
}

func (h Handlers) apply(w http.ResponseWriter, r *http.Request, cmd Command) {
	ident, ok := api.RequireUser(w, r)
	if !ok {
		return
	}
	id, ok := api.IDParam(w, r, "id")
	if !ok {
		return
	}
	cmd.BookingID = id
	cmd.ActorID = ident.UserID
	cmd.IsAdmin = ident.IsAdmin()

	b, err := h.Workflow.Apply(r.Context(), cmd)
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}
	if h.Logger != nil {
		h.Logger.InfoContext(r.Context(), "booking transition",
			slog.String("booking_id", b.ID),
			slog.String("event", string(cmd.Event)),
			slog.String("status", string(b.Status)),
		)
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"booking": b})
}
