package feedback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"timeshare/internal/api"
	"timeshare/pkg/config"
	"timeshare/pkg/mailer"
)

type Kind string

const (
	KindBug  Kind = "bug"
	KindIdea Kind = "idea"
)

// ParseKind treats anything other than "idea" as a bug report.
func ParseKind(s string) Kind {
	if Kind(strings.ToLower(strings.TrimSpace(s))) == KindIdea {
		return KindIdea
	}
	return KindBug
}

func (k Kind) Label() string {
	if k == KindIdea {
		return "Idea"
	}
	return "Bug"
}

type Report struct {
	Kind    Kind
	Title   string
	Details string
	PageURL string
}

func Subject(r Report) string {
	title := r.Title
	if title == "" {
		title = "New report"
	}
	return fmt.Sprintf("[%s] %s - Timeshare Connect", r.Kind.Label(), title)
}

func Body(r Report, at time.Time) string {
	page := r.PageURL
	if page == "" {
		page = "Unknown"
	}
	return fmt.Sprintf("Type: %s\nTime: %s\nPage: %s\n\nDetails:\n%s\n",
		r.Kind.Label(), at.UTC().Format("2006-01-02T15:04:05.000Z"), page, r.Details)
}

type Mailer interface {
	Send(ctx context.Context, m mailer.Message) error
}

type Handler struct {
	Mailer Mailer
	Config config.FeedbackConfig
	Logger *slog.Logger
	Now    func() time.Time
}

type request struct {
	Kind    string `json:"kind"`
	Title   string `json:"title" validate:"max=200"`
	Details string `json:"details" validate:"max=10000"`
	PageURL string `json:"pageUrl" validate:"max=2048"`
}

// ServeHTTP handles POST /api/feedback.
func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req request
	if !api.DecodeAndValidate(w, r, &req) {
		return
	}
	rep := Report{
		Kind:    ParseKind(req.Kind),
		Title:   strings.TrimSpace(req.Title),
		Details: strings.TrimSpace(req.Details),
		PageURL: strings.TrimSpace(req.PageURL),
	}
	if rep.Details == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "Details are required.")
		return
	}

	if !h.Config.Configured() || h.Mailer == nil {
		api.WriteError(w, http.StatusInternalServerError, "FEEDBACK_NOT_CONFIGURED",
			"Feedback email is not configured. Set SENDGRID_API_KEY, FEEDBACK_FROM_EMAIL, and ADMIN_CONTACT_EMAIL.")
		return
	}

	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	err := h.Mailer.Send(r.Context(), mailer.Message{
		FromName: "Timeshare Connect",
		From:     h.Config.FromEmail,
		To:       h.Config.AdminEmail,
		Subject:  Subject(rep),
		Text:     Body(rep, now),
	})
	if err != nil {
		var perr *mailer.ProviderError
		if errors.As(err, &perr) {
			if h.Logger != nil {
				h.Logger.WarnContext(r.Context(), "feedback rejected by mail provider", slog.Int("status", perr.StatusCode))
			}
			api.WriteError(w, http.StatusBadGateway, "EMAIL_PROVIDER_REJECTED", "Email provider rejected request: "+perr.Body)
			return
		}
		if h.Logger != nil {
			h.Logger.ErrorContext(r.Context(), "feedback send failed", slog.Any("error", err))
		}
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to submit feedback.")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
