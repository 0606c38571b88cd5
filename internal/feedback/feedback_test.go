package feedback

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"timeshare/pkg/config"
	"timeshare/pkg/mailer"
)

type fakeMailer struct {
	sent []mailer.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, m mailer.Message) error {
	f.sent = append(f.sent, m)
	return f.err
}

var configured = config.FeedbackConfig{SendGridAPIKey: "SG.x", FromEmail: "noreply@example.com", AdminEmail: "admin@example.com"}

func post(h Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/feedback", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestFeedback_SendsFormattedMail(t *testing.T) {
	m := &fakeMailer{}
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	h := Handler{Mailer: m, Config: configured, Now: func() time.Time { return at }}

	rec := post(h, `{"kind":"idea","title":"Dark mode","details":"  please  ","pageUrl":"/search"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if len(m.sent) != 1 {
		t.Fatalf("expected one mail, got %d", len(m.sent))
	}
	msg := m.sent[0]
	if msg.Subject != "[Idea] Dark mode - Timeshare Connect" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	want := "Type: Idea\nTime: 2026-03-04T05:06:07.000Z\nPage: /search\n\nDetails:\nplease\n"
	if msg.Text != want {
		t.Fatalf("unexpected body:\n%q\nwant\n%q", msg.Text, want)
	}
	if msg.To != "admin@example.com" || msg.From != "noreply@example.com" {
		t.Fatalf("unexpected addresses %+v", msg)
	}
}

func TestFeedback_DefaultsToBug(t *testing.T) {
	m := &fakeMailer{}
	rec := post(Handler{Mailer: m, Config: configured}, `{"kind":"rant","details":"it broke"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if m.sent[0].Subject != "[Bug] New report - Timeshare Connect" {
		t.Fatalf("unexpected subject %q", m.sent[0].Subject)
	}
	if !strings.Contains(m.sent[0].Text, "Page: Unknown") {
		t.Fatalf("expected unknown page, got %q", m.sent[0].Text)
	}
}

func TestFeedback_RequiresDetails(t *testing.T) {
	m := &fakeMailer{}
	rec := post(Handler{Mailer: m, Config: configured}, `{"kind":"bug","details":"   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(m.sent) != 0 {
		t.Fatalf("nothing should be sent")
	}
}

func TestFeedback_FailsClosedWithoutConfig(t *testing.T) {
	m := &fakeMailer{}
	rec := post(Handler{Mailer: m, Config: config.FeedbackConfig{SendGridAPIKey: "SG.x"}}, `{"details":"x"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if len(m.sent) != 0 {
		t.Fatalf("nothing should be sent")
	}
}

func TestFeedback_ProviderRejection(t *testing.T) {
	m := &fakeMailer{err: &mailer.ProviderError{StatusCode: 403, Body: "sender not verified"}}
	rec := post(Handler{Mailer: m, Config: configured}, `{"details":"x"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}

	m = &fakeMailer{err: errors.New("dial tcp: timeout")}
	rec = post(Handler{Mailer: m, Config: configured}, `{"details":"x"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
