package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendGrid_Send(t *testing.T) {
	var got map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/mail/send" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewSendGrid("SG.test").WithHost(srv.URL)
	err := c.Send(context.Background(), Message{
		From:    "noreply@example.com",
		To:      "admin@example.com",
		Subject: "[Bug] Broken - Timeshare Connect",
		Text:    "Details:\n<b>boom</b>",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auth != "Bearer SG.test" {
		t.Fatalf("unexpected auth header %q", auth)
	}
	if got["subject"] != "[Bug] Broken - Timeshare Connect" {
		t.Fatalf("unexpected payload: %v", got)
	}
}

func TestSendGrid_ProviderRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"errors":[{"message":"sender not verified"}]}`))
	}))
	defer srv.Close()

	err := NewSendGrid("SG.test").WithHost(srv.URL).Send(context.Background(), Message{From: "a@example.com", To: "b@example.com"})
	var perr *ProviderError
	if !errors.As(err, &perr) || perr.StatusCode != http.StatusForbidden {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestSendGrid_RequiresKey(t *testing.T) {
	if err := NewSendGrid("").Send(context.Background(), Message{From: "a@example.com", To: "b@example.com"}); err == nil {
		t.Fatalf("expected error without api key")
	}
}
