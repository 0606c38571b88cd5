package mailer

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const DefaultHost = "https://api.sendgrid.com"

type Message struct {
	FromName string
	From     string
	To       string
	Subject  string
	Text     string
}

// ProviderError is a non-2xx answer from the mail provider.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("mail provider rejected request: status=%d body=%s", e.StatusCode, e.Body)
}

// SendGrid sends plain-text mail through the SendGrid v3 API.
type SendGrid struct {
	apiKey string
	host   string
}

func NewSendGrid(apiKey string) *SendGrid {
	return &SendGrid{apiKey: apiKey, host: DefaultHost}
}

// WithHost points the client at another API host (tests, EU data residency).
func (c *SendGrid) WithHost(host string) *SendGrid {
	return &SendGrid{apiKey: c.apiKey, host: host}
}

func (c *SendGrid) Send(ctx context.Context, m Message) error {
	if c.apiKey == "" {
		return errors.New("sendgrid api key is empty")
	}
	if m.From == "" || m.To == "" {
		return errors.New("from and to addresses are required")
	}

	msg := mail.NewSingleEmail(
		mail.NewEmail(m.FromName, m.From),
		m.Subject,
		mail.NewEmail("", m.To),
		m.Text,
		"<pre>"+html.EscapeString(m.Text)+"</pre>",
	)

	req := sendgrid.GetRequest(c.apiKey, "/v3/mail/send", c.host)
	req.Method = rest.Post
	req.Body = mail.GetRequestBody(msg)

	resp, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return &ProviderError{StatusCode: resp.StatusCode, Body: resp.Body}
	}
	return nil
}
