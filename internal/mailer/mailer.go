package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/AayushAcharya189/SportGear/internal/domain"
	"github.com/AayushAcharya189/SportGear/pkg/httpclient"
)

// Mailer delivers contact form notifications to an HTTP mail gateway. The
// gateway call goes through a circuit breaker so a flapping mail provider
// cannot slow the contact endpoint down.
type Mailer struct {
	client     *httpclient.CircuitBreakerClient
	gatewayURL string
	inbox      string
	logger     *slog.Logger
}

// New creates a mailer posting to the given gateway URL. Notifications go to
// the inbox address.
func New(client *httpclient.CircuitBreakerClient, gatewayURL, inbox string, logger *slog.Logger) *Mailer {
	return &Mailer{
		client:     client,
		gatewayURL: gatewayURL,
		inbox:      inbox,
		logger:     logger,
	}
}

type mailRequest struct {
	To      string `json:"to"`
	ReplyTo string `json:"reply_to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SendContactNotification forwards a contact message to the support inbox.
func (m *Mailer) SendContactNotification(ctx context.Context, msg *domain.ContactMessage) error {
	if m.gatewayURL == "" {
		m.logger.DebugContext(ctx, "mail gateway not configured, skipping notification",
			slog.String("message_id", msg.ID),
		)
		return nil
	}

	payload := mailRequest{
		To:      m.inbox,
		ReplyTo: msg.Email,
		Subject: fmt.Sprintf("Contact form message from %s", msg.Name),
		Body:    msg.Message,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal mail request: %w", err)
	}

	resp, err := m.client.Post(ctx, m.gatewayURL, "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("post to mail gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("mail gateway returned status %d", resp.StatusCode)
	}

	return nil
}
