package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

// WebhookSender posts invitation mails to an external delivery webhook.
// With no MAIL_WEBHOOK_URL configured it logs and drops, same as running
// without a mail provider in development.
type WebhookSender struct {
	webhookURL string
	client     *http.Client
}

type mailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func NewWebhookSender() *WebhookSender {
	return &WebhookSender{
		webhookURL: os.Getenv("MAIL_WEBHOOK_URL"),
		client:     &http.Client{},
	}
}

func (s *WebhookSender) SendInvitationMail(im InvitationMessage) error {
	if s.webhookURL == "" {
		fmt.Println("No MAIL_WEBHOOK_URL configured, skipping invitation mail")
		return nil
	}

	payload := mailPayload{
		To:      im.Email,
		Subject: fmt.Sprintf("You are invited to join %s", im.OrganizationName),
		Body: fmt.Sprintf("You have been invited to join %s as %s.\n\nAccept here: %s\n\nThe link expires in 48 hours.",
			im.OrganizationName, im.Role, im.AcceptURL),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal mail payload: %w", err)
	}

	resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("post mail webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mail webhook status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
