// Package notify sends transactional email.
package notify

import (
	"context"
	"fmt"

	"github.com/Shalinisinha22/ewa-back/pkg/config"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Message is a single transactional email
type Message struct {
	ToEmail string
	ToName  string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers messages
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer returns a Brevo mailer when an API key is configured and a
// logging mailer otherwise.
func NewMailer(cfg config.MailConfig, log *zap.Logger) Mailer {
	if cfg.APIKey == "" {
		return &LogMailer{log: log}
	}
	return NewBrevoMailer(cfg)
}

type brevoContact struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoEmail struct {
	Sender      brevoContact   `json:"sender"`
	To          []brevoContact `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
	TextContent string         `json:"textContent,omitempty"`
}

type brevoResponse struct {
	MessageID string `json:"messageId"`
}

type brevoError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BrevoMailer sends email through the Brevo transactional API
type BrevoMailer struct {
	client *resty.Client
	sender brevoContact
}

// NewBrevoMailer creates a Brevo client
func NewBrevoMailer(cfg config.MailConfig) *BrevoMailer {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetHeader("api-key", cfg.APIKey).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	return &BrevoMailer{
		client: client,
		sender: brevoContact{Email: cfg.SenderEmail, Name: cfg.SenderName},
	}
}

// Send posts one message
func (m *BrevoMailer) Send(ctx context.Context, msg Message) error {
	if msg.ToEmail == "" {
		return fmt.Errorf("recipient email is required")
	}

	var result brevoResponse
	var apiErr brevoError
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(brevoEmail{
			Sender:      m.sender,
			To:          []brevoContact{{Email: msg.ToEmail, Name: msg.ToName}},
			Subject:     msg.Subject,
			HTMLContent: msg.HTML,
			TextContent: msg.Text,
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/smtp/email")
	if err != nil {
		return fmt.Errorf("brevo request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("brevo returned %d: %s %s", resp.StatusCode(), apiErr.Code, apiErr.Message)
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them
type LogMailer struct {
	log *zap.Logger
}

// Send logs the message
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.log.Info("Email delivery disabled, message logged",
		zap.String("to", msg.ToEmail),
		zap.String("subject", msg.Subject))
	return nil
}
