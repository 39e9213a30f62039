// Package payment talks to the Razorpay orders API and verifies its
// signatures.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Shalinisinha22/ewa-back/pkg/config"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// Webhook events
const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
)

var (
	// ErrNotConfigured is returned when no API credentials are set.
	ErrNotConfigured = errors.New("razorpay is not configured")
	// ErrInvalidSignature is returned when a signature does not match.
	ErrInvalidSignature = errors.New("invalid signature")
)

// Order is a Razorpay order
type Order struct {
	ID       string            `json:"id"`
	Entity   string            `json:"entity"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Status   string            `json:"status"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type createOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// WebhookPayment is the payment entity carried by a webhook
type WebhookPayment struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	Status           string `json:"status"`
	Method           string `json:"method"`
	ErrorDescription string `json:"error_description"`
}

// WebhookEvent is a decoded webhook body
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity WebhookPayment `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// ParseWebhook decodes a webhook body
func ParseWebhook(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("decode webhook: %w", err)
	}
	return &event, nil
}

// Client calls the Razorpay API
type Client struct {
	http          *resty.Client
	keyID         string
	keySecret     string
	webhookSecret string
}

// NewClient creates a Razorpay client
func NewClient(cfg config.PaymentConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetBasicAuth(cfg.RazorpayKeyID, cfg.RazorpayKeySecret).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:          client,
		keyID:         cfg.RazorpayKeyID,
		keySecret:     cfg.RazorpayKeySecret,
		webhookSecret: cfg.WebhookSecret,
	}
}

// KeyID is the public key the storefront checkout needs
func (c *Client) KeyID() string {
	return c.keyID
}

// ToMinorUnits converts an amount to paise
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// CreateOrder registers an order with Razorpay
func (c *Client) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string, notes map[string]string) (*Order, error) {
	if c.keyID == "" || c.keySecret == "" {
		return nil, ErrNotConfigured
	}

	var order Order
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(createOrderRequest{
			Amount:   ToMinorUnits(amount),
			Currency: currency,
			Receipt:  receipt,
			Notes:    notes,
		}).
		SetResult(&order).
		SetError(&apiErr).
		Post("/v1/orders")
	if err != nil {
		return nil, fmt.Errorf("razorpay request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("razorpay returned %d: %s %s", resp.StatusCode(), apiErr.Error.Code, apiErr.Error.Description)
	}
	return &order, nil
}

// VerifyPayment checks the checkout signature over "<order_id>|<payment_id>"
func (c *Client) VerifyPayment(providerOrderID, paymentID, signature string) error {
	if c.keySecret == "" {
		return ErrNotConfigured
	}
	return verify(c.keySecret, []byte(providerOrderID+"|"+paymentID), signature)
}

// VerifyWebhook checks the X-Razorpay-Signature header over the raw body
func (c *Client) VerifyWebhook(body []byte, signature string) error {
	if c.webhookSecret == "" {
		return ErrNotConfigured
	}
	return verify(c.webhookSecret, body, signature)
}

// Sign returns the hex HMAC-SHA256 of payload under secret
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func verify(secret string, payload []byte, signature string) error {
	expected, err := hex.DecodeString(Sign(secret, payload))
	if err != nil {
		return err
	}
	got, err := hex.DecodeString(signature)
	if err != nil || !hmac.Equal(expected, got) {
		return ErrInvalidSignature
	}
	return nil
}
