package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Shalinisinha22/ewa-back/pkg/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder(t *testing.T) {
	var got createOrderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_key", user)
		assert.Equal(t, "rzp_secret", pass)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_123","entity":"order","amount":123050,"currency":"INR","receipt":"ORD-1","status":"created"}`))
	}))
	defer srv.Close()

	c := NewClient(config.PaymentConfig{
		RazorpayKeyID: "rzp_key", RazorpayKeySecret: "rzp_secret", BaseURL: srv.URL, Timeout: time.Second,
	})
	order, err := c.CreateOrder(context.Background(), decimal.RequireFromString("1230.50"), "INR", "ORD-1", nil)
	require.NoError(t, err)

	assert.Equal(t, "order_123", order.ID)
	assert.Equal(t, int64(123050), got.Amount)
	assert.Equal(t, "ORD-1", got.Receipt)
}

func TestCreateOrderAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount too small"}}`))
	}))
	defer srv.Close()

	c := NewClient(config.PaymentConfig{RazorpayKeyID: "k", RazorpayKeySecret: "s", BaseURL: srv.URL, Timeout: time.Second})
	_, err := c.CreateOrder(context.Background(), decimal.NewFromInt(0), "INR", "ORD-1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount too small")
}

func TestCreateOrderNotConfigured(t *testing.T) {
	c := NewClient(config.PaymentConfig{})
	_, err := c.CreateOrder(context.Background(), decimal.NewFromInt(10), "INR", "r", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestVerifyPayment(t *testing.T) {
	c := NewClient(config.PaymentConfig{RazorpayKeySecret: "secret"})
	sig := Sign("secret", []byte("order_1|pay_1"))

	assert.NoError(t, c.VerifyPayment("order_1", "pay_1", sig))
	assert.ErrorIs(t, c.VerifyPayment("order_1", "pay_2", sig), ErrInvalidSignature)
	assert.ErrorIs(t, c.VerifyPayment("order_1", "pay_1", "not-hex"), ErrInvalidSignature)
}

func TestVerifyWebhook(t *testing.T) {
	c := NewClient(config.PaymentConfig{WebhookSecret: "whsec"})
	body := []byte(`{"event":"payment.captured"}`)

	assert.NoError(t, c.VerifyWebhook(body, Sign("whsec", body)))
	assert.ErrorIs(t, c.VerifyWebhook(body, Sign("other", body)), ErrInvalidSignature)

	unset := NewClient(config.PaymentConfig{})
	assert.ErrorIs(t, unset.VerifyWebhook(body, "x"), ErrNotConfigured)
}

func TestParseWebhook(t *testing.T) {
	body := []byte(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_9","order_id":"order_9","amount":5000,"status":"failed","error_description":"card declined"}}}}`)
	event, err := ParseWebhook(body)
	require.NoError(t, err)

	assert.Equal(t, EventPaymentFailed, event.Event)
	assert.Equal(t, "order_9", event.Payload.Payment.Entity.OrderID)
	assert.Equal(t, "card declined", event.Payload.Payment.Entity.ErrorDescription)

	_, err = ParseWebhook([]byte("{"))
	assert.Error(t, err)
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(1999), ToMinorUnits(decimal.RequireFromString("19.99")))
	assert.Equal(t, int64(100000), ToMinorUnits(decimal.NewFromInt(1000)))
}
