package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/pkg/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBrevoMailerSend(t *testing.T) {
	var got brevoEmail
	var apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/smtp/email", r.URL.Path)
		apiKey = r.Header.Get("api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"messageId":"<abc@brevo>"}`))
	}))
	defer srv.Close()

	m := NewBrevoMailer(config.MailConfig{
		APIKey: "key-1", BaseURL: srv.URL, SenderEmail: "noreply@ewa.test", SenderName: "EWA", Timeout: time.Second,
	})
	err := m.Send(context.Background(), Message{ToEmail: "jane@acme.test", ToName: "Jane", Subject: "Hi", HTML: "<p>Hi</p>"})
	require.NoError(t, err)

	assert.Equal(t, "key-1", apiKey)
	assert.Equal(t, "noreply@ewa.test", got.Sender.Email)
	require.Len(t, got.To, 1)
	assert.Equal(t, "jane@acme.test", got.To[0].Email)
	assert.Equal(t, "Hi", got.Subject)
}

func TestBrevoMailerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"unauthorized","message":"Key not found"}`))
	}))
	defer srv.Close()

	m := NewBrevoMailer(config.MailConfig{APIKey: "bad", BaseURL: srv.URL, Timeout: time.Second})
	err := m.Send(context.Background(), Message{ToEmail: "jane@acme.test", Subject: "Hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestNewMailerWithoutKeyLogs(t *testing.T) {
	m := NewMailer(config.MailConfig{}, zap.NewNop())
	_, ok := m.(*LogMailer)
	assert.True(t, ok)
	assert.NoError(t, m.Send(context.Background(), Message{ToEmail: "x@y.test"}))
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (r *recordingMailer) Send(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return r.err
}

func TestOrderStatusMessage(t *testing.T) {
	order := &model.Order{
		OrderNumber:   "ORD-1",
		CustomerName:  "Jane",
		CustomerEmail: "jane@acme.test",
		Status:        model.OrderStatusShipped,
		Pricing:       model.Pricing{Total: decimal.NewFromInt(1230)},
		Fulfillment:   model.Fulfillment{TrackingNumber: "TRK9"},
	}
	msg, ok := OrderStatusMessage(order)
	require.True(t, ok)
	assert.Equal(t, "Your order ORD-1 has shipped", msg.Subject)
	assert.Contains(t, msg.Text, "TRK9")
	assert.Contains(t, msg.Text, "1230.00")

	order.Status = model.OrderStatusProcessing
	_, ok = OrderStatusMessage(order)
	assert.False(t, ok)
}

func TestNotifierSwallowsFailures(t *testing.T) {
	mailer := &recordingMailer{err: assert.AnError}
	n := NewNotifier(mailer, zap.NewNop())

	n.OrderStatusChanged(context.Background(), &model.Order{
		OrderNumber: "ORD-2", CustomerEmail: "jane@acme.test", Status: model.OrderStatusCancelled,
	})
	assert.Len(t, mailer.sent, 1)
}
