package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/payment"
	"github.com/Shalinisinha22/ewa-back/internal/repository"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"github.com/Shalinisinha22/ewa-back/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Webhook outcomes
const (
	WebhookProcessed = "processed"
	WebhookDuplicate = "duplicate"
	WebhookIgnored   = "ignored"
	WebhookUnmatched = "unmatched"
	WebhookRejected  = "rejected"
)

// PaymentProvider creates provider orders and verifies provider signatures
type PaymentProvider interface {
	KeyID() string
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string, notes map[string]string) (*payment.Order, error)
	VerifyPayment(providerOrderID, paymentID, signature string) error
	VerifyWebhook(body []byte, signature string) error
}

// CheckoutPayment is what the storefront needs to open the provider checkout
type CheckoutPayment struct {
	KeyID           string `json:"key_id"`
	ProviderOrderID string `json:"provider_order_id"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	OrderNumber     string `json:"order_number"`
}

// VerifyInput is the checkout callback the storefront forwards
type VerifyInput struct {
	OrderID         uint   `json:"order_id"`
	ProviderOrderID string `json:"razorpay_order_id"`
	PaymentID       string `json:"razorpay_payment_id"`
	Signature       string `json:"razorpay_signature"`
}

// PaymentService reconciles provider payments with orders
type PaymentService struct {
	provider PaymentProvider
	orders   *OrderService
	stores   *repository.StoreRepository
	log      *zap.Logger
}

// NewPaymentService creates a payment service
func NewPaymentService(provider PaymentProvider, orders *OrderService, stores *repository.StoreRepository, log *zap.Logger) *PaymentService {
	return &PaymentService{provider: provider, orders: orders, stores: stores, log: log}
}

// CreateProviderOrder registers a customer's order with the provider
func (s *PaymentService) CreateProviderOrder(ctx context.Context, scope tenant.Scope, customerID, orderID uint) (*CheckoutPayment, error) {
	order, err := s.orders.GetForCustomer(ctx, scope, customerID, orderID)
	if err != nil {
		return nil, err
	}
	switch {
	case order.Payment.Status == model.PaymentStatusCompleted:
		return nil, apperror.InvalidOperation("order already paid")
	case order.Status == model.OrderStatusCancelled || order.Status == model.OrderStatusRefundCompleted:
		return nil, apperror.InvalidOperation("cannot pay for %s order", order.Status)
	}

	currency := model.DefaultStoreSettings().Currency
	if store, err := s.stores.FindByID(ctx, scope.StoreID); err == nil && store.Settings.Currency != "" {
		currency = store.Settings.Currency
	}

	providerOrder, err := s.provider.CreateOrder(ctx, order.Pricing.Total, currency, order.OrderNumber, map[string]string{
		"order_id": strconv.FormatUint(uint64(order.ID), 10),
		"store_id": strconv.FormatUint(uint64(scope.StoreID), 10),
	})
	if err != nil {
		if errors.Is(err, payment.ErrNotConfigured) {
			return nil, apperror.BadRequest("online payments are not available")
		}
		return nil, apperror.Internal(err, "failed to create payment order")
	}
	if err := s.orders.AttachProviderOrder(ctx, scope, order, providerOrder.ID); err != nil {
		return nil, err
	}

	s.log.Info("Payment order created",
		zap.Uint("order_id", order.ID),
		zap.String("provider_order_id", providerOrder.ID))
	return &CheckoutPayment{
		KeyID:           s.provider.KeyID(),
		ProviderOrderID: providerOrder.ID,
		Amount:          providerOrder.Amount,
		Currency:        providerOrder.Currency,
		OrderNumber:     order.OrderNumber,
	}, nil
}

// Verify checks a checkout signature and marks the order paid
func (s *PaymentService) Verify(ctx context.Context, scope tenant.Scope, customerID uint, in VerifyInput) (*OrderResult, error) {
	if in.ProviderOrderID == "" || in.PaymentID == "" || in.Signature == "" {
		return nil, apperror.BadRequest("razorpay_order_id, razorpay_payment_id and razorpay_signature are required")
	}
	order, err := s.orders.GetForCustomer(ctx, scope, customerID, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Payment.ProviderOrderID != in.ProviderOrderID {
		return nil, apperror.BadRequest("payment does not belong to this order")
	}
	if err := s.provider.VerifyPayment(in.ProviderOrderID, in.PaymentID, in.Signature); err != nil {
		s.log.Warn("Payment signature rejected", zap.Uint("order_id", order.ID), zap.Error(err))
		return nil, apperror.BadRequest("invalid payment signature")
	}
	if order.Payment.Status == model.PaymentStatusCompleted {
		return &OrderResult{Order: order}, nil
	}
	return s.orders.MarkPaid(ctx, scope, order.ID, in.PaymentID)
}

// HandleWebhook applies a signed provider event. Events that cannot be
// matched or applied are acknowledged with an outcome rather than an error.
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte, signature string) (string, error) {
	if err := s.provider.VerifyWebhook(body, signature); err != nil {
		prometheus.RecordWebhook("unknown", "invalid_signature")
		if errors.Is(err, payment.ErrNotConfigured) {
			return "", apperror.Internal(err, "webhook secret is not configured")
		}
		return "", apperror.BadRequest("invalid webhook signature")
	}

	event, err := payment.ParseWebhook(body)
	if err != nil {
		prometheus.RecordWebhook("unknown", "malformed")
		return "", apperror.BadRequest("malformed webhook payload")
	}

	outcome := s.apply(ctx, event)
	prometheus.RecordWebhook(event.Event, outcome)
	return outcome, nil
}

func (s *PaymentService) apply(ctx context.Context, event *payment.WebhookEvent) string {
	if event.Event != payment.EventPaymentCaptured && event.Event != payment.EventPaymentFailed {
		return WebhookIgnored
	}

	entity := event.Payload.Payment.Entity
	if strings.TrimSpace(entity.OrderID) == "" {
		s.log.Warn("Webhook payment carries no provider order",
			zap.String("event", event.Event),
			zap.String("payment_id", entity.ID))
		return WebhookUnmatched
	}

	order, scope, err := s.orders.FindByProviderOrder(ctx, entity.OrderID)
	if err != nil {
		s.log.Warn("Webhook references unknown order",
			zap.String("event", event.Event),
			zap.String("provider_order_id", entity.OrderID),
			zap.Error(err))
		return WebhookUnmatched
	}

	switch event.Event {
	case payment.EventPaymentCaptured:
		if order.Payment.Status == model.PaymentStatusCompleted {
			return WebhookDuplicate
		}
		_, err = s.orders.MarkPaid(ctx, scope, order.ID, entity.ID)
	case payment.EventPaymentFailed:
		if order.Payment.Status == model.PaymentStatusFailed {
			return WebhookDuplicate
		}
		reason := entity.ErrorDescription
		if reason == "" {
			reason = "payment failed"
		}
		_, err = s.orders.PaymentFailed(ctx, scope, order.ID, reason)
	}
	if err != nil {
		s.log.Warn("Webhook could not be applied",
			zap.String("event", event.Event),
			zap.Uint("order_id", order.ID),
			zap.Error(err))
		return WebhookRejected
	}
	return WebhookProcessed
}
