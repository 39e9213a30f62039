package handler

import (
	"io"
	"net/http"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/service"
	"github.com/Shalinisinha22/ewa-back/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HeaderRazorpaySignature carries the webhook body signature
const HeaderRazorpaySignature = "X-Razorpay-Signature"

// CreatePaymentOrder registers one of the customer's orders with the payment provider
func (h *Handler) CreatePaymentOrder(c echo.Context) error {
	customer, scope, err := customerScope(c)
	if err != nil {
		return err
	}
	var req struct {
		OrderID uint `json:"order_id"`
	}
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.OrderID == 0 {
		return apperror.BadRequest("order_id is required")
	}
	checkout, err := h.Payments.CreateProviderOrder(c.Request().Context(), scope, customer.ID, req.OrderID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, checkout)
}

// VerifyPayment checks the checkout callback signature and marks the order paid
func (h *Handler) VerifyPayment(c echo.Context) error {
	customer, scope, err := customerScope(c)
	if err != nil {
		return err
	}
	var req service.VerifyInput
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := h.Payments.Verify(c.Request().Context(), scope, customer.ID, req)
	if err != nil {
		logger.FromEcho(c).Warn("Payment verification failed", zap.Uint("order_id", req.OrderID), zap.Error(err))
		return err
	}
	return orderResult(c, "Payment verified successfully", result)
}

// PaymentWebhook applies a signed provider event. The signature covers the raw
// body, so it is read before any decoding.
func (h *Handler) PaymentWebhook(c echo.Context) error {
	log := logger.FromEcho(c)

	// The signature covers the raw body, so read it before any decoding
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return apperror.BadRequest("unreadable request body")
	}
	outcome, err := h.Payments.HandleWebhook(c.Request().Context(), body, c.Request().Header.Get(HeaderRazorpaySignature))
	if err != nil {
		log.Warn("Webhook rejected", zap.Error(err))
		return err
	}
	// Every verified event is acknowledged with its outcome
	log.Info("Webhook handled", zap.String("outcome", outcome))
	return c.JSON(http.StatusOK, echo.Map{"status": outcome})
}
