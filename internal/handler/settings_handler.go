package handler

import (
	"net/http"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/service"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// GetShippingSettings returns the store's shipping settings
func (h *Handler) GetShippingSettings(c echo.Context) error {
	scope, err := tenant.FromEcho(c)
	if err != nil {
		return err
	}
	shipping, err := h.Settings.Shipping(c.Request().Context(), scope)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, shipping)
}

// UpdateShippingSettings merges the provided shipping fields
func (h *Handler) UpdateShippingSettings(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	var req service.ShippingUpdate
	if err := bind(c, &req); err != nil {
		return err
	}
	shipping, err := h.Settings.UpdateShipping(c.Request().Context(), scope, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Shipping settings updated successfully",
		"shipping": shipping,
	})
}

// GetTaxRates returns the store's tax rates
func (h *Handler) GetTaxRates(c echo.Context) error {
	scope, err := tenant.FromEcho(c)
	if err != nil {
		return err
	}
	rates, err := h.Settings.TaxRates(c.Request().Context(), scope)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"tax_rates": rates})
}

// SaveTaxRate updates the tax rate named by id, or creates one
func (h *Handler) SaveTaxRate(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	var req service.TaxRateInput
	if err := bind(c, &req); err != nil {
		return err
	}
	rate, err := h.Settings.SaveTaxRate(c.Request().Context(), scope, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Tax rate saved successfully",
		"tax_rate": rate,
	})
}

// DeleteTaxRate removes a tax rate
func (h *Handler) DeleteTaxRate(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Settings.DeleteTaxRate(c.Request().Context(), scope, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Tax rate deleted successfully"})
}

// GetPaymentGateways returns every gateway of the store
func (h *Handler) GetPaymentGateways(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	gateways, err := h.Settings.Gateways(c.Request().Context(), scope)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"gateways": gateways})
}

// GetActivePaymentGateways returns the gateways a customer can pay with
func (h *Handler) GetActivePaymentGateways(c echo.Context) error {
	scope, err := tenant.FromEcho(c)
	if err != nil {
		return err
	}
	gateways, err := h.Settings.ActiveGateways(c.Request().Context(), scope)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"gateways": gateways})
}

// SavePaymentGateway updates the gateway named by id, or creates one
func (h *Handler) SavePaymentGateway(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	var req service.GatewayInput
	if err := bind(c, &req); err != nil {
		return err
	}
	gateway, err := h.Settings.SaveGateway(c.Request().Context(), scope, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Payment gateway saved successfully",
		"gateway": gateway,
	})
}

// DeletePaymentGateway removes a gateway
func (h *Handler) DeletePaymentGateway(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Settings.DeleteGateway(c.Request().Context(), scope, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Payment gateway deleted successfully"})
}

// GetQuote prices shipping and tax for ?subtotal= and an optional ?zone=
func (h *Handler) GetQuote(c echo.Context) error {
	scope, err := tenant.FromEcho(c)
	if err != nil {
		return err
	}
	// Parse the cart subtotal
	subtotal, err := decimal.NewFromString(c.QueryParam("subtotal"))
	if err != nil || subtotal.IsNegative() {
		return apperror.BadRequest("subtotal must be a non-negative amount")
	}
	quote, err := h.Settings.Quote(c.Request().Context(), scope, subtotal, c.QueryParam("zone"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, quote)
}
