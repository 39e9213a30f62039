package handler

import (
	"net/http"

	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/repository"
	"github.com/labstack/echo/v4"
)

// ListInvoices lists the store's invoices
func (h *Handler) ListInvoices(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	customerID, err := queryUint(c, "customer_id")
	if err != nil {
		return err
	}
	invoices, page, err := h.Invoices.List(c.Request().Context(), scope, repository.InvoiceFilter{
		Status:     c.QueryParam("status"),
		CustomerID: customerID,
		Search:     c.QueryParam("search"),
		Page:       queryInt(c, "page"),
		Limit:      queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse("invoices", invoices, page))
}

// GetInvoice returns one invoice
func (h *Handler) GetInvoice(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	invoice, err := h.Invoices.Get(c.Request().Context(), scope, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoice)
}

// GenerateInvoice issues the invoice of an order
func (h *Handler) GenerateInvoice(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	orderID, err := paramID(c, "order_id")
	if err != nil {
		return err
	}
	invoice, err := h.Invoices.Generate(c.Request().Context(), scope, orderID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Invoice generated successfully",
		"invoice": invoice,
	})
}

// UpdateInvoiceStatus changes an invoice's status
func (h *Handler) UpdateInvoiceStatus(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		Status model.InvoiceStatus `json:"status"`
	}
	if err := bind(c, &req); err != nil {
		return err
	}
	invoice, err := h.Invoices.UpdateStatus(c.Request().Context(), scope, id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Invoice status updated successfully",
		"invoice": invoice,
	})
}

// DeleteInvoice removes an invoice
func (h *Handler) DeleteInvoice(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Invoices.Delete(c.Request().Context(), scope, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Invoice deleted successfully"})
}

// GetCustomerInvoice returns the invoice of one of the customer's orders,
// issuing it on first request.
func (h *Handler) GetCustomerInvoice(c echo.Context) error {
	customer, scope, err := customerScope(c)
	if err != nil {
		return err
	}
	orderID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	invoice, err := h.Invoices.ForCustomerOrder(c.Request().Context(), scope, customer.ID, orderID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoice)
}
