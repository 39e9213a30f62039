package handler

import (
	"net/http"

	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/repository"
	"github.com/labstack/echo/v4"
)

// ListCustomers lists the store's customers
func (h *Handler) ListCustomers(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	customers, page, err := h.Customers.List(c.Request().Context(), scope, repository.CustomerFilter{
		Status: c.QueryParam("status"),
		Search: c.QueryParam("search"),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse("customers", customers, page))
}

// GetCustomer returns one customer
func (h *Handler) GetCustomer(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	customer, err := h.Customers.Get(c.Request().Context(), scope, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

// UpdateCustomerStatus blocks or reactivates a customer
func (h *Handler) UpdateCustomerStatus(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		Status model.CustomerStatus `json:"status"`
	}
	if err := bind(c, &req); err != nil {
		return err
	}
	customer, err := h.Customers.SetStatus(c.Request().Context(), scope, id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Customer status updated successfully",
		"customer": customer,
	})
}
