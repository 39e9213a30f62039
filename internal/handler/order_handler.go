package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/export"
	"github.com/Shalinisinha22/ewa-back/internal/repository"
	"github.com/Shalinisinha22/ewa-back/internal/service"
	"github.com/Shalinisinha22/ewa-back/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func orderFilter(c echo.Context) (repository.OrderFilter, error) {
	from, err := queryDate(c, "from", false)
	if err != nil {
		return repository.OrderFilter{}, err
	}
	to, err := queryDate(c, "to", true)
	if err != nil {
		return repository.OrderFilter{}, err
	}
	return repository.OrderFilter{
		Status:        c.QueryParam("status"),
		PaymentStatus: c.QueryParam("payment_status"),
		From:          from,
		To:            to,
		Search:        c.QueryParam("search"),
		Page:          queryInt(c, "page"),
		Limit:         queryInt(c, "limit"),
	}, nil
}

// ListOrders lists the store's orders with optional filtering
func (h *Handler) ListOrders(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	f, err := orderFilter(c)
	if err != nil {
		return err
	}
	orders, page, err := h.Orders.List(c.Request().Context(), scope, f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse("orders", orders, page))
}

// OrderStats summarizes the store's orders
func (h *Handler) OrderStats(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	stats, err := h.Orders.Stats(c.Request().Context(), scope)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// ExportOrders returns every matching order, as JSON or as a spreadsheet
// with ?format=xlsx.
func (h *Handler) ExportOrders(c echo.Context) error {
	log := logger.FromEcho(c)

	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	f, err := orderFilter(c)
	if err != nil {
		return err
	}
	orders, err := h.Orders.Export(c.Request().Context(), scope, f)
	if err != nil {
		return err
	}

	// Render in the requested format, JSON by default
	switch c.QueryParam("format") {
	case "", "json":
		return c.JSON(http.StatusOK, echo.Map{"orders": orders, "count": len(orders)})
	case "xlsx":
		data, err := export.Orders(orders)
		if err != nil {
			return apperror.Internal(err, "failed to export orders")
		}
		filename := fmt.Sprintf("orders-%s.xlsx", time.Now().UTC().Format("20060102"))
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
		log.Info("Orders exported", zap.Uint("store_id", scope.StoreID), zap.Int("count", len(orders)))
		return c.Blob(http.StatusOK, xlsxContentType, data)
	default:
		return apperror.BadRequest("unsupported export format %q", c.QueryParam("format"))
	}
}

// GetOrder returns one order
func (h *Handler) GetOrder(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	order, err := h.Orders.Get(c.Request().Context(), scope, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// CreateOrder places an order on behalf of a customer
func (h *Handler) CreateOrder(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	var req service.CreateOrderInput
	if err := bind(c, &req); err != nil {
		return err
	}
	order, err := h.Orders.Create(c.Request().Context(), scope, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Order created successfully",
		"order":   order,
	})
}

func orderResult(c echo.Context, message string, result *service.OrderResult) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": message,
		"order":   result.Order,
		"stock":   result.Stock,
	})
}

// UpdateOrderStatus moves an order to a new status
func (h *Handler) UpdateOrderStatus(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req service.StatusInput
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := h.Orders.SetStatus(c.Request().Context(), scope, id, req)
	if err != nil {
		return err
	}
	return orderResult(c, "Order status updated successfully", result)
}

// MarkOrderPaid records a completed payment
func (h *Handler) MarkOrderPaid(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		TransactionID string `json:"transaction_id"`
	}
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := h.Orders.MarkPaid(c.Request().Context(), scope, id, req.TransactionID)
	if err != nil {
		return err
	}
	return orderResult(c, "Payment recorded successfully", result)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder cancels an order and returns its stock
func (h *Handler) CancelOrder(c echo.Context) error {
	admin, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req cancelRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := h.Orders.Cancel(c.Request().Context(), scope, id, admin.Email, req.Reason)
	if err != nil {
		return err
	}
	return orderResult(c, "Order cancelled successfully", result)
}

// RefundOrder records a refund and returns the order's stock
func (h *Handler) RefundOrder(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req service.RefundInput
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := h.Orders.Refund(c.Request().Context(), scope, id, req)
	if err != nil {
		return err
	}
	return orderResult(c, "Refund processed successfully", result)
}

// UpdateOrderNotes overwrites the order's notes
func (h *Handler) UpdateOrderNotes(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req service.NotesInput
	if err := bind(c, &req); err != nil {
		return err
	}
	order, err := h.Orders.UpdateNotes(c.Request().Context(), scope, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Order notes updated successfully",
		"order":   order,
	})
}

// ListCustomerOrders lists the authenticated customer's orders
func (h *Handler) ListCustomerOrders(c echo.Context) error {
	customer, scope, err := customerScope(c)
	if err != nil {
		return err
	}
	f, err := orderFilter(c)
	if err != nil {
		return err
	}
	f.CustomerID = customer.ID
	orders, page, err := h.Orders.List(c.Request().Context(), scope, f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse("orders", orders, page))
}

// GetCustomerOrder returns one of the customer's orders
func (h *Handler) GetCustomerOrder(c echo.Context) error {
	customer, scope, err := customerScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	order, err := h.Orders.GetForCustomer(c.Request().Context(), scope, customer.ID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Checkout places an order for the customer and reserves its stock
func (h *Handler) Checkout(c echo.Context) error {
	customer, scope, err := customerScope(c)
	if err != nil {
		return err
	}
	var req service.CheckoutInput
	if err := bind(c, &req); err != nil {
		return err
	}

	// Reserve stock and place the order in one transaction
	order, err := h.Orders.Checkout(c.Request().Context(), scope, customer, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// CancelCustomerOrder cancels one of the customer's pending or processing orders
func (h *Handler) CancelCustomerOrder(c echo.Context) error {
	customer, scope, err := customerScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req cancelRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	result, err := h.Orders.CancelForCustomer(c.Request().Context(), scope, customer.ID, id, req.Reason)
	if err != nil {
		return err
	}
	return orderResult(c, "Order cancelled successfully", result)
}
