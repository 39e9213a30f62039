package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/middleware"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/repository"
	"github.com/Shalinisinha22/ewa-back/internal/service"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"github.com/Shalinisinha22/ewa-back/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Handler serves the REST API on top of the services
type Handler struct {
	Stores    *service.StoreService
	Auth      *service.AuthService
	Catalog   *service.CatalogService
	Orders    *service.OrderService
	Customers *service.CustomerService
	Settings  *service.SettingsService
	Invoices  *service.InvoiceService
	Payments  *service.PaymentService
	Content   *service.ContentService
	Wishlist  *service.WishlistService
}

func adminScope(c echo.Context) (*model.Admin, tenant.Scope, error) {
	admin, err := middleware.AdminFrom(c)
	if err != nil {
		return nil, tenant.Scope{}, err
	}
	scope, err := tenant.FromEcho(c)
	if err != nil {
		return nil, tenant.Scope{}, err
	}
	return admin, scope, nil
}

func customerScope(c echo.Context) (*model.Customer, tenant.Scope, error) {
	customer, err := middleware.CustomerFrom(c)
	if err != nil {
		return nil, tenant.Scope{}, err
	}
	scope, err := tenant.FromEcho(c)
	if err != nil {
		return nil, tenant.Scope{}, err
	}
	return customer, scope, nil
}

func bind(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		logger.FromEcho(c).Warn("Invalid request body", zap.Error(err))
		return apperror.BadRequest("invalid request")
	}
	return nil
}

func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, apperror.BadRequest("invalid %s", strings.ReplaceAll(name, "_", " "))
	}
	return uint(id), nil
}

func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}

func queryUint(c echo.Context, name string) (uint, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, apperror.BadRequest("invalid %s", name)
	}
	return uint(n), nil
}

func queryBool(c echo.Context, name string) (*bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperror.BadRequest("invalid %s", name)
	}
	return &b, nil
}

// queryDate accepts RFC 3339 timestamps and plain dates. A plain end date
// covers the whole day.
func queryDate(c echo.Context, name string, endOfDay bool) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	// Try a full timestamp first
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, apperror.BadRequest("invalid %s, expected YYYY-MM-DD", name)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func listResponse(key string, items interface{}, page repository.Page) echo.Map {
	return echo.Map{
		key:          items,
		"pagination": page,
	}
}
