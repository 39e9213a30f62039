package middleware

import (
	"context"
	"strings"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"github.com/Shalinisinha22/ewa-back/pkg/jwtutil"
	"github.com/Shalinisinha22/ewa-back/pkg/logger"
	"github.com/Shalinisinha22/ewa-back/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	adminKey    = "auth_admin"
	customerKey = "auth_customer"
)

// AdminFinder loads admins by id
type AdminFinder interface {
	FindByID(ctx context.Context, id uint) (*model.Admin, error)
}

// CustomerFinder loads customers by id across stores
type CustomerFinder interface {
	FindByID(ctx context.Context, id uint) (*model.Customer, error)
}

// TokenValidator validates bearer tokens
type TokenValidator interface {
	ValidateToken(token string) (*jwtutil.Claims, error)
}

// Gate validates bearer credentials and binds the tenant scope
type Gate struct {
	tokens    TokenValidator
	admins    AdminFinder
	customers CustomerFinder
}

// NewGate creates an access gate
func NewGate(tokens TokenValidator, admins AdminFinder, customers CustomerFinder) *Gate {
	return &Gate{tokens: tokens, admins: admins, customers: customers}
}

func (g *Gate) claims(c echo.Context, subject string) (*jwtutil.Claims, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		prometheus.RecordAuthError("missing_token")
		return nil, apperror.Unauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		prometheus.RecordAuthError("invalid_format")
		return nil, apperror.Unauthorized("invalid authorization format")
	}

	claims, err := g.tokens.ValidateToken(parts[1])
	if err != nil {
		logger.FromEcho(c).Debug("Token validation failed", zap.Error(err))
		prometheus.RecordAuthError("invalid_token")
		return nil, apperror.Unauthorized("invalid or expired token")
	}
	if claims.SubjectType != subject {
		prometheus.RecordAuthError("wrong_subject")
		return nil, apperror.Unauthorized("%s credentials required", subject)
	}
	return claims, nil
}

// Admin authenticates admins and super admins. A store admin is always
// scoped to their own store. A super admin keeps whatever store the
// resolver found, if any.
func (g *Gate) Admin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := g.claims(c, jwtutil.SubjectAdmin)
			if err != nil {
				return err
			}

			admin, err := g.admins.FindByID(c.Request().Context(), claims.SubjectID)
			if err != nil {
				if apperror.Is(err, apperror.KindNotFound) {
					prometheus.RecordAuthError("subject_missing")
					return apperror.Unauthorized("account no longer exists")
				}
				return err
			}
			if admin.Status != model.AdminStatusActive {
				prometheus.RecordAuthError("subject_inactive")
				return apperror.Unauthorized("account is %s", admin.Status)
			}

			if !admin.IsSuperAdmin() {
				if admin.StoreID == nil {
					prometheus.RecordAuthError("unscoped_admin")
					return apperror.Unauthorized("admin is not assigned to a store")
				}
				if resolved, ok := tenant.Lookup(c); ok && resolved.StoreID != *admin.StoreID {
					logger.FromEcho(c).Debug("Ignoring resolved store for store admin",
						zap.Uint("resolved_store_id", resolved.StoreID),
						zap.Uint("admin_store_id", *admin.StoreID))
				}
				tenant.Set(c, tenant.For(*admin.StoreID, tenant.SourceAdmin))
			}

			c.Set(adminKey, admin)
			return next(c)
		}
	}
}

// Customer authenticates customers and binds the scope to the customer's
// store regardless of what the resolver found.
func (g *Gate) Customer() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := g.claims(c, jwtutil.SubjectCustomer)
			if err != nil {
				return err
			}

			customer, err := g.customers.FindByID(c.Request().Context(), claims.SubjectID)
			if err != nil {
				if apperror.Is(err, apperror.KindNotFound) {
					prometheus.RecordAuthError("subject_missing")
					return apperror.Unauthorized("account no longer exists")
				}
				return err
			}
			if claims.StoreID == nil || *claims.StoreID != customer.StoreID {
				prometheus.RecordAuthError("store_mismatch")
				return apperror.Unauthorized("invalid or expired token")
			}
			if customer.IsBlocked() {
				prometheus.RecordAuthError("subject_blocked")
				return apperror.Unauthorized("account is blocked")
			}

			if resolved, ok := tenant.Lookup(c); ok && resolved.StoreID != customer.StoreID {
				logger.FromEcho(c).Warn("Customer addressed a foreign store",
					zap.Uint("resolved_store_id", resolved.StoreID),
					zap.Uint("customer_store_id", customer.StoreID),
					zap.Uint("customer_id", customer.ID))
			}
			tenant.Set(c, tenant.For(customer.StoreID, tenant.SourceCustomer))

			c.Set(customerKey, customer)
			return next(c)
		}
	}
}

// RequirePermission rejects admins lacking p
func RequirePermission(p model.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			admin, err := AdminFrom(c)
			if err != nil {
				return err
			}
			if !admin.Can(p) {
				prometheus.RecordAuthError("forbidden")
				return apperror.Forbidden("missing permission: %s", p)
			}
			return next(c)
		}
	}
}

// RequireSuperAdmin rejects everyone but super admins
func RequireSuperAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			admin, err := AdminFrom(c)
			if err != nil {
				return err
			}
			if !admin.IsSuperAdmin() {
				prometheus.RecordAuthError("forbidden")
				return apperror.Forbidden("super admin access required")
			}
			return next(c)
		}
	}
}

// AdminFrom returns the authenticated admin
func AdminFrom(c echo.Context) (*model.Admin, error) {
	admin, ok := c.Get(adminKey).(*model.Admin)
	if !ok {
		return nil, apperror.Unauthorized("authentication required")
	}
	return admin, nil
}

// CustomerFrom returns the authenticated customer
func CustomerFrom(c echo.Context) (*model.Customer, error) {
	customer, ok := c.Get(customerKey).(*model.Customer)
	if !ok {
		return nil, apperror.Unauthorized("authentication required")
	}
	return customer, nil
}
