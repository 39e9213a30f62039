package middleware

import (
	"context"

	"github.com/Shalinisinha22/ewa-back/internal/resolver"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"github.com/Shalinisinha22/ewa-back/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Store signal names on the wire
const (
	HeaderStoreID  = "X-Store-ID"
	QueryStoreID   = "storeId"
	QueryStore     = "store"
	ParamStoreSlug = "store_slug"
)

// StoreResolver resolves a request to a store scope
type StoreResolver interface {
	Resolve(ctx context.Context, req resolver.Request) (tenant.Scope, error)
}

// StoreRequest collects the store signals of an echo request
func StoreRequest(c echo.Context) resolver.Request {
	storeID := c.Request().Header.Get(HeaderStoreID)
	if storeID == "" {
		storeID = c.QueryParam(QueryStoreID)
	}
	return resolver.Request{
		StoreID:   storeID,
		StoreName: c.QueryParam(QueryStore),
		Host:      c.Request().Host,
		PathSlug:  c.Param(ParamStoreSlug),
	}
}

// IdentifyStore resolves the store of every request and fails the request
// when none can be resolved
func IdentifyStore(r StoreResolver) echo.MiddlewareFunc {
	return identify(r, true)
}

// IdentifyStoreOptional resolves the store when possible. Failures are left
// for the access gate, which binds the scope from the credential.
func IdentifyStoreOptional(r StoreResolver) echo.MiddlewareFunc {
	return identify(r, false)
}

func identify(r StoreResolver, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			scope, err := r.Resolve(c.Request().Context(), StoreRequest(c))
			if err != nil {
				if required {
					log.Warn("Store resolution failed", zap.Error(err))
					return err
				}
				log.Debug("Store not resolved, deferring to credential", zap.Error(err))
				return next(c)
			}

			tenant.Set(c, scope)
			log.Debug("Store resolved",
				zap.Uint("store_id", scope.StoreID),
				zap.String("source", string(scope.Source)))
			return next(c)
		}
	}
}
