// Package tenant carries the resolved store identity between the request
// pipeline and data access.
package tenant

import (
	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/labstack/echo/v4"
)

const scopeKey = "tenant_scope"

// Source records which signal produced the store identity.
type Source string

const (
	SourceStoreID   Source = "store_id"
	SourceQuery     Source = "query"
	SourceSubdomain Source = "subdomain"
	SourcePath      Source = "path"
	SourceDefault   Source = "default"
	SourceAdmin     Source = "admin"
	SourceCustomer  Source = "customer"
	SourceWebhook   Source = "webhook"
)

// Scope is the store every tenant-scoped read or write is filtered by.
type Scope struct {
	StoreID uint
	Source  Source
}

// For returns a scope bound to storeID.
func For(storeID uint, source Source) Scope {
	return Scope{StoreID: storeID, Source: source}
}

// Valid reports whether the scope names a store.
func (s Scope) Valid() bool {
	return s.StoreID != 0
}

// Set stores the scope on the echo context.
func Set(c echo.Context, s Scope) {
	c.Set(scopeKey, s)
}

// Lookup returns the scope stored on the echo context, if any.
func Lookup(c echo.Context) (Scope, bool) {
	s, ok := c.Get(scopeKey).(Scope)
	return s, ok && s.Valid()
}

// FromEcho returns the scope stored on the echo context or a BadRequest
// error when the request has not been bound to a store.
func FromEcho(c echo.Context) (Scope, error) {
	s, ok := Lookup(c)
	if !ok {
		return Scope{}, apperror.BadRequest("store not specified")
	}
	return s, nil
}
