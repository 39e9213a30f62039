// Package resolver maps an inbound request to the store it addresses.
package resolver

import (
	"context"
	"net"
	"strconv"
	"strings"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"github.com/Shalinisinha22/ewa-back/prometheus"
	"go.uber.org/zap"
)

// StoreLookup finds active stores
type StoreLookup interface {
	FindActiveByIdentifier(ctx context.Context, identifier string) (*model.Store, error)
	FindActiveBySlug(ctx context.Context, slug string) (*model.Store, error)
	FirstActive(ctx context.Context) (*model.Store, error)
}

// Request carries the store signals of an inbound request
type Request struct {
	// StoreID is an explicit store id, trusted without lookup.
	StoreID string
	// StoreName is a store name or slug from the query string.
	StoreName string
	// Host is the Host header, port included.
	Host string
	// PathSlug is a store slug from the route.
	PathSlug string
}

// Options tunes resolution
type Options struct {
	// APISubdomain is the API's own host label, never treated as a store.
	APISubdomain string
	// AllowDefault enables the oldest-active-store fallback.
	AllowDefault bool
}

// Resolver applies the store signals in priority order: explicit id, query
// name or slug, host subdomain, path slug, then the default store. The first
// signal present decides the outcome.
type Resolver struct {
	lookup StoreLookup
	cache  Cache
	opts   Options
	log    *zap.Logger
}

// New creates a resolver. A nil cache disables caching.
func New(lookup StoreLookup, cache Cache, opts Options, log *zap.Logger) *Resolver {
	if cache == nil {
		cache = NopCache{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{lookup: lookup, cache: cache, opts: opts, log: log}
}

// Resolve returns the scope of the store the request addresses.
func (r *Resolver) Resolve(ctx context.Context, req Request) (tenant.Scope, error) {
	if id := strings.TrimSpace(req.StoreID); id != "" {
		storeID, err := strconv.ParseUint(id, 10, 32)
		if err != nil || storeID == 0 {
			prometheus.RecordStoreResolution(string(tenant.SourceStoreID), "invalid")
			return tenant.Scope{}, apperror.BadRequest("invalid store id")
		}
		prometheus.RecordStoreResolution(string(tenant.SourceStoreID), "resolved")
		return tenant.For(uint(storeID), tenant.SourceStoreID), nil
	}

	if name := strings.TrimSpace(req.StoreName); name != "" {
		return r.byIdentifier(ctx, name, tenant.SourceQuery)
	}

	if sub := Subdomain(req.Host, r.opts.APISubdomain); sub != "" {
		return r.byIdentifier(ctx, sub, tenant.SourceSubdomain)
	}

	if slug := strings.TrimSpace(req.PathSlug); slug != "" {
		return r.cached(ctx, "slug:"+slug, tenant.SourcePath, func() (*model.Store, error) {
			return r.lookup.FindActiveBySlug(ctx, slug)
		})
	}

	if r.opts.AllowDefault {
		store, err := r.lookup.FirstActive(ctx)
		if err != nil {
			prometheus.RecordStoreResolution(string(tenant.SourceDefault), "not_found")
			return tenant.Scope{}, err
		}
		prometheus.RecordStoreResolution(string(tenant.SourceDefault), "resolved")
		return tenant.For(store.ID, tenant.SourceDefault), nil
	}

	prometheus.RecordStoreResolution("none", "not_specified")
	return tenant.Scope{}, apperror.BadRequest("store not specified")
}

func (r *Resolver) byIdentifier(ctx context.Context, identifier string, source tenant.Source) (tenant.Scope, error) {
	return r.cached(ctx, "ident:"+identifier, source, func() (*model.Store, error) {
		return r.lookup.FindActiveByIdentifier(ctx, identifier)
	})
}

func (r *Resolver) cached(ctx context.Context, key string, source tenant.Source, load func() (*model.Store, error)) (tenant.Scope, error) {
	if storeID, ok := r.cache.Get(ctx, key); ok {
		prometheus.RecordStoreResolution(string(source), "cache_hit")
		return tenant.For(storeID, source), nil
	}

	store, err := load()
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			prometheus.RecordStoreResolution(string(source), "not_found")
			return tenant.Scope{}, apperror.NotFound("store not found")
		}
		r.log.Error("Store lookup failed", zap.String("source", string(source)), zap.Error(err))
		return tenant.Scope{}, err
	}

	r.cache.Set(ctx, key, store.ID)
	prometheus.RecordStoreResolution(string(source), "resolved")
	return tenant.For(store.ID, source), nil
}

// Invalidate drops cached lookups of a store after it changes.
func (r *Resolver) Invalidate(ctx context.Context, storeID uint) {
	r.cache.Invalidate(ctx, storeID)
}

// Subdomain returns the store label of host, or "" when host carries none.
// IP addresses, single-label hosts and reserved labels are ignored.
func Subdomain(host, apiSubdomain string) string {
	host = strings.TrimSpace(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if host == "" || net.ParseIP(host) != nil {
		return ""
	}

	dot := strings.IndexByte(host, '.')
	if dot <= 0 {
		return ""
	}

	label := strings.ToLower(host[:dot])
	switch label {
	case "www", "localhost", "127":
		return ""
	}
	if apiSubdomain != "" && label == strings.ToLower(apiSubdomain) {
		return ""
	}
	return label
}
