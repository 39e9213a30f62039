package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/resolver"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"github.com/Shalinisinha22/ewa-back/pkg/jwtutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type resolveFunc func(ctx context.Context, req resolver.Request) (tenant.Scope, error)

func (f resolveFunc) Resolve(ctx context.Context, req resolver.Request) (tenant.Scope, error) {
	return f(ctx, req)
}

type fakeAdmins map[uint]*model.Admin

func (f fakeAdmins) FindByID(_ context.Context, id uint) (*model.Admin, error) {
	if a, ok := f[id]; ok {
		return a, nil
	}
	return nil, apperror.NotFound("admin not found")
}

type fakeCustomers map[uint]*model.Customer

func (f fakeCustomers) FindByID(_ context.Context, id uint) (*model.Customer, error) {
	if c, ok := f[id]; ok {
		return c, nil
	}
	return nil, apperror.NotFound("customer not found")
}

func uintPtr(v uint) *uint { return &v }

func newEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = apperror.HTTPErrorHandler(zap.NewNop())
	return e
}

func scopeHandler(c echo.Context) error {
	scope, err := tenant.FromEcho(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"store_id": scope.StoreID, "source": scope.Source})
}

func do(e *echo.Echo, method, target, token string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequestIDMiddleware(t *testing.T) {
	e := newEcho()
	e.Use(RequestIDMiddleware())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := do(e, http.MethodGet, "/", "", nil)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	rec = do(e, http.MethodGet, "/", "", map[string]string{echo.HeaderXRequestID: "req-1"})
	assert.Equal(t, "req-1", rec.Header().Get(echo.HeaderXRequestID))
}

func TestStoreRequestCollectsSignals(t *testing.T) {
	e := newEcho()
	var got resolver.Request
	e.GET("/s/:store_slug", func(c echo.Context) error {
		got = StoreRequest(c)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/s/acme?storeId=9&store=Acme", nil)
	req.Host = "acme.example.com"
	e.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "9", got.StoreID)
	assert.Equal(t, "Acme", got.StoreName)
	assert.Equal(t, "acme.example.com", got.Host)
	assert.Equal(t, "acme", got.PathSlug)

	req = httptest.NewRequest(http.MethodGet, "/s/acme?storeId=9", nil)
	req.Header.Set(HeaderStoreID, "4")
	e.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "4", got.StoreID)
}

func TestIdentifyStore(t *testing.T) {
	r := resolveFunc(func(_ context.Context, req resolver.Request) (tenant.Scope, error) {
		if req.StoreID == "" {
			return tenant.Scope{}, apperror.BadRequest("store not specified")
		}
		return tenant.For(3, tenant.SourceStoreID), nil
	})

	e := newEcho()
	e.GET("/required", scopeHandler, IdentifyStore(r))
	e.GET("/optional", func(c echo.Context) error {
		_, ok := tenant.Lookup(c)
		return c.JSON(http.StatusOK, echo.Map{"resolved": ok})
	}, IdentifyStoreOptional(r))

	rec := do(e, http.MethodGet, "/required", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "store not specified")

	rec = do(e, http.MethodGet, "/required", "", map[string]string{HeaderStoreID: "3"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"store_id":3`)

	rec = do(e, http.MethodGet, "/optional", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"resolved":false`)
}

type gateFixture struct {
	e      *echo.Echo
	tokens *jwtutil.JWTUtil
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	tokens := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
	admins := fakeAdmins{
		1: {ID: 1, StoreID: uintPtr(5), Role: model.RoleAdmin, Status: model.AdminStatusActive,
			Permissions: model.Permissions{model.PermOrders}},
		2: {ID: 2, Role: model.RoleSuperAdmin, Status: model.AdminStatusActive},
		3: {ID: 3, StoreID: uintPtr(5), Role: model.RoleAdmin, Status: model.AdminStatusDisabled},
	}
	customers := fakeCustomers{
		10: {ID: 10, StoreID: 5, Status: model.CustomerStatusActive},
		11: {ID: 11, StoreID: 5, Status: model.CustomerStatusBlocked},
	}
	gate := NewGate(tokens, admins, customers)

	// every request claims store 9 through the resolver
	resolved := resolveFunc(func(context.Context, resolver.Request) (tenant.Scope, error) {
		return tenant.For(9, tenant.SourceStoreID), nil
	})

	e := newEcho()
	admin := e.Group("/admin", IdentifyStoreOptional(resolved), gate.Admin())
	admin.GET("/scope", scopeHandler)
	admin.GET("/orders", scopeHandler, RequirePermission(model.PermOrders))
	admin.GET("/products", scopeHandler, RequirePermission(model.PermProducts))
	admin.GET("/stores", scopeHandler, RequireSuperAdmin())

	customer := e.Group("/customer", IdentifyStoreOptional(resolved), gate.Customer())
	customer.GET("/scope", func(c echo.Context) error {
		cust, err := CustomerFrom(c)
		if err != nil {
			return err
		}
		scope, err := tenant.FromEcho(c)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, echo.Map{"store_id": scope.StoreID, "customer_id": cust.ID})
	})

	return &gateFixture{e: e, tokens: tokens}
}

func (f *gateFixture) adminToken(t *testing.T, id uint, storeID *uint, role model.Role) string {
	t.Helper()
	token, err := f.tokens.GenerateAdminToken(id, "a@example.com", storeID, string(role))
	require.NoError(t, err)
	return token
}

func (f *gateFixture) customerToken(t *testing.T, id, storeID uint) string {
	t.Helper()
	token, err := f.tokens.GenerateCustomerToken(id, "c@example.com", storeID)
	require.NoError(t, err)
	return token
}

func TestGateRejectsBadCredentials(t *testing.T) {
	f := newGateFixture(t)

	rec := do(f.e, http.MethodGet, "/admin/scope", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(f.e, http.MethodGet, "/admin/scope", "", map[string]string{echo.HeaderAuthorization: "Token abc"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(f.e, http.MethodGet, "/admin/scope", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// customer token on an admin route
	rec = do(f.e, http.MethodGet, "/admin/scope", f.customerToken(t, 10, 5), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// admin token on a customer route
	rec = do(f.e, http.MethodGet, "/customer/scope", f.adminToken(t, 1, uintPtr(5), model.RoleAdmin), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGateAdminAccounts(t *testing.T) {
	f := newGateFixture(t)

	rec := do(f.e, http.MethodGet, "/admin/scope", f.adminToken(t, 3, uintPtr(5), model.RoleAdmin), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "disabled admin")

	rec = do(f.e, http.MethodGet, "/admin/scope", f.adminToken(t, 99, uintPtr(5), model.RoleAdmin), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "deleted admin")
	assert.Contains(t, rec.Body.String(), "no longer exists")
}

func TestGateBindsStoreAdminToOwnStore(t *testing.T) {
	f := newGateFixture(t)

	rec := do(f.e, http.MethodGet, "/admin/scope", f.adminToken(t, 1, uintPtr(5), model.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"store_id":5`)
	assert.Contains(t, rec.Body.String(), `"source":"admin"`)
}

func TestGateSuperAdminKeepsResolvedStore(t *testing.T) {
	f := newGateFixture(t)

	rec := do(f.e, http.MethodGet, "/admin/scope", f.adminToken(t, 2, nil, model.RoleSuperAdmin), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"store_id":9`)
}

func TestGateCustomerScope(t *testing.T) {
	f := newGateFixture(t)

	rec := do(f.e, http.MethodGet, "/customer/scope", f.customerToken(t, 10, 5), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"store_id":5`)

	rec = do(f.e, http.MethodGet, "/customer/scope", f.customerToken(t, 11, 5), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "blocked")

	// token minted for a different store than the account belongs to
	rec = do(f.e, http.MethodGet, "/customer/scope", f.customerToken(t, 10, 9), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequirePermission(t *testing.T) {
	f := newGateFixture(t)
	storeAdmin := f.adminToken(t, 1, uintPtr(5), model.RoleAdmin)
	super := f.adminToken(t, 2, nil, model.RoleSuperAdmin)

	assert.Equal(t, http.StatusOK, do(f.e, http.MethodGet, "/admin/orders", storeAdmin, nil).Code)
	assert.Equal(t, http.StatusForbidden, do(f.e, http.MethodGet, "/admin/products", storeAdmin, nil).Code)
	assert.Equal(t, http.StatusForbidden, do(f.e, http.MethodGet, "/admin/stores", storeAdmin, nil).Code)

	assert.Equal(t, http.StatusOK, do(f.e, http.MethodGet, "/admin/products", super, nil).Code)
	assert.Equal(t, http.StatusOK, do(f.e, http.MethodGet, "/admin/stores", super, nil).Code)
}
