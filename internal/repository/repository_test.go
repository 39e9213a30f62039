package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/dbtest"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedStore(t *testing.T, db *gorm.DB, name, slug string, status model.StoreStatus) *model.Store {
	t.Helper()
	store := &model.Store{Name: name, Slug: slug, Status: status, Settings: model.DefaultStoreSettings()}
	require.NoError(t, db.Create(store).Error)
	return store
}

func seedOrder(t *testing.T, repo *OrderRepository, scope tenant.Scope, number string, status model.OrderStatus, total int64) *model.Order {
	t.Helper()
	order := &model.Order{
		OrderNumber:  number,
		CustomerName: "Jane " + number,
		Status:       status,
		Pricing: model.Pricing{
			Subtotal: decimal.NewFromInt(total),
			Total:    decimal.NewFromInt(total),
		},
		Payment: model.Payment{Status: model.PaymentStatusPending},
		Items:   []model.OrderItem{{ProductID: 1, Name: "Item", Price: decimal.NewFromInt(total), Quantity: 1}},
	}
	require.NoError(t, repo.Create(context.Background(), scope, order))
	return order
}

func TestStoreLookups(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	repo := NewStoreRepository(db)

	acme := seedStore(t, db, "Acme", "acme", model.StoreStatusActive)
	seedStore(t, db, "Dormant", "dormant", model.StoreStatusPending)

	got, err := repo.FindActiveByIdentifier(ctx, "ACME")
	require.NoError(t, err)
	assert.Equal(t, acme.ID, got.ID)

	_, err = repo.FindActiveByIdentifier(ctx, "dormant")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = repo.FindActiveBySlug(ctx, "ACME")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	first, err := repo.FirstActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, acme.ID, first.ID)

	taken, err := repo.NameTaken(ctx, "aCmE", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.NameTaken(ctx, "acme", acme.ID)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestStoreDeleteCascadesToAdmins(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	stores := NewStoreRepository(db)
	admins := NewAdminRepository(db)

	store := &model.Store{Name: "Acme", Slug: "acme", Status: model.StoreStatusPending}
	admin := &model.Admin{Name: "Owner", Email: "owner@acme.test", PasswordHash: "x", Role: model.RoleAdmin, Status: model.AdminStatusActive}
	require.NoError(t, stores.CreateWithAdmin(ctx, store, admin))
	require.NotNil(t, admin.StoreID)
	assert.Equal(t, store.ID, *admin.StoreID)

	require.NoError(t, stores.Delete(ctx, store.ID))

	_, err := admins.FindByID(ctx, admin.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.True(t, apperror.Is(stores.Delete(ctx, store.ID), apperror.KindNotFound))
}

func TestMissingScopeIsRejected(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	repo := NewOrderRepository(db)

	_, _, err := repo.List(ctx, tenant.Scope{}, OrderFilter{})
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))

	_, err = repo.Find(ctx, tenant.Scope{}, 1)
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))
}

func TestOrdersAreTenantIsolated(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	repo := NewOrderRepository(db)

	a := seedStore(t, db, "Acme", "acme", model.StoreStatusActive)
	b := seedStore(t, db, "Other", "other", model.StoreStatusActive)
	scopeA := tenant.For(a.ID, tenant.SourceAdmin)
	scopeB := tenant.For(b.ID, tenant.SourceAdmin)

	orderA := seedOrder(t, repo, scopeA, "ORD-A", model.OrderStatusPending, 100)
	seedOrder(t, repo, scopeB, "ORD-B", model.OrderStatusPending, 200)

	orders, page, err := repo.List(ctx, scopeA, OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, orders, 1)
	assert.Equal(t, a.ID, orders[0].StoreID)
	require.Len(t, orders[0].Items, 1)

	_, err = repo.Find(ctx, scopeB, orderA.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	orderA.Status = model.OrderStatusShipped
	assert.True(t, apperror.Is(repo.Save(ctx, scopeB, orderA), apperror.KindNotFound))
	require.NoError(t, repo.Save(ctx, scopeA, orderA))

	reloaded, err := repo.Find(ctx, scopeA, orderA.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, reloaded.Status)
	assert.Len(t, reloaded.Items, 1)
}

func TestOrderListFilters(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	repo := NewOrderRepository(db)
	store := seedStore(t, db, "Acme", "acme", model.StoreStatusActive)
	scope := tenant.For(store.ID, tenant.SourceAdmin)

	seedOrder(t, repo, scope, "ORD-1", model.OrderStatusPending, 100)
	seedOrder(t, repo, scope, "ORD-2", model.OrderStatusDelivered, 300)
	seedOrder(t, repo, scope, "ORD-3", model.OrderStatusDelivered, 500)

	orders, _, err := repo.List(ctx, scope, OrderFilter{Status: string(model.OrderStatusDelivered)})
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	orders, _, err = repo.List(ctx, scope, OrderFilter{Search: "jane ord-3"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD-3", orders[0].OrderNumber)

	future := time.Now().Add(time.Hour)
	orders, _, err = repo.List(ctx, scope, OrderFilter{From: &future})
	require.NoError(t, err)
	assert.Empty(t, orders)

	orders, page, err := repo.List(ctx, scope, OrderFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, int64(2), page.Pages)
}

func TestOrderStats(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	repo := NewOrderRepository(db)
	store := seedStore(t, db, "Acme", "acme", model.StoreStatusActive)
	other := seedStore(t, db, "Other", "other", model.StoreStatusActive)
	scope := tenant.For(store.ID, tenant.SourceAdmin)

	seedOrder(t, repo, scope, "ORD-1", model.OrderStatusPending, 100)
	seedOrder(t, repo, scope, "ORD-2", model.OrderStatusDelivered, 300)
	seedOrder(t, repo, scope, "ORD-3", model.OrderStatusDelivered, 500)
	seedOrder(t, repo, tenant.For(other.ID, tenant.SourceAdmin), "ORD-4", model.OrderStatusDelivered, 900)

	rows, err := repo.Stats(ctx, scope)
	require.NoError(t, err)

	byStatus := map[model.OrderStatus]StatusAggregate{}
	for _, r := range rows {
		byStatus[r.Status] = r
	}
	assert.Equal(t, int64(2), byStatus[model.OrderStatusDelivered].Count)
	assert.True(t, decimal.NewFromInt(800).Equal(byStatus[model.OrderStatusDelivered].Revenue))
	assert.Equal(t, int64(1), byStatus[model.OrderStatusPending].Count)
}

func TestFindByProviderOrderID(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	repo := NewOrderRepository(db)
	store := seedStore(t, db, "Acme", "acme", model.StoreStatusActive)
	scope := tenant.For(store.ID, tenant.SourceAdmin)

	order := seedOrder(t, repo, scope, "ORD-1", model.OrderStatusPending, 100)
	order.Payment.ProviderOrderID = "order_rzp_1"
	require.NoError(t, repo.Save(ctx, scope, order))

	found, err := repo.FindByProviderOrderID(ctx, "order_rzp_1")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	assert.Equal(t, store.ID, found.StoreID)

	_, err = repo.FindByProviderOrderID(ctx, "missing")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	// orders without a provider checkout must never match a blank reference
	seedOrder(t, repo, scope, "ORD-2", model.OrderStatusPending, 50)
	for _, ref := range []string{"", "  "} {
		_, err = repo.FindByProviderOrderID(ctx, ref)
		assert.True(t, apperror.Is(err, apperror.KindNotFound), "reference %q", ref)
	}
}

func TestStockLedger(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	repo := NewCatalogRepository(db)
	store := seedStore(t, db, "Acme", "acme", model.StoreStatusActive)
	other := seedStore(t, db, "Other", "other", model.StoreStatusActive)
	scope := tenant.For(store.ID, tenant.SourceAdmin)

	tracked := &model.Product{Name: "Tracked", Price: decimal.NewFromInt(10), Status: model.ProductStatusActive, TrackQuantity: true, Quantity: 10}
	untracked := &model.Product{Name: "Untracked", Price: decimal.NewFromInt(10), Status: model.ProductStatusActive, Quantity: 5}
	require.NoError(t, repo.CreateProduct(ctx, scope, tracked))
	require.NoError(t, repo.CreateProduct(ctx, scope, untracked))

	ok, err := repo.IncrementStock(ctx, scope, tracked.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IncrementStock(ctx, scope, untracked.ID, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.IncrementStock(ctx, tenant.For(other.ID, tenant.SourceAdmin), tracked.ID, 3)
	assert.True(t, apperror.Is(err, apperror.KindNotFound), "product of another store")

	_, err = repo.IncrementStock(ctx, scope, 9999, 3)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	ok, err = repo.DecrementStock(ctx, scope, tracked.ID, 13)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.DecrementStock(ctx, scope, tracked.ID, 1)
	assert.True(t, apperror.Is(err, apperror.KindInvalidOperation))

	got, err := repo.FindProduct(ctx, scope, tracked.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)

	got, err = repo.FindProduct(ctx, scope, untracked.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)
}

func TestIncrementStockSaturates(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	repo := NewCatalogRepository(db)
	store := seedStore(t, db, "Acme", "acme", model.StoreStatusActive)
	scope := tenant.For(store.ID, tenant.SourceAdmin)

	p := &model.Product{Name: "Bulk", Price: decimal.NewFromInt(1), Status: model.ProductStatusActive, TrackQuantity: true, Quantity: MaxStock - 1}
	require.NoError(t, repo.CreateProduct(ctx, scope, p))

	_, err := repo.IncrementStock(ctx, scope, p.ID, 5)
	require.NoError(t, err)

	got, err := repo.FindProduct(ctx, scope, p.ID)
	require.NoError(t, err)
	assert.Equal(t, MaxStock, got.Quantity)
}

func TestDefaultBankDetail(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	repo := NewCustomerRepository(db)
	store := seedStore(t, db, "Acme", "acme", model.StoreStatusActive)
	scope := tenant.For(store.ID, tenant.SourceAdmin)

	customer := &model.Customer{Name: "Jane", Email: "jane@acme.test", Status: model.CustomerStatusActive}
	require.NoError(t, repo.Create(ctx, scope, customer))

	detail, err := repo.DefaultBankDetail(ctx, scope, customer.ID)
	require.NoError(t, err)
	assert.Nil(t, detail)

	require.NoError(t, repo.AddBankDetail(ctx, scope, &model.CustomerBankDetail{CustomerID: customer.ID, BankName: "First"}))
	require.NoError(t, repo.AddBankDetail(ctx, scope, &model.CustomerBankDetail{CustomerID: customer.ID, BankName: "Second"}))

	detail, err = repo.DefaultBankDetail(ctx, scope, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "First", detail.BankName)

	require.NoError(t, repo.AddBankDetail(ctx, scope, &model.CustomerBankDetail{CustomerID: customer.ID, BankName: "Preferred", IsDefault: true}))
	detail, err = repo.DefaultBankDetail(ctx, scope, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Preferred", detail.BankName)
}

func TestBannerOrdering(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	repo := NewContentRepository(db)
	store := seedStore(t, db, "Acme", "acme", model.StoreStatusActive)
	scope := tenant.For(store.ID, tenant.SourceAdmin)

	require.NoError(t, repo.CreateBanner(ctx, scope, &model.Banner{Title: "second", Order: 2, IsActive: true}))
	require.NoError(t, repo.CreateBanner(ctx, scope, &model.Banner{Title: "first", Order: 1, IsActive: true}))
	require.NoError(t, repo.CreateBanner(ctx, scope, &model.Banner{Title: "hidden", Order: 0, IsActive: false}))

	all, err := repo.ListBanners(ctx, scope, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "hidden", all[0].Title)

	active, err := repo.ListBanners(ctx, scope, true)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "first", active[0].Title)
	assert.Equal(t, "second", active[1].Title)
}
