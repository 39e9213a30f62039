package service

import (
	"context"
	"sync"
	"testing"

	"github.com/Shalinisinha22/ewa-back/internal/dbtest"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/repository"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu       sync.Mutex
	statuses []model.OrderStatus
}

func (n *recordingNotifier) OrderStatusChanged(_ context.Context, order *model.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statuses = append(n.statuses, order.Status)
}

type fixture struct {
	ctx       context.Context
	db        *gorm.DB
	scope     tenant.Scope
	store     *model.Store
	catalog   *repository.CatalogRepository
	customers *repository.CustomerRepository
	orders    *repository.OrderRepository
	settings  *SettingsService
	notifier  *recordingNotifier
	svc       *OrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	log := zap.NewNop()

	store := seedStore(t, db, "Acme", "acme")
	f := &fixture{
		ctx:       context.Background(),
		db:        db,
		scope:     tenant.For(store.ID, tenant.SourceStoreID),
		store:     store,
		catalog:   repository.NewCatalogRepository(db),
		customers: repository.NewCustomerRepository(db),
		orders:    repository.NewOrderRepository(db),
		settings:  NewSettingsService(repository.NewSettingsRepository(db), log),
		notifier:  &recordingNotifier{},
	}
	f.svc = NewOrderService(db, f.orders, f.catalog, f.customers, f.settings, f.notifier, log)
	return f
}

func seedStore(t *testing.T, db *gorm.DB, name, slug string) *model.Store {
	t.Helper()
	store := &model.Store{Name: name, Slug: slug, Status: model.StoreStatusActive, Settings: model.DefaultStoreSettings()}
	require.NoError(t, db.Create(store).Error)
	return store
}

func (f *fixture) product(t *testing.T, name string, price int64, track bool, qty int) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:          name,
		Price:         decimal.NewFromInt(price),
		Status:        model.ProductStatusActive,
		TrackQuantity: track,
		Quantity:      qty,
	}
	require.NoError(t, f.catalog.CreateProduct(f.ctx, f.scope, p))
	return p
}

func (f *fixture) customer(t *testing.T, email string) *model.Customer {
	t.Helper()
	c := &model.Customer{Name: "Jane", Email: email, Status: model.CustomerStatusActive}
	require.NoError(t, f.customers.Create(f.ctx, f.scope, c))
	return c
}

func (f *fixture) quantity(t *testing.T, id uint) int {
	t.Helper()
	p, err := f.catalog.FindProduct(f.ctx, f.scope, id)
	require.NoError(t, err)
	return p.Quantity
}

func (f *fixture) reload(t *testing.T, id uint) *model.Order {
	t.Helper()
	order, err := f.orders.Find(f.ctx, f.scope, id)
	require.NoError(t, err)
	return order
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}
