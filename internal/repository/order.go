package repository

import (
	"context"
	"strings"
	"time"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"github.com/Shalinisinha22/ewa-back/prometheus"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	orderNotFound = "order not found"

	// exportLimit caps unpaginated order exports.
	exportLimit = 10000
)

// OrderFilter narrows an order listing
type OrderFilter struct {
	Status        string
	PaymentStatus string
	CustomerID    uint
	From          *time.Time
	To            *time.Time
	Search        string
	Page          int
	Limit         int
}

func (f OrderFilter) query() *Query {
	q := NewQuery().
		EqIf("status", f.Status).
		EqIf("payment_status", f.PaymentStatus).
		Between("created_at", f.From, f.To).
		ContainsFold(f.Search, "order_number", "customer_name", "customer_email").
		OrderBy("created_at", true).
		OrderBy("id", true)
	if f.CustomerID != 0 {
		q.Eq("customer_id", f.CustomerID)
	}
	return q
}

// StatusAggregate is the order count and revenue for one status
type StatusAggregate struct {
	Status  model.OrderStatus
	Count   int64
	Revenue decimal.Decimal
}

// OrderRepository persists orders and their items
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates an order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

// List returns one page of orders of the scoped store
func (r *OrderRepository) List(ctx context.Context, scope tenant.Scope, f OrderFilter) ([]model.Order, Page, error) {
	defer prometheus.TrackDBOperation("order_list")(time.Now())

	q := f.query().Paginate(f.Page, f.Limit)

	var total int64
	if err := q.Where(r.db.WithContext(ctx).Model(&model.Order{}).Scopes(storeScope(scope))).Count(&total).Error; err != nil {
		return nil, Page{}, translate(err, orderNotFound)
	}

	var orders []model.Order
	err := q.Apply(r.db.WithContext(ctx).Scopes(storeScope(scope))).
		Preload("Items").
		Find(&orders).Error
	if err != nil {
		return nil, Page{}, translate(err, orderNotFound)
	}
	return orders, q.pageInfo(total), nil
}

// ListForExport returns every order matching f, newest first
func (r *OrderRepository) ListForExport(ctx context.Context, scope tenant.Scope, f OrderFilter) ([]model.Order, error) {
	defer prometheus.TrackDBOperation("order_export")(time.Now())

	var orders []model.Order
	err := f.query().Apply(r.db.WithContext(ctx).Scopes(storeScope(scope))).
		Preload("Items").
		Limit(exportLimit).
		Find(&orders).Error
	if err != nil {
		return nil, translate(err, orderNotFound)
	}
	return orders, nil
}

// Find loads an order of the scoped store with its items
func (r *OrderRepository) Find(ctx context.Context, scope tenant.Scope, id uint) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Scopes(storeScope(scope)).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, orderNotFound)
	}
	return &order, nil
}

// FindByProviderOrderID loads an order by the payment provider's reference.
// Webhooks carry no store identity, so this lookup spans all stores; the
// caller continues within the returned order's store.
func (r *OrderRepository) FindByProviderOrderID(ctx context.Context, providerOrderID string) (*model.Order, error) {
	// Orders that never opened a provider checkout store an empty reference
	if strings.TrimSpace(providerOrderID) == "" {
		return nil, apperror.NotFound("%s", orderNotFound)
	}

	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("payment_provider_order_id = ?", providerOrderID).
		First(&order).Error
	if err != nil {
		return nil, translate(err, orderNotFound)
	}
	return &order, nil
}

// Create inserts an order with its items into the scoped store
func (r *OrderRepository) Create(ctx context.Context, scope tenant.Scope, order *model.Order) error {
	defer prometheus.TrackDBOperation("order_create")(time.Now())

	if !scope.Valid() {
		return translate(errMissingScope, orderNotFound)
	}
	order.StoreID = scope.StoreID
	return translate(r.db.WithContext(ctx).Create(order).Error, orderNotFound)
}

// Save writes every order column except stock_restored, which only
// ClaimStockRestore sets. Items are immutable and never rewritten.
func (r *OrderRepository) Save(ctx context.Context, scope tenant.Scope, order *model.Order) error {
	defer prometheus.TrackDBOperation("order_update")(time.Now())

	res := r.db.WithContext(ctx).Model(order).
		Scopes(storeScope(scope)).
		Select("*").
		Omit("CreatedAt", "StockRestored", clause.Associations).
		Updates(order)
	if res.Error != nil {
		return translate(res.Error, orderNotFound)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(orderNotFound)
	}
	return nil
}

// ClaimStockRestore flags the order's stock as restored. It reports false
// when the flag was already set, so stock returns at most once per order.
func (r *OrderRepository) ClaimStockRestore(ctx context.Context, scope tenant.Scope, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Scopes(storeScope(scope)).
		Where("id = ? AND stock_restored = ?", id, false).
		UpdateColumn("stock_restored", true)
	if res.Error != nil {
		return false, translate(res.Error, orderNotFound)
	}
	return res.RowsAffected == 1, nil
}

// Stats aggregates order counts and revenue by status
func (r *OrderRepository) Stats(ctx context.Context, scope tenant.Scope) ([]StatusAggregate, error) {
	defer prometheus.TrackDBOperation("order_stats")(time.Now())

	var rows []StatusAggregate
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Scopes(storeScope(scope)).
		Select("status, COUNT(*) AS count, COALESCE(SUM(pricing_total), 0) AS revenue").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, orderNotFound)
	}
	return rows, nil
}
