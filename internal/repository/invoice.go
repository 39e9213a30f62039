package repository

import (
	"context"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"gorm.io/gorm"
)

const invoiceNotFound = "invoice not found"

// InvoiceFilter narrows an invoice listing
type InvoiceFilter struct {
	Status     string
	CustomerID uint
	Search     string
	Page       int
	Limit      int
}

// InvoiceRepository persists invoices
type InvoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates an invoice repository
func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// List returns one page of invoices of the scoped store
func (r *InvoiceRepository) List(ctx context.Context, scope tenant.Scope, f InvoiceFilter) ([]model.Invoice, Page, error) {
	q := NewQuery().
		EqIf("status", f.Status).
		ContainsFold(f.Search, "invoice_number", "customer_name", "customer_email").
		OrderBy("created_at", true).
		OrderBy("id", true).
		Paginate(f.Page, f.Limit)
	if f.CustomerID != 0 {
		q.Eq("customer_id", f.CustomerID)
	}

	var total int64
	if err := q.Where(r.db.WithContext(ctx).Model(&model.Invoice{}).Scopes(storeScope(scope))).Count(&total).Error; err != nil {
		return nil, Page{}, translate(err, invoiceNotFound)
	}

	var invoices []model.Invoice
	if err := q.Apply(r.db.WithContext(ctx).Scopes(storeScope(scope))).Find(&invoices).Error; err != nil {
		return nil, Page{}, translate(err, invoiceNotFound)
	}
	return invoices, q.pageInfo(total), nil
}

// Find loads an invoice of the scoped store
func (r *InvoiceRepository) Find(ctx context.Context, scope tenant.Scope, id uint) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := r.db.WithContext(ctx).Scopes(storeScope(scope)).First(&invoice, "id = ?", id).Error; err != nil {
		return nil, translate(err, invoiceNotFound)
	}
	return &invoice, nil
}

// FindByOrder loads the invoice of an order
func (r *InvoiceRepository) FindByOrder(ctx context.Context, scope tenant.Scope, orderID uint) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := r.db.WithContext(ctx).Scopes(storeScope(scope)).First(&invoice, "order_id = ?", orderID).Error; err != nil {
		return nil, translate(err, invoiceNotFound)
	}
	return &invoice, nil
}

// Count returns how many invoices the scoped store has issued
func (r *InvoiceRepository) Count(ctx context.Context, scope tenant.Scope) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Invoice{}).Scopes(storeScope(scope)).Count(&count).Error
	return count, translate(err, invoiceNotFound)
}

// Create inserts an invoice into the scoped store
func (r *InvoiceRepository) Create(ctx context.Context, scope tenant.Scope, invoice *model.Invoice) error {
	if !scope.Valid() {
		return translate(errMissingScope, invoiceNotFound)
	}
	invoice.StoreID = scope.StoreID
	return translate(r.db.WithContext(ctx).Create(invoice).Error, invoiceNotFound)
}

// UpdateStatus changes the invoice status and paid timestamp
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, scope tenant.Scope, invoice *model.Invoice) error {
	res := r.db.WithContext(ctx).Model(invoice).
		Scopes(storeScope(scope)).
		Select("status", "paid_at").
		Updates(invoice)
	if res.Error != nil {
		return translate(res.Error, invoiceNotFound)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(invoiceNotFound)
	}
	return nil
}

// Delete removes an invoice
func (r *InvoiceRepository) Delete(ctx context.Context, scope tenant.Scope, id uint) error {
	return deleteScoped(r.db.WithContext(ctx), scope, &model.Invoice{}, id, invoiceNotFound)
}
