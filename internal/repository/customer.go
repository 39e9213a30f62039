package repository

import (
	"context"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"gorm.io/gorm"
)

const customerNotFound = "customer not found"

// CustomerFilter narrows a customer listing
type CustomerFilter struct {
	Status string
	Search string
	Page   int
	Limit  int
}

// CustomerRepository persists customers and their bank details
type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a customer repository
func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// FindByID loads a customer from any store. Only the access gate uses this:
// the token names the customer, and the customer names the store.
func (r *CustomerRepository) FindByID(ctx context.Context, id uint) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, translate(err, customerNotFound)
	}
	return &customer, nil
}

// Find loads a customer of the scoped store with bank details
func (r *CustomerRepository) Find(ctx context.Context, scope tenant.Scope, id uint) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).
		Scopes(storeScope(scope)).
		Preload("BankDetails", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_default DESC").Order("id ASC")
		}).
		First(&customer, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, customerNotFound)
	}
	return &customer, nil
}

// FindByEmail loads a customer of the scoped store by email ignoring case
func (r *CustomerRepository) FindByEmail(ctx context.Context, scope tenant.Scope, email string) (*model.Customer, error) {
	var customer model.Customer
	db := NewQuery().EqFold("email", email).Where(r.db.WithContext(ctx).Scopes(storeScope(scope)))
	if err := db.First(&customer).Error; err != nil {
		return nil, translate(err, customerNotFound)
	}
	return &customer, nil
}

// List returns one page of customers of the scoped store
func (r *CustomerRepository) List(ctx context.Context, scope tenant.Scope, f CustomerFilter) ([]model.Customer, Page, error) {
	q := NewQuery().
		EqIf("status", f.Status).
		ContainsFold(f.Search, "name", "email", "phone").
		OrderBy("created_at", true).
		Paginate(f.Page, f.Limit)

	var total int64
	if err := q.Where(r.db.WithContext(ctx).Model(&model.Customer{}).Scopes(storeScope(scope))).Count(&total).Error; err != nil {
		return nil, Page{}, translate(err, customerNotFound)
	}

	var customers []model.Customer
	if err := q.Apply(r.db.WithContext(ctx).Scopes(storeScope(scope))).Find(&customers).Error; err != nil {
		return nil, Page{}, translate(err, customerNotFound)
	}
	return customers, q.pageInfo(total), nil
}

// Create inserts a customer into the scoped store
func (r *CustomerRepository) Create(ctx context.Context, scope tenant.Scope, customer *model.Customer) error {
	if !scope.Valid() {
		return translate(errMissingScope, customerNotFound)
	}
	customer.StoreID = scope.StoreID
	return translate(r.db.WithContext(ctx).Create(customer).Error, customerNotFound)
}

// Update writes every column of customer
func (r *CustomerRepository) Update(ctx context.Context, scope tenant.Scope, customer *model.Customer) error {
	return updateScoped(r.db.WithContext(ctx), scope, customer, customerNotFound)
}

// SetStatus changes the customer status
func (r *CustomerRepository) SetStatus(ctx context.Context, scope tenant.Scope, id uint, status model.CustomerStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Customer{}).
		Scopes(storeScope(scope)).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return translate(res.Error, customerNotFound)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(customerNotFound)
	}
	return nil
}

// DefaultBankDetail returns the customer's default bank record, or the first
// one stored when none is marked default. It returns nil when the customer
// has no bank records.
func (r *CustomerRepository) DefaultBankDetail(ctx context.Context, scope tenant.Scope, customerID uint) (*model.CustomerBankDetail, error) {
	if _, err := r.Find(ctx, scope, customerID); err != nil {
		return nil, err
	}

	var details []model.CustomerBankDetail
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("is_default DESC").
		Order("id ASC").
		Limit(1).
		Find(&details).Error
	if err != nil {
		return nil, translate(err, customerNotFound)
	}
	if len(details) == 0 {
		return nil, nil
	}
	return &details[0], nil
}

// AddBankDetail stores a bank record. Marking it default clears the flag on
// the customer's other records.
func (r *CustomerRepository) AddBankDetail(ctx context.Context, scope tenant.Scope, detail *model.CustomerBankDetail) error {
	if _, err := r.Find(ctx, scope, detail.CustomerID); err != nil {
		return err
	}
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if detail.IsDefault {
			if err := tx.Model(&model.CustomerBankDetail{}).
				Where("customer_id = ?", detail.CustomerID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(detail).Error
	}), customerNotFound)
}
