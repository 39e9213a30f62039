package repository

import (
	"context"
	"time"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"github.com/Shalinisinha22/ewa-back/prometheus"
	"gorm.io/gorm"
)

const wishlistItemNotFound = "product not found in wishlist"

// WishlistRepository persists the saved products of customers
type WishlistRepository struct {
	db *gorm.DB
}

// NewWishlistRepository creates a wishlist repository
func NewWishlistRepository(db *gorm.DB) *WishlistRepository {
	return &WishlistRepository{db: db}
}

// List returns a customer's wishlist, newest first, with the products that
// still exist in the store
func (r *WishlistRepository) List(ctx context.Context, scope tenant.Scope, customerID uint) ([]model.WishlistItem, error) {
	defer prometheus.TrackDBOperation("wishlist_list")(time.Now())

	var items []model.WishlistItem
	err := r.db.WithContext(ctx).
		Scopes(storeScope(scope)).
		Preload("Product").
		Where("customer_id = ?", customerID).
		Order("added_at DESC").Order("id DESC").
		Find(&items).Error
	if err != nil {
		return nil, translate(err, wishlistItemNotFound)
	}
	return items, nil
}

// Contains reports whether productID is on the customer's wishlist
func (r *WishlistRepository) Contains(ctx context.Context, scope tenant.Scope, customerID, productID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.WishlistItem{}).
		Scopes(storeScope(scope)).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		Count(&count).Error
	if err != nil {
		return false, translate(err, wishlistItemNotFound)
	}
	return count > 0, nil
}

// Add inserts an item into the scoped store. A repeated product is a
// Conflict.
func (r *WishlistRepository) Add(ctx context.Context, scope tenant.Scope, item *model.WishlistItem) error {
	if !scope.Valid() {
		return translate(errMissingScope, wishlistItemNotFound)
	}
	item.StoreID = scope.StoreID
	err := translate(r.db.WithContext(ctx).Omit("Product").Create(item).Error, wishlistItemNotFound)
	if apperror.Is(err, apperror.KindConflict) {
		return apperror.Conflict("product already exists in wishlist")
	}
	return err
}

// Remove deletes one product from the customer's wishlist
func (r *WishlistRepository) Remove(ctx context.Context, scope tenant.Scope, customerID, productID uint) error {
	res := r.db.WithContext(ctx).
		Scopes(storeScope(scope)).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		Delete(&model.WishlistItem{})
	if res.Error != nil {
		return translate(res.Error, wishlistItemNotFound)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("%s", wishlistItemNotFound)
	}
	return nil
}

// Clear empties the customer's wishlist and reports how many items went
func (r *WishlistRepository) Clear(ctx context.Context, scope tenant.Scope, customerID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Scopes(storeScope(scope)).
		Where("customer_id = ?", customerID).
		Delete(&model.WishlistItem{})
	if res.Error != nil {
		return 0, translate(res.Error, wishlistItemNotFound)
	}
	return res.RowsAffected, nil
}
