package service

import (
	"context"
	"time"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/repository"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"go.uber.org/zap"
)

// WishlistService keeps the products a customer saved for later
type WishlistService struct {
	repo    *repository.WishlistRepository
	catalog *repository.CatalogRepository
	log     *zap.Logger
	now     func() time.Time
}

// NewWishlistService creates a wishlist service
func NewWishlistService(repo *repository.WishlistRepository, catalog *repository.CatalogRepository, log *zap.Logger) *WishlistService {
	return &WishlistService{repo: repo, catalog: catalog, log: log, now: time.Now}
}

// List returns the customer's wishlist, newest first
func (s *WishlistService) List(ctx context.Context, scope tenant.Scope, customerID uint) ([]model.WishlistItem, error) {
	return s.repo.List(ctx, scope, customerID)
}

// Add saves an active product of the store to the customer's wishlist
func (s *WishlistService) Add(ctx context.Context, scope tenant.Scope, customerID, productID uint) (*model.WishlistItem, error) {
	if productID == 0 {
		return nil, apperror.BadRequest("product_id is required")
	}
	product, err := s.catalog.FindProduct(ctx, scope, productID)
	if err != nil {
		return nil, err
	}
	if product.Status != model.ProductStatusActive {
		return nil, apperror.NotFound("product not found")
	}

	if exists, err := s.repo.Contains(ctx, scope, customerID, productID); err != nil {
		return nil, err
	} else if exists {
		return nil, apperror.Conflict("product already exists in wishlist")
	}

	item := &model.WishlistItem{CustomerID: customerID, ProductID: productID, AddedAt: s.now().UTC()}
	if err := s.repo.Add(ctx, scope, item); err != nil {
		return nil, err
	}
	item.Product = product

	s.log.Info("Wishlist item added",
		zap.Uint("store_id", scope.StoreID),
		zap.Uint("customer_id", customerID),
		zap.Uint("product_id", productID))
	return item, nil
}

// Contains reports whether a product is on the customer's wishlist
func (s *WishlistService) Contains(ctx context.Context, scope tenant.Scope, customerID, productID uint) (bool, error) {
	return s.repo.Contains(ctx, scope, customerID, productID)
}

// Remove drops one product from the customer's wishlist
func (s *WishlistService) Remove(ctx context.Context, scope tenant.Scope, customerID, productID uint) error {
	return s.repo.Remove(ctx, scope, customerID, productID)
}

// Clear empties the customer's wishlist
func (s *WishlistService) Clear(ctx context.Context, scope tenant.Scope, customerID uint) error {
	removed, err := s.repo.Clear(ctx, scope, customerID)
	if err != nil {
		return err
	}
	s.log.Info("Wishlist cleared",
		zap.Uint("store_id", scope.StoreID),
		zap.Uint("customer_id", customerID),
		zap.Int64("removed", removed))
	return nil
}
