package service

import (
	"context"
	"strings"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/repository"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductInput carries product fields. On update nil fields are kept.
type ProductInput struct {
	Name          *string              `json:"name"`
	Slug          *string              `json:"slug"`
	Description   *string              `json:"description"`
	SKU           *string              `json:"sku"`
	CategoryID    *uint                `json:"category_id"`
	ProductTypeID *uint                `json:"product_type_id"`
	Price         *decimal.Decimal     `json:"price"`
	ComparePrice  *decimal.Decimal     `json:"compare_price"`
	Status        *model.ProductStatus `json:"status"`
	Featured      *bool                `json:"featured"`
	TrackQuantity *bool                `json:"track_quantity"`
	Quantity      *int                 `json:"quantity"`
}

// StockInput overwrites a product's stock ledger entry
type StockInput struct {
	TrackQuantity bool `json:"track_quantity"`
	Quantity      int  `json:"quantity"`
}

// CategoryInput carries category fields. On update nil fields are kept.
type CategoryInput struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	ParentID    *uint   `json:"parent_id"`
	IsActive    *bool   `json:"is_active"`
	SortOrder   *int    `json:"sort_order"`
}

// ProductTypeInput carries product type fields. On update nil fields are
// kept.
type ProductTypeInput struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"is_active"`
}

// CatalogService manages products, categories and product types of a store
type CatalogService struct {
	repo *repository.CatalogRepository
	log  *zap.Logger
}

// NewCatalogService creates a catalog service
func NewCatalogService(repo *repository.CatalogRepository, log *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, log: log}
}

// Products lists products
func (s *CatalogService) Products(ctx context.Context, scope tenant.Scope, f repository.ProductFilter) ([]model.Product, repository.Page, error) {
	return s.repo.ListProducts(ctx, scope, f)
}

// Product loads one product
func (s *CatalogService) Product(ctx context.Context, scope tenant.Scope, id uint) (*model.Product, error) {
	return s.repo.FindProduct(ctx, scope, id)
}

// PublicProduct loads a product only while it is active
func (s *CatalogService) PublicProduct(ctx context.Context, scope tenant.Scope, id uint) (*model.Product, error) {
	product, err := s.repo.FindProduct(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if product.Status != model.ProductStatusActive {
		return nil, apperror.NotFound("product not found")
	}
	return product, nil
}

// CreateProduct adds a product. New products are drafts unless stated.
func (s *CatalogService) CreateProduct(ctx context.Context, scope tenant.Scope, in ProductInput) (*model.Product, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" || in.Price == nil {
		return nil, apperror.BadRequest("name and price are required")
	}
	if in.Slug == nil || strings.TrimSpace(*in.Slug) == "" {
		slug := Slugify(*in.Name)
		in.Slug = &slug
	}

	product := &model.Product{Status: model.ProductStatusDraft}
	if err := s.applyProduct(ctx, scope, product, in); err != nil {
		return nil, err
	}
	if err := s.repo.CreateProduct(ctx, scope, product); err != nil {
		return nil, err
	}
	s.log.Info("Product created", zap.Uint("store_id", scope.StoreID), zap.Uint("product_id", product.ID))
	return product, nil
}

// UpdateProduct merges the provided fields into a product
func (s *CatalogService) UpdateProduct(ctx context.Context, scope tenant.Scope, id uint, in ProductInput) (*model.Product, error) {
	product, err := s.repo.FindProduct(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyProduct(ctx, scope, product, in); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateProduct(ctx, scope, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) applyProduct(ctx context.Context, scope tenant.Scope, p *model.Product, in ProductInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return apperror.BadRequest("name cannot be empty")
		}
		p.Name = name
	}
	if in.Slug != nil {
		p.Slug = Slugify(*in.Slug)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.SKU != nil {
		p.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.CategoryID != nil {
		if *in.CategoryID != 0 {
			if _, err := s.repo.FindCategory(ctx, scope, *in.CategoryID); err != nil {
				return apperror.BadRequest("category not found")
			}
		}
		p.CategoryID = *in.CategoryID
	}
	if in.ProductTypeID != nil {
		if *in.ProductTypeID != 0 {
			if _, err := s.repo.FindProductType(ctx, scope, *in.ProductTypeID); err != nil {
				return apperror.BadRequest("product type not found")
			}
		}
		p.ProductTypeID = *in.ProductTypeID
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return apperror.BadRequest("price cannot be negative")
		}
		p.Price = *in.Price
	}
	if in.ComparePrice != nil {
		if in.ComparePrice.IsNegative() {
			return apperror.BadRequest("compare price cannot be negative")
		}
		p.ComparePrice = *in.ComparePrice
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return apperror.BadRequest("invalid product status %q", *in.Status)
		}
		p.Status = *in.Status
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.TrackQuantity != nil {
		p.TrackQuantity = *in.TrackQuantity
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return apperror.BadRequest("quantity cannot be negative")
		}
		p.Quantity = *in.Quantity
	}
	return nil
}

// SetStock overwrites a product's stock ledger entry
func (s *CatalogService) SetStock(ctx context.Context, scope tenant.Scope, id uint, in StockInput) (*model.Product, error) {
	if in.Quantity < 0 || in.Quantity > repository.MaxStock {
		return nil, apperror.BadRequest("quantity must be between 0 and %d", repository.MaxStock)
	}
	if err := s.repo.SetStock(ctx, scope, id, in.TrackQuantity, in.Quantity); err != nil {
		return nil, err
	}
	return s.repo.FindProduct(ctx, scope, id)
}

// DeleteProduct removes a product
func (s *CatalogService) DeleteProduct(ctx context.Context, scope tenant.Scope, id uint) error {
	return s.repo.DeleteProduct(ctx, scope, id)
}

// Categories lists categories in display order
func (s *CatalogService) Categories(ctx context.Context, scope tenant.Scope, activeOnly bool) ([]model.Category, error) {
	return s.repo.ListCategories(ctx, scope, activeOnly)
}

// Category loads one category
func (s *CatalogService) Category(ctx context.Context, scope tenant.Scope, id uint) (*model.Category, error) {
	return s.repo.FindCategory(ctx, scope, id)
}

// CreateCategory adds a category with a slug unique within the store
func (s *CatalogService) CreateCategory(ctx context.Context, scope tenant.Scope, in CategoryInput) (*model.Category, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, apperror.BadRequest("name is required")
	}
	if in.Slug == nil || strings.TrimSpace(*in.Slug) == "" {
		slug := Slugify(*in.Name)
		in.Slug = &slug
	}

	category := &model.Category{IsActive: true}
	if err := s.applyCategory(ctx, scope, category, in); err != nil {
		return nil, err
	}
	if err := s.repo.CreateCategory(ctx, scope, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory merges the provided fields into a category
func (s *CatalogService) UpdateCategory(ctx context.Context, scope tenant.Scope, id uint, in CategoryInput) (*model.Category, error) {
	category, err := s.repo.FindCategory(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyCategory(ctx, scope, category, in); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateCategory(ctx, scope, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) applyCategory(ctx context.Context, scope tenant.Scope, c *model.Category, in CategoryInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" || len(name) > 100 {
			return apperror.BadRequest("name must be 1 to 100 characters")
		}
		c.Name = name
	}
	if in.Slug != nil {
		slug := Slugify(*in.Slug)
		if slug == "" {
			return apperror.BadRequest("slug cannot be empty")
		}
		if taken, err := s.repo.CategorySlugTaken(ctx, scope, slug, c.ID); err != nil {
			return err
		} else if taken {
			return apperror.Conflict("category with this slug already exists")
		}
		c.Slug = slug
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.ParentID != nil {
		if *in.ParentID == 0 {
			c.ParentID = nil
		} else {
			if c.ID != 0 && *in.ParentID == c.ID {
				return apperror.BadRequest("category cannot be its own parent")
			}
			if _, err := s.repo.FindCategory(ctx, scope, *in.ParentID); err != nil {
				return apperror.BadRequest("parent category not found")
			}
			parent := *in.ParentID
			c.ParentID = &parent
		}
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if in.SortOrder != nil {
		c.SortOrder = *in.SortOrder
	}
	return nil
}

// DeleteCategory removes a category no product references
func (s *CatalogService) DeleteCategory(ctx context.Context, scope tenant.Scope, id uint) error {
	if _, err := s.repo.FindCategory(ctx, scope, id); err != nil {
		return err
	}
	count, err := s.repo.CountProductsInCategory(ctx, scope, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.InvalidOperation("cannot delete category with %d products", count)
	}
	return s.repo.DeleteCategory(ctx, scope, id)
}

// ProductTypes lists product types by name
func (s *CatalogService) ProductTypes(ctx context.Context, scope tenant.Scope, activeOnly bool) ([]model.ProductType, error) {
	return s.repo.ListProductTypes(ctx, scope, activeOnly)
}

// CreateProductType adds a product type whose lowercased name is unique
// within the store
func (s *CatalogService) CreateProductType(ctx context.Context, scope tenant.Scope, in ProductTypeInput) (*model.ProductType, error) {
	if in.Name == nil {
		return nil, apperror.BadRequest("name is required")
	}
	productType := &model.ProductType{IsActive: true}
	if err := s.applyProductType(ctx, scope, productType, in); err != nil {
		return nil, err
	}
	if err := s.repo.CreateProductType(ctx, scope, productType); err != nil {
		return nil, err
	}
	s.log.Info("Product type created", zap.Uint("store_id", scope.StoreID), zap.String("value", productType.Value))
	return productType, nil
}

// UpdateProductType merges the provided fields into a product type
func (s *CatalogService) UpdateProductType(ctx context.Context, scope tenant.Scope, id uint, in ProductTypeInput) (*model.ProductType, error) {
	productType, err := s.repo.FindProductType(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyProductType(ctx, scope, productType, in); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateProductType(ctx, scope, productType); err != nil {
		return nil, err
	}
	return productType, nil
}

func (s *CatalogService) applyProductType(ctx context.Context, scope tenant.Scope, t *model.ProductType, in ProductTypeInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" || len(name) > 100 {
			return apperror.BadRequest("name must be 1 to 100 characters")
		}
		value := strings.ToLower(name)
		if taken, err := s.repo.ProductTypeValueTaken(ctx, scope, value, t.ID); err != nil {
			return err
		} else if taken {
			return apperror.Conflict("product type %q already exists", name)
		}
		t.Name = name
		t.Value = value
	}
	if in.IsActive != nil {
		t.IsActive = *in.IsActive
	}
	return nil
}

// DeleteProductType removes a product type no product references
func (s *CatalogService) DeleteProductType(ctx context.Context, scope tenant.Scope, id uint) error {
	if _, err := s.repo.FindProductType(ctx, scope, id); err != nil {
		return err
	}
	count, err := s.repo.CountProductsOfType(ctx, scope, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.InvalidOperation("cannot delete product type with %d products", count)
	}
	return s.repo.DeleteProductType(ctx, scope, id)
}
