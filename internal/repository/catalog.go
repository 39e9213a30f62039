package repository

import (
	"context"
	"math"
	"time"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"github.com/Shalinisinha22/ewa-back/prometheus"
	"gorm.io/gorm"
)

const (
	productNotFound     = "product not found"
	categoryNotFound    = "category not found"
	productTypeNotFound = "product type not found"

	// MaxStock is the ceiling a restore saturates at.
	MaxStock = math.MaxInt32
)

// ProductFilter narrows a product listing
type ProductFilter struct {
	CategoryID    uint
	ProductTypeID uint
	Status        string
	Search        string
	Featured      *bool
	Page          int
	Limit         int
}

// CatalogRepository persists products, categories and product types
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a catalog repository
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *CatalogRepository) WithTx(tx *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: tx}
}

// ListProducts returns one page of products of the scoped store
func (r *CatalogRepository) ListProducts(ctx context.Context, scope tenant.Scope, f ProductFilter) ([]model.Product, Page, error) {
	defer prometheus.TrackDBOperation("product_list")(time.Now())

	q := NewQuery().
		EqIf("status", f.Status).
		ContainsFold(f.Search, "name", "sku", "description").
		OrderBy("created_at", true).
		Paginate(f.Page, f.Limit)
	if f.CategoryID != 0 {
		q.Eq("category_id", f.CategoryID)
	}
	if f.ProductTypeID != 0 {
		q.Eq("product_type_id", f.ProductTypeID)
	}
	if f.Featured != nil {
		q.Eq("featured", *f.Featured)
	}

	var total int64
	if err := q.Where(r.db.WithContext(ctx).Model(&model.Product{}).Scopes(storeScope(scope))).Count(&total).Error; err != nil {
		return nil, Page{}, translate(err, productNotFound)
	}

	var products []model.Product
	if err := q.Apply(r.db.WithContext(ctx).Scopes(storeScope(scope))).Find(&products).Error; err != nil {
		return nil, Page{}, translate(err, productNotFound)
	}
	return products, q.pageInfo(total), nil
}

// FindProduct loads a product of the scoped store
func (r *CatalogRepository) FindProduct(ctx context.Context, scope tenant.Scope, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Scopes(storeScope(scope)).First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err, productNotFound)
	}
	return &product, nil
}

// CreateProduct inserts a product into the scoped store
func (r *CatalogRepository) CreateProduct(ctx context.Context, scope tenant.Scope, product *model.Product) error {
	if !scope.Valid() {
		return translate(errMissingScope, productNotFound)
	}
	product.StoreID = scope.StoreID
	return translate(r.db.WithContext(ctx).Create(product).Error, productNotFound)
}

// UpdateProduct writes every column of product
func (r *CatalogRepository) UpdateProduct(ctx context.Context, scope tenant.Scope, product *model.Product) error {
	return updateScoped(r.db.WithContext(ctx), scope, product, productNotFound)
}

// DeleteProduct soft deletes a product
func (r *CatalogRepository) DeleteProduct(ctx context.Context, scope tenant.Scope, id uint) error {
	return deleteScoped(r.db.WithContext(ctx), scope, &model.Product{}, id, productNotFound)
}

// IncrementStock adds qty to a tracked product, saturating at MaxStock. It
// reports false when the product does not track quantity and NotFound when
// the product is gone from the store.
func (r *CatalogRepository) IncrementStock(ctx context.Context, scope tenant.Scope, id uint, qty int) (bool, error) {
	defer prometheus.TrackDBOperation("stock_increment")(time.Now())

	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Scopes(storeScope(scope)).
		Where("id = ? AND track_quantity = ?", id, true).
		UpdateColumn("quantity", gorm.Expr("CASE WHEN quantity > ? THEN ? ELSE quantity + ? END", MaxStock-qty, MaxStock, qty))
	if res.Error != nil {
		return false, translate(res.Error, productNotFound)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	// Nothing updated: either untracked or missing
	if _, err := r.FindProduct(ctx, scope, id); err != nil {
		return false, err
	}
	return false, nil
}

// DecrementStock removes qty from a tracked product only when enough stock
// remains. It reports false when the product does not track quantity.
func (r *CatalogRepository) DecrementStock(ctx context.Context, scope tenant.Scope, id uint, qty int) (bool, error) {
	defer prometheus.TrackDBOperation("stock_decrement")(time.Now())

	product, err := r.FindProduct(ctx, scope, id)
	if err != nil {
		return false, err
	}
	if !product.TrackQuantity {
		return false, nil
	}

	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Scopes(storeScope(scope)).
		Where("id = ? AND track_quantity = ? AND quantity >= ?", id, true, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return false, translate(res.Error, productNotFound)
	}
	if res.RowsAffected == 0 {
		return false, apperror.InvalidOperation("insufficient stock for %s", product.Name)
	}
	return true, nil
}

// SetStock overwrites the stock ledger entry of a product
func (r *CatalogRepository) SetStock(ctx context.Context, scope tenant.Scope, id uint, trackQuantity bool, quantity int) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Scopes(storeScope(scope)).
		Where("id = ?", id).
		Updates(map[string]interface{}{"track_quantity": trackQuantity, "quantity": quantity})
	if res.Error != nil {
		return translate(res.Error, productNotFound)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(productNotFound)
	}
	return nil
}

// CountProductsInCategory counts live products referencing a category
func (r *CatalogRepository) CountProductsInCategory(ctx context.Context, scope tenant.Scope, categoryID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Scopes(storeScope(scope)).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, translate(err, categoryNotFound)
}

// ListCategories returns the categories of the scoped store in display order
func (r *CatalogRepository) ListCategories(ctx context.Context, scope tenant.Scope, activeOnly bool) ([]model.Category, error) {
	db := r.db.WithContext(ctx).Scopes(storeScope(scope))
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	var categories []model.Category
	if err := db.Order("sort_order ASC").Order("name ASC").Find(&categories).Error; err != nil {
		return nil, translate(err, categoryNotFound)
	}
	return categories, nil
}

// FindCategory loads a category of the scoped store
func (r *CatalogRepository) FindCategory(ctx context.Context, scope tenant.Scope, id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Scopes(storeScope(scope)).First(&category, "id = ?", id).Error; err != nil {
		return nil, translate(err, categoryNotFound)
	}
	return &category, nil
}

// CategorySlugTaken reports whether another category of the store uses slug
func (r *CatalogRepository) CategorySlugTaken(ctx context.Context, scope tenant.Scope, slug string, excludeID uint) (bool, error) {
	db := r.db.WithContext(ctx).Model(&model.Category{}).Scopes(storeScope(scope)).Where("slug = ?", slug)
	if excludeID != 0 {
		db = db.Where("id <> ?", excludeID)
	}
	var count int64
	if err := db.Count(&count).Error; err != nil {
		return false, translate(err, categoryNotFound)
	}
	return count > 0, nil
}

// CreateCategory inserts a category into the scoped store
func (r *CatalogRepository) CreateCategory(ctx context.Context, scope tenant.Scope, category *model.Category) error {
	if !scope.Valid() {
		return translate(errMissingScope, categoryNotFound)
	}
	category.StoreID = scope.StoreID
	return translate(r.db.WithContext(ctx).Create(category).Error, categoryNotFound)
}

// UpdateCategory writes every column of category
func (r *CatalogRepository) UpdateCategory(ctx context.Context, scope tenant.Scope, category *model.Category) error {
	return updateScoped(r.db.WithContext(ctx), scope, category, categoryNotFound)
}

// DeleteCategory soft deletes a category
func (r *CatalogRepository) DeleteCategory(ctx context.Context, scope tenant.Scope, id uint) error {
	return deleteScoped(r.db.WithContext(ctx), scope, &model.Category{}, id, categoryNotFound)
}

// CountProductsOfType counts live products referencing a product type
func (r *CatalogRepository) CountProductsOfType(ctx context.Context, scope tenant.Scope, typeID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Scopes(storeScope(scope)).
		Where("product_type_id = ?", typeID).
		Count(&count).Error
	return count, translate(err, productTypeNotFound)
}

// ListProductTypes returns the product types of the scoped store by name
func (r *CatalogRepository) ListProductTypes(ctx context.Context, scope tenant.Scope, activeOnly bool) ([]model.ProductType, error) {
	db := r.db.WithContext(ctx).Scopes(storeScope(scope))
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	var types []model.ProductType
	if err := db.Order("name ASC").Find(&types).Error; err != nil {
		return nil, translate(err, productTypeNotFound)
	}
	return types, nil
}

// FindProductType loads a product type of the scoped store
func (r *CatalogRepository) FindProductType(ctx context.Context, scope tenant.Scope, id uint) (*model.ProductType, error) {
	var productType model.ProductType
	if err := r.db.WithContext(ctx).Scopes(storeScope(scope)).First(&productType, "id = ?", id).Error; err != nil {
		return nil, translate(err, productTypeNotFound)
	}
	return &productType, nil
}

// ProductTypeValueTaken reports whether another product type of the store
// uses value
func (r *CatalogRepository) ProductTypeValueTaken(ctx context.Context, scope tenant.Scope, value string, excludeID uint) (bool, error) {
	db := r.db.WithContext(ctx).Model(&model.ProductType{}).Scopes(storeScope(scope)).Where("value = ?", value)
	if excludeID != 0 {
		db = db.Where("id <> ?", excludeID)
	}
	var count int64
	if err := db.Count(&count).Error; err != nil {
		return false, translate(err, productTypeNotFound)
	}
	return count > 0, nil
}

// CreateProductType inserts a product type into the scoped store
func (r *CatalogRepository) CreateProductType(ctx context.Context, scope tenant.Scope, productType *model.ProductType) error {
	if !scope.Valid() {
		return translate(errMissingScope, productTypeNotFound)
	}
	productType.StoreID = scope.StoreID
	return translate(r.db.WithContext(ctx).Create(productType).Error, productTypeNotFound)
}

// UpdateProductType writes every column of productType
func (r *CatalogRepository) UpdateProductType(ctx context.Context, scope tenant.Scope, productType *model.ProductType) error {
	return updateScoped(r.db.WithContext(ctx), scope, productType, productTypeNotFound)
}

// DeleteProductType removes a product type
func (r *CatalogRepository) DeleteProductType(ctx context.Context, scope tenant.Scope, id uint) error {
	return deleteScoped(r.db.WithContext(ctx), scope, &model.ProductType{}, id, productTypeNotFound)
}
