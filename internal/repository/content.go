package repository

import (
	"context"

	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"gorm.io/gorm"
)

const (
	bannerNotFound = "banner not found"
	pageNotFound   = "page not found"
	footerNotFound = "footer settings not found"
)

// PageFilter narrows a page listing
type PageFilter struct {
	Status string
	Search string
	Page   int
	Limit  int
}

// ContentRepository persists banners, pages and footers
type ContentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a content repository
func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// ListBanners returns banners by display order, newest first within an order
func (r *ContentRepository) ListBanners(ctx context.Context, scope tenant.Scope, activeOnly bool) ([]model.Banner, error) {
	db := r.db.WithContext(ctx).Scopes(storeScope(scope))
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	var banners []model.Banner
	if err := db.Order("sort_order ASC").Order("created_at DESC").Order("id DESC").Find(&banners).Error; err != nil {
		return nil, translate(err, bannerNotFound)
	}
	return banners, nil
}

// FindBanner loads a banner of the scoped store
func (r *ContentRepository) FindBanner(ctx context.Context, scope tenant.Scope, id uint) (*model.Banner, error) {
	var banner model.Banner
	if err := r.db.WithContext(ctx).Scopes(storeScope(scope)).First(&banner, "id = ?", id).Error; err != nil {
		return nil, translate(err, bannerNotFound)
	}
	return &banner, nil
}

// CreateBanner inserts a banner into the scoped store
func (r *ContentRepository) CreateBanner(ctx context.Context, scope tenant.Scope, banner *model.Banner) error {
	if !scope.Valid() {
		return translate(errMissingScope, bannerNotFound)
	}
	banner.StoreID = scope.StoreID
	return translate(r.db.WithContext(ctx).Create(banner).Error, bannerNotFound)
}

// UpdateBanner writes every column of a banner
func (r *ContentRepository) UpdateBanner(ctx context.Context, scope tenant.Scope, banner *model.Banner) error {
	return updateScoped(r.db.WithContext(ctx), scope, banner, bannerNotFound)
}

// DeleteBanner removes a banner
func (r *ContentRepository) DeleteBanner(ctx context.Context, scope tenant.Scope, id uint) error {
	return deleteScoped(r.db.WithContext(ctx), scope, &model.Banner{}, id, bannerNotFound)
}

// ListPages returns one page of CMS pages
func (r *ContentRepository) ListPages(ctx context.Context, scope tenant.Scope, f PageFilter) ([]model.Page, Page, error) {
	q := NewQuery().
		EqIf("status", f.Status).
		ContainsFold(f.Search, "title", "slug").
		OrderBy("updated_at", true).
		Paginate(f.Page, f.Limit)

	var total int64
	if err := q.Where(r.db.WithContext(ctx).Model(&model.Page{}).Scopes(storeScope(scope))).Count(&total).Error; err != nil {
		return nil, Page{}, translate(err, pageNotFound)
	}

	var pages []model.Page
	if err := q.Apply(r.db.WithContext(ctx).Scopes(storeScope(scope))).Find(&pages).Error; err != nil {
		return nil, Page{}, translate(err, pageNotFound)
	}
	return pages, q.pageInfo(total), nil
}

// ListMenuPages returns published pages shown in the navigation menu
func (r *ContentRepository) ListMenuPages(ctx context.Context, scope tenant.Scope) ([]model.Page, error) {
	var pages []model.Page
	err := r.db.WithContext(ctx).
		Scopes(storeScope(scope)).
		Where("status = ? AND show_in_menu = ?", model.PageStatusPublished, true).
		Order("menu_order ASC").
		Order("title ASC").
		Find(&pages).Error
	if err != nil {
		return nil, translate(err, pageNotFound)
	}
	return pages, nil
}

// FindPage loads a page of the scoped store
func (r *ContentRepository) FindPage(ctx context.Context, scope tenant.Scope, id uint) (*model.Page, error) {
	var page model.Page
	if err := r.db.WithContext(ctx).Scopes(storeScope(scope)).First(&page, "id = ?", id).Error; err != nil {
		return nil, translate(err, pageNotFound)
	}
	return &page, nil
}

// FindPublishedPage loads a published page by slug
func (r *ContentRepository) FindPublishedPage(ctx context.Context, scope tenant.Scope, slug string) (*model.Page, error) {
	var page model.Page
	err := r.db.WithContext(ctx).
		Scopes(storeScope(scope)).
		Where("slug = ? AND status = ?", slug, model.PageStatusPublished).
		First(&page).Error
	if err != nil {
		return nil, translate(err, pageNotFound)
	}
	return &page, nil
}

// PageSlugTaken reports whether another page of the store uses slug
func (r *ContentRepository) PageSlugTaken(ctx context.Context, scope tenant.Scope, slug string, excludeID uint) (bool, error) {
	db := r.db.WithContext(ctx).Model(&model.Page{}).Scopes(storeScope(scope)).Where("slug = ?", slug)
	if excludeID != 0 {
		db = db.Where("id <> ?", excludeID)
	}
	var count int64
	if err := db.Count(&count).Error; err != nil {
		return false, translate(err, pageNotFound)
	}
	return count > 0, nil
}

// CountChildPages counts pages whose parent is id
func (r *ContentRepository) CountChildPages(ctx context.Context, scope tenant.Scope, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Page{}).Scopes(storeScope(scope)).Where("parent_id = ?", id).Count(&count).Error
	return count, translate(err, pageNotFound)
}

// CreatePage inserts a page into the scoped store
func (r *ContentRepository) CreatePage(ctx context.Context, scope tenant.Scope, page *model.Page) error {
	if !scope.Valid() {
		return translate(errMissingScope, pageNotFound)
	}
	page.StoreID = scope.StoreID
	return translate(r.db.WithContext(ctx).Create(page).Error, pageNotFound)
}

// UpdatePage writes every column of a page
func (r *ContentRepository) UpdatePage(ctx context.Context, scope tenant.Scope, page *model.Page) error {
	return updateScoped(r.db.WithContext(ctx), scope, page, pageNotFound)
}

// IncrementPageViews bumps the view counter
func (r *ContentRepository) IncrementPageViews(ctx context.Context, scope tenant.Scope, id uint) error {
	err := r.db.WithContext(ctx).Model(&model.Page{}).
		Scopes(storeScope(scope)).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
	return translate(err, pageNotFound)
}

// DeletePage removes a page
func (r *ContentRepository) DeletePage(ctx context.Context, scope tenant.Scope, id uint) error {
	return deleteScoped(r.db.WithContext(ctx), scope, &model.Page{}, id, pageNotFound)
}

// FindFooter loads the store's footer
func (r *ContentRepository) FindFooter(ctx context.Context, scope tenant.Scope) (*model.Footer, error) {
	var footer model.Footer
	if err := r.db.WithContext(ctx).Scopes(storeScope(scope)).First(&footer).Error; err != nil {
		return nil, translate(err, footerNotFound)
	}
	return &footer, nil
}

// CreateFooter inserts the store's footer
func (r *ContentRepository) CreateFooter(ctx context.Context, scope tenant.Scope, footer *model.Footer) error {
	if !scope.Valid() {
		return translate(errMissingScope, footerNotFound)
	}
	footer.StoreID = scope.StoreID
	return translate(r.db.WithContext(ctx).Create(footer).Error, footerNotFound)
}

// UpdateFooter writes every column of the footer
func (r *ContentRepository) UpdateFooter(ctx context.Context, scope tenant.Scope, footer *model.Footer) error {
	return updateScoped(r.db.WithContext(ctx), scope, footer, footerNotFound)
}
