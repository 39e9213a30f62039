package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/repository"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and joins its alphanumeric runs with hyphens.
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// BannerInput carries banner fields. On update nil fields are kept.
type BannerInput struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Icon        *string            `json:"icon"`
	Order       *int               `json:"order"`
	IsActive    *bool              `json:"is_active"`
	LinkURL     *string            `json:"link_url"`
	LinkText    *string            `json:"link_text"`
	LinkTarget  *string            `json:"link_target"`
	Style       *datatypes.JSONMap `json:"style"`
}

// PageInput carries page fields. On update nil fields are kept.
type PageInput struct {
	Title           *string            `json:"title"`
	Slug            *string            `json:"slug"`
	Content         *string            `json:"content"`
	Excerpt         *string            `json:"excerpt"`
	Status          *model.PageStatus  `json:"status"`
	ParentID        *uint              `json:"parent_id"`
	ShowInMenu      *bool              `json:"show_in_menu"`
	MenuOrder       *int               `json:"menu_order"`
	MetaTitle       *string            `json:"meta_title"`
	MetaDescription *string            `json:"meta_description"`
	Metadata        *datatypes.JSONMap `json:"metadata"`
}

// FooterUpdate carries the footer fields to overwrite
type FooterUpdate struct {
	Contact       *model.FooterContact `json:"contact"`
	SocialLinks   *datatypes.JSONMap   `json:"social_links"`
	MapEmbedCode  *string              `json:"map_embed_code"`
	ShowMap       *bool                `json:"show_map"`
	CopyrightText *string              `json:"copyright_text"`
	CopyrightYear *int                 `json:"copyright_year"`
}

// ContentService manages banners, pages and the footer
type ContentService struct {
	repo *repository.ContentRepository
	log  *zap.Logger
	now  func() time.Time
}

// NewContentService creates a content service
func NewContentService(repo *repository.ContentRepository, log *zap.Logger) *ContentService {
	return &ContentService{repo: repo, log: log, now: time.Now}
}

// Banners lists banners; activeOnly hides inactive ones
func (s *ContentService) Banners(ctx context.Context, scope tenant.Scope, activeOnly bool) ([]model.Banner, error) {
	return s.repo.ListBanners(ctx, scope, activeOnly)
}

// Banner loads one banner
func (s *ContentService) Banner(ctx context.Context, scope tenant.Scope, id uint) (*model.Banner, error) {
	return s.repo.FindBanner(ctx, scope, id)
}

// CreateBanner adds a banner. New banners are active unless stated.
func (s *ContentService) CreateBanner(ctx context.Context, scope tenant.Scope, in BannerInput) (*model.Banner, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, apperror.BadRequest("title is required")
	}
	banner := &model.Banner{IsActive: true, LinkTarget: "_self"}
	if err := applyBanner(banner, in); err != nil {
		return nil, err
	}
	if err := s.repo.CreateBanner(ctx, scope, banner); err != nil {
		return nil, err
	}
	return banner, nil
}

// UpdateBanner merges the provided fields into a banner
func (s *ContentService) UpdateBanner(ctx context.Context, scope tenant.Scope, id uint, in BannerInput) (*model.Banner, error) {
	banner, err := s.repo.FindBanner(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := applyBanner(banner, in); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateBanner(ctx, scope, banner); err != nil {
		return nil, err
	}
	return banner, nil
}

// ToggleBanner flips a banner's active flag
func (s *ContentService) ToggleBanner(ctx context.Context, scope tenant.Scope, id uint) (*model.Banner, error) {
	banner, err := s.repo.FindBanner(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	banner.IsActive = !banner.IsActive
	if err := s.repo.UpdateBanner(ctx, scope, banner); err != nil {
		return nil, err
	}
	return banner, nil
}

// DeleteBanner removes a banner
func (s *ContentService) DeleteBanner(ctx context.Context, scope tenant.Scope, id uint) error {
	return s.repo.DeleteBanner(ctx, scope, id)
}

func applyBanner(b *model.Banner, in BannerInput) error {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" || len(title) > 100 {
			return apperror.BadRequest("title must be 1 to 100 characters")
		}
		b.Title = title
	}
	if in.Description != nil {
		if len(*in.Description) > 200 {
			return apperror.BadRequest("description must be at most 200 characters")
		}
		b.Description = *in.Description
	}
	if in.Icon != nil {
		b.Icon = *in.Icon
	}
	if in.Order != nil {
		b.Order = *in.Order
	}
	if in.IsActive != nil {
		b.IsActive = *in.IsActive
	}
	if in.LinkURL != nil {
		b.LinkURL = *in.LinkURL
	}
	if in.LinkText != nil {
		b.LinkText = *in.LinkText
	}
	if in.LinkTarget != nil {
		if *in.LinkTarget != "_self" && *in.LinkTarget != "_blank" {
			return apperror.BadRequest("link target must be _self or _blank")
		}
		b.LinkTarget = *in.LinkTarget
	}
	if in.Style != nil {
		b.Style = *in.Style
	}
	return nil
}

// Pages lists CMS pages
func (s *ContentService) Pages(ctx context.Context, scope tenant.Scope, f repository.PageFilter) ([]model.Page, repository.Page, error) {
	return s.repo.ListPages(ctx, scope, f)
}

// MenuPages lists the published pages shown in the menu
func (s *ContentService) MenuPages(ctx context.Context, scope tenant.Scope) ([]model.Page, error) {
	return s.repo.ListMenuPages(ctx, scope)
}

// Page loads one page
func (s *ContentService) Page(ctx context.Context, scope tenant.Scope, id uint) (*model.Page, error) {
	return s.repo.FindPage(ctx, scope, id)
}

// PublishedPage loads a published page by slug and counts the view
func (s *ContentService) PublishedPage(ctx context.Context, scope tenant.Scope, slug string) (*model.Page, error) {
	page, err := s.repo.FindPublishedPage(ctx, scope, slug)
	if err != nil {
		return nil, err
	}
	if err := s.repo.IncrementPageViews(ctx, scope, page.ID); err != nil {
		s.log.Warn("Failed to count page view", zap.Uint("page_id", page.ID), zap.Error(err))
	} else {
		page.Views++
	}
	return page, nil
}

// CreatePage adds a page. The slug defaults to the slugified title.
func (s *ContentService) CreatePage(ctx context.Context, scope tenant.Scope, authorID uint, in PageInput) (*model.Page, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, apperror.BadRequest("title is required")
	}
	if in.Slug == nil || strings.TrimSpace(*in.Slug) == "" {
		slug := Slugify(*in.Title)
		in.Slug = &slug
	}

	page := &model.Page{Status: model.PageStatusDraft, AuthorID: authorID}
	if err := s.applyPage(ctx, scope, page, in); err != nil {
		return nil, err
	}
	if err := s.repo.CreatePage(ctx, scope, page); err != nil {
		return nil, err
	}
	return page, nil
}

// UpdatePage merges the provided fields into a page
func (s *ContentService) UpdatePage(ctx context.Context, scope tenant.Scope, id uint, in PageInput) (*model.Page, error) {
	page, err := s.repo.FindPage(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyPage(ctx, scope, page, in); err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePage(ctx, scope, page); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *ContentService) applyPage(ctx context.Context, scope tenant.Scope, p *model.Page, in PageInput) error {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return apperror.BadRequest("title cannot be empty")
		}
		p.Title = title
	}
	if in.Slug != nil {
		slug := Slugify(*in.Slug)
		if slug == "" {
			return apperror.BadRequest("slug cannot be empty")
		}
		if taken, err := s.repo.PageSlugTaken(ctx, scope, slug, p.ID); err != nil {
			return err
		} else if taken {
			return apperror.Conflict("page with this slug already exists")
		}
		p.Slug = slug
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return apperror.BadRequest("invalid page status %q", *in.Status)
		}
		p.Status = *in.Status
	}
	if in.ParentID != nil {
		if *in.ParentID == 0 {
			p.ParentID = nil
		} else {
			if p.ID != 0 && *in.ParentID == p.ID {
				return apperror.BadRequest("page cannot be its own parent")
			}
			if _, err := s.repo.FindPage(ctx, scope, *in.ParentID); err != nil {
				return apperror.BadRequest("parent page not found")
			}
			parent := *in.ParentID
			p.ParentID = &parent
		}
	}
	if in.Content != nil {
		p.Content = *in.Content
	}
	if in.Excerpt != nil {
		p.Excerpt = *in.Excerpt
	}
	if in.ShowInMenu != nil {
		p.ShowInMenu = *in.ShowInMenu
	}
	if in.MenuOrder != nil {
		p.MenuOrder = *in.MenuOrder
	}
	if in.MetaTitle != nil {
		p.MetaTitle = *in.MetaTitle
	}
	if in.MetaDescription != nil {
		p.MetaDescription = *in.MetaDescription
	}
	if in.Metadata != nil {
		p.Metadata = *in.Metadata
	}
	return nil
}

// DuplicatePage copies a page as a draft under a free "-copy" slug
func (s *ContentService) DuplicatePage(ctx context.Context, scope tenant.Scope, id, authorID uint) (*model.Page, error) {
	src, err := s.repo.FindPage(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	slug := src.Slug + "-copy"
	for n := 2; ; n++ {
		taken, err := s.repo.PageSlugTaken(ctx, scope, slug, 0)
		if err != nil {
			return nil, err
		}
		if !taken {
			break
		}
		slug = fmt.Sprintf("%s-copy-%d", src.Slug, n)
	}

	dup := *src
	dup.ID = 0
	dup.Title = src.Title + " (Copy)"
	dup.Slug = slug
	dup.Status = model.PageStatusDraft
	dup.Views = 0
	dup.AuthorID = authorID
	dup.CreatedAt = time.Time{}
	dup.UpdatedAt = time.Time{}
	if err := s.repo.CreatePage(ctx, scope, &dup); err != nil {
		return nil, err
	}
	return &dup, nil
}

// DeletePage removes a page that has no child pages
func (s *ContentService) DeletePage(ctx context.Context, scope tenant.Scope, id uint) error {
	children, err := s.repo.CountChildPages(ctx, scope, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return apperror.InvalidOperation("cannot delete page with child pages")
	}
	return s.repo.DeletePage(ctx, scope, id)
}

// Footer returns the store's footer, creating the default when missing
func (s *ContentService) Footer(ctx context.Context, scope tenant.Scope) (*model.Footer, error) {
	footer, err := s.repo.FindFooter(ctx, scope)
	if err == nil {
		return footer, nil
	}
	if !apperror.Is(err, apperror.KindNotFound) {
		return nil, err
	}

	defaults := model.DefaultFooter(scope.StoreID, s.now())
	if err := s.repo.CreateFooter(ctx, scope, &defaults); err != nil {
		if apperror.Is(err, apperror.KindConflict) {
			return s.repo.FindFooter(ctx, scope)
		}
		return nil, err
	}
	return &defaults, nil
}

// UpdateFooter merges the provided fields into the footer
func (s *ContentService) UpdateFooter(ctx context.Context, scope tenant.Scope, in FooterUpdate) (*model.Footer, error) {
	footer, err := s.Footer(ctx, scope)
	if err != nil {
		return nil, err
	}
	if in.Contact != nil {
		footer.Contact = *in.Contact
	}
	if in.SocialLinks != nil {
		footer.SocialLinks = *in.SocialLinks
	}
	if in.MapEmbedCode != nil {
		footer.MapEmbedCode = *in.MapEmbedCode
	}
	if in.ShowMap != nil {
		footer.ShowMap = *in.ShowMap
	}
	if in.CopyrightText != nil {
		footer.CopyrightText = *in.CopyrightText
	}
	if in.CopyrightYear != nil {
		footer.CopyrightYear = *in.CopyrightYear
	}
	if err := s.repo.UpdateFooter(ctx, scope, footer); err != nil {
		return nil, err
	}
	return footer, nil
}
