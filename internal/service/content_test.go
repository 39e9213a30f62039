package service

import (
	"testing"
	"time"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

func newContentService(f *fixture) *ContentService {
	svc := NewContentService(repository.NewContentRepository(f.db), zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "about-us", Slugify("  About Us! "))
	assert.Equal(t, "faq-2024", Slugify("FAQ / 2024"))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestBanners(t *testing.T) {
	f := newFixture(t)
	svc := newContentService(f)

	_, err := svc.CreateBanner(f.ctx, f.scope, BannerInput{})
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))

	banner, err := svc.CreateBanner(f.ctx, f.scope, BannerInput{Title: strPtr("Sale")})
	require.NoError(t, err)
	assert.True(t, banner.IsActive)
	assert.Equal(t, "_self", banner.LinkTarget)

	_, err = svc.UpdateBanner(f.ctx, f.scope, banner.ID, BannerInput{LinkTarget: strPtr("_top")})
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))

	toggled, err := svc.ToggleBanner(f.ctx, f.scope, banner.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	active, err := svc.Banners(f.ctx, f.scope, true)
	require.NoError(t, err)
	assert.Empty(t, active)
	all, err := svc.Banners(f.ctx, f.scope, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.DeleteBanner(f.ctx, f.scope, banner.ID))
	_, err = svc.Banner(f.ctx, f.scope, banner.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestPages(t *testing.T) {
	f := newFixture(t)
	svc := newContentService(f)

	published := model.PageStatusPublished
	about, err := svc.CreatePage(f.ctx, f.scope, 1, PageInput{Title: strPtr("About Us"), Status: &published})
	require.NoError(t, err)
	assert.Equal(t, "about-us", about.Slug)

	_, err = svc.CreatePage(f.ctx, f.scope, 1, PageInput{Title: strPtr("About us")})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	viewed, err := svc.PublishedPage(f.ctx, f.scope, "about-us")
	require.NoError(t, err)
	assert.Equal(t, 1, viewed.Views)

	dup, err := svc.DuplicatePage(f.ctx, f.scope, about.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, "about-us-copy", dup.Slug)
	assert.Equal(t, "About Us (Copy)", dup.Title)
	assert.Equal(t, model.PageStatusDraft, dup.Status)
	assert.Zero(t, dup.Views)

	dup2, err := svc.DuplicatePage(f.ctx, f.scope, about.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, "about-us-copy-2", dup2.Slug)

	_, err = svc.PublishedPage(f.ctx, f.scope, dup.Slug)
	assert.True(t, apperror.Is(err, apperror.KindNotFound), "drafts are not public")

	child, err := svc.CreatePage(f.ctx, f.scope, 1, PageInput{Title: strPtr("Team"), ParentID: &about.ID})
	require.NoError(t, err)

	err = svc.DeletePage(f.ctx, f.scope, about.ID)
	assert.True(t, apperror.Is(err, apperror.KindInvalidOperation))

	require.NoError(t, svc.DeletePage(f.ctx, f.scope, child.ID))
	require.NoError(t, svc.DeletePage(f.ctx, f.scope, about.ID))
}

func TestFooterDefaultsAndUpdate(t *testing.T) {
	f := newFixture(t)
	svc := newContentService(f)

	footer, err := svc.Footer(f.ctx, f.scope)
	require.NoError(t, err)
	assert.Equal(t, 2024, footer.CopyrightYear)

	again, err := svc.Footer(f.ctx, f.scope)
	require.NoError(t, err)
	assert.Equal(t, footer.ID, again.ID)

	show := true
	updated, err := svc.UpdateFooter(f.ctx, f.scope, FooterUpdate{ShowMap: &show, CopyrightText: strPtr("Acme Ltd")})
	require.NoError(t, err)
	assert.True(t, updated.ShowMap)
	assert.Equal(t, "Acme Ltd", updated.CopyrightText)
	assert.Equal(t, 2024, updated.CopyrightYear)
}
