package handler

import (
	"net/http"

	"github.com/Shalinisinha22/ewa-back/internal/repository"
	"github.com/Shalinisinha22/ewa-back/internal/service"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"github.com/labstack/echo/v4"
)

// ListBanners lists every banner of the store
func (h *Handler) ListBanners(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	banners, err := h.Content.Banners(c.Request().Context(), scope, false)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"banners": banners})
}

// ListPublicBanners lists the active banners of the resolved store
func (h *Handler) ListPublicBanners(c echo.Context) error {
	scope, err := tenant.FromEcho(c)
	if err != nil {
		return err
	}
	banners, err := h.Content.Banners(c.Request().Context(), scope, true)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"banners": banners})
}

// GetBanner returns one banner
func (h *Handler) GetBanner(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	banner, err := h.Content.Banner(c.Request().Context(), scope, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, banner)
}

// CreateBanner adds a banner
func (h *Handler) CreateBanner(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	var req service.BannerInput
	if err := bind(c, &req); err != nil {
		return err
	}
	banner, err := h.Content.CreateBanner(c.Request().Context(), scope, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Banner created successfully",
		"banner":  banner,
	})
}

// UpdateBanner merges the provided banner fields
func (h *Handler) UpdateBanner(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req service.BannerInput
	if err := bind(c, &req); err != nil {
		return err
	}
	banner, err := h.Content.UpdateBanner(c.Request().Context(), scope, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Banner updated successfully",
		"banner":  banner,
	})
}

// ToggleBanner flips a banner's active flag
func (h *Handler) ToggleBanner(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	banner, err := h.Content.ToggleBanner(c.Request().Context(), scope, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Banner status updated successfully",
		"banner":  banner,
	})
}

// DeleteBanner removes a banner
func (h *Handler) DeleteBanner(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Content.DeleteBanner(c.Request().Context(), scope, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Banner deleted successfully"})
}

// ListPages lists the store's pages
func (h *Handler) ListPages(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	pages, page, err := h.Content.Pages(c.Request().Context(), scope, repository.PageFilter{
		Status: c.QueryParam("status"),
		Search: c.QueryParam("search"),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse("pages", pages, page))
}

// ListMenuPages lists the published pages shown in the storefront menu
func (h *Handler) ListMenuPages(c echo.Context) error {
	scope, err := tenant.FromEcho(c)
	if err != nil {
		return err
	}
	pages, err := h.Content.MenuPages(c.Request().Context(), scope)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"pages": pages})
}

// GetPage returns one page
func (h *Handler) GetPage(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	page, err := h.Content.Page(c.Request().Context(), scope, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// GetPublishedPage returns a published page by slug and counts the view
func (h *Handler) GetPublishedPage(c echo.Context) error {
	scope, err := tenant.FromEcho(c)
	if err != nil {
		return err
	}
	page, err := h.Content.PublishedPage(c.Request().Context(), scope, c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// CreatePage adds a page authored by the admin
func (h *Handler) CreatePage(c echo.Context) error {
	admin, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	var req service.PageInput
	if err := bind(c, &req); err != nil {
		return err
	}
	page, err := h.Content.CreatePage(c.Request().Context(), scope, admin.ID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Page created successfully",
		"page":    page,
	})
}

// UpdatePage merges the provided page fields
func (h *Handler) UpdatePage(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req service.PageInput
	if err := bind(c, &req); err != nil {
		return err
	}
	page, err := h.Content.UpdatePage(c.Request().Context(), scope, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Page updated successfully",
		"page":    page,
	})
}

// DuplicatePage copies a page as a draft
func (h *Handler) DuplicatePage(c echo.Context) error {
	admin, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	page, err := h.Content.DuplicatePage(c.Request().Context(), scope, id, admin.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Page duplicated successfully",
		"page":    page,
	})
}

// DeletePage removes a page without children
func (h *Handler) DeletePage(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Content.DeletePage(c.Request().Context(), scope, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Page deleted successfully"})
}

// GetFooter returns the store's footer
func (h *Handler) GetFooter(c echo.Context) error {
	scope, err := tenant.FromEcho(c)
	if err != nil {
		return err
	}
	footer, err := h.Content.Footer(c.Request().Context(), scope)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, footer)
}

// UpdateFooter merges the provided footer fields
func (h *Handler) UpdateFooter(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	var req service.FooterUpdate
	if err := bind(c, &req); err != nil {
		return err
	}
	footer, err := h.Content.UpdateFooter(c.Request().Context(), scope, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Footer updated successfully",
		"footer":  footer,
	})
}
