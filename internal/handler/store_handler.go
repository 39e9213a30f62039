package handler

import (
	"net/http"

	"github.com/Shalinisinha22/ewa-back/internal/middleware"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/repository"
	"github.com/Shalinisinha22/ewa-back/internal/resolver"
	"github.com/Shalinisinha22/ewa-back/internal/service"
	"github.com/Shalinisinha22/ewa-back/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CreateStore provisions a store with its first admin
func (h *Handler) CreateStore(c echo.Context) error {
	log := logger.FromEcho(c)

	var req service.CreateStoreInput
	if err := bind(c, &req); err != nil {
		return err
	}

	// Create the store together with its first admin
	created, err := h.Stores.Create(c.Request().Context(), req)
	if err != nil {
		log.Warn("Store creation failed", zap.String("slug", req.Slug), zap.Error(err))
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Store created successfully",
		"store":   created.Store,
		"admin":   created.Admin,
	})
}

// ListStores returns one page of stores
func (h *Handler) ListStores(c echo.Context) error {
	stores, page, err := h.Stores.List(c.Request().Context(), repository.StoreFilter{
		Status: c.QueryParam("status"),
		Search: c.QueryParam("search"),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse("stores", stores, page))
}

// GetStore returns a store with its primary admin
func (h *Handler) GetStore(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	store, err := h.Stores.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, store)
}

// UpdateStore merges the provided store and admin fields
func (h *Handler) UpdateStore(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req service.UpdateStoreInput
	if err := bind(c, &req); err != nil {
		return err
	}
	updated, err := h.Stores.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Store updated successfully",
		"store":   updated.Store,
		"admin":   updated.Admin,
	})
}

// UpdateStoreStatus moves a store between pending, active and disabled
func (h *Handler) UpdateStoreStatus(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		Status model.StoreStatus `json:"status"`
	}
	if err := bind(c, &req); err != nil {
		return err
	}
	updated, err := h.Stores.SetStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Store status updated successfully",
		"store":   updated.Store,
	})
}

// ResetStoreAdminPassword issues a new password for one of the store's admins
func (h *Handler) ResetStoreAdminPassword(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		AdminEmail string `json:"admin_email"`
	}
	if err := bind(c, &req); err != nil {
		return err
	}
	reset, err := h.Stores.ResetAdminPassword(c.Request().Context(), id, req.AdminEmail)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":      "Password reset successfully",
		"admin_email":  reset.Admin.Email,
		"new_password": reset.NewPassword,
	})
}

// DeleteStore removes a store and its admins
func (h *Handler) DeleteStore(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Stores.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	logger.FromEcho(c).Info("Store deleted", zap.Uint("store_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Store deleted successfully"})
}

// GetPublicStore finds an active store by name or slug
func (h *Handler) GetPublicStore(c echo.Context) error {
	store, err := h.Stores.GetPublic(c.Request().Context(), c.Param("identifier"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, store)
}

// GetDefaultStore returns the store used when a request names none
func GetDefaultStore(r middleware.StoreResolver, stores *service.StoreService) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		scope, err := r.Resolve(ctx, resolver.Request{})
		if err != nil {
			return err
		}
		found, err := stores.Get(ctx, scope.StoreID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, found.Store)
	}
}
