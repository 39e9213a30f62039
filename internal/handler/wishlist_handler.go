package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetWishlist lists the customer's saved products
func (h *Handler) GetWishlist(c echo.Context) error {
	customer, scope, err := customerScope(c)
	if err != nil {
		return err
	}
	items, err := h.Wishlist.List(c.Request().Context(), scope, customer.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"wishlist": items, "count": len(items)})
}

// AddToWishlist saves a product for the customer
func (h *Handler) AddToWishlist(c echo.Context) error {
	customer, scope, err := customerScope(c)
	if err != nil {
		return err
	}
	var req struct {
		ProductID uint `json:"product_id"`
	}
	if err := bind(c, &req); err != nil {
		return err
	}
	// Only active products of the customer's store can be saved
	item, err := h.Wishlist.Add(c.Request().Context(), scope, customer.ID, req.ProductID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Product added to wishlist successfully",
		"item":    item,
	})
}

// CheckWishlist reports whether a product is saved
func (h *Handler) CheckWishlist(c echo.Context) error {
	customer, scope, err := customerScope(c)
	if err != nil {
		return err
	}
	productID, err := paramID(c, "product_id")
	if err != nil {
		return err
	}
	saved, err := h.Wishlist.Contains(c.Request().Context(), scope, customer.ID, productID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"in_wishlist": saved})
}

// RemoveFromWishlist drops one product from the wishlist
func (h *Handler) RemoveFromWishlist(c echo.Context) error {
	customer, scope, err := customerScope(c)
	if err != nil {
		return err
	}
	productID, err := paramID(c, "product_id")
	if err != nil {
		return err
	}
	if err := h.Wishlist.Remove(c.Request().Context(), scope, customer.ID, productID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Product removed from wishlist successfully"})
}

// ClearWishlist empties the wishlist
func (h *Handler) ClearWishlist(c echo.Context) error {
	customer, scope, err := customerScope(c)
	if err != nil {
		return err
	}
	if err := h.Wishlist.Clear(c.Request().Context(), scope, customer.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Wishlist cleared successfully"})
}
