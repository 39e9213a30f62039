package handler

import (
	"net/http"

	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/repository"
	"github.com/Shalinisinha22/ewa-back/internal/service"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"github.com/Shalinisinha22/ewa-back/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func productFilter(c echo.Context) (repository.ProductFilter, error) {
	categoryID, err := queryUint(c, "category_id")
	if err != nil {
		return repository.ProductFilter{}, err
	}
	productTypeID, err := queryUint(c, "product_type_id")
	if err != nil {
		return repository.ProductFilter{}, err
	}
	featured, err := queryBool(c, "featured")
	if err != nil {
		return repository.ProductFilter{}, err
	}
	return repository.ProductFilter{
		CategoryID:    categoryID,
		ProductTypeID: productTypeID,
		Status:        c.QueryParam("status"),
		Search:        c.QueryParam("search"),
		Featured:      featured,
		Page:          queryInt(c, "page"),
		Limit:         queryInt(c, "limit"),
	}, nil
}

// ListProducts lists the store's products with optional filtering
func (h *Handler) ListProducts(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	f, err := productFilter(c)
	if err != nil {
		return err
	}
	products, page, err := h.Catalog.Products(c.Request().Context(), scope, f)
	if err != nil {
		return err
	}
	logger.FromEcho(c).Debug("Products retrieved", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, listResponse("products", products, page))
}

// ListPublicProducts lists active products of the resolved store
func (h *Handler) ListPublicProducts(c echo.Context) error {
	scope, err := tenant.FromEcho(c)
	if err != nil {
		return err
	}
	f, err := productFilter(c)
	if err != nil {
		return err
	}
	f.Status = string(model.ProductStatusActive)
	products, page, err := h.Catalog.Products(c.Request().Context(), scope, f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse("products", products, page))
}

// GetProduct returns one product
func (h *Handler) GetProduct(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.Catalog.Product(c.Request().Context(), scope, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// GetPublicProduct returns one active product of the resolved store
func (h *Handler) GetPublicProduct(c echo.Context) error {
	scope, err := tenant.FromEcho(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.Catalog.PublicProduct(c.Request().Context(), scope, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// CreateProduct adds a product
func (h *Handler) CreateProduct(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	var req service.ProductInput
	if err := bind(c, &req); err != nil {
		return err
	}
	product, err := h.Catalog.CreateProduct(c.Request().Context(), scope, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Product created successfully",
		"product": product,
	})
}

// UpdateProduct merges the provided product fields
func (h *Handler) UpdateProduct(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req service.ProductInput
	if err := bind(c, &req); err != nil {
		return err
	}
	product, err := h.Catalog.UpdateProduct(c.Request().Context(), scope, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Product updated successfully",
		"product": product,
	})
}

// UpdateProductStock overwrites a product's stock
func (h *Handler) UpdateProductStock(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req service.StockInput
	if err := bind(c, &req); err != nil {
		return err
	}
	product, err := h.Catalog.SetStock(c.Request().Context(), scope, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Stock updated successfully",
		"product": product,
	})
}

// DeleteProduct removes a product
func (h *Handler) DeleteProduct(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Catalog.DeleteProduct(c.Request().Context(), scope, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}

// ListCategories lists the store's categories
func (h *Handler) ListCategories(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	activeOnly, err := queryBool(c, "active")
	if err != nil {
		return err
	}
	categories, err := h.Catalog.Categories(c.Request().Context(), scope, activeOnly != nil && *activeOnly)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": categories})
}

// ListPublicCategories lists active categories of the resolved store
func (h *Handler) ListPublicCategories(c echo.Context) error {
	scope, err := tenant.FromEcho(c)
	if err != nil {
		return err
	}
	categories, err := h.Catalog.Categories(c.Request().Context(), scope, true)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": categories})
}

// GetCategory returns one category
func (h *Handler) GetCategory(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	category, err := h.Catalog.Category(c.Request().Context(), scope, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, category)
}

// CreateCategory adds a category
func (h *Handler) CreateCategory(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	var req service.CategoryInput
	if err := bind(c, &req); err != nil {
		return err
	}
	category, err := h.Catalog.CreateCategory(c.Request().Context(), scope, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "Category created successfully",
		"category": category,
	})
}

// UpdateCategory merges the provided category fields
func (h *Handler) UpdateCategory(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req service.CategoryInput
	if err := bind(c, &req); err != nil {
		return err
	}
	category, err := h.Catalog.UpdateCategory(c.Request().Context(), scope, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Category updated successfully",
		"category": category,
	})
}

// DeleteCategory removes a category no product references
func (h *Handler) DeleteCategory(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Catalog.DeleteCategory(c.Request().Context(), scope, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Category deleted successfully"})
}

// ListProductTypes lists the store's product types
func (h *Handler) ListProductTypes(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	activeOnly, err := queryBool(c, "active")
	if err != nil {
		return err
	}
	types, err := h.Catalog.ProductTypes(c.Request().Context(), scope, activeOnly != nil && *activeOnly)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"product_types": types})
}

// ListPublicProductTypes lists active product types of the resolved store
func (h *Handler) ListPublicProductTypes(c echo.Context) error {
	scope, err := tenant.FromEcho(c)
	if err != nil {
		return err
	}
	types, err := h.Catalog.ProductTypes(c.Request().Context(), scope, true)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"product_types": types})
}

// CreateProductType adds a product type
func (h *Handler) CreateProductType(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	var req service.ProductTypeInput
	if err := bind(c, &req); err != nil {
		return err
	}
	productType, err := h.Catalog.CreateProductType(c.Request().Context(), scope, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":      "Product type created successfully",
		"product_type": productType,
	})
}

// UpdateProductType renames or toggles a product type
func (h *Handler) UpdateProductType(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req service.ProductTypeInput
	if err := bind(c, &req); err != nil {
		return err
	}
	productType, err := h.Catalog.UpdateProductType(c.Request().Context(), scope, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":      "Product type updated successfully",
		"product_type": productType,
	})
}

// DeleteProductType removes a product type no product references
func (h *Handler) DeleteProductType(c echo.Context) error {
	_, scope, err := adminScope(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Catalog.DeleteProductType(c.Request().Context(), scope, id); err != nil {
		return err
	}

	logger.FromEcho(c).Info("Product type deleted", zap.Uint("product_type_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Product type deleted successfully"})
}
