package handler

import (
	"github.com/Shalinisinha22/ewa-back/internal/middleware"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the API. Public storefront routes only need the store
// to be identified, admin routes pass the gate and a permission check, and
// customer routes are bound to the customer's own store.
func RegisterRoutes(e *echo.Echo, h *Handler, stores middleware.StoreResolver, gate *middleware.Gate) {
	identify := middleware.IdentifyStore(stores)
	identifyOptional := middleware.IdentifyStoreOptional(stores)

	admin := func(p model.Permission) []echo.MiddlewareFunc {
		return []echo.MiddlewareFunc{identifyOptional, gate.Admin(), middleware.RequirePermission(p)}
	}
	customer := []echo.MiddlewareFunc{identifyOptional, gate.Customer()}

	api := e.Group("/api")

	// Stores
	api.GET("/stores/public/default", GetDefaultStore(stores, h.Stores))
	api.GET("/stores/public/:identifier", h.GetPublicStore)
	storeAPI := api.Group("/stores", identifyOptional, gate.Admin(), middleware.RequireSuperAdmin())
	storeAPI.POST("", h.CreateStore)
	storeAPI.GET("", h.ListStores)
	storeAPI.GET("/:id", h.GetStore)
	storeAPI.PUT("/:id", h.UpdateStore)
	storeAPI.PUT("/:id/status", h.UpdateStoreStatus)
	storeAPI.POST("/:id/reset-password", h.ResetStoreAdminPassword)
	storeAPI.DELETE("/:id", h.DeleteStore)

	// Authentication
	api.POST("/auth/login", h.AdminLogin)
	api.GET("/auth/me", h.GetAdminProfile, identifyOptional, gate.Admin())

	customerAuth := api.Group("/customer/auth")
	customerAuth.POST("/signup", h.CustomerSignup, identify)
	customerAuth.POST("/login", h.CustomerLogin, identify)
	customerAuth.GET("/profile", h.GetCustomerProfile, customer...)
	customerAuth.PUT("/profile", h.UpdateCustomerProfile, customer...)
	customerAuth.PUT("/change-password", h.ChangeCustomerPassword, customer...)
	customerAuth.POST("/bank-details", h.AddCustomerBankDetail, customer...)

	// Catalog
	api.GET("/products/public", h.ListPublicProducts, identify)
	api.GET("/products/public/:id", h.GetPublicProduct, identify)
	productAPI := api.Group("/products", admin(model.PermProducts)...)
	productAPI.GET("", h.ListProducts)
	productAPI.GET("/:id", h.GetProduct)
	productAPI.POST("", h.CreateProduct)
	productAPI.PUT("/:id", h.UpdateProduct)
	productAPI.PUT("/:id/stock", h.UpdateProductStock)
	productAPI.DELETE("/:id", h.DeleteProduct)

	api.GET("/product-types/public", h.ListPublicProductTypes, identify)
	productTypeAPI := api.Group("/product-types", admin(model.PermProducts)...)
	productTypeAPI.GET("", h.ListProductTypes)
	productTypeAPI.POST("", h.CreateProductType)
	productTypeAPI.PUT("/:id", h.UpdateProductType)
	productTypeAPI.DELETE("/:id", h.DeleteProductType)

	api.GET("/categories/public", h.ListPublicCategories, identify)
	categoryAPI := api.Group("/categories", admin(model.PermCategories)...)
	categoryAPI.GET("", h.ListCategories)
	categoryAPI.GET("/:id", h.GetCategory)
	categoryAPI.POST("", h.CreateCategory)
	categoryAPI.PUT("/:id", h.UpdateCategory)
	categoryAPI.DELETE("/:id", h.DeleteCategory)

	// Orders
	orderAPI := api.Group("/orders", admin(model.PermOrders)...)
	orderAPI.GET("", h.ListOrders)
	orderAPI.GET("/stats", h.OrderStats)
	orderAPI.GET("/export", h.ExportOrders)
	orderAPI.GET("/:id", h.GetOrder)
	orderAPI.POST("", h.CreateOrder)
	orderAPI.PUT("/:id/status", h.UpdateOrderStatus)
	orderAPI.PUT("/:id/payment", h.MarkOrderPaid)
	orderAPI.PUT("/:id/cancel", h.CancelOrder)
	orderAPI.PUT("/:id/refund", h.RefundOrder)
	orderAPI.PUT("/:id/notes", h.UpdateOrderNotes)

	customerOrders := api.Group("/customer/orders", customer...)
	customerOrders.GET("", h.ListCustomerOrders)
	customerOrders.GET("/:id", h.GetCustomerOrder)
	customerOrders.POST("", h.Checkout)
	customerOrders.PUT("/:id/cancel", h.CancelCustomerOrder)
	customerOrders.GET("/:id/invoice", h.GetCustomerInvoice)

	wishlist := api.Group("/wishlist", customer...)
	wishlist.GET("", h.GetWishlist)
	wishlist.POST("", h.AddToWishlist)
	wishlist.GET("/check/:product_id", h.CheckWishlist)
	wishlist.DELETE("/:product_id", h.RemoveFromWishlist)
	wishlist.DELETE("", h.ClearWishlist)

	// Customers
	customerAPI := api.Group("/customers", admin(model.PermCustomers)...)
	customerAPI.GET("", h.ListCustomers)
	customerAPI.GET("/:id", h.GetCustomer)
	customerAPI.PUT("/:id/status", h.UpdateCustomerStatus)

	// Invoices
	invoiceAPI := api.Group("/invoices", admin(model.PermOrders)...)
	invoiceAPI.GET("", h.ListInvoices)
	invoiceAPI.GET("/:id", h.GetInvoice)
	invoiceAPI.POST("/order/:order_id", h.GenerateInvoice)
	invoiceAPI.PUT("/:id/status", h.UpdateInvoiceStatus)
	invoiceAPI.DELETE("/:id", h.DeleteInvoice)

	// Payments
	paymentAPI := api.Group("/payment/razorpay")
	paymentAPI.POST("/create-order", h.CreatePaymentOrder, customer...)
	paymentAPI.POST("/verify", h.VerifyPayment, customer...)
	paymentAPI.POST("/webhook", h.PaymentWebhook)

	// Settings
	settingsAPI := api.Group("/settings", admin(model.PermSettings)...)
	settingsAPI.GET("/shipping", h.GetShippingSettings)
	settingsAPI.PUT("/shipping", h.UpdateShippingSettings)
	settingsAPI.GET("/tax", h.GetTaxRates)
	settingsAPI.PUT("/tax", h.SaveTaxRate)
	settingsAPI.DELETE("/tax/:id", h.DeleteTaxRate)
	settingsAPI.GET("/payment", h.GetPaymentGateways)
	settingsAPI.PUT("/payment", h.SavePaymentGateway)
	settingsAPI.DELETE("/payment/:id", h.DeletePaymentGateway)

	storefront := api.Group("/customer/store", identify)
	storefront.GET("/shipping", h.GetShippingSettings)
	storefront.GET("/tax", h.GetTaxRates)
	storefront.GET("/payment", h.GetActivePaymentGateways)
	storefront.GET("/quote", h.GetQuote)

	// Content
	api.GET("/banners/public", h.ListPublicBanners, identify)
	bannerAPI := api.Group("/banners", admin(model.PermBanners)...)
	bannerAPI.GET("", h.ListBanners)
	bannerAPI.GET("/:id", h.GetBanner)
	bannerAPI.POST("", h.CreateBanner)
	bannerAPI.PUT("/:id", h.UpdateBanner)
	bannerAPI.PUT("/:id/toggle", h.ToggleBanner)
	bannerAPI.DELETE("/:id", h.DeleteBanner)

	api.GET("/pages/public/menu", h.ListMenuPages, identify)
	api.GET("/pages/public/:slug", h.GetPublishedPage, identify)
	pageAPI := api.Group("/pages", admin(model.PermPages)...)
	pageAPI.GET("", h.ListPages)
	pageAPI.GET("/:id", h.GetPage)
	pageAPI.POST("", h.CreatePage)
	pageAPI.PUT("/:id", h.UpdatePage)
	pageAPI.POST("/:id/duplicate", h.DuplicatePage)
	pageAPI.DELETE("/:id", h.DeletePage)

	api.GET("/footer/public", h.GetFooter, identify)
	footerAPI := api.Group("/footer", admin(model.PermSettings)...)
	footerAPI.GET("", h.GetFooter)
	footerAPI.PUT("", h.UpdateFooter)

	// Storefront addressed by slug in the path
	bySlug := api.Group("/s/:"+middleware.ParamStoreSlug, identify)
	bySlug.GET("/products", h.ListPublicProducts)
	bySlug.GET("/products/:id", h.GetPublicProduct)
	bySlug.GET("/categories", h.ListPublicCategories)
	bySlug.GET("/product-types", h.ListPublicProductTypes)
	bySlug.GET("/banners", h.ListPublicBanners)
	bySlug.GET("/pages/menu", h.ListMenuPages)
	bySlug.GET("/pages/:slug", h.GetPublishedPage)
	bySlug.GET("/footer", h.GetFooter)
	bySlug.GET("/shipping", h.GetShippingSettings)
	bySlug.GET("/payment", h.GetActivePaymentGateways)
	bySlug.GET("/quote", h.GetQuote)
}
