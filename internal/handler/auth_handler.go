package handler

import (
	"net/http"

	"github.com/Shalinisinha22/ewa-back/internal/middleware"
	"github.com/Shalinisinha22/ewa-back/internal/service"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"github.com/Shalinisinha22/ewa-back/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLogin authenticates an admin or super admin
func (h *Handler) AdminLogin(c echo.Context) error {
	log := logger.FromEcho(c)

	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	session, err := h.Auth.AdminLogin(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		log.Warn("Admin login failed", zap.String("email", req.Email), zap.Error(err))
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"token":   session.Token,
		"admin":   session.Admin,
	})
}

// GetAdminProfile returns the authenticated admin
func (h *Handler) GetAdminProfile(c echo.Context) error {
	admin, err := middleware.AdminFrom(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, admin)
}

// CustomerSignup registers a customer with the resolved store
func (h *Handler) CustomerSignup(c echo.Context) error {
	scope, err := tenant.FromEcho(c)
	if err != nil {
		return err
	}
	var req service.SignupInput
	if err := bind(c, &req); err != nil {
		return err
	}
	session, err := h.Auth.CustomerSignup(c.Request().Context(), scope, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "Account created successfully",
		"token":    session.Token,
		"customer": session.Customer,
	})
}

// CustomerLogin authenticates a customer of the resolved store
func (h *Handler) CustomerLogin(c echo.Context) error {
	log := logger.FromEcho(c)

	scope, err := tenant.FromEcho(c)
	if err != nil {
		return err
	}
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	session, err := h.Auth.CustomerLogin(c.Request().Context(), scope, req.Email, req.Password)
	if err != nil {
		log.Warn("Customer login failed", zap.Uint("store_id", scope.StoreID), zap.Error(err))
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Login successful",
		"token":    session.Token,
		"customer": session.Customer,
	})
}

// GetCustomerProfile returns the authenticated customer with bank details
func (h *Handler) GetCustomerProfile(c echo.Context) error {
	customer, scope, err := customerScope(c)
	if err != nil {
		return err
	}
	profile, err := h.Auth.Profile(c.Request().Context(), scope, customer.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateCustomerProfile overwrites the provided profile fields
func (h *Handler) UpdateCustomerProfile(c echo.Context) error {
	customer, scope, err := customerScope(c)
	if err != nil {
		return err
	}
	var req service.ProfileInput
	if err := bind(c, &req); err != nil {
		return err
	}
	updated, err := h.Auth.UpdateProfile(c.Request().Context(), scope, customer.ID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Profile updated successfully",
		"customer": updated,
	})
}

// ChangeCustomerPassword replaces the customer's password
func (h *Handler) ChangeCustomerPassword(c echo.Context) error {
	customer, scope, err := customerScope(c)
	if err != nil {
		return err
	}
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.Auth.ChangePassword(c.Request().Context(), scope, customer.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password changed successfully"})
}

// AddCustomerBankDetail stores a refund destination for the customer
func (h *Handler) AddCustomerBankDetail(c echo.Context) error {
	customer, scope, err := customerScope(c)
	if err != nil {
		return err
	}
	var req service.BankDetailInput
	if err := bind(c, &req); err != nil {
		return err
	}
	detail, err := h.Auth.AddBankDetail(c.Request().Context(), scope, customer.ID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":     "Bank details saved successfully",
		"bank_detail": detail,
	})
}
