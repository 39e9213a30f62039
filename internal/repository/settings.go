package repository

import (
	"context"

	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"gorm.io/gorm"
)

const (
	shippingNotFound = "shipping settings not found"
	taxNotFound      = "tax rate not found"
	gatewayNotFound  = "payment gateway not found"
)

// SettingsRepository persists per-store shipping, tax and payment settings
type SettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a settings repository
func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// FindShipping loads the store's shipping settings
func (r *SettingsRepository) FindShipping(ctx context.Context, scope tenant.Scope) (*model.ShippingSettings, error) {
	var settings model.ShippingSettings
	if err := r.db.WithContext(ctx).Scopes(storeScope(scope)).First(&settings).Error; err != nil {
		return nil, translate(err, shippingNotFound)
	}
	return &settings, nil
}

// CreateShipping inserts the store's shipping settings
func (r *SettingsRepository) CreateShipping(ctx context.Context, scope tenant.Scope, settings *model.ShippingSettings) error {
	if !scope.Valid() {
		return translate(errMissingScope, shippingNotFound)
	}
	settings.StoreID = scope.StoreID
	return translate(r.db.WithContext(ctx).Create(settings).Error, shippingNotFound)
}

// UpdateShipping writes every column of the shipping settings
func (r *SettingsRepository) UpdateShipping(ctx context.Context, scope tenant.Scope, settings *model.ShippingSettings) error {
	return updateScoped(r.db.WithContext(ctx), scope, settings, shippingNotFound)
}

// ListTaxRates returns the store's tax rates by name
func (r *SettingsRepository) ListTaxRates(ctx context.Context, scope tenant.Scope) ([]model.TaxRate, error) {
	var rates []model.TaxRate
	if err := r.db.WithContext(ctx).Scopes(storeScope(scope)).Order("id ASC").Find(&rates).Error; err != nil {
		return nil, translate(err, taxNotFound)
	}
	return rates, nil
}

// CreateTaxRates inserts tax rates into the scoped store
func (r *SettingsRepository) CreateTaxRates(ctx context.Context, scope tenant.Scope, rates []model.TaxRate) error {
	if !scope.Valid() {
		return translate(errMissingScope, taxNotFound)
	}
	for i := range rates {
		rates[i].StoreID = scope.StoreID
	}
	return translate(r.db.WithContext(ctx).Create(&rates).Error, taxNotFound)
}

// FindTaxRate loads one tax rate of the scoped store
func (r *SettingsRepository) FindTaxRate(ctx context.Context, scope tenant.Scope, id uint) (*model.TaxRate, error) {
	var rate model.TaxRate
	if err := r.db.WithContext(ctx).Scopes(storeScope(scope)).First(&rate, "id = ?", id).Error; err != nil {
		return nil, translate(err, taxNotFound)
	}
	return &rate, nil
}

// UpdateTaxRate writes every column of a tax rate
func (r *SettingsRepository) UpdateTaxRate(ctx context.Context, scope tenant.Scope, rate *model.TaxRate) error {
	return updateScoped(r.db.WithContext(ctx), scope, rate, taxNotFound)
}

// DeleteTaxRate removes a tax rate
func (r *SettingsRepository) DeleteTaxRate(ctx context.Context, scope tenant.Scope, id uint) error {
	return deleteScoped(r.db.WithContext(ctx), scope, &model.TaxRate{}, id, taxNotFound)
}

// ListGateways returns the store's payment gateways
func (r *SettingsRepository) ListGateways(ctx context.Context, scope tenant.Scope) ([]model.PaymentGateway, error) {
	var gateways []model.PaymentGateway
	if err := r.db.WithContext(ctx).Scopes(storeScope(scope)).Order("id ASC").Find(&gateways).Error; err != nil {
		return nil, translate(err, gatewayNotFound)
	}
	return gateways, nil
}

// CreateGateways inserts gateways into the scoped store
func (r *SettingsRepository) CreateGateways(ctx context.Context, scope tenant.Scope, gateways []model.PaymentGateway) error {
	if !scope.Valid() {
		return translate(errMissingScope, gatewayNotFound)
	}
	for i := range gateways {
		gateways[i].StoreID = scope.StoreID
	}
	return translate(r.db.WithContext(ctx).Create(&gateways).Error, gatewayNotFound)
}

// FindGateway loads one gateway of the scoped store
func (r *SettingsRepository) FindGateway(ctx context.Context, scope tenant.Scope, id uint) (*model.PaymentGateway, error) {
	var gateway model.PaymentGateway
	if err := r.db.WithContext(ctx).Scopes(storeScope(scope)).First(&gateway, "id = ?", id).Error; err != nil {
		return nil, translate(err, gatewayNotFound)
	}
	return &gateway, nil
}

// UpdateGateway writes every column of a gateway
func (r *SettingsRepository) UpdateGateway(ctx context.Context, scope tenant.Scope, gateway *model.PaymentGateway) error {
	return updateScoped(r.db.WithContext(ctx), scope, gateway, gatewayNotFound)
}

// DeleteGateway removes a gateway
func (r *SettingsRepository) DeleteGateway(ctx context.Context, scope tenant.Scope, id uint) error {
	return deleteScoped(r.db.WithContext(ctx), scope, &model.PaymentGateway{}, id, gatewayNotFound)
}
