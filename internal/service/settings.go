package service

import (
	"context"
	"strings"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/repository"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

var hundred = decimal.NewFromInt(100)

// ShippingUpdate carries the shipping fields to overwrite. Nil fields are kept.
type ShippingUpdate struct {
	FreeShippingThreshold *decimal.Decimal      `json:"free_shipping_threshold"`
	DefaultShippingCost   *decimal.Decimal      `json:"default_shipping_cost"`
	Zones                 *[]model.ShippingZone `json:"zones"`
}

// TaxRateInput creates a tax rate when ID is zero and updates it otherwise.
type TaxRateInput struct {
	ID          uint             `json:"id"`
	Name        *string          `json:"name"`
	Rate        *decimal.Decimal `json:"rate"`
	Description *string          `json:"description"`
	IsActive    *bool            `json:"is_active"`
}

// GatewayInput creates a payment gateway when ID is zero and updates it
// otherwise.
type GatewayInput struct {
	ID          uint               `json:"id"`
	Name        *string            `json:"name"`
	Description *string            `json:"description"`
	IsActive    *bool              `json:"is_active"`
	MinAmount   *decimal.Decimal   `json:"min_amount"`
	MaxAmount   *decimal.Decimal   `json:"max_amount"`
	Charges     *decimal.Decimal   `json:"charges"`
	Config      *datatypes.JSONMap `json:"config"`
}

// Quote is the shipping and tax due for a subtotal.
type Quote struct {
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
}

// SettingsService serves per-store shipping, tax and payment settings and
// provisions their defaults on first read.
type SettingsService struct {
	repo *repository.SettingsRepository
	log  *zap.Logger
}

// NewSettingsService creates a settings service
func NewSettingsService(repo *repository.SettingsRepository, log *zap.Logger) *SettingsService {
	return &SettingsService{repo: repo, log: log}
}

// Shipping returns the store's shipping settings, creating the defaults when
// none exist.
func (s *SettingsService) Shipping(ctx context.Context, scope tenant.Scope) (*model.ShippingSettings, error) {
	settings, err := s.repo.FindShipping(ctx, scope)
	if err == nil {
		return settings, nil
	}
	if !apperror.Is(err, apperror.KindNotFound) {
		return nil, err
	}

	defaults := model.DefaultShippingSettings(scope.StoreID)
	if err := s.repo.CreateShipping(ctx, scope, &defaults); err != nil {
		// another request provisioned them first
		if apperror.Is(err, apperror.KindConflict) {
			return s.repo.FindShipping(ctx, scope)
		}
		return nil, err
	}
	s.log.Info("Provisioned default shipping settings", zap.Uint("store_id", scope.StoreID))
	return &defaults, nil
}

// UpdateShipping merges the provided fields into the shipping settings
func (s *SettingsService) UpdateShipping(ctx context.Context, scope tenant.Scope, in ShippingUpdate) (*model.ShippingSettings, error) {
	settings, err := s.Shipping(ctx, scope)
	if err != nil {
		return nil, err
	}

	if in.FreeShippingThreshold != nil {
		if in.FreeShippingThreshold.IsNegative() {
			return nil, apperror.BadRequest("free shipping threshold cannot be negative")
		}
		settings.FreeShippingThreshold = *in.FreeShippingThreshold
	}
	if in.DefaultShippingCost != nil {
		if in.DefaultShippingCost.IsNegative() {
			return nil, apperror.BadRequest("default shipping cost cannot be negative")
		}
		settings.DefaultShippingCost = *in.DefaultShippingCost
	}
	if in.Zones != nil {
		for _, z := range *in.Zones {
			if strings.TrimSpace(z.Name) == "" {
				return nil, apperror.BadRequest("zone name is required")
			}
			if z.Rate.IsNegative() || z.CODCharges.IsNegative() {
				return nil, apperror.BadRequest("zone %s has a negative rate", z.Name)
			}
		}
		settings.Zones = *in.Zones
	}

	if err := s.repo.UpdateShipping(ctx, scope, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// TaxRates returns the store's tax rates, creating the defaults when none
// exist.
func (s *SettingsService) TaxRates(ctx context.Context, scope tenant.Scope) ([]model.TaxRate, error) {
	rates, err := s.repo.ListTaxRates(ctx, scope)
	if err != nil || len(rates) > 0 {
		return rates, err
	}

	defaults := model.DefaultTaxRates(scope.StoreID)
	if err := s.repo.CreateTaxRates(ctx, scope, defaults); err != nil {
		if apperror.Is(err, apperror.KindConflict) {
			return s.repo.ListTaxRates(ctx, scope)
		}
		return nil, err
	}
	s.log.Info("Provisioned default tax rates", zap.Uint("store_id", scope.StoreID))
	return defaults, nil
}

// SaveTaxRate creates or partially updates one tax rate
func (s *SettingsService) SaveTaxRate(ctx context.Context, scope tenant.Scope, in TaxRateInput) (*model.TaxRate, error) {
	if in.ID == 0 {
		if in.Name == nil || strings.TrimSpace(*in.Name) == "" || in.Rate == nil {
			return nil, apperror.BadRequest("name and rate are required")
		}
		rate := model.TaxRate{Name: strings.TrimSpace(*in.Name), IsActive: true}
		if err := applyTaxRate(&rate, in); err != nil {
			return nil, err
		}
		rates := []model.TaxRate{rate}
		if err := s.repo.CreateTaxRates(ctx, scope, rates); err != nil {
			return nil, err
		}
		return &rates[0], nil
	}

	rate, err := s.repo.FindTaxRate(ctx, scope, in.ID)
	if err != nil {
		return nil, err
	}
	if err := applyTaxRate(rate, in); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateTaxRate(ctx, scope, rate); err != nil {
		return nil, err
	}
	return rate, nil
}

func applyTaxRate(rate *model.TaxRate, in TaxRateInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return apperror.BadRequest("name cannot be empty")
		}
		rate.Name = name
	}
	if in.Rate != nil {
		if in.Rate.IsNegative() || in.Rate.GreaterThan(hundred) {
			return apperror.BadRequest("rate must be between 0 and 100")
		}
		rate.Rate = *in.Rate
	}
	if in.Description != nil {
		rate.Description = *in.Description
	}
	if in.IsActive != nil {
		rate.IsActive = *in.IsActive
	}
	return nil
}

// DeleteTaxRate removes a tax rate
func (s *SettingsService) DeleteTaxRate(ctx context.Context, scope tenant.Scope, id uint) error {
	return s.repo.DeleteTaxRate(ctx, scope, id)
}

// Gateways returns the store's payment gateways, creating the defaults when
// none exist.
func (s *SettingsService) Gateways(ctx context.Context, scope tenant.Scope) ([]model.PaymentGateway, error) {
	gateways, err := s.repo.ListGateways(ctx, scope)
	if err != nil || len(gateways) > 0 {
		return gateways, err
	}

	defaults := model.DefaultPaymentGateways(scope.StoreID)
	if err := s.repo.CreateGateways(ctx, scope, defaults); err != nil {
		if apperror.Is(err, apperror.KindConflict) {
			return s.repo.ListGateways(ctx, scope)
		}
		return nil, err
	}
	s.log.Info("Provisioned default payment gateways", zap.Uint("store_id", scope.StoreID))
	return defaults, nil
}

// ActiveGateways returns the gateways a customer may pay with
func (s *SettingsService) ActiveGateways(ctx context.Context, scope tenant.Scope) ([]model.PaymentGateway, error) {
	gateways, err := s.Gateways(ctx, scope)
	if err != nil {
		return nil, err
	}
	active := make([]model.PaymentGateway, 0, len(gateways))
	for _, g := range gateways {
		if g.IsActive {
			g.Config = nil
			active = append(active, g)
		}
	}
	return active, nil
}

// SaveGateway creates or partially updates one payment gateway
func (s *SettingsService) SaveGateway(ctx context.Context, scope tenant.Scope, in GatewayInput) (*model.PaymentGateway, error) {
	if in.ID == 0 {
		if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
			return nil, apperror.BadRequest("name is required")
		}
		gateway := model.PaymentGateway{Name: strings.TrimSpace(*in.Name)}
		if err := applyGateway(&gateway, in); err != nil {
			return nil, err
		}
		gateways := []model.PaymentGateway{gateway}
		if err := s.repo.CreateGateways(ctx, scope, gateways); err != nil {
			return nil, err
		}
		return &gateways[0], nil
	}

	gateway, err := s.repo.FindGateway(ctx, scope, in.ID)
	if err != nil {
		return nil, err
	}
	if err := applyGateway(gateway, in); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateGateway(ctx, scope, gateway); err != nil {
		return nil, err
	}
	return gateway, nil
}

func applyGateway(g *model.PaymentGateway, in GatewayInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return apperror.BadRequest("name cannot be empty")
		}
		g.Name = name
	}
	if in.Description != nil {
		g.Description = *in.Description
	}
	if in.IsActive != nil {
		g.IsActive = *in.IsActive
	}
	if in.MinAmount != nil {
		g.MinAmount = *in.MinAmount
	}
	if in.MaxAmount != nil {
		g.MaxAmount = *in.MaxAmount
	}
	if in.Charges != nil {
		g.Charges = *in.Charges
	}
	if in.Config != nil {
		g.Config = *in.Config
	}
	if g.MinAmount.IsNegative() || g.MaxAmount.IsNegative() || g.Charges.IsNegative() {
		return apperror.BadRequest("amounts cannot be negative")
	}
	if g.MaxAmount.IsPositive() && g.MinAmount.GreaterThan(g.MaxAmount) {
		return apperror.BadRequest("min amount exceeds max amount")
	}
	return nil
}

// DeleteGateway removes a payment gateway
func (s *SettingsService) DeleteGateway(ctx context.Context, scope tenant.Scope, id uint) error {
	return s.repo.DeleteGateway(ctx, scope, id)
}

// Quote computes shipping and tax for a subtotal. Shipping is free at or
// above the threshold; otherwise the named active zone's rate applies, else
// the default cost. Tax sums every active rate.
func (s *SettingsService) Quote(ctx context.Context, scope tenant.Scope, subtotal decimal.Decimal, zone string) (Quote, error) {
	shipping, err := s.Shipping(ctx, scope)
	if err != nil {
		return Quote{}, err
	}
	rates, err := s.TaxRates(ctx, scope)
	if err != nil {
		return Quote{}, err
	}
	return computeQuote(shipping, rates, subtotal, zone), nil
}

func computeQuote(shipping *model.ShippingSettings, rates []model.TaxRate, subtotal decimal.Decimal, zone string) Quote {
	q := Quote{Shipping: shipping.DefaultShippingCost, Tax: decimal.Zero}
	if z, ok := shipping.Zone(zone); ok {
		q.Shipping = z.Rate
	}
	if shipping.FreeShippingThreshold.IsPositive() && subtotal.GreaterThanOrEqual(shipping.FreeShippingThreshold) {
		q.Shipping = decimal.Zero
	}

	for _, r := range rates {
		if r.IsActive {
			q.Tax = q.Tax.Add(subtotal.Mul(r.Rate).Div(hundred))
		}
	}
	q.Tax = q.Tax.Round(2)
	return q
}
