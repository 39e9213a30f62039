package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ShippingZone is a delivery region with its own rate
type ShippingZone struct {
	Name         string          `json:"name"`
	Regions      []string        `json:"regions"`
	Rate         decimal.Decimal `json:"rate"`
	DeliveryTime string          `json:"delivery_time"`
	CODAvailable bool            `json:"cod_available"`
	CODCharges   decimal.Decimal `json:"cod_charges"`
	IsActive     bool            `json:"is_active"`
}

// ShippingSettings is the single shipping configuration of a store
type ShippingSettings struct {
	ID                    uint            `json:"id" gorm:"primarykey"`
	StoreID               uint            `json:"store_id" gorm:"not null;uniqueIndex"`
	FreeShippingThreshold decimal.Decimal `json:"free_shipping_threshold" gorm:"type:decimal(12,2)"`
	DefaultShippingCost   decimal.Decimal `json:"default_shipping_cost" gorm:"type:decimal(12,2)"`
	Zones                 []ShippingZone  `json:"zones" gorm:"serializer:json"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// Zone returns the active zone with the given name.
func (s *ShippingSettings) Zone(name string) (ShippingZone, bool) {
	for _, z := range s.Zones {
		if z.Name == name && z.IsActive {
			return z, true
		}
	}
	return ShippingZone{}, false
}

// TaxRate is one named tax of a store
type TaxRate struct {
	ID          uint            `json:"id" gorm:"primarykey"`
	StoreID     uint            `json:"store_id" gorm:"not null;uniqueIndex:idx_tax_store_name"`
	Name        string          `json:"name" gorm:"type:varchar(50);not null;uniqueIndex:idx_tax_store_name"`
	Rate        decimal.Decimal `json:"rate" gorm:"type:decimal(5,2);not null"`
	Description string          `json:"description" gorm:"type:varchar(255)"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// PaymentGateway is a payment method a store may offer
type PaymentGateway struct {
	ID          uint              `json:"id" gorm:"primarykey"`
	StoreID     uint              `json:"store_id" gorm:"not null;uniqueIndex:idx_gateway_store_name"`
	Name        string            `json:"name" gorm:"type:varchar(50);not null;uniqueIndex:idx_gateway_store_name"`
	Description string            `json:"description" gorm:"type:varchar(255)"`
	IsActive    bool              `json:"is_active"`
	MinAmount   decimal.Decimal   `json:"min_amount" gorm:"type:decimal(12,2)"`
	MaxAmount   decimal.Decimal   `json:"max_amount" gorm:"type:decimal(12,2)"`
	Charges     decimal.Decimal   `json:"charges" gorm:"type:decimal(12,2)"`
	Config      datatypes.JSONMap `json:"config,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Gateway names
const (
	GatewayRazorpay       = "Razorpay"
	GatewayStripe         = "Stripe"
	GatewayPayU           = "PayU"
	GatewayPayPal         = "PayPal"
	GatewayCashOnDelivery = "Cash on Delivery"
)

// DefaultShippingSettings returns the shipping configuration a store starts with.
func DefaultShippingSettings(storeID uint) ShippingSettings {
	return ShippingSettings{
		StoreID:               storeID,
		FreeShippingThreshold: decimal.NewFromInt(500),
		DefaultShippingCost:   decimal.NewFromInt(50),
		Zones: []ShippingZone{
			{
				Name:         "Local",
				Regions:      []string{"local"},
				Rate:         decimal.NewFromInt(30),
				DeliveryTime: "1-2 days",
				CODAvailable: true,
				CODCharges:   decimal.NewFromInt(25),
				IsActive:     true,
			},
			{
				Name:         "National",
				Regions:      []string{"national"},
				Rate:         decimal.NewFromInt(80),
				DeliveryTime: "3-5 days",
				CODAvailable: false,
				CODCharges:   decimal.Zero,
				IsActive:     true,
			},
		},
	}
}

// DefaultTaxRates returns the tax rates a store starts with.
func DefaultTaxRates(storeID uint) []TaxRate {
	return []TaxRate{
		{StoreID: storeID, Name: "GST", Rate: decimal.NewFromInt(18), Description: "Goods and Services Tax", IsActive: true},
		{StoreID: storeID, Name: "CGST", Rate: decimal.NewFromInt(9), Description: "Central Goods and Services Tax"},
		{StoreID: storeID, Name: "SGST", Rate: decimal.NewFromInt(9), Description: "State Goods and Services Tax"},
	}
}

// DefaultPaymentGateways returns the gateways a store starts with. Only cash
// on delivery is active.
func DefaultPaymentGateways(storeID uint) []PaymentGateway {
	return []PaymentGateway{
		{StoreID: storeID, Name: GatewayRazorpay, Description: "Cards, UPI and netbanking"},
		{StoreID: storeID, Name: GatewayStripe, Description: "International cards"},
		{StoreID: storeID, Name: GatewayPayU, Description: "Cards and wallets"},
		{StoreID: storeID, Name: GatewayPayPal, Description: "PayPal checkout"},
		{
			StoreID:     storeID,
			Name:        GatewayCashOnDelivery,
			Description: "Pay when the order arrives",
			IsActive:    true,
			MaxAmount:   decimal.NewFromInt(5000),
			Charges:     decimal.NewFromInt(25),
		},
	}
}
