package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// InvoiceStatus is independent of the order status.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// Valid reports whether s is a known invoice status.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// InvoiceItem is a snapshot of an order line
type InvoiceItem struct {
	ProductID  uint            `json:"product_id"`
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Invoice is a denormalized snapshot of an order, one per order
type Invoice struct {
	ID              uint              `json:"id" gorm:"primarykey"`
	StoreID         uint              `json:"store_id" gorm:"not null;uniqueIndex:idx_invoice_store_number"`
	OrderID         uint              `json:"order_id" gorm:"not null;uniqueIndex"`
	CustomerID      uint              `json:"customer_id" gorm:"index"`
	InvoiceNumber   string            `json:"invoice_number" gorm:"type:varchar(64);not null;uniqueIndex:idx_invoice_store_number"`
	Status          InvoiceStatus     `json:"status" gorm:"type:varchar(20);not null;index"`
	CustomerName    string            `json:"customer_name" gorm:"type:varchar(255)"`
	CustomerEmail   string            `json:"customer_email" gorm:"type:varchar(255)"`
	Items           []InvoiceItem     `json:"items" gorm:"serializer:json"`
	Pricing         Pricing           `json:"pricing" gorm:"embedded;embeddedPrefix:pricing_"`
	PaymentMethod   string            `json:"payment_method" gorm:"type:varchar(50)"`
	PaymentStatus   PaymentStatus     `json:"payment_status" gorm:"type:varchar(20)"`
	BillingAddress  datatypes.JSONMap `json:"billing_address,omitempty"`
	ShippingAddress datatypes.JSONMap `json:"shipping_address,omitempty"`
	Notes           string            `json:"notes" gorm:"type:text"`
	IssuedAt        time.Time         `json:"issued_at"`
	DueDate         time.Time         `json:"due_date"`
	PaidAt          *time.Time        `json:"paid_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
