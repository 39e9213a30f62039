package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderStatus is the state of the order state machine.
type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "pending"
	OrderStatusProcessing      OrderStatus = "processing"
	OrderStatusShipped         OrderStatus = "shipped"
	OrderStatusDelivered       OrderStatus = "delivered"
	OrderStatusCancelled       OrderStatus = "cancelled"
	OrderStatusRefundCompleted OrderStatus = "refund_completed"
)

// OrderStatuses lists every order status.
var OrderStatuses = []OrderStatus{
	OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
	OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefundCompleted,
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// PaymentStatus is the payment sub-state of an order.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
	PaymentStatusCancelled  PaymentStatus = "cancelled"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusCompleted,
		PaymentStatusFailed, PaymentStatusRefunded, PaymentStatusCancelled:
		return true
	}
	return false
}

// FulfillmentStatus values
const (
	FulfillmentUnfulfilled = "unfulfilled"
	FulfillmentFulfilled   = "fulfilled"
)

// Pricing holds the monetary breakdown of an order.
// Total always equals Subtotal + Tax + Shipping - Discount.
type Pricing struct {
	Subtotal decimal.Decimal `json:"subtotal" gorm:"type:decimal(12,2);not null"`
	Tax      decimal.Decimal `json:"tax" gorm:"type:decimal(12,2);not null"`
	Shipping decimal.Decimal `json:"shipping" gorm:"type:decimal(12,2);not null"`
	Discount decimal.Decimal `json:"discount" gorm:"type:decimal(12,2);not null"`
	Total    decimal.Decimal `json:"total" gorm:"type:decimal(12,2);not null"`
}

// ComputeTotal returns Subtotal + Tax + Shipping - Discount.
func (p Pricing) ComputeTotal() decimal.Decimal {
	return p.Subtotal.Add(p.Tax).Add(p.Shipping).Sub(p.Discount)
}

// Balanced reports whether Total matches its components.
func (p Pricing) Balanced() bool {
	return p.Total.Equal(p.ComputeTotal())
}

// Payment is the payment sub-record of an order
type Payment struct {
	Method          string        `json:"method" gorm:"type:varchar(50)"`
	Status          PaymentStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	TransactionID   string        `json:"transaction_id" gorm:"type:varchar(255)"`
	ProviderOrderID string        `json:"provider_order_id" gorm:"type:varchar(255);index"`
	PaidAt          *time.Time    `json:"paid_at,omitempty"`
}

// Fulfillment tracks shipping and delivery
type Fulfillment struct {
	Status         string     `json:"status" gorm:"type:varchar(20)"`
	TrackingNumber string     `json:"tracking_number" gorm:"type:varchar(255)"`
	Carrier        string     `json:"carrier" gorm:"type:varchar(100)"`
	ShippedAt      *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
}

// BankDetails identifies the destination of a refund
type BankDetails struct {
	AccountHolderName string `json:"account_holder_name" gorm:"type:varchar(255)"`
	BankName          string `json:"bank_name" gorm:"type:varchar(255)"`
	AccountNumber     string `json:"account_number" gorm:"type:varchar(64)"`
	IFSCCode          string `json:"ifsc_code" gorm:"type:varchar(32)"`
	UPIID             string `json:"upi_id,omitempty" gorm:"type:varchar(128)"`
}

// Complete reports whether every required bank field is present.
func (b BankDetails) Complete() bool {
	return b.AccountHolderName != "" && b.BankName != "" && b.AccountNumber != "" && b.IFSCCode != ""
}

// Refund is populated once an order is refunded. RefundedAt is nil until then.
type Refund struct {
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(12,2)"`
	Reason        string          `json:"reason" gorm:"type:text"`
	TransactionID string          `json:"transaction_id" gorm:"type:varchar(255)"`
	RefundedAt    *time.Time      `json:"refunded_at,omitempty"`
	BankDetails   BankDetails     `json:"bank_details" gorm:"embedded;embeddedPrefix:bank_"`
}

// OrderItem is an immutable line of an order
type OrderItem struct {
	ID        uint            `json:"id" gorm:"primarykey"`
	OrderID   uint            `json:"order_id" gorm:"index;not null"`
	ProductID uint            `json:"product_id" gorm:"index;not null"`
	Name      string          `json:"name" gorm:"type:varchar(255)"`
	SKU       string          `json:"sku" gorm:"type:varchar(100)"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Quantity  int             `json:"quantity" gorm:"not null"`
}

// LineTotal returns Price * Quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a customer purchase within a store
type Order struct {
	ID              uint              `json:"id" gorm:"primarykey"`
	StoreID         uint              `json:"store_id" gorm:"index;not null"`
	CustomerID      uint              `json:"customer_id" gorm:"index"`
	OrderNumber     string            `json:"order_number" gorm:"type:varchar(64);not null;uniqueIndex"`
	CustomerName    string            `json:"customer_name" gorm:"type:varchar(255)"`
	CustomerEmail   string            `json:"customer_email" gorm:"type:varchar(255)"`
	CustomerPhone   string            `json:"customer_phone" gorm:"type:varchar(50)"`
	Status          OrderStatus       `json:"status" gorm:"type:varchar(32);not null;index"`
	Items           []OrderItem       `json:"items" gorm:"foreignKey:OrderID"`
	Pricing         Pricing           `json:"pricing" gorm:"embedded;embeddedPrefix:pricing_"`
	Payment         Payment           `json:"payment" gorm:"embedded;embeddedPrefix:payment_"`
	Fulfillment     Fulfillment       `json:"fulfillment" gorm:"embedded;embeddedPrefix:fulfillment_"`
	Refund          Refund            `json:"refund" gorm:"embedded;embeddedPrefix:refund_"`
	ShippingAddress datatypes.JSONMap `json:"shipping_address,omitempty"`
	BillingAddress  datatypes.JSONMap `json:"billing_address,omitempty"`
	Notes           string            `json:"notes" gorm:"type:text"`
	InternalNotes   string            `json:"internal_notes" gorm:"type:text"`
	StockRestored   bool              `json:"stock_restored"`
	CreatedAt       time.Time         `json:"created_at" gorm:"index"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// AppendInternalNote adds a line to the internal notes.
func (o *Order) AppendInternalNote(note string) {
	if o.InternalNotes == "" {
		o.InternalNotes = note
		return
	}
	o.InternalNotes += "\n" + note
}
