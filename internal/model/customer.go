package model

import "time"

// CustomerStatus is the lifecycle state of a customer account.
type CustomerStatus string

const (
	CustomerStatusActive  CustomerStatus = "active"
	CustomerStatusBlocked CustomerStatus = "blocked"
)

// Customer belongs to exactly one store
type Customer struct {
	ID           uint                 `json:"id" gorm:"primarykey"`
	StoreID      uint                 `json:"store_id" gorm:"not null;uniqueIndex:idx_customer_store_email"`
	Name         string               `json:"name" gorm:"type:varchar(255);not null"`
	Email        string               `json:"email" gorm:"type:varchar(255);not null;uniqueIndex:idx_customer_store_email"`
	Phone        string               `json:"phone" gorm:"type:varchar(50)"`
	PasswordHash string               `json:"-" gorm:"type:varchar(255)"`
	Status       CustomerStatus       `json:"status" gorm:"type:varchar(20);not null"`
	BankDetails  []CustomerBankDetail `json:"bank_details,omitempty" gorm:"foreignKey:CustomerID"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// IsBlocked reports whether the customer is barred from authenticating.
func (c *Customer) IsBlocked() bool {
	return c.Status == CustomerStatusBlocked
}

// CustomerBankDetail is a stored refund destination
type CustomerBankDetail struct {
	ID                uint      `json:"id" gorm:"primarykey"`
	CustomerID        uint      `json:"customer_id" gorm:"index;not null"`
	AccountHolderName string    `json:"account_holder_name" gorm:"type:varchar(255)"`
	BankName          string    `json:"bank_name" gorm:"type:varchar(255)"`
	AccountNumber     string    `json:"account_number" gorm:"type:varchar(64)"`
	IFSCCode          string    `json:"ifsc_code" gorm:"type:varchar(32)"`
	UPIID             string    `json:"upi_id" gorm:"type:varchar(128)"`
	IsDefault         bool      `json:"is_default"`
	CreatedAt         time.Time `json:"created_at"`
}

// WishlistItem is a product a customer saved for later. A product appears
// at most once per customer.
type WishlistItem struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	StoreID    uint      `json:"store_id" gorm:"not null;uniqueIndex:idx_wishlist_item"`
	CustomerID uint      `json:"customer_id" gorm:"not null;uniqueIndex:idx_wishlist_item"`
	ProductID  uint      `json:"product_id" gorm:"not null;uniqueIndex:idx_wishlist_item"`
	Product    *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	AddedAt    time.Time `json:"added_at" gorm:"index"`
}
