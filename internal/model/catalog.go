package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductStatus is the publication state of a product.
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusArchived ProductStatus = "archived"
)

// Valid reports whether s is a known product status.
func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusActive, ProductStatusDraft, ProductStatusArchived:
		return true
	}
	return false
}

// Product is a sellable item with its stock ledger entry
type Product struct {
	ID            uint            `json:"id" gorm:"primarykey"`
	StoreID       uint            `json:"store_id" gorm:"index;not null"`
	CategoryID    uint            `json:"category_id" gorm:"index"`
	ProductTypeID uint            `json:"product_type_id" gorm:"index"`
	Name          string          `json:"name" gorm:"type:varchar(255);not null"`
	Slug          string          `json:"slug" gorm:"type:varchar(255);index"`
	Description   string          `json:"description" gorm:"type:text"`
	SKU           string          `json:"sku" gorm:"type:varchar(100);index"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	ComparePrice  decimal.Decimal `json:"compare_price" gorm:"type:decimal(12,2)"`
	Status        ProductStatus   `json:"status" gorm:"type:varchar(20);not null;index"`
	Featured      bool            `json:"featured"`
	TrackQuantity bool            `json:"track_quantity"`
	Quantity      int             `json:"quantity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `json:"deleted_at,omitempty" gorm:"index"`
}

// Category groups products within a store
type Category struct {
	ID          uint           `json:"id" gorm:"primarykey"`
	StoreID     uint           `json:"store_id" gorm:"index;not null"`
	ParentID    *uint          `json:"parent_id,omitempty"`
	Name        string         `json:"name" gorm:"type:varchar(100);not null"`
	Slug        string         `json:"slug" gorm:"type:varchar(120);not null"`
	Description string         `json:"description" gorm:"type:text"`
	IsActive    bool           `json:"is_active"`
	SortOrder   int            `json:"sort_order"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// ProductType is a store-defined kind of product. Value is the lowercased
// name and is unique within a store.
type ProductType struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	StoreID   uint      `json:"store_id" gorm:"not null;uniqueIndex:idx_product_type_store_value"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Value     string    `json:"value" gorm:"type:varchar(100);not null;uniqueIndex:idx_product_type_store_value"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
