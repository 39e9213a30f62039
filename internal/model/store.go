package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// StoreStatus is the lifecycle state of a store.
type StoreStatus string

const (
	StoreStatusPending  StoreStatus = "pending"
	StoreStatusActive   StoreStatus = "active"
	StoreStatusDisabled StoreStatus = "disabled"
)

// Valid reports whether s is a known store status.
func (s StoreStatus) Valid() bool {
	switch s {
	case StoreStatusPending, StoreStatusActive, StoreStatusDisabled:
		return true
	}
	return false
}

// StoreSettings holds per-store commercial settings
type StoreSettings struct {
	Currency       string            `json:"currency" gorm:"type:varchar(10)"`
	Timezone       string            `json:"timezone" gorm:"type:varchar(64)"`
	CommissionRate decimal.Decimal   `json:"commission_rate" gorm:"type:decimal(5,2)"`
	Theme          datatypes.JSONMap `json:"theme,omitempty"`
}

// Store is the tenant root
type Store struct {
	ID           uint          `json:"id" gorm:"primarykey"`
	Name         string        `json:"name" gorm:"type:varchar(255);not null"`
	Slug         string        `json:"slug" gorm:"type:varchar(255);not null;uniqueIndex"`
	Description  string        `json:"description" gorm:"type:text"`
	ContactEmail string        `json:"contact_email" gorm:"type:varchar(255)"`
	Phone        string        `json:"phone" gorm:"type:varchar(50)"`
	Status       StoreStatus   `json:"status" gorm:"type:varchar(20);not null;index"`
	Settings     StoreSettings `json:"settings" gorm:"embedded;embeddedPrefix:settings_"`
	CreatedAt    time.Time     `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// DefaultStoreSettings returns the settings a new store starts with.
func DefaultStoreSettings() StoreSettings {
	return StoreSettings{
		Currency:       "INR",
		Timezone:       "Asia/Kolkata",
		CommissionRate: decimal.NewFromFloat(8.0),
	}
}
