package model

import "time"

// Role of an admin account
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// AdminStatus is the lifecycle state of an admin account.
type AdminStatus string

const (
	AdminStatusActive   AdminStatus = "active"
	AdminStatusPending  AdminStatus = "pending"
	AdminStatusDisabled AdminStatus = "disabled"
)

// Permission names a resource an admin may manage.
type Permission string

const (
	PermProducts   Permission = "products"
	PermCategories Permission = "categories"
	PermOrders     Permission = "orders"
	PermCustomers  Permission = "customers"
	PermCoupons    Permission = "coupons"
	PermBanners    Permission = "banners"
	PermPages      Permission = "pages"
	PermReports    Permission = "reports"
	PermSettings   Permission = "settings"
)

// AllPermissions lists every permission in display order.
var AllPermissions = []Permission{
	PermProducts, PermCategories, PermOrders, PermCustomers, PermCoupons,
	PermBanners, PermPages, PermReports, PermSettings,
}

// ParsePermission validates a permission name.
func ParsePermission(s string) (Permission, bool) {
	for _, p := range AllPermissions {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// Permissions is a set of granted permissions stored as a JSON array.
type Permissions []Permission

// Has reports whether p is granted.
func (ps Permissions) Has(p Permission) bool {
	for _, granted := range ps {
		if granted == p {
			return true
		}
	}
	return false
}

// Admin is a store operator. StoreID is nil for super admins.
type Admin struct {
	ID           uint        `json:"id" gorm:"primarykey"`
	StoreID      *uint       `json:"store_id,omitempty" gorm:"index"`
	Name         string      `json:"name" gorm:"type:varchar(255);not null"`
	Email        string      `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string      `json:"-" gorm:"type:varchar(255);not null"`
	Role         Role        `json:"role" gorm:"type:varchar(20);not null"`
	Status       AdminStatus `json:"status" gorm:"type:varchar(20);not null"`
	Permissions  Permissions `json:"permissions" gorm:"serializer:json"`
	LastLoginAt  *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// IsSuperAdmin reports whether the admin acts across all stores.
func (a *Admin) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}

// Can reports whether the admin may manage the given resource.
func (a *Admin) Can(p Permission) bool {
	return a.IsSuperAdmin() || a.Permissions.Has(p)
}
