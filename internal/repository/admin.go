package repository

import (
	"context"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"gorm.io/gorm"
)

const adminNotFound = "admin not found"

// AdminRepository persists admin accounts
type AdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates an admin repository
func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// FindByID loads an admin
func (r *AdminRepository) FindByID(ctx context.Context, id uint) (*model.Admin, error) {
	var admin model.Admin
	if err := r.db.WithContext(ctx).First(&admin, id).Error; err != nil {
		return nil, translate(err, adminNotFound)
	}
	return &admin, nil
}

// FindByEmail loads an admin by email ignoring case
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var admin model.Admin
	if err := NewQuery().EqFold("email", email).Where(r.db.WithContext(ctx)).First(&admin).Error; err != nil {
		return nil, translate(err, adminNotFound)
	}
	return &admin, nil
}

// EmailTaken reports whether any admin uses email
func (r *AdminRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	err := NewQuery().EqFold("email", email).Where(r.db.WithContext(ctx).Model(&model.Admin{})).Count(&count).Error
	if err != nil {
		return false, translate(err, adminNotFound)
	}
	return count > 0, nil
}

// FindPrimaryForStore returns the first admin provisioned for a store
func (r *AdminRepository) FindPrimaryForStore(ctx context.Context, storeID uint) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("id ASC").
		First(&admin).Error
	if err != nil {
		return nil, translate(err, adminNotFound)
	}
	return &admin, nil
}

// Create inserts an admin
func (r *AdminRepository) Create(ctx context.Context, admin *model.Admin) error {
	return translate(r.db.WithContext(ctx).Create(admin).Error, adminNotFound)
}

// UpdatePassword replaces the password hash
func (r *AdminRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	res := r.db.WithContext(ctx).Model(&model.Admin{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return translate(res.Error, adminNotFound)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(adminNotFound)
	}
	return nil
}

// TouchLogin records a successful login
func (r *AdminRepository) TouchLogin(ctx context.Context, admin *model.Admin) error {
	return translate(r.db.WithContext(ctx).Model(admin).UpdateColumn("last_login_at", admin.LastLoginAt).Error, adminNotFound)
}

// UpdateProfile writes the admin's name and email
func (r *AdminRepository) UpdateProfile(ctx context.Context, admin *model.Admin) error {
	res := r.db.WithContext(ctx).Model(admin).Select("name", "email").Updates(admin)
	if res.Error != nil {
		return translate(res.Error, adminNotFound)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(adminNotFound)
	}
	return nil
}
