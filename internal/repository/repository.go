package repository

import (
	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// updateScoped writes every column of value within the tenant scope.
// Associations and created_at are never touched.
func updateScoped(db *gorm.DB, scope tenant.Scope, value interface{}, notFound string) error {
	res := db.Model(value).
		Scopes(storeScope(scope)).
		Select("*").
		Omit("CreatedAt", clause.Associations).
		Updates(value)
	if res.Error != nil {
		return translate(res.Error, notFound)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("%s", notFound)
	}
	return nil
}

// deleteScoped removes the row with id within the tenant scope.
func deleteScoped(db *gorm.DB, scope tenant.Scope, value interface{}, id uint, notFound string) error {
	res := db.Scopes(storeScope(scope)).Where("id = ?", id).Delete(value)
	if res.Error != nil {
		return translate(res.Error, notFound)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("%s", notFound)
	}
	return nil
}
