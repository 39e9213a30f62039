package repository

import (
	"context"
	"time"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/prometheus"
	"gorm.io/gorm"
)

const storeNotFound = "store not found"

// StoreFilter narrows a store listing
type StoreFilter struct {
	Status string
	Search string
	Page   int
	Limit  int
}

// StoreRepository persists stores. Stores are the tenant root, so lookups
// here are not tenant scoped.
type StoreRepository struct {
	db *gorm.DB
}

// NewStoreRepository creates a store repository
func NewStoreRepository(db *gorm.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

// FindByID loads a store regardless of status.
func (r *StoreRepository) FindByID(ctx context.Context, id uint) (*model.Store, error) {
	var store model.Store
	if err := r.db.WithContext(ctx).First(&store, id).Error; err != nil {
		return nil, translate(err, storeNotFound)
	}
	return &store, nil
}

// FindActiveByIdentifier matches an active store by exact slug first, then by
// slug or name ignoring case.
func (r *StoreRepository) FindActiveByIdentifier(ctx context.Context, identifier string) (*model.Store, error) {
	defer prometheus.TrackDBOperation("store_find_identifier")(time.Now())

	store, err := r.FindActiveBySlug(ctx, identifier)
	if err == nil || !apperror.Is(err, apperror.KindNotFound) {
		return store, err
	}

	var match model.Store
	err = r.db.WithContext(ctx).
		Where("status = ?", model.StoreStatusActive).
		Where("(LOWER(slug) = LOWER(?) OR LOWER(name) = LOWER(?))", identifier, identifier).
		Order("created_at ASC").
		First(&match).Error
	if err != nil {
		return nil, translate(err, storeNotFound)
	}
	return &match, nil
}

// FindActiveBySlug matches an active store by exact slug.
func (r *StoreRepository) FindActiveBySlug(ctx context.Context, slug string) (*model.Store, error) {
	var store model.Store
	err := r.db.WithContext(ctx).
		Where("status = ? AND slug = ?", model.StoreStatusActive, slug).
		First(&store).Error
	if err != nil {
		return nil, translate(err, storeNotFound)
	}
	return &store, nil
}

// FirstActive returns the oldest active store.
func (r *StoreRepository) FirstActive(ctx context.Context) (*model.Store, error) {
	var store model.Store
	err := r.db.WithContext(ctx).
		Where("status = ?", model.StoreStatusActive).
		Order("created_at ASC").
		Order("id ASC").
		First(&store).Error
	if err != nil {
		return nil, translate(err, storeNotFound)
	}
	return &store, nil
}

// List returns one page of stores
func (r *StoreRepository) List(ctx context.Context, f StoreFilter) ([]model.Store, Page, error) {
	q := NewQuery().
		EqIf("status", f.Status).
		ContainsFold(f.Search, "name", "slug").
		OrderBy("created_at", true).
		Paginate(f.Page, f.Limit)

	var total int64
	if err := q.Where(r.db.WithContext(ctx).Model(&model.Store{})).Count(&total).Error; err != nil {
		return nil, Page{}, translate(err, storeNotFound)
	}

	var stores []model.Store
	if err := q.Apply(r.db.WithContext(ctx)).Find(&stores).Error; err != nil {
		return nil, Page{}, translate(err, storeNotFound)
	}
	return stores, q.pageInfo(total), nil
}

// NameTaken reports whether another store uses name, ignoring case.
func (r *StoreRepository) NameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	return r.exists(ctx, NewQuery().EqFold("name", name), excludeID)
}

// SlugTaken reports whether another store uses slug.
func (r *StoreRepository) SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error) {
	return r.exists(ctx, NewQuery().Eq("slug", slug), excludeID)
}

func (r *StoreRepository) exists(ctx context.Context, q *Query, excludeID uint) (bool, error) {
	db := q.Where(r.db.WithContext(ctx).Model(&model.Store{}))
	if excludeID != 0 {
		db = db.Where("id <> ?", excludeID)
	}
	var count int64
	if err := db.Count(&count).Error; err != nil {
		return false, translate(err, storeNotFound)
	}
	return count > 0, nil
}

// CreateWithAdmin inserts the store and its first admin atomically.
func (r *StoreRepository) CreateWithAdmin(ctx context.Context, store *model.Store, admin *model.Admin) error {
	defer prometheus.TrackDBOperation("store_create")(time.Now())

	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(store).Error; err != nil {
			return err
		}
		admin.StoreID = &store.ID
		return tx.Create(admin).Error
	}), storeNotFound)
}

// Update writes every column of store
func (r *StoreRepository) Update(ctx context.Context, store *model.Store) error {
	res := r.db.WithContext(ctx).Model(store).Select("*").Omit("CreatedAt").Updates(store)
	if res.Error != nil {
		return translate(res.Error, storeNotFound)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(storeNotFound)
	}
	return nil
}

// Delete removes the store and its admins.
func (r *StoreRepository) Delete(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("store_id = ?", id).Delete(&model.Admin{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Store{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}), storeNotFound)
}
