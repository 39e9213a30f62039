package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/repository"
	"github.com/Shalinisinha22/ewa-back/prometheus"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// StoreCache drops cached store lookups
type StoreCache interface {
	Invalidate(ctx context.Context, storeID uint)
}

// StoreNotifier is told about newly created stores
type StoreNotifier interface {
	StoreCreated(ctx context.Context, store *model.Store, admin *model.Admin)
}

// CreateStoreInput provisions a store and its first admin
type CreateStoreInput struct {
	Name           string            `json:"name"`
	Slug           string            `json:"slug"`
	Description    string            `json:"description"`
	ContactEmail   string            `json:"contact_email"`
	Phone          string            `json:"phone"`
	AdminName      string            `json:"admin_name"`
	AdminEmail     string            `json:"admin_email"`
	AdminPassword  string            `json:"admin_password"`
	CommissionRate *decimal.Decimal  `json:"commission_rate"`
	Theme          datatypes.JSONMap `json:"theme"`
}

// UpdateStoreInput carries the store fields to overwrite. Nil fields are kept.
type UpdateStoreInput struct {
	Name           *string            `json:"name"`
	Slug           *string            `json:"slug"`
	Description    *string            `json:"description"`
	ContactEmail   *string            `json:"contact_email"`
	Phone          *string            `json:"phone"`
	Currency       *string            `json:"currency"`
	Timezone       *string            `json:"timezone"`
	CommissionRate *decimal.Decimal   `json:"commission_rate"`
	Theme          *datatypes.JSONMap `json:"theme"`
	AdminName      *string            `json:"admin_name"`
	AdminEmail     *string            `json:"admin_email"`
	AdminPassword  *string            `json:"admin_password"`
}

// StoreWithAdmin is a store together with its primary admin
type StoreWithAdmin struct {
	Store *model.Store `json:"store"`
	Admin *model.Admin `json:"admin,omitempty"`
}

// PasswordReset is the outcome of resetting an admin password
type PasswordReset struct {
	Admin       *model.Admin `json:"admin"`
	NewPassword string       `json:"new_password"`
}

// StoreService manages the tenant lifecycle
type StoreService struct {
	stores   *repository.StoreRepository
	admins   *repository.AdminRepository
	cache    StoreCache
	notifier StoreNotifier
	log      *zap.Logger
}

// NewStoreService creates a store service
func NewStoreService(stores *repository.StoreRepository, admins *repository.AdminRepository, cache StoreCache, notifier StoreNotifier, log *zap.Logger) *StoreService {
	return &StoreService{stores: stores, admins: admins, cache: cache, notifier: notifier, log: log}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validCommission(rate decimal.Decimal) bool {
	return !rate.IsNegative() && !rate.GreaterThan(hundred)
}

// Create provisions a pending store and an active admin holding every
// permission.
func (s *StoreService) Create(ctx context.Context, in CreateStoreInput) (*StoreWithAdmin, error) {
	name := strings.TrimSpace(in.Name)
	slug := strings.ToLower(strings.TrimSpace(in.Slug))
	email := normalizeEmail(in.AdminEmail)

	switch {
	case name == "" || slug == "":
		return nil, apperror.BadRequest("name and slug are required")
	case !slugPattern.MatchString(slug):
		return nil, apperror.BadRequest("slug may contain only lowercase letters, digits and hyphens")
	case strings.TrimSpace(in.AdminName) == "" || email == "":
		return nil, apperror.BadRequest("admin name and email are required")
	case len(in.AdminPassword) < minPasswordLength:
		return nil, apperror.BadRequest("admin password must be at least %d characters", minPasswordLength)
	}

	if err := s.ensureUnique(ctx, name, slug, 0); err != nil {
		return nil, err
	}
	if taken, err := s.admins.EmailTaken(ctx, email); err != nil {
		return nil, err
	} else if taken {
		return nil, apperror.Conflict("admin with this email already exists")
	}

	settings := model.DefaultStoreSettings()
	if in.CommissionRate != nil {
		if !validCommission(*in.CommissionRate) {
			return nil, apperror.BadRequest("commission rate must be between 0 and 100")
		}
		settings.CommissionRate = *in.CommissionRate
	}
	settings.Theme = in.Theme

	hash, err := HashPassword(in.AdminPassword)
	if err != nil {
		return nil, err
	}

	store := &model.Store{
		Name:         name,
		Slug:         slug,
		Description:  in.Description,
		ContactEmail: normalizeEmail(in.ContactEmail),
		Phone:        in.Phone,
		Status:       model.StoreStatusPending,
		Settings:     settings,
	}
	admin := &model.Admin{
		Name:         strings.TrimSpace(in.AdminName),
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		Status:       model.AdminStatusActive,
		Permissions:  append(model.Permissions(nil), model.AllPermissions...),
	}
	if err := s.stores.CreateWithAdmin(ctx, store, admin); err != nil {
		return nil, err
	}

	prometheus.RecordStoreOperation("create")
	s.log.Info("Store created",
		zap.Uint("store_id", store.ID),
		zap.String("slug", store.Slug),
		zap.String("admin_email", admin.Email))

	if s.notifier != nil {
		s.notifier.StoreCreated(ctx, store, admin)
	}
	return &StoreWithAdmin{Store: store, Admin: admin}, nil
}

func (s *StoreService) ensureUnique(ctx context.Context, name, slug string, excludeID uint) error {
	if taken, err := s.stores.NameTaken(ctx, name, excludeID); err != nil {
		return err
	} else if taken {
		return apperror.Conflict("store with this name already exists")
	}
	if taken, err := s.stores.SlugTaken(ctx, slug, excludeID); err != nil {
		return err
	} else if taken {
		return apperror.Conflict("store with this slug already exists")
	}
	return nil
}

// Get loads a store with its primary admin
func (s *StoreService) Get(ctx context.Context, id uint) (*StoreWithAdmin, error) {
	store, err := s.stores.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withAdmin(ctx, store)
}

// GetPublic loads an active store by name or slug
func (s *StoreService) GetPublic(ctx context.Context, identifier string) (*model.Store, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, apperror.BadRequest("store identifier is required")
	}
	return s.stores.FindActiveByIdentifier(ctx, identifier)
}

func (s *StoreService) withAdmin(ctx context.Context, store *model.Store) (*StoreWithAdmin, error) {
	admin, err := s.admins.FindPrimaryForStore(ctx, store.ID)
	if err != nil && !apperror.Is(err, apperror.KindNotFound) {
		return nil, err
	}
	return &StoreWithAdmin{Store: store, Admin: admin}, nil
}

// List returns one page of stores
func (s *StoreService) List(ctx context.Context, f repository.StoreFilter) ([]model.Store, repository.Page, error) {
	return s.stores.List(ctx, f)
}

// Update merges the provided fields into a store and its primary admin
func (s *StoreService) Update(ctx context.Context, id uint, in UpdateStoreInput) (*StoreWithAdmin, error) {
	store, err := s.stores.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name, slug := store.Name, store.Slug
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
	}
	if in.Slug != nil {
		slug = strings.ToLower(strings.TrimSpace(*in.Slug))
	}
	if name == "" || slug == "" {
		return nil, apperror.BadRequest("name and slug cannot be empty")
	}
	if !slugPattern.MatchString(slug) {
		return nil, apperror.BadRequest("slug may contain only lowercase letters, digits and hyphens")
	}
	if err := s.ensureUnique(ctx, name, slug, store.ID); err != nil {
		return nil, err
	}
	store.Name, store.Slug = name, slug

	if in.Description != nil {
		store.Description = *in.Description
	}
	if in.ContactEmail != nil {
		store.ContactEmail = normalizeEmail(*in.ContactEmail)
	}
	if in.Phone != nil {
		store.Phone = *in.Phone
	}
	if in.Currency != nil {
		store.Settings.Currency = strings.ToUpper(strings.TrimSpace(*in.Currency))
	}
	if in.Timezone != nil {
		store.Settings.Timezone = *in.Timezone
	}
	if in.CommissionRate != nil {
		if !validCommission(*in.CommissionRate) {
			return nil, apperror.BadRequest("commission rate must be between 0 and 100")
		}
		store.Settings.CommissionRate = *in.CommissionRate
	}
	if in.Theme != nil {
		store.Settings.Theme = *in.Theme
	}

	admin, err := s.updatePrimaryAdmin(ctx, store.ID, in)
	if err != nil {
		return nil, err
	}
	if err := s.stores.Update(ctx, store); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, store.ID)
	prometheus.RecordStoreOperation("update")
	s.log.Info("Store updated", zap.Uint("store_id", store.ID))
	return &StoreWithAdmin{Store: store, Admin: admin}, nil
}

func (s *StoreService) updatePrimaryAdmin(ctx context.Context, storeID uint, in UpdateStoreInput) (*model.Admin, error) {
	admin, err := s.admins.FindPrimaryForStore(ctx, storeID)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) && in.AdminName == nil && in.AdminEmail == nil && in.AdminPassword == nil {
			return nil, nil
		}
		return nil, err
	}

	profileChanged := false
	if in.AdminName != nil && strings.TrimSpace(*in.AdminName) != "" {
		admin.Name = strings.TrimSpace(*in.AdminName)
		profileChanged = true
	}
	if in.AdminEmail != nil {
		email := normalizeEmail(*in.AdminEmail)
		if email == "" {
			return nil, apperror.BadRequest("admin email cannot be empty")
		}
		if email != admin.Email {
			if taken, err := s.admins.EmailTaken(ctx, email); err != nil {
				return nil, err
			} else if taken {
				return nil, apperror.Conflict("admin with this email already exists")
			}
			admin.Email = email
			profileChanged = true
		}
	}
	if profileChanged {
		if err := s.admins.UpdateProfile(ctx, admin); err != nil {
			return nil, err
		}
	}

	if in.AdminPassword != nil && *in.AdminPassword != "" {
		if len(*in.AdminPassword) < minPasswordLength {
			return nil, apperror.BadRequest("admin password must be at least %d characters", minPasswordLength)
		}
		hash, err := HashPassword(*in.AdminPassword)
		if err != nil {
			return nil, err
		}
		if err := s.admins.UpdatePassword(ctx, admin.ID, hash); err != nil {
			return nil, err
		}
	}
	return admin, nil
}

// SetStatus moves a store between pending, active and disabled
func (s *StoreService) SetStatus(ctx context.Context, id uint, status model.StoreStatus) (*StoreWithAdmin, error) {
	if !status.Valid() {
		return nil, apperror.BadRequest("invalid status, must be one of: active, pending, disabled")
	}
	store, err := s.stores.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	store.Status = status
	if err := s.stores.Update(ctx, store); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, store.ID)
	prometheus.RecordStoreOperation("status")
	s.log.Info("Store status updated", zap.Uint("store_id", store.ID), zap.String("status", string(status)))
	return s.withAdmin(ctx, store)
}

// Delete removes a store and its admins
func (s *StoreService) Delete(ctx context.Context, id uint) error {
	if err := s.stores.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, id)
	prometheus.RecordStoreOperation("delete")
	s.log.Info("Store deleted", zap.Uint("store_id", id))
	return nil
}

// ResetAdminPassword generates a new password for an admin of the store
func (s *StoreService) ResetAdminPassword(ctx context.Context, id uint, adminEmail string) (*PasswordReset, error) {
	if _, err := s.stores.FindByID(ctx, id); err != nil {
		return nil, err
	}
	admin, err := s.admins.FindByEmail(ctx, normalizeEmail(adminEmail))
	if err != nil {
		return nil, apperror.NotFound("admin not found for this store")
	}
	if admin.StoreID == nil || *admin.StoreID != id {
		return nil, apperror.NotFound("admin not found for this store")
	}

	password := strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	if err := s.admins.UpdatePassword(ctx, admin.ID, hash); err != nil {
		return nil, err
	}

	prometheus.RecordStoreOperation("reset_password")
	s.log.Info("Admin password reset", zap.Uint("store_id", id), zap.Uint("admin_id", admin.ID))
	return &PasswordReset{Admin: admin, NewPassword: password}, nil
}
