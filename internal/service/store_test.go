package service

import (
	"context"
	"testing"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/dbtest"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingCache struct {
	invalidated []uint
}

func (c *recordingCache) Invalidate(_ context.Context, storeID uint) {
	c.invalidated = append(c.invalidated, storeID)
}

type recordingStoreNotifier struct {
	created []string
}

func (n *recordingStoreNotifier) StoreCreated(_ context.Context, store *model.Store, admin *model.Admin) {
	n.created = append(n.created, store.Slug+"/"+admin.Email)
}

type storeFixture struct {
	ctx      context.Context
	admins   *repository.AdminRepository
	cache    *recordingCache
	notifier *recordingStoreNotifier
	svc      *StoreService
}

func newStoreFixture(t *testing.T) *storeFixture {
	t.Helper()
	db := dbtest.Open(t)
	f := &storeFixture{
		ctx:      context.Background(),
		admins:   repository.NewAdminRepository(db),
		cache:    &recordingCache{},
		notifier: &recordingStoreNotifier{},
	}
	f.svc = NewStoreService(repository.NewStoreRepository(db), f.admins, f.cache, f.notifier, zap.NewNop())
	return f
}

func acmeInput() CreateStoreInput {
	return CreateStoreInput{
		Name:          "Acme",
		Slug:          "acme",
		AdminName:     "Owner",
		AdminEmail:    "Owner@Acme.test",
		AdminPassword: "secret1",
	}
}

func TestCreateStore(t *testing.T) {
	f := newStoreFixture(t)

	created, err := f.svc.Create(f.ctx, acmeInput())
	require.NoError(t, err)
	assert.Equal(t, model.StoreStatusPending, created.Store.Status)
	assert.Equal(t, "INR", created.Store.Settings.Currency)
	assert.Equal(t, "Asia/Kolkata", created.Store.Settings.Timezone)
	assert.True(t, created.Store.Settings.CommissionRate.Equal(dec(8)))

	assert.Equal(t, "owner@acme.test", created.Admin.Email)
	require.NotNil(t, created.Admin.StoreID)
	assert.Equal(t, created.Store.ID, *created.Admin.StoreID)
	assert.Equal(t, model.AdminStatusActive, created.Admin.Status)
	for _, p := range model.AllPermissions {
		assert.True(t, created.Admin.Can(p), p)
	}
	assert.NoError(t, checkPassword(created.Admin.PasswordHash, "secret1"))
	assert.Equal(t, []string{"acme/owner@acme.test"}, f.notifier.created)
}

func TestCreateStoreConflicts(t *testing.T) {
	f := newStoreFixture(t)
	_, err := f.svc.Create(f.ctx, acmeInput())
	require.NoError(t, err)

	in := acmeInput()
	in.Name = "ACME"
	in.Slug = "acme-two"
	in.AdminEmail = "other@acme.test"
	_, err = f.svc.Create(f.ctx, in)
	assert.True(t, apperror.Is(err, apperror.KindConflict), "name is unique ignoring case")

	in = acmeInput()
	in.Name = "Acme Two"
	in.AdminEmail = "other@acme.test"
	_, err = f.svc.Create(f.ctx, in)
	assert.True(t, apperror.Is(err, apperror.KindConflict), "slug")

	in = acmeInput()
	in.Name = "Acme Two"
	in.Slug = "acme-two"
	_, err = f.svc.Create(f.ctx, in)
	assert.True(t, apperror.Is(err, apperror.KindConflict), "admin email")
}

func TestCreateStoreValidation(t *testing.T) {
	f := newStoreFixture(t)

	in := acmeInput()
	in.Slug = "Acme Shop"
	_, err := f.svc.Create(f.ctx, in)
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))

	in = acmeInput()
	in.AdminPassword = "123"
	_, err = f.svc.Create(f.ctx, in)
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))

	in = acmeInput()
	in.CommissionRate = decPtr(101)
	_, err = f.svc.Create(f.ctx, in)
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))
}

func TestUpdateStoreInvalidatesCache(t *testing.T) {
	f := newStoreFixture(t)
	created, err := f.svc.Create(f.ctx, acmeInput())
	require.NoError(t, err)
	id := created.Store.ID

	name := "Acme Goods"
	currency := "usd"
	adminName := "New Owner"
	updated, err := f.svc.Update(f.ctx, id, UpdateStoreInput{Name: &name, Currency: &currency, AdminName: &adminName})
	require.NoError(t, err)
	assert.Equal(t, "Acme Goods", updated.Store.Name)
	assert.Equal(t, "acme", updated.Store.Slug)
	assert.Equal(t, "USD", updated.Store.Settings.Currency)
	assert.Equal(t, "New Owner", updated.Admin.Name)

	_, err = f.svc.SetStatus(f.ctx, id, model.StoreStatusActive)
	require.NoError(t, err)
	_, err = f.svc.SetStatus(f.ctx, id, "archived")
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))

	public, err := f.svc.GetPublic(f.ctx, "acme goods")
	require.NoError(t, err)
	assert.Equal(t, id, public.ID)

	require.NoError(t, f.svc.Delete(f.ctx, id))
	assert.Equal(t, []uint{id, id, id}, f.cache.invalidated)

	_, err = f.admins.FindByEmail(f.ctx, "owner@acme.test")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestResetAdminPassword(t *testing.T) {
	f := newStoreFixture(t)
	created, err := f.svc.Create(f.ctx, acmeInput())
	require.NoError(t, err)

	reset, err := f.svc.ResetAdminPassword(f.ctx, created.Store.ID, "OWNER@acme.test")
	require.NoError(t, err)
	assert.Len(t, reset.NewPassword, 16)

	admin, err := f.admins.FindByEmail(f.ctx, "owner@acme.test")
	require.NoError(t, err)
	assert.NoError(t, checkPassword(admin.PasswordHash, reset.NewPassword))

	in := acmeInput()
	in.Name, in.Slug, in.AdminEmail = "Other", "other", "boss@other.test"
	other, err := f.svc.Create(f.ctx, in)
	require.NoError(t, err)

	_, err = f.svc.ResetAdminPassword(f.ctx, other.Store.ID, "owner@acme.test")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
