package service

import (
	"testing"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/repository"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"github.com/Shalinisinha22/ewa-back/pkg/jwtutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthService(f *fixture) (*AuthService, *jwtutil.JWTUtil) {
	tokens := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
	return NewAuthService(repository.NewStoreRepository(f.db), repository.NewAdminRepository(f.db), f.customers, tokens, zap.NewNop()), tokens
}

func TestAdminLogin(t *testing.T) {
	f := newFixture(t)
	svc, tokens := newAuthService(f)

	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	storeID := f.store.ID
	admin := &model.Admin{
		StoreID: &storeID, Name: "Owner", Email: "owner@acme.test", PasswordHash: hash,
		Role: model.RoleAdmin, Status: model.AdminStatusActive,
	}
	require.NoError(t, repository.NewAdminRepository(f.db).Create(f.ctx, admin))

	session, err := svc.AdminLogin(f.ctx, " OWNER@acme.test ", "secret1")
	require.NoError(t, err)
	claims, err := tokens.ValidateToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, jwtutil.SubjectAdmin, claims.SubjectType)
	assert.Equal(t, admin.ID, claims.SubjectID)
	require.NotNil(t, claims.StoreID)
	assert.Equal(t, storeID, *claims.StoreID)
	assert.NotNil(t, session.Admin.LastLoginAt)

	_, err = svc.AdminLogin(f.ctx, "owner@acme.test", "wrong")
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
	_, err = svc.AdminLogin(f.ctx, "nobody@acme.test", "secret1")
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))

	require.NoError(t, f.db.Model(admin).Update("status", model.AdminStatusDisabled).Error)
	_, err = svc.AdminLogin(f.ctx, "owner@acme.test", "secret1")
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
}

func TestCustomerSignupAndLogin(t *testing.T) {
	f := newFixture(t)
	svc, tokens := newAuthService(f)

	session, err := svc.CustomerSignup(f.ctx, f.scope, SignupInput{Name: "Jane", Email: "Jane@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", session.Customer.Email)
	assert.Equal(t, f.store.ID, session.Customer.StoreID)

	claims, err := tokens.ValidateToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, jwtutil.SubjectCustomer, claims.SubjectType)

	_, err = svc.CustomerSignup(f.ctx, f.scope, SignupInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	_, err = svc.CustomerSignup(f.ctx, f.scope, SignupInput{Name: "Jane", Email: "jane", Password: "secret1"})
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))

	// the same email may register with another store
	other := seedStore(t, f.db, "Other", "other")
	otherScope := f.scope
	otherScope.StoreID = other.ID
	_, err = svc.CustomerSignup(f.ctx, otherScope, SignupInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.CustomerLogin(f.ctx, f.scope, "jane@example.com", "secret1")
	require.NoError(t, err)
	_, err = svc.CustomerLogin(f.ctx, f.scope, "jane@example.com", "nope")
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))

	require.NoError(t, f.customers.SetStatus(f.ctx, f.scope, session.Customer.ID, model.CustomerStatusBlocked))
	_, err = svc.CustomerLogin(f.ctx, f.scope, "jane@example.com", "secret1")
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
}

func TestCustomerAuthRequiresActiveStore(t *testing.T) {
	f := newFixture(t)
	svc, _ := newAuthService(f)
	input := SignupInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"}

	_, err := svc.CustomerSignup(f.ctx, tenant.For(9999, tenant.SourceStoreID), input)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	closed := seedStore(t, f.db, "Closed", "closed")
	closedScope := tenant.For(closed.ID, tenant.SourceStoreID)
	_, err = svc.CustomerSignup(f.ctx, closedScope, input)
	require.NoError(t, err)

	require.NoError(t, f.db.Model(closed).Update("status", model.StoreStatusDisabled).Error)
	_, err = svc.CustomerSignup(f.ctx, closedScope, SignupInput{Name: "Joe", Email: "joe@example.com", Password: "secret1"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	_, err = svc.CustomerLogin(f.ctx, closedScope, "jane@example.com", "secret1")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	var count int64
	require.NoError(t, f.db.Model(&model.Customer{}).Where("store_id = ?", closed.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCustomerProfileAndPassword(t *testing.T) {
	f := newFixture(t)
	svc, _ := newAuthService(f)
	session, err := svc.CustomerSignup(f.ctx, f.scope, SignupInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)
	id := session.Customer.ID

	phone := "555-0100"
	updated, err := svc.UpdateProfile(f.ctx, f.scope, id, ProfileInput{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Jane", updated.Name)
	assert.Equal(t, phone, updated.Phone)

	err = svc.ChangePassword(f.ctx, f.scope, id, "wrong", "secret2")
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))
	require.NoError(t, svc.ChangePassword(f.ctx, f.scope, id, "secret1", "secret2"))

	_, err = svc.CustomerLogin(f.ctx, f.scope, "jane@example.com", "secret2")
	require.NoError(t, err)

	_, err = svc.AddBankDetail(f.ctx, f.scope, id, BankDetailInput{BankDetails: model.BankDetails{BankName: "Bank"}})
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))

	detail, err := svc.AddBankDetail(f.ctx, f.scope, id, BankDetailInput{
		BankDetails: model.BankDetails{AccountHolderName: "Jane", BankName: "Bank", AccountNumber: "1234", IFSCCode: "sbin0001"},
		IsDefault:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "SBIN0001", detail.IFSCCode)
}
