package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/repository"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"github.com/Shalinisinha22/ewa-back/pkg/jwtutil"
	"github.com/Shalinisinha22/ewa-back/prometheus"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

var errInvalidCredentials = apperror.Unauthorized("invalid email or password")

// HashPassword hashes a password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperror.Internal(err, "failed to hash password")
	}
	return string(hash), nil
}

func checkPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return errInvalidCredentials
	}
	if err != nil {
		return apperror.Internal(err, "failed to verify password")
	}
	return nil
}

// AdminSession is a logged-in admin
type AdminSession struct {
	Token string       `json:"token"`
	Admin *model.Admin `json:"admin"`
}

// CustomerSession is a logged-in customer
type CustomerSession struct {
	Token    string          `json:"token"`
	Customer *model.Customer `json:"customer"`
}

// SignupInput registers a customer
type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// ProfileInput carries the profile fields to overwrite
type ProfileInput struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// BankDetailInput stores a refund destination for a customer
type BankDetailInput struct {
	model.BankDetails
	IsDefault bool `json:"is_default"`
}

// AuthService authenticates admins and customers and issues their tokens
type AuthService struct {
	stores    *repository.StoreRepository
	admins    *repository.AdminRepository
	customers *repository.CustomerRepository
	tokens    *jwtutil.JWTUtil
	log       *zap.Logger
	now       func() time.Time
}

// NewAuthService creates an auth service
func NewAuthService(stores *repository.StoreRepository, admins *repository.AdminRepository, customers *repository.CustomerRepository, tokens *jwtutil.JWTUtil, log *zap.Logger) *AuthService {
	return &AuthService{stores: stores, admins: admins, customers: customers, tokens: tokens, log: log, now: time.Now}
}

// requireOpenStore rejects sign-ups and logins against stores that do not
// exist or are not active. An explicit store id reaches here unverified.
func (s *AuthService) requireOpenStore(ctx context.Context, scope tenant.Scope) error {
	store, err := s.stores.FindByID(ctx, scope.StoreID)
	if err != nil {
		return err
	}
	if store.Status != model.StoreStatusActive {
		s.log.Warn("Customer auth against inactive store",
			zap.Uint("store_id", store.ID),
			zap.String("status", string(store.Status)))
		return apperror.NotFound("store not found")
	}
	return nil
}

// AdminLogin checks an admin's credentials and issues a token
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*AdminSession, error) {
	admin, err := s.admins.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			prometheus.RecordAuthOperation("admin_login_failed")
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if err := checkPassword(admin.PasswordHash, password); err != nil {
		prometheus.RecordAuthOperation("admin_login_failed")
		return nil, err
	}
	if admin.Status != model.AdminStatusActive {
		prometheus.RecordAuthOperation("admin_login_failed")
		return nil, apperror.Unauthorized("account is %s", admin.Status)
	}

	now := s.now()
	admin.LastLoginAt = &now
	if err := s.admins.TouchLogin(ctx, admin); err != nil {
		s.log.Warn("Failed to record admin login", zap.Uint("admin_id", admin.ID), zap.Error(err))
	}

	token, err := s.tokens.GenerateAdminToken(admin.ID, admin.Email, admin.StoreID, string(admin.Role))
	if err != nil {
		return nil, apperror.Internal(err, "failed to generate token")
	}
	prometheus.RecordAuthOperation("admin_login")
	s.log.Info("Admin logged in", zap.Uint("admin_id", admin.ID), zap.String("role", string(admin.Role)))
	return &AdminSession{Token: token, Admin: admin}, nil
}

// CustomerSignup registers an active customer in the scoped store
func (s *AuthService) CustomerSignup(ctx context.Context, scope tenant.Scope, in SignupInput) (*CustomerSession, error) {
	email := normalizeEmail(in.Email)
	switch {
	case strings.TrimSpace(in.Name) == "" || email == "":
		return nil, apperror.BadRequest("name and email are required")
	case !strings.Contains(email, "@"):
		return nil, apperror.BadRequest("invalid email address")
	case len(in.Password) < minPasswordLength:
		return nil, apperror.BadRequest("password must be at least %d characters", minPasswordLength)
	}

	if err := s.requireOpenStore(ctx, scope); err != nil {
		return nil, err
	}

	if _, err := s.customers.FindByEmail(ctx, scope, email); err == nil {
		return nil, apperror.Conflict("customer with this email already exists")
	} else if !apperror.Is(err, apperror.KindNotFound) {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	customer := &model.Customer{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Status:       model.CustomerStatusActive,
	}
	if err := s.customers.Create(ctx, scope, customer); err != nil {
		return nil, err
	}

	prometheus.RecordAuthOperation("customer_signup")
	s.log.Info("Customer registered", zap.Uint("store_id", scope.StoreID), zap.Uint("customer_id", customer.ID))
	return s.customerSession(customer)
}

// CustomerLogin checks a customer's credentials within the scoped store
func (s *AuthService) CustomerLogin(ctx context.Context, scope tenant.Scope, email, password string) (*CustomerSession, error) {
	if err := s.requireOpenStore(ctx, scope); err != nil {
		return nil, err
	}

	customer, err := s.customers.FindByEmail(ctx, scope, normalizeEmail(email))
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			prometheus.RecordAuthOperation("customer_login_failed")
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if err := checkPassword(customer.PasswordHash, password); err != nil {
		prometheus.RecordAuthOperation("customer_login_failed")
		return nil, err
	}
	if customer.IsBlocked() {
		prometheus.RecordAuthOperation("customer_login_failed")
		return nil, apperror.Unauthorized("account is blocked")
	}

	prometheus.RecordAuthOperation("customer_login")
	return s.customerSession(customer)
}

func (s *AuthService) customerSession(customer *model.Customer) (*CustomerSession, error) {
	token, err := s.tokens.GenerateCustomerToken(customer.ID, customer.Email, customer.StoreID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to generate token")
	}
	return &CustomerSession{Token: token, Customer: customer}, nil
}

// Profile loads a customer with bank details
func (s *AuthService) Profile(ctx context.Context, scope tenant.Scope, customerID uint) (*model.Customer, error) {
	return s.customers.Find(ctx, scope, customerID)
}

// UpdateProfile overwrites the provided profile fields
func (s *AuthService) UpdateProfile(ctx context.Context, scope tenant.Scope, customerID uint, in ProfileInput) (*model.Customer, error) {
	customer, err := s.customers.Find(ctx, scope, customerID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperror.BadRequest("name cannot be empty")
		}
		customer.Name = name
	}
	if in.Phone != nil {
		customer.Phone = *in.Phone
	}
	if err := s.customers.Update(ctx, scope, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// ChangePassword replaces a customer's password after checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, scope tenant.Scope, customerID uint, current, next string) error {
	if len(next) < minPasswordLength {
		return apperror.BadRequest("password must be at least %d characters", minPasswordLength)
	}
	customer, err := s.customers.Find(ctx, scope, customerID)
	if err != nil {
		return err
	}
	if err := checkPassword(customer.PasswordHash, current); err != nil {
		if apperror.Is(err, apperror.KindUnauthorized) {
			return apperror.BadRequest("current password is incorrect")
		}
		return err
	}

	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	customer.PasswordHash = hash
	if err := s.customers.Update(ctx, scope, customer); err != nil {
		return err
	}
	prometheus.RecordAuthOperation("customer_password_change")
	return nil
}

// AddBankDetail stores a refund destination for a customer
func (s *AuthService) AddBankDetail(ctx context.Context, scope tenant.Scope, customerID uint, in BankDetailInput) (*model.CustomerBankDetail, error) {
	if !in.Complete() {
		return nil, apperror.BadRequest("account holder name, bank name, account number and ifsc code are required")
	}
	detail := &model.CustomerBankDetail{
		CustomerID:        customerID,
		AccountHolderName: in.AccountHolderName,
		BankName:          in.BankName,
		AccountNumber:     in.AccountNumber,
		IFSCCode:          strings.ToUpper(in.IFSCCode),
		UPIID:             in.UPIID,
		IsDefault:         in.IsDefault,
	}
	if err := s.customers.AddBankDetail(ctx, scope, detail); err != nil {
		return nil, err
	}
	return detail, nil
}
