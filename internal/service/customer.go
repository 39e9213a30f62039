package service

import (
	"context"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/repository"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"go.uber.org/zap"
)

// CustomerService lets store admins browse and block customers
type CustomerService struct {
	repo *repository.CustomerRepository
	log  *zap.Logger
}

// NewCustomerService creates a customer service
func NewCustomerService(repo *repository.CustomerRepository, log *zap.Logger) *CustomerService {
	return &CustomerService{repo: repo, log: log}
}

// List returns one page of the store's customers
func (s *CustomerService) List(ctx context.Context, scope tenant.Scope, f repository.CustomerFilter) ([]model.Customer, repository.Page, error) {
	return s.repo.List(ctx, scope, f)
}

// Get loads a customer with bank details
func (s *CustomerService) Get(ctx context.Context, scope tenant.Scope, id uint) (*model.Customer, error) {
	return s.repo.Find(ctx, scope, id)
}

// SetStatus blocks or reactivates a customer
func (s *CustomerService) SetStatus(ctx context.Context, scope tenant.Scope, id uint, status model.CustomerStatus) (*model.Customer, error) {
	if status != model.CustomerStatusActive && status != model.CustomerStatusBlocked {
		return nil, apperror.BadRequest("invalid status, must be one of: active, blocked")
	}
	if err := s.repo.SetStatus(ctx, scope, id, status); err != nil {
		return nil, err
	}
	s.log.Info("Customer status updated",
		zap.Uint("store_id", scope.StoreID),
		zap.Uint("customer_id", id),
		zap.String("status", string(status)))
	return s.repo.Find(ctx, scope, id)
}
