package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/repository"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"go.uber.org/zap"
)

const (
	invoiceDueDays       = 30
	invoiceNumberRetries = 3
)

// InvoiceService issues invoices from orders
type InvoiceService struct {
	invoices *repository.InvoiceRepository
	orders   *repository.OrderRepository
	log      *zap.Logger
	now      func() time.Time
}

// NewInvoiceService creates an invoice service
func NewInvoiceService(invoices *repository.InvoiceRepository, orders *repository.OrderRepository, log *zap.Logger) *InvoiceService {
	return &InvoiceService{invoices: invoices, orders: orders, log: log, now: time.Now}
}

// InvoiceFromOrder snapshots an order into an unsaved invoice.
func InvoiceFromOrder(order *model.Order, now time.Time) *model.Invoice {
	items := make([]model.InvoiceItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, model.InvoiceItem{
			ProductID:  item.ProductID,
			Name:       item.Name,
			SKU:        item.SKU,
			Price:      item.Price,
			Quantity:   item.Quantity,
			TotalPrice: item.LineTotal(),
		})
	}

	invoice := &model.Invoice{
		OrderID:         order.ID,
		CustomerID:      order.CustomerID,
		Status:          model.InvoiceStatusSent,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		Items:           items,
		Pricing:         order.Pricing,
		PaymentMethod:   order.Payment.Method,
		PaymentStatus:   order.Payment.Status,
		BillingAddress:  order.BillingAddress,
		ShippingAddress: order.ShippingAddress,
		IssuedAt:        now,
		DueDate:         now.AddDate(0, 0, invoiceDueDays),
	}
	if order.Payment.Status == model.PaymentStatusCompleted {
		invoice.Status = model.InvoiceStatusPaid
		invoice.PaidAt = order.Payment.PaidAt
		if invoice.PaidAt == nil {
			invoice.PaidAt = &now
		}
	}
	return invoice
}

// Generate issues the invoice of an order. An order has at most one invoice.
func (s *InvoiceService) Generate(ctx context.Context, scope tenant.Scope, orderID uint) (*model.Invoice, error) {
	order, err := s.orders.Find(ctx, scope, orderID)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, scope, order)
}

// ForCustomerOrder returns the invoice of a customer's order, issuing it on
// first request.
func (s *InvoiceService) ForCustomerOrder(ctx context.Context, scope tenant.Scope, customerID, orderID uint) (*model.Invoice, error) {
	order, err := s.orders.Find(ctx, scope, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, apperror.NotFound("order not found")
	}

	invoice, err := s.invoices.FindByOrder(ctx, scope, order.ID)
	if err == nil {
		return invoice, nil
	}
	if !apperror.Is(err, apperror.KindNotFound) {
		return nil, err
	}

	invoice, err = s.generate(ctx, scope, order)
	if apperror.Is(err, apperror.KindConflict) {
		return s.invoices.FindByOrder(ctx, scope, order.ID)
	}
	return invoice, err
}

func (s *InvoiceService) generate(ctx context.Context, scope tenant.Scope, order *model.Order) (*model.Invoice, error) {
	if _, err := s.invoices.FindByOrder(ctx, scope, order.ID); err == nil {
		return nil, apperror.Conflict("invoice already exists for this order")
	} else if !apperror.Is(err, apperror.KindNotFound) {
		return nil, err
	}

	count, err := s.invoices.Count(ctx, scope)
	if err != nil {
		return nil, err
	}

	now := s.now()
	invoice := InvoiceFromOrder(order, now)
	for attempt := int64(1); ; attempt++ {
		invoice.ID = 0
		invoice.InvoiceNumber = fmt.Sprintf("INV-%s-%04d", now.UTC().Format("20060102"), count+attempt)
		err = s.invoices.Create(ctx, scope, invoice)
		if err == nil {
			break
		}
		if !apperror.Is(err, apperror.KindConflict) || attempt >= invoiceNumberRetries {
			return nil, err
		}
		// the order may have been invoiced concurrently
		if _, findErr := s.invoices.FindByOrder(ctx, scope, order.ID); findErr == nil {
			return nil, apperror.Conflict("invoice already exists for this order")
		}
	}

	s.log.Info("Invoice generated",
		zap.Uint("store_id", scope.StoreID),
		zap.Uint("order_id", order.ID),
		zap.String("invoice_number", invoice.InvoiceNumber))
	return invoice, nil
}

// UpdateStatus changes an invoice's status. Moving to paid stamps paid_at.
func (s *InvoiceService) UpdateStatus(ctx context.Context, scope tenant.Scope, id uint, status model.InvoiceStatus) (*model.Invoice, error) {
	if !status.Valid() {
		return nil, apperror.BadRequest("invalid invoice status %q", status)
	}
	invoice, err := s.invoices.Find(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	invoice.Status = status
	if status == model.InvoiceStatusPaid && invoice.PaidAt == nil {
		now := s.now()
		invoice.PaidAt = &now
	}
	if err := s.invoices.UpdateStatus(ctx, scope, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// List returns one page of invoices
func (s *InvoiceService) List(ctx context.Context, scope tenant.Scope, f repository.InvoiceFilter) ([]model.Invoice, repository.Page, error) {
	return s.invoices.List(ctx, scope, f)
}

// Get loads one invoice
func (s *InvoiceService) Get(ctx context.Context, scope tenant.Scope, id uint) (*model.Invoice, error) {
	return s.invoices.Find(ctx, scope, id)
}

// Delete removes an invoice. The order can be invoiced again afterwards.
func (s *InvoiceService) Delete(ctx context.Context, scope tenant.Scope, id uint) error {
	if err := s.invoices.Delete(ctx, scope, id); err != nil {
		return err
	}
	s.log.Info("Invoice deleted", zap.Uint("store_id", scope.StoreID), zap.Uint("invoice_id", id))
	return nil
}
