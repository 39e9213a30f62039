package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/repository"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"github.com/Shalinisinha22/ewa-back/prometheus"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Order events recorded in metrics
const (
	EventCreate    = "create"
	EventCheckout  = "checkout"
	EventSetStatus = "set_status"
	EventMarkPaid  = "mark_paid"
	EventCancel    = "cancel"
	EventRefund    = "refund"
	EventPayFailed = "payment_failed"
)

// OrderNotifier is told about order status changes
type OrderNotifier interface {
	OrderStatusChanged(ctx context.Context, order *model.Order)
}

var paymentMethods = map[string]string{
	"Cash on Delivery": "cod",
	"Credit Card":      "credit_card",
	"Debit Card":       "debit_card",
	"PayPal":           "paypal",
	"Razorpay":         "razorpay",
	"Stripe":           "stripe",
}

// NormalizePaymentMethod maps display names of payment methods to their codes.
// Unknown values pass through.
func NormalizePaymentMethod(method string) string {
	if code, ok := paymentMethods[strings.TrimSpace(method)]; ok {
		return code
	}
	return strings.TrimSpace(method)
}

// OrderItemInput is one requested order line
type OrderItemInput struct {
	ProductID uint             `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Price     *decimal.Decimal `json:"price"`
}

// CreateOrderInput is an order placed by an admin on behalf of a customer
type CreateOrderInput struct {
	CustomerID      uint              `json:"customer_id"`
	CustomerName    string            `json:"customer_name"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerPhone   string            `json:"customer_phone"`
	Items           []OrderItemInput  `json:"items"`
	Tax             decimal.Decimal   `json:"tax"`
	Shipping        decimal.Decimal   `json:"shipping"`
	Discount        decimal.Decimal   `json:"discount"`
	PaymentMethod   string            `json:"payment_method"`
	ShippingAddress datatypes.JSONMap `json:"shipping_address"`
	BillingAddress  datatypes.JSONMap `json:"billing_address"`
	Notes           string            `json:"notes"`
}

// CheckoutInput is an order placed by a customer
type CheckoutInput struct {
	Items           []OrderItemInput  `json:"items"`
	ShippingZone    string            `json:"shipping_zone"`
	PaymentMethod   string            `json:"payment_method"`
	ShippingAddress datatypes.JSONMap `json:"shipping_address"`
	BillingAddress  datatypes.JSONMap `json:"billing_address"`
	Notes           string            `json:"notes"`
}

// StatusInput moves an order to a status
type StatusInput struct {
	Status         model.OrderStatus `json:"status"`
	TrackingNumber string            `json:"tracking_number"`
	Carrier        string            `json:"carrier"`
}

// RefundInput requests a refund. Missing bank fields fall back to the
// customer's default bank record one field at a time.
type RefundInput struct {
	Reason        string            `json:"refund_reason"`
	Amount        *decimal.Decimal  `json:"refund_amount"`
	TransactionID string            `json:"transaction_id"`
	BankDetails   model.BankDetails `json:"bank_details"`
}

// NotesInput overwrites the provided notes
type NotesInput struct {
	Notes         *string `json:"notes"`
	InternalNotes *string `json:"internal_notes"`
}

// OrderResult is a transitioned order plus the stock it returned, if any
type OrderResult struct {
	Order *model.Order   `json:"order"`
	Stock *RestoreReport `json:"stock,omitempty"`
}

// OrderStats summarizes the orders of a store
type OrderStats struct {
	TotalOrders       int64           `json:"total_orders"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	PendingOrders     int64           `json:"pending_orders"`
	ProcessingOrders  int64           `json:"processing_orders"`
	ShippedOrders     int64           `json:"shipped_orders"`
	DeliveredOrders   int64           `json:"delivered_orders"`
	CancelledOrders   int64           `json:"cancelled_orders"`
	RefundedOrders    int64           `json:"refunded_orders"`
}

// OrderService drives the order state machine
type OrderService struct {
	db        *gorm.DB
	orders    *repository.OrderRepository
	catalog   *repository.CatalogRepository
	customers *repository.CustomerRepository
	stock     *StockLedger
	settings  *SettingsService
	notifier  OrderNotifier
	log       *zap.Logger
	now       func() time.Time
}

// NewOrderService creates an order service
func NewOrderService(
	db *gorm.DB,
	orders *repository.OrderRepository,
	catalog *repository.CatalogRepository,
	customers *repository.CustomerRepository,
	settings *SettingsService,
	notifier OrderNotifier,
	log *zap.Logger,
) *OrderService {
	return &OrderService{
		db:        db,
		orders:    orders,
		catalog:   catalog,
		customers: customers,
		stock:     NewStockLedger(catalog, log),
		settings:  settings,
		notifier:  notifier,
		log:       log,
		now:       time.Now,
	}
}

func (s *OrderService) orderNumber() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("ORD-%s-%s", s.now().UTC().Format("20060102"), strings.ToUpper(id[:8]))
}

// Get loads an order of the scoped store
func (s *OrderService) Get(ctx context.Context, scope tenant.Scope, id uint) (*model.Order, error) {
	return s.orders.Find(ctx, scope, id)
}

// GetForCustomer loads an order only if it belongs to the customer
func (s *OrderService) GetForCustomer(ctx context.Context, scope tenant.Scope, customerID, id uint) (*model.Order, error) {
	order, err := s.orders.Find(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, apperror.NotFound("order not found")
	}
	return order, nil
}

// List returns one page of orders
func (s *OrderService) List(ctx context.Context, scope tenant.Scope, f repository.OrderFilter) ([]model.Order, repository.Page, error) {
	return s.orders.List(ctx, scope, f)
}

// Export returns every order matching the filter, newest first
func (s *OrderService) Export(ctx context.Context, scope tenant.Scope, f repository.OrderFilter) ([]model.Order, error) {
	return s.orders.ListForExport(ctx, scope, f)
}

// Stats aggregates order counts and revenue
func (s *OrderService) Stats(ctx context.Context, scope tenant.Scope) (*OrderStats, error) {
	rows, err := s.orders.Stats(ctx, scope)
	if err != nil {
		return nil, err
	}

	stats := &OrderStats{TotalRevenue: decimal.Zero, AverageOrderValue: decimal.Zero}
	for _, row := range rows {
		stats.TotalOrders += row.Count
		stats.TotalRevenue = stats.TotalRevenue.Add(row.Revenue)
		switch row.Status {
		case model.OrderStatusPending:
			stats.PendingOrders = row.Count
		case model.OrderStatusProcessing:
			stats.ProcessingOrders = row.Count
		case model.OrderStatusShipped:
			stats.ShippedOrders = row.Count
		case model.OrderStatusDelivered:
			stats.DeliveredOrders = row.Count
		case model.OrderStatusCancelled:
			stats.CancelledOrders = row.Count
		case model.OrderStatusRefundCompleted:
			stats.RefundedOrders = row.Count
		}
	}
	if stats.TotalOrders > 0 {
		stats.AverageOrderValue = stats.TotalRevenue.Div(decimal.NewFromInt(stats.TotalOrders)).Round(2)
	}
	return stats, nil
}

func validateItems(items []OrderItemInput) error {
	if len(items) == 0 {
		return apperror.BadRequest("order must contain at least one item")
	}
	for _, item := range items {
		if item.ProductID == 0 {
			return apperror.BadRequest("product_id is required for every item")
		}
		if item.Quantity <= 0 {
			return apperror.BadRequest("quantity must be positive")
		}
		if item.Price != nil && item.Price.IsNegative() {
			return apperror.BadRequest("price cannot be negative")
		}
	}
	return nil
}

// lines resolves requested items against the catalog. Prices come from the
// request when allowed and present, else from the product.
func (s *OrderService) lines(ctx context.Context, scope tenant.Scope, items []OrderItemInput, allowPrice, activeOnly bool) ([]model.OrderItem, decimal.Decimal, error) {
	lines := make([]model.OrderItem, 0, len(items))
	subtotal := decimal.Zero
	for _, in := range items {
		product, err := s.catalog.FindProduct(ctx, scope, in.ProductID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if activeOnly && product.Status != model.ProductStatusActive {
			return nil, decimal.Zero, apperror.BadRequest("product %s is not available", product.Name)
		}

		price := product.Price
		if allowPrice && in.Price != nil {
			price = *in.Price
		}
		line := model.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			SKU:       product.SKU,
			Price:     price,
			Quantity:  in.Quantity,
		}
		subtotal = subtotal.Add(line.LineTotal())
		lines = append(lines, line)
	}
	return lines, subtotal, nil
}

func buildPricing(subtotal, tax, shipping, discount decimal.Decimal) (model.Pricing, error) {
	if tax.IsNegative() || shipping.IsNegative() || discount.IsNegative() {
		return model.Pricing{}, apperror.BadRequest("tax, shipping and discount cannot be negative")
	}
	p := model.Pricing{Subtotal: subtotal, Tax: tax, Shipping: shipping, Discount: discount}
	if discount.GreaterThan(subtotal.Add(tax).Add(shipping)) {
		return model.Pricing{}, apperror.BadRequest("discount exceeds order amount")
	}
	p.Total = p.ComputeTotal()
	return p, nil
}

// Create places an order on behalf of a customer. Stock is not reserved.
func (s *OrderService) Create(ctx context.Context, scope tenant.Scope, in CreateOrderInput) (*model.Order, error) {
	if err := validateItems(in.Items); err != nil {
		return nil, err
	}

	if in.CustomerID != 0 {
		customer, err := s.customers.Find(ctx, scope, in.CustomerID)
		if err != nil {
			return nil, err
		}
		if in.CustomerName == "" {
			in.CustomerName = customer.Name
		}
		if in.CustomerEmail == "" {
			in.CustomerEmail = customer.Email
		}
		if in.CustomerPhone == "" {
			in.CustomerPhone = customer.Phone
		}
	}

	items, subtotal, err := s.lines(ctx, scope, in.Items, true, false)
	if err != nil {
		return nil, err
	}
	pricing, err := buildPricing(subtotal, in.Tax, in.Shipping, in.Discount)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		CustomerID:      in.CustomerID,
		OrderNumber:     s.orderNumber(),
		CustomerName:    in.CustomerName,
		CustomerEmail:   strings.ToLower(strings.TrimSpace(in.CustomerEmail)),
		CustomerPhone:   in.CustomerPhone,
		Status:          model.OrderStatusPending,
		Items:           items,
		Pricing:         pricing,
		Payment:         model.Payment{Method: NormalizePaymentMethod(in.PaymentMethod), Status: model.PaymentStatusPending},
		Fulfillment:     model.Fulfillment{Status: model.FulfillmentUnfulfilled},
		ShippingAddress: in.ShippingAddress,
		BillingAddress:  in.BillingAddress,
		Notes:           in.Notes,
	}
	if err := s.orders.Create(ctx, scope, order); err != nil {
		prometheus.RecordOrderTransition(EventCreate, "error")
		return nil, err
	}
	prometheus.RecordOrderTransition(EventCreate, "ok")
	s.log.Info("Order created",
		zap.Uint("store_id", scope.StoreID),
		zap.Uint("order_id", order.ID),
		zap.String("order_number", order.OrderNumber))
	return order, nil
}

// Checkout places a customer's order. Every item's stock is reserved and
// the order is created in one transaction; shipping and tax come from the
// store settings.
func (s *OrderService) Checkout(ctx context.Context, scope tenant.Scope, customer *model.Customer, in CheckoutInput) (*model.Order, error) {
	if err := validateItems(in.Items); err != nil {
		return nil, err
	}

	items, subtotal, err := s.lines(ctx, scope, in.Items, false, true)
	if err != nil {
		return nil, err
	}
	quote, err := s.settings.Quote(ctx, scope, subtotal, in.ShippingZone)
	if err != nil {
		return nil, err
	}
	pricing, err := buildPricing(subtotal, quote.Tax, quote.Shipping, decimal.Zero)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		CustomerID:      customer.ID,
		OrderNumber:     s.orderNumber(),
		CustomerName:    customer.Name,
		CustomerEmail:   customer.Email,
		CustomerPhone:   customer.Phone,
		Status:          model.OrderStatusPending,
		Items:           items,
		Pricing:         pricing,
		Payment:         model.Payment{Method: NormalizePaymentMethod(in.PaymentMethod), Status: model.PaymentStatusPending},
		Fulfillment:     model.Fulfillment{Status: model.FulfillmentUnfulfilled},
		ShippingAddress: in.ShippingAddress,
		BillingAddress:  in.BillingAddress,
		Notes:           in.Notes,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ledger := s.stock.WithTx(tx)
		for _, item := range items {
			if err := ledger.Reserve(ctx, scope, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return s.orders.WithTx(tx).Create(ctx, scope, order)
	})
	if err != nil {
		prometheus.RecordOrderTransition(EventCheckout, "error")
		return nil, err
	}

	prometheus.RecordOrderTransition(EventCheckout, "ok")
	s.log.Info("Checkout completed",
		zap.Uint("store_id", scope.StoreID),
		zap.Uint("customer_id", customer.ID),
		zap.Uint("order_id", order.ID),
		zap.String("total", order.Pricing.Total.StringFixed(2)))
	return order, nil
}

// commit saves a transitioned order, then returns its stock when asked and
// not yet done, then notifies the customer if the status changed.
func (s *OrderService) commit(ctx context.Context, scope tenant.Scope, order *model.Order, event string, from model.OrderStatus, restore bool) (*OrderResult, error) {
	if err := s.orders.Save(ctx, scope, order); err != nil {
		prometheus.RecordOrderTransition(event, "error")
		return nil, err
	}

	result := &OrderResult{Order: order}
	if restore {
		claimed, err := s.orders.ClaimStockRestore(ctx, scope, order.ID)
		switch {
		case err != nil:
			s.log.Warn("Failed to claim stock restore",
				zap.Uint("order_id", order.ID),
				zap.Error(err))
		case claimed:
			report := s.stock.RestoreItems(ctx, scope, order.Items)
			order.StockRestored = true
			result.Stock = &report
			if report.Partial() {
				s.log.Warn("Stock partially restored",
					zap.Uint("order_id", order.ID),
					zap.Uints("failed_products", report.Failed))
			}
		default:
			s.log.Info("Stock already restored for order", zap.Uint("order_id", order.ID))
		}
	}

	prometheus.RecordOrderTransition(event, "ok")
	s.log.Info("Order transitioned",
		zap.Uint("store_id", scope.StoreID),
		zap.Uint("order_id", order.ID),
		zap.String("event", event),
		zap.String("from", string(from)),
		zap.String("to", string(order.Status)))

	if from != order.Status && s.notifier != nil {
		s.notifier.OrderStatusChanged(ctx, order)
	}
	return result, nil
}

func (s *OrderService) reject(event string, err error) (*OrderResult, error) {
	prometheus.RecordOrderTransition(event, "rejected")
	return nil, err
}

// ApplyStatus moves the order to status and reports whether stock must be
// returned.
func ApplyStatus(order *model.Order, in StatusInput, now time.Time) (bool, error) {
	if !in.Status.Valid() {
		return false, apperror.BadRequest("invalid order status %q", in.Status)
	}
	if in.Status == model.OrderStatusRefundCompleted {
		return false, apperror.InvalidOperation("use the refund operation to refund an order")
	}

	from := order.Status
	order.Status = in.Status
	if in.TrackingNumber != "" {
		order.Fulfillment.TrackingNumber = in.TrackingNumber
	}
	if in.Carrier != "" {
		order.Fulfillment.Carrier = in.Carrier
	}

	switch in.Status {
	case model.OrderStatusShipped:
		order.Fulfillment.Status = model.FulfillmentFulfilled
		order.Fulfillment.ShippedAt = &now
	case model.OrderStatusDelivered:
		order.Fulfillment.Status = model.FulfillmentFulfilled
		order.Fulfillment.DeliveredAt = &now
	case model.OrderStatusCancelled:
		return from != model.OrderStatusCancelled, nil
	}
	return false, nil
}

// ApplyMarkPaid records a completed payment.
func ApplyMarkPaid(order *model.Order, transactionID string, now time.Time) error {
	if order.Status == model.OrderStatusCancelled {
		return apperror.InvalidOperation("cannot mark cancelled order as paid")
	}
	if transactionID == "" {
		transactionID = fmt.Sprintf("TXN-%d", now.UnixMilli())
	}
	order.Payment.Status = model.PaymentStatusCompleted
	order.Payment.PaidAt = &now
	order.Payment.TransactionID = transactionID
	return nil
}

// ApplyCancel cancels the order. Stock must be returned afterwards.
func ApplyCancel(order *model.Order, actor, reason string) error {
	switch order.Status {
	case model.OrderStatusCancelled:
		return apperror.InvalidOperation("order already cancelled")
	case model.OrderStatusDelivered:
		return apperror.InvalidOperation("cannot cancel delivered order")
	}

	if strings.TrimSpace(reason) == "" {
		reason = "No reason provided"
	}
	order.Status = model.OrderStatusCancelled
	if order.Payment.Status == model.PaymentStatusCompleted {
		order.Payment.Status = model.PaymentStatusCancelled
	}
	order.AppendInternalNote(fmt.Sprintf("Cancelled by %s: %s", actor, reason))
	return nil
}

// ApplyRefund refunds the order with resolved bank details. Stock must be
// returned afterwards.
func ApplyRefund(order *model.Order, in RefundInput, fallback *model.CustomerBankDetail, now time.Time) error {
	switch order.Status {
	case model.OrderStatusRefundCompleted:
		return apperror.InvalidOperation("order already refunded")
	case model.OrderStatusCancelled:
		return apperror.InvalidOperation("cannot refund cancelled order")
	}

	bank := ResolveBankDetails(in.BankDetails, fallback)
	if missing := missingBankFields(bank); len(missing) > 0 {
		return apperror.BadRequest("bank details are required for refund processing, missing: %s", strings.Join(missing, ", "))
	}

	amount := order.Pricing.Total
	if in.Amount != nil {
		amount = *in.Amount
	}
	if !amount.IsPositive() || amount.GreaterThan(order.Pricing.Total) {
		return apperror.BadRequest("refund amount must be greater than 0 and at most %s", order.Pricing.Total.StringFixed(2))
	}

	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = "Admin refund"
	}
	txn := in.TransactionID
	if txn == "" {
		txn = fmt.Sprintf("REF-%d", now.UnixMilli())
	}

	order.Status = model.OrderStatusRefundCompleted
	order.Payment.Status = model.PaymentStatusRefunded
	order.Refund = model.Refund{
		Amount:        amount,
		Reason:        reason,
		TransactionID: txn,
		RefundedAt:    &now,
		BankDetails:   bank,
	}

	note := fmt.Sprintf("Refund processed with bank details: %s - %s (%s) at %s",
		bank.AccountHolderName, bank.BankName, maskAccount(bank.AccountNumber), now.UTC().Format(time.RFC3339))
	if bank.UPIID != "" {
		note += " | UPI ID: " + bank.UPIID
	}
	order.AppendInternalNote(note)
	return nil
}

// ResolveBankDetails fills each empty field of provided from the stored record.
func ResolveBankDetails(provided model.BankDetails, stored *model.CustomerBankDetail) model.BankDetails {
	if stored == nil {
		return provided
	}
	pick := func(a, b string) string {
		if strings.TrimSpace(a) != "" {
			return a
		}
		return b
	}
	return model.BankDetails{
		AccountHolderName: pick(provided.AccountHolderName, stored.AccountHolderName),
		BankName:          pick(provided.BankName, stored.BankName),
		AccountNumber:     pick(provided.AccountNumber, stored.AccountNumber),
		IFSCCode:          pick(provided.IFSCCode, stored.IFSCCode),
		UPIID:             pick(provided.UPIID, stored.UPIID),
	}
}

func missingBankFields(b model.BankDetails) []string {
	var missing []string
	if strings.TrimSpace(b.AccountHolderName) == "" {
		missing = append(missing, "account_holder_name")
	}
	if strings.TrimSpace(b.BankName) == "" {
		missing = append(missing, "bank_name")
	}
	if strings.TrimSpace(b.AccountNumber) == "" {
		missing = append(missing, "account_number")
	}
	if strings.TrimSpace(b.IFSCCode) == "" {
		missing = append(missing, "ifsc_code")
	}
	return missing
}

func maskAccount(number string) string {
	if len(number) <= 4 {
		return number
	}
	return strings.Repeat("*", len(number)-4) + number[len(number)-4:]
}

// SetStatus moves an order to any status except refund_completed. Moving to
// cancelled returns stock.
func (s *OrderService) SetStatus(ctx context.Context, scope tenant.Scope, id uint, in StatusInput) (*OrderResult, error) {
	order, err := s.orders.Find(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	from := order.Status
	restore, err := ApplyStatus(order, in, s.now())
	if err != nil {
		return s.reject(EventSetStatus, err)
	}
	return s.commit(ctx, scope, order, EventSetStatus, from, restore)
}

// MarkPaid records a completed payment without changing the order status
func (s *OrderService) MarkPaid(ctx context.Context, scope tenant.Scope, id uint, transactionID string) (*OrderResult, error) {
	order, err := s.orders.Find(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := ApplyMarkPaid(order, transactionID, s.now()); err != nil {
		return s.reject(EventMarkPaid, err)
	}
	return s.commit(ctx, scope, order, EventMarkPaid, order.Status, false)
}

// Cancel cancels an order and returns its stock
func (s *OrderService) Cancel(ctx context.Context, scope tenant.Scope, id uint, actor, reason string) (*OrderResult, error) {
	order, err := s.orders.Find(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if err := ApplyCancel(order, actor, reason); err != nil {
		return s.reject(EventCancel, err)
	}
	return s.commit(ctx, scope, order, EventCancel, from, true)
}

// CancelForCustomer cancels a customer's own order while it is pending or
// processing
func (s *OrderService) CancelForCustomer(ctx context.Context, scope tenant.Scope, customerID, id uint, reason string) (*OrderResult, error) {
	order, err := s.GetForCustomer(ctx, scope, customerID, id)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderStatusPending && order.Status != model.OrderStatusProcessing {
		return s.reject(EventCancel, apperror.InvalidOperation("order can no longer be cancelled"))
	}
	from := order.Status
	if err := ApplyCancel(order, "customer", reason); err != nil {
		return s.reject(EventCancel, err)
	}
	return s.commit(ctx, scope, order, EventCancel, from, true)
}

// Refund refunds an order and returns its stock
func (s *OrderService) Refund(ctx context.Context, scope tenant.Scope, id uint, in RefundInput) (*OrderResult, error) {
	order, err := s.orders.Find(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	var stored *model.CustomerBankDetail
	if !in.BankDetails.Complete() && order.CustomerID != 0 {
		stored, err = s.customers.DefaultBankDetail(ctx, scope, order.CustomerID)
		if err != nil {
			s.log.Warn("Failed to load customer bank details",
				zap.Uint("order_id", order.ID),
				zap.Uint("customer_id", order.CustomerID),
				zap.Error(err))
			stored = nil
		}
	}

	from := order.Status
	if err := ApplyRefund(order, in, stored, s.now()); err != nil {
		return s.reject(EventRefund, err)
	}
	return s.commit(ctx, scope, order, EventRefund, from, true)
}

// PaymentFailed records a failed payment and cancels the order unless it is
// already cancelled or delivered
func (s *OrderService) PaymentFailed(ctx context.Context, scope tenant.Scope, id uint, reason string) (*OrderResult, error) {
	order, err := s.orders.Find(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	from := order.Status
	restore := false
	if order.Status != model.OrderStatusCancelled && order.Status != model.OrderStatusDelivered {
		if err := ApplyCancel(order, "payment provider", reason); err != nil {
			return s.reject(EventPayFailed, err)
		}
		restore = true
	}
	order.Payment.Status = model.PaymentStatusFailed
	return s.commit(ctx, scope, order, EventPayFailed, from, restore)
}

// AttachProviderOrder stores the payment provider's order reference
func (s *OrderService) AttachProviderOrder(ctx context.Context, scope tenant.Scope, order *model.Order, providerOrderID string) error {
	order.Payment.ProviderOrderID = providerOrderID
	if order.Payment.Status == model.PaymentStatusPending {
		order.Payment.Status = model.PaymentStatusProcessing
	}
	return s.orders.Save(ctx, scope, order)
}

// FindByProviderOrder loads the order a payment provider reference points at
// together with the scope of its store
func (s *OrderService) FindByProviderOrder(ctx context.Context, providerOrderID string) (*model.Order, tenant.Scope, error) {
	order, err := s.orders.FindByProviderOrderID(ctx, providerOrderID)
	if err != nil {
		return nil, tenant.Scope{}, err
	}
	return order, tenant.For(order.StoreID, tenant.SourceWebhook), nil
}

// UpdateNotes overwrites the provided note fields
func (s *OrderService) UpdateNotes(ctx context.Context, scope tenant.Scope, id uint, in NotesInput) (*model.Order, error) {
	order, err := s.orders.Find(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if in.Notes != nil {
		order.Notes = *in.Notes
	}
	if in.InternalNotes != nil {
		order.InternalNotes = *in.InternalNotes
	}
	if err := s.orders.Save(ctx, scope, order); err != nil {
		return nil, err
	}
	return order, nil
}
