package service

import (
	"strings"
	"testing"
	"time"

	"github.com/Shalinisinha22/ewa-back/internal/apperror"
	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/internal/repository"
	"github.com/Shalinisinha22/ewa-back/internal/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderPricing(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Kettle", 500, true, 10)

	order, err := f.svc.Create(f.ctx, f.scope, CreateOrderInput{
		CustomerName:  "Jane",
		Items:         []OrderItemInput{{ProductID: p.ID, Quantity: 2}},
		Tax:           dec(180),
		Shipping:      dec(50),
		PaymentMethod: "Cash on Delivery",
	})
	require.NoError(t, err)

	assert.True(t, order.Pricing.Subtotal.Equal(dec(1000)))
	assert.True(t, order.Pricing.Total.Equal(dec(1230)))
	assert.Equal(t, "cod", order.Payment.Method)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	assert.Equal(t, 10, f.quantity(t, p.ID), "admin orders do not reserve stock")

	stored := f.reload(t, order.ID)
	assert.True(t, stored.Pricing.Balanced())
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 2, stored.Items[0].Quantity)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Kettle", 100, false, 0)

	_, err := f.svc.Create(f.ctx, f.scope, CreateOrderInput{})
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))

	_, err = f.svc.Create(f.ctx, f.scope, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: p.ID, Quantity: 0}},
	})
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))

	_, err = f.svc.Create(f.ctx, f.scope, CreateOrderInput{
		Items:    []OrderItemInput{{ProductID: p.ID, Quantity: 1}},
		Discount: dec(500),
	})
	assert.True(t, apperror.Is(err, apperror.KindBadRequest), "discount above order amount")

	_, err = f.svc.Create(f.ctx, f.scope, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: 9999, Quantity: 1}},
	})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestCreateOrderFillsCustomer(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Kettle", 100, false, 0)
	c := f.customer(t, "jane@example.com")

	order, err := f.svc.Create(f.ctx, f.scope, CreateOrderInput{
		CustomerID: c.ID,
		Items:      []OrderItemInput{{ProductID: p.ID, Quantity: 1, Price: decPtr(80)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane", order.CustomerName)
	assert.Equal(t, "jane@example.com", order.CustomerEmail)
	assert.True(t, order.Pricing.Subtotal.Equal(dec(80)))
}

func TestDeliveredOrderCannotBeCancelled(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Kettle", 500, true, 10)

	order, err := f.svc.Create(f.ctx, f.scope, CreateOrderInput{
		Items:    []OrderItemInput{{ProductID: p.ID, Quantity: 2}},
		Tax:      dec(180),
		Shipping: dec(50),
	})
	require.NoError(t, err)
	require.True(t, order.Pricing.Total.Equal(dec(1230)))

	res, err := f.svc.SetStatus(f.ctx, f.scope, order.ID, StatusInput{Status: model.OrderStatusDelivered})
	require.NoError(t, err)
	assert.Equal(t, model.FulfillmentFulfilled, res.Order.Fulfillment.Status)
	assert.NotNil(t, res.Order.Fulfillment.DeliveredAt)

	before := f.reload(t, order.ID)
	_, err = f.svc.Cancel(f.ctx, f.scope, order.ID, "admin", "changed mind")
	assert.True(t, apperror.Is(err, apperror.KindInvalidOperation))

	after := f.reload(t, order.ID)
	assert.Equal(t, model.OrderStatusDelivered, after.Status)
	assert.Equal(t, before.InternalNotes, after.InternalNotes)
	assert.Equal(t, before.Payment.Status, after.Payment.Status)
	assert.Equal(t, 10, f.quantity(t, p.ID))
}

func TestCancelRestoresStockOnce(t *testing.T) {
	f := newFixture(t)
	p1 := f.product(t, "Kettle", 100, true, 10)
	p2 := f.product(t, "Mug", 20, true, 4)
	untracked := f.product(t, "Gift card", 50, false, 0)

	order, err := f.svc.Create(f.ctx, f.scope, CreateOrderInput{
		Items: []OrderItemInput{
			{ProductID: p1.ID, Quantity: 3},
			{ProductID: p2.ID, Quantity: 2},
			{ProductID: untracked.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	res, err := f.svc.Cancel(f.ctx, f.scope, order.ID, "admin", "customer request")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, res.Order.Status)
	assert.Contains(t, res.Order.InternalNotes, "Cancelled by admin: customer request")
	require.NotNil(t, res.Stock)
	assert.ElementsMatch(t, []uint{p1.ID, p2.ID}, res.Stock.Restored)
	assert.Equal(t, []uint{untracked.ID}, res.Stock.Skipped)
	assert.Empty(t, res.Stock.Failed)

	assert.Equal(t, 13, f.quantity(t, p1.ID))
	assert.Equal(t, 6, f.quantity(t, p2.ID))
	assert.Equal(t, 0, f.quantity(t, untracked.ID))
	assert.True(t, f.reload(t, order.ID).StockRestored)

	_, err = f.svc.Cancel(f.ctx, f.scope, order.ID, "admin", "again")
	assert.True(t, apperror.Is(err, apperror.KindInvalidOperation))

	// reopening and cancelling through a status change must not return stock twice
	_, err = f.svc.SetStatus(f.ctx, f.scope, order.ID, StatusInput{Status: model.OrderStatusProcessing})
	require.NoError(t, err)
	res, err = f.svc.SetStatus(f.ctx, f.scope, order.ID, StatusInput{Status: model.OrderStatusCancelled})
	require.NoError(t, err)
	assert.Nil(t, res.Stock)
	assert.Equal(t, 13, f.quantity(t, p1.ID))

	assert.Equal(t, []model.OrderStatus{
		model.OrderStatusCancelled,
		model.OrderStatusProcessing,
		model.OrderStatusCancelled,
	}, f.notifier.statuses)
}

func TestCancelReportsDeletedProducts(t *testing.T) {
	f := newFixture(t)
	kept := f.product(t, "Kettle", 100, true, 5)
	removed := f.product(t, "Mug", 20, true, 5)

	order, err := f.svc.Create(f.ctx, f.scope, CreateOrderInput{
		Items: []OrderItemInput{
			{ProductID: kept.ID, Quantity: 1},
			{ProductID: removed.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)
	require.NoError(t, f.catalog.DeleteProduct(f.ctx, f.scope, removed.ID))

	res, err := f.svc.Cancel(f.ctx, f.scope, order.ID, "admin", "out of range")
	require.NoError(t, err)
	require.NotNil(t, res.Stock)
	assert.Equal(t, []uint{kept.ID}, res.Stock.Restored)
	assert.Equal(t, []uint{removed.ID}, res.Stock.Failed)
	assert.Empty(t, res.Stock.Skipped)
	assert.True(t, res.Stock.Partial())
	assert.Equal(t, 6, f.quantity(t, kept.ID))
	assert.Equal(t, model.OrderStatusCancelled, f.reload(t, order.ID).Status)
}

func TestCancelCompletedPayment(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Kettle", 100, false, 0)
	order, err := f.svc.Create(f.ctx, f.scope, CreateOrderInput{Items: []OrderItemInput{{ProductID: p.ID, Quantity: 1}}})
	require.NoError(t, err)

	paid, err := f.svc.MarkPaid(f.ctx, f.scope, order.ID, "")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, paid.Order.Payment.Status)
	assert.True(t, strings.HasPrefix(paid.Order.Payment.TransactionID, "TXN-"))
	assert.Equal(t, model.OrderStatusPending, paid.Order.Status)

	res, err := f.svc.Cancel(f.ctx, f.scope, order.ID, "admin", "")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCancelled, res.Order.Payment.Status)
	assert.Contains(t, res.Order.InternalNotes, "No reason provided")

	_, err = f.svc.MarkPaid(f.ctx, f.scope, order.ID, "TXN-1")
	assert.True(t, apperror.Is(err, apperror.KindInvalidOperation))
}

func TestSetStatusRejectsRefundAndUnknown(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Kettle", 100, false, 0)
	order, err := f.svc.Create(f.ctx, f.scope, CreateOrderInput{Items: []OrderItemInput{{ProductID: p.ID, Quantity: 1}}})
	require.NoError(t, err)

	_, err = f.svc.SetStatus(f.ctx, f.scope, order.ID, StatusInput{Status: "lost"})
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))

	_, err = f.svc.SetStatus(f.ctx, f.scope, order.ID, StatusInput{Status: model.OrderStatusRefundCompleted})
	assert.True(t, apperror.Is(err, apperror.KindInvalidOperation))

	res, err := f.svc.SetStatus(f.ctx, f.scope, order.ID, StatusInput{
		Status:         model.OrderStatusShipped,
		TrackingNumber: "TRK1",
		Carrier:        "BlueDart",
	})
	require.NoError(t, err)
	assert.Equal(t, "TRK1", res.Order.Fulfillment.TrackingNumber)
	assert.NotNil(t, res.Order.Fulfillment.ShippedAt)
}

func TestRefundUsesStoredBankDetails(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Kettle", 100, true, 5)
	c := f.customer(t, "jane@example.com")
	require.NoError(t, f.customers.AddBankDetail(f.ctx, f.scope, &model.CustomerBankDetail{
		CustomerID:        c.ID,
		AccountHolderName: "Jane Doe",
		BankName:          "State Bank",
		AccountNumber:     "123456789012",
		IFSCCode:          "SBIN0000001",
		IsDefault:         true,
	}))

	order, err := f.svc.Create(f.ctx, f.scope, CreateOrderInput{
		CustomerID: c.ID,
		Items:      []OrderItemInput{{ProductID: p.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	res, err := f.svc.Refund(f.ctx, f.scope, order.ID, RefundInput{})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusRefundCompleted, res.Order.Status)
	assert.Equal(t, model.PaymentStatusRefunded, res.Order.Payment.Status)
	assert.Equal(t, "Jane Doe", res.Order.Refund.BankDetails.AccountHolderName)
	assert.Equal(t, "Admin refund", res.Order.Refund.Reason)
	assert.True(t, res.Order.Refund.Amount.Equal(dec(200)))
	assert.Contains(t, res.Order.InternalNotes, "********9012")
	assert.NotContains(t, res.Order.InternalNotes, "123456789012")
	assert.Equal(t, 7, f.quantity(t, p.ID))

	first := f.reload(t, order.ID)

	_, err = f.svc.Refund(f.ctx, f.scope, order.ID, RefundInput{Reason: "again"})
	assert.True(t, apperror.Is(err, apperror.KindInvalidOperation))

	second := f.reload(t, order.ID)
	assert.Equal(t, model.OrderStatusRefundCompleted, second.Status)
	assert.Equal(t, first.Refund.TransactionID, second.Refund.TransactionID)
	assert.Equal(t, first.Refund.Reason, second.Refund.Reason)
	assert.True(t, first.Refund.Amount.Equal(second.Refund.Amount))
	assert.Equal(t, 7, f.quantity(t, p.ID))
}

func TestRefundWithoutBankDetails(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Kettle", 100, false, 0)
	c := f.customer(t, "nobank@example.com")

	order, err := f.svc.Create(f.ctx, f.scope, CreateOrderInput{
		CustomerID: c.ID,
		Items:      []OrderItemInput{{ProductID: p.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.svc.Refund(f.ctx, f.scope, order.ID, RefundInput{})
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))
	assert.Equal(t, model.OrderStatusPending, f.reload(t, order.ID).Status)

	_, err = f.svc.Refund(f.ctx, f.scope, order.ID, RefundInput{
		Amount: decPtr(500),
		BankDetails: model.BankDetails{
			AccountHolderName: "Jane", BankName: "Bank", AccountNumber: "1234", IFSCCode: "IFSC1",
		},
	})
	assert.True(t, apperror.Is(err, apperror.KindBadRequest), "amount above total")
}

func TestRefundCancelledOrderRejected(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Kettle", 100, false, 0)
	order, err := f.svc.Create(f.ctx, f.scope, CreateOrderInput{Items: []OrderItemInput{{ProductID: p.ID, Quantity: 1}}})
	require.NoError(t, err)
	_, err = f.svc.Cancel(f.ctx, f.scope, order.ID, "admin", "")
	require.NoError(t, err)

	_, err = f.svc.Refund(f.ctx, f.scope, order.ID, RefundInput{})
	assert.True(t, apperror.Is(err, apperror.KindInvalidOperation))
}

func TestResolveBankDetailsFieldByField(t *testing.T) {
	got := ResolveBankDetails(
		model.BankDetails{AccountHolderName: "Given", IFSCCode: " "},
		&model.CustomerBankDetail{AccountHolderName: "Stored", BankName: "Bank", AccountNumber: "42", IFSCCode: "IFSC"},
	)
	assert.Equal(t, "Given", got.AccountHolderName)
	assert.Equal(t, "Bank", got.BankName)
	assert.Equal(t, "42", got.AccountNumber)
	assert.Equal(t, "IFSC", got.IFSCCode)

	assert.Equal(t, model.BankDetails{BankName: "x"}, ResolveBankDetails(model.BankDetails{BankName: "x"}, nil))
}

func TestCheckoutReservesStock(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Kettle", 300, true, 5)
	c := f.customer(t, "jane@example.com")

	order, err := f.svc.Checkout(f.ctx, f.scope, c, CheckoutInput{
		Items:        []OrderItemInput{{ProductID: p.ID, Quantity: 2, Price: decPtr(1)}},
		ShippingZone: "Local",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, f.quantity(t, p.ID))

	// product price wins over the requested price; 600 clears the free shipping threshold
	assert.True(t, order.Pricing.Subtotal.Equal(dec(600)))
	assert.True(t, order.Pricing.Shipping.IsZero())
	assert.True(t, order.Pricing.Tax.Equal(dec(108)))
	assert.True(t, order.Pricing.Total.Equal(dec(708)))
	assert.Equal(t, c.ID, order.CustomerID)

	_, err = f.svc.Checkout(f.ctx, f.scope, c, CheckoutInput{
		Items: []OrderItemInput{{ProductID: p.ID, Quantity: 4}},
	})
	assert.True(t, apperror.Is(err, apperror.KindInvalidOperation))
	assert.Equal(t, 3, f.quantity(t, p.ID))

	res, err := f.svc.CancelForCustomer(f.ctx, f.scope, c.ID, order.ID, "")
	require.NoError(t, err)
	assert.Contains(t, res.Order.InternalNotes, "Cancelled by customer")
	assert.Equal(t, 5, f.quantity(t, p.ID))
}

func TestCheckoutRollsBackPartialReservation(t *testing.T) {
	f := newFixture(t)
	p1 := f.product(t, "Kettle", 100, true, 5)
	p2 := f.product(t, "Mug", 10, true, 1)
	c := f.customer(t, "jane@example.com")

	_, err := f.svc.Checkout(f.ctx, f.scope, c, CheckoutInput{
		Items: []OrderItemInput{{ProductID: p1.ID, Quantity: 2}, {ProductID: p2.ID, Quantity: 2}},
	})
	assert.True(t, apperror.Is(err, apperror.KindInvalidOperation))
	assert.Equal(t, 5, f.quantity(t, p1.ID))
	assert.Equal(t, 1, f.quantity(t, p2.ID))
}

func TestCustomerCannotReachOtherCustomersOrder(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Kettle", 100, false, 0)
	owner := f.customer(t, "owner@example.com")
	other := f.customer(t, "other@example.com")

	order, err := f.svc.Checkout(f.ctx, f.scope, owner, CheckoutInput{Items: []OrderItemInput{{ProductID: p.ID, Quantity: 1}}})
	require.NoError(t, err)

	_, err = f.svc.GetForCustomer(f.ctx, f.scope, other.ID, order.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	_, err = f.svc.CancelForCustomer(f.ctx, f.scope, other.ID, order.ID, "")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = f.svc.SetStatus(f.ctx, f.scope, order.ID, StatusInput{Status: model.OrderStatusShipped})
	require.NoError(t, err)
	_, err = f.svc.CancelForCustomer(f.ctx, f.scope, owner.ID, order.ID, "")
	assert.True(t, apperror.Is(err, apperror.KindInvalidOperation))
}

func TestOrdersAreIsolatedByStore(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Kettle", 100, false, 0)
	order, err := f.svc.Create(f.ctx, f.scope, CreateOrderInput{Items: []OrderItemInput{{ProductID: p.ID, Quantity: 1}}})
	require.NoError(t, err)

	other := seedStore(t, f.db, "Other", "other")
	otherScope := tenant.For(other.ID, tenant.SourceStoreID)

	_, err = f.svc.Get(f.ctx, otherScope, order.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	_, err = f.svc.Cancel(f.ctx, otherScope, order.ID, "admin", "")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Equal(t, model.OrderStatusPending, f.reload(t, order.ID).Status)
}

func TestPaymentFailedCancelsOrder(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Kettle", 100, true, 5)
	c := f.customer(t, "jane@example.com")
	order, err := f.svc.Checkout(f.ctx, f.scope, c, CheckoutInput{Items: []OrderItemInput{{ProductID: p.ID, Quantity: 2}}})
	require.NoError(t, err)

	res, err := f.svc.PaymentFailed(f.ctx, f.scope, order.ID, "card declined")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, res.Order.Status)
	assert.Equal(t, model.PaymentStatusFailed, res.Order.Payment.Status)
	assert.Equal(t, 5, f.quantity(t, p.ID))

	res, err = f.svc.PaymentFailed(f.ctx, f.scope, order.ID, "card declined")
	require.NoError(t, err)
	assert.Nil(t, res.Stock)
	assert.Equal(t, 5, f.quantity(t, p.ID))
}

func TestOrderStats(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Kettle", 100, false, 0)
	for _, qty := range []int{1, 2, 3} {
		_, err := f.svc.Create(f.ctx, f.scope, CreateOrderInput{Items: []OrderItemInput{{ProductID: p.ID, Quantity: qty}}})
		require.NoError(t, err)
	}
	listed, page, err := f.svc.List(f.ctx, f.scope, repository.OrderFilter{Status: string(model.OrderStatusPending)})
	require.NoError(t, err)
	assert.Len(t, listed, 3)
	assert.Equal(t, int64(3), page.Total)

	stats, err := f.svc.Stats(f.ctx, f.scope)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, int64(3), stats.PendingOrders)
	assert.True(t, stats.TotalRevenue.Equal(dec(600)))
	assert.True(t, stats.AverageOrderValue.Equal(dec(200)))
}

func TestUpdateNotes(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "Kettle", 100, false, 0)
	order, err := f.svc.Create(f.ctx, f.scope, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: p.ID, Quantity: 1}},
		Notes: "leave at door",
	})
	require.NoError(t, err)

	internal := "vip"
	updated, err := f.svc.UpdateNotes(f.ctx, f.scope, order.ID, NotesInput{InternalNotes: &internal})
	require.NoError(t, err)
	assert.Equal(t, "leave at door", updated.Notes)
	assert.Equal(t, "vip", f.reload(t, order.ID).InternalNotes)
}

func TestApplyRefundBounds(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	bank := model.BankDetails{AccountHolderName: "J", BankName: "B", AccountNumber: "1", IFSCCode: "I"}
	order := &model.Order{Status: model.OrderStatusDelivered, Pricing: model.Pricing{Total: dec(100)}}

	err := ApplyRefund(order, RefundInput{Amount: decPtr(0), BankDetails: bank}, nil, now)
	assert.True(t, apperror.Is(err, apperror.KindBadRequest))

	require.NoError(t, ApplyRefund(order, RefundInput{Amount: decPtr(40), BankDetails: bank}, nil, now))
	assert.True(t, order.Refund.Amount.Equal(dec(40)))
	assert.Equal(t, "REF-1709251200000", order.Refund.TransactionID)
}
