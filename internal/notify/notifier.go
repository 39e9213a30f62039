package notify

import (
	"context"
	"fmt"
	"html"

	"github.com/Shalinisinha22/ewa-back/internal/model"
	"github.com/Shalinisinha22/ewa-back/prometheus"
	"go.uber.org/zap"
)

// Notifier sends the emails triggered by store and order events. Delivery
// failures are logged and never returned.
type Notifier struct {
	mailer Mailer
	log    *zap.Logger
}

// NewNotifier creates a notifier
func NewNotifier(mailer Mailer, log *zap.Logger) *Notifier {
	return &Notifier{mailer: mailer, log: log}
}

var orderStatusSubjects = map[model.OrderStatus]string{
	model.OrderStatusShipped:         "Your order %s has shipped",
	model.OrderStatusDelivered:       "Your order %s has been delivered",
	model.OrderStatusCancelled:       "Your order %s has been cancelled",
	model.OrderStatusRefundCompleted: "Your refund for order %s is complete",
}

// OrderStatusMessage builds the customer email for an order status, if the
// status warrants one.
func OrderStatusMessage(order *model.Order) (Message, bool) {
	subject, ok := orderStatusSubjects[order.Status]
	if !ok || order.CustomerEmail == "" {
		return Message{}, false
	}
	subject = fmt.Sprintf(subject, order.OrderNumber)

	text := fmt.Sprintf("Hello %s,\n\n%s.\nOrder total: %s\n",
		order.CustomerName, subject, order.Pricing.Total.StringFixed(2))
	if order.Status == model.OrderStatusShipped && order.Fulfillment.TrackingNumber != "" {
		text += fmt.Sprintf("Tracking number: %s\n", order.Fulfillment.TrackingNumber)
	}
	if order.Status == model.OrderStatusRefundCompleted {
		text += fmt.Sprintf("Refunded amount: %s\n", order.Refund.Amount.StringFixed(2))
	}

	body := fmt.Sprintf("<p>Hello %s,</p><p>%s.</p><p>Order total: %s</p>",
		html.EscapeString(order.CustomerName), html.EscapeString(subject), order.Pricing.Total.StringFixed(2))

	return Message{
		ToEmail: order.CustomerEmail,
		ToName:  order.CustomerName,
		Subject: subject,
		HTML:    body,
		Text:    text,
	}, true
}

// OrderStatusChanged emails the customer about a status change
func (n *Notifier) OrderStatusChanged(ctx context.Context, order *model.Order) {
	msg, ok := OrderStatusMessage(order)
	if !ok {
		return
	}
	n.send(ctx, "order_status", msg, zap.Uint("order_id", order.ID))
}

// StoreCreated welcomes the first admin of a new store
func (n *Notifier) StoreCreated(ctx context.Context, store *model.Store, admin *model.Admin) {
	subject := fmt.Sprintf("Welcome to EWA, %s", store.Name)
	n.send(ctx, "store_welcome", Message{
		ToEmail: admin.Email,
		ToName:  admin.Name,
		Subject: subject,
		HTML: fmt.Sprintf("<p>Hello %s,</p><p>Your store <strong>%s</strong> has been created and is pending activation.</p>",
			html.EscapeString(admin.Name), html.EscapeString(store.Name)),
		Text: fmt.Sprintf("Hello %s,\n\nYour store %s has been created and is pending activation.\n", admin.Name, store.Name),
	}, zap.Uint("store_id", store.ID))
}

func (n *Notifier) send(ctx context.Context, kind string, msg Message, fields ...zap.Field) {
	if err := n.mailer.Send(ctx, msg); err != nil {
		prometheus.RecordNotification(kind, "failed")
		n.log.Warn("Failed to send notification",
			append(fields, zap.String("kind", kind), zap.String("to", msg.ToEmail), zap.Error(err))...)
		return
	}
	prometheus.RecordNotification(kind, "sent")
}
