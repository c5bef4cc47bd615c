package worker

import (
	"context"
	"fmt"

	"mobilestore/internal/broker"
	"mobilestore/internal/models"
	"mobilestore/internal/notify"
	"mobilestore/internal/util"

	"go.uber.org/zap"
)

// NotificationRecorder persists a notification for one user.
type NotificationRecorder interface {
	Record(ctx context.Context, userID, title, message string) (*models.Notification, error)
}

// TelegramSender posts an ops message to the configured chat.
type TelegramSender interface {
	Send(ctx context.Context, message string) error
}

// PushBroadcaster fans a push message out to every registered subscription.
type PushBroadcaster interface {
	Broadcast(msg notify.PushMessage)
}

// NotificationWorker consumes order lifecycle events and turns each one into
// a persisted notification plus best-effort Telegram and web-push deliveries.
// Everything here is a side-channel: a failed delivery is logged, never
// retried against the order flow.
type NotificationWorker struct {
	consumer *broker.Consumer
	handler  *broker.EventHandler

	notifications NotificationRecorder
	telegram      TelegramSender
	push          PushBroadcaster
	logger        *zap.Logger
}

// NewNotificationWorker wires the event handler callbacks. telegram and push
// may be nil when those channels are not configured.
func NewNotificationWorker(
	consumer *broker.Consumer,
	notifications NotificationRecorder,
	telegram TelegramSender,
	push PushBroadcaster,
) *NotificationWorker {
	w := &NotificationWorker{
		consumer:      consumer,
		notifications: notifications,
		telegram:      telegram,
		push:          push,
		logger:        util.GetLogger(),
	}

	handler := broker.NewEventHandler()
	handler.OnOrderCreated(w.handleOrderCreated)
	handler.OnOrderStatusChanged(w.handleOrderStatusChanged)
	handler.OnOrderDeleted(w.handleOrderDeleted)
	handler.OnOrderPaid(w.handleOrderPaid)
	w.handler = handler

	return w
}

// Start blocks consuming events until ctx is cancelled.
func (w *NotificationWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting notification worker")
	return w.consumer.StartConsuming(ctx, w.handler.HandleMessage)
}

// Stop closes the underlying consumer.
func (w *NotificationWorker) Stop() error {
	w.logger.Info("Stopping notification worker")
	return w.consumer.Close()
}

func (w *NotificationWorker) handleOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	// The inbox message leads with the first product and sums the line
	// items only, without shipping.
	firstName := "Product"
	if len(event.Items) > 0 && event.Items[0].Name != "" {
		firstName = event.Items[0].Name
	}
	var itemsTotal int64
	for _, it := range event.Items {
		amount := it.Amount
		if amount <= 0 {
			amount = 1
		}
		itemsTotal += it.Price * int64(amount)
	}

	title := "Order placed"
	message := fmt.Sprintf("Order %s... placed successfully! Total: %d$", firstName, itemsTotal)
	w.deliver(ctx, event.UserID, title, message)

	w.notifyOps(ctx, fmt.Sprintf("New order %s: %d item(s), total %d",
		event.OrderID, len(event.Items), event.TotalPrice))
	return nil
}

func (w *NotificationWorker) handleOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	title := "Order " + event.Status
	message := fmt.Sprintf("Your order %s is now %s.", event.OrderID, event.Status)
	w.deliver(ctx, event.UserID, title, message)
	return nil
}

func (w *NotificationWorker) handleOrderDeleted(ctx context.Context, event *models.OrderDeletedEvent) error {
	title := "Order cancelled"
	message := fmt.Sprintf("Your order %s was deleted and its %d item(s) were returned to stock.",
		event.OrderID, len(event.Items))
	w.deliver(ctx, event.UserID, title, message)

	w.notifyOps(ctx, fmt.Sprintf("Order %s deleted, %d item(s) restocked",
		event.OrderID, len(event.Items)))
	return nil
}

func (w *NotificationWorker) handleOrderPaid(ctx context.Context, event *models.OrderPaidEvent) error {
	title := "Payment received"
	message := fmt.Sprintf("Payment of %d for order %s was received.",
		event.TotalPrice, event.OrderID)
	w.deliver(ctx, event.UserID, title, message)
	return nil
}

// deliver persists the notification and fans it out to push subscribers.
func (w *NotificationWorker) deliver(ctx context.Context, userID, title, message string) {
	if _, err := w.notifications.Record(ctx, userID, title, message); err != nil {
		util.NotificationsFailedTotal.WithLabelValues("inbox").Inc()
		w.logger.Error("Failed to record notification",
			zap.String("user_id", userID),
			zap.String("title", title),
			zap.Error(err))
	} else {
		util.NotificationsSentTotal.WithLabelValues("inbox").Inc()
	}

	if w.push != nil {
		w.push.Broadcast(notify.PushMessage{Title: title, Body: message})
	}
}

// notifyOps forwards admin-relevant events to the Telegram channel.
func (w *NotificationWorker) notifyOps(ctx context.Context, message string) {
	if w.telegram == nil {
		return
	}
	if err := w.telegram.Send(ctx, message); err != nil {
		w.logger.Error("Failed to send telegram notification", zap.Error(err))
	}
}
