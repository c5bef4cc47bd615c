package service

import (
	"context"
	"time"

	"mobilestore/internal/models"
)

// The services accept narrow interfaces so the storage, broker and mail
// collaborators can be swapped in tests; *store.Store satisfies the storage
// ones.

// InventoryLedger performs the atomic conditional stock operations.
type InventoryLedger interface {
	Reserve(ctx context.Context, productID string, amount int) (*models.Product, error)
	Release(ctx context.Context, productID string, amount int) (*models.Product, error)
}

// OrderStore persists orders and applies the admin-or-owner scoped
// mutations.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	GetOrderScoped(ctx context.Context, orderID, callerID string, admin bool) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, callerID string, admin bool, status string, now time.Time) (*models.Order, error)
	DeleteOrder(ctx context.Context, orderID, callerID string, admin bool) (*models.Order, error)
	SetPaymentStatus(ctx context.Context, orderID, status string, now time.Time) (*models.Order, error)
}

// UserDirectory resolves callers for authorization decisions.
type UserDirectory interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// OrderMailer delivers the order confirmation mail.
type OrderMailer interface {
	SendOrderConfirmation(order *models.Order, recipient string) error
}

// OrderEventPublisher puts order lifecycle events on the notification
// side-channel.
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
	PublishOrderDeleted(ctx context.Context, event *models.OrderDeletedEvent) error
	PublishOrderPaid(ctx context.Context, event *models.OrderPaidEvent) error
}
