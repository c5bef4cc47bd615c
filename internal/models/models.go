package models

import "time"

// Product represents a catalog entry. CountInStock and Sold move in lockstep
// and opposite direction on every order create/delete; CountInStock never
// goes negative (the guard lives in the conditional UPDATE, not here).
type Product struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Image        string    `db:"image" json:"image"`
	Type         string    `db:"type" json:"type"`
	Price        int64     `db:"price" json:"price"`
	CountInStock int       `db:"count_in_stock" json:"countInStock"`
	Sold         int       `db:"sold" json:"sold"`
	Rating       float64   `db:"rating" json:"rating"`
	Description  string    `db:"description" json:"description"`
	Discount     int       `db:"discount" json:"discount"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// User represents an account. IsAdmin grants override access to all orders.
type User struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Password  string    `db:"password" json:"-"`
	IsAdmin   bool      `db:"is_admin" json:"isAdmin"`
	Phone     string    `db:"phone" json:"phone"`
	Address   string    `db:"address" json:"address,omitempty"`
	City      string    `db:"city" json:"city,omitempty"`
	Avatar    string    `db:"avatar" json:"avatar,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ShippingAddress is embedded in an order.
type ShippingAddress struct {
	FullName string `db:"full_name" json:"fullName"`
	Address  string `db:"address" json:"address"`
	City     string `db:"city" json:"city"`
	Phone    string `db:"phone" json:"phone"`
}

// Order represents a placed purchase. An order is exclusively owned by
// UserID; mutations are scoped by the admin-or-owner rule.
type Order struct {
	ID              string `db:"id" json:"id"`
	UserID          string `db:"user_id" json:"user"`
	ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string      `db:"payment_method" json:"paymentMethod"`
	ItemsPrice      int64       `db:"items_price" json:"itemsPrice"`
	ShippingPrice   int64       `db:"shipping_price" json:"shippingPrice"`
	TotalPrice      int64       `db:"total_price" json:"totalPrice"`
	IsPaid          bool        `db:"is_paid" json:"isPaid"`
	PaidAt          *time.Time  `db:"paid_at" json:"paidAt,omitempty"`
	PaymentStatus   string      `db:"payment_status" json:"paymentStatus"`
	OrderStatus     string      `db:"order_status" json:"orderStatus"`
	ConfirmedAt     *time.Time  `db:"confirmed_at" json:"confirmedAt,omitempty"`
	ShippedAt       *time.Time  `db:"shipped_at" json:"shippedAt,omitempty"`
	DeliveredAt     *time.Time  `db:"delivered_at" json:"deliveredAt,omitempty"`
	CancelledAt     *time.Time  `db:"cancelled_at" json:"cancelledAt,omitempty"`
	Items           []OrderItem `db:"-" json:"orderItems,omitempty"`
	CreatedAt       time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updated_at"`
}

// OrderItem represents one reserved line item of an order.
type OrderItem struct {
	ID        string `db:"id" json:"id"`
	OrderID   string `db:"order_id" json:"order_id"`
	ProductID string `db:"product_id" json:"product"`
	Name      string `db:"name" json:"name"`
	Amount    int    `db:"amount" json:"amount"`
	Price     int64  `db:"price" json:"price"`
}

// Notification is a persisted per-user message produced by the
// notification side-channel.
type Notification struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	IsRead    bool      `db:"is_read" json:"isRead"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Order statuses
const (
	OrderStatusPending   = "Pending"
	OrderStatusConfirmed = "Confirmed"
	OrderStatusShipping  = "Shipping"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

// ValidOrderStatuses lists every accepted target status. Transitions are not
// restricted by the current status: any of these may be applied to any order.
var ValidOrderStatuses = []string{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusShipping,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// IsValidOrderStatus reports whether s is one of the five order statuses.
func IsValidOrderStatus(s string) bool {
	for _, v := range ValidOrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Payment statuses
const (
	PaymentStatusUnpaid = "Unpaid"
	PaymentStatusPaid   = "Paid"
)

// Payment methods
const (
	PaymentMethodCash   = "cash"
	PaymentMethodPayPal = "paypal"
)
