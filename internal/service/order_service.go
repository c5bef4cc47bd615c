package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"mobilestore/internal/apperr"
	"mobilestore/internal/models"
	"mobilestore/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService handles the order lifecycle: creation with per-item inventory
// reconciliation, status transitions, deletion with stock compensation, and
// payment status updates.
type OrderService struct {
	orders    OrderStore
	users     UserDirectory
	ledger    InventoryLedger
	publisher OrderEventPublisher
	mailer    OrderMailer
	logger    *zap.Logger
}

// NewOrderService creates a new order service. publisher and mailer may be
// nil; both are best-effort collaborators.
func NewOrderService(
	orders OrderStore,
	users UserDirectory,
	ledger InventoryLedger,
	publisher OrderEventPublisher,
	mailer OrderMailer,
) *OrderService {
	return &OrderService{
		orders:    orders,
		users:     users,
		ledger:    ledger,
		publisher: publisher,
		mailer:    mailer,
		logger:    util.GetLogger(),
	}
}

// CreateOrderRequest is the raw order submitted by a customer.
type CreateOrderRequest struct {
	OrderItems    []OrderItemRequest `json:"orderItems"`
	PaymentMethod string             `json:"paymentMethod"`
	ItemsPrice    int64              `json:"itemsPrice"`
	ShippingPrice int64              `json:"shippingPrice"`
	TotalPrice    int64              `json:"totalPrice"`
	Email         string             `json:"email"`
	FullName      string             `json:"fullName"`
	Address       string             `json:"address"`
	City          string             `json:"city"`
	Phone         string             `json:"phone"`
	UserID        string             `json:"user"`
	IsPaid        bool               `json:"isPaid"`
}

// OrderItemRequest is one requested line item.
type OrderItemRequest struct {
	Name      string `json:"name"`
	ProductID string `json:"product"`
	Amount    int    `json:"amount"`
	Price     int64  `json:"price"`
}

// CreateOrderResult carries the persisted order plus the names of items
// dropped because their reservation failed.
type CreateOrderResult struct {
	Order        *models.Order      `json:"order"`
	Items        []models.OrderItem `json:"orderItems"`
	MissingNames []string           `json:"missingProducts,omitempty"`
}

// Message renders the user-facing outcome line for the envelope.
func (r *CreateOrderResult) Message() string {
	if len(r.MissingNames) == 0 {
		return "Order created successfully"
	}
	return fmt.Sprintf("Order created, %d item(s) had insufficient stock: %s",
		len(r.MissingNames), joinNames(r.MissingNames))
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}

func (req *CreateOrderRequest) validate() error {
	switch {
	case len(req.OrderItems) == 0,
		req.PaymentMethod == "",
		req.ItemsPrice == 0,
		req.ShippingPrice == 0,
		req.TotalPrice == 0,
		req.Email == "",
		req.FullName == "",
		req.Address == "",
		req.City == "",
		req.Phone == "",
		req.UserID == "":
		return apperr.Validation("Missing required params")
	}
	return nil
}

type reservationOutcome struct {
	ok   bool
	name string
	item models.OrderItem
}

// CreateOrder reconciles every line item against the inventory ledger and
// persists an order assembled from the items that could be reserved.
// Reservations run concurrently and independently: one item failing does not
// roll back the others; partial success is the designed behavior.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResult, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	if err := req.validate(); err != nil {
		util.OrdersFailedTotal.WithLabelValues("validation").Inc()
		return nil, err
	}

	outcomes := make([]reservationOutcome, len(req.OrderItems))
	var wg sync.WaitGroup
	for i, it := range req.OrderItems {
		wg.Add(1)
		go func(i int, it OrderItemRequest) {
			defer wg.Done()

			// A malformed line item counts as a reservation failure for
			// that item, not a hard validation error for the request.
			if it.ProductID == "" || it.Amount <= 0 {
				outcomes[i] = reservationOutcome{name: it.Name}
				return
			}

			product, err := s.ledger.Reserve(ctx, it.ProductID, it.Amount)
			if err != nil {
				if !errors.Is(err, ErrNotAvailable) {
					s.logger.Error("Reservation error",
						zap.String("product_id", it.ProductID),
						zap.Error(err))
				}
				outcomes[i] = reservationOutcome{name: it.Name}
				return
			}

			outcomes[i] = reservationOutcome{
				ok: true,
				item: models.OrderItem{
					ID:        uuid.New().String(),
					ProductID: product.ID,
					Name:      it.Name,
					Amount:    it.Amount,
					Price:     product.Price,
				},
			}
		}(i, it)
	}
	wg.Wait()

	var (
		items   []models.OrderItem
		missing []string
	)
	for _, out := range outcomes {
		if out.ok {
			items = append(items, out.item)
		} else {
			missing = append(missing, out.name)
		}
	}

	if len(items) == 0 {
		util.OrdersFailedTotal.WithLabelValues("out_of_stock").Inc()
		return nil, apperr.Conflict("The products you selected are sold out or have insufficient stock")
	}

	now := time.Now()
	order := &models.Order{
		ID:     uuid.New().String(),
		UserID: req.UserID,
		ShippingAddress: models.ShippingAddress{
			FullName: req.FullName,
			Address:  req.Address,
			City:     req.City,
			Phone:    req.Phone,
		},
		PaymentMethod: req.PaymentMethod,
		ItemsPrice:    req.ItemsPrice,
		ShippingPrice: req.ShippingPrice,
		TotalPrice:    req.TotalPrice,
		IsPaid:        req.IsPaid,
		PaymentStatus: models.PaymentStatusUnpaid,
		OrderStatus:   models.OrderStatusPending,
	}
	if req.IsPaid {
		order.PaymentStatus = models.PaymentStatusPaid
		order.PaidAt = &now
	}

	if err := s.orders.CreateOrder(ctx, order, items); err != nil {
		// The reservations already committed for this request are left in
		// place: stock was deducted but no order exists. Known trade-off of
		// keeping every reservation an independent atomic step; reconciled
		// manually.
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		s.logger.Error("Failed to persist order, reserved stock left uncompensated",
			zap.String("user_id", req.UserID),
			zap.Int("reserved_items", len(items)),
			zap.Error(err))
		return nil, apperr.Internal("Something went wrong in CreateOrder", err)
	}

	util.OrdersCreatedTotal.Inc()
	if len(missing) > 0 {
		util.OrderItemsDroppedTotal.Add(float64(len(missing)))
	}
	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.Int("items", len(items)),
		zap.Int("dropped", len(missing)))

	if s.mailer != nil {
		go func(order models.Order, email string) {
			if err := s.mailer.SendOrderConfirmation(&order, email); err != nil {
				s.logger.Error("Failed to send confirmation email",
					zap.String("order_id", order.ID),
					zap.Error(err))
			}
		}(*order, req.Email)
	}

	s.publishOrderCreated(ctx, order)

	return &CreateOrderResult{Order: order, Items: items, MissingNames: missing}, nil
}

func (s *OrderService) publishOrderCreated(ctx context.Context, order *models.Order) {
	if s.publisher == nil {
		return
	}
	event := &models.OrderCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCreated,
			Timestamp: time.Now(),
		},
		OrderID:    order.ID,
		UserID:     order.UserID,
		TotalPrice: order.TotalPrice,
		Items:      toItemData(order.Items),
	}
	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
	}
}

func toItemData(items []models.OrderItem) []models.OrderItemData {
	out := make([]models.OrderItemData, 0, len(items))
	for _, it := range items {
		out = append(out, models.OrderItemData{
			ProductID: it.ProductID,
			Name:      it.Name,
			Amount:    it.Amount,
			Price:     it.Price,
		})
	}
	return out
}

// OrdersPage is the listing payload for GetAllOrders.
type OrdersPage struct {
	Orders      []models.Order `json:"orders"`
	TotalOrders int            `json:"totalOrders"`
}

// GetAllOrders retrieves every order, newest first.
func (s *OrderService) GetAllOrders(ctx context.Context) (*OrdersPage, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, apperr.Internal("Something went wrong in GetAllOrders", err)
	}
	return &OrdersPage{Orders: orders, TotalOrders: len(orders)}, nil
}

// GetOrdersByUserID retrieves the orders owned by one user.
func (s *OrderService) GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	if userID == "" {
		return nil, apperr.Validation("Missing required parameter!")
	}
	if !isValidID(userID) {
		return nil, apperr.Validation("Invalid ID format!")
	}

	orders, err := s.orders.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Something went wrong in GetOrdersByUserID", err)
	}
	if len(orders) == 0 {
		return nil, apperr.NotFound("User not existed, or doesnt have any orders!")
	}
	return orders, nil
}

// GetDetailOrder retrieves a single order, scoped by the admin-or-owner
// rule. A missing order and a denied order are indistinguishable.
func (s *OrderService) GetDetailOrder(ctx context.Context, orderID, callerID string) (*models.Order, error) {
	if orderID == "" || callerID == "" {
		return nil, apperr.Validation("Missing required parameter!")
	}
	if !isValidID(orderID) || !isValidID(callerID) {
		return nil, apperr.Validation("Invalid ID format orderId or userId!")
	}

	caller, err := s.users.GetUserByID(ctx, callerID)
	if err != nil {
		return nil, apperr.Internal("Something went wrong in GetDetailOrder", err)
	}

	order, err := s.orders.GetOrderScoped(ctx, orderID, callerID, caller != nil && caller.IsAdmin)
	if err != nil {
		return nil, apperr.Internal("Something went wrong in GetDetailOrder", err)
	}
	if order == nil {
		return nil, apperr.NotFound("Order is not existed!")
	}
	return order, nil
}

// UpdateOrderStatus applies one of the five order statuses, stamping the
// matching timestamp. Any target status is accepted regardless of the
// current one; only membership in the status set is enforced.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID, status, callerID string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateOrderStatus")
	defer span.End()

	if orderID == "" || status == "" || callerID == "" {
		return nil, apperr.Validation("Missing required parameter: orderId, status or userId!")
	}
	if !isValidID(orderID) || !isValidID(callerID) {
		return nil, apperr.Validation("Invalid ID format for orderId or userId!")
	}

	caller, err := s.users.GetUserByID(ctx, callerID)
	if err != nil {
		return nil, apperr.Internal("Something went wrong in UpdateOrderStatus", err)
	}
	if caller == nil {
		return nil, apperr.NotFound("User not found!")
	}

	if !models.IsValidOrderStatus(status) {
		return nil, apperr.Conflict("Invalid status provided!")
	}

	order, err := s.orders.UpdateOrderStatus(ctx, orderID, callerID, caller.IsAdmin, status, time.Now())
	if err != nil {
		return nil, apperr.Internal("Something went wrong in UpdateOrderStatus", err)
	}
	if order == nil {
		return nil, apperr.NotFound("Order not found or access denied!")
	}

	util.OrderStatusUpdatesTotal.WithLabelValues(status).Inc()

	if s.publisher != nil {
		event := &models.OrderStatusChangedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeOrderStatusChanged,
				Timestamp: time.Now(),
			},
			OrderID: order.ID,
			UserID:  order.UserID,
			Status:  status,
		}
		if err := s.publisher.PublishOrderStatusChanged(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
		}
	}

	return order, nil
}

// DeleteOrder removes an order under the admin-or-owner rule and restores
// the inventory of every line item. Each release is independent and
// best-effort: the order is already gone, so a failed release is logged and
// skipped rather than failing the deletion.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID, callerID string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.DeleteOrder")
	defer span.End()

	if orderID == "" || callerID == "" {
		return nil, apperr.Validation("Missing required parameter!")
	}
	if !isValidID(orderID) || !isValidID(callerID) {
		return nil, apperr.Validation("Invalid ID format!")
	}

	caller, err := s.users.GetUserByID(ctx, callerID)
	if err != nil {
		return nil, apperr.Internal("Something went wrong in DeleteOrder", err)
	}

	order, err := s.orders.DeleteOrder(ctx, orderID, callerID, caller != nil && caller.IsAdmin)
	if err != nil {
		return nil, apperr.Internal("Something went wrong in DeleteOrder", err)
	}
	if order == nil {
		return nil, apperr.NotFound("Order not existed to delete!")
	}

	for _, item := range order.Items {
		if item.ProductID == "" || item.Amount <= 0 {
			continue
		}
		if _, err := s.ledger.Release(ctx, item.ProductID, item.Amount); err != nil {
			util.InventoryReleasesFailed.Inc()
			s.logger.Error("Failed to release stock for deleted order",
				zap.String("order_id", order.ID),
				zap.String("product_id", item.ProductID),
				zap.Int("amount", item.Amount),
				zap.Error(err))
		}
	}

	util.OrdersDeletedTotal.Inc()

	if s.publisher != nil {
		event := &models.OrderDeletedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeOrderDeleted,
				Timestamp: time.Now(),
			},
			OrderID: order.ID,
			UserID:  order.UserID,
			Items:   toItemData(order.Items),
		}
		if err := s.publisher.PublishOrderDeleted(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderDeleted event", zap.Error(err))
		}
	}

	return order, nil
}

// UpdatePaymentStatus records a payment status change (COD flow). Once an
// order is Paid its payment status is immutable. On the already-paid error
// the current order is returned alongside the error so callers can show it.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdatePaymentStatus")
	defer span.End()

	if orderID == "" || !isValidID(orderID) {
		return nil, apperr.Validation("Invalid ID format!")
	}
	if status != models.PaymentStatusPaid && status != models.PaymentStatusUnpaid {
		return nil, apperr.Validation("Invalid payment status!")
	}

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, apperr.Internal("Something went wrong in UpdatePaymentStatus", err)
	}
	if order == nil {
		return nil, apperr.Validation("Order not found")
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return order, apperr.Validation("Order has already been paid. Payment status cannot be changed.")
	}

	updated, err := s.orders.SetPaymentStatus(ctx, orderID, status, time.Now())
	if err != nil {
		return nil, apperr.Internal("Something went wrong in UpdatePaymentStatus", err)
	}
	if updated == nil {
		return nil, apperr.Validation("Order not found")
	}

	if status == models.PaymentStatusPaid && s.publisher != nil {
		event := &models.OrderPaidEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeOrderPaid,
				Timestamp: time.Now(),
			},
			OrderID:    updated.ID,
			UserID:     updated.UserID,
			TotalPrice: updated.TotalPrice,
		}
		if err := s.publisher.PublishOrderPaid(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderPaid event", zap.Error(err))
		}
	}

	return updated, nil
}

func isValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
