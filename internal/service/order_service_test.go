package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mobilestore/internal/apperr"
	"mobilestore/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLedger is a mutex-guarded in-memory inventory implementing the same
// conditional semantics as the Postgres store.
type fakeLedger struct {
	mu       sync.Mutex
	products map[string]*models.Product
}

func newFakeLedger(products ...*models.Product) *fakeLedger {
	fl := &fakeLedger{products: make(map[string]*models.Product)}
	for _, p := range products {
		fl.products[p.ID] = p
	}
	return fl
}

func (fl *fakeLedger) Reserve(_ context.Context, productID string, amount int) (*models.Product, error) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	p, ok := fl.products[productID]
	if !ok || p.CountInStock < amount {
		return nil, ErrNotAvailable
	}
	p.CountInStock -= amount
	p.Sold += amount
	cp := *p
	return &cp, nil
}

func (fl *fakeLedger) Release(_ context.Context, productID string, amount int) (*models.Product, error) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	p, ok := fl.products[productID]
	if !ok || p.Sold < amount {
		return nil, ErrNotAvailable
	}
	p.CountInStock += amount
	p.Sold -= amount
	cp := *p
	return &cp, nil
}

func (fl *fakeLedger) snapshot(productID string) models.Product {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return *fl.products[productID]
}

type fakeOrderStore struct {
	mu     sync.Mutex
	orders map[string]*models.Order
	items  map[string][]models.OrderItem

	createErr error
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		orders: make(map[string]*models.Order),
		items:  make(map[string][]models.OrderItem),
	}
}

func (fs *fakeOrderStore) CreateOrder(_ context.Context, order *models.Order, items []models.OrderItem) error {
	if fs.createErr != nil {
		return fs.createErr
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	cp := *order
	fs.orders[order.ID] = &cp
	fs.items[order.ID] = items
	return nil
}

func (fs *fakeOrderStore) GetOrderByID(_ context.Context, id string) (*models.Order, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	o, ok := fs.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	cp.Items = fs.items[id]
	return &cp, nil
}

func (fs *fakeOrderStore) GetOrderScoped(_ context.Context, orderID, callerID string, admin bool) (*models.Order, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	o, ok := fs.orders[orderID]
	if !ok || (!admin && o.UserID != callerID) {
		return nil, nil
	}
	cp := *o
	cp.Items = fs.items[orderID]
	return &cp, nil
}

func (fs *fakeOrderStore) ListOrders(_ context.Context) ([]models.Order, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	var out []models.Order
	for _, o := range fs.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (fs *fakeOrderStore) ListOrdersByUser(_ context.Context, userID string) ([]models.Order, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	var out []models.Order
	for _, o := range fs.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (fs *fakeOrderStore) UpdateOrderStatus(_ context.Context, orderID, callerID string, admin bool, status string, now time.Time) (*models.Order, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	o, ok := fs.orders[orderID]
	if !ok || (!admin && o.UserID != callerID) {
		return nil, nil
	}
	o.OrderStatus = status
	switch status {
	case models.OrderStatusConfirmed:
		o.ConfirmedAt = &now
	case models.OrderStatusShipping:
		o.ShippedAt = &now
	case models.OrderStatusDelivered:
		o.DeliveredAt = &now
	case models.OrderStatusCancelled:
		o.CancelledAt = &now
	}
	cp := *o
	return &cp, nil
}

func (fs *fakeOrderStore) DeleteOrder(_ context.Context, orderID, callerID string, admin bool) (*models.Order, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	o, ok := fs.orders[orderID]
	if !ok || (!admin && o.UserID != callerID) {
		return nil, nil
	}
	cp := *o
	cp.Items = fs.items[orderID]
	delete(fs.orders, orderID)
	delete(fs.items, orderID)
	return &cp, nil
}

func (fs *fakeOrderStore) SetPaymentStatus(_ context.Context, orderID, status string, now time.Time) (*models.Order, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	o, ok := fs.orders[orderID]
	if !ok {
		return nil, nil
	}
	o.PaymentStatus = status
	if status == models.PaymentStatusPaid {
		o.IsPaid = true
		o.PaidAt = &now
	}
	cp := *o
	return &cp, nil
}

type fakeUsers struct {
	users map[string]*models.User
}

func (fu *fakeUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	return fu.users[id], nil
}

type fakePublisher struct {
	mu            sync.Mutex
	created       []*models.OrderCreatedEvent
	statusChanged []*models.OrderStatusChangedEvent
	deleted       []*models.OrderDeletedEvent
	paid          []*models.OrderPaidEvent
}

func (fp *fakePublisher) PublishOrderCreated(_ context.Context, e *models.OrderCreatedEvent) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.created = append(fp.created, e)
	return nil
}

func (fp *fakePublisher) PublishOrderStatusChanged(_ context.Context, e *models.OrderStatusChangedEvent) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.statusChanged = append(fp.statusChanged, e)
	return nil
}

func (fp *fakePublisher) PublishOrderDeleted(_ context.Context, e *models.OrderDeletedEvent) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.deleted = append(fp.deleted, e)
	return nil
}

func (fp *fakePublisher) PublishOrderPaid(_ context.Context, e *models.OrderPaidEvent) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.paid = append(fp.paid, e)
	return nil
}

type fakeMailer struct {
	sent chan string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan string, 8)}
}

func (fm *fakeMailer) SendOrderConfirmation(_ *models.Order, recipient string) error {
	fm.sent <- recipient
	return nil
}

func testProduct(stock int) *models.Product {
	return &models.Product{
		ID:           uuid.New().String(),
		Name:         "iPhone 15",
		Price:        999,
		CountInStock: stock,
	}
}

func validRequest(userID string, items ...OrderItemRequest) *CreateOrderRequest {
	return &CreateOrderRequest{
		OrderItems:    items,
		PaymentMethod: models.PaymentMethodCash,
		ItemsPrice:    999,
		ShippingPrice: 10,
		TotalPrice:    1009,
		Email:         "buyer@example.com",
		FullName:      "Jane Buyer",
		Address:       "1 Main St",
		City:          "Jakarta",
		Phone:         "0812345678",
		UserID:        userID,
	}
}

func TestCreateOrderMissingParams(t *testing.T) {
	svc := NewOrderService(newFakeOrderStore(), &fakeUsers{}, newFakeLedger(), nil, nil)

	req := validRequest(uuid.New().String(), OrderItemRequest{ProductID: uuid.New().String(), Amount: 1})
	req.Phone = ""

	_, err := svc.CreateOrder(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
	assert.Equal(t, "Missing required params", apperr.MessageOf(err))
}

func TestCreateOrderReservesStock(t *testing.T) {
	product := testProduct(5)
	ledger := newFakeLedger(product)
	orders := newFakeOrderStore()
	publisher := &fakePublisher{}
	svc := NewOrderService(orders, &fakeUsers{}, ledger, publisher, nil)

	userID := uuid.New().String()
	req := validRequest(userID, OrderItemRequest{
		Name:      product.Name,
		ProductID: product.ID,
		Amount:    2,
		Price:     product.Price,
	})

	result, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result.Order)
	assert.Empty(t, result.MissingNames)
	assert.Equal(t, models.OrderStatusPending, result.Order.OrderStatus)
	assert.Equal(t, models.PaymentStatusUnpaid, result.Order.PaymentStatus)

	after := ledger.snapshot(product.ID)
	assert.Equal(t, 3, after.CountInStock)
	assert.Equal(t, 2, after.Sold)

	require.Len(t, publisher.created, 1)
	assert.Equal(t, result.Order.ID, publisher.created[0].OrderID)
}

func TestCreateOrderAllItemsSoldOut(t *testing.T) {
	product := testProduct(1)
	ledger := newFakeLedger(product)
	orders := newFakeOrderStore()
	svc := NewOrderService(orders, &fakeUsers{}, ledger, nil, nil)

	req := validRequest(uuid.New().String(), OrderItemRequest{
		Name:      product.Name,
		ProductID: product.ID,
		Amount:    2,
		Price:     product.Price,
	})

	_, err := svc.CreateOrder(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))

	// Failed guard leaves the ledger untouched and nothing is persisted.
	after := ledger.snapshot(product.ID)
	assert.Equal(t, 1, after.CountInStock)
	assert.Equal(t, 0, after.Sold)
	assert.Empty(t, orders.orders)
}

func TestCreateOrderPartialSuccess(t *testing.T) {
	inStock := testProduct(10)
	soldOut := testProduct(0)
	soldOut.Name = "Galaxy S24"
	ledger := newFakeLedger(inStock, soldOut)
	svc := NewOrderService(newFakeOrderStore(), &fakeUsers{}, ledger, nil, nil)

	req := validRequest(uuid.New().String(),
		OrderItemRequest{Name: inStock.Name, ProductID: inStock.ID, Amount: 1, Price: inStock.Price},
		OrderItemRequest{Name: soldOut.Name, ProductID: soldOut.ID, Amount: 1, Price: soldOut.Price},
	)

	result, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, inStock.ID, result.Items[0].ProductID)
	assert.Equal(t, []string{"Galaxy S24"}, result.MissingNames)
	assert.Contains(t, result.Message(), "1 item(s)")
	assert.Contains(t, result.Message(), "Galaxy S24")
}

func TestCreateOrderMalformedItemDropped(t *testing.T) {
	product := testProduct(5)
	ledger := newFakeLedger(product)
	svc := NewOrderService(newFakeOrderStore(), &fakeUsers{}, ledger, nil, nil)

	req := validRequest(uuid.New().String(),
		OrderItemRequest{Name: product.Name, ProductID: product.ID, Amount: 1, Price: product.Price},
		OrderItemRequest{Name: "ghost", ProductID: "", Amount: 0},
	)

	result, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, []string{"ghost"}, result.MissingNames)
}

func TestCreateOrderNeverOversells(t *testing.T) {
	product := testProduct(5)
	ledger := newFakeLedger(product)
	svc := NewOrderService(newFakeOrderStore(), &fakeUsers{}, ledger, nil, nil)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := validRequest(uuid.New().String(), OrderItemRequest{
				Name:      product.Name,
				ProductID: product.ID,
				Amount:    1,
				Price:     product.Price,
			})
			if _, err := svc.CreateOrder(context.Background(), req); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	after := ledger.snapshot(product.ID)
	assert.Equal(t, 0, after.CountInStock)
	assert.Equal(t, 5, after.Sold)
}

func TestCreateOrderSendsConfirmationMail(t *testing.T) {
	product := testProduct(5)
	mailer := newFakeMailer()
	svc := NewOrderService(newFakeOrderStore(), &fakeUsers{}, newFakeLedger(product), nil, mailer)

	req := validRequest(uuid.New().String(), OrderItemRequest{
		Name:      product.Name,
		ProductID: product.ID,
		Amount:    1,
		Price:     product.Price,
	})

	_, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)

	select {
	case recipient := <-mailer.sent:
		assert.Equal(t, "buyer@example.com", recipient)
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation mail was never sent")
	}
}

func TestCreateOrderPersistFailureKeepsReservation(t *testing.T) {
	product := testProduct(5)
	ledger := newFakeLedger(product)
	orders := newFakeOrderStore()
	orders.createErr = errors.New("db down")
	svc := NewOrderService(orders, &fakeUsers{}, ledger, nil, nil)

	req := validRequest(uuid.New().String(), OrderItemRequest{
		Name:      product.Name,
		ProductID: product.ID,
		Amount:    2,
		Price:     product.Price,
	})

	_, err := svc.CreateOrder(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInternal, apperr.CodeOf(err))

	// The reservation is not rolled back on a persist failure.
	after := ledger.snapshot(product.ID)
	assert.Equal(t, 3, after.CountInStock)
}

func createOrderForTest(t *testing.T, svc *OrderService, ledger *fakeLedger, product *models.Product, userID string, amount int) *models.Order {
	t.Helper()
	req := validRequest(userID, OrderItemRequest{
		Name:      product.Name,
		ProductID: product.ID,
		Amount:    amount,
		Price:     product.Price,
	})
	result, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	return result.Order
}

func TestDeleteOrderRestoresStock(t *testing.T) {
	product := testProduct(5)
	ledger := newFakeLedger(product)
	orders := newFakeOrderStore()
	owner := uuid.New().String()
	users := &fakeUsers{users: map[string]*models.User{owner: {ID: owner}}}
	publisher := &fakePublisher{}
	svc := NewOrderService(orders, users, ledger, publisher, nil)

	order := createOrderForTest(t, svc, ledger, product, owner, 2)
	require.Equal(t, 3, ledger.snapshot(product.ID).CountInStock)

	deleted, err := svc.DeleteOrder(context.Background(), order.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, order.ID, deleted.ID)

	after := ledger.snapshot(product.ID)
	assert.Equal(t, 5, after.CountInStock)
	assert.Equal(t, 0, after.Sold)
	require.Len(t, publisher.deleted, 1)
}

func TestDeleteOrderDeniedForNonOwner(t *testing.T) {
	product := testProduct(5)
	ledger := newFakeLedger(product)
	orders := newFakeOrderStore()
	owner := uuid.New().String()
	stranger := uuid.New().String()
	users := &fakeUsers{users: map[string]*models.User{
		owner:    {ID: owner},
		stranger: {ID: stranger},
	}}
	svc := NewOrderService(orders, users, ledger, nil, nil)

	order := createOrderForTest(t, svc, ledger, product, owner, 2)

	_, err := svc.DeleteOrder(context.Background(), order.ID, stranger)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	// Denied delete must not touch inventory.
	assert.Equal(t, 3, ledger.snapshot(product.ID).CountInStock)
}

func TestDeleteOrderAdminBypassesOwnership(t *testing.T) {
	product := testProduct(5)
	ledger := newFakeLedger(product)
	orders := newFakeOrderStore()
	owner := uuid.New().String()
	admin := uuid.New().String()
	users := &fakeUsers{users: map[string]*models.User{
		owner: {ID: owner},
		admin: {ID: admin, IsAdmin: true},
	}}
	svc := NewOrderService(orders, users, ledger, nil, nil)

	order := createOrderForTest(t, svc, ledger, product, owner, 1)

	_, err := svc.DeleteOrder(context.Background(), order.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, 5, ledger.snapshot(product.ID).CountInStock)
}

func TestDeleteOrderInvalidID(t *testing.T) {
	svc := NewOrderService(newFakeOrderStore(), &fakeUsers{}, newFakeLedger(), nil, nil)

	_, err := svc.DeleteOrder(context.Background(), "not-a-uuid", uuid.New().String())
	require.Error(t, err)
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}

func TestUpdateOrderStatus(t *testing.T) {
	product := testProduct(5)
	ledger := newFakeLedger(product)
	orders := newFakeOrderStore()
	owner := uuid.New().String()
	admin := uuid.New().String()
	users := &fakeUsers{users: map[string]*models.User{
		owner: {ID: owner},
		admin: {ID: admin, IsAdmin: true},
	}}
	publisher := &fakePublisher{}
	svc := NewOrderService(orders, users, ledger, publisher, nil)

	order := createOrderForTest(t, svc, ledger, product, owner, 1)

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusConfirmed, uuid.New().String())
		require.Error(t, err)
		assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
		assert.Equal(t, "User not found!", apperr.MessageOf(err))
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := svc.UpdateOrderStatus(context.Background(), order.ID, "Teleported", admin)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))
	})

	t.Run("admin confirms and timestamp is stamped", func(t *testing.T) {
		updated, err := svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusConfirmed, admin)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusConfirmed, updated.OrderStatus)
		require.NotNil(t, updated.ConfirmedAt)
		assert.Nil(t, updated.ShippedAt)
		require.Len(t, publisher.statusChanged, 1)
		assert.Equal(t, models.OrderStatusConfirmed, publisher.statusChanged[0].Status)
	})

	t.Run("owner cancels own order", func(t *testing.T) {
		updated, err := svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusCancelled, owner)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusCancelled, updated.OrderStatus)
		require.NotNil(t, updated.CancelledAt)
	})

	t.Run("non-owner denied", func(t *testing.T) {
		stranger := uuid.New().String()
		users.users[stranger] = &models.User{ID: stranger}
		_, err := svc.UpdateOrderStatus(context.Background(), order.ID, models.OrderStatusShipping, stranger)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
		assert.Equal(t, "Order not found or access denied!", apperr.MessageOf(err))
	})
}

func TestUpdatePaymentStatus(t *testing.T) {
	product := testProduct(5)
	ledger := newFakeLedger(product)
	orders := newFakeOrderStore()
	owner := uuid.New().String()
	users := &fakeUsers{users: map[string]*models.User{owner: {ID: owner}}}
	publisher := &fakePublisher{}
	svc := NewOrderService(orders, users, ledger, publisher, nil)

	order := createOrderForTest(t, svc, ledger, product, owner, 1)

	t.Run("not found", func(t *testing.T) {
		_, err := svc.UpdatePaymentStatus(context.Background(), uuid.New().String(), models.PaymentStatusPaid)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
	})

	t.Run("mark paid", func(t *testing.T) {
		updated, err := svc.UpdatePaymentStatus(context.Background(), order.ID, models.PaymentStatusPaid)
		require.NoError(t, err)
		assert.True(t, updated.IsPaid)
		assert.Equal(t, models.PaymentStatusPaid, updated.PaymentStatus)
		require.NotNil(t, updated.PaidAt)
		require.Len(t, publisher.paid, 1)
	})

	t.Run("paid is immutable", func(t *testing.T) {
		current, err := svc.UpdatePaymentStatus(context.Background(), order.ID, models.PaymentStatusUnpaid)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
		require.NotNil(t, current)
		assert.Equal(t, models.PaymentStatusPaid, current.PaymentStatus)
	})
}

func TestGetDetailOrderScoping(t *testing.T) {
	product := testProduct(5)
	ledger := newFakeLedger(product)
	orders := newFakeOrderStore()
	owner := uuid.New().String()
	stranger := uuid.New().String()
	users := &fakeUsers{users: map[string]*models.User{
		owner:    {ID: owner},
		stranger: {ID: stranger},
	}}
	svc := NewOrderService(orders, users, ledger, nil, nil)

	order := createOrderForTest(t, svc, ledger, product, owner, 1)

	got, err := svc.GetDetailOrder(context.Background(), order.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = svc.GetDetailOrder(context.Background(), order.ID, stranger)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestGetOrdersByUserID(t *testing.T) {
	product := testProduct(20)
	ledger := newFakeLedger(product)
	orders := newFakeOrderStore()
	owner := uuid.New().String()
	users := &fakeUsers{users: map[string]*models.User{owner: {ID: owner}}}
	svc := NewOrderService(orders, users, ledger, nil, nil)

	for i := 0; i < 3; i++ {
		createOrderForTest(t, svc, ledger, product, owner, 1)
	}

	got, err := svc.GetOrdersByUserID(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = svc.GetOrdersByUserID(context.Background(), uuid.New().String())
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestGetAllOrders(t *testing.T) {
	product := testProduct(20)
	ledger := newFakeLedger(product)
	orders := newFakeOrderStore()
	svc := NewOrderService(orders, &fakeUsers{}, ledger, nil, nil)

	for i := 0; i < 4; i++ {
		createOrderForTest(t, svc, ledger, product, uuid.New().String(), 1)
	}

	page, err := svc.GetAllOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, page.TotalOrders)
	assert.Len(t, page.Orders, 4)
}

func TestReserveReleaseRoundTrip(t *testing.T) {
	product := testProduct(5)
	ledger := newFakeLedger(product)

	for i := 0; i < 3; i++ {
		_, err := ledger.Reserve(context.Background(), product.ID, 1)
		require.NoError(t, err)
	}
	for i := 0; i < 3; i++ {
		_, err := ledger.Release(context.Background(), product.ID, 1)
		require.NoError(t, err)
	}

	after := ledger.snapshot(product.ID)
	assert.Equal(t, 5, after.CountInStock)
	assert.Equal(t, 0, after.Sold)

	// Releasing past sold trips the guard.
	_, err := ledger.Release(context.Background(), product.ID, 1)
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestCreateOrderIsPaidUpfront(t *testing.T) {
	product := testProduct(5)
	svc := NewOrderService(newFakeOrderStore(), &fakeUsers{}, newFakeLedger(product), nil, nil)

	req := validRequest(uuid.New().String(), OrderItemRequest{
		Name:      product.Name,
		ProductID: product.ID,
		Amount:    1,
		Price:     product.Price,
	})
	req.PaymentMethod = models.PaymentMethodPayPal
	req.IsPaid = true

	result, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.Order.IsPaid)
	assert.Equal(t, models.PaymentStatusPaid, result.Order.PaymentStatus)
	require.NotNil(t, result.Order.PaidAt)
}
