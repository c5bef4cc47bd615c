package store

import (
	"context"
	"os"
	"testing"
	"time"

	"mobilestore/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("Integration test - set TEST_DATABASE_URL to run")
	}
	s, err := NewStore(url)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedProduct(t *testing.T, s *Store, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		ID:           uuid.New().String(),
		Name:         "iPhone 15 " + uuid.New().String()[:8],
		Image:        "iphone.png",
		Type:         "phone",
		Price:        999,
		CountInStock: stock,
	}
	require.NoError(t, s.CreateProduct(context.Background(), p))
	return p
}

func TestReserveStock(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	p := seedProduct(t, s, 5)

	updated, err := s.ReserveStock(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.CountInStock)
	assert.Equal(t, 2, updated.Sold)

	// Guard failure leaves the row untouched.
	_, err = s.ReserveStock(ctx, p.ID, 4)
	assert.ErrorIs(t, err, ErrNotAvailable)

	after, err := s.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, after.CountInStock)
	assert.Equal(t, 2, after.Sold)
}

func TestReserveReleaseRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	p := seedProduct(t, s, 10)

	_, err := s.ReserveStock(ctx, p.ID, 4)
	require.NoError(t, err)

	restored, err := s.ReleaseStock(ctx, p.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 10, restored.CountInStock)
	assert.Equal(t, 0, restored.Sold)

	// sold guard: releasing more than was ever sold fails.
	_, err = s.ReleaseStock(ctx, p.ID, 1)
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestConcurrentReservationsNeverOversell(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	p := seedProduct(t, s, 5)

	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func() {
			_, err := s.ReserveStock(ctx, p.ID, 1)
			results <- err
		}()
	}

	var ok int
	for i := 0; i < 10; i++ {
		if err := <-results; err == nil {
			ok++
		}
	}
	assert.Equal(t, 5, ok)

	after, err := s.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, after.CountInStock)
	assert.Equal(t, 5, after.Sold)
}

func TestCreateAndDeleteOrder(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	user := &models.User{
		ID:       uuid.New().String(),
		Name:     "Test",
		Email:    uuid.New().String()[:8] + "@x.com",
		Password: "hash",
		Phone:    uuid.New().String()[:10],
	}
	require.NoError(t, s.CreateUser(ctx, user))

	p := seedProduct(t, s, 5)

	order := &models.Order{
		ID:     uuid.New().String(),
		UserID: user.ID,
		ShippingAddress: models.ShippingAddress{
			FullName: "F", Address: "Addr", City: "C", Phone: "123",
		},
		PaymentMethod: models.PaymentMethodCash,
		ItemsPrice:    10, ShippingPrice: 5, TotalPrice: 15,
		PaymentStatus: models.PaymentStatusUnpaid,
		OrderStatus:   models.OrderStatusPending,
	}
	items := []models.OrderItem{
		{ID: uuid.New().String(), ProductID: p.ID, Name: p.Name, Amount: 2, Price: p.Price},
	}
	require.NoError(t, s.CreateOrder(ctx, order, items))

	// Non-owner, non-admin deletion does not match the scope.
	gone, err := s.DeleteOrder(ctx, order.ID, uuid.New().String(), false)
	require.NoError(t, err)
	assert.Nil(t, gone)

	deleted, err := s.DeleteOrder(ctx, order.ID, user.ID, false)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Len(t, deleted.Items, 1)

	missing, err := s.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpdateOrderStatusStampsTimestamp(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	user := &models.User{
		ID:       uuid.New().String(),
		Name:     "Admin",
		Email:    uuid.New().String()[:8] + "@x.com",
		Password: "hash",
		IsAdmin:  true,
		Phone:    uuid.New().String()[:10],
	}
	require.NoError(t, s.CreateUser(ctx, user))

	order := &models.Order{
		ID:     uuid.New().String(),
		UserID: user.ID,
		ShippingAddress: models.ShippingAddress{
			FullName: "F", Address: "Addr", City: "C", Phone: "123",
		},
		PaymentMethod: models.PaymentMethodCash,
		ItemsPrice:    10, ShippingPrice: 5, TotalPrice: 15,
		PaymentStatus: models.PaymentStatusUnpaid,
		OrderStatus:   models.OrderStatusPending,
	}
	require.NoError(t, s.CreateOrder(ctx, order, nil))

	now := time.Now().UTC()
	updated, err := s.UpdateOrderStatus(ctx, order.ID, user.ID, true, models.OrderStatusConfirmed, now)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, models.OrderStatusConfirmed, updated.OrderStatus)
	require.NotNil(t, updated.ConfirmedAt)
	assert.WithinDuration(t, now, *updated.ConfirmedAt, time.Second)
}
