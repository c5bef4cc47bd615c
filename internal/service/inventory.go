package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mobilestore/internal/models"
	"mobilestore/internal/store"
	"mobilestore/internal/util"

	"go.uber.org/zap"
)

// ErrNotAvailable signals a failed reservation or release: the conditional
// guard did not hold, or the product does not exist.
var ErrNotAvailable = store.ErrNotAvailable

type stockStore interface {
	ReserveStock(ctx context.Context, productID string, amount int) (*models.Product, error)
	ReleaseStock(ctx context.Context, productID string, amount int) (*models.Product, error)
}

type stockMirror interface {
	ApplyStockDelta(ctx context.Context, productID string, stockDelta, soldDelta int) error
}

// InventoryService is the inventory ledger accessor. Every mutation of the
// countInStock/sold pair goes through one conditional UPDATE in the store;
// the service only adds metrics, tracing and the best-effort Redis mirror.
type InventoryService struct {
	store  stockStore
	mirror stockMirror
	logger *zap.Logger
}

// NewInventoryService creates the ledger. mirror may be nil when Redis is
// not available.
func NewInventoryService(store stockStore, mirror stockMirror) *InventoryService {
	return &InventoryService{
		store:  store,
		mirror: mirror,
		logger: util.GetLogger(),
	}
}

// Reserve atomically decrements stock and increments sold for one product,
// guarded so stock can never go negative. Returns the updated product
// snapshot, or ErrNotAvailable when the guard fails (including an unknown
// product id).
func (iv *InventoryService) Reserve(ctx context.Context, productID string, amount int) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.Reserve")
	defer span.End()

	start := time.Now()
	defer func() {
		util.InventoryReserveLatency.Observe(time.Since(start).Seconds())
	}()

	product, err := iv.store.ReserveStock(ctx, productID, amount)
	if err != nil {
		if errors.Is(err, ErrNotAvailable) {
			util.InventoryReservationsFailed.WithLabelValues("insufficient_stock").Inc()
			return nil, ErrNotAvailable
		}
		util.InventoryReservationsFailed.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to reserve stock for product %s: %w", productID, err)
	}

	iv.syncMirror(product.ID, -amount, amount)
	return product, nil
}

// Release is the compensation inverse of Reserve, guarded by sold >= amount.
func (iv *InventoryService) Release(ctx context.Context, productID string, amount int) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.Release")
	defer span.End()

	product, err := iv.store.ReleaseStock(ctx, productID, amount)
	if err != nil {
		if errors.Is(err, ErrNotAvailable) {
			return nil, ErrNotAvailable
		}
		return nil, fmt.Errorf("failed to release stock for product %s: %w", productID, err)
	}

	iv.syncMirror(product.ID, amount, -amount)
	return product, nil
}

// syncMirror pushes the committed delta to the Redis mirror without holding
// up the request. The mirror is read-only convenience state; losing an
// update only leaves the catalog view stale until the next write.
func (iv *InventoryService) syncMirror(productID string, stockDelta, soldDelta int) {
	if iv.mirror == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := iv.mirror.ApplyStockDelta(ctx, productID, stockDelta, soldDelta); err != nil {
			iv.logger.Warn("Failed to sync stock mirror",
				zap.String("product_id", productID),
				zap.Error(err))
		}
	}()
}
