package cli

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"stockkeeper/internal/domain"
	"stockkeeper/internal/inventory"
)

var retryBackoffs = []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}

// retryingInventory reruns the write operations of an Inventory while they
// fail with a lock conflict. Reads go straight through.
type retryingInventory struct {
	inventory.Inventory

	maxAttempts int
	isConflict  func(error) bool
	logger      *zap.Logger
	sleep       func(ctx context.Context, d time.Duration) error
}

func newRetryingInventory(next inventory.Inventory, maxAttempts int, isConflict func(error) bool, logger *zap.Logger) inventory.Inventory {
	if maxAttempts <= 1 || isConflict == nil {
		return next
	}
	return &retryingInventory{
		Inventory:   next,
		maxAttempts: maxAttempts,
		isConflict:  isConflict,
		logger:      logger,
		sleep:       sleepCtx,
	}
}

func (r *retryingInventory) CreateProduct(ctx context.Context, draft domain.ProductDraft) (*domain.Product, error) {
	var p *domain.Product
	err := r.do(ctx, "create_product", func() error {
		var err error
		p, err = r.Inventory.CreateProduct(ctx, draft)
		return err
	})
	return p, err
}

func (r *retryingInventory) UpdateProduct(ctx context.Context, product domain.Product) error {
	return r.do(ctx, "update_product", func() error {
		return r.Inventory.UpdateProduct(ctx, product)
	})
}

func (r *retryingInventory) DeleteProduct(ctx context.Context, id int64) error {
	return r.do(ctx, "delete_product", func() error {
		return r.Inventory.DeleteProduct(ctx, id)
	})
}

func (r *retryingInventory) RecordSale(ctx context.Context, productID int64, quantity int, opts ...inventory.SaleOption) (*domain.Sale, error) {
	var sale *domain.Sale
	err := r.do(ctx, "record_sale", func() error {
		var err error
		sale, err = r.Inventory.RecordSale(ctx, productID, quantity, opts...)
		return err
	})
	return sale, err
}

func (r *retryingInventory) do(ctx context.Context, op string, fn func() error) error {
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || attempt >= r.maxAttempts || !r.isConflict(err) {
			return err
		}

		r.logger.Warn("lock conflict, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", r.maxAttempts),
			zap.Error(err),
		)

		if sleepErr := r.sleep(ctx, backoff(attempt)); sleepErr != nil {
			return err
		}
	}
}

// backoff returns the wait before the next attempt with up to 20% jitter.
func backoff(attempt int) time.Duration {
	base := retryBackoffs[len(retryBackoffs)-1]
	if attempt <= len(retryBackoffs) {
		base = retryBackoffs[attempt-1]
	}
	return base + time.Duration(rand.Int64N(int64(base)/5+1))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
