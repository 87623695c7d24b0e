package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"honey-shop/internal/domain"
)

func TestUnitOfWork_RollsBackOnError(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	products := NewProductRepository(testDB)
	uow := NewUnitOfWork(testDB)

	p := newTestProduct("Buckwheat", 700, 10)
	if err := products.Create(ctx, p); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	boom := errors.New("boom")
	err := uow.Do(ctx, func(ctx context.Context, repos Repositories) error {
		if err := repos.Products.DecrementStock(ctx, p.ID, 4); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, _ := products.FindByID(ctx, p.ID)
	if got.Stock != 10 {
		t.Errorf("expected rollback to keep stock 10, got %d", got.Stock)
	}
}

func TestUnitOfWork_CommitsOnSuccess(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	products := NewProductRepository(testDB)
	uow := NewUnitOfWork(testDB)

	p := newTestProduct("Chestnut", 850, 15)
	if err := products.Create(ctx, p); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	order := newTestOrder("c@honey.com", domain.OrderItem{ProductID: p.ID, Quantity: 5, Price: p.Price})
	err := uow.Do(ctx, func(ctx context.Context, repos Repositories) error {
		if err := repos.Products.DecrementStock(ctx, p.ID, 5); err != nil {
			return err
		}
		return repos.Orders.Create(ctx, order)
	})
	if err != nil {
		t.Fatalf("unit of work failed: %v", err)
	}

	got, _ := products.FindByID(ctx, p.ID)
	if got.Stock != 10 {
		t.Errorf("expected stock 10, got %d", got.Stock)
	}
	if _, err := NewOrderRepository(testDB).FindByID(ctx, order.ID); err != nil {
		t.Errorf("order not committed: %v", err)
	}
}

func TestUnitOfWork_ConcurrentDecrementsDoNotOversell(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	products := NewProductRepository(testDB)
	uow := NewUnitOfWork(testDB)

	p := newTestProduct("Flower", 650, 5)
	if err := products.Create(ctx, p); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	const buyers = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := uow.Do(ctx, func(ctx context.Context, repos Repositories) error {
				product, err := repos.Products.FindByIDForUpdate(ctx, p.ID)
				if err != nil {
					return err
				}
				if product.Stock < 1 {
					return ErrInsufficientStock
				}
				return repos.Products.DecrementStock(ctx, p.ID, 1)
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 5 {
		t.Errorf("expected exactly 5 successful purchases, got %d", succeeded)
	}
	got, _ := products.FindByID(ctx, p.ID)
	if got.Stock != 0 {
		t.Errorf("expected stock 0, got %d", got.Stock)
	}
}
