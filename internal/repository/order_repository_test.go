package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"honey-shop/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newTestOrder(email string, items ...domain.OrderItem) *domain.Order {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return &domain.Order{
		ID: uuid.New(),
		Customer: domain.Customer{
			Name:    "Ivan",
			Email:   email,
			Phone:   "+7 900 000 00 00",
			Address: "Apiary lane 1",
		},
		Items:       items,
		TotalAmount: total,
		Status:      domain.OrderStatusPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

func TestOrderRepository_CreateAndFind(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	products := NewProductRepository(testDB)
	orders := NewOrderRepository(testDB)

	flower := newTestProduct("Flower", 650, 50)
	linden := newTestProduct("Linden", 750, 30)
	for _, p := range []*domain.Product{flower, linden} {
		if err := products.Create(ctx, p); err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}

	order := newTestOrder("buyer@honey.com",
		domain.OrderItem{ProductID: linden.ID, Quantity: 1, Price: linden.Price},
		domain.OrderItem{ProductID: flower.ID, Quantity: 3, Price: flower.Price},
	)
	if err := orders.Create(ctx, order); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	got, err := orders.FindByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("find order failed: %v", err)
	}

	if !got.TotalAmount.Equal(decimal.NewFromInt(2700)) {
		t.Errorf("expected total 2700, got %s", got.TotalAmount)
	}
	if got.Status != domain.OrderStatusPending {
		t.Errorf("expected pending, got %s", got.Status)
	}
	if got.Customer != order.Customer {
		t.Errorf("customer mismatch: %+v", got.Customer)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got.Items))
	}
	if got.Items[0].ProductName != "Linden" || got.Items[1].ProductName != "Flower" {
		t.Errorf("items not in placement order or names missing: %+v", got.Items)
	}

	status, err := orders.FindStatus(ctx, order.ID)
	if err != nil || status != domain.OrderStatusPending {
		t.Errorf("FindStatus returned %s, %v", status, err)
	}
}

func TestOrderRepository_NotFound(t *testing.T) {
	orders := NewOrderRepository(testDB)
	ctx := context.Background()

	if _, err := orders.FindByID(ctx, uuid.New()); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("FindByID: expected ErrOrderNotFound, got %v", err)
	}
	if _, err := orders.FindStatus(ctx, uuid.New()); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("FindStatus: expected ErrOrderNotFound, got %v", err)
	}
	if err := orders.UpdateStatus(ctx, uuid.New(), domain.OrderStatusShipped); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("UpdateStatus: expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_ListingAndStatusUpdate(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	products := NewProductRepository(testDB)
	orders := NewOrderRepository(testDB)

	p := newTestProduct("Acacia", 800, 25)
	if err := products.Create(ctx, p); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	older := newTestOrder("a@honey.com", domain.OrderItem{ProductID: p.ID, Quantity: 1, Price: p.Price})
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := newTestOrder("a@honey.com", domain.OrderItem{ProductID: p.ID, Quantity: 2, Price: p.Price})
	other := newTestOrder("b@honey.com", domain.OrderItem{ProductID: p.ID, Quantity: 1, Price: p.Price})
	for _, o := range []*domain.Order{older, newer, other} {
		if err := orders.Create(ctx, o); err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}

	mine, err := orders.ListByCustomerEmail(ctx, "a@honey.com")
	if err != nil {
		t.Fatalf("list by email failed: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != newer.ID || mine[1].ID != older.ID {
		t.Errorf("expected newest-first orders for a@honey.com, got %d", len(mine))
	}
	for _, o := range mine {
		if len(o.Items) != 1 {
			t.Errorf("order %s has %d items", o.ID, len(o.Items))
		}
	}

	all, err := orders.ListAll(ctx)
	if err != nil {
		t.Fatalf("list all failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 orders, got %d", len(all))
	}

	if err := orders.UpdateStatus(ctx, other.ID, domain.OrderStatusProcessing); err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	status, _ := orders.FindStatus(ctx, other.ID)
	if status != domain.OrderStatusProcessing {
		t.Errorf("expected processing, got %s", status)
	}

	empty, err := orders.ListByCustomerEmail(ctx, "nobody@honey.com")
	if err != nil || len(empty) != 0 {
		t.Errorf("expected no orders, got %d, %v", len(empty), err)
	}
}
