package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is captured per order; there are no customer accounts.
type Customer struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
}

// OrderItem is one line of an order. Price is the catalog price at the
// moment the order was placed.
type OrderItem struct {
	ProductID   uuid.UUID       `json:"productId" db:"product_id"`
	ProductName string          `json:"productName,omitempty" db:"product_name"`
	Quantity    int             `json:"quantity" db:"quantity"`
	Price       decimal.Decimal `json:"price" db:"price"`
}

// Subtotal returns price × quantity for the line.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order represents a placed order
type Order struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Customer    Customer        `json:"customer"`
	Items       []OrderItem     `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount" db:"total_amount"`
	Status      OrderStatus     `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderLine is a requested (product, quantity) pair at checkout.
type OrderLine struct {
	ProductID uuid.UUID `json:"product" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gte=1"`
}
