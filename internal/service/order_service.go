package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"honey-shop/internal/domain"
	"honey-shop/internal/events"
	"honey-shop/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProducerName identifies this service in published events
const ProducerName = "honey-api"

// StatusCache caches order statuses for the status lookup endpoint
type StatusCache interface {
	Get(ctx context.Context, orderID uuid.UUID) (domain.OrderStatus, bool, error)
	Set(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error
	// Fill sets the status only if the order has no cached entry yet
	Fill(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error
}

// OrderService defines order placement and lifecycle operations
type OrderService interface {
	PlaceOrder(ctx context.Context, customer domain.Customer, lines []domain.OrderLine) (*domain.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetStatus(ctx context.Context, id uuid.UUID) (domain.OrderStatus, error)
	ListByCustomerEmail(ctx context.Context, email string) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	uow       repository.UnitOfWork
	cache     StatusCache
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewOrderService creates a new instance of OrderService. cache and publisher
// may be nil.
func NewOrderService(
	orderRepo repository.OrderRepository,
	uow repository.UnitOfWork,
	cache StatusCache,
	publisher events.Publisher,
	logger *zap.Logger,
) OrderService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &orderService{
		orderRepo: orderRepo,
		uow:       uow,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// PlaceOrder validates every line against current stock, decrements stock
// and stores a pending order, all in one transaction. Prices come from the
// catalog; a failing line leaves no stock change behind.
func (s *orderService) PlaceOrder(ctx context.Context, customer domain.Customer, lines []domain.OrderLine) (*domain.Order, error) {
	if err := validateOrderRequest(customer, lines); err != nil {
		return nil, err
	}

	now := s.now()
	order := &domain.Order{
		ID:        uuid.New(),
		Customer:  customer,
		Items:     make([]domain.OrderItem, 0, len(lines)),
		Status:    domain.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.uow.Do(ctx, func(ctx context.Context, repos repository.Repositories) error {
		total := decimal.Zero
		order.Items = order.Items[:0]

		for _, line := range lines {
			product, err := repos.Products.FindByIDForUpdate(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, repository.ErrProductNotFound) {
					return fmt.Errorf("product %s: %w", line.ProductID, err)
				}
				return err
			}

			if line.Quantity > product.Stock {
				return &InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   line.Quantity,
					Available:   product.Stock,
				}
			}

			if err := repos.Products.DecrementStock(ctx, product.ID, line.Quantity); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					return &InsufficientStockError{
						ProductID:   product.ID,
						ProductName: product.Name,
						Requested:   line.Quantity,
						Available:   product.Stock,
					}
				}
				return err
			}

			item := domain.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				Price:       product.Price,
			}
			total = total.Add(item.Subtotal())
			order.Items = append(order.Items, item)
		}

		order.TotalAmount = total
		return repos.Orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("total", order.TotalAmount.String()),
		zap.Int("items", len(order.Items)),
	)

	s.cacheStatus(ctx, order.ID, order.Status)
	s.publish(ctx, events.EventOrderPlaced, order.ID, placedPayload(order))

	return order, nil
}

// GetOrder returns an order with its items
func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

// GetStatus returns the status of an order, served from cache when possible
func (s *orderService) GetStatus(ctx context.Context, id uuid.UUID) (domain.OrderStatus, error) {
	if s.cache != nil {
		status, found, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger.Warn("Status cache read failed", zap.Error(err))
		} else if found {
			return status, nil
		}
	}

	status, err := s.orderRepo.FindStatus(ctx, id)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Fill(ctx, id, status); err != nil {
			s.logger.Warn("Status cache fill failed", zap.Error(err), zap.String("order_id", id.String()))
		}
	}
	return status, nil
}

// ListByCustomerEmail returns orders placed with the given email
func (s *orderService) ListByCustomerEmail(ctx context.Context, email string) ([]*domain.Order, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	return s.orderRepo.ListByCustomerEmail(ctx, email)
}

// ListAll returns every order, newest first
func (s *orderService) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return s.orderRepo.ListAll(ctx)
}

// UpdateStatus moves an order along its lifecycle. Cancelling returns the
// items to stock in the same transaction.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, &FieldError{Field: "status", Message: fmt.Sprintf("unknown status %q", status)}
	}

	var order *domain.Order
	var previous domain.OrderStatus

	err := s.uow.Do(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		order, err = repos.Orders.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		previous = order.Status
		if previous == status {
			return nil
		}

		if !domain.CanTransition(previous, status) {
			return &TransitionError{From: previous, To: status}
		}

		if status == domain.OrderStatusCancelled {
			for _, item := range order.Items {
				if err := repos.Products.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
					return fmt.Errorf("failed to restock product %s: %w", item.ProductID, err)
				}
			}
		}

		if err := repos.Orders.UpdateStatus(ctx, id, status); err != nil {
			return err
		}

		order.Status = status
		order.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if previous == status {
		return order, nil
	}

	s.logger.Info("Order status changed",
		zap.String("order_id", id.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
	)

	s.cacheStatus(ctx, id, status)
	s.publish(ctx, events.EventOrderStatusChanged, id, events.OrderStatusChangedPayload{
		OrderID: id.String(),
		From:    string(previous),
		To:      string(status),
	})

	return order, nil
}

func (s *orderService) cacheStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, id, status); err != nil {
		s.logger.Warn("Status cache write failed", zap.Error(err), zap.String("order_id", id.String()))
	}
}

func (s *orderService) publish(ctx context.Context, eventType string, orderID uuid.UUID, payload any) {
	env, err := events.NewEnvelope(eventType, ProducerName, orderID.String(), payload)
	if err == nil {
		err = s.publisher.Publish(ctx, env)
	}
	if err != nil {
		s.logger.Warn("Failed to publish event",
			zap.Error(err),
			zap.String("event_type", eventType),
			zap.String("order_id", orderID.String()),
		)
	}
}

func placedPayload(order *domain.Order) events.OrderPlacedPayload {
	items := make([]events.ItemPrice, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, events.ItemPrice{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return events.OrderPlacedPayload{
		OrderID:       order.ID.String(),
		CustomerEmail: order.Customer.Email,
		Items:         items,
		TotalAmount:   order.TotalAmount,
	}
}

func validateOrderRequest(customer domain.Customer, lines []domain.OrderLine) error {
	if err := validate.Struct(customer); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return &FieldError{Field: "customer." + strings.ToLower(fieldErrs[0].Field()), Message: "is missing or invalid"}
		}
		return &FieldError{Field: "customer", Message: "is invalid"}
	}

	if len(lines) == 0 {
		return &FieldError{Field: "items", Message: "at least one item is required"}
	}

	for i, line := range lines {
		if line.ProductID == uuid.Nil {
			return &FieldError{Field: fmt.Sprintf("items[%d].product", i), Message: "is required"}
		}
		if line.Quantity < 1 {
			return &FieldError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "must be at least 1"}
		}
	}

	return nil
}
