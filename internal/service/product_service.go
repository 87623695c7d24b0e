package service

import (
	"context"
	"fmt"
	"time"

	"honey-shop/internal/domain"
	"honey-shop/internal/repository"

	"github.com/google/uuid"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// ListParams controls catalog paging and sorting
type ListParams struct {
	Page      int
	PageSize  int
	SortBy    string
	SortOrder repository.SortOrder
}

// ProductPage is one page of the catalog
type ProductPage struct {
	Products []*domain.Product `json:"products"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// ProductService defines catalog operations
type ProductService interface {
	List(ctx context.Context, params ListParams) (*ProductPage, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Seed(ctx context.Context, products []*domain.Product) error
}

type productService struct {
	productRepo repository.ProductRepository
	uow         repository.UnitOfWork
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository, uow repository.UnitOfWork) ProductService {
	return &productService{productRepo: productRepo, uow: uow}
}

func (s *productService) List(ctx context.Context, params ListParams) (*ProductPage, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = DefaultPageSize
	}
	if params.PageSize > MaxPageSize {
		params.PageSize = MaxPageSize
	}

	products, total, err := s.productRepo.List(ctx, params.Page, params.PageSize, params.SortBy, params.SortOrder)
	if err != nil {
		return nil, err
	}

	return &ProductPage{
		Products: products,
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// Seed upserts the given products by name in one transaction
func (s *productService) Seed(ctx context.Context, products []*domain.Product) error {
	for _, p := range products {
		if p.Name == "" || !p.Price.IsPositive() || p.Stock < 0 {
			return &FieldError{Field: "product", Message: fmt.Sprintf("invalid seed product %q", p.Name)}
		}
	}

	return s.uow.Do(ctx, func(ctx context.Context, repos repository.Repositories) error {
		now := time.Now()
		for _, p := range products {
			if p.ID == uuid.Nil {
				p.ID = uuid.New()
			}
			p.CreatedAt, p.UpdatedAt = now, now
			if err := repos.Products.UpsertByName(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
}
