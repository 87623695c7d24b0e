package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"honey-shop/internal/domain"
	"honey-shop/internal/events"
	"honey-shop/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory backing store shared by the mock repositories
type memStore struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	products map[uuid.UUID]domain.Product
	orders   map[uuid.UUID]domain.Order
	users    map[string]domain.User
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[uuid.UUID]domain.Product),
		orders:   make(map[uuid.UUID]domain.Order),
		users:    make(map[string]domain.User),
	}
}

func (s *memStore) addProduct(name string, price string, stock int) *domain.Product {
	p := domain.Product{
		ID:        uuid.New(),
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Stock:     stock,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.mu.Lock()
	s.products[p.ID] = p
	s.mu.Unlock()
	return &p
}

func (s *memStore) stock(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].Stock
}

func (s *memStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *memStore) repositories() repository.Repositories {
	return repository.Repositories{
		Products: &memProductRepository{s: s},
		Orders:   &memOrderRepository{s: s},
		Users:    &memUserRepository{s: s},
	}
}

// memUnitOfWork serializes transactions and restores a snapshot on failure
type memUnitOfWork struct {
	s *memStore
}

func (u *memUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	u.s.txMu.Lock()
	defer u.s.txMu.Unlock()

	u.s.mu.Lock()
	products := make(map[uuid.UUID]domain.Product, len(u.s.products))
	for k, v := range u.s.products {
		products[k] = v
	}
	orders := make(map[uuid.UUID]domain.Order, len(u.s.orders))
	for k, v := range u.s.orders {
		orders[k] = v
	}
	users := make(map[string]domain.User, len(u.s.users))
	for k, v := range u.s.users {
		users[k] = v
	}
	u.s.mu.Unlock()

	if err := fn(ctx, u.s.repositories()); err != nil {
		u.s.mu.Lock()
		u.s.products, u.s.orders, u.s.users = products, orders, users
		u.s.mu.Unlock()
		return err
	}
	return nil
}

type memProductRepository struct {
	s *memStore
}

func (r *memProductRepository) Create(ctx context.Context, product *domain.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products[product.ID] = *product
	return nil
}

func (r *memProductRepository) UpsertByName(ctx context.Context, product *domain.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, p := range r.s.products {
		if p.Name == product.Name {
			product.ID = id
			product.CreatedAt = p.CreatedAt
			break
		}
	}
	r.s.products[product.ID] = *product
	return nil
}

func (r *memProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return &p, nil
}

func (r *memProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *memProductRepository) List(ctx context.Context, page, pageSize int, sortBy string, sortOrder repository.SortOrder) ([]*domain.Product, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]*domain.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		p := p
		all = append(all, &p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	start := (page - 1) * pageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (r *memProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	if p.Stock < quantity {
		return repository.ErrInsufficientStock
	}
	p.Stock -= quantity
	r.s.products[id] = p
	return nil
}

func (r *memProductRepository) IncrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	p.Stock += quantity
	r.s.products[id] = p
	return nil
}

type memOrderRepository struct {
	s *memStore
}

func (r *memOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o := *order
	o.Items = append([]domain.OrderItem(nil), order.Items...)
	r.s.orders[o.ID] = o
	return nil
}

func (r *memOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	return &o, nil
}

func (r *memOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return r.FindByID(ctx, id)
}

func (r *memOrderRepository) FindStatus(ctx context.Context, id uuid.UUID) (domain.OrderStatus, error) {
	o, err := r.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	return o.Status, nil
}

func (r *memOrderRepository) ListByCustomerEmail(ctx context.Context, email string) ([]*domain.Order, error) {
	all, _ := r.ListAll(ctx)
	out := make([]*domain.Order, 0)
	for _, o := range all {
		if o.Customer.Email == email {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memOrderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.Order, 0, len(r.s.orders))
	for _, o := range r.s.orders {
		o := o
		out = append(out, &o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	o.Status = status
	r.s.orders[id] = o
	return nil
}

type memUserRepository struct {
	s *memStore
}

func (r *memUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	r.s.users[user.Email] = *user
	return nil
}

func (r *memUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (r *memUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *memUserRepository) FindFirstByRole(ctx context.Context, role string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var first *domain.User
	for _, u := range r.s.users {
		if u.Role != role {
			continue
		}
		if first == nil || u.CreatedAt.Before(first.CreatedAt) {
			u := u
			first = &u
		}
	}
	if first == nil {
		return nil, repository.ErrUserNotFound
	}
	return first, nil
}

// LockBootstrap is a no-op: memUnitOfWork already serializes transactions
func (r *memUserRepository) LockBootstrap(ctx context.Context) error {
	return nil
}

// memStatusCache is a map-backed StatusCache
type memStatusCache struct {
	mu       sync.Mutex
	statuses map[uuid.UUID]domain.OrderStatus
	gets     int
}

func newMemStatusCache() *memStatusCache {
	return &memStatusCache{statuses: make(map[uuid.UUID]domain.OrderStatus)}
}

func (c *memStatusCache) Get(ctx context.Context, orderID uuid.UUID) (domain.OrderStatus, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	s, ok := c.statuses[orderID]
	return s, ok, nil
}

func (c *memStatusCache) Set(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses[orderID] = status
	return nil
}

func (c *memStatusCache) Fill(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.statuses[orderID]; !ok {
		c.statuses[orderID] = status
	}
	return nil
}

// recordingPublisher keeps every published envelope
type recordingPublisher struct {
	mu        sync.Mutex
	envelopes []events.Envelope
}

func (p *recordingPublisher) Publish(ctx context.Context, env events.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.envelopes = append(p.envelopes, env)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.envelopes))
	for _, e := range p.envelopes {
		out = append(out, e.EventType)
	}
	return out
}
