package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Repositories groups repositories bound to a single transaction
type Repositories struct {
	Products ProductRepository
	Orders   OrderRepository
	Users    UserRepository
}

// UnitOfWork runs a function inside one database transaction
type UnitOfWork interface {
	// Do commits when fn returns nil and rolls back otherwise.
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

type sqlUnitOfWork struct {
	db *sql.DB
}

// NewUnitOfWork creates a UnitOfWork backed by database/sql transactions
func NewUnitOfWork(db *sql.DB) UnitOfWork {
	return &sqlUnitOfWork{db: db}
}

func (u *sqlUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	repos := Repositories{
		Products: NewProductRepository(tx),
		Orders:   NewOrderRepository(tx),
		Users:    NewUserRepository(tx),
	}

	if err := fn(ctx, repos); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
