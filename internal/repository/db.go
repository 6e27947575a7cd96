package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so every repository can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Repositories bundles every repository bound to the same connection
type Repositories struct {
	Users     UserRepository
	Sessions  SessionRepository
	Products  ProductRepository
	Carts     CartRepository
	Orders    OrderRepository
	Ratings   RatingRepository
	Addresses AddressRepository
}

// New binds all repositories to db
func New(db DBTX) Repositories {
	return Repositories{
		Users:     NewUserRepository(db),
		Sessions:  NewSessionRepository(db),
		Products:  NewProductRepository(db),
		Carts:     NewCartRepository(db),
		Orders:    NewOrderRepository(db),
		Ratings:   NewRatingRepository(db),
		Addresses: NewAddressRepository(db),
	}
}

// Transactor runs a unit of work atomically
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}

type sqlTransactor struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTransactor creates a Transactor backed by db
func NewTransactor(db *sql.DB, logger *zap.Logger) Transactor {
	return &sqlTransactor{db: db, logger: logger}
}

// WithinTx commits when fn returns nil and rolls back otherwise
func (t *sqlTransactor) WithinTx(ctx context.Context, fn func(repos Repositories) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(New(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			t.logger.Error("Failed to roll back transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
