package repository

import (
	"context"
	"fmt"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

// AddressRepository defines the interface for address data access
type AddressRepository interface {
	Create(ctx context.Context, address *domain.Address) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.Address, error)
}

type addressRepository struct {
	db DBTX
}

// NewAddressRepository creates a new instance of AddressRepository
func NewAddressRepository(db DBTX) AddressRepository {
	return &addressRepository{db: db}
}

// Create inserts a new address using parameterized queries
func (r *addressRepository) Create(ctx context.Context, address *domain.Address) error {
	query := `
		INSERT INTO addresses (id, customer_id, address_line1, address_line2, city, state, zip_code, country, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		address.ID,
		address.CustomerID,
		address.AddressLine1,
		address.AddressLine2,
		address.City,
		address.State,
		address.ZipCode,
		address.Country,
		address.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}

	return nil
}

// ListByCustomer retrieves a customer's addresses, newest first
func (r *addressRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.Address, error) {
	query := `
		SELECT id, customer_id, address_line1, address_line2, city, state, zip_code, country, created_at
		FROM addresses
		WHERE customer_id = $1
		ORDER BY created_at DESC, id
	`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer rows.Close()

	addresses := []*domain.Address{}
	for rows.Next() {
		address := &domain.Address{}
		err := rows.Scan(
			&address.ID,
			&address.CustomerID,
			&address.AddressLine1,
			&address.AddressLine2,
			&address.City,
			&address.State,
			&address.ZipCode,
			&address.Country,
			&address.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, address)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating addresses: %w", err)
	}

	return addresses, nil
}
