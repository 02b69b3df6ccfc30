package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/financial-operations-ledger/internal/domain/customer"
	"github.com/financial-operations-ledger/internal/platform/persistence"
)

const (
	insertCustomerQuery = `
		INSERT INTO customers (id, name, document, email, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`

	selectCustomersQuery = `
		SELECT id, name, document, email, created_at
		FROM customers
		ORDER BY created_at, id
	`
)

// CustomerRepository implements customer.Store
type CustomerRepository struct {
	db     persistence.Querier
	logger *slog.Logger
}

var _ customer.Store = (*CustomerRepository)(nil)

func NewCustomerRepository(logger *slog.Logger, db *persistence.PostgresDB) *CustomerRepository {
	return &CustomerRepository{
		db:     db.Pool(),
		logger: logger,
	}
}

// SaveCustomer inserts the customer once; customers are never updated
func (r *CustomerRepository) SaveCustomer(ctx context.Context, c customer.Record) error {
	if _, err := r.db.Exec(ctx, insertCustomerQuery, c.ID, c.Name, c.Document, c.Email, c.CreatedAt); err != nil {
		r.logger.Error("Failed to save customer", "customer_id", c.ID, "error", err)
		return fmt.Errorf("failed to save customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) LoadCustomers(ctx context.Context) ([]customer.Record, error) {
	rows, err := r.db.Query(ctx, selectCustomersQuery)
	if err != nil {
		r.logger.Error("Failed to query customers", "error", err)
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var records []customer.Record
	for rows.Next() {
		var c customer.Record
		if err := rows.Scan(&c.ID, &c.Name, &c.Document, &c.Email, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		records = append(records, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}
	return records, nil
}
