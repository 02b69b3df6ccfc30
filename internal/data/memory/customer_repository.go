package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/financial-operations-ledger/internal/domain/account"
	"github.com/financial-operations-ledger/internal/domain/customer"
	"github.com/google/uuid"
)

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository keeps customers in memory and optionally writes them
// through to a durable store on Add.
type CustomerRepository struct {
	mu         sync.RWMutex
	customers  map[uuid.UUID]*customer.Customer
	byDocument map[string]uuid.UUID

	store  customer.Store
	logger *slog.Logger
}

// NewCustomerRepository creates the repository. store may be nil.
func NewCustomerRepository(logger *slog.Logger, store customer.Store) *CustomerRepository {
	return &CustomerRepository{
		customers:  make(map[uuid.UUID]*customer.Customer),
		byDocument: make(map[string]uuid.UUID),
		store:      store,
		logger:     logger,
	}
}

// Hydrate loads stored customers and links each one to the accounts that
// name it as owner. Run it after the account repository is hydrated.
func (r *CustomerRepository) Hydrate(ctx context.Context, accounts account.Repository) (int, error) {
	if r.store == nil {
		return 0, nil
	}
	records, err := r.store.LoadCustomers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load customers: %w", err)
	}

	loaded := 0
	for _, rec := range records {
		owned, err := accounts.GetByCustomerID(ctx, rec.ID)
		if err != nil {
			return loaded, fmt.Errorf("failed to list accounts of customer %s: %w", rec.ID, err)
		}
		ids := make([]uuid.UUID, 0, len(owned))
		for _, acc := range owned {
			ids = append(ids, acc.ID())
		}

		r.mu.Lock()
		_, exists := r.customers[rec.ID]
		if !exists {
			r.put(customer.Restore(rec, ids))
			loaded++
		}
		r.mu.Unlock()
	}
	r.logger.Info("Hydrated customers from store", "count", loaded)
	return loaded, nil
}

func (r *CustomerRepository) Add(ctx context.Context, c *customer.Customer) error {
	r.mu.Lock()
	if _, exists := r.byDocument[c.Document]; exists {
		r.mu.Unlock()
		return customer.ErrDuplicateDocument{Document: c.Document}
	}
	r.put(c)
	r.mu.Unlock()

	if r.store == nil {
		return nil
	}
	if err := r.store.SaveCustomer(ctx, c.Record()); err != nil {
		r.logger.Error("Failed to persist customer", "customer_id", c.ID, "error", err)
		return fmt.Errorf("failed to persist customer %s: %w", c.ID, err)
	}
	return nil
}

func (r *CustomerRepository) put(c *customer.Customer) {
	r.customers[c.ID] = c
	r.byDocument[c.Document] = c.ID
}

func (r *CustomerRepository) GetByID(_ context.Context, id uuid.UUID) (*customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, customer.ErrCustomerNotFound{CustomerID: id}
	}
	return c, nil
}

func (r *CustomerRepository) GetByDocument(_ context.Context, document string) (*customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byDocument[document]
	if !ok {
		return nil, customer.ErrCustomerNotFound{Document: document}
	}
	return r.customers[id], nil
}

// GetAll returns customers ordered by name
func (r *CustomerRepository) GetAll(_ context.Context) ([]*customer.Customer, error) {
	r.mu.RLock()
	out := make([]*customer.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, c)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].Document < out[j].Document
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
