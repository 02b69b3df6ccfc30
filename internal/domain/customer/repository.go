package customer

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines customer lookup and registration
type Repository interface {
	Add(ctx context.Context, customer *Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	GetByDocument(ctx context.Context, document string) (*Customer, error)
	GetAll(ctx context.Context) ([]*Customer, error)
}

// Record is the durable form of a customer. Owned accounts are not part of it;
// they are recovered from the accounts' customer ids.
type Record struct {
	ID        uuid.UUID
	Name      string
	Document  string
	Email     string
	CreatedAt time.Time
}

// Store is a durable copy of registered customers, written through on Add
type Store interface {
	SaveCustomer(ctx context.Context, record Record) error
	LoadCustomers(ctx context.Context) ([]Record, error)
}

// ErrCustomerNotFound indicates missing customer
type ErrCustomerNotFound struct {
	CustomerID uuid.UUID
	Document   string
}

func (e ErrCustomerNotFound) Error() string {
	if e.Document != "" {
		return "customer not found for document: " + e.Document
	}
	return "customer not found: " + e.CustomerID.String()
}

func (e ErrCustomerNotFound) Is(target error) bool {
	_, ok := target.(ErrCustomerNotFound)
	return ok
}

// ErrDuplicateDocument indicates document uniqueness violation
type ErrDuplicateDocument struct {
	Document string
}

func (e ErrDuplicateDocument) Error() string {
	return "customer with document already exists: " + e.Document
}
