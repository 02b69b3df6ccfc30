package customer

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/financial-operations-ledger/internal/domain/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyName     = errors.New("customer name cannot be empty")
	ErrEmptyDocument = errors.New("customer document cannot be empty")
	ErrInvalidEmail  = errors.New("customer email is invalid")
)

// Customer owns zero or more ledger accounts
type Customer struct {
	ID        uuid.UUID
	Name      string
	Document  string
	Email     string
	CreatedAt time.Time

	mu         sync.RWMutex
	accountIDs []uuid.UUID
}

func NewCustomer(name, document, email string) (*Customer, error) {
	name, document, email = strings.TrimSpace(name), strings.TrimSpace(document), strings.TrimSpace(email)
	if name == "" {
		return nil, ErrEmptyName
	}
	if document == "" {
		return nil, ErrEmptyDocument
	}
	if at := strings.Index(email, "@"); at <= 0 || at == len(email)-1 {
		return nil, ErrInvalidEmail
	}

	return &Customer{
		ID:        uuid.New(),
		Name:      name,
		Document:  document,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// OpenAccount creates a new account owned by the customer
func (c *Customer) OpenAccount(creditLimit decimal.Decimal) (*account.Account, error) {
	acc, err := account.NewAccount(c.ID, creditLimit)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.accountIDs = append(c.accountIDs, acc.ID())
	c.mu.Unlock()
	return acc, nil
}

func (c *Customer) AccountIDs() []uuid.UUID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]uuid.UUID, len(c.accountIDs))
	copy(out, c.accountIDs)
	return out
}

func (c *Customer) Record() Record {
	return Record{ID: c.ID, Name: c.Name, Document: c.Document, Email: c.Email, CreatedAt: c.CreatedAt}
}

// Restore rebuilds a stored customer together with the accounts it owns
func Restore(r Record, accountIDs []uuid.UUID) *Customer {
	return &Customer{
		ID:         r.ID,
		Name:       r.Name,
		Document:   r.Document,
		Email:      r.Email,
		CreatedAt:  r.CreatedAt,
		accountIDs: slices.Clone(accountIDs),
	}
}
