package account

import (
	"context"

	"github.com/google/uuid"
)

// Repository resolves and stores accounts.
// GetByID must return the same *Account for the same id on every call so
// that the per-account lock is shared by all callers.
type Repository interface {
	Add(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	Save(ctx context.Context, account *Account) error
	GetByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*Account, error)
	GetAll(ctx context.Context) ([]*Account, error)
}

// SnapshotStore is a durable copy of account state written through on Save
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snapshot Snapshot) error
	LoadSnapshots(ctx context.Context) ([]Snapshot, error)
}

// ErrAccountNotFound indicates missing account
type ErrAccountNotFound struct {
	AccountID uuid.UUID
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.AccountID.String()
}

// Is matches any ErrAccountNotFound when the target carries no id
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	return t.AccountID == uuid.Nil || e.AccountID == t.AccountID
}

// ErrDuplicateAccount indicates the id is already registered
type ErrDuplicateAccount struct {
	AccountID uuid.UUID
}

func (e ErrDuplicateAccount) Error() string {
	return "account already exists: " + e.AccountID.String()
}
