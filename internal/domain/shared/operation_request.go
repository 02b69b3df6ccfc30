package shared

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrMissingAccountID       = errors.New("account id is required")
	ErrMissingCounterparty    = errors.New("destination account id is required for transfers")
)

// OperationRequest describes one ledger operation submitted by a caller.
// CounterpartyAccountID is only meaningful for transfers, where AccountID is the source.
type OperationRequest struct {
	OperationID           uuid.UUID       `json:"operation_id"`
	Type                  TransactionType `json:"type"`
	AccountID             uuid.UUID       `json:"account_id"`
	CounterpartyAccountID uuid.UUID       `json:"counterparty_account_id,omitempty"`
	Amount                decimal.Decimal `json:"amount"`
	Description           string          `json:"description"`
	CorrelationID         string          `json:"correlation_id,omitempty"`
	RequestedAt           time.Time       `json:"requested_at"`
}

// NewOperationRequest creates a request for a single-account operation
func NewOperationRequest(t TransactionType, accountID uuid.UUID, amount decimal.Decimal, description string) *OperationRequest {
	return &OperationRequest{
		OperationID: uuid.New(),
		Type:        t,
		AccountID:   accountID,
		Amount:      amount,
		Description: description,
		RequestedAt: time.Now().UTC(),
	}
}

// NewTransferRequest creates a request moving amount from one account to another
func NewTransferRequest(fromID, toID uuid.UUID, amount decimal.Decimal, description string) *OperationRequest {
	r := NewOperationRequest(TransactionTypeTransfer, fromID, amount, description)
	r.CounterpartyAccountID = toID
	return r
}

// Validate checks the request shape. Amount rules belong to the account itself.
func (r *OperationRequest) Validate() error {
	if !r.Type.IsValid() {
		return ErrInvalidTransactionType
	}
	if r.AccountID == uuid.Nil {
		return ErrMissingAccountID
	}
	if r.Type == TransactionTypeTransfer && r.CounterpartyAccountID == uuid.Nil {
		return ErrMissingCounterparty
	}
	return nil
}
