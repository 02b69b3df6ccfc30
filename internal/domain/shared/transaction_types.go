package shared

import "strings"

// TransactionType identifies the ledger mutation a transaction records
type TransactionType string

const (
	TransactionTypeCredit   TransactionType = "CREDIT"
	TransactionTypeDebit    TransactionType = "DEBIT"
	TransactionTypeReserve  TransactionType = "RESERVE"
	TransactionTypeCapture  TransactionType = "CAPTURE"
	TransactionTypeRefund   TransactionType = "REFUND"
	TransactionTypeTransfer TransactionType = "TRANSFER"
)

// ParseTransactionType accepts any casing of a known type name
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", ErrInvalidTransactionType
	}
	return t, nil
}

func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeCredit, TransactionTypeDebit, TransactionTypeReserve,
		TransactionTypeCapture, TransactionTypeRefund, TransactionTypeTransfer:
		return true
	}
	return false
}

// TransactionStatus defines the lifecycle state of a recorded transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusReversed  TransactionStatus = "REVERSED"
)

// AccountStatus defines account lifecycle states
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusInactive AccountStatus = "INACTIVE"
	AccountStatusBlocked  AccountStatus = "BLOCKED"
)
