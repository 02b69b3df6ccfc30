package shared

import "github.com/google/uuid"

// OperationResult lists the transactions an operation recorded, in commit order.
// A transfer yields the source debit followed by the destination credit.
type OperationResult struct {
	OperationID    uuid.UUID   `json:"operation_id"`
	TransactionIDs []uuid.UUID `json:"transaction_ids"`
}
