package handler

import (
	"time"

	"github.com/financial-operations-ledger/internal/domain/account"
	"github.com/financial-operations-ledger/internal/domain/customer"
	"github.com/financial-operations-ledger/internal/domain/ledger"
	"github.com/financial-operations-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OperationAmountRequest is the body of the single-account operations
type OperationAmountRequest struct {
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Description string           `json:"description" binding:"max=255"`
}

// TransferRequest represents a request to move funds between two accounts
type TransferRequest struct {
	FromAccountID string           `json:"from_account_id" binding:"required,uuid"`
	ToAccountID   string           `json:"to_account_id" binding:"required,uuid"`
	Amount        *decimal.Decimal `json:"amount" binding:"required"`
	Description   string           `json:"description" binding:"max=255"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID               string          `json:"id"`
	CustomerID       string          `json:"customer_id"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	ReservedBalance  decimal.Decimal `json:"reserved_balance"`
	CreditLimit      decimal.Decimal `json:"credit_limit"`
	TotalBalance     decimal.Decimal `json:"total_balance"`
	TotalLimit       decimal.Decimal `json:"total_limit"`
	Status           string          `json:"status"`
	Version          int64           `json:"version"`
	TransactionCount int             `json:"transaction_count"`
	CreatedAt        string          `json:"created_at"`
	UpdatedAt        string          `json:"updated_at"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	TransactionID         string          `json:"transaction_id"`
	AccountID             string          `json:"account_id"`
	Type                  string          `json:"type"`
	Amount                decimal.Decimal `json:"amount"`
	Description           string          `json:"description,omitempty"`
	Status                string          `json:"status"`
	OriginalTransactionID string          `json:"original_transaction_id,omitempty"`
	CreatedAt             string          `json:"created_at"`
	ProcessedAt           string          `json:"processed_at"`
}

type CustomerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Document  string `json:"document"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// CustomerAccountsResponse lists a customer's accounts with aggregated totals
type CustomerAccountsResponse struct {
	Customer     CustomerResponse  `json:"customer"`
	Accounts     []AccountResponse `json:"accounts"`
	TotalBalance decimal.Decimal   `json:"total_balance"`
	TotalLimit   decimal.Decimal   `json:"total_limit"`
}

// OperationResponse is returned by every write endpoint
type OperationResponse struct {
	OperationID    string            `json:"operation_id"`
	TransactionIDs []string          `json:"transaction_ids"`
	Accounts       []AccountResponse `json:"accounts"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}

func mapAccountToResponse(acc *account.Account) AccountResponse {
	s := acc.Snapshot()
	return AccountResponse{
		ID:               s.ID.String(),
		CustomerID:       s.CustomerID.String(),
		AvailableBalance: s.AvailableBalance,
		ReservedBalance:  s.ReservedBalance,
		CreditLimit:      s.CreditLimit,
		TotalBalance:     s.AvailableBalance.Add(s.ReservedBalance),
		TotalLimit:       s.AvailableBalance.Add(s.CreditLimit),
		Status:           string(s.Status),
		Version:          s.Version,
		TransactionCount: len(s.Transactions),
		CreatedAt:        s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        s.UpdatedAt.Format(time.RFC3339),
	}
}

func mapTransactionToResponse(tx *ledger.Transaction) TransactionResponse {
	response := TransactionResponse{
		TransactionID: tx.ID.String(),
		AccountID:     tx.AccountID.String(),
		Type:          string(tx.Type),
		Amount:        tx.Amount,
		Description:   tx.Description,
		Status:        string(tx.Status),
		CreatedAt:     tx.CreatedAt.Format(time.RFC3339),
		ProcessedAt:   tx.ProcessedAt.Format(time.RFC3339),
	}
	if tx.OriginalTransactionID != nil {
		response.OriginalTransactionID = tx.OriginalTransactionID.String()
	}
	return response
}

func mapCustomerToResponse(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Document:  c.Document,
		Email:     c.Email,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

func mapOperationToResponse(result *shared.OperationResult, accounts []*account.Account) OperationResponse {
	response := OperationResponse{
		OperationID:    result.OperationID.String(),
		TransactionIDs: make([]string, 0, len(result.TransactionIDs)),
		Accounts:       make([]AccountResponse, 0, len(accounts)),
	}
	for _, id := range result.TransactionIDs {
		response.TransactionIDs = append(response.TransactionIDs, id.String())
	}
	for _, acc := range accounts {
		response.Accounts = append(response.Accounts, mapAccountToResponse(acc))
	}
	return response
}
