package handler

import (
	"errors"
	"log/slog"

	"github.com/financial-operations-ledger/internal/api_gateway/service"
	"github.com/financial-operations-ledger/internal/domain/account"
	"github.com/financial-operations-ledger/internal/domain/customer"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AccountHandler handles HTTP requests for accounts and their owners
type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// GetByID retrieves an account by its ID, returning 404 if not found
func (h *AccountHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, h.logger, "account")
	if !ok {
		return
	}

	acc, err := h.accountService.GetAccountByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound{}) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to get account", "id", id, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// ListCustomers returns all customers ordered by name
func (h *AccountHandler) ListCustomers(c *gin.Context) {
	customers, err := h.accountService.ListCustomers(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list customers", "error", err)
		RespondInternalError(c)
		return
	}

	response := make([]CustomerResponse, 0, len(customers))
	for _, cust := range customers {
		response = append(response, mapCustomerToResponse(cust))
	}
	RespondOK(c, response)
}

// GetCustomerAccounts returns a customer's accounts with their summed balances and limits
func (h *AccountHandler) GetCustomerAccounts(c *gin.Context) {
	id, ok := pathID(c, h.logger, "customer")
	if !ok {
		return
	}

	cust, accounts, err := h.accountService.GetCustomerAccounts(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, customer.ErrCustomerNotFound{}) {
			RespondNotFound(c, "Customer not found")
			return
		}
		h.logger.Error("Failed to get customer accounts", "id", id, "error", err)
		RespondInternalError(c)
		return
	}

	response := CustomerAccountsResponse{
		Customer:     mapCustomerToResponse(cust),
		Accounts:     make([]AccountResponse, 0, len(accounts)),
		TotalBalance: decimal.Zero,
		TotalLimit:   decimal.Zero,
	}
	for _, acc := range accounts {
		mapped := mapAccountToResponse(acc)
		response.Accounts = append(response.Accounts, mapped)
		response.TotalBalance = response.TotalBalance.Add(mapped.TotalBalance)
		response.TotalLimit = response.TotalLimit.Add(mapped.TotalLimit)
	}
	RespondOK(c, response)
}
