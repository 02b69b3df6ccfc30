package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/financial-operations-ledger/internal/api_gateway/middleware"
	"github.com/financial-operations-ledger/internal/api_gateway/service"
	"github.com/financial-operations-ledger/internal/domain/account"
	"github.com/financial-operations-ledger/internal/domain/shared"
	"github.com/financial-operations-ledger/internal/ledger_service/dispatcher"
	ledgerservice "github.com/financial-operations-ledger/internal/ledger_service/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OperationHandler handles the write side of the ledger
type OperationHandler struct {
	operations     ledgerservice.OperationService
	accountService service.AccountService
	logger         *slog.Logger
}

func NewOperationHandler(logger *slog.Logger, operations ledgerservice.OperationService, accountService service.AccountService) *OperationHandler {
	return &OperationHandler{
		operations:     operations,
		accountService: accountService,
		logger:         logger,
	}
}

func (h *OperationHandler) Credit(c *gin.Context) {
	h.single(c, shared.TransactionTypeCredit)
}

func (h *OperationHandler) Debit(c *gin.Context) {
	h.single(c, shared.TransactionTypeDebit)
}

func (h *OperationHandler) Reserve(c *gin.Context) {
	h.single(c, shared.TransactionTypeReserve)
}

func (h *OperationHandler) Capture(c *gin.Context) {
	h.single(c, shared.TransactionTypeCapture)
}

func (h *OperationHandler) Refund(c *gin.Context) {
	h.single(c, shared.TransactionTypeRefund)
}

// Transfer moves funds from one account to another
func (h *OperationHandler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if !req.Amount.IsPositive() {
		RespondBadRequest(c, account.ErrInvalidAmount.Error())
		return
	}

	request := shared.NewTransferRequest(uuid.MustParse(req.FromAccountID), uuid.MustParse(req.ToAccountID), *req.Amount, req.Description)
	h.execute(c, request)
}

func (h *OperationHandler) single(c *gin.Context, t shared.TransactionType) {
	accountID, ok := pathID(c, h.logger, "account")
	if !ok {
		return
	}

	var req OperationAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if !req.Amount.IsPositive() {
		RespondBadRequest(c, account.ErrInvalidAmount.Error())
		return
	}

	h.execute(c, shared.NewOperationRequest(t, accountID, *req.Amount, req.Description))
}

func (h *OperationHandler) execute(c *gin.Context, request *shared.OperationRequest) {
	request.CorrelationID = middleware.GetCorrelationID(c)

	result, err := h.operations.Execute(c.Request.Context(), request)
	if err != nil {
		h.respondError(c, request, err)
		return
	}

	ids := []uuid.UUID{request.AccountID}
	if request.Type == shared.TransactionTypeTransfer {
		ids = append(ids, request.CounterpartyAccountID)
	}
	accounts := make([]*account.Account, 0, len(ids))
	for _, id := range ids {
		acc, err := h.accountService.GetAccountByID(c.Request.Context(), id)
		if err != nil {
			h.logger.Error("Failed to load account after operation", "account_id", id.String(), "error", err)
			RespondInternalError(c)
			return
		}
		accounts = append(accounts, acc)
	}

	RespondCreated(c, mapOperationToResponse(result, accounts))
}

func (h *OperationHandler) respondError(c *gin.Context, request *shared.OperationRequest, err error) {
	logger := h.logger.With(
		"operation_id", request.OperationID.String(),
		"type", string(request.Type),
		"account_id", request.AccountID.String(),
	)

	switch {
	case errors.Is(err, account.ErrInvalidAmount),
		errors.Is(err, account.ErrEqualAccounts),
		errors.Is(err, account.ErrUnsupportedTransactionType),
		errors.Is(err, shared.ErrInvalidTransactionType),
		errors.Is(err, shared.ErrMissingAccountID),
		errors.Is(err, shared.ErrMissingCounterparty):
		logger.Warn("Operation rejected", "error", err)
		RespondBadRequest(c, err.Error())
	case errors.Is(err, account.ErrAccountNotFound{}):
		logger.Warn("Operation rejected", "error", err)
		RespondNotFound(c, err.Error())
	case errors.Is(err, account.ErrInsufficientFunds),
		errors.Is(err, account.ErrInsufficientAvailableBalance),
		errors.Is(err, account.ErrInsufficientReservedBalance):
		logger.Warn("Operation rejected", "error", err)
		RespondUnprocessable(c, err.Error())
	case errors.Is(err, dispatcher.ErrDeliveryFailed):
		logger.Error("Operation committed but events were not delivered", "error", err)
		RespondWithError(c, http.StatusBadGateway, "DELIVERY_FAILED", "Operation committed but its events could not be delivered")
	case errors.Is(err, dispatcher.ErrCancelled):
		logger.Error("Operation committed but event dispatch was cancelled", "error", err)
		RespondWithError(c, http.StatusRequestTimeout, "DISPATCH_CANCELLED", "Operation committed but event dispatch was cancelled")
	case errors.Is(err, ledgerservice.ErrPartialFailure):
		logger.Error("Operation partially failed", "error", err)
		RespondWithError(c, http.StatusInternalServerError, "PARTIAL_FAILURE", "Operation committed but could not be persisted")
	default:
		logger.Error("Operation failed", "error", err)
		RespondInternalError(c)
	}
}
