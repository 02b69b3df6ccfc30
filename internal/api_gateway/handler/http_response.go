package handler

import (
	"log/slog"
	"net/http"

	"github.com/financial-operations-ledger/internal/api_gateway/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Error codes carried in ErrorInfo.Code
const (
	CodeBadRequest        = "BAD_REQUEST"
	CodeNotFound          = "NOT_FOUND"
	CodeInsufficientFunds = "INSUFFICIENT_FUNDS"
	CodeInternal          = "INTERNAL_SERVER_ERROR"
)

// Response is the envelope of every JSON body. Exactly one of Data and Error is set.
type Response struct {
	Data          any        `json:"data,omitempty"`
	Error         *ErrorInfo `json:"error,omitempty"`
	CorrelationID string     `json:"correlation_id,omitempty"`
	Meta          *MetaInfo  `json:"meta,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MetaInfo describes the page returned by a listing endpoint
type MetaInfo struct {
	Page       int `json:"page,omitempty"`
	PerPage    int `json:"per_page,omitempty"`
	TotalPages int `json:"total_pages,omitempty"`
	TotalItems int `json:"total_items,omitempty"`
}

func newMeta(page, perPage, totalItems int) *MetaInfo {
	meta := &MetaInfo{Page: page, PerPage: perPage, TotalItems: totalItems}
	if perPage > 0 {
		meta.TotalPages = (totalItems + perPage - 1) / perPage
	}
	return meta
}

func send(c *gin.Context, status int, body Response) {
	body.CorrelationID = middleware.GetCorrelationID(c)
	c.JSON(status, body)
}

func RespondWithError(c *gin.Context, status int, code, message string) {
	send(c, status, Response{Error: &ErrorInfo{Code: code, Message: message}})
}

func RespondWithPaginatedData(c *gin.Context, status int, data any, page, perPage, totalItems int) {
	send(c, status, Response{Data: data, Meta: newMeta(page, perPage, totalItems)})
}

func RespondOK(c *gin.Context, data any) {
	send(c, http.StatusOK, Response{Data: data})
}

func RespondCreated(c *gin.Context, data any) {
	send(c, http.StatusCreated, Response{Data: data})
}

func RespondBadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, CodeBadRequest, message)
}

// RespondNotFound falls back to a generic message when message is empty
func RespondNotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, CodeNotFound, message)
}

// RespondUnprocessable reports an operation that would break a balance rule
func RespondUnprocessable(c *gin.Context, message string) {
	RespondWithError(c, http.StatusUnprocessableEntity, CodeInsufficientFunds, message)
}

// RespondInternalError hides the cause; callers log it first
func RespondInternalError(c *gin.Context) {
	RespondWithError(c, http.StatusInternalServerError, CodeInternal, "An internal server error occurred")
}

// pathID parses the :id route parameter, answering 400 when it is not a UUID
func pathID(c *gin.Context, logger *slog.Logger, kind string) (uuid.UUID, bool) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		logger.Warn("Rejected malformed id", "kind", kind, "id", raw, "error", err)
		RespondBadRequest(c, "Invalid "+kind+" ID")
		return uuid.Nil, false
	}
	return id, true
}
