package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

type panicBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// Recovery answers a panicking handler with a 500 in the regular error envelope
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			body := panicBody{CorrelationID: GetCorrelationID(c)}
			body.Error.Code = "INTERNAL_SERVER_ERROR"
			body.Error.Message = "An internal server error occurred"

			logger.Error("Panic recovered",
				"error", r,
				"method", c.Request.Method,
				"route", c.FullPath(),
				"path", c.Request.URL.Path,
				"correlation_id", body.CorrelationID,
				"stack", string(debug.Stack()),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, body)
		}()

		c.Next()
	}
}
