package api

import (
	"errors"
	"net/http"

	"github.com/Veraticus/bookkeeper/internal/common"
	"github.com/Veraticus/bookkeeper/internal/storage"
	"github.com/gin-gonic/gin"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeUnprocessable  = "UNPROCESSABLE"
	CodeUnavailable    = "ASSISTANT_UNAVAILABLE"
	CodeInternal       = "INTERNAL_ERROR"
)

func (s *Server) respondError(c *gin.Context, err error) {
	status, code := classifyError(err)

	message := err.Error()
	var userErr *common.UserError
	if errors.As(err, &userErr) {
		message = userErr.UserMessage
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.FullPath(), "error", err)
		message = "internal error"
	}

	c.JSON(status, ErrorResponse{Error: message, Code: code})
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, common.ErrDuplicateEntry):
		return http.StatusConflict, CodeConflict
	case errors.Is(err, common.ErrEmptyChartOfAccounts), errors.Is(err, common.ErrNoTransactions):
		return http.StatusUnprocessableEntity, CodeUnprocessable
	case errors.Is(err, common.ErrAssistantUnavailable):
		return http.StatusBadGateway, CodeUnavailable
	case errors.Is(err, storage.ErrInvalidID),
		errors.Is(err, storage.ErrEmptyString),
		errors.Is(err, storage.ErrInvalidTransaction),
		errors.Is(err, storage.ErrInvalidRule):
		return http.StatusBadRequest, CodeInvalidRequest
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: CodeInvalidRequest})
}
