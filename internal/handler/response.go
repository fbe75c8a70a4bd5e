package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ridenow/internal/domain"
	"ridenow/internal/repository"
	"ridenow/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code == http.StatusInternalServerError {
		// Storage and internal failures map to a generic retryable message;
		// the underlying error is never leaked to the client.
		c.JSON(code, ErrorResponse{Error: "temporary failure, please retry"})
		return
	}
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidRiderID),
		errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidWalletID),
		errors.Is(err, service.ErrMissingPickupLocation),
		errors.Is(err, service.ErrMissingDropLocation),
		errors.Is(err, service.ErrInvalidDistance),
		errors.Is(err, service.ErrInvalidRideType),
		errors.Is(err, service.ErrInvalidRideStatus),
		errors.Is(err, service.ErrInvalidTransactionType),
		errors.Is(err, service.ErrInvalidVehicleModel),
		errors.Is(err, service.ErrInvalidVehicleNumber),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest

	// Conflict errors - caller bug or stale client state
	case errors.Is(err, service.ErrIllegalTransition),
		errors.Is(err, service.ErrIllegalAssignment),
		errors.Is(err, service.ErrDriverUnavailable),
		errors.Is(err, service.ErrAssignmentInProgress),
		errors.Is(err, service.ErrDriverAlreadyRegistered),
		errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict

	// Business rule: payment failure
	case errors.Is(err, service.ErrInsufficientBalance):
		return http.StatusPaymentRequired

	// Retryable: no supply right now
	case errors.Is(err, service.ErrNoDriversAvailable):
		return http.StatusServiceUnavailable

	// LedgerFailure, storage errors: internal
	default:
		return http.StatusInternalServerError
	}
}
