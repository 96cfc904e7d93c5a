package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeNotFound   = "NOT_FOUND"
)

// Inventory business error codes. These mirror the domain error codes so
// clients see the same vocabulary the engine uses.
const (
	ErrCodeInvalidQuantity     = "INVALID_QUANTITY"
	ErrCodeInvalidItem         = "INVALID_ITEM"
	ErrCodeInvalidMovement     = "INVALID_MOVEMENT"
	ErrCodeInvalidBatch        = "INVALID_BATCH"
	ErrCodeInsufficientStock   = "INSUFFICIENT_STOCK"
	ErrCodeExpiredBatchBlocked = "EXPIRED_BATCH_BLOCKED"
	ErrCodeConstraintViolation = "CONSTRAINT_VIOLATION"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeNotFound:   http.StatusNotFound,

	// Malformed input -> 400
	ErrCodeInvalidQuantity: http.StatusBadRequest,
	ErrCodeInvalidItem:     http.StatusBadRequest,
	ErrCodeInvalidMovement: http.StatusBadRequest,
	ErrCodeInvalidBatch:    http.StatusBadRequest,

	// Business rules -> 422
	ErrCodeInsufficientStock:   http.StatusUnprocessableEntity,
	ErrCodeExpiredBatchBlocked: http.StatusUnprocessableEntity,

	// Conflicts -> 409
	ErrCodeConstraintViolation: http.StatusConflict,
	ErrCodeAlreadyExists:       http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting to 500
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
