package helpers

import (
	"encoding/json"
	"errors"
	"net/http"

	"clubportal/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest         = "bad_request"
	ErrCodeUnauthorized       = "unauthorized"
	ErrCodeForbidden          = "forbidden"
	ErrCodeNotFound           = "not_found"
	ErrCodeConflict           = "conflict"
	ErrCodeQuotaExceeded      = "quota_exceeded"
	ErrCodeGone               = "gone"
	ErrCodeTooManyRequests    = "too_many_requests"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeInternalError      = "internal_error"
)

// APIError is the error object in the standardized API response envelope.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil. On error: Data is nil, Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// WriteJSONSuccess sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with the given data and error set to nil.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Data: data, Error: nil})
}

// WriteJSONError sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with data nil and the given error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Data:  nil,
		Error: &APIError{Code: code, Message: message},
	})
}

// WriteDomainError maps a service error onto status and error code. It returns the status
// so callers can decide whether to log.
func WriteDomainError(w http.ResponseWriter, err error) int {
	var (
		status  int
		code    string
		message = err.Error()
	)
	var qerr *domain.QuotaError
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &qerr):
		status, code, message = http.StatusConflict, ErrCodeQuotaExceeded, qerr.Error()
	case errors.As(err, &verr):
		status, code, message = http.StatusBadRequest, ErrCodeBadRequest, verr.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = http.StatusBadRequest, ErrCodeBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status, code, message = http.StatusNotFound, ErrCodeNotFound, "not found"
	case errors.Is(err, domain.ErrForbidden):
		status, code, message = http.StatusForbidden, ErrCodeForbidden, "forbidden"
	case errors.Is(err, domain.ErrNotRedeemable):
		status, code = http.StatusGone, ErrCodeGone
	case errors.Is(err, domain.ErrAlreadyMember):
		status, code = http.StatusConflict, ErrCodeConflict
	case errors.Is(err, domain.ErrStoreUnavailable):
		status, code, message = http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "store unavailable, nothing was saved"
	default:
		status, code, message = http.StatusInternalServerError, ErrCodeInternalError, "internal error"
	}
	WriteJSONError(w, status, code, message)
	return status
}
