package apiErrors

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Error codes returned to the dashboard client.
const (
	// Validation (VAL_xxx)
	ErrInvalidRequest      = "VAL_001" // body is not valid JSON or has the wrong shape
	ErrMissingRequiredData = "VAL_002" // required field absent
	ErrInvalidFormat       = "VAL_003" // CSV could not be parsed
	ErrPayloadTooLarge     = "VAL_004"

	// Authentication (AUTH_xxx)
	ErrUnauthorized = "AUTH_001"

	// Resource (RES_xxx)
	ErrNotFound = "RES_001"

	// Server (SRV_xxx)
	ErrInternalServer  = "SRV_001"
	ErrExternalService = "SRV_003"
	ErrCommunication   = "SRV_004"
)

var httpStatusMap = map[string]int{
	ErrInvalidRequest:      http.StatusBadRequest,
	ErrMissingRequiredData: http.StatusBadRequest,
	ErrInvalidFormat:       http.StatusBadRequest,
	ErrPayloadTooLarge:     http.StatusRequestEntityTooLarge,
	ErrNotFound:            http.StatusNotFound,
	ErrUnauthorized:        http.StatusUnauthorized,
	ErrInternalServer:      http.StatusInternalServerError,
	ErrExternalService:     http.StatusBadGateway,
	ErrCommunication:       http.StatusServiceUnavailable,
}

type APIError struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// StatusFor returns the HTTP status for an error code, 500 when unknown.
func StatusFor(code string) int {
	if status, ok := httpStatusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WriteError writes the standard error body.
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	apiErr := APIError{
		Error:   message,
		Code:    code,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(code))
	_ = json.NewEncoder(w).Encode(apiErr)
}

// FromError wraps a Go error in an API error.
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Error: "unknown error",
			Code:  ErrInternalServer,
		}
	}

	return APIError{
		Error: err.Error(),
		Code:  code,
	}
}
