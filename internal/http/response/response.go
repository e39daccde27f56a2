// Package response holds the unified JSON envelope of all HTTP handlers and
// the mapping from the service error taxonomy to HTTP status codes.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator"

	"github.com/vitaleevo/holyfinance/internal/lib/errs"
)

const (
	// StatusOK is the status value of a successful response.
	StatusOK = "OK"
	// StatusError is the status value of a failed response.
	StatusError = "Error"
)

// OKResponse is the envelope of a successful response.
type OKResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse is the envelope of a failed response. Details carries
// machine-readable context (which quota, which feature) so the UI can
// explain a denial instead of parsing the message.
type ErrorResponse struct {
	Status  string         `json:"status" example:"Error"`
	Error   string         `json:"error" example:"invalid request body"`
	Details map[string]any `json:"details,omitempty"`
}

// OK returns a successful response without data.
func OK() OKResponse {
	return OKResponse{Status: StatusOK}
}

// OKWithData returns a successful response carrying data.
func OKWithData(data any) OKResponse {
	return OKResponse{Status: StatusOK, Data: data}
}

// Error returns a failed response with the given message.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Status: StatusError, Error: msg}
}

// ValidationError renders validator violations as one human-readable message.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "numeric":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only numbers", err.Field()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of: %s", err.Field(), err.Param()))
		case "gt":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be greater than %s", err.Field(), err.Param()))
		case "ne":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must not be %s", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return ErrorResponse{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}

// MapError translates a service error into an HTTP status and body. Unknown
// errors collapse to 500 with a generic message so internals never leak.
func MapError(err error) (int, ErrorResponse) {
	var quotaErr *errs.QuotaExceededError
	var featureErr *errs.FeatureNotAvailableError
	var validationErr *errs.ValidationError
	var externalErr *errs.ExternalServiceError

	switch {
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, Error("not found")
	case errors.Is(err, errs.ErrUnauthenticated):
		return http.StatusUnauthorized, Error("unauthenticated")
	case errors.Is(err, errs.ErrSessionExpired):
		return http.StatusUnauthorized, Error("session expired")
	case errors.Is(err, errs.ErrAlreadyExists):
		return http.StatusConflict, Error("already exists")
	case errors.As(err, &quotaErr):
		return http.StatusForbidden, ErrorResponse{
			Status: StatusError,
			Error:  quotaErr.Error(),
			Details: map[string]any{
				"resource": quotaErr.Resource,
				"limit":    quotaErr.Limit,
			},
		}
	case errors.As(err, &featureErr):
		return http.StatusForbidden, ErrorResponse{
			Status: StatusError,
			Error:  featureErr.Error(),
			Details: map[string]any{
				"feature": featureErr.Feature,
			},
		}
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity, Error(validationErr.Error())
	case errors.As(err, &externalErr):
		return http.StatusBadGateway, Error("external service unavailable")
	default:
		return http.StatusInternalServerError, Error("internal server error")
	}
}
