package errors

import "fmt"

type ErrorCode string

const (
	// Generic codes
	ErrInvalidInput               ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData         ErrorCode = "INVALID_REQUEST_DATA"
	ErrNotFound                   ErrorCode = "NOT_FOUND"
	ErrAlreadyExists              ErrorCode = "ALREADY_EXISTS"
	ErrUnauthorized               ErrorCode = "UNAUTHORIZED"
	ErrForbidden                  ErrorCode = "FORBIDDEN"
	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"
	ErrInternalServer             ErrorCode = "INTERNAL_SERVER_ERROR"

	// Scheduling codes
	ErrAlreadyClaimed        ErrorCode = "ALREADY_CLAIMED"
	ErrConflict              ErrorCode = "CONFLICT"
	ErrExpired               ErrorCode = "EXPIRED"
	ErrSuperseded            ErrorCode = "SUPERSEDED"
	ErrInvalidCandidateState ErrorCode = "INVALID_CANDIDATE_STATE"

	// Billing codes
	ErrPricingNotConfigured ErrorCode = "PRICING_NOT_CONFIGURED"
	ErrGatewayUnavailable   ErrorCode = "GATEWAY_UNAVAILABLE"
)

// AppError is the error type returned by all service layers.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether err is an *AppError carrying the given code.
func Is(err error, code ErrorCode) bool {
	ae, ok := err.(*AppError)
	return ok && ae.Code == code
}
